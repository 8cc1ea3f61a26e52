package models

import (
	"time"

	"github.com/google/uuid"
)

// Hospital - доменная модель больницы с учетом коечного фонда
type Hospital struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Location      string    `json:"location,omitempty"`
	AvailableBeds int       `json:"available_beds"`
	ICUCapacity   int       `json:"icu_capacity"`
	ContactNumber string    `json:"contact_number,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
