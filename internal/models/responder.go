package models

import (
	"github.com/google/uuid"
)

// ResponderStatus - закрытое перечисление статусов ответчика
type ResponderStatus string

const (
	ResponderOffline   ResponderStatus = "Offline"
	ResponderAvailable ResponderStatus = "Available"
	ResponderOnDuty    ResponderStatus = "OnDuty"
	ResponderBusy      ResponderStatus = "Busy"
)

// Valid проверяет, что статус входит в перечисление
func (s ResponderStatus) Valid() bool {
	switch s {
	case ResponderOffline, ResponderAvailable, ResponderOnDuty, ResponderBusy:
		return true
	}
	return false
}

// Responder - доменная модель мобильной бригады (машины скорой помощи)
type Responder struct {
	ID            uuid.UUID       `json:"id"`
	VehicleNumber string          `json:"vehicle_number"`
	CurrentStatus ResponderStatus `json:"current_status"`
	Latitude      *float64        `json:"latitude,omitempty"`
	Longitude     *float64        `json:"longitude,omitempty"`
	PhoneNumber   string          `json:"phone_number"`
}

// HasCoordinates возвращает true, если бригада когда-либо сообщала координаты
func (r *Responder) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}
