package models

import "time"

// AuditLog - запись журнала аудита. Пишется в режиме fire-and-forget:
// сбой записи не влияет на основную операцию.
type AuditLog struct {
	ID          int64     `json:"id"`
	Action      string    `json:"action"`
	PerformedBy string    `json:"performed_by,omitempty"`
	Resource    string    `json:"resource,omitempty"`
	Details     string    `json:"details,omitempty"`
	PerformedAt time.Time `json:"performed_at"`
}
