package models

import (
	"time"

	"github.com/google/uuid"
)

// IncidentStatus - закрытое перечисление статусов инцидента
type IncidentStatus string

const (
	IncidentOpen       IncidentStatus = "Open"
	IncidentInProgress IncidentStatus = "InProgress"
	IncidentResolved   IncidentStatus = "Resolved"
	IncidentClosed     IncidentStatus = "Closed"
	IncidentCancelled  IncidentStatus = "Cancelled"
)

// Valid проверяет, что статус входит в перечисление
func (s IncidentStatus) Valid() bool {
	switch s {
	case IncidentOpen, IncidentInProgress, IncidentResolved, IncidentClosed, IncidentCancelled:
		return true
	}
	return false
}

// Terminal возвращает true для конечных статусов
func (s IncidentStatus) Terminal() bool {
	return s == IncidentClosed || s == IncidentCancelled
}

// CanTransitionTo проверяет допустимость перехода статуса:
// Open -> InProgress -> Resolved -> Closed, Cancelled достижим из Open и InProgress
func (s IncidentStatus) CanTransitionTo(next IncidentStatus) bool {
	switch s {
	case IncidentOpen:
		return next == IncidentInProgress || next == IncidentCancelled
	case IncidentInProgress:
		return next == IncidentResolved || next == IncidentCancelled
	case IncidentResolved:
		return next == IncidentClosed
	}
	return false
}

// Incident - доменная модель инцидента
type Incident struct {
	ID                  uuid.UUID      `json:"id"`
	Description         string         `json:"description"`
	Latitude            *float64       `json:"latitude,omitempty"`
	Longitude           *float64       `json:"longitude,omitempty"`
	AddressText         string         `json:"address_text,omitempty"`
	ReporterPhone       string         `json:"reporter_phone,omitempty"`
	SeverityScore       int            `json:"severity_score"`
	Status              IncidentStatus `json:"status"`
	CreatedAt           time.Time      `json:"created_at"`
	AssignedResponderID *uuid.UUID     `json:"assigned_responder_id,omitempty"`
	AssignedAt          *time.Time     `json:"assigned_at,omitempty"`
}

// HasCoordinates возвращает true, если обе координаты заданы.
// Частично заданные координаты считаются отсутствующими.
func (i *Incident) HasCoordinates() bool {
	return i.Latitude != nil && i.Longitude != nil
}

// Assigned возвращает true, если инциденту назначен ответчик
func (i *Incident) Assigned() bool {
	return i.AssignedResponderID != nil
}
