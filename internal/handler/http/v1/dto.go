package v1

import (
	"time"

	"github.com/google/uuid"
)

// ReportIncidentRequest DTO для приема экстренного обращения
// @Description DTO для приема экстренного обращения
type ReportIncidentRequest struct {
	Description   string   `json:"description" validate:"required,min=3,max=2000"`
	Latitude      *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude     *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	AddressText   string   `json:"address_text,omitempty" validate:"omitempty,max=1024"`
	ReporterPhone string   `json:"reporter_phone,omitempty" validate:"omitempty,max=20"`
}

// UpdateIncidentStatusRequest DTO для смены статуса инцидента
// @Description DTO для смены статуса инцидента
type UpdateIncidentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Open InProgress Resolved Closed Cancelled"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID                  uuid.UUID  `json:"id"`
	Description         string     `json:"description"`
	Latitude            *float64   `json:"latitude,omitempty"`
	Longitude           *float64   `json:"longitude,omitempty"`
	AddressText         string     `json:"address_text,omitempty"`
	ReporterPhone       string     `json:"reporter_phone,omitempty"`
	SeverityScore       int        `json:"severity_score"`
	Status              string     `json:"status"`
	CreatedAt           time.Time  `json:"created_at"`
	AssignedResponderID *uuid.UUID `json:"assigned_responder_id,omitempty"`
	AssignedAt          *time.Time `json:"assigned_at,omitempty"`
}

// ManualAssignRequest DTO для ручного назначения ответчика
// @Description DTO для ручного назначения ответчика
type ManualAssignRequest struct {
	IncidentID       uuid.UUID `json:"incident_id" validate:"required"`
	ResponderID      uuid.UUID `json:"responder_id" validate:"required"`
	OverrideExisting bool      `json:"override_existing"`
}

// DispatchResponse DTO для результата автоматической диспетчеризации
// @Description DTO для результата автоматической диспетчеризации
type DispatchResponse struct {
	IncidentID  uuid.UUID `json:"incident_id"`
	ResponderID uuid.UUID `json:"responder_id"`
}

// CreateResponderRequest DTO для регистрации бригады
// @Description DTO для регистрации бригады
type CreateResponderRequest struct {
	VehicleNumber string   `json:"vehicle_number" validate:"required,min=2,max=50"`
	CurrentStatus string   `json:"current_status,omitempty" validate:"omitempty,oneof=Offline Available OnDuty Busy"`
	Latitude      *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude     *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	PhoneNumber   string   `json:"phone_number" validate:"required,max=20"`
}

// UpdateResponderRequest DTO для обновления бригады
// @Description DTO для обновления бригады
type UpdateResponderRequest struct {
	VehicleNumber string   `json:"vehicle_number" validate:"required,min=2,max=50"`
	CurrentStatus string   `json:"current_status" validate:"required,oneof=Offline Available OnDuty Busy"`
	Latitude      *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude     *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	PhoneNumber   string   `json:"phone_number" validate:"required,max=20"`
}

// ResponderResponse DTO для ответа с информацией о бригаде
// @Description DTO для ответа с информацией о бригаде
type ResponderResponse struct {
	ID            uuid.UUID `json:"id"`
	VehicleNumber string    `json:"vehicle_number"`
	CurrentStatus string    `json:"current_status"`
	Latitude      *float64  `json:"latitude,omitempty"`
	Longitude     *float64  `json:"longitude,omitempty"`
	PhoneNumber   string    `json:"phone_number"`
}

// CreateHospitalRequest DTO для регистрации больницы
// @Description DTO для регистрации больницы
type CreateHospitalRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=200"`
	Location      string `json:"location,omitempty" validate:"omitempty,max=500"`
	AvailableBeds int    `json:"available_beds" validate:"gte=0"`
	ICUCapacity   int    `json:"icu_capacity" validate:"gte=0"`
	ContactNumber string `json:"contact_number,omitempty" validate:"omitempty,max=20"`
}

// HospitalResponse DTO для ответа с информацией о больнице
// @Description DTO для ответа с информацией о больнице
type HospitalResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Location      string    `json:"location,omitempty"`
	AvailableBeds int       `json:"available_beds"`
	ICUCapacity   int       `json:"icu_capacity"`
	ContactNumber string    `json:"contact_number,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ArrivalRequest DTO для подтверждения прибытия пострадавшего
// @Description DTO для подтверждения прибытия пострадавшего
type ArrivalRequest struct {
	IncidentID uuid.UUID `json:"incident_id" validate:"required"`
}

// MonthlyReportQuery - параметры месячного отчета
type MonthlyReportQuery struct {
	Year  int `form:"year" validate:"required,gte=2000,lte=2100"`
	Month int `form:"month" validate:"required,gte=1,lte=12"`
}
