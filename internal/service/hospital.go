package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/thikaresq/resqnet/internal/models"
)

// HospitalRepository определяет контракт для работы с бд больниц
type HospitalRepository interface {
	Create(ctx context.Context, hospital *models.Hospital) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Hospital, error)
	Update(ctx context.Context, hospital *models.Hospital) error
	ListHospitals(ctx context.Context) ([]*models.Hospital, error)
	// RegisterArrival в одной транзакции уменьшает число свободных коек и
	// переводит инцидент в статус Resolved
	RegisterArrival(ctx context.Context, hospitalID, incidentID uuid.UUID) error
}

// HospitalService определяет контракт учета больниц и подтверждения прибытия
type HospitalService interface {
	CreateHospital(ctx context.Context, hospital *models.Hospital) error
	GetHospital(ctx context.Context, id uuid.UUID) (*models.Hospital, error)
	UpdateHospital(ctx context.Context, hospital *models.Hospital) error
	ListHospitals(ctx context.Context) ([]*models.Hospital, error)
	ConfirmArrival(ctx context.Context, hospitalID, incidentID uuid.UUID, actor string) error
}

type hospitalService struct {
	repo      HospitalRepository
	incidents IncidentRepository
	audit     AuditService
	logger    *logrus.Logger
}

func NewHospitalService(repo HospitalRepository, incidents IncidentRepository, audit AuditService, logger *logrus.Logger) HospitalService {
	return &hospitalService{
		repo:      repo,
		incidents: incidents,
		audit:     audit,
		logger:    logger,
	}
}

// CreateHospital регистрирует больницу
func (s *hospitalService) CreateHospital(ctx context.Context, hospital *models.Hospital) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "hospital",
		"method":  "CreateHospital",
		"name":    hospital.Name,
	})

	if err := s.repo.Create(ctx, hospital); err != nil {
		log.WithError(err).Error("Failed to create hospital in repository")
		return fmt.Errorf("service: could not create hospital: %w", err)
	}

	log.WithField("hospital_id", hospital.ID).Info("Hospital created successfully")
	return nil
}

// GetHospital получает больницу по ID
func (s *hospitalService) GetHospital(ctx context.Context, id uuid.UUID) (*models.Hospital, error) {
	hospital, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not get hospital: %w", err)
	}
	return hospital, nil
}

// UpdateHospital обновляет данные больницы, включая коечный фонд
func (s *hospitalService) UpdateHospital(ctx context.Context, hospital *models.Hospital) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "hospital",
		"method":      "UpdateHospital",
		"hospital_id": hospital.ID,
	})

	existing, err := s.repo.GetByID(ctx, hospital.ID)
	if err != nil {
		log.WithError(err).Warn("Attempted to update a non-existent hospital")
		return fmt.Errorf("service: hospital %s not found for update: %w", hospital.ID, err)
	}

	existing.Name = hospital.Name
	existing.Location = hospital.Location
	existing.AvailableBeds = hospital.AvailableBeds
	existing.ICUCapacity = hospital.ICUCapacity
	existing.ContactNumber = hospital.ContactNumber

	if err := s.repo.Update(ctx, existing); err != nil {
		log.WithError(err).Error("Failed to update hospital in repository")
		return fmt.Errorf("service: could not update hospital: %w", err)
	}

	log.Info("Hospital updated successfully")
	return nil
}

// ListHospitals возвращает все больницы
func (s *hospitalService) ListHospitals(ctx context.Context) ([]*models.Hospital, error) {
	hospitals, err := s.repo.ListHospitals(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: could not list hospitals: %w", err)
	}
	return hospitals, nil
}

// ConfirmArrival подтверждает доставку пострадавшего: занимает койку и
// закрывает инцидент как Resolved. Обе записи меняются в одной транзакции.
func (s *hospitalService) ConfirmArrival(ctx context.Context, hospitalID, incidentID uuid.UUID, actor string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "hospital",
		"method":      "ConfirmArrival",
		"hospital_id": hospitalID,
		"incident_id": incidentID,
	})
	log.Info("Confirming patient arrival")

	if err := s.repo.RegisterArrival(ctx, hospitalID, incidentID); err != nil {
		log.WithError(err).Error("Failed to register arrival")
		return fmt.Errorf("service: could not register arrival: %w", err)
	}

	if err := s.incidents.InvalidateIncidentCache(ctx, incidentID); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache after arrival")
	}

	s.audit.Log(ctx, "PatientArrived", actor,
		fmt.Sprintf("Hospital:%s", hospitalID),
		fmt.Sprintf("Incident:%s", incidentID))
	log.Info("Arrival confirmed successfully")
	return nil
}
