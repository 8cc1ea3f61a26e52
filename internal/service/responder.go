package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/thikaresq/resqnet/internal/models"
)

// ResponderRepository определяет контракт для работы с бд ответчиков
type ResponderRepository interface {
	Create(ctx context.Context, responder *models.Responder) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Responder, error)
	Update(ctx context.Context, responder *models.Responder) error
	ListResponders(ctx context.Context) ([]*models.Responder, error)
	ListAvailable(ctx context.Context) ([]*models.Responder, error)
}

// ResponderService определяет контракт управления парком бригад
type ResponderService interface {
	CreateResponder(ctx context.Context, responder *models.Responder) error
	GetResponder(ctx context.Context, id uuid.UUID) (*models.Responder, error)
	UpdateResponder(ctx context.Context, responder *models.Responder) error
	ListResponders(ctx context.Context) ([]*models.Responder, error)
	ListAvailable(ctx context.Context) ([]*models.Responder, error)
}

type responderService struct {
	repo   ResponderRepository
	logger *logrus.Logger
}

func NewResponderService(repo ResponderRepository, logger *logrus.Logger) ResponderService {
	return &responderService{
		repo:   repo,
		logger: logger,
	}
}

// CreateResponder регистрирует новую бригаду
func (s *responderService) CreateResponder(ctx context.Context, responder *models.Responder) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "responder",
		"method":  "CreateResponder",
		"vehicle": responder.VehicleNumber,
	})
	log.Info("Attempting to create a new responder")

	if responder.CurrentStatus == "" {
		responder.CurrentStatus = models.ResponderOffline
	}
	if !responder.CurrentStatus.Valid() {
		return fmt.Errorf("service: unknown responder status %q", responder.CurrentStatus)
	}
	if (responder.Latitude == nil) != (responder.Longitude == nil) {
		return ErrPartialCoordinates
	}

	if err := s.repo.Create(ctx, responder); err != nil {
		log.WithError(err).Error("Failed to create responder in repository")
		return fmt.Errorf("service: could not create responder: %w", err)
	}

	log.WithField("responder_id", responder.ID).Info("Responder created successfully")
	return nil
}

// GetResponder получает бригаду по ID
func (s *responderService) GetResponder(ctx context.Context, id uuid.UUID) (*models.Responder, error) {
	responder, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service":      "responder",
			"method":       "GetResponder",
			"responder_id": id,
		}).WithError(err).Warn("Failed to get responder from repository")
		return nil, fmt.Errorf("service: could not get responder: %w", err)
	}
	return responder, nil
}

// UpdateResponder обновляет данные бригады: статус, координаты, машину, телефон
func (s *responderService) UpdateResponder(ctx context.Context, responder *models.Responder) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "responder",
		"method":       "UpdateResponder",
		"responder_id": responder.ID,
	})

	if !responder.CurrentStatus.Valid() {
		return fmt.Errorf("service: unknown responder status %q", responder.CurrentStatus)
	}
	if (responder.Latitude == nil) != (responder.Longitude == nil) {
		return ErrPartialCoordinates
	}

	existing, err := s.repo.GetByID(ctx, responder.ID)
	if err != nil {
		log.WithError(err).Warn("Attempted to update a non-existent responder")
		return fmt.Errorf("service: responder %s not found for update: %w", responder.ID, err)
	}

	existing.VehicleNumber = responder.VehicleNumber
	existing.CurrentStatus = responder.CurrentStatus
	existing.Latitude = responder.Latitude
	existing.Longitude = responder.Longitude
	existing.PhoneNumber = responder.PhoneNumber

	if err := s.repo.Update(ctx, existing); err != nil {
		log.WithError(err).Error("Failed to update responder in repository")
		return fmt.Errorf("service: could not update responder: %w", err)
	}

	log.Info("Responder updated successfully")
	return nil
}

// ListResponders возвращает все бригады
func (s *responderService) ListResponders(ctx context.Context) ([]*models.Responder, error) {
	responders, err := s.repo.ListResponders(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: could not list responders: %w", err)
	}
	return responders, nil
}

// ListAvailable возвращает бригады в статусе Available
func (s *responderService) ListAvailable(ctx context.Context) ([]*models.Responder, error) {
	responders, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: could not list available responders: %w", err)
	}
	return responders, nil
}
