package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/thikaresq/resqnet/internal/metrics"
	"github.com/thikaresq/resqnet/internal/models"
	"github.com/thikaresq/resqnet/internal/severity"
)

// IncidentRepository определяет контракт для работы с бд инцидентов
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.IncidentStatus) error
	ListIncidents(ctx context.Context, page, pageSize int) ([]*models.Incident, error)
	ListActive(ctx context.Context) ([]*models.Incident, error)
	ListByWindow(ctx context.Context, start, end *time.Time) ([]*models.Incident, error)
	GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	SetIncidentCache(ctx context.Context, incident *models.Incident) error
	InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error
}

// IncidentService определяет контракт бизнес-логики приема и ведения инцидентов
type IncidentService interface {
	ReportIncident(ctx context.Context, incident *models.Incident, actor string) error
	GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	ListIncidents(ctx context.Context, page, pageSize int) ([]*models.Incident, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.IncidentStatus, actor string) error
	CancelIncident(ctx context.Context, id uuid.UUID, actor string) error
}

type incidentService struct {
	repo       IncidentRepository
	classifier *severity.Classifier
	audit      AuditService
	logger     *logrus.Logger
	metrics    *metrics.Metrics
}

func NewIncidentService(repo IncidentRepository, classifier *severity.Classifier, audit AuditService, logger *logrus.Logger, m *metrics.Metrics) IncidentService {
	return &incidentService{
		repo:       repo,
		classifier: classifier,
		audit:      audit,
		logger:     logger,
		metrics:    m,
	}
}

// ReportIncident принимает обращение: проверяет местоположение, вычисляет
// оценку срочности по описанию и сохраняет инцидент в статусе Open
func (s *incidentService) ReportIncident(ctx context.Context, incident *models.Incident, actor string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "ReportIncident",
	})
	log.Info("Attempting to register a new emergency report")

	if (incident.Latitude == nil) != (incident.Longitude == nil) {
		return ErrPartialCoordinates
	}
	if !incident.HasCoordinates() && strings.TrimSpace(incident.AddressText) == "" {
		return ErrMissingLocation
	}

	level := s.classifier.Classify(incident.Description)
	incident.SeverityScore = level.Score()
	incident.Status = models.IncidentOpen
	incident.AssignedResponderID = nil
	incident.AssignedAt = nil

	if err := s.repo.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return fmt.Errorf("service: could not create incident: %w", err)
	}

	s.metrics.ReportsReceived.WithLabelValues(string(level)).Inc()
	s.audit.Log(ctx, "ReportSubmitted", actor, fmt.Sprintf("Incident:%s", incident.ID), incident.Description)

	log.WithFields(logrus.Fields{
		"incident_id": incident.ID,
		"severity":    level,
	}).Info("Emergency report registered successfully")
	return nil
}

// GetIncident получает инцидент по ID, сначала пробуя кеш
func (s *incidentService) GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id,
	})

	cached, err := s.repo.GetIncidentFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read incident from cache")
	}
	if cached != nil {
		return cached, nil
	}

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to get incident from repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}

	if err := s.repo.SetIncidentCache(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to cache incident")
	}
	return incident, nil
}

// ListIncidents возвращает список инцидентов с пагинацией
func (s *incidentService) ListIncidents(ctx context.Context, page, pageSize int) ([]*models.Incident, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	log := s.logger.WithFields(logrus.Fields{
		"service":   "incident",
		"method":    "ListIncidents",
		"page":      page,
		"page_size": pageSize,
	})

	incidents, err := s.repo.ListIncidents(ctx, page, pageSize)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	log.WithField("count", len(incidents)).Info("Incidents listed successfully")
	return incidents, nil
}

// UpdateStatus переводит инцидент в новый статус. Переходы проверяются по
// машине состояний: Open -> InProgress -> Resolved -> Closed, отмена
// возможна из Open и InProgress. Resolved требует существующего назначения.
func (s *incidentService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.IncidentStatus, actor string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "UpdateStatus",
		"incident_id": id,
		"status":      status,
	})

	if !status.Valid() {
		return fmt.Errorf("service: unknown incident status %q: %w", status, ErrInvalidTransition)
	}

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Attempted to update status of a non-existent incident")
		return fmt.Errorf("service: incident %s not found for status update: %w", id, err)
	}

	if !incident.Status.CanTransitionTo(status) {
		return fmt.Errorf("service: transition %s -> %s is not allowed: %w", incident.Status, status, ErrInvalidTransition)
	}
	if status == models.IncidentResolved && !incident.Assigned() {
		return fmt.Errorf("service: incident %s has no assignment to resolve: %w", id, ErrInvalidTransition)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		log.WithError(err).Error("Failed to update incident status in repository")
		return fmt.Errorf("service: could not update incident status: %w", err)
	}

	if err := s.repo.InvalidateIncidentCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}

	s.audit.Log(ctx, "StatusChanged", actor, fmt.Sprintf("Incident:%s", id), fmt.Sprintf("%s -> %s", incident.Status, status))
	log.Info("Incident status updated successfully")
	return nil
}

// CancelIncident отменяет инцидент, если он еще не в конечном статусе
func (s *incidentService) CancelIncident(ctx context.Context, id uuid.UUID, actor string) error {
	return s.UpdateStatus(ctx, id, models.IncidentCancelled, actor)
}
