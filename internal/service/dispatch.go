package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/thikaresq/resqnet/internal/geo"
	"github.com/thikaresq/resqnet/internal/metrics"
	"github.com/thikaresq/resqnet/internal/models"
	"github.com/thikaresq/resqnet/internal/notify"
)

// AssignmentRepository определяет контракт транзакционного назначения.
// Реализация обязана выполнять чтение и запись обеих строк (инцидента и
// ответчика) в одной транзакции с блокировкой строк, иначе два конкурентных
// вызова могут занять одного и того же ответчика.
type AssignmentRepository interface {
	AssignResponder(ctx context.Context, incidentID, responderID uuid.UUID, assignedAt time.Time, override bool) (*models.Responder, error)
}

// DispatchService определяет контракт движка диспетчеризации
type DispatchService interface {
	Dispatch(ctx context.Context, incidentID uuid.UUID, actor string) (uuid.UUID, error)
	Assign(ctx context.Context, incidentID, responderID uuid.UUID, override bool, actor string) error
	ListActiveIncidents(ctx context.Context) ([]*models.Incident, error)
}

type dispatchService struct {
	incidents  IncidentRepository
	responders ResponderRepository
	assignment AssignmentRepository
	audit      AuditService
	publisher  notify.Publisher
	logger     *logrus.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

func NewDispatchService(
	incidents IncidentRepository,
	responders ResponderRepository,
	assignment AssignmentRepository,
	audit AuditService,
	publisher notify.Publisher,
	logger *logrus.Logger,
	m *metrics.Metrics,
) DispatchService {
	return &dispatchService{
		incidents:  incidents,
		responders: responders,
		assignment: assignment,
		audit:      audit,
		publisher:  publisher,
		logger:     logger,
		metrics:    m,
		now:        time.Now,
	}
}

// candidate - доступный ответчик с расстоянием до инцидента
type candidate struct {
	responder *models.Responder
	distance  float64
}

// lookupResult различает отсутствие записи и сбой хранилища для метрики попыток
func lookupResult(err error) string {
	if errors.Is(err, ErrNotFound) {
		return "not_found"
	}
	return "storage_error"
}

// Dispatch подбирает ближайшего доступного ответчика и назначает его на
// инцидент. Кандидаты обходятся в порядке возрастания расстояния; при равном
// расстоянии побеждает меньший id - правило детерминированно. Если кандидат
// занят конкурентным вызовом между выборкой и захватом, берется следующий.
func (s *dispatchService) Dispatch(ctx context.Context, incidentID uuid.UUID, actor string) (uuid.UUID, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "dispatch",
		"method":      "Dispatch",
		"incident_id": incidentID,
	})
	log.Info("Attempting automatic dispatch")
	started := s.now()

	incident, err := s.incidents.GetByID(ctx, incidentID)
	if err != nil {
		s.metrics.DispatchAttempts.WithLabelValues(lookupResult(err)).Inc()
		return uuid.Nil, fmt.Errorf("service: could not load incident: %w", err)
	}

	available, err := s.responders.ListAvailable(ctx)
	if err != nil {
		s.metrics.DispatchAttempts.WithLabelValues("storage_error").Inc()
		return uuid.Nil, fmt.Errorf("service: could not list available responders: %w", err)
	}
	if len(available) == 0 {
		log.Warn("No available responders")
		s.metrics.DispatchAttempts.WithLabelValues("not_assignable").Inc()
		return uuid.Nil, fmt.Errorf("service: no available responders: %w", ErrNotAssignable)
	}

	// Инцидент только с адресом автоматически не диспетчеризуется:
	// без координат нет критерия близости
	if !incident.HasCoordinates() {
		log.Warn("Incident has no coordinates, cannot auto-dispatch")
		s.metrics.DispatchAttempts.WithLabelValues("not_assignable").Inc()
		return uuid.Nil, fmt.Errorf("service: incident has no coordinates: %w", ErrNotAssignable)
	}

	candidates := make([]candidate, 0, len(available))
	for _, r := range available {
		if !r.HasCoordinates() {
			continue
		}
		d := geo.Distance(*incident.Latitude, *incident.Longitude, *r.Latitude, *r.Longitude)
		candidates = append(candidates, candidate{responder: r, distance: d})
	}
	if len(candidates) == 0 {
		log.Warn("No available responder reports coordinates")
		s.metrics.DispatchAttempts.WithLabelValues("not_assignable").Inc()
		return uuid.Nil, fmt.Errorf("service: no responder with known location: %w", ErrNotAssignable)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].responder.ID.String() < candidates[j].responder.ID.String()
	})

	for _, c := range candidates {
		responder, err := s.assignment.AssignResponder(ctx, incidentID, c.responder.ID, s.now(), false)
		if err != nil {
			// Кандидата успели занять - пробуем следующего по расстоянию
			if errors.Is(err, ErrResponderUnavailable) {
				log.WithField("responder_id", c.responder.ID).Debug("Responder claimed concurrently, trying next candidate")
				continue
			}
			s.metrics.DispatchAttempts.WithLabelValues("rejected").Inc()
			return uuid.Nil, fmt.Errorf("service: could not assign responder: %w", err)
		}

		s.onAssigned(ctx, incident, responder, c.distance, actor, "AutoDispatched")
		s.metrics.DispatchAttempts.WithLabelValues("assigned").Inc()
		s.metrics.DispatchDuration.Observe(s.now().Sub(started).Seconds())
		log.WithFields(logrus.Fields{
			"responder_id":    responder.ID,
			"distance_meters": c.distance,
		}).Info("Responder dispatched successfully")
		return responder.ID, nil
	}

	log.Warn("All candidate responders were claimed concurrently")
	s.metrics.DispatchAttempts.WithLabelValues("not_assignable").Inc()
	return uuid.Nil, fmt.Errorf("service: all candidates claimed: %w", ErrNotAssignable)
}

// Assign выполняет ручное назначение ответчика диспетчером. Без флага
// override отклоняется, если у инцидента уже есть назначение или ответчик
// не в статусе Available. С флагом override назначение выполняется
// безусловно - так диспетчер исправляет ошибочное назначение.
func (s *dispatchService) Assign(ctx context.Context, incidentID, responderID uuid.UUID, override bool, actor string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "dispatch",
		"method":       "Assign",
		"incident_id":  incidentID,
		"responder_id": responderID,
		"override":     override,
	})
	log.Info("Attempting manual assignment")

	incident, err := s.incidents.GetByID(ctx, incidentID)
	if err != nil {
		s.metrics.DispatchAttempts.WithLabelValues(lookupResult(err)).Inc()
		return fmt.Errorf("service: could not load incident: %w", err)
	}

	responder, err := s.assignment.AssignResponder(ctx, incidentID, responderID, s.now(), override)
	if err != nil {
		if errors.Is(err, ErrRejected) {
			log.WithError(err).Warn("Manual assignment rejected")
			s.metrics.DispatchAttempts.WithLabelValues("rejected").Inc()
		} else {
			log.WithError(err).Error("Manual assignment failed")
			s.metrics.DispatchAttempts.WithLabelValues("storage_error").Inc()
		}
		return fmt.Errorf("service: could not assign responder: %w", err)
	}

	var distance float64
	if incident.HasCoordinates() && responder.HasCoordinates() {
		distance = geo.Distance(*incident.Latitude, *incident.Longitude, *responder.Latitude, *responder.Longitude)
	}
	s.onAssigned(ctx, incident, responder, distance, actor, "DispatchAssigned")
	s.metrics.DispatchAttempts.WithLabelValues("assigned").Inc()
	log.Info("Responder assigned successfully")
	return nil
}

// ListActiveIncidents возвращает инциденты в статусах Open и InProgress
func (s *dispatchService) ListActiveIncidents(ctx context.Context) ([]*models.Incident, error) {
	incidents, err := s.incidents.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: could not list active incidents: %w", err)
	}
	return incidents, nil
}

// onAssigned выполняет побочные действия успешного назначения: инвалидация
// кеша, запись аудита и постановка SMS-уведомления в очередь. Все действия
// fire-and-forget - их сбой не отменяет состоявшееся назначение.
func (s *dispatchService) onAssigned(ctx context.Context, incident *models.Incident, responder *models.Responder, distance float64, actor, action string) {
	if err := s.incidents.InvalidateIncidentCache(ctx, incident.ID); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate incident cache after assignment")
	}

	if distance > 0 {
		s.metrics.AssignmentDistance.Observe(distance)
	}

	s.audit.Log(ctx, action, actor,
		fmt.Sprintf("Incident:%s", incident.ID),
		fmt.Sprintf("Responder:%s", responder.ID))

	event := notify.Event{
		IncidentID:  incident.ID,
		ResponderID: responder.ID,
		Phone:       responder.PhoneNumber,
		Message:     fmt.Sprintf("Dispatch: incident %s, severity %d. %s", incident.ID, incident.SeverityScore, incident.AddressText),
		Timestamp:   s.now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WithError(err).Warn("Failed to enqueue SMS notification")
	}
}
