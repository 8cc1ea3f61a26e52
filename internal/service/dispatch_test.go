package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/thikaresq/resqnet/internal/metrics"
	"github.com/thikaresq/resqnet/internal/models"
	notify_mocks "github.com/thikaresq/resqnet/internal/notify/mocks"
	"github.com/thikaresq/resqnet/internal/service/mocks"
)

// newTestDispatchService — вспомогательная функция для создания движка диспетчеризации с моками.
func newTestDispatchService(t *testing.T) (*dispatchService, *mocks.MockIncidentRepository, *mocks.MockResponderRepository, *mocks.MockAssignmentRepository, *mocks.MockAuditService, *notify_mocks.MockPublisher) {
	ctrl := gomock.NewController(t)
	incidentsMock := mocks.NewMockIncidentRepository(ctrl)
	respondersMock := mocks.NewMockResponderRepository(ctrl)
	assignmentMock := mocks.NewMockAssignmentRepository(ctrl)
	auditMock := mocks.NewMockAuditService(ctrl)
	publisherMock := notify_mocks.NewMockPublisher(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	m := metrics.New(prometheus.NewRegistry())

	service := NewDispatchService(incidentsMock, respondersMock, assignmentMock, auditMock, publisherMock, logger, m)
	return service.(*dispatchService), incidentsMock, respondersMock, assignmentMock, auditMock, publisherMock
}

func f64(v float64) *float64 {
	return &v
}

func openIncidentAt(lat, lon float64) *models.Incident {
	return &models.Incident{
		ID:            uuid.New(),
		Description:   "Тестовый инцидент",
		Status:        models.IncidentOpen,
		SeverityScore: 9,
		Latitude:      f64(lat),
		Longitude:     f64(lon),
		AddressText:   "Thika Town",
	}
}

func availableResponderAt(lat, lon float64) *models.Responder {
	return &models.Responder{
		ID:            uuid.New(),
		VehicleNumber: "KDA 001A",
		CurrentStatus: models.ResponderAvailable,
		Latitude:      f64(lat),
		Longitude:     f64(lon),
		PhoneNumber:   "+254700000001",
	}
}

func TestDispatch_SelectsNearestResponder(t *testing.T) {
	// Подготовка
	service, incidentsMock, respondersMock, assignmentMock, auditMock, publisherMock := newTestDispatchService(t)
	ctx := context.Background()
	assignedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return assignedAt }

	incident := openIncidentAt(-1.0333, 37.0693)

	// Три доступных ответчика: ~2 км, ~500 м и ~50 м от инцидента
	far := availableResponderAt(-1.0513, 37.0693)
	mid := availableResponderAt(-1.0378, 37.0693)
	near := availableResponderAt(-1.03375, 37.0693)

	// Ожидания
	incidentsMock.EXPECT().
		GetByID(ctx, incident.ID).
		Return(incident, nil).
		Times(1)

	respondersMock.EXPECT().
		ListAvailable(ctx).
		Return([]*models.Responder{far, mid, near}, nil).
		Times(1)

	claimed := *near
	claimed.CurrentStatus = models.ResponderOnDuty
	assignmentMock.EXPECT().
		AssignResponder(ctx, incident.ID, near.ID, assignedAt, false).
		Return(&claimed, nil).
		Times(1)

	incidentsMock.EXPECT().
		InvalidateIncidentCache(ctx, incident.ID).
		Return(nil).
		Times(1)

	auditMock.EXPECT().
		Log(ctx, "AutoDispatched", "dispatcher", fmt.Sprintf("Incident:%s", incident.ID), fmt.Sprintf("Responder:%s", near.ID)).
		Times(1)

	publisherMock.EXPECT().
		Publish(ctx, gomock.Any()).
		Return(nil).
		Times(1)

	// Действие
	responderID, err := service.Dispatch(ctx, incident.ID, "dispatcher")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, near.ID, responderID)
}

func TestDispatch_TieBreaksByLowestID(t *testing.T) {
	// Подготовка
	service, incidentsMock, respondersMock, assignmentMock, auditMock, publisherMock := newTestDispatchService(t)
	ctx := context.Background()
	assignedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return assignedAt }

	incident := openIncidentAt(-1.0333, 37.0693)

	// Два ответчика в одной точке: при равном расстоянии побеждает меньший id
	first := availableResponderAt(-1.0340, 37.0693)
	second := availableResponderAt(-1.0340, 37.0693)
	winner := first
	if second.ID.String() < first.ID.String() {
		winner = second
	}

	// Ожидания
	incidentsMock.EXPECT().
		GetByID(ctx, incident.ID).
		Return(incident, nil).
		Times(1)

	respondersMock.EXPECT().
		ListAvailable(ctx).
		Return([]*models.Responder{first, second}, nil).
		Times(1)

	claimed := *winner
	claimed.CurrentStatus = models.ResponderOnDuty
	assignmentMock.EXPECT().
		AssignResponder(ctx, incident.ID, winner.ID, assignedAt, false).
		Return(&claimed, nil).
		Times(1)

	incidentsMock.EXPECT().
		InvalidateIncidentCache(ctx, incident.ID).
		Return(nil).
		Times(1)

	auditMock.EXPECT().
		Log(ctx, "AutoDispatched", "dispatcher", gomock.Any(), gomock.Any()).
		Times(1)

	publisherMock.EXPECT().
		Publish(ctx, gomock.Any()).
		Return(nil).
		Times(1)

	// Действие
	responderID, err := service.Dispatch(ctx, incident.ID, "dispatcher")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, winner.ID, responderID)
}

func TestDispatch_NoAvailableResponders(t *testing.T) {
	// Подготовка
	service, incidentsMock, respondersMock, _, _, _ := newTestDispatchService(t)
	ctx := context.Background()
	incident := openIncidentAt(-1.0333, 37.0693)

	// Ожидания
	incidentsMock.EXPECT().
		GetByID(ctx, incident.ID).
		Return(incident, nil).
		Times(1)

	respondersMock.EXPECT().
		ListAvailable(ctx).
		Return([]*models.Responder{}, nil).
		Times(1)

	// Действие
	_, err := service.Dispatch(ctx, incident.ID, "dispatcher")

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotAssignable)
}

func TestDispatch_IncidentWithoutCoordinates(t *testing.T) {
	// Подготовка
	service, incidentsMock, respondersMock, _, _, _ := newTestDispatchService(t)
	ctx := context.Background()

	// Обращение только с текстовым адресом не диспетчеризуется автоматически
	incident := &models.Incident{
		ID:          uuid.New(),
		Description: "Авария без координат",
		Status:      models.IncidentOpen,
		AddressText: "Makongeni Estate",
	}

	// Ожидания
	incidentsMock.EXPECT().
		GetByID(ctx, incident.ID).
		Return(incident, nil).
		Times(1)

	respondersMock.EXPECT().
		ListAvailable(ctx).
		Return([]*models.Responder{availableResponderAt(-1.0340, 37.0693)}, nil).
		Times(1)

	// Действие
	_, err := service.Dispatch(ctx, incident.ID, "dispatcher")

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotAssignable)
}

func TestDispatch_SkipsConcurrentlyClaimedCandidate(t *testing.T) {
	// Подготовка
	service, incidentsMock, respondersMock, assignmentMock, auditMock, publisherMock := newTestDispatchService(t)
	ctx := context.Background()
	assignedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return assignedAt }

	incident := openIncidentAt(-1.0333, 37.0693)
	near := availableResponderAt(-1.03375, 37.0693)
	backup := availableResponderAt(-1.0378, 37.0693)

	// Ожидания
	incidentsMock.EXPECT().
		GetByID(ctx, incident.ID).
		Return(incident, nil).
		Times(1)

	respondersMock.EXPECT().
		ListAvailable(ctx).
		Return([]*models.Responder{near, backup}, nil).
		Times(1)

	// Ближайшего успел занять конкурентный вызов - берется следующий
	assignmentMock.EXPECT().
		AssignResponder(ctx, incident.ID, near.ID, assignedAt, false).
		Return(nil, ErrResponderUnavailable).
		Times(1)

	claimed := *backup
	claimed.CurrentStatus = models.ResponderOnDuty
	assignmentMock.EXPECT().
		AssignResponder(ctx, incident.ID, backup.ID, assignedAt, false).
		Return(&claimed, nil).
		Times(1)

	incidentsMock.EXPECT().
		InvalidateIncidentCache(ctx, incident.ID).
		Return(nil).
		Times(1)

	auditMock.EXPECT().
		Log(ctx, "AutoDispatched", "dispatcher", gomock.Any(), gomock.Any()).
		Times(1)

	publisherMock.EXPECT().
		Publish(ctx, gomock.Any()).
		Return(nil).
		Times(1)

	// Действие
	responderID, err := service.Dispatch(ctx, incident.ID, "dispatcher")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, backup.ID, responderID)
}

func TestDispatch_IncidentLookupNotFound(t *testing.T) {
	// Подготовка
	service, incidentsMock, _, _, _, _ := newTestDispatchService(t)
	ctx := context.Background()
	incidentID := uuid.New()

	// Ожидания
	incidentsMock.EXPECT().
		GetByID(ctx, incidentID).
		Return(nil, fmt.Errorf("repository: incident not found: %w", ErrNotFound)).
		Times(1)

	// Действие
	_, err := service.Dispatch(ctx, incidentID, "dispatcher")

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1.0, testutil.ToFloat64(service.metrics.DispatchAttempts.WithLabelValues("not_found")))
	assert.Equal(t, 0.0, testutil.ToFloat64(service.metrics.DispatchAttempts.WithLabelValues("storage_error")))
}

func TestDispatch_IncidentLookupStorageError(t *testing.T) {
	// Подготовка
	service, incidentsMock, _, _, _, _ := newTestDispatchService(t)
	ctx := context.Background()
	incidentID := uuid.New()

	// Сбой хранилища не должен учитываться как not_found
	incidentsMock.EXPECT().
		GetByID(ctx, incidentID).
		Return(nil, fmt.Errorf("repository: could not query incident: connection refused")).
		Times(1)

	// Действие
	_, err := service.Dispatch(ctx, incidentID, "dispatcher")

	// Проверки
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(service.metrics.DispatchAttempts.WithLabelValues("storage_error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(service.metrics.DispatchAttempts.WithLabelValues("not_found")))
}

func TestDispatch_IncidentAlreadyAssigned(t *testing.T) {
	// Подготовка
	service, incidentsMock, respondersMock, assignmentMock, _, _ := newTestDispatchService(t)
	ctx := context.Background()
	assignedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return assignedAt }

	incident := openIncidentAt(-1.0333, 37.0693)
	near := availableResponderAt(-1.03375, 37.0693)

	// Ожидания
	incidentsMock.EXPECT().
		GetByID(ctx, incident.ID).
		Return(incident, nil).
		Times(1)

	respondersMock.EXPECT().
		ListAvailable(ctx).
		Return([]*models.Responder{near}, nil).
		Times(1)

	assignmentMock.EXPECT().
		AssignResponder(ctx, incident.ID, near.ID, assignedAt, false).
		Return(nil, ErrAlreadyAssigned).
		Times(1)

	// Действие
	_, err := service.Dispatch(ctx, incident.ID, "dispatcher")

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyAssigned)
	assert.ErrorIs(t, err, ErrRejected)
}

func TestAssign_RejectedWithoutOverride(t *testing.T) {
	// Подготовка
	service, incidentsMock, _, assignmentMock, _, _ := newTestDispatchService(t)
	ctx := context.Background()
	assignedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return assignedAt }

	incident := openIncidentAt(-1.0333, 37.0693)
	responderID := uuid.New()

	// Ожидания
	incidentsMock.EXPECT().
		GetByID(ctx, incident.ID).
		Return(incident, nil).
		Times(1)

	assignmentMock.EXPECT().
		AssignResponder(ctx, incident.ID, responderID, assignedAt, false).
		Return(nil, ErrAlreadyAssigned).
		Times(1)

	// Действие
	err := service.Assign(ctx, incident.ID, responderID, false, "dispatcher")

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRejected)
}

func TestAssign_OverrideSucceeds(t *testing.T) {
	// Подготовка
	service, incidentsMock, _, assignmentMock, auditMock, publisherMock := newTestDispatchService(t)
	ctx := context.Background()
	assignedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return assignedAt }

	incident := openIncidentAt(-1.0333, 37.0693)

	// Занятый ответчик назначается принудительно
	responder := availableResponderAt(-1.0340, 37.0693)
	responder.CurrentStatus = models.ResponderBusy

	// Ожидания
	incidentsMock.EXPECT().
		GetByID(ctx, incident.ID).
		Return(incident, nil).
		Times(1)

	claimed := *responder
	claimed.CurrentStatus = models.ResponderOnDuty
	assignmentMock.EXPECT().
		AssignResponder(ctx, incident.ID, responder.ID, assignedAt, true).
		Return(&claimed, nil).
		Times(1)

	incidentsMock.EXPECT().
		InvalidateIncidentCache(ctx, incident.ID).
		Return(nil).
		Times(1)

	auditMock.EXPECT().
		Log(ctx, "DispatchAssigned", "dispatcher", fmt.Sprintf("Incident:%s", incident.ID), fmt.Sprintf("Responder:%s", responder.ID)).
		Times(1)

	publisherMock.EXPECT().
		Publish(ctx, gomock.Any()).
		Return(nil).
		Times(1)

	// Действие
	err := service.Assign(ctx, incident.ID, responder.ID, true, "dispatcher")

	// Проверки
	require.NoError(t, err)
}

func TestListActiveIncidents_Success(t *testing.T) {
	// Подготовка
	service, incidentsMock, _, _, _, _ := newTestDispatchService(t)
	ctx := context.Background()
	expected := []*models.Incident{
		{ID: uuid.New(), Status: models.IncidentOpen, SeverityScore: 9},
		{ID: uuid.New(), Status: models.IncidentInProgress, SeverityScore: 5},
	}

	// Ожидания
	incidentsMock.EXPECT().
		ListActive(ctx).
		Return(expected, nil).
		Times(1)

	// Действие
	incidents, err := service.ListActiveIncidents(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expected, incidents)
}
