package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/thikaresq/resqnet/internal/metrics"
	"github.com/thikaresq/resqnet/internal/models"
	"github.com/thikaresq/resqnet/internal/service/mocks"
	"github.com/thikaresq/resqnet/internal/severity"
)

// newTestIncidentService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestIncidentService(t *testing.T) (*incidentService, *mocks.MockIncidentRepository, *mocks.MockAuditService) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockIncidentRepository(ctrl)
	auditMock := mocks.NewMockAuditService(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	classifier := severity.NewClassifier(severity.DefaultKeywords())
	m := metrics.New(prometheus.NewRegistry())

	service := NewIncidentService(repoMock, classifier, auditMock, logger, m)
	return service.(*incidentService), repoMock, auditMock
}

func TestReportIncident_Success_HighSeverity(t *testing.T) {
	// Подготовка
	service, repoMock, auditMock := newTestIncidentService(t)
	ctx := context.Background()
	incident := &models.Incident{
		Description: "Road accident, victim is unconscious and heavily bleeding",
		Latitude:    f64(-1.0333),
		Longitude:   f64(37.0693),
		AddressText: "Thika Superhighway",
	}

	// Ожидания
	repoMock.EXPECT().
		Create(ctx, incident).
		Return(nil).
		Times(1)

	auditMock.EXPECT().
		Log(ctx, "ReportSubmitted", "citizen", gomock.Any(), incident.Description).
		Times(1)

	// Действие
	err := service.ReportIncident(ctx, incident, "citizen")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 9, incident.SeverityScore)
	assert.Equal(t, models.IncidentOpen, incident.Status)
	assert.Nil(t, incident.AssignedResponderID)
}

func TestReportIncident_Success_AddressOnly(t *testing.T) {
	// Подготовка
	service, repoMock, auditMock := newTestIncidentService(t)
	ctx := context.Background()

	// Обращение без координат, но с адресом допустимо
	incident := &models.Incident{
		Description: "Minor scratch on the arm",
		AddressText: "Makongeni Estate",
	}

	// Ожидания
	repoMock.EXPECT().
		Create(ctx, incident).
		Return(nil).
		Times(1)

	auditMock.EXPECT().
		Log(ctx, "ReportSubmitted", "citizen", gomock.Any(), incident.Description).
		Times(1)

	// Действие
	err := service.ReportIncident(ctx, incident, "citizen")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 1, incident.SeverityScore)
}

func TestReportIncident_PartialCoordinates(t *testing.T) {
	// Подготовка
	service, _, _ := newTestIncidentService(t)
	ctx := context.Background()

	// Только широта без долготы - ошибка до обращения к репозиторию
	incident := &models.Incident{
		Description: "Fracture after a fall",
		Latitude:    f64(-1.0333),
	}

	// Действие
	err := service.ReportIncident(ctx, incident, "citizen")

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPartialCoordinates)
}

func TestReportIncident_MissingLocation(t *testing.T) {
	// Подготовка
	service, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	incident := &models.Incident{
		Description: "Fracture after a fall",
		AddressText: "   ",
	}

	// Действие
	err := service.ReportIncident(ctx, incident, "citizen")

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingLocation)
}

func TestGetIncident_Success_FromCache(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	expectedIncident := &models.Incident{
		ID:          incidentID,
		Description: "Тестовый инцидент из кеша",
	}

	// Ожидания
	repoMock.EXPECT().
		GetIncidentFromCache(ctx, incidentID).
		Return(expectedIncident, nil).
		Times(1)

	// Действие
	incident, err := service.GetIncident(ctx, incidentID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expectedIncident, incident)
}

func TestGetIncident_Success_FromDB(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	expectedIncident := &models.Incident{
		ID:          incidentID,
		Description: "Тестовый инцидент из БД",
	}

	// Ожидания
	// 1. Промах кеша
	repoMock.EXPECT().
		GetIncidentFromCache(ctx, incidentID).
		Return(nil, nil).
		Times(1)

	// 2. Попадание в БД
	repoMock.EXPECT().
		GetByID(ctx, incidentID).
		Return(expectedIncident, nil).
		Times(1)

	// 3. Запись в кеш
	repoMock.EXPECT().
		SetIncidentCache(ctx, expectedIncident).
		Return(nil).
		Times(1)

	// Действие
	incident, err := service.GetIncident(ctx, incidentID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expectedIncident, incident)
}

func TestGetIncident_NotFound(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	dbError := fmt.Errorf("repository: incident not found: %w", ErrNotFound)

	// Ожидания
	repoMock.EXPECT().
		GetIncidentFromCache(ctx, incidentID).
		Return(nil, nil).
		Times(1)

	repoMock.EXPECT().
		GetByID(ctx, incidentID).
		Return(nil, dbError).
		Times(1)

	// Действие
	incident, err := service.GetIncident(ctx, incidentID)

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, incident)
}

func TestUpdateStatus_Success(t *testing.T) {
	// Подготовка
	service, repoMock, auditMock := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	responderID := uuid.New()
	assignedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	incident := &models.Incident{
		ID:                  incidentID,
		Status:              models.IncidentInProgress,
		AssignedResponderID: &responderID,
		AssignedAt:          &assignedAt,
	}

	// Ожидания
	repoMock.EXPECT().
		GetByID(ctx, incidentID).
		Return(incident, nil).
		Times(1)

	repoMock.EXPECT().
		UpdateStatus(ctx, incidentID, models.IncidentResolved).
		Return(nil).
		Times(1)

	repoMock.EXPECT().
		InvalidateIncidentCache(ctx, incidentID).
		Return(nil).
		Times(1)

	auditMock.EXPECT().
		Log(ctx, "StatusChanged", "dispatcher", gomock.Any(), "InProgress -> Resolved").
		Times(1)

	// Действие
	err := service.UpdateStatus(ctx, incidentID, models.IncidentResolved, "dispatcher")

	// Проверки
	require.NoError(t, err)
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	incident := &models.Incident{
		ID:     incidentID,
		Status: models.IncidentClosed,
	}

	// Ожидания
	repoMock.EXPECT().
		GetByID(ctx, incidentID).
		Return(incident, nil).
		Times(1)

	// Действие
	err := service.UpdateStatus(ctx, incidentID, models.IncidentOpen, "dispatcher")

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_ResolveWithoutAssignment(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()

	// InProgress без назначения - аномалия, Resolved недопустим
	incident := &models.Incident{
		ID:     incidentID,
		Status: models.IncidentInProgress,
	}

	// Ожидания
	repoMock.EXPECT().
		GetByID(ctx, incidentID).
		Return(incident, nil).
		Times(1)

	// Действие
	err := service.UpdateStatus(ctx, incidentID, models.IncidentResolved, "dispatcher")

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelIncident_FromOpen(t *testing.T) {
	// Подготовка
	service, repoMock, auditMock := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	incident := &models.Incident{
		ID:     incidentID,
		Status: models.IncidentOpen,
	}

	// Ожидания
	repoMock.EXPECT().
		GetByID(ctx, incidentID).
		Return(incident, nil).
		Times(1)

	repoMock.EXPECT().
		UpdateStatus(ctx, incidentID, models.IncidentCancelled).
		Return(nil).
		Times(1)

	repoMock.EXPECT().
		InvalidateIncidentCache(ctx, incidentID).
		Return(nil).
		Times(1)

	auditMock.EXPECT().
		Log(ctx, "StatusChanged", "dispatcher", gomock.Any(), "Open -> Cancelled").
		Times(1)

	// Действие
	err := service.CancelIncident(ctx, incidentID, "dispatcher")

	// Проверки
	require.NoError(t, err)
}
