package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/thikaresq/resqnet/internal/models"
	"github.com/thikaresq/resqnet/internal/service/mocks"
)

// newTestHospitalService — вспомогательная функция для создания сервиса больниц с моками.
func newTestHospitalService(t *testing.T) (*hospitalService, *mocks.MockHospitalRepository, *mocks.MockIncidentRepository, *mocks.MockAuditService) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockHospitalRepository(ctrl)
	incidentsMock := mocks.NewMockIncidentRepository(ctrl)
	auditMock := mocks.NewMockAuditService(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	service := NewHospitalService(repoMock, incidentsMock, auditMock, logger)
	return service.(*hospitalService), repoMock, incidentsMock, auditMock
}

func TestConfirmArrival_Success(t *testing.T) {
	// Подготовка
	service, repoMock, incidentsMock, auditMock := newTestHospitalService(t)
	ctx := context.Background()
	hospitalID := uuid.New()
	incidentID := uuid.New()

	// Ожидания
	repoMock.EXPECT().
		RegisterArrival(ctx, hospitalID, incidentID).
		Return(nil).
		Times(1)

	incidentsMock.EXPECT().
		InvalidateIncidentCache(ctx, incidentID).
		Return(nil).
		Times(1)

	auditMock.EXPECT().
		Log(ctx, "PatientArrived", "hospital", fmt.Sprintf("Hospital:%s", hospitalID), fmt.Sprintf("Incident:%s", incidentID)).
		Times(1)

	// Действие
	err := service.ConfirmArrival(ctx, hospitalID, incidentID, "hospital")

	// Проверки
	require.NoError(t, err)
}

func TestConfirmArrival_NoBeds(t *testing.T) {
	// Подготовка
	service, repoMock, _, _ := newTestHospitalService(t)
	ctx := context.Background()
	hospitalID := uuid.New()
	incidentID := uuid.New()

	// Ожидания
	repoMock.EXPECT().
		RegisterArrival(ctx, hospitalID, incidentID).
		Return(ErrNoBedsAvailable).
		Times(1)

	// Действие
	err := service.ConfirmArrival(ctx, hospitalID, incidentID, "hospital")

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoBedsAvailable)
	assert.ErrorIs(t, err, ErrRejected)
}

func TestUpdateHospital_Success(t *testing.T) {
	// Подготовка
	service, repoMock, _, _ := newTestHospitalService(t)
	ctx := context.Background()
	hospitalID := uuid.New()
	existing := &models.Hospital{
		ID:            hospitalID,
		Name:          "Thika Level 5",
		AvailableBeds: 10,
	}
	update := &models.Hospital{
		ID:            hospitalID,
		Name:          "Thika Level 5 Hospital",
		AvailableBeds: 8,
		ICUCapacity:   4,
		ContactNumber: "+254700000010",
	}

	// Ожидания
	repoMock.EXPECT().
		GetByID(ctx, hospitalID).
		Return(existing, nil).
		Times(1)

	repoMock.EXPECT().
		Update(ctx, existing).
		Return(nil).
		Times(1)

	// Действие
	err := service.UpdateHospital(ctx, update)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, "Thika Level 5 Hospital", existing.Name)
	assert.Equal(t, 8, existing.AvailableBeds)
	assert.Equal(t, 4, existing.ICUCapacity)
}

func TestUpdateHospital_NotFound(t *testing.T) {
	// Подготовка
	service, repoMock, _, _ := newTestHospitalService(t)
	ctx := context.Background()
	hospital := &models.Hospital{ID: uuid.New(), Name: "Unknown"}

	// Ожидания
	repoMock.EXPECT().
		GetByID(ctx, hospital.ID).
		Return(nil, fmt.Errorf("repository: hospital not found: %w", ErrNotFound)).
		Times(1)

	// Действие
	err := service.UpdateHospital(ctx, hospital)

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}
