package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/thikaresq/resqnet/internal/config"
	handler_mocks "github.com/thikaresq/resqnet/internal/handler/http/v1/mocks"
	"github.com/thikaresq/resqnet/internal/models"
	"github.com/thikaresq/resqnet/internal/service"
	"github.com/thikaresq/resqnet/internal/service/mocks"
)

type handlerMocks struct {
	incidents  *mocks.MockIncidentService
	dispatch   *mocks.MockDispatchService
	responders *mocks.MockResponderService
	hospitals  *mocks.MockHospitalService
	analytics  *handler_mocks.MockAnalyticsService
	audit      *mocks.MockAuditService
}

// newTestHandler создает новый экземпляр Handler с мокированными сервисами
func newTestHandler(t *testing.T) (*Handler, handlerMocks, *gin.Engine) {
	ctrl := gomock.NewController(t)
	hm := handlerMocks{
		incidents:  mocks.NewMockIncidentService(ctrl),
		dispatch:   mocks.NewMockDispatchService(ctrl),
		responders: mocks.NewMockResponderService(ctrl),
		hospitals:  mocks.NewMockHospitalService(ctrl),
		analytics:  handler_mocks.NewMockAnalyticsService(ctrl),
		audit:      mocks.NewMockAuditService(ctrl),
	}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		APIKeys: []string{"test-api-key"},
	}

	handler := NewHandler(hm.incidents, hm.dispatch, hm.responders, hm.hospitals, hm.analytics, hm.audit, logger, cfg)

	// Настройка Gin роутера для тестов
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return handler, hm, router
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func authHeader() map[string]string {
	return map[string]string{"X-API-Key": "test-api-key"}
}

func TestReportIncident_Success(t *testing.T) {
	_, hm, router := newTestHandler(t)
	lat, lon := -1.0333, 37.0693
	reqBody := ReportIncidentRequest{
		Description: "Road accident, victim unconscious",
		Latitude:    &lat,
		Longitude:   &lon,
		AddressText: "Thika Superhighway",
	}
	incidentID := uuid.New()

	hm.incidents.EXPECT().
		ReportIncident(gomock.Any(), gomock.Any(), "citizen").
		DoAndReturn(func(_ context.Context, inc *models.Incident, _ string) error {
			inc.ID = incidentID
			inc.SeverityScore = 9
			inc.Status = models.IncidentOpen
			inc.CreatedAt = time.Now()
			return nil
		}).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	// Прием обращений публичный - API-ключ не требуется
	w := makeRequest(router, "POST", "/api/v1/reports", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, incidentID, resp.ID)
	assert.Equal(t, 9, resp.SeverityScore)
	assert.Equal(t, "Open", resp.Status)
}

func TestReportIncident_MissingLocation(t *testing.T) {
	_, hm, router := newTestHandler(t)
	reqBody := ReportIncidentRequest{
		Description: "Fracture after a fall",
	}

	hm.incidents.EXPECT().
		ReportIncident(gomock.Any(), gomock.Any(), "citizen").
		Return(service.ErrMissingLocation).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/reports", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportIncident_InvalidBody(t *testing.T) {
	_, _, router := newTestHandler(t)

	w := makeRequest(router, "POST", "/api/v1/reports", bytes.NewBufferString(`{"description": ""}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetIncident_Success(t *testing.T) {
	_, hm, router := newTestHandler(t)
	incidentID := uuid.New()
	expected := &models.Incident{
		ID:            incidentID,
		Description:   "Тестовый инцидент",
		SeverityScore: 5,
		Status:        models.IncidentOpen,
	}

	hm.incidents.EXPECT().
		GetIncident(gomock.Any(), incidentID).
		Return(expected, nil).
		Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents/"+incidentID.String(), nil, authHeader())

	assert.Equal(t, http.StatusOK, w.Code)

	var resp IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, incidentID, resp.ID)
}

func TestGetIncident_NotFound(t *testing.T) {
	_, hm, router := newTestHandler(t)
	incidentID := uuid.New()

	hm.incidents.EXPECT().
		GetIncident(gomock.Any(), incidentID).
		Return(nil, fmt.Errorf("service: could not get incident: %w", service.ErrNotFound)).
		Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents/"+incidentID.String(), nil, authHeader())

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetIncident_InvalidID(t *testing.T) {
	_, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/incidents/not-a-uuid", nil, authHeader())

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateIncidentStatus_InvalidTransition(t *testing.T) {
	_, hm, router := newTestHandler(t)
	incidentID := uuid.New()
	reqBody := UpdateIncidentStatusRequest{Status: "Closed"}

	hm.incidents.EXPECT().
		UpdateStatus(gomock.Any(), incidentID, models.IncidentClosed, "dispatcher").
		Return(fmt.Errorf("service: transition Open -> Closed is not allowed: %w", service.ErrInvalidTransition)).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "PUT", "/api/v1/incidents/"+incidentID.String()+"/status", bytes.NewBuffer(bodyBytes), authHeader())

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelIncident_Success(t *testing.T) {
	_, hm, router := newTestHandler(t)
	incidentID := uuid.New()

	hm.incidents.EXPECT().
		CancelIncident(gomock.Any(), incidentID, "dispatcher").
		Return(nil).
		Times(1)

	w := makeRequest(router, "POST", "/api/v1/incidents/"+incidentID.String()+"/cancel", nil, authHeader())

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCancelIncident_TerminalStatus(t *testing.T) {
	_, hm, router := newTestHandler(t)
	incidentID := uuid.New()

	hm.incidents.EXPECT().
		CancelIncident(gomock.Any(), incidentID, "dispatcher").
		Return(fmt.Errorf("service: transition Closed -> Cancelled is not allowed: %w", service.ErrInvalidTransition)).
		Times(1)

	w := makeRequest(router, "POST", "/api/v1/incidents/"+incidentID.String()+"/cancel", nil, authHeader())

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDispatchIncident_Success(t *testing.T) {
	_, hm, router := newTestHandler(t)
	incidentID := uuid.New()
	responderID := uuid.New()

	hm.dispatch.EXPECT().
		Dispatch(gomock.Any(), incidentID, "dispatcher").
		Return(responderID, nil).
		Times(1)

	w := makeRequest(router, "POST", "/api/v1/dispatch/incidents/"+incidentID.String(), nil, authHeader())

	assert.Equal(t, http.StatusOK, w.Code)

	var resp DispatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, incidentID, resp.IncidentID)
	assert.Equal(t, responderID, resp.ResponderID)
}

func TestDispatchIncident_NotAssignable(t *testing.T) {
	_, hm, router := newTestHandler(t)
	incidentID := uuid.New()

	hm.dispatch.EXPECT().
		Dispatch(gomock.Any(), incidentID, "dispatcher").
		Return(uuid.Nil, fmt.Errorf("service: no available responders: %w", service.ErrNotAssignable)).
		Times(1)

	w := makeRequest(router, "POST", "/api/v1/dispatch/incidents/"+incidentID.String(), nil, authHeader())

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignResponder_Rejected(t *testing.T) {
	_, hm, router := newTestHandler(t)
	reqBody := ManualAssignRequest{
		IncidentID:  uuid.New(),
		ResponderID: uuid.New(),
	}

	hm.dispatch.EXPECT().
		Assign(gomock.Any(), reqBody.IncidentID, reqBody.ResponderID, false, "dispatcher").
		Return(fmt.Errorf("service: could not assign responder: %w", service.ErrAlreadyAssigned)).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/dispatch/assign", bytes.NewBuffer(bodyBytes), authHeader())

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignResponder_OverrideSuccess(t *testing.T) {
	_, hm, router := newTestHandler(t)
	reqBody := ManualAssignRequest{
		IncidentID:       uuid.New(),
		ResponderID:      uuid.New(),
		OverrideExisting: true,
	}

	hm.dispatch.EXPECT().
		Assign(gomock.Any(), reqBody.IncidentID, reqBody.ResponderID, true, "dispatcher").
		Return(nil).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/dispatch/assign", bytes.NewBuffer(bodyBytes), authHeader())

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestConfirmArrival_NoBeds(t *testing.T) {
	_, hm, router := newTestHandler(t)
	hospitalID := uuid.New()
	reqBody := ArrivalRequest{IncidentID: uuid.New()}

	hm.hospitals.EXPECT().
		ConfirmArrival(gomock.Any(), hospitalID, reqBody.IncidentID, "hospital").
		Return(fmt.Errorf("service: could not register arrival: %w", service.ErrNoBedsAvailable)).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/hospitals/"+hospitalID.String()+"/arrivals", bytes.NewBuffer(bodyBytes), authHeader())

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMonthlyReport_Success(t *testing.T) {
	_, hm, router := newTestHandler(t)
	expected := &service.MonthlyReport{
		Year:           2025,
		Month:          6,
		TotalIncidents: 6,
		HighSeverity:   2,
		MediumSeverity: 1,
		LowSeverity:    3,
	}

	hm.analytics.EXPECT().
		MonthlyReport(gomock.Any(), 2025, 6).
		Return(expected, nil).
		Times(1)

	w := makeRequest(router, "GET", "/api/v1/analytics/monthly?year=2025&month=6", nil, authHeader())

	assert.Equal(t, http.StatusOK, w.Code)

	var resp service.MonthlyReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, *expected, resp)
}

func TestMonthlyReport_InvalidMonth(t *testing.T) {
	_, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/analytics/monthly?year=2025&month=13", nil, authHeader())

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResponseTimes_InvalidWindow(t *testing.T) {
	_, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/analytics/response-times?start=yesterday", nil, authHeader())

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListAvailableResponders_Success(t *testing.T) {
	_, hm, router := newTestHandler(t)
	expected := []*models.Responder{
		{ID: uuid.New(), VehicleNumber: "KDA 001A", CurrentStatus: models.ResponderAvailable, PhoneNumber: "+254700000001"},
	}

	hm.responders.EXPECT().
		ListAvailable(gomock.Any()).
		Return(expected, nil).
		Times(1)

	w := makeRequest(router, "GET", "/api/v1/responders/available", nil, authHeader())

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []ResponderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "KDA 001A", resp[0].VehicleNumber)
}

func TestHealthCheck(t *testing.T) {
	_, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestProtectedRoute_MissingKey(t *testing.T) {
	_, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/incidents", nil) // Нет API ключа

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "API key required")
}

func TestProtectedRoute_InvalidKey(t *testing.T) {
	_, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/incidents", nil, map[string]string{"X-API-Key": "invalid-key"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid API key")
}

func TestProtectedRoute_BearerToken(t *testing.T) {
	_, hm, router := newTestHandler(t)

	hm.incidents.EXPECT().
		ListIncidents(gomock.Any(), 1, 10).
		Return([]*models.Incident{}, nil).
		Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents", nil, map[string]string{"Authorization": "Bearer test-api-key"})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestActorHeader_PassedToService(t *testing.T) {
	_, hm, router := newTestHandler(t)
	incidentID := uuid.New()
	responderID := uuid.New()

	// Заголовок X-Actor переопределяет действующее лицо в аудите
	hm.dispatch.EXPECT().
		Dispatch(gomock.Any(), incidentID, "operator-7").
		Return(responderID, nil).
		Times(1)

	headers := authHeader()
	headers["X-Actor"] = "operator-7"
	w := makeRequest(router, "POST", "/api/v1/dispatch/incidents/"+incidentID.String(), nil, headers)

	assert.Equal(t, http.StatusOK, w.Code)
}
