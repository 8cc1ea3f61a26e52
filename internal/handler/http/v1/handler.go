package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/thikaresq/resqnet/internal/config"
	"github.com/thikaresq/resqnet/internal/models"
	"github.com/thikaresq/resqnet/internal/service"
)

type Handler struct {
	incidentService  service.IncidentService
	dispatchService  service.DispatchService
	responderService service.ResponderService
	hospitalService  service.HospitalService
	analyticsService service.AnalyticsService
	auditService     service.AuditService
	logger           *logrus.Logger
	validate         *validator.Validate
	cfg              *config.Config
}

func NewHandler(
	incidentService service.IncidentService,
	dispatchService service.DispatchService,
	responderService service.ResponderService,
	hospitalService service.HospitalService,
	analyticsService service.AnalyticsService,
	auditService service.AuditService,
	logger *logrus.Logger,
	cfg *config.Config,
) *Handler {
	return &Handler{
		incidentService:  incidentService,
		dispatchService:  dispatchService,
		responderService: responderService,
		hospitalService:  hospitalService,
		analyticsService: analyticsService,
		auditService:     auditService,
		logger:           logger,
		validate:         validator.New(),
		cfg:              cfg,
	}
}

// respondServiceError транслирует таксономию ошибок сервиса в HTTP-статусы:
// NotFound -> 404, NotAssignable/Rejected и ошибки входных данных -> 400,
// остальное -> 500 без деталей
func respondServiceError(c *gin.Context, log *logrus.Entry, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrNotAssignable),
		errors.Is(err, service.ErrRejected),
		errors.Is(err, service.ErrMissingLocation),
		errors.Is(err, service.ErrPartialCoordinates):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.WithError(err).Error("Internal service error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// @Summary Submit an emergency report
// @Description Submit a new emergency report. Severity is derived from the description. Public endpoint.
// @Tags Reports
// @Accept json
// @Produce json
// @Param report body ReportIncidentRequest true "Emergency report"
// @Success 201 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reports [post]
func (h *Handler) reportIncident(c *gin.Context) {
	var input ReportIncidentRequest
	log := h.logger.WithField("method", "reportIncident")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := ReportToIncidentModel(input)
	actor := actorFromRequest(c, "citizen")
	if err := h.incidentService.ReportIncident(c.Request.Context(), model, actor); err != nil {
		respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToIncidentResponse(model))
}

// @Summary Get a list of incidents
// @Description Get a paginated list of all incidents. Requires API key.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(10)
// @Success 200 {array} IncidentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))

	incidents, err := h.incidentService.ListIncidents(c.Request.Context(), page, pageSize)
	if err != nil {
		respondServiceError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Get incident by ID
// @Description Get a single incident by its ID. Requires API key.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}
	log := h.logger.WithField("method", "getIncident").WithField("id", id)

	incident, err := h.incidentService.GetIncident(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Update incident status
// @Description Transition an incident to a new status. Transitions are validated against the lifecycle. Requires API key.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Param status body UpdateIncidentStatusRequest true "New status"
// @Success 200 "OK"
// @Failure 400 {object} map[string]string "Invalid incident ID, body or transition"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id}/status [put]
func (h *Handler) updateIncidentStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}
	log := h.logger.WithField("method", "updateIncidentStatus").WithField("id", id)

	var input UpdateIncidentStatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := actorFromRequest(c, "dispatcher")
	if err := h.incidentService.UpdateStatus(c.Request.Context(), id, models.IncidentStatus(input.Status), actor); err != nil {
		respondServiceError(c, log, err)
		return
	}
	c.Status(http.StatusOK)
}

// @Summary Cancel an incident
// @Description Cancel an incident that is not yet in a terminal status. Requires API key.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Success 200 "OK"
// @Failure 400 {object} map[string]string "Incident is already in a terminal status"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id}/cancel [post]
func (h *Handler) cancelIncident(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}
	log := h.logger.WithField("method", "cancelIncident").WithField("id", id)

	actor := actorFromRequest(c, "dispatcher")
	if err := h.incidentService.CancelIncident(c.Request.Context(), id, actor); err != nil {
		respondServiceError(c, log, err)
		return
	}
	c.Status(http.StatusOK)
}

// @Summary Dispatch the nearest available responder
// @Description Automatically assign the nearest available responder to the incident. Requires API key.
// @Tags Dispatch
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} DispatchResponse
// @Failure 400 {object} map[string]string "Incident is not assignable"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /dispatch/incidents/{id} [post]
func (h *Handler) dispatchIncident(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}
	log := h.logger.WithField("method", "dispatchIncident").WithField("id", id)

	actor := actorFromRequest(c, "dispatcher")
	responderID, err := h.dispatchService.Dispatch(c.Request.Context(), id, actor)
	if err != nil {
		respondServiceError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, DispatchResponse{IncidentID: id, ResponderID: responderID})
}

// @Summary Manually assign a responder
// @Description Assign a specific responder to an incident. Without override the call is rejected when the incident is already assigned or the responder is not available. Requires API key.
// @Tags Dispatch
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param assignment body ManualAssignRequest true "Assignment request"
// @Success 200 {object} map[string]string "Assigned"
// @Failure 400 {object} map[string]string "Assignment rejected"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident or responder not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /dispatch/assign [post]
func (h *Handler) assignResponder(c *gin.Context) {
	var input ManualAssignRequest
	log := h.logger.WithField("method", "assignResponder")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := actorFromRequest(c, "dispatcher")
	err := h.dispatchService.Assign(c.Request.Context(), input.IncidentID, input.ResponderID, input.OverrideExisting, actor)
	if err != nil {
		respondServiceError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Assigned"})
}

// @Summary List active incidents
// @Description List incidents in Open or InProgress status, most urgent first. Requires API key.
// @Tags Dispatch
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} IncidentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /dispatch/active [get]
func (h *Handler) listActiveIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listActiveIncidents")

	incidents, err := h.dispatchService.ListActiveIncidents(c.Request.Context())
	if err != nil {
		respondServiceError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Register a new responder
// @Description Register a new responder unit. Requires API key.
// @Tags Responders
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param responder body CreateResponderRequest true "Responder creation request"
// @Success 201 {object} ResponderResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /responders [post]
func (h *Handler) createResponder(c *gin.Context) {
	var input CreateResponderRequest
	log := h.logger.WithField("method", "createResponder")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := DTOToResponderModel(input)
	if err := h.responderService.CreateResponder(c.Request.Context(), model); err != nil {
		respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToResponderResponse(model))
}

// @Summary Get a list of responders
// @Description Get all responder units. Requires API key.
// @Tags Responders
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} ResponderResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /responders [get]
func (h *Handler) listResponders(c *gin.Context) {
	log := h.logger.WithField("method", "listResponders")

	responders, err := h.responderService.ListResponders(c.Request.Context())
	if err != nil {
		respondServiceError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, ModelsToResponderResponses(responders))
}

// @Summary List available responders
// @Description Get responder units currently in Available status. Requires API key.
// @Tags Responders
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} ResponderResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /responders/available [get]
func (h *Handler) listAvailableResponders(c *gin.Context) {
	log := h.logger.WithField("method", "listAvailableResponders")

	responders, err := h.responderService.ListAvailable(c.Request.Context())
	if err != nil {
		respondServiceError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, ModelsToResponderResponses(responders))
}

// @Summary Get responder by ID
// @Description Get a single responder by its ID. Requires API key.
// @Tags Responders
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Responder ID"
// @Success 200 {object} ResponderResponse
// @Failure 400 {object} map[string]string "Invalid responder ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Responder not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /responders/{id} [get]
func (h *Handler) getResponder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid responder ID"})
		return
	}
	log := h.logger.WithField("method", "getResponder").WithField("id", id)

	responder, err := h.responderService.GetResponder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToResponderResponse(responder))
}

// @Summary Update a responder
// @Description Update responder status, location and contact details. Requires API key.
// @Tags Responders
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Responder ID"
// @Param responder body UpdateResponderRequest true "Responder update request"
// @Success 200 "OK"
// @Failure 400 {object} map[string]string "Invalid responder ID or request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Responder not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /responders/{id} [put]
func (h *Handler) updateResponder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid responder ID"})
		return
	}
	log := h.logger.WithField("method", "updateResponder").WithField("id", id)

	var input UpdateResponderRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := DTOToResponderModel(input)
	model.ID = id

	if err := h.responderService.UpdateResponder(c.Request.Context(), model); err != nil {
		respondServiceError(c, log, err)
		return
	}
	c.Status(http.StatusOK)
}

// @Summary Register a new hospital
// @Description Register a hospital with its bed capacity. Requires API key.
// @Tags Hospitals
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param hospital body CreateHospitalRequest true "Hospital creation request"
// @Success 201 {object} HospitalResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /hospitals [post]
func (h *Handler) createHospital(c *gin.Context) {
	var input CreateHospitalRequest
	log := h.logger.WithField("method", "createHospital")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := DTOToHospitalModel(input)
	if err := h.hospitalService.CreateHospital(c.Request.Context(), model); err != nil {
		respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToHospitalResponse(model))
}

// @Summary Get a list of hospitals
// @Description Get all registered hospitals. Requires API key.
// @Tags Hospitals
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} HospitalResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /hospitals [get]
func (h *Handler) listHospitals(c *gin.Context) {
	log := h.logger.WithField("method", "listHospitals")

	hospitals, err := h.hospitalService.ListHospitals(c.Request.Context())
	if err != nil {
		respondServiceError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, ModelsToHospitalResponses(hospitals))
}

// @Summary Get hospital by ID
// @Description Get a single hospital by its ID. Requires API key.
// @Tags Hospitals
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Hospital ID"
// @Success 200 {object} HospitalResponse
// @Failure 400 {object} map[string]string "Invalid hospital ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Hospital not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /hospitals/{id} [get]
func (h *Handler) getHospital(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hospital ID"})
		return
	}
	log := h.logger.WithField("method", "getHospital").WithField("id", id)

	hospital, err := h.hospitalService.GetHospital(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToHospitalResponse(hospital))
}

// @Summary Update a hospital
// @Description Update hospital details including bed counts. Requires API key.
// @Tags Hospitals
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Hospital ID"
// @Param hospital body CreateHospitalRequest true "Hospital update request"
// @Success 200 "OK"
// @Failure 400 {object} map[string]string "Invalid hospital ID or request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Hospital not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /hospitals/{id} [put]
func (h *Handler) updateHospital(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hospital ID"})
		return
	}
	log := h.logger.WithField("method", "updateHospital").WithField("id", id)

	var input CreateHospitalRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := DTOToHospitalModel(input)
	model.ID = id

	if err := h.hospitalService.UpdateHospital(c.Request.Context(), model); err != nil {
		respondServiceError(c, log, err)
		return
	}
	c.Status(http.StatusOK)
}

// @Summary Confirm patient arrival
// @Description Confirm patient arrival at the hospital: occupies one bed and resolves the incident. Requires API key.
// @Tags Hospitals
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Hospital ID"
// @Param arrival body ArrivalRequest true "Arrival confirmation"
// @Success 200 {object} map[string]string "Confirmed"
// @Failure 400 {object} map[string]string "No beds available or invalid incident state"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Hospital or incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /hospitals/{id}/arrivals [post]
func (h *Handler) confirmArrival(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hospital ID"})
		return
	}
	log := h.logger.WithField("method", "confirmArrival").WithField("id", id)

	var input ArrivalRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := actorFromRequest(c, "hospital")
	if err := h.hospitalService.ConfirmArrival(c.Request.Context(), id, input.IncidentID, actor); err != nil {
		respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Confirmed"})
}

// @Summary Response time list
// @Description Response time in minutes for every assigned incident within the optional time window. Requires API key.
// @Tags Analytics
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param start query string false "Window start (RFC3339)"
// @Param end query string false "Window end (RFC3339)"
// @Success 200 {array} service.ResponseTime
// @Failure 400 {object} map[string]string "Invalid time bounds"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /analytics/response-times [get]
func (h *Handler) responseTimes(c *gin.Context) {
	log := h.logger.WithField("method", "responseTimes")

	start, end, err := parseWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	times, err := h.analyticsService.ResponseTimes(c.Request.Context(), start, end)
	if err != nil {
		respondServiceError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, times)
}

// @Summary Monthly report
// @Description Incident totals, severity bands and average response time for a calendar month. Requires API key.
// @Tags Analytics
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Success 200 {object} service.MonthlyReport
// @Failure 400 {object} map[string]string "Invalid year or month"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /analytics/monthly [get]
func (h *Handler) monthlyReport(c *gin.Context) {
	log := h.logger.WithField("method", "monthlyReport")

	var query MonthlyReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		log.WithError(err).Warn("Failed to bind query")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	if err := h.validate.Struct(query); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.analyticsService.MonthlyReport(c.Request.Context(), query.Year, query.Month)
	if err != nil {
		respondServiceError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// @Summary Location and severity breakdown
// @Description Incident counts grouped by address and severity band within the optional time window. Requires API key.
// @Tags Analytics
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param start query string false "Window start (RFC3339)"
// @Param end query string false "Window end (RFC3339)"
// @Success 200 {array} service.LocationSeverityCount
// @Failure 400 {object} map[string]string "Invalid time bounds"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /analytics/by-location [get]
func (h *Handler) locationSeverity(c *gin.Context) {
	log := h.logger.WithField("method", "locationSeverity")

	start, end, err := parseWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	counts, err := h.analyticsService.LocationSeverity(c.Request.Context(), start, end)
	if err != nil {
		respondServiceError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, counts)
}

// @Summary Recent audit log entries
// @Description Get the most recent audit log entries. Requires API key.
// @Tags Admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "Maximum number of entries" default(100)
// @Success 200 {array} models.AuditLog
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /audit [get]
func (h *Handler) recentAuditLogs(c *gin.Context) {
	log := h.logger.WithField("method", "recentAuditLogs")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	entries, err := h.auditService.Recent(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseWindow извлекает необязательные границы окна из query-параметров
func parseWindow(c *gin.Context) (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if s := c.Query("start"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, errors.New("invalid start time, expected RFC3339")
		}
		start = &t
	}
	if s := c.Query("end"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, errors.New("invalid end time, expected RFC3339")
		}
		end = &t
	}
	return start, end, nil
}
