package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1.
// Приём сообщений о происшествиях и health-check открыты,
// остальные маршруты требуют API-ключ
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Публичный приём сообщений от граждан
	api.POST("/reports", h.reportIncident)

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)

	protected := api.Group("")
	protected.Use(APIKeyAuthMiddleware(h.cfg, h.logger))

	// Маршруты для управления инцидентами
	incidents := protected.Group("/incidents")
	{
		incidents.GET("", h.listIncidents)
		incidents.GET("/:id", h.getIncident)
		incidents.PUT("/:id/status", h.updateIncidentStatus)
		incidents.POST("/:id/cancel", h.cancelIncident)
	}

	// Маршруты диспетчеризации
	dispatch := protected.Group("/dispatch")
	{
		dispatch.POST("/incidents/:id", h.dispatchIncident)
		dispatch.POST("/assign", h.assignResponder)
		dispatch.GET("/active", h.listActiveIncidents)
	}

	// Маршруты для управления бригадами
	responders := protected.Group("/responders")
	{
		responders.POST("", h.createResponder)
		responders.GET("", h.listResponders)
		responders.GET("/available", h.listAvailableResponders)
		responders.GET("/:id", h.getResponder)
		responders.PUT("/:id", h.updateResponder)
	}

	// Маршруты для управления больницами
	hospitals := protected.Group("/hospitals")
	{
		hospitals.POST("", h.createHospital)
		hospitals.GET("", h.listHospitals)
		hospitals.GET("/:id", h.getHospital)
		hospitals.PUT("/:id", h.updateHospital)
		hospitals.POST("/:id/arrivals", h.confirmArrival)
	}

	// Аналитические отчёты
	analytics := protected.Group("/analytics")
	{
		analytics.GET("/response-times", h.responseTimes)
		analytics.GET("/monthly", h.monthlyReport)
		analytics.GET("/by-location", h.locationSeverity)
	}

	// Журнал аудита
	protected.GET("/audit", h.recentAuditLogs)
}
