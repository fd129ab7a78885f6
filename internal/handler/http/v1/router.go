package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Маршруты конвейера диспетчеризации
	incidents := api.Group("/incidents")
	{
		incidents.POST("", h.submitIncident)
		incidents.GET("", h.listActive)
		incidents.GET("/:id", h.getStatus)
		incidents.POST("/:id/cancel", h.cancelIncident)
		incidents.POST("/:id/finalize", h.finalizeIncident)
	}

	// Архив завершенных диспетчеризаций
	api.GET("/dispatches", h.listDispatches)

	// Текущие мощности учреждений
	api.GET("/facilities", h.listFacilities)

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
