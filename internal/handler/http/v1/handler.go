package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/green_corridor_dispatch/internal/config"
	"github.com/shenikar/green_corridor_dispatch/internal/models"
	"github.com/shenikar/green_corridor_dispatch/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	dispatchService service.DispatchService
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

func NewHandler(dispatchService service.DispatchService, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		dispatchService: dispatchService,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// @Summary Submit a new incident
// @Description Admit an incident and start its dispatch pipeline asynchronously
// @Tags Incidents
// @Accept json
// @Produce json
// @Param incident body CreateIncidentRequest true "Incident submission request"
// @Success 202 {object} SubmitIncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 409 {object} DuplicateIncidentResponse "External reference already submitted"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [post]
func (h *Handler) submitIncident(c *gin.Context) {
	var input CreateIncidentRequest
	log := h.logger.WithField("method", "submitIncident")

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

	id, err := h.dispatchService.SubmitIncident(c.Request.Context(), DTOToRawIncident(input))
	if err != nil {
		var dup *models.DuplicateIncidentError
		var verr *models.ValidationError
		switch {
		case errors.As(err, &dup):
			resp := DuplicateIncidentResponse{Error: dup.Error(), ExistingID: dup.ExistingID}
			if snap, serr := h.dispatchService.GetStatus(c.Request.Context(), dup.ExistingID); serr == nil {
				resp.Existing = SnapshotToResponse(snap)
			}
			c.JSON(http.StatusConflict, resp)
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
		default:
			log.WithError(err).Error("Failed to submit incident in service")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}
	c.JSON(http.StatusAccepted, SubmitIncidentResponse{IncidentID: id})
}

// @Summary List active incidents
// @Description Get snapshots of all incidents that are not finalized or failed, oldest first
// @Tags Incidents
// @Accept json
// @Produce json
// @Success 200 {array} DispatchStatusResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [get]
func (h *Handler) listActive(c *gin.Context) {
	log := h.logger.WithField("method", "listActive")

	snaps, err := h.dispatchService.ListActive(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list active incidents from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, SnapshotsToResponses(snaps))
}

// @Summary Get dispatch status
// @Description Get the current pipeline snapshot of an incident
// @Tags Incidents
// @Accept json
// @Produce json
// @Param id path string true "Incident ID"
// @Success 200 {object} DispatchStatusResponse
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id} [get]
func (h *Handler) getStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}
	log := h.logger.WithField("method", "getStatus").WithField("id", id)

	snap, err := h.dispatchService.GetStatus(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, log, err, "Failed to get dispatch status from service")
		return
	}
	c.JSON(http.StatusOK, SnapshotToResponse(snap))
}

// @Summary Cancel an incident
// @Description Cancel a running or notified incident, releasing its bed and corridor
// @Tags Incidents
// @Accept json
// @Produce json
// @Param id path string true "Incident ID"
// @Success 200 {object} DispatchStatusResponse
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 409 {object} map[string]string "Incident already finalized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id}/cancel [post]
func (h *Handler) cancelIncident(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}
	log := h.logger.WithField("method", "cancelIncident").WithField("id", id)

	snap, err := h.dispatchService.Cancel(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, log, err, "Failed to cancel incident in service")
		return
	}
	c.JSON(http.StatusOK, SnapshotToResponse(snap))
}

// @Summary Finalize an incident
// @Description Close the incident, complete its corridor and return the consolidated dispatch record
// @Tags Incidents
// @Accept json
// @Produce json
// @Param id path string true "Incident ID"
// @Success 200 {object} DispatchRecordResponse
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 409 {object} map[string]string "Dispatch still in progress"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id}/finalize [post]
func (h *Handler) finalizeIncident(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}
	log := h.logger.WithField("method", "finalizeIncident").WithField("id", id)

	record, err := h.dispatchService.Finalize(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, log, err, "Failed to finalize incident in service")
		return
	}
	c.JSON(http.StatusOK, RecordToResponse(record))
}

// @Summary List finalized dispatches
// @Description Get finalized dispatch records with pagination, newest first
// @Tags Dispatches
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Number of items per page" default(10)
// @Success 200 {array} DispatchRecordResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /dispatches [get]
func (h *Handler) listDispatches(c *gin.Context) {
	log := h.logger.WithField("method", "listDispatches")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	records, err := h.dispatchService.ListFinalized(c.Request.Context(), page, pageSize)
	if err != nil {
		log.WithError(err).Error("Failed to list dispatches from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, RecordsToResponses(records))
}

// @Summary List facilities
// @Description Get current bed capacities of all receiving facilities
// @Tags Facilities
// @Accept json
// @Produce json
// @Success 200 {array} FacilityResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /facilities [get]
func (h *Handler) listFacilities(c *gin.Context) {
	log := h.logger.WithField("method", "listFacilities")

	facilities, err := h.dispatchService.Facilities(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list facilities from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, FacilitiesToResponses(facilities))
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

// writeServiceError отображает доменные ошибки на HTTP-статусы
func (h *Handler) writeServiceError(c *gin.Context, log *logrus.Entry, err error, msg string) {
	switch {
	case errors.Is(err, models.ErrIncidentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
	case errors.Is(err, models.ErrAlreadyFinalized), errors.Is(err, models.ErrDispatchInProgress):
		log.WithError(err).Warn(msg)
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.WithError(err).Error(msg)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
