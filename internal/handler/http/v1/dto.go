package v1

import (
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/green_corridor_dispatch/internal/models"
)

// CreateIncidentRequest DTO для подачи происшествия
// @Description DTO для подачи происшествия
type CreateIncidentRequest struct {
	ExternalRef      string     `json:"external_ref" validate:"required,max=128"`
	Description      string     `json:"description,omitempty" validate:"max=4096"`
	Latitude         float64    `json:"latitude" validate:"required,latitude"`
	Longitude        float64    `json:"longitude" validate:"required,longitude"`
	Category         string     `json:"category" validate:"required"`
	Conscious        *bool      `json:"conscious,omitempty"`
	Breathing        *bool      `json:"breathing,omitempty"`
	Bleeding         *bool      `json:"bleeding,omitempty"`
	PatientAge       *int       `json:"patient_age,omitempty" validate:"omitempty,gte=0,lte=130"`
	SourceConfidence *float64   `json:"source_confidence,omitempty" validate:"omitempty,gte=0,lte=1"`
	ReportedAt       *time.Time `json:"reported_at,omitempty"`
	RequesterName    string     `json:"requester_name,omitempty" validate:"max=255"`
	RequesterContact string     `json:"requester_contact" validate:"required,max=255"`
}

// SubmitIncidentResponse DTO для ответа на подачу происшествия
// @Description DTO для ответа на подачу происшествия
type SubmitIncidentResponse struct {
	IncidentID uuid.UUID `json:"incident_id"`
}

// DuplicateIncidentResponse DTO для ответа на повторную подачу
// @Description DTO для ответа на повторную подачу
type DuplicateIncidentResponse struct {
	Error      string                  `json:"error"`
	ExistingID uuid.UUID               `json:"existing_id"`
	Existing   *DispatchStatusResponse `json:"existing,omitempty"`
}

// DispatchStatusResponse DTO со снимком конвейера
// @Description DTO со снимком конвейера
type DispatchStatusResponse struct {
	IncidentID      uuid.UUID                   `json:"incident_id"`
	ExternalRef     string                      `json:"external_ref"`
	Stage           string                      `json:"stage"`
	Reason          string                      `json:"reason,omitempty"`
	Tier            string                      `json:"tier,omitempty"`
	FacilityID      string                      `json:"facility_id,omitempty"`
	PriorityETA     int                         `json:"priority_eta_minutes,omitempty"`
	TimeSaved       int                         `json:"time_saved_minutes,omitempty"`
	CorridorStatus  string                      `json:"corridor_status,omitempty"`
	ReceivedAt      time.Time                   `json:"received_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
	History         []models.StageTransition    `json:"history"`
	Assessment      *models.SeverityAssessment  `json:"assessment,omitempty"`
	Reservation     *models.Reservation         `json:"reservation,omitempty"`
	Route           *models.Route               `json:"route,omitempty"`
	Corridor        *models.CorridorActivation  `json:"corridor,omitempty"`
	Notifications   []models.NotificationRecord `json:"notifications,omitempty"`
	FinalizedRecord *DispatchRecordResponse     `json:"record,omitempty"`
}

// DispatchRecordResponse DTO со сводной записью
// @Description DTO со сводной записью
type DispatchRecordResponse struct {
	IncidentID     uuid.UUID                   `json:"incident_id"`
	ExternalRef    string                      `json:"external_ref"`
	Status         string                      `json:"status"`
	Degraded       bool                        `json:"degraded"`
	Reason         string                      `json:"reason"`
	ReceivedAt     time.Time                   `json:"received_at"`
	FinalizedAt    time.Time                   `json:"finalized_at"`
	ElapsedSeconds float64                     `json:"elapsed_seconds"`
	Assessment     *models.SeverityAssessment  `json:"assessment,omitempty"`
	Reservation    *models.Reservation         `json:"reservation,omitempty"`
	Route          *models.Route               `json:"route,omitempty"`
	Corridor       *models.CorridorActivation  `json:"corridor,omitempty"`
	Notifications  []models.NotificationRecord `json:"notifications,omitempty"`
}

// FacilityResponse DTO с текущими мощностями учреждения
// @Description DTO с текущими мощностями учреждения
type FacilityResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	TraumaLevel  int      `json:"trauma_level"`
	Specialties  []string `json:"specialties"`
	GeneralBeds  int      `json:"general_beds"`
	CriticalBeds int      `json:"critical_beds"`
	Load         string   `json:"load,omitempty"`
}
