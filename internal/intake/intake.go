package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/green_corridor_dispatch/internal/config"
	"github.com/shenikar/green_corridor_dispatch/internal/models"
)

// RawIncident - входные данные от источника происшествий до нормализации
type RawIncident struct {
	ExternalRef      string     `json:"external_ref" validate:"required,max=128"`
	Description      string     `json:"description" validate:"max=4096"`
	Latitude         float64    `json:"latitude" validate:"latitude"`
	Longitude        float64    `json:"longitude" validate:"longitude"`
	Category         string     `json:"category" validate:"required"`
	Conscious        *bool      `json:"conscious,omitempty"`
	Breathing        *bool      `json:"breathing,omitempty"`
	Bleeding         *bool      `json:"bleeding,omitempty"`
	PatientAge       *int       `json:"patient_age,omitempty" validate:"omitempty,gte=0,lte=130"`
	SourceConfidence *float64   `json:"source_confidence,omitempty" validate:"omitempty,gte=0,lte=1"`
	ReportedAt       *time.Time `json:"reported_at,omitempty"`
	RequesterName    string     `json:"requester_name" validate:"max=255"`
	RequesterContact string     `json:"requester_contact" validate:"required,max=255"`
}

// Intake нормализует сырые данные в каноническое происшествие
type Intake struct {
	cfg      *config.Config
	validate *validator.Validate
	now      func() time.Time
}

// New создает Intake
func New(cfg *config.Config) *Intake {
	return &Intake{
		cfg:      cfg,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Normalize проверяет входные данные и создает Incident с идентификатором UUIDv7
func (in *Intake) Normalize(raw RawIncident) (*models.Incident, error) {
	var problems []string

	if err := in.validate.Struct(raw); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				problems = append(problems, fmt.Sprintf("%s failed on %q", fe.Field(), fe.Tag()))
			}
		} else {
			problems = append(problems, err.Error())
		}
	}

	if strings.TrimSpace(raw.ExternalRef) == "" && !containsField(problems, "ExternalRef") {
		problems = append(problems, "ExternalRef is blank")
	}
	if strings.TrimSpace(raw.RequesterContact) == "" && !containsField(problems, "RequesterContact") {
		problems = append(problems, "RequesterContact is blank")
	}

	category := models.Category(strings.ToLower(strings.TrimSpace(raw.Category)))
	if raw.Category != "" && !category.Valid() {
		problems = append(problems, fmt.Sprintf("category %q is not supported", raw.Category))
	}

	if !in.inRegion(raw.Latitude, raw.Longitude) {
		problems = append(problems, fmt.Sprintf("location (%.5f, %.5f) is outside the service region", raw.Latitude, raw.Longitude))
	}

	if len(problems) > 0 {
		return nil, &models.ValidationError{Fields: problems}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("intake: could not generate incident id: %w", err)
	}

	reportedAt := in.now().UTC()
	if raw.ReportedAt != nil && !raw.ReportedAt.IsZero() {
		reportedAt = raw.ReportedAt.UTC()
	}

	confidence := 1.0
	if raw.SourceConfidence != nil {
		confidence = *raw.SourceConfidence
	}

	var age *int
	if raw.PatientAge != nil {
		v := *raw.PatientAge
		age = &v
	}

	return &models.Incident{
		ID:               id,
		ExternalRef:      strings.TrimSpace(raw.ExternalRef),
		Description:      strings.TrimSpace(raw.Description),
		Location:         models.Location{Latitude: raw.Latitude, Longitude: raw.Longitude},
		ReportedAt:       reportedAt,
		Category:         category,
		Conscious:        boolOr(raw.Conscious, true),
		Breathing:        boolOr(raw.Breathing, true),
		Bleeding:         boolOr(raw.Bleeding, false),
		PatientAge:       age,
		SourceConfidence: confidence,
		Requester: models.Requester{
			Name:    strings.TrimSpace(raw.RequesterName),
			Contact: strings.TrimSpace(raw.RequesterContact),
		},
	}, nil
}

// Admit нормализует происшествие и закрепляет его внешнюю ссылку в реестре
func (in *Intake) Admit(ctx context.Context, registry ReferenceRegistry, raw RawIncident) (*models.Incident, error) {
	incident, err := in.Normalize(raw)
	if err != nil {
		return nil, err
	}

	existing, claimed, err := registry.Claim(ctx, incident.ExternalRef, incident.ID)
	if err != nil {
		return nil, fmt.Errorf("intake: could not claim external reference: %w", err)
	}
	if !claimed {
		return nil, &models.DuplicateIncidentError{ExternalRef: incident.ExternalRef, ExistingID: existing}
	}
	return incident, nil
}

func (in *Intake) inRegion(lat, lon float64) bool {
	return lat >= in.cfg.RegionMinLat && lat <= in.cfg.RegionMaxLat &&
		lon >= in.cfg.RegionMinLon && lon <= in.cfg.RegionMaxLon
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func containsField(problems []string, field string) bool {
	for _, p := range problems {
		if strings.HasPrefix(p, field+" ") {
			return true
		}
	}
	return false
}
