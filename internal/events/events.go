package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/green_corridor_dispatch/internal/models"
)

// Event - переход происшествия между этапами конвейера
type Event struct {
	IncidentID  uuid.UUID           `json:"incident_id"`
	ExternalRef string              `json:"external_ref"`
	Stage       models.Stage        `json:"stage"`
	Reason      string              `json:"reason,omitempty"`
	Degraded    bool                `json:"degraded,omitempty"`
	FacilityID  string              `json:"facility_id,omitempty"`
	Tier        models.SeverityTier `json:"tier,omitempty"`
	Timestamp   time.Time           `json:"timestamp"`
}

// Publisher - интерфейс для публикации событий конвейера
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher отбрасывает события
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Multi публикует событие во все издатели и объединяет ошибки
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
