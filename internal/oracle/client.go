package oracle

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shenikar/green_corridor_dispatch/internal/models"
	"github.com/shenikar/green_corridor_dispatch/internal/routing"
	"github.com/shenikar/green_corridor_dispatch/internal/scoring"
	"github.com/sirupsen/logrus"
)

const (
	assessPath = "/v1/assess"
	etaPath    = "/v1/eta"
)

func newRestyClient(baseURL string, timeout time.Duration) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
}

type assessRequest struct {
	IncidentID  string          `json:"incident_id"`
	Description string          `json:"description"`
	Category    models.Category `json:"category"`
	Conscious   bool            `json:"conscious"`
	Breathing   bool            `json:"breathing"`
	Bleeding    bool            `json:"bleeding"`
	PatientAge  *int            `json:"patient_age,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ScoringClient - HTTP-клиент внешнего оракула тяжести
type ScoringClient struct {
	httpClient *resty.Client
	logger     *logrus.Logger
}

func NewScoringClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *ScoringClient {
	return &ScoringClient{httpClient: newRestyClient(baseURL, timeout), logger: logger}
}

func (c *ScoringClient) Assess(ctx context.Context, incident models.Incident) (*scoring.Hint, error) {
	var hint scoring.Hint
	var apiErr errorResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(assessRequest{
			IncidentID:  incident.ID.String(),
			Description: incident.Description,
			Category:    incident.Category,
			Conscious:   incident.Conscious,
			Breathing:   incident.Breathing,
			Bleeding:    incident.Bleeding,
			PatientAge:  incident.PatientAge,
		}).
		SetResult(&hint).
		SetError(&apiErr).
		Post(assessPath)
	if err != nil {
		return nil, fmt.Errorf("oracle: scoring call failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("oracle: scoring returned %s: %s", resp.Status(), apiErr.Error)
	}

	c.logger.WithFields(logrus.Fields{
		"component":   "scoring_oracle",
		"incident_id": incident.ID,
		"adjustment":  hint.Adjustment,
	}).Debug("Scoring oracle responded")
	return &hint, nil
}

type etaResponse struct {
	PriorityETAMinutes float64 `json:"priority_eta_minutes"`
}

// ETAClient - HTTP-клиент оракула оптимизации ETA
type ETAClient struct {
	httpClient *resty.Client
	logger     *logrus.Logger
}

func NewETAClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *ETAClient {
	return &ETAClient{httpClient: newRestyClient(baseURL, timeout), logger: logger}
}

func (c *ETAClient) Suggest(ctx context.Context, query routing.RouteQuery) (float64, error) {
	var out etaResponse
	var apiErr errorResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(query).
		SetResult(&out).
		SetError(&apiErr).
		Post(etaPath)
	if err != nil {
		return 0, fmt.Errorf("oracle: eta call failed: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("oracle: eta returned %s: %s", resp.Status(), apiErr.Error)
	}
	if out.PriorityETAMinutes <= 0 {
		return 0, fmt.Errorf("oracle: eta returned non-positive suggestion %.2f", out.PriorityETAMinutes)
	}

	c.logger.WithFields(logrus.Fields{
		"component":   "eta_oracle",
		"incident_id": query.IncidentID,
		"suggestion":  out.PriorityETAMinutes,
	}).Debug("ETA oracle responded")
	return out.PriorityETAMinutes, nil
}
