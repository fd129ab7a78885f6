package corridor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/green_corridor_dispatch/internal/config"
	"github.com/shenikar/green_corridor_dispatch/internal/models"
	"github.com/sirupsen/logrus"
)

// ErrRouteNotEvaluated - для маршрута еще не принималось решение о коридоре
var ErrRouteNotEvaluated = errors.New("corridor: route has not been evaluated")

const (
	PlanActivate = "activate"
	PlanRelease  = "release"
)

// SignalPlan - план приоритета для светофорных контроллеров
type SignalPlan struct {
	Action       string          `json:"action"`
	RouteID      uuid.UUID       `json:"route_id"`
	IncidentID   uuid.UUID       `json:"incident_id"`
	FacilityID   string          `json:"facility_id"`
	SignalPoints int             `json:"signal_points"`
	From         models.Location `json:"from"`
	To           models.Location `json:"to"`
	PriorityETA  int             `json:"priority_eta_minutes"`
	IssuedAt     time.Time       `json:"issued_at"`
}

// SignalPublisher доставляет планы контроллерам
type SignalPublisher interface {
	Publish(ctx context.Context, plan SignalPlan) error
}

// Params - пороги и константы активации
type Params struct {
	MinTimeSaved int
	DensityPerKm float64
	MaxPoints    int
}

func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		MinTimeSaved: cfg.CorridorMinTimeSaved,
		DensityPerKm: cfg.SignalDensityPerKm,
		MaxPoints:    cfg.SignalMaxPoints,
	}
}

// SignalPoints - число согласованных светофоров на маршруте
func (p Params) SignalPoints(distanceKm float64) int {
	n := int(math.Ceil(distanceKm * p.DensityPerKm))
	if n > p.MaxPoints {
		n = p.MaxPoints
	}
	if n < 0 {
		n = 0
	}
	return n
}

// Eligible - условие перехода Inactive -> Activated
func (p Params) Eligible(route models.Route, corridorRequired bool) bool {
	return (corridorRequired || route.TimeSaved >= p.MinTimeSaved) && route.TimeSaved > 0
}

type routeState struct {
	mu         sync.Mutex
	activation *models.CorridorActivation
	plan       SignalPlan
}

// Activator ведет по одному автомату состояний коридора на маршрут
type Activator struct {
	mu        sync.Mutex
	routes    map[uuid.UUID]*routeState
	params    Params
	publisher SignalPublisher
	logger    *logrus.Logger
	now       func() time.Time
}

// NewActivator создает Activator. publisher может быть nil.
func NewActivator(params Params, publisher SignalPublisher, logger *logrus.Logger) *Activator {
	return &Activator{
		routes:    make(map[uuid.UUID]*routeState),
		params:    params,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (a *Activator) state(routeID uuid.UUID, create bool) *routeState {
	a.mu.Lock()
	defer a.mu.Unlock()

	st, ok := a.routes[routeID]
	if !ok && create {
		st = &routeState{}
		a.routes[routeID] = st
	}
	return st
}

// Evaluate принимает решение о коридоре. Повторный вызов для того же маршрута
// возвращает уже принятое решение.
func (a *Activator) Evaluate(ctx context.Context, route models.Route, assessment models.SeverityAssessment, from, to models.Location) models.CorridorActivation {
	st := a.state(route.ID, true)
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.activation != nil {
		return *st.activation
	}

	log := a.logger.WithFields(logrus.Fields{
		"component":   "corridor",
		"route_id":    route.ID,
		"incident_id": route.IncidentID,
	})

	activation := &models.CorridorActivation{
		RouteID:    route.ID,
		IncidentID: route.IncidentID,
		Status:     models.CorridorInactive,
	}

	if !a.params.Eligible(route, assessment.CorridorRequired) {
		activation.Reason = fmt.Sprintf("not eligible: corridor_required=%t, time_saved=%d min", assessment.CorridorRequired, route.TimeSaved)
		st.activation = activation
		log.WithField("time_saved", route.TimeSaved).Info("Corridor not activated")
		return *activation
	}

	now := a.now().UTC()
	activation.Status = models.CorridorActivated
	activation.SignalPoints = a.params.SignalPoints(route.DistanceKm)
	activation.ActivatedAt = now
	if assessment.CorridorRequired {
		activation.Reason = fmt.Sprintf("%s severity requires priority corridor", assessment.Tier)
	} else {
		activation.Reason = fmt.Sprintf("time saved %d min meets threshold", route.TimeSaved)
	}
	st.activation = activation
	st.plan = SignalPlan{
		RouteID:      route.ID,
		IncidentID:   route.IncidentID,
		FacilityID:   route.FacilityID,
		SignalPoints: activation.SignalPoints,
		From:         from,
		To:           to,
		PriorityETA:  route.PriorityETA,
	}

	log.WithFields(logrus.Fields{
		"signal_points": activation.SignalPoints,
		"time_saved":    route.TimeSaved,
	}).Info("Corridor activated")
	a.publish(ctx, st.plan, PlanActivate, log)

	return *activation
}

// ConfirmAuthority переводит Activated -> Active после подтвержденного уведомления дорожной службы
func (a *Activator) ConfirmAuthority(routeID uuid.UUID) (models.CorridorActivation, error) {
	st := a.state(routeID, false)
	if st == nil {
		return models.CorridorActivation{}, ErrRouteNotEvaluated
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.activation == nil {
		return models.CorridorActivation{}, ErrRouteNotEvaluated
	}
	if st.activation.Status == models.CorridorActivated {
		st.activation.Status = models.CorridorActive
		st.activation.AuthorityNotified = true
	}
	return *st.activation, nil
}

// Complete завершает коридор при финализации происшествия. Inactive остается Inactive.
func (a *Activator) Complete(ctx context.Context, routeID uuid.UUID) (models.CorridorActivation, error) {
	st := a.state(routeID, false)
	if st == nil {
		return models.CorridorActivation{}, ErrRouteNotEvaluated
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.activation == nil {
		return models.CorridorActivation{}, ErrRouteNotEvaluated
	}

	switch st.activation.Status {
	case models.CorridorActivated, models.CorridorActive:
		st.activation.Status = models.CorridorCompleted
		st.activation.CompletedAt = a.now().UTC()
		log := a.logger.WithFields(logrus.Fields{
			"component":   "corridor",
			"route_id":    routeID,
			"incident_id": st.activation.IncidentID,
		})
		log.Info("Corridor completed")
		a.publish(ctx, st.plan, PlanRelease, log)
	}
	return *st.activation, nil
}

// Get возвращает текущее состояние коридора маршрута
func (a *Activator) Get(routeID uuid.UUID) (models.CorridorActivation, bool) {
	st := a.state(routeID, false)
	if st == nil {
		return models.CorridorActivation{}, false
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.activation == nil {
		return models.CorridorActivation{}, false
	}
	return *st.activation, true
}

func (a *Activator) publish(ctx context.Context, plan SignalPlan, action string, log *logrus.Entry) {
	if a.publisher == nil {
		return
	}
	plan.Action = action
	plan.IssuedAt = a.now().UTC()
	if err := a.publisher.Publish(ctx, plan); err != nil {
		log.WithError(err).WithField("action", action).Error("Failed to publish signal plan")
	}
}
