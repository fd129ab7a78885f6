package routing

import (
	"context"
	"time"

	"github.com/shenikar/green_corridor_dispatch/internal/models"
	"github.com/sirupsen/logrus"
)

// RouteQuery - запрос к оракулу оптимизации ETA
type RouteQuery struct {
	IncidentID       string          `json:"incident_id"`
	From             models.Location `json:"from"`
	To               models.Location `json:"to"`
	BaselineETA      int             `json:"baseline_eta_minutes"`
	CorridorRequired bool            `json:"corridor_required"`
	Traffic          string          `json:"traffic_condition"`
}

// ETAOracle - внешний источник оптимизированного ETA
type ETAOracle interface {
	Suggest(ctx context.Context, query RouteQuery) (float64, error)
}

// Estimator рассчитывает маршрут, при наличии оракула спрашивая у него ETA
type Estimator struct {
	params  Params
	oracle  ETAOracle
	timeout time.Duration
	logger  *logrus.Logger
	now     func() time.Time
}

func NewEstimator(params Params, oracle ETAOracle, timeout time.Duration, logger *logrus.Logger) *Estimator {
	return &Estimator{
		params:  params,
		oracle:  oracle,
		timeout: timeout,
		logger:  logger,
		now:     time.Now,
	}
}

// Estimate строит маршрут до зарезервированного учреждения
func (e *Estimator) Estimate(ctx context.Context, incident models.Incident, reservation models.Reservation, corridorRequired bool) models.Route {
	in := Input{
		IncidentID:       incident.ID,
		FacilityID:       reservation.FacilityID,
		From:             incident.Location,
		To:               reservation.Facility.Location,
		At:               e.now(),
		CorridorRequired: corridorRequired,
	}

	if e.oracle != nil {
		heuristic := Estimate(in, e.params)
		suggestion, err := e.suggest(ctx, RouteQuery{
			IncidentID:       incident.ID.String(),
			From:             in.From,
			To:               in.To,
			BaselineETA:      heuristic.BaselineETA,
			CorridorRequired: corridorRequired,
			Traffic:          heuristic.TrafficCondition,
		})
		if err != nil {
			e.logger.WithFields(logrus.Fields{
				"component":   "routing",
				"incident_id": incident.ID,
			}).WithError(err).Warn("ETA oracle unavailable, using heuristic factor")
		} else {
			in.SuggestedETA = &suggestion
		}
	}

	return Estimate(in, e.params)
}

func (e *Estimator) suggest(ctx context.Context, q RouteQuery) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	type result struct {
		eta float64
		err error
	}
	done := make(chan result, 1)
	go func() {
		eta, err := e.oracle.Suggest(ctx, q)
		done <- result{eta: eta, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return 0, &models.OracleTimeoutError{Oracle: "eta", Err: res.err}
		}
		return res.eta, nil
	case <-ctx.Done():
		return 0, &models.OracleTimeoutError{Oracle: "eta", Err: ctx.Err()}
	}
}
