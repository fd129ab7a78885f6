package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shenikar/green_corridor_dispatch/internal/corridor"
	"github.com/shenikar/green_corridor_dispatch/internal/events"
	"github.com/shenikar/green_corridor_dispatch/internal/models"
	"github.com/shenikar/green_corridor_dispatch/internal/notify"
	"github.com/sirupsen/logrus"
)

const (
	reasonCancelled = "cancelled"
	// время на компенсирующие действия после отмены
	compensationTimeout = 5 * time.Second
)

// tracker хранит состояние конвейера одного происшествия
type tracker struct {
	mu       sync.RWMutex
	snap     models.DispatchSnapshot
	status   models.DispatchStatus
	degraded bool
	released bool

	cancel context.CancelFunc
	done   chan struct{}

	lifecycle    sync.Mutex
	finalizeOnce sync.Once
	record       *models.DispatchRecord
}

func newTracker(incident *models.Incident, now time.Time, cancel context.CancelFunc) *tracker {
	inc := *incident
	return &tracker{
		snap: models.DispatchSnapshot{
			IncidentID:  incident.ID,
			ExternalRef: incident.ExternalRef,
			Stage:       models.StageReceived,
			ReceivedAt:  now,
			UpdatedAt:   now,
			History:     []models.StageTransition{{Stage: models.StageReceived, At: now}},
			Incident:    &inc,
		},
		status: models.StatusDispatched,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

func (t *tracker) snapshot() models.DispatchSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap := t.snap
	snap.History = append([]models.StageTransition(nil), t.snap.History...)
	snap.Notifications = append([]models.NotificationRecord(nil), t.snap.Notifications...)
	return snap
}

func (t *tracker) finished() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// run проводит происшествие по этапам строго последовательно
func (s *dispatchService) run(ctx context.Context, t *tracker, incident models.Incident) {
	defer s.wg.Done()
	defer close(t.done)

	log := s.logger.WithFields(logrus.Fields{
		"service":     "dispatch",
		"method":      "run",
		"incident_id": incident.ID,
	})

	if incident.SourceConfidence < s.cfg.MinSourceConfidence {
		reason := fmt.Sprintf("source confidence %.2f below minimum %.2f", incident.SourceConfidence, s.cfg.MinSourceConfidence)
		log.Warn("Incident rejected: " + reason)
		s.fail(t, models.StatusRejected, reason)
		return
	}

	assessment := s.c.Assessor.Assess(ctx, incident)
	if s.interrupted(ctx, t) {
		return
	}
	s.advance(t, models.StageScored, func(snap *models.DispatchSnapshot) {
		snap.Assessment = &assessment
	})
	log.WithFields(logrus.Fields{"score": assessment.Score, "tier": assessment.Tier}).Info("Incident scored")

	reservation, err := s.c.Matcher.Match(ctx, incident, assessment)
	if err != nil {
		var noCap *models.NoCapacityError
		if errors.As(err, &noCap) {
			s.fail(t, models.StatusNoCapacity, noCap.Error())
			return
		}
		if s.interrupted(ctx, t) {
			return
		}
		log.WithError(err).Error("Facility matching failed")
		s.fail(t, models.StatusFailed, err.Error())
		return
	}
	s.advance(t, models.StageMatched, func(snap *models.DispatchSnapshot) {
		snap.Reservation = reservation
	})
	if s.interrupted(ctx, t) {
		return
	}

	route := s.c.Estimator.Estimate(ctx, incident, *reservation, assessment.CorridorRequired)
	s.advance(t, models.StageRouted, func(snap *models.DispatchSnapshot) {
		snap.Route = &route
	})
	if s.interrupted(ctx, t) {
		return
	}

	activation := s.c.Corridor.Evaluate(ctx, route, assessment, incident.Location, reservation.Facility.Location)
	s.advance(t, models.StageCorridorEvaluated, func(snap *models.DispatchSnapshot) {
		snap.Corridor = &activation
	})
	if s.interrupted(ctx, t) {
		return
	}

	notes := notify.Build(notify.Context{
		Incident:    incident,
		Assessment:  assessment,
		Reservation: *reservation,
		Route:       route,
		Corridor:    &activation,
	})
	records := s.c.Notifier.Dispatch(ctx, notes)

	var failed []string
	for _, r := range records {
		if r.Status != models.DeliverySent {
			failed = append(failed, string(r.Recipient))
			continue
		}
		if r.Recipient == models.RecipientAuthority {
			confirmed, err := s.c.Corridor.ConfirmAuthority(route.ID)
			if err != nil {
				log.WithError(err).Error("Failed to confirm corridor authority")
				continue
			}
			activation = confirmed
		}
	}
	if s.interrupted(ctx, t) {
		return
	}

	s.advance(t, models.StageNotified, func(snap *models.DispatchSnapshot) {
		snap.Notifications = records
		snap.Corridor = &activation
		if len(failed) > 0 {
			t.degraded = true
			snap.Reason = "degraded: notification failed for " + strings.Join(failed, ", ")
		}
	})
	if len(failed) > 0 {
		log.WithField("failed_recipients", failed).Warn("Dispatch completed in degraded state")
		return
	}
	log.Info("Dispatch pipeline completed")
}

// interrupted выполняет компенсацию, если конвейер был отменен
func (s *dispatchService) interrupted(ctx context.Context, t *tracker) bool {
	if ctx.Err() == nil {
		return false
	}
	s.compensate(t)
	s.fail(t, models.StatusFailed, reasonCancelled)
	return true
}

// compensate возвращает койку и завершает коридор. Повторный вызов ничего не делает.
func (s *dispatchService) compensate(t *tracker) {
	t.mu.Lock()
	reservation := t.snap.Reservation
	route := t.snap.Route
	release := reservation != nil && !t.released
	if release {
		t.released = true
	}
	t.mu.Unlock()

	log := s.logger.WithFields(logrus.Fields{
		"service":     "dispatch",
		"method":      "compensate",
		"incident_id": t.snap.IncidentID,
	})

	if release {
		if err := s.c.Matcher.Release(*reservation); err != nil {
			log.WithError(err).Error("Failed to release reservation")
		} else {
			log.WithField("facility_id", reservation.FacilityID).Info("Reservation released")
		}
	}

	if route == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), compensationTimeout)
	defer cancel()
	activation, err := s.c.Corridor.Complete(ctx, route.ID)
	if err != nil {
		if !errors.Is(err, corridor.ErrRouteNotEvaluated) {
			log.WithError(err).Error("Failed to complete corridor")
		}
		return
	}
	t.mu.Lock()
	t.snap.Corridor = &activation
	t.mu.Unlock()
}

func (s *dispatchService) fail(t *tracker, status models.DispatchStatus, reason string) {
	s.advance(t, models.StageFailed, func(snap *models.DispatchSnapshot) {
		t.status = status
		snap.Reason = reason
	})
}

// finalize строит сводную запись. Вызывается один раз под t.lifecycle.
func (s *dispatchService) finalize(ctx context.Context, t *tracker) *models.DispatchRecord {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "dispatch",
		"method":      "finalize",
		"incident_id": t.snap.IncidentID,
	})

	if snap := t.snapshot(); snap.Stage == models.StageNotified {
		if snap.Route != nil {
			activation, err := s.c.Corridor.Complete(ctx, snap.Route.ID)
			if err != nil {
				log.WithError(err).Error("Failed to complete corridor")
			} else {
				t.mu.Lock()
				t.snap.Corridor = &activation
				t.mu.Unlock()
			}
		}
		s.advance(t, models.StageFinalized, func(snap *models.DispatchSnapshot) {
			if !t.degraded {
				snap.Reason = dispatchedReason(snap)
			}
		})
	}

	now := s.now().UTC()
	t.mu.Lock()
	snap := t.snap
	record := &models.DispatchRecord{
		IncidentID:    snap.IncidentID,
		ExternalRef:   snap.ExternalRef,
		Status:        t.status,
		Degraded:      t.degraded,
		Reason:        snap.Reason,
		ReceivedAt:    snap.ReceivedAt,
		FinalizedAt:   now,
		Elapsed:       now.Sub(snap.ReceivedAt),
		Assessment:    snap.Assessment,
		Reservation:   snap.Reservation,
		Route:         snap.Route,
		Corridor:      snap.Corridor,
		Notifications: append([]models.NotificationRecord(nil), snap.Notifications...),
	}
	t.snap.Record = record
	t.mu.Unlock()

	s.c.Notifier.Forget(record.IncidentID)

	if s.c.Archive != nil {
		if err := s.c.Archive.Save(ctx, record); err != nil {
			log.WithError(err).Error("Failed to archive dispatch record")
		}
	}
	return record
}

func dispatchedReason(snap *models.DispatchSnapshot) string {
	if snap.Reservation == nil || snap.Route == nil {
		return "dispatched"
	}
	return fmt.Sprintf("dispatched to %s, priority ETA %d min (saves %d min)",
		snap.Reservation.FacilityID, snap.Route.PriorityETA, snap.Route.TimeSaved)
}

// advance переводит происшествие на этап и публикует событие
func (s *dispatchService) advance(t *tracker, stage models.Stage, mutate func(snap *models.DispatchSnapshot)) {
	now := s.now().UTC()

	t.mu.Lock()
	if mutate != nil {
		mutate(&t.snap)
	}
	t.snap.Stage = stage
	t.snap.UpdatedAt = now
	t.snap.History = append(t.snap.History, models.StageTransition{Stage: stage, At: now})
	t.mu.Unlock()

	s.publish(t)
}

func (s *dispatchService) publish(t *tracker) {
	snap := t.snapshot()
	event := events.Event{
		IncidentID:  snap.IncidentID,
		ExternalRef: snap.ExternalRef,
		Stage:       snap.Stage,
		Reason:      snap.Reason,
		Timestamp:   snap.UpdatedAt,
	}
	if snap.Assessment != nil {
		event.Tier = snap.Assessment.Tier
	}
	if snap.Reservation != nil {
		event.FacilityID = snap.Reservation.FacilityID
	}
	t.mu.RLock()
	event.Degraded = t.degraded
	t.mu.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.NotifyTimeout)
	defer cancel()
	if err := s.c.Events.Publish(ctx, event); err != nil {
		s.logger.WithFields(logrus.Fields{
			"service":     "dispatch",
			"incident_id": snap.IncidentID,
			"stage":       snap.Stage,
		}).WithError(err).Warn("Failed to publish dispatch event")
	}
}
