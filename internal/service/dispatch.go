package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/green_corridor_dispatch/internal/config"
	"github.com/shenikar/green_corridor_dispatch/internal/corridor"
	"github.com/shenikar/green_corridor_dispatch/internal/events"
	"github.com/shenikar/green_corridor_dispatch/internal/facility"
	"github.com/shenikar/green_corridor_dispatch/internal/intake"
	"github.com/shenikar/green_corridor_dispatch/internal/models"
	"github.com/shenikar/green_corridor_dispatch/internal/notify"
	"github.com/shenikar/green_corridor_dispatch/internal/routing"
	"github.com/shenikar/green_corridor_dispatch/internal/scoring"
	"github.com/sirupsen/logrus"
)

// DispatchArchive определяет контракт для хранения финализированных записей
type DispatchArchive interface {
	Save(ctx context.Context, record *models.DispatchRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.DispatchRecord, error)
	ListRecent(ctx context.Context, page, pageSize int) ([]*models.DispatchRecord, error)
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// DispatchService определяет контракт конвейера диспетчеризации
type DispatchService interface {
	SubmitIncident(ctx context.Context, raw intake.RawIncident) (uuid.UUID, error)
	GetStatus(ctx context.Context, id uuid.UUID) (*models.DispatchSnapshot, error)
	ListActive(ctx context.Context) ([]models.DispatchSnapshot, error)
	Wait(ctx context.Context, id uuid.UUID) (*models.DispatchSnapshot, error)
	Finalize(ctx context.Context, id uuid.UUID) (*models.DispatchRecord, error)
	ListFinalized(ctx context.Context, page, pageSize int) ([]*models.DispatchRecord, error)
	Cancel(ctx context.Context, id uuid.UUID) (*models.DispatchSnapshot, error)
	Facilities(ctx context.Context) ([]models.Facility, error)
	Shutdown(ctx context.Context) error
}

// Components - этапы конвейера и необязательная инфраструктура
type Components struct {
	Intake    *intake.Intake
	Registry  intake.ReferenceRegistry
	Assessor  *scoring.Assessor
	Matcher   *facility.Matcher
	Estimator *routing.Estimator
	Corridor  *corridor.Activator
	Notifier  *notify.Notifier
	// Events и Archive могут быть nil
	Events  events.Publisher
	Archive DispatchArchive
}

type dispatchService struct {
	c      Components
	cfg    *config.Config
	logger *logrus.Logger

	mu       sync.RWMutex
	trackers map[uuid.UUID]*tracker
	// finalized - завершенные происшествия в порядке финализации
	finalized []uuid.UUID
	wg        sync.WaitGroup

	now func() time.Time
}

func NewDispatchService(c Components, cfg *config.Config, logger *logrus.Logger) DispatchService {
	if c.Events == nil {
		c.Events = events.NopPublisher{}
	}
	return &dispatchService{
		c:        c,
		cfg:      cfg,
		logger:   logger,
		trackers: make(map[uuid.UUID]*tracker),
		now:      time.Now,
	}
}

// SubmitIncident принимает происшествие и запускает конвейер в отдельной горутине
func (s *dispatchService) SubmitIncident(ctx context.Context, raw intake.RawIncident) (uuid.UUID, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "dispatch",
		"method":       "SubmitIncident",
		"external_ref": raw.ExternalRef,
	})
	log.Info("Attempting to admit a new incident")

	incident, err := s.c.Intake.Admit(ctx, s.c.Registry, raw)
	if err != nil {
		var dup *models.DuplicateIncidentError
		var verr *models.ValidationError
		switch {
		case errors.As(err, &dup):
			log.WithField("existing_id", dup.ExistingID).Warn("Duplicate external reference")
			return uuid.Nil, err
		case errors.As(err, &verr):
			log.WithError(err).Warn("Incident rejected by validation")
			return uuid.Nil, err
		default:
			log.WithError(err).Error("Failed to admit incident")
			return uuid.Nil, fmt.Errorf("service: could not admit incident: %w", err)
		}
	}

	pipelineCtx, cancel := context.WithCancel(context.Background())
	t := newTracker(incident, s.now().UTC(), cancel)

	s.mu.Lock()
	s.trackers[incident.ID] = t
	s.mu.Unlock()

	s.publish(t)

	s.wg.Add(1)
	go s.run(pipelineCtx, t, *incident)

	log.WithField("incident_id", incident.ID).Info("Incident admitted, pipeline started")
	return incident.ID, nil
}

// GetStatus возвращает текущий снимок; после перезапуска - из архива
func (s *dispatchService) GetStatus(ctx context.Context, id uuid.UUID) (*models.DispatchSnapshot, error) {
	if t := s.tracker(id); t != nil {
		snap := t.snapshot()
		return &snap, nil
	}

	record, err := s.archived(ctx, id)
	if err != nil {
		return nil, err
	}
	return snapshotFromRecord(record), nil
}

// ListActive возвращает незавершенные происшествия в порядке поступления
func (s *dispatchService) ListActive(_ context.Context) ([]models.DispatchSnapshot, error) {
	s.mu.RLock()
	trackers := make([]*tracker, 0, len(s.trackers))
	for _, t := range s.trackers {
		trackers = append(trackers, t)
	}
	s.mu.RUnlock()

	active := make([]models.DispatchSnapshot, 0, len(trackers))
	for _, t := range trackers {
		snap := t.snapshot()
		if snap.Stage.Terminal() {
			continue
		}
		active = append(active, snap)
	}
	sort.Slice(active, func(i, j int) bool {
		if !active[i].ReceivedAt.Equal(active[j].ReceivedAt) {
			return active[i].ReceivedAt.Before(active[j].ReceivedAt)
		}
		return active[i].IncidentID.String() < active[j].IncidentID.String()
	})
	return active, nil
}

// Wait блокируется до завершения конвейера происшествия
func (s *dispatchService) Wait(ctx context.Context, id uuid.UUID) (*models.DispatchSnapshot, error) {
	t := s.tracker(id)
	if t == nil {
		record, err := s.archived(ctx, id)
		if err != nil {
			return nil, err
		}
		return snapshotFromRecord(record), nil
	}

	select {
	case <-t.done:
		snap := t.snapshot()
		return &snap, nil
	case <-ctx.Done():
		snap := t.snapshot()
		return &snap, ctx.Err()
	}
}

// Finalize идемпотентно закрывает происшествие и возвращает сводную запись
func (s *dispatchService) Finalize(ctx context.Context, id uuid.UUID) (*models.DispatchRecord, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "dispatch",
		"method":      "Finalize",
		"incident_id": id,
	})

	t := s.tracker(id)
	if t == nil {
		return s.archived(ctx, id)
	}
	if !t.finished() {
		return nil, models.ErrDispatchInProgress
	}

	t.lifecycle.Lock()
	defer t.lifecycle.Unlock()

	t.finalizeOnce.Do(func() {
		t.record = s.finalize(ctx, t)
		log.WithFields(logrus.Fields{
			"status":   t.record.Status,
			"degraded": t.record.Degraded,
		}).Info("Dispatch finalized")
		s.retire(id)
	})

	record := *t.record
	return &record, nil
}

// ListFinalized возвращает завершенные записи, новые первыми.
// Без архива отдает только те, что еще хранятся в памяти.
func (s *dispatchService) ListFinalized(ctx context.Context, page, pageSize int) ([]*models.DispatchRecord, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	if s.c.Archive != nil {
		records, err := s.c.Archive.ListRecent(ctx, page, pageSize)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"service": "dispatch",
				"method":  "ListFinalized",
			}).WithError(err).Error("Failed to list dispatch archive")
			return nil, fmt.Errorf("service: could not list dispatch archive: %w", err)
		}
		return records, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*models.DispatchRecord, 0, pageSize)
	skip := (page - 1) * pageSize
	for i := len(s.finalized) - 1; i >= 0 && len(records) < pageSize; i-- {
		if skip > 0 {
			skip--
			continue
		}
		record := *s.trackers[s.finalized[i]].record
		records = append(records, &record)
	}
	return records, nil
}

// Cancel отменяет происшествие. До резервирования побочных эффектов нет,
// после - койка возвращается в журнал, коридор завершается.
func (s *dispatchService) Cancel(ctx context.Context, id uuid.UUID) (*models.DispatchSnapshot, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "dispatch",
		"method":      "Cancel",
		"incident_id": id,
	})

	t := s.tracker(id)
	if t == nil {
		if _, err := s.archived(ctx, id); err != nil {
			return nil, err
		}
		return nil, models.ErrAlreadyFinalized
	}

	t.lifecycle.Lock()
	defer t.lifecycle.Unlock()

	if t.record != nil {
		return nil, models.ErrAlreadyFinalized
	}
	if snap := t.snapshot(); snap.Stage == models.StageFailed {
		return &snap, nil
	}

	if !t.finished() {
		log.Info("Cancelling running pipeline")
		t.cancel()
		select {
		case <-t.done:
		case <-ctx.Done():
			return nil, fmt.Errorf("service: cancel interrupted: %w", ctx.Err())
		}
	}

	// конвейер мог успеть завершиться до отмены
	if snap := t.snapshot(); snap.Stage != models.StageFailed {
		s.compensate(t)
		s.fail(t, models.StatusFailed, reasonCancelled)
	}

	log.Info("Incident cancelled")
	snap := t.snapshot()
	return &snap, nil
}

// Facilities возвращает текущее состояние журнала мощностей
func (s *dispatchService) Facilities(_ context.Context) ([]models.Facility, error) {
	return s.c.Matcher.Ledger().Snapshot(), nil
}

// Shutdown дожидается завершения конвейеров; по истечении ctx отменяет оставшиеся
func (s *dispatchService) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
	}

	s.mu.RLock()
	for _, t := range s.trackers {
		t.cancel()
	}
	s.mu.RUnlock()
	<-done
	return ctx.Err()
}

// retire ставит завершенное происшествие в очередь и вытесняет из памяти
// самые старые, когда их больше FinalizedRetention. Вытесненные читаются из архива.
func (s *dispatchService) retire(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.finalized = append(s.finalized, id)
	limit := s.cfg.FinalizedRetention
	if limit < 0 {
		limit = 0
	}
	for len(s.finalized) > limit {
		delete(s.trackers, s.finalized[0])
		s.finalized[0] = uuid.Nil
		s.finalized = s.finalized[1:]
	}
}

func (s *dispatchService) tracker(id uuid.UUID) *tracker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trackers[id]
}

func (s *dispatchService) archived(ctx context.Context, id uuid.UUID) (*models.DispatchRecord, error) {
	if s.c.Archive == nil {
		return nil, models.ErrIncidentNotFound
	}
	record, err := s.c.Archive.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrIncidentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service: could not read dispatch archive: %w", err)
	}
	return record, nil
}

func snapshotFromRecord(record *models.DispatchRecord) *models.DispatchSnapshot {
	stage := models.StageFinalized
	if record.Status != models.StatusDispatched {
		stage = models.StageFailed
	}
	return &models.DispatchSnapshot{
		IncidentID:    record.IncidentID,
		ExternalRef:   record.ExternalRef,
		Stage:         stage,
		Reason:        record.Reason,
		ReceivedAt:    record.ReceivedAt,
		UpdatedAt:     record.FinalizedAt,
		History:       []models.StageTransition{{Stage: stage, At: record.FinalizedAt}},
		Assessment:    record.Assessment,
		Reservation:   record.Reservation,
		Route:         record.Route,
		Corridor:      record.Corridor,
		Notifications: record.Notifications,
		Record:        record,
	}
}
