package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/green_corridor_dispatch/internal/config"
	"github.com/shenikar/green_corridor_dispatch/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Sink - абстрактный канал доставки уведомлений
type Sink interface {
	Send(ctx context.Context, n models.Notification) error
}

// Options - таймаут и политика повторов
type Options struct {
	Timeout    time.Duration
	MaxRetries int
	BaseDelay  time.Duration
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Timeout:    cfg.NotifyTimeout,
		MaxRetries: cfg.NotifyMaxRetries,
		BaseDelay:  cfg.NotifyBaseDelay,
	}
}

type deliveryKey struct {
	incidentID uuid.UUID
	recipient  models.RecipientClass
}

func (k deliveryKey) String() string {
	return k.incidentID.String() + "/" + string(k.recipient)
}

type delivery struct {
	mu     sync.Mutex
	record *models.NotificationRecord
}

// Notifier рассылает уведомления: получатели параллельно, один получатель -
// последовательно и не более одной успешной отправки
type Notifier struct {
	sink   Sink
	opts   Options
	logger *logrus.Logger

	mu         sync.Mutex
	deliveries map[deliveryKey]*delivery
	group      singleflight.Group

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewNotifier(sink Sink, opts Options, logger *logrus.Logger) *Notifier {
	return &Notifier{
		sink:       sink,
		opts:       opts,
		logger:     logger,
		deliveries: make(map[deliveryKey]*delivery),
		now:        time.Now,
		sleep:      sleepContext,
	}
}

// Dispatch отправляет все уведомления и возвращает итог по каждому получателю.
// Ошибки доставки - это данные, Dispatch не прерывается.
func (n *Notifier) Dispatch(ctx context.Context, notes []models.Notification) []models.NotificationRecord {
	records := make([]models.NotificationRecord, len(notes))

	g, gctx := errgroup.WithContext(ctx)
	for i, note := range notes {
		i, note := i, note
		g.Go(func() error {
			records[i] = n.Deliver(gctx, note)
			return nil
		})
	}
	_ = g.Wait()

	return records
}

// Deliver доставляет одно уведомление. Параллельные вызовы для той же пары
// (происшествие, получатель) схлопываются, повтор после sent ничего не отправляет.
func (n *Notifier) Deliver(ctx context.Context, note models.Notification) models.NotificationRecord {
	key := deliveryKey{incidentID: note.IncidentID, recipient: note.Recipient}

	v, _, _ := n.group.Do(key.String(), func() (interface{}, error) {
		return n.deliver(ctx, key, note), nil
	})
	return v.(models.NotificationRecord)
}

// Record возвращает последний итог доставки
func (n *Notifier) Record(incidentID uuid.UUID, recipient models.RecipientClass) (models.NotificationRecord, bool) {
	d := n.entry(deliveryKey{incidentID: incidentID, recipient: recipient}, false)
	if d == nil {
		return models.NotificationRecord{}, false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.record == nil {
		return models.NotificationRecord{}, false
	}
	return *d.record, true
}

// Forget удаляет историю доставок происшествия
func (n *Notifier) Forget(incidentID uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for key := range n.deliveries {
		if key.incidentID == incidentID {
			delete(n.deliveries, key)
		}
	}
}

func (n *Notifier) entry(key deliveryKey, create bool) *delivery {
	n.mu.Lock()
	defer n.mu.Unlock()

	d, ok := n.deliveries[key]
	if !ok && create {
		d = &delivery{}
		n.deliveries[key] = d
	}
	return d
}

func (n *Notifier) deliver(ctx context.Context, key deliveryKey, note models.Notification) models.NotificationRecord {
	d := n.entry(key, true)
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.record != nil && d.record.Status == models.DeliverySent {
		return *d.record
	}

	log := n.logger.WithFields(logrus.Fields{
		"component":   "notifier",
		"incident_id": key.incidentID,
		"recipient":   key.recipient,
	})

	record := models.NotificationRecord{
		Recipient:  note.Recipient,
		IncidentID: note.IncidentID,
		Payload:    note.Payload,
		Status:     models.DeliveryPending,
	}
	if d.record != nil {
		record.Attempts = d.record.Attempts
	}

	attempts := n.opts.MaxRetries + 1
	delay := n.opts.BaseDelay
	var lastErr error

	for i := 0; i < attempts; i++ {
		record.Attempts++
		lastErr = n.attempt(ctx, note)
		if lastErr == nil {
			record.Status = models.DeliverySent
			record.SentAt = n.now().UTC()
			record.LastError = ""
			d.record = &record
			log.WithField("attempts", record.Attempts).Info("Notification delivered")
			return record
		}

		if i == attempts-1 {
			break
		}
		log.WithError(lastErr).Warnf("Notification delivery failed. Retrying in %v. Retries left: %d", delay, attempts-1-i)
		if err := n.sleep(ctx, delay); err != nil {
			lastErr = err
			break
		}
		delay *= 2
	}

	failure := &models.NotificationFailure{Recipient: note.Recipient, Attempts: record.Attempts, Err: lastErr}
	record.Status = models.DeliveryFailed
	record.LastError = failure.Error()
	d.record = &record
	log.WithError(failure).Error("Notification delivery failed")
	return record
}

func (n *Notifier) attempt(ctx context.Context, note models.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, n.opts.Timeout)
	defer cancel()

	if err := n.sink.Send(ctx, note); err != nil {
		return fmt.Errorf("notify: %s sink: %w", note.Recipient, err)
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
