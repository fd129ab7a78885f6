package notify_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/green_corridor_dispatch/internal/models"
	"github.com/shenikar/green_corridor_dispatch/internal/notify"
	"github.com/shenikar/green_corridor_dispatch/internal/notify/mocks"
	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testOptions() notify.Options {
	return notify.Options{Timeout: 200 * time.Millisecond, MaxRetries: 2, BaseDelay: time.Millisecond}
}

func newTestNotifier(t *testing.T) (*notify.Notifier, *mocks.MockSink, *bytes.Buffer) {
	ctrl := gomock.NewController(t)
	sink := mocks.NewMockSink(ctrl)
	logs := &bytes.Buffer{}
	logger := logrus.New()
	logger.SetOutput(logs)
	return notify.NewNotifier(sink, testOptions(), logger), sink, logs
}

func note(incidentID uuid.UUID, r models.RecipientClass) models.Notification {
	return models.Notification{IncidentID: incidentID, Recipient: r}
}

func TestNotifier_DispatchAllSucceed(t *testing.T) {
	// Подготовка
	notifier, sink, _ := newTestNotifier(t)
	incidentID := uuid.New()
	notes := []models.Notification{
		note(incidentID, models.RecipientFacility),
		note(incidentID, models.RecipientAuthority),
		note(incidentID, models.RecipientRequester),
	}

	// Ожидания
	sink.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).Times(3)

	// Действие
	records := notifier.Dispatch(context.Background(), notes)

	// Проверки
	require.Len(t, records, 3)
	for i, r := range records {
		assert.Equal(t, notes[i].Recipient, r.Recipient)
		assert.Equal(t, models.DeliverySent, r.Status)
		assert.Equal(t, 1, r.Attempts)
		assert.False(t, r.SentAt.IsZero())
	}
}

func TestNotifier_PartialFailureIsRecorded(t *testing.T) {
	notifier, sink, logs := newTestNotifier(t)
	incidentID := uuid.New()

	sink.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n models.Notification) error {
			if n.Recipient == models.RecipientAuthority {
				return errors.New("authority gateway down")
			}
			return nil
		}).
		Times(2 + 3)

	records := notifier.Dispatch(context.Background(), []models.Notification{
		note(incidentID, models.RecipientFacility),
		note(incidentID, models.RecipientAuthority),
		note(incidentID, models.RecipientRequester),
	})

	assert.Equal(t, models.DeliverySent, records[0].Status)
	assert.Equal(t, models.DeliveryFailed, records[1].Status)
	assert.Equal(t, 3, records[1].Attempts)
	assert.Contains(t, records[1].LastError, "authority gateway down")
	assert.Equal(t, models.DeliverySent, records[2].Status)
	assert.Contains(t, logs.String(), "Retries left")
}

func TestNotifier_RetryThenSucceed(t *testing.T) {
	notifier, sink, _ := newTestNotifier(t)
	n := note(uuid.New(), models.RecipientFacility)

	gomock.InOrder(
		sink.EXPECT().Send(gomock.Any(), n).Return(errors.New("timeout")),
		sink.EXPECT().Send(gomock.Any(), n).Return(nil),
	)

	record := notifier.Deliver(context.Background(), n)

	assert.Equal(t, models.DeliverySent, record.Status)
	assert.Equal(t, 2, record.Attempts)
	assert.Empty(t, record.LastError)
}

func TestNotifier_SentIsNeverResent(t *testing.T) {
	notifier, sink, _ := newTestNotifier(t)
	n := note(uuid.New(), models.RecipientRequester)

	sink.EXPECT().Send(gomock.Any(), n).Return(nil).Times(1)

	first := notifier.Deliver(context.Background(), n)
	second := notifier.Deliver(context.Background(), n)

	assert.Equal(t, first, second)
	stored, ok := notifier.Record(n.IncidentID, n.Recipient)
	require.True(t, ok)
	assert.Equal(t, models.DeliverySent, stored.Status)
}

func TestNotifier_ConcurrentDuplicatesSendOnce(t *testing.T) {
	notifier, sink, _ := newTestNotifier(t)
	n := note(uuid.New(), models.RecipientFacility)

	var sends atomic.Int32
	sink.EXPECT().
		Send(gomock.Any(), n).
		DoAndReturn(func(context.Context, models.Notification) error {
			sends.Add(1)
			time.Sleep(20 * time.Millisecond)
			return nil
		}).
		Times(1)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record := notifier.Deliver(context.Background(), n)
			assert.Equal(t, models.DeliverySent, record.Status)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), sends.Load())
}

func TestNotifier_AttemptTimeout(t *testing.T) {
	notifier, sink, _ := newTestNotifier(t)
	n := note(uuid.New(), models.RecipientAuthority)

	sink.EXPECT().
		Send(gomock.Any(), n).
		DoAndReturn(func(ctx context.Context, _ models.Notification) error {
			<-ctx.Done()
			return ctx.Err()
		}).
		Times(3)

	record := notifier.Deliver(context.Background(), n)

	assert.Equal(t, models.DeliveryFailed, record.Status)
	assert.Contains(t, record.LastError, "deadline exceeded")
}

func TestNotifier_Forget(t *testing.T) {
	notifier, sink, _ := newTestNotifier(t)
	n := note(uuid.New(), models.RecipientFacility)
	sink.EXPECT().Send(gomock.Any(), n).Return(nil).Times(1)

	notifier.Deliver(context.Background(), n)
	notifier.Forget(n.IncidentID)

	_, ok := notifier.Record(n.IncidentID, n.Recipient)
	assert.False(t, ok)
}

func buildContext(engaged bool) notify.Context {
	c := notify.Context{
		Incident: models.Incident{
			ID:        uuid.New(),
			Category:  models.CategoryCardiac,
			Requester: models.Requester{Contact: "+91-98100-00000"},
		},
		Assessment: models.SeverityAssessment{
			Tier:          models.TierCritical,
			Score:         9,
			PriorityLabel: "CRITICAL",
			Preparations:  []string{"ICU bed preparation"},
		},
		Reservation: models.Reservation{
			FacilityID: "AIIMS_DELHI",
			Facility:   models.Facility{ID: "AIIMS_DELHI", Name: "AIIMS"},
			BedClass:   models.BedCritical,
			Override:   true,
		},
		Route: models.Route{DistanceKm: 7.2, BaselineETA: 18, PriorityETA: 10, TimeSaved: 8},
		Corridor: &models.CorridorActivation{
			Status:       models.CorridorInactive,
			SignalPoints: 0,
		},
	}
	if engaged {
		c.Corridor.Status = models.CorridorActivated
		c.Corridor.SignalPoints = 10
	}
	return c
}

func TestBuild_RecipientsFollowCorridor(t *testing.T) {
	withCorridor := notify.Build(buildContext(true))
	require.Len(t, withCorridor, 3)
	assert.Equal(t, models.RecipientAuthority, withCorridor[1].Recipient)
	assert.Equal(t, 10, withCorridor[1].Payload.SignalPoints)
	assert.Contains(t, withCorridor[1].Payload.Body, "Clear 10 signal points")

	withoutCorridor := notify.Build(buildContext(false))
	require.Len(t, withoutCorridor, 2)
	for _, n := range withoutCorridor {
		assert.NotEqual(t, models.RecipientAuthority, n.Recipient)
	}

	assert.Equal(t, []models.RecipientClass{models.RecipientFacility, models.RecipientRequester}, notify.Recipients(nil))
}

func TestBuild_PayloadTexts(t *testing.T) {
	notes := notify.Build(buildContext(true))

	facility := notes[0].Payload
	assert.Equal(t, "CRITICAL incoming patient (cardiac)", facility.Subject)
	assert.Contains(t, facility.Body, "CRITICAL EMERGENCY - ETA 10 MIN")
	assert.Contains(t, facility.Body, "Prepare: ICU bed preparation.")
	assert.Contains(t, facility.Body, "Critical override applied.")
	assert.Equal(t, []string{"ICU bed preparation"}, facility.Preparations)

	requester := notes[2].Payload
	assert.Equal(t, "+91-98100-00000", requester.Contact)
	assert.Contains(t, requester.Body, "AIIMS")
}

type recordingSink struct {
	mu   sync.Mutex
	seen []models.RecipientClass
	err  error
}

func (s *recordingSink) Send(_ context.Context, n models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = append(s.seen, n.Recipient)
	return s.err
}

func TestRouterSink(t *testing.T) {
	authority := &recordingSink{}
	fallback := &recordingSink{}
	router := notify.NewRouterSink(fallback).Route(models.RecipientAuthority, authority)

	require.NoError(t, router.Send(context.Background(), note(uuid.New(), models.RecipientAuthority)))
	require.NoError(t, router.Send(context.Background(), note(uuid.New(), models.RecipientFacility)))

	assert.Equal(t, []models.RecipientClass{models.RecipientAuthority}, authority.seen)
	assert.Equal(t, []models.RecipientClass{models.RecipientFacility}, fallback.seen)

	bare := notify.NewRouterSink(nil)
	assert.Error(t, bare.Send(context.Background(), note(uuid.New(), models.RecipientRequester)))
}

func TestFanoutSink(t *testing.T) {
	ok := &recordingSink{}
	broken := &recordingSink{err: errors.New("down")}

	assert.NoError(t, notify.FanoutSink{broken, ok}.Send(context.Background(), note(uuid.New(), models.RecipientFacility)))
	assert.Error(t, notify.FanoutSink{broken}.Send(context.Background(), note(uuid.New(), models.RecipientFacility)))
	assert.Error(t, notify.FanoutSink{}.Send(context.Background(), note(uuid.New(), models.RecipientFacility)))
}

func TestSlackSink_PostsToChannel(t *testing.T) {
	// Подготовка
	var channel, text string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		channel = r.FormValue("channel")
		text = r.FormValue("text")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": true, "channel": channel, "ts": "1700000000.000100"})
	}))
	defer server.Close()

	client := slack.New("xoxb-test", slack.OptionAPIURL(server.URL+"/"))
	sink := notify.NewSlackSink(client, "C-AUTHORITY")
	n := notify.Build(buildContext(true))[1]

	// Действие
	err := sink.Send(context.Background(), n)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, "C-AUTHORITY", channel)
	assert.Contains(t, text, "Priority corridor request to AIIMS")
}

func TestSlackSink_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "error": "channel_not_found"})
	}))
	defer server.Close()

	sink := notify.NewSlackSink(slack.New("xoxb-test", slack.OptionAPIURL(server.URL+"/")), "C-MISSING")

	err := sink.Send(context.Background(), notify.Build(buildContext(false))[0])

	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel_not_found")
}
