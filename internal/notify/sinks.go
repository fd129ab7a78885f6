package notify

import (
	"context"
	"fmt"

	"github.com/shenikar/green_corridor_dispatch/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
)

// LogSink пишет уведомления в лог. Используется, когда внешний канал не настроен.
type LogSink struct {
	logger *logrus.Logger
}

func NewLogSink(logger *logrus.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Send(_ context.Context, n models.Notification) error {
	s.logger.WithFields(logrus.Fields{
		"component":   "log_sink",
		"incident_id": n.IncidentID,
		"recipient":   n.Recipient,
		"subject":     n.Payload.Subject,
	}).Info(n.Payload.Body)
	return nil
}

// RouterSink выбирает канал по классу получателя
type RouterSink struct {
	routes   map[models.RecipientClass]Sink
	fallback Sink
}

func NewRouterSink(fallback Sink) *RouterSink {
	return &RouterSink{routes: make(map[models.RecipientClass]Sink), fallback: fallback}
}

// Route назначает канал для класса получателя
func (r *RouterSink) Route(class models.RecipientClass, sink Sink) *RouterSink {
	r.routes[class] = sink
	return r
}

func (r *RouterSink) Send(ctx context.Context, n models.Notification) error {
	if sink, ok := r.routes[n.Recipient]; ok {
		return sink.Send(ctx, n)
	}
	if r.fallback == nil {
		return fmt.Errorf("notify: no sink for recipient %s", n.Recipient)
	}
	return r.fallback.Send(ctx, n)
}

// FanoutSink отправляет в несколько каналов, успех - если хотя бы один принял
type FanoutSink []Sink

func (f FanoutSink) Send(ctx context.Context, n models.Notification) error {
	var firstErr error
	delivered := false
	for _, s := range f {
		if err := s.Send(ctx, n); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		delivered = true
	}
	if delivered {
		return nil
	}
	if firstErr == nil {
		return fmt.Errorf("notify: fanout sink has no targets")
	}
	return firstErr
}

type slackPoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackSink публикует уведомление в канал Slack
type SlackSink struct {
	client  slackPoster
	channel string
}

func NewSlackSink(client *slack.Client, channel string) *SlackSink {
	return &SlackSink{client: client, channel: channel}
}

func (s *SlackSink) Send(ctx context.Context, n models.Notification) error {
	text := fmt.Sprintf("*%s*\n%s\n_incident %s, tier %s, score %d_",
		n.Payload.Subject, n.Payload.Body, n.IncidentID, n.Payload.Tier, n.Payload.Score)

	if _, _, err := s.client.PostMessageContext(ctx, s.channel, slack.MsgOptionText(text, false)); err != nil {
		return fmt.Errorf("slack post to %s: %w", s.channel, err)
	}
	return nil
}
