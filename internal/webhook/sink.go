package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/green_corridor_dispatch/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	SignatureHeader   = "X-Webhook-Signature"
	IdempotencyHeader = "X-Idempotency-Key"
)

// Envelope - тело запроса вебхука
type Envelope struct {
	Event      string                     `json:"event"`
	IncidentID uuid.UUID                  `json:"incident_id"`
	Recipient  models.RecipientClass      `json:"recipient"`
	Payload    models.NotificationPayload `json:"payload"`
	Timestamp  time.Time                  `json:"timestamp"`
}

// Sink доставляет уведомление HTTP POST-запросом с HMAC-подписью.
// Повторы выполняет вызывающая сторона.
type Sink struct {
	url        string
	secret     string
	httpClient *http.Client
	logger     *logrus.Logger
	now        func() time.Time
}

// NewSink создает Sink для одного адреса
func NewSink(url, secret string, timeout time.Duration, logger *logrus.Logger) *Sink {
	return &Sink{
		url:    url,
		secret: secret,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
		now:    time.Now,
	}
}

func (s *Sink) Send(ctx context.Context, n models.Notification) error {
	log := s.logger.WithFields(logrus.Fields{
		"component":   "webhook_sink",
		"incident_id": n.IncidentID,
		"recipient":   n.Recipient,
	})
	log.Debug("Sending webhook...")

	body, err := json.Marshal(Envelope{
		Event:      "dispatch.notification",
		IncidentID: n.IncidentID,
		Recipient:  n.Recipient,
		Payload:    n.Payload,
		Timestamp:  s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("webhook: failed to marshal envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(IdempotencyHeader, n.IncidentID.String()+"/"+string(n.Recipient))

	// Добавляем HMAC подпись, если секрет задан
	if s.secret != "" {
		req.Header.Set(SignatureHeader, Sign(body, s.secret))
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook: delivery failed with status code %d", resp.StatusCode)
	}

	log.Info("Webhook delivered successfully.")
	return nil
}

// Sign генерирует HMAC-SHA256 подпись для данных
func Sign(data []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Verify проверяет подпись в постоянное время
func Verify(data []byte, signature, secret string) bool {
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(data)
	return hmac.Equal(h.Sum(nil), expected)
}
