package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// SubjectPrefix - события публикуются в dispatch.<stage>
const SubjectPrefix = "dispatch"

// HeaderIncidentID - заголовок сообщения с идентификатором инцидента
const HeaderIncidentID = "Incident-Id"

// MsgPublisher - часть *nats.Conn, нужная публикатору
type MsgPublisher interface {
	PublishMsg(msg *nats.Msg) error
}

// NATSPublisher публикует события в NATS
type NATSPublisher struct {
	conn MsgPublisher
}

func NewNATSPublisher(conn MsgPublisher) *NATSPublisher {
	return &NATSPublisher{conn: conn}
}

// Subject возвращает тему NATS для этапа
func Subject(event Event) string {
	return SubjectPrefix + "." + string(event.Stage)
}

func (p *NATSPublisher) Publish(_ context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal dispatch event: %w", err)
	}

	msg := nats.NewMsg(Subject(event))
	msg.Data = payload
	msg.Header.Set(HeaderIncidentID, event.IncidentID.String())

	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish dispatch event to NATS: %w", err)
	}
	return nil
}
