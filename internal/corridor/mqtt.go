package corridor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTPublisher публикует планы в топик <prefix>/<route_id>
type MQTTPublisher struct {
	client  pahomqtt.Client
	prefix  string
	qos     byte
	timeout time.Duration
}

func NewMQTTPublisher(client pahomqtt.Client, prefix string, timeout time.Duration) *MQTTPublisher {
	return &MQTTPublisher{
		client:  client,
		prefix:  prefix,
		qos:     1,
		timeout: timeout,
	}
}

func (p *MQTTPublisher) Publish(ctx context.Context, plan SignalPlan) error {
	payload, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("corridor: failed to marshal signal plan: %w", err)
	}

	topic := fmt.Sprintf("%s/%s", p.prefix, plan.RouteID)
	token := p.client.Publish(topic, p.qos, false, payload)

	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("corridor: failed to publish to %s: %w", topic, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.timeout):
		return fmt.Errorf("corridor: publish to %s timed out", topic)
	}
}
