package corridor_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/shenikar/green_corridor_dispatch/internal/corridor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeToken struct {
	done chan struct{}
	err  error
}

func newFakeToken(err error, completed bool) *fakeToken {
	tok := &fakeToken{done: make(chan struct{}), err: err}
	if completed {
		close(tok.done)
	}
	return tok
}

func (t *fakeToken) Wait() bool                     { <-t.done; return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return t.finished() }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

func (t *fakeToken) finished() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// fakeMQTTClient перехватывает Publish, остальные методы клиента не используются
type fakeMQTTClient struct {
	pahomqtt.Client
	token   *fakeToken
	topic   string
	qos     byte
	payload []byte
}

func (c *fakeMQTTClient) Publish(topic string, qos byte, _ bool, payload interface{}) pahomqtt.Token {
	c.topic = topic
	c.qos = qos
	c.payload = payload.([]byte)
	return c.token
}

func TestMQTTPublisher_PublishesPlan(t *testing.T) {
	client := &fakeMQTTClient{token: newFakeToken(nil, true)}
	publisher := corridor.NewMQTTPublisher(client, "traffic/corridors", time.Second)
	routeID := uuid.New()

	err := publisher.Publish(context.Background(), corridor.SignalPlan{
		Action:       corridor.PlanActivate,
		RouteID:      routeID,
		FacilityID:   "SAFDARJUNG",
		SignalPoints: 6,
		PriorityETA:  7,
	})

	require.NoError(t, err)
	assert.Equal(t, "traffic/corridors/"+routeID.String(), client.topic)
	assert.Equal(t, byte(1), client.qos)
	var plan corridor.SignalPlan
	require.NoError(t, json.Unmarshal(client.payload, &plan))
	assert.Equal(t, corridor.PlanActivate, plan.Action)
	assert.Equal(t, 6, plan.SignalPoints)
}

func TestMQTTPublisher_BrokerError(t *testing.T) {
	client := &fakeMQTTClient{token: newFakeToken(errors.New("not authorized"), true)}
	publisher := corridor.NewMQTTPublisher(client, "traffic/corridors", time.Second)

	err := publisher.Publish(context.Background(), corridor.SignalPlan{RouteID: uuid.New()})

	assert.ErrorContains(t, err, "not authorized")
}

func TestMQTTPublisher_Timeout(t *testing.T) {
	client := &fakeMQTTClient{token: newFakeToken(nil, false)}
	publisher := corridor.NewMQTTPublisher(client, "traffic/corridors", 20*time.Millisecond)

	err := publisher.Publish(context.Background(), corridor.SignalPlan{RouteID: uuid.New()})

	assert.ErrorContains(t, err, "timed out")
}
