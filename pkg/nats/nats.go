package nats

import (
	"fmt"
	"time"

	natsgo "github.com/nats-io/nats.go"
)

// NewNATSConn создает соединение с NATS
func NewNATSConn(url, name string) (*natsgo.Conn, error) {
	nc, err := natsgo.Connect(url,
		natsgo.Name(name),
		natsgo.Timeout(5*time.Second),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return nc, nil
}
