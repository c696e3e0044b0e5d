package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/HammerMeetNail/friendfeed/internal/logging"
)

// NatsConn is the broker connection relationship and post events go out on.
type NatsConn struct {
	Conn *nats.Conn
}

var (
	natsConnect = nats.Connect
	natsStatus  = func(nc *nats.Conn) nats.Status {
		return nc.Status()
	}
)

func NewNatsConn(url, name string) (*NatsConn, error) {
	nc, err := natsConnect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(500*time.Millisecond),
		nats.ReconnectJitter(100*time.Millisecond, 500*time.Millisecond),
		nats.Timeout(3*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logging.Warn("NATS disconnected", logging.Fields{"error": err.Error()})
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logging.Info("NATS reconnected", logging.Fields{"url": nc.ConnectedUrl()})
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}
	return &NatsConn{Conn: nc}, nil
}

// Health reports an error unless the connection is currently established.
// Reconnects happen in the background.
func (n *NatsConn) Health(ctx context.Context) error {
	if n.Conn == nil {
		return errors.New("nats not connected")
	}
	if status := natsStatus(n.Conn); status != nats.CONNECTED {
		return fmt.Errorf("nats status %s", status)
	}
	return nil
}

// Close flushes pending publishes before closing.
func (n *NatsConn) Close() error {
	if n.Conn == nil {
		return nil
	}
	return n.Conn.Drain()
}
