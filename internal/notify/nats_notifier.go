package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NATSNotifier publishes applied-batch events to a JetStream subject.
type NATSNotifier struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	subject string
}

// NewNATSNotifier connects to NATS and prepares the JetStream context.
func NewNATSNotifier(url, subject string) (*NATSNotifier, error) {
	if url == "" {
		return nil, fmt.Errorf("nats url is required")
	}
	if subject == "" {
		subject = "seedkit.applied"
	}

	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	slog.Info("NATS notifier initialized", "url", url, "subject", subject)
	return &NATSNotifier{conn: conn, js: js, subject: subject}, nil
}

// PublishApplied publishes the event to the configured subject.
func (n *NATSNotifier) PublishApplied(ctx context.Context, ev Event) error {
	data, err := encodeEvent(ev)
	if err != nil {
		return err
	}
	if _, err := n.js.Publish(ctx, n.subject, data); err != nil {
		return fmt.Errorf("publish applied event: %w", err)
	}
	logPublished(ev, n.subject)
	return nil
}

// Close drains the underlying connection.
func (n *NATSNotifier) Close() {
	if n.conn != nil {
		n.conn.Close()
	}
}
