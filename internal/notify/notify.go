// Package notify publishes committed-batch events so downstream tooling
// can react to seeding runs (cache warmers, test orchestrators).
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// Event describes one successfully applied seed batch.
type Event struct {
	Plan      string         `json:"plan"`
	Records   int            `json:"records"`
	ByKind    map[string]int `json:"by_kind,omitempty"`
	AppliedAt time.Time      `json:"applied_at"`
}

// Notifier publishes applied-batch events.
type Notifier interface {
	PublishApplied(ctx context.Context, ev Event) error
	Close()
}

// NoopNotifier is the default Notifier; it publishes nothing.
type NoopNotifier struct{}

func (NoopNotifier) PublishApplied(context.Context, Event) error { return nil }
func (NoopNotifier) Close()                                      {}

// encodeEvent marshals an event for the wire.
func encodeEvent(ev Event) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal applied event: %w", err)
	}
	return data, nil
}

func logPublished(ev Event, subject string) {
	slog.Debug("Published applied event",
		"subject", subject,
		"plan", ev.Plan,
		"records", ev.Records)
}
