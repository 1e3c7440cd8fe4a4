package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestEncodeEvent(t *testing.T) {
	ev := Event{
		Plan:      "seed.yaml",
		Records:   3,
		ByKind:    map[string]int{"user": 2, "org": 1},
		AppliedAt: time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC),
	}
	data, err := encodeEvent(ev)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var decoded Event
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Plan != "seed.yaml" || decoded.Records != 3 {
		t.Errorf("round trip lost data: %+v", decoded)
	}
	if decoded.ByKind["user"] != 2 {
		t.Errorf("by_kind lost: %+v", decoded.ByKind)
	}
}

func TestNoopNotifier(t *testing.T) {
	var n Notifier = NoopNotifier{}
	if err := n.PublishApplied(context.Background(), Event{}); err != nil {
		t.Fatalf("noop publish: %v", err)
	}
	n.Close()
}

func TestNATSNotifierRequiresURL(t *testing.T) {
	if _, err := NewNATSNotifier("", "seedkit.applied"); err == nil {
		t.Fatal("expected error for empty url")
	}
}
