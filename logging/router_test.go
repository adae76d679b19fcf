package logging_test

import (
	"context"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"critter-clash/server/logging"
	"critter-clash/server/logging/sinks"
)

func newTestRouter(t *testing.T, cfg logging.Config) (*logging.Router, *sinks.MemorySink) {
	t.Helper()
	memory := sinks.NewMemorySink()
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	router, err := logging.NewRouter(logging.ClockFunc(func() time.Time { return fixed }), cfg, nil, []logging.NamedSink{{Name: "memory", Sink: memory}})
	if err != nil {
		t.Fatalf("failed to construct router: %v", err)
	}
	return router, memory
}

func TestRouterStampsAndForwardsEvents(t *testing.T) {
	cfg := logging.DefaultConfig()
	cfg.Fields = map[string]any{"service": "battle-server"}
	router, memory := newTestRouter(t, cfg)

	ctx := logging.WithTrace(context.Background(), "trace-1")
	router.Publish(ctx, logging.Event{Type: "test.event", Severity: logging.SeverityInfo, Actor: logging.PlayerRef("p1")})
	router.Publish(ctx, logging.Event{Type: "test.debug", Severity: logging.SeverityDebug})

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := router.Close(closeCtx); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	events := memory.Events()
	if len(events) != 1 {
		t.Fatalf("expected one event above minimum severity, got %d", len(events))
	}
	event := events[0]
	if event.ID == (ulid.ULID{}) {
		t.Fatalf("expected router to stamp an event id")
	}
	if event.Time.IsZero() || event.Time.Year() != 2024 {
		t.Fatalf("expected clock time to be stamped, got %v", event.Time)
	}
	if event.TraceID != "trace-1" {
		t.Fatalf("expected trace id from context, got %q", event.TraceID)
	}
	if event.Extra["service"] != "battle-server" {
		t.Fatalf("expected static field to be merged, got %+v", event.Extra)
	}
	if stats := router.Stats(); stats.EventsTotal != 1 {
		t.Fatalf("expected one forwarded event, got %+v", stats)
	}
}

func TestRouterIgnoresPublishAfterClose(t *testing.T) {
	router, memory := newTestRouter(t, logging.DefaultConfig())
	if err := router.Close(context.Background()); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	router.Publish(context.Background(), logging.Event{Type: "late", Severity: logging.SeverityError})
	if len(memory.Events()) != 0 {
		t.Fatalf("expected no events after close")
	}
	if err := router.Close(context.Background()); err != nil {
		t.Fatalf("second close should be a no-op, got %v", err)
	}
}

func TestWithFieldsDoesNotOverrideExtra(t *testing.T) {
	memory := sinks.NewMemorySink()
	pub := logging.WithFields(memory, map[string]any{"room": "default", "region": "eu"})
	pub.Publish(context.Background(), logging.Event{Type: "x", Extra: map[string]any{"room": "room-1"}})

	events := memory.Events()
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	if events[0].Extra["room"] != "room-1" || events[0].Extra["region"] != "eu" {
		t.Fatalf("unexpected extra fields %+v", events[0].Extra)
	}
}
