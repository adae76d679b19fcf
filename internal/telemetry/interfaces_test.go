package telemetry

import (
	"bytes"
	"log"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWrapLogger(t *testing.T) {
	t.Run("nil logger", func(t *testing.T) {
		logger := WrapLogger(nil)
		logger.Printf("ignored %d", 42)
	})

	t.Run("forwards to logger", func(t *testing.T) {
		var buf bytes.Buffer
		base := log.New(&buf, "", 0)
		logger := WrapLogger(base)
		logger.Printf("hello %s", "world")
		if got := buf.String(); got != "hello world\n" {
			t.Fatalf("unexpected log output: %q", got)
		}
	})
}

func TestWrapZap(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := WrapZap(zap.New(core))
	logger.Printf("listening on %s", ":3000")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if entries[0].Message != "listening on :3000" {
		t.Fatalf("unexpected message %q", entries[0].Message)
	}

	WrapZap(nil).Printf("ignored")
}

func TestCountersSnapshot(t *testing.T) {
	var counters Counters
	counters.IncMessagesIn()
	counters.IncMessagesIn()
	counters.IncRejected()
	counters.IncBattlesStarted()

	snapshot := counters.Snapshot()
	if snapshot.MessagesIn != 2 || snapshot.Rejected != 1 || snapshot.BattlesStarted != 1 {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}

	var nilCounters *Counters
	if nilCounters.Snapshot() != (CountersSnapshot{}) {
		t.Fatalf("expected zero snapshot for nil counters")
	}
}
