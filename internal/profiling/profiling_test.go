package profiling

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestTrackAccumulates(t *testing.T) {
	ResetTick()
	for range 3 {
		Track("test.Op")()
	}

	entries := Snapshot()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Name != "test.Op" || entries[0].Calls != 3 {
		t.Errorf("unexpected entry %+v", entries[0])
	}
}

func TestResetTickClears(t *testing.T) {
	Track("test.Reset")()
	ResetTick()
	if n := len(Snapshot()); n != 0 {
		t.Errorf("expected empty snapshot after reset, got %d entries", n)
	}
}

func TestTopNFormatsAndLimits(t *testing.T) {
	ResetTick()
	Track("a")()
	Track("b")()
	Track("c")()

	out := TopN(2)
	if got := strings.Count(out, ","); got != 1 {
		t.Errorf("expected 2 entries in %q", out)
	}
	if !strings.Contains(out, "ms(1)") {
		t.Errorf("expected call counts in %q", out)
	}
	if TopN(10) == "" {
		t.Error("TopN larger than entry count should not be empty")
	}
}

func TestLogSlowTick(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	log := zap.New(core)

	LogSlowTick(log, 5*time.Millisecond, 10*time.Millisecond)
	if logs.Len() != 0 {
		t.Fatalf("fast tick should not be logged")
	}

	LogSlowTick(log, 20*time.Millisecond, 10*time.Millisecond)
	if logs.Len() != 1 {
		t.Fatalf("expected one slow tick warning, got %d", logs.Len())
	}
	if logs.All()[0].Message != "slow tick" {
		t.Errorf("unexpected message %q", logs.All()[0].Message)
	}
}
