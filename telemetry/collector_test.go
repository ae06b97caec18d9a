package telemetry

import (
	"testing"

	"github.com/pthm-cable/cinder/particles"
)

func newRunningSystem(t *testing.T) *particles.System {
	t.Helper()
	sys, err := particles.NewSystem("test", 100, 42)
	if err != nil {
		t.Fatal(err)
	}
	sys.EmitRate = 60
	sys.MinLifeTime = 0.5
	sys.MaxLifeTime = 0.5
	if err := sys.Start(); err != nil {
		t.Fatal(err)
	}
	return sys
}

func TestCollectorFlushCadence(t *testing.T) {
	c := NewCollector(1.0, 1.0/60.0)
	if c.WindowDurationTicks() != 60 {
		t.Fatalf("expected 60 ticks per window, got %d", c.WindowDurationTicks())
	}

	if c.ShouldFlush(59) {
		t.Error("flush triggered before window elapsed")
	}
	if !c.ShouldFlush(60) {
		t.Error("flush not triggered at window boundary")
	}
}

func TestCollectorWindowsAreDiffs(t *testing.T) {
	sys := newRunningSystem(t)
	c := NewCollector(1.0, 1.0/60.0)

	dt := 1.0 / 60.0
	for tick := int32(1); tick <= 60; tick++ {
		sys.Tick(dt)
	}
	first := c.Flush(60, sys)
	if first.Spawned == 0 {
		t.Fatal("first window recorded no spawns")
	}
	if first.ActiveParticles != sys.ActiveCount() {
		t.Errorf("active = %d, want %d", first.ActiveParticles, sys.ActiveCount())
	}

	for tick := int32(61); tick <= 120; tick++ {
		sys.Tick(dt)
	}
	second := c.Flush(120, sys)

	// Second window counts only its own events, not the cumulative totals.
	if second.Spawned >= first.Spawned+second.Retired+60 {
		t.Errorf("second window spawned %d looks cumulative", second.Spawned)
	}
	if second.Retired == 0 {
		t.Error("particles with 0.5s lifetime should have retired in the second window")
	}
	if second.WindowStartTick != 60 || second.WindowEndTick != 120 {
		t.Errorf("window bounds [%d, %d], want [60, 120]", second.WindowStartTick, second.WindowEndTick)
	}
}

func TestCollectorAgeDistribution(t *testing.T) {
	sys := newRunningSystem(t)
	c := NewCollector(1.0, 1.0/60.0)

	dt := 1.0 / 60.0
	for tick := 0; tick < 30; tick++ {
		sys.Tick(dt)
	}
	stats := c.Flush(30, sys)

	if stats.AgeMean <= 0 {
		t.Error("expected positive mean age for a live population")
	}
	if stats.AgeP90 < stats.AgeP10 {
		t.Errorf("p90 %f below p10 %f", stats.AgeP90, stats.AgeP10)
	}
	if stats.AgeP90 > 0.5 {
		t.Errorf("p90 age %f exceeds the configured lifetime", stats.AgeP90)
	}
}

func TestCollectorTruncationRate(t *testing.T) {
	sys, err := particles.NewSystem("tiny", 1, 42)
	if err != nil {
		t.Fatal(err)
	}
	sys.EmitRate = 0
	sys.MinLifeTime = 10
	sys.MaxLifeTime = 10
	if err := sys.Start(); err != nil {
		t.Fatal(err)
	}

	c := NewCollector(1, 1)
	sys.Emit(5) // capacity 1: four requests dropped
	sys.Tick(1)
	stats := c.Flush(1, sys)

	if stats.Spawned != 1 {
		t.Errorf("spawned = %d, want 1", stats.Spawned)
	}
	if stats.Truncated != 4 {
		t.Errorf("truncated = %d, want 4", stats.Truncated)
	}
	if stats.TruncationRate != 0.8 {
		t.Errorf("truncation rate = %f, want 0.8", stats.TruncationRate)
	}
}
