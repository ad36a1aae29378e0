package telemetry

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/backdrop/components"
	"github.com/pthm-cable/backdrop/config"
)

func TestComputeLifeStats(t *testing.T) {
	mean, p10, p50, p90 := ComputeLifeStats([]float64{0.9, 0.1, 0.5, 0.3, 0.7})

	if math.Abs(mean-0.5) > 1e-12 {
		t.Errorf("expected mean 0.5, got %f", mean)
	}
	if math.Abs(p50-0.5) > 1e-12 {
		t.Errorf("expected median 0.5, got %f", p50)
	}
	if p10 > p50 || p50 > p90 {
		t.Errorf("expected ordered quantiles, got %f %f %f", p10, p50, p90)
	}
}

func TestComputeLifeStatsEmpty(t *testing.T) {
	mean, p10, p50, p90 := ComputeLifeStats(nil)
	if mean != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("expected zeros for empty input")
	}
}

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(1.0, 1.0/60.0)

	if c.WindowDurationFrames() != 60 {
		t.Fatalf("expected 60 frames per window, got %d", c.WindowDurationFrames())
	}
	if c.ShouldFlush(59) {
		t.Error("expected no flush before window end")
	}
	if !c.ShouldFlush(60) {
		t.Error("expected flush at window end")
	}

	c.RecordSpawn(components.KindPhysics, 20)
	c.RecordSpawn(components.KindLiquid, 3)
	c.RecordExpired(components.KindPhysics, 7)
	c.RecordBurst()
	c.RecordRebuild()

	stats := c.Flush(60, Sample{
		PhysicsLives: []float64{0.5, 0.5},
		LiquidLives:  []float64{1},
		GridPoints:   374,
	})

	if stats.PhysicsSpawned != 20 || stats.LiquidSpawned != 3 || stats.PhysicsExpired != 7 {
		t.Errorf("unexpected event counts: %+v", stats)
	}
	if stats.PhysicsCount != 2 || stats.LiquidCount != 1 || stats.GridPoints != 374 {
		t.Errorf("unexpected sample counts: %+v", stats)
	}
	if stats.Bursts != 1 || stats.GridRebuilds != 1 {
		t.Errorf("expected 1 burst and 1 rebuild, got %d and %d", stats.Bursts, stats.GridRebuilds)
	}
	if math.Abs(stats.SimTimeSec-1.0) > 1e-9 {
		t.Errorf("expected sim time 1s, got %f", stats.SimTimeSec)
	}

	// Counters reset for the next window
	next := c.Flush(120, Sample{})
	if next.PhysicsSpawned != 0 || next.Bursts != 0 || next.WindowStartFrame != 60 {
		t.Errorf("expected reset counters, got %+v", next)
	}
}

func TestCollectorNilSafe(t *testing.T) {
	var c *Collector
	c.RecordSpawn(components.KindLiquid, 1)
	c.RecordExpired(components.KindLiquid, 1)
	c.RecordBurst()
	c.RecordRebuild()
}

func TestOutputManager(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("creating output manager: %v", err)
	}

	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	for frame := int64(60); frame <= 180; frame += 60 {
		if err := om.WriteStats(WindowStats{WindowEndFrame: frame, PhysicsCount: 10}); err != nil {
			t.Fatalf("writing stats: %v", err)
		}
		if err := om.WritePerf(PerfStats{}, frame); err != nil {
			t.Fatalf("writing perf: %v", err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatalf("closing: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "stats.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,") {
		t.Errorf("expected header first, got %q", lines[0])
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("expected config snapshot: %v", err)
	}
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager without error, got %v, %v", om, err)
	}
	if err := om.WriteStats(WindowStats{}); err != nil {
		t.Errorf("expected nil manager to discard, got %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("expected nil close, got %v", err)
	}
}
