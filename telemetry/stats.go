package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of frames.
type WindowStats struct {
	WindowStartFrame int64   `csv:"-"`
	WindowEndFrame   int64   `csv:"window_end"`
	SimTimeSec       float64 `csv:"sim_time"`

	// Counts at window end
	PhysicsCount int `csv:"physics"`
	LiquidCount  int `csv:"liquid"`
	GridPoints   int `csv:"grid_points"`

	// Events during window
	PhysicsSpawned int `csv:"physics_spawned"`
	LiquidSpawned  int `csv:"liquid_spawned"`
	PhysicsExpired int `csv:"physics_expired"`
	LiquidExpired  int `csv:"liquid_expired"`
	Bursts         int `csv:"bursts"`
	GridRebuilds   int `csv:"grid_rebuilds"`

	// Life distribution (sampled at window end)
	PhysicsLifeMean float64 `csv:"physics_life_mean"`
	PhysicsLifeP50  float64 `csv:"physics_life_p50"`
	LiquidLifeMean  float64 `csv:"liquid_life_mean"`
	LiquidLifeP50   float64 `csv:"liquid_life_p50"`

	// Grid state
	GridDisplacement float64 `csv:"grid_displacement"` // Mean |current - original|

	// Draw output
	Commands int `csv:"commands"` // Commands in the last frame of the window
}

// ComputeLifeStats returns mean, p10, p50 and p90 of the values.
// Returns zeros for an empty slice.
func ComputeLifeStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p10 = stat.Quantile(0.10, stat.LinInterp, sorted, nil)
	p50 = stat.Quantile(0.50, stat.LinInterp, sorted, nil)
	p90 = stat.Quantile(0.90, stat.LinInterp, sorted, nil)
	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartFrame),
		slog.Int64("window_end", s.WindowEndFrame),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("physics", s.PhysicsCount),
		slog.Int("liquid", s.LiquidCount),
		slog.Int("grid_points", s.GridPoints),
		slog.Int("physics_spawned", s.PhysicsSpawned),
		slog.Int("liquid_spawned", s.LiquidSpawned),
		slog.Int("physics_expired", s.PhysicsExpired),
		slog.Int("liquid_expired", s.LiquidExpired),
		slog.Int("bursts", s.Bursts),
		slog.Int("grid_rebuilds", s.GridRebuilds),
		slog.Float64("physics_life_mean", s.PhysicsLifeMean),
		slog.Float64("liquid_life_mean", s.LiquidLifeMean),
		slog.Float64("grid_displacement", s.GridDisplacement),
		slog.Int("commands", s.Commands),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
