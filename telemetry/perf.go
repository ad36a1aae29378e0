package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one frame.
const (
	PhaseInput   = "input"
	PhasePhysics = "physics"
	PhaseLiquid  = "liquid"
	PhaseSpawn   = "spawn"
	PhaseGrid    = "grid"
	PhaseEffects = "effects"
	PhaseRender  = "render"
)

// Phases lists every phase in frame order.
var Phases = []string{
	PhaseInput, PhasePhysics, PhaseLiquid, PhaseSpawn,
	PhaseGrid, PhaseEffects, PhaseRender,
}

// PerfSample holds timing data for a single frame.
type PerfSample struct {
	FrameDuration time.Duration
	Phases        map[string]time.Duration
}

// PerfCollector tracks frame timing over a rolling window.
// A nil collector is valid and records nothing.
type PerfCollector struct {
	windowSize  int
	samples     []PerfSample
	writeIndex  int
	sampleCount int

	current    map[string]time.Duration
	frameStart time.Time
	phaseStart time.Time
	lastPhase  string

	// Wall time between successive frames, as seen by the host loop
	lastPresent time.Time
	presentGap  time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize frames.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize: windowSize,
		samples:    make([]PerfSample, windowSize),
		current:    make(map[string]time.Duration),
	}
}

// StartFrame begins timing a new frame.
func (p *PerfCollector) StartFrame() {
	if p == nil {
		return
	}
	p.frameStart = time.Now()
	p.current = make(map[string]time.Duration, len(Phases))
	p.lastPhase = ""
}

// StartPhase ends the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	if p == nil {
		return
	}
	now := time.Now()
	if p.lastPhase != "" {
		p.current[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndFrame closes the running phase and stores the sample.
func (p *PerfCollector) EndFrame() {
	if p == nil {
		return
	}
	now := time.Now()
	if p.lastPhase != "" {
		p.current[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		FrameDuration: now.Sub(p.frameStart),
		Phases:        p.current,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordPresent marks a displayed frame for FPS measurement.
func (p *PerfCollector) RecordPresent() {
	if p == nil {
		return
	}
	now := time.Now()
	if !p.lastPresent.IsZero() {
		p.presentGap = now.Sub(p.lastPresent)
	}
	p.lastPresent = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgFrameDuration time.Duration
	MinFrameDuration time.Duration
	MaxFrameDuration time.Duration

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // Share of the average frame

	FramesPerSecond float64 // Simulation throughput
	FPS             float64 // Displayed rate
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{
		PhaseAvg: make(map[string]time.Duration),
		PhasePct: make(map[string]float64),
	}
	if p == nil {
		return out
	}
	if p.presentGap > 0 {
		out.FPS = float64(time.Second) / float64(p.presentGap)
	}
	if p.sampleCount == 0 {
		return out
	}

	var total time.Duration
	sums := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.FrameDuration
		if i == 0 || s.FrameDuration < out.MinFrameDuration {
			out.MinFrameDuration = s.FrameDuration
		}
		if s.FrameDuration > out.MaxFrameDuration {
			out.MaxFrameDuration = s.FrameDuration
		}
		for phase, d := range s.Phases {
			sums[phase] += d
		}
	}

	n := time.Duration(p.sampleCount)
	out.AvgFrameDuration = total / n
	for phase, sum := range sums {
		out.PhaseAvg[phase] = sum / n
		if out.AvgFrameDuration > 0 {
			out.PhasePct[phase] = float64(out.PhaseAvg[phase]) / float64(out.AvgFrameDuration) * 100
		}
	}
	if out.AvgFrameDuration > 0 {
		out.FramesPerSecond = float64(time.Second) / float64(out.AvgFrameDuration)
	}
	return out
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_frame_us", s.AvgFrameDuration.Microseconds()),
		slog.Int64("min_frame_us", s.MinFrameDuration.Microseconds()),
		slog.Int64("max_frame_us", s.MaxFrameDuration.Microseconds()),
		slog.Float64("frames_per_sec", s.FramesPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// LogStats logs the performance statistics.
func (s PerfStats) LogStats() {
	slog.Info("perf", "frame", s)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd    int64   `csv:"window_end"`
	AvgFrameUS   int64   `csv:"avg_frame_us"`
	MinFrameUS   int64   `csv:"min_frame_us"`
	MaxFrameUS   int64   `csv:"max_frame_us"`
	FramesPerSec float64 `csv:"frames_per_sec"`
	FPS          float64 `csv:"fps"`
	InputPct     float64 `csv:"input_pct"`
	PhysicsPct   float64 `csv:"physics_pct"`
	LiquidPct    float64 `csv:"liquid_pct"`
	SpawnPct     float64 `csv:"spawn_pct"`
	GridPct      float64 `csv:"grid_pct"`
	EffectsPct   float64 `csv:"effects_pct"`
	RenderPct    float64 `csv:"render_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgFrameUS:   s.AvgFrameDuration.Microseconds(),
		MinFrameUS:   s.MinFrameDuration.Microseconds(),
		MaxFrameUS:   s.MaxFrameDuration.Microseconds(),
		FramesPerSec: s.FramesPerSecond,
		FPS:          s.FPS,
		InputPct:     s.PhasePct[PhaseInput],
		PhysicsPct:   s.PhasePct[PhasePhysics],
		LiquidPct:    s.PhasePct[PhaseLiquid],
		SpawnPct:     s.PhasePct[PhaseSpawn],
		GridPct:      s.PhasePct[PhaseGrid],
		EffectsPct:   s.PhasePct[PhaseEffects],
		RenderPct:    s.PhasePct[PhaseRender],
	}
}
