package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for one driving tick.
const (
	PhaseSensors = "sensors"
	PhaseBrains  = "brains"
	PhaseDriving = "driving"
)

var phases = []string{PhaseSensors, PhaseBrains, PhaseDriving}

// PerfCollector accumulates tick and phase timings for one trial.
type PerfCollector struct {
	ticks      int
	total      time.Duration
	minTick    time.Duration
	maxTick    time.Duration
	phaseTotal map[string]time.Duration

	tickStart  time.Time
	phaseStart time.Time
	lastPhase  string

	now func() time.Time
}

// NewPerfCollector creates a new performance collector.
func NewPerfCollector() *PerfCollector {
	return &PerfCollector{
		phaseTotal: make(map[string]time.Duration),
		now:        time.Now,
	}
}

// Reset clears accumulated timings at the start of a trial.
func (p *PerfCollector) Reset() {
	p.ticks = 0
	p.total = 0
	p.minTick = 0
	p.maxTick = 0
	clear(p.phaseTotal)
	p.lastPhase = ""
}

// StartTick begins timing a new tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.lastPhase = ""
}

// StartPhase begins timing a phase, ending the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := p.now()
	if p.lastPhase != "" {
		p.phaseTotal[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndTick finishes timing the current tick.
func (p *PerfCollector) EndTick() {
	now := p.now()
	if p.lastPhase != "" {
		p.phaseTotal[p.lastPhase] += now.Sub(p.phaseStart)
		p.lastPhase = ""
	}

	d := now.Sub(p.tickStart)
	if p.ticks == 0 || d < p.minTick {
		p.minTick = d
	}
	if d > p.maxTick {
		p.maxTick = d
	}
	p.total += d
	p.ticks++
}

// PerfStats holds aggregated timings for a trial.
type PerfStats struct {
	Ticks           int
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	PhaseAvg        map[string]time.Duration
	PhasePct        map[string]float64
	TicksPerSecond  float64
}

// Stats computes aggregated statistics for the ticks recorded so far.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		Ticks:           p.ticks,
		MinTickDuration: p.minTick,
		MaxTickDuration: p.maxTick,
		PhaseAvg:        make(map[string]time.Duration, len(p.phaseTotal)),
		PhasePct:        make(map[string]float64, len(p.phaseTotal)),
	}
	if p.ticks == 0 {
		return s
	}

	s.AvgTickDuration = p.total / time.Duration(p.ticks)
	if p.total > 0 {
		s.TicksPerSecond = float64(p.ticks) / p.total.Seconds()
	}
	for name, d := range p.phaseTotal {
		s.PhaseAvg[name] = d / time.Duration(p.ticks)
		if p.total > 0 {
			s.PhasePct[name] = float64(d) / float64(p.total) * 100
		}
	}
	return s
}

// PerfStatsCSV is the flat CSV row for PerfStats.
type PerfStatsCSV struct {
	Generation     int     `csv:"generation"`
	Ticks          int     `csv:"ticks"`
	AvgTickUS      float64 `csv:"avg_tick_us"`
	MaxTickUS      float64 `csv:"max_tick_us"`
	TicksPerSecond float64 `csv:"ticks_per_sec"`
	SensorsPct     float64 `csv:"sensors_pct"`
	BrainsPct      float64 `csv:"brains_pct"`
	DrivingPct     float64 `csv:"driving_pct"`
}

// ToCSV flattens the stats for the given generation.
func (s PerfStats) ToCSV(generation int) PerfStatsCSV {
	return PerfStatsCSV{
		Generation:     generation,
		Ticks:          s.Ticks,
		AvgTickUS:      float64(s.AvgTickDuration) / float64(time.Microsecond),
		MaxTickUS:      float64(s.MaxTickDuration) / float64(time.Microsecond),
		TicksPerSecond: s.TicksPerSecond,
		SensorsPct:     s.PhasePct[PhaseSensors],
		BrainsPct:      s.PhasePct[PhaseBrains],
		DrivingPct:     s.PhasePct[PhaseDriving],
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("ticks", s.Ticks),
		slog.Duration("avg_tick", s.AvgTickDuration),
		slog.Duration("max_tick", s.MaxTickDuration),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	for _, name := range phases {
		attrs = append(attrs, slog.Float64(name+"_pct", s.PhasePct[name]))
	}
	return slog.GroupValue(attrs...)
}
