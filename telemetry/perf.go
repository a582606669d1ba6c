package telemetry

import (
	"log/slog"
	"time"
)

// PerfTracker accumulates per-kernel wall time across a stats window.
// The step loop records one duration per kernel per tick.
type PerfTracker struct {
	ticks int

	chem   time.Duration
	fluid  time.Duration
	agents time.Duration
}

// NewPerfTracker creates an empty tracker.
func NewPerfTracker() *PerfTracker {
	return &PerfTracker{}
}

// RecordChem adds the chemical kernel time for the current tick.
func (p *PerfTracker) RecordChem(d time.Duration) { p.chem += d }

// RecordFluid adds the fluid kernel time for the current tick.
func (p *PerfTracker) RecordFluid(d time.Duration) { p.fluid += d }

// RecordAgents adds the agent kernel time for the current tick and
// closes the tick, since the agent pass runs last.
func (p *PerfTracker) RecordAgents(d time.Duration) {
	p.agents += d
	// The agent pass runs once per tick, after the other kernels, so
	// it doubles as the tick counter.
	p.ticks++
}

// Window aggregates the recorded durations into PerfStats.
func (p *PerfTracker) Window() PerfStats {
	if p.ticks == 0 {
		return PerfStats{}
	}
	n := time.Duration(p.ticks)
	total := p.chem + p.fluid + p.agents
	avg := total / n

	stats := PerfStats{
		Ticks:       p.ticks,
		AvgTickTime: avg,
		AvgChem:     p.chem / n,
		AvgFluid:    p.fluid / n,
		AvgAgents:   p.agents / n,
	}
	if avg > 0 {
		stats.TicksPerSec = float64(time.Second) / float64(avg)
	}
	if total > 0 {
		stats.ChemPct = float64(p.chem) / float64(total) * 100
		stats.FluidPct = float64(p.fluid) / float64(total) * 100
		stats.AgentsPct = float64(p.agents) / float64(total) * 100
	}
	return stats
}

// Reset clears the tracker for the next window.
func (p *PerfTracker) Reset() {
	*p = PerfTracker{}
}

// PerfStats holds aggregated kernel timings for one stats window.
type PerfStats struct {
	Ticks       int
	AvgTickTime time.Duration
	AvgChem     time.Duration
	AvgFluid    time.Duration
	AvgAgents   time.Duration
	TicksPerSec float64
	ChemPct     float64
	FluidPct    float64
	AgentsPct   float64
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("avg_tick_us", s.AvgTickTime.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSec),
		slog.Float64("chem_pct", s.ChemPct),
		slog.Float64("fluid_pct", s.FluidPct),
		slog.Float64("agents_pct", s.AgentsPct),
	)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd   int32   `csv:"window_end"`
	Ticks       int     `csv:"ticks"`
	AvgTickUS   int64   `csv:"avg_tick_us"`
	AvgChemUS   int64   `csv:"avg_chem_us"`
	AvgFluidUS  int64   `csv:"avg_fluid_us"`
	AvgAgentsUS int64   `csv:"avg_agents_us"`
	TicksPerSec float64 `csv:"ticks_per_sec"`
	ChemPct     float64 `csv:"chem_pct"`
	FluidPct    float64 `csv:"fluid_pct"`
	AgentsPct   float64 `csv:"agents_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:   windowEnd,
		Ticks:       s.Ticks,
		AvgTickUS:   s.AvgTickTime.Microseconds(),
		AvgChemUS:   s.AvgChem.Microseconds(),
		AvgFluidUS:  s.AvgFluid.Microseconds(),
		AvgAgentsUS: s.AvgAgents.Microseconds(),
		TicksPerSec: s.TicksPerSec,
		ChemPct:     s.ChemPct,
		FluidPct:    s.FluidPct,
		AgentsPct:   s.AgentsPct,
	}
}
