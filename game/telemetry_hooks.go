package game

import (
	"log/slog"

	"github.com/pthm-cable/broth/components"
	"github.com/pthm-cable/broth/telemetry"
)

// collectTelemetry closes a stats window when enough simulated time has
// passed and emits the periodic state snapshot for the stream.
func (g *Game) collectTelemetry() {
	windowTicks := int32(g.statsWindowSec / g.cfg.World.DT)
	if windowTicks > 0 && g.tick-g.lastWindowTick >= windowTicks {
		stats := g.buildWindowStats()
		if g.logStats {
			stats.LogStats()
		}
		if err := g.output.WriteTelemetry(stats); err != nil {
			slog.Error("telemetry write failed", "error", err)
		}
		if err := g.output.WritePerf(g.perf.Window(), g.tick); err != nil {
			slog.Error("perf write failed", "error", err)
		}
		g.collector.Reset()
		g.perf.Reset()
		g.lastWindowTick = g.tick
	}

	if g.onSnapshot != nil && g.snapshotEvery > 0 && g.elapsed-g.lastSnapshotAt >= g.snapshotEvery {
		snap := g.buildSnapshot()
		g.onSnapshot(snap)
		g.lastSnapshotAt = g.elapsed
	}
}

// buildWindowStats samples the stores into a WindowStats record.
func (g *Game) buildWindowStats() telemetry.WindowStats {
	counts := g.RoleCounts()

	energies := make([]float64, 0, 256)
	for i := range g.agents {
		if g.agents[i].Alive() {
			energies = append(energies, float64(g.agents[i].Energy))
		}
	}
	mean, std, p10, p50, p90 := telemetry.EnergyStats(energies)

	stats := telemetry.WindowStats{
		WindowEndTick: g.tick,
		SimTimeSec:    g.Elapsed(),

		Recyclers: counts[components.RoleRecycler],
		Producers: counts[components.RoleProducer],
		Predators: counts[components.RolePredator],

		Births:          g.collector.Births(),
		Deaths:          g.collector.Deaths(),
		HuntAttempts:    g.collector.HuntAttempts(),
		Kills:           g.collector.Kills(),
		BiomassConsumed: g.collector.BiomassConsumed(),

		BiomassParticles: g.biomass.ActiveCount(),
		BiomassMass:      float64(g.biomass.TotalMass()),

		EnergyMean: mean,
		EnergyStd:  std,
		EnergyP10:  p10,
		EnergyP50:  p50,
		EnergyP90:  p90,

		MeanOxygen:     g.chem.Mean(components.Oxygen),
		MeanCO2:        g.chem.Mean(components.CO2),
		MeanNitrogen:   g.chem.Mean(components.Nitrogen),
		MeanPheromone:  g.chem.Mean(components.Pheromone),
		MeanToxin:      g.chem.Mean(components.Toxin),
		MeanAttractant: g.chem.Mean(components.Attractant),
	}
	if stats.HuntAttempts > 0 {
		stats.KillRate = float64(stats.Kills) / float64(stats.HuntAttempts)
	}
	return stats
}

// buildSnapshot packs the outbound state for the websocket stream.
func (g *Game) buildSnapshot() *telemetry.Snapshot {
	snap := &telemetry.Snapshot{
		Tick:    g.tick,
		SimTime: g.Elapsed(),
	}

	for i := range g.agents {
		a := &g.agents[i]
		if !a.Alive() {
			continue
		}
		snap.Agents = append(snap.Agents, telemetry.AgentSnap{
			X:       a.Pos.X,
			Y:       a.Pos.Y,
			Role:    uint8(a.Role),
			Variant: a.Variant,
			Energy:  a.Energy,
			State:   uint8(a.State),
		})
	}

	for i := range g.biomass.Slots {
		b := &g.biomass.Slots[i]
		if !b.Active {
			continue
		}
		snap.Biomass = append(snap.Biomass, telemetry.BiomassSnap{
			X:      b.Pos.X,
			Y:      b.Pos.Y,
			Amount: b.Amount,
		})
	}

	for s := components.Species(0); s < components.NumSpecies; s++ {
		snap.FieldMeans[s] = g.chem.Mean(s)
	}
	return snap
}
