package game

import (
	"time"

	"github.com/pthm-cable/broth/systems"
)

// tickSeedMix decorrelates the per-tick seed streams.
const tickSeedMix = 0x9e3779b97f4a7c15

// Step advances the simulation by one tick: chemical field kernel,
// fluid current kernel, agent update kernel, then the chemical buffer
// swap. Each parallel dispatch blocks until its chunks finish, which is
// the full barrier between kernels.
func (g *Game) Step() {
	cfg := g.cfg
	dt := cfg.Derived.DT32
	tickSeed := uint64(g.seed) ^ (uint64(g.tick)+1)*tickSeedMix

	// 1. Chemical field kernel: diffuse all rows, then react all rows.
	// The reaction network needs every species diffused first.
	chemStart := time.Now()
	params := systems.ChemStepParams{
		DT:             dt,
		DecayScale:     float32(cfg.Field.DecayScale),
		DiffusionScale: float32(cfg.Field.DiffusionScale),
		Advect:         cfg.Fluid.Enabled,
	}
	g.parallel.run(g.chem.R, func(y0, y1, _ int) {
		g.chem.DiffuseRows(y0, y1, g.fluid, params)
	})
	g.parallel.run(g.chem.R, func(y0, y1, _ int) {
		g.chem.ReactRows(y0, y1, dt)
	})
	g.perf.RecordChem(time.Since(chemStart))

	// 2. Fluid current kernel.
	fluidStart := time.Now()
	if cfg.Fluid.Enabled {
		g.agentGrid.Rebuild(g.agents)
		g.parallel.run(g.fluid.R, func(y0, y1, worker int) {
			g.fluid.StepRows(y0, y1, g.agents, g.agentGrid, g.chem, cfg, g.elapsed,
				&g.parallel.scratches[worker].Neighbors)
		})
		g.fluid.SwapAndDerivePressure(float32(cfg.Fluid.Density))
	} else {
		g.fluid.Zero()
	}
	g.perf.RecordFluid(time.Since(fluidStart))

	// 3. Agent update kernel: sensing and movement run one lane per
	// slot with no shared writes; predation, reproduction, death, and
	// deposition are serialized in an ordered apply pass so spawn/kill
	// mutations cannot race.
	agentStart := time.Now()
	g.parallel.run(len(g.agents), func(i0, i1, _ int) {
		for i := i0; i < i1; i++ {
			a := &g.agents[i]
			if !a.Alive() {
				continue
			}
			rng := systems.NewLaneRand(tickSeed, i)
			g.intents[i] = systems.ComputeMotor(a, g.chem, cfg, &rng, dt)
		}
	})
	g.applyLanes(tickSeed, dt)
	g.biomass.Step(dt)
	g.perf.RecordAgents(time.Since(agentStart))

	// 4. The write buffer becomes current for the next tick.
	g.chem.Swap()

	g.tick++
	g.elapsed += dt
	g.collectTelemetry()
}

// applyLanes writes back motor intents and runs the serialized part of
// the agent kernel in slot order. A slot killed by an earlier lane this
// tick is skipped entirely; a slot born this tick sits out the rest of
// the tick.
func (g *Game) applyLanes(tickSeed uint64, dt float32) {
	cfg := g.cfg

	for i := range g.bornTick {
		g.bornTick[i] = false
	}

	for i := range g.agents {
		a := &g.agents[i]
		if !a.Alive() || g.bornTick[i] {
			continue
		}

		in := &g.intents[i]
		a.Heading = in.Heading
		a.RunTimer = in.RunTimer
		a.RunDuration = in.RunDuration
		a.Vel.X = in.VelX
		a.Vel.Y = in.VelY
		a.Pos.X = in.PosX
		a.Pos.Y = in.PosY
		a.Sensors = in.Sensors

		// Separate stream from the motor lane so behavior draws do not
		// depend on how many tumbles happened.
		rng := systems.NewLaneRand(tickSeed^0xa5a5a5a5a5a5a5a5, i)

		out := systems.RunBehavior(i, g.agents, g.biomass, g.chem, &g.light, cfg, &rng, g.elapsed, dt)
		if out.HuntAttempted {
			g.collector.RecordHuntAttempt()
		}
		if out.Killed {
			g.collector.RecordKill()
			g.collector.RecordDeath(g.agents[out.PreyIndex].Role)
		}
		if out.BiomassConsumed > 0 {
			g.collector.RecordBiomassConsumed(float64(out.BiomassConsumed))
		}

		systems.DepositSecretions(a, g.chem, cfg, dt)
		systems.Metabolize(a, cfg, dt)

		if slot := systems.TryReproduce(i, g.agents, cfg, &rng); slot >= 0 {
			g.bornTick[slot] = true
			g.collector.RecordBirth(a.Role)
		}

		if systems.CheckDeath(a, g.biomass, cfg) {
			g.collector.RecordDeath(a.Role)
			continue
		}
		if !a.Alive() {
			// Starved this tick.
			g.collector.RecordDeath(a.Role)
		}
	}
}
