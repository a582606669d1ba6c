// Package game hosts the simulation stores and runs the per-tick kernel
// pipeline: chemical field, fluid currents, then agent update, with a
// full barrier between kernels and a chemical buffer swap at the end.
package game

import (
	"math/rand"
	"time"

	"github.com/pthm-cable/broth/components"
	"github.com/pthm-cable/broth/config"
	"github.com/pthm-cable/broth/systems"
	"github.com/pthm-cable/broth/telemetry"
)

// Options configures a new Game.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
}

// Game owns the four stores and the tick pipeline.
type Game struct {
	cfg  *config.Config
	rng  *rand.Rand
	seed int64

	agents    []components.Agent
	biomass   *components.BiomassPool
	chem      *systems.ChemField
	fluid     *systems.FluidField
	agentGrid *systems.AgentGrid
	light     systems.LightModel

	parallel *parallelState

	// Per-slot motor intents from the parallel phase, and slots born
	// during the current apply pass (they skip the rest of the tick).
	intents  []systems.MotorIntent
	bornTick []bool

	tick    int32
	elapsed float32

	collector *telemetry.Collector
	output    *telemetry.OutputManager
	perf      *telemetry.PerfTracker
	logStats  bool

	statsWindowSec  float64
	lastWindowTick  int32
	snapshotEvery   float32
	lastSnapshotAt  float32
	onSnapshot      func(*telemetry.Snapshot)
}

// NewGame builds a game from the global config and the given options.
func NewGame(opts Options) (*Game, error) {
	cfg := config.Cfg()

	seed := opts.Seed
	if seed == 0 {
		seed = cfg.World.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if output != nil {
		if err := output.WriteConfig(cfg); err != nil {
			return nil, err
		}
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	g := &Game{
		cfg:            cfg,
		rng:            rand.New(rand.NewSource(seed)),
		seed:           seed,
		agents:         make([]components.Agent, cfg.Population.AgentCapacity),
		biomass:        components.NewBiomassPool(cfg.Population.BiomassCapacity),
		chem:           systems.NewChemField(cfg.Field.Resolution, cfg.Derived.WorldMin, cfg.Derived.WorldSpan),
		fluid:          systems.NewFluidField(cfg.Field.Resolution, cfg.Derived.WorldMin, cfg.Derived.WorldSpan),
		light:          systems.NewLightModel(cfg),
		parallel:       newParallelState(),
		intents:        make([]systems.MotorIntent, cfg.Population.AgentCapacity),
		bornTick:       make([]bool, cfg.Population.AgentCapacity),
		collector:      telemetry.NewCollector(),
		output:         output,
		perf:           telemetry.NewPerfTracker(),
		logStats:       opts.LogStats,
		statsWindowSec: statsWindow,
		snapshotEvery:  float32(cfg.Telemetry.SnapshotInterval),
	}

	g.agentGrid = systems.NewAgentGrid(cfg.Derived.WorldMin, cfg.Derived.WorldSpan,
		float32(cfg.Fluid.BioInfluenceRadius), cfg.Derived.Wrap)

	systems.SeedChemField(g.chem, seed)
	g.spawnInitialPopulation()
	return g, nil
}

// Tick returns the current tick count.
func (g *Game) Tick() int32 { return g.tick }

// Elapsed returns the simulated time in seconds.
func (g *Game) Elapsed() float64 { return float64(g.elapsed) }

// Seed returns the RNG seed in use.
func (g *Game) Seed() int64 { return g.seed }

// Agents exposes the agent store read-only for the host surface.
func (g *Game) Agents() []components.Agent { return g.agents }

// Biomass exposes the biomass store read-only for the host surface.
func (g *Game) Biomass() *components.BiomassPool { return g.biomass }

// Chem exposes the chemical field read-only for the host surface.
func (g *Game) Chem() *systems.ChemField { return g.chem }

// Fluid exposes the fluid field read-only for the host surface.
func (g *Game) Fluid() *systems.FluidField { return g.fluid }

// AliveCount returns the number of living agents.
func (g *Game) AliveCount() int {
	n := 0
	for i := range g.agents {
		if g.agents[i].Alive() {
			n++
		}
	}
	return n
}

// RoleCounts returns the living population per role.
func (g *Game) RoleCounts() [components.NumRoles]int {
	var counts [components.NumRoles]int
	for i := range g.agents {
		if g.agents[i].Alive() {
			counts[g.agents[i].Role]++
		}
	}
	return counts
}

// OnSnapshot registers a callback invoked with a fresh state snapshot
// every snapshot interval. Used by the websocket stream.
func (g *Game) OnSnapshot(fn func(*telemetry.Snapshot)) {
	g.onSnapshot = fn
}

// Close stops the worker pool and flushes telemetry output.
func (g *Game) Close() error {
	g.parallel.stopWorkers()
	return g.output.Close()
}
