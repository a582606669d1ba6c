package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/broth/components"
	"github.com/pthm-cable/broth/config"
)

func behaviorField(cfg *config.Config) *ChemField {
	return NewChemField(cfg.Field.Resolution, cfg.Derived.WorldMin, cfg.Derived.WorldSpan)
}

func TestRecyclerFeedsOnBiomass(t *testing.T) {
	cfg := testConfig(t)
	f := behaviorField(cfg)
	light := NewLightModel(cfg)
	pool := components.NewBiomassPool(4)

	pool.Spawn(components.Vec2{X: 0.01, Y: 0}, 2.0, components.RoleProducer, 30)

	agents := make([]components.Agent, 1)
	agents[0] = components.Agent{Role: components.RoleRecycler, Energy: 1}

	rng := NewLaneRand(1, 0)
	dt := cfg.Derived.DT32
	out := RunBehavior(0, agents, pool, f, &light, cfg, &rng, 0, dt)

	want := float32(cfg.Recycler.Efficiency) * dt
	if math.Abs(float64(out.BiomassConsumed-want)) > 1e-6 {
		t.Errorf("consumed = %v, want %v", out.BiomassConsumed, want)
	}

	wantGain := want * float32(cfg.Recycler.Assimilation)
	if math.Abs(float64(agents[0].Energy-(1+wantGain))) > 1e-6 {
		t.Errorf("energy = %v, want %v", agents[0].Energy, 1+wantGain)
	}
	if agents[0].State != components.StateFeeding {
		t.Errorf("state = %v, want feeding", agents[0].State)
	}

	// The nitrogen deposit lands in the write buffer at the agent.
	gx, gy, _ := f.cellOf(0, 0)
	wantN := want * float32(cfg.Recycler.NitrogenYield)
	if got := f.NextAt(gx, gy, components.Nitrogen); math.Abs(float64(got-wantN)) > 1e-6 {
		t.Errorf("nitrogen deposit = %v, want %v", got, wantN)
	}
}

func TestRecyclerIgnoresDistantBiomass(t *testing.T) {
	cfg := testConfig(t)
	f := behaviorField(cfg)
	light := NewLightModel(cfg)
	pool := components.NewBiomassPool(4)

	pool.Spawn(components.Vec2{X: 0.5, Y: 0.5}, 2.0, components.RoleProducer, 30)

	agents := []components.Agent{{Role: components.RoleRecycler, Energy: 1}}
	rng := NewLaneRand(1, 0)
	out := RunBehavior(0, agents, pool, f, &light, cfg, &rng, 0, cfg.Derived.DT32)

	if out.BiomassConsumed != 0 {
		t.Errorf("consumed %v from biomass outside contact radius", out.BiomassConsumed)
	}
	if agents[0].Energy != 1 {
		t.Errorf("energy changed to %v", agents[0].Energy)
	}
}

func TestProducerPhotosynthesis(t *testing.T) {
	cfg := testConfig(t)
	cfg.Light.Enabled = false
	cfg.Light.BaseIntensity = 1.0

	f := behaviorField(cfg)
	f.Fill(components.CO2, 10)
	light := NewLightModel(cfg)
	pool := components.NewBiomassPool(1)

	agents := []components.Agent{{Role: components.RoleProducer, Energy: 1}}
	rng := NewLaneRand(1, 0)
	dt := cfg.Derived.DT32
	out := RunBehavior(0, agents, pool, f, &light, cfg, &rng, 0, dt)

	// Plenty of CO2: gain is light-limited.
	want := float32(cfg.Producer.PhotosynthesisRate) * dt
	if math.Abs(float64(out.EnergyGained-want)) > 1e-6 {
		t.Errorf("gain = %v, want %v", out.EnergyGained, want)
	}

	gx, gy, _ := f.cellOf(0, 0)
	wantO2 := want * float32(cfg.Producer.OxygenYield)
	if got := f.NextAt(gx, gy, components.Oxygen); math.Abs(float64(got-wantO2)) > 1e-5 {
		t.Errorf("oxygen deposit = %v, want %v", got, wantO2)
	}
}

func TestProducerCO2Limited(t *testing.T) {
	cfg := testConfig(t)
	cfg.Light.Enabled = false
	cfg.Light.BaseIntensity = 1.0
	cfg.Producer.PhotosynthesisRate = 100 // force the CO2 limit

	f := behaviorField(cfg)
	f.Fill(components.CO2, 0.4)
	light := NewLightModel(cfg)
	pool := components.NewBiomassPool(1)

	agents := []components.Agent{{Role: components.RoleProducer, Energy: 1}}
	rng := NewLaneRand(1, 0)
	out := RunBehavior(0, agents, pool, f, &light, cfg, &rng, 0, cfg.Derived.DT32)

	if math.Abs(float64(out.EnergyGained-0.2)) > 1e-6 {
		t.Errorf("gain = %v, want CO2 limit 0.2", out.EnergyGained)
	}
}

func TestProducerBiofilmOnlyNetworkFormer(t *testing.T) {
	cfg := testConfig(t)
	cfg.Light.Enabled = false
	cfg.Light.BaseIntensity = 1.0

	f := behaviorField(cfg)
	f.Fill(components.CO2, 10)
	light := NewLightModel(cfg)
	pool := components.NewBiomassPool(1)

	agents := []components.Agent{
		{Role: components.RoleProducer, Variant: 1, Energy: 1},
		{Role: components.RoleProducer, Variant: 0, Energy: 1},
	}
	rng := NewLaneRand(1, 0)
	RunBehavior(0, agents, pool, f, &light, cfg, &rng, 0, cfg.Derived.DT32)
	RunBehavior(1, agents, pool, f, &light, cfg, &rng, 0, cfg.Derived.DT32)

	if agents[0].Biofilm <= 0 {
		t.Error("network former should accumulate biofilm")
	}
	if agents[1].Biofilm != 0 {
		t.Errorf("non-former biofilm = %v, want 0", agents[1].Biofilm)
	}
}

func TestPredatorKillTransfersEnergy(t *testing.T) {
	cfg := testConfig(t)
	cfg.Predator.SuccessRate = 1.0
	cfg.Predator.HuntingEfficiency = 1.0
	cfg.Predator.ToxinPenalty = 0

	f := behaviorField(cfg)
	light := NewLightModel(cfg)
	pool := components.NewBiomassPool(4)

	agents := []components.Agent{
		{Role: components.RolePredator, Energy: 1},
		{Role: components.RoleRecycler, Energy: 2, Pos: components.Vec2{X: 0.01}},
	}
	rng := NewLaneRand(1, 0)
	out := RunBehavior(0, agents, pool, f, &light, cfg, &rng, 0, cfg.Derived.DT32)

	if !out.HuntAttempted || !out.Killed {
		t.Fatalf("expected a kill, got %+v", out)
	}
	if agents[1].Energy != 0 {
		t.Errorf("prey energy = %v, want 0", agents[1].Energy)
	}

	wantEnergy := 1 + 2*float32(cfg.Predator.TransferFraction) - float32(cfg.Predator.KillCost)
	if math.Abs(float64(agents[0].Energy-wantEnergy)) > 1e-6 {
		t.Errorf("predator energy = %v, want %v", agents[0].Energy, wantEnergy)
	}

	// The kill leaves a biomass particle at the prey's position.
	if pool.ActiveCount() != 1 {
		t.Fatalf("biomass particles = %d, want 1", pool.ActiveCount())
	}
	wantMass := 2 * float32(cfg.Energy.BiomassFromEnergy)
	if got := pool.Slots[0].Amount; math.Abs(float64(got-wantMass)) > 1e-6 {
		t.Errorf("biomass amount = %v, want %v", got, wantMass)
	}
	if pool.Slots[0].Pos.X != 0.01 {
		t.Errorf("biomass at %v, want prey position", pool.Slots[0].Pos)
	}
}

func TestPredatorMissStartsEscape(t *testing.T) {
	cfg := testConfig(t)
	cfg.Predator.SuccessRate = 0 // never succeeds

	f := behaviorField(cfg)
	light := NewLightModel(cfg)
	pool := components.NewBiomassPool(4)

	agents := []components.Agent{
		{Role: components.RolePredator, Energy: 1},
		{Role: components.RoleProducer, Energy: 2, Pos: components.Vec2{X: 0.01}},
	}
	rng := NewLaneRand(1, 0)
	out := RunBehavior(0, agents, pool, f, &light, cfg, &rng, 0, cfg.Derived.DT32)

	if !out.HuntAttempted || out.Killed {
		t.Fatalf("expected a miss, got %+v", out)
	}
	if agents[1].State != components.StateEscaping {
		t.Errorf("prey state = %v, want escaping", agents[1].State)
	}
	if agents[1].StateTimer != float32(cfg.Predator.EscapeDuration) {
		t.Errorf("escape timer = %v, want %v", agents[1].StateTimer, cfg.Predator.EscapeDuration)
	}

	wantEnergy := 1 - float32(cfg.Predator.MissCost)
	if math.Abs(float64(agents[0].Energy-wantEnergy)) > 1e-6 {
		t.Errorf("predator energy = %v, want %v", agents[0].Energy, wantEnergy)
	}
}

func TestPredatorIgnoresOtherPredators(t *testing.T) {
	cfg := testConfig(t)
	cfg.Predator.SuccessRate = 1.0

	f := behaviorField(cfg)
	light := NewLightModel(cfg)
	pool := components.NewBiomassPool(4)

	agents := []components.Agent{
		{Role: components.RolePredator, Energy: 1},
		{Role: components.RolePredator, Energy: 2, Pos: components.Vec2{X: 0.01}},
	}
	rng := NewLaneRand(1, 0)
	out := RunBehavior(0, agents, pool, f, &light, cfg, &rng, 0, cfg.Derived.DT32)

	if out.HuntAttempted {
		t.Error("predators must not hunt each other")
	}
	// The same-variant neighbor counts as pack instead.
	if agents[0].Pack != 1 {
		t.Errorf("pack = %v, want 1", agents[0].Pack)
	}
}

func TestPredatorSkipsDeadPrey(t *testing.T) {
	cfg := testConfig(t)
	cfg.Predator.SuccessRate = 1.0

	f := behaviorField(cfg)
	light := NewLightModel(cfg)
	pool := components.NewBiomassPool(4)

	agents := []components.Agent{
		{Role: components.RolePredator, Energy: 1},
		{Role: components.RoleRecycler, Energy: 0, Pos: components.Vec2{X: 0.01}},
	}
	rng := NewLaneRand(1, 0)
	out := RunBehavior(0, agents, pool, f, &light, cfg, &rng, 0, cfg.Derived.DT32)

	if out.HuntAttempted {
		t.Error("dead slots are not prey")
	}
}
