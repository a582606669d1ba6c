package systems

import (
	"github.com/pthm-cable/broth/components"
	"github.com/pthm-cable/broth/config"
)

// DepositSecretions writes the agent's nonzero secretion rates into the
// chemical field's write buffer at its position.
func DepositSecretions(a *components.Agent, chem *ChemField, cfg *config.Config, dt float32) {
	rate := float32(cfg.Field.DepositionRate)
	for s := components.Species(0); s < components.NumSpecies; s++ {
		if a.Secretion[s] == 0 {
			continue
		}
		chem.Deposit(a.Pos.X, a.Pos.Y, s, a.Secretion[s]*rate*dt)
	}
}

// Metabolize drains energy, ages the agent, and counts down the
// behavioral state timer.
func Metabolize(a *components.Agent, cfg *config.Config, dt float32) {
	a.Energy -= float32(cfg.Energy.ConsumptionRate) * a.MetabolismRate * dt
	a.Age += dt

	if a.StateTimer > 0 {
		a.StateTimer -= dt
		if a.StateTimer <= 0 {
			a.StateTimer = 0
			a.State = components.StateFeeding
		}
	}
}

// TryReproduce performs asexual reproduction for the agent at slot i
// when its energy exceeds the threshold and the per-tick probability
// gate passes: the first dead slot receives a copy of the parent,
// both parent and offspring end with half the parent's energy, and the
// offspring's motor parameters are jittered by the mutation rate.
// Returns the offspring slot, or -1 when no reproduction happened.
func TryReproduce(i int, agents []components.Agent, cfg *config.Config, rng *LaneRand) int {
	parent := &agents[i]
	if parent.Energy <= float32(cfg.Reproduction.Threshold) {
		return -1
	}
	if rng.Float32() >= float32(cfg.Reproduction.Probability) {
		return -1
	}

	// Bounded first-free-slot scan; a full store skips the spawn.
	slot := -1
	for j := range agents {
		if !agents[j].Alive() {
			slot = j
			break
		}
	}
	if slot < 0 {
		return -1
	}

	half := parent.Energy * 0.5
	offset := float32(cfg.Reproduction.SpawnOffset)

	child := *parent
	child.Energy = half
	child.Age = 0
	child.Pos.X, child.Pos.Y = applyBounds(
		parent.Pos.X+rng.Signed(offset),
		parent.Pos.Y+rng.Signed(offset), cfg)
	child.State = components.StateReproducing
	child.StateTimer = 0
	child.Biofilm = 0
	child.Pack = 0
	child.HuntTarget = -1

	// Mutation: jitter metabolic and motor parameters.
	if rng.Float32() < float32(cfg.Reproduction.MutationRate) {
		sigma := float32(cfg.Reproduction.MutationSigma)
		child.MetabolismRate = clampf(child.MetabolismRate*(1+rng.Signed(sigma)), 0.2, 3.0)
		child.RunDuration = clampf(child.RunDuration*(1+rng.Signed(sigma)),
			float32(cfg.Movement.RunDurationMin), float32(cfg.Movement.RunDurationMax))
	}

	parent.Energy = half
	parent.State = components.StateReproducing
	agents[slot] = child
	return slot
}

// CheckDeath kills the agent once it exceeds the maximum age, spawning
// a biomass particle sized from its remaining energy plus a constant.
// Returns true when the agent died this tick.
func CheckDeath(a *components.Agent, pool *components.BiomassPool, cfg *config.Config) bool {
	if a.Age <= float32(cfg.Energy.MaxAge) {
		return false
	}
	amount := a.Energy*float32(cfg.Energy.BiomassFromEnergy) + float32(cfg.Energy.DeathBiomassBonus)
	pool.Spawn(a.Pos, amount, a.Role, float32(cfg.Energy.BiomassDecayTime))
	a.Energy = 0
	return true
}
