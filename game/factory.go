package game

import (
	"math"

	"github.com/pthm-cable/broth/components"
)

// spawnInitialPopulation fills the first Population.Initial slots with
// agents drawn from the configured role weights.
func (g *Game) spawnInitialPopulation() {
	cfg := g.cfg

	total := cfg.Population.RecyclerWeight + cfg.Population.ProducerWeight + cfg.Population.PredatorWeight
	if total <= 0 {
		total = 1
	}
	recyclerCut := cfg.Population.RecyclerWeight / total
	producerCut := recyclerCut + cfg.Population.ProducerWeight/total

	for i := 0; i < cfg.Population.Initial && i < len(g.agents); i++ {
		role := components.RolePredator
		switch roll := g.rng.Float64(); {
		case roll < recyclerCut:
			role = components.RoleRecycler
		case roll < producerCut:
			role = components.RoleProducer
		}
		g.spawnAgent(i, role)
	}
}

// spawnAgent initializes one slot with a fresh agent of the given role.
func (g *Game) spawnAgent(slot int, role components.Role) {
	cfg := g.cfg
	variant := uint8(g.rng.Intn(int(role.NumVariants())))

	a := components.Agent{
		Pos: components.Vec2{
			X: g.rng.Float32()*cfg.Derived.WorldSpan + cfg.Derived.WorldMin,
			Y: g.rng.Float32()*cfg.Derived.WorldSpan + cfg.Derived.WorldMin,
		},
		Energy:         float32(cfg.Population.InitialEnergy),
		Role:           role,
		Variant:        variant,
		Heading:        g.rng.Float32() * 2 * math.Pi,
		RunDuration:    float32(cfg.Movement.RunDurationMin) + g.rng.Float32()*float32(cfg.Movement.RunDurationMax-cfg.Movement.RunDurationMin),
		MetabolismRate: 0.8 + g.rng.Float32()*0.4,
		State:          components.StateFeeding,
		Secretion:      components.DefaultSecretion(role, variant),
		HuntTarget:     -1,
	}
	g.agents[slot] = a
	g.collector.RecordBirth(role)
}
