package systems

import (
	"github.com/pthm-cable/broth/components"
	"github.com/pthm-cable/broth/config"
)

// BehaviorOutcome reports the side effects of one agent's behavior pass
// for telemetry.
type BehaviorOutcome struct {
	BiomassConsumed float32
	EnergyGained    float32
	HuntAttempted   bool
	Killed          bool
	PreyIndex       int
}

// RunBehavior dispatches an agent's ecological behavior by role. Runs in
// the serialized apply pass: predation, kills, and biomass mutation all
// happen here in slot order.
func RunBehavior(i int, agents []components.Agent, pool *components.BiomassPool, chem *ChemField, light *LightModel, cfg *config.Config, rng *LaneRand, elapsed, dt float32) BehaviorOutcome {
	switch agents[i].Role {
	case components.RoleRecycler:
		return recyclerFeed(&agents[i], pool, chem, cfg, dt)
	case components.RoleProducer:
		return producerPhotosynthesize(&agents[i], chem, light, cfg, elapsed, dt)
	case components.RolePredator:
		return predatorHunt(i, agents, pool, chem, cfg, rng)
	}
	return BehaviorOutcome{}
}

// recyclerFeed scans the biomass pool for particles within the contact
// radius and decomposes them into energy and a nitrogen deposit.
func recyclerFeed(a *components.Agent, pool *components.BiomassPool, chem *ChemField, cfg *config.Config, dt float32) BehaviorOutcome {
	var out BehaviorOutcome
	radius := float32(cfg.Recycler.ContactRadius)
	radiusSq := radius * radius
	want := float32(cfg.Recycler.Efficiency) * dt
	if want <= 0 {
		return out
	}

	for i := range pool.Slots {
		b := &pool.Slots[i]
		if !b.Active {
			continue
		}
		dx := b.Pos.X - a.Pos.X
		dy := b.Pos.Y - a.Pos.Y
		if dx*dx+dy*dy > radiusSq {
			continue
		}

		consumed := pool.Consume(i, want)
		if consumed <= 0 {
			continue
		}
		gain := consumed * float32(cfg.Recycler.Assimilation)
		a.Energy += gain
		a.State = components.StateFeeding
		chem.Deposit(a.Pos.X, a.Pos.Y, components.Nitrogen,
			consumed*float32(cfg.Recycler.NitrogenYield))

		out.BiomassConsumed += consumed
		out.EnergyGained += gain

		want -= consumed
		if want <= 0 {
			break
		}
	}
	return out
}

// producerPhotosynthesize converts light and CO2 into energy, depositing
// oxygen and drawing down CO2 asymmetrically.
func producerPhotosynthesize(a *components.Agent, chem *ChemField, light *LightModel, cfg *config.Config, elapsed, dt float32) BehaviorOutcome {
	var out BehaviorOutcome

	intensity := light.Intensity(a.Pos.X, a.Pos.Y, elapsed)
	co2 := chem.Sample(a.Pos.X, a.Pos.Y, components.CO2)

	gain := intensity * float32(cfg.Producer.PhotosynthesisRate) * dt
	if limit := co2 * 0.5; gain > limit {
		gain = limit
	}
	if gain <= 0 {
		return out
	}

	a.Energy += gain
	a.State = components.StateFeeding
	chem.Deposit(a.Pos.X, a.Pos.Y, components.Oxygen, gain*float32(cfg.Producer.OxygenYield))
	chem.Deposit(a.Pos.X, a.Pos.Y, components.CO2, -gain*float32(cfg.Producer.CO2Uptake))

	if components.NetworkFormer(a.Role, a.Variant) {
		a.Biofilm += float32(cfg.Producer.BiofilmRate) * dt
		if cap := float32(cfg.Producer.BiofilmMax); a.Biofilm > cap {
			a.Biofilm = cap
		}
	}

	out.EnergyGained = gain
	return out
}

// predatorHunt makes a single pass over the agent store: counts packmates
// within the territory radius and finds the nearest living non-predator
// within contact range, then rolls the hunt.
func predatorHunt(i int, agents []components.Agent, pool *components.BiomassPool, chem *ChemField, cfg *config.Config, rng *LaneRand) BehaviorOutcome {
	var out BehaviorOutcome
	a := &agents[i]

	territorySq := sq(float32(cfg.Predator.TerritoryRadius))
	contactSq := sq(float32(cfg.Predator.ContactRange))

	pack := 0
	prey := -1
	bestSq := contactSq
	for j := range agents {
		if j == i || !agents[j].Alive() {
			continue
		}
		dx := agents[j].Pos.X - a.Pos.X
		dy := agents[j].Pos.Y - a.Pos.Y
		dSq := dx*dx + dy*dy

		if agents[j].Role == components.RolePredator {
			if agents[j].Variant == a.Variant && dSq <= territorySq {
				pack++
			}
			continue
		}
		if dSq <= bestSq {
			bestSq = dSq
			prey = j
		}
	}
	a.Pack = float32(pack)
	if prey < 0 {
		return out
	}
	a.HuntTarget = int32(prey)
	out.HuntAttempted = true
	out.PreyIndex = prey

	// Hunt success probability is a product of terms.
	packN := float32(pack)
	if packCap := float32(cfg.Predator.PackCap); packN > packCap {
		packN = packCap
	}
	toxin := chem.Sample(a.Pos.X, a.Pos.Y, components.Toxin)
	prob := float32(cfg.Predator.SuccessRate) *
		float32(cfg.Predator.HuntingEfficiency) *
		(1 + float32(cfg.Predator.PackBonus)*packN) *
		components.HuntMultiplier(a.Variant) /
		(1 + toxin*float32(cfg.Predator.ToxinPenalty))

	target := &agents[prey]
	if target.State == components.StateEscaping && target.StateTimer > 0 {
		prob *= float32(cfg.Predator.EscapeDiscount)
	}
	if rng.Float32() < prob {
		// Kill: transfer energy, spawn biomass at the prey's position,
		// zero the prey.
		preyEnergy := target.Energy
		a.Energy += preyEnergy * float32(cfg.Predator.TransferFraction)
		a.Energy -= float32(cfg.Predator.KillCost)
		a.State = components.StateHunting
		a.StateTimer = 1

		pool.Spawn(target.Pos, preyEnergy*float32(cfg.Energy.BiomassFromEnergy),
			target.Role, float32(cfg.Energy.BiomassDecayTime))
		target.Energy = 0

		out.Killed = true
		return out
	}

	// Miss: the prey escapes with a timed cooldown; the predator pays a
	// smaller cost.
	target.State = components.StateEscaping
	target.StateTimer = float32(cfg.Predator.EscapeDuration)
	a.Energy -= float32(cfg.Predator.MissCost)
	return out
}

func sq(x float32) float32 { return x * x }
