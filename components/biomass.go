package components

// MinBiomass is the floor below which a particle deactivates.
const MinBiomass = 0.1

// DeadBiomass is one decomposable dead-matter particle, produced by
// agent death or predation and consumed by recyclers.
type DeadBiomass struct {
	Pos           Vec2
	Amount        float32
	Origin        Role
	DecayTime     float32
	Decomposition float32 // 0..1 progress toward full decay
	Active        bool
}

// BiomassPool is a fixed-capacity particle store. Spawns use a bounded
// first-free-slot scan; a full pool silently drops the spawn.
type BiomassPool struct {
	Slots []DeadBiomass
}

// NewBiomassPool creates a pool with the given slot capacity.
func NewBiomassPool(capacity int) *BiomassPool {
	return &BiomassPool{Slots: make([]DeadBiomass, capacity)}
}

// Spawn activates the first free slot with the given particle state and
// returns its index, or -1 if the pool is full or the amount is below
// the activity floor.
func (p *BiomassPool) Spawn(pos Vec2, amount float32, origin Role, decayTime float32) int {
	if amount <= MinBiomass {
		return -1
	}
	for i := range p.Slots {
		if p.Slots[i].Active {
			continue
		}
		p.Slots[i] = DeadBiomass{
			Pos:       pos,
			Amount:    amount,
			Origin:    origin,
			DecayTime: decayTime,
			Active:    true,
		}
		return i
	}
	return -1
}

// Consume removes up to want from the particle at index i and returns
// the amount actually taken. The particle deactivates once its mass
// falls to the floor.
func (p *BiomassPool) Consume(i int, want float32) float32 {
	if i < 0 || i >= len(p.Slots) || want <= 0 {
		return 0
	}
	b := &p.Slots[i]
	if !b.Active {
		return 0
	}
	take := want
	if take > b.Amount {
		take = b.Amount
	}
	b.Amount -= take
	if b.Amount <= MinBiomass {
		b.Active = false
	}
	return take
}

// Step advances passive decomposition by dt seconds. Fully decomposed
// particles deactivate in place.
func (p *BiomassPool) Step(dt float32) {
	for i := range p.Slots {
		b := &p.Slots[i]
		if !b.Active || b.DecayTime <= 0 {
			continue
		}
		b.Decomposition += dt / b.DecayTime
		if b.Decomposition >= 1 {
			b.Decomposition = 1
			b.Active = false
			continue
		}
		// Mass shrinks linearly with decomposition progress.
		b.Amount -= b.Amount * (dt / b.DecayTime)
		if b.Amount <= MinBiomass {
			b.Active = false
		}
	}
}

// ActiveCount returns the number of active particles.
func (p *BiomassPool) ActiveCount() int {
	n := 0
	for i := range p.Slots {
		if p.Slots[i].Active {
			n++
		}
	}
	return n
}

// TotalMass returns the summed mass of active particles.
func (p *BiomassPool) TotalMass() float32 {
	var sum float32
	for i := range p.Slots {
		if p.Slots[i].Active {
			sum += p.Slots[i].Amount
		}
	}
	return sum
}
