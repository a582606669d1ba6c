package components

import (
	"math"
	"testing"
)

func TestBiomassSpawnFirstFreeSlot(t *testing.T) {
	p := NewBiomassPool(4)

	i0 := p.Spawn(Vec2{X: 0.1}, 1.0, RoleProducer, 30)
	i1 := p.Spawn(Vec2{X: 0.2}, 1.0, RoleProducer, 30)
	if i0 != 0 || i1 != 1 {
		t.Fatalf("spawn slots = %d, %d, want 0, 1", i0, i1)
	}

	// Free the first slot; the next spawn reuses it.
	p.Slots[0].Active = false
	i2 := p.Spawn(Vec2{X: 0.3}, 1.0, RoleRecycler, 30)
	if i2 != 0 {
		t.Errorf("spawn after free = %d, want 0", i2)
	}
	if p.Slots[0].Origin != RoleRecycler {
		t.Errorf("reused slot origin = %v, want recycler", p.Slots[0].Origin)
	}
}

func TestBiomassSpawnFullPool(t *testing.T) {
	p := NewBiomassPool(2)
	p.Spawn(Vec2{}, 1.0, RoleProducer, 30)
	p.Spawn(Vec2{}, 1.0, RoleProducer, 30)

	if i := p.Spawn(Vec2{}, 1.0, RoleProducer, 30); i != -1 {
		t.Errorf("spawn into full pool = %d, want -1", i)
	}
	if p.ActiveCount() != 2 {
		t.Errorf("active count = %d, want 2", p.ActiveCount())
	}
}

func TestBiomassSpawnBelowFloor(t *testing.T) {
	p := NewBiomassPool(2)
	if i := p.Spawn(Vec2{}, MinBiomass, RoleProducer, 30); i != -1 {
		t.Errorf("spawn at floor = %d, want -1", i)
	}
	if i := p.Spawn(Vec2{}, 0.05, RoleProducer, 30); i != -1 {
		t.Errorf("spawn below floor = %d, want -1", i)
	}
}

func TestBiomassConsume(t *testing.T) {
	p := NewBiomassPool(2)
	i := p.Spawn(Vec2{}, 1.0, RoleProducer, 30)

	took := p.Consume(i, 0.4)
	if took != 0.4 {
		t.Errorf("consume = %v, want 0.4", took)
	}
	if math.Abs(float64(p.Slots[i].Amount)-0.6) > 1e-6 {
		t.Errorf("remaining = %v, want 0.6", p.Slots[i].Amount)
	}

	// Taking more than remains takes what is left and deactivates.
	took = p.Consume(i, 2.0)
	if math.Abs(float64(took)-0.6) > 1e-6 {
		t.Errorf("consume = %v, want 0.6", took)
	}
	if p.Slots[i].Active {
		t.Error("drained particle should deactivate")
	}

	if p.Consume(i, 0.5) != 0 {
		t.Error("consuming an inactive particle should yield 0")
	}
	if p.Consume(-1, 0.5) != 0 || p.Consume(99, 0.5) != 0 {
		t.Error("out-of-range index should yield 0")
	}
}

func TestBiomassConsumeDeactivatesAtFloor(t *testing.T) {
	p := NewBiomassPool(1)
	i := p.Spawn(Vec2{}, 0.5, RoleProducer, 30)

	p.Consume(i, 0.45)
	if p.Slots[i].Active {
		t.Errorf("particle at %v mass should deactivate (floor %v)",
			p.Slots[i].Amount, float32(MinBiomass))
	}
}

func TestBiomassStepDecay(t *testing.T) {
	p := NewBiomassPool(2)
	i := p.Spawn(Vec2{}, 1.0, RoleProducer, 10)

	p.Step(1.0)
	if p.Slots[i].Decomposition <= 0 {
		t.Error("decomposition should advance")
	}
	if p.Slots[i].Amount >= 1.0 {
		t.Error("mass should shrink while decomposing")
	}

	// Run past full decomposition.
	for k := 0; k < 20; k++ {
		p.Step(1.0)
	}
	if p.Slots[i].Active {
		t.Error("fully decomposed particle should deactivate")
	}
}

func TestBiomassTotalMass(t *testing.T) {
	p := NewBiomassPool(3)
	p.Spawn(Vec2{}, 1.0, RoleProducer, 30)
	p.Spawn(Vec2{}, 0.5, RoleProducer, 30)

	if got := p.TotalMass(); math.Abs(float64(got)-1.5) > 1e-6 {
		t.Errorf("total mass = %v, want 1.5", got)
	}
	if got := p.ActiveCount(); got != 2 {
		t.Errorf("active count = %d, want 2", got)
	}
}
