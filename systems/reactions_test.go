package systems

import (
	"testing"

	"github.com/pthm-cable/broth/components"
)

const reactDT = float32(1.0 / 60.0)

func TestReactOxygenExchange(t *testing.T) {
	// O2 far above the equilibrium ratio transfers toward CO2.
	var ch [components.NumSpecies]float32
	ch[components.Oxygen] = 20
	ch[components.CO2] = 5

	React(&ch, reactDT)

	if ch[components.Oxygen] >= 20 {
		t.Errorf("oxygen should fall, got %v", ch[components.Oxygen])
	}
	if ch[components.CO2] <= 5 {
		t.Errorf("co2 should rise, got %v", ch[components.CO2])
	}

	// And the reverse direction when CO2 dominates.
	ch = [components.NumSpecies]float32{}
	ch[components.Oxygen] = 2
	ch[components.CO2] = 20

	React(&ch, reactDT)

	if ch[components.Oxygen] <= 2 {
		t.Errorf("oxygen should rise, got %v", ch[components.Oxygen])
	}
	if ch[components.CO2] >= 20 {
		t.Errorf("co2 should fall, got %v", ch[components.CO2])
	}
}

func TestReactNitrificationConsumesNitrogen(t *testing.T) {
	var rich, starved [components.NumSpecies]float32
	rich[components.Nitrogen] = 5
	rich[components.Oxygen] = 20
	starved[components.Nitrogen] = 5
	starved[components.Oxygen] = 0.1

	React(&rich, reactDT)
	React(&starved, reactDT)

	if rich[components.Nitrogen] >= 5 {
		t.Errorf("nitrogen should be consumed, got %v", rich[components.Nitrogen])
	}
	// Oxygen limitation: low oxygen nitrifies slower.
	richLoss := 5 - rich[components.Nitrogen]
	starvedLoss := 5 - starved[components.Nitrogen]
	if starvedLoss >= richLoss {
		t.Errorf("oxygen-starved nitrification loss %v should be below oxygen-rich loss %v",
			starvedLoss, richLoss)
	}
}

func TestReactPheromoneQuadraticDecay(t *testing.T) {
	var lo, hi [components.NumSpecies]float32
	lo[components.Pheromone] = 1
	hi[components.Pheromone] = 5

	React(&lo, reactDT)
	React(&hi, reactDT)

	loFrac := (1 - lo[components.Pheromone]) / 1
	hiFrac := (5 - hi[components.Pheromone]) / 5
	if hiFrac <= loFrac {
		t.Errorf("quadratic decay: fractional loss at 5 (%v) should exceed loss at 1 (%v)",
			hiFrac, loFrac)
	}
}

func TestReactToxinOxygenNeutralization(t *testing.T) {
	var anoxic, oxic [components.NumSpecies]float32
	anoxic[components.Toxin] = 4
	oxic[components.Toxin] = 4
	oxic[components.Oxygen] = 30

	React(&anoxic, reactDT)
	React(&oxic, reactDT)

	if oxic[components.Toxin] >= anoxic[components.Toxin] {
		t.Errorf("oxygen should accelerate toxin breakdown: oxic %v, anoxic %v",
			oxic[components.Toxin], anoxic[components.Toxin])
	}
}

func TestReactAttractantSaturation(t *testing.T) {
	var ch [components.NumSpecies]float32
	ch[components.Attractant] = 6

	React(&ch, reactDT)

	if ch[components.Attractant] >= 6 {
		t.Errorf("attractant above the saturation level should fall, got %v",
			ch[components.Attractant])
	}
}

func TestReactHardClamps(t *testing.T) {
	var ch [components.NumSpecies]float32
	for s := range ch {
		ch[s] = 1000
	}

	React(&ch, reactDT)

	for s := components.Species(0); s < components.NumSpecies; s++ {
		if ch[s] > components.HardMax[s] {
			t.Errorf("%v = %v exceeds hard max %v", s, ch[s], components.HardMax[s])
		}
		if ch[s] < 0 {
			t.Errorf("%v = %v is negative", s, ch[s])
		}
	}
}

func TestReactCrossInhibition(t *testing.T) {
	var ch [components.NumSpecies]float32
	ch[components.Oxygen] = 38
	ch[components.CO2] = 38

	before := ch[components.Nitrogen] + ch[components.Oxygen] + ch[components.CO2]
	React(&ch, reactDT)
	after := ch[components.Nitrogen] + ch[components.Oxygen] + ch[components.CO2]

	if after >= before {
		t.Errorf("total load above the threshold should shrink: before %v, after %v",
			before, after)
	}
}

func TestReactRowsMatchesReact(t *testing.T) {
	f := newTestField(4)
	f.Deposit(0, 0, components.Nitrogen, 5)
	f.Deposit(0, 0, components.Oxygen, 20)
	gx, gy, _ := f.cellOf(0, 0)

	var want [components.NumSpecies]float32
	for s := components.Species(0); s < components.NumSpecies; s++ {
		want[s] = f.NextAt(gx, gy, s)
	}
	React(&want, reactDT)

	f.ReactRows(0, f.R, reactDT)

	for s := components.Species(0); s < components.NumSpecies; s++ {
		if got := f.NextAt(gx, gy, s); got != want[s] {
			t.Errorf("species %v: ReactRows = %v, React = %v", s, got, want[s])
		}
	}
}
