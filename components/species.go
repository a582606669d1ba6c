// Package components defines the shared data types for the simulation stores.
package components

// Species enumerates the chemical species tracked by the field.
type Species int

const (
	Oxygen Species = iota
	CO2
	Nitrogen
	Pheromone
	Toxin
	Attractant

	NumSpecies = 6
)

var speciesNames = [NumSpecies]string{"oxygen", "co2", "nitrogen", "pheromone", "toxin", "attractant"}

func (s Species) String() string {
	if s < 0 || s >= NumSpecies {
		return "unknown"
	}
	return speciesNames[s]
}

// Per-species field constants. Oxygen and CO2 persist the longest;
// signaling species (pheromones, attractants) turn over fastest.
var (
	// DecayRate is the exponential decay constant per second.
	DecayRate = [NumSpecies]float32{0.02, 0.02, 0.08, 0.25, 0.12, 0.30}

	// DiffusionRate blends a cell toward its 8-neighbor average, per second.
	DiffusionRate = [NumSpecies]float32{0.30, 0.30, 0.20, 0.15, 0.18, 0.25}

	// SafeMax is the pre-reaction clamp applied after diffusion/advection.
	SafeMax = [NumSpecies]float32{50, 50, 20, 10, 15, 10}

	// HardMax is the post-reaction clamp preventing runaway accumulation.
	HardMax = [NumSpecies]float32{40, 40, 12, 6, 8, 6}

	// Baseline is the natural concentration each species drifts toward.
	Baseline = [NumSpecies]float32{8.0, 6.0, 1.0, 0.0, 0.0, 0.5}

	// OsmoticStrength weights each species' gradient contribution to
	// the chemical component of the fluid current.
	OsmoticStrength = [NumSpecies]float32{0.020, 0.018, 0.035, 0.050, 0.060, 0.045}
)
