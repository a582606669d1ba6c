package telemetry

import "github.com/pthm-cable/broth/components"

// Snapshot carries the visible simulation state for the stream. It is
// a copy; readers never touch the live stores.
type Snapshot struct {
	Tick    int32   `json:"tick"`
	SimTime float64 `json:"sim_time"`

	Agents  []AgentSnap   `json:"agents"`
	Biomass []BiomassSnap `json:"biomass"`

	FieldMeans [components.NumSpecies]float64 `json:"field_means"`
}

// AgentSnap holds one living agent's visible state.
type AgentSnap struct {
	X       float32 `json:"x"`
	Y       float32 `json:"y"`
	Role    uint8   `json:"role"`
	Variant uint8   `json:"variant"`
	Energy  float32 `json:"energy"`
	State   uint8   `json:"state"`
}

// BiomassSnap holds one active dead biomass particle.
type BiomassSnap struct {
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	Amount float32 `json:"amount"`
}
