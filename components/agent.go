package components

// Vec2 is a 2D vector in world units.
type Vec2 struct {
	X, Y float32
}

// Role determines behavior dispatch and sensing weights.
type Role uint8

const (
	RoleRecycler Role = iota
	RoleProducer
	RolePredator

	NumRoles = 3
)

var roleNames = [NumRoles]string{"recycler", "producer", "predator"}

func (r Role) String() string {
	if r >= NumRoles {
		return "unknown"
	}
	return roleNames[r]
}

// NumVariants returns the number of sub-species for a role.
// Predators carry a fourth variant; other roles have three.
func (r Role) NumVariants() uint8 {
	if r == RolePredator {
		return 4
	}
	return 3
}

// State is the behavioral state an agent is currently in.
type State uint8

const (
	StateFeeding State = iota
	StateHunting
	StateReproducing
	StateEscaping
)

var stateNames = [4]string{"feeding", "hunting", "reproducing", "escaping"}

func (s State) String() string {
	if s > StateEscaping {
		return "unknown"
	}
	return stateNames[s]
}

// NumSensors is the number of chemotaxis sample points around the heading.
const NumSensors = 4

// Sensor slot order within Agent.Sensors.
const (
	SensorFront = iota
	SensorLeft
	SensorRight
	SensorRear
)

// Agent is one slot in the fixed-capacity agent store. A slot with
// Energy <= 0 is dead and eligible for reuse; the index is not a stable
// identity across ticks.
type Agent struct {
	Pos Vec2
	Vel Vec2

	Energy float32
	Age    float32

	Role    Role
	Variant uint8

	// Run-and-tumble motor state
	Heading     float32
	RunDuration float32
	RunTimer    float32

	MetabolismRate float32

	State      State
	StateTimer float32

	// Most recent chemotaxis samples (front, left, right, rear).
	Sensors [NumSensors]float32

	// Per-species deposition rate into the chemical field.
	Secretion [NumSpecies]float32

	Biofilm float32 // Producer network-former accumulation
	Pack    float32 // Predator neighbor count, recomputed each tick

	// Last prey index hunted; advisory only, may be stale. -1 = none.
	HuntTarget int32
}

// Alive reports whether the slot holds a living agent.
func (a *Agent) Alive() bool {
	return a.Energy > 0
}

// speedTable maps role x variant to a speed multiplier. Predator
// variant 3 is the fast ambusher; other roles clamp variants to 0-2.
var speedTable = [NumRoles][4]float32{
	{1.00, 1.20, 0.90, 1.00}, // recycler
	{0.70, 0.80, 0.60, 0.70}, // producer
	{1.30, 1.10, 1.50, 1.20}, // predator
}

// SpeedMultiplier returns the role/variant speed factor. Out-of-range
// inputs fall back to 1.
func SpeedMultiplier(r Role, v uint8) float32 {
	if r >= NumRoles || v >= 4 {
		return 1
	}
	return speedTable[r][v]
}

// huntTable maps predator variant to a hunt-success multiplier.
var huntTable = [4]float32{1.00, 1.15, 0.90, 1.25}

// HuntMultiplier returns the predator variant's hunt-success factor.
func HuntMultiplier(v uint8) float32 {
	if v >= 4 {
		return 1
	}
	return huntTable[v]
}

// SensedSpecies returns the two species a role samples during
// chemotaxis, primary weighted 2:1 over secondary.
func (r Role) SensedSpecies() (primary, secondary Species) {
	switch r {
	case RoleProducer:
		return CO2, Nitrogen
	case RolePredator:
		return Pheromone, Oxygen
	default:
		return Nitrogen, Attractant
	}
}

// DefaultSecretion returns the per-species deposition rates an agent
// of the given role and variant starts with. Recyclers mark worked
// biomass with attractant, producers release defensive toxin on one
// variant, predators lay pheromone trails.
func DefaultSecretion(r Role, v uint8) [NumSpecies]float32 {
	var s [NumSpecies]float32
	switch r {
	case RoleRecycler:
		s[Nitrogen] = 0.05
		s[Attractant] = 0.02
	case RoleProducer:
		if v == 2 {
			s[Toxin] = 0.03
		}
	case RolePredator:
		s[Pheromone] = 0.08
	}
	return s
}

// NetworkFormer reports whether a producer variant builds biofilm.
func NetworkFormer(r Role, v uint8) bool {
	return r == RoleProducer && v == 1
}
