// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// EdgePolicy selects boundary handling after movement.
const (
	EdgeWrap  = "wrap"
	EdgeClamp = "clamp"
)

// Config holds all simulation configuration parameters. It is treated
// as read-only by the kernels; every kernel receives it explicitly.
type Config struct {
	World        WorldConfig        `yaml:"world"`
	Field        FieldConfig        `yaml:"field"`
	Population   PopulationConfig   `yaml:"population"`
	Movement     MovementConfig     `yaml:"movement"`
	Recycler     RecyclerConfig     `yaml:"recycler"`
	Producer     ProducerConfig     `yaml:"producer"`
	Predator     PredatorConfig     `yaml:"predator"`
	Energy       EnergyConfig       `yaml:"energy"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Fluid        FluidConfig        `yaml:"fluid"`
	Light        LightConfig        `yaml:"light"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`
	Stream       StreamConfig       `yaml:"stream"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds world geometry and time step.
type WorldConfig struct {
	Size       float64 `yaml:"size"`        // half-extent; world spans [-size, size]^2
	DT         float64 `yaml:"dt"`          // seconds per tick
	EdgePolicy string  `yaml:"edge_policy"` // wrap | clamp
	Seed       int64   `yaml:"seed"`        // 0 = time-based
}

// FieldConfig holds chemical field parameters.
type FieldConfig struct {
	Resolution     int     `yaml:"resolution"`
	DepositionRate float64 `yaml:"deposition_rate"` // global multiplier on agent secretion
	DecayScale     float64 `yaml:"decay_scale"`     // multiplier on per-species decay rates
	DiffusionScale float64 `yaml:"diffusion_scale"` // multiplier on per-species diffusion rates
}

// PopulationConfig holds store capacities and initial spawn weights.
type PopulationConfig struct {
	AgentCapacity   int     `yaml:"agent_capacity"`
	BiomassCapacity int     `yaml:"biomass_capacity"`
	Initial         int     `yaml:"initial"`
	RecyclerWeight  float64 `yaml:"recycler_weight"`
	ProducerWeight  float64 `yaml:"producer_weight"`
	PredatorWeight  float64 `yaml:"predator_weight"`
	InitialEnergy   float64 `yaml:"initial_energy"`
}

// MovementConfig holds run-and-tumble and chemotaxis parameters.
type MovementConfig struct {
	FlagellaStrength float64 `yaml:"flagella_strength"`
	TumbleAngleRange float64 `yaml:"tumble_angle_range"` // radians
	RunDurationMin   float64 `yaml:"run_duration_min"`   // seconds
	RunDurationMax   float64 `yaml:"run_duration_max"`
	BrownianNoise    float64 `yaml:"brownian_noise"` // per-axis velocity jitter
	ChemotaxisGain   float64 `yaml:"chemotaxis_gain"`
	SensorRange      float64 `yaml:"sensor_range"`
	SensorSaturation float64 `yaml:"sensor_saturation"` // receptor saturation clamp
}

// RecyclerConfig holds biomass consumption parameters.
type RecyclerConfig struct {
	ContactRadius float64 `yaml:"contact_radius"`
	Efficiency    float64 `yaml:"efficiency"`     // biomass per second at contact
	Assimilation  float64 `yaml:"assimilation"`   // consumed mass -> energy fraction
	NitrogenYield float64 `yaml:"nitrogen_yield"` // consumed mass -> nitrogen deposit fraction
}

// ProducerConfig holds photosynthesis parameters.
type ProducerConfig struct {
	PhotosynthesisRate float64 `yaml:"photosynthesis_rate"`
	OxygenYield        float64 `yaml:"oxygen_yield"`
	CO2Uptake          float64 `yaml:"co2_uptake"`
	BiofilmRate        float64 `yaml:"biofilm_rate"`
	BiofilmMax         float64 `yaml:"biofilm_max"`
}

// PredatorConfig holds hunting parameters.
type PredatorConfig struct {
	ContactRange      float64 `yaml:"contact_range"`
	TerritoryRadius   float64 `yaml:"territory_radius"`
	SuccessRate       float64 `yaml:"success_rate"`
	HuntingEfficiency float64 `yaml:"hunting_efficiency"`
	PackBonus         float64 `yaml:"pack_bonus"`
	PackCap           int     `yaml:"pack_cap"`
	TransferFraction  float64 `yaml:"transfer_fraction"`
	KillCost          float64 `yaml:"kill_cost"`
	MissCost          float64 `yaml:"miss_cost"`
	EscapeDuration    float64 `yaml:"escape_duration"`
	ToxinPenalty      float64 `yaml:"toxin_penalty"`
	EscapeDiscount    float64 `yaml:"escape_discount"`
}

// EnergyConfig holds metabolism, aging, and death parameters.
type EnergyConfig struct {
	ConsumptionRate   float64 `yaml:"consumption_rate"`
	MaxAge            float64 `yaml:"max_age"`
	BiomassFromEnergy float64 `yaml:"biomass_from_energy"`
	DeathBiomassBonus float64 `yaml:"death_biomass_bonus"`
	BiomassDecayTime  float64 `yaml:"biomass_decay_time"`
}

// ReproductionConfig holds asexual reproduction parameters.
type ReproductionConfig struct {
	Threshold     float64 `yaml:"threshold"`
	Probability   float64 `yaml:"probability"` // per-tick gate once above threshold
	SpawnOffset   float64 `yaml:"spawn_offset"`
	MutationRate  float64 `yaml:"mutation_rate"`
	MutationSigma float64 `yaml:"mutation_sigma"`
}

// FluidConfig holds fluid current parameters.
type FluidConfig struct {
	Enabled            bool    `yaml:"enabled"`
	Viscosity          float64 `yaml:"viscosity"`
	Density            float64 `yaml:"density"`
	CurrentStrength    float64 `yaml:"current_strength"`
	ChemicalStrength   float64 `yaml:"chemical_strength"`
	BioInfluenceRadius float64 `yaml:"bio_influence_radius"`
	BioInfluence       float64 `yaml:"bio_influence"`
	ThermalConvection  float64 `yaml:"thermal_convection"`
	Damping            float64 `yaml:"damping"`
	MaxVelocity        float64 `yaml:"max_velocity"`
}

// LightConfig holds the directional light-gradient model parameters.
type LightConfig struct {
	Enabled       bool    `yaml:"enabled"`
	BaseIntensity float64 `yaml:"base_intensity"`
	Gradient      float64 `yaml:"gradient"`
	RotationRate  float64 `yaml:"rotation_rate"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow      float64 `yaml:"stats_window"`
	SnapshotInterval float64 `yaml:"snapshot_interval"`
}

// StreamConfig holds the websocket state stream parameters.
type StreamConfig struct {
	Addr string `yaml:"addr"` // empty disables the server
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32      float32 // World.DT as float32
	WorldMin  float32 // -World.Size
	WorldMax  float32 // World.Size
	WorldSpan float32 // 2 * World.Size
	Wrap      bool    // EdgePolicy == wrap
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults
// if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.ComputeDerived()

	return cfg, nil
}

// validate rejects configurations the kernels cannot run with.
func (c *Config) validate() error {
	if c.World.Size <= 0 {
		return fmt.Errorf("world.size must be positive, got %v", c.World.Size)
	}
	if c.World.DT <= 0 {
		return fmt.Errorf("world.dt must be positive, got %v", c.World.DT)
	}
	if c.World.EdgePolicy != EdgeWrap && c.World.EdgePolicy != EdgeClamp {
		return fmt.Errorf("world.edge_policy must be %q or %q, got %q", EdgeWrap, EdgeClamp, c.World.EdgePolicy)
	}
	if c.Field.Resolution < 4 {
		return fmt.Errorf("field.resolution must be at least 4, got %d", c.Field.Resolution)
	}
	if c.Population.AgentCapacity < 1 || c.Population.BiomassCapacity < 1 {
		return fmt.Errorf("population capacities must be positive")
	}
	if c.Population.Initial > c.Population.AgentCapacity {
		return fmt.Errorf("population.initial %d exceeds agent_capacity %d",
			c.Population.Initial, c.Population.AgentCapacity)
	}
	return nil
}

// ComputeDerived calculates values derived from loaded config.
// Exposed so tests and the optimizer can rebuild after mutating fields.
func (c *Config) ComputeDerived() {
	c.Derived.DT32 = float32(c.World.DT)
	c.Derived.WorldMin = float32(-c.World.Size)
	c.Derived.WorldMax = float32(c.World.Size)
	c.Derived.WorldSpan = float32(2 * c.World.Size)
	c.Derived.Wrap = c.World.EdgePolicy == EdgeWrap
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
