package systems

import (
	"github.com/pthm-cable/broth/components"
	"github.com/pthm-cable/broth/config"
)

// MotorIntent is the movement output of one agent's parallel lane:
// updated motor state, velocity, and integrated position.
type MotorIntent struct {
	Heading     float32
	RunTimer    float32
	RunDuration float32
	VelX, VelY  float32
	PosX, PosY  float32
	Sensors     [components.NumSensors]float32
}

// ComputeMotor runs sensing and run-and-tumble movement for one agent
// without mutating it. Pure with respect to shared state; safe to call
// from parallel lanes.
func ComputeMotor(a *components.Agent, chem *ChemField, cfg *config.Config, rng *LaneRand, dt float32) MotorIntent {
	sensors := SenseChemicals(a, chem, cfg)

	heading := a.Heading
	runTimer := a.RunTimer + dt
	runDuration := a.RunDuration

	// Tumble: perturb heading and sample a fresh run duration once the
	// run expires.
	if runTimer > runDuration {
		tumble := float32(cfg.Movement.TumbleAngleRange)
		heading += rng.Signed(tumble * 0.5)
		runDuration = rng.Range(float32(cfg.Movement.RunDurationMin), float32(cfg.Movement.RunDurationMax))
		runTimer = 0
	}

	// Continuous chemotaxis bias toward the stronger side sensor.
	left := sensors[components.SensorLeft]
	right := sensors[components.SensorRight]
	saturation := float32(cfg.Movement.SensorSaturation)
	if saturation > 0 {
		heading += (left - right) / saturation * float32(cfg.Movement.ChemotaxisGain) * dt
	}
	heading = NormalizeAngle(heading)

	// Speed from the front sensor and the role/variant multiplier table.
	front := sensors[components.SensorFront]
	speedFactor := float32(0.6)
	if saturation > 0 {
		speedFactor += 0.4 * front / saturation
	}
	speed := float32(cfg.Movement.FlagellaStrength) *
		components.SpeedMultiplier(a.Role, a.Variant) * speedFactor

	noise := float32(cfg.Movement.BrownianNoise)
	vx := fastCos(heading)*speed + rng.Signed(noise)
	vy := fastSin(heading)*speed + rng.Signed(noise)

	px, py := applyBounds(a.Pos.X+vx*dt, a.Pos.Y+vy*dt, cfg)

	return MotorIntent{
		Heading:     heading,
		RunTimer:    runTimer,
		RunDuration: runDuration,
		VelX:        vx,
		VelY:        vy,
		PosX:        px,
		PosY:        py,
		Sensors:     sensors,
	}
}

// applyBounds wraps or clamps a position into the world per the edge policy.
func applyBounds(x, y float32, cfg *config.Config) (float32, float32) {
	min := cfg.Derived.WorldMin
	max := cfg.Derived.WorldMax
	span := cfg.Derived.WorldSpan
	if cfg.Derived.Wrap {
		return wrapCoord(x, min, span), wrapCoord(y, min, span)
	}
	return clampf(x, min, max), clampf(y, min, max)
}

// wrapCoord maps x into [min, min+span).
func wrapCoord(x, min, span float32) float32 {
	for x < min {
		x += span
	}
	for x >= min+span {
		x -= span
	}
	return x
}
