package systems

import (
	"math"

	"github.com/pthm-cable/broth/components"
	"github.com/pthm-cable/broth/config"
)

// sensorOffsets are the angular offsets of the four chemotaxis samples
// relative to the heading: front, left, right, rear.
var sensorOffsets = [components.NumSensors]float32{0, 0.8, -0.8, math.Pi}

// SenseChemicals fills out the four chemotaxis samples for an agent.
// Each sample combines the role's two sensed species weighted 2:1 and is
// clamped to the receptor saturation threshold. Out-of-world samples
// read as zero concentration.
func SenseChemicals(a *components.Agent, chem *ChemField, cfg *config.Config) [components.NumSensors]float32 {
	primary, secondary := a.Role.SensedSpecies()
	rangeDist := float32(cfg.Movement.SensorRange)
	saturation := float32(cfg.Movement.SensorSaturation)

	var out [components.NumSensors]float32
	for i := 0; i < components.NumSensors; i++ {
		ang := a.Heading + sensorOffsets[i]
		sx := a.Pos.X + fastCos(ang)*rangeDist
		sy := a.Pos.Y + fastSin(ang)*rangeDist

		reading := chem.Sample(sx, sy, primary)*2 + chem.Sample(sx, sy, secondary)
		if reading > saturation {
			reading = saturation // receptor saturation
		}
		out[i] = reading
	}
	return out
}
