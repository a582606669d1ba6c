package systems

import "github.com/pthm-cable/broth/config"

// LightModel is the directional light gradient producers photosynthesize
// under: a constant base intensity plus a linear gradient along a slowly
// rotating direction, clamped to [0, 1].
type LightModel struct {
	Enabled      bool
	Base         float32
	Gradient     float32
	RotationRate float32
}

// NewLightModel builds the model from config.
func NewLightModel(cfg *config.Config) LightModel {
	return LightModel{
		Enabled:      cfg.Light.Enabled,
		Base:         float32(cfg.Light.BaseIntensity),
		Gradient:     float32(cfg.Light.Gradient),
		RotationRate: float32(cfg.Light.RotationRate),
	}
}

// Intensity returns the light level at a world position and elapsed
// simulated time. With the gradient disabled, the base intensity applies
// everywhere.
func (l *LightModel) Intensity(x, y, elapsed float32) float32 {
	if !l.Enabled {
		return clampf(l.Base, 0, 1)
	}
	ang := l.RotationRate * elapsed
	d := x*fastCos(ang) + y*fastSin(ang)
	return clampf(l.Base+l.Gradient*d, 0, 1)
}
