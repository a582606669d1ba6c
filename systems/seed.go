package systems

import (
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/broth/components"
)

// SeedChemField lays out the initial chemical landscape: oxygen and CO2
// near their baselines with gentle spatial variation, and patchy
// nitrogen/attractant hotspots from simplex noise so the first
// generations have gradients to climb.
func SeedChemField(f *ChemField, seed int64) {
	noise := opensimplex.NewNormalized(seed)
	const patchScale = 3.0

	for gy := 0; gy < f.R; gy++ {
		v := float64(gy) / float64(f.R)
		for gx := 0; gx < f.R; gx++ {
			u := float64(gx) / float64(f.R)

			broad := float32(noise.Eval2(u*patchScale, v*patchScale))
			patch := float32(noise.Eval2(u*patchScale*2+100, v*patchScale*2+100))

			f.Set(gx, gy, components.Oxygen, components.Baseline[components.Oxygen]*(0.8+0.4*broad))
			f.Set(gx, gy, components.CO2, components.Baseline[components.CO2]*(0.8+0.4*(1-broad)))

			// Sparse hotspots: only noise peaks survive the shaping.
			hot := patch * patch * patch
			f.Set(gx, gy, components.Nitrogen, components.Baseline[components.Nitrogen]+hot*3)
			f.Set(gx, gy, components.Attractant, components.Baseline[components.Attractant]+hot*2)
		}
	}
}
