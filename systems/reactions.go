package systems

import (
	"github.com/pthm-cable/broth/components"
)

// Reaction network constants. Rates are per second and tuned for the
// default tick of 1/60 s; the hard clamps catch anything a pathological
// configuration produces.
const (
	// Oxygen/CO2 exchange toward equilibrium o2 = exchangeRatio * co2.
	// Stoichiometry is asymmetric: one unit of O2 yields 0.8 units of CO2.
	exchangeRatio = 1.3
	exchangeRate  = 0.05
	exchangeYield = 0.8

	// Nitrification: Michaelis-Menten consumption of nitrogen, oxygen-limited.
	nitrifVmax  = 0.12
	nitrifKm    = 2.0
	nitrifO2K   = 4.0 // half-saturation of the oxygen limitation factor
	nitrifO2Use = 0.6 // oxygen consumed per unit of nitrogen nitrified

	// Pheromone self-limiting quadratic degradation.
	pheromoneQuad = 0.08

	// Toxin self-inhibition and oxygen-mediated neutralization.
	toxinSelf    = 0.05
	toxinO2Neutr = 0.01

	// Attractant saturation above a concentration threshold.
	attractantSatLevel = 4.0
	attractantSatRate  = 0.5

	// Global cross-inhibition once total load exceeds the threshold.
	crossInhibitTotal = 60.0
	crossInhibitRate  = 0.2

	// Slow drift toward the natural baseline.
	baselineDrift = 0.01
)

// React applies the multi-term reaction network to a freshly diffused
// 6-vector of concentrations, in place. Runs after all species of a
// cell have been diffused.
func React(ch *[components.NumSpecies]float32, dt float32) {
	o2 := ch[components.Oxygen]
	co2 := ch[components.CO2]

	// Oxygen/CO2 exchange toward the equilibrium ratio
	imbalance := o2 - exchangeRatio*co2
	xfer := imbalance * exchangeRate * dt
	o2 -= xfer
	co2 += xfer * exchangeYield

	// Nitrification consumes nitrogen and oxygen
	n := ch[components.Nitrogen]
	if n > 0 {
		o2Limit := o2 / (o2 + nitrifO2K)
		nitrified := nitrifVmax * n / (nitrifKm + n) * o2Limit * dt
		if nitrified > n {
			nitrified = n
		}
		n -= nitrified
		o2 -= nitrified * nitrifO2Use
	}

	// Pheromone self-limiting quadratic degradation
	p := ch[components.Pheromone]
	p -= pheromoneQuad * p * p * dt

	// Toxin self-inhibition plus oxygen-mediated neutralization
	t := ch[components.Toxin]
	t -= (toxinSelf*t*t + toxinO2Neutr*t*o2) * dt

	// Attractant saturation above the threshold
	a := ch[components.Attractant]
	if a > attractantSatLevel {
		a -= (a - attractantSatLevel) * attractantSatRate * dt
	}

	ch[components.Oxygen] = o2
	ch[components.CO2] = co2
	ch[components.Nitrogen] = n
	ch[components.Pheromone] = p
	ch[components.Toxin] = t
	ch[components.Attractant] = a

	// Global cross-inhibition: scale everything down once total load
	// exceeds the threshold
	var total float32
	for s := 0; s < components.NumSpecies; s++ {
		total += ch[s]
	}
	if total > crossInhibitTotal {
		scale := 1 - crossInhibitRate*dt*(total-crossInhibitTotal)/crossInhibitTotal
		if scale < 0.5 {
			scale = 0.5
		}
		for s := 0; s < components.NumSpecies; s++ {
			ch[s] *= scale
		}
	}

	// Baseline drift and per-species hard clamps
	for s := components.Species(0); s < components.NumSpecies; s++ {
		ch[s] += (components.Baseline[s] - ch[s]) * baselineDrift * dt
		ch[s] = clampf(ch[s], 0, components.HardMax[s])
	}
}

// ReactRows applies the reaction network to rows [y0, y1) of the write
// buffer. Must run after DiffuseRows has completed for the whole field.
func (f *ChemField) ReactRows(y0, y1 int, dt float32) {
	var ch [components.NumSpecies]float32
	for gy := y0; gy < y1; gy++ {
		for gx := 0; gx < f.R; gx++ {
			base := (gy*f.R + gx) * components.NumSpecies
			copy(ch[:], f.next[base:base+components.NumSpecies])
			React(&ch, dt)
			copy(f.next[base:base+components.NumSpecies], ch[:])
		}
	}
}
