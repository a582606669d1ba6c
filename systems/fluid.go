package systems

import (
	"math"

	"github.com/pthm-cable/broth/components"
	"github.com/pthm-cable/broth/config"
)

// FluidField is the R x R velocity and pressure grid. Velocity
// integrates biological, physical, and chemical current sources each
// tick; pressure is derived from the divergence of the result and is
// diagnostic only.
type FluidField struct {
	R int

	VelX, VelY []float32
	Pressure   []float32

	nextX, nextY []float32

	worldMin float32
	span     float32
	cellSize float32
}

// NewFluidField creates an R x R field over the given world extent.
func NewFluidField(r int, worldMin, span float32) *FluidField {
	n := r * r
	return &FluidField{
		R:        r,
		VelX:     make([]float32, n),
		VelY:     make([]float32, n),
		Pressure: make([]float32, n),
		nextX:    make([]float32, n),
		nextY:    make([]float32, n),
		worldMin: worldMin,
		span:     span,
		cellSize: span / float32(r),
	}
}

// AtCell returns the current velocity at grid coordinates, zero out of range.
func (f *FluidField) AtCell(gx, gy int) (vx, vy float32) {
	if gx < 0 || gx >= f.R || gy < 0 || gy >= f.R {
		return 0, 0
	}
	i := gy*f.R + gx
	return f.VelX[i], f.VelY[i]
}

// PressureAt returns the pressure at grid coordinates, zero out of range.
func (f *FluidField) PressureAt(gx, gy int) float32 {
	if gx < 0 || gx >= f.R || gy < 0 || gy >= f.R {
		return 0
	}
	return f.Pressure[gy*f.R+gx]
}

// CellCenter returns the world position of a cell center.
func (f *FluidField) CellCenter(gx, gy int) (x, y float32) {
	x = f.worldMin + (float32(gx)+0.5)*f.cellSize
	y = f.worldMin + (float32(gy)+0.5)*f.cellSize
	return x, y
}

// Zero clears both velocity and pressure. Used when fluid dynamics is
// disabled.
func (f *FluidField) Zero() {
	for i := range f.VelX {
		f.VelX[i] = 0
		f.VelY[i] = 0
		f.Pressure[i] = 0
	}
}

// StepRows advances velocity for rows [y0, y1): sums the biological,
// physical, and chemical current sources at each cell, integrates by dt,
// applies viscosity diffusion, damping, and the magnitude clamp. Reads
// the current velocity buffers and writes the next buffers; callers may
// run disjoint row ranges in parallel. Finish with SwapAndDerivePressure.
func (f *FluidField) StepRows(y0, y1 int, agents []components.Agent, grid *AgentGrid, chem *ChemField, cfg *config.Config, elapsed float32, scratch *[]Neighbor) {
	dt := cfg.Derived.DT32
	r := f.R

	bioRadius := float32(cfg.Fluid.BioInfluenceRadius)
	bioInfluence := float32(cfg.Fluid.BioInfluence)
	chemStrength := float32(cfg.Fluid.ChemicalStrength)
	currentStrength := float32(cfg.Fluid.CurrentStrength)
	viscosity := float32(cfg.Fluid.Viscosity)
	damping := float32(cfg.Fluid.Damping)
	maxVel := float32(cfg.Fluid.MaxVelocity)
	thermal := float32(cfg.Fluid.ThermalConvection)

	for gy := y0; gy < y1; gy++ {
		yN := modInt(gy-1, r)
		yS := modInt(gy+1, r)
		for gx := 0; gx < r; gx++ {
			xW := modInt(gx-1, r)
			xE := modInt(gx+1, r)
			i := gy*r + gx
			cx, cy := f.CellCenter(gx, gy)

			// Biological current: nearby living agents drag fluid along.
			var bioX, bioY float32
			if grid != nil {
				*scratch = grid.QueryRadiusInto((*scratch)[:0], agents, cx, cy, bioRadius)
				for _, nb := range *scratch {
					a := &agents[nb.Index]
					d := fastSqrt(nb.DistSq)
					w := (1 - d/bioRadius) * bioInfluence
					mod := components.SpeedMultiplier(a.Role, a.Variant)
					bioX += a.Vel.X * w * mod
					bioY += a.Vel.Y * w * mod
					// Network-forming producers add a radial outflow
					// scaled by their biofilm.
					if components.NetworkFormer(a.Role, a.Variant) && a.Biofilm > 0 && d > 1e-6 {
						radial := a.Biofilm * w * 0.5
						bioX -= nb.DX / d * radial
						bioY -= nb.DY / d * radial
					}
				}
			}

			// Physical current: density gradient of O2+CO2+N over the
			// 4-neighborhood, plus synthetic thermal convection.
			dE := cellDensity(chem, xE, gy)
			dW := cellDensity(chem, xW, gy)
			dS := cellDensity(chem, gx, yS)
			dN := cellDensity(chem, gx, yN)
			physX := -(dE - dW) * 0.5 * 0.05
			physY := -(dS - dN) * 0.5 * 0.05
			// Warm band drifts across the world over time; warmer cells rise.
			temp := fastSin(cy*math.Pi + elapsed*0.05)
			physY -= temp * thermal

			// Chemical current: osmotic-pressure gradients per species.
			var chemX, chemY float32
			for s := components.Species(0); s < components.NumSpecies; s++ {
				gradX := (chem.At(xE, gy, s) - chem.At(xW, gy, s)) * 0.5
				gradY := (chem.At(gx, yS, s) - chem.At(gx, yN, s)) * 0.5
				chemX -= gradX * components.OsmoticStrength[s]
				chemY -= gradY * components.OsmoticStrength[s]
			}
			chemX *= chemStrength
			chemY *= chemStrength

			vx := f.VelX[i] + (bioX+physX+chemX)*currentStrength*dt
			vy := f.VelY[i] + (bioY+physY+chemY)*currentStrength*dt

			// Discrete viscosity diffusion: Laplacian of neighbor velocities.
			lapX := f.VelX[yN*r+gx] + f.VelX[yS*r+gx] + f.VelX[gy*r+xW] + f.VelX[gy*r+xE] - 4*f.VelX[i]
			lapY := f.VelY[yN*r+gx] + f.VelY[yS*r+gx] + f.VelY[gy*r+xW] + f.VelY[gy*r+xE] - 4*f.VelY[i]
			vx += lapX * viscosity * dt
			vy += lapY * viscosity * dt

			vx *= damping
			vy *= damping

			// Magnitude clamp
			magSq := vx*vx + vy*vy
			if magSq > maxVel*maxVel {
				scale := maxVel / fastSqrt(magSq)
				vx *= scale
				vy *= scale
			}

			f.nextX[i] = vx
			f.nextY[i] = vy
		}
	}
}

// cellDensity sums the heavy species at a cell for the physical current.
func cellDensity(chem *ChemField, gx, gy int) float32 {
	return chem.At(gx, gy, components.Oxygen) +
		chem.At(gx, gy, components.CO2) +
		chem.At(gx, gy, components.Nitrogen)
}

// SwapAndDerivePressure publishes the next velocity buffers and derives
// pressure as the negative divergence scaled by fluid density. Not fed
// back into velocity this tick.
func (f *FluidField) SwapAndDerivePressure(density float32) {
	f.VelX, f.nextX = f.nextX, f.VelX
	f.VelY, f.nextY = f.nextY, f.VelY

	r := f.R
	for gy := 0; gy < r; gy++ {
		yN := modInt(gy-1, r)
		yS := modInt(gy+1, r)
		for gx := 0; gx < r; gx++ {
			xW := modInt(gx-1, r)
			xE := modInt(gx+1, r)
			div := (f.VelX[gy*r+xE]-f.VelX[gy*r+xW])*0.5 +
				(f.VelY[yS*r+gx]-f.VelY[yN*r+gx])*0.5
			f.Pressure[gy*r+gx] = -div * density
		}
	}
}

// SampleVelocity returns the current velocity at world coordinates,
// zero outside the world. The closed upper edge maps to the last cell.
func (f *FluidField) SampleVelocity(x, y float32) (vx, vy float32) {
	gx := int((x - f.worldMin) / f.span * float32(f.R))
	gy := int((y - f.worldMin) / f.span * float32(f.R))
	if gx == f.R && x <= f.worldMin+f.span {
		gx = f.R - 1
	}
	if gy == f.R && y <= f.worldMin+f.span {
		gy = f.R - 1
	}
	return f.AtCell(gx, gy)
}
