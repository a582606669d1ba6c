package systems

import (
	"github.com/pthm-cable/broth/components"
)

// ChemField is the six-species concentration grid. Two buffers ping-pong
// each tick: kernels read "current" and write "next"; the orchestrator
// owns the swap at the tick boundary.
type ChemField struct {
	R int

	cur  []float32
	next []float32

	worldMin float32
	span     float32
	cellSize float32
}

// ChemStepParams carries the per-tick knobs for the field kernel.
type ChemStepParams struct {
	DT             float32
	DecayScale     float32
	DiffusionScale float32
	Advect         bool
}

// NewChemField creates an R x R x NumSpecies field over the given world extent.
func NewChemField(r int, worldMin, span float32) *ChemField {
	n := r * r * components.NumSpecies
	return &ChemField{
		R:        r,
		cur:      make([]float32, n),
		next:     make([]float32, n),
		worldMin: worldMin,
		span:     span,
		cellSize: span / float32(r),
	}
}

func (f *ChemField) idx(gx, gy int, s components.Species) int {
	return (gy*f.R+gx)*components.NumSpecies + int(s)
}

// cellOf maps world coordinates to grid coordinates. ok is false when
// the position falls outside the world. The closed upper edge belongs
// to the last cell, so an agent clamped to the boundary still reads
// and deposits.
func (f *ChemField) cellOf(x, y float32) (gx, gy int, ok bool) {
	fx := (x - f.worldMin) / f.span
	fy := (y - f.worldMin) / f.span
	if fx < 0 || fx > 1 || fy < 0 || fy > 1 {
		return 0, 0, false
	}
	gx = int(fx * float32(f.R))
	gy = int(fy * float32(f.R))
	if gx == f.R {
		gx = f.R - 1
	}
	if gy == f.R {
		gy = f.R - 1
	}
	return gx, gy, true
}

// Sample returns the current concentration at world coordinates.
// Out-of-range positions read as 0.
func (f *ChemField) Sample(x, y float32, s components.Species) float32 {
	if s < 0 || s >= components.NumSpecies {
		return 0
	}
	gx, gy, ok := f.cellOf(x, y)
	if !ok {
		return 0
	}
	return f.cur[f.idx(gx, gy, s)]
}

// Deposit adds amount to the write buffer at world coordinates, clamped
// to the species' safe range. Out-of-range positions are a no-op, as are
// unknown species.
func (f *ChemField) Deposit(x, y float32, s components.Species, amount float32) {
	if s < 0 || s >= components.NumSpecies {
		return
	}
	gx, gy, ok := f.cellOf(x, y)
	if !ok {
		return
	}
	i := f.idx(gx, gy, s)
	f.next[i] = clampf(f.next[i]+amount, 0, components.SafeMax[s])
}

// At returns the current concentration at grid coordinates, 0 out of range.
func (f *ChemField) At(gx, gy int, s components.Species) float32 {
	if gx < 0 || gx >= f.R || gy < 0 || gy >= f.R || s < 0 || s >= components.NumSpecies {
		return 0
	}
	return f.cur[f.idx(gx, gy, s)]
}

// Set writes the current concentration at grid coordinates.
func (f *ChemField) Set(gx, gy int, s components.Species, v float32) {
	if gx < 0 || gx >= f.R || gy < 0 || gy >= f.R || s < 0 || s >= components.NumSpecies {
		return
	}
	f.cur[f.idx(gx, gy, s)] = v
}

// NextAt returns the write-buffer concentration at grid coordinates.
func (f *ChemField) NextAt(gx, gy int, s components.Species) float32 {
	if gx < 0 || gx >= f.R || gy < 0 || gy >= f.R || s < 0 || s >= components.NumSpecies {
		return 0
	}
	return f.next[f.idx(gx, gy, s)]
}

// Fill sets every cell of one species in the current buffer.
func (f *ChemField) Fill(s components.Species, v float32) {
	for gy := 0; gy < f.R; gy++ {
		for gx := 0; gx < f.R; gx++ {
			f.cur[f.idx(gx, gy, s)] = v
		}
	}
}

// DiffuseRows advances rows [y0, y1) of the field by one tick:
// exponential decay, 8-neighbor toroidal diffusion blended toward the
// center, optional first-order upwind advection, then the safe clamp.
// Reads the current buffer, writes the next buffer; rows are disjoint
// so callers may run row ranges in parallel.
func (f *ChemField) DiffuseRows(y0, y1 int, fluid *FluidField, p ChemStepParams) {
	r := f.R
	for gy := y0; gy < y1; gy++ {
		yN := modInt(gy-1, r)
		yS := modInt(gy+1, r)
		for gx := 0; gx < r; gx++ {
			xW := modInt(gx-1, r)
			xE := modInt(gx+1, r)

			var vx, vy float32
			if p.Advect && fluid != nil {
				vx, vy = fluid.AtCell(gx, gy)
			}

			for s := components.Species(0); s < components.NumSpecies; s++ {
				c := f.cur[f.idx(gx, gy, s)]

				// Exponential decay toward the species' natural baseline
				b := components.Baseline[s]
				c = b + (c-b)*fastExp(-components.DecayRate[s]*p.DecayScale*p.DT)

				// 8-neighbor average, toroidal wrap
				sum := f.cur[f.idx(xW, yN, s)] + f.cur[f.idx(gx, yN, s)] + f.cur[f.idx(xE, yN, s)] +
					f.cur[f.idx(xW, gy, s)] + f.cur[f.idx(xE, gy, s)] +
					f.cur[f.idx(xW, yS, s)] + f.cur[f.idx(gx, yS, s)] + f.cur[f.idx(xE, yS, s)]
				avg := sum * (1.0 / 8.0)
				c += (avg - c) * components.DiffusionRate[s] * p.DiffusionScale * p.DT

				// First-order upwind advection from the sampled current
				if p.Advect && (vx != 0 || vy != 0) {
					var ddx, ddy float32
					if vx > 0 {
						ddx = c - f.cur[f.idx(xW, gy, s)]
					} else {
						ddx = f.cur[f.idx(xE, gy, s)] - c
					}
					if vy > 0 {
						ddy = c - f.cur[f.idx(gx, yN, s)]
					} else {
						ddy = f.cur[f.idx(gx, yS, s)] - c
					}
					c -= p.DT * (vx*ddx + vy*ddy) / f.cellSize
				}

				f.next[f.idx(gx, gy, s)] = clampf(c, 0, components.SafeMax[s])
			}
		}
	}
}

// Swap makes the write buffer current. Owned by the orchestrator at the
// tick boundary.
func (f *ChemField) Swap() {
	f.cur, f.next = f.next, f.cur
}

// Mean returns the mean current concentration of one species.
func (f *ChemField) Mean(s components.Species) float64 {
	if s < 0 || s >= components.NumSpecies {
		return 0
	}
	var sum float64
	for gy := 0; gy < f.R; gy++ {
		for gx := 0; gx < f.R; gx++ {
			sum += float64(f.cur[f.idx(gx, gy, s)])
		}
	}
	return sum / float64(f.R*f.R)
}
