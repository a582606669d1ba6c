package systems

import (
	"github.com/pthm-cable/broth/components"
)

// Neighbor holds a nearby agent with precomputed spatial data.
// This avoids recomputing the wrap-aware delta and distance at use sites.
type Neighbor struct {
	Index  int32
	DX, DY float32 // delta from query origin, wrap-aware when the world wraps
	DistSq float32
}

// AgentGrid buckets living agent indices by cell for radius queries.
// Rebuilt once per tick before the fluid kernel runs.
type AgentGrid struct {
	cellSize float32
	cols     int
	worldMin float32
	span     float32
	wrap     bool
	cells    [][]int32
}

// NewAgentGrid creates a grid over the world extent with the given cell size.
func NewAgentGrid(worldMin, span, cellSize float32, wrap bool) *AgentGrid {
	cols := int(span/cellSize) + 1
	cells := make([][]int32, cols*cols)
	for i := range cells {
		cells[i] = make([]int32, 0, 8)
	}
	return &AgentGrid{
		cellSize: cellSize,
		cols:     cols,
		worldMin: worldMin,
		span:     span,
		wrap:     wrap,
		cells:    cells,
	}
}

// Rebuild clears the grid and inserts every living agent.
func (g *AgentGrid) Rebuild(agents []components.Agent) {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	for i := range agents {
		if !agents[i].Alive() {
			continue
		}
		idx := g.cellIndex(agents[i].Pos.X, agents[i].Pos.Y)
		if idx >= 0 {
			g.cells[idx] = append(g.cells[idx], int32(i))
		}
	}
}

func (g *AgentGrid) cellIndex(x, y float32) int {
	cx := int((x - g.worldMin) / g.cellSize)
	cy := int((y - g.worldMin) / g.cellSize)
	if cx < 0 || cx >= g.cols || cy < 0 || cy >= g.cols {
		return -1
	}
	return cy*g.cols + cx
}

// QueryRadiusInto finds agents within radius of (x, y), appending to dst.
// Reuse dst across calls to avoid allocations. Deltas are wrap-aware when
// the world wraps at its edges.
func (g *AgentGrid) QueryRadiusInto(dst []Neighbor, agents []components.Agent, x, y, radius float32) []Neighbor {
	cellRadius := int(radius/g.cellSize) + 1
	centerCol := int((x - g.worldMin) / g.cellSize)
	centerRow := int((y - g.worldMin) / g.cellSize)
	radiusSq := radius * radius

	for dr := -cellRadius; dr <= cellRadius; dr++ {
		row := centerRow + dr
		if g.wrap {
			row = modInt(row, g.cols)
		} else if row < 0 || row >= g.cols {
			continue
		}
		for dc := -cellRadius; dc <= cellRadius; dc++ {
			col := centerCol + dc
			if g.wrap {
				col = modInt(col, g.cols)
			} else if col < 0 || col >= g.cols {
				continue
			}
			for _, idx := range g.cells[row*g.cols+col] {
				a := &agents[idx]
				dx := a.Pos.X - x
				dy := a.Pos.Y - y
				if g.wrap {
					dx = wrapDelta(dx, g.span)
					dy = wrapDelta(dy, g.span)
				}
				distSq := dx*dx + dy*dy
				if distSq <= radiusSq {
					dst = append(dst, Neighbor{Index: idx, DX: dx, DY: dy, DistSq: distSq})
				}
			}
		}
	}
	return dst
}

// wrapDelta maps a coordinate delta into [-span/2, span/2).
func wrapDelta(d, span float32) float32 {
	half := span * 0.5
	for d >= half {
		d -= span
	}
	for d < -half {
		d += span
	}
	return d
}
