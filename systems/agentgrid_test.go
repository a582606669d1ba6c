package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/broth/components"
)

func TestAgentGridQueryRadius(t *testing.T) {
	g := NewAgentGrid(-1, 2, 0.15, false)
	agents := []components.Agent{
		{Energy: 1, Pos: components.Vec2{X: 0, Y: 0}},
		{Energy: 1, Pos: components.Vec2{X: 0.05, Y: 0}},
		{Energy: 1, Pos: components.Vec2{X: 0.5, Y: 0.5}},
		{Energy: 0, Pos: components.Vec2{X: 0.01, Y: 0}}, // dead, never indexed
	}
	g.Rebuild(agents)

	got := g.QueryRadiusInto(nil, agents, 0, 0, 0.1)

	found := map[int32]bool{}
	for _, nb := range got {
		found[nb.Index] = true
	}
	if !found[0] || !found[1] {
		t.Errorf("query missed close agents, got %v", found)
	}
	if found[2] {
		t.Error("query returned an agent outside the radius")
	}
	if found[3] {
		t.Error("query returned a dead agent")
	}
}

func TestAgentGridWrapAwareDeltas(t *testing.T) {
	g := NewAgentGrid(-1, 2, 0.15, true)
	agents := []components.Agent{
		{Energy: 1, Pos: components.Vec2{X: 0.99, Y: 0}},
	}
	g.Rebuild(agents)

	// Query from the opposite edge; the wrapped distance is ~0.03.
	got := g.QueryRadiusInto(nil, agents, -0.98, 0, 0.1)
	if len(got) != 1 {
		t.Fatalf("wrapped query found %d agents, want 1", len(got))
	}
	if d := math.Sqrt(float64(got[0].DistSq)); d > 0.05 {
		t.Errorf("wrapped distance = %v, want ~0.03", d)
	}
	if got[0].DX >= 0 {
		t.Errorf("wrapped DX = %v, want negative (agent just across the west edge)", got[0].DX)
	}
}

func TestAgentGridNoWrapEdges(t *testing.T) {
	g := NewAgentGrid(-1, 2, 0.15, false)
	agents := []components.Agent{
		{Energy: 1, Pos: components.Vec2{X: 0.99, Y: 0}},
	}
	g.Rebuild(agents)

	if got := g.QueryRadiusInto(nil, agents, -0.98, 0, 0.1); len(got) != 0 {
		t.Errorf("clamped world query across the edge found %d agents, want 0", len(got))
	}
}

func TestAgentGridRebuildClears(t *testing.T) {
	g := NewAgentGrid(-1, 2, 0.15, false)
	agents := []components.Agent{
		{Energy: 1, Pos: components.Vec2{X: 0, Y: 0}},
	}
	g.Rebuild(agents)

	agents[0].Energy = 0
	g.Rebuild(agents)

	if got := g.QueryRadiusInto(nil, agents, 0, 0, 0.1); len(got) != 0 {
		t.Errorf("stale entries after rebuild: %d", len(got))
	}
}

func TestWrapDelta(t *testing.T) {
	tests := []struct {
		d, want float32
	}{
		{1.9, -0.1},
		{-1.9, 0.1},
		{0.3, 0.3},
		{1.0, -1.0},
	}
	for _, tt := range tests {
		if got := wrapDelta(tt.d, 2); math.Abs(float64(got-tt.want)) > 1e-6 {
			t.Errorf("wrapDelta(%v, 2) = %v, want %v", tt.d, got, tt.want)
		}
	}
}
