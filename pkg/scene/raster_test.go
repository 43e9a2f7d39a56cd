package scene

import (
	"strings"
	"testing"

	"github.com/matzehuels/depscope/pkg/graph"
	"github.com/matzehuels/depscope/pkg/physics"
	"github.com/matzehuels/depscope/pkg/viewport"
)

func rasterFor(t *testing.T, tree *graph.Tree, pos map[string]physics.Point) (*Raster, *Synchronizer, *physics.State) {
	t.Helper()
	r := NewRaster(20, 6)
	s := New(viewport.New(20, 6, viewport.DefaultOptions()), r, 0)
	s.Build(tree)
	st := state(t, pos)
	s.Sync(st)
	return r, s, st
}

func row(r *Raster, y int) string {
	return strings.Split(r.Plain(), "\n")[y]
}

func twoNodes(optional bool) *graph.Tree {
	typ := graph.EdgeDepends
	if optional {
		typ = graph.EdgeOptDepends
	}
	return &graph.Tree{
		Root: "a",
		Nodes: []graph.Node{
			{ID: "a", Installed: true},
			{ID: "b", Installed: true, Reason: graph.ReasonDependency},
		},
		Edges: []graph.Edge{
			{Source: "a", Target: "b", Type: typ},
			{Source: "a", Target: "ghost"},
		},
	}
}

func TestRasterDrawsNodesAndEdges(t *testing.T) {
	r, _, _ := rasterFor(t, twoNodes(false), map[string]physics.Point{"a": {X: -8}, "b": {X: 8}})

	if got, want := row(r, 3), "  ◉─a─────────────• "; got != want {
		t.Errorf("row 3 = %q, want %q", got, want)
	}
	for _, y := range []int{0, 1, 2, 4, 5} {
		if strings.TrimSpace(row(r, y)) != "" {
			t.Errorf("row %d = %q, want blank", y, row(r, y))
		}
	}
}

func TestRasterDashesOptionalEdges(t *testing.T) {
	r, _, _ := rasterFor(t, twoNodes(true), map[string]physics.Point{"a": {X: -8}, "b": {X: 8}})

	if got, want := row(r, 3), "  ◉ a ─ ─ ─ ─ ─ ─ • "; got != want {
		t.Errorf("row 3 = %q, want %q", got, want)
	}
}

func TestRasterLabels(t *testing.T) {
	r, _, _ := rasterFor(t, twoNodes(false), map[string]physics.Point{"a": {X: -8}, "b": {X: 2}})

	r.SetHighlight("b")
	if !strings.Contains(row(r, 3), "• b") {
		t.Errorf("highlighted label missing: %q", row(r, 3))
	}
	r.SetHighlight("")
	r.SetShowLabels(true)
	if !strings.Contains(row(r, 3), "• b") {
		t.Errorf("label missing with labels on: %q", row(r, 3))
	}
}

func TestRasterCullsAndCaches(t *testing.T) {
	r, s, st := rasterFor(t, twoNodes(false), map[string]physics.Point{"a": {X: -8}, "b": {X: 8}})

	first := r.View()
	if r.View() != first {
		t.Error("View changed without updates")
	}

	st.Set("b", 500, 0)
	s.Sync(st)
	if strings.ContainsRune(r.Plain(), '•') {
		t.Errorf("off-screen node drawn:\n%s", r.Plain())
	}
	if r.View() == first {
		t.Error("View not refreshed after update")
	}
}

func TestClip(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 float64
		ok             bool
		cx1, cx2       float64
	}{
		{"inside", 1, 1, 5, 1, true, 1, 5},
		{"crosses right", 5, 2, 15, 2, true, 5, 10},
		{"crosses both", -10, 2, 30, 2, true, 0, 10},
		{"outside", -10, -5, -2, -5, false, 0, 0},
	}
	for _, tt := range tests {
		cx1, _, cx2, _, ok := clip(tt.x1, tt.y1, tt.x2, tt.y2, 10, 4)
		if ok != tt.ok || (ok && (cx1 != tt.cx1 || cx2 != tt.cx2)) {
			t.Errorf("%s: clip = (%v, %v, %v), want (%v, %v, %v)", tt.name, cx1, cx2, ok, tt.cx1, tt.cx2, tt.ok)
		}
	}
}

func TestBresenham(t *testing.T) {
	pts := bresenham(0, 0, 4, 2)
	if len(pts) != 5 {
		t.Fatalf("len = %d, want 5: %v", len(pts), pts)
	}
	if pts[0].X != 0 || pts[4].X != 4 || pts[4].Y != 2 {
		t.Errorf("endpoints = %v, %v", pts[0], pts[4])
	}
}
