package nodelink

import (
	"github.com/matzehuels/depscope/pkg/graph"
	"github.com/matzehuels/depscope/pkg/physics"
)

// Layout is the JSON export of a settled layout.
type Layout struct {
	Root      string       `json:"root"`
	Iteration int          `json:"iteration"`
	Energy    float64      `json:"energy"`
	Bounds    [4]float64   `json:"bounds"` // min x, min y, max x, max y
	Nodes     []PlacedNode `json:"nodes"`
	Edges     []PlacedEdge `json:"edges"`
}

// PlacedNode is a node with its layout position.
type PlacedNode struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Version string     `json:"version,omitempty"`
	Role    graph.Role `json:"role"`
	X       float64    `json:"x"`
	Y       float64    `json:"y"`
	Pinned  string     `json:"pinned,omitempty"`
}

// PlacedEdge is an edge between two placed nodes.
type PlacedEdge struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Optional bool   `json:"optional,omitempty"`
}

// Positions collects the placed nodes and drawable edges of t.
func Positions(t *graph.Tree, st *physics.State) Layout {
	out := Layout{Root: t.Root, Iteration: st.Iteration, Energy: st.Energy()}
	if lo, hi, ok := st.Bounds(); ok {
		out.Bounds = [4]float64{lo.X, lo.Y, hi.X, hi.Y}
	}

	placed := make(map[string]bool, len(t.Nodes))
	for _, n := range t.Nodes {
		b, ok := st.Body(n.ID)
		if !ok || placed[n.ID] {
			continue
		}
		placed[n.ID] = true
		pn := PlacedNode{
			ID:      n.ID,
			Name:    n.DisplayLabel(),
			Version: n.Version,
			Role:    graph.DeriveRole(n, t.Root),
			X:       b.X,
			Y:       b.Y,
		}
		if b.Pinned() {
			pn.Pinned = b.Pin.String()
		}
		out.Nodes = append(out.Nodes, pn)
	}
	for _, e := range t.Edges {
		if placed[e.Source] && placed[e.Target] && e.Source != e.Target {
			out.Edges = append(out.Edges, PlacedEdge{Source: e.Source, Target: e.Target, Optional: e.IsOptional()})
		}
	}
	return out
}
