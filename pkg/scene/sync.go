package scene

import (
	"github.com/matzehuels/depscope/pkg/graph"
	"github.com/matzehuels/depscope/pkg/physics"
	"github.com/matzehuels/depscope/pkg/viewport"
)

type nodeItem struct {
	id      string
	x, y    float64
	visible bool
	placed  bool
}

type edgeItem struct {
	source, target string
	x1, y1, x2, y2 float64
	visible        bool
	placed         bool
}

// Synchronizer pushes layout changes to a Surface.
type Synchronizer struct {
	cam    *viewport.Camera
	surf   Surface
	margin float64

	nodes []*nodeItem
	edges []*edgeItem
	total int
}

// New returns a synchronizer drawing through cam onto surf. Items further
// than margin outside the viewport are hidden.
func New(cam *viewport.Camera, surf Surface, margin float64) *Synchronizer {
	return &Synchronizer{cam: cam, surf: surf, margin: margin}
}

// Build clears the surface and creates one item per distinct node and per
// well-formed edge of t. Self-loops, repeated edges and edges naming a
// missing node are skipped; the number skipped is returned.
func (s *Synchronizer) Build(t *graph.Tree) (dropped int) {
	s.surf.Clear()
	s.nodes = s.nodes[:0]
	s.edges = s.edges[:0]

	idx := t.Index()
	for i, n := range t.Nodes {
		if idx[n.ID] != i {
			continue
		}
		s.surf.AddNode(n, graph.DeriveRole(n, t.Root))
		s.nodes = append(s.nodes, &nodeItem{id: n.ID})
	}

	type pair struct{ a, b string }
	seen := make(map[pair]bool, len(t.Edges))
	for _, e := range t.Edges {
		_, okS := idx[e.Source]
		_, okT := idx[e.Target]
		p := pair{e.Source, e.Target}
		if !okS || !okT || e.Source == e.Target || seen[p] {
			dropped++
			continue
		}
		seen[p] = true
		s.surf.AddEdge(len(s.edges), e)
		s.edges = append(s.edges, &edgeItem{source: e.Source, target: e.Target})
	}
	return dropped
}

// Nodes returns the number of node items.
func (s *Synchronizer) Nodes() int { return len(s.nodes) }

// Edges returns the number of edge items.
func (s *Synchronizer) Edges() int { return len(s.edges) }

// Updates returns the number of surface calls made by all syncs so far.
func (s *Synchronizer) Updates() int { return s.total }

// Sync pushes the positions in st through the camera. It returns the
// number of surface calls made. Nodes without a body are hidden.
func (s *Synchronizer) Sync(st *physics.State) int {
	if st == nil {
		return 0
	}
	n := 0
	for _, it := range s.nodes {
		var x, y float64
		vis := false
		if b, ok := st.Body(it.id); ok {
			x, y = s.cam.ToScreen(b.X, b.Y)
			vis = s.cam.Visible(x, y, s.margin)
		}
		if !it.placed || x != it.x || y != it.y {
			s.surf.MoveNode(it.id, x, y)
			it.x, it.y = x, y
			n++
		}
		if !it.placed || vis != it.visible {
			s.surf.SetNodeVisible(it.id, vis)
			it.visible = vis
			n++
		}
		it.placed = true
	}
	for key, it := range s.edges {
		a, okA := st.Body(it.source)
		b, okB := st.Body(it.target)
		var x1, y1, x2, y2 float64
		vis := false
		if okA && okB {
			x1, y1 = s.cam.ToScreen(a.X, a.Y)
			x2, y2 = s.cam.ToScreen(b.X, b.Y)
			vis = s.segmentVisible(x1, y1, x2, y2)
		}
		if !it.placed || x1 != it.x1 || y1 != it.y1 || x2 != it.x2 || y2 != it.y2 {
			s.surf.MoveEdge(key, x1, y1, x2, y2)
			it.x1, it.y1, it.x2, it.y2 = x1, y1, x2, y2
			n++
		}
		if !it.placed || vis != it.visible {
			s.surf.SetEdgeVisible(key, vis)
			it.visible = vis
			n++
		}
		it.placed = true
	}
	s.total += n
	return n
}

// Resized re-sends every item, then syncs. Call it after the camera and
// surface were resized, even when the layout has settled.
func (s *Synchronizer) Resized(st *physics.State) int {
	for _, it := range s.nodes {
		it.placed = false
	}
	for _, it := range s.edges {
		it.placed = false
	}
	return s.Sync(st)
}

// segmentVisible is a bounding-box test against the grown viewport.
func (s *Synchronizer) segmentVisible(x1, y1, x2, y2 float64) bool {
	m := s.margin
	return max(x1, x2) >= -m && min(x1, x2) <= s.cam.Width+m &&
		max(y1, y2) >= -m && min(y1, y2) <= s.cam.Height+m
}
