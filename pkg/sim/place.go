package sim

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/depscope/pkg/physics"
)

// place adds a body for every distinct ID in in.IDs.
//
// Order of precedence: a carried-over position, the center for a new
// root, a point one link length from an already placed neighbour
// (breadth-first from the placed set), and finally a random point in a
// disc that grows with the node count.
func place(st *physics.State, in Input, prev map[string]physics.Point, rng *rand.Rand) {
	want := make(map[string]bool, len(in.IDs))
	for _, id := range in.IDs {
		want[id] = true
	}

	adj := make(map[string][]string)
	for _, l := range in.Links {
		if want[l.Source] && want[l.Target] && l.Source != l.Target {
			adj[l.Source] = append(adj[l.Source], l.Target)
			adj[l.Target] = append(adj[l.Target], l.Source)
		}
	}

	var frontier []string
	for _, id := range in.IDs {
		if p, ok := prev[id]; ok && st.AddBody(id, p.X, p.Y) {
			frontier = append(frontier, id)
		}
	}
	if want[in.Root] {
		if st.AddBody(in.Root, st.Center.X, st.Center.Y) {
			frontier = append(frontier, in.Root)
		}
	}

	dist := st.Params.LinkDistance
	expand := func() {
		for len(frontier) > 0 {
			id := frontier[0]
			frontier = frontier[1:]
			b, _ := st.Body(id)
			for _, n := range adj[id] {
				angle := rng.Float64() * 2 * math.Pi
				r := dist * (0.5 + 0.5*rng.Float64())
				if st.AddBody(n, b.X+r*math.Cos(angle), b.Y+r*math.Sin(angle)) {
					frontier = append(frontier, n)
				}
			}
		}
	}
	expand()

	spread := dist * math.Sqrt(float64(len(want)))
	for _, id := range in.IDs {
		if _, ok := st.Body(id); ok {
			continue
		}
		angle := rng.Float64() * 2 * math.Pi
		r := spread * math.Sqrt(rng.Float64())
		st.AddBody(id, st.Center.X+r*math.Cos(angle), st.Center.Y+r*math.Sin(angle))
		frontier = append(frontier, id)
		expand()
	}
}
