package physics

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// PinKind records why a body is held in place.
type PinKind uint8

const (
	PinNone   PinKind = iota
	PinDrag           // held by an active pointer drag
	PinUser           // left in place after a drag, until released
	PinAnchor         // fixed by configuration (e.g. the root)
)

func (k PinKind) String() string {
	switch k {
	case PinDrag:
		return "drag"
	case PinUser:
		return "user"
	case PinAnchor:
		return "anchor"
	default:
		return "none"
	}
}

// Point is a position in graph space.
type Point struct{ X, Y float64 }

// Body is one simulated node.
type Body struct {
	ID     string
	X, Y   float64
	VX, VY float64
	Pin    PinKind

	fx, fy float64
}

// Pinned reports whether the integrator leaves b alone.
func (b *Body) Pinned() bool { return b.Pin != PinNone }

// Link is a requested spring between two body IDs.
type Link struct {
	Source, Target string
	Optional       bool
}

type spring struct {
	a, b      int
	stiffness float64
}

// State is the mutable simulation state for one graph instance.
type State struct {
	Params Params

	// Center is the point the centering force pulls toward.
	Center Point

	// Alpha is the current heat, in [0, 1].
	Alpha float64

	// Iteration counts completed steps.
	Iteration int

	bodies  []*Body
	index   map[string]int
	springs []spring
	links   []Link
	energy  float64
	noise   opensimplex.Noise
}

// NewState returns an empty state at full heat. The seed drives the
// coincidence jitter and non-finite recovery.
func NewState(p Params, seed int64) *State {
	return &State{
		Params: p,
		Alpha:  1,
		index:  make(map[string]int),
		noise:  opensimplex.New(seed),
	}
}

// AddBody adds a body at (x, y). It reports false, and changes nothing,
// if id is already present. Non-finite coordinates are replaced by a
// point near Center.
func (s *State) AddBody(id string, x, y float64) bool {
	if _, dup := s.index[id]; dup {
		return false
	}
	b := &Body{ID: id, X: x, Y: y}
	s.index[id] = len(s.bodies)
	s.bodies = append(s.bodies, b)
	if !finite(x) || !finite(y) {
		s.reseed(b)
	}
	return true
}

// AddLink adds a spring between two existing bodies. Links with a missing
// endpoint, self-links and repeats of an existing pair are ignored and
// reported as false.
func (s *State) AddLink(l Link) bool {
	a, okA := s.index[l.Source]
	b, okB := s.index[l.Target]
	if !okA || !okB || a == b {
		return false
	}
	for _, sp := range s.springs {
		if (sp.a == a && sp.b == b) || (sp.a == b && sp.b == a) {
			return false
		}
	}
	k := s.Params.SpringStiffness
	if l.Optional {
		k = s.Params.OptionalStiffness
	}
	s.springs = append(s.springs, spring{a: a, b: b, stiffness: k})
	s.links = append(s.links, l)
	return true
}

// Body returns the body with the given ID.
func (s *State) Body(id string) (*Body, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.bodies[i], true
}

// Bodies returns all bodies in insertion order. The slice is shared.
func (s *State) Bodies() []*Body { return s.bodies }

// Links returns the links that resolved to springs, in insertion order.
func (s *State) Links() []Link { return s.links }

// Len returns the number of bodies.
func (s *State) Len() int { return len(s.bodies) }

// Energy returns the total kinetic energy (Σ v²) after the last step.
func (s *State) Energy() float64 { return s.energy }

// MeanEnergy returns Energy divided by the number of bodies.
func (s *State) MeanEnergy() float64 {
	if len(s.bodies) == 0 {
		return 0
	}
	return s.energy / float64(len(s.bodies))
}

// Reheat raises alpha to at least a.
func (s *State) Reheat(a float64) {
	if a > s.Alpha {
		s.Alpha = min(a, 1)
	}
}

// Cold reports whether alpha has decayed to zero.
func (s *State) Cold() bool { return s.Alpha == 0 }

// Set moves a body and zeroes its velocity. It is how drags and anchors
// override the integrator.
func (s *State) Set(id string, x, y float64) bool {
	b, ok := s.Body(id)
	if !ok || !finite(x) || !finite(y) {
		return false
	}
	b.X, b.Y = x, y
	b.VX, b.VY = 0, 0
	return true
}

// Positions snapshots body positions by ID.
func (s *State) Positions() map[string]Point {
	out := make(map[string]Point, len(s.bodies))
	for _, b := range s.bodies {
		out[b.ID] = Point{b.X, b.Y}
	}
	return out
}

// Bounds returns the bounding box of all bodies. ok is false when empty.
func (s *State) Bounds() (lo, hi Point, ok bool) {
	if len(s.bodies) == 0 {
		return Point{}, Point{}, false
	}
	lo = Point{math.Inf(1), math.Inf(1)}
	hi = Point{math.Inf(-1), math.Inf(-1)}
	for _, b := range s.bodies {
		lo.X, lo.Y = min(lo.X, b.X), min(lo.Y, b.Y)
		hi.X, hi.Y = max(hi.X, b.X), max(hi.Y, b.Y)
	}
	return lo, hi, true
}

// CenterOfMass returns the mean body position, or Center when empty.
func (s *State) CenterOfMass() Point {
	if len(s.bodies) == 0 {
		return s.Center
	}
	var c Point
	for _, b := range s.bodies {
		c.X += b.X
		c.Y += b.Y
	}
	n := float64(len(s.bodies))
	return Point{c.X / n, c.Y / n}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
