package explorer

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depscope/pkg/graph"
	"github.com/matzehuels/depscope/pkg/interact"
	"github.com/matzehuels/depscope/pkg/physics"
	"github.com/matzehuels/depscope/pkg/scene"
	"github.com/matzehuels/depscope/pkg/sim"
	"github.com/matzehuels/depscope/pkg/viewport"
)

// Subscription is a registered listener.
type Subscription interface {
	Remove()
}

// Host drives the explorer: it runs frame callbacks and delivers input.
// All callbacks run on the host's single event loop.
type Host interface {
	sim.Scheduler
	OnPointer(fn func(interact.PointerEvent)) Subscription
	OnWheel(fn func(interact.WheelEvent)) Subscription
	OnResize(fn func(width, height int)) Subscription
}

// Resizer is implemented by surfaces with a size of their own.
type Resizer interface {
	Resize(width, height int)
}

// NodeInfo is the display data passed to node callbacks.
type NodeInfo struct {
	ID         string
	Name       string
	Version    string
	Repository string
	Reason     string
	Role       graph.Role
	Installed  bool
	Depth      int
}

// Config configures an Explorer. Width and Height size the surface in
// screen units.
type Config struct {
	Width  int
	Height int

	OnNodeClick       func(NodeInfo)
	OnNodeDoubleClick func(NodeInfo)
	// OnHover receives the node under the pointer, or ok=false.
	OnHover func(info NodeInfo, ok bool)

	Driver      sim.Options
	Camera      viewport.Options
	Interaction interact.Options
	// Margin is how far outside the viewport items stay visible.
	Margin float64

	Logger *log.Logger
}

// DefaultConfig returns a w×h configuration with default physics, camera
// and interaction settings.
func DefaultConfig(w, h int) Config {
	return Config{
		Width:       w,
		Height:      h,
		Driver:      sim.DefaultOptions(),
		Camera:      viewport.DefaultOptions(),
		Interaction: interact.DefaultOptions(),
		Margin:      2,
	}
}

type instance struct {
	tree  *graph.Tree
	nodes map[string]graph.Node
	drv   *sim.Driver
	cam   *viewport.Camera
	ctl   *interact.Controller
	sync  *scene.Synchronizer
	subs  []Subscription
	unsub func()
}

func (in *instance) teardown() {
	in.drv.Stop()
	for _, s := range in.subs {
		s.Remove()
	}
	in.subs = nil
	in.unsub()
}

// Explorer shows one graph at a time on a Surface.
type Explorer struct {
	host   Host
	surf   scene.Surface
	cfg    Config
	logger *log.Logger

	inst    *instance
	dropped int
}

// New returns an explorer with no graph.
func New(host Host, surf scene.Surface, cfg Config) *Explorer {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Explorer{host: host, surf: surf, cfg: cfg, logger: logger}
}

// SetGraph replaces the current graph with t.
func (e *Explorer) SetGraph(t *graph.Tree) {
	var (
		prev     map[string]physics.Point
		camState *viewport.State
		oldRoot  string
	)
	if old := e.inst; old != nil {
		if st := old.drv.State(); st != nil {
			prev = st.Positions()
		}
		s := old.cam.State
		camState = &s
		oldRoot = old.tree.Root
		old.teardown()
		e.inst = nil
	}

	in := &instance{tree: t, nodes: make(map[string]graph.Node, len(t.Nodes))}
	ids := make([]string, 0, len(t.Nodes))
	for _, n := range t.Nodes {
		if _, dup := in.nodes[n.ID]; dup {
			continue
		}
		in.nodes[n.ID] = n
		ids = append(ids, n.ID)
	}
	links := make([]physics.Link, 0, len(t.Edges))
	for _, ed := range t.Edges {
		links = append(links, physics.Link{Source: ed.Source, Target: ed.Target, Optional: ed.IsOptional()})
	}

	in.cam = viewport.New(float64(e.cfg.Width), float64(e.cfg.Height), e.cfg.Camera)
	if camState != nil {
		in.cam.State = *camState
	}
	in.drv = sim.NewDriver(e.host, e.cfg.Driver, e.logger)
	in.sync = scene.New(in.cam, e.surf, e.cfg.Margin)
	e.dropped = in.sync.Build(t)
	in.ctl = interact.New(in.cam, in.drv, e.cfg.Interaction, interact.Handlers{
		OnClick:       e.fire(in, e.cfg.OnNodeClick),
		OnDoubleClick: e.fire(in, e.cfg.OnNodeDoubleClick),
		OnHover: func(id string) {
			if r, ok := e.surf.(interface{ SetHighlight(string) }); ok {
				r.SetHighlight(id)
			}
			if e.cfg.OnHover != nil {
				info, ok := in.info(id)
				e.cfg.OnHover(info, ok)
			}
		},
		OnView: func() { in.sync.Sync(in.drv.State()) },
		Clickable: func(id string) bool {
			return in.nodes[id].Installed
		},
	})
	in.unsub = in.drv.Subscribe(func(st *physics.State) { in.sync.Sync(st) })

	in.drv.Load(sim.Input{IDs: ids, Links: links, Root: t.Root, Previous: prev})
	if camState == nil || t.Root != oldRoot {
		x, y := e.focus(in)
		in.cam.Reset(x, y)
		in.sync.Sync(in.drv.State())
	}

	in.subs = []Subscription{
		e.host.OnPointer(in.ctl.Pointer),
		e.host.OnWheel(in.ctl.Wheel),
		e.host.OnResize(func(w, h int) { e.resize(in, w, h) }),
	}
	e.inst = in
	e.logger.Debug("graph replaced", "instance", in.drv.Instance(), "root", t.Root,
		"nodes", len(ids), "edges", in.sync.Edges(), "dropped_edges", e.dropped)
}

func (e *Explorer) fire(in *instance, fn func(NodeInfo)) func(string) {
	return func(id string) {
		if fn == nil {
			return
		}
		if info, ok := in.info(id); ok {
			fn(info)
		}
	}
}

func (in *instance) info(id string) (NodeInfo, bool) {
	n, ok := in.nodes[id]
	if !ok {
		return NodeInfo{}, false
	}
	return NodeInfo{
		ID:         n.ID,
		Name:       n.DisplayLabel(),
		Version:    n.Version,
		Repository: n.Repository,
		Reason:     n.Reason,
		Role:       graph.DeriveRole(n, in.tree.Root),
		Installed:  n.Installed,
		Depth:      n.Depth,
	}, true
}

// focus is the root position, or the center of mass without a root.
func (e *Explorer) focus(in *instance) (float64, float64) {
	if x, y, ok := in.drv.Position(in.tree.Root); ok {
		return x, y
	}
	if st := in.drv.State(); st != nil {
		c := st.CenterOfMass()
		return c.X, c.Y
	}
	return 0, 0
}

func (e *Explorer) resize(in *instance, w, h int) {
	e.cfg.Width, e.cfg.Height = w, h
	in.cam.Resize(float64(w), float64(h))
	if r, ok := e.surf.(Resizer); ok {
		r.Resize(w, h)
	}
	in.sync.Resized(in.drv.State())
}

// ResetView recenters the camera on the root at scale 1.
func (e *Explorer) ResetView() {
	if e.inst == nil {
		return
	}
	x, y := e.focus(e.inst)
	e.inst.cam.Reset(x, y)
	e.inst.sync.Sync(e.inst.drv.State())
}

// Fit zooms so that the whole layout is visible with padding.
func (e *Explorer) Fit(padding float64) {
	if e.inst == nil || e.inst.drv.State() == nil {
		return
	}
	lo, hi, ok := e.inst.drv.State().Bounds()
	if !ok {
		return
	}
	e.inst.cam.Fit(lo.X, lo.Y, hi.X, hi.Y, padding)
	e.inst.sync.Sync(e.inst.drv.State())
}

// UnpinAll releases every user-placed node.
func (e *Explorer) UnpinAll() int {
	if e.inst == nil {
		return 0
	}
	return e.inst.drv.UnpinAll()
}

// Teardown stops the current instance and removes all listeners.
func (e *Explorer) Teardown() {
	if e.inst == nil {
		return
	}
	e.inst.teardown()
	e.inst = nil
}

// Tree returns the current graph, or nil.
func (e *Explorer) Tree() *graph.Tree {
	if e.inst == nil {
		return nil
	}
	return e.inst.tree
}

// Info returns display data for a node of the current graph.
func (e *Explorer) Info(id string) (NodeInfo, bool) {
	if e.inst == nil {
		return NodeInfo{}, false
	}
	return e.inst.info(id)
}

// Driver returns the current layout driver, or nil.
func (e *Explorer) Driver() *sim.Driver {
	if e.inst == nil {
		return nil
	}
	return e.inst.drv
}

// Camera returns the current camera, or nil.
func (e *Explorer) Camera() *viewport.Camera {
	if e.inst == nil {
		return nil
	}
	return e.inst.cam
}

// Controller returns the current interaction controller, or nil.
func (e *Explorer) Controller() *interact.Controller {
	if e.inst == nil {
		return nil
	}
	return e.inst.ctl
}

// DroppedEdges returns how many edges of the current graph were not drawn.
func (e *Explorer) DroppedEdges() int { return e.dropped }
