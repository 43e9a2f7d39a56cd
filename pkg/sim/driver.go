package sim

import (
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/depscope/pkg/observability"
	"github.com/matzehuels/depscope/pkg/physics"
)

// Status is the driver lifecycle state.
type Status int

const (
	Idle Status = iota
	Running
	Settled
	Stopped
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Settled:
		return "settled"
	case Stopped:
		return "stopped"
	default:
		return "idle"
	}
}

// Options configures a Driver.
type Options struct {
	Params physics.Params `toml:"physics" yaml:"physics"`

	// EnergyThreshold is the mean kinetic energy per node below which a
	// frame counts as calm.
	EnergyThreshold float64 `toml:"energy_threshold" yaml:"energy_threshold" validate:"gt=0"`

	// SettleTicks is the number of consecutive calm frames needed to settle.
	SettleTicks int `toml:"settle_ticks" yaml:"settle_ticks" validate:"gte=1"`

	// MaxTicks caps the frames run after each wake-up; 0 means unbounded.
	MaxTicks int `toml:"max_ticks" yaml:"max_ticks" validate:"gte=0"`

	// Seed makes placement and jitter reproducible.
	Seed uint64 `toml:"seed" yaml:"seed"`

	// AnchorRoot pins the root at the layout center.
	AnchorRoot bool `toml:"anchor_root" yaml:"anchor_root"`
}

// DefaultOptions returns the driver defaults.
func DefaultOptions() Options {
	return Options{
		Params:          physics.DefaultParams(),
		EnergyThreshold: 0.01,
		SettleTicks:     10,
		Seed:            1,
	}
}

// Input is one graph to simulate.
type Input struct {
	IDs   []string
	Links []physics.Link
	Root  string

	// Previous supplies positions for IDs carried over from an earlier
	// instance.
	Previous map[string]physics.Point
}

// Driver advances one physics state frame by frame.
type Driver struct {
	opts   Options
	sched  Scheduler
	logger *log.Logger

	instance string
	state    *physics.State
	root     string
	status   Status
	frame    FrameHandle

	calm  int
	awake int
	woke  time.Time

	listeners map[int]func(*physics.State)
	nextID    int
}

// NewDriver returns an idle driver. A nil logger discards output.
func NewDriver(sched Scheduler, opts Options, logger *log.Logger) *Driver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Driver{
		opts:      opts,
		sched:     sched,
		logger:    logger,
		instance:  uuid.NewString(),
		listeners: make(map[int]func(*physics.State)),
	}
}

// Instance identifies the driver in logs and metrics.
func (d *Driver) Instance() string { return d.instance }

// Status returns the lifecycle state.
func (d *Driver) Status() Status { return d.status }

// State returns the current physics state, nil before Load or after Stop.
func (d *Driver) State() *physics.State { return d.state }

// Root returns the root ID of the loaded graph.
func (d *Driver) Root() string { return d.root }

// Ticks returns the number of physics steps applied to the current state.
func (d *Driver) Ticks() int {
	if d.state == nil {
		return 0
	}
	return d.state.Iteration
}

// Load discards the current state and starts simulating in. Positions of
// IDs present in the old state or in in.Previous are kept; new IDs are
// placed next to an already placed neighbour, the root at the center, the
// rest at seeded random points. Drag and user pins do not survive.
func (d *Driver) Load(in Input) {
	if d.status == Stopped {
		return
	}
	d.cancelFrame()

	prev := make(map[string]physics.Point, len(in.Previous))
	for id, p := range in.Previous {
		prev[id] = p
	}
	if d.state != nil {
		for id, p := range d.state.Positions() {
			prev[id] = p
		}
	}

	seed := d.opts.Seed
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	st := physics.NewState(d.opts.Params, int64(seed))
	place(st, in, prev, rng)

	dropped := 0
	for _, l := range in.Links {
		if !st.AddLink(l) {
			dropped++
		}
	}
	if d.opts.AnchorRoot {
		if b, ok := st.Body(in.Root); ok {
			b.Pin = physics.PinAnchor
			st.Set(in.Root, st.Center.X, st.Center.Y)
		}
	}

	d.state = st
	d.root = in.Root
	observability.Simulation().OnLoad(d.instance, st.Len(), len(st.Links()))
	d.logger.Debug("layout loaded", "instance", d.instance, "nodes", st.Len(),
		"links", len(st.Links()), "ignored", dropped, "reused", len(prev))

	d.wake()
	d.publish()
}

// Subscribe registers fn to receive the state after every frame and load.
// The returned function removes it.
func (d *Driver) Subscribe(fn func(*physics.State)) (unsubscribe func()) {
	id := d.nextID
	d.nextID++
	d.listeners[id] = fn
	return func() { delete(d.listeners, id) }
}

// Resume reheats the simulation and returns it to Running. It is a no-op
// while idle or stopped.
func (d *Driver) Resume() {
	switch d.status {
	case Running:
		d.state.Reheat(d.opts.Params.ReheatAlpha)
		d.calm = 0
	case Settled:
		d.state.Reheat(d.opts.Params.ReheatAlpha)
		d.wake()
	}
}

// Pin holds a body at (x, y) and resumes the simulation. Pinning with
// PinDrag demotes any other drag pin to PinUser so that at most one body
// is held by a drag.
func (d *Driver) Pin(id string, kind physics.PinKind, x, y float64) bool {
	if d.state == nil {
		return false
	}
	b, ok := d.state.Body(id)
	if !ok || !d.state.Set(id, x, y) {
		return false
	}
	if kind == physics.PinDrag {
		for _, o := range d.state.Bodies() {
			if o != b && o.Pin == physics.PinDrag {
				o.Pin = physics.PinUser
			}
		}
	}
	b.Pin = kind
	d.Resume()
	return true
}

// Unpin releases a drag or user pin. Anchors stay.
func (d *Driver) Unpin(id string) bool {
	if d.state == nil {
		return false
	}
	b, ok := d.state.Body(id)
	if !ok || b.Pin == physics.PinNone || b.Pin == physics.PinAnchor {
		return false
	}
	b.Pin = physics.PinNone
	d.Resume()
	return true
}

// UnpinAll releases every drag and user pin and returns how many were
// released.
func (d *Driver) UnpinAll() int {
	if d.state == nil {
		return 0
	}
	n := 0
	for _, b := range d.state.Bodies() {
		if b.Pin == physics.PinDrag || b.Pin == physics.PinUser {
			b.Pin = physics.PinNone
			n++
		}
	}
	if n > 0 {
		d.Resume()
	}
	return n
}

// Bodies returns the current bodies, or nil.
func (d *Driver) Bodies() []*physics.Body {
	if d.state == nil {
		return nil
	}
	return d.state.Bodies()
}

// Position returns the graph-space position of a body.
func (d *Driver) Position(id string) (x, y float64, ok bool) {
	if d.state == nil {
		return 0, 0, false
	}
	b, ok := d.state.Body(id)
	if !ok {
		return 0, 0, false
	}
	return b.X, b.Y, true
}

// Stop cancels the outstanding frame, drops all subscribers and releases
// the state. A stopped driver ignores every further call.
func (d *Driver) Stop() {
	if d.status == Stopped {
		return
	}
	d.cancelFrame()
	d.status = Stopped
	d.state = nil
	clear(d.listeners)
	observability.Simulation().OnStop(d.instance)
	d.logger.Debug("layout stopped", "instance", d.instance)
}

func (d *Driver) wake() {
	d.status = Running
	d.calm = 0
	d.awake = 0
	d.woke = time.Now()
	d.schedule()
}

func (d *Driver) schedule() {
	if d.frame != nil || d.status != Running {
		return
	}
	d.frame = d.sched.RequestFrame(d.tick)
}

func (d *Driver) cancelFrame() {
	if d.frame != nil {
		d.frame.Cancel()
		d.frame = nil
	}
}

func (d *Driver) tick() {
	d.frame = nil
	if d.status != Running || d.state == nil {
		return
	}

	energy := d.state.Step()
	d.awake++
	if d.state.MeanEnergy() < d.opts.EnergyThreshold {
		d.calm++
	} else {
		d.calm = 0
	}
	observability.Simulation().OnTick(d.instance, d.state.Iteration, energy)
	d.publish()

	if d.calm >= d.opts.SettleTicks || (d.opts.MaxTicks > 0 && d.awake >= d.opts.MaxTicks) {
		d.status = Settled
		elapsed := time.Since(d.woke)
		observability.Simulation().OnSettle(d.instance, d.awake, energy, elapsed)
		d.logger.Debug("layout settled", "instance", d.instance, "ticks", d.awake,
			"energy", energy, "elapsed", elapsed.Round(time.Millisecond))
		return
	}
	d.schedule()
}

func (d *Driver) publish() {
	for _, fn := range d.listeners {
		fn(d.state)
	}
}
