package interact

import (
	"fmt"
	"math"
	"time"

	"github.com/matzehuels/depscope/pkg/observability"
	"github.com/matzehuels/depscope/pkg/physics"
	"github.com/matzehuels/depscope/pkg/viewport"
)

// Kind is the phase of a pointer event.
type Kind int

const (
	Down Kind = iota
	Move
	Up
)

// Button identifies the pointer button of a Down or Up event.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

// PointerEvent is a pointer sample in screen coordinates. A zero Time is
// replaced by the wall clock.
type PointerEvent struct {
	Kind   Kind
	X, Y   float64
	Button Button
	Time   time.Time
}

// WheelEvent zooms by Delta (a fraction of the current scale) around
// (X, Y).
type WheelEvent struct {
	X, Y  float64
	Delta float64
}

// ReleasePolicy decides what happens to a dragged node on release.
type ReleasePolicy int

const (
	// KeepPinned leaves the node pinned where it was dropped.
	KeepPinned ReleasePolicy = iota
	// Float releases the node back into the force field.
	Float
)

func (p ReleasePolicy) String() string {
	if p == Float {
		return "float"
	}
	return "keep"
}

// ParseReleasePolicy accepts "keep" and "float".
func ParseReleasePolicy(s string) (ReleasePolicy, bool) {
	switch s {
	case "", "keep":
		return KeepPinned, true
	case "float":
		return Float, true
	}
	return KeepPinned, false
}

func (p ReleasePolicy) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *ReleasePolicy) UnmarshalText(b []byte) error {
	v, ok := ParseReleasePolicy(string(b))
	if !ok {
		return fmt.Errorf("unknown release policy %q (want keep or float)", b)
	}
	*p = v
	return nil
}

// State is the gesture state.
type State int

const (
	Idle State = iota
	Pressed
	Dragging
	Panning
)

func (s State) String() string {
	switch s {
	case Pressed:
		return "pressed"
	case Dragging:
		return "dragging"
	case Panning:
		return "panning"
	}
	return "idle"
}

// Options tunes gesture recognition. Distances are in screen units.
type Options struct {
	DragThreshold       float64       `toml:"drag_threshold" yaml:"drag_threshold" validate:"gte=0"`
	DoubleClickWindow   time.Duration `toml:"double_click_window" yaml:"double_click_window" validate:"gt=0"`
	DoubleClickDistance float64       `toml:"double_click_distance" yaml:"double_click_distance" validate:"gte=0"`
	HitRadius           float64       `toml:"hit_radius" yaml:"hit_radius" validate:"gt=0"`
	ReleasePolicy       ReleasePolicy `toml:"release" yaml:"release"`
}

// DefaultOptions returns thresholds suited to a mouse on a pixel display.
func DefaultOptions() Options {
	return Options{
		DragThreshold:       4,
		DoubleClickWindow:   400 * time.Millisecond,
		DoubleClickDistance: 6,
		HitRadius:           8,
		ReleasePolicy:       KeepPinned,
	}
}

// Driver is the part of the layout driver the controller needs.
type Driver interface {
	Bodies() []*physics.Body
	Pin(id string, kind physics.PinKind, x, y float64) bool
	Unpin(id string) bool
}

// Handlers receive recognized gestures. Any field may be nil.
type Handlers struct {
	// OnClick fires for a click on a node that Clickable accepts.
	OnClick func(id string)
	// OnDoubleClick fires for every node.
	OnDoubleClick func(id string)
	// OnHover fires when the node under an idle pointer changes; id is
	// empty when the pointer leaves all nodes.
	OnHover func(id string)
	// OnView fires after the camera was panned or zoomed.
	OnView func()
	// Clickable filters OnClick. Nil accepts every node.
	Clickable func(id string) bool
}

type tap struct {
	id   string
	x, y float64
	at   time.Time
}

// Controller recognizes gestures for one graph instance.
type Controller struct {
	cam  *viewport.Camera
	drv  Driver
	opts Options
	h    Handlers

	state    State
	target   string
	pressX   float64
	pressY   float64
	lastX    float64
	lastY    float64
	pressed  time.Time
	last     tap
	suppress bool
	hover    string
}

// New returns an idle controller.
func New(cam *viewport.Camera, drv Driver, opts Options, h Handlers) *Controller {
	return &Controller{cam: cam, drv: drv, opts: opts, h: h}
}

// State returns the current gesture state.
func (c *Controller) State() State { return c.state }

// Target returns the node being pressed or dragged, if any.
func (c *Controller) Target() string { return c.target }

// Hover returns the node under the idle pointer, if any.
func (c *Controller) Hover() string { return c.hover }

// HitTest returns the node nearest to (sx, sy) within HitRadius.
func (c *Controller) HitTest(sx, sy float64) (string, bool) {
	best, bestD := "", math.Inf(1)
	for _, b := range c.drv.Bodies() {
		x, y := c.cam.ToScreen(b.X, b.Y)
		if d := math.Hypot(x-sx, y-sy); d <= c.opts.HitRadius && d < bestD {
			best, bestD = b.ID, d
		}
	}
	return best, best != ""
}

// Pointer feeds one pointer event through the state machine.
func (c *Controller) Pointer(ev PointerEvent) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	switch ev.Kind {
	case Down:
		c.down(ev)
	case Move:
		c.move(ev)
	case Up:
		c.up(ev)
	}
}

// Wheel zooms around the pointer.
func (c *Controller) Wheel(ev WheelEvent) {
	if !c.cam.ZoomAt(ev.X, ev.Y, ev.Delta) {
		return
	}
	observability.Interaction().OnZoom(c.cam.Scale)
	c.view()
}

// Cancel abandons the gesture in progress without firing callbacks. A
// node being dragged is released according to the release policy.
func (c *Controller) Cancel() {
	if c.state == Dragging {
		c.release(c.lastX, c.lastY)
	}
	c.state = Idle
	c.target = ""
	c.suppress = false
	c.last = tap{}
}

func (c *Controller) down(ev PointerEvent) {
	id, hit := c.HitTest(ev.X, ev.Y)
	if ev.Button == ButtonRight {
		if hit {
			c.drv.Unpin(id)
		}
		return
	}
	if ev.Button != ButtonLeft && ev.Button != ButtonNone {
		return
	}
	if c.state != Idle {
		c.Cancel()
	}

	c.state = Pressed
	c.target = id
	c.pressX, c.pressY = ev.X, ev.Y
	c.lastX, c.lastY = ev.X, ev.Y
	c.pressed = ev.Time
	c.suppress = false

	if hit && c.last.id == id &&
		ev.Time.Sub(c.last.at) <= c.opts.DoubleClickWindow &&
		math.Hypot(ev.X-c.last.x, ev.Y-c.last.y) <= c.opts.DoubleClickDistance {
		c.suppress = true
		c.last = tap{}
		observability.Interaction().OnDoubleClick(id)
		if c.h.OnDoubleClick != nil {
			c.h.OnDoubleClick(id)
		}
	}
}

func (c *Controller) move(ev PointerEvent) {
	switch c.state {
	case Idle:
		id, _ := c.HitTest(ev.X, ev.Y)
		if id != c.hover {
			c.hover = id
			if c.h.OnHover != nil {
				c.h.OnHover(id)
			}
		}
	case Pressed:
		if math.Hypot(ev.X-c.pressX, ev.Y-c.pressY) <= c.opts.DragThreshold {
			return
		}
		c.last = tap{}
		if c.target != "" {
			c.state = Dragging
			c.drag(ev.X, ev.Y)
		} else {
			c.state = Panning
			c.pan(ev.X, ev.Y)
		}
	case Dragging:
		c.drag(ev.X, ev.Y)
	case Panning:
		c.pan(ev.X, ev.Y)
	}
}

func (c *Controller) up(ev PointerEvent) {
	if ev.Button == ButtonRight {
		return
	}
	switch c.state {
	case Pressed:
		if c.target != "" && !c.suppress {
			c.last = tap{id: c.target, x: c.pressX, y: c.pressY, at: c.pressed}
			if c.h.Clickable == nil || c.h.Clickable(c.target) {
				observability.Interaction().OnClick(c.target)
				if c.h.OnClick != nil {
					c.h.OnClick(c.target)
				}
			}
		}
	case Dragging:
		c.drag(ev.X, ev.Y)
		c.release(ev.X, ev.Y)
		observability.Interaction().OnDragEnd(c.target, ev.Time.Sub(c.pressed))
	}
	c.state = Idle
	c.target = ""
	c.suppress = false
}

// drag pins the target under the pointer. Anchored nodes stay anchored.
func (c *Controller) drag(sx, sy float64) {
	c.lastX, c.lastY = sx, sy
	gx, gy := c.cam.ToGraph(sx, sy)
	c.drv.Pin(c.target, c.pinKind(physics.PinDrag), gx, gy)
}

func (c *Controller) release(sx, sy float64) {
	if c.pinKind(physics.PinNone) == physics.PinAnchor {
		return
	}
	if c.opts.ReleasePolicy == Float {
		c.drv.Unpin(c.target)
		return
	}
	gx, gy := c.cam.ToGraph(sx, sy)
	c.drv.Pin(c.target, physics.PinUser, gx, gy)
}

func (c *Controller) pinKind(fallback physics.PinKind) physics.PinKind {
	for _, b := range c.drv.Bodies() {
		if b.ID == c.target && b.Pin == physics.PinAnchor {
			return physics.PinAnchor
		}
	}
	return fallback
}

func (c *Controller) pan(sx, sy float64) {
	c.cam.PanBy(sx-c.lastX, sy-c.lastY)
	c.lastX, c.lastY = sx, sy
	c.view()
}

func (c *Controller) view() {
	if c.h.OnView != nil {
		c.h.OnView()
	}
}
