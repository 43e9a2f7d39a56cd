// Package viewport maps between graph space and screen space.
//
// A [Camera] is the only place where scale and pan arithmetic lives. Pan is
// measured from the center of the viewport, so resizing the viewport keeps
// whatever was centered still centered without touching pan:
//
//	screen.X = graph.X·Scale + PanX + Width/2
//	screen.Y = graph.Y·Scale·AspectY + PanY + Height/2
//
// AspectY compensates for non-square pixels such as terminal cells, which
// are roughly twice as tall as they are wide.
//
// [Camera.ZoomAt] keeps the graph point under the pointer fixed on screen,
// and [Camera.Reset] is idempotent: reset twice gives the same state as
// reset once.
package viewport

import "math"

// Options bounds and shapes a camera.
type Options struct {
	MinScale float64 `toml:"min_scale" yaml:"min_scale" validate:"gt=0"`
	MaxScale float64 `toml:"max_scale" yaml:"max_scale" validate:"gtfield=MinScale"`
	AspectY  float64 `toml:"aspect_y" yaml:"aspect_y" validate:"gt=0"`
}

// DefaultOptions returns a camera allowing 0.1x to 4x zoom with square
// pixels.
func DefaultOptions() Options {
	return Options{MinScale: 0.1, MaxScale: 4, AspectY: 1}
}

// State is the camera's value state.
type State struct {
	Scale  float64
	PanX   float64
	PanY   float64
	Width  float64
	Height float64
}

// Camera converts coordinates and applies pan, zoom, resize and reset.
type Camera struct {
	State
	opts Options
}

// New returns a camera at scale 1 with the graph origin centered.
func New(width, height float64, opts Options) *Camera {
	if opts.AspectY <= 0 {
		opts.AspectY = 1
	}
	if opts.MinScale <= 0 || opts.MaxScale < opts.MinScale {
		def := DefaultOptions()
		opts.MinScale, opts.MaxScale = def.MinScale, def.MaxScale
	}
	c := &Camera{opts: opts}
	c.Width, c.Height = width, height
	c.Scale = c.clamp(1)
	return c
}

// Options returns the camera's bounds.
func (c *Camera) Options() Options { return c.opts }

// ToScreen converts a graph-space point to screen space.
func (c *Camera) ToScreen(gx, gy float64) (sx, sy float64) {
	sx = gx*c.Scale + c.PanX + c.Width/2
	sy = gy*c.Scale*c.opts.AspectY + c.PanY + c.Height/2
	return sx, sy
}

// ToGraph converts a screen-space point to graph space.
func (c *Camera) ToGraph(sx, sy float64) (gx, gy float64) {
	gx = (sx - c.Width/2 - c.PanX) / c.Scale
	gy = (sy - c.Height/2 - c.PanY) / (c.Scale * c.opts.AspectY)
	return gx, gy
}

// ZoomAt multiplies the scale by (1+delta), clamped to the bounds, keeping
// the graph point under (sx, sy) where it is on screen. It reports whether
// the scale changed.
func (c *Camera) ZoomAt(sx, sy, delta float64) bool {
	if math.IsNaN(delta) {
		return false
	}
	gx, gy := c.ToGraph(sx, sy)
	next := c.clamp(c.Scale * (1 + delta))
	if next == c.Scale {
		return false
	}
	c.Scale = next
	c.PanX = sx - c.Width/2 - gx*c.Scale
	c.PanY = sy - c.Height/2 - gy*c.Scale*c.opts.AspectY
	return true
}

// PanBy shifts the view by a screen-space delta.
func (c *Camera) PanBy(dx, dy float64) {
	c.PanX += dx
	c.PanY += dy
}

// Resize updates the viewport size. Scale and pan are unchanged.
func (c *Camera) Resize(width, height float64) {
	c.Width, c.Height = width, height
}

// Reset returns to scale 1 (clamped) with the focus point centered.
func (c *Camera) Reset(fx, fy float64) {
	c.Scale = c.clamp(1)
	c.center(fx, fy)
}

// Fit chooses the largest allowed scale at which the box [lo, hi] fits
// inside the viewport with padding on every side, and centers it.
func (c *Camera) Fit(loX, loY, hiX, hiY, padding float64) {
	gw := max(hiX-loX, 1)
	gh := max((hiY-loY)*c.opts.AspectY, 1)
	sx := (c.Width - 2*padding) / gw
	sy := (c.Height - 2*padding) / gh
	s := min(sx, sy)
	if s <= 0 || math.IsNaN(s) {
		s = 1
	}
	c.Scale = c.clamp(s)
	c.center((loX+hiX)/2, (loY+hiY)/2)
}

// Visible reports whether a screen point lies inside the viewport grown
// by margin on every side.
func (c *Camera) Visible(sx, sy, margin float64) bool {
	return sx >= -margin && sy >= -margin && sx <= c.Width+margin && sy <= c.Height+margin
}

func (c *Camera) center(gx, gy float64) {
	c.PanX = -gx * c.Scale
	c.PanY = -gy * c.Scale * c.opts.AspectY
}

func (c *Camera) clamp(s float64) float64 {
	return min(max(s, c.opts.MinScale), c.opts.MaxScale)
}
