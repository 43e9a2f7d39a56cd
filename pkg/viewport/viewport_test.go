package viewport

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) <= eps*max(1, math.Abs(a), math.Abs(b))
}

func TestNewCentersOrigin(t *testing.T) {
	c := New(800, 600, DefaultOptions())
	sx, sy := c.ToScreen(0, 0)
	if sx != 400 || sy != 300 {
		t.Errorf("ToScreen(0,0) = (%v, %v), want (400, 300)", sx, sy)
	}
	if c.Scale != 1 {
		t.Errorf("Scale = %v, want 1", c.Scale)
	}
}

func TestToGraphInvertsToScreen(t *testing.T) {
	c := New(120, 40, Options{MinScale: 0.05, MaxScale: 8, AspectY: 0.5})
	c.PanBy(13, -7)
	c.ZoomAt(30, 10, 0.75)

	for _, p := range [][2]float64{{0, 0}, {-50, 20}, {333.3, -0.25}} {
		sx, sy := c.ToScreen(p[0], p[1])
		gx, gy := c.ToGraph(sx, sy)
		if !near(gx, p[0]) || !near(gy, p[1]) {
			t.Errorf("round trip %v = (%v, %v)", p, gx, gy)
		}
	}
}

func TestZoomAtClamps(t *testing.T) {
	c := New(800, 600, DefaultOptions())

	tests := []struct {
		name    string
		delta   float64
		want    float64
		changed bool
	}{
		{"zoom in", 1, 2, true},
		{"zoom in past max", 10, 4, true},
		{"at max", 0.5, 4, false},
		{"zoom out past min", -0.99, 0.1, true},
		{"below -1 clamps", -5, 0.1, false},
		{"nan ignored", math.NaN(), 0.1, false},
	}
	for _, tt := range tests {
		changed := c.ZoomAt(100, 100, tt.delta)
		if !near(c.Scale, tt.want) || changed != tt.changed {
			t.Errorf("%s: Scale = %v changed = %v, want %v %v", tt.name, c.Scale, changed, tt.want, tt.changed)
		}
	}
}

func TestResizeKeepsCenter(t *testing.T) {
	c := New(800, 600, DefaultOptions())
	c.Reset(50, -20)
	c.Resize(400, 200)

	sx, sy := c.ToScreen(50, -20)
	if !near(sx, 200) || !near(sy, 100) {
		t.Errorf("focus at (%v, %v) after resize, want viewport center (200, 100)", sx, sy)
	}
	if c.Scale != 1 {
		t.Errorf("Scale = %v, want unchanged 1", c.Scale)
	}
}

func TestResetCentersFocus(t *testing.T) {
	c := New(100, 50, Options{MinScale: 0.1, MaxScale: 4, AspectY: 0.5})
	c.ZoomAt(10, 10, 2)
	c.PanBy(33, 44)
	c.Reset(-12, 8)

	sx, sy := c.ToScreen(-12, 8)
	if !near(sx, 50) || !near(sy, 25) {
		t.Errorf("focus at (%v, %v), want (50, 25)", sx, sy)
	}
}

func TestResetClampsUnitScale(t *testing.T) {
	c := New(100, 100, Options{MinScale: 2, MaxScale: 3, AspectY: 1})
	c.Reset(0, 0)
	if c.Scale != 2 {
		t.Errorf("Scale = %v, want clamped 2", c.Scale)
	}
}

func TestFit(t *testing.T) {
	c := New(200, 100, DefaultOptions())
	c.Fit(-100, -10, 100, 10, 10)

	if !near(c.Scale, 0.9) {
		t.Errorf("Scale = %v, want 0.9", c.Scale)
	}
	lx, _ := c.ToScreen(-100, 0)
	hx, _ := c.ToScreen(100, 0)
	if !near(lx, 10) || !near(hx, 190) {
		t.Errorf("box spans x [%v, %v], want [10, 190]", lx, hx)
	}

	// A single point falls back to the clamped maximum.
	c.Fit(5, 5, 5, 5, 0)
	if c.Scale != 4 {
		t.Errorf("Scale for a point = %v, want 4", c.Scale)
	}
}

func TestVisible(t *testing.T) {
	c := New(80, 24, DefaultOptions())
	tests := []struct {
		x, y float64
		want bool
	}{
		{0, 0, true},
		{80, 24, true},
		{-2, 10, true},
		{-4, 10, false},
		{40, 27, true},
		{40, 27.5, false},
	}
	for _, tt := range tests {
		if got := c.Visible(tt.x, tt.y, 3); got != tt.want {
			t.Errorf("Visible(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestCameraLaws(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	coord := gen.Float64Range(-2000, 2000)
	opts := Options{MinScale: 0.1, MaxScale: 4, AspectY: 0.5}

	properties.Property("zoom keeps the point under the pointer fixed", prop.ForAll(
		func(px, py, panX, panY, delta float64) bool {
			c := New(640, 480, opts)
			c.PanBy(panX, panY)
			gx, gy := c.ToGraph(px, py)
			c.ZoomAt(px, py, delta)
			gx2, gy2 := c.ToGraph(px, py)
			return math.Abs(gx-gx2) < 1e-6 && math.Abs(gy-gy2) < 1e-6
		},
		coord, coord, coord, coord, gen.Float64Range(-0.95, 3),
	))

	properties.Property("reset is idempotent", prop.ForAll(
		func(fx, fy, panX, panY, delta float64) bool {
			c := New(640, 480, opts)
			c.PanBy(panX, panY)
			c.ZoomAt(10, 20, delta)
			c.Reset(fx, fy)
			once := c.State
			c.Reset(fx, fy)
			return c.State == once
		},
		coord, coord, coord, coord, gen.Float64Range(-0.95, 3),
	))

	properties.Property("resize never changes scale or pan", prop.ForAll(
		func(w, h, delta float64) bool {
			c := New(640, 480, opts)
			c.ZoomAt(100, 100, delta)
			before := c.State
			c.Resize(w, h)
			return c.Scale == before.Scale && c.PanX == before.PanX && c.PanY == before.PanY
		},
		gen.Float64Range(1, 4000), gen.Float64Range(1, 4000), gen.Float64Range(-0.95, 3),
	))

	properties.TestingRun(t)
}
