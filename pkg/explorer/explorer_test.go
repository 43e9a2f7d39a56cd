package explorer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/depscope/pkg/graph"
	"github.com/matzehuels/depscope/pkg/interact"
	"github.com/matzehuels/depscope/pkg/scene"
	"github.com/matzehuels/depscope/pkg/sim"
)

type fakeHost struct {
	*sim.ManualScheduler
	next    int
	pointer map[int]func(interact.PointerEvent)
	wheel   map[int]func(interact.WheelEvent)
	resize  map[int]func(int, int)
}

type removeFunc func()

func (f removeFunc) Remove() { f() }

func newFakeHost() *fakeHost {
	return &fakeHost{
		ManualScheduler: sim.NewManualScheduler(),
		pointer:         map[int]func(interact.PointerEvent){},
		wheel:           map[int]func(interact.WheelEvent){},
		resize:          map[int]func(int, int){},
	}
}

func (h *fakeHost) OnPointer(fn func(interact.PointerEvent)) Subscription {
	id := h.next
	h.next++
	h.pointer[id] = fn
	return removeFunc(func() { delete(h.pointer, id) })
}

func (h *fakeHost) OnWheel(fn func(interact.WheelEvent)) Subscription {
	id := h.next
	h.next++
	h.wheel[id] = fn
	return removeFunc(func() { delete(h.wheel, id) })
}

func (h *fakeHost) OnResize(fn func(int, int)) Subscription {
	id := h.next
	h.next++
	h.resize[id] = fn
	return removeFunc(func() { delete(h.resize, id) })
}

func (h *fakeHost) listeners() int { return len(h.pointer) + len(h.wheel) + len(h.resize) }

func (h *fakeHost) emit(ev interact.PointerEvent) {
	for _, fn := range h.pointer {
		fn(ev)
	}
}

func (h *fakeHost) tap(x, y float64, at time.Time) {
	h.emit(interact.PointerEvent{Kind: interact.Down, X: x, Y: y, Button: interact.ButtonLeft, Time: at})
	h.emit(interact.PointerEvent{Kind: interact.Up, X: x, Y: y, Button: interact.ButtonLeft, Time: at.Add(20 * time.Millisecond)})
}

func (h *fakeHost) doResize(w, hgt int) {
	for _, fn := range h.resize {
		fn(w, hgt)
	}
}

func pacman() *graph.Tree {
	return &graph.Tree{
		Root: "pacman",
		Nodes: []graph.Node{
			{ID: "pacman", Name: "pacman", Version: "6.1.0-3", Installed: true, Reason: graph.ReasonExplicit},
			{ID: "glibc", Name: "glibc", Version: "2.40-1", Installed: true, Reason: graph.ReasonDependency, Repository: "core", Depth: 1},
			{ID: "perl-locale", Name: "perl-locale", Version: "1.0-1", Depth: 1},
		},
		Edges: []graph.Edge{
			{Source: "pacman", Target: "glibc", Type: graph.EdgeDepends},
			{Source: "pacman", Target: "perl-locale", Type: graph.EdgeOptDepends},
			{Source: "glibc", Target: "missing"},
		},
	}
}

func bash() *graph.Tree {
	return &graph.Tree{
		Root: "bash",
		Nodes: []graph.Node{
			{ID: "bash", Name: "bash", Version: "5.2-1", Installed: true},
			{ID: "glibc", Name: "glibc", Version: "2.40-1", Installed: true},
			{ID: "readline", Name: "readline", Version: "8.2-1", Installed: true},
		},
		Edges: []graph.Edge{
			{Source: "bash", Target: "glibc"},
			{Source: "bash", Target: "readline"},
			{Source: "readline", Target: "glibc"},
		},
	}
}

type harness struct {
	host    *fakeHost
	raster  *scene.Raster
	ex      *Explorer
	clicks  []NodeInfo
	doubles []NodeInfo
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{host: newFakeHost(), raster: scene.NewRaster(80, 24)}
	cfg := DefaultConfig(80, 24)
	cfg.OnNodeClick = func(n NodeInfo) { h.clicks = append(h.clicks, n) }
	cfg.OnNodeDoubleClick = func(n NodeInfo) { h.doubles = append(h.doubles, n) }
	h.ex = New(h.host, h.raster, cfg)
	return h
}

func (h *harness) screen(t *testing.T, id string) (float64, float64) {
	t.Helper()
	x, y, ok := h.ex.Driver().Position(id)
	require.True(t, ok, "position of %s", id)
	return h.ex.Camera().ToScreen(x, y)
}

func TestReplacementCancelsOldSimulation(t *testing.T) {
	h := newHarness(t)
	h.ex.SetGraph(pacman())
	h.host.Run(3)

	old := h.ex.Driver()
	oldState := old.State()
	iter := oldState.Iteration
	before := oldState.Positions()
	require.Equal(t, 1, h.host.Pending())

	h.ex.SetGraph(bash())

	assert.Equal(t, sim.Stopped, old.Status())
	assert.Nil(t, old.State())
	assert.Equal(t, 1, h.host.Pending(), "only the new graph's frame is queued")
	assert.Equal(t, 3, h.host.listeners())

	h.host.Run(50)
	assert.Equal(t, iter, oldState.Iteration, "old state stepped after replacement")
	assert.Equal(t, before, oldState.Positions())
	assert.Greater(t, h.ex.Driver().Ticks(), 0)
}

func TestTeardownRemovesListeners(t *testing.T) {
	h := newHarness(t)
	h.ex.SetGraph(pacman())
	require.Equal(t, 3, h.host.listeners())

	drv := h.ex.Driver()
	h.ex.Teardown()

	assert.Equal(t, 0, h.host.Pending())
	assert.Equal(t, 0, h.host.listeners())
	assert.Equal(t, sim.Stopped, drv.Status())
	assert.Nil(t, h.ex.Tree())
	assert.Nil(t, h.ex.Driver())

	h.ex.Teardown()
	h.ex.ResetView()
	assert.Zero(t, h.ex.UnpinAll())
}

func TestPositionsCarryOver(t *testing.T) {
	h := newHarness(t)
	h.ex.SetGraph(pacman())
	h.host.Run(20)
	gx, gy, ok := h.ex.Driver().Position("glibc")
	require.True(t, ok)

	h.ex.SetGraph(bash())
	x, y, ok := h.ex.Driver().Position("glibc")
	require.True(t, ok)
	assert.Equal(t, gx, x)
	assert.Equal(t, gy, y)
}

func TestClickCallbacks(t *testing.T) {
	h := newHarness(t)
	h.ex.SetGraph(pacman())
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	gx, gy := h.screen(t, "glibc")
	h.host.tap(gx, gy, at)
	require.Len(t, h.clicks, 1)
	assert.Equal(t, NodeInfo{
		ID: "glibc", Name: "glibc", Version: "2.40-1", Repository: "core",
		Reason: graph.ReasonDependency, Role: graph.RoleDependency, Installed: true, Depth: 1,
	}, h.clicks[0])

	px, py := h.screen(t, "perl-locale")
	h.host.tap(px, py, at.Add(time.Second))
	assert.Len(t, h.clicks, 1, "uninstalled nodes are not clickable")

	h.host.tap(px, py, at.Add(time.Second+100*time.Millisecond))
	require.Len(t, h.doubles, 1)
	assert.Equal(t, "perl-locale", h.doubles[0].ID)
	assert.Equal(t, graph.RoleNotInstalled, h.doubles[0].Role)
	assert.Empty(t, h.ex.Controller().Target())
}

func TestCameraAcrossReplacement(t *testing.T) {
	h := newHarness(t)
	h.ex.SetGraph(pacman())
	for _, fn := range h.host.wheel {
		fn(interact.WheelEvent{X: 10, Y: 5, Delta: 1})
	}
	require.Equal(t, 2.0, h.ex.Camera().Scale)
	pan := h.ex.Camera().PanX

	same := pacman()
	same.Nodes = same.Nodes[:2]
	h.ex.SetGraph(same)
	assert.Equal(t, 2.0, h.ex.Camera().Scale, "same root keeps the camera")
	assert.Equal(t, pan, h.ex.Camera().PanX)

	h.ex.SetGraph(bash())
	assert.Equal(t, 1.0, h.ex.Camera().Scale)
	sx, sy := h.screen(t, "bash")
	assert.InDelta(t, 40, sx, 1e-9)
	assert.InDelta(t, 12, sy, 1e-9)
}

func TestResetViewIdempotent(t *testing.T) {
	h := newHarness(t)
	h.ex.SetGraph(pacman())
	h.host.Run(10)
	h.ex.Camera().PanBy(17, -3)
	h.ex.Camera().ZoomAt(5, 5, 0.5)

	h.ex.ResetView()
	once := h.ex.Camera().State
	h.ex.ResetView()
	assert.Equal(t, once, h.ex.Camera().State)

	sx, sy := h.screen(t, "pacman")
	assert.InDelta(t, 40, sx, 1e-9)
	assert.InDelta(t, 12, sy, 1e-9)
}

func TestResizeRecenters(t *testing.T) {
	h := newHarness(t)
	h.ex.SetGraph(pacman())

	h.host.doResize(60, 30)

	assert.Equal(t, 60.0, h.ex.Camera().Width)
	w, hgt := h.raster.Size()
	assert.Equal(t, 60, w)
	assert.Equal(t, 30, hgt)

	rows := strings.Split(h.raster.Plain(), "\n")
	require.Len(t, rows, 30)
	assert.Equal(t, '◉', []rune(rows[15])[30])
}

func TestMalformedEdgeNotDrawn(t *testing.T) {
	h := newHarness(t)
	h.ex.SetGraph(pacman())

	assert.Equal(t, 1, h.ex.DroppedEdges())
	assert.Equal(t, 3, h.ex.Driver().State().Len())
	assert.Len(t, h.ex.Driver().State().Links(), 2)
}

func TestFitShowsEverything(t *testing.T) {
	h := newHarness(t)
	h.ex.SetGraph(bash())
	h.host.Run(5000)
	require.Equal(t, sim.Settled, h.ex.Driver().Status())

	h.ex.Fit(2)
	for _, id := range []string{"bash", "glibc", "readline"} {
		x, y := h.screen(t, id)
		assert.True(t, h.ex.Camera().Visible(x, y, 0), "%s at (%v, %v)", id, x, y)
	}
}
