package sim

import (
	"fmt"
	"math"
	"testing"

	"github.com/matzehuels/depscope/pkg/physics"
)

const frameLimit = 5000

func starInput(n int) Input {
	in := Input{Root: "root", IDs: []string{"root"}}
	for i := range n {
		id := fmt.Sprintf("dep%d", i)
		in.IDs = append(in.IDs, id)
		in.Links = append(in.Links, physics.Link{Source: "root", Target: id, Optional: i%4 == 0})
	}
	return in
}

func newTestDriver(opts Options) (*Driver, *ManualScheduler) {
	sched := NewManualScheduler()
	return NewDriver(sched, opts, nil), sched
}

func TestDriverSettles(t *testing.T) {
	d, sched := newTestDriver(DefaultOptions())
	if d.Status() != Idle {
		t.Fatalf("Status() = %v, want idle", d.Status())
	}

	d.Load(starInput(12))
	if d.Status() != Running {
		t.Fatalf("Status() after Load = %v, want running", d.Status())
	}
	if sched.Pending() != 1 {
		t.Fatalf("Pending() = %d, want exactly one outstanding frame", sched.Pending())
	}

	sched.Run(frameLimit)
	if d.Status() != Settled {
		t.Fatalf("Status() = %v after %d frames, want settled", d.Status(), frameLimit)
	}
	if sched.Pending() != 0 {
		t.Errorf("Pending() = %d after settling, want 0", sched.Pending())
	}
	if d.State().MeanEnergy() >= DefaultOptions().EnergyThreshold {
		t.Errorf("MeanEnergy() = %g, want below threshold", d.State().MeanEnergy())
	}
}

func TestDriverSettleHysteresis(t *testing.T) {
	opts := DefaultOptions()
	d, sched := newTestDriver(opts)
	d.Load(Input{IDs: []string{"only"}, Root: "only"})

	// A lone root at the center never moves, so every frame is calm.
	for i := 1; i < opts.SettleTicks; i++ {
		sched.Frame()
		if d.Status() != Running {
			t.Fatalf("settled after %d calm frames, want %d", i, opts.SettleTicks)
		}
	}
	sched.Frame()
	if d.Status() != Settled {
		t.Errorf("Status() = %v after %d calm frames, want settled", d.Status(), opts.SettleTicks)
	}
}

func TestDriverMaxTicks(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxTicks = 5
	d, sched := newTestDriver(opts)
	d.Load(starInput(8))

	n := sched.Run(frameLimit)
	if n != 5 || d.Status() != Settled {
		t.Errorf("ran %d frames, status %v; want 5 and settled", n, d.Status())
	}
}

func TestLoadReusesPositionsAndCancelsFrame(t *testing.T) {
	d, sched := newTestDriver(DefaultOptions())
	d.Load(starInput(5))
	sched.Run(frameLimit)
	before := d.State().Positions()

	// Replace while settled, then again while a frame is outstanding.
	next := starInput(6)
	d.Load(next)
	d.Load(next)
	if sched.Pending() != 1 {
		t.Fatalf("Pending() = %d after replacement, want 1", sched.Pending())
	}
	for id, p := range before {
		x, y, ok := d.Position(id)
		if !ok || x != p.X || y != p.Y {
			t.Errorf("%s at (%v, %v), want reused (%v, %v)", id, x, y, p.X, p.Y)
		}
	}

	// The new node is placed one link length or less from the root.
	rx, ry, _ := d.Position("root")
	nx, ny, _ := d.Position("dep5")
	if dist := math.Hypot(nx-rx, ny-ry); dist > DefaultOptions().Params.LinkDistance+1e-9 {
		t.Errorf("new node %v from its neighbour, want <= link distance", dist)
	}
}

func TestLoadDropsPins(t *testing.T) {
	d, sched := newTestDriver(DefaultOptions())
	d.Load(starInput(3))
	d.Pin("dep0", physics.PinUser, 100, 100)
	sched.Frame()

	d.Load(starInput(3))
	b, _ := d.State().Body("dep0")
	if b.Pinned() {
		t.Errorf("pin = %v after reload, want none", b.Pin)
	}
	if b.X != 100 || b.Y != 100 {
		t.Errorf("position = (%v, %v), want carried over (100, 100)", b.X, b.Y)
	}
}

func TestIgnoresUnresolvedLinks(t *testing.T) {
	d, _ := newTestDriver(DefaultOptions())
	in := starInput(2)
	in.Links = append(in.Links,
		physics.Link{Source: "root", Target: "ghost"},
		physics.Link{Source: "ghost", Target: "dep0"},
		physics.Link{Source: "dep1", Target: "dep1"},
	)
	d.Load(in)
	if got := len(d.State().Links()); got != 2 {
		t.Errorf("resolved links = %d, want 2", got)
	}
	if d.State().Len() != 3 {
		t.Errorf("bodies = %d, want 3 (no body for ghost)", d.State().Len())
	}
}

func TestStopCancelsAndIsTerminal(t *testing.T) {
	d, sched := newTestDriver(DefaultOptions())
	calls := 0
	d.Subscribe(func(*physics.State) { calls++ })
	d.Load(starInput(4))
	calls = 0

	d.Stop()
	if sched.Frame() {
		t.Error("a frame ran after Stop")
	}
	if calls != 0 {
		t.Errorf("subscriber called %d times after Stop", calls)
	}
	if d.Status() != Stopped || d.State() != nil {
		t.Errorf("Status() = %v, State() = %v; want stopped and released", d.Status(), d.State())
	}

	d.Load(starInput(4))
	d.Resume()
	if sched.Pending() != 0 || d.Status() != Stopped {
		t.Error("Load or Resume revived a stopped driver")
	}
	d.Stop()
}

func TestPinResumesSettledDriver(t *testing.T) {
	d, sched := newTestDriver(DefaultOptions())
	d.Load(starInput(6))
	sched.Run(frameLimit)
	if d.Status() != Settled {
		t.Fatal("driver did not settle")
	}

	if !d.Pin("dep2", physics.PinDrag, 250, -75) {
		t.Fatal("Pin() = false")
	}
	if d.Status() != Running || sched.Pending() != 1 {
		t.Fatalf("Status() = %v, Pending() = %d; want running with one frame", d.Status(), sched.Pending())
	}

	sched.Run(frameLimit)
	x, y, _ := d.Position("dep2")
	if x != 250 || y != -75 {
		t.Errorf("pinned body at (%v, %v), want (250, -75)", x, y)
	}
	if d.Status() != Settled {
		t.Errorf("Status() = %v, want settled again", d.Status())
	}
}

func TestAtMostOneDragPin(t *testing.T) {
	d, _ := newTestDriver(DefaultOptions())
	d.Load(starInput(3))
	d.Pin("dep0", physics.PinDrag, 1, 1)
	d.Pin("dep1", physics.PinDrag, 2, 2)

	drags := 0
	for _, b := range d.Bodies() {
		if b.Pin == physics.PinDrag {
			drags++
		}
	}
	if drags != 1 {
		t.Errorf("drag pins = %d, want 1", drags)
	}
	b, _ := d.State().Body("dep0")
	if b.Pin != physics.PinUser {
		t.Errorf("demoted pin = %v, want user", b.Pin)
	}
}

func TestAnchorRoot(t *testing.T) {
	opts := DefaultOptions()
	opts.AnchorRoot = true
	d, sched := newTestDriver(opts)
	d.Load(starInput(5))
	sched.Run(frameLimit)

	b, _ := d.State().Body("root")
	if b.Pin != physics.PinAnchor || b.X != 0 || b.Y != 0 {
		t.Errorf("root = %+v, want anchored at origin", b)
	}
	if d.Unpin("root") {
		t.Error("Unpin(anchor) = true, want false")
	}
	if d.UnpinAll() != 0 {
		t.Error("UnpinAll() released an anchor")
	}
}

func TestUnpin(t *testing.T) {
	d, _ := newTestDriver(DefaultOptions())
	d.Load(starInput(3))
	d.Pin("dep0", physics.PinUser, 5, 5)
	d.Pin("dep1", physics.PinUser, 6, 6)

	if !d.Unpin("dep0") {
		t.Error("Unpin(dep0) = false")
	}
	if d.Unpin("dep0") {
		t.Error("second Unpin(dep0) = true")
	}
	if n := d.UnpinAll(); n != 1 {
		t.Errorf("UnpinAll() = %d, want 1", n)
	}
}

func TestSubscribe(t *testing.T) {
	d, sched := newTestDriver(DefaultOptions())
	calls := 0
	unsubscribe := d.Subscribe(func(s *physics.State) {
		if s == nil {
			t.Error("published nil state")
		}
		calls++
	})

	d.Load(starInput(2))
	if calls != 1 {
		t.Errorf("calls after Load = %d, want 1", calls)
	}
	sched.Frame()
	if calls != 2 {
		t.Errorf("calls after one frame = %d, want 2", calls)
	}
	unsubscribe()
	sched.Frame()
	if calls != 2 {
		t.Errorf("calls after unsubscribe = %d, want 2", calls)
	}
}

func TestDeterministicPlacement(t *testing.T) {
	run := func() map[string]physics.Point {
		d, sched := newTestDriver(DefaultOptions())
		d.Load(starInput(15))
		sched.Run(50)
		return d.State().Positions()
	}
	a, b := run(), run()
	for id, p := range a {
		if b[id] != p {
			t.Errorf("%s: %v vs %v, want identical runs", id, p, b[id])
		}
	}
}
