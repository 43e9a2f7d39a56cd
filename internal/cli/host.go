package cli

import (
	"context"
	"maps"
	"slices"

	"github.com/matzehuels/depscope/pkg/explorer"
	"github.com/matzehuels/depscope/pkg/interact"
	"github.com/matzehuels/depscope/pkg/sim"
)

// =============================================================================
// Listener Registry
// =============================================================================

type removeFunc func()

func (f removeFunc) Remove() { f() }

// listeners calls registered functions in registration order.
type listeners[T any] struct {
	next int
	fns  map[int]func(T)
}

func (l *listeners[T]) add(fn func(T)) explorer.Subscription {
	if l.fns == nil {
		l.fns = make(map[int]func(T))
	}
	id := l.next
	l.next++
	l.fns[id] = fn
	return removeFunc(func() { delete(l.fns, id) })
}

func (l *listeners[T]) emit(v T) {
	for _, id := range slices.Sorted(maps.Keys(l.fns)) {
		if fn, ok := l.fns[id]; ok {
			fn(v)
		}
	}
}

func (l *listeners[T]) len() int { return len(l.fns) }

// =============================================================================
// Host
// =============================================================================

type size struct{ w, h int }

// host implements explorer.Host on top of a queue of frame callbacks.
// Bubble Tea drains the queue on every frame message; headless commands
// drain it directly.
type host struct {
	*sim.ManualScheduler

	pointer listeners[interact.PointerEvent]
	wheel   listeners[interact.WheelEvent]
	resize  listeners[size]
}

func newHost() *host {
	return &host{ManualScheduler: sim.NewManualScheduler()}
}

func (h *host) OnPointer(fn func(interact.PointerEvent)) explorer.Subscription {
	return h.pointer.add(fn)
}

func (h *host) OnWheel(fn func(interact.WheelEvent)) explorer.Subscription {
	return h.wheel.add(fn)
}

func (h *host) OnResize(fn func(w, h int)) explorer.Subscription {
	return h.resize.add(func(s size) { fn(s.w, s.h) })
}

// listening returns the number of registered input listeners.
func (h *host) listening() int {
	return h.pointer.len() + h.wheel.len() + h.resize.len()
}

// drain runs frames until none are pending, limit frames have run or ctx
// is done, and returns the number of frames run.
func (h *host) drain(ctx context.Context, limit int) (int, error) {
	n := 0
	for n < limit && h.Pending() > 0 {
		if n%64 == 0 {
			if err := ctx.Err(); err != nil {
				return n, err
			}
		}
		h.Frame()
		n++
	}
	return n, nil
}
