package sim

// FrameHandle cancels a requested frame. Cancel is idempotent and safe to
// call after the frame has run.
type FrameHandle interface {
	Cancel()
}

// Scheduler runs callbacks on the next animation frame of a
// single-threaded event loop.
type Scheduler interface {
	RequestFrame(fn func()) FrameHandle
}

// ManualScheduler queues frames until the caller advances it. It is used
// by tests and by headless settling.
type ManualScheduler struct {
	next    uint64
	pending map[uint64]func()
	order   []uint64
	ran     int
}

// NewManualScheduler returns an empty scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{pending: make(map[uint64]func())}
}

type manualHandle struct {
	m  *ManualScheduler
	id uint64
}

func (h manualHandle) Cancel() { delete(h.m.pending, h.id) }

// RequestFrame queues fn for the next call to Frame.
func (m *ManualScheduler) RequestFrame(fn func()) FrameHandle {
	m.next++
	m.pending[m.next] = fn
	m.order = append(m.order, m.next)
	return manualHandle{m: m, id: m.next}
}

// Pending returns the number of queued, uncancelled frames.
func (m *ManualScheduler) Pending() int { return len(m.pending) }

// Ran returns the total number of callbacks executed.
func (m *ManualScheduler) Ran() int { return m.ran }

// Frame runs every callback queued before the call, in request order.
// Callbacks requested while running wait for the next Frame. It reports
// whether anything ran.
func (m *ManualScheduler) Frame() bool {
	batch := m.order
	m.order = nil
	did := false
	for _, id := range batch {
		fn, ok := m.pending[id]
		if !ok {
			continue
		}
		delete(m.pending, id)
		m.ran++
		did = true
		fn()
	}
	return did
}

// Run advances frames until nothing is pending or limit frames have run,
// and returns the number of frames advanced.
func (m *ManualScheduler) Run(limit int) int {
	n := 0
	for n < limit && m.Pending() > 0 {
		m.Frame()
		n++
	}
	return n
}
