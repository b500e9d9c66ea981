package forcesim

// Handle identifies a requested tick.
type Handle uint64

// Scheduler runs a callback on the next frame. It replaces the browser's
// animation-frame loop: the TUI implements it with tea.Tick, tests with
// ManualScheduler.
type Scheduler interface {
	RequestTick(fn func()) Handle
	CancelTick(h Handle)
}

// ManualScheduler queues callbacks until Flush is called.
type ManualScheduler struct {
	next    Handle
	pending map[Handle]func()
	order   []Handle
}

// NewManualScheduler creates an empty scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{pending: make(map[Handle]func())}
}

func (m *ManualScheduler) RequestTick(fn func()) Handle {
	m.next++
	m.pending[m.next] = fn
	m.order = append(m.order, m.next)
	return m.next
}

func (m *ManualScheduler) CancelTick(h Handle) {
	delete(m.pending, h)
}

// Pending returns the number of queued callbacks.
func (m *ManualScheduler) Pending() int {
	return len(m.pending)
}

// Flush runs the callbacks queued before the call. Callbacks they request
// wait for the next Flush. It returns the number run.
func (m *ManualScheduler) Flush() int {
	batch := m.order
	m.order = nil
	ran := 0
	for _, h := range batch {
		fn, ok := m.pending[h]
		if !ok {
			continue
		}
		delete(m.pending, h)
		fn()
		ran++
	}
	return ran
}

// RunUntilIdle flushes until nothing is queued or limit rounds ran.
func (m *ManualScheduler) RunUntilIdle(limit int) int {
	rounds := 0
	for rounds < limit && m.Pending() > 0 {
		m.Flush()
		rounds++
	}
	return rounds
}
