package browserui

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/wesen/neograph/pkg/forcesim"
)

// frameMsg asks the model to run the queued simulation frames.
type frameMsg struct{}

// frameScheduler runs simulation frames from the tea event loop. Callbacks
// queue up between frames; at most one frame tick is in flight.
type frameScheduler struct {
	*forcesim.ManualScheduler
	interval time.Duration
	inFlight bool
}

func newFrameScheduler(interval time.Duration) *frameScheduler {
	if interval <= 0 {
		interval = time.Second / 30
	}
	return &frameScheduler{ManualScheduler: forcesim.NewManualScheduler(), interval: interval}
}

// cmd returns the next frame tick, or nil when nothing is queued or a tick
// is already pending.
func (s *frameScheduler) cmd() tea.Cmd {
	if s.inFlight || s.Pending() == 0 {
		return nil
	}
	s.inFlight = true
	return tea.Tick(s.interval, func(time.Time) tea.Msg { return frameMsg{} })
}

// frame runs the queued callbacks.
func (s *frameScheduler) frame() int {
	s.inFlight = false
	return s.Flush()
}
