package table

import (
	"sync"
	"time"
)

// step is one scheduled unit of a multi-step reveal (a card flip, a reel
// stop, a dealer draw). The delay is measured from the previous step.
type step struct {
	delay time.Duration
	fn    func()
}

// sequencer consumes an explicit list of timed steps one at a time and can
// be cancelled as a unit. It replaces nested timer chains: at most one timer
// is ever armed, and each step function re-reads committed table state under
// the table lock rather than capturing it.
//
// Every run is stamped with a generation and cancel bumps it, so a chain
// caught mid-step by a cancel-then-restart abandons itself at the next
// checkpoint instead of resuming alongside the new chain.
type sequencer struct {
	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

func newSequencer() *sequencer {
	return &sequencer{}
}

// run schedules the steps. In instant mode every step runs synchronously
// with zero delay. Step functions must acquire the table lock themselves.
func (s *sequencer) run(instant bool, steps []step) {
	if instant {
		for _, st := range steps {
			st.fn()
		}
		return
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()
	s.schedule(gen, steps, 0)
}

func (s *sequencer) schedule(gen uint64, steps []step, i int) {
	if i >= len(steps) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	s.timer = time.AfterFunc(steps[i].delay, func() {
		s.mu.Lock()
		stale := s.gen != gen
		s.mu.Unlock()
		if stale {
			return
		}
		steps[i].fn()
		s.schedule(gen, steps, i+1)
	})
}

// cancel stops the sequence. Steps not yet fired never fire; a step already
// running completes (it rechecks the table phase under the table lock) and
// its chain then stops, even if a new run starts before it finishes.
func (s *sequencer) cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
