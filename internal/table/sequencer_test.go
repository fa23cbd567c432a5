package table

import (
	"sync"
	"testing"
	"time"
)

func TestSequencerCancelStopsPendingSteps(t *testing.T) {
	s := newSequencer()

	var mu sync.Mutex
	var fired []string
	record := func(name string) func() {
		return func() {
			mu.Lock()
			fired = append(fired, name)
			mu.Unlock()
		}
	}

	s.run(false, []step{
		{delay: 50 * time.Millisecond, fn: record("first")},
		{delay: 50 * time.Millisecond, fn: record("second")},
	})
	s.cancel()
	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(fired) != 0 {
		t.Fatalf("fired = %v, want no steps after cancel", fired)
	}
}

// A step can be mid-flight when its round is cancelled and a new round
// started. The finished step must not reschedule the rest of the old chain
// on top of the new one.
func TestSequencerRestartAbandonsCancelledChain(t *testing.T) {
	s := newSequencer()

	var mu sync.Mutex
	var fired []string
	record := func(name string) func() {
		return func() {
			mu.Lock()
			fired = append(fired, name)
			mu.Unlock()
		}
	}

	started := make(chan struct{})
	release := make(chan struct{})
	s.run(false, []step{
		{delay: time.Millisecond, fn: func() {
			close(started)
			<-release
		}},
		{delay: time.Millisecond, fn: record("stale")},
	})

	<-started
	s.cancel()
	s.run(false, []step{
		{delay: time.Millisecond, fn: record("fresh")},
	})
	close(release)

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(fired)
		mu.Unlock()
		if n > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("replacement step never ran")
		}
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(fired) != 1 || fired[0] != "fresh" {
		t.Fatalf("fired = %v, want only the replacement step", fired)
	}
}
