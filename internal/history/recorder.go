package history

import (
	"log"
	"os"
	"sync"
	"time"
)

const flushInterval = 2 * time.Second

// Recorder buffers settled rounds and writes them to the database in
// batches. RecordRound is called from inside table settlement, so it must
// never block on I/O; the actual writes happen on a background goroutine.
type Recorder struct {
	mu      sync.Mutex
	db      DB
	logger  *log.Logger
	pending []Round
	done    chan struct{}
	stopped bool
}

// NewRecorder starts a recorder flushing into db.
func NewRecorder(db DB, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.New(os.Stdout, "[HISTORY] ", log.LstdFlags)
	}
	r := &Recorder{
		db:     db,
		logger: logger,
		done:   make(chan struct{}),
	}
	go r.loop()
	return r
}

// RecordRound buffers one settled round.
func (r *Recorder) RecordRound(game string, wager, won int64, result string, balanceAfter int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	r.pending = append(r.pending, Round{
		Game:         game,
		Wager:        wager,
		Won:          won,
		Result:       result,
		BalanceAfter: balanceAfter,
	})
}

func (r *Recorder) loop() {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.Flush()
		}
	}
}

// Flush writes all buffered rounds now.
func (r *Recorder) Flush() {
	r.mu.Lock()
	batch := r.pending
	r.pending = nil
	r.mu.Unlock()

	if len(batch) == 0 {
		return
	}
	if err := r.db.SaveRounds(batch); err != nil {
		r.logger.Printf("failed to save %d rounds: %v", len(batch), err)
	}
}

// Close stops the background loop after a final flush.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.mu.Unlock()

	close(r.done)
	r.Flush()
}
