package table

import (
	"fmt"
	"time"

	"github.com/maxbet-labs/casino-sim-go/internal/games"
)

const reelStopDelay = 500 * time.Millisecond

// Slots drives the three-reel slot machine: one stake, reels stop one at a
// time, settle on the final reel.
type Slots struct {
	core
	rules games.SlotsRules
	src   games.FloatSource
	reels []games.Symbol
}

// NewSlots creates a slots table.
func NewSlots(opts Options) *Slots {
	return &Slots{core: newCore("slots", opts)}
}

func (t *Slots) Game() string { return t.game }

// PlaceBet stakes the spin. A new bet replaces the previous one.
func (t *Slots) PlaceBet(b games.Bet) error {
	t.mu.Lock()
	if err := t.requirePhase(PhaseBetting); err != nil {
		t.mu.Unlock()
		return err
	}
	if err := t.rules.Validate(b); err != nil {
		t.mu.Unlock()
		return err
	}
	if err := t.ledger.PlaceSingle(b); err != nil {
		t.mu.Unlock()
		return err
	}
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)
	return nil
}

// ClearBets refunds the pending stake.
func (t *Slots) ClearBets() error {
	t.mu.Lock()
	if err := t.requirePhase(PhaseBetting); err != nil {
		t.mu.Unlock()
		return err
	}
	t.ledger.Clear()
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)
	return nil
}

// Start spins the reels. Each reel stops as its own scheduled step, drawing
// from the round's float stream as it lands; the last step settles.
func (t *Slots) Start() error {
	t.mu.Lock()
	if err := t.requirePhase(PhaseBetting); err != nil {
		t.mu.Unlock()
		return err
	}
	if t.ledger.TotalWager() == 0 {
		t.mu.Unlock()
		return ErrNoBets
	}
	t.src = t.source.NextRound()
	t.reels = nil
	t.phase = PhaseSpinning
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)

	t.seq.run(t.instant, []step{
		{reelStopDelay, t.stopReel},
		{reelStopDelay, t.stopReel},
		{reelStopDelay, t.stopReel},
		{0, t.settleSpin},
	})
	return nil
}

// stopReel commits one reel symbol.
func (t *Slots) stopReel() {
	t.mu.Lock()
	if t.phase != PhaseSpinning || len(t.reels) >= 3 {
		t.mu.Unlock()
		return
	}
	t.reels = append(t.reels, games.DrawSymbol(t.src))
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)
}

func (t *Slots) settleSpin() {
	t.mu.Lock()
	if t.phase != PhaseSpinning || len(t.reels) != 3 {
		t.mu.Unlock()
		return
	}

	o := games.Outcome{Reels: t.reels}
	var text string
	if won := pendingWinnings(t.ledger, t.rules, o); won > 0 {
		if t.reels[0] == t.reels[1] && t.reels[1] == t.reels[2] {
			text = fmt.Sprintf("JACKPOT! Three %ss! Won %d!", t.reels[0], won)
		} else {
			text = fmt.Sprintf("Nice! Won %d!", won)
		}
	} else {
		text = "Better luck next time!"
	}
	t.settle(t.rules, o, text)

	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)
}

// Act is not used by slots; the reels resolve on their own.
func (t *Slots) Act(action string) error {
	return fmt.Errorf("%w: %q", ErrUnknownAction, action)
}

// ResetRound discards the reels and unsettled bets, keeping the balance.
func (t *Slots) ResetRound() {
	t.seq.cancel()
	t.mu.Lock()
	t.src = nil
	t.reels = nil
	t.clearRound()
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)
}

// ResetBalance restores the starting bankroll.
func (t *Slots) ResetBalance() int64 {
	return t.resetBalance()
}

// Snapshot returns the current observable state.
func (t *Slots) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Slots) snapshotLocked() Snapshot {
	s := t.baseSnapshot()
	s.Reels = append([]games.Symbol(nil), t.reels...)
	return s
}

// Close cancels any scheduled steps.
func (t *Slots) Close() {
	t.seq.cancel()
}
