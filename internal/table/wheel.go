package table

import (
	"fmt"
	"time"

	"github.com/maxbet-labs/casino-sim-go/internal/games"
)

const wheelSpinDelay = 2 * time.Second

// Wheel drives the prize wheel: one stake, one spin, the landed segment's
// multiplier pays out.
type Wheel struct {
	core
	rules   games.WheelRules
	src     games.FloatSource
	segment *int
	mult    float64
}

// NewWheel creates a wheel table.
func NewWheel(opts Options) *Wheel {
	return &Wheel{core: newCore("wheel", opts)}
}

func (t *Wheel) Game() string { return t.game }

// PlaceBet stakes the spin. A new bet replaces the previous one.
func (t *Wheel) PlaceBet(b games.Bet) error {
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
func (t *Wheel) ClearBets() error {
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

// Start spins the wheel and schedules the landing.
func (t *Wheel) Start() error {
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
	t.segment = nil
	t.mult = 0
	t.phase = PhaseSpinning
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)

	t.seq.run(t.instant, []step{
		{wheelSpinDelay, t.land},
	})
	return nil
}

// land commits the landed segment and settles.
func (t *Wheel) land() {
	t.mu.Lock()
	if t.phase != PhaseSpinning {
		t.mu.Unlock()
		return
	}
	o := t.rules.Spin(t.src)
	seg := o.Segment
	t.segment = &seg
	t.mult = o.Multiplier

	label := games.Segment(seg).Label
	var text string
	if won := pendingWinnings(t.ledger, t.rules, o); won > 0 {
		switch {
		case o.Multiplier >= 50:
			text = fmt.Sprintf("MEGA WIN! Landed on %s! Won %d!", label, won)
		case o.Multiplier >= 10:
			text = fmt.Sprintf("BIG WIN! Landed on %s! Won %d!", label, won)
		default:
			text = fmt.Sprintf("Landed on %s. Won %d!", label, won)
		}
	} else {
		text = fmt.Sprintf("Landed on %s. Better luck next time!", label)
	}
	t.settle(t.rules, o, text)

	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)
}

// Act is not used by the wheel; the spin resolves on its own.
func (t *Wheel) Act(action string) error {
	return fmt.Errorf("%w: %q", ErrUnknownAction, action)
}

// ResetRound discards the spin and unsettled bets, keeping the balance.
func (t *Wheel) ResetRound() {
	t.seq.cancel()
	t.mu.Lock()
	t.src = nil
	t.segment = nil
	t.mult = 0
	t.clearRound()
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)
}

// ResetBalance restores the starting bankroll.
func (t *Wheel) ResetBalance() int64 {
	return t.resetBalance()
}

// Snapshot returns the current observable state.
func (t *Wheel) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Wheel) snapshotLocked() Snapshot {
	s := t.baseSnapshot()
	if t.segment != nil {
		seg := *t.segment
		s.Segment = &seg
		s.Multiplier = t.mult
	}
	return s
}

// Close cancels any scheduled steps.
func (t *Wheel) Close() {
	t.seq.cancel()
}
