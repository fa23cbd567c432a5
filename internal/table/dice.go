package table

import (
	"fmt"
	"time"

	"github.com/maxbet-labs/casino-sim-go/internal/games"
)

const rollDelay = 1500 * time.Millisecond

// Dice drives the two-die total game: one over/under/exact bet, one roll.
type Dice struct {
	core
	rules games.DiceRules
	src   games.FloatSource
	dice  *[2]int
}

// NewDice creates a dice table.
func NewDice(opts Options) *Dice {
	return &Dice{core: newCore("dice", opts)}
}

func (t *Dice) Game() string { return t.game }

// PlaceBet stakes the round. A new bet replaces the previous one.
func (t *Dice) PlaceBet(b games.Bet) error {
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

// ClearBets refunds the pending bet.
func (t *Dice) ClearBets() error {
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

// Start rolls the dice; the pair lands after the roll animation step.
func (t *Dice) Start() error {
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
	t.dice = nil
	t.phase = PhaseRolling
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)

	t.seq.run(t.instant, []step{{rollDelay, t.settleRoll}})
	return nil
}

func (t *Dice) settleRoll() {
	t.mu.Lock()
	if t.phase != PhaseRolling {
		t.mu.Unlock()
		return
	}

	o := t.rules.Roll(t.src)
	dice := o.Dice
	t.dice = &dice
	total := dice[0] + dice[1]

	var text string
	if won := pendingWinnings(t.ledger, t.rules, o); won > 0 {
		text = fmt.Sprintf("Winner! Rolled %d. Won %d!", total, won)
	} else {
		text = fmt.Sprintf("Lost! Rolled %d. Lost %d.", total, t.ledger.TotalWager())
	}
	t.settle(t.rules, o, text)

	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)
}

// Act is not used by dice; the roll resolves on its own.
func (t *Dice) Act(action string) error {
	return fmt.Errorf("%w: %q", ErrUnknownAction, action)
}

// ResetRound discards the dice and unsettled bets, keeping the balance.
func (t *Dice) ResetRound() {
	t.seq.cancel()
	t.mu.Lock()
	t.src = nil
	t.dice = nil
	t.clearRound()
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)
}

// ResetBalance restores the starting bankroll.
func (t *Dice) ResetBalance() int64 {
	return t.resetBalance()
}

// Snapshot returns the current observable state.
func (t *Dice) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Dice) snapshotLocked() Snapshot {
	s := t.baseSnapshot()
	s.Dice = t.dice
	return s
}

// Close cancels any scheduled steps.
func (t *Dice) Close() {
	t.seq.cancel()
}
