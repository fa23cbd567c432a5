package table

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/maxbet-labs/casino-sim-go/internal/games"
)

const spinDelay = 3 * time.Second

// Roulette drives a roulette round: any number of inside/outside bets, one
// spin, settle everything against the pocket.
type Roulette struct {
	core
	rules  games.RouletteRules
	src    games.FloatSource
	pocket *int
	color  string
}

// NewRoulette creates a roulette table.
func NewRoulette(opts Options) *Roulette {
	return &Roulette{core: newCore("roulette", opts)}
}

func (t *Roulette) Game() string { return t.game }

// PlaceBet adds a bet to the pending list. Roulette allows many at once.
func (t *Roulette) PlaceBet(b games.Bet) error {
	t.mu.Lock()
	if err := t.requirePhase(PhaseBetting); err != nil {
		t.mu.Unlock()
		return err
	}
	if err := t.rules.Validate(b); err != nil {
		t.mu.Unlock()
		return err
	}
	if err := t.ledger.Place(b); err != nil {
		t.mu.Unlock()
		return err
	}
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)
	return nil
}

// ClearBets refunds all pending bets.
func (t *Roulette) ClearBets() error {
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

// Start spins the wheel. The winning pocket is drawn when the ball settles,
// as the single scheduled step of the round.
func (t *Roulette) Start() error {
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
	t.pocket = nil
	t.color = ""
	t.phase = PhaseSpinning
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)

	t.seq.run(t.instant, []step{{spinDelay, t.settleSpin}})
	return nil
}

func (t *Roulette) settleSpin() {
	t.mu.Lock()
	if t.phase != PhaseSpinning {
		t.mu.Unlock()
		return
	}

	o := t.rules.Spin(t.src)
	pocket := o.Pocket
	t.pocket = &pocket
	t.color = o.Color

	text := t.resultText(o)
	t.settle(t.rules, o, text)
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)
}

// resultText names the pocket and lists the winning bets. Caller holds the
// lock; pending bets are still intact when this runs.
func (t *Roulette) resultText(o games.Outcome) string {
	text := fmt.Sprintf("Number %d (%s)", o.Pocket, strings.ToUpper(o.Color))

	var winners []string
	var total int64
	for _, b := range t.ledger.Pending() {
		mult, ok := t.rules.Payout(b, o)
		if !ok {
			continue
		}
		won := decimal.NewFromInt(b.Amount).Mul(mult).Floor().IntPart()
		total += won
		winners = append(winners, fmt.Sprintf("%s (%d → %d)", b.Kind, b.Amount, won))
	}

	if total > 0 {
		return fmt.Sprintf("%s — won %d! %s", text, total, strings.Join(winners, ", "))
	}
	return fmt.Sprintf("%s — lost %d", text, t.ledger.TotalWager())
}

// Act is not used by roulette; the spin resolves on its own.
func (t *Roulette) Act(action string) error {
	return fmt.Errorf("%w: %q", ErrUnknownAction, action)
}

// ResetRound discards the pocket and unsettled bets, keeping the balance.
func (t *Roulette) ResetRound() {
	t.seq.cancel()
	t.mu.Lock()
	t.src = nil
	t.pocket = nil
	t.color = ""
	t.clearRound()
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)
}

// ResetBalance restores the starting bankroll.
func (t *Roulette) ResetBalance() int64 {
	return t.resetBalance()
}

// Snapshot returns the current observable state.
func (t *Roulette) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Roulette) snapshotLocked() Snapshot {
	s := t.baseSnapshot()
	s.Pocket = t.pocket
	s.Color = t.color
	return s
}

// Close cancels any scheduled steps.
func (t *Roulette) Close() {
	t.seq.cancel()
}
