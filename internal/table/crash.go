package table

import (
	"context"
	"fmt"
	"time"

	"github.com/maxbet-labs/casino-sim-go/internal/games"
)

const crashTickInterval = 50 * time.Millisecond

// crashRampRate is the multiplier growth per second while the round runs.
const crashRampRate = 0.5

// Crash drives the crash-multiplier game. The crash point is committed from
// the round's float stream before the ramp starts; the live multiplier grows
// linearly with elapsed time until the player cashes out or the point is hit.
type Crash struct {
	core
	rules      games.CrashRules
	crashPoint float64
	startedAt  time.Time
	mult       float64
	cashedOut  bool
	cancelTick context.CancelFunc

	// now is replaceable so tests can pin the ramp clock.
	now func() time.Time
}

// NewCrash creates a crash table.
func NewCrash(opts Options) *Crash {
	return &Crash{
		core: newCore("crash", opts),
		now:  time.Now,
	}
}

func (t *Crash) Game() string { return t.game }

// PlaceBet stakes the round. A new bet replaces the previous one.
func (t *Crash) PlaceBet(b games.Bet) error {
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
func (t *Crash) ClearBets() error {
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

// Start commits the crash point and begins the ramp. In instant mode no
// ticker runs; the round resolves through CashOut or an explicit reset.
func (t *Crash) Start() error {
	t.mu.Lock()
	if err := t.requirePhase(PhaseBetting); err != nil {
		t.mu.Unlock()
		return err
	}
	if t.ledger.TotalWager() == 0 {
		t.mu.Unlock()
		return ErrNoBets
	}
	src := t.source.NextRound()
	t.crashPoint = t.rules.CrashPoint(src)
	t.startedAt = t.now()
	t.mult = 1.0
	t.cashedOut = false
	t.phase = PhaseRunning

	var ctx context.Context
	if !t.instant {
		ctx, t.cancelTick = context.WithCancel(context.Background())
	}
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)

	if ctx != nil {
		go t.tick(ctx)
	}
	return nil
}

// tick advances the live multiplier until cancellation or the crash point.
func (t *Crash) tick(ctx context.Context) {
	ticker := time.NewTicker(crashTickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.mu.Lock()
			if t.phase != PhaseRunning {
				t.mu.Unlock()
				return
			}
			m := t.multiplierAt(t.now())
			if m >= t.crashPoint {
				t.crashLocked()
				snap := t.snapshotLocked()
				t.mu.Unlock()
				t.emit(snap)
				return
			}
			t.mult = m
			snap := t.snapshotLocked()
			t.mu.Unlock()
			t.emit(snap)
		}
	}
}

// CashOut settles the round at the multiplier observed when the request
// acquires the lock. If the ramp has already passed the crash point the
// round crashes instead.
func (t *Crash) CashOut() error {
	t.mu.Lock()
	if err := t.requirePhase(PhaseRunning); err != nil {
		t.mu.Unlock()
		return err
	}
	m := t.multiplierAt(t.now())
	if m >= t.crashPoint {
		t.crashLocked()
		snap := t.snapshotLocked()
		t.mu.Unlock()
		t.emit(snap)
		return nil
	}
	t.mult = m
	t.cashedOut = true
	t.stopTickerLocked()

	o := games.Outcome{Multiplier: m, CashedOut: true}
	won := pendingWinnings(t.ledger, t.rules, o)
	t.settle(t.rules, o, fmt.Sprintf("Cashed out at %.2fx! Won %d!", m, won))

	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)
	return nil
}

// ResolveAt settles the round against a target multiplier without waiting
// for the ramp: a cash-out at target if the committed crash point is above
// it, a crash otherwise. Autoplay scripts drive instant rounds through this.
func (t *Crash) ResolveAt(target float64) error {
	t.mu.Lock()
	if err := t.requirePhase(PhaseRunning); err != nil {
		t.mu.Unlock()
		return err
	}
	if target < 1 {
		target = 1
	}
	if target >= t.crashPoint {
		t.crashLocked()
		snap := t.snapshotLocked()
		t.mu.Unlock()
		t.emit(snap)
		return nil
	}
	t.mult = target
	t.cashedOut = true
	t.stopTickerLocked()

	o := games.Outcome{Multiplier: target, CashedOut: true}
	won := pendingWinnings(t.ledger, t.rules, o)
	t.settle(t.rules, o, fmt.Sprintf("Cashed out at %.2fx! Won %d!", target, won))

	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)
	return nil
}

// crashLocked resolves the round as crashed. Caller holds the lock.
func (t *Crash) crashLocked() {
	t.mult = t.crashPoint
	t.stopTickerLocked()
	lost := t.ledger.TotalWager()
	o := games.Outcome{Multiplier: t.crashPoint, CashedOut: false}
	t.settle(t.rules, o, fmt.Sprintf("Crashed at %.2fx! Lost %d.", t.crashPoint, lost))
}

// stopTickerLocked cancels the ticker context at most once.
func (t *Crash) stopTickerLocked() {
	if t.cancelTick != nil {
		t.cancelTick()
		t.cancelTick = nil
	}
}

// multiplierAt maps elapsed ramp time to the live multiplier.
func (t *Crash) multiplierAt(at time.Time) float64 {
	elapsed := at.Sub(t.startedAt).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	return 1 + elapsed*crashRampRate
}

// Act dispatches the cash-out action.
func (t *Crash) Act(action string) error {
	switch action {
	case "cashout", "cash_out":
		return t.CashOut()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}

// ResetRound stops the ramp and refunds unsettled bets, keeping the balance.
func (t *Crash) ResetRound() {
	t.mu.Lock()
	t.stopTickerLocked()
	t.crashPoint = 0
	t.mult = 0
	t.cashedOut = false
	t.clearRound()
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)
}

// ResetBalance restores the starting bankroll.
func (t *Crash) ResetBalance() int64 {
	return t.resetBalance()
}

// Snapshot returns the current observable state. The crash point is only
// disclosed once the round has resolved.
func (t *Crash) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Crash) snapshotLocked() Snapshot {
	s := t.baseSnapshot()
	s.Multiplier = t.mult
	if t.phase == PhaseResult {
		s.CrashPoint = t.crashPoint
	}
	return s
}

// Close stops the ramp without settling.
func (t *Crash) Close() {
	t.mu.Lock()
	t.stopTickerLocked()
	t.mu.Unlock()
}
