package table

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/maxbet-labs/casino-sim-go/internal/games"
)

// rampClock is a lock-protected fake clock for live-ticker rounds, where the
// tick goroutine reads the time concurrently with the test advancing it.
type rampClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *rampClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *rampClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// newLiveCrashFixture starts a ticker-driven round with the ramp clock
// pinned, so the multiplier only moves when the test advances the clock.
func newLiveCrashFixture(t *testing.T, stake int64) (*Crash, *rampClock) {
	t.Helper()
	opts := testOpts(0.9, 0.5)
	opts.Instant = false
	tbl := NewCrash(opts)
	clock := &rampClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	tbl.now = clock.now
	if err := tbl.PlaceBet(games.Bet{Kind: games.KindStake, Amount: stake}); err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	return tbl, clock
}

// Floats 0.9, 0.5 commit a crash point of 5 + 0.5*3 = 6.5.
func newCrashFixture(t *testing.T, stake int64) *Crash {
	t.Helper()
	tbl := NewCrash(testOpts(0.9, 0.5))
	if err := tbl.PlaceBet(games.Bet{Kind: games.KindStake, Amount: stake}); err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	return tbl
}

func TestCrashResolveAtCashesOut(t *testing.T) {
	tbl := newCrashFixture(t, 100)
	if err := tbl.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := tbl.ResolveAt(2.0); err != nil {
		t.Fatalf("ResolveAt: %v", err)
	}

	snap := tbl.Snapshot()
	if snap.Phase != PhaseResult {
		t.Fatalf("phase = %q, want %q", snap.Phase, PhaseResult)
	}
	if snap.Won != 200 {
		t.Errorf("won = %d, want 200", snap.Won)
	}
	if snap.Balance != 1100 {
		t.Errorf("balance = %d, want 1100", snap.Balance)
	}
	if snap.Multiplier != 2.0 {
		t.Errorf("multiplier = %v, want 2.0", snap.Multiplier)
	}
	if snap.CrashPoint != 6.5 {
		t.Errorf("crash point = %v, want 6.5", snap.CrashPoint)
	}
	if snap.Result != "Cashed out at 2.00x! Won 200!" {
		t.Errorf("result = %q", snap.Result)
	}
}

func TestCrashResolveAtPastPointCrashes(t *testing.T) {
	tbl := newCrashFixture(t, 100)
	if err := tbl.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := tbl.ResolveAt(7.0); err != nil {
		t.Fatalf("ResolveAt: %v", err)
	}

	snap := tbl.Snapshot()
	if snap.Won != 0 {
		t.Errorf("won = %d, want 0", snap.Won)
	}
	if snap.Balance != 900 {
		t.Errorf("balance = %d, want 900", snap.Balance)
	}
	if snap.Multiplier != 6.5 {
		t.Errorf("multiplier = %v, want 6.5", snap.Multiplier)
	}
	if snap.Result != "Crashed at 6.50x! Lost 100." {
		t.Errorf("result = %q", snap.Result)
	}
}

func TestCrashCashOutUsesRampClock(t *testing.T) {
	tbl := newCrashFixture(t, 100)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := base
	tbl.now = func() time.Time { return clock }

	if err := tbl.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// 4s at 0.5x/s puts the multiplier at 3.0, still under 6.5.
	clock = base.Add(4 * time.Second)
	if err := tbl.CashOut(); err != nil {
		t.Fatalf("CashOut: %v", err)
	}

	snap := tbl.Snapshot()
	if snap.Won != 300 {
		t.Errorf("won = %d, want 300", snap.Won)
	}
	if snap.Balance != 1200 {
		t.Errorf("balance = %d, want 1200", snap.Balance)
	}
}

func TestCrashLateCashOutCrashes(t *testing.T) {
	tbl := newCrashFixture(t, 100)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := base
	tbl.now = func() time.Time { return clock }

	if err := tbl.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// 20s puts the ramp at 11.0, past the 6.5 crash point.
	clock = base.Add(20 * time.Second)
	if err := tbl.CashOut(); err != nil {
		t.Fatalf("CashOut: %v", err)
	}

	snap := tbl.Snapshot()
	if snap.Phase != PhaseResult {
		t.Fatalf("phase = %q, want %q", snap.Phase, PhaseResult)
	}
	if snap.Won != 0 {
		t.Errorf("won = %d, want 0", snap.Won)
	}
	if snap.Balance != 900 {
		t.Errorf("balance = %d, want 900", snap.Balance)
	}
}

func TestCrashCashOutAfterResult(t *testing.T) {
	tbl := newCrashFixture(t, 100)
	if err := tbl.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := tbl.ResolveAt(2.0); err != nil {
		t.Fatalf("ResolveAt: %v", err)
	}

	if err := tbl.CashOut(); !errors.Is(err, ErrInvalidPhase) {
		t.Fatalf("second CashOut = %v, want ErrInvalidPhase", err)
	}
}

func TestCrashPointHiddenWhileRunning(t *testing.T) {
	tbl := newCrashFixture(t, 100)
	if err := tbl.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if got := tbl.Snapshot().CrashPoint; got != 0 {
		t.Errorf("crash point disclosed while running: %v", got)
	}

	tbl.ResetRound()
}

func TestCrashTickerCrashesOnce(t *testing.T) {
	tbl, clock := newLiveCrashFixture(t, 100)
	if err := tbl.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer tbl.Close()

	// 20s puts the ramp at 11.0; the next tick must resolve the crash.
	clock.advance(20 * time.Second)

	deadline := time.Now().Add(2 * time.Second)
	for tbl.Snapshot().Phase != PhaseResult {
		if time.Now().After(deadline) {
			t.Fatal("ticker never resolved the round")
		}
		time.Sleep(10 * time.Millisecond)
	}

	snap := tbl.Snapshot()
	if snap.Won != 0 {
		t.Errorf("won = %d, want 0", snap.Won)
	}
	if snap.Balance != 900 {
		t.Errorf("balance = %d, want 900", snap.Balance)
	}
	if snap.Multiplier != 6.5 {
		t.Errorf("multiplier = %v, want 6.5", snap.Multiplier)
	}
	if snap.Result != "Crashed at 6.50x! Lost 100." {
		t.Errorf("result = %q", snap.Result)
	}

	// The round settled; a stray tick must not settle or mutate it again.
	if err := tbl.CashOut(); !errors.Is(err, ErrInvalidPhase) {
		t.Fatalf("CashOut after crash = %v, want ErrInvalidPhase", err)
	}
	time.Sleep(3 * crashTickInterval)
	after := tbl.Snapshot()
	if after.Phase != PhaseResult || after.Balance != snap.Balance || after.Multiplier != snap.Multiplier {
		t.Errorf("snapshot changed after settlement: %+v", after)
	}
}

func TestCrashCloseStopsTicker(t *testing.T) {
	tbl, clock := newLiveCrashFixture(t, 100)
	if err := tbl.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Let the ticker run with the clock pinned; the multiplier holds at 1.0.
	time.Sleep(3 * crashTickInterval)
	tbl.Close()

	// A live ticker would lift the multiplier to 3.0 after this advance.
	clock.advance(4 * time.Second)
	time.Sleep(3 * crashTickInterval)

	snap := tbl.Snapshot()
	if snap.Phase != PhaseRunning {
		t.Fatalf("phase = %q, want %q", snap.Phase, PhaseRunning)
	}
	if snap.Multiplier != 1.0 {
		t.Errorf("multiplier = %v, want 1.0 after close", snap.Multiplier)
	}
	if snap.Balance != 900 {
		t.Errorf("balance = %d, want 900", snap.Balance)
	}

	tbl.ResetRound()
	if got := tbl.Snapshot().Balance; got != 1000 {
		t.Errorf("balance after reset = %d, want 1000", got)
	}
}

func TestCrashActDispatch(t *testing.T) {
	tbl := newCrashFixture(t, 100)
	if err := tbl.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := tbl.Act("jump"); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("Act(jump) = %v, want ErrUnknownAction", err)
	}
	if err := tbl.Act("cashout"); err != nil {
		t.Fatalf("Act(cashout): %v", err)
	}
	if got := tbl.Snapshot().Phase; got != PhaseResult {
		t.Errorf("phase = %q, want %q", got, PhaseResult)
	}
}
