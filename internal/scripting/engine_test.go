package scripting

import (
	"context"
	"sync"
	"testing"
	"time"
)

// testBetPlacer simulates dice bets for testing.
// Wins every 3rd bet for predictable behavior.
type testBetPlacer struct {
	mu        sync.Mutex
	callCount int
}

func (p *testBetPlacer) PlaceBet(ctx context.Context, vars *Variables) (*BetResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.callCount++
	win := p.callCount%3 == 0
	var payout int64
	if win {
		payout = vars.NextBet * 2
	}
	return &BetResult{
		Amount: vars.NextBet,
		Payout: payout,
		Win:    win,
		Result: "Rolled",
	}, nil
}

type noopEmitter struct{}

func (e *noopEmitter) EmitScriptState(state EngineSnapshot) {}

func waitForStop(t *testing.T, eng *Engine) EngineSnapshot {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-deadline:
			eng.Stop()
			t.Fatal("engine did not stop within timeout")
		default:
		}
		snap := eng.GetState()
		if snap.State != StateRunning {
			return snap
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestEngineStartStop(t *testing.T) {
	placer := &testBetPlacer{}
	eng := NewEngine(placer, &noopEmitter{})

	script := `
		basebet = 1
		nextbet = basebet

		dobet = function() {
			if (win) {
				nextbet = basebet
			} else {
				nextbet = previousbet * 2
			}
		}
	`

	if err := eng.Start(script, 1000); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	snap := eng.GetState()
	if snap.State != StateRunning {
		t.Errorf("expected running, got %s", snap.State)
	}

	// Let it run for a bit
	time.Sleep(200 * time.Millisecond)

	if err := eng.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	snap = waitForStop(t, eng)
	if snap.State != StateStopped {
		t.Errorf("expected stopped, got %s", snap.State)
	}
	if snap.Stats == nil {
		t.Fatal("stats should not be nil")
	}
	if snap.Stats.Bets == 0 {
		t.Error("expected some bets to have been placed")
	}
}

func TestEngineMartingale100Bets(t *testing.T) {
	placer := &testBetPlacer{}
	eng := NewEngine(placer, &noopEmitter{})

	script := `
		basebet = 1
		nextbet = basebet

		dobet = function() {
			if (bets >= 100) {
				stop()
				return
			}
			if (win) {
				nextbet = basebet
			} else {
				nextbet = previousbet * 2
			}
		}
	`

	if err := eng.Start(script, 1000); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	snap := waitForStop(t, eng)
	if snap.State != StateStopped {
		t.Errorf("expected stopped, got %s (error %q)", snap.State, snap.Error)
	}
	if snap.Stats.Bets < 100 {
		t.Errorf("expected at least 100 bets, got %d", snap.Stats.Bets)
	}
	if snap.Stats.Wins == 0 {
		t.Error("expected some wins")
	}
	if snap.Stats.Losses == 0 {
		t.Error("expected some losses")
	}
}

func TestEngineStopOnWin(t *testing.T) {
	placer := &testBetPlacer{}
	eng := NewEngine(placer, &noopEmitter{})

	script := `
		nextbet = 5
		stoponwin = true

		dobet = function() {}
	`

	if err := eng.Start(script, 1000); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	snap := waitForStop(t, eng)
	if snap.State != StateStopped {
		t.Errorf("expected stopped, got %s (error %q)", snap.State, snap.Error)
	}
	// The placer wins every 3rd bet, so the engine stops on exactly bet 3.
	if snap.Stats.Bets != 3 {
		t.Errorf("expected 3 bets, got %d", snap.Stats.Bets)
	}
	if snap.Stats.Wins != 1 {
		t.Errorf("expected 1 win, got %d", snap.Stats.Wins)
	}
}

func TestEngineRejectsScriptWithoutDobet(t *testing.T) {
	eng := NewEngine(&testBetPlacer{}, &noopEmitter{})

	if err := eng.Start("var x = 1;", 1000); err == nil {
		t.Fatal("expected error for missing dobet()")
	}
}

func TestEngineRejectsNonPositiveBet(t *testing.T) {
	eng := NewEngine(&testBetPlacer{}, &noopEmitter{})

	script := `
		nextbet = 0
		dobet = function() {}
	`
	if err := eng.Start(script, 1000); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	snap := waitForStop(t, eng)
	if snap.State != StateError {
		t.Errorf("expected error state, got %s", snap.State)
	}
}

func TestEngineChartBuffer(t *testing.T) {
	cb := NewChartBuffer(10)
	for i := 0; i < 25; i++ {
		cb.Push(ChartPoint{BetNumber: i, Profit: int64(i), Win: i%2 == 0})
	}

	// After 25 pushes with max 10, decimation should have kicked in
	if len(cb.Points) > 20 {
		t.Errorf("expected decimation to keep points <= 20, got %d", len(cb.Points))
	}
	if cb.Points[0].BetNumber != 0 {
		t.Errorf("first point should be preserved, got %d", cb.Points[0].BetNumber)
	}
	if cb.Points[len(cb.Points)-1].BetNumber != 24 {
		t.Errorf("last point should be preserved, got %d", cb.Points[len(cb.Points)-1].BetNumber)
	}
}

func TestEngineGetLogs(t *testing.T) {
	eng := NewEngine(&testBetPlacer{}, &noopEmitter{})

	script := `
		nextbet = 1
		log("hello from script")

		dobet = function() {
			stop()
		}
	`

	if err := eng.Start(script, 1000); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitForStop(t, eng)

	logs := eng.GetLogs()
	found := false
	for _, l := range logs {
		if l.Message == "hello from script" {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected log message 'hello from script' in logs")
	}
}

// testCardPlacer simulates a card game that needs one action to resolve.
type testCardPlacer struct {
	testBetPlacer

	mu          sync.Mutex
	done        bool
	finishCalls int
	actions     []string
}

func (p *testCardPlacer) PlaceBet(ctx context.Context, vars *Variables) (*BetResult, error) {
	p.mu.Lock()
	p.done = false
	p.mu.Unlock()
	return p.testBetPlacer.PlaceBet(ctx, vars)
}

func (p *testCardPlacer) PlaceNextAction(ctx context.Context, game, action string) (*BetResult, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.actions = append(p.actions, action)
	p.done = true
	return &BetResult{Amount: 1, Payout: 2, Win: true, Result: "You win!"}, true, nil
}

func (p *testCardPlacer) FinishRound(ctx context.Context, game string) (*BetResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finishCalls++
	p.done = true
	return &BetResult{Amount: 1, Payout: 0, Win: false, Result: "You lose!"}, nil
}

func (p *testCardPlacer) RoundDone(game string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

func TestEngineFinishesCardRoundByDefault(t *testing.T) {
	placer := &testCardPlacer{}
	eng := NewEngine(placer, &noopEmitter{})

	// No round() function: the engine resolves each round with the
	// default action before calling dobet().
	script := `
		game = "blackjack"
		nextbet = 10

		dobet = function() {
			if (bets >= 5) {
				stop()
			}
		}
	`

	if err := eng.Start(script, 1000); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	snap := waitForStop(t, eng)
	if snap.State != StateStopped {
		t.Fatalf("expected stopped, got %s (error %q)", snap.State, snap.Error)
	}

	placer.mu.Lock()
	defer placer.mu.Unlock()
	if placer.finishCalls == 0 {
		t.Error("expected FinishRound to be called")
	}
	if len(placer.actions) != 0 {
		t.Errorf("unexpected explicit actions: %v", placer.actions)
	}
}

func TestEngineRoundFuncDrivesActions(t *testing.T) {
	placer := &testCardPlacer{}
	eng := NewEngine(placer, &noopEmitter{})

	script := `
		game = "blackjack"
		nextbet = 10

		round = function() {
			return BLACKJACK_STAND
		}

		dobet = function() {
			stop()
		}
	`

	if err := eng.Start(script, 1000); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	snap := waitForStop(t, eng)
	if snap.State != StateStopped {
		t.Fatalf("expected stopped, got %s (error %q)", snap.State, snap.Error)
	}

	placer.mu.Lock()
	defer placer.mu.Unlock()
	if len(placer.actions) == 0 {
		t.Fatal("expected round() to drive at least one action")
	}
	if placer.actions[0] != "stand" {
		t.Errorf("action = %q, want stand", placer.actions[0])
	}
}

func TestEngineResetStats(t *testing.T) {
	placer := &testBetPlacer{}
	eng := NewEngine(placer, &noopEmitter{})

	script := `
		nextbet = 1

		dobet = function() {
			if (bets == 10) {
				resetstats()
			}
			if (bets >= 20) {
				stop()
			}
		}
	`

	if err := eng.Start(script, 1000); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	snap := waitForStop(t, eng)
	if snap.State != StateStopped {
		t.Fatalf("expected stopped, got %s (error %q)", snap.State, snap.Error)
	}
	// Stats restarted at bet 10, so the placer saw more bets than the
	// final count reports.
	placer.mu.Lock()
	calls := placer.callCount
	placer.mu.Unlock()
	if snap.Stats.Bets >= calls {
		t.Errorf("stats count %d not reset (placer saw %d bets)", snap.Stats.Bets, calls)
	}
}

func TestEngineStatePollWhileRunning(t *testing.T) {
	placer := &testBetPlacer{}
	eng := NewEngine(placer, &noopEmitter{})

	// The script rewrites game every bet, so the write-back path races with
	// snapshot reads unless both hold the engine lock.
	script := `
		nextbet = 1
		flip = false

		dobet = function() {
			flip = !flip
			game = flip ? "roulette" : "dice"
			if (bets >= 50) {
				stop()
			}
		}
	`

	if err := eng.Start(script, 1000); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 300; i++ {
			snap := eng.GetState()
			if g := snap.CurrentGame; g != "dice" && g != "roulette" {
				t.Errorf("current game = %q", g)
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	snap := waitForStop(t, eng)
	<-done

	if snap.State != StateStopped {
		t.Fatalf("expected stopped, got %s (error %q)", snap.State, snap.Error)
	}
	if snap.Stats.Bets < 50 {
		t.Errorf("bets = %d, want at least 50", snap.Stats.Bets)
	}
}
