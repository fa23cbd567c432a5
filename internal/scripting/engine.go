package scripting

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dop251/goja"
)

// State represents the scripting engine's lifecycle state.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateStopped State = "stopped"
	StateError   State = "error"
)

// BetPlacer is the interface the engine uses to place bets. The casino
// placer bridges to instant-mode tables.
type BetPlacer interface {
	// PlaceBet places a bet using the current variable state and returns the result.
	PlaceBet(ctx context.Context, vars *Variables) (*BetResult, error)
}

// MultiRoundPlacer extends BetPlacer with card-game action support.
type MultiRoundPlacer interface {
	// PlaceNextAction sends the next action for an active round. The second
	// return reports whether the round has resolved.
	PlaceNextAction(ctx context.Context, game string, action string) (*BetResult, bool, error)

	// FinishRound resolves an active round with the default action.
	FinishRound(ctx context.Context, game string) (*BetResult, error)

	// RoundDone reports whether the game's round has resolved.
	RoundDone(game string) bool
}

// multiRoundGames lists games that may need the inner round() loop.
var multiRoundGames = map[string]bool{
	"blackjack": true,
	"baccarat":  true,
}

// EventEmitter allows the engine to push state updates to the frontend.
type EventEmitter interface {
	// EmitScriptState sends the current engine state to the frontend.
	EmitScriptState(state EngineSnapshot)
}

// EngineSnapshot is a serializable snapshot of the engine state.
type EngineSnapshot struct {
	State         State        `json:"state"`
	Error         string       `json:"error,omitempty"`
	Stats         *Statistics  `json:"stats"`
	Chart         []ChartPoint `json:"chart"`
	CurrentGame   string       `json:"currentGame"`
	BetsPerSecond float64      `json:"betsPerSecond"`
}

// Engine orchestrates the autoplay bet lifecycle: execute the script once to
// register dobet(), then loop placing bets with the variables the script
// sets, feeding results back until stop() or an error.
type Engine struct {
	mu     sync.RWMutex
	state  State
	err    error
	cancel context.CancelFunc

	vm    *VM
	vars  *Variables
	stats *Statistics
	chart *ChartBuffer

	betPlacer BetPlacer
	emitter   EventEmitter

	startTime time.Time
	lastEmit  time.Time
}

// NewEngine creates a new scripting engine.
func NewEngine(placer BetPlacer, emitter EventEmitter) *Engine {
	return &Engine{
		state:     StateIdle,
		betPlacer: placer,
		emitter:   emitter,
	}
}

// Start begins script execution. The script source is executed once to
// register dobet() (and optionally round()), then the bet loop begins.
func (e *Engine) Start(script string, startBalance int64) error {
	e.mu.Lock()
	if e.state == StateRunning {
		e.mu.Unlock()
		return fmt.Errorf("engine is already running")
	}

	e.stats = NewStatistics(startBalance)
	e.chart = NewChartBuffer(500)
	e.vars = NewVariables(e.stats)
	e.vm = NewVM()
	e.state = StateRunning
	e.err = nil
	e.startTime = time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.mu.Unlock()

	e.vm.SetVariables(e.vars)

	if err := e.vm.Execute(script); err != nil {
		e.setError(err)
		cancel()
		return err
	}

	// Sync back any variables the script set during initialization
	e.vm.SyncVariables(e.vars)

	if !e.vm.HasDobetFunc() {
		err := fmt.Errorf("script must define a dobet() function")
		e.setError(err)
		cancel()
		return err
	}

	e.vars.Running = true
	e.vm.SetVariables(e.vars)

	e.emitState()

	go e.betLoop(ctx)

	return nil
}

// Stop gracefully stops the scripting engine.
func (e *Engine) Stop() error {
	e.mu.Lock()
	if e.state != StateRunning {
		e.mu.Unlock()
		return fmt.Errorf("engine is not running")
	}

	if e.cancel != nil {
		e.cancel()
	}
	e.state = StateStopped
	e.vars.Running = false
	e.mu.Unlock()

	e.emitState()
	return nil
}

// GetState returns the current engine snapshot.
func (e *Engine) GetState() EngineSnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshot()
}

// GetLogs returns the script log buffer.
func (e *Engine) GetLogs() []LogEntry {
	if e.vm == nil {
		return nil
	}
	return e.vm.GetLogs()
}

// betLoop is the main betting loop that runs in a goroutine.
func (e *Engine) betLoop(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			e.setError(fmt.Errorf("script panic: %v", r))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			e.stopFromLoop()
			return
		default:
		}

		if e.vm.IsStopRequested() {
			e.stopFromLoop()
			return
		}

		e.mu.RLock()
		nextBet := e.vars.NextBet
		vars := e.vars
		e.mu.RUnlock()

		if nextBet <= 0 {
			e.setError(fmt.Errorf("nextbet must be > 0, got %d", nextBet))
			return
		}

		// 1. Place the bet and start the round.
		result, err := e.betPlacer.PlaceBet(ctx, vars)
		if err != nil {
			if ctx.Err() != nil {
				e.stopFromLoop()
				return
			}
			e.setError(fmt.Errorf("bet placement failed: %w", err))
			return
		}

		// 1b. Card games may stop for actions; drive them through round()
		// when the script defines it, otherwise with the default action.
		e.mu.RLock()
		gameName := e.vars.Game
		e.mu.RUnlock()

		if multiRoundGames[gameName] {
			if mrPlacer, ok := e.betPlacer.(MultiRoundPlacer); ok && !mrPlacer.RoundDone(gameName) {
				var roundResult *BetResult
				var roundErr error
				if e.vm.HasRoundFunc() {
					roundResult, roundErr = e.runRoundLoop(ctx, mrPlacer, gameName, result)
				} else {
					roundResult, roundErr = mrPlacer.FinishRound(ctx, gameName)
				}
				if roundErr != nil {
					if ctx.Err() != nil {
						e.stopFromLoop()
						return
					}
					e.setError(fmt.Errorf("round error: %w", roundErr))
					return
				}
				if roundResult != nil {
					result = roundResult
				}
			}
		}
		// The round's stake is what dobet() chose, whatever the action path.
		result.Amount = nextBet

		// 2. Update statistics and variables under write lock.
		e.mu.Lock()
		e.stats.RecordBet(*result)

		e.vars.Win = result.Win
		e.vars.PreviousBet = result.Amount
		e.vars.Balance = e.stats.Balance

		e.vars.LastBet = map[string]interface{}{
			"amount": result.Amount,
			"win":    result.Win,
			"payout": result.Payout,
			"result": result.Result,
		}

		e.vm.SetVariables(e.vars)

		e.chart.Push(ChartPoint{
			BetNumber: e.stats.Bets,
			Profit:    e.stats.Profit,
			Win:       result.Win,
		})
		e.mu.Unlock()

		// 3. Call dobet() so the script can choose the next bet.
		if err := e.vm.CallDobet(); err != nil {
			e.setError(fmt.Errorf("dobet() error: %w", err))
			return
		}

		// 4. Sync variables back from the VM. Writes into e.vars, so it
		// needs the write lock against concurrent snapshot reads.
		e.mu.Lock()
		e.vm.SyncVariables(e.vars)
		e.mu.Unlock()

		if e.vm.IsResetStatsRequested() {
			e.stats.Reset()
			e.chart.Reset()
			e.vm.SetVariables(e.vars)
		}

		if e.vm.IsStopRequested() {
			e.stopFromLoop()
			return
		}

		e.mu.RLock()
		stopOnWin := e.vars.StopOnWin
		e.mu.RUnlock()
		if stopOnWin && result.Win {
			e.stopFromLoop()
			return
		}

		e.throttledEmitState()

		// 5. Apply sleep delay.
		sleepMs := e.vm.GetSleepTime()
		e.vm.ResetSleepTime()
		if sleepMs > 0 {
			select {
			case <-ctx.Done():
				e.stopFromLoop()
				return
			case <-time.After(time.Duration(sleepMs) * time.Millisecond):
			}
		}
	}
}

// runRoundLoop executes the inner action loop for card games. round() is
// called once per pending decision and returns the action string.
func (e *Engine) runRoundLoop(ctx context.Context, mrPlacer MultiRoundPlacer, game string, initialResult *BetResult) (*BetResult, error) {
	const maxRounds = 32

	result := initialResult
	for round := 0; round < maxRounds; round++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if e.vm.IsStopRequested() {
			return mrPlacer.FinishRound(ctx, game)
		}
		if mrPlacer.RoundDone(game) {
			return result, nil
		}

		actionVal, err := e.vm.CallRound()
		if err != nil {
			return nil, fmt.Errorf("round() error: %w", err)
		}

		e.mu.Lock()
		e.vm.SyncVariables(e.vars)
		e.mu.Unlock()

		action := ""
		if actionVal != nil && !isUndefinedOrNull(actionVal) {
			action = actionVal.String()
		} else {
			e.mu.RLock()
			action = e.vars.Action
			e.mu.RUnlock()
		}
		if action == "" {
			return nil, fmt.Errorf("round() must return an action or set the action variable")
		}

		nextResult, done, err := mrPlacer.PlaceNextAction(ctx, game, action)
		if err != nil {
			return nil, fmt.Errorf("next action failed: %w", err)
		}
		if nextResult != nil {
			result = nextResult
		}
		if done {
			return result, nil
		}
	}

	// Safety: hit max rounds — resolve with the default action.
	return mrPlacer.FinishRound(ctx, game)
}

// stopFromLoop transitions to stopped unless an error already won.
func (e *Engine) stopFromLoop() {
	e.mu.Lock()
	if e.state == StateRunning {
		e.state = StateStopped
	}
	e.vars.Running = false
	e.mu.Unlock()
	e.emitState()
}

func (e *Engine) setError(err error) {
	e.mu.Lock()
	e.state = StateError
	e.err = err
	if e.vars != nil {
		e.vars.Running = false
	}
	e.mu.Unlock()
	e.emitState()
}

func (e *Engine) snapshot() EngineSnapshot {
	snap := EngineSnapshot{
		State: e.state,
	}
	if e.err != nil {
		snap.Error = e.err.Error()
	}
	if e.stats != nil {
		statsCopy := *e.stats
		snap.Stats = &statsCopy
	}
	if e.chart != nil {
		snap.Chart = append([]ChartPoint(nil), e.chart.Points...)
	}
	if e.vars != nil {
		snap.CurrentGame = e.vars.Game
	}
	if e.state == StateRunning && e.stats != nil && e.stats.Bets > 0 {
		elapsed := time.Since(e.startTime).Seconds()
		if elapsed > 0 {
			snap.BetsPerSecond = float64(e.stats.Bets) / elapsed
		}
	}
	return snap
}

func (e *Engine) emitState() {
	if e.emitter == nil {
		return
	}
	e.mu.RLock()
	snap := e.snapshot()
	e.mu.RUnlock()
	e.emitter.EmitScriptState(snap)
	e.lastEmit = time.Now()
}

// throttledEmitState only emits if at least 100ms have passed since the last emission.
func (e *Engine) throttledEmitState() {
	if time.Since(e.lastEmit) < 100*time.Millisecond {
		return
	}
	e.emitState()
}

func isUndefinedOrNull(v interface{}) bool {
	if v == nil {
		return true
	}
	if gv, ok := v.(goja.Value); ok {
		return goja.IsUndefined(gv) || goja.IsNull(gv)
	}
	return false
}
