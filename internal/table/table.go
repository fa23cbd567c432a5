// Package table hosts the per-game state machines. Each table owns its
// ledger, draws its randomness from a session-scoped round source, and
// reports committed state to an optional emitter after every transition.
package table

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/maxbet-labs/casino-sim-go/internal/engine"
	"github.com/maxbet-labs/casino-sim-go/internal/games"
	"github.com/maxbet-labs/casino-sim-go/internal/ledger"
)

// Phase is the round lifecycle position. The terminal phase is "result";
// only an explicit round reset returns to "betting".
type Phase string

const (
	PhaseBetting    Phase = "betting"
	PhaseDealing    Phase = "dealing"
	PhasePlayerTurn Phase = "player-turn"
	PhaseDealerTurn Phase = "dealer-turn"
	PhaseDrawing    Phase = "drawing"
	PhaseSpinning   Phase = "spinning"
	PhaseRolling    Phase = "rolling"
	PhaseRunning    Phase = "running"
	PhaseResult     Phase = "result"
)

var (
	// ErrInvalidPhase rejects an action attempted outside its legal phase.
	ErrInvalidPhase = errors.New("action not valid in current phase")
	// ErrNoBets rejects starting a round with nothing staked.
	ErrNoBets = errors.New("no bets placed")
	// ErrUnknownAction rejects actions the game does not define.
	ErrUnknownAction = errors.New("unknown action for this game")
)

// Snapshot is the externally observable state of a table, delivered to the
// UI after every committed transition.
type Snapshot struct {
	Game       string       `json:"game"`
	Phase      Phase        `json:"phase"`
	Balance    int64        `json:"balance"`
	TotalWager int64        `json:"totalWager"`
	Bets       []games.Bet  `json:"bets,omitempty"`
	PlayerHand []string     `json:"playerHand,omitempty"`
	DealerHand []string     `json:"dealerHand,omitempty"`
	BankerHand []string     `json:"bankerHand,omitempty"`
	PlayerScore int         `json:"playerScore"`
	DealerScore int         `json:"dealerScore"`
	BankerScore int         `json:"bankerScore"`
	Pocket     *int         `json:"pocket,omitempty"`
	Color      string       `json:"color,omitempty"`
	Dice       *[2]int      `json:"dice,omitempty"`
	Reels      []games.Symbol `json:"reels,omitempty"`
	Segment    *int         `json:"segment,omitempty"`
	Multiplier float64      `json:"multiplier,omitempty"`
	CrashPoint float64      `json:"crashPoint,omitempty"`
	Result     string       `json:"result,omitempty"`
	Won        int64        `json:"won,omitempty"`
}

// Emitter receives state snapshots. Implementations must not call back into
// the table; snapshots are emitted while no table lock is required of them.
type Emitter interface {
	EmitState(Snapshot)
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(Snapshot)

func (f EmitterFunc) EmitState(s Snapshot) { f(s) }

// RoundRecorder receives settled rounds for history recording. Optional.
type RoundRecorder interface {
	RecordRound(game string, wager, won int64, result string, balanceAfter int64)
}

// RoundSource hands out one float stream per round.
type RoundSource interface {
	NextRound() games.FloatSource
}

type sessionSource struct {
	s *engine.Session
}

func (s sessionSource) NextRound() games.FloatSource { return s.s.NextRound() }

// SessionSource adapts an engine session to the RoundSource contract.
func SessionSource(s *engine.Session) RoundSource {
	return sessionSource{s: s}
}

// Options configures a table.
type Options struct {
	Source   RoundSource
	Emitter  Emitter
	Recorder RoundRecorder
	Logger   *log.Logger

	// Instant collapses all scheduled step delays to zero and runs the
	// steps synchronously. Unit tests and the autoplay engine rely on it.
	Instant bool
}

// Table is the uniform surface every game exposes to its UI collaborator.
type Table interface {
	Game() string
	PlaceBet(b games.Bet) error
	ClearBets() error
	Start() error
	Act(action string) error
	ResetRound()
	ResetBalance() int64
	Snapshot() Snapshot
	Close()
}

// core carries the state shared by every table. Embedding tables guard all
// access with core.mu.
type core struct {
	mu       sync.Mutex
	game     string
	phase    Phase
	ledger   *ledger.Ledger
	source   RoundSource
	emitter  Emitter
	recorder RoundRecorder
	logger   *log.Logger
	seq      *sequencer
	instant  bool
	result   string
	won      int64
}

func newCore(game string, opts Options) core {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stdout, "[TABLE] ", log.LstdFlags)
	}
	return core{
		game:     game,
		phase:    PhaseBetting,
		ledger:   ledger.New(),
		source:   opts.Source,
		emitter:  opts.Emitter,
		recorder: opts.Recorder,
		logger:   logger,
		seq:      newSequencer(),
		instant:  opts.Instant,
	}
}

// requirePhase returns ErrInvalidPhase unless the current phase is one of
// the allowed ones. Caller holds the lock.
func (c *core) requirePhase(allowed ...Phase) error {
	for _, p := range allowed {
		if c.phase == p {
			return nil
		}
	}
	return fmt.Errorf("%w: %s is in phase %q", ErrInvalidPhase, c.game, c.phase)
}

// baseSnapshot fills the fields every game shares. Caller holds the lock.
func (c *core) baseSnapshot() Snapshot {
	return Snapshot{
		Game:       c.game,
		Phase:      c.phase,
		Balance:    c.ledger.Balance(),
		TotalWager: c.ledger.TotalWager(),
		Bets:       c.ledger.Pending(),
		Result:     c.result,
		Won:        c.won,
	}
}

// emit delivers a snapshot to the emitter, if any.
func (c *core) emit(s Snapshot) {
	if c.emitter != nil {
		c.emitter.EmitState(s)
	}
}

// settle consumes the pending bets against the outcome and transitions to
// the result phase in the same step, so settlement cannot run twice for one
// round. Caller holds the lock.
func (c *core) settle(r games.Rules, o games.Outcome, resultText string) {
	wager := c.ledger.TotalWager()
	c.won = c.ledger.Settle(o, r)
	c.phase = PhaseResult
	c.result = resultText
	if c.recorder != nil {
		c.recorder.RecordRound(c.game, wager, c.won, resultText, c.ledger.Balance())
	}
	c.logger.Printf("%s: %s (wager %d, won %d, balance %d)", c.game, resultText, wager, c.won, c.ledger.Balance())
}

// clearRound refunds unsettled bets and returns to the betting phase.
// Balance survives. Caller cancels the sequencer first and holds the lock.
func (c *core) clearRound() {
	c.ledger.Clear()
	c.phase = PhaseBetting
	c.result = ""
	c.won = 0
}

// pendingWinnings previews what settlement will credit, without mutating the
// ledger. Used to build result text before the bets are consumed. Caller
// holds the table lock.
func pendingWinnings(l *ledger.Ledger, r games.Rules, o games.Outcome) int64 {
	var won int64
	for _, b := range l.Pending() {
		mult, ok := r.Payout(b, o)
		if !ok {
			continue
		}
		won += decimal.NewFromInt(b.Amount).Mul(mult).Floor().IntPart()
	}
	return won
}

// resetBalance restores the starting bankroll.
func (c *core) resetBalance() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ledger.ResetBalance()
	return c.ledger.Balance()
}
