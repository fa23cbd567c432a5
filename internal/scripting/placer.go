package scripting

import (
	"context"
	"fmt"

	"github.com/maxbet-labs/casino-sim-go/internal/games"
	"github.com/maxbet-labs/casino-sim-go/internal/table"
)

// CasinoPlacer drives instant-mode tables on behalf of the script engine.
// Every round placed through it resolves synchronously; the tables it is
// given must have been built with Options.Instant set.
type CasinoPlacer struct {
	casino *table.Casino
}

// NewCasinoPlacer wraps a casino for script-driven play.
func NewCasinoPlacer(casino *table.Casino) *CasinoPlacer {
	return &CasinoPlacer{casino: casino}
}

// PlaceBet clears the table's previous round, places the scripted bet and
// starts the round. Crash rounds resolve against the script's cashoutat
// target. Card games that need actions return an interim result; the engine
// continues them through PlaceNextAction or FinishRound.
func (p *CasinoPlacer) PlaceBet(ctx context.Context, vars *Variables) (*BetResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t, err := p.casino.Table(vars.Game)
	if err != nil {
		return nil, err
	}

	t.ResetRound()

	kind := games.BetKind(vars.BetKind)
	if kind == "" {
		kind = games.KindStake
	}
	bet := games.Bet{Kind: kind, Value: vars.BetValue, Amount: vars.NextBet}
	if err := t.PlaceBet(bet); err != nil {
		return nil, err
	}
	if err := t.Start(); err != nil {
		return nil, err
	}

	if crash, ok := t.(*table.Crash); ok {
		if err := crash.ResolveAt(vars.CashoutAt); err != nil {
			return nil, err
		}
	}

	return p.result(t, vars.NextBet), nil
}

// PlaceNextAction sends one scripted action to an active card round. The
// second return reports whether the round has resolved.
func (p *CasinoPlacer) PlaceNextAction(ctx context.Context, game string, action string) (*BetResult, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	t, err := p.casino.Table(game)
	if err != nil {
		return nil, false, err
	}
	if err := t.Act(action); err != nil {
		return nil, false, err
	}

	snap := t.Snapshot()
	result := p.result(t, snap.TotalWager)
	return result, snap.Phase == table.PhaseResult, nil
}

// FinishRound resolves an active card round with the default action when
// the script defines no round() callback: blackjack stands, baccarat draws
// to the tableau.
func (p *CasinoPlacer) FinishRound(ctx context.Context, game string) (*BetResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t, err := p.casino.Table(game)
	if err != nil {
		return nil, err
	}

	var action string
	switch t.Snapshot().Phase {
	case table.PhasePlayerTurn:
		action = "stand"
	case table.PhaseDrawing:
		action = "draw_third"
	case table.PhaseResult:
		return p.result(t, 0), nil
	default:
		return nil, fmt.Errorf("round for %s cannot be finished from phase %q", game, t.Snapshot().Phase)
	}

	if err := t.Act(action); err != nil {
		return nil, err
	}
	return p.result(t, 0), nil
}

// RoundDone reports whether the table's round has resolved.
func (p *CasinoPlacer) RoundDone(game string) bool {
	t, err := p.casino.Table(game)
	if err != nil {
		return true
	}
	return t.Snapshot().Phase == table.PhaseResult
}

func (p *CasinoPlacer) result(t table.Table, amount int64) *BetResult {
	snap := t.Snapshot()
	if amount == 0 {
		amount = snap.TotalWager
	}
	return &BetResult{
		Amount: amount,
		Payout: snap.Won,
		Win:    snap.Won > 0,
		Result: snap.Result,
	}
}
