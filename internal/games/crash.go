package games

import (
	"github.com/shopspring/decimal"
)

// CrashRules implements the crash-multiplier game. A crash point is committed
// before the round starts; the live multiplier ramp and cash-out timing live
// in the table layer.
type CrashRules struct{}

// Crash point tier bounds. Each tier is uniform within its range:
// 50% in [1.01, 3), 30% in [3, 5), 15% in [5, 8), 5% in [8, 10).
const (
	crashTier1Cut = 0.50
	crashTier2Cut = 0.80
	crashTier3Cut = 0.95
)

func (CrashRules) Spec() Spec {
	return Spec{
		ID:    "crash",
		Name:  "Crash",
		Kinds: []BetKind{KindStake},
	}
}

func (CrashRules) Validate(b Bet) error {
	if b.Kind != KindStake {
		return kindError("crash", b.Kind)
	}
	return nil
}

func (CrashRules) Payout(b Bet, o Outcome) (decimal.Decimal, bool) {
	if !o.CashedOut {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(o.Multiplier), true
}

// CrashPoint samples the round's crash point from the tiered distribution.
// The result is always in [1.01, 10.0).
func (CrashRules) CrashPoint(src FloatSource) float64 {
	tier := src.NextFloat()
	pos := src.NextFloat()

	switch {
	case tier < crashTier1Cut:
		return 1.01 + pos*1.99
	case tier < crashTier2Cut:
		return 3 + pos*2
	case tier < crashTier3Cut:
		return 5 + pos*3
	default:
		return 8 + pos*2
	}
}

func init() {
	Register(CrashRules{})
}
