package games

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RouletteRules implements European roulette: one pocket in 0-36, a fixed
// color table, and inside/outside bets settled per pocket.
type RouletteRules struct{}

// rouletteColors is the full fixed pocket→color table. 0 is green; the rest
// follow the standard layout. The table is exhaustive rather than derived.
var rouletteColors = [37]string{
	"green",
	"red", "black", "red", "black", "red", "black", "red", "black", "red", // 1-9
	"black", "black", "red", "black", "red", "black", "red", "black", "red", // 10-18
	"red", "black", "red", "black", "red", "black", "red", "black", "red", // 19-27
	"black", "black", "red", "black", "red", "black", "red", "black", "red", // 28-36
}

var (
	rouletteEvenMoney = decimal.NewFromInt(2)
	rouletteStraight  = decimal.NewFromInt(35)
)

func (RouletteRules) Spec() Spec {
	return Spec{
		ID:       "roulette",
		Name:     "Roulette",
		MultiBet: true,
		Kinds:    []BetKind{KindNumber, KindRed, KindBlack, KindOdd, KindEven, KindLow, KindHigh},
	}
}

func (RouletteRules) Validate(b Bet) error {
	switch b.Kind {
	case KindNumber:
		if b.Value < 0 || b.Value > 36 {
			return fmt.Errorf("%w: roulette number must be 0-36, got %d", ErrInvalidBet, b.Value)
		}
		return nil
	case KindRed, KindBlack, KindOdd, KindEven, KindLow, KindHigh:
		return nil
	default:
		return kindError("roulette", b.Kind)
	}
}

func (RouletteRules) Payout(b Bet, o Outcome) (decimal.Decimal, bool) {
	n := o.Pocket
	win := false
	mult := rouletteEvenMoney

	switch b.Kind {
	case KindNumber:
		win = b.Value == n
		mult = rouletteStraight
	case KindRed:
		win = o.Color == "red"
	case KindBlack:
		win = o.Color == "black"
	case KindOdd:
		win = n > 0 && n%2 == 1
	case KindEven:
		win = n > 0 && n%2 == 0
	case KindLow:
		win = n >= 1 && n <= 18
	case KindHigh:
		win = n >= 19 && n <= 36
	}

	if !win {
		return decimal.Zero, false
	}
	return mult, true
}

// Spin draws the winning pocket and returns the settled outcome.
func (RouletteRules) Spin(src FloatSource) Outcome {
	pocket := IntN(src, 37)
	return Outcome{Pocket: pocket, Color: PocketColor(pocket)}
}

// PocketColor looks up a pocket's color in the fixed table.
func PocketColor(pocket int) string {
	if pocket < 0 || pocket > 36 {
		return ""
	}
	return rouletteColors[pocket]
}

func init() {
	Register(RouletteRules{})
}
