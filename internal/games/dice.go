package games

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DiceRules implements the two-die total game: a single bet on the total
// being over, under, or exactly a chosen value.
type DiceRules struct{}

// overPayouts / underPayouts key the total-return multiplier by bet target.
// Tighter targets pay better.
var (
	overPayouts = map[int]decimal.Decimal{
		7:  decimal.NewFromInt(2),
		8:  decimal.RequireFromString("2.2"),
		9:  decimal.RequireFromString("2.5"),
		10: decimal.NewFromInt(3),
	}
	underPayouts = map[int]decimal.Decimal{
		7: decimal.NewFromInt(2),
		6: decimal.RequireFromString("2.2"),
		5: decimal.RequireFromString("2.5"),
		4: decimal.NewFromInt(3),
	}
)

// exactPayout returns the multiplier for hitting an exact total.
func exactPayout(total int) decimal.Decimal {
	switch total {
	case 7:
		return decimal.NewFromInt(5)
	case 6, 8:
		return decimal.NewFromInt(6)
	case 5, 9:
		return decimal.NewFromInt(8)
	case 4, 10:
		return decimal.NewFromInt(10)
	case 3, 11:
		return decimal.NewFromInt(15)
	default: // 2, 12
		return decimal.NewFromInt(30)
	}
}

func (DiceRules) Spec() Spec {
	return Spec{
		ID:    "dice",
		Name:  "Dice",
		Kinds: []BetKind{KindOver, KindUnder, KindExact},
	}
}

func (DiceRules) Validate(b Bet) error {
	switch b.Kind {
	case KindOver:
		if _, ok := overPayouts[b.Value]; !ok {
			return fmt.Errorf("%w: over bet target must be 7-10, got %d", ErrInvalidBet, b.Value)
		}
	case KindUnder:
		if _, ok := underPayouts[b.Value]; !ok {
			return fmt.Errorf("%w: under bet target must be 4-7, got %d", ErrInvalidBet, b.Value)
		}
	case KindExact:
		if b.Value < 2 || b.Value > 12 {
			return fmt.Errorf("%w: exact bet target must be 2-12, got %d", ErrInvalidBet, b.Value)
		}
	default:
		return kindError("dice", b.Kind)
	}
	return nil
}

func (DiceRules) Payout(b Bet, o Outcome) (decimal.Decimal, bool) {
	total := o.Dice[0] + o.Dice[1]

	switch b.Kind {
	case KindOver:
		if total > b.Value {
			return overPayouts[b.Value], true
		}
	case KindUnder:
		if total < b.Value {
			return underPayouts[b.Value], true
		}
	case KindExact:
		if total == b.Value {
			return exactPayout(total), true
		}
	}
	return decimal.Zero, false
}

// Roll draws two independent dice.
func (DiceRules) Roll(src FloatSource) Outcome {
	return Outcome{Dice: [2]int{IntN(src, 6) + 1, IntN(src, 6) + 1}}
}

func init() {
	Register(DiceRules{})
}
