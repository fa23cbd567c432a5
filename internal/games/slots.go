package games

import (
	"github.com/shopspring/decimal"
)

// Symbol is a slot reel symbol.
type Symbol string

// slotSymbol pairs a symbol with its 3-of-a-kind multiplier and draw weight.
// Higher-paying symbols are rarer; weights sum to slotTotalWeight.
type slotSymbol struct {
	Symbol     Symbol
	Multiplier decimal.Decimal
	Weight     int
}

var slotSymbols = []slotSymbol{
	{Symbol: "🍒", Multiplier: decimal.NewFromInt(2), Weight: 25},
	{Symbol: "🍋", Multiplier: decimal.NewFromInt(3), Weight: 20},
	{Symbol: "🍊", Multiplier: decimal.NewFromInt(4), Weight: 16},
	{Symbol: "🍇", Multiplier: decimal.NewFromInt(5), Weight: 13},
	{Symbol: "🔔", Multiplier: decimal.NewFromInt(8), Weight: 10},
	{Symbol: "⭐", Multiplier: decimal.NewFromInt(10), Weight: 8},
	{Symbol: "💎", Multiplier: decimal.NewFromInt(20), Weight: 5},
	{Symbol: "🎰", Multiplier: decimal.NewFromInt(50), Weight: 3},
}

const slotTotalWeight = 100

// slotPairPayout is the flat multiplier for any two matching reels.
var slotPairPayout = decimal.RequireFromString("0.5")

// SlotsRules implements the three-reel slot machine. Single stake bet;
// three-of-a-kind pays the symbol multiplier, any pair pays 0.5x.
type SlotsRules struct{}

func (SlotsRules) Spec() Spec {
	return Spec{
		ID:    "slots",
		Name:  "Slots",
		Kinds: []BetKind{KindStake},
	}
}

func (SlotsRules) Validate(b Bet) error {
	if b.Kind != KindStake {
		return kindError("slots", b.Kind)
	}
	return nil
}

func (SlotsRules) Payout(b Bet, o Outcome) (decimal.Decimal, bool) {
	if len(o.Reels) != 3 {
		return decimal.Zero, false
	}
	r := o.Reels

	if r[0] == r[1] && r[1] == r[2] {
		for _, s := range slotSymbols {
			if s.Symbol == r[0] {
				return s.Multiplier, true
			}
		}
		return decimal.Zero, false
	}

	if r[0] == r[1] || r[1] == r[2] || r[0] == r[2] {
		return slotPairPayout, true
	}

	return decimal.Zero, false
}

// Spin draws three reels independently from the weighted symbol table.
func (SlotsRules) Spin(src FloatSource) Outcome {
	reels := make([]Symbol, 3)
	for i := range reels {
		reels[i] = DrawSymbol(src)
	}
	return Outcome{Reels: reels}
}

// DrawSymbol maps one weighted draw to a symbol via cumulative weights.
func DrawSymbol(src FloatSource) Symbol {
	n := IntN(src, slotTotalWeight)
	acc := 0
	for _, s := range slotSymbols {
		acc += s.Weight
		if n < acc {
			return s.Symbol
		}
	}
	return slotSymbols[len(slotSymbols)-1].Symbol
}

func init() {
	Register(SlotsRules{})
}
