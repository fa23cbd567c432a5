package games

import (
	"github.com/shopspring/decimal"
)

// WheelSegment is one slice of the prize wheel.
type WheelSegment struct {
	Label       string
	Multiplier  float64
	Probability float64
}

// wheelSegments is the fixed 8-segment layout. Probabilities sum to 1.0 and
// selection is by cumulative-sum binning over a single uniform draw.
var wheelSegments = []WheelSegment{
	{Label: "Lose", Multiplier: 0, Probability: 0.4},
	{Label: "2x", Multiplier: 2, Probability: 0.25},
	{Label: "3x", Multiplier: 3, Probability: 0.15},
	{Label: "5x", Multiplier: 5, Probability: 0.1},
	{Label: "10x", Multiplier: 10, Probability: 0.05},
	{Label: "25x", Multiplier: 25, Probability: 0.03},
	{Label: "50x", Multiplier: 50, Probability: 0.015},
	{Label: "100x", Multiplier: 100, Probability: 0.005},
}

// WheelRules implements the prize wheel. Single stake bet; the landed
// segment's multiplier is the payout.
type WheelRules struct{}

func (WheelRules) Spec() Spec {
	return Spec{
		ID:    "wheel",
		Name:  "Wheel",
		Kinds: []BetKind{KindStake},
	}
}

func (WheelRules) Validate(b Bet) error {
	if b.Kind != KindStake {
		return kindError("wheel", b.Kind)
	}
	return nil
}

func (WheelRules) Payout(b Bet, o Outcome) (decimal.Decimal, bool) {
	if o.Multiplier <= 0 {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(o.Multiplier), true
}

// Spin selects the landed segment from the cumulative distribution.
func (WheelRules) Spin(src FloatSource) Outcome {
	f := src.NextFloat()
	acc := 0.0
	for i, s := range wheelSegments {
		acc += s.Probability
		if f < acc {
			return Outcome{Segment: i, Multiplier: s.Multiplier}
		}
	}
	last := len(wheelSegments) - 1
	return Outcome{Segment: last, Multiplier: wheelSegments[last].Multiplier}
}

// Segment returns the wheel layout entry at index i.
func Segment(i int) WheelSegment {
	if i < 0 || i >= len(wheelSegments) {
		return WheelSegment{}
	}
	return wheelSegments[i]
}

// SegmentCount returns the number of wheel segments.
func SegmentCount() int {
	return len(wheelSegments)
}

func init() {
	Register(WheelRules{})
}
