package games

import (
	"testing"

	"github.com/maxbet-labs/casino-sim-go/internal/engine"
)

func TestWheelSpinBins(t *testing.T) {
	r := WheelRules{}
	tests := []struct {
		f           float64
		wantSegment int
		wantMult    float64
	}{
		{0.0, 0, 0},
		{0.39, 0, 0},
		{0.40, 1, 2},
		{0.64, 1, 2},
		{0.65, 2, 3},
		{0.80, 3, 5},
		{0.90, 4, 10},
		{0.95, 5, 25},
		{0.98, 6, 50},
		{0.995, 7, 100},
		{0.9999, 7, 100},
	}

	for _, tt := range tests {
		o := r.Spin(seq(tt.f))
		if o.Segment != tt.wantSegment || o.Multiplier != tt.wantMult {
			t.Errorf("Spin(%v) = segment %d mult %v, want segment %d mult %v",
				tt.f, o.Segment, o.Multiplier, tt.wantSegment, tt.wantMult)
		}
	}
}

func TestWheelPayout(t *testing.T) {
	r := WheelRules{}
	bet := Bet{Kind: KindStake, Amount: 10}

	if mult, win := r.Payout(bet, Outcome{Segment: 0, Multiplier: 0}); win || !mult.IsZero() {
		t.Errorf("lose segment paid %s", mult)
	}
	if mult, win := r.Payout(bet, Outcome{Segment: 7, Multiplier: 100}); !win || mult.InexactFloat64() != 100 {
		t.Errorf("100x segment = %s win=%v", mult, win)
	}
}

func TestWheelLayout(t *testing.T) {
	if SegmentCount() != 8 {
		t.Fatalf("SegmentCount() = %d, want 8", SegmentCount())
	}

	total := 0.0
	for i := 0; i < SegmentCount(); i++ {
		total += Segment(i).Probability
	}
	if total < 0.9999 || total > 1.0001 {
		t.Fatalf("segment probabilities sum to %v, want 1.0", total)
	}

	if Segment(-1) != (WheelSegment{}) || Segment(8) != (WheelSegment{}) {
		t.Error("out-of-range Segment() should be zero")
	}
}

func TestWheelSpinAlwaysLands(t *testing.T) {
	r := WheelRules{}
	src := engine.NewStream("server", "client", 3)
	for i := 0; i < 10000; i++ {
		o := r.Spin(src)
		if o.Segment < 0 || o.Segment >= SegmentCount() {
			t.Fatalf("segment %d out of range", o.Segment)
		}
	}
}
