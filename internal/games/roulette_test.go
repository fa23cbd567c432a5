package games

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/maxbet-labs/casino-sim-go/internal/engine"
)

func TestRouletteSpinRange(t *testing.T) {
	src := engine.NewStream("server", "client", 1)
	r := RouletteRules{}

	counts := make(map[int]int)
	for i := 0; i < 10000; i++ {
		o := r.Spin(src)
		if o.Pocket < 0 || o.Pocket > 36 {
			t.Fatalf("pocket %d out of range", o.Pocket)
		}
		if o.Color != PocketColor(o.Pocket) {
			t.Fatalf("pocket %d color %q, want %q", o.Pocket, o.Color, PocketColor(o.Pocket))
		}
		counts[o.Pocket]++
	}

	// Every pocket should land at least once over 10k spins.
	for n := 0; n <= 36; n++ {
		if counts[n] == 0 {
			t.Errorf("pocket %d never landed", n)
		}
	}
}

func TestPocketColor(t *testing.T) {
	tests := []struct {
		pocket int
		want   string
	}{
		{0, "green"},
		{1, "red"},
		{2, "black"},
		{10, "black"},
		{11, "black"},
		{18, "red"},
		{19, "red"},
		{26, "black"},
		{28, "black"},
		{29, "black"},
		{36, "red"},
		{-1, ""},
		{37, ""},
	}

	for _, tt := range tests {
		if got := PocketColor(tt.pocket); got != tt.want {
			t.Errorf("PocketColor(%d) = %q, want %q", tt.pocket, got, tt.want)
		}
	}
}

func TestRoulettePayout(t *testing.T) {
	r := RouletteRules{}
	tests := []struct {
		name     string
		bet      Bet
		pocket   int
		wantMult string
		wantWin  bool
	}{
		{"straight hit", Bet{Kind: KindNumber, Value: 17, Amount: 10}, 17, "35", true},
		{"straight miss", Bet{Kind: KindNumber, Value: 17, Amount: 10}, 18, "0", false},
		{"red on red", Bet{Kind: KindRed, Amount: 10}, 1, "2", true},
		{"red on zero", Bet{Kind: KindRed, Amount: 10}, 0, "0", false},
		{"black on black", Bet{Kind: KindBlack, Amount: 10}, 2, "2", true},
		{"odd on odd", Bet{Kind: KindOdd, Amount: 10}, 35, "2", true},
		{"even on zero loses", Bet{Kind: KindEven, Amount: 10}, 0, "0", false},
		{"low boundary", Bet{Kind: KindLow, Amount: 10}, 18, "2", true},
		{"high boundary", Bet{Kind: KindHigh, Amount: 10}, 19, "2", true},
		{"high miss", Bet{Kind: KindHigh, Amount: 10}, 18, "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Outcome{Pocket: tt.pocket, Color: PocketColor(tt.pocket)}
			mult, win := r.Payout(tt.bet, o)
			if win != tt.wantWin {
				t.Fatalf("win = %v, want %v", win, tt.wantWin)
			}
			if !mult.Equal(decimal.RequireFromString(tt.wantMult)) {
				t.Fatalf("mult = %s, want %s", mult, tt.wantMult)
			}
		})
	}
}

func TestRouletteValidate(t *testing.T) {
	r := RouletteRules{}
	if err := r.Validate(Bet{Kind: KindNumber, Value: 37, Amount: 1}); err == nil {
		t.Error("expected error for number 37")
	}
	if err := r.Validate(Bet{Kind: KindStake, Amount: 1}); err == nil {
		t.Error("expected error for stake kind")
	}
	if err := r.Validate(Bet{Kind: KindRed, Amount: 1}); err != nil {
		t.Errorf("unexpected error for red: %v", err)
	}
}
