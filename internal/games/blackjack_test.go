package games

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDealerShouldDraw(t *testing.T) {
	tests := []struct {
		name  string
		ranks []string
		want  bool
	}{
		{"sixteen draws", []string{"K", "6"}, true},
		{"seventeen stands", []string{"K", "7"}, false},
		{"soft seventeen stands", []string{"A", "6"}, false},
		{"twelve draws", []string{"8", "4"}, true},
		{"twenty stands", []string{"K", "Q"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DealerShouldDraw(cards(tt.ranks...)); got != tt.want {
				t.Errorf("DealerShouldDraw(%v) = %v, want %v", tt.ranks, got, tt.want)
			}
		})
	}
}

func TestCompareHands(t *testing.T) {
	tests := []struct {
		name   string
		player []string
		dealer []string
		want   string
	}{
		{"dealer busts", []string{"K", "9"}, []string{"K", "6", "8"}, BlackjackDealerBust},
		{"player higher", []string{"K", "9"}, []string{"K", "8"}, BlackjackWin},
		{"dealer higher", []string{"K", "7"}, []string{"K", "9"}, BlackjackLose},
		{"push", []string{"K", "9"}, []string{"Q", "9"}, BlackjackPush},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompareHands(cards(tt.player...), cards(tt.dealer...)); got != tt.want {
				t.Errorf("CompareHands = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBlackjackPayout(t *testing.T) {
	r := BlackjackRules{}
	bet := Bet{Kind: KindStake, Amount: 100}

	tests := []struct {
		result   string
		wantMult string
		wantWin  bool
	}{
		{BlackjackNatural, "2.5", true},
		{BlackjackWin, "2", true},
		{BlackjackDealerBust, "2", true},
		{BlackjackPush, "1", true},
		{BlackjackBust, "0", false},
		{BlackjackLose, "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.result, func(t *testing.T) {
			mult, win := r.Payout(bet, Outcome{HandResult: tt.result})
			if win != tt.wantWin {
				t.Fatalf("win = %v, want %v", win, tt.wantWin)
			}
			if !mult.Equal(decimal.RequireFromString(tt.wantMult)) {
				t.Fatalf("mult = %s, want %s", mult, tt.wantMult)
			}
		})
	}
}
