package games

import (
	"github.com/shopspring/decimal"
)

// Blackjack hand results as declared in an Outcome.
const (
	BlackjackNatural    = "blackjack"
	BlackjackWin        = "win"
	BlackjackDealerBust = "dealer-bust"
	BlackjackPush       = "push"
	BlackjackBust       = "bust"
	BlackjackLose       = "lose"
)

var (
	blackjackNaturalPayout = decimal.RequireFromString("2.5")
	blackjackWinPayout     = decimal.NewFromInt(2)
	blackjackPushPayout    = decimal.NewFromInt(1)
)

// BlackjackRules implements blackjack against a house dealer. Single stake
// bet; the hand result is produced by the table's turn machine and settled
// here.
type BlackjackRules struct{}

func (BlackjackRules) Spec() Spec {
	return Spec{
		ID:    "blackjack",
		Name:  "Blackjack",
		Kinds: []BetKind{KindStake},
	}
}

func (BlackjackRules) Validate(b Bet) error {
	if b.Kind != KindStake {
		return kindError("blackjack", b.Kind)
	}
	return nil
}

func (BlackjackRules) Payout(b Bet, o Outcome) (decimal.Decimal, bool) {
	switch o.HandResult {
	case BlackjackNatural:
		return blackjackNaturalPayout, true
	case BlackjackWin, BlackjackDealerBust:
		return blackjackWinPayout, true
	case BlackjackPush:
		return blackjackPushPayout, true
	default:
		return decimal.Zero, false
	}
}

// DealerShouldDraw is the house policy: draw while under 17, stand on 17 or
// better, soft or hard.
func DealerShouldDraw(dealer []Card) bool {
	return BlackjackHandValue(dealer) < 17
}

// CompareHands resolves a finished round where the player has stood. Busted
// player hands never reach here.
func CompareHands(player, dealer []Card) string {
	playerScore := BlackjackHandValue(player)
	dealerScore := BlackjackHandValue(dealer)

	switch {
	case dealerScore > 21:
		return BlackjackDealerBust
	case playerScore > dealerScore:
		return BlackjackWin
	case playerScore < dealerScore:
		return BlackjackLose
	default:
		return BlackjackPush
	}
}

func init() {
	Register(BlackjackRules{})
}
