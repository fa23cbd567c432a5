package games

import (
	"github.com/shopspring/decimal"
)

// Baccarat winners as declared in an Outcome.
const (
	BaccaratPlayer = "player"
	BaccaratBanker = "banker"
	BaccaratTie    = "tie"
)

var (
	baccaratPlayerPayout = decimal.NewFromInt(2)
	baccaratBankerPayout = decimal.RequireFromString("1.95") // 5% commission
	baccaratTiePayout    = decimal.NewFromInt(9)
)

// BaccaratRules implements punto banco. Player, banker and tie bets may be
// staked simultaneously; draws follow the fixed third-card tableau.
type BaccaratRules struct{}

func (BaccaratRules) Spec() Spec {
	return Spec{
		ID:       "baccarat",
		Name:     "Baccarat",
		MultiBet: true,
		Kinds:    []BetKind{KindPlayer, KindBanker, KindTie},
	}
}

func (BaccaratRules) Validate(b Bet) error {
	switch b.Kind {
	case KindPlayer, KindBanker, KindTie:
		return nil
	default:
		return kindError("baccarat", b.Kind)
	}
}

func (BaccaratRules) Payout(b Bet, o Outcome) (decimal.Decimal, bool) {
	switch {
	case b.Kind == KindPlayer && o.Winner == BaccaratPlayer:
		return baccaratPlayerPayout, true
	case b.Kind == KindBanker && o.Winner == BaccaratBanker:
		return baccaratBankerPayout, true
	case b.Kind == KindTie && o.Winner == BaccaratTie:
		return baccaratTiePayout, true
	default:
		return decimal.Zero, false
	}
}

// IsNatural reports whether an initial two-card hand ends the round at once.
func IsNatural(score int) bool {
	return score >= 8
}

// PlayerShouldDraw is the player-side tableau: draw a third card on 0-5.
func PlayerShouldDraw(playerScore int) bool {
	return playerScore <= 5
}

// BankerShouldDraw is the banker-side tableau. playerDrew reports whether the
// player took a third card; playerThird is that card's point value and is
// only read when playerDrew is true.
func BankerShouldDraw(bankerScore int, playerDrew bool, playerThird int) bool {
	if !playerDrew {
		// Player stood on 6 or 7: banker draws on 0-5.
		return bankerScore <= 5
	}

	switch bankerScore {
	case 0, 1, 2:
		return true
	case 3:
		return playerThird != 8
	case 4:
		return playerThird >= 2 && playerThird <= 7
	case 5:
		return playerThird >= 4 && playerThird <= 7
	case 6:
		return playerThird == 6 || playerThird == 7
	default: // 7
		return false
	}
}

// BaccaratWinner compares final scores.
func BaccaratWinner(playerScore, bankerScore int) string {
	switch {
	case playerScore > bankerScore:
		return BaccaratPlayer
	case bankerScore > playerScore:
		return BaccaratBanker
	default:
		return BaccaratTie
	}
}

func init() {
	Register(BaccaratRules{})
}
