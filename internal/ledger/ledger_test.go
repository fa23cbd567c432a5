package ledger

import (
	"testing"

	"github.com/maxbet-labs/casino-sim-go/internal/games"
)

func TestNewLedgerStartsAtStartingBalance(t *testing.T) {
	l := New()
	if l.Balance() != StartingBalance {
		t.Fatalf("Balance() = %d, want %d", l.Balance(), StartingBalance)
	}
}

func TestPlaceDebitsImmediately(t *testing.T) {
	l := New()
	if err := l.Place(games.Bet{Kind: games.KindRed, Amount: 100}); err != nil {
		t.Fatalf("Place() error: %v", err)
	}
	if l.Balance() != StartingBalance-100 {
		t.Fatalf("Balance() = %d, want %d", l.Balance(), StartingBalance-100)
	}
	if l.TotalWager() != 100 {
		t.Fatalf("TotalWager() = %d, want 100", l.TotalWager())
	}
}

func TestPlaceRejectsBadAmounts(t *testing.T) {
	l := New()
	if err := l.Place(games.Bet{Kind: games.KindRed, Amount: 0}); err != ErrInvalidAmount {
		t.Errorf("zero amount: got %v, want ErrInvalidAmount", err)
	}
	if err := l.Place(games.Bet{Kind: games.KindRed, Amount: -5}); err != ErrInvalidAmount {
		t.Errorf("negative amount: got %v, want ErrInvalidAmount", err)
	}
	if err := l.Place(games.Bet{Kind: games.KindRed, Amount: StartingBalance + 1}); err != ErrInsufficientFunds {
		t.Errorf("over balance: got %v, want ErrInsufficientFunds", err)
	}
	if l.Balance() != StartingBalance {
		t.Fatalf("failed places must not move the balance, got %d", l.Balance())
	}
}

func TestPlaceSingleReplacesPendingBet(t *testing.T) {
	l := New()
	if err := l.PlaceSingle(games.Bet{Kind: games.KindStake, Amount: 300}); err != nil {
		t.Fatalf("first PlaceSingle() error: %v", err)
	}
	if err := l.PlaceSingle(games.Bet{Kind: games.KindStake, Amount: 900}); err != nil {
		t.Fatalf("second PlaceSingle() error: %v", err)
	}
	if l.Balance() != StartingBalance-900 {
		t.Fatalf("Balance() = %d, want %d", l.Balance(), StartingBalance-900)
	}
	if got := len(l.Pending()); got != 1 {
		t.Fatalf("len(Pending()) = %d, want 1", got)
	}
}

func TestPlaceSingleCountsRefundTowardFunds(t *testing.T) {
	l := New()
	if err := l.PlaceSingle(games.Bet{Kind: games.KindStake, Amount: StartingBalance}); err != nil {
		t.Fatalf("all-in PlaceSingle() error: %v", err)
	}
	// Replacing the all-in bet with another all-in must succeed: the
	// displaced stake funds the new one.
	if err := l.PlaceSingle(games.Bet{Kind: games.KindStake, Amount: StartingBalance}); err != nil {
		t.Fatalf("replacement all-in PlaceSingle() error: %v", err)
	}
	if l.Balance() != 0 {
		t.Fatalf("Balance() = %d, want 0", l.Balance())
	}
}

func TestClearRefunds(t *testing.T) {
	l := New()
	_ = l.Place(games.Bet{Kind: games.KindRed, Amount: 100})
	_ = l.Place(games.Bet{Kind: games.KindNumber, Value: 17, Amount: 50})
	l.Clear()
	if l.Balance() != StartingBalance {
		t.Fatalf("Balance() = %d, want %d", l.Balance(), StartingBalance)
	}
	if len(l.Pending()) != 0 {
		t.Fatal("Pending() not empty after Clear()")
	}
}

func TestSettleFloorsWinnings(t *testing.T) {
	l := New()
	_ = l.Place(games.Bet{Kind: games.KindBanker, Amount: 40})
	// Banker pays 1.95x: floor(40 * 1.95) = 78.
	won := l.Settle(games.Outcome{Winner: games.BaccaratBanker}, games.BaccaratRules{})
	if won != 78 {
		t.Fatalf("Settle() = %d, want 78", won)
	}
	if l.Balance() != StartingBalance-40+78 {
		t.Fatalf("Balance() = %d, want %d", l.Balance(), StartingBalance-40+78)
	}
}

func TestSettleTwiceCreditsNothing(t *testing.T) {
	l := New()
	_ = l.Place(games.Bet{Kind: games.KindPlayer, Amount: 50})
	o := games.Outcome{Winner: games.BaccaratPlayer}
	first := l.Settle(o, games.BaccaratRules{})
	if first != 100 {
		t.Fatalf("first Settle() = %d, want 100", first)
	}
	second := l.Settle(o, games.BaccaratRules{})
	if second != 0 {
		t.Fatalf("second Settle() = %d, want 0", second)
	}
	if l.Balance() != StartingBalance+50 {
		t.Fatalf("Balance() = %d, want %d", l.Balance(), StartingBalance+50)
	}
}

func TestSettleMixedBets(t *testing.T) {
	l := New()
	_ = l.Place(games.Bet{Kind: games.KindRed, Amount: 100})
	_ = l.Place(games.Bet{Kind: games.KindNumber, Value: 1, Amount: 10})
	_ = l.Place(games.Bet{Kind: games.KindBlack, Amount: 200})

	// Pocket 1 is red: the red bet returns 200, the straight 350, black loses.
	won := l.Settle(games.Outcome{Pocket: 1, Color: "red"}, games.RouletteRules{})
	if won != 200+350 {
		t.Fatalf("Settle() = %d, want 550", won)
	}
	if l.Balance() != StartingBalance-310+550 {
		t.Fatalf("Balance() = %d, want %d", l.Balance(), StartingBalance-310+550)
	}
}

func TestResetBalance(t *testing.T) {
	l := New()
	_ = l.Place(games.Bet{Kind: games.KindRed, Amount: 500})
	_ = l.Settle(games.Outcome{Pocket: 2, Color: "black"}, games.RouletteRules{})
	l.ResetBalance()
	if l.Balance() != StartingBalance {
		t.Fatalf("Balance() = %d, want %d", l.Balance(), StartingBalance)
	}
}
