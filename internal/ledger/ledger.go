// Package ledger tracks a player's balance and pending wagers for one table.
// It is not goroutine safe: each table serializes access under its own lock.
package ledger

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/maxbet-labs/casino-sim-go/internal/games"
)

// StartingBalance is the in-memory bankroll a session begins with and the
// value an explicit balance reset restores.
const StartingBalance = 1000

var (
	// ErrInvalidAmount rejects non-positive bets.
	ErrInvalidAmount = errors.New("bet amount must be positive")
	// ErrInsufficientFunds rejects bets larger than the current balance.
	ErrInsufficientFunds = errors.New("bet amount exceeds balance")
)

// Ledger holds a balance and the bets pending for the current round. Bets
// are debited when placed and credited at settlement.
type Ledger struct {
	balance int64
	pending []games.Bet
}

// New creates a ledger with the starting balance.
func New() *Ledger {
	return &Ledger{balance: StartingBalance}
}

// Balance returns the current balance.
func (l *Ledger) Balance() int64 {
	return l.balance
}

// Pending returns the bets awaiting settlement.
func (l *Ledger) Pending() []games.Bet {
	out := make([]games.Bet, len(l.pending))
	copy(out, l.pending)
	return out
}

// TotalWager returns the sum of pending bet amounts.
func (l *Ledger) TotalWager() int64 {
	var total int64
	for _, b := range l.pending {
		total += b.Amount
	}
	return total
}

// Place validates the amount, debits the balance immediately and appends the
// bet to the pending list.
func (l *Ledger) Place(b games.Bet) error {
	if b.Amount <= 0 {
		return ErrInvalidAmount
	}
	if b.Amount > l.balance {
		return ErrInsufficientFunds
	}
	l.balance -= b.Amount
	l.pending = append(l.pending, b)
	return nil
}

// PlaceSingle replaces any pending bet with b, refunding what it displaces.
// Single-bet games overwrite rather than accumulate.
func (l *Ledger) PlaceSingle(b games.Bet) error {
	if b.Amount <= 0 {
		return ErrInvalidAmount
	}
	refund := l.TotalWager()
	if b.Amount > l.balance+refund {
		return ErrInsufficientFunds
	}
	l.Clear()
	return l.Place(b)
}

// Clear refunds every pending bet and empties the list. Legal only before
// resolution; the table layer enforces the phase.
func (l *Ledger) Clear() {
	l.balance += l.TotalWager()
	l.pending = nil
}

// Settle consumes all pending bets against the declared outcome, crediting
// floor(amount x multiplier) for each winner. It returns the total credited.
// Pending bets are cleared as part of the same step, so a second call for
// the same round credits nothing.
func (l *Ledger) Settle(o games.Outcome, r games.Rules) int64 {
	var won int64
	for _, b := range l.pending {
		mult, ok := r.Payout(b, o)
		if !ok {
			continue
		}
		won += decimal.NewFromInt(b.Amount).Mul(mult).Floor().IntPart()
	}
	l.balance += won
	l.pending = nil
	return won
}

// ResetBalance restores the starting balance. Pending bets are untouched;
// callers reset the round first.
func (l *Ledger) ResetBalance() {
	l.balance = StartingBalance
}
