package table

import (
	"fmt"
	"time"

	"github.com/maxbet-labs/casino-sim-go/internal/games"
)

const (
	dealStepDelay   = 350 * time.Millisecond
	dealerStepDelay = 600 * time.Millisecond
)

// Blackjack drives a single-seat blackjack round: deal, player hit/stand,
// dealer draws to 17, settle.
type Blackjack struct {
	core
	rules  games.BlackjackRules
	deck   *games.Deck
	player []games.Card
	dealer []games.Card
}

// NewBlackjack creates a blackjack table.
func NewBlackjack(opts Options) *Blackjack {
	return &Blackjack{core: newCore("blackjack", opts)}
}

func (t *Blackjack) Game() string { return t.game }

// PlaceBet stakes the round. Blackjack takes one bet; placing again before
// the deal replaces the previous stake.
func (t *Blackjack) PlaceBet(b games.Bet) error {
	t.mu.Lock()
	if err := t.requirePhase(PhaseBetting); err != nil {
		t.mu.Unlock()
		return err
	}
	if err := t.rules.Validate(b); err != nil {
		t.mu.Unlock()
		return err
	}
	if err := t.ledger.PlaceSingle(b); err != nil {
		t.mu.Unlock()
		return err
	}
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)
	return nil
}

// ClearBets refunds the pending stake.
func (t *Blackjack) ClearBets() error {
	t.mu.Lock()
	if err := t.requirePhase(PhaseBetting); err != nil {
		t.mu.Unlock()
		return err
	}
	t.ledger.Clear()
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)
	return nil
}

// Start shuffles a fresh deck and deals player, dealer, player, dealer as
// four scheduled reveal steps, then evaluates naturals.
func (t *Blackjack) Start() error {
	t.mu.Lock()
	if err := t.requirePhase(PhaseBetting); err != nil {
		t.mu.Unlock()
		return err
	}
	if t.ledger.TotalWager() == 0 {
		t.mu.Unlock()
		return ErrNoBets
	}
	t.deck = games.NewDeck(t.source.NextRound())
	t.player = nil
	t.dealer = nil
	t.phase = PhaseDealing
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)

	t.seq.run(t.instant, []step{
		{dealStepDelay, func() { t.dealTo(&t.player) }},
		{dealStepDelay, func() { t.dealTo(&t.dealer) }},
		{dealStepDelay, func() { t.dealTo(&t.player) }},
		{dealStepDelay, func() { t.dealTo(&t.dealer) }},
		{dealStepDelay, t.evaluateDeal},
	})
	return nil
}

// dealTo draws one card into the given hand if the round is still dealing.
func (t *Blackjack) dealTo(hand *[]games.Card) {
	t.mu.Lock()
	if t.phase != PhaseDealing {
		t.mu.Unlock()
		return
	}
	card, err := t.deck.Draw()
	if err != nil {
		t.logger.Printf("blackjack: %v", err)
		t.mu.Unlock()
		return
	}
	*hand = append(*hand, card)
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)
}

// evaluateDeal checks for naturals once the opening four cards are out.
func (t *Blackjack) evaluateDeal() {
	t.mu.Lock()
	if t.phase != PhaseDealing {
		t.mu.Unlock()
		return
	}

	playerScore := games.BlackjackHandValue(t.player)
	dealerScore := games.BlackjackHandValue(t.dealer)

	switch {
	case playerScore == 21 && dealerScore == 21:
		t.resolve(games.BlackjackPush)
	case playerScore == 21:
		t.resolve(games.BlackjackNatural)
	default:
		t.phase = PhasePlayerTurn
	}
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)
}

// Hit draws one card for the player. Busting settles the round at once.
func (t *Blackjack) Hit() error {
	t.mu.Lock()
	if err := t.requirePhase(PhasePlayerTurn); err != nil {
		t.mu.Unlock()
		return err
	}
	card, err := t.deck.Draw()
	if err != nil {
		t.mu.Unlock()
		return err
	}
	t.player = append(t.player, card)
	if games.BlackjackHandValue(t.player) > 21 {
		t.resolve(games.BlackjackBust)
	}
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)
	return nil
}

// Stand ends the player's turn and hands the round to the dealer.
func (t *Blackjack) Stand() error {
	t.mu.Lock()
	if err := t.requirePhase(PhasePlayerTurn); err != nil {
		t.mu.Unlock()
		return err
	}
	t.phase = PhaseDealerTurn
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)

	t.scheduleDealerStep()
	return nil
}

// scheduleDealerStep runs one dealer decision: draw while under 17, else
// compare hands and settle. Each step re-reads the committed hand state.
func (t *Blackjack) scheduleDealerStep() {
	t.seq.run(t.instant, []step{{dealerStepDelay, func() {
		t.mu.Lock()
		if t.phase != PhaseDealerTurn {
			t.mu.Unlock()
			return
		}

		if games.DealerShouldDraw(t.dealer) {
			card, err := t.deck.Draw()
			if err != nil {
				t.logger.Printf("blackjack: %v", err)
				t.mu.Unlock()
				return
			}
			t.dealer = append(t.dealer, card)
			snap := t.snapshotLocked()
			t.mu.Unlock()
			t.emit(snap)
			t.scheduleDealerStep()
			return
		}

		t.resolve(games.CompareHands(t.player, t.dealer))
		snap := t.snapshotLocked()
		t.mu.Unlock()
		t.emit(snap)
	}}})
}

// resolve settles the round with the given hand result. Caller holds the lock.
func (t *Blackjack) resolve(handResult string) {
	o := games.Outcome{HandResult: handResult}
	t.settle(t.rules, o, blackjackResultText(handResult))
}

func blackjackResultText(handResult string) string {
	switch handResult {
	case games.BlackjackNatural:
		return "Blackjack! You win!"
	case games.BlackjackDealerBust:
		return "Dealer busts! You win!"
	case games.BlackjackWin:
		return "You win!"
	case games.BlackjackPush:
		return "Push! It's a tie!"
	case games.BlackjackBust:
		return "Bust! You lose!"
	default:
		return "You lose!"
	}
}

// Act dispatches the game-specific player actions.
func (t *Blackjack) Act(action string) error {
	switch action {
	case "hit":
		return t.Hit()
	case "stand":
		return t.Stand()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}

// ResetRound discards deck, hands and unsettled bets, keeping the balance.
// Calling it twice in a row is a no-op after the first call.
func (t *Blackjack) ResetRound() {
	t.seq.cancel()
	t.mu.Lock()
	t.deck = nil
	t.player = nil
	t.dealer = nil
	t.clearRound()
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)
}

// ResetBalance restores the starting bankroll.
func (t *Blackjack) ResetBalance() int64 {
	return t.resetBalance()
}

// Snapshot returns the current observable state.
func (t *Blackjack) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Blackjack) snapshotLocked() Snapshot {
	s := t.baseSnapshot()
	s.PlayerHand = games.CardStrings(t.player)
	s.DealerHand = games.CardStrings(t.dealer)
	if len(t.player) > 0 {
		s.PlayerScore = games.BlackjackHandValue(t.player)
	}
	if len(t.dealer) > 0 {
		s.DealerScore = games.BlackjackHandValue(t.dealer)
	}
	return s
}

// Close cancels any scheduled steps.
func (t *Blackjack) Close() {
	t.seq.cancel()
}
