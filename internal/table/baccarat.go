package table

import (
	"fmt"

	"github.com/maxbet-labs/casino-sim-go/internal/games"
)

// Baccarat drives a punto banco round: four-card deal, natural check, then
// the third-card tableau on request.
type Baccarat struct {
	core
	rules  games.BaccaratRules
	deck   *games.Deck
	player []games.Card
	banker []games.Card
}

// NewBaccarat creates a baccarat table.
func NewBaccarat(opts Options) *Baccarat {
	return &Baccarat{core: newCore("baccarat", opts)}
}

func (t *Baccarat) Game() string { return t.game }

// PlaceBet stakes player, banker or tie. Multiple simultaneous bets are
// allowed.
func (t *Baccarat) PlaceBet(b games.Bet) error {
	t.mu.Lock()
	if err := t.requirePhase(PhaseBetting); err != nil {
		t.mu.Unlock()
		return err
	}
	if err := t.rules.Validate(b); err != nil {
		t.mu.Unlock()
		return err
	}
	if err := t.ledger.Place(b); err != nil {
		t.mu.Unlock()
		return err
	}
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)
	return nil
}

// ClearBets refunds all pending bets.
func (t *Baccarat) ClearBets() error {
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

// Start deals player, banker, player, banker as scheduled reveal steps. A
// natural 8 or 9 on either hand resolves the round immediately; otherwise
// the table waits in the drawing phase for the third-card action.
func (t *Baccarat) Start() error {
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
	t.banker = nil
	t.phase = PhaseDealing
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)

	t.seq.run(t.instant, []step{
		{dealStepDelay, func() { t.dealTo(&t.player) }},
		{dealStepDelay, func() { t.dealTo(&t.banker) }},
		{dealStepDelay, func() { t.dealTo(&t.player) }},
		{dealStepDelay, func() { t.dealTo(&t.banker) }},
		{dealStepDelay, t.evaluateDeal},
	})
	return nil
}

func (t *Baccarat) dealTo(hand *[]games.Card) {
	t.mu.Lock()
	if t.phase != PhaseDealing {
		t.mu.Unlock()
		return
	}
	card, err := t.deck.Draw()
	if err != nil {
		t.logger.Printf("baccarat: %v", err)
		t.mu.Unlock()
		return
	}
	*hand = append(*hand, card)
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)
}

func (t *Baccarat) evaluateDeal() {
	t.mu.Lock()
	if t.phase != PhaseDealing {
		t.mu.Unlock()
		return
	}

	playerScore := games.BaccaratHandScore(t.player)
	bankerScore := games.BaccaratHandScore(t.banker)

	if games.IsNatural(playerScore) || games.IsNatural(bankerScore) {
		t.resolve()
	} else {
		t.phase = PhaseDrawing
	}
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)
}

// DrawThird applies the third-card tableau: player draws on 0-5, then the
// banker decision depends on its own score and the player's third card.
// The round resolves as part of the same action.
func (t *Baccarat) DrawThird() error {
	t.mu.Lock()
	if err := t.requirePhase(PhaseDrawing); err != nil {
		t.mu.Unlock()
		return err
	}

	playerScore := games.BaccaratHandScore(t.player)
	bankerScore := games.BaccaratHandScore(t.banker)

	playerDrew := false
	playerThird := 0
	if games.PlayerShouldDraw(playerScore) {
		card, err := t.deck.Draw()
		if err != nil {
			t.mu.Unlock()
			return err
		}
		t.player = append(t.player, card)
		playerDrew = true
		playerThird = games.BaccaratCardValue(card.Rank)
	}

	if games.BankerShouldDraw(bankerScore, playerDrew, playerThird) {
		card, err := t.deck.Draw()
		if err != nil {
			t.mu.Unlock()
			return err
		}
		t.banker = append(t.banker, card)
	}

	t.resolve()
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)
	return nil
}

// resolve settles against the final scores. Caller holds the lock.
func (t *Baccarat) resolve() {
	playerScore := games.BaccaratHandScore(t.player)
	bankerScore := games.BaccaratHandScore(t.banker)
	winner := games.BaccaratWinner(playerScore, bankerScore)

	var text string
	switch winner {
	case games.BaccaratPlayer:
		text = fmt.Sprintf("Player wins %d to %d!", playerScore, bankerScore)
	case games.BaccaratBanker:
		text = fmt.Sprintf("Banker wins %d to %d!", bankerScore, playerScore)
	default:
		text = fmt.Sprintf("Tie at %d!", playerScore)
	}

	t.settle(t.rules, games.Outcome{Winner: winner}, text)
}

// Act dispatches the game-specific action.
func (t *Baccarat) Act(action string) error {
	switch action {
	case "draw_third", "draw":
		return t.DrawThird()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}

// ResetRound discards deck, hands and unsettled bets, keeping the balance.
func (t *Baccarat) ResetRound() {
	t.seq.cancel()
	t.mu.Lock()
	t.deck = nil
	t.player = nil
	t.banker = nil
	t.clearRound()
	snap := t.snapshotLocked()
	t.mu.Unlock()
	t.emit(snap)
}

// ResetBalance restores the starting bankroll.
func (t *Baccarat) ResetBalance() int64 {
	return t.resetBalance()
}

// Snapshot returns the current observable state.
func (t *Baccarat) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Baccarat) snapshotLocked() Snapshot {
	s := t.baseSnapshot()
	s.PlayerHand = games.CardStrings(t.player)
	s.BankerHand = games.CardStrings(t.banker)
	if len(t.player) > 0 {
		s.PlayerScore = games.BaccaratHandScore(t.player)
	}
	if len(t.banker) > 0 {
		s.BankerScore = games.BaccaratHandScore(t.banker)
	}
	return s
}

// Close cancels any scheduled steps.
func (t *Baccarat) Close() {
	t.seq.cancel()
}
