package games

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

// ErrInvalidBet rejects a bet whose kind or value is not legal for the game.
var ErrInvalidBet = errors.New("invalid bet")

// BetKind identifies what a wager is riding on. Kinds are game-specific;
// single-bet games (blackjack, slots, wheel, crash) use KindStake.
type BetKind string

const (
	KindStake BetKind = "stake"

	// Roulette
	KindNumber BetKind = "number"
	KindRed    BetKind = "red"
	KindBlack  BetKind = "black"
	KindOdd    BetKind = "odd"
	KindEven   BetKind = "even"
	KindLow    BetKind = "low"
	KindHigh   BetKind = "high"

	// Baccarat
	KindPlayer BetKind = "player"
	KindBanker BetKind = "banker"
	KindTie    BetKind = "tie"

	// Dice
	KindOver  BetKind = "over"
	KindUnder BetKind = "under"
	KindExact BetKind = "exact"
)

// Bet is a single pending wager. Value carries the target for kinds that
// need one (straight roulette number, dice total); it is ignored otherwise.
type Bet struct {
	Kind   BetKind `json:"kind"`
	Value  int     `json:"value,omitempty"`
	Amount int64   `json:"amount"`
}

// Outcome is the declared terminal result of a round. Each game fills only
// the fields its win predicate reads.
type Outcome struct {
	Pocket     int      `json:"pocket,omitempty"`     // roulette 0-36
	Color      string   `json:"color,omitempty"`      // roulette
	Dice       [2]int   `json:"dice,omitempty"`       // dice pair
	Winner     string   `json:"winner,omitempty"`     // baccarat: player/banker/tie
	HandResult string   `json:"handResult,omitempty"` // blackjack: blackjack/win/dealer-bust/push/bust/lose
	Reels      []Symbol `json:"reels,omitempty"`      // slots
	Segment    int      `json:"segment,omitempty"`    // wheel segment index
	Multiplier float64  `json:"multiplier,omitempty"` // wheel segment or crash cash-out value
	CashedOut  bool     `json:"cashedOut,omitempty"`  // crash
}

// Spec is game metadata for listings and the registry.
type Spec struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	MultiBet bool      `json:"multiBet"`
	Kinds    []BetKind `json:"kinds"`
}

// Rules is the per-game contract unifying bet validation, payout tables and
// win predicates. One implementation exists per game; everything the ledger
// needs to settle a round goes through it.
type Rules interface {
	Spec() Spec

	// Validate reports whether the bet's kind and value are legal for this
	// game. Amount validation belongs to the ledger.
	Validate(b Bet) error

	// Payout returns the total-return multiplier for a winning bet and
	// whether the bet wins against the outcome. Losing bets return zero.
	Payout(b Bet, o Outcome) (decimal.Decimal, bool)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Rules)
)

// Register adds a game to the registry. Called from init in each game file.
func Register(r Rules) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[r.Spec().ID] = r
}

// Get retrieves a game's rules by id.
func Get(id string) (Rules, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	r, ok := registry[id]
	return r, ok
}

// List returns the specs of all registered games, sorted by id.
func List() []Spec {
	registryMu.RLock()
	defer registryMu.RUnlock()
	specs := make([]Spec, 0, len(registry))
	for _, r := range registry {
		specs = append(specs, r.Spec())
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].ID < specs[j].ID })
	return specs
}

func kindError(game string, k BetKind) error {
	return fmt.Errorf("%w: kind %q is not valid for %s", ErrInvalidBet, k, game)
}
