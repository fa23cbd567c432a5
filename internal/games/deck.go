package games

import (
	"errors"
	"math"
)

// ErrEmptyDeck is returned when drawing from an exhausted deck. With a fresh
// 52-card deck per round and at most ~10 draws per round it should never be
// seen outside of tests.
var ErrEmptyDeck = errors.New("deck is empty")

// FloatSource supplies uniform floats in [0, 1). The engine's HMAC stream is
// the production implementation; tests substitute fixed sequences.
type FloatSource interface {
	NextFloat() float64
}

// IntN maps one float from src to a uniform integer in [0, n).
func IntN(src FloatSource, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(math.Floor(src.NextFloat() * float64(n)))
	if i >= n {
		i = n - 1
	}
	return i
}

// Deck is an ordered sequence of cards, drawn from the end. A deck is built
// fresh for each round and discarded with it.
type Deck struct {
	cards []Card
}

// NewDeck builds the standard 52-card deck and shuffles it with src.
func NewDeck(src FloatSource) *Deck {
	cards := make([]Card, 0, 52)
	for _, suit := range cardSuits {
		for _, rank := range cardRanks {
			cards = append(cards, Card{Rank: rank, Suit: suit})
		}
	}
	d := &Deck{cards: cards}
	d.shuffle(src)
	return d
}

// shuffle applies a Fisher–Yates permutation: every index from last to first
// is swapped with a uniformly chosen index in [0, i].
func (d *Deck) shuffle(src FloatSource) {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := IntN(src, i+1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the last card.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEmptyDeck
	}
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c, nil
}

// Len returns the number of cards remaining.
func (d *Deck) Len() int {
	return len(d.cards)
}
