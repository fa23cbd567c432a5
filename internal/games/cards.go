package games

// Card is a playing card. The numeric value of a card depends on the game
// scoring it, so only rank and suit are stored.
type Card struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

// String returns a human-readable representation like "♦2" or "♠A".
func (c Card) String() string {
	return c.Suit + c.Rank
}

// Suits in deal order: ♦, ♥, ♠, ♣
var cardSuits = []string{"♦", "♥", "♠", "♣"}

// Ranks in order: 2-10, J, Q, K, A
var cardRanks = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

// BaccaratCardValue returns the baccarat point value of a card.
// 2-9: face value, 10/J/Q/K: 0, A: 1
func BaccaratCardValue(rank string) int {
	switch rank {
	case "A":
		return 1
	case "2":
		return 2
	case "3":
		return 3
	case "4":
		return 4
	case "5":
		return 5
	case "6":
		return 6
	case "7":
		return 7
	case "8":
		return 8
	case "9":
		return 9
	default: // 10, J, Q, K
		return 0
	}
}

// BlackjackCardValue returns the blackjack point value of a card.
// 2-10: face value, J/Q/K: 10, A: 11 (soft)
func BlackjackCardValue(rank string) int {
	switch rank {
	case "A":
		return 11
	case "J", "Q", "K", "10":
		return 10
	case "2":
		return 2
	case "3":
		return 3
	case "4":
		return 4
	case "5":
		return 5
	case "6":
		return 6
	case "7":
		return 7
	case "8":
		return 8
	case "9":
		return 9
	default:
		return 0
	}
}

// BlackjackHandValue calculates the best blackjack hand value, demoting soft
// aces from 11 to 1 while the total is over 21. Busted totals are returned
// unmodified once no soft ace remains.
func BlackjackHandValue(cards []Card) int {
	total := 0
	aces := 0
	for _, c := range cards {
		total += BlackjackCardValue(c.Rank)
		if c.Rank == "A" {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// BaccaratHandScore calculates the baccarat hand score (sum of values mod 10).
func BaccaratHandScore(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += BaccaratCardValue(c.Rank)
	}
	return total % 10
}

// CardStrings renders a hand for snapshots and result text.
func CardStrings(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
