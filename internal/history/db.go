package history

import (
	"time"
)

// DB represents the round history database interface
type DB interface {
	Close() error
	Migrate() error
	SaveRound(round *Round) error
	SaveRounds(rounds []Round) error
	GetRound(id string) (*Round, error)
	ListRounds(query RoundsQuery) (*RoundsList, error)
	Summary(game string) (*Summary, error)
}

// Round is one settled round of any game.
type Round struct {
	ID           string    `json:"id" db:"id"`
	Game         string    `json:"game" db:"game"`
	Wager        int64     `json:"wager" db:"wager"`
	Won          int64     `json:"won" db:"won"`
	Result       string    `json:"result" db:"result"`
	BalanceAfter int64     `json:"balanceAfter" db:"balance_after"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// RoundsQuery represents query parameters for listing rounds
type RoundsQuery struct {
	Game    string `json:"game,omitempty"`
	Page    int    `json:"page"`
	PerPage int    `json:"perPage"`
}

// RoundsList represents a paginated rounds response
type RoundsList struct {
	Rounds     []Round `json:"rounds"`
	TotalCount int     `json:"totalCount"`
	Page       int     `json:"page"`
	PerPage    int     `json:"perPage"`
	TotalPages int     `json:"totalPages"`
}

// Summary aggregates settled rounds, optionally filtered to one game.
type Summary struct {
	Game       string `json:"game,omitempty"`
	Rounds     int    `json:"rounds"`
	TotalWager int64  `json:"totalWager"`
	TotalWon   int64  `json:"totalWon"`
	Net        int64  `json:"net"`
}
