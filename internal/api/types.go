package api

import (
	"github.com/maxbet-labs/casino-sim-go/internal/games"
	"github.com/maxbet-labs/casino-sim-go/internal/table"
)

// EngineError represents a structured error response with context
type EngineError struct {
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	Context   map[string]interface{} `json:"context,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp string                 `json:"timestamp,omitempty"`
}

// Error implements the error interface
func (e EngineError) Error() string {
	return e.Message
}

// Error types with proper categorization
const (
	// Input validation errors
	ErrTypeValidation    = "validation_error"
	ErrTypeInvalidBet    = "invalid_bet"
	ErrTypeInvalidParams = "invalid_params"

	// Game state errors
	ErrTypeGameNotFound      = "game_not_found"
	ErrTypeInvalidPhase      = "invalid_phase"
	ErrTypeNoBets            = "no_bets"
	ErrTypeInsufficientFunds = "insufficient_funds"
	ErrTypeUnknownAction     = "unknown_action"

	// System errors
	ErrTypeScript   = "script_error"
	ErrTypeInternal = "internal_error"
)

// ErrorCategory represents error categories for monitoring
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryGame       ErrorCategory = "game"
	CategorySystem     ErrorCategory = "system"
)

// GetErrorCategory returns the category for an error type
func GetErrorCategory(errType string) ErrorCategory {
	switch errType {
	case ErrTypeValidation, ErrTypeInvalidBet, ErrTypeInvalidParams:
		return CategoryValidation
	case ErrTypeGameNotFound, ErrTypeInvalidPhase, ErrTypeNoBets,
		ErrTypeInsufficientFunds, ErrTypeUnknownAction:
		return CategoryGame
	default:
		return CategorySystem
	}
}

// PlaceBetRequest is the body for POST /{game}/bets
type PlaceBetRequest struct {
	Kind   string `json:"kind"`
	Value  int    `json:"value,omitempty"`
	Amount int64  `json:"amount"`
}

// ActRequest is the body for POST /{game}/act
type ActRequest struct {
	Action string `json:"action"`
}

// BalanceResponse reports a bankroll after a reset
type BalanceResponse struct {
	Balance int64 `json:"balance"`
}

// GamesResponse lists the registered games
type GamesResponse struct {
	Games []games.Spec `json:"games"`
}

// StateResponse wraps a table snapshot
type StateResponse struct {
	State table.Snapshot `json:"state"`
}

// SeedsResponse discloses the session's verifiable-randomness commitments.
// The server seed itself is never exposed while the session is live.
type SeedsResponse struct {
	ServerSeedHash string `json:"serverSeedHash"`
	ClientSeed     string `json:"clientSeed"`
	Nonce          uint64 `json:"nonce"`
}

// ScriptRunRequest is the body for POST /scripts/run
type ScriptRunRequest struct {
	Script string `json:"script"`
}
