package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/maxbet-labs/casino-sim-go/internal/games"
	"github.com/maxbet-labs/casino-sim-go/internal/history"
	"github.com/maxbet-labs/casino-sim-go/internal/ledger"
)

// handleListGames returns the registered game specs
func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, GamesResponse{Games: games.List()})
}

// handleSeeds discloses the session's seed commitments
func (s *Server) handleSeeds(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, SeedsResponse{
		ServerSeedHash: s.session.ServerSeedHash(),
		ClientSeed:     s.session.ClientSeed(),
		Nonce:          s.session.Nonce(),
	})
}

// handleState returns a table's current snapshot
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	t, ok := s.table(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, StateResponse{State: t.Snapshot()})
}

// handlePlaceBet places one wager on a table
func (s *Server) handlePlaceBet(w http.ResponseWriter, r *http.Request) {
	t, ok := s.table(w, r)
	if !ok {
		return
	}

	var req PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorHandler.HandleValidationError(w, r, "body", "invalid JSON body")
		return
	}
	if req.Amount <= 0 {
		s.errorHandler.HandleValidationError(w, r, "amount", "amount must be positive")
		return
	}

	kind := games.BetKind(req.Kind)
	if kind == "" {
		kind = games.KindStake
	}
	bet := games.Bet{Kind: kind, Value: req.Value, Amount: req.Amount}
	if err := t.PlaceBet(bet); err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, StateResponse{State: t.Snapshot()})
}

// handleClearBets refunds all pending wagers on a table
func (s *Server) handleClearBets(w http.ResponseWriter, r *http.Request) {
	t, ok := s.table(w, r)
	if !ok {
		return
	}
	if err := t.ClearBets(); err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, StateResponse{State: t.Snapshot()})
}

// handleStart begins a round
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	t, ok := s.table(w, r)
	if !ok {
		return
	}
	if err := t.Start(); err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, StateResponse{State: t.Snapshot()})
}

// handleAct forwards a player action to the table
func (s *Server) handleAct(w http.ResponseWriter, r *http.Request) {
	t, ok := s.table(w, r)
	if !ok {
		return
	}

	var req ActRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorHandler.HandleValidationError(w, r, "body", "invalid JSON body")
		return
	}
	if req.Action == "" {
		s.errorHandler.HandleValidationError(w, r, "action", "action is required")
		return
	}

	if err := t.Act(req.Action); err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, StateResponse{State: t.Snapshot()})
}

// handleResetRound abandons the round, refunding unsettled bets
func (s *Server) handleResetRound(w http.ResponseWriter, r *http.Request) {
	t, ok := s.table(w, r)
	if !ok {
		return
	}
	t.ResetRound()
	s.writeJSON(w, http.StatusOK, StateResponse{State: t.Snapshot()})
}

// handleResetBalance restores every table's bankroll
func (s *Server) handleResetBalance(w http.ResponseWriter, r *http.Request) {
	balance := s.casino.ResetBalances()
	s.logger.Printf("balance reset to %d", ledger.StartingBalance)
	s.writeJSON(w, http.StatusOK, BalanceResponse{Balance: balance})
}

// handleListHistory returns settled rounds, newest first
func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.writeJSON(w, http.StatusOK, history.RoundsList{Rounds: []history.Round{}})
		return
	}

	query := history.RoundsQuery{
		Game:    r.URL.Query().Get("game"),
		Page:    queryInt(r, "page", 1),
		PerPage: queryInt(r, "perPage", 25),
	}

	list, err := s.db.ListRounds(query)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

// handleHistorySummary aggregates settled rounds
func (s *Server) handleHistorySummary(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.writeJSON(w, http.StatusOK, history.Summary{})
		return
	}

	sum, err := s.db.Summary(r.URL.Query().Get("game"))
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sum)
}

// handleScriptRun starts the autoplay engine with the posted script
func (s *Server) handleScriptRun(w http.ResponseWriter, r *http.Request) {
	if s.scripts == nil {
		s.errorHandler.HandleValidationError(w, r, "scripts", "autoplay is not enabled")
		return
	}

	var req ScriptRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorHandler.HandleValidationError(w, r, "body", "invalid JSON body")
		return
	}
	if req.Script == "" {
		s.errorHandler.HandleValidationError(w, r, "script", "script is required")
		return
	}

	if err := s.scripts.Start(req.Script, ledger.StartingBalance); err != nil {
		engineErr := NewError(ErrTypeScript, err.Error()).Build()
		s.writeJSON(w, http.StatusBadRequest, engineErr)
		return
	}
	s.writeJSON(w, http.StatusOK, s.scripts.GetState())
}

// handleScriptStop stops the autoplay engine
func (s *Server) handleScriptStop(w http.ResponseWriter, r *http.Request) {
	if s.scripts == nil {
		s.errorHandler.HandleValidationError(w, r, "scripts", "autoplay is not enabled")
		return
	}
	if err := s.scripts.Stop(); err != nil {
		engineErr := NewError(ErrTypeScript, err.Error()).Build()
		s.writeJSON(w, http.StatusConflict, engineErr)
		return
	}
	s.writeJSON(w, http.StatusOK, s.scripts.GetState())
}

// handleScriptState returns the autoplay engine snapshot
func (s *Server) handleScriptState(w http.ResponseWriter, r *http.Request) {
	if s.scripts == nil {
		s.errorHandler.HandleValidationError(w, r, "scripts", "autoplay is not enabled")
		return
	}
	s.writeJSON(w, http.StatusOK, s.scripts.GetState())
}

// handleScriptLogs returns the script's log buffer
func (s *Server) handleScriptLogs(w http.ResponseWriter, r *http.Request) {
	if s.scripts == nil {
		s.errorHandler.HandleValidationError(w, r, "scripts", "autoplay is not enabled")
		return
	}
	s.writeJSON(w, http.StatusOK, s.scripts.GetLogs())
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
