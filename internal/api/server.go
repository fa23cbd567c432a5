package api

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/maxbet-labs/casino-sim-go/internal/engine"
	"github.com/maxbet-labs/casino-sim-go/internal/history"
	"github.com/maxbet-labs/casino-sim-go/internal/scripting"
	"github.com/maxbet-labs/casino-sim-go/internal/table"
)

// Server handles HTTP requests
type Server struct {
	casino       *table.Casino
	session      *engine.Session
	db           history.DB
	scripts      *scripting.Engine
	errorHandler *ErrorHandler
	logger       *log.Logger
	startTime    time.Time
}

// NewServer creates a new API server
func NewServer(casino *table.Casino, session *engine.Session, db history.DB, scripts *scripting.Engine) *Server {
	logger := log.New(os.Stdout, "[API] ", log.LstdFlags|log.Lshortfile)

	return &Server{
		casino:       casino,
		session:      session,
		db:           db,
		scripts:      scripts,
		errorHandler: NewErrorHandler(logger),
		logger:       logger,
		startTime:    time.Now(),
	}
}

// Routes sets up the HTTP routes with proper middleware
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.errorHandler.RecoveryHandler)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(s.CORSMiddleware)

	// Health endpoints
	r.Get("/health", s.handleHealthCheck)
	r.Get("/health/ready", s.handleReadiness)
	r.Get("/health/live", s.handleLiveness)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/games", s.handleListGames)
		r.Get("/seeds", s.handleSeeds)
		r.Post("/balance/reset", s.handleResetBalance)

		r.Route("/games/{game}", func(r chi.Router) {
			r.Get("/state", s.handleState)
			r.Post("/bets", s.handlePlaceBet)
			r.Delete("/bets", s.handleClearBets)
			r.Post("/start", s.handleStart)
			r.Post("/act", s.handleAct)
			r.Post("/reset", s.handleResetRound)
		})

		r.Route("/history", func(r chi.Router) {
			r.Get("/", s.handleListHistory)
			r.Get("/summary", s.handleHistorySummary)
		})

		r.Route("/scripts", func(r chi.Router) {
			r.Post("/run", s.handleScriptRun)
			r.Post("/stop", s.handleScriptStop)
			r.Get("/state", s.handleScriptState)
			r.Get("/logs", s.handleScriptLogs)
		})
	})

	return r
}

// CORSMiddleware allows the browser frontend to talk to the server.
func (s *Server) CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeJSON writes a JSON response with proper headers
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// table resolves the {game} URL parameter, writing the 404 on a miss.
func (s *Server) table(w http.ResponseWriter, r *http.Request) (table.Table, bool) {
	game := chi.URLParam(r, "game")
	t, err := s.casino.Table(game)
	if err != nil {
		s.errorHandler.HandleGameNotFound(w, r, game)
		return nil, false
	}
	return t, true
}
