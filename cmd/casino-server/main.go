package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maxbet-labs/casino-sim-go/internal/api"
	"github.com/maxbet-labs/casino-sim-go/internal/config"
	"github.com/maxbet-labs/casino-sim-go/internal/engine"
	"github.com/maxbet-labs/casino-sim-go/internal/history"
	"github.com/maxbet-labs/casino-sim-go/internal/scripting"
	"github.com/maxbet-labs/casino-sim-go/internal/table"
)

func main() {
	logger := log.New(os.Stdout, "[SERVER] ", log.LstdFlags)

	cfg := config.Load()

	dsn := cfg.HistoryDSN
	if dsn == "" {
		dsn = history.MemoryDSN
	}
	db, err := history.NewSQLiteDB(dsn)
	if err != nil {
		logger.Fatalf("failed to open history database: %v", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		logger.Fatalf("failed to migrate history database: %v", err)
	}

	recorder := history.NewRecorder(db, nil)
	defer recorder.Close()

	session, err := engine.NewSession(cfg.ClientSeed)
	if err != nil {
		logger.Fatalf("failed to create session: %v", err)
	}
	logger.Printf("session server seed hash: %s", session.ServerSeedHash())

	casino := table.NewCasino(table.Options{
		Source:   table.SessionSource(session),
		Recorder: recorder,
	})
	defer casino.Close()

	var scripts *scripting.Engine
	if cfg.Autoplay {
		// Autoplay runs its own instant-mode tables so scripted rounds
		// resolve synchronously and never collide with interactive play.
		autoplayCasino := table.NewCasino(table.Options{
			Source:   table.SessionSource(session),
			Recorder: recorder,
			Instant:  true,
			Logger:   log.New(os.Stdout, "[AUTOPLAY] ", log.LstdFlags),
		})
		defer autoplayCasino.Close()
		scripts = scripting.NewEngine(scripting.NewCasinoPlacer(autoplayCasino), nil)
	}

	server := api.NewServer(casino, session, db, scripts)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: server.Routes(),
	}

	go func() {
		logger.Printf("listening on :%d", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Println("shutting down")

	if scripts != nil {
		_ = scripts.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Printf("shutdown error: %v", err)
	}
	recorder.Flush()
}
