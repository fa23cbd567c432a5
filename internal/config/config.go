package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries everything the server binary needs at startup.
type Config struct {
	Port       int
	ClientSeed string
	HistoryDSN string
	Autoplay   bool
}

// Load reads configuration from .env files and the process environment.
// Every field has a working default; the server starts with no env at all.
func Load() *Config {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	port := 8090
	if p := os.Getenv("PORT"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			port = v
		}
	} else if p := os.Getenv("CASINO_PORT"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			port = v
		}
	}

	clientSeed := os.Getenv("CASINO_CLIENT_SEED")
	if clientSeed == "" {
		clientSeed = "casino-floor"
	}

	historyDSN := os.Getenv("CASINO_HISTORY_DSN")

	autoplay := true
	if a := os.Getenv("CASINO_AUTOPLAY"); a != "" {
		if v, err := strconv.ParseBool(a); err == nil {
			autoplay = v
		}
	}

	return &Config{
		Port:       port,
		ClientSeed: clientSeed,
		HistoryDSN: historyDSN,
		Autoplay:   autoplay,
	}
}
