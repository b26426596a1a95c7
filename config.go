package main

import (
	"os"
	"strings"
	"time"

	"tennis-league/internal/loader"
	"tennis-league/internal/sheets"

	log "github.com/sirupsen/logrus"
)

type config struct {
	App                string
	Addr               string
	LogLevel           string
	SheetsURL          string
	PlayersSheet       string
	MatchesSheet       string
	CacheTTL           time.Duration
	RedisURL           string
	PostgresDSN        string
	PostgresMigrations string
	DBPath             string
	DBMigrations       string
}

func loadConfig() config {
	return config{
		App:                getEnv("APP", "dev"),
		Addr:               getEnv("ADDR", ":8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		SheetsURL:          getEnv("SHEETS_URL", ""),
		PlayersSheet:       getEnv("SHEETS_PLAYERS_SHEET", sheets.DefaultPlayersSheet),
		MatchesSheet:       getEnv("SHEETS_MATCHES_SHEET", sheets.DefaultMatchesSheet),
		CacheTTL:           getDuration("CACHE_TTL", loader.DefaultTTL),
		RedisURL:           getEnv("REDIS_URL", ""),
		PostgresDSN:        getEnv("POSTGRES_DSN", ""),
		PostgresMigrations: getEnv("POSTGRES_MIGRATIONS_DIR", ""),
		DBPath:             getEnv("DB_PATH", ""),
		DBMigrations:       getEnv("DB_MIGRATIONS_DIR", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.WithField(key, raw).Warn("invalid duration, using default")
		return fallback
	}
	return d
}
