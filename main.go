package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"tennis-league/internal/cache"
	"tennis-league/internal/loader"
	"tennis-league/internal/sheets"
	"tennis-league/internal/store"
	"tennis-league/internal/web"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

//go:embed templates/* templates/partials/* static/* static/css/*
var content embed.FS

func main() {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") == "" {
		_ = godotenv.Load(".env", ".env.local")
	}
	cfg := loadConfig()
	configureLogging(cfg)

	templates, err := web.NewTemplates(content)
	if err != nil {
		log.Fatalf("templates: %v", err)
	}

	snapshotCache := buildCache(cfg)
	board, entries, err := buildBoard(cfg, snapshotCache)
	if err != nil {
		log.Fatalf("board: %v", err)
	}
	server := web.NewServer(board, entries, templates)
	registerHealthChecks(server, snapshotCache, entries)
	staticFS, err := fs.Sub(content, "static")
	if err != nil {
		log.Fatalf("static fs: %v", err)
	}

	r := chi.NewRouter()
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	r.Mount("/", server.Routes())

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		log.Info("starting in Lambda mode")
		adapter := httpadapter.New(r)
		lambda.Start(adapter.ProxyWithContext)
		return
	}

	httpServer := &http.Server{Addr: cfg.Addr, Handler: r}
	go func() {
		log.Infof("listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http server shutdown")
	}
	closeAll(snapshotCache, entries)
}

// registerHealthChecks exposes the cache and store connections on /healthz.
func registerHealthChecks(server *web.Server, snapshotCache cache.Cache, entries store.Store) {
	if check, ok := snapshotCache.(web.HealthChecker); ok {
		server.AddHealthCheck("cache", check)
	}
	if check, ok := entries.(web.HealthChecker); ok {
		server.AddHealthCheck("store", check)
	}
}

func closeAll(resources ...any) {
	for _, res := range resources {
		if closer, ok := res.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				log.WithError(err).Warn("close")
			}
		}
	}
}

// buildBoard picks where standings come from. A configured sheet is read-only;
// otherwise results live in a store and can be entered through the web pages.
func buildBoard(cfg config, snapshotCache cache.Cache) (loader.Loader, store.Store, error) {
	if cfg.SheetsURL != "" {
		client, err := sheets.NewClient(cfg.SheetsURL, sheets.Options{
			PlayersSheet: cfg.PlayersSheet,
			MatchesSheet: cfg.MatchesSheet,
		})
		if err != nil {
			return nil, nil, err
		}
		log.WithField("players_sheet", cfg.PlayersSheet).Info("reading standings from google sheets")
		return loader.Cached(client, snapshotCache, "tennis-league:sheet", cfg.CacheTTL), nil, nil
	}

	appStore, err := buildStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return loader.Cached(loader.FromStore(appStore), snapshotCache, "tennis-league:store", cfg.CacheTTL), appStore, nil
}

func buildStore(cfg config) (store.Store, error) {
	if cfg.PostgresDSN != "" {
		pgStore, err := store.NewPostgresStore(cfg.PostgresDSN, store.PostgresOptions{MigrationsDir: cfg.PostgresMigrations})
		if err != nil {
			return nil, fmt.Errorf("postgres store: %w", err)
		}
		log.Info("using postgres store")
		return pgStore, nil
	}
	if cfg.DBPath != "" {
		sqliteStore, err := store.NewSQLiteStore(cfg.DBPath, store.SQLiteOptions{MigrationsDir: cfg.DBMigrations})
		if err != nil {
			return nil, fmt.Errorf("sqlite store: %w", err)
		}
		log.WithField("path", cfg.DBPath).Info("using sqlite store")
		return sqliteStore, nil
	}
	log.Info("using in-memory store")
	return store.NewMemoryStore(), nil
}

func buildCache(cfg config) cache.Cache {
	if cfg.RedisURL == "" {
		return cache.NewMemoryCache()
	}
	redisCache, err := cache.NewRedisCache(cfg.RedisURL)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, caching in memory")
		return cache.NewMemoryCache()
	}
	log.Info("caching snapshots in redis")
	return redisCache
}

func configureLogging(cfg config) {
	if level, err := log.ParseLevel(strings.TrimSpace(cfg.LogLevel)); err == nil {
		log.SetLevel(level)
	}
	if strings.EqualFold(cfg.App, "prod") {
		log.SetFormatter(&log.JSONFormatter{})
	}
}
