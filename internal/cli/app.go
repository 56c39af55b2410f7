package cli

import (
	"database/sql"
	"io"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nixenos/czytaj/internal/config"
	"github.com/nixenos/czytaj/internal/engine"
	"github.com/nixenos/czytaj/internal/fetch"
	"github.com/nixenos/czytaj/internal/metrics"
	"github.com/nixenos/czytaj/internal/parse"
	"github.com/nixenos/czytaj/internal/store"
)

type App struct {
	db       *sql.DB
	engine   *engine.Engine
	registry *prometheus.Registry
}

func NewApp(cfg config.Config, dbPath string, logOut io.Writer) (*App, error) {
	cfg.DBPath = dbPath
	logger := newLogger(cfg.LogLevel, logOut)

	db, err := store.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	registry := prometheus.NewRegistry()
	eng := engine.New(
		store.NewStore(db),
		fetch.NewFetcher(cfg),
		parse.NewParser(cfg.ExcerptLength, logger),
		cfg,
		metrics.New(registry),
		logger,
	)

	return &App{
		db:       db,
		engine:   eng,
		registry: registry,
	}, nil
}

// WriteMetrics dumps the command's metrics in the Prometheus text format.
func (a *App) WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, a.registry)
}

func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func newLogger(level string, out io.Writer) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: lvl}))
}
