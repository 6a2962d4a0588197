package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/preston-bernstein/games-api/internal/app/games"
	"github.com/preston-bernstein/games-api/internal/config"
	"github.com/preston-bernstein/games-api/internal/logging"
	"github.com/preston-bernstein/games-api/internal/metrics"
	"github.com/preston-bernstein/games-api/internal/store"
)

// storeFactory assembles the configured game store with the shared metrics wrapper.
type storeFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newStoreFactory(logger *slog.Logger, metrics *metrics.Recorder) storeFactory {
	return storeFactory{logger: logger, metrics: metrics}
}

// build returns the instrumented store and a closer for its connection (nil for memory).
func (f storeFactory) build(ctx context.Context, cfg config.StoreConfig) (games.Store, io.Closer, error) {
	backend := backendName(cfg.Driver)
	base, closer, err := selectStore(ctx, cfg, f.logger)
	if err != nil {
		return nil, nil, err
	}
	if f.logger != nil {
		f.logger.Info("game store ready", slog.String(logging.FieldStore, backend))
	}
	return store.NewInstrumentedStore(base, backend, f.metrics), closer, nil
}

func selectStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (games.Store, io.Closer, error) {
	switch backendName(cfg.Driver) {
	case config.DriverMemory:
		return store.NewMemoryStore(), nil, nil
	case config.DriverPostgres, config.DriverSQLite:
		gs, err := store.OpenGorm(backendName(cfg.Driver), cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s store: %w", cfg.Driver, err)
		}
		return gs, gs, nil
	case config.DriverRedis:
		rs, err := store.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis store: %w", err)
		}
		return rs, rs, nil
	default:
		if logger != nil {
			logger.Warn("unknown store driver, falling back to memory", slog.String(logging.FieldStore, cfg.Driver))
		}
		return store.NewMemoryStore(), nil, nil
	}
}

// backendName normalises a configured driver name for selection, logs and metrics.
func backendName(driver string) string {
	switch d := strings.ToLower(strings.TrimSpace(driver)); d {
	case "":
		return config.DriverMemory
	case "postgresql", "pg":
		return config.DriverPostgres
	case "sqlite3":
		return config.DriverSQLite
	default:
		return d
	}
}
