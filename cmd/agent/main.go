// The agent is a headless dashboard client: it signs requests with a
// session token from the environment, polls the backend for the current
// month and prints the month totals whenever the data changes.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ircomercio/ordens/internal/domain/shared/valueobject"
	"github.com/ircomercio/ordens/internal/infrastructure/cache"
	"github.com/ircomercio/ordens/internal/infrastructure/config"
	"github.com/ircomercio/ordens/internal/infrastructure/logger"
	"github.com/ircomercio/ordens/internal/sync"
)

func main() {
	var baseURL string
	flag.StringVar(&baseURL, "backend", "http://localhost:3001", "Order backend base URL")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	var snapshots sync.SnapshotStore
	if cfg.RedisEnabled() {
		store, err := cache.NewRedisSnapshotStore(cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, snapshot mirror disabled", zap.Error(err))
		} else {
			snapshots = store
			defer store.Close()
		}
	}

	var engine *sync.Engine
	engine = sync.NewEngine(sync.EngineConfig{
		BaseURL:        baseURL,
		Variant:        cfg.Variant(),
		CounterSeed:    cfg.Counter.Seed,
		DataInterval:   cfg.Poller.DataInterval,
		HealthInterval: cfg.Poller.HealthInterval,
		RequestTimeout: cfg.Poller.RequestTimeout,
		Snapshots:      snapshots,
		OnChange: func() {
			printMonth(engine, log)
		},
	}, log)

	if token := os.Getenv("ORDENS_SESSION_TOKEN"); token != "" {
		engine.Tokens.Set(token)
	} else {
		log.Warn("No session token set, authenticated calls will be rejected")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	month, year := engine.Cache.Selected()
	log.Info("Agent started",
		zap.String("backend", baseURL),
		zap.Int("month", int(month)),
		zap.Int("year", year),
	)

	engine.Run(ctx)
	log.Info("Agent stopped")
}

func printMonth(engine *sync.Engine, log *zap.Logger) {
	orders := engine.Cache.Orders()

	total := valueobject.Zero()
	for _, o := range orders {
		total = total.Add(valueobject.ParseBRL(o.ValorTotal))
	}

	month, year := engine.Cache.Selected()
	log.Info("Month data changed",
		zap.Int("month", int(month)),
		zap.Int("year", year),
		zap.Int("orders", len(orders)),
		zap.String("total", valueobject.FormatBRL(total)),
		zap.Int("next_number", engine.Counter.SuggestNext()),
		zap.Bool("offline", engine.Cache.Offline()),
	)
}
