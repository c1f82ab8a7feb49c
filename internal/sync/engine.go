package sync

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ircomercio/ordens/internal/domain/order"
)

// EngineConfig wires an Engine
type EngineConfig struct {
	BaseURL        string
	Variant        order.Variant
	CounterSeed    int
	DataInterval   time.Duration
	HealthInterval time.Duration
	RequestTimeout time.Duration
	Snapshots      SnapshotStore
	OnChange       func()
	Confirm        ConfirmFunc
}

// Engine owns all client-side sync state: the session token, the typed
// API client, the month cache, the counter tracker and the poller that
// keeps them fresh
type Engine struct {
	Tokens  *TokenStore
	Client  *Client
	Cache   *MonthCache
	Counter *CounterTracker
	Toggle  *StatusToggle
	Poller  *Poller
	logger  *zap.Logger
}

// NewEngine builds the engine. Construction order matters: the cache
// and counter exist before the poller that feeds them.
func NewEngine(cfg EngineConfig, logger *zap.Logger) *Engine {
	tokens := NewTokenStore()
	client := NewClient(cfg.BaseURL, cfg.RequestTimeout, tokens, logger)
	monthCache := NewMonthCache(time.Now())
	counter := NewCounterTracker(cfg.CounterSeed)
	toggle := NewStatusToggle(client, monthCache, cfg.Variant, cfg.Confirm, logger)
	poller := NewPoller(client, monthCache, counter, cfg.Snapshots,
		cfg.DataInterval, cfg.HealthInterval, cfg.RequestTimeout, cfg.OnChange, logger)

	return &Engine{
		Tokens:  tokens,
		Client:  client,
		Cache:   monthCache,
		Counter: counter,
		Toggle:  toggle,
		Poller:  poller,
		logger:  logger,
	}
}

// Run starts the polling loop and blocks until the context is
// cancelled. When the backend is unreachable at startup, a mirrored
// snapshot, if one exists, is served flagged offline until the health
// probe brings the engine back.
func (e *Engine) Run(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err := e.Client.Health(probeCtx)
	cancel()

	if err != nil {
		e.Cache.SetOffline(true)
		if e.Poller.RestoreFromSnapshot(ctx) {
			e.logger.Warn("Starting offline from mirrored snapshot")
		} else {
			e.logger.Warn("Starting offline with empty cache", zap.Error(err))
		}
	}

	e.Poller.Run(ctx)
}

// NewForm creates an order form aggregator pre-seeded with one blank
// row
func (e *Engine) NewForm() *FormAggregator {
	return NewFormAggregator()
}

// SelectMonth moves the month selection and triggers an immediate
// scoped fetch
func (e *Engine) SelectMonth(ctx context.Context, delta int) {
	e.Cache.SelectMonth(delta)
	e.Poller.pollData(ctx)
}
