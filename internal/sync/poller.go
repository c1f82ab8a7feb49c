package sync

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ircomercio/ordens/internal/infrastructure/cache"
)

// SnapshotStore mirrors month snapshots to external storage. Optional;
// a nil store disables mirroring.
type SnapshotStore interface {
	Save(ctx context.Context, snap *cache.MonthSnapshot) error
	Load(ctx context.Context, month, year int) (*cache.MonthSnapshot, error)
}

// Poller keeps the month cache and counter fresh on two independent
// cadences: a data tick that refetches the selected month and a health
// tick that probes connectivity. Poll failures are logged, never
// surfaced; the cache keeps serving the last good data.
type Poller struct {
	client    *Client
	cache     *MonthCache
	counter   *CounterTracker
	snapshots SnapshotStore
	logger    *zap.Logger

	dataInterval   time.Duration
	healthInterval time.Duration
	requestTimeout time.Duration

	onChange func()

	mu       sync.Mutex
	online   bool
	inFlight bool
}

// NewPoller creates a poller. onChange fires after every reconcile that
// actually changed the visible data; it may be nil.
func NewPoller(client *Client, monthCache *MonthCache, counter *CounterTracker,
	snapshots SnapshotStore, dataInterval, healthInterval, requestTimeout time.Duration,
	onChange func(), logger *zap.Logger) *Poller {
	if dataInterval <= 0 {
		dataInterval = 10 * time.Second
	}
	if healthInterval <= 0 {
		healthInterval = 15 * time.Second
	}
	if requestTimeout <= 0 {
		requestTimeout = 10 * time.Second
	}
	return &Poller{
		client:         client,
		cache:          monthCache,
		counter:        counter,
		snapshots:      snapshots,
		logger:         logger,
		dataInterval:   dataInterval,
		healthInterval: healthInterval,
		requestTimeout: requestTimeout,
		onChange:       onChange,
		online:         true,
	}
}

// Online reports the last known connectivity state
func (p *Poller) Online() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online
}

// Run drives both tickers until the context is cancelled. It performs
// one full reload up front so the cache is populated before the first
// tick.
func (p *Poller) Run(ctx context.Context) {
	p.FullReload(ctx)

	dataTick := time.NewTicker(p.dataInterval)
	healthTick := time.NewTicker(p.healthInterval)
	defer dataTick.Stop()
	defer healthTick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-dataTick.C:
			p.pollData(ctx)
		case <-healthTick.C:
			p.pollHealth(ctx)
		}
	}
}

// pollData refetches the selected month. A still-running previous poll
// makes this tick a no-op instead of piling up requests.
func (p *Poller) pollData(ctx context.Context) {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return
	}
	p.inFlight = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.inFlight = false
		p.mu.Unlock()
	}()

	month, year := p.cache.Selected()

	reqCtx, cancel := context.WithTimeout(ctx, p.requestTimeout)
	defer cancel()

	orders, err := p.client.ListOrders(reqCtx, month, year)
	if err != nil {
		p.cache.FailLoad()
		p.logger.Warn("Month poll failed",
			zap.Int("month", int(month)),
			zap.Int("year", year),
			zap.Error(err))
		return
	}

	if p.cache.Reconcile(month, year, orders) {
		p.logger.Debug("Month data changed",
			zap.Int("month", int(month)),
			zap.Int("year", year),
			zap.Int("orders", len(orders)))
		p.mirrorSnapshot(ctx)
		if p.onChange != nil {
			p.onChange()
		}
	}
}

// pollHealth probes the backend. Coming back online triggers an
// immediate out-of-band full reload; going offline only flips the flag.
func (p *Poller) pollHealth(ctx context.Context) {
	reqCtx, cancel := context.WithTimeout(ctx, p.requestTimeout)
	defer cancel()

	err := p.client.Health(reqCtx)

	p.mu.Lock()
	wasOnline := p.online
	p.online = err == nil
	p.mu.Unlock()

	p.cache.SetOffline(err != nil)

	switch {
	case err != nil && wasOnline:
		p.logger.Warn("Backend went offline", zap.Error(err))
	case err == nil && !wasOnline:
		p.logger.Info("Backend back online, reloading")
		p.FullReload(ctx)
	}
}

// FullReload refreshes everything in one sweep: month data, the
// sequential counter and the supplier catalog
func (p *Poller) FullReload(ctx context.Context) {
	p.pollData(ctx)

	reqCtx, cancel := context.WithTimeout(ctx, p.requestTimeout)
	defer cancel()

	if err := p.counter.Refresh(reqCtx, p.client); err != nil {
		p.logger.Warn("Counter refresh failed", zap.Error(err))
	}
	if suppliers, err := p.client.ListSuppliers(reqCtx); err != nil {
		p.logger.Warn("Supplier refresh failed", zap.Error(err))
	} else {
		p.cache.MergeSuppliers(suppliers)
	}
}

// RestoreFromSnapshot serves a stale mirrored snapshot when the backend
// is unreachable at startup
func (p *Poller) RestoreFromSnapshot(ctx context.Context) bool {
	if p.snapshots == nil {
		return false
	}
	month, year := p.cache.Selected()
	snap, err := p.snapshots.Load(ctx, int(month), year)
	if err != nil || snap == nil {
		return false
	}
	if err := p.cache.Restore(snap); err != nil {
		p.logger.Warn("Snapshot restore failed", zap.Error(err))
		return false
	}
	p.logger.Info("Serving stale month snapshot",
		zap.Int("month", int(month)),
		zap.Int("year", year),
		zap.Time("saved_at", snap.SavedAt))
	return true
}

func (p *Poller) mirrorSnapshot(ctx context.Context) {
	if p.snapshots == nil {
		return
	}
	snap, err := p.cache.Snapshot()
	if err != nil {
		p.logger.Warn("Snapshot export failed", zap.Error(err))
		return
	}
	reqCtx, cancel := context.WithTimeout(ctx, p.requestTimeout)
	defer cancel()
	if err := p.snapshots.Save(reqCtx, snap); err != nil {
		p.logger.Warn("Snapshot mirror failed", zap.Error(err))
	}
}
