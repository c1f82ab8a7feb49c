package sync

import (
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	orderapp "github.com/ircomercio/ordens/internal/application/order"
	partnerapp "github.com/ircomercio/ordens/internal/application/partner"
	"github.com/ircomercio/ordens/internal/domain/partner"
	"github.com/ircomercio/ordens/internal/infrastructure/cache"
)

// MonthCache holds the orders of exactly one calendar month plus a
// merge-only supplier catalog. Changing the selected month clears the
// list immediately and raises the loading flag; stale data from the
// previous month is never shown.
type MonthCache struct {
	mu          sync.RWMutex
	month       time.Month
	year        int
	loading     bool
	offline     bool
	fingerprint string
	orders      []orderapp.OrderResponse
	suppliers   map[string]partnerapp.SupplierResponse
}

// NewMonthCache creates a cache scoped to the given moment's month
func NewMonthCache(now time.Time) *MonthCache {
	return &MonthCache{
		month:     now.Month(),
		year:      now.Year(),
		loading:   true,
		suppliers: make(map[string]partnerapp.SupplierResponse),
	}
}

// Selected returns the currently selected month and year
func (c *MonthCache) Selected() (time.Month, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.month, c.year
}

// SelectMonth moves the selection by delta months, rolling over year
// boundaries. The order list is cleared immediately and the loading
// flag raised; callers then fetch the newly selected window.
func (c *MonthCache) SelectMonth(delta int) (time.Month, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	moved := time.Date(c.year, c.month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	c.month = moved.Month()
	c.year = moved.Year()
	c.orders = nil
	c.fingerprint = ""
	c.loading = true
	return c.month, c.year
}

// Loading reports whether a fetch for the selected month is pending
func (c *MonthCache) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Reconcile replaces the order list wholesale with a fresh fetch of the
// given month. It reports whether the visible data actually changed, so
// callers can skip redundant re-renders. A fetch that raced a month
// change is discarded.
func (c *MonthCache) Reconcile(month time.Month, year int, fresh []orderapp.OrderResponse) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if month != c.month || year != c.year {
		return false
	}

	fp := fingerprintOf(fresh)
	changed := fp != c.fingerprint

	c.orders = fresh
	c.fingerprint = fp
	c.loading = false
	return changed
}

// FailLoad marks the pending fetch as finished without data. The list
// stays empty; a previous month's orders are never resurrected.
func (c *MonthCache) FailLoad() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
}

// Orders returns a copy of the cached order list
func (c *MonthCache) Orders() []orderapp.OrderResponse {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]orderapp.OrderResponse, len(c.orders))
	copy(out, c.orders)
	return out
}

// FindOrder returns the cached order with the given ID, if present
func (c *MonthCache) FindOrder(id string) (orderapp.OrderResponse, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, o := range c.orders {
		if o.ID == id {
			return o, true
		}
	}
	return orderapp.OrderResponse{}, false
}

// SetStatus rewrites the status of one cached order. Used for
// optimistic status flips and their rollback.
func (c *MonthCache) SetStatus(id, status string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.orders {
		if c.orders[i].ID == id {
			c.orders[i].Status = status
			return true
		}
	}
	return false
}

// SetOffline flips the connectivity flag
func (c *MonthCache) SetOffline(offline bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offline = offline
}

// Offline reports whether the backend was unreachable at last contact
func (c *MonthCache) Offline() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.offline
}

// MergeSuppliers folds fresh catalog entries into the supplier cache.
// Entries are only ever added or updated, never removed, so names seen
// once keep autocompleting even if a fetch comes back partial.
func (c *MonthCache) MergeSuppliers(fresh []partnerapp.SupplierResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range fresh {
		key := partner.NormalizeKey(s.RazaoSocial)
		if key == "" {
			continue
		}
		c.suppliers[key] = s
	}
}

// Suppliers returns the merged supplier catalog sorted by company name
func (c *MonthCache) Suppliers() []partnerapp.SupplierResponse {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]partnerapp.SupplierResponse, 0, len(c.suppliers))
	for _, s := range c.suppliers {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RazaoSocial < out[j].RazaoSocial })
	return out
}

// Snapshot exports the cached month for the Redis mirror
func (c *MonthCache) Snapshot() (*cache.MonthSnapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	raw, err := json.Marshal(c.orders)
	if err != nil {
		return nil, err
	}
	return &cache.MonthSnapshot{
		Month:       int(c.month),
		Year:        c.year,
		Fingerprint: c.fingerprint,
		Orders:      raw,
		SavedAt:     time.Now(),
	}, nil
}

// Restore loads a stored snapshot into the cache, used on startup when
// the backend is unreachable. The cache is flagged offline.
func (c *MonthCache) Restore(snap *cache.MonthSnapshot) error {
	var orders []orderapp.OrderResponse
	if err := json.Unmarshal(snap.Orders, &orders); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.month = time.Month(snap.Month)
	c.year = snap.Year
	c.orders = orders
	c.fingerprint = snap.Fingerprint
	c.loading = false
	c.offline = true
	return nil
}

// fingerprintOf derives a cheap change marker from the ordered IDs and
// statuses of a month's orders
func fingerprintOf(orders []orderapp.OrderResponse) string {
	parts := make([]string, len(orders))
	for i, o := range orders {
		parts[i] = o.ID + ":" + o.Status
	}
	return strings.Join(parts, ",")
}
