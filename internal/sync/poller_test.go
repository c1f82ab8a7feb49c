package sync

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	orderapp "github.com/ircomercio/ordens/internal/application/order"
	partnerapp "github.com/ircomercio/ordens/internal/application/partner"
	"github.com/ircomercio/ordens/internal/infrastructure/cache"
)

// fakeBackend is a minimal in-memory order backend for poller tests
type fakeBackend struct {
	healthy atomic.Bool
	orders  atomic.Value // []orderapp.OrderResponse
}

func newFakeBackend() *fakeBackend {
	b := &fakeBackend{}
	b.healthy.Store(true)
	b.orders.Store([]orderapp.OrderResponse{})
	return b
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		if !b.healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/ordens", func(w http.ResponseWriter, r *http.Request) {
		if !b.healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeEnvelope(w, http.StatusOK, b.orders.Load())
	})
	mux.HandleFunc("/api/ordens/ultimo-numero", func(w http.ResponseWriter, _ *http.Request) {
		if !b.healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]int{"ultimoNumero": 1260})
	})
	mux.HandleFunc("/api/fornecedores", func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusOK, []partnerapp.SupplierResponse{
			{RazaoSocial: "DISTRIBUIDORA ALFA LTDA"},
		})
	})
	return mux
}

func newTestPoller(t *testing.T, backend *fakeBackend, snapshots SnapshotStore, onChange func()) (*Poller, *MonthCache, *CounterTracker) {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	client := NewClient(server.URL, time.Second, NewTokenStore(), zap.NewNop())
	monthCache := NewMonthCache(time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC))
	counter := NewCounterTracker(1250)
	poller := NewPoller(client, monthCache, counter, snapshots,
		10*time.Millisecond, 10*time.Millisecond, time.Second, onChange, zap.NewNop())
	return poller, monthCache, counter
}

func TestPollerFullReload(t *testing.T) {
	backend := newFakeBackend()
	backend.orders.Store([]orderapp.OrderResponse{{ID: "a", NumeroOrdem: 1251, Status: "aberta"}})

	var changes atomic.Int32
	poller, monthCache, counter := newTestPoller(t, backend, nil, func() { changes.Add(1) })

	poller.FullReload(context.Background())

	require.Len(t, monthCache.Orders(), 1)
	assert.False(t, monthCache.Loading())
	assert.Equal(t, 1261, counter.SuggestNext())
	assert.Len(t, monthCache.Suppliers(), 1)
	assert.Equal(t, int32(1), changes.Load())

	t.Run("unchanged data fires no callback", func(t *testing.T) {
		poller.FullReload(context.Background())
		assert.Equal(t, int32(1), changes.Load())
	})
}

func TestPollerOfflineTransitions(t *testing.T) {
	backend := newFakeBackend()
	backend.orders.Store([]orderapp.OrderResponse{{ID: "a", Status: "aberta"}})

	poller, monthCache, _ := newTestPoller(t, backend, nil, nil)
	poller.FullReload(context.Background())
	require.Len(t, monthCache.Orders(), 1)

	t.Run("going offline only flips the flag", func(t *testing.T) {
		backend.healthy.Store(false)
		poller.pollHealth(context.Background())

		assert.False(t, poller.Online())
		assert.True(t, monthCache.Offline())
		assert.Len(t, monthCache.Orders(), 1, "last good data keeps serving")
	})

	t.Run("poll failure while offline keeps previous list", func(t *testing.T) {
		poller.pollData(context.Background())
		assert.Len(t, monthCache.Orders(), 1)
	})

	t.Run("coming back online reloads immediately", func(t *testing.T) {
		backend.orders.Store([]orderapp.OrderResponse{
			{ID: "a", Status: "aberta"},
			{ID: "b", Status: "aberta"},
		})
		backend.healthy.Store(true)
		poller.pollHealth(context.Background())

		assert.True(t, poller.Online())
		assert.False(t, monthCache.Offline())
		assert.Len(t, monthCache.Orders(), 2)
	})
}

func TestPollerFailedMonthChangeClearsLoading(t *testing.T) {
	backend := newFakeBackend()
	backend.healthy.Store(false)

	poller, monthCache, _ := newTestPoller(t, backend, nil, nil)
	monthCache.SelectMonth(1)
	require.True(t, monthCache.Loading())

	poller.pollData(context.Background())

	assert.False(t, monthCache.Loading(), "failed fetch must not leave the month stuck loading")
	assert.Empty(t, monthCache.Orders(), "the cleared list stays empty, not restored")
}

// memorySnapshots is an in-memory SnapshotStore
type memorySnapshots struct {
	snaps map[string]*cache.MonthSnapshot
}

func (m *memorySnapshots) Save(_ context.Context, snap *cache.MonthSnapshot) error {
	m.snaps[keyOf(snap.Month, snap.Year)] = snap
	return nil
}

func (m *memorySnapshots) Load(_ context.Context, month, year int) (*cache.MonthSnapshot, error) {
	return m.snaps[keyOf(month, year)], nil
}

func keyOf(month, year int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

func TestPollerSnapshotMirror(t *testing.T) {
	backend := newFakeBackend()
	backend.orders.Store([]orderapp.OrderResponse{{ID: "a", NumeroOrdem: 1251, Status: "aberta"}})
	snapshots := &memorySnapshots{snaps: make(map[string]*cache.MonthSnapshot)}

	poller, _, _ := newTestPoller(t, backend, snapshots, nil)
	poller.FullReload(context.Background())

	stored, err := snapshots.Load(context.Background(), 3, 2025)
	require.NoError(t, err)
	require.NotNil(t, stored)

	t.Run("unreachable backend restores the mirror", func(t *testing.T) {
		offline, monthCache, _ := newTestPoller(t, newFakeBackend(), snapshots, nil)
		monthCache.SelectMonth(0)

		require.True(t, offline.RestoreFromSnapshot(context.Background()))
		assert.Len(t, monthCache.Orders(), 1)
		assert.True(t, monthCache.Offline())
	})
}

func TestPollerRunStopsOnCancel(t *testing.T) {
	backend := newFakeBackend()
	poller, monthCache, _ := newTestPoller(t, backend, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop on context cancellation")
	}
	assert.False(t, monthCache.Loading())
}
