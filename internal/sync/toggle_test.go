package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	orderapp "github.com/ircomercio/ordens/internal/application/order"
	"github.com/ircomercio/ordens/internal/domain/order"
	"github.com/ircomercio/ordens/internal/domain/shared"
)

func newToggleFixture(t *testing.T, backend http.HandlerFunc, confirm ConfirmFunc) (*StatusToggle, *MonthCache) {
	t.Helper()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	client := NewClient(server.URL, time.Second, NewTokenStore(), zap.NewNop())
	monthCache := NewMonthCache(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
	monthCache.Reconcile(time.March, 2025, []orderapp.OrderResponse{
		{ID: "a", NumeroOrdem: 1251, Status: "aberta"},
	})

	toggle := NewStatusToggle(client, monthCache, order.VariantPurchasing, confirm, zap.NewNop())
	return toggle, monthCache
}

func TestStatusToggle(t *testing.T) {
	t.Run("flips and persists", func(t *testing.T) {
		toggle, monthCache := newToggleFixture(t, func(w http.ResponseWriter, r *http.Request) {
			var req orderapp.StatusRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "fechada", req.Status)
			writeEnvelope(w, http.StatusOK, orderapp.OrderResponse{ID: "a", Status: "fechada"})
		}, nil)

		status, err := toggle.Toggle(context.Background(), "a")
		require.NoError(t, err)
		assert.Equal(t, order.StatusClosed, status)

		got, _ := monthCache.FindOrder("a")
		assert.Equal(t, "fechada", got.Status)
	})

	t.Run("backend refusal rolls the cache back", func(t *testing.T) {
		toggle, monthCache := newToggleFixture(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error":   map[string]string{"code": "INVALID_STATE", "message": "refused"},
			})
		}, nil)

		_, err := toggle.Toggle(context.Background(), "a")
		require.Error(t, err)

		got, _ := monthCache.FindOrder("a")
		assert.Equal(t, "aberta", got.Status, "optimistic flip must be rolled back")
	})

	t.Run("declined confirmation aborts before the network", func(t *testing.T) {
		toggle, monthCache := newToggleFixture(t, func(w http.ResponseWriter, _ *http.Request) {
			t.Error("backend must not be called")
		}, func(from, to order.Status) bool {
			assert.Equal(t, order.StatusOpen, from)
			assert.Equal(t, order.StatusClosed, to)
			return false
		})

		status, err := toggle.Toggle(context.Background(), "a")
		require.NoError(t, err)
		assert.Equal(t, order.StatusOpen, status)

		got, _ := monthCache.FindOrder("a")
		assert.Equal(t, "aberta", got.Status)
	})

	t.Run("unknown order yields not found", func(t *testing.T) {
		toggle, _ := newToggleFixture(t, func(http.ResponseWriter, *http.Request) {}, nil)

		_, err := toggle.Toggle(context.Background(), "missing")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
