package sync

import (
	"context"

	"go.uber.org/zap"

	"github.com/ircomercio/ordens/internal/domain/order"
	"github.com/ircomercio/ordens/internal/domain/shared"
)

// ConfirmFunc gates a closing flip. Returning false aborts the toggle
// before anything changes locally or remotely.
type ConfirmFunc func(from, to order.Status) bool

// StatusToggle flips an order's status optimistically: the cached copy
// changes first so the UI reacts instantly, then the backend is asked
// to persist. A failed persist rolls the cache back.
type StatusToggle struct {
	client  *Client
	cache   *MonthCache
	variant order.Variant
	confirm ConfirmFunc
	logger  *zap.Logger
}

// NewStatusToggle creates a toggle. confirm may be nil to flip without
// confirmation.
func NewStatusToggle(client *Client, monthCache *MonthCache, variant order.Variant, confirm ConfirmFunc, logger *zap.Logger) *StatusToggle {
	return &StatusToggle{
		client:  client,
		cache:   monthCache,
		variant: variant,
		confirm: confirm,
		logger:  logger,
	}
}

// Toggle flips the order with the given ID to the opposite state of its
// variant vocabulary. Returns the status the order ended up in.
func (t *StatusToggle) Toggle(ctx context.Context, id string) (order.Status, error) {
	cached, ok := t.cache.FindOrder(id)
	if !ok {
		return "", shared.ErrNotFound
	}

	current := order.Status(cached.Status)
	target, ok := t.variant.Toggle(current)
	if !ok {
		return current, shared.NewDomainError("INVALID_STATE",
			"Order status does not belong to this variant")
	}

	if target == t.variant.ClosedStatus() && t.confirm != nil {
		if !t.confirm(current, target) {
			return current, nil
		}
	}

	// Optimistic local flip; rolled back if the backend refuses.
	t.cache.SetStatus(id, target.String())

	resp, err := t.client.ToggleStatus(ctx, id, target.String())
	if err != nil {
		t.cache.SetStatus(id, current.String())
		t.logger.Warn("Status flip rejected, rolled back",
			zap.String("order_id", id),
			zap.String("from", current.String()),
			zap.String("to", target.String()),
			zap.Error(err))
		return current, err
	}

	t.cache.SetStatus(id, resp.Status)
	return order.Status(resp.Status), nil
}
