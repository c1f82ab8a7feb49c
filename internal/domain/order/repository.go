package order

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines persistence operations for orders
type Repository interface {
	// Save persists the order and its items atomically
	Save(ctx context.Context, o *Order) error

	// FindByID loads an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByMonth returns all orders issued within the given calendar
	// month, newest sequential number first
	FindByMonth(ctx context.Context, month time.Month, year int) ([]*Order, error)

	// MaxSequentialNumber returns the highest sequential number ever
	// issued, across all months. Returns 0 when no orders exist.
	MaxSequentialNumber(ctx context.Context) (int, error)

	// ExistsSequentialNumber reports whether any order carries the
	// given sequential number
	ExistsSequentialNumber(ctx context.Context, number int) (bool, error)

	// UpdateStatus persists a status flip without touching other fields
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, closedAt *time.Time) error

	// Delete removes the order and its items
	Delete(ctx context.Context, id uuid.UUID) error
}
