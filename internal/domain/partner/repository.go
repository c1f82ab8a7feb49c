package partner

import (
	"context"
)

// Repository defines persistence operations for suppliers
type Repository interface {
	// FindAll returns the full catalog ordered by company name
	FindAll(ctx context.Context) ([]*Supplier, error)

	// FindByKey looks up a supplier by its normalized name key
	FindByKey(ctx context.Context, key string) (*Supplier, error)

	// Save inserts or updates a supplier
	Save(ctx context.Context, s *Supplier) error
}
