package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ircomercio/ordens/internal/domain/order"
	"github.com/ircomercio/ordens/internal/domain/shared"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Save persists the order and its items in a single transaction.
// Items removed from the aggregate are deleted from storage.
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(o).Error; err != nil {
			return err
		}

		currentItemIDs := make([]uuid.UUID, len(o.Items))
		for i, item := range o.Items {
			currentItemIDs[i] = item.ID
		}

		if len(currentItemIDs) > 0 {
			if err := tx.Where("order_id = ? AND id NOT IN ?", o.ID, currentItemIDs).
				Delete(&order.Item{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("order_id = ?", o.ID).
				Delete(&order.Item{}).Error; err != nil {
				return err
			}
		}

		for i := range o.Items {
			o.Items[i].OrderID = o.ID
			if err := tx.Save(&o.Items[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// FindByID loads an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_items.position ASC")
		}).
		First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByMonth returns all orders issued within the given calendar month,
// newest sequential number first
func (r *GormOrderRepository) FindByMonth(ctx context.Context, month time.Month, year int) ([]*order.Order, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var orders []*order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_items.position ASC")
		}).
		Where("issue_date >= ? AND issue_date < ?", start, end).
		Order("sequential_number DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// MaxSequentialNumber returns the highest sequential number across all
// months, or 0 when the table is empty
func (r *GormOrderRepository) MaxSequentialNumber(ctx context.Context) (int, error) {
	var max int
	if err := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Select("COALESCE(MAX(sequential_number), 0)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	return max, nil
}

// ExistsSequentialNumber reports whether any order carries the given number
func (r *GormOrderRepository) ExistsSequentialNumber(ctx context.Context, number int) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("sequential_number = ?", number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateStatus persists a status flip without rewriting the aggregate
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status, closedAt *time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&order.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"closed_at":  closedAt,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes the order and its items
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&order.Item{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&order.Order{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}
