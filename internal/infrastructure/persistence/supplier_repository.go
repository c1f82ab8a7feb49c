package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ircomercio/ordens/internal/domain/partner"
	"github.com/ircomercio/ordens/internal/domain/shared"
)

// GormSupplierRepository implements partner.Repository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindAll returns the full catalog ordered by company name
func (r *GormSupplierRepository) FindAll(ctx context.Context) ([]*partner.Supplier, error) {
	var suppliers []*partner.Supplier
	if err := r.db.WithContext(ctx).
		Order("company_name ASC").
		Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

// FindByKey looks up a supplier by its normalized name key
func (r *GormSupplierRepository) FindByKey(ctx context.Context, key string) (*partner.Supplier, error) {
	var s partner.Supplier
	if err := r.db.WithContext(ctx).
		First(&s, "name_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Save inserts or updates a supplier. Conflicts on the normalized name
// key update the contact fields in place, so concurrent sightings of
// the same supplier never produce duplicates.
func (r *GormSupplierRepository) Save(ctx context.Context, s *partner.Supplier) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "name_key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"company_name", "trade_name", "cnpj", "address",
				"website", "contact", "phone", "email", "updated_at",
			}),
		}).
		Create(s).Error
}
