package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity provides the identity and timestamp fields shared by all
// persistent entities
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// NewBaseEntity creates a new base entity with a generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
