// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields. Catalog rows are never deleted, so there is no soft-delete column.
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns the surrogate key on the client so it does not depend on a
// database-side uuid function.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

const (
	// DefaultCategory is stored when a scraped product carries no category.
	DefaultCategory = "Unknown"

	// UnknownBaseURL is stored on platforms whose home page cannot be derived.
	UnknownBaseURL = "N/A"
)
