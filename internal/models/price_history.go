// internal/models/price_history.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// PriceHistory is one price sample for a listing. Rows are append-only.
type PriceHistory struct {
	BaseModel
	ListingID  uuid.UUID `json:"listing_id" gorm:"type:uuid;not null;index:idx_price_histories_listing_recorded,priority:1"`
	Price      float64   `json:"price" gorm:"type:double precision;not null"`
	RecordedAt time.Time `json:"recorded_at" gorm:"not null;index:idx_price_histories_listing_recorded,priority:2"`
}

// SameDayUTC reports whether the sample was recorded on the same UTC calendar day as t.
func (p *PriceHistory) SameDayUTC(t time.Time) bool {
	ry, rm, rd := p.RecordedAt.UTC().Date()
	ty, tm, td := t.UTC().Date()
	return ry == ty && rm == tm && rd == td
}
