// internal/models/listing.go
package models

import (
	"github.com/google/uuid"
)

// Listing is the (platform, url) keyed offer of a product on one platform.
type Listing struct {
	BaseModel
	ProductID    uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	PlatformID   uuid.UUID `json:"platform_id" gorm:"type:uuid;not null;uniqueIndex:idx_listing_platform_url,priority:1"`
	URL          string    `json:"url" gorm:"type:text;not null;uniqueIndex:idx_listing_platform_url,priority:2"`
	CurrentPrice float64   `json:"current_price" gorm:"type:double precision;not null;default:0"`

	// Relationships
	Product        *Product       `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Platform       *Platform      `json:"platform,omitempty" gorm:"foreignKey:PlatformID"`
	PriceHistories []PriceHistory `json:"price_histories,omitempty" gorm:"foreignKey:ListingID"`
}
