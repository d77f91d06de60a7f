// internal/models/platform.go
package models

// Platform is a retailer that listings are scraped from. Name is the business key
// and is matched case-sensitively.
type Platform struct {
	BaseModel
	Name    string `json:"name" gorm:"type:text;not null;uniqueIndex:idx_platforms_name"`
	BaseURL string `json:"base_url" gorm:"type:text;not null"`
	LogoURL string `json:"logo_url,omitempty" gorm:"type:text"`

	// Relationships
	Listings []Listing `json:"listings,omitempty" gorm:"foreignKey:PlatformID"`
}
