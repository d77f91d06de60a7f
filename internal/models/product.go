// internal/models/product.go
package models

// Product is a catalog item independent of any single seller.
type Product struct {
	BaseModel
	Name           string `json:"name" gorm:"type:text;not null"`
	Category       string `json:"category" gorm:"type:text;not null;default:'Unknown';index"`
	ImageURL       string `json:"image_url,omitempty" gorm:"type:text"`
	LocalImagePath string `json:"local_image_path,omitempty" gorm:"type:text"`

	// Relationships
	Listings []Listing `json:"listings,omitempty" gorm:"foreignKey:ProductID"`
}
