// internal/repository/catalog.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/price-tracker/internal/database"
	"github.com/javajoker/price-tracker/internal/models"
)

// ErrListingConflict is returned by CreateListing when another writer inserted the
// same (platform, url) listing first. The surrounding transaction should be retried.
var ErrListingConflict = errors.New("listing already exists for platform and url")

// CatalogRepository is the persistence gateway for platforms, products, listings and
// price history. Find operations return (nil, nil) when nothing matches.
type CatalogRepository interface {
	FindPlatformByName(ctx context.Context, name string) (*models.Platform, error)
	CreatePlatform(ctx context.Context, platform *models.Platform) (*models.Platform, error)
	ListPlatforms(ctx context.Context) ([]models.Platform, error)

	FindListing(ctx context.Context, platformID uuid.UUID, url string) (*models.Listing, error)
	CreateListing(ctx context.Context, listing *models.Listing) error
	UpdateListingPrice(ctx context.Context, listing *models.Listing, price float64) error
	ListingsForProduct(ctx context.Context, productID uuid.UUID) ([]models.Listing, error)

	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error

	LatestPriceHistory(ctx context.Context, listingID uuid.UUID) (*models.PriceHistory, error)
	AppendPriceHistory(ctx context.Context, entry *models.PriceHistory) error
	PriceHistoryForListing(ctx context.Context, listingID uuid.UUID) ([]models.PriceHistory, error)

	// Transaction runs fn against a repository bound to a single database transaction.
	Transaction(ctx context.Context, fn func(tx CatalogRepository) error) error
}

type GormCatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

func (r *GormCatalogRepository) FindPlatformByName(ctx context.Context, name string) (*models.Platform, error) {
	var platform models.Platform
	err := r.db.WithContext(ctx).Where("name = ?", name).Take(&platform).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find platform %q: %w", name, err)
	}
	return &platform, nil
}

// CreatePlatform inserts the platform unless one with the same name already exists,
// and returns the stored row either way.
func (r *GormCatalogRepository) CreatePlatform(ctx context.Context, platform *models.Platform) (*models.Platform, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(platform).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create platform %q: %w", platform.Name, err)
	}

	stored, err := r.FindPlatformByName(ctx, platform.Name)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("platform %q missing after insert", platform.Name)
	}
	return stored, nil
}

func (r *GormCatalogRepository) ListPlatforms(ctx context.Context) ([]models.Platform, error) {
	var platforms []models.Platform
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&platforms).Error; err != nil {
		return nil, fmt.Errorf("failed to list platforms: %w", err)
	}
	return platforms, nil
}

func (r *GormCatalogRepository) FindListing(ctx context.Context, platformID uuid.UUID, url string) (*models.Listing, error) {
	var listing models.Listing
	err := r.db.WithContext(ctx).
		Where("platform_id = ? AND url = ?", platformID, url).
		Take(&listing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find listing %q: %w", url, err)
	}
	return &listing, nil
}

// CreateListing inserts a listing. A concurrent insert of the same (platform, url)
// yields ErrListingConflict rather than a second row.
func (r *GormCatalogRepository) CreateListing(ctx context.Context, listing *models.Listing) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "platform_id"}, {Name: "url"}},
			DoNothing: true,
		}).
		Create(listing)
	if result.Error != nil {
		return fmt.Errorf("failed to create listing %q: %w", listing.URL, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrListingConflict
	}
	return nil
}

func (r *GormCatalogRepository) UpdateListingPrice(ctx context.Context, listing *models.Listing, price float64) error {
	err := r.db.WithContext(ctx).
		Model(&models.Listing{}).
		Where("id = ?", listing.ID).
		Update("current_price", price).Error
	if err != nil {
		return fmt.Errorf("failed to update price of listing %s: %w", listing.ID, err)
	}
	listing.CurrentPrice = price
	return nil
}

// ListingsForProduct returns the product's listings with their platform, cheapest first.
func (r *GormCatalogRepository) ListingsForProduct(ctx context.Context, productID uuid.UUID) ([]models.Listing, error) {
	var listings []models.Listing
	err := r.db.WithContext(ctx).
		Preload("Platform").
		Where("product_id = ?", productID).
		Order("current_price ASC").
		Order("created_at ASC").
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load listings for product %s: %w", productID, err)
	}
	return listings, nil
}

func (r *GormCatalogRepository) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	return &product, nil
}

func (r *GormCatalogRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product %q: %w", product.Name, err)
	}
	return nil
}

func (r *GormCatalogRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	err := r.db.WithContext(ctx).
		Model(product).
		Select("name", "category", "image_url", "local_image_path").
		Updates(product).Error
	if err != nil {
		return fmt.Errorf("failed to update product %s: %w", product.ID, err)
	}
	return nil
}

func (r *GormCatalogRepository) LatestPriceHistory(ctx context.Context, listingID uuid.UUID) (*models.PriceHistory, error) {
	var entry models.PriceHistory
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("recorded_at DESC").
		Limit(1).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest price for listing %s: %w", listingID, err)
	}
	return &entry, nil
}

func (r *GormCatalogRepository) AppendPriceHistory(ctx context.Context, entry *models.PriceHistory) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append price for listing %s: %w", entry.ListingID, err)
	}
	return nil
}

func (r *GormCatalogRepository) PriceHistoryForListing(ctx context.Context, listingID uuid.UUID) ([]models.PriceHistory, error) {
	var history []models.PriceHistory
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("recorded_at ASC").
		Find(&history).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load price history for listing %s: %w", listingID, err)
	}
	return history, nil
}

func (r *GormCatalogRepository) Transaction(ctx context.Context, fn func(tx CatalogRepository) error) error {
	return database.WithTransaction(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		return fn(&GormCatalogRepository{db: tx})
	})
}
