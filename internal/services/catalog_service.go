// internal/services/catalog_service.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/javajoker/price-tracker/internal/models"
	"github.com/javajoker/price-tracker/internal/repository"
)

var ErrProductNotFound = errors.New("product not found")

// ProductOffer is one listing of a product as shown on the storefront.
type ProductOffer struct {
	ListingID       uuid.UUID `json:"listing_id"`
	Price           float64   `json:"price"`
	URL             string    `json:"url"`
	PlatformName    string    `json:"platform_name"`
	PlatformLogoURL string    `json:"platform_logo_url,omitempty"`
}

// ProductDetail is a product with its cheapest listing promoted to the top level.
type ProductDetail struct {
	ID              uuid.UUID      `json:"id"`
	Name            string         `json:"name"`
	Category        string         `json:"category"`
	ImageURL        string         `json:"image_url,omitempty"`
	LocalImagePath  string         `json:"local_image_path,omitempty"`
	CurrentPrice    *float64       `json:"current_price,omitempty"`
	URL             string         `json:"url,omitempty"`
	PlatformName    string         `json:"platform_name,omitempty"`
	PlatformLogoURL string         `json:"platform_logo_url,omitempty"`
	Offers          []ProductOffer `json:"offers"`
}

type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

type CatalogService struct {
	repo repository.CatalogRepository
}

func NewCatalogService(repo repository.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDetail, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	listings, err := s.repo.ListingsForProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &ProductDetail{
		ID:             product.ID,
		Name:           product.Name,
		Category:       product.Category,
		ImageURL:       product.ImageURL,
		LocalImagePath: product.LocalImagePath,
		Offers:         make([]ProductOffer, 0, len(listings)),
	}

	for _, listing := range listings {
		offer := ProductOffer{
			ListingID: listing.ID,
			Price:     listing.CurrentPrice,
			URL:       listing.URL,
		}
		if listing.Platform != nil {
			offer.PlatformName = listing.Platform.Name
			offer.PlatformLogoURL = listing.Platform.LogoURL
		}
		detail.Offers = append(detail.Offers, offer)
	}

	// Listings arrive cheapest first
	if len(detail.Offers) > 0 {
		primary := detail.Offers[0]
		detail.CurrentPrice = &primary.Price
		detail.URL = primary.URL
		detail.PlatformName = primary.PlatformName
		detail.PlatformLogoURL = primary.PlatformLogoURL
	}

	return detail, nil
}

// GetPriceHistory returns the samples of the product's cheapest listing, oldest first.
// An unknown product or a product without listings yields an empty history.
func (s *CatalogService) GetPriceHistory(ctx context.Context, productID uuid.UUID) ([]PricePoint, error) {
	points := []PricePoint{}

	listings, err := s.repo.ListingsForProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return points, nil
	}

	history, err := s.repo.PriceHistoryForListing(ctx, listings[0].ID)
	if err != nil {
		return nil, err
	}

	for _, h := range history {
		points = append(points, PricePoint{Date: h.RecordedAt, Price: h.Price})
	}
	return points, nil
}

func (s *CatalogService) ListPlatforms(ctx context.Context) ([]models.Platform, error) {
	return s.repo.ListPlatforms(ctx)
}
