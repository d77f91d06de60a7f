// internal/services/ingestion_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/price-tracker/internal/metrics"
	"github.com/javajoker/price-tracker/internal/models"
	"github.com/javajoker/price-tracker/internal/repository"
	"github.com/javajoker/price-tracker/internal/utils"
)

// ErrListingProductMissing marks a listing whose owning product no longer exists.
var ErrListingProductMissing = errors.New("listing references a missing product")

// ScrapedProduct is one observation posted by the scraper service.
type ScrapedProduct struct {
	ProductTitle          string    `json:"productTitle" validate:"notblank"`
	ProductPrice          PriceText `json:"productPrice"`
	ProductURL            string    `json:"productUrl" validate:"notblank"`
	ProductImageURL       string    `json:"productImageUrl"`
	ProductImageLocalPath string    `json:"productImageLocalPath"`
	PlatformName          string    `json:"platformName" validate:"notblank"`
	CategoryName          string    `json:"categoryName"`
}

// PriceText is the raw price label. Scrapers send it as a string but a bare JSON
// number is accepted as well.
type PriceText string

func (p *PriceText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PriceText(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("productPrice must be a string or a number: %w", err)
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("productPrice out of range: %w", err)
	}
	// Plain decimal form, since ParsePrice keeps only digits and the point.
	*p = PriceText(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// IngestionSummary tallies one batch.
type IngestionSummary struct {
	Received   int `json:"received"`
	Succeeded  int `json:"success"`
	Failed     int `json:"errors"`
	// Duplicates are repeats of an accepted observation in the same batch. They are
	// neither successes nor errors.
	Duplicates int `json:"duplicates"`
}

func (s IngestionSummary) Message() string {
	return fmt.Sprintf("Ingestion complete. Success: %d, Errors: %d out of %d DTOs received.",
		s.Succeeded, s.Failed, s.Received)
}

// reconcileResult reports the price side effects of one committed observation.
type reconcileResult struct {
	priceChanged    bool
	historyAppended bool
}

type IngestionService struct {
	repo    repository.CatalogRepository
	logger  logrus.FieldLogger
	metrics *metrics.Ingestion
	now     func() time.Time
}

func NewIngestionService(repo repository.CatalogRepository, logger logrus.FieldLogger, m *metrics.Ingestion) *IngestionService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &IngestionService{
		repo:    repo,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

// WithClock replaces the time source used for history timestamps.
func (s *IngestionService) WithClock(now func() time.Time) *IngestionService {
	s.now = now
	return s
}

// Ingest reconciles the batch strictly in order. A failing observation is logged and
// counted, and never stops the rest of the batch.
func (s *IngestionService) Ingest(ctx context.Context, batch []ScrapedProduct) IngestionSummary {
	start := time.Now()
	defer s.metrics.BatchDone(start)

	summary := IngestionSummary{Received: len(batch)}
	processed := make(map[string]struct{}, len(batch))

	s.logger.WithField("count", len(batch)).Info("Received products for ingestion")

	for i := range batch {
		obs := &batch[i]
		log := s.logger.WithFields(logrus.Fields{
			"index":    i,
			"title":    obs.ProductTitle,
			"url":      obs.ProductURL,
			"platform": obs.PlatformName,
		})

		if err := utils.ValidateStruct(obs); err != nil {
			log.WithField("invalid", utils.GetValidationErrors(err)).Warn("Skipping product with missing required fields")
			summary.Failed++
			s.metrics.Observe(metrics.OutcomeInvalid)
			continue
		}

		key := obs.PlatformName + "|" + obs.ProductURL
		if _, seen := processed[key]; seen {
			log.Info("Skipping duplicate product in batch")
			summary.Duplicates++
			s.metrics.Observe(metrics.OutcomeDuplicate)
			continue
		}

		result, err := s.reconcile(ctx, obs)
		switch {
		case err == nil:
			processed[key] = struct{}{}
			summary.Succeeded++
			s.metrics.Observe(metrics.OutcomeAccepted)
			if result.priceChanged {
				s.metrics.PriceChanged()
			}
			if result.historyAppended {
				s.metrics.HistoryAppended()
			}
		case errors.Is(err, ErrListingProductMissing):
			log.WithError(err).Error("CRITICAL: existing listing has no product, skipping")
			summary.Failed++
			s.metrics.Observe(metrics.OutcomeInconsistent)
		default:
			log.WithError(err).Error("Failed to ingest product")
			summary.Failed++
			s.metrics.Observe(metrics.OutcomeFailed)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"received":   summary.Received,
		"success":    summary.Succeeded,
		"errors":     summary.Failed,
		"duplicates": summary.Duplicates,
	}).Info("Ingestion complete")

	return summary
}

// reconcile commits one observation in its own transaction. A listing inserted by a
// concurrent batch between lookup and insert is retried once so the second pass takes
// the existing-listing path.
func (s *IngestionService) reconcile(ctx context.Context, obs *ScrapedProduct) (result reconcileResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while reconciling product: %v", r)
		}
	}()

	for attempt := 0; ; attempt++ {
		result = reconcileResult{}
		err = s.repo.Transaction(ctx, func(tx repository.CatalogRepository) error {
			var txErr error
			result, txErr = s.reconcileObservation(ctx, tx, obs)
			return txErr
		})
		if attempt == 0 && errors.Is(err, repository.ErrListingConflict) {
			s.logger.WithField("url", obs.ProductURL).Debug("Listing created concurrently, retrying")
			continue
		}
		return result, err
	}
}

func (s *IngestionService) reconcileObservation(ctx context.Context, tx repository.CatalogRepository, obs *ScrapedProduct) (reconcileResult, error) {
	var result reconcileResult

	platform, err := s.resolvePlatform(ctx, tx, obs)
	if err != nil {
		return result, err
	}

	listing, err := s.resolveListing(ctx, tx, platform, obs)
	if err != nil {
		return result, err
	}

	log := s.logger.WithField("listing_id", listing.ID)

	price, ok := ParsePrice(string(obs.ProductPrice))
	if !ok {
		log.WithField("price", string(obs.ProductPrice)).Info("Could not parse price, skipping price update")
		return result, nil
	}

	if listing.CurrentPrice != price {
		if err := tx.UpdateListingPrice(ctx, listing, price); err != nil {
			return result, err
		}
		result.priceChanged = true
		log.WithField("price", price).Debug("Updated listing price")
	}

	now := s.now().UTC()
	latest, err := tx.LatestPriceHistory(ctx, listing.ID)
	if err != nil {
		return result, err
	}

	if latest != nil && latest.Price == price && latest.SameDayUTC(now) {
		log.WithField("price", price).Debug("Price unchanged today, no history recorded")
		return result, nil
	}

	if err := tx.AppendPriceHistory(ctx, &models.PriceHistory{
		ListingID:  listing.ID,
		Price:      price,
		RecordedAt: now,
	}); err != nil {
		return result, err
	}
	result.historyAppended = true
	log.WithField("price", price).Debug("Recorded price history")

	return result, nil
}

func (s *IngestionService) resolvePlatform(ctx context.Context, tx repository.CatalogRepository, obs *ScrapedProduct) (*models.Platform, error) {
	platform, err := tx.FindPlatformByName(ctx, obs.PlatformName)
	if err != nil || platform != nil {
		return platform, err
	}

	platform, err = tx.CreatePlatform(ctx, &models.Platform{
		Name:    obs.PlatformName,
		BaseURL: PlatformBaseURL(obs.PlatformName, obs.ProductURL),
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"platform":    platform.Name,
		"platform_id": platform.ID,
		"base_url":    platform.BaseURL,
	}).Info("Created new platform")
	return platform, nil
}

func (s *IngestionService) resolveListing(ctx context.Context, tx repository.CatalogRepository, platform *models.Platform, obs *ScrapedProduct) (*models.Listing, error) {
	listing, err := tx.FindListing(ctx, platform.ID, obs.ProductURL)
	if err != nil {
		return nil, err
	}

	if listing != nil {
		product, err := tx.GetProduct(ctx, listing.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("listing %s, product %s: %w", listing.ID, listing.ProductID, ErrListingProductMissing)
		}

		if applyProductChanges(product, obs) {
			if err := tx.UpdateProduct(ctx, product); err != nil {
				return nil, err
			}
			s.logger.WithField("product_id", product.ID).Info("Updated product details")
		}
		return listing, nil
	}

	category := obs.CategoryName
	if isBlank(category) {
		category = models.DefaultCategory
	}

	product := &models.Product{
		Name:           obs.ProductTitle,
		Category:       category,
		ImageURL:       obs.ProductImageURL,
		LocalImagePath: obs.ProductImageLocalPath,
	}
	if err := tx.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	listing = &models.Listing{
		ProductID:  product.ID,
		PlatformID: platform.ID,
		URL:        obs.ProductURL,
	}
	if err := tx.CreateListing(ctx, listing); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"product_id": product.ID,
		"listing_id": listing.ID,
	}).Info("Created new product and listing")
	return listing, nil
}

// applyProductChanges copies non-blank observation fields that differ from the
// stored product and reports whether anything changed.
func applyProductChanges(product *models.Product, obs *ScrapedProduct) bool {
	changed := false
	update := func(field *string, incoming string) {
		if !isBlank(incoming) && *field != incoming {
			*field = incoming
			changed = true
		}
	}

	update(&product.ImageURL, obs.ProductImageURL)
	update(&product.LocalImagePath, obs.ProductImageLocalPath)
	update(&product.Name, obs.ProductTitle)
	update(&product.Category, obs.CategoryName)

	return changed
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
