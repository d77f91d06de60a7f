package services

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/javajoker/price-tracker/internal/models"
	"github.com/javajoker/price-tracker/internal/repository"
)

// fakeCatalog is an in-memory CatalogRepository. Transactions snapshot the maps and
// restore them when fn fails or panics.
type fakeCatalog struct {
	platforms map[uuid.UUID]models.Platform
	products  map[uuid.UUID]models.Product
	listings  map[uuid.UUID]models.Listing
	history   []models.PriceHistory

	createProductErr    error
	beforeCreateListing func(listing *models.Listing) models.Listing
	externalListings    []models.Listing
	onGetProduct        func(id uuid.UUID)
	transactions        int
}

var _ repository.CatalogRepository = (*fakeCatalog)(nil)

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		platforms: map[uuid.UUID]models.Platform{},
		products:  map[uuid.UUID]models.Product{},
		listings:  map[uuid.UUID]models.Listing{},
	}
}

func ensureID(b *models.BaseModel) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
}

func (f *fakeCatalog) FindPlatformByName(_ context.Context, name string) (*models.Platform, error) {
	for _, p := range f.platforms {
		if p.Name == name {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) CreatePlatform(ctx context.Context, platform *models.Platform) (*models.Platform, error) {
	if existing, _ := f.FindPlatformByName(ctx, platform.Name); existing != nil {
		return existing, nil
	}
	ensureID(&platform.BaseModel)
	f.platforms[platform.ID] = *platform
	stored := *platform
	return &stored, nil
}

func (f *fakeCatalog) ListPlatforms(_ context.Context) ([]models.Platform, error) {
	platforms := make([]models.Platform, 0, len(f.platforms))
	for _, p := range f.platforms {
		platforms = append(platforms, p)
	}
	sort.Slice(platforms, func(i, j int) bool { return platforms[i].Name < platforms[j].Name })
	return platforms, nil
}

func (f *fakeCatalog) FindListing(_ context.Context, platformID uuid.UUID, url string) (*models.Listing, error) {
	for _, l := range f.listings {
		if l.PlatformID == platformID && l.URL == url {
			l := l
			return &l, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) CreateListing(ctx context.Context, listing *models.Listing) error {
	if f.beforeCreateListing != nil {
		hook := f.beforeCreateListing
		f.beforeCreateListing = nil
		concurrent := hook(listing)
		ensureID(&concurrent.BaseModel)
		f.externalListings = append(f.externalListings, concurrent)
		f.listings[concurrent.ID] = concurrent
	}
	if existing, _ := f.FindListing(ctx, listing.PlatformID, listing.URL); existing != nil {
		return repository.ErrListingConflict
	}
	ensureID(&listing.BaseModel)
	f.listings[listing.ID] = *listing
	return nil
}

func (f *fakeCatalog) UpdateListingPrice(_ context.Context, listing *models.Listing, price float64) error {
	stored := f.listings[listing.ID]
	stored.CurrentPrice = price
	f.listings[listing.ID] = stored
	listing.CurrentPrice = price
	return nil
}

func (f *fakeCatalog) ListingsForProduct(_ context.Context, productID uuid.UUID) ([]models.Listing, error) {
	var listings []models.Listing
	for _, l := range f.listings {
		if l.ProductID == productID {
			platform := f.platforms[l.PlatformID]
			l.Platform = &platform
			listings = append(listings, l)
		}
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].CurrentPrice < listings[j].CurrentPrice })
	return listings, nil
}

func (f *fakeCatalog) GetProduct(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if f.onGetProduct != nil {
		f.onGetProduct(id)
	}
	p, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeCatalog) CreateProduct(_ context.Context, product *models.Product) error {
	if f.createProductErr != nil {
		return f.createProductErr
	}
	ensureID(&product.BaseModel)
	f.products[product.ID] = *product
	return nil
}

func (f *fakeCatalog) UpdateProduct(_ context.Context, product *models.Product) error {
	f.products[product.ID] = *product
	return nil
}

func (f *fakeCatalog) LatestPriceHistory(_ context.Context, listingID uuid.UUID) (*models.PriceHistory, error) {
	var latest *models.PriceHistory
	for i := range f.history {
		h := f.history[i]
		if h.ListingID == listingID && (latest == nil || h.RecordedAt.After(latest.RecordedAt)) {
			latest = &h
		}
	}
	return latest, nil
}

func (f *fakeCatalog) AppendPriceHistory(_ context.Context, entry *models.PriceHistory) error {
	ensureID(&entry.BaseModel)
	f.history = append(f.history, *entry)
	return nil
}

func (f *fakeCatalog) PriceHistoryForListing(_ context.Context, listingID uuid.UUID) ([]models.PriceHistory, error) {
	var history []models.PriceHistory
	for _, h := range f.history {
		if h.ListingID == listingID {
			history = append(history, h)
		}
	}
	sort.Slice(history, func(i, j int) bool { return history[i].RecordedAt.Before(history[j].RecordedAt) })
	return history, nil
}

func (f *fakeCatalog) Transaction(_ context.Context, fn func(tx repository.CatalogRepository) error) (err error) {
	f.transactions++
	snap := f.snapshot()
	defer func() {
		if r := recover(); r != nil {
			f.restore(snap)
			panic(r)
		}
	}()

	if err = fn(f); err != nil {
		f.restore(snap)
	}
	return err
}

type fakeSnapshot struct {
	platforms map[uuid.UUID]models.Platform
	products  map[uuid.UUID]models.Product
	listings  map[uuid.UUID]models.Listing
	history   []models.PriceHistory
}

func (f *fakeCatalog) snapshot() fakeSnapshot {
	s := fakeSnapshot{
		platforms: make(map[uuid.UUID]models.Platform, len(f.platforms)),
		products:  make(map[uuid.UUID]models.Product, len(f.products)),
		listings:  make(map[uuid.UUID]models.Listing, len(f.listings)),
		history:   append([]models.PriceHistory(nil), f.history...),
	}
	for k, v := range f.platforms {
		s.platforms[k] = v
	}
	for k, v := range f.products {
		s.products[k] = v
	}
	for k, v := range f.listings {
		s.listings[k] = v
	}
	return s
}

func (f *fakeCatalog) restore(s fakeSnapshot) {
	f.platforms = s.platforms
	f.products = s.products
	f.listings = s.listings
	f.history = s.history
	// rows committed by another writer survive our rollback
	for _, l := range f.externalListings {
		f.listings[l.ID] = l
	}
}

func (f *fakeCatalog) onlyListing() models.Listing {
	for _, l := range f.listings {
		return l
	}
	return models.Listing{}
}
