package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/price-tracker/internal/models"
)

func TestRunMigrations_ScrapedStringsAreUnbounded(t *testing.T) {
	db := openTestDB(t)

	columns := map[interface{}][]string{
		&models.Platform{}: {"name", "base_url", "logo_url"},
		&models.Product{}:  {"name", "category", "image_url", "local_image_path"},
		&models.Listing{}:  {"url"},
	}

	for model, names := range columns {
		types, err := db.Migrator().ColumnTypes(model)
		require.NoError(t, err)

		byName := make(map[string]string, len(types))
		for _, ct := range types {
			byName[ct.Name()] = ct.DatabaseTypeName()
		}
		for _, name := range names {
			assert.True(t, strings.EqualFold("text", byName[name]), "column %s is %q", name, byName[name])
		}
	}
}

func TestRunMigrations_LongListingURLIsStored(t *testing.T) {
	db := openTestDB(t)

	platform := &models.Platform{Name: "Amazon", BaseURL: "https://www.amazon.eg"}
	require.NoError(t, db.Create(platform).Error)
	product := &models.Product{Name: strings.Repeat("Gaming Laptop ", 60), Category: models.DefaultCategory}
	require.NoError(t, db.Create(product).Error)

	url := "https://www.amazon.eg/sspa/click?ie=UTF8&url=" + strings.Repeat("%2Fdp%2FB0C", 150)
	require.NoError(t, db.Create(&models.Listing{ProductID: product.ID, PlatformID: platform.ID, URL: url}).Error)

	var stored models.Listing
	require.NoError(t, db.Where("url = ?", url).First(&stored).Error)
	assert.Len(t, stored.URL, len(url))
}

func TestRunMigrations_Indexes(t *testing.T) {
	db := openTestDB(t)

	assert.True(t, db.Migrator().HasIndex(&models.Listing{}, "idx_listing_platform_url"))
	assert.True(t, db.Migrator().HasIndex(&models.Listing{}, "idx_listings_current_price"))
	assert.True(t, db.Migrator().HasIndex(&models.PriceHistory{}, "idx_price_histories_recorded_at"))
	assert.False(t, db.Migrator().HasIndex(&models.Product{}, "idx_products_search"))
}
