package database

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/javajoker/price-tracker/internal/config"
	"github.com/javajoker/price-tracker/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Initialize(config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		LogLevel:   "silent",
	})
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db))
	t.Cleanup(func() { Close(db) })
	return db
}

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "platforms.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadPlatformSeeds_Defaults(t *testing.T) {
	seeds, err := LoadPlatformSeeds("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPlatformSeeds, seeds)
}

func TestLoadPlatformSeeds_File(t *testing.T) {
	path := writeSeedFile(t, `
platforms:
  - name: Noon
    base_url: https://www.noon.com
    logo_url: https://f.nooncdn.com/logo.png
  - name: B.TECH
`)

	seeds, err := LoadPlatformSeeds(path)
	require.NoError(t, err)
	require.Len(t, seeds, 2)
	assert.Equal(t, PlatformSeed{Name: "Noon", BaseURL: "https://www.noon.com", LogoURL: "https://f.nooncdn.com/logo.png"}, seeds[0])
	assert.Equal(t, models.UnknownBaseURL, seeds[1].BaseURL)
}

func TestLoadPlatformSeeds_Errors(t *testing.T) {
	_, err := LoadPlatformSeeds(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadPlatformSeeds(writeSeedFile(t, "platforms:\n  - base_url: https://example.com\n"))
	assert.ErrorContains(t, err, "has no name")

	_, err = LoadPlatformSeeds(writeSeedFile(t, "platforms: [unterminated"))
	assert.Error(t, err)
}

func TestSeedPlatforms_IsIdempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, SeedPlatforms(db, DefaultPlatformSeeds))
	require.NoError(t, SeedPlatforms(db, DefaultPlatformSeeds))

	var count int64
	require.NoError(t, db.Model(&models.Platform{}).Count(&count).Error)
	assert.EqualValues(t, len(DefaultPlatformSeeds), count)
}

func TestSeedPlatforms_LeavesExistingRowsUntouched(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&models.Platform{Name: "Amazon", BaseURL: "https://www.amazon.com"}).Error)

	require.NoError(t, SeedPlatforms(db, DefaultPlatformSeeds))

	var amazon models.Platform
	require.NoError(t, db.Where("name = ?", "Amazon").First(&amazon).Error)
	assert.Equal(t, "https://www.amazon.com", amazon.BaseURL)
	assert.Empty(t, amazon.LogoURL)
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)

	err := WithTransaction(db, func(tx *gorm.DB) error {
		require.NoError(t, tx.Create(&models.Platform{Name: "Noon", BaseURL: "https://www.noon.com"}).Error)
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	var count int64
	require.NoError(t, db.Model(&models.Platform{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestWithTransaction_RollsBackOnPanic(t *testing.T) {
	db := openTestDB(t)

	assert.Panics(t, func() {
		_ = WithTransaction(db, func(tx *gorm.DB) error {
			require.NoError(t, tx.Create(&models.Platform{Name: "Noon", BaseURL: "https://www.noon.com"}).Error)
			panic("boom")
		})
	})

	var count int64
	require.NoError(t, db.Model(&models.Platform{}).Count(&count).Error)
	assert.Zero(t, count)
}
