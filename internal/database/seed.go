// internal/database/seed.go
package database

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/javajoker/price-tracker/internal/models"
)

// PlatformSeed describes a retailer that should exist before the first scrape.
type PlatformSeed struct {
	Name    string `yaml:"name"`
	BaseURL string `yaml:"base_url"`
	LogoURL string `yaml:"logo_url"`
}

type platformSeedFile struct {
	Platforms []PlatformSeed `yaml:"platforms"`
}

// DefaultPlatformSeeds are the retailers the bundled scrapers cover.
var DefaultPlatformSeeds = []PlatformSeed{
	{
		Name:    "Amazon",
		BaseURL: "https://www.amazon.eg",
		LogoURL: "https://upload.wikimedia.org/wikipedia/commons/thumb/a/a9/Amazon_logo.svg/2560px-Amazon_logo.svg.png",
	},
	{
		Name:    "Jumia",
		BaseURL: "https://www.jumia.com.eg",
		LogoURL: "https://upload.wikimedia.org/wikipedia/commons/9/93/JumiaLogo_%2814%29.png",
	},
	{
		Name:    "2B",
		BaseURL: "https://2b.com.eg",
		LogoURL: "https://2b.com.eg/media/wysiwyg/about/Ar/2b-tech.png",
	},
}

// LoadPlatformSeeds reads the seed catalog from a YAML file. An empty path
// yields the built-in defaults.
func LoadPlatformSeeds(path string) ([]PlatformSeed, error) {
	if path == "" {
		return DefaultPlatformSeeds, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read platform seed file %s: %w", path, err)
	}

	var file platformSeedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse platform seed file %s: %w", path, err)
	}

	for i, seed := range file.Platforms {
		if seed.Name == "" {
			return nil, fmt.Errorf("platform seed %d has no name", i)
		}
		if seed.BaseURL == "" {
			file.Platforms[i].BaseURL = models.UnknownBaseURL
		}
	}

	return file.Platforms, nil
}

// SeedPlatforms inserts seeded platforms that do not exist yet. Existing rows are left untouched.
func SeedPlatforms(db *gorm.DB, seeds []PlatformSeed) error {
	logrus.Info("Seeding platforms...")

	for _, seed := range seeds {
		var existing models.Platform
		err := db.Where("name = ?", seed.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up platform %s: %w", seed.Name, err)
		}

		platform := &models.Platform{
			Name:    seed.Name,
			BaseURL: seed.BaseURL,
			LogoURL: seed.LogoURL,
		}
		if err := db.Create(platform).Error; err != nil {
			return fmt.Errorf("failed to seed platform %s: %w", seed.Name, err)
		}

		logrus.WithField("platform", seed.Name).Info("Seeded platform")
	}

	return nil
}
