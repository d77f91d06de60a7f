// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired     = "auth.required"
	KeyAuthInvalidToken = "auth.invalid_token"
	KeyAuthTokenExpired = "auth.token_expired"

	// Admin
	KeyAdminAccessDenied = "admin.access_denied"

	// Products
	KeyProductNotFound  = "product.not_found"
	KeyProductInvalidID = "product.invalid_id"

	// Ingestion
	KeyIngestMalformed = "ingest.malformed"

	// Scraper
	KeyScraperNotConfigured   = "scraper.not_configured"
	KeyScraperUnavailable     = "scraper.unavailable"
	KeyScraperUnknownPlatform = "scraper.unknown_platform"

	// Validation
	KeyValidationInvalid = "validation.invalid"

	// Rate limiting
	KeyRateLimited = "rate.limited"

	// Generic
	KeyInternalError = "error.internal"
)
