// internal/services/price.go
package services

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/javajoker/price-tracker/internal/models"
)

var nonPriceChars = regexp.MustCompile(`[^\d.]`)

// ParsePrice extracts a number from a scraped price label such as "EGP 12,499.00".
// Every character other than a digit or a decimal point is dropped before parsing.
func ParsePrice(raw string) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, "N/A") {
		return 0, false
	}

	cleaned := nonPriceChars.ReplaceAllString(trimmed, "")
	if cleaned == "" {
		return 0, false
	}

	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return price, true
}

// knownPlatformURLs maps lower-case platform names to their storefronts.
var knownPlatformURLs = map[string]string{
	"amazon": "https://www.amazon.eg",
	"jumia":  "https://www.jumia.com.eg",
	"2b":     "https://2b.com.eg",
}

// PlatformBaseURL derives the home page of a newly seen platform, preferring the
// scheme and host of the scraped product URL.
func PlatformBaseURL(platformName, productURL string) string {
	if u, err := url.Parse(productURL); err == nil && u.Host != "" {
		if u.Scheme == "http" || u.Scheme == "https" {
			return u.Scheme + "://" + strings.ToLower(u.Hostname())
		}
	}

	if base, ok := knownPlatformURLs[strings.ToLower(strings.TrimSpace(platformName))]; ok {
		return base
	}
	return models.UnknownBaseURL
}
