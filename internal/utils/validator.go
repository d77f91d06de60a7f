// internal/utils/validator.go
package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("notblank", validators.NotBlank)
	validate.RegisterValidation("scrape_platform", validateScrapePlatform)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ValidateVar checks a single value against a tag expression.
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}

// ScrapePlatforms lists the storefronts the scraper service can be asked to crawl.
var ScrapePlatforms = []string{"amazon", "2b", "jumia"}

func validateScrapePlatform(fl validator.FieldLevel) bool {
	platform := strings.ToLower(strings.TrimSpace(fl.Field().String()))
	for _, p := range ScrapePlatforms {
		if p == platform {
			return true
		}
	}
	return false
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return e.Field() + " is required"
	case "url":
		return e.Field() + " must be a valid URL"
	case "scrape_platform":
		return e.Field() + " must be one of " + strings.Join(ScrapePlatforms, ", ")
	default:
		return e.Field() + " is invalid"
	}
}
