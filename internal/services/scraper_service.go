// internal/services/scraper_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/price-tracker/internal/config"
	"github.com/javajoker/price-tracker/internal/utils"
)

var (
	ErrScraperNotConfigured  = errors.New("scraper service URL is not configured")
	ErrUnknownScrapePlatform = errors.New("unknown scrape platform")
)

// ScraperError is a non-2xx answer from the scraper service.
type ScraperError struct {
	StatusCode int
	Body       string
}

func (e *ScraperError) Error() string {
	return fmt.Sprintf("scraper service returned %d: %s", e.StatusCode, e.Body)
}

// ScraperService talks to the external scraping service that feeds the ingestion endpoint.
type ScraperService struct {
	baseURL string
	client  *http.Client
	logger  logrus.FieldLogger
}

func NewScraperService(cfg config.ScraperConfig, logger logrus.FieldLogger) *ScraperService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ScraperService{
		baseURL: strings.TrimRight(cfg.ServiceURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Status returns the run state reported for each scraper, e.g. {"amazon": "running"}.
func (s *ScraperService) Status(ctx context.Context) (map[string]string, error) {
	var status map[string]string
	if err := s.do(ctx, http.MethodGet, "/scrapers/status", &status); err != nil {
		return nil, err
	}
	return status, nil
}

// Trigger asks the scraper service to start a background run for platform.
func (s *ScraperService) Trigger(ctx context.Context, platform string) (string, error) {
	if err := utils.ValidateVar(platform, "scrape_platform"); err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownScrapePlatform, platform)
	}
	platform = strings.ToLower(strings.TrimSpace(platform))

	var reply struct {
		Message string `json:"message"`
	}
	if err := s.do(ctx, http.MethodPost, "/scrape/"+platform, &reply); err != nil {
		return "", err
	}

	s.logger.WithFields(logrus.Fields{
		"platform": platform,
		"reply":    reply.Message,
	}).Info("Triggered scraper run")
	return reply.Message, nil
}

func (s *ScraperService) do(ctx context.Context, method, path string, out interface{}) error {
	if s.baseURL == "" {
		return ErrScraperNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build scraper request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach scraper service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read scraper response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ScraperError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode scraper response: %w", err)
	}
	return nil
}
