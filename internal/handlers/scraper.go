// internal/handlers/scraper.go
package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/price-tracker/internal/i18n"
	"github.com/javajoker/price-tracker/internal/services"
	"github.com/javajoker/price-tracker/internal/utils"
)

type Scraper interface {
	Status(ctx context.Context) (map[string]string, error)
	Trigger(ctx context.Context, platform string) (string, error)
}

type ScraperHandler struct {
	scraper Scraper
}

func NewScraperHandler(scraper Scraper) *ScraperHandler {
	return &ScraperHandler{scraper: scraper}
}

// GET /Scraper/status
func (h *ScraperHandler) Status(c *gin.Context) {
	status, err := h.scraper.Status(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.SuccessResponse(c, status)
}

// POST /Scraper/:platform/trigger
func (h *ScraperHandler) Trigger(c *gin.Context) {
	platform := c.Param("platform")

	message, err := h.scraper.Trigger(c.Request.Context(), platform)
	if err != nil {
		h.respondError(c, err)
		return
	}

	userID, _ := utils.GetUserIDFromContext(c)
	logrus.WithFields(logrus.Fields{
		"platform": platform,
		"user_id":  userID,
	}).Info("Scraper run requested by admin")

	utils.SuccessResponse(c, gin.H{"platform": platform, "message": message})
}

func (h *ScraperHandler) respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	var upstream *services.ScraperError
	switch {
	case errors.Is(err, services.ErrUnknownScrapePlatform):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyScraperUnknownPlatform, c.Param("platform")), nil)
	case errors.Is(err, services.ErrScraperNotConfigured):
		utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyScraperNotConfigured))
	case errors.As(err, &upstream):
		utils.BadGatewayResponse(c, i18n.T(lang, i18n.KeyScraperUnavailable), gin.H{
			"status": upstream.StatusCode,
			"body":   upstream.Body,
		})
	default:
		logrus.WithError(err).Warn("Scraper service request failed")
		utils.BadGatewayResponse(c, i18n.T(lang, i18n.KeyScraperUnavailable), nil)
	}
}
