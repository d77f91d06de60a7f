// internal/handlers/catalog.go
package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/price-tracker/internal/i18n"
	"github.com/javajoker/price-tracker/internal/models"
	"github.com/javajoker/price-tracker/internal/services"
	"github.com/javajoker/price-tracker/internal/utils"
)

type Catalog interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*services.ProductDetail, error)
	GetPriceHistory(ctx context.Context, productID uuid.UUID) ([]services.PricePoint, error)
	ListPlatforms(ctx context.Context) ([]models.Platform, error)
}

type CatalogHandler struct {
	catalog Catalog
}

func NewCatalogHandler(catalog Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// GET /api/Product/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}

	detail, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, i18n.KeyProductNotFound)
			return
		}
		logrus.WithError(err).WithField("product_id", id).Error("Failed to load product")
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, detail)
}

// GET /api/Product/:id/pricehistory
func (h *CatalogHandler) GetPriceHistory(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}

	points, err := h.catalog.GetPriceHistory(c.Request.Context(), id)
	if err != nil {
		logrus.WithError(err).WithField("product_id", id).Error("Failed to load price history")
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, points)
}

// GET /api/Platform
func (h *CatalogHandler) ListPlatforms(c *gin.Context) {
	platforms, err := h.catalog.ListPlatforms(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to list platforms")
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.ListResponse(c, platforms, len(platforms))
}

func productIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyProductInvalidID), nil)
		return uuid.Nil, false
	}
	return id, true
}
