// internal/handlers/ingestion.go
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/price-tracker/internal/i18n"
	"github.com/javajoker/price-tracker/internal/services"
	"github.com/javajoker/price-tracker/internal/utils"
)

// noProductsMessage is part of the scraper contract and is not localised.
const noProductsMessage = "No products to ingest."

type Ingester interface {
	Ingest(ctx context.Context, batch []services.ScrapedProduct) services.IngestionSummary
}

type IngestionHandler struct {
	ingester Ingester
}

func NewIngestionHandler(ingester Ingester) *IngestionHandler {
	return &IngestionHandler{ingester: ingester}
}

type ingestResponse struct {
	Message string `json:"message"`
	services.IngestionSummary
}

// POST /api/DataIngestion/ingest
func (h *IngestionHandler) Ingest(c *gin.Context) {
	var batch []services.ScrapedProduct
	if err := c.ShouldBindJSON(&batch); err != nil {
		if errors.Is(err, io.EOF) {
			utils.BadRequestResponse(c, noProductsMessage, nil)
			return
		}
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyIngestMalformed), err.Error())
		return
	}

	if len(batch) == 0 {
		utils.BadRequestResponse(c, noProductsMessage, nil)
		return
	}

	summary := h.ingester.Ingest(c.Request.Context(), batch)

	c.JSON(http.StatusOK, ingestResponse{
		Message:          summary.Message(),
		IngestionSummary: summary,
	})
}
