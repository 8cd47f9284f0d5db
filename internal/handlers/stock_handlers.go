package handlers

import (
	"errors"
	"net/http"

	"threadledger/internal/common"
	"threadledger/internal/models"
	"threadledger/internal/services"

	"github.com/labstack/echo/v4"
)

// StockHandlers handles read-side stock queries
type StockHandlers struct {
	stockService services.StockService
}

// NewStockHandlers creates a new stock handlers instance
func NewStockHandlers(stockService services.StockService) *StockHandlers {
	return &StockHandlers{stockService: stockService}
}

// ListStockRequest represents query parameters for stock summary listing
type ListStockRequest struct {
	Query    string `query:"q"`
	Category string `query:"category"`
	Limit    int    `query:"limit"`
	Offset   int    `query:"offset"`
}

// ListStock returns the agency's stock summaries, optionally filtered by
// search term or standardized category.
func (h *StockHandlers) ListStock(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListStockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	agencyID, ok := common.GetAgencyIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Agency not found")
	}

	summaries, err := h.stockService.GetStockSummary(ctx, agencyID, &models.StockFilter{
		Query:    req.Query,
		Category: req.Category,
		Limit:    req.Limit,
		Offset:   req.Offset,
	})
	if err != nil {
		return common.SendServerError(c, "Failed to compute stock summary")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"summaries": summaries,
		"count":     len(summaries),
	})
}

// GetStock returns one summary by product id, raw description or normalized key
func (h *StockHandlers) GetStock(c echo.Context) error {
	ctx := c.Request().Context()

	ref := c.Param("ref")
	if ref == "" {
		return common.SendValidationError(c, "ref", "product reference is required")
	}

	agencyID, ok := common.GetAgencyIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Agency not found")
	}

	summary, err := h.stockService.GetProductStock(ctx, agencyID, ref)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.SendNotFoundError(c, "Stock summary")
		}
		return common.SendServerError(c, "Failed to compute stock summary")
	}

	return c.JSON(http.StatusOK, summary)
}

// ListCategories returns the distinct catalog categories for stock filters
func (h *StockHandlers) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()

	agencyID, ok := common.GetAgencyIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Agency not found")
	}

	categories, err := h.stockService.ListCategories(ctx, agencyID)
	if err != nil {
		return common.SendServerError(c, "Failed to load categories")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"categories": categories,
		"count":      len(categories),
	})
}

// ListTransactionsRequest represents query parameters for ledger history
type ListTransactionsRequest struct {
	Limit int `query:"limit"`
}

// ListTransactions returns the agency's most recent ledger entries
func (h *StockHandlers) ListTransactions(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListTransactionsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	agencyID, ok := common.GetAgencyIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Agency not found")
	}

	txs, err := h.stockService.GetTransactionHistory(ctx, agencyID, req.Limit)
	if err != nil {
		return common.SendServerError(c, "Failed to load transaction history")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"transactions": txs,
		"count":        len(txs),
	})
}
