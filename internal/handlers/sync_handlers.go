package handlers

import (
	"context"
	"errors"
	"net/http"

	"threadledger/internal/common"
	"threadledger/internal/models"
	"threadledger/internal/services"

	"github.com/labstack/echo/v4"
)

// SyncHandlers handles batch ingestion requests from external feed fetchers
type SyncHandlers struct {
	syncService services.SyncService
}

// NewSyncHandlers creates a new sync handlers instance
func NewSyncHandlers(syncService services.SyncService) *SyncHandlers {
	return &SyncHandlers{syncService: syncService}
}

// IngestBatchRequest represents one batch of source line items
type IngestBatchRequest struct {
	Items []models.LineItem `json:"items" validate:"required,min=1,dive"`
}

// IngestBatch ingests a batch of line items for the :source feed. Partial
// success is the normal case: the response always carries the full report,
// never a single pass/fail.
func (h *SyncHandlers) IngestBatch(c echo.Context) error {
	ctx := c.Request().Context()

	source := c.Param("source")
	if source == "" {
		return common.SendValidationError(c, "source", "feed source is required")
	}

	var req IngestBatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	agencyID, ok := common.GetAgencyIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Agency not found")
	}

	report, err := h.syncService.IngestBatch(ctx, agencyID, source, req.Items)
	if err != nil {
		if report != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			// Aborted mid-batch: what was appended stands.
			return c.JSON(http.StatusOK, report)
		}
		return common.SendServerError(c, "Failed to ingest batch")
	}

	return c.JSON(http.StatusOK, report)
}
