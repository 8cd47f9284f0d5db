package handlers

import (
	"context"
	"errors"
	"net/http"

	"threadledger/internal/common"
	"threadledger/internal/models"
	"threadledger/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AdjustmentHandlers handles the adjustment approval workflow endpoints
type AdjustmentHandlers struct {
	adjustmentService services.AdjustmentService
}

// NewAdjustmentHandlers creates a new adjustment handlers instance
func NewAdjustmentHandlers(adjustmentService services.AdjustmentService) *AdjustmentHandlers {
	return &AdjustmentHandlers{adjustmentService: adjustmentService}
}

// CreateAdjustmentRequest represents the adjustment request payload
type CreateAdjustmentRequest struct {
	ProductID          *uuid.UUID `json:"product_id,omitempty"`
	ProductDescription string     `json:"product_description,omitempty"`
	Quantity           int        `json:"quantity" validate:"required"`
	Reason             string     `json:"reason" validate:"required"`
}

// CreateAdjustment records a pending stock correction request
func (h *AdjustmentHandlers) CreateAdjustment(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateAdjustmentRequest
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
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	adjustment, err := h.adjustmentService.Request(ctx, agencyID, userID, req.ProductID, req.ProductDescription, req.Quantity, req.Reason)
	if err != nil {
		var validationErr *common.ValidationError
		if errors.As(err, &validationErr) {
			return common.SendValidationError(c, validationErr.Field, validationErr.Message)
		}
		if errors.Is(err, common.ErrNotFound) {
			return common.SendNotFoundError(c, "Product")
		}
		return common.SendServerError(c, "Failed to create adjustment request")
	}

	return c.JSON(http.StatusCreated, adjustment)
}

// ApproveAdjustment approves a pending request, appending its ledger entry
func (h *AdjustmentHandlers) ApproveAdjustment(c echo.Context) error {
	return h.review(c, h.adjustmentService.Approve, string(models.AdjustmentApproved))
}

// RejectAdjustment rejects a pending request; no ledger effect
func (h *AdjustmentHandlers) RejectAdjustment(c echo.Context) error {
	return h.review(c, h.adjustmentService.Reject, string(models.AdjustmentRejected))
}

func (h *AdjustmentHandlers) review(c echo.Context, transition func(ctx context.Context, agencyID, requestID, reviewer uuid.UUID) error, outcome string) error {
	ctx := c.Request().Context()

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "must be a valid UUID")
	}

	agencyID, ok := common.GetAgencyIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Agency not found")
	}
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	if err := transition(ctx, agencyID, requestID, userID); err != nil {
		var policyErr *common.ApprovalPolicyError
		if errors.As(err, &policyErr) {
			return common.SendPolicyError(c, policyErr.Error())
		}
		if errors.Is(err, common.ErrApprovalConflict) {
			return common.SendConflictError(c, "Adjustment request is no longer pending")
		}
		if errors.Is(err, common.ErrNotFound) {
			return common.SendNotFoundError(c, "Adjustment request")
		}
		return common.SendServerError(c, "Failed to review adjustment request")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":     requestID,
		"status": outcome,
	})
}

// ListAdjustmentsRequest represents query parameters for listing requests
type ListAdjustmentsRequest struct {
	Status string `query:"status"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}

// ListAdjustments lists adjustment requests by status (default pending)
func (h *AdjustmentHandlers) ListAdjustments(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListAdjustmentsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	if req.Status == "" {
		req.Status = string(models.AdjustmentPending)
	}

	agencyID, ok := common.GetAgencyIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Agency not found")
	}

	adjustments, err := h.adjustmentService.List(ctx, agencyID, models.AdjustmentStatus(req.Status), req.Limit, req.Offset)
	if err != nil {
		var validationErr *common.ValidationError
		if errors.As(err, &validationErr) {
			return common.SendValidationError(c, validationErr.Field, validationErr.Message)
		}
		return common.SendServerError(c, "Failed to list adjustment requests")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"adjustments": adjustments,
		"count":       len(adjustments),
	})
}
