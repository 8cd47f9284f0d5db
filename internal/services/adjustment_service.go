package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"threadledger/internal/caching"
	"threadledger/internal/common"
	"threadledger/internal/matching"
	"threadledger/internal/models"
	"threadledger/internal/parsing"
	"threadledger/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AdjustmentService is the approval workflow guarding the only path by which
// a human-requested correction reaches the ledger.
type AdjustmentService interface {
	Request(ctx context.Context, agencyID, requestedBy uuid.UUID, productID *uuid.UUID, description string, quantity int, reason string) (*models.AdjustmentRequest, error)
	Approve(ctx context.Context, agencyID, requestID, reviewer uuid.UUID) error
	Reject(ctx context.Context, agencyID, requestID, reviewer uuid.UUID) error
	List(ctx context.Context, agencyID uuid.UUID, status models.AdjustmentStatus, limit, offset int) ([]*models.AdjustmentRequest, error)
}

type adjustmentService struct {
	adjustmentRepo repositories.AdjustmentRepository
	productRepo    repositories.ProductRepository
	cacheSvc       caching.CacheService
	logger         *zap.SugaredLogger
}

func NewAdjustmentService(adjustmentRepo repositories.AdjustmentRepository, productRepo repositories.ProductRepository,
	cacheSvc caching.CacheService, logger *zap.SugaredLogger) AdjustmentService {
	return &adjustmentService{
		adjustmentRepo: adjustmentRepo,
		productRepo:    productRepo,
		cacheSvc:       cacheSvc,
		logger:         logger,
	}
}

// Request creates a pending adjustment. Any sign is accepted here: an agent
// may ask for a stock increase, but policy is re-validated at approval time
// and positive quantities never pass it.
func (s *adjustmentService) Request(ctx context.Context, agencyID, requestedBy uuid.UUID, productID *uuid.UUID, description string, quantity int, reason string) (*models.AdjustmentRequest, error) {
	if quantity == 0 {
		return nil, &common.ValidationError{Field: "quantity", Message: "adjustment quantity must not be zero"}
	}
	if strings.TrimSpace(reason) == "" {
		return nil, &common.ValidationError{Field: "reason", Message: "reason is required"}
	}

	if productID != nil {
		product, err := s.productRepo.GetByID(ctx, agencyID, *productID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve product reference: %w", err)
		}
		if strings.TrimSpace(description) == "" {
			description = product.Name
		}
	}
	if strings.TrimSpace(description) == "" {
		return nil, &common.ValidationError{Field: "product_description", Message: "a product reference or description is required"}
	}

	req := &models.AdjustmentRequest{
		ID:                 uuid.New(),
		AgencyID:           agencyID,
		ProductID:          productID,
		ProductDescription: description,
		Quantity:           quantity,
		Reason:             reason,
		Status:             models.AdjustmentPending,
		RequestedBy:        requestedBy,
		RequestedAt:        time.Now().UTC(),
	}
	if err := s.adjustmentRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create adjustment request: %w", err)
	}

	s.logger.Infow("adjustment requested", "agency_id", agencyID, "request_id", req.ID, "quantity", quantity)
	return req, nil
}

// Approve re-validates policy and, when it passes, flips the request to
// approved and appends exactly one ledger entry atomically. A positive
// quantity fails with ApprovalPolicyError and leaves the request pending; a
// non-pending request fails with ErrApprovalConflict and changes nothing.
func (s *adjustmentService) Approve(ctx context.Context, agencyID, requestID, reviewer uuid.UUID) error {
	req, err := s.adjustmentRepo.GetByID(ctx, agencyID, requestID)
	if err != nil {
		return err
	}
	if req.Status != models.AdjustmentPending {
		return common.ErrApprovalConflict
	}
	if req.Quantity > 0 {
		return &common.ApprovalPolicyError{Quantity: req.Quantity}
	}

	entry := s.buildLedgerEntry(ctx, req)
	if err := s.adjustmentRepo.Approve(ctx, agencyID, requestID, reviewer, entry); err != nil {
		return err
	}

	if cacheErr := s.cacheSvc.InvalidateStock(ctx, agencyID); cacheErr != nil {
		s.logger.Warnw("failed to invalidate stock cache after approval", "agency_id", agencyID, "error", cacheErr)
	}
	s.logger.Infow("adjustment approved", "agency_id", agencyID, "request_id", requestID, "reviewer", reviewer, "quantity", req.Quantity)
	return nil
}

// Reject flips the request to rejected. No ledger effect.
func (s *adjustmentService) Reject(ctx context.Context, agencyID, requestID, reviewer uuid.UUID) error {
	if err := s.adjustmentRepo.Reject(ctx, agencyID, requestID, reviewer); err != nil {
		return err
	}
	s.logger.Infow("adjustment rejected", "agency_id", agencyID, "request_id", requestID, "reviewer", reviewer)
	return nil
}

func (s *adjustmentService) List(ctx context.Context, agencyID uuid.UUID, status models.AdjustmentStatus, limit, offset int) ([]*models.AdjustmentRequest, error) {
	if !status.Valid() {
		return nil, &common.ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", status)}
	}
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.adjustmentRepo.ListByStatus(ctx, agencyID, status, limit, offset)
}

// buildLedgerEntry derives the adjustment's ledger entry. The request's
// explicit product reference wins; otherwise the description is resolved
// against the catalog like any ingested line so the entry groups with the
// stock it corrects.
func (s *adjustmentService) buildLedgerEntry(ctx context.Context, req *models.AdjustmentRequest) *models.InventoryTransaction {
	match := models.MatchResult{Key: parsing.Normalize(req.ProductDescription), ProductID: req.ProductID}
	if catalog, err := s.productRepo.Snapshot(ctx, req.AgencyID); err == nil {
		match = matching.Resolve(req.ProductDescription, catalog)
		if req.ProductID != nil {
			match.ProductID = req.ProductID
		}
	} else {
		s.logger.Warnw("catalog snapshot unavailable, grouping adjustment by normalized key", "agency_id", req.AgencyID, "error", err)
	}

	reference := "adjustment:" + req.Reason
	notes := req.Reason
	return &models.InventoryTransaction{
		ID:               uuid.New(),
		AgencyID:         req.AgencyID,
		RawDescription:   req.ProductDescription,
		Key:              match.Key,
		MatchedProductID: match.ProductID,
		Type:             models.TransactionAdjustment,
		QuantityDelta:    req.Quantity,
		UnitPrice:        decimal.Zero,
		ReferenceName:    &reference,
		Notes:            &notes,
		Timestamp:        time.Now().UTC(),
	}
}
