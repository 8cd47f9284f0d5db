package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"threadledger/internal/caching"
	"threadledger/internal/categories"
	"threadledger/internal/common"
	"threadledger/internal/matching"
	"threadledger/internal/models"
	"threadledger/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SyncService ingests batches of external line items into the ledger. It is
// one of the two producers allowed to append transactions; the other is the
// adjustment approval workflow.
type SyncService interface {
	IngestBatch(ctx context.Context, agencyID uuid.UUID, source string, items []models.LineItem) (*models.BatchReport, error)
}

type syncService struct {
	txRepo       repositories.TransactionRepository
	productRepo  repositories.ProductRepository
	standardizer *categories.Standardizer
	cacheSvc     caching.CacheService
	logger       *zap.SugaredLogger
}

func NewSyncService(txRepo repositories.TransactionRepository, productRepo repositories.ProductRepository,
	standardizer *categories.Standardizer, cacheSvc caching.CacheService, logger *zap.SugaredLogger) SyncService {
	return &syncService{
		txRepo:       txRepo,
		productRepo:  productRepo,
		standardizer: standardizer,
		cacheSvc:     cacheSvc,
		logger:       logger,
	}
}

// IngestBatch processes every line item against one catalog snapshot. A
// single line's failure never aborts the batch: validation and persistence
// errors are recorded per line and processing continues. Duplicates on the
// (externalSource, externalId) idempotency key are skips, not errors. When
// ctx is cancelled, lines already appended stand and the report covers what
// was processed.
func (s *syncService) IngestBatch(ctx context.Context, agencyID uuid.UUID, source string, items []models.LineItem) (*models.BatchReport, error) {
	report := &models.BatchReport{Failed: []models.FailedLine{}}

	catalog, err := s.productRepo.Snapshot(ctx, agencyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog snapshot: %w", err)
	}

	var aborted error
	for i, item := range items {
		if ctx.Err() != nil {
			// Already-appended lines stand; the report covers them.
			aborted = ctx.Err()
			s.logger.Warnw("batch ingestion aborted", "agency_id", agencyID, "source", source, "processed", i)
			break
		}

		if item.ExternalID != "" {
			exists, err := s.txRepo.ExistsByExternalRef(ctx, agencyID, source, item.ExternalID)
			if err != nil {
				report.Failed = append(report.Failed, failedLine(i, item, fmt.Sprintf("failed to check idempotency key: %v", err)))
				continue
			}
			if exists {
				report.SkippedDuplicate++
				continue
			}
		}

		if !item.Type.Valid() {
			report.Failed = append(report.Failed, failedLine(i, item, fmt.Sprintf("unknown transaction type %q", item.Type)))
			continue
		}
		if !item.Type.AllowsDelta(item.Quantity) {
			report.Failed = append(report.Failed, failedLine(i, item, common.NewSignError(item.Type, item.Quantity).Error()))
			continue
		}
		if item.UnitPrice.IsNegative() {
			report.Failed = append(report.Failed, failedLine(i, item, "unit price must not be negative"))
			continue
		}

		match := matching.Resolve(item.RawDescription, catalog)

		entry := &models.InventoryTransaction{
			ID:               uuid.New(),
			AgencyID:         agencyID,
			RawDescription:   item.RawDescription,
			Key:              match.Key,
			MatchedProductID: match.ProductID,
			Type:             item.Type,
			QuantityDelta:    item.Quantity,
			UnitPrice:        item.UnitPrice,
			Timestamp:        time.Now().UTC(),
		}
		if item.ExternalID != "" {
			src := source
			extID := item.ExternalID
			entry.ExternalSource = &src
			entry.ExternalID = &extID
		}
		if item.ReferenceName != "" {
			ref := item.ReferenceName
			entry.ReferenceName = &ref
		}
		if item.Notes != "" {
			notes := item.Notes
			entry.Notes = &notes
		}

		if err := s.txRepo.Append(ctx, entry); err != nil {
			if errors.Is(err, common.ErrDuplicateIngestion) {
				// Lost a race with a concurrent ingest of the same line.
				report.SkippedDuplicate++
				continue
			}
			report.Failed = append(report.Failed, failedLine(i, item, fmt.Sprintf("failed to append transaction: %v", err)))
			continue
		}

		report.Ingested++
		if match.ProductID != nil {
			report.Matched++
		} else {
			report.Unmatched++
		}
	}

	if report.Ingested > 0 {
		if cacheErr := s.cacheSvc.InvalidateStock(context.WithoutCancel(ctx), agencyID); cacheErr != nil {
			s.logger.Warnw("failed to invalidate stock cache after ingestion", "agency_id", agencyID, "error", cacheErr)
		}
	}

	s.logger.Infow("batch ingested",
		"agency_id", agencyID,
		"source", source,
		"ingested", report.Ingested,
		"skipped_duplicate", report.SkippedDuplicate,
		"matched", report.Matched,
		"unmatched", report.Unmatched,
		"failed", len(report.Failed),
	)

	return report, aborted
}

func failedLine(index int, item models.LineItem, reason string) models.FailedLine {
	return models.FailedLine{
		Index:          index,
		RawDescription: item.RawDescription,
		Reason:         reason,
	}
}
