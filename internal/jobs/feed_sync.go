package jobs

import (
	"context"
	"fmt"

	"threadledger/internal/models"
	"threadledger/internal/repositories"
	"threadledger/internal/services"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FeedSource is an upstream system that can be polled for new line items.
// FetchBatch returns the items that appeared since the last poll; the
// ingestion idempotency key makes re-delivery harmless.
type FeedSource interface {
	Name() string
	FetchBatch(ctx context.Context, agencyID uuid.UUID, limit int) ([]models.LineItem, error)
}

// FeedSyncJob polls every registered feed source for every agency and pushes
// the fetched batches through the sync pipeline.
type FeedSyncJob struct {
	syncSvc    services.SyncService
	agencyRepo repositories.AgencyRepository
	sources    []FeedSource
	batchLimit int
	logger     *zap.SugaredLogger
}

// NewFeedSyncJob creates a feed sync job over the given sources
func NewFeedSyncJob(syncSvc services.SyncService, agencyRepo repositories.AgencyRepository,
	sources []FeedSource, batchLimit int, logger *zap.SugaredLogger) *FeedSyncJob {
	return &FeedSyncJob{
		syncSvc:    syncSvc,
		agencyRepo: agencyRepo,
		sources:    sources,
		batchLimit: batchLimit,
		logger:     logger,
	}
}

// Run performs one full sync cycle. A failing source or agency never stops
// the cycle; failures are logged and the remaining work continues.
func (j *FeedSyncJob) Run(ctx context.Context) error {
	agencies, err := j.agencyRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list agencies for feed sync: %w", err)
	}

	var failures int
	for _, agency := range agencies {
		for _, source := range j.sources {
			if err := j.syncOne(ctx, agency.ID, source); err != nil {
				failures++
				j.logger.Errorw("feed sync failed",
					"agency_id", agency.ID,
					"source", source.Name(),
					"error", err,
				)
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
	}

	if failures > 0 {
		return fmt.Errorf("feed sync cycle finished with %d failures", failures)
	}
	return nil
}

func (j *FeedSyncJob) syncOne(ctx context.Context, agencyID uuid.UUID, source FeedSource) error {
	items, err := source.FetchBatch(ctx, agencyID, j.batchLimit)
	if err != nil {
		return fmt.Errorf("fetch from %s: %w", source.Name(), err)
	}
	if len(items) == 0 {
		return nil
	}

	report, err := j.syncSvc.IngestBatch(ctx, agencyID, source.Name(), items)
	if report != nil {
		j.logger.Infow("feed sync batch processed",
			"agency_id", agencyID,
			"source", source.Name(),
			"fetched", len(items),
			"ingested", report.Ingested,
			"skipped_duplicate", report.SkippedDuplicate,
			"failed", len(report.Failed),
		)
	}
	return err
}
