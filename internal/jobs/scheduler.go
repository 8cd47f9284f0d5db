package jobs

import (
	"context"
	"time"

	"threadledger/internal/repositories"
	"threadledger/internal/services"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Scheduler manages the recurring background jobs
type Scheduler struct {
	scheduler  gocron.Scheduler
	feedSync   *FeedSyncJob
	stockSvc   services.StockService
	agencyRepo repositories.AgencyRepository
	logger     *zap.SugaredLogger
}

// NewScheduler creates a scheduler with the feed sync and cache warm jobs
// registered. Start must be called to begin execution.
func NewScheduler(feedSync *FeedSyncJob, stockSvc services.StockService,
	agencyRepo repositories.AgencyRepository, syncInterval time.Duration,
	logger *zap.SugaredLogger) (*Scheduler, error) {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		scheduler:  scheduler,
		feedSync:   feedSync,
		stockSvc:   stockSvc,
		agencyRepo: agencyRepo,
		logger:     logger,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(syncInterval),
		gocron.NewTask(s.runFeedSync),
		gocron.WithName("feed-sync"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(s.warmStockSummaries),
		gocron.WithName("stock-summary-warm"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins executing the registered jobs
func (s *Scheduler) Start() {
	s.logger.Infow("starting background job scheduler")
	s.scheduler.Start()
}

// Shutdown stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Shutdown() error {
	s.logger.Infow("stopping background job scheduler")
	return s.scheduler.Shutdown()
}

func (s *Scheduler) runFeedSync() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := s.feedSync.Run(ctx); err != nil {
		s.logger.Errorw("feed sync cycle failed", "error", err)
	}
}

// warmStockSummaries recomputes and caches the stock summary for every
// agency so interactive reads stay fast after cache invalidation.
func (s *Scheduler) warmStockSummaries() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	agencies, err := s.agencyRepo.List(ctx)
	if err != nil {
		s.logger.Errorw("failed to list agencies for summary warm", "error", err)
		return
	}

	for _, agency := range agencies {
		if _, err := s.stockSvc.GetStockSummary(ctx, agency.ID, nil); err != nil {
			s.logger.Errorw("failed to warm stock summary", "agency_id", agency.ID, "error", err)
		}
	}
}
