package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"threadledger/internal/caching"
	"threadledger/internal/categories"
	"threadledger/internal/common"
	"threadledger/internal/models"
	"threadledger/internal/parsing"
	"threadledger/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// summaryCacheTTL bounds how long a materialized summary snapshot may serve
// reads before being recomputed even without an invalidation.
const summaryCacheTTL = 5 * time.Minute

// StockService is the read side. Every number it returns is derived from the
// ledger by summation; there is no separately maintained running total.
type StockService interface {
	GetStockSummary(ctx context.Context, agencyID uuid.UUID, filter *models.StockFilter) ([]*models.StockSummary, error)
	GetProductStock(ctx context.Context, agencyID uuid.UUID, ref string) (*models.StockSummary, error)
	GetTransactionHistory(ctx context.Context, agencyID uuid.UUID, limit int) ([]*models.InventoryTransaction, error)
	ListCategories(ctx context.Context, agencyID uuid.UUID) ([]string, error)
}

type stockService struct {
	txRepo       repositories.TransactionRepository
	productRepo  repositories.ProductRepository
	standardizer *categories.Standardizer
	cacheSvc     caching.CacheService
	logger       *zap.SugaredLogger
}

func NewStockService(txRepo repositories.TransactionRepository, productRepo repositories.ProductRepository,
	standardizer *categories.Standardizer, cacheSvc caching.CacheService, logger *zap.SugaredLogger) StockService {
	return &stockService{
		txRepo:       txRepo,
		productRepo:  productRepo,
		standardizer: standardizer,
		cacheSvc:     cacheSvc,
		logger:       logger,
	}
}

// Summarize derives per-identity stock views from a ledger snapshot.
// Transactions group under their matched product when one exists, otherwise
// under the normalized description key. Pure: the same ledger and catalog
// always produce the same summaries, and currentStock == stockIn - stockOut
// holds for every group by construction.
func Summarize(agencyID uuid.UUID, txs []*models.InventoryTransaction, catalog []*models.Product, standardizer *categories.Standardizer) []*models.StockSummary {
	productsByID := make(map[uuid.UUID]*models.Product, len(catalog))
	for _, p := range catalog {
		productsByID[p.ID] = p
	}

	type accumulator struct {
		summary    *models.StockSummary
		priceTotal decimal.Decimal
		pricedTxs  int64
		variants   map[string]struct{}
	}

	groups := make(map[string]*accumulator)
	var order []string

	for _, t := range txs {
		key := t.GroupKey()
		acc, ok := groups[key]
		if !ok {
			acc = &accumulator{
				summary: &models.StockSummary{
					AgencyID:  agencyID,
					ProductID: t.MatchedProductID,
					Key:       t.Key,
					FirstSeen: t.Timestamp,
					LastSeen:  t.Timestamp,
				},
				variants: make(map[string]struct{}),
			}
			acc.summary.DisplayName = displayName(t, productsByID)
			var matched *models.Product
			if t.MatchedProductID != nil {
				matched = productsByID[*t.MatchedProductID]
			}
			acc.summary.Category, acc.summary.SubCategory = standardizer.Standardize(t.RawDescription, matched)
			groups[key] = acc
			order = append(order, key)
		}

		s := acc.summary
		s.CurrentStock += t.QuantityDelta
		if t.QuantityDelta > 0 {
			s.StockIn += t.QuantityDelta
		} else {
			s.StockOut += -t.QuantityDelta
		}
		s.TransactionCount++
		acc.variants[t.Key.Color+"\x00"+t.Key.Size] = struct{}{}

		if t.UnitPrice.IsPositive() {
			acc.priceTotal = acc.priceTotal.Add(t.UnitPrice)
			acc.pricedTxs++
		}
		if t.Timestamp.Before(s.FirstSeen) {
			s.FirstSeen = t.Timestamp
		}
		if t.Timestamp.After(s.LastSeen) {
			s.LastSeen = t.Timestamp
		}
	}

	summaries := make([]*models.StockSummary, 0, len(groups))
	for _, key := range order {
		acc := groups[key]
		acc.summary.VariantCount = len(acc.variants)
		if acc.pricedTxs > 0 {
			acc.summary.AvgUnitPrice = acc.priceTotal.Div(decimal.NewFromInt(acc.pricedTxs))
		}
		summaries = append(summaries, acc.summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].DisplayName != summaries[j].DisplayName {
			return summaries[i].DisplayName < summaries[j].DisplayName
		}
		return summaries[i].Key.GroupKey() < summaries[j].Key.GroupKey()
	})
	return summaries
}

func displayName(t *models.InventoryTransaction, productsByID map[uuid.UUID]*models.Product) string {
	if t.MatchedProductID != nil {
		if p, ok := productsByID[*t.MatchedProductID]; ok {
			return p.Name
		}
	}
	name := t.Key.BaseName
	if t.Key.Color != "" {
		name += "-" + t.Key.Color
	}
	if t.Key.Size != "" {
		name += " " + t.Key.Size
	}
	return name
}

// GetStockSummary recomputes (or serves the cached recomputation of) the
// agency's full summary set, then applies filters and pagination in memory.
func (s *stockService) GetStockSummary(ctx context.Context, agencyID uuid.UUID, filter *models.StockFilter) ([]*models.StockSummary, error) {
	summaries, err := s.loadSummaries(ctx, agencyID)
	if err != nil {
		return nil, err
	}

	if filter == nil {
		filter = &models.StockFilter{}
	}
	limit, offset := common.ValidatePaginationParams(filter.Limit, filter.Offset)

	var filtered []*models.StockSummary
	query := strings.ToUpper(strings.TrimSpace(filter.Query))
	for _, sum := range summaries {
		if query != "" && !strings.Contains(strings.ToUpper(sum.DisplayName), query) {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(sum.Category, filter.Category) {
			continue
		}
		filtered = append(filtered, sum)
	}

	if offset >= len(filtered) {
		return []*models.StockSummary{}, nil
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end], nil
}

// GetProductStock looks up one summary by product id, raw description or
// normalized key.
func (s *stockService) GetProductStock(ctx context.Context, agencyID uuid.UUID, ref string) (*models.StockSummary, error) {
	summaries, err := s.loadSummaries(ctx, agencyID)
	if err != nil {
		return nil, err
	}

	if productID, err := uuid.Parse(ref); err == nil {
		for _, sum := range summaries {
			if sum.ProductID != nil && *sum.ProductID == productID {
				return sum, nil
			}
		}
		return nil, common.ErrNotFound
	}

	groupKey := parsing.Normalize(ref).GroupKey()
	for _, sum := range summaries {
		if sum.ProductID == nil && sum.Key.GroupKey() == groupKey {
			return sum, nil
		}
	}
	return nil, common.ErrNotFound
}

func (s *stockService) GetTransactionHistory(ctx context.Context, agencyID uuid.UUID, limit int) ([]*models.InventoryTransaction, error) {
	limit, _ = common.ValidatePaginationParams(limit, 0)
	return s.txRepo.History(ctx, agencyID, limit)
}

// ListCategories returns the catalog's distinct standardized categories so
// clients can populate the stock filter picker.
func (s *stockService) ListCategories(ctx context.Context, agencyID uuid.UUID) ([]string, error) {
	return s.productRepo.ListCategories(ctx, agencyID)
}

func (s *stockService) loadSummaries(ctx context.Context, agencyID uuid.UUID) ([]*models.StockSummary, error) {
	cached, err := s.cacheSvc.GetStockSummaries(ctx, agencyID)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, caching.ErrCacheMiss) {
		s.logger.Warnw("stock cache read failed, recomputing from ledger", "agency_id", agencyID, "error", err)
	}

	txs, err := s.txRepo.ListByAgency(ctx, agencyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	catalog, err := s.productRepo.Snapshot(ctx, agencyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog snapshot: %w", err)
	}

	summaries := Summarize(agencyID, txs, catalog, s.standardizer)

	if cacheErr := s.cacheSvc.SetStockSummaries(ctx, agencyID, summaries, summaryCacheTTL); cacheErr != nil {
		s.logger.Warnw("failed to cache stock summaries", "agency_id", agencyID, "error", cacheErr)
	}
	return summaries, nil
}
