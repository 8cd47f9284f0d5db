package services

import (
	"context"
	"time"

	"threadledger/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock repositories and services

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Append(ctx context.Context, t *models.InventoryTransaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTransactionRepository) ExistsByExternalRef(ctx context.Context, agencyID uuid.UUID, source, externalID string) (bool, error) {
	args := m.Called(ctx, agencyID, source, externalID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepository) ListByAgency(ctx context.Context, agencyID uuid.UUID) ([]*models.InventoryTransaction, error) {
	args := m.Called(ctx, agencyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryTransaction), args.Error(1)
}

func (m *MockTransactionRepository) History(ctx context.Context, agencyID uuid.UUID, limit int) ([]*models.InventoryTransaction, error) {
	args := m.Called(ctx, agencyID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryTransaction), args.Error(1)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Snapshot(ctx context.Context, agencyID uuid.UUID) ([]*models.Product, error) {
	args := m.Called(ctx, agencyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, agencyID, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, agencyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) ListCategories(ctx context.Context, agencyID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, agencyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockAdjustmentRepository struct {
	mock.Mock
}

func (m *MockAdjustmentRepository) Create(ctx context.Context, req *models.AdjustmentRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockAdjustmentRepository) GetByID(ctx context.Context, agencyID, id uuid.UUID) (*models.AdjustmentRequest, error) {
	args := m.Called(ctx, agencyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdjustmentRequest), args.Error(1)
}

func (m *MockAdjustmentRepository) ListByStatus(ctx context.Context, agencyID uuid.UUID, status models.AdjustmentStatus, limit, offset int) ([]*models.AdjustmentRequest, error) {
	args := m.Called(ctx, agencyID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AdjustmentRequest), args.Error(1)
}

func (m *MockAdjustmentRepository) Approve(ctx context.Context, agencyID, id, reviewer uuid.UUID, entry *models.InventoryTransaction) error {
	args := m.Called(ctx, agencyID, id, reviewer, entry)
	return args.Error(0)
}

func (m *MockAdjustmentRepository) Reject(ctx context.Context, agencyID, id, reviewer uuid.UUID) error {
	args := m.Called(ctx, agencyID, id, reviewer)
	return args.Error(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetStockSummaries(ctx context.Context, agencyID uuid.UUID) ([]*models.StockSummary, error) {
	args := m.Called(ctx, agencyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StockSummary), args.Error(1)
}

func (m *MockCacheService) SetStockSummaries(ctx context.Context, agencyID uuid.UUID, summaries []*models.StockSummary, ttl time.Duration) error {
	args := m.Called(ctx, agencyID, summaries, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateStock(ctx context.Context, agencyID uuid.UUID) error {
	args := m.Called(ctx, agencyID)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
