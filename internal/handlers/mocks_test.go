package handlers

import (
	"context"

	"threadledger/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockSyncService struct {
	mock.Mock
}

func (m *MockSyncService) IngestBatch(ctx context.Context, agencyID uuid.UUID, source string, items []models.LineItem) (*models.BatchReport, error) {
	args := m.Called(ctx, agencyID, source, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BatchReport), args.Error(1)
}

type MockStockService struct {
	mock.Mock
}

func (m *MockStockService) GetStockSummary(ctx context.Context, agencyID uuid.UUID, filter *models.StockFilter) ([]*models.StockSummary, error) {
	args := m.Called(ctx, agencyID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StockSummary), args.Error(1)
}

func (m *MockStockService) GetProductStock(ctx context.Context, agencyID uuid.UUID, ref string) (*models.StockSummary, error) {
	args := m.Called(ctx, agencyID, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockSummary), args.Error(1)
}

func (m *MockStockService) GetTransactionHistory(ctx context.Context, agencyID uuid.UUID, limit int) ([]*models.InventoryTransaction, error) {
	args := m.Called(ctx, agencyID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryTransaction), args.Error(1)
}

func (m *MockStockService) ListCategories(ctx context.Context, agencyID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, agencyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockAdjustmentService struct {
	mock.Mock
}

func (m *MockAdjustmentService) Request(ctx context.Context, agencyID, requestedBy uuid.UUID, productID *uuid.UUID, description string, quantity int, reason string) (*models.AdjustmentRequest, error) {
	args := m.Called(ctx, agencyID, requestedBy, productID, description, quantity, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdjustmentRequest), args.Error(1)
}

func (m *MockAdjustmentService) Approve(ctx context.Context, agencyID, requestID, reviewer uuid.UUID) error {
	args := m.Called(ctx, agencyID, requestID, reviewer)
	return args.Error(0)
}

func (m *MockAdjustmentService) Reject(ctx context.Context, agencyID, requestID, reviewer uuid.UUID) error {
	args := m.Called(ctx, agencyID, requestID, reviewer)
	return args.Error(0)
}

func (m *MockAdjustmentService) List(ctx context.Context, agencyID uuid.UUID, status models.AdjustmentStatus, limit, offset int) ([]*models.AdjustmentRequest, error) {
	args := m.Called(ctx, agencyID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AdjustmentRequest), args.Error(1)
}
