package repositories

import (
	"context"
	"errors"

	"threadledger/internal/common"
	"threadledger/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AdjustmentRepository stores adjustment requests and owns the one
// transition in the system that needs true race protection: a compare-and-set
// on status that only succeeds while the request is still pending.
type AdjustmentRepository interface {
	Create(ctx context.Context, req *models.AdjustmentRequest) error
	GetByID(ctx context.Context, agencyID, id uuid.UUID) (*models.AdjustmentRequest, error)
	ListByStatus(ctx context.Context, agencyID uuid.UUID, status models.AdjustmentStatus, limit, offset int) ([]*models.AdjustmentRequest, error)
	Approve(ctx context.Context, agencyID, id, reviewer uuid.UUID, entry *models.InventoryTransaction) error
	Reject(ctx context.Context, agencyID, id, reviewer uuid.UUID) error
}

type adjustmentRepo struct {
	db Database
}

func NewAdjustmentRepo(db Database) AdjustmentRepository {
	return &adjustmentRepo{db: db}
}

func (r *adjustmentRepo) Create(ctx context.Context, req *models.AdjustmentRequest) error {
	query := `
		INSERT INTO adjustment_requests (id, agency_id, product_id, product_description, quantity, reason, status, requested_by, requested_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query, req.ID, req.AgencyID, req.ProductID, req.ProductDescription,
		req.Quantity, req.Reason, req.Status, req.RequestedBy, req.RequestedAt)
	return err
}

const selectAdjustmentColumns = `
		SELECT id, agency_id, product_id, product_description, quantity, reason, status, requested_by, reviewed_by, requested_at, reviewed_at
		FROM adjustment_requests
	`

func (r *adjustmentRepo) GetByID(ctx context.Context, agencyID, id uuid.UUID) (*models.AdjustmentRequest, error) {
	query := selectAdjustmentColumns + `
		WHERE agency_id = $1 AND id = $2
	`
	req := &models.AdjustmentRequest{}
	err := r.db.QueryRow(ctx, query, agencyID, id).Scan(&req.ID, &req.AgencyID, &req.ProductID, &req.ProductDescription,
		&req.Quantity, &req.Reason, &req.Status, &req.RequestedBy, &req.ReviewedBy, &req.RequestedAt, &req.ReviewedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *adjustmentRepo) ListByStatus(ctx context.Context, agencyID uuid.UUID, status models.AdjustmentStatus, limit, offset int) ([]*models.AdjustmentRequest, error) {
	query := selectAdjustmentColumns + `
		WHERE agency_id = $1 AND status = $2
		ORDER BY requested_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query, agencyID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []*models.AdjustmentRequest
	for rows.Next() {
		req := &models.AdjustmentRequest{}
		if err := rows.Scan(&req.ID, &req.AgencyID, &req.ProductID, &req.ProductDescription,
			&req.Quantity, &req.Reason, &req.Status, &req.RequestedBy, &req.ReviewedBy, &req.RequestedAt, &req.ReviewedAt); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

const transitionSQL = `
		UPDATE adjustment_requests
		SET status = $1, reviewed_by = $2, reviewed_at = NOW()
		WHERE agency_id = $3 AND id = $4 AND status = 'pending'
	`

// Approve flips a pending request to approved and appends its ledger entry
// as one database transaction. Either both happen or neither does: a failed
// append rolls the status back to pending so the request can be retried.
// A request that is not pending yields ErrApprovalConflict.
func (r *adjustmentRepo) Approve(ctx context.Context, agencyID, id, reviewer uuid.UUID, entry *models.InventoryTransaction) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, transitionSQL, models.AdjustmentApproved, reviewer, agencyID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrApprovalConflict
	}

	if err := insertTransaction(ctx, tx, entry); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Reject flips a pending request to rejected. No ledger effect.
func (r *adjustmentRepo) Reject(ctx context.Context, agencyID, id, reviewer uuid.UUID) error {
	tag, err := r.db.Exec(ctx, transitionSQL, models.AdjustmentRejected, reviewer, agencyID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrApprovalConflict
	}
	return nil
}
