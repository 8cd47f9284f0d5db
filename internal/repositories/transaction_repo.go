package repositories

import (
	"context"
	"errors"

	"threadledger/internal/common"
	"threadledger/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Database is the pgx surface the repositories need. *pgxpool.Pool satisfies
// it in production and pgxmock in tests.
type Database interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// TransactionRepository is the append-only ledger store. There are no update
// or delete operations: corrections are new entries.
type TransactionRepository interface {
	Append(ctx context.Context, t *models.InventoryTransaction) error
	ExistsByExternalRef(ctx context.Context, agencyID uuid.UUID, source, externalID string) (bool, error)
	ListByAgency(ctx context.Context, agencyID uuid.UUID) ([]*models.InventoryTransaction, error)
	History(ctx context.Context, agencyID uuid.UUID, limit int) ([]*models.InventoryTransaction, error)
}

type transactionRepo struct {
	db Database
}

func NewTransactionRepo(db Database) TransactionRepository {
	return &transactionRepo{db: db}
}

const insertTransactionSQL = `
		INSERT INTO inventory_transactions (id, agency_id, raw_description, base_name, color, size_label, matched_product_id, transaction_type, quantity_delta, unit_price, external_source, external_id, reference_name, notes, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

// insertTransaction runs the ledger insert against a pool or an open pgx.Tx.
// The partial unique index on (agency_id, external_source, external_id)
// enforces the idempotency key; its violation maps to ErrDuplicateIngestion.
func insertTransaction(ctx context.Context, db execer, t *models.InventoryTransaction) error {
	_, err := db.Exec(ctx, insertTransactionSQL,
		t.ID, t.AgencyID, t.RawDescription, t.Key.BaseName, t.Key.Color, t.Key.Size,
		t.MatchedProductID, t.Type, t.QuantityDelta, t.UnitPrice,
		t.ExternalSource, t.ExternalID, t.ReferenceName, t.Notes, t.Timestamp)
	if isUniqueViolation(err) {
		return common.ErrDuplicateIngestion
	}
	return err
}

func (r *transactionRepo) Append(ctx context.Context, t *models.InventoryTransaction) error {
	return insertTransaction(ctx, r.db, t)
}

func (r *transactionRepo) ExistsByExternalRef(ctx context.Context, agencyID uuid.UUID, source, externalID string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM inventory_transactions
			WHERE agency_id = $1 AND external_source = $2 AND external_id = $3
		)
	`
	err := r.db.QueryRow(ctx, query, agencyID, source, externalID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

const selectTransactionColumns = `
		SELECT id, agency_id, raw_description, base_name, color, size_label, matched_product_id, transaction_type, quantity_delta, unit_price, external_source, external_id, reference_name, notes, occurred_at
		FROM inventory_transactions
	`

func (r *transactionRepo) ListByAgency(ctx context.Context, agencyID uuid.UUID) ([]*models.InventoryTransaction, error) {
	query := selectTransactionColumns + `
		WHERE agency_id = $1
		ORDER BY occurred_at ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, agencyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (r *transactionRepo) History(ctx context.Context, agencyID uuid.UUID, limit int) ([]*models.InventoryTransaction, error) {
	query := selectTransactionColumns + `
		WHERE agency_id = $1
		ORDER BY occurred_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, agencyID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func scanTransactions(rows pgx.Rows) ([]*models.InventoryTransaction, error) {
	var txs []*models.InventoryTransaction
	for rows.Next() {
		t := &models.InventoryTransaction{}
		if err := rows.Scan(&t.ID, &t.AgencyID, &t.RawDescription, &t.Key.BaseName, &t.Key.Color, &t.Key.Size,
			&t.MatchedProductID, &t.Type, &t.QuantityDelta, &t.UnitPrice,
			&t.ExternalSource, &t.ExternalID, &t.ReferenceName, &t.Notes, &t.Timestamp); err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
