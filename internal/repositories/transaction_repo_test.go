package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"threadledger/internal/common"
	"threadledger/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type TransactionRepoTestSuite struct {
	suite.Suite
	mock     pgxmock.PgxPoolIface
	repo     TransactionRepository
	agencyID uuid.UUID
	ctx      context.Context
}

func (suite *TransactionRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewTransactionRepo(mock)
	suite.agencyID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *TransactionRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestTransactionRepoTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionRepoTestSuite))
}

func (suite *TransactionRepoTestSuite) entry() *models.InventoryTransaction {
	source := "bulkfeed"
	externalID := "inv-1"
	return &models.InventoryTransaction{
		ID:             uuid.New(),
		AgencyID:       suite.agencyID,
		RawDescription: "[SB42] SOLACE-BLACK 42",
		Key:            models.NormalizedKey{BaseName: "SOLACE", Color: "BLACK", Size: "42"},
		Type:           models.TransactionExternalInvoice,
		QuantityDelta:  10,
		UnitPrice:      decimal.NewFromInt(500),
		ExternalSource: &source,
		ExternalID:     &externalID,
		Timestamp:      time.Now().UTC(),
	}
}

func (suite *TransactionRepoTestSuite) TestAppend_Success() {
	t := suite.entry()

	suite.mock.ExpectExec(`INSERT INTO inventory_transactions`).
		WithArgs(t.ID, t.AgencyID, t.RawDescription, t.Key.BaseName, t.Key.Color, t.Key.Size,
			t.MatchedProductID, t.Type, t.QuantityDelta, t.UnitPrice,
			t.ExternalSource, t.ExternalID, t.ReferenceName, t.Notes, t.Timestamp).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Append(suite.ctx, t)
	assert.NoError(suite.T(), err)
}

// The partial unique index on the idempotency key surfaces as a duplicate,
// not a raw database error.
func (suite *TransactionRepoTestSuite) TestAppend_UniqueViolationMapsToDuplicate() {
	t := suite.entry()

	suite.mock.ExpectExec(`INSERT INTO inventory_transactions`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "inventory_transactions_external_ref_idx"})

	err := suite.repo.Append(suite.ctx, t)
	assert.ErrorIs(suite.T(), err, common.ErrDuplicateIngestion)
}

func (suite *TransactionRepoTestSuite) TestAppend_OtherErrorsPassThrough() {
	t := suite.entry()
	dbErr := errors.New("connection reset")

	suite.mock.ExpectExec(`INSERT INTO inventory_transactions`).WillReturnError(dbErr)

	err := suite.repo.Append(suite.ctx, t)
	assert.ErrorIs(suite.T(), err, dbErr)
}

func (suite *TransactionRepoTestSuite) TestExistsByExternalRef() {
	suite.mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(suite.agencyID, "bulkfeed", "inv-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := suite.repo.ExistsByExternalRef(suite.ctx, suite.agencyID, "bulkfeed", "inv-1")
	require.NoError(suite.T(), err)
	assert.True(suite.T(), exists)
}

func (suite *TransactionRepoTestSuite) TestHistory() {
	t := suite.entry()
	rows := pgxmock.NewRows([]string{"id", "agency_id", "raw_description", "base_name", "color", "size_label", "matched_product_id", "transaction_type", "quantity_delta", "unit_price", "external_source", "external_id", "reference_name", "notes", "occurred_at"}).
		AddRow(t.ID, t.AgencyID, t.RawDescription, t.Key.BaseName, t.Key.Color, t.Key.Size,
			t.MatchedProductID, t.Type, t.QuantityDelta, t.UnitPrice,
			t.ExternalSource, t.ExternalID, t.ReferenceName, t.Notes, t.Timestamp)

	suite.mock.ExpectQuery(`SELECT (.+) FROM inventory_transactions`).
		WithArgs(suite.agencyID, 20).
		WillReturnRows(rows)

	txs, err := suite.repo.History(suite.ctx, suite.agencyID, 20)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), txs, 1)
	assert.Equal(suite.T(), t.ID, txs[0].ID)
	assert.Equal(suite.T(), t.Key, txs[0].Key)
}
