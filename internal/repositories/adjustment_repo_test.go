package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"threadledger/internal/common"
	"threadledger/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type AdjustmentRepoTestSuite struct {
	suite.Suite
	mock       pgxmock.PgxPoolIface
	repo       AdjustmentRepository
	agencyID   uuid.UUID
	requestID  uuid.UUID
	reviewerID uuid.UUID
	ctx        context.Context
}

func (suite *AdjustmentRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewAdjustmentRepo(mock)
	suite.agencyID = uuid.New()
	suite.requestID = uuid.New()
	suite.reviewerID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *AdjustmentRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestAdjustmentRepoTestSuite(t *testing.T) {
	suite.Run(t, new(AdjustmentRepoTestSuite))
}

func (suite *AdjustmentRepoTestSuite) ledgerEntry() *models.InventoryTransaction {
	reference := "adjustment:damaged"
	notes := "damaged"
	return &models.InventoryTransaction{
		ID:             uuid.New(),
		AgencyID:       suite.agencyID,
		RawDescription: "[SB42] SOLACE-BLACK 42",
		Key:            models.NormalizedKey{BaseName: "SOLACE", Color: "BLACK", Size: "42"},
		Type:           models.TransactionAdjustment,
		QuantityDelta:  -2,
		UnitPrice:      decimal.Zero,
		ReferenceName:  &reference,
		Notes:          &notes,
		Timestamp:      time.Now().UTC(),
	}
}

// Status flip and ledger append commit together.
func (suite *AdjustmentRepoTestSuite) TestApprove_CommitsStatusAndLedgerTogether() {
	entry := suite.ledgerEntry()

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`UPDATE adjustment_requests`).
		WithArgs(models.AdjustmentApproved, suite.reviewerID, suite.agencyID, suite.requestID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectExec(`INSERT INTO inventory_transactions`).
		WithArgs(entry.ID, entry.AgencyID, entry.RawDescription, entry.Key.BaseName, entry.Key.Color, entry.Key.Size,
			entry.MatchedProductID, entry.Type, entry.QuantityDelta, entry.UnitPrice,
			entry.ExternalSource, entry.ExternalID, entry.ReferenceName, entry.Notes, entry.Timestamp).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectCommit()

	err := suite.repo.Approve(suite.ctx, suite.agencyID, suite.requestID, suite.reviewerID, entry)
	assert.NoError(suite.T(), err)
}

// The compare-and-set only succeeds while the request is pending; zero rows
// means someone else already decided it.
func (suite *AdjustmentRepoTestSuite) TestApprove_ConflictWhenNotPending() {
	entry := suite.ledgerEntry()

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`UPDATE adjustment_requests`).
		WithArgs(models.AdjustmentApproved, suite.reviewerID, suite.agencyID, suite.requestID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	suite.mock.ExpectRollback()

	err := suite.repo.Approve(suite.ctx, suite.agencyID, suite.requestID, suite.reviewerID, entry)
	assert.ErrorIs(suite.T(), err, common.ErrApprovalConflict)
}

// A failed ledger append rolls the status flip back so the request stays
// pending for retry.
func (suite *AdjustmentRepoTestSuite) TestApprove_LedgerFailureRollsBack() {
	entry := suite.ledgerEntry()
	dbErr := errors.New("disk full")

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`UPDATE adjustment_requests`).
		WithArgs(models.AdjustmentApproved, suite.reviewerID, suite.agencyID, suite.requestID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectExec(`INSERT INTO inventory_transactions`).WillReturnError(dbErr)
	suite.mock.ExpectRollback()

	err := suite.repo.Approve(suite.ctx, suite.agencyID, suite.requestID, suite.reviewerID, entry)
	assert.ErrorIs(suite.T(), err, dbErr)
}

func (suite *AdjustmentRepoTestSuite) TestReject_Success() {
	suite.mock.ExpectExec(`UPDATE adjustment_requests`).
		WithArgs(models.AdjustmentRejected, suite.reviewerID, suite.agencyID, suite.requestID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.Reject(suite.ctx, suite.agencyID, suite.requestID, suite.reviewerID)
	assert.NoError(suite.T(), err)
}

func (suite *AdjustmentRepoTestSuite) TestReject_ConflictWhenNotPending() {
	suite.mock.ExpectExec(`UPDATE adjustment_requests`).
		WithArgs(models.AdjustmentRejected, suite.reviewerID, suite.agencyID, suite.requestID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.Reject(suite.ctx, suite.agencyID, suite.requestID, suite.reviewerID)
	assert.ErrorIs(suite.T(), err, common.ErrApprovalConflict)
}

func (suite *AdjustmentRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`SELECT (.+) FROM adjustment_requests`).
		WithArgs(suite.agencyID, suite.requestID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	_, err := suite.repo.GetByID(suite.ctx, suite.agencyID, suite.requestID)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}
