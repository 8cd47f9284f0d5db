package common

import (
	"errors"
	"fmt"

	"threadledger/internal/models"
)

// Sentinel errors for the ledger and approval workflow.
var (
	// ErrDuplicateIngestion marks a line whose (externalSource, externalId)
	// pair is already in the ledger. It is a skip, never a failure.
	ErrDuplicateIngestion = errors.New("duplicate ingestion")

	// ErrApprovalConflict marks an approve/reject attempt on a request that
	// is no longer pending.
	ErrApprovalConflict = errors.New("adjustment request is not pending")

	// ErrNotFound marks a missing record within the caller's agency scope.
	ErrNotFound = errors.New("record not found")
)

// ValidationError rejects a single batch line without aborting the batch.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewSignError builds the validation error for a quantity whose sign does
// not match its transaction type.
func NewSignError(txType models.TransactionType, quantity int) *ValidationError {
	return &ValidationError{
		Field:   "quantity",
		Message: fmt.Sprintf("quantity %d has invalid sign for transaction type %q", quantity, txType),
	}
}

// ApprovalPolicyError rejects approval of a positive-quantity adjustment.
// The request stays pending; positive adjustments never reach the ledger.
type ApprovalPolicyError struct {
	Quantity int
}

func (e *ApprovalPolicyError) Error() string {
	return fmt.Sprintf("positive stock adjustments are not permitted: quantity %d", e.Quantity)
}
