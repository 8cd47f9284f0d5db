package models

import (
	"time"

	"github.com/google/uuid"
)

// AdjustmentStatus is the approval state of a stock adjustment request.
type AdjustmentStatus string

const (
	AdjustmentPending  AdjustmentStatus = "pending"
	AdjustmentApproved AdjustmentStatus = "approved"
	AdjustmentRejected AdjustmentStatus = "rejected"
)

// Valid reports whether s is a known adjustment status.
func (s AdjustmentStatus) Valid() bool {
	switch s {
	case AdjustmentPending, AdjustmentApproved, AdjustmentRejected:
		return true
	}
	return false
}

// AdjustmentRequest is a human-requested stock correction. It is created
// pending and transitions exactly once to approved or rejected; only an
// approved request produces a ledger entry.
type AdjustmentRequest struct {
	ID                 uuid.UUID        `json:"id" db:"id"`
	AgencyID           uuid.UUID        `json:"agency_id" db:"agency_id"`
	ProductID          *uuid.UUID       `json:"product_id" db:"product_id"`
	ProductDescription string           `json:"product_description" db:"product_description"`
	Quantity           int              `json:"quantity" db:"quantity"`
	Reason             string           `json:"reason" db:"reason"`
	Status             AdjustmentStatus `json:"status" db:"status"`
	RequestedBy        uuid.UUID        `json:"requested_by" db:"requested_by"`
	ReviewedBy         *uuid.UUID       `json:"reviewed_by" db:"reviewed_by"`
	RequestedAt        time.Time        `json:"requested_at" db:"requested_at"`
	ReviewedAt         *time.Time       `json:"reviewed_at" db:"reviewed_at"`
}
