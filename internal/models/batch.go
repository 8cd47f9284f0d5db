package models

import (
	"github.com/shopspring/decimal"
)

// LineItem is one raw movement handed to the sync orchestrator by an
// external fetch layer. Quantity carries the sign expected by Type.
type LineItem struct {
	RawDescription string          `json:"raw_description" validate:"required"`
	Quantity       int             `json:"quantity" validate:"required"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	ExternalID     string          `json:"external_id"`
	Type           TransactionType `json:"transaction_type" validate:"required"`
	ReferenceName  string          `json:"reference_name,omitempty"`
	Notes          string          `json:"notes,omitempty"`
}

// FailedLine records one rejected batch line and why it was rejected.
type FailedLine struct {
	Index          int    `json:"index"`
	RawDescription string `json:"raw_description"`
	Reason         string `json:"reason"`
}

// BatchReport summarizes one ingestion run. Partial success is normal:
// failed lines never abort the batch and duplicates are skips, not errors.
type BatchReport struct {
	Ingested         int          `json:"ingested"`
	SkippedDuplicate int          `json:"skipped_duplicate"`
	Matched          int          `json:"matched"`
	Unmatched        int          `json:"unmatched"`
	Failed           []FailedLine `json:"failed_lines"`
}
