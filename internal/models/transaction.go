package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType classifies the business source of a ledger entry.
type TransactionType string

const (
	TransactionExternalInvoice TransactionType = "external_invoice"
	TransactionCustomerReturn  TransactionType = "customer_return"
	TransactionSale            TransactionType = "sale"
	TransactionCompanyReturn   TransactionType = "company_return"
	TransactionAdjustment      TransactionType = "adjustment"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionExternalInvoice, TransactionCustomerReturn, TransactionSale, TransactionCompanyReturn, TransactionAdjustment:
		return true
	}
	return false
}

// AllowsDelta reports whether the signed quantity is legal for this type.
// Inbound types must be positive, outbound types negative. Adjustments may
// only decrease stock; positive adjustments never reach the ledger.
func (t TransactionType) AllowsDelta(delta int) bool {
	switch t {
	case TransactionExternalInvoice, TransactionCustomerReturn:
		return delta > 0
	case TransactionSale, TransactionCompanyReturn, TransactionAdjustment:
		return delta < 0
	}
	return false
}

// NormalizedKey is the (baseName, color, size) triple derived from a raw
// product description. It groups transactions that have no catalog match.
type NormalizedKey struct {
	BaseName string `json:"base_name" db:"base_name"`
	Color    string `json:"color" db:"color"`
	Size     string `json:"size" db:"size"`
}

// GroupKey renders the triple as a single grouping string.
func (k NormalizedKey) GroupKey() string {
	return k.BaseName + "|" + k.Color + "|" + k.Size
}

// InventoryTransaction is one signed stock movement. Entries are immutable
// once written; corrections are new entries, never updates.
type InventoryTransaction struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	AgencyID         uuid.UUID       `json:"agency_id" db:"agency_id"`
	RawDescription   string          `json:"raw_description" db:"raw_description"`
	Key              NormalizedKey   `json:"normalized_key"`
	MatchedProductID *uuid.UUID      `json:"matched_product_id" db:"matched_product_id"`
	Type             TransactionType `json:"transaction_type" db:"transaction_type"`
	QuantityDelta    int             `json:"quantity_delta" db:"quantity_delta"`
	UnitPrice        decimal.Decimal `json:"unit_price" db:"unit_price"`
	ExternalSource   *string         `json:"external_source" db:"external_source"`
	ExternalID       *string         `json:"external_id" db:"external_id"`
	ReferenceName    *string         `json:"reference_name" db:"reference_name"`
	Notes            *string         `json:"notes" db:"notes"`
	Timestamp        time.Time       `json:"timestamp" db:"timestamp"`
}

// GroupKey returns the key summaries aggregate under: the matched product
// when one exists, otherwise the normalized description triple.
func (t *InventoryTransaction) GroupKey() string {
	if t.MatchedProductID != nil {
		return t.MatchedProductID.String()
	}
	return t.Key.GroupKey()
}
