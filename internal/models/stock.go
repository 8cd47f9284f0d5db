package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockSummary is a derived per-identity stock view. It is always recomputed
// from the ledger and never stored as authoritative state; CurrentStock equals
// StockIn minus StockOut by construction.
type StockSummary struct {
	AgencyID         uuid.UUID       `json:"agency_id"`
	ProductID        *uuid.UUID      `json:"product_id"`
	Key              NormalizedKey   `json:"normalized_key"`
	DisplayName      string          `json:"display_name"`
	Category         string          `json:"category"`
	SubCategory      string          `json:"sub_category"`
	CurrentStock     int             `json:"current_stock"`
	StockIn          int             `json:"stock_in"`
	StockOut         int             `json:"stock_out"`
	AvgUnitPrice     decimal.Decimal `json:"avg_unit_price"`
	TransactionCount int             `json:"transaction_count"`
	VariantCount     int             `json:"variant_count"`
	FirstSeen        time.Time       `json:"first_seen"`
	LastSeen         time.Time       `json:"last_seen"`
}

// StockFilter holds search and filter criteria for stock summary queries.
type StockFilter struct {
	Query    string `json:"query,omitempty"`    // Substring match on display name
	Category string `json:"category,omitempty"` // Standardized category filter
	Limit    int    `json:"limit,omitempty"`    // Page size (default: 50)
	Offset   int    `json:"offset,omitempty"`   // Page offset
}
