package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a canonical catalog entry. The catalog is owned by an external
// collaborator; this core only reads it when resolving raw descriptions.
type Product struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	AgencyID    uuid.UUID       `json:"agency_id" db:"agency_id"`
	Name        string          `json:"name" db:"name"`
	Category    string          `json:"category" db:"category"`
	SubCategory string          `json:"sub_category" db:"sub_category"`
	Colors      []string        `json:"colors" db:"colors"`
	Sizes       []string        `json:"sizes" db:"sizes"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
	CostPrice   decimal.Decimal `json:"cost_price" db:"cost_price"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// MatchTier indicates how confidently a raw description was resolved.
type MatchTier string

const (
	MatchExact MatchTier = "exact"
	MatchCode  MatchTier = "code"
	MatchFuzzy MatchTier = "fuzzy"
	MatchNone  MatchTier = "none"
)

// MatchResult is the outcome of resolving one raw description against a
// catalog snapshot. It is ephemeral and never persisted.
type MatchResult struct {
	Key       NormalizedKey `json:"normalized_key"`
	ProductID *uuid.UUID    `json:"matched_product_id"`
	Tier      MatchTier     `json:"tier"`
	Score     float64       `json:"score,omitempty"`
}
