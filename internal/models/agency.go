package models

import (
	"time"

	"github.com/google/uuid"
)

// Agency is a tenant. All ledger, catalog and adjustment data is partitioned
// by agency.
type Agency struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
