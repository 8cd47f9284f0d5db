package repositories

import (
	"context"

	"threadledger/internal/models"
)

// AgencyRepository lists tenant agencies, mainly for scheduled jobs that
// fan out per agency.
type AgencyRepository interface {
	List(ctx context.Context) ([]*models.Agency, error)
}

type agencyRepo struct {
	db Database
}

func NewAgencyRepo(db Database) AgencyRepository {
	return &agencyRepo{db: db}
}

func (r *agencyRepo) List(ctx context.Context) ([]*models.Agency, error) {
	query := `
		SELECT id, name, created_at
		FROM agencies
		ORDER BY name ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agencies []*models.Agency
	for rows.Next() {
		a := &models.Agency{}
		if err := rows.Scan(&a.ID, &a.Name, &a.CreatedAt); err != nil {
			return nil, err
		}
		agencies = append(agencies, a)
	}
	return agencies, rows.Err()
}
