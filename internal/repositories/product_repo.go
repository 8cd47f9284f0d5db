package repositories

import (
	"context"
	"errors"

	"threadledger/internal/common"
	"threadledger/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository reads the canonical catalog. The catalog is owned by an
// external collaborator, so this repository is read-only.
type ProductRepository interface {
	Snapshot(ctx context.Context, agencyID uuid.UUID) ([]*models.Product, error)
	GetByID(ctx context.Context, agencyID, id uuid.UUID) (*models.Product, error)
	ListCategories(ctx context.Context, agencyID uuid.UUID) ([]string, error)
}

type productRepo struct {
	db Database
}

func NewProductRepo(db Database) ProductRepository {
	return &productRepo{db: db}
}

const selectProductColumns = `
		SELECT id, agency_id, name, category, sub_category, colors, sizes, unit_price, cost_price, created_at, updated_at
		FROM products
	`

// Snapshot loads the agency's full catalog in one stable order. The matcher
// works against this snapshot so a batch sees one consistent catalog.
func (r *productRepo) Snapshot(ctx context.Context, agencyID uuid.UUID) ([]*models.Product, error) {
	query := selectProductColumns + `
		WHERE agency_id = $1
		ORDER BY name ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, agencyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p := &models.Product{}
		if err := rows.Scan(&p.ID, &p.AgencyID, &p.Name, &p.Category, &p.SubCategory,
			&p.Colors, &p.Sizes, &p.UnitPrice, &p.CostPrice, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *productRepo) GetByID(ctx context.Context, agencyID, id uuid.UUID) (*models.Product, error) {
	query := selectProductColumns + `
		WHERE agency_id = $1 AND id = $2
	`
	p := &models.Product{}
	err := r.db.QueryRow(ctx, query, agencyID, id).Scan(&p.ID, &p.AgencyID, &p.Name, &p.Category, &p.SubCategory,
		&p.Colors, &p.Sizes, &p.UnitPrice, &p.CostPrice, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListCategories returns the distinct catalog categories for filter pickers.
func (r *productRepo) ListCategories(ctx context.Context, agencyID uuid.UUID) ([]string, error) {
	query := `
		SELECT DISTINCT category
		FROM products
		WHERE agency_id = $1
		ORDER BY category ASC
	`
	rows, err := r.db.Query(ctx, query, agencyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}
