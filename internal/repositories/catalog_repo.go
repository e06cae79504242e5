package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rmendiola/belleza/internal/database"
	"github.com/rmendiola/belleza/internal/models"
)

// CatalogRepository reads the bookable services and professionals.
type CatalogRepository struct {
	db *database.DB
}

func NewCatalogRepository(db *database.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

const serviceColumns = `id, name, description, category, price_cents, duration_min, active, created_at, updated_at`

func scanServiceRow(scanner rowScanner) (*models.Service, error) {
	var svc models.Service
	err := scanner.Scan(
		&svc.ID, &svc.Name, &svc.Description, &svc.Category,
		&svc.PriceCents, &svc.DurationMin, &svc.Active,
		&svc.CreatedAt, &svc.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &svc, nil
}

func (r *CatalogRepository) ListServices(ctx context.Context) ([]*models.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE active ORDER BY category, name`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	defer rows.Close()

	services := make([]*models.Service, 0)
	for rows.Next() {
		svc, err := scanServiceRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating service rows: %w", err)
	}

	return services, nil
}

func (r *CatalogRepository) GetServiceByID(ctx context.Context, id string) (*models.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`
	return scanServiceRow(r.db.Pool.QueryRow(ctx, query, id))
}

func (r *CatalogRepository) ListProfessionals(ctx context.Context) ([]*models.Professional, error) {
	query := `
		SELECT id, user_id, display_name, bio, specialty, active, created_at, updated_at
		FROM professionals WHERE active ORDER BY display_name`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query professionals: %w", err)
	}

	return scanProfessionalRows(rows)
}

// GetProfessionalByUserID resolves the professional profile linked to a
// user account, if any.
func (r *CatalogRepository) GetProfessionalByUserID(ctx context.Context, userID string) (*models.Professional, error) {
	query := `
		SELECT id, user_id, display_name, bio, specialty, active, created_at, updated_at
		FROM professionals WHERE user_id = $1`

	var p models.Professional
	err := r.db.Pool.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.DisplayName, &p.Bio, &p.Specialty,
		&p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &p, nil
}

func (r *CatalogRepository) GetProfessionalByID(ctx context.Context, id string) (*models.Professional, error) {
	query := `
		SELECT id, user_id, display_name, bio, specialty, active, created_at, updated_at
		FROM professionals WHERE id = $1`

	var p models.Professional
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.UserID, &p.DisplayName, &p.Bio, &p.Specialty,
		&p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &p, nil
}

func scanProfessionalRows(rows pgx.Rows) ([]*models.Professional, error) {
	defer rows.Close()

	professionals := make([]*models.Professional, 0)
	for rows.Next() {
		var p models.Professional
		err := rows.Scan(
			&p.ID, &p.UserID, &p.DisplayName, &p.Bio, &p.Specialty,
			&p.Active, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan professional: %w", err)
		}
		professionals = append(professionals, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating professional rows: %w", err)
	}

	return professionals, nil
}
