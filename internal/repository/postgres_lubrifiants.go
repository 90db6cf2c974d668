package repository

import (
	"context"
	"fmt"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"

	"github.com/google/uuid"
)

type PostgresLubrifiantsRepository struct {
	db DBTX
}

func NewPostgresLubrifiantsRepository(db DBTX) *PostgresLubrifiantsRepository {
	return &PostgresLubrifiantsRepository{db: db}
}

var _ LubrifiantsRepository = (*PostgresLubrifiantsRepository)(nil)

func (r *PostgresLubrifiantsRepository) ListLubrifiants(ctx context.Context, entrepriseID string, filter ListFilter) ([]domain.Lubrifiant, int, error) {
	w := &whereBuilder{}
	w.add("entreprise_id = ?", entrepriseID)
	if filter.Search != "" {
		w.add("name ILIKE ?", "%"+filter.Search+"%")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lubrifiants`+w.clause(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count lubrifiants: %w", err)
	}

	where := w.clause()
	query := `SELECT id::text, entreprise_id::text, name, type FROM lubrifiants` + where + ` ORDER BY type ASC, name ASC` + w.page(filter)
	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list lubrifiants: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Lubrifiant, 0)
	for rows.Next() {
		var l domain.Lubrifiant
		if err := rows.Scan(&l.ID, &l.EntrepriseID, &l.Name, &l.Type); err != nil {
			return nil, 0, fmt.Errorf("failed to scan lubrifiant: %w", err)
		}
		items = append(items, l)
	}
	return items, total, rows.Err()
}

func (r *PostgresLubrifiantsRepository) GetLubrifiant(ctx context.Context, entrepriseID, id string) (*domain.Lubrifiant, error) {
	var l domain.Lubrifiant
	err := r.db.QueryRowContext(ctx,
		`SELECT id::text, entreprise_id::text, name, type FROM lubrifiants WHERE entreprise_id = $1 AND id = $2`,
		entrepriseID, id,
	).Scan(&l.ID, &l.EntrepriseID, &l.Name, &l.Type)
	if err != nil {
		return nil, notFoundOr(err, "Lubrifiant introuvable")
	}
	return &l, nil
}

func (r *PostgresLubrifiantsRepository) CreateLubrifiant(ctx context.Context, l *domain.Lubrifiant) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO lubrifiants (id, entreprise_id, name, type) VALUES ($1, $2, $3, $4)`,
		l.ID, l.EntrepriseID, l.Name, l.Type,
	)
	return mapPQError(err, "Un lubrifiant portant ce nom existe déjà")
}

func (r *PostgresLubrifiantsRepository) UpdateLubrifiant(ctx context.Context, l *domain.Lubrifiant) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE lubrifiants SET name = $3, type = $4 WHERE entreprise_id = $1 AND id = $2`,
		l.EntrepriseID, l.ID, l.Name, l.Type,
	)
	if err != nil {
		return mapPQError(err, "Un lubrifiant portant ce nom existe déjà")
	}
	return requireAffected(res, "Lubrifiant introuvable")
}

func (r *PostgresLubrifiantsRepository) DeleteLubrifiant(ctx context.Context, entrepriseID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lubrifiants WHERE entreprise_id = $1 AND id = $2`, entrepriseID, id)
	if err != nil {
		return mapPQError(err, "")
	}
	return requireAffected(res, "Lubrifiant introuvable")
}
