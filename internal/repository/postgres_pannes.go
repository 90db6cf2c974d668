package repository

import (
	"context"
	"fmt"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"

	"github.com/google/uuid"
)

type PostgresPannesRepository struct {
	db DBTX
}

func NewPostgresPannesRepository(db DBTX) *PostgresPannesRepository {
	return &PostgresPannesRepository{db: db}
}

var _ PannesRepository = (*PostgresPannesRepository)(nil)

func (r *PostgresPannesRepository) ListPannes(ctx context.Context, entrepriseID string, filter ListFilter) ([]domain.Panne, int, error) {
	w := &whereBuilder{}
	w.add("entreprise_id = ?", entrepriseID)
	if filter.Search != "" {
		w.add("(name ILIKE ? OR type ILIKE ?)", "%"+filter.Search+"%")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pannes`+w.clause(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count pannes: %w", err)
	}

	where := w.clause()
	query := `SELECT id::text, entreprise_id::text, name, type FROM pannes` + where + ` ORDER BY name ASC` + w.page(filter)
	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pannes: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Panne, 0)
	for rows.Next() {
		var p domain.Panne
		if err := rows.Scan(&p.ID, &p.EntrepriseID, &p.Name, &p.Type); err != nil {
			return nil, 0, fmt.Errorf("failed to scan panne: %w", err)
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *PostgresPannesRepository) GetPanne(ctx context.Context, entrepriseID, id string) (*domain.Panne, error) {
	var p domain.Panne
	err := r.db.QueryRowContext(ctx,
		`SELECT id::text, entreprise_id::text, name, type FROM pannes WHERE entreprise_id = $1 AND id = $2`,
		entrepriseID, id,
	).Scan(&p.ID, &p.EntrepriseID, &p.Name, &p.Type)
	if err != nil {
		return nil, notFoundOr(err, "Panne introuvable")
	}
	return &p, nil
}

func (r *PostgresPannesRepository) CreatePanne(ctx context.Context, panne *domain.Panne) error {
	if panne.ID == "" {
		panne.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO pannes (id, entreprise_id, name, type) VALUES ($1, $2, $3, $4)`,
		panne.ID, panne.EntrepriseID, panne.Name, panne.Type,
	)
	return mapPQError(err, "Une panne portant ce nom existe déjà")
}

func (r *PostgresPannesRepository) UpdatePanne(ctx context.Context, panne *domain.Panne) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE pannes SET name = $3, type = $4 WHERE entreprise_id = $1 AND id = $2`,
		panne.EntrepriseID, panne.ID, panne.Name, panne.Type,
	)
	if err != nil {
		return mapPQError(err, "Une panne portant ce nom existe déjà")
	}
	return requireAffected(res, "Panne introuvable")
}

func (r *PostgresPannesRepository) DeletePanne(ctx context.Context, entrepriseID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pannes WHERE entreprise_id = $1 AND id = $2`, entrepriseID, id)
	if err != nil {
		return mapPQError(err, "")
	}
	return requireAffected(res, "Panne introuvable")
}
