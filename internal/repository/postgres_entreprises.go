package repository

import (
	"context"
	"fmt"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"

	"github.com/google/uuid"
)

type PostgresEntreprisesRepository struct {
	db DBTX
}

func NewPostgresEntreprisesRepository(db DBTX) *PostgresEntreprisesRepository {
	return &PostgresEntreprisesRepository{db: db}
}

var _ EntreprisesRepository = (*PostgresEntreprisesRepository)(nil)

const entrepriseColumns = `id::text, name, lang, active, created_at`

func (r *PostgresEntreprisesRepository) ListEntreprises(ctx context.Context, filter ListFilter) ([]domain.Entreprise, int, error) {
	w := &whereBuilder{}
	// the System tenant only owns default roles
	w.add("id <> ?", domain.SystemEntrepriseID)
	if filter.Search != "" {
		w.add("name ILIKE ?", "%"+filter.Search+"%")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entreprises`+w.clause(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count entreprises: %w", err)
	}

	query := `SELECT ` + entrepriseColumns + ` FROM entreprises` + w.clause() + ` ORDER BY name ASC`
	query += w.page(filter)
	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list entreprises: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Entreprise, 0)
	for rows.Next() {
		var e domain.Entreprise
		if err := rows.Scan(&e.ID, &e.Name, &e.Lang, &e.Active, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan entreprise: %w", err)
		}
		items = append(items, e)
	}
	return items, total, rows.Err()
}

func (r *PostgresEntreprisesRepository) GetEntreprise(ctx context.Context, id string) (*domain.Entreprise, error) {
	var e domain.Entreprise
	err := r.db.QueryRowContext(ctx, `SELECT `+entrepriseColumns+` FROM entreprises WHERE id = $1`, id).
		Scan(&e.ID, &e.Name, &e.Lang, &e.Active, &e.CreatedAt)
	if err != nil {
		return nil, notFoundOr(err, "Entreprise introuvable")
	}
	return &e, nil
}

func (r *PostgresEntreprisesRepository) CreateEntreprise(ctx context.Context, e *domain.Entreprise) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO entreprises (id, name, lang, active) VALUES ($1, $2, $3, $4) RETURNING created_at`,
		e.ID, e.Name, e.Lang, e.Active,
	).Scan(&e.CreatedAt)
	return mapPQError(err, "Une entreprise portant ce nom existe déjà")
}

func (r *PostgresEntreprisesRepository) UpdateEntreprise(ctx context.Context, e *domain.Entreprise) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE entreprises SET name = $2, lang = $3, active = $4 WHERE id = $1`,
		e.ID, e.Name, e.Lang, e.Active,
	)
	if err != nil {
		return mapPQError(err, "Une entreprise portant ce nom existe déjà")
	}
	return requireAffected(res, "Entreprise introuvable")
}
