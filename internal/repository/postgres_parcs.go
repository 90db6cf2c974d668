package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"

	"github.com/google/uuid"
)

type PostgresParcsRepository struct {
	db DBTX
}

func NewPostgresParcsRepository(db DBTX) *PostgresParcsRepository {
	return &PostgresParcsRepository{db: db}
}

var _ ParcsRepository = (*PostgresParcsRepository)(nil)

const parcSelect = `
	SELECT p.id::text, p.entreprise_id::text, p.typeparc_id::text, p.name, COALESCE(tp.name, '')
	FROM parcs p
	LEFT JOIN typeparcs tp ON tp.id = p.typeparc_id`

func scanParc(row interface{ Scan(...any) error }) (domain.Parc, error) {
	var p domain.Parc
	var typeParcID sql.NullString
	if err := row.Scan(&p.ID, &p.EntrepriseID, &typeParcID, &p.Name, &p.TypeParcName); err != nil {
		return p, err
	}
	if typeParcID.Valid {
		p.TypeParcID = &typeParcID.String
	}
	return p, nil
}

func (r *PostgresParcsRepository) ListParcs(ctx context.Context, entrepriseID string, filter ListFilter) ([]domain.Parc, int, error) {
	w := &whereBuilder{}
	w.add("p.entreprise_id = ?", entrepriseID)
	if filter.Search != "" {
		w.add("p.name ILIKE ?", "%"+filter.Search+"%")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM parcs p`+w.clause(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count parcs: %w", err)
	}

	query := parcSelect + w.clause() + ` ORDER BY p.name ASC`
	query += w.page(filter)
	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list parcs: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Parc, 0)
	for rows.Next() {
		p, err := scanParc(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan parc: %w", err)
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *PostgresParcsRepository) GetParc(ctx context.Context, entrepriseID, id string) (*domain.Parc, error) {
	p, err := scanParc(r.db.QueryRowContext(ctx, parcSelect+` WHERE p.entreprise_id = $1 AND p.id = $2`, entrepriseID, id))
	if err != nil {
		return nil, notFoundOr(err, "Parc introuvable")
	}
	return &p, nil
}

func (r *PostgresParcsRepository) GetParcByName(ctx context.Context, entrepriseID, name string) (*domain.Parc, error) {
	p, err := scanParc(r.db.QueryRowContext(ctx, parcSelect+` WHERE p.entreprise_id = $1 AND lower(p.name) = lower($2)`, entrepriseID, name))
	if err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("Parc %q introuvable", name))
	}
	return &p, nil
}

func (r *PostgresParcsRepository) CreateParc(ctx context.Context, parc *domain.Parc) error {
	if parc.ID == "" {
		parc.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO parcs (id, entreprise_id, typeparc_id, name) VALUES ($1, $2, $3, $4)`,
		parc.ID, parc.EntrepriseID, parc.TypeParcID, parc.Name,
	)
	return mapPQError(err, "Un parc portant ce nom existe déjà")
}

func (r *PostgresParcsRepository) UpdateParc(ctx context.Context, parc *domain.Parc) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE parcs SET typeparc_id = $3, name = $4 WHERE entreprise_id = $1 AND id = $2`,
		parc.EntrepriseID, parc.ID, parc.TypeParcID, parc.Name,
	)
	if err != nil {
		return mapPQError(err, "Un parc portant ce nom existe déjà")
	}
	return requireAffected(res, "Parc introuvable")
}

func (r *PostgresParcsRepository) DeleteParc(ctx context.Context, entrepriseID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM parcs WHERE entreprise_id = $1 AND id = $2`, entrepriseID, id)
	if err != nil {
		return mapPQError(err, "")
	}
	return requireAffected(res, "Parc introuvable")
}

func (r *PostgresParcsRepository) ListTypeParcs(ctx context.Context, entrepriseID string) ([]domain.TypeParc, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id::text, entreprise_id::text, name FROM typeparcs WHERE entreprise_id = $1 ORDER BY name ASC`,
		entrepriseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list typeparcs: %w", err)
	}
	defer rows.Close()

	items := make([]domain.TypeParc, 0)
	for rows.Next() {
		var tp domain.TypeParc
		if err := rows.Scan(&tp.ID, &tp.EntrepriseID, &tp.Name); err != nil {
			return nil, fmt.Errorf("failed to scan typeparc: %w", err)
		}
		items = append(items, tp)
	}
	return items, rows.Err()
}

func (r *PostgresParcsRepository) CreateTypeParc(ctx context.Context, tp *domain.TypeParc) error {
	if tp.ID == "" {
		tp.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO typeparcs (id, entreprise_id, name) VALUES ($1, $2, $3)`,
		tp.ID, tp.EntrepriseID, tp.Name,
	)
	return mapPQError(err, "Un type de parc portant ce nom existe déjà")
}

func (r *PostgresParcsRepository) DeleteTypeParc(ctx context.Context, entrepriseID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM typeparcs WHERE entreprise_id = $1 AND id = $2`, entrepriseID, id)
	if err != nil {
		return mapPQError(err, "")
	}
	return requireAffected(res, "Type de parc introuvable")
}
