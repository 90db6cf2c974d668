package repository

import (
	"context"
	"fmt"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"

	"github.com/google/uuid"
)

type PostgresEnginsRepository struct {
	db DBTX
}

func NewPostgresEnginsRepository(db DBTX) *PostgresEnginsRepository {
	return &PostgresEnginsRepository{db: db}
}

var _ EnginsRepository = (*PostgresEnginsRepository)(nil)

const enginSelect = `
	SELECT e.id::text, e.entreprise_id::text, e.site_id::text, e.parc_id::text, e.name, e.active,
	       e.initial_heure_chassis, s.name, p.name
	FROM engins e
	JOIN sites s ON s.id = e.site_id
	JOIN parcs p ON p.id = e.parc_id`

const enginOrder = ` ORDER BY s.name ASC, p.name ASC, e.name ASC`

func scanEngin(row interface{ Scan(...any) error }) (domain.Engin, error) {
	var e domain.Engin
	err := row.Scan(&e.ID, &e.EntrepriseID, &e.SiteID, &e.ParcID, &e.Name, &e.Active,
		&e.InitialHeureChassis, &e.SiteName, &e.ParcName)
	return e, err
}

func (r *PostgresEnginsRepository) ListEngins(ctx context.Context, entrepriseID string, filter EnginsFilter) ([]domain.Engin, int, error) {
	w := &whereBuilder{}
	w.add("e.entreprise_id = ?", entrepriseID)
	if filter.Search != "" {
		w.add("e.name ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.SiteID != "" {
		w.add("e.site_id = ?", filter.SiteID)
	}
	if filter.ParcID != "" {
		w.add("e.parc_id = ?", filter.ParcID)
	}
	if filter.Active != nil {
		w.add("e.active = ?", *filter.Active)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM engins e`+w.clause(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count engins: %w", err)
	}

	query := enginSelect + w.clause() + enginOrder
	query += w.page(filter.ListFilter)
	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list engins: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Engin, 0)
	for rows.Next() {
		e, err := scanEngin(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan engin: %w", err)
		}
		items = append(items, e)
	}
	return items, total, rows.Err()
}

func (r *PostgresEnginsRepository) ListAllEngins(ctx context.Context, entrepriseID string) ([]domain.Engin, error) {
	rows, err := r.db.QueryContext(ctx, enginSelect+` WHERE e.entreprise_id = $1`+enginOrder, entrepriseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list engins: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Engin, 0)
	for rows.Next() {
		e, err := scanEngin(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan engin: %w", err)
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (r *PostgresEnginsRepository) GetEngin(ctx context.Context, entrepriseID, id string) (*domain.Engin, error) {
	e, err := scanEngin(r.db.QueryRowContext(ctx, enginSelect+` WHERE e.entreprise_id = $1 AND e.id = $2`, entrepriseID, id))
	if err != nil {
		return nil, notFoundOr(err, "Engin introuvable")
	}
	return &e, nil
}

func (r *PostgresEnginsRepository) GetEnginByName(ctx context.Context, entrepriseID, name string) (*domain.Engin, error) {
	e, err := scanEngin(r.db.QueryRowContext(ctx, enginSelect+` WHERE e.entreprise_id = $1 AND lower(e.name) = lower($2)`, entrepriseID, name))
	if err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("Engin %q introuvable", name))
	}
	return &e, nil
}

func (r *PostgresEnginsRepository) CreateEngin(ctx context.Context, engin *domain.Engin) error {
	if engin.ID == "" {
		engin.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO engins (id, entreprise_id, site_id, parc_id, name, active, initial_heure_chassis)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		engin.ID, engin.EntrepriseID, engin.SiteID, engin.ParcID, engin.Name, engin.Active, engin.InitialHeureChassis,
	)
	return mapPQError(err, "Un engin portant ce nom existe déjà")
}

func (r *PostgresEnginsRepository) UpdateEngin(ctx context.Context, engin *domain.Engin) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE engins SET site_id = $3, parc_id = $4, name = $5, active = $6, initial_heure_chassis = $7
		 WHERE entreprise_id = $1 AND id = $2`,
		engin.EntrepriseID, engin.ID, engin.SiteID, engin.ParcID, engin.Name, engin.Active, engin.InitialHeureChassis,
	)
	if err != nil {
		return mapPQError(err, "Un engin portant ce nom existe déjà")
	}
	return requireAffected(res, "Engin introuvable")
}

func (r *PostgresEnginsRepository) DeleteEngin(ctx context.Context, entrepriseID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM engins WHERE entreprise_id = $1 AND id = $2`, entrepriseID, id)
	if err != nil {
		return mapPQError(err, "")
	}
	return requireAffected(res, "Engin introuvable")
}
