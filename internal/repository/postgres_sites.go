package repository

import (
	"context"
	"fmt"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"

	"github.com/google/uuid"
)

// PostgresSitesRepository implements SitesRepository.
type PostgresSitesRepository struct {
	db DBTX
}

func NewPostgresSitesRepository(db DBTX) *PostgresSitesRepository {
	return &PostgresSitesRepository{db: db}
}

var _ SitesRepository = (*PostgresSitesRepository)(nil)

const siteColumns = `id::text, entreprise_id::text, name, active`

func (r *PostgresSitesRepository) ListSites(ctx context.Context, entrepriseID string, filter ListFilter) ([]domain.Site, int, error) {
	w := &whereBuilder{}
	w.add("entreprise_id = ?", entrepriseID)
	if filter.Search != "" {
		w.add("name ILIKE ?", "%"+filter.Search+"%")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sites`+w.clause(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sites: %w", err)
	}

	where := w.clause()
	query := `SELECT ` + siteColumns + ` FROM sites` + where + ` ORDER BY name ASC` + w.page(filter)
	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Site, 0)
	for rows.Next() {
		var s domain.Site
		if err := rows.Scan(&s.ID, &s.EntrepriseID, &s.Name, &s.Active); err != nil {
			return nil, 0, fmt.Errorf("failed to scan site: %w", err)
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}

func (r *PostgresSitesRepository) GetSite(ctx context.Context, entrepriseID, id string) (*domain.Site, error) {
	var s domain.Site
	err := r.db.QueryRowContext(ctx,
		`SELECT `+siteColumns+` FROM sites WHERE entreprise_id = $1 AND id = $2`,
		entrepriseID, id,
	).Scan(&s.ID, &s.EntrepriseID, &s.Name, &s.Active)
	if err != nil {
		return nil, notFoundOr(err, "Site introuvable")
	}
	return &s, nil
}

func (r *PostgresSitesRepository) GetSiteByName(ctx context.Context, entrepriseID, name string) (*domain.Site, error) {
	var s domain.Site
	err := r.db.QueryRowContext(ctx,
		`SELECT `+siteColumns+` FROM sites WHERE entreprise_id = $1 AND lower(name) = lower($2)`,
		entrepriseID, name,
	).Scan(&s.ID, &s.EntrepriseID, &s.Name, &s.Active)
	if err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("Site %q introuvable", name))
	}
	return &s, nil
}

func (r *PostgresSitesRepository) CreateSite(ctx context.Context, site *domain.Site) error {
	if site.ID == "" {
		site.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sites (id, entreprise_id, name, active) VALUES ($1, $2, $3, $4)`,
		site.ID, site.EntrepriseID, site.Name, site.Active,
	)
	return mapPQError(err, "Un site portant ce nom existe déjà")
}

func (r *PostgresSitesRepository) UpdateSite(ctx context.Context, site *domain.Site) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sites SET name = $3, active = $4 WHERE entreprise_id = $1 AND id = $2`,
		site.EntrepriseID, site.ID, site.Name, site.Active,
	)
	if err != nil {
		return mapPQError(err, "Un site portant ce nom existe déjà")
	}
	return requireAffected(res, "Site introuvable")
}

func (r *PostgresSitesRepository) DeleteSite(ctx context.Context, entrepriseID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sites WHERE entreprise_id = $1 AND id = $2`, entrepriseID, id)
	if err != nil {
		return mapPQError(err, "")
	}
	return requireAffected(res, "Site introuvable")
}
