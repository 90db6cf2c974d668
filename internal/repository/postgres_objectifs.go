package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"

	"github.com/google/uuid"
)

type PostgresObjectifsRepository struct {
	db DBTX
}

func NewPostgresObjectifsRepository(db DBTX) *PostgresObjectifsRepository {
	return &PostgresObjectifsRepository{db: db}
}

var _ ObjectifsRepository = (*PostgresObjectifsRepository)(nil)

const objectifSelect = `
	SELECT id::text, entreprise_id::text, annee, site_id::text, parc_id::text,
	       dispo, mtbf, tdm, spe_huile, spe_go, spe_graisse
	FROM objectifs`

const objectifConflict = "Un objectif existe déjà pour cette année, ce parc et ce site"

func scanObjectif(row interface{ Scan(...any) error }) (domain.Objectif, error) {
	var o domain.Objectif
	var dispo, mtbf, tdm, huile, gasoil, graisse sql.NullFloat64
	if err := row.Scan(&o.ID, &o.EntrepriseID, &o.Annee, &o.SiteID, &o.ParcID,
		&dispo, &mtbf, &tdm, &huile, &gasoil, &graisse); err != nil {
		return o, err
	}
	o.Dispo = nullFloat(dispo)
	o.MTBF = nullFloat(mtbf)
	o.TDM = nullFloat(tdm)
	o.SpeHuile = nullFloat(huile)
	o.SpeGO = nullFloat(gasoil)
	o.SpeGraisse = nullFloat(graisse)
	return o, nil
}

func nullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func (r *PostgresObjectifsRepository) ListObjectifs(ctx context.Context, entrepriseID string, filter ObjectifsFilter) ([]domain.Objectif, int, error) {
	w := &whereBuilder{}
	w.add("entreprise_id = ?", entrepriseID)
	if filter.Annee > 0 {
		w.add("annee = ?", filter.Annee)
	}
	if filter.SiteID != "" {
		w.add("site_id = ?", filter.SiteID)
	}
	if filter.ParcID != "" {
		w.add("parc_id = ?", filter.ParcID)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM objectifs`+w.clause(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count objectifs: %w", err)
	}

	query := objectifSelect + w.clause() + ` ORDER BY annee DESC, id ASC`
	query += w.page(filter.ListFilter)
	items, err := r.query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PostgresObjectifsRepository) ListObjectifsByYear(ctx context.Context, entrepriseID string, annee int) ([]domain.Objectif, error) {
	return r.query(ctx, objectifSelect+` WHERE entreprise_id = $1 AND annee = $2 ORDER BY id ASC`, entrepriseID, annee)
}

func (r *PostgresObjectifsRepository) query(ctx context.Context, query string, args ...any) ([]domain.Objectif, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list objectifs: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Objectif, 0)
	for rows.Next() {
		o, err := scanObjectif(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan objectif: %w", err)
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

func (r *PostgresObjectifsRepository) GetObjectif(ctx context.Context, entrepriseID, id string) (*domain.Objectif, error) {
	o, err := scanObjectif(r.db.QueryRowContext(ctx, objectifSelect+` WHERE entreprise_id = $1 AND id = $2`, entrepriseID, id))
	if err != nil {
		return nil, notFoundOr(err, "Objectif introuvable")
	}
	return &o, nil
}

func (r *PostgresObjectifsRepository) FindObjectif(ctx context.Context, entrepriseID string, annee int, parcID, siteID string) (*domain.Objectif, error) {
	o, err := scanObjectif(r.db.QueryRowContext(ctx,
		objectifSelect+` WHERE entreprise_id = $1 AND annee = $2 AND parc_id = $3 AND site_id = $4`,
		entrepriseID, annee, parcID, siteID))
	if err != nil {
		return nil, notFoundOr(err, "Objectif introuvable")
	}
	return &o, nil
}

func (r *PostgresObjectifsRepository) CreateObjectif(ctx context.Context, o *domain.Objectif) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO objectifs (id, entreprise_id, annee, site_id, parc_id, dispo, mtbf, tdm, spe_huile, spe_go, spe_graisse)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		o.ID, o.EntrepriseID, o.Annee, o.SiteID, o.ParcID, o.Dispo, o.MTBF, o.TDM, o.SpeHuile, o.SpeGO, o.SpeGraisse,
	)
	return mapPQError(err, objectifConflict)
}

func (r *PostgresObjectifsRepository) UpdateObjectif(ctx context.Context, o *domain.Objectif) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE objectifs SET annee = $3, site_id = $4, parc_id = $5, dispo = $6, mtbf = $7, tdm = $8,
		        spe_huile = $9, spe_go = $10, spe_graisse = $11
		 WHERE entreprise_id = $1 AND id = $2`,
		o.EntrepriseID, o.ID, o.Annee, o.SiteID, o.ParcID, o.Dispo, o.MTBF, o.TDM, o.SpeHuile, o.SpeGO, o.SpeGraisse,
	)
	if err != nil {
		return mapPQError(err, objectifConflict)
	}
	return requireAffected(res, "Objectif introuvable")
}

func (r *PostgresObjectifsRepository) DeleteObjectif(ctx context.Context, entrepriseID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM objectifs WHERE entreprise_id = $1 AND id = $2`, entrepriseID, id)
	if err != nil {
		return mapPQError(err, "")
	}
	return requireAffected(res, "Objectif introuvable")
}
