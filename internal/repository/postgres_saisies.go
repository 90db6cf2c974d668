package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"

	"github.com/google/uuid"
)

type PostgresSaisiesRepository struct {
	db DBTX
}

func NewPostgresSaisiesRepository(db DBTX) *PostgresSaisiesRepository {
	return &PostgresSaisiesRepository{db: db}
}

var _ SaisiesRepository = (*PostgresSaisiesRepository)(nil)

// hrmTreeSelect flattens the HRM/HIM tree: one row per HIM, or one row with NULL HIM
// columns for an HRM without children.
const hrmTreeSelect = `
	SELECT h.id::text, h.engin_id::text, h.site_id::text, h.du, h.hrm,
	       hi.id::text, hi.panne_id::text, hi.him, hi.ni, hi.obs, p.name
	FROM saisiehrm h
	JOIN engins e ON e.id = h.engin_id
	LEFT JOIN saisiehim hi ON hi.saisiehrm_id = h.id
	LEFT JOIN pannes p ON p.id = hi.panne_id`

const hrmTreeOrder = ` ORDER BY h.du ASC, h.id ASC, hi.id ASC`

func (r *PostgresSaisiesRepository) ListHRMTree(ctx context.Context, entrepriseID string, from, to time.Time, enginID string) ([]domain.Saisiehrm, error) {
	w := &whereBuilder{}
	w.add("e.entreprise_id = ?", entrepriseID)
	w.add("h.du >= ?::date", from)
	w.add("h.du <= ?::date", to)
	if enginID != "" {
		w.add("h.engin_id = ?", enginID)
	}
	return r.queryTree(ctx, hrmTreeSelect+w.clause()+hrmTreeOrder, w.args...)
}

func (r *PostgresSaisiesRepository) queryTree(ctx context.Context, query string, args ...any) ([]domain.Saisiehrm, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query saisiehrm: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Saisiehrm, 0)
	index := make(map[string]int)
	for rows.Next() {
		var h domain.Saisiehrm
		var himID, panneID, obs, panneName sql.NullString
		var him sql.NullFloat64
		var ni sql.NullInt64
		if err := rows.Scan(&h.ID, &h.EnginID, &h.SiteID, &h.Du, &h.HRM,
			&himID, &panneID, &him, &ni, &obs, &panneName); err != nil {
			return nil, fmt.Errorf("failed to scan saisiehrm: %w", err)
		}

		pos, ok := index[h.ID]
		if !ok {
			h.HIMs = make([]domain.Saisiehim, 0)
			items = append(items, h)
			pos = len(items) - 1
			index[h.ID] = pos
		}
		if himID.Valid {
			items[pos].HIMs = append(items[pos].HIMs, domain.Saisiehim{
				ID:          himID.String,
				SaisiehrmID: h.ID,
				PanneID:     panneID.String,
				HIM:         him.Float64,
				NI:          int(ni.Int64),
				Obs:         obs.String,
				PanneName:   panneName.String,
			})
		}
	}
	return items, rows.Err()
}

func (r *PostgresSaisiesRepository) getOne(ctx context.Context, where string, args ...any) (*domain.Saisiehrm, error) {
	items, err := r.queryTree(ctx, hrmTreeSelect+where+hrmTreeOrder, args...)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.NotFound("Saisie HRM introuvable")
	}
	return &items[0], nil
}

func (r *PostgresSaisiesRepository) GetHRM(ctx context.Context, entrepriseID, id string) (*domain.Saisiehrm, error) {
	return r.getOne(ctx, ` WHERE e.entreprise_id = $1 AND h.id = $2`, entrepriseID, id)
}

func (r *PostgresSaisiesRepository) GetHRMByEnginDay(ctx context.Context, entrepriseID, enginID string, du time.Time) (*domain.Saisiehrm, error) {
	return r.getOne(ctx, ` WHERE e.entreprise_id = $1 AND h.engin_id = $2 AND h.du = $3::date`, entrepriseID, enginID, du)
}

func (r *PostgresSaisiesRepository) LockHRM(ctx context.Context, entrepriseID, id string) error {
	var locked string
	err := r.db.QueryRowContext(ctx,
		`SELECT h.id::text FROM saisiehrm h
		 JOIN engins e ON e.id = h.engin_id
		 WHERE e.entreprise_id = $1 AND h.id = $2
		 FOR UPDATE OF h`,
		entrepriseID, id,
	).Scan(&locked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound("Saisie HRM introuvable")
		}
		return fmt.Errorf("failed to lock saisiehrm: %w", err)
	}
	return nil
}

func (r *PostgresSaisiesRepository) CreateHRM(ctx context.Context, hrm *domain.Saisiehrm) error {
	if hrm.ID == "" {
		hrm.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO saisiehrm (id, engin_id, site_id, du, hrm) VALUES ($1, $2, $3, $4, $5)`,
		hrm.ID, hrm.EnginID, hrm.SiteID, hrm.Du, hrm.HRM,
	)
	return mapPQError(err, "Une saisie HRM existe déjà pour cet engin à cette date")
}

func (r *PostgresSaisiesRepository) UpdateHRM(ctx context.Context, hrm *domain.Saisiehrm) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE saisiehrm SET site_id = $2, hrm = $3 WHERE id = $1`,
		hrm.ID, hrm.SiteID, hrm.HRM,
	)
	if err != nil {
		return mapPQError(err, "")
	}
	return requireAffected(res, "Saisie HRM introuvable")
}

func (r *PostgresSaisiesRepository) DeleteHRM(ctx context.Context, entrepriseID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM saisiehrm h USING engins e
		 WHERE e.id = h.engin_id AND e.entreprise_id = $1 AND h.id = $2`,
		entrepriseID, id)
	if err != nil {
		return mapPQError(err, "")
	}
	return requireAffected(res, "Saisie HRM introuvable")
}

func (r *PostgresSaisiesRepository) GetHIM(ctx context.Context, entrepriseID, id string) (*domain.Saisiehim, error) {
	var him domain.Saisiehim
	var obs sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT hi.id::text, hi.saisiehrm_id::text, hi.panne_id::text, hi.him, hi.ni, hi.obs, p.name
		FROM saisiehim hi
		JOIN saisiehrm h ON h.id = hi.saisiehrm_id
		JOIN engins e ON e.id = h.engin_id
		JOIN pannes p ON p.id = hi.panne_id
		WHERE e.entreprise_id = $1 AND hi.id = $2`,
		entrepriseID, id,
	).Scan(&him.ID, &him.SaisiehrmID, &him.PanneID, &him.HIM, &him.NI, &obs, &him.PanneName)
	if err != nil {
		return nil, notFoundOr(err, "Saisie HIM introuvable")
	}
	him.Obs = obs.String
	return &him, nil
}

func (r *PostgresSaisiesRepository) CreateHIM(ctx context.Context, him *domain.Saisiehim) error {
	if him.ID == "" {
		him.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO saisiehim (id, saisiehrm_id, panne_id, him, ni, obs) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))`,
		him.ID, him.SaisiehrmID, him.PanneID, him.HIM, him.NI, him.Obs,
	)
	return mapPQError(err, "Cette panne est déjà saisie pour cette journée")
}

func (r *PostgresSaisiesRepository) DeleteHIM(ctx context.Context, entrepriseID, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM saisiehim hi USING saisiehrm h, engins e
		WHERE h.id = hi.saisiehrm_id AND e.id = h.engin_id AND e.entreprise_id = $1 AND hi.id = $2`,
		entrepriseID, id)
	if err != nil {
		return mapPQError(err, "")
	}
	return requireAffected(res, "Saisie HIM introuvable")
}

func (r *PostgresSaisiesRepository) CreateSaisieLubrifiant(ctx context.Context, sl *domain.SaisieLubrifiant) error {
	if sl.ID == "" {
		sl.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO saisie_lubrifiants (id, saisiehim_id, lubrifiant_id, qte, obs) VALUES ($1, $2, $3, $4, NULLIF($5, ''))`,
		sl.ID, sl.SaisiehimID, sl.LubrifiantID, sl.Qte, sl.Obs,
	)
	return mapPQError(err, "")
}

func (r *PostgresSaisiesRepository) ListLubrifiantConsumption(ctx context.Context, entrepriseID string, from, to time.Time) ([]domain.LubrifiantConsumption, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT l.id::text, l.name, l.type, COALESCE(SUM(sl.qte), 0)
		FROM saisie_lubrifiants sl
		JOIN lubrifiants l ON l.id = sl.lubrifiant_id
		JOIN saisiehim hi ON hi.id = sl.saisiehim_id
		JOIN saisiehrm h ON h.id = hi.saisiehrm_id
		WHERE l.entreprise_id = $1 AND h.du >= $2::date AND h.du <= $3::date
		GROUP BY l.id, l.name, l.type
		ORDER BY l.name ASC`,
		entrepriseID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query lubrifiant consumption: %w", err)
	}
	defer rows.Close()

	items := make([]domain.LubrifiantConsumption, 0)
	for rows.Next() {
		var c domain.LubrifiantConsumption
		if err := rows.Scan(&c.LubrifiantID, &c.LubrifiantName, &c.Type, &c.Qte); err != nil {
			return nil, fmt.Errorf("failed to scan lubrifiant consumption: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
