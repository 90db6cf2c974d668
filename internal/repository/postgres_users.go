package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PostgresUsersRepository struct {
	db DBTX
}

func NewPostgresUsersRepository(db DBTX) *PostgresUsersRepository {
	return &PostgresUsersRepository{db: db}
}

var _ UsersRepository = (*PostgresUsersRepository)(nil)

const userSelect = `
	SELECT u.id::text, u.entreprise_id::text, u.email, u.name, u.password_hash, u.lang, u.active,
	       COALESCE(array_agg(ur.role_code ORDER BY ur.role_code) FILTER (WHERE ur.role_code IS NOT NULL), '{}')
	FROM users u
	LEFT JOIN user_roles ur ON ur.user_id = u.id`

const userGroup = ` GROUP BY u.id`

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var u domain.User
	var roles pq.StringArray
	if err := row.Scan(&u.ID, &u.EntrepriseID, &u.Email, &u.Name, &u.PasswordHash, &u.Lang, &u.Active, &roles); err != nil {
		return u, err
	}
	u.RoleCodes = []string(roles)
	return u, nil
}

func (r *PostgresUsersRepository) ListUsers(ctx context.Context, entrepriseID string, filter ListFilter) ([]domain.User, int, error) {
	w := &whereBuilder{}
	w.add("u.entreprise_id = ?", entrepriseID)
	if filter.Search != "" {
		w.add("(u.name ILIKE ? OR u.email ILIKE ?)", "%"+filter.Search+"%")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users u`+w.clause(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := userSelect + w.clause() + userGroup + ` ORDER BY u.name ASC`
	query += w.page(filter)
	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	items := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		items = append(items, u)
	}
	return items, total, rows.Err()
}

func (r *PostgresUsersRepository) GetUser(ctx context.Context, entrepriseID, id string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		userSelect+` WHERE u.entreprise_id = $1 AND u.id = $2`+userGroup, entrepriseID, id))
	if err != nil {
		return nil, notFoundOr(err, "Utilisateur introuvable")
	}
	return &u, nil
}

func (r *PostgresUsersRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		userSelect+` WHERE lower(u.email) = $1`+userGroup, strings.ToLower(strings.TrimSpace(email))))
	if err != nil {
		return nil, notFoundOr(err, "Utilisateur introuvable")
	}
	return &u, nil
}

// CreateUser inserts the user and its role codes; run it inside InTx.
func (r *PostgresUsersRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, entreprise_id, email, name, password_hash, lang, active)
		 VALUES ($1, $2, lower($3), $4, $5, $6, $7)`,
		user.ID, user.EntrepriseID, user.Email, user.Name, user.PasswordHash, user.Lang, user.Active,
	)
	if err != nil {
		return mapPQError(err, "Un utilisateur avec cet email existe déjà")
	}
	return r.SetUserRoles(ctx, user.ID, user.RoleCodes)
}

func (r *PostgresUsersRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = $3, lang = $4, active = $5,
		        password_hash = COALESCE(NULLIF($6, ''), password_hash)
		 WHERE entreprise_id = $1 AND id = $2`,
		user.EntrepriseID, user.ID, user.Name, user.Lang, user.Active, user.PasswordHash,
	)
	if err != nil {
		return mapPQError(err, "")
	}
	return requireAffected(res, "Utilisateur introuvable")
}

// SetUserRoles replaces the role codes of a user.
func (r *PostgresUsersRepository) SetUserRoles(ctx context.Context, userID string, roleCodes []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear user roles: %w", err)
	}
	if len(roleCodes) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_roles (user_id, role_code) SELECT $1, unnest($2::text[])`,
		userID, pq.Array(roleCodes),
	)
	return mapPQError(err, "")
}
