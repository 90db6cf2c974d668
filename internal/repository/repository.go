package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ghalass/gmao-pro-sub001/common/database"
	"github.com/ghalass/gmao-pro-sub001/internal/domain"

	"github.com/lib/pq"
)

// DBTX is satisfied by *sql.DB and *sql.Tx so repositories run inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ListFilter common search + pagination parameters
type ListFilter struct {
	Search string
	Page   int
	Size   int
}

func (f ListFilter) limitOffset() (int, int) {
	page, size := f.Page, f.Size
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	if size > 500 {
		size = 500
	}
	return size, (page - 1) * size
}

// Repositories bundles every repository over one DBTX.
type Repositories struct {
	Entreprises     EntreprisesRepository
	Sites           SitesRepository
	Parcs           ParcsRepository
	Engins          EnginsRepository
	Pannes          PannesRepository
	Objectifs       ObjectifsRepository
	Lubrifiants     LubrifiantsRepository
	Saisies         SaisiesRepository
	Users           UsersRepository
	Roles           RolesRepository
	RolePermissions RolePermissionsRepository
}

// NewPostgresRepositories builds the Postgres implementations over db.
func NewPostgresRepositories(db DBTX) *Repositories {
	return &Repositories{
		Entreprises:     NewPostgresEntreprisesRepository(db),
		Sites:           NewPostgresSitesRepository(db),
		Parcs:           NewPostgresParcsRepository(db),
		Engins:          NewPostgresEnginsRepository(db),
		Pannes:          NewPostgresPannesRepository(db),
		Objectifs:       NewPostgresObjectifsRepository(db),
		Lubrifiants:     NewPostgresLubrifiantsRepository(db),
		Saisies:         NewPostgresSaisiesRepository(db),
		Users:           NewPostgresUsersRepository(db),
		Roles:           NewPostgresRolesRepository(db),
		RolePermissions: NewPostgresRolePermissionsRepository(db),
	}
}

// TxRunner runs fn with repositories bound to a single transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(repos *Repositories) error) error
}

// PostgresStore is the *sql.DB backed TxRunner.
type PostgresStore struct {
	db *sql.DB
	*Repositories
}

// NewPostgresStore wraps db.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, Repositories: NewPostgresRepositories(db)}
}

// InTx implements TxRunner.
func (s *PostgresStore) InTx(ctx context.Context, fn func(repos *Repositories) error) error {
	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return fn(NewPostgresRepositories(tx))
	})
}

// pq error codes
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// mapPQError turns constraint violations into domain errors. conflictMsg is used for
// unique violations.
func mapPQError(err error, conflictMsg string) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return domain.Conflict(conflictMsg)
		case pqForeignKeyViolation:
			return domain.NewValidationError("Référence invalide ou encore utilisée", nil)
		}
	}
	return err
}

// notFoundOr maps sql.ErrNoRows to a domain not-found error.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound(msg)
	}
	return err
}

func requireAffected(res sql.Result, msg string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return domain.NotFound(msg)
	}
	return nil
}

// whereBuilder accumulates "$n" placeholders.
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(w.args))))
}

func (w *whereBuilder) clause() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page appends LIMIT/OFFSET placeholders and returns the suffix.
func (w *whereBuilder) page(f ListFilter) string {
	limit, offset := f.limitOffset()
	w.args = append(w.args, limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(w.args)-1, len(w.args))
}
