package repository

import (
	"context"
	"fmt"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PostgresRolesRepository struct {
	db DBTX
}

func NewPostgresRolesRepository(db DBTX) *PostgresRolesRepository {
	return &PostgresRolesRepository{db: db}
}

var _ RolesRepository = (*PostgresRolesRepository)(nil)

const roleSelect = `
	SELECT role_id::text, entreprise_id::text, role_code, COALESCE(description, ''), is_system, is_active
	FROM roles`

func (r *PostgresRolesRepository) ListRoles(ctx context.Context, entrepriseID string) ([]domain.Role, error) {
	rows, err := r.db.QueryContext(ctx,
		roleSelect+` WHERE entreprise_id IN ($1, $2) AND COALESCE(is_active, true) ORDER BY is_system DESC, role_code ASC`,
		entrepriseID, domain.SystemEntrepriseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Role, 0)
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.RoleID, &role.EntrepriseID, &role.RoleCode, &role.Description, &role.IsSystem, &role.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		items = append(items, role)
	}
	return items, rows.Err()
}

func (r *PostgresRolesRepository) GetRoleByCode(ctx context.Context, entrepriseID, roleCode string) (*domain.Role, error) {
	var role domain.Role
	// tenant role first, then the System default
	err := r.db.QueryRowContext(ctx,
		roleSelect+` WHERE entreprise_id IN ($1, $2) AND role_code = $3
		ORDER BY (entreprise_id = $2) ASC LIMIT 1`,
		entrepriseID, domain.SystemEntrepriseID, roleCode,
	).Scan(&role.RoleID, &role.EntrepriseID, &role.RoleCode, &role.Description, &role.IsSystem, &role.IsActive)
	if err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("Rôle %q introuvable", roleCode))
	}
	return &role, nil
}

type PostgresRolePermissionsRepository struct {
	db DBTX
}

func NewPostgresRolePermissionsRepository(db DBTX) *PostgresRolePermissionsRepository {
	return &PostgresRolePermissionsRepository{db: db}
}

var _ RolePermissionsRepository = (*PostgresRolePermissionsRepository)(nil)

func (r *PostgresRolePermissionsRepository) HasPermission(ctx context.Context, entrepriseID string, roleCodes []string, resourceType, permissionType string) (bool, error) {
	if len(roleCodes) == 0 {
		return false, nil
	}
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM role_permissions
			WHERE entreprise_id IN ($1, $2)
			  AND role_code = ANY($3)
			  AND resource_type = $4
			  AND permission_type = $5
		)`,
		entrepriseID, domain.SystemEntrepriseID, pq.Array(roleCodes), resourceType, permissionType,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("failed to check permission: %w", err)
	}
	return ok, nil
}

func (r *PostgresRolePermissionsRepository) ListPermissions(ctx context.Context, entrepriseID, roleCode string) ([]domain.RolePermission, error) {
	w := &whereBuilder{}
	w.add("entreprise_id IN (?, '"+domain.SystemEntrepriseID+"')", entrepriseID)
	if roleCode != "" {
		w.add("role_code = ?", roleCode)
	}
	query := `SELECT permission_id::text, entreprise_id::text, role_code, resource_type, permission_type
		FROM role_permissions` + w.clause() + ` ORDER BY role_code, resource_type, permission_type`
	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	defer rows.Close()

	items := make([]domain.RolePermission, 0)
	for rows.Next() {
		var p domain.RolePermission
		if err := rows.Scan(&p.PermissionID, &p.EntrepriseID, &p.RoleCode, &p.ResourceType, &p.PermissionType); err != nil {
			return nil, fmt.Errorf("failed to scan permission: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *PostgresRolePermissionsRepository) ReplacePermissions(ctx context.Context, entrepriseID, roleCode string, perms []domain.RolePermission) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM role_permissions WHERE entreprise_id = $1 AND role_code = $2`,
		entrepriseID, roleCode); err != nil {
		return fmt.Errorf("failed to clear permissions: %w", err)
	}
	for _, p := range perms {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO role_permissions (permission_id, entreprise_id, role_code, resource_type, permission_type)
			 VALUES ($1, $2, $3, $4, $5)`,
			uuid.NewString(), entrepriseID, roleCode, p.ResourceType, p.PermissionType,
		); err != nil {
			return mapPQError(err, "Permission en double")
		}
	}
	return nil
}
