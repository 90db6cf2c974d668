package repository

import (
	"context"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
)

// RolesRepository roles data access. Tenants see their own roles plus the System ones.
type RolesRepository interface {
	ListRoles(ctx context.Context, entrepriseID string) ([]domain.Role, error)
	GetRoleByCode(ctx context.Context, entrepriseID, roleCode string) (*domain.Role, error)
}

// RolePermissionsRepository role_permissions data access
type RolePermissionsRepository interface {
	// HasPermission reports whether any of roleCodes grants permissionType on resourceType,
	// either for the tenant or through the System defaults.
	HasPermission(ctx context.Context, entrepriseID string, roleCodes []string, resourceType, permissionType string) (bool, error)
	ListPermissions(ctx context.Context, entrepriseID, roleCode string) ([]domain.RolePermission, error)
	// ReplacePermissions swaps the tenant permissions of roleCode; run it inside InTx.
	ReplacePermissions(ctx context.Context, entrepriseID, roleCode string, perms []domain.RolePermission) error
}
