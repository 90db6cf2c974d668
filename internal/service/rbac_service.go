package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
	"github.com/ghalass/gmao-pro-sub001/internal/repository"
	"github.com/ghalass/gmao-pro-sub001/internal/store"
	"github.com/ghalass/gmao-pro-sub001/internal/validation"

	"go.uber.org/zap"
)

// ErrAccessDenied is returned when no role of the session grants the permission.
var ErrAccessDenied = domain.Forbidden("Accès refusé")

// Resource types used in role_permissions.
const (
	ResourceEntreprises = "entreprises"
	ResourceSites       = "sites"
	ResourceParcs       = "parcs"
	ResourceEngins      = "engins"
	ResourcePannes      = "pannes"
	ResourceObjectifs   = "objectifs"
	ResourceLubrifiants = "lubrifiants"
	ResourceSaisies     = "saisies"
	ResourceRapports    = "rapports"
	ResourceUsers       = "users"
	ResourceRoles       = "roles"
	ResourceImports     = "imports"
)

var resources = []string{
	ResourceEntreprises, ResourceSites, ResourceParcs, ResourceEngins, ResourcePannes, ResourceObjectifs,
	ResourceLubrifiants, ResourceSaisies, ResourceRapports, ResourceUsers, ResourceRoles, ResourceImports,
}

// RBACService answers permission checks and manages role permissions.
type RBACService struct {
	store  repository.TxRunner
	roles  repository.RolesRepository
	perms  repository.RolePermissionsRepository
	logger *zap.Logger
}

func NewRBACService(store repository.TxRunner, repos *repository.Repositories, logger *zap.Logger) *RBACService {
	return &RBACService{store: store, roles: repos.Roles, perms: repos.RolePermissions, logger: logger}
}

// Authorize returns nil when one of the session roles grants perm on resource.
// SuperAdmin is allowed everything.
func (s *RBACService) Authorize(ctx context.Context, sess *store.Session, resource, perm string) error {
	if sess == nil {
		return ErrNotAuthenticated
	}
	for _, code := range sess.RoleCodes {
		if code == domain.RoleSuperAdmin {
			return nil
		}
	}
	ok, err := s.perms.HasPermission(ctx, sess.EntrepriseID, sess.RoleCodes, resource, perm)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Debug("Access denied",
			zap.String("user_id", sess.UserID),
			zap.String("resource", resource),
			zap.String("permission", perm),
		)
		return ErrAccessDenied
	}
	return nil
}

func (s *RBACService) ListRoles(ctx context.Context, entrepriseID string) ([]domain.Role, error) {
	return s.roles.ListRoles(ctx, entrepriseID)
}

func (s *RBACService) ListPermissions(ctx context.Context, entrepriseID, roleCode string) ([]domain.RolePermission, error) {
	return s.perms.ListPermissions(ctx, entrepriseID, strings.TrimSpace(roleCode))
}

type PermissionInput struct {
	ResourceType   string `json:"resource_type"`
	PermissionType string `json:"permission_type"`
}

type SetPermissionsRequest struct {
	EntrepriseID string            `json:"-"`
	Locale       string            `json:"-"`
	RoleCode     string            `json:"-"`
	Permissions  []PermissionInput `json:"permissions"`
}

func permissionSchema(locale string) validation.Schema {
	return validation.BuildSchema(locale,
		validation.Field{Name: "resource_type", Label: "Ressource", Required: true, Rules: []validation.Rule{validation.OneOf(resources...)}},
		validation.Field{Name: "permission_type", Label: "Permission", Required: true, Rules: []validation.Rule{
			validation.OneOf(domain.PermRead, domain.PermCreate, domain.PermUpdate, domain.PermDelete),
		}},
	)
}

// SetPermissions replaces the tenant permissions of a role. SuperAdmin is not configurable.
func (s *RBACService) SetPermissions(ctx context.Context, req SetPermissionsRequest) ([]domain.RolePermission, error) {
	if req.RoleCode == domain.RoleSuperAdmin {
		return nil, domain.Forbidden("Le rôle SuperAdmin n'est pas modifiable")
	}
	if _, err := s.roles.GetRoleByCode(ctx, req.EntrepriseID, req.RoleCode); err != nil {
		return nil, err
	}

	schema := permissionSchema(req.Locale)
	perms := make([]domain.RolePermission, 0, len(req.Permissions))
	seen := make(map[string]bool)
	for i, p := range req.Permissions {
		p.ResourceType = strings.ToLower(strings.TrimSpace(p.ResourceType))
		p.PermissionType = strings.ToUpper(strings.TrimSpace(p.PermissionType))
		if err := schema.Check(map[string]any{"resource_type": p.ResourceType, "permission_type": p.PermissionType}); err != nil {
			return nil, fmt.Errorf("permission %d: %w", i+1, err)
		}
		key := p.ResourceType + "/" + p.PermissionType
		if seen[key] {
			continue
		}
		seen[key] = true
		perms = append(perms, domain.RolePermission{RoleCode: req.RoleCode, ResourceType: p.ResourceType, PermissionType: p.PermissionType})
	}

	err := s.store.InTx(ctx, func(repos *repository.Repositories) error {
		return repos.RolePermissions.ReplacePermissions(ctx, req.EntrepriseID, req.RoleCode, perms)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Role permissions replaced",
		zap.String("entreprise_id", req.EntrepriseID),
		zap.String("role_code", req.RoleCode),
		zap.Int("count", len(perms)),
	)
	return perms, nil
}
