package domain

import "database/sql"

// SystemEntrepriseID owns the default roles and permissions shared by every tenant.
const SystemEntrepriseID = "00000000-0000-0000-0000-000000000001"

// Built-in role codes
const (
	RoleSuperAdmin = "SuperAdmin"
	RoleAdmin      = "Admin"
	RoleSaisie     = "Saisie"
	RoleLecteur    = "Lecteur"
)

// Permission types (role_permissions.permission_type)
const (
	PermRead   = "R"
	PermCreate = "C"
	PermUpdate = "U"
	PermDelete = "D"
)

// Role (roles table)
type Role struct {
	RoleID       string         `db:"role_id" json:"role_id"`
	EntrepriseID sql.NullString `db:"entreprise_id" json:"-"` // NULL / System = built-in role

	RoleCode    string       `db:"role_code" json:"role_code"`
	Description string       `db:"description" json:"description"`
	IsSystem    bool         `db:"is_system" json:"is_system"`
	IsActive    sql.NullBool `db:"is_active" json:"-"`
}

// RolePermission (role_permissions table): role_code may perform permission_type on resource_type.
type RolePermission struct {
	PermissionID string         `db:"permission_id" json:"permission_id"`
	EntrepriseID sql.NullString `db:"entreprise_id" json:"-"`

	RoleCode       string `db:"role_code" json:"role_code"`
	ResourceType   string `db:"resource_type" json:"resource_type"`     // sites, engins, saisies, rapports, ...
	PermissionType string `db:"permission_type" json:"permission_type"` // R, C, U, D
}
