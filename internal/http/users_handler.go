package httpapi

import (
	"context"
	"net/http"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
	"github.com/ghalass/gmao-pro-sub001/internal/service"

	"go.uber.org/zap"
)

type userService interface {
	List(ctx context.Context, req service.ListRequest) (*service.ListResponse[domain.User], error)
	Get(ctx context.Context, entrepriseID, id string) (*domain.User, error)
	Create(ctx context.Context, req service.CreateUserRequest) (*domain.User, error)
	Update(ctx context.Context, req service.UpdateUserRequest) (*domain.User, error)
}

type rolesService interface {
	ListRoles(ctx context.Context, entrepriseID string) ([]domain.Role, error)
	ListPermissions(ctx context.Context, entrepriseID, roleCode string) ([]domain.RolePermission, error)
	SetPermissions(ctx context.Context, req service.SetPermissionsRequest) ([]domain.RolePermission, error)
}

// UsersHandler /api/v1/users and /api/v1/roles
type UsersHandler struct {
	users  userService
	roles  rolesService
	logger *zap.Logger
}

func NewUsersHandler(users userService, roles rolesService, logger *zap.Logger) *UsersHandler {
	return &UsersHandler{users: users, roles: roles, logger: logger}
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	resp, err := h.users.List(r.Context(), listRequest(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), entrepriseID(r), pathID(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.EntrepriseID, req.Locale = entrepriseID(r), locale(r)
	user, err := h.users.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateUserRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.EntrepriseID, req.Locale, req.ID = entrepriseID(r), locale(r), pathID(r)
	user, err := h.users.Update(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UsersHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roles.ListRoles(r.Context(), entrepriseID(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, roles)
}

func (h *UsersHandler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.roles.ListPermissions(r.Context(), entrepriseID(r), pathVar(r, "code"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, perms)
}

// SetPermissions replaces the permissions of {code}; body {permissions:[{resource_type,permission_type}]}.
func (h *UsersHandler) SetPermissions(w http.ResponseWriter, r *http.Request) {
	var req service.SetPermissionsRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.EntrepriseID, req.Locale, req.RoleCode = entrepriseID(r), locale(r), pathVar(r, "code")
	perms, err := h.roles.SetPermissions(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, perms)
}
