package service

import (
	"context"
	"strings"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
	"github.com/ghalass/gmao-pro-sub001/internal/repository"
	"github.com/ghalass/gmao-pro-sub001/internal/validation"

	"go.uber.org/zap"
)

// UserService tenant users
type UserService struct {
	store  repository.TxRunner
	users  repository.UsersRepository
	roles  repository.RolesRepository
	auth   *AuthService
	logger *zap.Logger
}

func NewUserService(store repository.TxRunner, repos *repository.Repositories, auth *AuthService, logger *zap.Logger) *UserService {
	return &UserService{store: store, users: repos.Users, roles: repos.Roles, auth: auth, logger: logger}
}

type CreateUserRequest struct {
	EntrepriseID string   `json:"-"`
	Locale       string   `json:"-"`
	Email        string   `json:"email"`
	Name         string   `json:"name"`
	Password     string   `json:"password"`
	Lang         string   `json:"lang"`
	RoleCodes    []string `json:"role_codes"`
}

type UpdateUserRequest struct {
	EntrepriseID string    `json:"-"`
	Locale       string    `json:"-"`
	ID           string    `json:"-"`
	Name         *string   `json:"name"`
	Lang         *string   `json:"lang"`
	Active       *bool     `json:"active"`
	Password     string    `json:"password"`
	RoleCodes    *[]string `json:"role_codes"`
}

func userSchema(locale string, passwordRequired bool) validation.Schema {
	return validation.BuildSchema(locale,
		validation.Field{Name: "email", Label: "Email", Required: true, Rules: []validation.Rule{validation.MaxLen(200)}},
		validation.Field{Name: "name", Label: "Nom", Required: true, Rules: []validation.Rule{validation.MaxLen(150)}},
		validation.Field{Name: "password", Label: "Mot de passe", Required: passwordRequired, Rules: []validation.Rule{validation.MinLen(8)}},
		validation.Field{Name: "lang", Label: "Langue", Rules: []validation.Rule{validation.OneOf("fr", "en")}},
	)
}

func (s *UserService) List(ctx context.Context, req ListRequest) (*ListResponse[domain.User], error) {
	items, total, err := s.users.ListUsers(ctx, req.EntrepriseID, req.filter())
	if err != nil {
		return nil, err
	}
	return &ListResponse[domain.User]{Items: items, Total: total}, nil
}

func (s *UserService) Get(ctx context.Context, entrepriseID, id string) (*domain.User, error) {
	return s.users.GetUser(ctx, entrepriseID, id)
}

func (s *UserService) checkRoles(ctx context.Context, entrepriseID string, codes []string) error {
	for _, code := range codes {
		// SuperAdmin is reserved to the platform tenant
		if code == domain.RoleSuperAdmin && entrepriseID != domain.SystemEntrepriseID {
			return domain.Forbidden("Le rôle SuperAdmin ne peut pas être attribué")
		}
		if _, err := s.roles.GetRoleByCode(ctx, entrepriseID, code); err != nil {
			return referenceError(err, "role_codes", "Rôle inconnu : "+code)
		}
	}
	return nil
}

func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*domain.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	req.Lang = strings.ToLower(strings.TrimSpace(req.Lang))
	if err := userSchema(req.Locale, true).Check(map[string]any{
		"email": req.Email, "name": req.Name, "password": req.Password, "lang": req.Lang,
	}); err != nil {
		return nil, err
	}
	if !strings.Contains(req.Email, "@") {
		return nil, domain.NewValidationError("Email invalide", domain.FieldErrors{"email": "Email invalide"})
	}
	if err := s.checkRoles(ctx, req.EntrepriseID, req.RoleCodes); err != nil {
		return nil, err
	}
	if req.Lang == "" {
		req.Lang = validation.DefaultLocale
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		EntrepriseID: req.EntrepriseID,
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Lang:         req.Lang,
		Active:       true,
		RoleCodes:    req.RoleCodes,
	}
	if user.RoleCodes == nil {
		user.RoleCodes = []string{}
	}
	err = s.store.InTx(ctx, func(repos *repository.Repositories) error {
		return repos.Users.CreateUser(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("User created", zap.String("entreprise_id", user.EntrepriseID), zap.String("user_id", user.ID))
	return user, nil
}

// Update changes profile, status, password or roles. Deactivation and role changes
// revoke the user's sessions.
func (s *UserService) Update(ctx context.Context, req UpdateUserRequest) (*domain.User, error) {
	user, err := s.users.GetUser(ctx, req.EntrepriseID, req.ID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Lang != nil {
		user.Lang = strings.ToLower(strings.TrimSpace(*req.Lang))
	}
	values := map[string]any{"email": user.Email, "name": user.Name, "lang": user.Lang}
	if req.Password != "" {
		values["password"] = req.Password
	}
	if err := userSchema(req.Locale, false).Check(values); err != nil {
		return nil, err
	}

	revoke := false
	if req.Active != nil {
		revoke = user.Active && !*req.Active
		user.Active = *req.Active
	}
	user.PasswordHash = ""
	if req.Password != "" {
		if user.PasswordHash, err = HashPassword(req.Password); err != nil {
			return nil, err
		}
		revoke = true
	}
	if req.RoleCodes != nil {
		if err := s.checkRoles(ctx, req.EntrepriseID, *req.RoleCodes); err != nil {
			return nil, err
		}
		user.RoleCodes = *req.RoleCodes
		revoke = true
	}

	err = s.store.InTx(ctx, func(repos *repository.Repositories) error {
		if err := repos.Users.UpdateUser(ctx, user); err != nil {
			return err
		}
		if req.RoleCodes != nil {
			return repos.Users.SetUserRoles(ctx, user.ID, user.RoleCodes)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if revoke && s.auth != nil {
		if err := s.auth.RevokeUser(ctx, user.ID); err != nil {
			s.logger.Warn("Failed to revoke user sessions", zap.String("user_id", user.ID), zap.Error(err))
		}
	}
	user.PasswordHash = ""
	return user, nil
}
