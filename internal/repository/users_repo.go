package repository

import (
	"context"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
)

// UsersRepository users and user_roles data access
type UsersRepository interface {
	ListUsers(ctx context.Context, entrepriseID string, filter ListFilter) ([]domain.User, int, error)
	GetUser(ctx context.Context, entrepriseID, id string) (*domain.User, error)
	// GetUserByEmail is used at login, before the tenant is known.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) error
	UpdateUser(ctx context.Context, user *domain.User) error
	SetUserRoles(ctx context.Context, userID string, roleCodes []string) error
}
