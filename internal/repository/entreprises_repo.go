package repository

import (
	"context"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
)

// EntreprisesRepository tenants data access (platform level, not tenant scoped)
type EntreprisesRepository interface {
	ListEntreprises(ctx context.Context, filter ListFilter) ([]domain.Entreprise, int, error)
	GetEntreprise(ctx context.Context, id string) (*domain.Entreprise, error)
	CreateEntreprise(ctx context.Context, e *domain.Entreprise) error
	UpdateEntreprise(ctx context.Context, e *domain.Entreprise) error
}
