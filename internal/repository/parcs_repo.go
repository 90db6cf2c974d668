package repository

import (
	"context"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
)

// ParcsRepository parcs and parc types data access
type ParcsRepository interface {
	ListParcs(ctx context.Context, entrepriseID string, filter ListFilter) ([]domain.Parc, int, error)
	GetParc(ctx context.Context, entrepriseID, id string) (*domain.Parc, error)
	GetParcByName(ctx context.Context, entrepriseID, name string) (*domain.Parc, error)
	CreateParc(ctx context.Context, parc *domain.Parc) error
	UpdateParc(ctx context.Context, parc *domain.Parc) error
	DeleteParc(ctx context.Context, entrepriseID, id string) error

	ListTypeParcs(ctx context.Context, entrepriseID string) ([]domain.TypeParc, error)
	CreateTypeParc(ctx context.Context, tp *domain.TypeParc) error
	DeleteTypeParc(ctx context.Context, entrepriseID, id string) error
}
