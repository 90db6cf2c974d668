package repository

import (
	"context"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
)

// PannesRepository failure types data access
type PannesRepository interface {
	ListPannes(ctx context.Context, entrepriseID string, filter ListFilter) ([]domain.Panne, int, error)
	GetPanne(ctx context.Context, entrepriseID, id string) (*domain.Panne, error)
	CreatePanne(ctx context.Context, panne *domain.Panne) error
	UpdatePanne(ctx context.Context, panne *domain.Panne) error
	DeletePanne(ctx context.Context, entrepriseID, id string) error
}
