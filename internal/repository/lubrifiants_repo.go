package repository

import (
	"context"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
)

// LubrifiantsRepository lubricant catalogue data access
type LubrifiantsRepository interface {
	ListLubrifiants(ctx context.Context, entrepriseID string, filter ListFilter) ([]domain.Lubrifiant, int, error)
	GetLubrifiant(ctx context.Context, entrepriseID, id string) (*domain.Lubrifiant, error)
	CreateLubrifiant(ctx context.Context, l *domain.Lubrifiant) error
	UpdateLubrifiant(ctx context.Context, l *domain.Lubrifiant) error
	DeleteLubrifiant(ctx context.Context, entrepriseID, id string) error
}
