package repository

import (
	"context"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
)

// EnginsFilter engins list filter
type EnginsFilter struct {
	ListFilter
	SiteID string
	ParcID string
	Active *bool
}

// EnginsRepository engins data access
type EnginsRepository interface {
	ListEngins(ctx context.Context, entrepriseID string, filter EnginsFilter) ([]domain.Engin, int, error)
	// ListAllEngins returns every engin of the tenant with site and parc names,
	// ordered by site name, parc name, engin name.
	ListAllEngins(ctx context.Context, entrepriseID string) ([]domain.Engin, error)
	GetEngin(ctx context.Context, entrepriseID, id string) (*domain.Engin, error)
	GetEnginByName(ctx context.Context, entrepriseID, name string) (*domain.Engin, error)
	CreateEngin(ctx context.Context, engin *domain.Engin) error
	UpdateEngin(ctx context.Context, engin *domain.Engin) error
	DeleteEngin(ctx context.Context, entrepriseID, id string) error
}
