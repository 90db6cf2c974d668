package repository

import (
	"context"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
)

// SitesRepository sites data access
type SitesRepository interface {
	ListSites(ctx context.Context, entrepriseID string, filter ListFilter) ([]domain.Site, int, error)
	GetSite(ctx context.Context, entrepriseID, id string) (*domain.Site, error)
	GetSiteByName(ctx context.Context, entrepriseID, name string) (*domain.Site, error)
	CreateSite(ctx context.Context, site *domain.Site) error
	UpdateSite(ctx context.Context, site *domain.Site) error
	DeleteSite(ctx context.Context, entrepriseID, id string) error
}
