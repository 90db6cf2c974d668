package repository

import (
	"context"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
)

// ObjectifsFilter objectifs list filter; zero values are ignored.
type ObjectifsFilter struct {
	ListFilter
	Annee  int
	SiteID string
	ParcID string
}

// ObjectifsRepository yearly targets data access
type ObjectifsRepository interface {
	ListObjectifs(ctx context.Context, entrepriseID string, filter ObjectifsFilter) ([]domain.Objectif, int, error)
	// ListObjectifsByYear returns every objectif of the year, unpaginated.
	ListObjectifsByYear(ctx context.Context, entrepriseID string, annee int) ([]domain.Objectif, error)
	GetObjectif(ctx context.Context, entrepriseID, id string) (*domain.Objectif, error)
	FindObjectif(ctx context.Context, entrepriseID string, annee int, parcID, siteID string) (*domain.Objectif, error)
	CreateObjectif(ctx context.Context, o *domain.Objectif) error
	UpdateObjectif(ctx context.Context, o *domain.Objectif) error
	DeleteObjectif(ctx context.Context, entrepriseID, id string) error
}
