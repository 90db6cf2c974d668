package service

import (
	"context"
	"strings"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
	"github.com/ghalass/gmao-pro-sub001/internal/repository"
	"github.com/ghalass/gmao-pro-sub001/internal/validation"

	"go.uber.org/zap"
)

// SiteService sites CRUD
type SiteService struct {
	repo   repository.SitesRepository
	logger *zap.Logger
}

func NewSiteService(repo repository.SitesRepository, logger *zap.Logger) *SiteService {
	return &SiteService{repo: repo, logger: logger}
}

// SaveSiteRequest create/update body. ID is empty on create.
type SaveSiteRequest struct {
	EntrepriseID string `json:"-"`
	Locale       string `json:"-"`
	ID           string `json:"-"`
	Name         string `json:"name"`
	Active       *bool  `json:"active"`
}

func siteSchema(locale string) validation.Schema {
	return validation.BuildSchema(locale,
		validation.Field{Name: "name", Label: "Nom", Required: true, Rules: []validation.Rule{validation.MaxLen(100)}},
	)
}

func (s *SiteService) List(ctx context.Context, req ListRequest) (*ListResponse[domain.Site], error) {
	items, total, err := s.repo.ListSites(ctx, req.EntrepriseID, req.filter())
	if err != nil {
		return nil, err
	}
	return &ListResponse[domain.Site]{Items: items, Total: total}, nil
}

func (s *SiteService) Get(ctx context.Context, entrepriseID, id string) (*domain.Site, error) {
	return s.repo.GetSite(ctx, entrepriseID, id)
}

func (s *SiteService) Create(ctx context.Context, req SaveSiteRequest) (*domain.Site, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := siteSchema(req.Locale).Check(map[string]any{"name": req.Name}); err != nil {
		return nil, err
	}
	site := &domain.Site{EntrepriseID: req.EntrepriseID, Name: req.Name, Active: boolOr(req.Active, true)}
	if err := s.repo.CreateSite(ctx, site); err != nil {
		return nil, err
	}
	s.logger.Info("Site created", zap.String("entreprise_id", site.EntrepriseID), zap.String("site_id", site.ID))
	return site, nil
}

func (s *SiteService) Update(ctx context.Context, req SaveSiteRequest) (*domain.Site, error) {
	current, err := s.repo.GetSite(ctx, req.EntrepriseID, req.ID)
	if err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := siteSchema(req.Locale).Check(map[string]any{"name": req.Name}); err != nil {
		return nil, err
	}
	current.Name = req.Name
	current.Active = boolOr(req.Active, current.Active)
	if err := s.repo.UpdateSite(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

func (s *SiteService) Delete(ctx context.Context, entrepriseID, id string) error {
	return s.repo.DeleteSite(ctx, entrepriseID, id)
}
