package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
	"github.com/ghalass/gmao-pro-sub001/internal/excel"
	"github.com/ghalass/gmao-pro-sub001/internal/repository"
	"github.com/ghalass/gmao-pro-sub001/internal/validation"

	"go.uber.org/zap"
)

// EnginService engins CRUD and export
type EnginService struct {
	engins repository.EnginsRepository
	sites  repository.SitesRepository
	parcs  repository.ParcsRepository
	logger *zap.Logger
}

func NewEnginService(repos *repository.Repositories, logger *zap.Logger) *EnginService {
	return &EnginService{engins: repos.Engins, sites: repos.Sites, parcs: repos.Parcs, logger: logger}
}

type ListEnginsRequest struct {
	ListRequest
	SiteID string
	ParcID string
	Active *bool
}

type SaveEnginRequest struct {
	EntrepriseID        string   `json:"-"`
	Locale              string   `json:"-"`
	ID                  string   `json:"-"`
	Name                string   `json:"name"`
	SiteID              string   `json:"site_id"`
	ParcID              string   `json:"parc_id"`
	Active              *bool    `json:"active"`
	InitialHeureChassis *float64 `json:"initial_heure_chassis"`
}

func enginSchema(locale string) validation.Schema {
	return validation.BuildSchema(locale,
		validation.Field{Name: "name", Label: "Nom", Required: true, Rules: []validation.Rule{validation.MaxLen(100)}},
		validation.Field{Name: "site_id", Label: "Site", Required: true},
		validation.Field{Name: "parc_id", Label: "Parc", Required: true},
		validation.Field{Name: "initial_heure_chassis", Label: "Heures châssis", Rules: []validation.Rule{validation.Min(0)}},
	)
}

func (s *EnginService) List(ctx context.Context, req ListEnginsRequest) (*ListResponse[domain.Engin], error) {
	items, total, err := s.engins.ListEngins(ctx, req.EntrepriseID, repository.EnginsFilter{
		ListFilter: req.filter(),
		SiteID:     req.SiteID,
		ParcID:     req.ParcID,
		Active:     req.Active,
	})
	if err != nil {
		return nil, err
	}
	return &ListResponse[domain.Engin]{Items: items, Total: total}, nil
}

func (s *EnginService) Get(ctx context.Context, entrepriseID, id string) (*domain.Engin, error) {
	return s.engins.GetEngin(ctx, entrepriseID, id)
}

func (s *EnginService) validate(ctx context.Context, req *SaveEnginRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if err := enginSchema(req.Locale).Check(map[string]any{
		"name":                  req.Name,
		"site_id":               req.SiteID,
		"parc_id":               req.ParcID,
		"initial_heure_chassis": optional(req.InitialHeureChassis),
	}); err != nil {
		return err
	}
	// references must belong to the same tenant
	if _, err := s.sites.GetSite(ctx, req.EntrepriseID, req.SiteID); err != nil {
		return referenceError(err, "site_id", "Site introuvable")
	}
	if _, err := s.parcs.GetParc(ctx, req.EntrepriseID, req.ParcID); err != nil {
		return referenceError(err, "parc_id", "Parc introuvable")
	}
	return nil
}

func (s *EnginService) Create(ctx context.Context, req SaveEnginRequest) (*domain.Engin, error) {
	if err := s.validate(ctx, &req); err != nil {
		return nil, err
	}
	engin := &domain.Engin{
		EntrepriseID: req.EntrepriseID,
		SiteID:       req.SiteID,
		ParcID:       req.ParcID,
		Name:         req.Name,
		Active:       boolOr(req.Active, true),
	}
	if req.InitialHeureChassis != nil {
		engin.InitialHeureChassis = *req.InitialHeureChassis
	}
	if err := s.engins.CreateEngin(ctx, engin); err != nil {
		return nil, err
	}
	s.logger.Info("Engin created", zap.String("entreprise_id", engin.EntrepriseID), zap.String("engin_id", engin.ID))
	return engin, nil
}

func (s *EnginService) Update(ctx context.Context, req SaveEnginRequest) (*domain.Engin, error) {
	current, err := s.engins.GetEngin(ctx, req.EntrepriseID, req.ID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, &req); err != nil {
		return nil, err
	}
	current.Name = req.Name
	current.SiteID = req.SiteID
	current.ParcID = req.ParcID
	current.Active = boolOr(req.Active, current.Active)
	if req.InitialHeureChassis != nil {
		current.InitialHeureChassis = *req.InitialHeureChassis
	}
	if err := s.engins.UpdateEngin(ctx, current); err != nil {
		return nil, err
	}
	return s.engins.GetEngin(ctx, req.EntrepriseID, req.ID)
}

func (s *EnginService) Delete(ctx context.Context, entrepriseID, id string) error {
	return s.engins.DeleteEngin(ctx, entrepriseID, id)
}

// Export renders every engin of the tenant as an .xlsx workbook.
func (s *EnginService) Export(ctx context.Context, entrepriseID string) ([]byte, error) {
	engins, err := s.engins.ListAllEngins(ctx, entrepriseID)
	if err != nil {
		return nil, err
	}
	return excel.EnginsWorkbook(engins)
}

// referenceError turns a not-found lookup into a field validation error.
func referenceError(err error, field, msg string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewValidationError(msg, domain.FieldErrors{field: msg})
	}
	return err
}
