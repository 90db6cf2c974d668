package service

import (
	"context"
	"strings"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
	"github.com/ghalass/gmao-pro-sub001/internal/repository"
	"github.com/ghalass/gmao-pro-sub001/internal/validation"

	"go.uber.org/zap"
)

// EntrepriseService tenants management (SuperAdmin only)
type EntrepriseService struct {
	repo   repository.EntreprisesRepository
	logger *zap.Logger
}

func NewEntrepriseService(repo repository.EntreprisesRepository, logger *zap.Logger) *EntrepriseService {
	return &EntrepriseService{repo: repo, logger: logger}
}

type SaveEntrepriseRequest struct {
	Locale string `json:"-"`
	ID     string `json:"-"`
	Name   string `json:"name"`
	Lang   string `json:"lang"`
	Active *bool  `json:"active"`
}

func entrepriseSchema(locale string) validation.Schema {
	return validation.BuildSchema(locale,
		validation.Field{Name: "name", Label: "Nom", Required: true, Rules: []validation.Rule{validation.MaxLen(150)}},
		validation.Field{Name: "lang", Label: "Langue", Rules: []validation.Rule{validation.OneOf("fr", "en")}},
	)
}

func (s *EntrepriseService) List(ctx context.Context, req ListRequest) (*ListResponse[domain.Entreprise], error) {
	items, total, err := s.repo.ListEntreprises(ctx, req.filter())
	if err != nil {
		return nil, err
	}
	return &ListResponse[domain.Entreprise]{Items: items, Total: total}, nil
}

func (s *EntrepriseService) Create(ctx context.Context, req SaveEntrepriseRequest) (*domain.Entreprise, error) {
	e := &domain.Entreprise{Name: strings.TrimSpace(req.Name), Lang: strings.ToLower(strings.TrimSpace(req.Lang)), Active: boolOr(req.Active, true)}
	if err := entrepriseSchema(req.Locale).Check(map[string]any{"name": e.Name, "lang": e.Lang}); err != nil {
		return nil, err
	}
	if e.Lang == "" {
		e.Lang = validation.DefaultLocale
	}
	if err := s.repo.CreateEntreprise(ctx, e); err != nil {
		return nil, err
	}
	s.logger.Info("Entreprise created", zap.String("entreprise_id", e.ID), zap.String("name", e.Name))
	return e, nil
}

func (s *EntrepriseService) Update(ctx context.Context, req SaveEntrepriseRequest) (*domain.Entreprise, error) {
	current, err := s.repo.GetEntreprise(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	current.Name = strings.TrimSpace(req.Name)
	if lang := strings.ToLower(strings.TrimSpace(req.Lang)); lang != "" {
		current.Lang = lang
	}
	current.Active = boolOr(req.Active, current.Active)
	if err := entrepriseSchema(req.Locale).Check(map[string]any{"name": current.Name, "lang": current.Lang}); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateEntreprise(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}
