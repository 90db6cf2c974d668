package service

import (
	"context"
	"strings"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
	"github.com/ghalass/gmao-pro-sub001/internal/repository"
	"github.com/ghalass/gmao-pro-sub001/internal/validation"

	"go.uber.org/zap"
)

// LubrifiantService lubricant catalogue CRUD
type LubrifiantService struct {
	repo   repository.LubrifiantsRepository
	logger *zap.Logger
}

func NewLubrifiantService(repo repository.LubrifiantsRepository, logger *zap.Logger) *LubrifiantService {
	return &LubrifiantService{repo: repo, logger: logger}
}

type SaveLubrifiantRequest struct {
	EntrepriseID string `json:"-"`
	Locale       string `json:"-"`
	ID           string `json:"-"`
	Name         string `json:"name"`
	Type         string `json:"type"`
}

func lubrifiantSchema(locale string) validation.Schema {
	return validation.BuildSchema(locale,
		validation.Field{Name: "name", Label: "Nom", Required: true, Rules: []validation.Rule{validation.MaxLen(100)}},
		validation.Field{Name: "type", Label: "Type", Required: true, Rules: []validation.Rule{
			validation.OneOf(domain.LubrifiantHuile, domain.LubrifiantGO, domain.LubrifiantGraisse),
		}},
	)
}

func (s *LubrifiantService) List(ctx context.Context, req ListRequest) (*ListResponse[domain.Lubrifiant], error) {
	items, total, err := s.repo.ListLubrifiants(ctx, req.EntrepriseID, req.filter())
	if err != nil {
		return nil, err
	}
	return &ListResponse[domain.Lubrifiant]{Items: items, Total: total}, nil
}

func (s *LubrifiantService) Get(ctx context.Context, entrepriseID, id string) (*domain.Lubrifiant, error) {
	return s.repo.GetLubrifiant(ctx, entrepriseID, id)
}

func (s *LubrifiantService) Create(ctx context.Context, req SaveLubrifiantRequest) (*domain.Lubrifiant, error) {
	l := &domain.Lubrifiant{EntrepriseID: req.EntrepriseID, Name: strings.TrimSpace(req.Name), Type: strings.ToLower(strings.TrimSpace(req.Type))}
	if err := lubrifiantSchema(req.Locale).Check(map[string]any{"name": l.Name, "type": l.Type}); err != nil {
		return nil, err
	}
	if err := s.repo.CreateLubrifiant(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *LubrifiantService) Update(ctx context.Context, req SaveLubrifiantRequest) (*domain.Lubrifiant, error) {
	current, err := s.repo.GetLubrifiant(ctx, req.EntrepriseID, req.ID)
	if err != nil {
		return nil, err
	}
	current.Name = strings.TrimSpace(req.Name)
	current.Type = strings.ToLower(strings.TrimSpace(req.Type))
	if err := lubrifiantSchema(req.Locale).Check(map[string]any{"name": current.Name, "type": current.Type}); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateLubrifiant(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

func (s *LubrifiantService) Delete(ctx context.Context, entrepriseID, id string) error {
	return s.repo.DeleteLubrifiant(ctx, entrepriseID, id)
}
