package service

import (
	"context"
	"strings"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
	"github.com/ghalass/gmao-pro-sub001/internal/repository"
	"github.com/ghalass/gmao-pro-sub001/internal/validation"

	"go.uber.org/zap"
)

// PanneService failure types CRUD
type PanneService struct {
	repo   repository.PannesRepository
	logger *zap.Logger
}

func NewPanneService(repo repository.PannesRepository, logger *zap.Logger) *PanneService {
	return &PanneService{repo: repo, logger: logger}
}

type SavePanneRequest struct {
	EntrepriseID string `json:"-"`
	Locale       string `json:"-"`
	ID           string `json:"-"`
	Name         string `json:"name"`
	Type         string `json:"type"`
}

func panneSchema(locale string) validation.Schema {
	return validation.BuildSchema(locale,
		validation.Field{Name: "name", Label: "Nom", Required: true, Rules: []validation.Rule{validation.MaxLen(100)}},
		validation.Field{Name: "type", Label: "Type", Required: true, Rules: []validation.Rule{validation.MaxLen(50)}},
	)
}

func (s *PanneService) List(ctx context.Context, req ListRequest) (*ListResponse[domain.Panne], error) {
	items, total, err := s.repo.ListPannes(ctx, req.EntrepriseID, req.filter())
	if err != nil {
		return nil, err
	}
	return &ListResponse[domain.Panne]{Items: items, Total: total}, nil
}

func (s *PanneService) Get(ctx context.Context, entrepriseID, id string) (*domain.Panne, error) {
	return s.repo.GetPanne(ctx, entrepriseID, id)
}

func (s *PanneService) Create(ctx context.Context, req SavePanneRequest) (*domain.Panne, error) {
	p := &domain.Panne{EntrepriseID: req.EntrepriseID, Name: strings.TrimSpace(req.Name), Type: strings.ToLower(strings.TrimSpace(req.Type))}
	if err := panneSchema(req.Locale).Check(map[string]any{"name": p.Name, "type": p.Type}); err != nil {
		return nil, err
	}
	if err := s.repo.CreatePanne(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PanneService) Update(ctx context.Context, req SavePanneRequest) (*domain.Panne, error) {
	current, err := s.repo.GetPanne(ctx, req.EntrepriseID, req.ID)
	if err != nil {
		return nil, err
	}
	current.Name = strings.TrimSpace(req.Name)
	current.Type = strings.ToLower(strings.TrimSpace(req.Type))
	if err := panneSchema(req.Locale).Check(map[string]any{"name": current.Name, "type": current.Type}); err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePanne(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

func (s *PanneService) Delete(ctx context.Context, entrepriseID, id string) error {
	return s.repo.DeletePanne(ctx, entrepriseID, id)
}
