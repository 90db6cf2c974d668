package service

import (
	"context"
	"strings"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
	"github.com/ghalass/gmao-pro-sub001/internal/repository"
	"github.com/ghalass/gmao-pro-sub001/internal/validation"

	"go.uber.org/zap"
)

// ParcService parcs and parc types
type ParcService struct {
	repo   repository.ParcsRepository
	logger *zap.Logger
}

func NewParcService(repo repository.ParcsRepository, logger *zap.Logger) *ParcService {
	return &ParcService{repo: repo, logger: logger}
}

type SaveParcRequest struct {
	EntrepriseID string  `json:"-"`
	Locale       string  `json:"-"`
	ID           string  `json:"-"`
	Name         string  `json:"name"`
	TypeParcID   *string `json:"typeparc_id"`
}

func parcSchema(locale string) validation.Schema {
	return validation.BuildSchema(locale,
		validation.Field{Name: "name", Label: "Nom", Required: true, Rules: []validation.Rule{validation.MaxLen(100)}},
	)
}

func (s *ParcService) List(ctx context.Context, req ListRequest) (*ListResponse[domain.Parc], error) {
	items, total, err := s.repo.ListParcs(ctx, req.EntrepriseID, req.filter())
	if err != nil {
		return nil, err
	}
	return &ListResponse[domain.Parc]{Items: items, Total: total}, nil
}

func (s *ParcService) Get(ctx context.Context, entrepriseID, id string) (*domain.Parc, error) {
	return s.repo.GetParc(ctx, entrepriseID, id)
}

func (s *ParcService) Create(ctx context.Context, req SaveParcRequest) (*domain.Parc, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := parcSchema(req.Locale).Check(map[string]any{"name": req.Name}); err != nil {
		return nil, err
	}
	parc := &domain.Parc{EntrepriseID: req.EntrepriseID, Name: req.Name, TypeParcID: emptyToNil(req.TypeParcID)}
	if err := s.repo.CreateParc(ctx, parc); err != nil {
		return nil, err
	}
	return parc, nil
}

func (s *ParcService) Update(ctx context.Context, req SaveParcRequest) (*domain.Parc, error) {
	current, err := s.repo.GetParc(ctx, req.EntrepriseID, req.ID)
	if err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := parcSchema(req.Locale).Check(map[string]any{"name": req.Name}); err != nil {
		return nil, err
	}
	current.Name = req.Name
	current.TypeParcID = emptyToNil(req.TypeParcID)
	if err := s.repo.UpdateParc(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

func (s *ParcService) Delete(ctx context.Context, entrepriseID, id string) error {
	return s.repo.DeleteParc(ctx, entrepriseID, id)
}

func (s *ParcService) ListTypes(ctx context.Context, entrepriseID string) ([]domain.TypeParc, error) {
	return s.repo.ListTypeParcs(ctx, entrepriseID)
}

func (s *ParcService) CreateType(ctx context.Context, entrepriseID, locale, name string) (*domain.TypeParc, error) {
	name = strings.TrimSpace(name)
	if err := parcSchema(locale).Check(map[string]any{"name": name}); err != nil {
		return nil, err
	}
	tp := &domain.TypeParc{EntrepriseID: entrepriseID, Name: name}
	if err := s.repo.CreateTypeParc(ctx, tp); err != nil {
		return nil, err
	}
	return tp, nil
}

func (s *ParcService) DeleteType(ctx context.Context, entrepriseID, id string) error {
	return s.repo.DeleteTypeParc(ctx, entrepriseID, id)
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
