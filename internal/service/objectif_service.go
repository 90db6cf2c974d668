package service

import (
	"context"
	"errors"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
	"github.com/ghalass/gmao-pro-sub001/internal/repository"
	"github.com/ghalass/gmao-pro-sub001/internal/validation"

	"go.uber.org/zap"
)

const objectifDuplicateMsg = "Un objectif existe déjà pour cette année, ce parc et ce site"

// ObjectifService yearly targets, unique per (annee, parc, site)
type ObjectifService struct {
	objectifs repository.ObjectifsRepository
	sites     repository.SitesRepository
	parcs     repository.ParcsRepository
	logger    *zap.Logger
}

func NewObjectifService(repos *repository.Repositories, logger *zap.Logger) *ObjectifService {
	return &ObjectifService{objectifs: repos.Objectifs, sites: repos.Sites, parcs: repos.Parcs, logger: logger}
}

type ListObjectifsRequest struct {
	ListRequest
	Annee  int
	SiteID string
	ParcID string
}

type SaveObjectifRequest struct {
	EntrepriseID string   `json:"-"`
	Locale       string   `json:"-"`
	ID           string   `json:"-"`
	Annee        int      `json:"annee"`
	SiteID       string   `json:"site_id"`
	ParcID       string   `json:"parc_id"`
	Dispo        *float64 `json:"dispo"`
	MTBF         *float64 `json:"mtbf"`
	TDM          *float64 `json:"tdm"`
	SpeHuile     *float64 `json:"spe_huile"`
	SpeGO        *float64 `json:"spe_go"`
	SpeGraisse   *float64 `json:"spe_graisse"`
}

func objectifSchema(locale string) validation.Schema {
	percent := []validation.Rule{validation.Min(0), validation.Max(100)}
	positive := []validation.Rule{validation.Min(0)}
	return validation.BuildSchema(locale,
		validation.Field{Name: "annee", Label: "Année", Required: true, Rules: []validation.Rule{validation.PositiveInt(), validation.Min(2000), validation.Max(2100)}},
		validation.Field{Name: "site_id", Label: "Site", Required: true},
		validation.Field{Name: "parc_id", Label: "Parc", Required: true},
		validation.Field{Name: "dispo", Label: "DISP", Rules: percent},
		validation.Field{Name: "tdm", Label: "TDM", Rules: percent},
		validation.Field{Name: "mtbf", Label: "MTBF", Rules: positive},
		validation.Field{Name: "spe_huile", Label: "SPE huile", Rules: positive},
		validation.Field{Name: "spe_go", Label: "SPE GO", Rules: positive},
		validation.Field{Name: "spe_graisse", Label: "SPE graisse", Rules: positive},
	)
}

func (req SaveObjectifRequest) values() map[string]any {
	values := map[string]any{
		"site_id":     req.SiteID,
		"parc_id":     req.ParcID,
		"dispo":       optional(req.Dispo),
		"tdm":         optional(req.TDM),
		"mtbf":        optional(req.MTBF),
		"spe_huile":   optional(req.SpeHuile),
		"spe_go":      optional(req.SpeGO),
		"spe_graisse": optional(req.SpeGraisse),
	}
	if req.Annee != 0 {
		values["annee"] = req.Annee
	}
	return values
}

func (s *ObjectifService) List(ctx context.Context, req ListObjectifsRequest) (*ListResponse[domain.Objectif], error) {
	items, total, err := s.objectifs.ListObjectifs(ctx, req.EntrepriseID, repository.ObjectifsFilter{
		ListFilter: req.filter(),
		Annee:      req.Annee,
		SiteID:     req.SiteID,
		ParcID:     req.ParcID,
	})
	if err != nil {
		return nil, err
	}
	return &ListResponse[domain.Objectif]{Items: items, Total: total}, nil
}

func (s *ObjectifService) Get(ctx context.Context, entrepriseID, id string) (*domain.Objectif, error) {
	return s.objectifs.GetObjectif(ctx, entrepriseID, id)
}

// validate checks the body, the references and the (annee, parc, site) uniqueness.
// selfID is the objectif being updated, empty on create.
func (s *ObjectifService) validate(ctx context.Context, req SaveObjectifRequest, selfID string) error {
	if err := objectifSchema(req.Locale).Check(req.values()); err != nil {
		return err
	}
	if _, err := s.sites.GetSite(ctx, req.EntrepriseID, req.SiteID); err != nil {
		return referenceError(err, "site_id", "Site introuvable")
	}
	if _, err := s.parcs.GetParc(ctx, req.EntrepriseID, req.ParcID); err != nil {
		return referenceError(err, "parc_id", "Parc introuvable")
	}

	existing, err := s.objectifs.FindObjectif(ctx, req.EntrepriseID, req.Annee, req.ParcID, req.SiteID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return domain.Conflict(objectifDuplicateMsg)
	}
	return nil
}

func (req SaveObjectifRequest) apply(o *domain.Objectif) {
	o.Annee = req.Annee
	o.SiteID = req.SiteID
	o.ParcID = req.ParcID
	o.Dispo = req.Dispo
	o.MTBF = req.MTBF
	o.TDM = req.TDM
	o.SpeHuile = req.SpeHuile
	o.SpeGO = req.SpeGO
	o.SpeGraisse = req.SpeGraisse
}

func (s *ObjectifService) Create(ctx context.Context, req SaveObjectifRequest) (*domain.Objectif, error) {
	if err := s.validate(ctx, req, ""); err != nil {
		return nil, err
	}
	o := &domain.Objectif{EntrepriseID: req.EntrepriseID}
	req.apply(o)
	if err := s.objectifs.CreateObjectif(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *ObjectifService) Update(ctx context.Context, req SaveObjectifRequest) (*domain.Objectif, error) {
	current, err := s.objectifs.GetObjectif(ctx, req.EntrepriseID, req.ID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, req, current.ID); err != nil {
		return nil, err
	}
	req.apply(current)
	if err := s.objectifs.UpdateObjectif(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

func (s *ObjectifService) Delete(ctx context.Context, entrepriseID, id string) error {
	return s.objectifs.DeleteObjectif(ctx, entrepriseID, id)
}
