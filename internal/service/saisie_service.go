package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
	"github.com/ghalass/gmao-pro-sub001/internal/events"
	"github.com/ghalass/gmao-pro-sub001/internal/metrics"
	"github.com/ghalass/gmao-pro-sub001/internal/repository"
	"github.com/ghalass/gmao-pro-sub001/internal/rje"
	"github.com/ghalass/gmao-pro-sub001/internal/validation"

	"go.uber.org/zap"
)

// hoursEpsilon absorbs float noise in the 24h check (e.g. 0.1 + 0.2).
const hoursEpsilon = 1e-9

// SaisieService daily HRM/HIM entries and lubricant consumption.
// Every write runs in a transaction; an event is published after commit.
type SaisieService struct {
	store     repository.TxRunner
	repos     *repository.Repositories
	publisher events.Publisher
	metrics   *metrics.Metrics
	loc       *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

func NewSaisieService(store repository.TxRunner, repos *repository.Repositories, publisher events.Publisher,
	m *metrics.Metrics, loc *time.Location, logger *zap.Logger) *SaisieService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &SaisieService{store: store, repos: repos, publisher: publisher, metrics: m, loc: loc, now: time.Now, logger: logger}
}

type SaveHRMRequest struct {
	EntrepriseID string   `json:"-"`
	Locale       string   `json:"-"`
	EnginID      string   `json:"engin_id"`
	Du           string   `json:"du"`
	HRM          *float64 `json:"hrm"`
}

type CreateHIMRequest struct {
	EntrepriseID string   `json:"-"`
	Locale       string   `json:"-"`
	SaisiehrmID  string   `json:"saisiehrm_id"`
	PanneID      string   `json:"panne_id"`
	HIM          *float64 `json:"him"`
	NI           *float64 `json:"ni"`
	Obs          string   `json:"obs"`
}

type AddLubrifiantRequest struct {
	EntrepriseID string   `json:"-"`
	Locale       string   `json:"-"`
	SaisiehimID  string   `json:"saisiehim_id"`
	LubrifiantID string   `json:"lubrifiant_id"`
	Qte          *float64 `json:"qte"`
	Obs          string   `json:"obs"`
}

type ListHRMRequest struct {
	EntrepriseID string
	Locale       string
	EnginID      string
	From         string
	To           string
}

func hrmSchema(locale string) validation.Schema {
	return validation.BuildSchema(locale,
		validation.Field{Name: "engin_id", Label: "Engin", Required: true},
		validation.Field{Name: "du", Label: "Date", Required: true, Rules: []validation.Rule{validation.Date()}},
		validation.Field{Name: "hrm", Label: "HRM", Required: true, Rules: []validation.Rule{validation.Min(0), validation.Max(domain.MaxHoursPerDay)}},
	)
}

func himSchema(locale string) validation.Schema {
	return validation.BuildSchema(locale,
		validation.Field{Name: "saisiehrm_id", Label: "Saisie HRM", Required: true},
		validation.Field{Name: "panne_id", Label: "Panne", Required: true},
		validation.Field{Name: "him", Label: "HIM", Required: true, Rules: []validation.Rule{validation.Min(0), validation.Max(domain.MaxHoursPerDay)}},
		validation.Field{Name: "ni", Label: "NI", Rules: []validation.Rule{validation.PositiveInt(), validation.Max(math.MaxInt32)}},
		validation.Field{Name: "obs", Label: "Observation", Rules: []validation.Rule{validation.MaxLen(500)}},
	)
}

func lubrifiantUseSchema(locale string) validation.Schema {
	return validation.BuildSchema(locale,
		validation.Field{Name: "saisiehim_id", Label: "Saisie HIM", Required: true},
		validation.Field{Name: "lubrifiant_id", Label: "Lubrifiant", Required: true},
		validation.Field{Name: "qte", Label: "Quantité", Required: true, Rules: []validation.Rule{validation.Min(0)}},
	)
}

// day parses a YYYY-MM-DD saisie date into the UTC midnight stored in DATE columns.
func day(s string) (time.Time, error) {
	t, err := rje.ParseDate(s, time.UTC)
	if err != nil {
		return time.Time{}, domain.NewValidationError("Date invalide", domain.FieldErrors{"du": err.Error()})
	}
	return t, nil
}

func exceeds24h(total float64) bool { return total > domain.MaxHoursPerDay+hoursEpsilon }

func overflowError(hrm, him float64) error {
	return domain.NewValidationError(
		fmt.Sprintf("HRM + HIM ne peut pas dépasser %g heures par jour (HRM %g + HIM %g)", domain.MaxHoursPerDay, hrm, him),
		domain.FieldErrors{"hrm": "HRM + HIM > 24"},
	)
}

// SaveHRM creates the HRM row of (engin, du), or updates its hrm when it exists.
func (s *SaisieService) SaveHRM(ctx context.Context, req SaveHRMRequest) (*domain.Saisiehrm, error) {
	req.EnginID = strings.TrimSpace(req.EnginID)
	if err := hrmSchema(req.Locale).Check(map[string]any{"engin_id": req.EnginID, "du": req.Du, "hrm": optional(req.HRM)}); err != nil {
		return nil, err
	}
	du, err := day(req.Du)
	if err != nil {
		return nil, err
	}

	var saved *domain.Saisiehrm
	err = s.store.InTx(ctx, func(repos *repository.Repositories) error {
		var err error
		saved, err = saveHRM(ctx, repos, req.EntrepriseID, req.EnginID, du, *req.HRM)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type: events.TypeHRMSaved, EntrepriseID: req.EntrepriseID, EnginID: saved.EnginID,
		Du: rje.FormatDate(saved.Du), EntityID: saved.ID, HRM: req.HRM,
	})
	return saved, nil
}

// saveHRM is shared with the HRM import. The engin's current site is recorded on the row.
func saveHRM(ctx context.Context, repos *repository.Repositories, entrepriseID, enginID string, du time.Time, hrm float64) (*domain.Saisiehrm, error) {
	engin, err := repos.Engins.GetEngin(ctx, entrepriseID, enginID)
	if err != nil {
		return nil, referenceError(err, "engin_id", "Engin introuvable")
	}

	existing, err := repos.Saisies.GetHRMByEnginDay(ctx, entrepriseID, enginID, du)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if existing != nil {
		// re-read under the row lock so concurrent HIM inserts are counted
		if err := repos.Saisies.LockHRM(ctx, entrepriseID, existing.ID); err != nil {
			return nil, err
		}
		if existing, err = repos.Saisies.GetHRM(ctx, entrepriseID, existing.ID); err != nil {
			return nil, err
		}
		if total := existing.TotalHIM(); exceeds24h(hrm + total) {
			return nil, overflowError(hrm, total)
		}
		existing.HRM = hrm
		existing.SiteID = engin.SiteID
		if err := repos.Saisies.UpdateHRM(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	created := &domain.Saisiehrm{EnginID: enginID, SiteID: engin.SiteID, Du: du, HRM: hrm, HIMs: []domain.Saisiehim{}}
	if err := repos.Saisies.CreateHRM(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

// CreateHIM adds a downtime entry to an HRM row, keeping hrm + Σhim ≤ 24.
func (s *SaisieService) CreateHIM(ctx context.Context, req CreateHIMRequest) (*domain.Saisiehim, error) {
	if err := himSchema(req.Locale).Check(map[string]any{
		"saisiehrm_id": req.SaisiehrmID, "panne_id": req.PanneID,
		"him": optional(req.HIM), "ni": optional(req.NI), "obs": req.Obs,
	}); err != nil {
		return nil, err
	}
	him := &domain.Saisiehim{SaisiehrmID: req.SaisiehrmID, PanneID: req.PanneID, HIM: *req.HIM, Obs: strings.TrimSpace(req.Obs)}
	if req.NI != nil {
		him.NI = int(*req.NI)
	}

	var hrm *domain.Saisiehrm
	err := s.store.InTx(ctx, func(repos *repository.Repositories) error {
		if err := repos.Saisies.LockHRM(ctx, req.EntrepriseID, req.SaisiehrmID); err != nil {
			return referenceError(err, "saisiehrm_id", "Saisie HRM introuvable")
		}
		var err error
		hrm, err = repos.Saisies.GetHRM(ctx, req.EntrepriseID, req.SaisiehrmID)
		if err != nil {
			return referenceError(err, "saisiehrm_id", "Saisie HRM introuvable")
		}
		panne, err := repos.Pannes.GetPanne(ctx, req.EntrepriseID, req.PanneID)
		if err != nil {
			return referenceError(err, "panne_id", "Panne introuvable")
		}
		if total := hrm.TotalHIM() + him.HIM; exceeds24h(hrm.HRM + total) {
			return overflowError(hrm.HRM, total)
		}
		him.PanneName = panne.Name
		return repos.Saisies.CreateHIM(ctx, him)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type: events.TypeHIMCreated, EntrepriseID: req.EntrepriseID, EnginID: hrm.EnginID,
		Du: rje.FormatDate(hrm.Du), EntityID: him.ID, HIM: req.HIM,
	})
	return him, nil
}

// ListHRM returns HRM rows with their HIM children. Dates default to today.
func (s *SaisieService) ListHRM(ctx context.Context, req ListHRMRequest) ([]domain.Saisiehrm, error) {
	from, to, err := s.period(req.From, req.To)
	if err != nil {
		return nil, err
	}
	return s.repos.Saisies.ListHRMTree(ctx, req.EntrepriseID, from, to, strings.TrimSpace(req.EnginID))
}

func (s *SaisieService) DeleteHRM(ctx context.Context, entrepriseID, id string) error {
	hrm, err := s.repos.Saisies.GetHRM(ctx, entrepriseID, id)
	if err != nil {
		return err
	}
	// saisiehim rows cascade
	if err := s.repos.Saisies.DeleteHRM(ctx, entrepriseID, id); err != nil {
		return err
	}
	s.publish(ctx, events.Event{
		Type: events.TypeHRMDeleted, EntrepriseID: entrepriseID, EnginID: hrm.EnginID,
		Du: rje.FormatDate(hrm.Du), EntityID: id,
	})
	return nil
}

func (s *SaisieService) DeleteHIM(ctx context.Context, entrepriseID, id string) error {
	if err := s.repos.Saisies.DeleteHIM(ctx, entrepriseID, id); err != nil {
		return err
	}
	s.publish(ctx, events.Event{Type: events.TypeHIMDeleted, EntrepriseID: entrepriseID, EntityID: id})
	return nil
}

// AddLubrifiant records a lubricant quantity (> 0) against a HIM row.
func (s *SaisieService) AddLubrifiant(ctx context.Context, req AddLubrifiantRequest) (*domain.SaisieLubrifiant, error) {
	if err := lubrifiantUseSchema(req.Locale).Check(map[string]any{
		"saisiehim_id": req.SaisiehimID, "lubrifiant_id": req.LubrifiantID, "qte": optional(req.Qte),
	}); err != nil {
		return nil, err
	}
	if *req.Qte <= 0 {
		return nil, domain.NewValidationError("La quantité doit être positive", domain.FieldErrors{"qte": "qte > 0"})
	}

	sl := &domain.SaisieLubrifiant{SaisiehimID: req.SaisiehimID, LubrifiantID: req.LubrifiantID, Qte: *req.Qte, Obs: strings.TrimSpace(req.Obs)}
	err := s.store.InTx(ctx, func(repos *repository.Repositories) error {
		if _, err := repos.Saisies.GetHIM(ctx, req.EntrepriseID, req.SaisiehimID); err != nil {
			return referenceError(err, "saisiehim_id", "Saisie HIM introuvable")
		}
		if _, err := repos.Lubrifiants.GetLubrifiant(ctx, req.EntrepriseID, req.LubrifiantID); err != nil {
			return referenceError(err, "lubrifiant_id", "Lubrifiant introuvable")
		}
		return repos.Saisies.CreateSaisieLubrifiant(ctx, sl)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{Type: events.TypeLubrifiantAdded, EntrepriseID: req.EntrepriseID, EntityID: sl.ID})
	return sl, nil
}

// LubrifiantConsumption sums quantities per lubricant over [from, to].
func (s *SaisieService) LubrifiantConsumption(ctx context.Context, entrepriseID, from, to string) ([]domain.LubrifiantConsumption, error) {
	f, t, err := s.period(from, to)
	if err != nil {
		return nil, err
	}
	return s.repos.Saisies.ListLubrifiantConsumption(ctx, entrepriseID, f, t)
}

func (s *SaisieService) period(from, to string) (time.Time, time.Time, error) {
	today := rje.FormatDate(s.now().In(s.loc))
	if strings.TrimSpace(from) == "" {
		from = today
	}
	if strings.TrimSpace(to) == "" {
		to = from
	}
	f, err := day(from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	t, err := day(to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if t.Before(f) {
		return time.Time{}, time.Time{}, domain.NewValidationError("La date de fin précède la date de début", nil)
	}
	return f, t, nil
}

// publish never fails the write; errors are logged and counted.
func (s *SaisieService) publish(ctx context.Context, ev events.Event) {
	ev.At = s.now().UTC()
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.metrics.EventPublishFailed()
		s.logger.Warn("Failed to publish saisie event",
			zap.String("type", ev.Type),
			zap.String("entreprise_id", ev.EntrepriseID),
			zap.Error(err),
		)
	}
}
