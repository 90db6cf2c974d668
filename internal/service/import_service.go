package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
	"github.com/ghalass/gmao-pro-sub001/internal/excel"
	"github.com/ghalass/gmao-pro-sub001/internal/metrics"
	"github.com/ghalass/gmao-pro-sub001/internal/repository"
	"github.com/ghalass/gmao-pro-sub001/internal/validation"

	"go.uber.org/zap"
)

// ErrImportRejected is returned with a result listing the invalid rows; nothing was written.
var ErrImportRejected = domain.NewValidationError("Le fichier contient des lignes invalides", nil)

// ImportService loads .xlsx files. Every row is mapped and validated before the first
// write; the writes then run in a single transaction.
type ImportService struct {
	store   repository.TxRunner
	repos   *repository.Repositories
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewImportService(store repository.TxRunner, repos *repository.Repositories, m *metrics.Metrics, logger *zap.Logger) *ImportService {
	return &ImportService{store: store, repos: repos, metrics: m, logger: logger}
}

type ImportRequest struct {
	EntrepriseID string
	Locale       string
	Kind         string
	File         io.Reader
}

type ImportRowError struct {
	Line   int                `json:"line"`
	Errors domain.FieldErrors `json:"errors"`
}

type ImportResult struct {
	Inserted int              `json:"inserted"`
	Errors   []ImportRowError `json:"errors"`
}

// importOp writes one validated row.
type importOp struct {
	line  int
	apply func(ctx context.Context, repos *repository.Repositories) error
}

func (s *ImportService) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	rules, ok := excel.RulesFor(req.Kind)
	if !ok {
		return nil, domain.NewValidationError(fmt.Sprintf("Type d'import inconnu : %s", req.Kind), nil)
	}
	rows, err := excel.ReadRows(req.File, rules)
	if err != nil {
		return nil, domain.NewValidationError(err.Error(), nil)
	}
	if len(rows) == 0 {
		return nil, domain.NewValidationError("Le fichier ne contient aucune ligne", nil)
	}

	p := &importPlan{svc: s, ctx: ctx, entrepriseID: req.EntrepriseID, locale: req.Locale, seen: map[string]int{}}
	for _, row := range rows {
		var fields domain.FieldErrors
		switch req.Kind {
		case excel.KindSites:
			fields = p.site(row)
		case excel.KindParcs:
			fields = p.parc(row)
		case excel.KindEngins:
			fields = p.engin(row)
		case excel.KindSaisiesHRM:
			fields = p.saisieHRM(row)
		}
		if p.err != nil {
			return nil, p.err
		}
		if len(fields) > 0 {
			p.result.Errors = append(p.result.Errors, ImportRowError{Line: row.Line, Errors: fields})
		}
	}

	if len(p.result.Errors) > 0 {
		s.metrics.ImportRows(req.Kind, 0, len(p.result.Errors))
		return &p.result, ErrImportRejected
	}

	failed := ImportRowError{}
	err = s.store.InTx(ctx, func(repos *repository.Repositories) error {
		for _, op := range p.ops {
			if err := op.apply(ctx, repos); err != nil {
				failed = ImportRowError{Line: op.line, Errors: rowErrorFields(err)}
				return err
			}
		}
		return nil
	})
	if err != nil {
		if failed.Errors != nil {
			s.metrics.ImportRows(req.Kind, 0, 1)
			return &ImportResult{Errors: []ImportRowError{failed}}, ErrImportRejected
		}
		return nil, err
	}

	p.result.Inserted = len(p.ops)
	p.result.Errors = []ImportRowError{}
	s.metrics.ImportRows(req.Kind, p.result.Inserted, 0)
	s.logger.Info("Excel import done",
		zap.String("entreprise_id", req.EntrepriseID),
		zap.String("kind", req.Kind),
		zap.Int("inserted", p.result.Inserted),
	)
	return &p.result, nil
}

// rowErrorFields keeps user-facing failures (conflict, validation) as row errors.
func rowErrorFields(err error) domain.FieldErrors {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		if len(verr.Fields) > 0 {
			return verr.Fields
		}
		return domain.FieldErrors{"row": verr.Message}
	}
	var merr *domain.MessageError
	if errors.As(err, &merr) && (errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrNotFound)) {
		return domain.FieldErrors{"row": merr.Message}
	}
	return nil
}

// importPlan accumulates ops and caches name lookups across rows.
type importPlan struct {
	svc          *ImportService
	ctx          context.Context
	entrepriseID string
	locale       string
	ops          []importOp
	result       ImportResult
	seen         map[string]int
	sites        map[string]*domain.Site
	parcs        map[string]*domain.Parc
	engins       map[string]*domain.Engin
	types        map[string]string
	err          error
}

func (p *importPlan) add(line int, apply func(ctx context.Context, repos *repository.Repositories) error) {
	p.ops = append(p.ops, importOp{line: line, apply: apply})
}

// duplicate flags a key already used by an earlier row of the file.
func (p *importPlan) duplicate(key string, line int) (int, bool) {
	key = strings.ToLower(key)
	if first, ok := p.seen[key]; ok {
		return first, true
	}
	p.seen[key] = line
	return 0, false
}

func (p *importPlan) lookupSite(name string) *domain.Site {
	if p.sites == nil {
		p.sites = map[string]*domain.Site{}
	}
	key := strings.ToLower(name)
	if s, ok := p.sites[key]; ok {
		return s
	}
	s, err := p.svc.repos.Sites.GetSiteByName(p.ctx, p.entrepriseID, name)
	if err != nil && !isNotFound(err) {
		p.err = err
	}
	p.sites[key] = s
	return s
}

func (p *importPlan) lookupParc(name string) *domain.Parc {
	if p.parcs == nil {
		p.parcs = map[string]*domain.Parc{}
	}
	key := strings.ToLower(name)
	if v, ok := p.parcs[key]; ok {
		return v
	}
	v, err := p.svc.repos.Parcs.GetParcByName(p.ctx, p.entrepriseID, name)
	if err != nil && !isNotFound(err) {
		p.err = err
	}
	p.parcs[key] = v
	return v
}

func (p *importPlan) lookupEngin(name string) *domain.Engin {
	if p.engins == nil {
		p.engins = map[string]*domain.Engin{}
	}
	key := strings.ToLower(name)
	if v, ok := p.engins[key]; ok {
		return v
	}
	v, err := p.svc.repos.Engins.GetEnginByName(p.ctx, p.entrepriseID, name)
	if err != nil && !isNotFound(err) {
		p.err = err
	}
	p.engins[key] = v
	return v
}

func (p *importPlan) lookupTypeParc(name string) (string, bool) {
	if p.types == nil {
		p.types = map[string]string{}
		types, err := p.svc.repos.Parcs.ListTypeParcs(p.ctx, p.entrepriseID)
		if err != nil {
			p.err = err
			return "", false
		}
		for _, tp := range types {
			p.types[strings.ToLower(tp.Name)] = tp.ID
		}
	}
	id, ok := p.types[strings.ToLower(name)]
	return id, ok
}

func (p *importPlan) site(row excel.Row) domain.FieldErrors {
	v := row.Values
	schema := validation.BuildSchema(p.locale,
		validation.Field{Name: "name", Label: "Nom", Required: true, Rules: []validation.Rule{validation.MaxLen(100)}},
	)
	if errs := schema.Validate(map[string]any{"name": v["name"]}); errs != nil {
		return errs
	}
	active, ok := parseBool(v["active"], true)
	if !ok {
		return domain.FieldErrors{"active": "Valeur attendue : oui / non"}
	}
	if first, dup := p.duplicate("site/"+v["name"], row.Line); dup {
		return domain.FieldErrors{"name": fmt.Sprintf("Doublon de la ligne %d", first)}
	}
	site := &domain.Site{EntrepriseID: p.entrepriseID, Name: v["name"], Active: active}
	p.add(row.Line, func(ctx context.Context, repos *repository.Repositories) error {
		return repos.Sites.CreateSite(ctx, site)
	})
	return nil
}

func (p *importPlan) parc(row excel.Row) domain.FieldErrors {
	v := row.Values
	schema := validation.BuildSchema(p.locale,
		validation.Field{Name: "name", Label: "Nom", Required: true, Rules: []validation.Rule{validation.MaxLen(100)}},
	)
	if errs := schema.Validate(map[string]any{"name": v["name"]}); errs != nil {
		return errs
	}
	parc := &domain.Parc{EntrepriseID: p.entrepriseID, Name: v["name"]}
	if t := v["typeparc"]; t != "" {
		id, ok := p.lookupTypeParc(t)
		if !ok {
			return domain.FieldErrors{"typeparc": fmt.Sprintf("Type de parc %q introuvable", t)}
		}
		parc.TypeParcID = &id
	}
	if first, dup := p.duplicate("parc/"+v["name"], row.Line); dup {
		return domain.FieldErrors{"name": fmt.Sprintf("Doublon de la ligne %d", first)}
	}
	p.add(row.Line, func(ctx context.Context, repos *repository.Repositories) error {
		return repos.Parcs.CreateParc(ctx, parc)
	})
	return nil
}

func (p *importPlan) engin(row excel.Row) domain.FieldErrors {
	v := row.Values
	schema := validation.BuildSchema(p.locale,
		validation.Field{Name: "name", Label: "Nom", Required: true, Rules: []validation.Rule{validation.MaxLen(100)}},
		validation.Field{Name: "site", Label: "Site", Required: true},
		validation.Field{Name: "parc", Label: "Parc", Required: true},
		validation.Field{Name: "initial_heure_chassis", Label: "Heures châssis", Rules: []validation.Rule{validation.Min(0)}},
	)
	errs := schema.Validate(map[string]any{
		"name": v["name"], "site": v["site"], "parc": v["parc"], "initial_heure_chassis": v["initial_heure_chassis"],
	})
	if errs == nil {
		errs = domain.FieldErrors{}
	}

	engin := &domain.Engin{EntrepriseID: p.entrepriseID, Name: v["name"]}
	if _, bad := errs["site"]; !bad {
		if site := p.lookupSite(v["site"]); site != nil {
			engin.SiteID = site.ID
		} else {
			errs["site"] = fmt.Sprintf("Site %q introuvable", v["site"])
		}
	}
	if _, bad := errs["parc"]; !bad {
		if parc := p.lookupParc(v["parc"]); parc != nil {
			engin.ParcID = parc.ID
		} else {
			errs["parc"] = fmt.Sprintf("Parc %q introuvable", v["parc"])
		}
	}
	active, ok := parseBool(v["active"], true)
	if !ok {
		errs["active"] = "Valeur attendue : oui / non"
	}
	engin.Active = active
	if h, ok := validation.Number(v["initial_heure_chassis"]); ok {
		engin.InitialHeureChassis = h
	}
	if _, bad := errs["name"]; !bad {
		if first, dup := p.duplicate("engin/"+v["name"], row.Line); dup {
			errs["name"] = fmt.Sprintf("Doublon de la ligne %d", first)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	p.add(row.Line, func(ctx context.Context, repos *repository.Repositories) error {
		return repos.Engins.CreateEngin(ctx, engin)
	})
	return nil
}

func (p *importPlan) saisieHRM(row excel.Row) domain.FieldErrors {
	v := row.Values
	du := normalizeImportDate(v["du"])
	schema := validation.BuildSchema(p.locale,
		validation.Field{Name: "du", Label: "Date", Required: true, Rules: []validation.Rule{validation.Date()}},
		validation.Field{Name: "engin", Label: "Engin", Required: true},
		validation.Field{Name: "hrm", Label: "HRM", Required: true, Rules: []validation.Rule{validation.Min(0), validation.Max(domain.MaxHoursPerDay)}},
	)
	errs := schema.Validate(map[string]any{"du": du, "engin": v["engin"], "hrm": v["hrm"]})
	if errs == nil {
		errs = domain.FieldErrors{}
	}

	var engin *domain.Engin
	if _, bad := errs["engin"]; !bad {
		if engin = p.lookupEngin(v["engin"]); engin == nil {
			errs["engin"] = fmt.Sprintf("Engin %q introuvable", v["engin"])
		}
	}
	if len(errs) > 0 {
		return errs
	}
	if first, dup := p.duplicate("hrm/"+engin.ID+"/"+du, row.Line); dup {
		return domain.FieldErrors{"du": fmt.Sprintf("Doublon de la ligne %d", first)}
	}

	day, _ := time.Parse("2006-01-02", du)
	hrm, _ := validation.Number(v["hrm"])
	enginID := engin.ID
	p.add(row.Line, func(ctx context.Context, repos *repository.Repositories) error {
		_, err := saveHRM(ctx, repos, p.entrepriseID, enginID, day, hrm)
		return err
	})
	return nil
}

// normalizeImportDate accepts Excel date serials and ISO, dd/mm/yyyy and yyyy/mm/dd text.
func normalizeImportDate(s string) string {
	s = strings.TrimSpace(s)
	if t, ok := excel.SerialDate(s); ok {
		return t.Format("2006-01-02")
	}
	for _, layout := range []string{"2006-01-02", "02/01/2006", "2006/01/02", "02-01-2006", "2006-01-02 15:04:05", "2006-01-02T15:04:05Z07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

func parseBool(s string, def bool) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def, true
	case "oui", "yes", "true", "vrai", "1", "actif", "active", "x":
		return true, true
	case "non", "no", "false", "faux", "0", "inactif", "inactive":
		return false, true
	}
	return def, false
}
