package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
	"github.com/ghalass/gmao-pro-sub001/internal/repository"
)

// memState is an in-memory tenant used by the service tests. Each fake repository
// embeds its interface so only the methods the services call need a body.
type memState struct {
	mu          sync.Mutex
	seq         int
	sites       map[string]domain.Site
	parcs       map[string]domain.Parc
	types       []domain.TypeParc
	engins      map[string]domain.Engin
	pannes      map[string]domain.Panne
	hrms        map[string]domain.Saisiehrm
	objectifs   map[string]domain.Objectif
	users       map[string]domain.User
	entreprises map[string]domain.Entreprise
	roles       map[string]domain.Role
	perms       map[string][]domain.RolePermission
	hrmLocks    []string

	// injected failures
	enginsErr error
}

func newMemState() *memState {
	return &memState{
		sites:       map[string]domain.Site{},
		parcs:       map[string]domain.Parc{},
		engins:      map[string]domain.Engin{},
		pannes:      map[string]domain.Panne{},
		hrms:        map[string]domain.Saisiehrm{},
		objectifs:   map[string]domain.Objectif{},
		users:       map[string]domain.User{},
		entreprises: map[string]domain.Entreprise{},
		roles:       map[string]domain.Role{},
		perms:       map[string][]domain.RolePermission{},
	}
}

func (m *memState) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memState) repos() *repository.Repositories {
	return &repository.Repositories{
		Entreprises:     memEntreprises{s: m},
		Sites:           memSites{s: m},
		Parcs:           memParcs{s: m},
		Engins:          memEngins{s: m},
		Pannes:          memPannes{s: m},
		Objectifs:       memObjectifs{s: m},
		Saisies:         memSaisies{s: m},
		Users:           memUsers{s: m},
		Roles:           memRoles{s: m},
		RolePermissions: memPerms{s: m},
	}
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// InTx restores the maps when fn fails, like a rollback.
func (m *memState) InTx(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	m.mu.Lock()
	sites, parcs, engins, hrms := cloneMap(m.sites), cloneMap(m.parcs), cloneMap(m.engins), cloneMap(m.hrms)
	objectifs, perms := cloneMap(m.objectifs), cloneMap(m.perms)
	m.mu.Unlock()

	if err := fn(m.repos()); err != nil {
		m.mu.Lock()
		m.sites, m.parcs, m.engins, m.hrms = sites, parcs, engins, hrms
		m.objectifs, m.perms = objectifs, perms
		m.mu.Unlock()
		return err
	}
	return nil
}

var _ repository.TxRunner = (*memState)(nil)

type memEntreprises struct {
	repository.EntreprisesRepository
	s *memState
}

func (r memEntreprises) GetEntreprise(ctx context.Context, id string) (*domain.Entreprise, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.entreprises[id]
	if !ok {
		return nil, domain.NotFound("Entreprise introuvable")
	}
	return &e, nil
}

type memSites struct {
	repository.SitesRepository
	s *memState
}

func (r memSites) GetSite(ctx context.Context, entrepriseID, id string) (*domain.Site, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.sites[id]
	if !ok || v.EntrepriseID != entrepriseID {
		return nil, domain.NotFound("Site introuvable")
	}
	return &v, nil
}

func (r memSites) GetSiteByName(ctx context.Context, entrepriseID, name string) (*domain.Site, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range r.s.sites {
		if v.EntrepriseID == entrepriseID && strings.EqualFold(v.Name, name) {
			return &v, nil
		}
	}
	return nil, domain.NotFound("Site introuvable")
}

func (r memSites) CreateSite(ctx context.Context, site *domain.Site) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range r.s.sites {
		if v.EntrepriseID == site.EntrepriseID && strings.EqualFold(v.Name, site.Name) {
			return domain.Conflict("Un site avec ce nom existe déjà")
		}
	}
	site.ID = r.s.nextID("site")
	r.s.sites[site.ID] = *site
	return nil
}

type memParcs struct {
	repository.ParcsRepository
	s *memState
}

func (r memParcs) GetParc(ctx context.Context, entrepriseID, id string) (*domain.Parc, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.parcs[id]
	if !ok || v.EntrepriseID != entrepriseID {
		return nil, domain.NotFound("Parc introuvable")
	}
	return &v, nil
}

func (r memParcs) GetParcByName(ctx context.Context, entrepriseID, name string) (*domain.Parc, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range r.s.parcs {
		if v.EntrepriseID == entrepriseID && strings.EqualFold(v.Name, name) {
			return &v, nil
		}
	}
	return nil, domain.NotFound("Parc introuvable")
}

func (r memParcs) CreateParc(ctx context.Context, parc *domain.Parc) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	parc.ID = r.s.nextID("parc")
	r.s.parcs[parc.ID] = *parc
	return nil
}

func (r memParcs) ListTypeParcs(ctx context.Context, entrepriseID string) ([]domain.TypeParc, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]domain.TypeParc(nil), r.s.types...), nil
}

type memEngins struct {
	repository.EnginsRepository
	s *memState
}

func (r memEngins) GetEngin(ctx context.Context, entrepriseID, id string) (*domain.Engin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.engins[id]
	if !ok || v.EntrepriseID != entrepriseID {
		return nil, domain.NotFound("Engin introuvable")
	}
	return &v, nil
}

func (r memEngins) GetEnginByName(ctx context.Context, entrepriseID, name string) (*domain.Engin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range r.s.engins {
		if v.EntrepriseID == entrepriseID && strings.EqualFold(v.Name, name) {
			return &v, nil
		}
	}
	return nil, domain.NotFound("Engin introuvable")
}

func (r memEngins) CreateEngin(ctx context.Context, engin *domain.Engin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range r.s.engins {
		if v.EntrepriseID == engin.EntrepriseID && strings.EqualFold(v.Name, engin.Name) {
			return domain.Conflict("Un engin avec ce nom existe déjà")
		}
	}
	engin.ID = r.s.nextID("engin")
	r.s.engins[engin.ID] = *engin
	return nil
}

func (r memEngins) ListAllEngins(ctx context.Context, entrepriseID string) ([]domain.Engin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.enginsErr != nil {
		return nil, r.s.enginsErr
	}
	out := make([]domain.Engin, 0, len(r.s.engins))
	for _, v := range r.s.engins {
		if v.EntrepriseID != entrepriseID {
			continue
		}
		v.SiteName = r.s.sites[v.SiteID].Name
		v.ParcName = r.s.parcs[v.ParcID].Name
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.SiteName != b.SiteName {
			return a.SiteName < b.SiteName
		}
		if a.ParcName != b.ParcName {
			return a.ParcName < b.ParcName
		}
		return a.Name < b.Name
	})
	return out, nil
}

type memPannes struct {
	repository.PannesRepository
	s *memState
}

func (r memPannes) GetPanne(ctx context.Context, entrepriseID, id string) (*domain.Panne, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.pannes[id]
	if !ok || v.EntrepriseID != entrepriseID {
		return nil, domain.NotFound("Panne introuvable")
	}
	return &v, nil
}

type memSaisies struct {
	repository.SaisiesRepository
	s *memState
}

func (r memSaisies) tenantOwns(entrepriseID, enginID string) bool {
	e, ok := r.s.engins[enginID]
	return ok && e.EntrepriseID == entrepriseID
}

func (r memSaisies) ListHRMTree(ctx context.Context, entrepriseID string, from, to time.Time, enginID string) ([]domain.Saisiehrm, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Saisiehrm, 0)
	for _, h := range r.s.hrms {
		if !r.tenantOwns(entrepriseID, h.EnginID) || (enginID != "" && h.EnginID != enginID) {
			continue
		}
		if h.Du.Before(from) || h.Du.After(to) {
			continue
		}
		h.HIMs = append([]domain.Saisiehim{}, h.HIMs...)
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Du.Before(out[j].Du) })
	return out, nil
}

func (r memSaisies) GetHRM(ctx context.Context, entrepriseID, id string) (*domain.Saisiehrm, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h, ok := r.s.hrms[id]
	if !ok || !r.tenantOwns(entrepriseID, h.EnginID) {
		return nil, domain.NotFound("Saisie HRM introuvable")
	}
	return &h, nil
}

func (r memSaisies) LockHRM(ctx context.Context, entrepriseID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h, ok := r.s.hrms[id]
	if !ok || !r.tenantOwns(entrepriseID, h.EnginID) {
		return domain.NotFound("Saisie HRM introuvable")
	}
	r.s.hrmLocks = append(r.s.hrmLocks, id)
	return nil
}

func (r memSaisies) GetHRMByEnginDay(ctx context.Context, entrepriseID, enginID string, du time.Time) (*domain.Saisiehrm, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, h := range r.s.hrms {
		if h.EnginID == enginID && h.Du.Equal(du) && r.tenantOwns(entrepriseID, enginID) {
			return &h, nil
		}
	}
	return nil, domain.NotFound("Saisie HRM introuvable")
}

func (r memSaisies) CreateHRM(ctx context.Context, hrm *domain.Saisiehrm) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	hrm.ID = r.s.nextID("hrm")
	r.s.hrms[hrm.ID] = *hrm
	return nil
}

func (r memSaisies) UpdateHRM(ctx context.Context, hrm *domain.Saisiehrm) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.hrms[hrm.ID] = *hrm
	return nil
}

func (r memSaisies) CreateHIM(ctx context.Context, him *domain.Saisiehim) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h := r.s.hrms[him.SaisiehrmID]
	him.ID = r.s.nextID("him")
	h.HIMs = append(append([]domain.Saisiehim{}, h.HIMs...), *him)
	r.s.hrms[h.ID] = h
	return nil
}

type memObjectifs struct {
	repository.ObjectifsRepository
	s *memState
}

func (r memObjectifs) ListObjectifsByYear(ctx context.Context, entrepriseID string, annee int) ([]domain.Objectif, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Objectif, 0)
	for _, o := range r.s.objectifs {
		if o.EntrepriseID == entrepriseID && o.Annee == annee {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memObjectifs) GetObjectif(ctx context.Context, entrepriseID, id string) (*domain.Objectif, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.objectifs[id]
	if !ok || o.EntrepriseID != entrepriseID {
		return nil, domain.NotFound("Objectif introuvable")
	}
	return &o, nil
}

func (r memObjectifs) FindObjectif(ctx context.Context, entrepriseID string, annee int, parcID, siteID string) (*domain.Objectif, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.objectifs {
		if o.EntrepriseID == entrepriseID && o.Annee == annee && o.ParcID == parcID && o.SiteID == siteID {
			return &o, nil
		}
	}
	return nil, domain.NotFound("Objectif introuvable")
}

func (r memObjectifs) CreateObjectif(ctx context.Context, o *domain.Objectif) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o.ID = r.s.nextID("obj")
	r.s.objectifs[o.ID] = *o
	return nil
}

func (r memObjectifs) UpdateObjectif(ctx context.Context, o *domain.Objectif) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.objectifs[o.ID] = *o
	return nil
}

type memUsers struct {
	repository.UsersRepository
	s *memState
}

func (r memUsers) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			return &u, nil
		}
	}
	return nil, domain.NotFound("Utilisateur introuvable")
}

type memRoles struct {
	repository.RolesRepository
	s *memState
}

func (r memRoles) GetRoleByCode(ctx context.Context, entrepriseID, roleCode string) (*domain.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	role, ok := r.s.roles[roleCode]
	if !ok {
		return nil, domain.NotFound("Rôle introuvable")
	}
	return &role, nil
}

type memPerms struct {
	repository.RolePermissionsRepository
	s *memState
}

func (r memPerms) HasPermission(ctx context.Context, entrepriseID string, roleCodes []string, resourceType, permissionType string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, code := range roleCodes {
		for _, p := range r.s.perms[code] {
			if p.ResourceType == resourceType && p.PermissionType == permissionType {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r memPerms) ReplacePermissions(ctx context.Context, entrepriseID, roleCode string, perms []domain.RolePermission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.perms[roleCode] = append([]domain.RolePermission(nil), perms...)
	return nil
}

// seedFleet adds one site, one parc and one engin for tenant "ent-1".
func (m *memState) seedFleet() (site domain.Site, parc domain.Parc, engin domain.Engin) {
	site = domain.Site{ID: "site-a", EntrepriseID: "ent-1", Name: "Site A", Active: true}
	parc = domain.Parc{ID: "parc-a", EntrepriseID: "ent-1", Name: "Parc A"}
	engin = domain.Engin{ID: "engin-1", EntrepriseID: "ent-1", SiteID: site.ID, ParcID: parc.ID, Name: "E-01", Active: true}
	m.sites[site.ID] = site
	m.parcs[parc.ID] = parc
	m.engins[engin.ID] = engin
	m.pannes["panne-1"] = domain.Panne{ID: "panne-1", EntrepriseID: "ent-1", Name: "Moteur"}
	return site, parc, engin
}
