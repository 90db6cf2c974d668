package httpapi

import (
	"net/http"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
	"github.com/ghalass/gmao-pro-sub001/internal/metrics"
	"github.com/ghalass/gmao-pro-sub001/internal/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Handlers groups every API handler mounted by NewRouter.
type Handlers struct {
	Auth        *AuthHandler
	Entreprises *EntreprisesHandler
	Sites       *SitesHandler
	Parcs       *ParcsHandler
	Engins      *EnginsHandler
	Pannes      *PannesHandler
	Lubrifiants *LubrifiantsHandler
	Objectifs   *ObjectifsHandler
	Saisies     *SaisiesHandler
	RJE         *RJEHandler
	Import      *ImportHandler
	Users       *UsersHandler
}

// RouterConfig outer HTTP settings
type RouterConfig struct {
	CORSOrigins []string
}

// NewRouter mounts /api/v1 behind authentication and role checks, plus /health and
// /metrics. CORS and panic recovery wrap the whole tree.
func NewRouter(h Handlers, mw *Middleware, m *metrics.Metrics, cfg RouterConfig, logger *zap.Logger) http.Handler {
	r := mux.NewRouter()
	r.Use(m.Middleware)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorBody{Message: "Route introuvable", Status: http.StatusNotFound})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorBody{Message: "Méthode non autorisée", Status: http.StatusMethodNotAllowed})
	})

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)

	sec := api.NewRoute().Subrouter()
	sec.Use(mw.Authenticate)

	sec.HandleFunc("/auth/logout", h.Auth.Logout).Methods(http.MethodPost)
	sec.HandleFunc("/auth/me", h.Auth.Me).Methods(http.MethodGet)

	type crud interface {
		List(http.ResponseWriter, *http.Request)
		Get(http.ResponseWriter, *http.Request)
		Create(http.ResponseWriter, *http.Request)
		Update(http.ResponseWriter, *http.Request)
		Delete(http.ResponseWriter, *http.Request)
	}
	mountCRUD := func(path, resource string, c crud) {
		sec.HandleFunc(path, mw.Require(resource, domain.PermRead, c.List)).Methods(http.MethodGet)
		sec.HandleFunc(path, mw.Require(resource, domain.PermCreate, c.Create)).Methods(http.MethodPost)
		sec.HandleFunc(path+"/{id}", mw.Require(resource, domain.PermRead, c.Get)).Methods(http.MethodGet)
		sec.HandleFunc(path+"/{id}", mw.Require(resource, domain.PermUpdate, c.Update)).Methods(http.MethodPut)
		sec.HandleFunc(path+"/{id}", mw.Require(resource, domain.PermDelete, c.Delete)).Methods(http.MethodDelete)
	}

	// registered before /engins/{id}
	sec.HandleFunc("/engins/export", mw.Require(service.ResourceEngins, domain.PermRead, h.Engins.Export)).Methods(http.MethodGet)

	mountCRUD("/sites", service.ResourceSites, h.Sites)
	mountCRUD("/parcs", service.ResourceParcs, h.Parcs)
	mountCRUD("/engins", service.ResourceEngins, h.Engins)
	mountCRUD("/pannes", service.ResourcePannes, h.Pannes)
	mountCRUD("/lubrifiants", service.ResourceLubrifiants, h.Lubrifiants)
	mountCRUD("/objectifs", service.ResourceObjectifs, h.Objectifs)

	sec.HandleFunc("/typeparcs", mw.Require(service.ResourceParcs, domain.PermRead, h.Parcs.ListTypes)).Methods(http.MethodGet)
	sec.HandleFunc("/typeparcs", mw.Require(service.ResourceParcs, domain.PermCreate, h.Parcs.CreateType)).Methods(http.MethodPost)
	sec.HandleFunc("/typeparcs/{id}", mw.Require(service.ResourceParcs, domain.PermDelete, h.Parcs.DeleteType)).Methods(http.MethodDelete)

	// saisies
	sec.HandleFunc("/saisies/hrm", mw.Require(service.ResourceSaisies, domain.PermRead, h.Saisies.ListHRM)).Methods(http.MethodGet)
	sec.HandleFunc("/saisies/hrm", mw.Require(service.ResourceSaisies, domain.PermCreate, h.Saisies.SaveHRM)).Methods(http.MethodPost)
	sec.HandleFunc("/saisies/hrm/{id}", mw.Require(service.ResourceSaisies, domain.PermDelete, h.Saisies.DeleteHRM)).Methods(http.MethodDelete)
	sec.HandleFunc("/saisies/him", mw.Require(service.ResourceSaisies, domain.PermCreate, h.Saisies.CreateHIM)).Methods(http.MethodPost)
	sec.HandleFunc("/saisies/him/{id}", mw.Require(service.ResourceSaisies, domain.PermDelete, h.Saisies.DeleteHIM)).Methods(http.MethodDelete)
	sec.HandleFunc("/saisies/lubrifiants", mw.Require(service.ResourceSaisies, domain.PermRead, h.Saisies.Consumption)).Methods(http.MethodGet)
	sec.HandleFunc("/saisies/lubrifiants", mw.Require(service.ResourceSaisies, domain.PermCreate, h.Saisies.AddLubrifiant)).Methods(http.MethodPost)

	// rapports
	sec.HandleFunc("/rapports/rje", mw.Require(service.ResourceRapports, domain.PermRead, h.RJE.Get)).Methods(http.MethodGet)
	sec.HandleFunc("/rapports/rje/export", mw.Require(service.ResourceRapports, domain.PermRead, h.RJE.Export)).Methods(http.MethodGet)

	// import
	sec.HandleFunc("/import/{kind}", mw.Require(service.ResourceImports, domain.PermCreate, h.Import.Import)).Methods(http.MethodPost)

	// users, roles
	sec.HandleFunc("/users", mw.Require(service.ResourceUsers, domain.PermRead, h.Users.List)).Methods(http.MethodGet)
	sec.HandleFunc("/users", mw.Require(service.ResourceUsers, domain.PermCreate, h.Users.Create)).Methods(http.MethodPost)
	sec.HandleFunc("/users/{id}", mw.Require(service.ResourceUsers, domain.PermRead, h.Users.Get)).Methods(http.MethodGet)
	sec.HandleFunc("/users/{id}", mw.Require(service.ResourceUsers, domain.PermUpdate, h.Users.Update)).Methods(http.MethodPut)
	sec.HandleFunc("/roles", mw.Require(service.ResourceRoles, domain.PermRead, h.Users.ListRoles)).Methods(http.MethodGet)
	sec.HandleFunc("/roles/{code}/permissions", mw.Require(service.ResourceRoles, domain.PermRead, h.Users.ListPermissions)).Methods(http.MethodGet)
	sec.HandleFunc("/roles/{code}/permissions", mw.Require(service.ResourceRoles, domain.PermUpdate, h.Users.SetPermissions)).Methods(http.MethodPut)

	// platform level; only SuperAdmin holds these permissions
	sec.HandleFunc("/entreprises", mw.Require(service.ResourceEntreprises, domain.PermRead, h.Entreprises.List)).Methods(http.MethodGet)
	sec.HandleFunc("/entreprises", mw.Require(service.ResourceEntreprises, domain.PermCreate, h.Entreprises.Create)).Methods(http.MethodPost)
	sec.HandleFunc("/entreprises/{id}", mw.Require(service.ResourceEntreprises, domain.PermUpdate, h.Entreprises.Update)).Methods(http.MethodPut)

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.CORSOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", "Accept-Language"}),
		handlers.AllowCredentials(),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(logger)),
		handlers.PrintRecoveryStack(true),
	)
	return recovery(cors(r))
}
