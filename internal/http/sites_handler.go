package httpapi

import (
	"context"
	"net/http"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
	"github.com/ghalass/gmao-pro-sub001/internal/service"

	"go.uber.org/zap"
)

type siteService interface {
	List(ctx context.Context, req service.ListRequest) (*service.ListResponse[domain.Site], error)
	Get(ctx context.Context, entrepriseID, id string) (*domain.Site, error)
	Create(ctx context.Context, req service.SaveSiteRequest) (*domain.Site, error)
	Update(ctx context.Context, req service.SaveSiteRequest) (*domain.Site, error)
	Delete(ctx context.Context, entrepriseID, id string) error
}

// SitesHandler /api/v1/sites
type SitesHandler struct {
	sites  siteService
	logger *zap.Logger
}

func NewSitesHandler(sites siteService, logger *zap.Logger) *SitesHandler {
	return &SitesHandler{sites: sites, logger: logger}
}

func (h *SitesHandler) List(w http.ResponseWriter, r *http.Request) {
	resp, err := h.sites.List(r.Context(), listRequest(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SitesHandler) Get(w http.ResponseWriter, r *http.Request) {
	site, err := h.sites.Get(r.Context(), entrepriseID(r), pathID(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, site)
}

func (h *SitesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.SaveSiteRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.EntrepriseID, req.Locale = entrepriseID(r), locale(r)
	site, err := h.sites.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, site)
}

func (h *SitesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.SaveSiteRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.EntrepriseID, req.Locale, req.ID = entrepriseID(r), locale(r), pathID(r)
	site, err := h.sites.Update(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, site)
}

func (h *SitesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sites.Delete(r.Context(), entrepriseID(r), pathID(r)); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
