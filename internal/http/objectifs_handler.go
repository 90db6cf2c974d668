package httpapi

import (
	"context"
	"net/http"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
	"github.com/ghalass/gmao-pro-sub001/internal/service"

	"go.uber.org/zap"
)

type objectifService interface {
	List(ctx context.Context, req service.ListObjectifsRequest) (*service.ListResponse[domain.Objectif], error)
	Get(ctx context.Context, entrepriseID, id string) (*domain.Objectif, error)
	Create(ctx context.Context, req service.SaveObjectifRequest) (*domain.Objectif, error)
	Update(ctx context.Context, req service.SaveObjectifRequest) (*domain.Objectif, error)
	Delete(ctx context.Context, entrepriseID, id string) error
}

// ObjectifsHandler /api/v1/objectifs
type ObjectifsHandler struct {
	objectifs objectifService
	logger    *zap.Logger
}

func NewObjectifsHandler(objectifs objectifService, logger *zap.Logger) *ObjectifsHandler {
	return &ObjectifsHandler{objectifs: objectifs, logger: logger}
}

func (h *ObjectifsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := h.objectifs.List(r.Context(), service.ListObjectifsRequest{
		ListRequest: listRequest(r),
		Annee:       parseInt(q.Get("annee"), 0),
		SiteID:      q.Get("site_id"),
		ParcID:      q.Get("parc_id"),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ObjectifsHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.objectifs.Get(r.Context(), entrepriseID(r), pathID(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *ObjectifsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.SaveObjectifRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.EntrepriseID, req.Locale = entrepriseID(r), locale(r)
	o, err := h.objectifs.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *ObjectifsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.SaveObjectifRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.EntrepriseID, req.Locale, req.ID = entrepriseID(r), locale(r), pathID(r)
	o, err := h.objectifs.Update(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *ObjectifsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.objectifs.Delete(r.Context(), entrepriseID(r), pathID(r)); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
