package httpapi

import (
	"context"
	"net/http"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
	"github.com/ghalass/gmao-pro-sub001/internal/service"

	"go.uber.org/zap"
)

type panneService interface {
	List(ctx context.Context, req service.ListRequest) (*service.ListResponse[domain.Panne], error)
	Get(ctx context.Context, entrepriseID, id string) (*domain.Panne, error)
	Create(ctx context.Context, req service.SavePanneRequest) (*domain.Panne, error)
	Update(ctx context.Context, req service.SavePanneRequest) (*domain.Panne, error)
	Delete(ctx context.Context, entrepriseID, id string) error
}

// PannesHandler /api/v1/pannes
type PannesHandler struct {
	pannes panneService
	logger *zap.Logger
}

func NewPannesHandler(pannes panneService, logger *zap.Logger) *PannesHandler {
	return &PannesHandler{pannes: pannes, logger: logger}
}

func (h *PannesHandler) List(w http.ResponseWriter, r *http.Request) {
	resp, err := h.pannes.List(r.Context(), listRequest(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PannesHandler) Get(w http.ResponseWriter, r *http.Request) {
	panne, err := h.pannes.Get(r.Context(), entrepriseID(r), pathID(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, panne)
}

func (h *PannesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.SavePanneRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.EntrepriseID, req.Locale = entrepriseID(r), locale(r)
	panne, err := h.pannes.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, panne)
}

func (h *PannesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.SavePanneRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.EntrepriseID, req.Locale, req.ID = entrepriseID(r), locale(r), pathID(r)
	panne, err := h.pannes.Update(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, panne)
}

func (h *PannesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.pannes.Delete(r.Context(), entrepriseID(r), pathID(r)); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
