package httpapi

import (
	"context"
	"net/http"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
	"github.com/ghalass/gmao-pro-sub001/internal/service"

	"go.uber.org/zap"
)

type lubrifiantService interface {
	List(ctx context.Context, req service.ListRequest) (*service.ListResponse[domain.Lubrifiant], error)
	Get(ctx context.Context, entrepriseID, id string) (*domain.Lubrifiant, error)
	Create(ctx context.Context, req service.SaveLubrifiantRequest) (*domain.Lubrifiant, error)
	Update(ctx context.Context, req service.SaveLubrifiantRequest) (*domain.Lubrifiant, error)
	Delete(ctx context.Context, entrepriseID, id string) error
}

// LubrifiantsHandler /api/v1/lubrifiants
type LubrifiantsHandler struct {
	lubrifiants lubrifiantService
	logger *zap.Logger
}

func NewLubrifiantsHandler(lubrifiants lubrifiantService, logger *zap.Logger) *LubrifiantsHandler {
	return &LubrifiantsHandler{lubrifiants: lubrifiants, logger: logger}
}

func (h *LubrifiantsHandler) List(w http.ResponseWriter, r *http.Request) {
	resp, err := h.lubrifiants.List(r.Context(), listRequest(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *LubrifiantsHandler) Get(w http.ResponseWriter, r *http.Request) {
	lub, err := h.lubrifiants.Get(r.Context(), entrepriseID(r), pathID(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, lub)
}

func (h *LubrifiantsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.SaveLubrifiantRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.EntrepriseID, req.Locale = entrepriseID(r), locale(r)
	lub, err := h.lubrifiants.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, lub)
}

func (h *LubrifiantsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.SaveLubrifiantRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.EntrepriseID, req.Locale, req.ID = entrepriseID(r), locale(r), pathID(r)
	lub, err := h.lubrifiants.Update(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, lub)
}

func (h *LubrifiantsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.lubrifiants.Delete(r.Context(), entrepriseID(r), pathID(r)); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
