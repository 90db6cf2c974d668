package httpapi

import (
	"context"
	"net/http"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
	"github.com/ghalass/gmao-pro-sub001/internal/service"

	"go.uber.org/zap"
)

type parcService interface {
	List(ctx context.Context, req service.ListRequest) (*service.ListResponse[domain.Parc], error)
	Get(ctx context.Context, entrepriseID, id string) (*domain.Parc, error)
	Create(ctx context.Context, req service.SaveParcRequest) (*domain.Parc, error)
	Update(ctx context.Context, req service.SaveParcRequest) (*domain.Parc, error)
	Delete(ctx context.Context, entrepriseID, id string) error
	ListTypes(ctx context.Context, entrepriseID string) ([]domain.TypeParc, error)
	CreateType(ctx context.Context, entrepriseID, locale, name string) (*domain.TypeParc, error)
	DeleteType(ctx context.Context, entrepriseID, id string) error
}

// ParcsHandler /api/v1/parcs and /api/v1/typeparcs
type ParcsHandler struct {
	parcs  parcService
	logger *zap.Logger
}

func NewParcsHandler(parcs parcService, logger *zap.Logger) *ParcsHandler {
	return &ParcsHandler{parcs: parcs, logger: logger}
}

func (h *ParcsHandler) List(w http.ResponseWriter, r *http.Request) {
	resp, err := h.parcs.List(r.Context(), listRequest(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ParcsHandler) Get(w http.ResponseWriter, r *http.Request) {
	parc, err := h.parcs.Get(r.Context(), entrepriseID(r), pathID(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, parc)
}

func (h *ParcsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.SaveParcRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.EntrepriseID, req.Locale = entrepriseID(r), locale(r)
	parc, err := h.parcs.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, parc)
}

func (h *ParcsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.SaveParcRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.EntrepriseID, req.Locale, req.ID = entrepriseID(r), locale(r), pathID(r)
	parc, err := h.parcs.Update(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, parc)
}

func (h *ParcsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.parcs.Delete(r.Context(), entrepriseID(r), pathID(r)); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ParcsHandler) ListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.parcs.ListTypes(r.Context(), entrepriseID(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func (h *ParcsHandler) CreateType(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name string `json:"name"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &payload); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	tp, err := h.parcs.CreateType(r.Context(), entrepriseID(r), locale(r), payload.Name)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, tp)
}

func (h *ParcsHandler) DeleteType(w http.ResponseWriter, r *http.Request) {
	if err := h.parcs.DeleteType(r.Context(), entrepriseID(r), pathID(r)); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
