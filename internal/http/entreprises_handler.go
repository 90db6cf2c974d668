package httpapi

import (
	"context"
	"net/http"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
	"github.com/ghalass/gmao-pro-sub001/internal/service"

	"go.uber.org/zap"
)

type entrepriseService interface {
	List(ctx context.Context, req service.ListRequest) (*service.ListResponse[domain.Entreprise], error)
	Create(ctx context.Context, req service.SaveEntrepriseRequest) (*domain.Entreprise, error)
	Update(ctx context.Context, req service.SaveEntrepriseRequest) (*domain.Entreprise, error)
}

// EntreprisesHandler /api/v1/entreprises, platform level (SuperAdmin).
type EntreprisesHandler struct {
	entreprises entrepriseService
	logger      *zap.Logger
}

func NewEntreprisesHandler(entreprises entrepriseService, logger *zap.Logger) *EntreprisesHandler {
	return &EntreprisesHandler{entreprises: entreprises, logger: logger}
}

func (h *EntreprisesHandler) List(w http.ResponseWriter, r *http.Request) {
	req := listRequest(r)
	req.EntrepriseID = ""
	resp, err := h.entreprises.List(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *EntreprisesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.SaveEntrepriseRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.Locale = locale(r)
	e, err := h.entreprises.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h *EntreprisesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.SaveEntrepriseRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.Locale, req.ID = locale(r), pathID(r)
	e, err := h.entreprises.Update(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}
