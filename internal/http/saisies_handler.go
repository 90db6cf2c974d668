package httpapi

import (
	"context"
	"net/http"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
	"github.com/ghalass/gmao-pro-sub001/internal/service"

	"go.uber.org/zap"
)

type saisieService interface {
	SaveHRM(ctx context.Context, req service.SaveHRMRequest) (*domain.Saisiehrm, error)
	CreateHIM(ctx context.Context, req service.CreateHIMRequest) (*domain.Saisiehim, error)
	ListHRM(ctx context.Context, req service.ListHRMRequest) ([]domain.Saisiehrm, error)
	DeleteHRM(ctx context.Context, entrepriseID, id string) error
	DeleteHIM(ctx context.Context, entrepriseID, id string) error
	AddLubrifiant(ctx context.Context, req service.AddLubrifiantRequest) (*domain.SaisieLubrifiant, error)
	LubrifiantConsumption(ctx context.Context, entrepriseID, from, to string) ([]domain.LubrifiantConsumption, error)
}

// SaisiesHandler /api/v1/saisies
type SaisiesHandler struct {
	saisies saisieService
	logger  *zap.Logger
}

func NewSaisiesHandler(saisies saisieService, logger *zap.Logger) *SaisiesHandler {
	return &SaisiesHandler{saisies: saisies, logger: logger}
}

// ListHRM GET /saisies/hrm?engin_id&from&to
func (h *SaisiesHandler) ListHRM(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, err := h.saisies.ListHRM(r.Context(), service.ListHRMRequest{
		EntrepriseID: entrepriseID(r),
		Locale:       locale(r),
		EnginID:      q.Get("engin_id"),
		From:         q.Get("from"),
		To:           q.Get("to"),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *SaisiesHandler) SaveHRM(w http.ResponseWriter, r *http.Request) {
	var req service.SaveHRMRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.EntrepriseID, req.Locale = entrepriseID(r), locale(r)
	hrm, err := h.saisies.SaveHRM(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, hrm)
}

func (h *SaisiesHandler) DeleteHRM(w http.ResponseWriter, r *http.Request) {
	if err := h.saisies.DeleteHRM(r.Context(), entrepriseID(r), pathID(r)); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SaisiesHandler) CreateHIM(w http.ResponseWriter, r *http.Request) {
	var req service.CreateHIMRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.EntrepriseID, req.Locale = entrepriseID(r), locale(r)
	him, err := h.saisies.CreateHIM(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, him)
}

func (h *SaisiesHandler) DeleteHIM(w http.ResponseWriter, r *http.Request) {
	if err := h.saisies.DeleteHIM(r.Context(), entrepriseID(r), pathID(r)); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SaisiesHandler) AddLubrifiant(w http.ResponseWriter, r *http.Request) {
	var req service.AddLubrifiantRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.EntrepriseID, req.Locale = entrepriseID(r), locale(r)
	sl, err := h.saisies.AddLubrifiant(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, sl)
}

// Consumption GET /saisies/lubrifiants?from&to
func (h *SaisiesHandler) Consumption(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lines, err := h.saisies.LubrifiantConsumption(r.Context(), entrepriseID(r), q.Get("from"), q.Get("to"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, lines)
}
