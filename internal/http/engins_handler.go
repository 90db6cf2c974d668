package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
	"github.com/ghalass/gmao-pro-sub001/internal/service"

	"go.uber.org/zap"
)

type enginService interface {
	List(ctx context.Context, req service.ListEnginsRequest) (*service.ListResponse[domain.Engin], error)
	Get(ctx context.Context, entrepriseID, id string) (*domain.Engin, error)
	Create(ctx context.Context, req service.SaveEnginRequest) (*domain.Engin, error)
	Update(ctx context.Context, req service.SaveEnginRequest) (*domain.Engin, error)
	Delete(ctx context.Context, entrepriseID, id string) error
	Export(ctx context.Context, entrepriseID string) ([]byte, error)
}

// EnginsHandler /api/v1/engins
type EnginsHandler struct {
	engins enginService
	logger *zap.Logger
}

func NewEnginsHandler(engins enginService, logger *zap.Logger) *EnginsHandler {
	return &EnginsHandler{engins: engins, logger: logger}
}

// List supports site_id, parc_id and active filters on top of search/page/size.
func (h *EnginsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := h.engins.List(r.Context(), service.ListEnginsRequest{
		ListRequest: listRequest(r),
		SiteID:      q.Get("site_id"),
		ParcID:      q.Get("parc_id"),
		Active:      optionalBool(q.Get("active")),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *EnginsHandler) Get(w http.ResponseWriter, r *http.Request) {
	engin, err := h.engins.Get(r.Context(), entrepriseID(r), pathID(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, engin)
}

func (h *EnginsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.SaveEnginRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.EntrepriseID, req.Locale = entrepriseID(r), locale(r)
	engin, err := h.engins.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, engin)
}

func (h *EnginsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.SaveEnginRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.EntrepriseID, req.Locale, req.ID = entrepriseID(r), locale(r), pathID(r)
	engin, err := h.engins.Update(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, engin)
}

func (h *EnginsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.engins.Delete(r.Context(), entrepriseID(r), pathID(r)); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EnginsHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.engins.Export(r.Context(), entrepriseID(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeXLSX(w, fmt.Sprintf("engins_%s.xlsx", time.Now().Format("20060102")), data)
}
