package httpapi

import (
	"context"
	"net/http"

	"github.com/ghalass/gmao-pro-sub001/internal/rje"

	"go.uber.org/zap"
)

type rjeReports interface {
	Build(ctx context.Context, entrepriseID, date string) (*rje.Report, error)
	Export(ctx context.Context, entrepriseID, date string) ([]byte, string, error)
}

// RJEHandler /api/v1/rapports/rje
type RJEHandler struct {
	reports rjeReports
	logger  *zap.Logger
}

func NewRJEHandler(reports rjeReports, logger *zap.Logger) *RJEHandler {
	return &RJEHandler{reports: reports, logger: logger}
}

// Get GET /rapports/rje?date=YYYY-MM-DD
func (h *RJEHandler) Get(w http.ResponseWriter, r *http.Request) {
	rep, err := h.reports.Build(r.Context(), entrepriseID(r), r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// Export GET /rapports/rje/export?date=YYYY-MM-DD
func (h *RJEHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, filename, err := h.reports.Export(r.Context(), entrepriseID(r), r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeXLSX(w, filename, data)
}
