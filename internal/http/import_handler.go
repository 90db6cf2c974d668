package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
	"github.com/ghalass/gmao-pro-sub001/internal/service"

	"go.uber.org/zap"
)

const maxUploadBytes = 20 << 20

type importer interface {
	Import(ctx context.Context, req service.ImportRequest) (*service.ImportResult, error)
}

// ImportHandler POST /api/v1/import/{kind} (multipart field "file")
type ImportHandler struct {
	imports importer
	logger  *zap.Logger
}

func NewImportHandler(imports importer, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{imports: imports, logger: logger}
}

func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, r, h.logger, domain.NewValidationError("Fichier manquant ou trop volumineux", nil))
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, h.logger, domain.NewValidationError("Le champ file est requis", nil))
		return
	}
	defer file.Close()

	res, err := h.imports.Import(r.Context(), service.ImportRequest{
		EntrepriseID: entrepriseID(r),
		Locale:       locale(r),
		Kind:         pathVar(r, "kind"),
		File:         file,
	})
	if err != nil {
		if errors.Is(err, service.ErrImportRejected) && res != nil {
			msg, status := FormatError(err)
			writeJSON(w, status, ErrorBody{Message: msg, Status: status, Errors: res.Errors})
			return
		}
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
