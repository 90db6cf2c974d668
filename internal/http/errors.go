package httpapi

import (
	"errors"
	"net/http"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// ErrorBody is the JSON body of every failed request.
type ErrorBody struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
	Errors  any    `json:"errors,omitempty"`
}

const internalErrorMsg = "Erreur interne du serveur"

// FormatError maps an error to the French message and HTTP status returned to clients.
// Unknown errors become 500 and their text is not exposed.
func FormatError(err error) (string, int) {
	if err == nil {
		return "", http.StatusOK
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.Message, http.StatusBadRequest
	}
	var merr *domain.MessageError
	if errors.As(err, &merr) {
		return merr.Message, statusOf(merr.Kind)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case "23505":
			return "Cette entrée existe déjà", http.StatusConflict
		case "23503":
			return "Référence invalide ou encore utilisée", http.StatusBadRequest
		}
	}

	switch {
	case errors.Is(err, errInvalidBody):
		return "Corps de requête invalide", http.StatusBadRequest
	case errors.Is(err, domain.ErrValidation):
		return "Données invalides", http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return "Ressource introuvable", http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return "Conflit avec une donnée existante", http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return "Non autorisé", http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return "Accès refusé", http.StatusForbidden
	}
	return internalErrorMsg, http.StatusInternalServerError
}

func statusOf(kind error) int {
	switch kind {
	case domain.ErrValidation:
		return http.StatusBadRequest
	case domain.ErrNotFound:
		return http.StatusNotFound
	case domain.ErrConflict:
		return http.StatusConflict
	case domain.ErrUnauthorized:
		return http.StatusUnauthorized
	case domain.ErrForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// writeError formats err; 5xx are logged with the request path.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	msg, status := FormatError(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	body := ErrorBody{Message: msg, Status: status}
	var verr *domain.ValidationError
	if errors.As(err, &verr) && len(verr.Fields) > 0 {
		body.Errors = verr.Fields
	}
	writeJSON(w, status, body)
}
