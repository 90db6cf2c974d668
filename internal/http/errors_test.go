package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestFormatError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
		status  int
	}{
		{"validation", domain.NewValidationError("Date invalide", nil), "Date invalide", http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("permission 2: %w", domain.NewValidationError("Données invalides", nil)), "Données invalides", http.StatusBadRequest},
		{"not found", domain.NotFound("Site introuvable"), "Site introuvable", http.StatusNotFound},
		{"conflict", domain.Conflict("Doublon"), "Doublon", http.StatusConflict},
		{"forbidden", domain.Forbidden("Accès refusé"), "Accès refusé", http.StatusForbidden},
		{"bare sentinel", fmt.Errorf("lookup: %w", domain.ErrNotFound), "Ressource introuvable", http.StatusNotFound},
		{"pq unique", &pq.Error{Code: "23505"}, "Cette entrée existe déjà", http.StatusConflict},
		{"pq foreign key", fmt.Errorf("failed to delete: %w", &pq.Error{Code: "23503"}), "Référence invalide ou encore utilisée", http.StatusBadRequest},
		{"unknown", errors.New("boom"), internalErrorMsg, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, status := FormatError(tt.err)
			assert.Equal(t, tt.message, msg)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestWriteError_FieldErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/saisies/hrm", nil)

	writeError(rec, req, zap.NewNop(), domain.NewValidationError("Données invalides", domain.FieldErrors{"hrm": "HRM doit être ≤ 24"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Données invalides","status":400,"errors":{"hrm":"HRM doit être ≤ 24"}}`, rec.Body.String())
}
