package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/ghalass/gmao-pro-sub001/internal/service"

	"go.uber.org/zap"
)

type authService interface {
	Login(ctx context.Context, req service.LoginRequest) (*service.LoginResponse, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandler /api/v1/auth
type AuthHandler struct {
	auth         authService
	cookieName   string
	cookieSecure bool
	logger       *zap.Logger
}

func NewAuthHandler(auth authService, cookieName string, cookieSecure bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, cookieName: cookieName, cookieSecure: cookieSecure, logger: logger}
}

// Login returns the token in the body and sets it as an HttpOnly cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	resp, err := h.auth.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    resp.Token,
		Path:     "/",
		Expires:  resp.Session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sess := SessionFrom(r.Context()); sess != nil {
		if err := h.auth.Logout(r.Context(), sess.SessionID); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SessionFrom(r.Context()))
}
