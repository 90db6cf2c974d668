package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/ghalass/gmao-pro-sub001/internal/service"
	"github.com/ghalass/gmao-pro-sub001/internal/store"

	"go.uber.org/zap"
)

// Authenticator resolves a bearer or cookie token to its session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*store.Session, error)
}

// Authorizer checks a (resource, permission) pair for a session.
type Authorizer interface {
	Authorize(ctx context.Context, sess *store.Session, resource, perm string) error
}

type sessionKey struct{}

// WithSession stores the session in ctx.
func WithSession(ctx context.Context, sess *store.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// SessionFrom returns the request session, nil when unauthenticated.
func SessionFrom(ctx context.Context) *store.Session {
	sess, _ := ctx.Value(sessionKey{}).(*store.Session)
	return sess
}

// Middleware authenticates requests and enforces role permissions.
type Middleware struct {
	auth       Authenticator
	rbac       Authorizer
	cookieName string
	logger     *zap.Logger
}

func NewMiddleware(auth Authenticator, rbac Authorizer, cookieName string, logger *zap.Logger) *Middleware {
	return &Middleware{auth: auth, rbac: rbac, cookieName: cookieName, logger: logger}
}

// token reads the session cookie, then the Authorization: Bearer header.
func (m *Middleware) token(r *http.Request) string {
	if c, err := r.Cookie(m.cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Authenticate rejects requests without a valid session with 401.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.auth.Authenticate(r.Context(), m.token(r))
		if err != nil {
			writeError(w, r, m.logger, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}

// Require wraps h with a permission check; it runs after Authenticate.
func (m *Middleware) Require(resource, perm string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFrom(r.Context())
		if sess == nil {
			writeError(w, r, m.logger, service.ErrNotAuthenticated)
			return
		}
		if err := m.rbac.Authorize(r.Context(), sess, resource, perm); err != nil {
			writeError(w, r, m.logger, err)
			return
		}
		h(w, r)
	}
}
