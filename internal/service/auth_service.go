package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ghalass/gmao-pro-sub001/internal/domain"
	"github.com/ghalass/gmao-pro-sub001/internal/repository"
	"github.com/ghalass/gmao-pro-sub001/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for an unknown email, a wrong password or an inactive account.
var ErrInvalidCredentials = &domain.MessageError{Kind: domain.ErrUnauthorized, Message: "Email ou mot de passe incorrect"}

// ErrNotAuthenticated is returned for a missing, invalid or revoked token.
var ErrNotAuthenticated = &domain.MessageError{Kind: domain.ErrUnauthorized, Message: "Non autorisé"}

// AuthService logs users in. A session lives in Redis under session:<id>; the client
// holds an HS256 JWT whose sid claim points at it, so logout revokes immediately.
type AuthService struct {
	users       repository.UsersRepository
	entreprises repository.EntreprisesRepository
	sessions    *store.SessionStore
	secret      []byte
	now         func() time.Time
	logger      *zap.Logger
}

func NewAuthService(users repository.UsersRepository, entreprises repository.EntreprisesRepository,
	sessions *store.SessionStore, jwtSecret string, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:       users,
		entreprises: entreprises,
		sessions:    sessions,
		secret:      []byte(jwtSecret),
		now:         time.Now,
		logger:      logger,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token   string         `json:"token"`
	Session *store.Session `json:"session"`
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, domain.NewValidationError("Email et mot de passe requis", nil)
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("Login failed", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrInvalidCredentials
	}
	if user.EntrepriseID != domain.SystemEntrepriseID {
		ent, err := s.entreprises.GetEntreprise(ctx, user.EntrepriseID)
		if err != nil {
			return nil, err
		}
		if !ent.Active {
			return nil, ErrInvalidCredentials
		}
	}

	now := s.now()
	sess := &store.Session{
		SessionID:    uuid.NewString(),
		UserID:       user.ID,
		EntrepriseID: user.EntrepriseID,
		Email:        user.Email,
		Name:         user.Name,
		RoleCodes:    user.RoleCodes,
		Lang:         user.Lang,
		ExpiresAt:    now.Add(s.sessions.TTL()).UTC(),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	token, err := s.sign(sess, now)
	if err != nil {
		return nil, err
	}
	s.logger.Info("User logged in", zap.String("user_id", user.ID), zap.String("entreprise_id", user.EntrepriseID))
	return &LoginResponse{Token: token, Session: sess}, nil
}

func (s *AuthService) sign(sess *store.Session, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sid": sess.SessionID,
		"sub": sess.UserID,
		"eid": sess.EntrepriseID,
		"iat": now.Unix(),
		"exp": sess.ExpiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Authenticate verifies the token and loads its session.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*store.Session, error) {
	if tokenString == "" {
		return nil, ErrNotAuthenticated
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrNotAuthenticated
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrNotAuthenticated
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return nil, ErrNotAuthenticated
	}

	sess, err := s.sessions.Get(ctx, sid)
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			return nil, ErrNotAuthenticated
		}
		return nil, err
	}
	return sess, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// RevokeUser drops every session of a user (deactivation, role change).
func (s *AuthService) RevokeUser(ctx context.Context, userID string) error {
	n, err := s.sessions.DeleteForUser(ctx, userID)
	if err != nil {
		return err
	}
	if n > 0 {
		s.logger.Info("User sessions revoked", zap.String("user_id", userID), zap.Int("count", n))
	}
	return nil
}

// HashPassword bcrypt-hashes a clear password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
