package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	sessionKeyPrefix   = "session:"
	userSessionsPrefix = "user_sessions:"
)

// ErrMiss is returned for a session that expired, was revoked or never existed.
var ErrMiss = errors.New("session not found")

// Session is what an authenticated request carries.
type Session struct {
	SessionID    string    `json:"session_id"`
	UserID       string    `json:"user_id"`
	EntrepriseID string    `json:"entreprise_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	RoleCodes    []string  `json:"role_codes"`
	Lang         string    `json:"lang"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// SessionStore keeps sessions as JSON under session:<id> with a TTL. Each user also
// has a user_sessions:<user> set of ids so revocation never scans the keyspace.
type SessionStore struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

func NewSessionStore(rdb redis.UniversalClient, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl}
}

func (s *SessionStore) TTL() time.Duration { return s.ttl }

func sessionKey(id string) string      { return sessionKeyPrefix + id }
func userSessionsKey(id string) string { return userSessionsPrefix + id }

// Save writes the session and indexes it under its user in one MULTI block.
// The index lives as long as the newest session.
func (s *SessionStore) Save(ctx context.Context, sess *Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, sessionKey(sess.SessionID), b, s.ttl)
		if sess.UserID != "" {
			idx := userSessionsKey(sess.UserID)
			p.SAdd(ctx, idx, sess.SessionID)
			if s.ttl > 0 {
				p.Expire(ctx, idx, s.ttl)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get returns ErrMiss when the session expired or was revoked.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	raw, err := s.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}

// Delete revokes one session. Deleting an unknown id is not an error.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	sess, err := s.Get(ctx, sessionID)
	if err != nil && !errors.Is(err, ErrMiss) {
		return err
	}
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, sessionKey(sessionID))
		if sess != nil && sess.UserID != "" {
			p.SRem(ctx, userSessionsKey(sess.UserID), sessionID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteForUser revokes every live session of userID and returns how many were removed.
func (s *SessionStore) DeleteForUser(ctx context.Context, userID string) (int, error) {
	idx := userSessionsKey(userID)
	ids, err := s.rdb.SMembers(ctx, idx).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to list user sessions: %w", err)
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}

	var removed *redis.IntCmd
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		if len(keys) > 0 {
			removed = p.Del(ctx, keys...)
		}
		p.Del(ctx, idx)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete sessions: %w", err)
	}
	if removed == nil {
		return 0, nil
	}
	// expired ids still in the set are not counted
	return int(removed.Val()), nil
}
