package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestSessions(t *testing.T) (*miniredis.Miniredis, *SessionStore) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewSessionStore(client, time.Hour)
}

func TestSessionStore_SaveGet(t *testing.T) {
	mr, sessions := setupTestSessions(t)
	ctx := context.Background()

	sess := &Session{SessionID: "sid-1", UserID: "u1", EntrepriseID: "ent-1", RoleCodes: []string{"Admin"}, Lang: "fr"}
	require.NoError(t, sessions.Save(ctx, sess))

	assert.True(t, mr.Exists("session:sid-1"))
	assert.Equal(t, time.Hour, mr.TTL("session:sid-1"))

	got, err := sessions.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "ent-1", got.EntrepriseID)
	assert.Equal(t, []string{"Admin"}, got.RoleCodes)
}

func TestSessionStore_ExpiredIsMiss(t *testing.T) {
	mr, sessions := setupTestSessions(t)
	ctx := context.Background()

	require.NoError(t, sessions.Save(ctx, &Session{SessionID: "sid-2", UserID: "u1"}))
	mr.FastForward(2 * time.Hour)

	_, err := sessions.Get(ctx, "sid-2")
	assert.True(t, errors.Is(err, ErrMiss))
}

func TestSessionStore_Delete(t *testing.T) {
	_, sessions := setupTestSessions(t)
	ctx := context.Background()

	require.NoError(t, sessions.Save(ctx, &Session{SessionID: "sid-3", UserID: "u1"}))
	require.NoError(t, sessions.Delete(ctx, "sid-3"))

	_, err := sessions.Get(ctx, "sid-3")
	assert.True(t, errors.Is(err, ErrMiss))
}

func TestSessionStore_DeleteForUser(t *testing.T) {
	mr, sessions := setupTestSessions(t)
	ctx := context.Background()

	require.NoError(t, sessions.Save(ctx, &Session{SessionID: "a", UserID: "u1"}))
	require.NoError(t, sessions.Save(ctx, &Session{SessionID: "b", UserID: "u1"}))
	require.NoError(t, sessions.Save(ctx, &Session{SessionID: "c", UserID: "u2"}))

	n, err := sessions.DeleteForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.False(t, mr.Exists("session:a"))
	assert.True(t, mr.Exists("session:c"))
}

func TestSessionStore_SaveIndexesByUser(t *testing.T) {
	mr, sessions := setupTestSessions(t)
	ctx := context.Background()

	require.NoError(t, sessions.Save(ctx, &Session{SessionID: "a", UserID: "u1"}))
	require.NoError(t, sessions.Save(ctx, &Session{SessionID: "b", UserID: "u1"}))

	members, err := mr.Members("user_sessions:u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, members)
	assert.Equal(t, time.Hour, mr.TTL("user_sessions:u1"))

	require.NoError(t, sessions.Delete(ctx, "a"))
	members, err = mr.Members("user_sessions:u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, members)

	// unknown ids are a no-op
	require.NoError(t, sessions.Delete(ctx, "nope"))
}

func TestSessionStore_DeleteForUserSkipsExpired(t *testing.T) {
	mr, sessions := setupTestSessions(t)
	ctx := context.Background()

	require.NoError(t, sessions.Save(ctx, &Session{SessionID: "old", UserID: "u1"}))
	mr.FastForward(30 * time.Minute)
	require.NoError(t, sessions.Save(ctx, &Session{SessionID: "new", UserID: "u1"}))
	mr.FastForward(45 * time.Minute)

	// "old" is gone but its id is still indexed
	n, err := sessions.DeleteForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, mr.Exists("session:new"))
	assert.False(t, mr.Exists("user_sessions:u1"))

	n, err = sessions.DeleteForUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
