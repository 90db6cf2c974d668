package store

import (
	"context"
	"testing"
	"time"

	"github.com/ghalass/gmao-pro-sub001/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := OpenRedis(context.Background(), &config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	defer c.Close()

	sessions := NewSessionStore(c, time.Minute)
	require.NoError(t, sessions.Save(context.Background(), &Session{SessionID: "sid", UserID: "u1"}))
	got, err := sessions.Get(context.Background(), "sid")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
}

func TestOpenRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := OpenRedis(context.Background(), &config.RedisConfig{Addr: addr})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ping redis")
}
