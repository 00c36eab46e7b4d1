package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func TestClient_JSONRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	defer c.Close()
	ctx := context.Background()

	var miss entry
	assert.False(t, c.GetJSON(ctx, "post:1", &miss))

	c.SetJSON(ctx, "post:1", entry{ID: 1, Title: "hello"}, time.Minute)
	assert.Equal(t, time.Minute, mr.TTL("post:1"))

	var hit entry
	require.True(t, c.GetJSON(ctx, "post:1", &hit))
	assert.Equal(t, entry{ID: 1, Title: "hello"}, hit)
}

func TestClient_DeleteSeveralKeys(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	defer c.Close()
	ctx := context.Background()

	for _, key := range []string{"post:1", "post:2", "post:3"} {
		require.NoError(t, mr.Set(key, "{}"))
	}
	require.NoError(t, c.Delete(ctx, "post:1", "post:2"))

	assert.False(t, mr.Exists("post:1"))
	assert.False(t, mr.Exists("post:2"))
	assert.True(t, mr.Exists("post:3"))
}

func TestClient_CorruptEntryIsMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	defer c.Close()

	require.NoError(t, mr.Set("post:1", "not-json"))
	var dst entry
	assert.False(t, c.GetJSON(context.Background(), "post:1", &dst))
}

func TestClient_UnavailableRedisIsMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	defer c.Close()
	mr.Close()
	ctx := context.Background()

	c.SetJSON(ctx, "post:1", entry{ID: 1}, time.Minute)
	var dst entry
	assert.False(t, c.GetJSON(ctx, "post:1", &dst))
	assert.NoError(t, c.Delete(ctx, "post:1"))
}

func TestClient_NilIsDisabled(t *testing.T) {
	c := New("", "", 0)
	require.Nil(t, c)
	ctx := context.Background()

	c.SetJSON(ctx, "post:1", entry{ID: 1}, time.Minute)
	var dst entry
	assert.False(t, c.GetJSON(ctx, "post:1", &dst))
	assert.NoError(t, c.Delete(ctx, "post:1"))
	assert.NoError(t, c.Close())
}
