package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCache(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestClient_SetGetDelete(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "menu:all", []byte("payload"), time.Minute))
	got, err := c.Get(ctx, "menu:all")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)

	mr.FastForward(2 * time.Minute)
	got, err = c.Get(ctx, "menu:all")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, c.Delete(ctx, "a", "b"))
	assert.False(t, mr.Exists("a"))
	assert.False(t, mr.Exists("b"))
}

func TestClient_JSON(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	type payload struct {
		Name string `json:"name"`
	}
	require.NoError(t, c.SetJSON(ctx, "k", payload{Name: "Lemonade"}, time.Minute))

	var got payload
	assert.True(t, c.GetJSON(ctx, "k", &got))
	assert.Equal(t, "Lemonade", got.Name)

	assert.False(t, c.GetJSON(ctx, "missing", &got))
}

func TestClient_FailSafeWhenRedisDown(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()
	mr.Close()

	got, err := c.Get(ctx, "anything")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Set(ctx, "anything", []byte("x"), time.Minute))
	assert.NoError(t, c.Delete(ctx, "anything"))

	_, err = c.Lookup(ctx, "anything")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
	assert.Error(t, c.Save(ctx, "anything", []byte("x"), time.Minute))
	assert.Error(t, c.Ping(ctx))
}

func TestClient_LookupMiss(t *testing.T) {
	c, _ := setupTestCache(t)

	_, err := c.Lookup(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestClient_NilSafe(t *testing.T) {
	var c *Client
	ctx := context.Background()

	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Set(ctx, "k", nil, 0))
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.Close())
}
