package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAllowsUpToLimit(t *testing.T) {
	m := NewMemory()
	defer m.Stop()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := m.Allow(ctx, "login:a@acme.test", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, d.Allowed, "hit %d", i)
	}
	d, err := m.Allow(ctx, "login:a@acme.test", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)

	other, _ := m.Allow(ctx, "login:b@acme.test", 3, time.Minute)
	assert.True(t, other.Allowed)
}

func TestMemoryWindowSlides(t *testing.T) {
	m := NewMemory()
	defer m.Stop()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	d, _ := m.Allow(ctx, "k", 1, time.Minute)
	assert.True(t, d.Allowed)
	d, _ = m.Allow(ctx, "k", 1, time.Minute)
	assert.False(t, d.Allowed)

	now = now.Add(61 * time.Second)
	d, _ = m.Allow(ctx, "k", 1, time.Minute)
	assert.True(t, d.Allowed)

	m.Reset("k")
	d, _ = m.Allow(ctx, "k", 1, time.Minute)
	assert.True(t, d.Allowed)
}

func TestMemoryEmptyKeyIsUnlimited(t *testing.T) {
	m := NewMemory()
	defer m.Stop()
	for i := 0; i < 5; i++ {
		d, _ := m.Allow(context.Background(), "", 1, time.Minute)
		assert.True(t, d.Allowed)
	}
}

func TestRedisFixedWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	r := NewRedis(client, "")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		d, err := r.Allow(ctx, "tenant:org-1", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}
	d, err := r.Allow(ctx, "tenant:org-1", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.True(t, mr.Exists("hrportal:ratelimit:tenant:org-1"))

	mr.FastForward(time.Minute + time.Second)
	d, err = r.Allow(ctx, "tenant:org-1", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}
