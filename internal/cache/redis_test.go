package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledCacheAlwaysMisses(t *testing.T) {
	ctx := context.Background()

	r, err := Connect(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, r.Enabled())

	require.NoError(t, r.SetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute))

	var out map[string]int
	hit, err := r.GetJSON(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, r.Delete(ctx, "k"))
	assert.NoError(t, r.Close())
}

func TestNilCacheIsSafe(t *testing.T) {
	var r *Redis
	hit, err := r.GetJSON(context.Background(), "k", &struct{}{})
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, r.SetJSON(context.Background(), "k", 1, time.Second))
}

func TestConnect_UnreachableFallsBackToDisabled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	r, err := Connect(ctx, "127.0.0.1:1", "")
	assert.Error(t, err)
	require.NotNil(t, r)
	assert.False(t, r.Enabled())
}
