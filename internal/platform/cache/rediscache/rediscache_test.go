package rediscache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestGetSet(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))

	val, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v", val)
}

func TestGetMissReturnsEmpty(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)

	val, err := c.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.Empty(t, val)
}

func TestDeleteByPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "stats:courier:c1:a", "1", time.Minute))
	require.NoError(t, c.Set(ctx, "stats:courier:c1:b", "2", time.Minute))
	require.NoError(t, c.Set(ctx, "stats:courier:c2:a", "3", time.Minute))

	require.NoError(t, c.DeleteByPrefix(ctx, "stats:courier:c1:"))

	val, err := c.Get(ctx, "stats:courier:c1:a")
	require.NoError(t, err)
	require.Empty(t, val)

	val, err = c.Get(ctx, "stats:courier:c2:a")
	require.NoError(t, err)
	require.Equal(t, "3", val)
}
