package ppg

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryCacheEnsureIsIdempotent(t *testing.T) {
	t.Setenv("LITTERA_CACHE_DIR", t.TempDir())

	calls := 0
	cache, err := NewBinaryCache(func(_ context.Context, _, dest string) error {
		calls++
		return os.WriteFile(filepath.Join(dest, "engine"), []byte("x"), 0o750)
	})
	require.NoError(t, err)

	dir1, err := cache.Ensure(context.Background(), "1.0")
	require.NoError(t, err)
	dir2, err := cache.Ensure(context.Background(), "1.0")
	require.NoError(t, err)

	assert.Equal(t, dir1, dir2)
	assert.Equal(t, 1, calls, "second Ensure must reuse the cache entry, not re-fetch")
}

func TestAllocatePortIsDeterministicAndFree(t *testing.T) {
	p1, err := AllocatePort("work-a")
	require.NoError(t, err)
	p2, err := AllocatePort("work-a")
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
	assert.GreaterOrEqual(t, p1, PortRangeLow)
	assert.Less(t, p1, PortRangeHigh)
}

func TestAllocatePortDiffersAcrossWorks(t *testing.T) {
	p1, err := AllocatePort("work-a")
	require.NoError(t, err)
	p2, err := AllocatePort("work-b")
	require.NoError(t, err)
	// Not a strict guarantee (hash collisions are possible), but true for
	// these fixed seeds and documents the intent.
	assert.NotEqual(t, p1, p2)
}
