package store_test

import (
	"os"
	"path/filepath"
	"testing"

	// Packages
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mutablelogic/go-dfs/pkg/store"
)

// newStore creates a store rooted at a directory named "storage" so wire paths
// have a predictable first component.
func newStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "storage"))
	require.NoError(t, err)
	return s
}

func TestNew(t *testing.T) {
	s := newStore(t)
	assert.Equal(t, "storage", s.Name())
	assert.DirExists(t, s.Root())
}

func TestResolve(t *testing.T) {
	s := newStore(t)

	t.Run("relative to root", func(t *testing.T) {
		full, err := s.Resolve("a.txt")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(s.Root(), "a.txt"), full)
	})

	t.Run("root name prefix stripped", func(t *testing.T) {
		full, err := s.Resolve("storage/a.txt")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(s.Root(), "a.txt"), full)
	})

	t.Run("nested", func(t *testing.T) {
		full, err := s.Resolve("storage/docs/deep/a.txt")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(s.Root(), "docs", "deep", "a.txt"), full)
	})

	t.Run("leading slashes ignored", func(t *testing.T) {
		full, err := s.Resolve("//a.txt")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(s.Root(), "a.txt"), full)
	})

	t.Run("empty resolves to root", func(t *testing.T) {
		full, err := s.Resolve("")
		require.NoError(t, err)
		assert.Equal(t, s.Root(), full)
	})

	t.Run("traversal rejected", func(t *testing.T) {
		for _, p := range []string{
			"../etc/passwd",
			"../../etc/passwd",
			"storage/../../etc/passwd",
			"docs/../../escape.txt",
			"..\\escape.txt",
		} {
			_, err := s.Resolve(p)
			assert.ErrorIs(t, err, store.ErrInvalidPath, p)
		}
	})

	t.Run("dot components collapse inside root", func(t *testing.T) {
		full, err := s.Resolve("docs/../a.txt")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(s.Root(), "a.txt"), full)
	})

	t.Run("symlink escape rejected", func(t *testing.T) {
		outside := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(outside, "secret.txt"), []byte("x"), 0o644))
		require.NoError(t, os.Symlink(outside, filepath.Join(s.Root(), "link")))

		_, err := s.Resolve("link/secret.txt")
		assert.ErrorIs(t, err, store.ErrInvalidPath)
	})
}

func TestRel(t *testing.T) {
	s := newStore(t)
	assert.Equal(t, "storage", s.Rel(s.Root()))
	assert.Equal(t, "storage/a.txt", s.Rel(filepath.Join(s.Root(), "a.txt")))
	assert.Equal(t, "storage/docs/a.txt", s.Rel(filepath.Join(s.Root(), "docs", "a.txt")))
}
