// Package store implements filesystem storage for a backend: safe path
// resolution under a private root, filtered directory trees, and
// checksum-verified atomic writes. The filesystem is the only catalog; there
// is no index or metadata sidecar.
package store

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	// Packages
	cache "github.com/patrickmn/go-cache"

	dfs "github.com/mutablelogic/go-dfs"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Store owns a storage root directory. All served paths resolve under it.
type Store struct {
	root     string // canonical absolute path
	name     string // base name of the root, the first component of wire paths
	listings *cache.Cache
}

var _ dfs.Storage = (*Store)(nil)

////////////////////////////////////////////////////////////////////////////////
// CONSTANTS

// listTTL bounds staleness of cached directory trees. The cache is flushed on
// every successful upload or delete, so the TTL only matters for changes made
// outside the server.
const listTTL = 2 * time.Second

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

var (
	ErrInvalidPath = errors.New("path escapes storage root")
	ErrNotFound    = errors.New("file not found")
	ErrChecksum    = errors.New("checksum mismatch")
)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a store rooted at the given directory, creating it if needed.
func New(root string) (*Store, error) {
	self := new(Store)

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	// Canonicalize the root once so containment checks compare like with like
	if abs, err = filepath.EvalSymlinks(abs); err != nil {
		return nil, err
	}

	self.root = abs
	self.name = filepath.Base(abs)
	self.listings = cache.New(listTTL, time.Minute)

	return self, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Name returns the visible folder name of the storage root.
func (s *Store) Name() string {
	return s.name
}

// Root returns the canonical absolute path of the storage root.
func (s *Store) Root() string {
	return s.root
}

// Resolve maps a client-supplied path to an on-disk path and verifies it lies
// under the storage root. Wire paths are relative to the parent of the root,
// so a leading component equal to the root folder name is stripped; a path
// without that prefix is treated as relative to the root itself. Symlinks are
// resolved before the containment check.
func (s *Store) Resolve(p string) (string, error) {
	p = strings.TrimLeft(strings.ReplaceAll(p, "\\", "/"), "/")
	if first, rest, _ := strings.Cut(p, "/"); first == s.name {
		p = rest
	}

	full := filepath.Join(s.root, filepath.FromSlash(p))
	if !s.contains(full) {
		return "", ErrInvalidPath
	}

	// Resolve symlinks. For a path that does not exist yet (upload
	// destination), resolve the nearest existing ancestor instead.
	resolved, err := filepath.EvalSymlinks(full)
	switch {
	case err == nil:
		if !s.contains(resolved) {
			return "", ErrInvalidPath
		}
		return resolved, nil
	case errors.Is(err, fs.ErrNotExist):
		for dir := filepath.Dir(full); ; dir = filepath.Dir(dir) {
			ancestor, err := filepath.EvalSymlinks(dir)
			if err == nil {
				if !s.contains(ancestor) {
					return "", ErrInvalidPath
				}
				return full, nil
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return "", ErrInvalidPath
			}
			if dir == filepath.Dir(dir) {
				return "", ErrInvalidPath
			}
		}
	default:
		return "", ErrInvalidPath
	}
}

// Rel translates an on-disk path under the root to its wire representation:
// a slash-separated path whose first component is the root folder name.
func (s *Store) Rel(abs string) string {
	rel, err := filepath.Rel(s.root, abs)
	if err != nil || rel == "." {
		return s.name
	}
	return s.name + "/" + filepath.ToSlash(rel)
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (s *Store) contains(p string) bool {
	return p == s.root || strings.HasPrefix(p, s.root+string(filepath.Separator))
}

func (s *Store) invalidate() {
	s.listings.Flush()
}
