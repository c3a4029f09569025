package store

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	// Packages
	schema "github.com/mutablelogic/go-dfs/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Tree builds the directory tree rooted at path. Subdirectories are included
// unless the filter set contains "folder"; files are included when their
// extension matches at least one filter token. An empty filter set lists
// everything. Results are cached briefly, keyed by path and filters.
func (s *Store) Tree(ctx context.Context, path string, filters []string) (*schema.DirectoryNode, error) {
	dir, err := s.Resolve(path)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, ErrNotFound
	}

	if len(filters) == 0 {
		filters = []string{schema.FilterAll}
	}
	key := dir + "|" + strings.ToLower(strings.Join(filters, ","))
	if cached, ok := s.listings.Get(key); ok {
		return cached.(*schema.DirectoryNode), nil
	}

	node, err := s.tree(ctx, dir, filters, schema.HasFolderFilter(filters))
	if err != nil {
		return nil, err
	}
	s.listings.SetDefault(key, node)

	return node, nil
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (s *Store) tree(ctx context.Context, dir string, filters []string, flat bool) (*schema.DirectoryNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	node := schema.NewDirectoryNode(filepath.Base(dir), s.Rel(dir))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			// The folder filter suppresses subdirectories at every depth
			if flat {
				continue
			}
			sub, err := s.tree(ctx, full, filters, flat)
			if err != nil {
				return nil, err
			}
			node.Subdirectories = append(node.Subdirectories, sub)
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}
		// Hidden files and in-flight upload temporaries stay out of listings
		if strings.HasPrefix(entry.Name(), ".") || strings.HasSuffix(entry.Name(), ".tmp") {
			continue
		}
		if !schema.MatchesFilter(entry.Name(), filters) {
			continue
		}
		file := schema.FileEntry{
			Name: entry.Name(),
			Path: s.Rel(full),
		}
		if info, err := entry.Info(); err == nil {
			file.Size = info.Size()
		}
		node.Files = append(node.Files, file)
	}

	return node, nil
}
