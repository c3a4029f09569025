package preview

import (
	"archive/zip"
	"context"
	"encoding/json"
	"path"
	"strings"

	// Packages
	dfs "github.com/mutablelogic/go-dfs"
	schema "github.com/mutablelogic/go-dfs/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type archiveTransformer struct{}

var _ dfs.PreviewTransformer = (*archiveTransformer)(nil)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewArchiveTransformer creates a transformer that describes the contents of
// a zip archive as a JSON directory tree, without extracting anything.
func NewArchiveTransformer() dfs.PreviewTransformer {
	return &archiveTransformer{}
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (t *archiveTransformer) Transform(ctx context.Context, p string) (*dfs.Preview, error) {
	archive, err := zip.OpenReader(p)
	if err != nil {
		return nil, ErrUnavailable
	}
	defer archive.Close()

	root := schema.NewDirectoryNode(path.Base(p), path.Base(p))
	nodes := map[string]*schema.DirectoryNode{"": root}

	for _, f := range archive.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(f.Name, "/")
		if name == "" {
			continue
		}
		if f.FileInfo().IsDir() {
			dirNode(nodes, root, name)
			continue
		}
		parent := dirNode(nodes, root, path.Dir(name))
		parent.Files = append(parent.Files, schema.FileEntry{
			Name: path.Base(name),
			Path: path.Join(root.Path, name),
			Size: int64(f.UncompressedSize64),
		})
	}
	root.Sort()

	data, err := json.Marshal(root)
	if err != nil {
		return nil, err
	}

	return &dfs.Preview{Type: schema.PreviewTree, Data: data}, nil
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// dirNode returns the node for a directory path inside the archive, creating
// any missing ancestors. The empty path and "." identify the root.
func dirNode(nodes map[string]*schema.DirectoryNode, root *schema.DirectoryNode, dir string) *schema.DirectoryNode {
	if dir == "." || dir == "" {
		return root
	}
	if node, ok := nodes[dir]; ok {
		return node
	}
	parent := dirNode(nodes, root, path.Dir(dir))
	node := schema.NewDirectoryNode(path.Base(dir), path.Join(root.Path, dir))
	parent.Subdirectories = append(parent.Subdirectories, node)
	nodes[dir] = node
	return node
}
