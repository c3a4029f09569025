// Package preview implements the extension-keyed registry of preview
// transformers and the built-in transformers: image thumbnails, bounded text
// heads, and archive content trees. Audio and video snippet generation needs
// an external codec toolchain; those extensions have no built-in transformer
// and preview requests for them report preview_unavailable.
package preview

import (
	"context"
	"errors"
	"strings"

	// Packages
	dfs "github.com/mutablelogic/go-dfs"
	schema "github.com/mutablelogic/go-dfs/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Registry maps file extensions to at most one transformer each.
type Registry struct {
	transformers map[string]dfs.PreviewTransformer
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

// ErrUnavailable is returned by a transformer that cannot serve the file, and
// by the registry when no transformer is registered for an extension.
var ErrUnavailable = errors.New("preview unavailable")

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		transformers: make(map[string]dfs.PreviewTransformer),
	}
}

// DefaultRegistry creates a registry with the built-in transformers for the
// extensions a content class claims. Classes without a built-in transformer
// (video, sound) yield an empty registry.
func DefaultRegistry(class schema.Class) *Registry {
	registry := NewRegistry()
	switch class {
	case schema.ClassImage:
		registry.Register(NewImageTransformer(ThumbnailSize), class.Extensions()...)
	case schema.ClassText:
		registry.Register(NewTextTransformer(TextHeadSize), class.Extensions()...)
	case schema.ClassCompressed:
		// Only the zip format has a reader in the standard toolchain
		registry.Register(NewArchiveTransformer(), "zip")
	}
	return registry
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Register binds a transformer to one or more extensions, replacing any
// previous binding.
func (r *Registry) Register(t dfs.PreviewTransformer, exts ...string) {
	for _, ext := range exts {
		r.transformers[strings.ToLower(strings.TrimPrefix(ext, "."))] = t
	}
}

// Transform dispatches to the transformer registered for the file's
// extension.
func (r *Registry) Transform(ctx context.Context, path string) (*dfs.Preview, error) {
	t, ok := r.transformers[schema.Ext(path)]
	if !ok {
		return nil, ErrUnavailable
	}
	preview, err := t.Transform(ctx, path)
	if err != nil {
		return nil, err
	}
	if preview == nil || len(preview.Data) == 0 {
		return nil, ErrUnavailable
	}
	return preview, nil
}
