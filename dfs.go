package dfs

import (
	"context"
	"io"

	// Packages
	schema "github.com/mutablelogic/go-dfs/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// INTERFACES

// Storage is the interface to a backend's private directory tree. Every path
// a Storage accepts is resolved against its root; paths that escape the root
// are rejected.
type Storage interface {
	// Name returns the visible folder name of the storage root
	Name() string

	// Root returns the canonical absolute path of the storage root
	Root() string

	// Resolve maps a client-supplied path to a canonical on-disk path,
	// or fails when the path escapes the storage root
	Resolve(path string) (string, error)

	// Tree builds the directory tree under path, filtered per the filter
	// tokens. Paths in the tree are relative to the parent of the root.
	Tree(ctx context.Context, path string, filters []string) (*schema.DirectoryNode, error)

	// Put reads exactly size bytes from body into a temporary file,
	// verifies the SHA-256 digest, and atomically renames into place.
	// Returns the computed digest.
	Put(ctx context.Context, name string, size int64, sha256 string, body io.Reader) (string, error)

	// Open returns a reader over a stored file together with its size and
	// digest. The caller must close the reader.
	Open(path string) (io.ReadCloser, *schema.ReadyPayload, error)

	// Remove deletes a stored file
	Remove(name string) error
}

// Preview is the output of a preview transform: an encoded payload and the
// preview type the client should render it as.
type Preview struct {
	Type string // schema.PreviewImage, PreviewText, PreviewAudio, PreviewVideo or PreviewTree
	Data []byte
}

// PreviewTransformer produces a preview for an on-disk file. A transformer
// that cannot serve the file returns ErrPreviewUnavailable (pkg/preview).
type PreviewTransformer interface {
	Transform(ctx context.Context, path string) (*Preview, error)
}
