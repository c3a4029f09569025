// Package backend implements a typed content backend: a TCP server that owns
// a private storage directory and serves the framed command set (list,
// upload, download, preview, delete, ping) for the file extensions its
// content class claims.
package backend

import (
	"context"
	"errors"
	"fmt"
	"net"

	// Packages
	zerolog "github.com/rs/zerolog"

	dfs "github.com/mutablelogic/go-dfs"
	preview "github.com/mutablelogic/go-dfs/pkg/preview"
	schema "github.com/mutablelogic/go-dfs/pkg/schema"
	store "github.com/mutablelogic/go-dfs/pkg/store"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Backend serves one content class from one storage root.
type Backend struct {
	class    schema.Class
	store    dfs.Storage
	previews *preview.Registry
	logger   zerolog.Logger
}

// Opt represents a function that modifies the backend options
type Opt func(*Backend) error

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a backend for a content class, rooted at the given storage
// directory. The directory is created when missing.
func New(class schema.Class, root string, opts ...Opt) (*Backend, error) {
	self := new(Backend)

	if !class.Valid() {
		return nil, fmt.Errorf("invalid content class %q", class)
	}
	self.class = class
	self.logger = zerolog.Nop()

	storage, err := store.New(root)
	if err != nil {
		return nil, err
	}
	self.store = storage
	self.previews = preview.DefaultRegistry(class)

	// Apply the options
	for _, opt := range opts {
		if err := opt(self); err != nil {
			return nil, err
		}
	}

	// Return success
	return self, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - OPTIONS

// WithLogger sets the logger for connection and command logging.
func WithLogger(logger zerolog.Logger) Opt {
	return func(b *Backend) error {
		b.logger = logger
		return nil
	}
}

// WithPreviewRegistry replaces the built-in preview transformer registry.
func WithPreviewRegistry(registry *preview.Registry) Opt {
	return func(b *Backend) error {
		if registry == nil {
			return errors.New("nil preview registry")
		}
		b.previews = registry
		return nil
	}
}

// WithStorage replaces the filesystem storage implementation.
func WithStorage(storage dfs.Storage) Opt {
	return func(b *Backend) error {
		if storage == nil {
			return errors.New("nil storage")
		}
		b.store = storage
		return nil
	}
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Class returns the content class the backend serves.
func (b *Backend) Class() schema.Class {
	return b.class
}

// Store returns the backend storage.
func (b *Backend) Store() dfs.Storage {
	return b.store
}

// ListenAndServe listens on addr and serves until the context is cancelled.
func (b *Backend) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return b.Serve(ctx, listener)
}

// Serve accepts connections until the context is cancelled, handling each on
// its own goroutine. The listener is closed on return.
func (b *Backend) Serve(ctx context.Context, listener net.Listener) error {
	b.logger.Info().
		Str("class", string(b.class)).
		Str("addr", listener.Addr().String()).
		Str("root", b.store.Root()).
		Msg("backend listening")

	// Unblock Accept when the context is cancelled
	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		go b.handleConn(ctx, conn)
	}
}
