package backend

import (
	"context"

	// Packages
	schema "github.com/mutablelogic/go-dfs/pkg/schema"
	wire "github.com/mutablelogic/go-dfs/pkg/wire"
)

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// list replies with the directory tree under the requested path. The default
// path is the storage root; an empty filter set lists everything.
func (b *Backend) list(ctx context.Context, conn *wire.Conn, req schema.Request) error {
	path := req.Path
	if path == "" {
		path = b.store.Name()
	}

	node, err := b.store.Tree(ctx, path, req.Filters)
	if err != nil {
		return sendError(conn, err)
	}

	resp, err := schema.NewResponse(schema.TypeList, node)
	if err != nil {
		return sendError(conn, err)
	}
	return conn.SendControl(resp)
}
