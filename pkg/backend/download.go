package backend

import (
	"context"

	// Packages
	schema "github.com/mutablelogic/go-dfs/pkg/schema"
	wire "github.com/mutablelogic/go-dfs/pkg/wire"
)

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// download replies ready with the file's size and digest, then streams the
// raw bytes. A failure while streaming tears the connection down; there is no
// way to signal an error once body bytes are on the wire.
func (b *Backend) download(ctx context.Context, conn *wire.Conn, req schema.Request) error {
	body, info, err := b.store.Open(req.Path)
	if err != nil {
		return sendError(conn, err)
	}
	defer body.Close()

	// When filters accompany the request, the file must match one of them
	if len(req.Filters) > 0 && !schema.MatchesFilter(req.Path, req.Filters) {
		return conn.SendControl(schema.NewErrorResponse(schema.ErrFileTypeMismatch))
	}

	ready, err := schema.NewResponse(schema.TypeReady, info)
	if err != nil {
		return sendError(conn, err)
	}
	if err := conn.SendControl(ready); err != nil {
		return err
	}
	if _, err := conn.WriteBody(body, info.Size); err != nil {
		return err
	}
	return nil
}
