package backend

import (
	"context"

	// Packages
	schema "github.com/mutablelogic/go-dfs/pkg/schema"
	wire "github.com/mutablelogic/go-dfs/pkg/wire"
)

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// delete removes a stored file named in the payload.
func (b *Backend) delete(ctx context.Context, conn *wire.Conn, req schema.Request) error {
	payload, err := req.Delete()
	if err != nil {
		return sendError(conn, err)
	}
	if payload.Name == "" {
		return conn.SendControl(schema.NewErrorResponse("Missing name for delete"))
	}

	if err := b.store.Remove(payload.Name); err != nil {
		return sendError(conn, err)
	}
	b.logger.Info().Str("name", payload.Name).Msg("deleted")

	resp, _ := schema.NewResponse(schema.TypeDeleteResult, schema.DeleteResultPayload{OK: true})
	return conn.SendControl(resp)
}
