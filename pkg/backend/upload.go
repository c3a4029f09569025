package backend

import (
	"context"
	"errors"
	"io"

	// Packages
	schema "github.com/mutablelogic/go-dfs/pkg/schema"
	wire "github.com/mutablelogic/go-dfs/pkg/wire"
)

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// upload validates the announced name and size, replies ready, then reads
// exactly size body bytes into a temporary file while computing the SHA-256
// digest. A digest match renames the file into place atomically; a mismatch
// removes the temporary file and leaves the destination untouched either way.
func (b *Backend) upload(ctx context.Context, conn *wire.Conn, req schema.Request) error {
	payload, err := req.Upload()
	if err != nil {
		return sendError(conn, err)
	}
	if payload.Name == "" || payload.Size <= 0 {
		return conn.SendControl(schema.NewErrorResponse("Invalid upload parameters"))
	}

	// Resolve before accepting any body bytes, so a path escape is rejected
	// without the client streaming a file first
	if _, err := b.store.Resolve(payload.Name); err != nil {
		return sendError(conn, err)
	}

	ready, _ := schema.NewResponse(schema.TypeReady, nil)
	if err := conn.SendControl(ready); err != nil {
		return err
	}

	digest, err := b.store.Put(ctx, payload.Name, payload.Size, payload.SHA256, conn.Body(payload.Size))
	switch {
	case err == nil:
		b.logger.Info().
			Str("name", payload.Name).
			Int64("size", payload.Size).
			Str("sha256", digest).
			Msg("uploaded")
		resp, _ := schema.NewResponse(schema.TypeUploadResult, schema.UploadResultPayload{OK: true, SHA256: digest})
		return conn.SendControl(resp)
	case errors.Is(err, io.ErrUnexpectedEOF):
		// Disconnection mid-body: temp file already removed, tear down
		return err
	default:
		return sendError(conn, err)
	}
}
