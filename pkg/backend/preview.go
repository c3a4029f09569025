package backend

import (
	"bytes"
	"context"
	"os"

	// Packages
	schema "github.com/mutablelogic/go-dfs/pkg/schema"
	store "github.com/mutablelogic/go-dfs/pkg/store"
	wire "github.com/mutablelogic/go-dfs/pkg/wire"
)

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// preview dispatches to the transformer registered for the file's extension
// and streams the transformed payload. Extensions without a transformer, and
// transformers that decline the file, report preview_unavailable.
func (b *Backend) preview(ctx context.Context, conn *wire.Conn, req schema.Request) error {
	full, err := b.store.Resolve(req.Path)
	if err != nil {
		return sendError(conn, err)
	}
	if info, err := os.Stat(full); err != nil || !info.Mode().IsRegular() {
		return sendError(conn, store.ErrNotFound)
	}

	result, err := b.previews.Transform(ctx, full)
	if err != nil {
		return sendError(conn, err)
	}

	resp, err := schema.NewResponse(schema.TypePreviewReady, schema.PreviewReadyPayload{
		Type: result.Type,
		Size: int64(len(result.Data)),
	})
	if err != nil {
		return sendError(conn, err)
	}
	if err := conn.SendControl(resp); err != nil {
		return err
	}
	if _, err := conn.WriteBody(bytes.NewReader(result.Data), int64(len(result.Data))); err != nil {
		return err
	}
	return nil
}
