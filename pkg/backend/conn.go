package backend

import (
	"context"
	"errors"
	"io"
	"net"

	// Packages
	uuid "github.com/google/uuid"

	preview "github.com/mutablelogic/go-dfs/pkg/preview"
	schema "github.com/mutablelogic/go-dfs/pkg/schema"
	store "github.com/mutablelogic/go-dfs/pkg/store"
	wire "github.com/mutablelogic/go-dfs/pkg/wire"
)

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// handleConn serves commands sequentially on one client connection until the
// peer disconnects or the framing layer fails.
func (b *Backend) handleConn(ctx context.Context, nc net.Conn) {
	defer nc.Close()

	logger := b.logger.With().
		Str("conn", uuid.NewString()[:8]).
		Str("remote", nc.RemoteAddr().String()).
		Logger()
	logger.Debug().Msg("client connected")
	defer logger.Debug().Msg("client disconnected")

	conn := wire.New(nc)
	for {
		var req schema.Request
		if err := conn.RecvControl(&req); err != nil {
			// Clean close at a frame boundary is the normal end of a
			// session; anything else is a protocol error and the
			// connection is torn down silently either way.
			if !errors.Is(err, io.EOF) {
				logger.Debug().Err(err).Msg("framing error")
			}
			return
		}

		logger.Debug().Str("command", req.Command).Str("path", req.Path).Msg("request")
		if err := b.dispatch(ctx, conn, req); err != nil {
			logger.Debug().Err(err).Str("command", req.Command).Msg("connection aborted")
			return
		}
	}
}

// dispatch runs one command. A returned error is connection-fatal; per-command
// failures are reported to the peer as error frames and return nil.
func (b *Backend) dispatch(ctx context.Context, conn *wire.Conn, req schema.Request) error {
	switch req.Command {
	case schema.CommandPing:
		resp, _ := schema.NewResponse(schema.TypePong, nil)
		return conn.SendControl(resp)
	case schema.CommandList:
		return b.list(ctx, conn, req)
	case schema.CommandUpload:
		return b.upload(ctx, conn, req)
	case schema.CommandDownload:
		return b.download(ctx, conn, req)
	case schema.CommandPreview:
		return b.preview(ctx, conn, req)
	case schema.CommandDelete:
		return b.delete(ctx, conn, req)
	default:
		return conn.SendControl(schema.NewErrorResponse(schema.ErrUnknownControlType))
	}
}

// sendError reports a command failure to the peer, translating storage and
// preview errors to their wire tokens. The connection remains usable.
func sendError(conn *wire.Conn, err error) error {
	return conn.SendControl(schema.NewErrorResponse(errorToken(err)))
}

func errorToken(err error) string {
	switch {
	case errors.Is(err, store.ErrInvalidPath):
		return schema.ErrInvalidPath
	case errors.Is(err, store.ErrNotFound):
		return schema.ErrFileNotFound
	case errors.Is(err, store.ErrChecksum):
		return schema.ErrShaMismatch
	case errors.Is(err, preview.ErrUnavailable):
		return schema.ErrPreviewUnavailable
	default:
		return err.Error()
	}
}
