package coordinator

import (
	"context"
	"errors"
	"io"
	"net"

	// Packages
	uuid "github.com/google/uuid"
	attribute "go.opentelemetry.io/otel/attribute"
	trace "go.opentelemetry.io/otel/trace"

	schema "github.com/mutablelogic/go-dfs/pkg/schema"
	wire "github.com/mutablelogic/go-dfs/pkg/wire"
)

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// handleConn serves client commands sequentially on one connection. The
// connection to the client is long-lived; each command opens its own
// short-lived connection(s) to the backends.
func (c *Coordinator) handleConn(ctx context.Context, nc net.Conn) {
	defer nc.Close()

	logger := c.logger.With().
		Str("conn", uuid.NewString()[:8]).
		Str("remote", nc.RemoteAddr().String()).
		Logger()
	logger.Debug().Msg("client connected")
	defer logger.Debug().Msg("client disconnected")

	conn := wire.New(nc)
	for {
		var req schema.Request
		if err := conn.RecvControl(&req); err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Debug().Err(err).Msg("framing error")
			}
			return
		}

		logger.Debug().Str("command", req.Command).Str("path", req.Path).Msg("request")
		if err := c.dispatch(ctx, conn, req); err != nil {
			logger.Debug().Err(err).Str("command", req.Command).Msg("connection aborted")
			return
		}
	}
}

// dispatch runs one client command under a span. A returned error is
// connection-fatal; backend faults are reported to the client as error frames
// and return nil, leaving the connection usable.
func (c *Coordinator) dispatch(ctx context.Context, conn *wire.Conn, req schema.Request) error {
	ctx, span := c.tracer.Start(ctx, "coordinator."+req.Command,
		trace.WithAttributes(attribute.String("path", req.Path)))
	defer span.End()

	switch req.Command {
	case schema.CommandPing:
		resp, _ := schema.NewResponse(schema.TypePong, nil)
		return conn.SendControl(resp)
	case schema.CommandList:
		return c.list(ctx, conn, req)
	case schema.CommandSearch:
		return c.search(ctx, conn, req)
	case schema.CommandUpload, schema.CommandDownload, schema.CommandPreview, schema.CommandDelete:
		return c.proxy(ctx, conn, req)
	default:
		return conn.SendControl(schema.NewErrorResponse(schema.ErrUnknownCommandPrefix + req.Command))
	}
}
