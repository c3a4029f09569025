package coordinator

import (
	"context"
	"errors"
	"io"
	"strings"

	// Packages
	schema "github.com/mutablelogic/go-dfs/pkg/schema"
	wire "github.com/mutablelogic/go-dfs/pkg/wire"
)

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// proxy relays a single-target command. The client's request is forwarded to
// the backend chosen by file extension, the backend's control frames are
// relayed to the client byte for byte, and any binary body is streamed in
// fixed-size chunks without ever buffering a whole file.
func (c *Coordinator) proxy(ctx context.Context, client *wire.Conn, req schema.Request) error {
	name, err := targetName(req)
	if err != nil {
		return client.SendControl(schema.NewErrorResponse(err.Error()))
	}

	// Screen obvious escapes before routing: a traversal attempt is invalid
	// even when its extension is not routable to any backend
	if escapes(name) {
		return client.SendControl(schema.NewErrorResponse(schema.ErrInvalidPath))
	}

	addr, ok := c.target(name)
	if !ok {
		// Unknown extension: uploads name the fault, the rest behave as if
		// the file does not exist anywhere
		token := schema.ErrFileNotFound
		if req.Command == schema.CommandUpload {
			token = schema.ErrFileTypeNotSupported
		}
		return client.SendControl(schema.NewErrorResponse(token))
	}

	nc, token, err := c.dial(ctx, addr)
	if err != nil {
		c.logger.Warn().Err(err).Str("backend", addr.String()).Msg("backend dial failed")
		return client.SendControl(schema.NewErrorResponse(token))
	}
	defer nc.Close()
	backend := wire.New(nc)

	if err := backend.SendControl(req); err != nil {
		return client.SendControl(schema.NewErrorResponse(schema.ErrServerError))
	}

	// First backend control frame, relayed verbatim
	resp, err := c.relayFrame(backend, client)
	if err != nil {
		return err
	}
	if resp == nil {
		return nil
	}

	switch {
	case req.Command == schema.CommandUpload && resp.Type == schema.TypeReady:
		// Body flows client to backend, then the backend's verdict flows back
		payload, err := req.Upload()
		if err != nil {
			return err
		}
		if _, err := backend.WriteBody(client.Body(payload.Size), payload.Size); err != nil {
			return err
		}
		if _, err := c.relayFrame(backend, client); err != nil {
			return err
		}
	case resp.BodySize() > 0:
		// Body flows backend to client
		if _, err := client.WriteBody(backend.Body(resp.BodySize()), resp.BodySize()); err != nil {
			return err
		}
	}
	return nil
}

// relayFrame forwards one backend control frame to the client unmodified and
// returns a parsed copy. A backend that closes before producing a frame is
// reported to the client as server_no_response, with nil returned; a failure
// towards the client is connection-fatal.
func (c *Coordinator) relayFrame(backend, client *wire.Conn) (*schema.Response, error) {
	raw, err := backend.RecvFrame()
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, client.SendControl(schema.NewErrorResponse(schema.ErrServerNoResponse))
		}
		return nil, client.SendControl(schema.NewErrorResponse(schema.ErrServerError))
	}
	if err := client.SendFrame(raw); err != nil {
		return nil, err
	}

	var resp schema.Response
	if err := resp.UnmarshalFrame(raw); err != nil {
		// Not fatal for the client: the bytes were already relayed
		return nil, nil
	}
	return &resp, nil
}

// escapes reports whether a client-supplied name contains a parent-directory
// component. Backends run the authoritative containment check against their
// storage roots; this only rejects what could never resolve safely.
func escapes(name string) bool {
	for _, part := range strings.Split(strings.ReplaceAll(name, "\\", "/"), "/") {
		if part == ".." {
			return true
		}
	}
	return false
}

// targetName returns the file name a single-target command should be routed
// by: the payload name for upload and delete, the path for the rest.
func targetName(req schema.Request) (string, error) {
	switch req.Command {
	case schema.CommandUpload:
		payload, err := req.Upload()
		if err != nil {
			return "", err
		}
		return payload.Name, nil
	case schema.CommandDelete:
		payload, err := req.Delete()
		if err != nil {
			return "", err
		}
		return payload.Name, nil
	default:
		return req.Path, nil
	}
}
