// Package client implements a client for the framed control protocol. One
// client holds one long-lived connection, either to the coordinator or
// directly to a backend, and issues commands sequentially on it.
package client

import (
	"context"
	"fmt"
	"net"
	"time"

	// Packages
	schema "github.com/mutablelogic/go-dfs/pkg/schema"
	wire "github.com/mutablelogic/go-dfs/pkg/wire"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Client speaks the framed protocol over a single TCP connection. Methods
// must not be called concurrently; commands on a connection are sequential by
// protocol design.
type Client struct {
	nc   net.Conn
	conn *wire.Conn
}

////////////////////////////////////////////////////////////////////////////////
// CONSTANTS

// DefaultDialTimeout bounds the initial connect.
const DefaultDialTimeout = 5 * time.Second

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// Dial connects to a coordinator or backend at addr (host:port).
func Dial(ctx context.Context, addr string) (*Client, error) {
	dialer := net.Dialer{Timeout: DefaultDialTimeout}
	nc, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %q: %w", addr, err)
	}
	return &Client{nc: nc, conn: wire.New(nc)}, nil
}

// Close terminates the connection. Closing is the only way to cancel an
// in-flight command.
func (c *Client) Close() error {
	return c.nc.Close()
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Ping checks the connection end to end.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.roundtrip(ctx, schema.Request{Command: schema.CommandPing})
	if err != nil {
		return err
	}
	if resp.Type != schema.TypePong {
		return fmt.Errorf("unexpected response %q", resp.Type)
	}
	return nil
}

// List returns the directory tree under path, filtered by the given tokens.
// An empty path lists the storage root; an empty filter set lists everything.
func (c *Client) List(ctx context.Context, path string, filters []string) (*schema.DirectoryNode, error) {
	resp, err := c.roundtrip(ctx, schema.Request{
		Command: schema.CommandList,
		Path:    path,
		Filters: filters,
	})
	if err != nil {
		return nil, err
	}

	node := new(schema.DirectoryNode)
	if err := resp.Decode(node); err != nil {
		return nil, err
	}
	return node, nil
}

// Search returns a flat node of files whose names contain the query.
func (c *Client) Search(ctx context.Context, query string, filters []string) (*schema.DirectoryNode, error) {
	resp, err := c.roundtrip(ctx, schema.Request{
		Command: schema.CommandSearch,
		Query:   query,
		Filters: filters,
	})
	if err != nil {
		return nil, err
	}

	node := new(schema.DirectoryNode)
	if err := resp.Decode(node); err != nil {
		return nil, err
	}
	return node, nil
}

// Delete removes a stored file by name.
func (c *Client) Delete(ctx context.Context, name string) error {
	req, err := schema.NewRequest(schema.CommandDelete, schema.DeletePayload{Name: name})
	if err != nil {
		return err
	}
	resp, err := c.roundtrip(ctx, req)
	if err != nil {
		return err
	}

	var payload schema.DeleteResultPayload
	if err := resp.Decode(&payload); err != nil {
		return err
	}
	if !payload.OK {
		return fmt.Errorf("delete %q failed", name)
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// roundtrip sends one request and receives one control frame, honoring any
// context deadline for the exchange. An error response is returned as a
// RemoteError.
func (c *Client) roundtrip(ctx context.Context, req schema.Request) (*schema.Response, error) {
	if err := c.applyDeadline(ctx); err != nil {
		return nil, err
	}
	if err := c.conn.SendControl(req); err != nil {
		return nil, err
	}
	return c.recv()
}

// recv receives one control frame, translating error responses.
func (c *Client) recv() (*schema.Response, error) {
	resp := new(schema.Response)
	if err := c.conn.RecvControl(resp); err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, &schema.RemoteError{Token: resp.ErrorToken()}
	}
	return resp, nil
}

// applyDeadline maps a context deadline onto the connection. Without a
// deadline any previous one is cleared; streaming transfers have no read
// timeout by design.
func (c *Client) applyDeadline(ctx context.Context) error {
	if deadline, ok := ctx.Deadline(); ok {
		return c.nc.SetDeadline(deadline)
	}
	return c.nc.SetDeadline(time.Time{})
}
