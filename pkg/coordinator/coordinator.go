// Package coordinator implements the front tier of the file service: it
// classifies each client command by file extension, dispatches it to the
// backend serving that content class, and either merges list responses from
// several backends or relays binary bodies as an unbuffered streaming proxy.
package coordinator

import (
	"context"
	"errors"
	"net"
	"time"

	// Packages
	zerolog "github.com/rs/zerolog"
	otel "go.opentelemetry.io/otel"
	trace "go.opentelemetry.io/otel/trace"

	schema "github.com/mutablelogic/go-dfs/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Coordinator routes client commands to backends. It holds no state beyond
// the static registry loaded at startup.
type Coordinator struct {
	registry    Registry
	dialTimeout time.Duration
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// Opt represents a function that modifies the coordinator options
type Opt func(*Coordinator) error

////////////////////////////////////////////////////////////////////////////////
// CONSTANTS

// DefaultDialTimeout bounds the connect to a backend.
const DefaultDialTimeout = 5 * time.Second

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a coordinator over a backend registry.
func New(registry Registry, opts ...Opt) (*Coordinator, error) {
	self := new(Coordinator)

	if len(registry) == 0 {
		return nil, errors.New("empty backend registry")
	}
	self.registry = registry
	self.dialTimeout = DefaultDialTimeout
	self.logger = zerolog.Nop()
	self.tracer = otel.Tracer(schema.SchemaName + "/coordinator")

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
	return func(c *Coordinator) error {
		c.logger = logger
		return nil
	}
}

// WithDialTimeout bounds backend connects.
func WithDialTimeout(timeout time.Duration) Opt {
	return func(c *Coordinator) error {
		if timeout <= 0 {
			return errors.New("dial timeout must be positive")
		}
		c.dialTimeout = timeout
		return nil
	}
}

// WithTracer sets the tracer for per-command spans.
func WithTracer(tracer trace.Tracer) Opt {
	return func(c *Coordinator) error {
		if tracer == nil {
			return errors.New("nil tracer")
		}
		c.tracer = tracer
		return nil
	}
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ListenAndServe listens on addr and serves until the context is cancelled.
func (c *Coordinator) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return c.Serve(ctx, listener)
}

// Serve accepts client connections until the context is cancelled, handling
// each on its own goroutine. The listener is closed on return.
func (c *Coordinator) Serve(ctx context.Context, listener net.Listener) error {
	c.logger.Info().
		Str("addr", listener.Addr().String()).
		Int("backends", len(c.registry)).
		Msg("coordinator listening")

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
		go c.handleConn(ctx, conn)
	}
}
