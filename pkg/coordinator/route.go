package coordinator

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"

	// Packages
	schema "github.com/mutablelogic/go-dfs/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// target classifies a file name by extension and returns the backend serving
// its content class.
func (c *Coordinator) target(name string) (Address, bool) {
	class, ok := schema.ClassOf(name)
	if !ok {
		return Address{}, false
	}
	addr, ok := c.registry[class]
	return addr, ok
}

// targets returns one backend per content class selected by the filter set.
// A class is selected by "all" (or an empty set), its own name, or any of its
// extensions; the "folder" token on its own selects every class, since any
// backend can report directory structure.
func (c *Coordinator) targets(filters []string) []struct {
	Class schema.Class
	Addr  Address
} {
	selected := make(map[schema.Class]bool)
	all := false
	for _, filter := range filters {
		filter = strings.ToLower(filter)
		switch {
		case filter == schema.FilterAll:
			all = true
		case filter == schema.FilterFolder:
			// Selects nothing by itself; structure comes from whichever
			// classes the other tokens pick
		case schema.Class(filter).Valid():
			selected[schema.Class(filter)] = true
		default:
			if class, ok := schema.ClassOf("x." + filter); ok {
				selected[class] = true
			}
		}
	}
	if len(selected) == 0 {
		all = true
	}

	var result []struct {
		Class schema.Class
		Addr  Address
	}
	for _, class := range schema.Classes() {
		addr, ok := c.registry[class]
		if !ok {
			continue
		}
		if all || selected[class] {
			result = append(result, struct {
				Class schema.Class
				Addr  Address
			}{class, addr})
		}
	}
	return result
}

// dial connects to a backend within the dial timeout. On failure the second
// return value is the wire error token describing the fault class.
func (c *Coordinator) dial(ctx context.Context, addr Address) (net.Conn, string, error) {
	dialer := net.Dialer{Timeout: c.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr.String())
	if err == nil {
		return conn, "", nil
	}
	return nil, dialErrorToken(err), err
}

func dialErrorToken(err error) string {
	var netErr net.Error
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return schema.ErrServerOffline
	case errors.As(err, &netErr) && netErr.Timeout():
		return schema.ErrServerTimeout
	case errors.Is(err, context.DeadlineExceeded):
		return schema.ErrServerTimeout
	default:
		return schema.ErrServerError
	}
}
