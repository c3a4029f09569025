package coordinator

import (
	"context"
	"path"
	"sync"

	// Packages
	errgroup "golang.org/x/sync/errgroup"

	schema "github.com/mutablelogic/go-dfs/pkg/schema"
	wire "github.com/mutablelogic/go-dfs/pkg/wire"
)

////////////////////////////////////////////////////////////////////////////////
// CONSTANTS

// DefaultListPath is the path listed when a request names none. Backends
// resolve it to their storage root.
const DefaultListPath = "storage"

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// list fans the request out to one backend per content class named in the
// filter set and merges the returned trees into a single response. Backends
// that are down or misbehaving are skipped; whatever the rest returned is
// still a valid result, including an empty tree.
func (c *Coordinator) list(ctx context.Context, conn *wire.Conn, req schema.Request) error {
	listPath := req.Path
	if listPath == "" {
		listPath = DefaultListPath
	}

	merged := schema.NewDirectoryNode(path.Base(listPath), listPath)
	for _, node := range c.fanout(ctx, listPath, req.Filters) {
		merged.Merge(node)
	}
	merged.Sort()

	resp, err := schema.NewResponse(schema.TypeList, merged)
	if err != nil {
		return err
	}
	return conn.SendControl(resp)
}

// fanout queries the selected backends concurrently and returns the trees of
// those that answered, each annotated with its origin.
func (c *Coordinator) fanout(ctx context.Context, listPath string, filters []string) []*schema.DirectoryNode {
	var lock sync.Mutex
	var nodes []*schema.DirectoryNode

	group, ctx := errgroup.WithContext(ctx)
	for _, target := range c.targets(filters) {
		target := target
		// Forward the client's filters so extension and folder tokens narrow
		// the backend's listing; without any, ask the backend for its class
		forward := filters
		if len(forward) == 0 {
			forward = []string{string(target.Class)}
		}
		group.Go(func() error {
			node, err := c.forwardList(ctx, target.Addr, schema.Request{
				Command: schema.CommandList,
				Path:    listPath,
				Filters: forward,
			})
			if err != nil {
				// A missing backend degrades the listing, it does not fail it
				c.logger.Warn().Err(err).
					Str("class", string(target.Class)).
					Str("backend", target.Addr.String()).
					Msg("list fan-out failed")
				return nil
			}
			annotate(node, target.Class, target.Addr)

			lock.Lock()
			nodes = append(nodes, node)
			lock.Unlock()
			return nil
		})
	}
	group.Wait()

	return nodes
}

// forwardList sends one list request to a backend and decodes the tree.
func (c *Coordinator) forwardList(ctx context.Context, addr Address, req schema.Request) (*schema.DirectoryNode, error) {
	nc, _, err := c.dial(ctx, addr)
	if err != nil {
		return nil, err
	}
	defer nc.Close()

	backend := wire.New(nc)
	if err := backend.SendControl(req); err != nil {
		return nil, err
	}

	var resp schema.Response
	if err := backend.RecvControl(&resp); err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, &schema.RemoteError{Token: resp.ErrorToken()}
	}

	node := new(schema.DirectoryNode)
	if err := resp.Decode(node); err != nil {
		return nil, err
	}
	return node, nil
}

// annotate stamps every file in the tree with the backend it came from. The
// annotations ride along on the wire but take no part in deduplication.
func annotate(node *schema.DirectoryNode, class schema.Class, addr Address) {
	node.Walk(func(n *schema.DirectoryNode) {
		for i := range n.Files {
			n.Files[i].ServerType = string(class)
			n.Files[i].Server = addr.String()
		}
	})
}
