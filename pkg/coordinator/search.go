package coordinator

import (
	"context"
	"strings"

	// Packages
	schema "github.com/mutablelogic/go-dfs/pkg/schema"
	wire "github.com/mutablelogic/go-dfs/pkg/wire"
)

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// search fans a list out to the selected backends and returns a flat node of
// files whose names contain the query, case-insensitively. A query ending in
// a known extension narrows the fan-out to that extension's content class.
func (c *Coordinator) search(ctx context.Context, conn *wire.Conn, req schema.Request) error {
	query := strings.ToLower(strings.TrimSpace(req.Query))
	if query == "" {
		return conn.SendControl(schema.NewErrorResponse(schema.ErrQueryRequired))
	}

	filters := req.Filters
	if class, ok := schema.ClassOf(query); ok {
		filters = []string{string(class)}
	}

	results := schema.NewDirectoryNode("search_results", "search/")
	for _, node := range c.fanout(ctx, DefaultListPath, filters) {
		node.Walk(func(n *schema.DirectoryNode) {
			for _, file := range n.Files {
				if strings.Contains(strings.ToLower(file.Name), query) {
					results.Files = append(results.Files, file)
				}
			}
		})
	}
	results.Sort()

	resp, err := schema.NewResponse(schema.TypeList, results)
	if err != nil {
		return err
	}
	return conn.SendControl(resp)
}
