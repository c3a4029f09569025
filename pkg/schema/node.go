package schema

import "sort"

////////////////////////////////////////////////////////////////////////////////
// TYPES

// FileEntry is a leaf of a DirectoryNode. Path is relative to the parent of
// the storage root, so its first component is the storage root folder name.
// ServerType and Server are coordinator annotations naming the backend the
// entry came from; they take no part in deduplication.
type FileEntry struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	Size       int64  `json:"size,omitempty"`
	ServerType string `json:"server_type,omitempty"`
	Server     string `json:"server,omitempty"`
}

// DirectoryNode is the recursive tree returned by list. Subdirectories and
// Files are always arrays on the wire, never null.
type DirectoryNode struct {
	Name           string           `json:"name"`
	Path           string           `json:"path"`
	Subdirectories []*DirectoryNode `json:"subdirectories"`
	Files          []FileEntry      `json:"files"`
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewDirectoryNode creates an empty node with non-nil children slices.
func NewDirectoryNode(name, path string) *DirectoryNode {
	return &DirectoryNode{
		Name:           name,
		Path:           path,
		Subdirectories: []*DirectoryNode{},
		Files:          []FileEntry{},
	}
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Merge folds other into the node. Files are identified by their path and
// deduplicated with the earliest entry kept; subdirectories with equal paths
// are merged recursively, others retained side by side. Merging is
// associative and commutative over the set of paths.
func (node *DirectoryNode) Merge(other *DirectoryNode) {
	if other == nil {
		return
	}

	// Files, deduplicated by path
	seen := make(map[string]bool, len(node.Files))
	for _, file := range node.Files {
		seen[file.Path] = true
	}
	for _, file := range other.Files {
		if !seen[file.Path] {
			node.Files = append(node.Files, file)
			seen[file.Path] = true
		}
	}

	// Subdirectories, merged recursively by path
	subs := make(map[string]*DirectoryNode, len(node.Subdirectories))
	for _, sub := range node.Subdirectories {
		subs[sub.Path] = sub
	}
	for _, sub := range other.Subdirectories {
		if existing, ok := subs[sub.Path]; ok {
			existing.Merge(sub)
		} else {
			node.Subdirectories = append(node.Subdirectories, sub)
			subs[sub.Path] = sub
		}
	}
}

// Sort orders children by path, recursively. Ordering is not part of the wire
// contract but keeps responses stable.
func (node *DirectoryNode) Sort() {
	sort.Slice(node.Files, func(i, j int) bool {
		return node.Files[i].Path < node.Files[j].Path
	})
	sort.Slice(node.Subdirectories, func(i, j int) bool {
		return node.Subdirectories[i].Path < node.Subdirectories[j].Path
	})
	for _, sub := range node.Subdirectories {
		sub.Sort()
	}
}

// Walk visits the node and every descendant, depth first.
func (node *DirectoryNode) Walk(fn func(*DirectoryNode)) {
	if node == nil {
		return
	}
	fn(node)
	for _, sub := range node.Subdirectories {
		sub.Walk(fn)
	}
}

// Find returns the direct or transitive subdirectory with the given path, or
// nil.
func (node *DirectoryNode) Find(path string) *DirectoryNode {
	var found *DirectoryNode
	node.Walk(func(n *DirectoryNode) {
		if n.Path == path && found == nil {
			found = n
		}
	})
	return found
}
