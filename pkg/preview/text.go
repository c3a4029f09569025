package preview

import (
	"context"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	// Packages
	mimetype "github.com/gabriel-vasile/mimetype"

	dfs "github.com/mutablelogic/go-dfs"
	schema "github.com/mutablelogic/go-dfs/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type textTransformer struct {
	max int // bytes of head-of-file to return
}

var _ dfs.PreviewTransformer = (*textTransformer)(nil)

////////////////////////////////////////////////////////////////////////////////
// CONSTANTS

// TextHeadSize is the default bound on a text preview, in bytes.
const TextHeadSize = 4096

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewTextTransformer creates a transformer returning the first max bytes of a
// file as UTF-8 text. Files whose content does not sniff as text (a pdf or
// docx routed to the text class, for example) report unavailable rather than
// returning binary garbage.
func NewTextTransformer(max int) dfs.PreviewTransformer {
	if max <= 0 {
		max = TextHeadSize
	}
	return &textTransformer{max: max}
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (t *textTransformer) Transform(ctx context.Context, path string) (*dfs.Preview, error) {
	mime, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, err
	}
	if !isText(mime) {
		return nil, ErrUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	head := make([]byte, t.max)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	head = head[:n]

	// Trim a rune cut in half at the boundary
	for len(head) > 0 && !utf8.Valid(head) {
		head = head[:len(head)-1]
	}

	return &dfs.Preview{Type: schema.PreviewText, Data: head}, nil
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func isText(mime *mimetype.MIME) bool {
	for m := mime; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "text/") {
			return true
		}
	}
	return false
}
