package preview

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"

	// Packages
	draw "golang.org/x/image/draw"

	dfs "github.com/mutablelogic/go-dfs"
	schema "github.com/mutablelogic/go-dfs/pkg/schema"

	// Decoders for the formats the image class claims
	_ "golang.org/x/image/bmp"
	_ "image/gif"
	_ "image/jpeg"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type imageTransformer struct {
	max int // longest edge of the thumbnail, in pixels
}

var _ dfs.PreviewTransformer = (*imageTransformer)(nil)

////////////////////////////////////////////////////////////////////////////////
// CONSTANTS

// ThumbnailSize is the default longest edge of an image preview.
const ThumbnailSize = 256

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewImageTransformer creates a transformer that decodes an image and encodes
// a PNG thumbnail whose longest edge is at most max pixels.
func NewImageTransformer(max int) dfs.PreviewTransformer {
	if max <= 0 {
		max = ThumbnailSize
	}
	return &imageTransformer{max: max}
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (t *imageTransformer) Transform(ctx context.Context, path string) (*dfs.Preview, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, ErrUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Scale preserving aspect ratio; never scale up
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > t.max || h > t.max {
		if w >= h {
			h = h * t.max / w
			w = t.max
		} else {
			w = w * t.max / h
			h = t.max
		}
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		return nil, err
	}

	return &dfs.Preview{Type: schema.PreviewImage, Data: buf.Bytes()}, nil
}
