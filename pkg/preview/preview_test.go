package preview_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	// Packages
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dfs "github.com/mutablelogic/go-dfs"
	"github.com/mutablelogic/go-dfs/pkg/preview"
	"github.com/mutablelogic/go-dfs/pkg/schema"
)

// writePNG writes a w by h PNG to dir and returns its path.
func writePNG(t *testing.T, dir string, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, buf.Bytes(), 0o644))
	return p
}

func writeZip(t *testing.T, dir string, name string, files map[string]string) string {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for member, content := range files {
		f, err := w.Create(member)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, buf.Bytes(), 0o644))
	return p
}

func TestRegistry(t *testing.T) {
	t.Run("unregistered extension", func(t *testing.T) {
		registry := preview.NewRegistry()
		_, err := registry.Transform(context.Background(), "a.jpg")
		assert.ErrorIs(t, err, preview.ErrUnavailable)
	})

	t.Run("defaults per class", func(t *testing.T) {
		dir := t.TempDir()
		imgPath := writePNG(t, dir, "a.png", 8, 8)

		registry := preview.DefaultRegistry(schema.ClassImage)
		p, err := registry.Transform(context.Background(), imgPath)
		require.NoError(t, err)
		assert.Equal(t, schema.PreviewImage, p.Type)

		// The image registry knows nothing about text extensions
		_, err = registry.Transform(context.Background(), filepath.Join(dir, "a.txt"))
		assert.ErrorIs(t, err, preview.ErrUnavailable)
	})

	t.Run("video and sound have no built-ins", func(t *testing.T) {
		for _, class := range []schema.Class{schema.ClassVideo, schema.ClassSound} {
			registry := preview.DefaultRegistry(class)
			_, err := registry.Transform(context.Background(), "a."+class.Extensions()[0])
			assert.ErrorIs(t, err, preview.ErrUnavailable)
		}
	})

	t.Run("custom transformer", func(t *testing.T) {
		registry := preview.NewRegistry()
		registry.Register(transformerFunc(func(ctx context.Context, path string) (*dfs.Preview, error) {
			return &dfs.Preview{Type: schema.PreviewText, Data: []byte("stub")}, nil
		}), ".MKV")

		p, err := registry.Transform(context.Background(), "clip.mkv")
		require.NoError(t, err)
		assert.Equal(t, "stub", string(p.Data))
	})

	t.Run("empty result reported unavailable", func(t *testing.T) {
		registry := preview.NewRegistry()
		registry.Register(transformerFunc(func(ctx context.Context, path string) (*dfs.Preview, error) {
			return &dfs.Preview{Type: schema.PreviewText}, nil
		}), "mkv")

		_, err := registry.Transform(context.Background(), "clip.mkv")
		assert.ErrorIs(t, err, preview.ErrUnavailable)
	})
}

type transformerFunc func(context.Context, string) (*dfs.Preview, error)

func (fn transformerFunc) Transform(ctx context.Context, path string) (*dfs.Preview, error) {
	return fn(ctx, path)
}

func TestImageTransformer(t *testing.T) {
	dir := t.TempDir()

	t.Run("large image scaled down", func(t *testing.T) {
		p := writePNG(t, dir, "large.png", 640, 480)
		result, err := preview.NewImageTransformer(64).Transform(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, schema.PreviewImage, result.Type)

		thumb, err := png.Decode(bytes.NewReader(result.Data))
		require.NoError(t, err)
		assert.Equal(t, 64, thumb.Bounds().Dx())
		assert.Equal(t, 48, thumb.Bounds().Dy())
	})

	t.Run("small image kept as is", func(t *testing.T) {
		p := writePNG(t, dir, "small.png", 10, 20)
		result, err := preview.NewImageTransformer(64).Transform(context.Background(), p)
		require.NoError(t, err)

		thumb, err := png.Decode(bytes.NewReader(result.Data))
		require.NoError(t, err)
		assert.Equal(t, 10, thumb.Bounds().Dx())
		assert.Equal(t, 20, thumb.Bounds().Dy())
	})

	t.Run("not an image", func(t *testing.T) {
		p := filepath.Join(dir, "fake.png")
		require.NoError(t, os.WriteFile(p, []byte("not an image"), 0o644))
		_, err := preview.NewImageTransformer(64).Transform(context.Background(), p)
		assert.ErrorIs(t, err, preview.ErrUnavailable)
	})
}

func TestTextTransformer(t *testing.T) {
	dir := t.TempDir()

	t.Run("head of file", func(t *testing.T) {
		content := strings.Repeat("all work and no play\n", 100)
		p := filepath.Join(dir, "a.txt")
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))

		result, err := preview.NewTextTransformer(100).Transform(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, schema.PreviewText, result.Type)
		assert.Equal(t, content[:100], string(result.Data))
	})

	t.Run("short file returned whole", func(t *testing.T) {
		p := filepath.Join(dir, "short.txt")
		require.NoError(t, os.WriteFile(p, []byte("brief"), 0o644))

		result, err := preview.NewTextTransformer(100).Transform(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, "brief", string(result.Data))
	})

	t.Run("multibyte rune not cut in half", func(t *testing.T) {
		// "héllo" in UTF-8 is 6 bytes; a 2-byte head lands inside é
		p := filepath.Join(dir, "utf8.txt")
		require.NoError(t, os.WriteFile(p, []byte("héllo"), 0o644))

		result, err := preview.NewTextTransformer(2).Transform(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, "h", string(result.Data))
	})

	t.Run("binary content refused", func(t *testing.T) {
		p := filepath.Join(dir, "binary.doc")
		require.NoError(t, os.WriteFile(p, []byte{0x00, 0x01, 0x02, 0xff, 0xfe, 0x00, 0x00, 0x00}, 0o644))

		_, err := preview.NewTextTransformer(100).Transform(context.Background(), p)
		assert.ErrorIs(t, err, preview.ErrUnavailable)
	})
}

func TestArchiveTransformer(t *testing.T) {
	dir := t.TempDir()

	t.Run("content tree", func(t *testing.T) {
		p := writeZip(t, dir, "bundle.zip", map[string]string{
			"readme.txt":      "hello",
			"docs/manual.pdf": "pdf bytes",
			"docs/img/a.png":  "png bytes",
		})

		result, err := preview.NewArchiveTransformer().Transform(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, schema.PreviewTree, result.Type)

		var root schema.DirectoryNode
		require.NoError(t, json.Unmarshal(result.Data, &root))
		assert.Equal(t, "bundle.zip", root.Name)
		require.Len(t, root.Files, 1)
		assert.Equal(t, "readme.txt", root.Files[0].Name)
		assert.Equal(t, int64(5), root.Files[0].Size)

		docs := root.Find("bundle.zip/docs")
		require.NotNil(t, docs)
		assert.Len(t, docs.Files, 1)
		require.Len(t, docs.Subdirectories, 1)
		assert.Equal(t, "img", docs.Subdirectories[0].Name)
	})

	t.Run("not a zip", func(t *testing.T) {
		p := filepath.Join(dir, "fake.zip")
		require.NoError(t, os.WriteFile(p, []byte("not a zip"), 0o644))
		_, err := preview.NewArchiveTransformer().Transform(context.Background(), p)
		assert.ErrorIs(t, err, preview.ErrUnavailable)
	})
}
