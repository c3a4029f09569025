package backend_test

import (
	"bytes"
	"context"
	"net"
	"path/filepath"
	"strings"
	"testing"

	// Packages
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mutablelogic/go-dfs/pkg/backend"
	"github.com/mutablelogic/go-dfs/pkg/client"
	"github.com/mutablelogic/go-dfs/pkg/schema"
	"github.com/mutablelogic/go-dfs/pkg/wire"
)

// serve starts a backend on an ephemeral port and returns its address.
func serve(t *testing.T, class schema.Class) string {
	t.Helper()

	b, err := backend.New(class, filepath.Join(t.TempDir(), "storage"))
	require.NoError(t, err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go b.Serve(ctx, listener)

	return listener.Addr().String()
}

func connect(t *testing.T, addr string) *client.Client {
	t.Helper()
	c, err := client.Dial(context.Background(), addr)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestPing(t *testing.T) {
	addr := serve(t, schema.ClassText)
	c := connect(t, addr)
	assert.NoError(t, c.Ping(context.Background()))
}

func TestUploadListDownload(t *testing.T) {
	addr := serve(t, schema.ClassText)
	c := connect(t, addr)

	body := "hello over the wire"
	sha, size, err := client.SHA256(strings.NewReader(body))
	require.NoError(t, err)

	// Upload
	digest, err := c.Upload(context.Background(), "docs/greeting.txt", size, sha, strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, sha, digest)

	// The file appears in a listing with its size
	node, err := c.List(context.Background(), "", nil)
	require.NoError(t, err)
	docs := node.Find("storage/docs")
	require.NotNil(t, docs)
	require.Len(t, docs.Files, 1)
	assert.Equal(t, "greeting.txt", docs.Files[0].Name)
	assert.Equal(t, size, docs.Files[0].Size)

	// Download returns the identical bytes, digest verified by the client
	var out bytes.Buffer
	info, err := c.Download(context.Background(), "storage/docs/greeting.txt", &out)
	require.NoError(t, err)
	assert.Equal(t, body, out.String())
	assert.Equal(t, size, info.Size)
	assert.Equal(t, sha, info.SHA256)
}

func TestUploadChecksumMismatch(t *testing.T) {
	addr := serve(t, schema.ClassText)
	c := connect(t, addr)

	body := "tampered in flight"
	_, err := c.Upload(context.Background(), "a.txt", int64(len(body)), strings.Repeat("0", 64), strings.NewReader(body))
	assert.True(t, schema.IsRemoteError(err, schema.ErrShaMismatch), "got %v", err)

	// The rejected file is not visible and the connection stays usable
	node, err := c.List(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Empty(t, node.Files)
	assert.NoError(t, c.Ping(context.Background()))
}

func TestUploadInvalidPath(t *testing.T) {
	addr := serve(t, schema.ClassText)
	c := connect(t, addr)

	// Rejected before any body bytes are accepted
	_, err := c.Upload(context.Background(), "../escape.txt", 4, strings.Repeat("0", 64), strings.NewReader("data"))
	assert.True(t, schema.IsRemoteError(err, schema.ErrInvalidPath), "got %v", err)
	assert.NoError(t, c.Ping(context.Background()))
}

func TestDownloadErrors(t *testing.T) {
	addr := serve(t, schema.ClassText)
	c := connect(t, addr)

	var out bytes.Buffer
	_, err := c.Download(context.Background(), "storage/missing.txt", &out)
	assert.True(t, schema.IsRemoteError(err, schema.ErrFileNotFound), "got %v", err)

	_, err = c.Download(context.Background(), "../etc/passwd", &out)
	assert.True(t, schema.IsRemoteError(err, schema.ErrInvalidPath), "got %v", err)
}

func TestDownloadFilterMismatch(t *testing.T) {
	addr := serve(t, schema.ClassText)
	c := connect(t, addr)

	body := "plain text"
	sha, size, err := client.SHA256(strings.NewReader(body))
	require.NoError(t, err)
	_, err = c.Upload(context.Background(), "a.txt", size, sha, strings.NewReader(body))
	require.NoError(t, err)

	// A download constrained to another class is refused
	nc, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer nc.Close()
	conn := wire.New(nc)

	require.NoError(t, conn.SendControl(schema.Request{
		Command: schema.CommandDownload,
		Path:    "storage/a.txt",
		Filters: []string{"image"},
	}))
	var resp schema.Response
	require.NoError(t, conn.RecvControl(&resp))
	assert.Equal(t, schema.ErrFileTypeMismatch, resp.ErrorToken())
}

func TestListFilters(t *testing.T) {
	addr := serve(t, schema.ClassText)
	c := connect(t, addr)

	for _, name := range []string{"a.txt", "b.pdf", "c.md"} {
		sha, size, err := client.SHA256(strings.NewReader(name))
		require.NoError(t, err)
		_, err = c.Upload(context.Background(), name, size, sha, strings.NewReader(name))
		require.NoError(t, err)
	}

	node, err := c.List(context.Background(), "storage", []string{"pdf"})
	require.NoError(t, err)
	require.Len(t, node.Files, 1)
	assert.Equal(t, "storage/b.pdf", node.Files[0].Path)

	node, err = c.List(context.Background(), "storage", []string{"text"})
	require.NoError(t, err)
	assert.Len(t, node.Files, 3)

	_, err = c.List(context.Background(), "storage/nope", nil)
	assert.True(t, schema.IsRemoteError(err, schema.ErrFileNotFound), "got %v", err)
}

func TestPreview(t *testing.T) {
	addr := serve(t, schema.ClassText)
	c := connect(t, addr)

	content := "# Title\n\nA few lines of markdown.\n"
	sha, size, err := client.SHA256(strings.NewReader(content))
	require.NoError(t, err)
	_, err = c.Upload(context.Background(), "notes.md", size, sha, strings.NewReader(content))
	require.NoError(t, err)

	t.Run("text head", func(t *testing.T) {
		p, err := c.Preview(context.Background(), "storage/notes.md")
		require.NoError(t, err)
		assert.Equal(t, schema.PreviewText, p.Type)
		assert.Equal(t, content, string(p.Data))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := c.Preview(context.Background(), "storage/missing.md")
		assert.True(t, schema.IsRemoteError(err, schema.ErrFileNotFound), "got %v", err)
	})
}

func TestDelete(t *testing.T) {
	addr := serve(t, schema.ClassText)
	c := connect(t, addr)

	body := "short lived"
	sha, size, err := client.SHA256(strings.NewReader(body))
	require.NoError(t, err)
	_, err = c.Upload(context.Background(), "a.txt", size, sha, strings.NewReader(body))
	require.NoError(t, err)

	require.NoError(t, c.Delete(context.Background(), "a.txt"))

	node, err := c.List(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Empty(t, node.Files)

	err = c.Delete(context.Background(), "a.txt")
	assert.True(t, schema.IsRemoteError(err, schema.ErrFileNotFound), "got %v", err)
}

func TestUnknownCommand(t *testing.T) {
	addr := serve(t, schema.ClassText)

	nc, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer nc.Close()
	conn := wire.New(nc)

	require.NoError(t, conn.SendControl(schema.Request{Command: "reboot"}))
	var resp schema.Response
	require.NoError(t, conn.RecvControl(&resp))
	assert.Equal(t, schema.ErrUnknownControlType, resp.ErrorToken())

	// Connection survives the unknown command
	require.NoError(t, conn.SendControl(schema.Request{Command: schema.CommandPing}))
	require.NoError(t, conn.RecvControl(&resp))
	assert.Equal(t, schema.TypePong, resp.Type)
}
