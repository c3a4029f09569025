package client

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	// Packages
	dfs "github.com/mutablelogic/go-dfs"
	schema "github.com/mutablelogic/go-dfs/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

// ErrChecksum is returned when downloaded bytes do not hash to the digest the
// server announced.
var ErrChecksum = errors.New("checksum mismatch")

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Upload stores exactly size bytes from body under name, announcing the given
// SHA-256 digest. The server verifies the digest before the file becomes
// visible; the verified digest is returned.
func (c *Client) Upload(ctx context.Context, name string, size int64, sha string, body io.Reader) (string, error) {
	req, err := schema.NewRequest(schema.CommandUpload, schema.UploadPayload{
		Name:   name,
		Size:   size,
		SHA256: sha,
	})
	if err != nil {
		return "", err
	}

	resp, err := c.roundtrip(ctx, req)
	if err != nil {
		return "", err
	}
	if resp.Type != schema.TypeReady {
		return "", fmt.Errorf("unexpected response %q", resp.Type)
	}

	if _, err := c.conn.WriteBody(body, size); err != nil {
		return "", err
	}

	result, err := c.recv()
	if err != nil {
		return "", err
	}
	var payload schema.UploadResultPayload
	if err := result.Decode(&payload); err != nil {
		return "", err
	}
	if !payload.OK {
		return "", fmt.Errorf("upload %q failed", name)
	}
	return payload.SHA256, nil
}

// Download streams a stored file into dst and verifies the SHA-256 digest the
// server announced. The announced size and digest are returned.
func (c *Client) Download(ctx context.Context, path string, dst io.Writer) (*schema.ReadyPayload, error) {
	resp, err := c.roundtrip(ctx, schema.Request{
		Command: schema.CommandDownload,
		Path:    path,
	})
	if err != nil {
		return nil, err
	}
	if resp.Type != schema.TypeReady {
		return nil, fmt.Errorf("unexpected response %q", resp.Type)
	}

	var info schema.ReadyPayload
	if err := resp.Decode(&info); err != nil {
		return nil, err
	}

	digest := sha256.New()
	if _, err := c.conn.ReadBody(io.MultiWriter(dst, digest), info.Size); err != nil {
		return nil, err
	}
	if info.SHA256 != "" && !strings.EqualFold(hex.EncodeToString(digest.Sum(nil)), info.SHA256) {
		return nil, fmt.Errorf("download %q: %w", path, ErrChecksum)
	}
	return &info, nil
}

// Preview fetches the server-side preview of a stored file.
func (c *Client) Preview(ctx context.Context, path string) (*dfs.Preview, error) {
	resp, err := c.roundtrip(ctx, schema.Request{
		Command: schema.CommandPreview,
		Path:    path,
	})
	if err != nil {
		return nil, err
	}
	if resp.Type != schema.TypePreviewReady {
		return nil, fmt.Errorf("unexpected response %q", resp.Type)
	}

	var payload schema.PreviewReadyPayload
	if err := resp.Decode(&payload); err != nil {
		return nil, err
	}

	var data bytes.Buffer
	data.Grow(int(payload.Size))
	if _, err := c.conn.ReadBody(&data, payload.Size); err != nil {
		return nil, err
	}
	return &dfs.Preview{Type: payload.Type, Data: data.Bytes()}, nil
}

// SHA256 computes the hex digest of a reader's contents, for callers that
// need the digest before an upload.
func SHA256(r io.Reader) (string, int64, error) {
	digest := sha256.New()
	size, err := io.Copy(digest, r)
	if err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(digest.Sum(nil)), size, nil
}
