package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	// Packages
	renameio "github.com/google/renameio/v2"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Put reads exactly size bytes from body into a temporary file next to the
// destination, verifying the SHA-256 digest as it writes. On a digest match
// the temporary file is atomically renamed into place and the computed digest
// is returned; on mismatch or short body the temporary file is removed and
// the destination is left untouched. Concurrent writers of the same name
// never observe a partial file; the last rename wins.
func (s *Store) Put(ctx context.Context, name string, size int64, expected string, body io.Reader) (string, error) {
	dest, err := s.Resolve(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", err
	}

	// The pending file carries a random suffix, so concurrent uploads of the
	// same logical name coexist until one of them renames into place.
	pending, err := renameio.TempFile(filepath.Dir(dest), dest)
	if err != nil {
		return "", err
	}
	defer pending.Cleanup()

	digest := sha256.New()
	written, err := io.Copy(io.MultiWriter(pending, digest), io.LimitReader(body, size))
	if err != nil {
		return "", fmt.Errorf("upload body: %w", err)
	}
	if written < size {
		return "", fmt.Errorf("upload body: %w", io.ErrUnexpectedEOF)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	computed := hex.EncodeToString(digest.Sum(nil))
	if expected != "" && !strings.EqualFold(computed, expected) {
		return computed, ErrChecksum
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return "", err
	}
	s.invalidate()

	return computed, nil
}
