package store

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	// Packages
	schema "github.com/mutablelogic/go-dfs/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Open returns a reader over a stored file together with its size and SHA-256
// digest. The digest is computed before the reader is returned, so a reader
// always streams the same bytes the digest describes: the rename-on-upload
// discipline means an open file is never mutated in place.
func (s *Store) Open(path string) (io.ReadCloser, *schema.ReadyPayload, error) {
	full, err := s.Resolve(path)
	if err != nil {
		return nil, nil, err
	}
	info, err := os.Stat(full)
	if err != nil || !info.Mode().IsRegular() {
		return nil, nil, ErrNotFound
	}

	digest, err := fileSHA256(full)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, nil, err
	}

	return f, &schema.ReadyPayload{Size: info.Size(), SHA256: digest}, nil
}

// Stat reports the size and digest of a stored file without opening it for
// streaming.
func (s *Store) Stat(path string) (*schema.ReadyPayload, error) {
	f, payload, err := s.Open(path)
	if err != nil {
		return nil, err
	}
	f.Close()
	return payload, nil
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	digest := sha256.New()
	if _, err := io.Copy(digest, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(digest.Sum(nil)), nil
}
