// Package blob provides the picture blob stores: a local filesystem
// directory (the default) and an S3 bucket, selected by configuration.
package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"ember_server/apperr"
	"ember_server/storage"
)

// FSStore keeps one picture per user as <username>.img under a root
// directory. Uploads overwrite the prior blob.
type FSStore struct {
	root string
}

var _ storage.BlobStore = (*FSStore)(nil)

// NewFSStore creates the root directory if needed.
func NewFSStore(root string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &FSStore{root: root}, nil
}

func (s *FSStore) Put(_ context.Context, username string, data []byte) (string, error) {
	path := username + ".img"
	if err := os.WriteFile(filepath.Join(s.root, path), data, 0o644); err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}
	return path, nil
}

func (s *FSStore) Get(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.root, path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("blob %q: %w", path, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("read blob: %w", err)
	}
	return data, nil
}
