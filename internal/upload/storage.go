// Package upload stores raw uploaded files before parsing.
package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wrangle/domain/core"
	"wrangle/internal/errors"
	"wrangle/ports"
)

// LocalBlobStore implements ports.BlobStore on the local filesystem
type LocalBlobStore struct {
	basePath string
}

// NewLocalBlobStore creates a blob store rooted at basePath
func NewLocalBlobStore(basePath string) *LocalBlobStore {
	return &LocalBlobStore{basePath: basePath}
}

// Store saves data under a unique name derived from filename and returns the
// stored path.
func (s *LocalBlobStore) Store(ctx context.Context, data []byte, filename string) (string, error) {
	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return "", errors.Wrap(err, "failed to create storage directory")
	}

	ext := filepath.Ext(filename)
	baseName := filename[:len(filename)-len(ext)]
	timestamp := time.Now().Format("20060102_150405")
	uniqueName := fmt.Sprintf("%s_%s_%s%s", baseName, timestamp, core.NewID().String()[:8], ext)

	path := filepath.Join(s.basePath, uniqueName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", path)
	}
	return path, nil
}

// Read returns the contents of a stored file
func (s *LocalBlobStore) Read(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.NotFound("upload " + path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return data, nil
}

// Delete removes a stored file; deleting a missing file is a no-op
func (s *LocalBlobStore) Delete(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to delete %s", path)
	}
	return nil
}

var _ ports.BlobStore = (*LocalBlobStore)(nil)
