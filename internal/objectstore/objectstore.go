// Package objectstore stores uploaded binaries (product images) and hands
// back the public URL they are served under.
package objectstore

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Store uploads an object and returns its public URL.
type Store interface {
	Upload(ctx context.Context, bucket, name string, data []byte) (string, error)
}

// DiskStore keeps objects under <baseDir>/<bucket>/<name> and builds URLs
// from the configured public host. The API server exposes baseDir under
// /uploads.
type DiskStore struct {
	baseDir string
	baseURL string
}

func NewDisk(baseDir, baseURL string) *DiskStore {
	return &DiskStore{baseDir: baseDir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *DiskStore) Upload(_ context.Context, bucket, name string, data []byte) (string, error) {
	bucket = path.Clean("/" + bucket)[1:]
	name = path.Clean("/" + name)[1:]
	if bucket == "" || name == "" {
		return "", fmt.Errorf("invalid object path %q/%q", bucket, name)
	}

	dst := filepath.Join(s.baseDir, bucket, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("mkdir for %s: %w", dst, err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", dst, err)
	}
	return fmt.Sprintf("%s/uploads/%s/%s", s.baseURL, bucket, name), nil
}
