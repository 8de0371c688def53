// Package blob abstracts the external blob-storage collaborator that holds
// raw image bytes. The engine only ever stores the URL a put returns;
// compression and encoding are entirely the collaborator's responsibility.
package blob

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store is the blob-storage collaborator contract. A successful Put is an
// acknowledgement that the referenced bytes are durable; callers must not
// record a URL before Put returns.
type Store interface {
	Put(ctx context.Context, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// DiskStore is a Store backed by the local filesystem, serving development
// and single-node deployments. Objects are keyed by random UUID.
type DiskStore struct {
	dir     string
	baseURL string
}

// NewDiskStore returns a DiskStore writing under dir. baseURL prefixes
// returned URLs and may be empty for relative URLs.
func NewDiskStore(dir, baseURL string) *DiskStore {
	return &DiskStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

var extByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Put writes data to disk and returns the serving URL. The write goes through
// a temp file and rename so a crash never leaves a partially written object
// behind a committed URL.
func (s *DiskStore) Put(_ context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty blob")
	}
	ext, ok := extByContentType[contentType]
	if !ok {
		return "", fmt.Errorf("unsupported content type %q", contentType)
	}

	key := uuid.NewString()
	name := key + ext
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(s.dir, "put-*")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return "", err
	}

	return s.baseURL + "/media/i/" + name, nil
}

// Delete removes the object referenced by url. Unknown URLs are not an error;
// delete is idempotent.
func (s *DiskStore) Delete(_ context.Context, url string) error {
	name := path.Base(url)
	if name == "." || name == "/" || name == "" {
		return fmt.Errorf("invalid blob url %q", url)
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
