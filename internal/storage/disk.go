package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"tea-registry/internal/domain"
)

// ObjectStore is the binary document store. Paths are opaque to callers and
// always produced by Save.
type ObjectStore interface {
	// Save writes the object and returns its stored path. The content type
	// must be allowed in the bucket.
	Save(bucket domain.DocumentKind, ownerID, filename, contentType string, r io.Reader) (string, error)

	// Open returns the object contents and its size. Missing objects return
	// ErrObjectNotFound.
	Open(bucket domain.DocumentKind, path string) (io.ReadSeekCloser, error)

	// Remove deletes the object. Removing a missing object is not an error.
	Remove(bucket domain.DocumentKind, path string) error
}

// DiskStore keeps objects under dir/<bucket>/<path>.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	for kind := range bucketMIMEs {
		if err := os.MkdirAll(filepath.Join(dir, string(kind)), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create bucket dir: %w", err)
		}
	}
	return &DiskStore{dir: dir}, nil
}

var _ ObjectStore = (*DiskStore)(nil)

var unsafeChars = regexp.MustCompile(`[^a-z0-9._-]+`)

// objectPath builds "{ownerID}/{unixms}-{slugged-name}", the scheme the
// registry has always used for uploads.
func objectPath(ownerID, filename string) string {
	name := strings.ToLower(strings.TrimSpace(filename))
	base, ext := name, ""
	if i := strings.LastIndex(name, "."); i > 0 {
		base, ext = name[:i], name[i+1:]
	}
	base = unsafeChars.ReplaceAllString(base, "-")
	if base == "" {
		base = "file"
	}
	if ext == "" {
		ext = "file"
	}
	return fmt.Sprintf("%s/%d-%s.%s", ownerID, time.Now().UnixMilli(), base, ext)
}

func (s *DiskStore) fullPath(bucket domain.DocumentKind, path string) (string, error) {
	full := filepath.Join(s.dir, string(bucket), filepath.FromSlash(path))
	// Reject traversal out of the bucket root.
	root := filepath.Join(s.dir, string(bucket)) + string(filepath.Separator)
	if !strings.HasPrefix(full, root) {
		return "", ErrObjectNotFound
	}
	return full, nil
}

func (s *DiskStore) Save(bucket domain.DocumentKind, ownerID, filename, contentType string, r io.Reader) (string, error) {
	if !ValidBucket(string(bucket)) {
		return "", ErrUnknownBucket
	}
	if !AllowedMIME(bucket, contentType) {
		return "", ErrInvalidMIME
	}

	path := objectPath(ownerID, filename)
	full, err := s.fullPath(bucket, path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create object dir: %w", err)
	}

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create object: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(full)
		return "", fmt.Errorf("failed to write object: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(full)
		return "", fmt.Errorf("failed to close object: %w", err)
	}
	return path, nil
}

func (s *DiskStore) Open(bucket domain.DocumentKind, path string) (io.ReadSeekCloser, error) {
	if !ValidBucket(string(bucket)) {
		return nil, ErrUnknownBucket
	}
	full, err := s.fullPath(bucket, path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to open object: %w", err)
	}
	return f, nil
}

func (s *DiskStore) Remove(bucket domain.DocumentKind, path string) error {
	if path == "" {
		return nil
	}
	full, err := s.fullPath(bucket, path)
	if err != nil {
		return nil
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove object: %w", err)
	}
	return nil
}
