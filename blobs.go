package wishwall

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eringen/wishwall/logger"
)

const (
	uploadsSubdir    = "uploads"
	celebrantsSubdir = "celebrants"
)

// BlobStore persists uploaded media under the public static directory.
// Greeting media lives flat under /uploads; celebrant photos are partitioned
// per page token under /uploads/celebrants/<token>. Filenames are always
// generated, never user-supplied.
type BlobStore struct {
	root string
	log  *logger.Logger
}

// NewBlobStore creates a BlobStore rooted at the given static directory.
func NewBlobStore(staticDir string, log *logger.Logger) *BlobStore {
	return &BlobStore{root: staticDir, log: log.With("service", "blobs")}
}

// SaveGreetingMedia writes an uploaded greeting file to the flat uploads
// directory and returns the public retrieval path.
func (b *BlobStore) SaveGreetingMedia(src io.Reader, originalName string) (string, error) {
	dir := filepath.Join(b.root, uploadsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), shortID(), sanitizeExt(originalName))
	if err := writeBlob(filepath.Join(dir, name), src); err != nil {
		return "", err
	}
	return "/" + uploadsSubdir + "/" + name, nil
}

// SaveCelebrantPhoto writes a celebrant photo into the page's token
// directory and returns the public retrieval path.
func (b *BlobStore) SaveCelebrantPhoto(token string, src io.Reader, originalName string) (string, error) {
	dir := filepath.Join(b.root, uploadsSubdir, celebrantsSubdir, token)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create celebrant dir: %w", err)
	}
	name := shortID() + sanitizeExt(originalName)
	if err := writeBlob(filepath.Join(dir, name), src); err != nil {
		return "", err
	}
	return "/" + uploadsSubdir + "/" + celebrantsSubdir + "/" + token + "/" + name, nil
}

// SaveCelebrantThumb writes a pre-encoded JPEG thumbnail next to the
// celebrant photo at photoPath and returns the thumbnail's public path.
func (b *BlobStore) SaveCelebrantThumb(photoPath string, jpegData []byte) (string, error) {
	rel, err := b.relPath(photoPath)
	if err != nil {
		return "", err
	}
	ext := filepath.Ext(rel)
	thumbRel := strings.TrimSuffix(rel, ext) + "_thumb.jpg"
	if err := os.WriteFile(filepath.Join(b.root, thumbRel), jpegData, 0o644); err != nil {
		return "", fmt.Errorf("write thumbnail: %w", err)
	}
	return "/" + filepath.ToSlash(thumbRel), nil
}

// Delete removes the blob behind a stored public path. Callers that must not
// fail on a missing or stuck file are expected to log and swallow the error.
func (b *BlobStore) Delete(path string) error {
	rel, err := b.relPath(path)
	if err != nil {
		return err
	}
	return os.Remove(filepath.Join(b.root, rel))
}

// relPath validates a stored public path and returns it relative to the
// blob root. Anything that escapes the uploads directory is rejected.
func (b *BlobStore) relPath(path string) (string, error) {
	rel := filepath.Clean(strings.TrimPrefix(path, "/"))
	if rel != uploadsSubdir && !strings.HasPrefix(rel, uploadsSubdir+string(filepath.Separator)) {
		return "", fmt.Errorf("blob path %q outside uploads", path)
	}
	return rel, nil
}

func writeBlob(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create blob: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("write blob: %w", err)
	}
	return dst.Close()
}

// shortID returns the first uuid group: 8 hex chars, enough to keep
// generated filenames collision-free alongside the timestamp prefix.
func shortID() string {
	return uuid.NewString()[:8]
}

// sanitizeExt lowercases the original extension and strips everything
// outside [a-z0-9], blocking traversal via crafted filenames.
func sanitizeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	var b strings.Builder
	for _, r := range ext {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "." + b.String()
}
