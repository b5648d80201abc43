package images

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// InlineMarker prefixes inline-encoded payloads stored in database text
// columns, making them self-describing data URLs.
const InlineMarker = "data:image/jpeg;base64,"

const (
	catsSubdir     = "uploads/cats"
	articlesSubdir = "uploads/articles"
	thumbsSubdir   = "uploads/thumbnails"
	tempSubdir     = "uploads/temp"
)

// EncodeInline encodes full-variant bytes as a self-describing inline
// string suitable for a text database column.
func EncodeInline(data []byte) string {
	return InlineMarker + base64.StdEncoding.EncodeToString(data)
}

// BaseName builds a collision-resistant filename stem from the category
// prefix, a timestamp and a short random disambiguator.
func BaseName(category Category, namePrefix string) string {
	prefix := string(category)
	if namePrefix != "" {
		prefix = namePrefix
	}
	return fmt.Sprintf("%s_%s_%s", prefix, time.Now().Format("20060102_150405"), uuid.NewString()[:8])
}

// FileStore writes image variants under a static content root and returns
// paths relative to it, so stored records remain portable across
// deployment roots and can be served as static assets.
type FileStore struct {
	root string
}

// NewFileStore creates the upload directories under root.
func NewFileStore(root string) (*FileStore, error) {
	for _, sub := range []string{catsSubdir, articlesSubdir, thumbsSubdir, tempSubdir} {
		if err := os.MkdirAll(filepath.Join(root, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir: %w", err)
		}
	}
	return &FileStore{root: root}, nil
}

// Save writes the full and thumbnail variants and returns their
// static-relative paths. A half-written pair is rolled back.
func (f *FileStore) Save(category Category, baseName string, full, thumb Variant) (fullPath, thumbPath string, err error) {
	dir := catsSubdir
	if category == CategoryArticle {
		dir = articlesSubdir
	}
	fullPath = dir + "/" + baseName + "_full.jpg"
	thumbPath = thumbsSubdir + "/" + baseName + "_thumb.jpg"

	if err := os.WriteFile(filepath.Join(f.root, filepath.FromSlash(fullPath)), full.Data, 0o644); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	if err := os.WriteFile(filepath.Join(f.root, filepath.FromSlash(thumbPath)), thumb.Data, 0o644); err != nil {
		_ = os.Remove(filepath.Join(f.root, filepath.FromSlash(fullPath)))
		return "", "", fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	return fullPath, thumbPath, nil
}

// WriteTemp stores the raw upload before decoding so an interrupted
// request leaves nothing behind that the sweep cannot reclaim.
func (f *FileStore) WriteTemp(baseName, ext string, data []byte) (string, error) {
	path := filepath.Join(f.root, tempSubdir, baseName+"_original"+ext)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("%w: temp: %v", ErrStorageWrite, err)
	}
	return path, nil
}

// RemoveTemp deletes a temp file written by WriteTemp. Missing files are
// not an error; the sweep may have claimed them already.
func (f *FileStore) RemoveTemp(path string) {
	if path != "" {
		_ = os.Remove(path)
	}
}

// SweepTemp deletes temp files older than maxAge and reports how many
// were removed. Only completed or abandoned uploads reach that age, so
// the sweep is safe to run concurrently with ingestion.
func (f *FileStore) SweepTemp(maxAge time.Duration) (int, error) {
	dir := filepath.Join(f.root, tempSubdir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read temp dir: %w", err)
	}
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if os.Remove(filepath.Join(dir, e.Name())) == nil {
				removed++
			}
		}
	}
	return removed, nil
}

// Remove deletes stored variants given their static-relative paths.
// Missing files are ignored.
func (f *FileStore) Remove(relPaths ...string) {
	for _, p := range relPaths {
		if p != "" {
			_ = os.Remove(filepath.Join(f.root, filepath.FromSlash(p)))
		}
	}
}

// ReadInline reads a stored full variant and returns its inline encoding.
// Used by the one-time backfill of legacy path-only records.
func (f *FileStore) ReadInline(relPath string) (string, error) {
	data, err := os.ReadFile(filepath.Join(f.root, filepath.FromSlash(relPath)))
	if err != nil {
		return "", fmt.Errorf("read stored image: %w", err)
	}
	return EncodeInline(data), nil
}
