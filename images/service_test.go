package images

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	root := t.TempDir()
	fs, err := NewFileStore(root)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return NewService(DefaultLimits(), fs, true, log.New(os.Stderr, "", 0)), root
}

func listDir(t *testing.T, root, sub string) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(root, filepath.FromSlash(sub)))
	if err != nil {
		t.Fatalf("read %s: %v", sub, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestIngestStoresInlineAndMirror(t *testing.T) {
	svc, root := newTestService(t)

	res, err := svc.Ingest(encodeJPEG(t, 800, 600), "luna.jpg", CategoryCat, "luna")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res.Inline == "" {
		t.Fatal("inline representation must always be set on success")
	}
	if !strings.HasPrefix(res.Inline, InlineMarker) {
		t.Errorf("inline missing marker: %.40q", res.Inline)
	}
	if res.StoredPath == "" || res.ThumbnailPath == "" {
		t.Fatalf("mirror enabled but paths missing: %+v", res)
	}
	for _, p := range []string{res.StoredPath, res.ThumbnailPath} {
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(p))); err != nil {
			t.Errorf("mirrored file missing: %v", err)
		}
	}
	if n := len(listDir(t, root, "uploads/temp")); n != 0 {
		t.Errorf("temp dir holds %d file(s) after success, want 0", n)
	}
}

func TestIngestRejectsUnsupportedFormatWithoutArtifacts(t *testing.T) {
	svc, root := newTestService(t)

	_, err := svc.Ingest(encodeJPEG(t, 100, 100), "cat.bmp", CategoryCat, "")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("got %v, want ErrUnsupportedFormat", err)
	}
	for _, sub := range []string{"uploads/cats", "uploads/thumbnails", "uploads/temp"} {
		if n := len(listDir(t, root, sub)); n != 0 {
			t.Errorf("%s holds %d file(s) after rejected upload, want 0", sub, n)
		}
	}
}

func TestIngestRejectsOversizedPayloadBeforeDecoding(t *testing.T) {
	lim := DefaultLimits()
	lim.MaxUploadSize = 16
	svc := NewService(lim, nil, false, nil)

	// The payload is not decodable, so getting the size error (not a
	// processing error) proves the decoder was never invoked.
	_, err := svc.Ingest([]byte("definitely not a decodable image"), "big.jpg", CategoryCat, "")
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("got %v, want ErrPayloadTooLarge", err)
	}
}

func TestServiceValidateGatesOnHeaderSize(t *testing.T) {
	lim := DefaultLimits()
	lim.MaxUploadSize = 16
	svc := NewService(lim, nil, false, nil)

	// Validate takes the declared size, so handlers can reject an
	// oversized upload before buffering any of it.
	if err := svc.Validate("big.jpg", 17); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("got %v, want ErrPayloadTooLarge", err)
	}
	if err := svc.Validate("cat.bmp", 4); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("got %v, want ErrUnsupportedFormat", err)
	}
	if err := svc.Validate("cat.jpg", 16); err != nil {
		t.Fatalf("conforming upload rejected: %v", err)
	}
}

func TestIngestCleansTempOnCodecFailure(t *testing.T) {
	svc, root := newTestService(t)

	_, err := svc.Ingest([]byte("garbage bytes"), "broken.jpg", CategoryCat, "")
	if !errors.Is(err, ErrProcessing) {
		t.Fatalf("got %v, want ErrProcessing", err)
	}
	for _, sub := range []string{"uploads/cats", "uploads/thumbnails", "uploads/temp"} {
		if n := len(listDir(t, root, sub)); n != 0 {
			t.Errorf("%s holds %d file(s) after failed ingestion, want 0", sub, n)
		}
	}
}

func TestIngestSucceedsWhenMirrorWriteFails(t *testing.T) {
	root := t.TempDir()
	fs, err := NewFileStore(root)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	// Replace the cats directory with a plain file so the mirror write
	// fails after the inline encode already succeeded.
	catsDir := filepath.Join(root, "uploads", "cats")
	if err := os.Remove(catsDir); err != nil {
		t.Fatalf("remove cats dir: %v", err)
	}
	if err := os.WriteFile(catsDir, []byte("in the way"), 0o644); err != nil {
		t.Fatalf("block cats dir: %v", err)
	}

	var logged bytes.Buffer
	svc := NewService(DefaultLimits(), fs, true, log.New(&logged, "", 0))

	res, err := svc.Ingest(encodeJPEG(t, 500, 500), "luna.jpg", CategoryCat, "luna")
	if err != nil {
		t.Fatalf("Ingest must succeed on the inline branch alone: %v", err)
	}
	if res.Inline == "" {
		t.Fatal("inline representation missing")
	}
	if res.StoredPath != "" || res.ThumbnailPath != "" {
		t.Fatalf("filesystem paths set despite write failure: %+v", res)
	}
	if !strings.Contains(logged.String(), "mirror failed") {
		t.Errorf("mirror failure was not logged: %q", logged.String())
	}
}

func TestIngestWithoutFileStoreIsInlineOnly(t *testing.T) {
	svc := NewService(DefaultLimits(), nil, false, nil)
	res, err := svc.Ingest(encodeJPEG(t, 400, 300), "cat.png", CategoryCat, "")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res.Inline == "" || res.StoredPath != "" {
		t.Fatalf("expected inline-only result, got %+v", res)
	}
}
