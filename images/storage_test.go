package images

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestEncodeInlineRoundTrip(t *testing.T) {
	payload := []byte{0xff, 0xd8, 0xff, 0xe0, 0x01, 0x02, 0x03}
	inline := EncodeInline(payload)

	if !strings.HasPrefix(inline, InlineMarker) {
		t.Fatalf("inline string missing marker: %q", inline)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(inline, InlineMarker))
	if err != nil {
		t.Fatalf("decode base64 portion: %v", err)
	}
	if string(decoded) != string(payload) {
		t.Fatalf("round trip changed content: got %v, want %v", decoded, payload)
	}
}

func TestBaseNameUsesPrefixAndDisambiguates(t *testing.T) {
	a := BaseName(CategoryCat, "")
	b := BaseName(CategoryCat, "")
	if a == b {
		t.Fatalf("two names generated in sequence collided: %q", a)
	}
	if !strings.HasPrefix(a, "cat_") {
		t.Errorf("default cat prefix missing: %q", a)
	}
	if n := BaseName(CategoryArticle, ""); !strings.HasPrefix(n, "article_") {
		t.Errorf("default article prefix missing: %q", n)
	}
	if n := BaseName(CategoryCat, "luna"); !strings.HasPrefix(n, "luna_") {
		t.Errorf("explicit prefix missing: %q", n)
	}
}

func TestFileStoreSaveReturnsRelativePaths(t *testing.T) {
	root := t.TempDir()
	fs, err := NewFileStore(root)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	full := Variant{Data: []byte("full"), Width: 10, Height: 10}
	thumb := Variant{Data: []byte("thumb"), Width: 3, Height: 3}
	fullPath, thumbPath, err := fs.Save(CategoryCat, "luna_20240101_120000_abcd1234", full, thumb)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(fullPath, "uploads/cats/") {
		t.Errorf("full path not under cats dir: %q", fullPath)
	}
	if !strings.HasPrefix(thumbPath, "uploads/thumbnails/") {
		t.Errorf("thumb path not under thumbnails dir: %q", thumbPath)
	}
	for _, p := range []string{fullPath, thumbPath} {
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(p))); err != nil {
			t.Errorf("stored file missing: %v", err)
		}
	}
}

func TestFileStoreRemoveIgnoresMissing(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	fs.Remove("uploads/cats/never_existed_full.jpg", "")
}

func TestSweepTempHonorsAgeThreshold(t *testing.T) {
	root := t.TempDir()
	fs, err := NewFileStore(root)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	tempDir := filepath.Join(root, "uploads", "temp")
	oldFile := filepath.Join(tempDir, "stale_original.jpg")
	youngFile := filepath.Join(tempDir, "fresh_original.jpg")
	for _, p := range []string{oldFile, youngFile} {
		if err := os.WriteFile(p, []byte("x"), 0o600); err != nil {
			t.Fatalf("write temp fixture: %v", err)
		}
	}
	stale := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(oldFile, stale, stale); err != nil {
		t.Fatalf("age temp file: %v", err)
	}

	removed, err := fs.SweepTemp(time.Hour)
	if err != nil {
		t.Fatalf("SweepTemp: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Errorf("stale temp file survived the sweep")
	}
	if _, err := os.Stat(youngFile); err != nil {
		t.Errorf("fresh temp file was removed: %v", err)
	}
}

func TestReadInlineMatchesStoredBytes(t *testing.T) {
	root := t.TempDir()
	fs, err := NewFileStore(root)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	data := []byte("jpeg bytes")
	fullPath, _, err := fs.Save(CategoryArticle, "article_20240101_120000_ab12cd34", Variant{Data: data}, Variant{Data: []byte("t")})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	inline, err := fs.ReadInline(fullPath)
	if err != nil {
		t.Fatalf("ReadInline: %v", err)
	}
	if inline != EncodeInline(data) {
		t.Fatalf("ReadInline mismatch: %q", inline)
	}
}
