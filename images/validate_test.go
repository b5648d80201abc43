package images

import (
	"errors"
	"testing"
)

func TestValidateAllowsKnownExtensions(t *testing.T) {
	lim := DefaultLimits()
	for _, name := range []string{"cat.jpg", "cat.jpeg", "cat.png", "cat.gif", "cat.webp", "CAT.JPG", "photo.PnG"} {
		if err := Validate(name, 1024, lim); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", name, err)
		}
	}
}

func TestValidateRejectsUnknownExtensions(t *testing.T) {
	lim := DefaultLimits()
	for _, name := range []string{"cat.bmp", "cat.tiff", "cat.svg", "cat", "cat.jpg.exe"} {
		err := Validate(name, 1024, lim)
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("Validate(%q) = %v, want ErrUnsupportedFormat", name, err)
		}
	}
}

func TestValidateRejectsOversizedPayload(t *testing.T) {
	lim := DefaultLimits()
	if err := Validate("cat.jpg", lim.MaxUploadSize, lim); err != nil {
		t.Fatalf("payload at the limit should pass: %v", err)
	}
	err := Validate("cat.jpg", lim.MaxUploadSize+1, lim)
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("Validate over limit = %v, want ErrPayloadTooLarge", err)
	}
}

func TestValidateChecksExtensionBeforeSize(t *testing.T) {
	// An oversized payload with a bad extension reports the format error,
	// matching the documented check order.
	err := Validate("cat.bmp", DefaultLimits().MaxUploadSize+1, DefaultLimits())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("got %v, want ErrUnsupportedFormat", err)
	}
}
