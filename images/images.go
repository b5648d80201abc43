// Package images implements the photo ingestion pipeline for the cattery
// site: upload validation, decoding and resampling, filesystem and inline
// storage, and read-time normalization of stored image references.
//
// Inline (base64 data-URL) storage is the durable primary mechanism because
// the production filesystem is ephemeral; writing variants to disk is an
// optional best-effort mirror kept for legacy consumers.
package images

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Error kinds surfaced by the pipeline. The first two are client errors and
// map to 400 responses; the others map to 500. Check with errors.Is.
var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrPayloadTooLarge   = errors.New("image exceeds maximum upload size")
	ErrProcessing        = errors.New("image processing failed")
	ErrStorageWrite      = errors.New("image storage write failed")
)

// Category selects the storage destination and default name prefix for an
// upload. It never changes how an image is processed.
type Category string

const (
	CategoryCat     Category = "cat"
	CategoryArticle Category = "article"
)

// Limits holds the validation and encoding parameters of the pipeline.
type Limits struct {
	MaxUploadSize int64 // upload size ceiling in bytes
	FullSize      int   // bounding box edge for the full variant
	FullQuality   int   // JPEG quality for the full variant
	ThumbSize     int   // bounding box edge for the thumbnail
	ThumbQuality  int   // JPEG quality for the thumbnail
}

// DefaultLimits mirrors the values the site has always used.
func DefaultLimits() Limits {
	return Limits{
		MaxUploadSize: 10 << 20, // 10 MiB
		FullSize:      1200,
		FullQuality:   85,
		ThumbSize:     300,
		ThumbQuality:  80,
	}
}

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Validate is the precondition gate in front of the codec. It checks the
// claimed extension and the payload size, in that order, and has no side
// effects. It must run before any decode is attempted.
func Validate(filename string, size int64, lim Limits) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if size > lim.MaxUploadSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrPayloadTooLarge, size, lim.MaxUploadSize)
	}
	return nil
}
