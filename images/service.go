package images

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"
)

// Result describes what an ingestion stored. Inline is always set on
// success, which makes the "at least one representation" invariant hold
// structurally; the filesystem paths are present only when the disk
// mirror is enabled and its write succeeded.
type Result struct {
	StoredPath    string // static-relative path of the full variant
	ThumbnailPath string // static-relative path of the thumbnail
	Inline        string // self-describing inline encoding of the full variant
	Width         int
	Height        int
}

// Service orchestrates validation, decoding and storage for photo
// uploads from both the cat and article call sites.
type Service struct {
	limits Limits
	files  *FileStore
	mirror bool
	logger *log.Logger
}

// NewService builds an ingestion service. files may be nil for a purely
// inline deployment; mirrorToDisk controls whether variants are also
// written under the static root.
func NewService(lim Limits, files *FileStore, mirrorToDisk bool, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		limits: lim,
		files:  files,
		mirror: mirrorToDisk && files != nil,
		logger: logger,
	}
}

// Validate runs the upload gate against the service's limits without
// touching the payload. Handlers call it with the multipart header size
// before buffering the file into memory.
func (s *Service) Validate(filename string, size int64) error {
	return Validate(filename, size, s.limits)
}

// Ingest runs the pipeline: Validate, codec, storage. On validation or
// codec failure no artifacts survive and the error propagates unchanged.
// A filesystem failure after the inline encode succeeded is logged and
// swallowed; the inline copy is already durable.
func (s *Service) Ingest(data []byte, filename string, category Category, namePrefix string) (Result, error) {
	if err := Validate(filename, int64(len(data)), s.limits); err != nil {
		return Result{}, err
	}

	base := BaseName(category, namePrefix)

	var tempPath string
	if s.files != nil {
		p, err := s.files.WriteTemp(base, strings.ToLower(filepath.Ext(filename)), data)
		if err != nil {
			s.logger.Printf("images: temp write failed: %v", err)
		} else {
			tempPath = p
			defer s.files.RemoveTemp(tempPath)
		}
	}

	full, thumb, err := Process(data, s.limits)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Inline: EncodeInline(full.Data),
		Width:  full.Width,
		Height: full.Height,
	}

	if s.mirror {
		fullPath, thumbPath, err := s.files.Save(category, base, full, thumb)
		if err != nil {
			s.logger.Printf("images: filesystem mirror failed: %v", err)
		} else {
			res.StoredPath = fullPath
			res.ThumbnailPath = thumbPath
		}
	}

	return res, nil
}

// DeleteArtifacts removes on-disk variants that belonged to a deleted
// record. Inline copies disappear with their row.
func (s *Service) DeleteArtifacts(relPaths ...string) {
	if s.files == nil {
		return
	}
	s.files.Remove(relPaths...)
}

// SweepTemp removes temp files older than maxAge.
func (s *Service) SweepTemp(maxAge time.Duration) (int, error) {
	if s.files == nil {
		return 0, nil
	}
	return s.files.SweepTemp(maxAge)
}

// StartSweep runs SweepTemp on a fixed interval. Returns a stop function.
func (s *Service) StartSweep(interval, maxAge time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				if n, err := s.SweepTemp(maxAge); err != nil {
					s.logger.Printf("images: temp sweep: %v", err)
				} else if n > 0 {
					s.logger.Printf("images: temp sweep removed %d file(s)", n)
				}
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() { close(done) }
}

// InlineFromFile returns the inline encoding of an already-stored full
// variant, for backfilling legacy path-only records.
func (s *Service) InlineFromFile(relPath string) (string, error) {
	if s.files == nil {
		return "", fmt.Errorf("no file store configured")
	}
	return s.files.ReadInline(relPath)
}
