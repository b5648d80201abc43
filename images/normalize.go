package images

import "strings"

// Display rewrites a persisted image reference into its display-ready
// form. Inline data takes precedence over a stored path; rows written
// before the marker convention get the marker added; relative paths get
// the public prefix prepended. Absolute URLs and already-normalized
// values pass through unchanged, so Display is idempotent. An empty
// result means there is no displayable image.
func Display(inline, storedPath, publicPrefix string) string {
	if inline != "" {
		if strings.HasPrefix(inline, "data:") {
			return inline
		}
		return InlineMarker + inline
	}
	if storedPath == "" {
		return ""
	}
	if strings.HasPrefix(storedPath, "http://") || strings.HasPrefix(storedPath, "https://") {
		return storedPath
	}
	prefix := strings.TrimSuffix(publicPrefix, "/")
	if strings.HasPrefix(storedPath, prefix+"/") {
		return storedPath
	}
	return prefix + "/" + strings.TrimPrefix(storedPath, "/")
}

// DisplayThumb normalizes a thumbnail reference. Thumbnails have no
// inline generation, so a record without a thumbnail path falls back to
// the full image reference.
func DisplayThumb(inline, thumbPath, publicPrefix string) string {
	if thumbPath != "" {
		return Display("", thumbPath, publicPrefix)
	}
	return Display(inline, "", publicPrefix)
}
