package site

import (
	"fmt"
	"os"
	"strings"
)

// Marker comments bracket the generated regions of the static pages. Only
// the text between a pair is rewritten; the rest of the page is preserved.
const (
	GalleryStartMarker = "<!-- GALLERY_IMAGES_START -->"
	GalleryEndMarker   = "<!-- GALLERY_IMAGES_END -->"

	CollectionsStartMarker = "<!-- COLLECTIONS_START -->"
	CollectionsEndMarker   = "<!-- COLLECTIONS_END -->"
)

// Splice replaces the text between startMarker and endMarker in content with
// fragment. The markers themselves stay in place, so the operation can be
// repeated on its own output. The end marker keeps the indentation it has in
// the page.
func Splice(content, fragment, startMarker, endMarker string) (string, error) {
	startIdx := strings.Index(content, startMarker)
	if startIdx == -1 {
		return "", fmt.Errorf("start marker %q not found", startMarker)
	}
	endIdx := strings.Index(content, endMarker)
	if endIdx == -1 {
		return "", fmt.Errorf("end marker %q not found", endMarker)
	}
	if endIdx < startIdx {
		return "", fmt.Errorf("end marker %q appears before start marker %q", endMarker, startMarker)
	}

	head := content[:startIdx+len(startMarker)]
	tail := content[endIdx:]
	return head + "\n" + fragment + "\n" + markerIndent(content, endIdx) + tail, nil
}

// SpliceFile rewrites the region between the markers in the page at path.
func SpliceFile(path, fragment, startMarker, endMarker string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read page %s: %w", path, err)
	}

	updated, err := Splice(string(content), fragment, startMarker, endMarker)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", path, err)
	}

	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("failed to write page %s: %w", path, err)
	}
	return nil
}

// markerIndent returns the whitespace prefix of the line holding the marker
// at idx, or "" when the marker does not start its line.
func markerIndent(content string, idx int) string {
	lineStart := strings.LastIndexByte(content[:idx], '\n') + 1
	prefix := content[lineStart:idx]
	if strings.TrimSpace(prefix) != "" {
		return ""
	}
	return prefix
}
