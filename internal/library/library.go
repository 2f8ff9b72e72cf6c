// Package library models an artist's image library: a directory tree whose
// first-level subdirectories are collections and whose images make up the
// gallery.
package library

import (
	"strings"
	"time"

	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Image is a single artwork file found in the library.
type Image struct {
	// Path is the absolute path to the image file.
	Path string

	// RelPath is the path relative to the art directory, slash-separated.
	RelPath string

	// FileName is the base name including extension.
	FileName string

	// Title is the display title derived from the file name.
	Title string

	// Collection is the key of the owning collection, or "" for images that
	// sit directly in the art directory root.
	Collection string

	// Size is the file size in bytes.
	Size int64

	// ModTime is the file modification time.
	ModTime time.Time

	// Width and Height are the pixel dimensions, or 0 when unknown (SVG and
	// files whose header could not be read).
	Width  int
	Height int
}

// Collection is a named group of images backed by a first-level subdirectory
// of the art directory.
type Collection struct {
	// Key is the stable identifier derived from the directory name.
	Key string

	// Name is the raw directory name.
	Name string

	// DisplayName is the human-readable title derived from the name.
	DisplayName string

	// Description is the raw markdown from an optional description.md in the
	// collection directory, or "".
	Description string

	// Images holds the collection's images in display order.
	Images []*Image
}

// Library is the result of one scan of the art directory.
type Library struct {
	// ArtDir is the absolute path of the scanned root.
	ArtDir string

	// Images holds every image in the library in display order, including
	// those inside collections.
	Images []*Image

	// Collections holds the non-empty collections ordered by directory name.
	Collections []*Collection

	// ScannedAt records when the scan finished.
	ScannedAt time.Time
}

// FindCollection returns the collection with the given key, or nil.
func (l *Library) FindCollection(key string) *Collection {
	for _, c := range l.Collections {
		if c.Key == key {
			return c
		}
	}
	return nil
}

// IsEmpty reports whether the scan found no images at all.
func (l *Library) IsEmpty() bool {
	return len(l.Images) == 0
}

// titleCaser capitalizes words the way the site updater always has.
var titleCaser = cases.Title(language.English)

// DisplayTitle converts a file stem or directory name into a display title:
// underscores and dashes become spaces, then each word is title-cased.
func DisplayTitle(name string) string {
	s := strings.ReplaceAll(name, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	return titleCaser.String(s)
}

// CollectionKey derives a stable, URL-safe key from a directory name.
func CollectionKey(name string) string {
	return slug.Make(name)
}
