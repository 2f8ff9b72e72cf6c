package site

import (
	"fmt"
	"path/filepath"

	"github.com/atelierhq/atelier/internal/library"
)

// Updater rewrites the gallery and collections pages from a scanned library.
type Updater struct {
	galleryFile     string
	collectionsFile string
}

// NewUpdater creates an Updater for the two page files.
func NewUpdater(galleryFile, collectionsFile string) (*Updater, error) {
	if galleryFile == "" {
		return nil, fmt.Errorf("gallery page path is required")
	}
	if collectionsFile == "" {
		return nil, fmt.Errorf("collections page path is required")
	}
	return &Updater{
		galleryFile:     galleryFile,
		collectionsFile: collectionsFile,
	}, nil
}

// UpdateResult reports what one update pass touched.
type UpdateResult struct {
	// GalleryImages is the number of grid items written to the gallery page.
	GalleryImages int

	// Collections is the number of sections written to the collections page.
	Collections int

	// CollectionImages is the number of cards across all sections.
	CollectionImages int

	// GalleryUpdated is false when the library had no images, in which case
	// the gallery page was left untouched.
	GalleryUpdated bool

	// CollectionsUpdated is false when the library had no collections.
	CollectionsUpdated bool
}

// Update regenerates both pages from the library. A library with no images
// leaves the gallery page alone rather than blanking it, and likewise for
// collections.
func (u *Updater) Update(lib *library.Library) (*UpdateResult, error) {
	if lib == nil {
		return nil, fmt.Errorf("library is nil")
	}

	result := &UpdateResult{}

	if len(lib.Images) > 0 {
		fragment, err := RenderGallery(lib.Images, filepath.Dir(u.galleryFile))
		if err != nil {
			return nil, err
		}
		if err := SpliceFile(u.galleryFile, fragment, GalleryStartMarker, GalleryEndMarker); err != nil {
			return nil, err
		}
		result.GalleryImages = len(lib.Images)
		result.GalleryUpdated = true
	}

	if len(lib.Collections) > 0 {
		fragment, err := RenderCollections(lib.Collections, filepath.Dir(u.collectionsFile))
		if err != nil {
			return nil, err
		}
		if err := SpliceFile(u.collectionsFile, fragment, CollectionsStartMarker, CollectionsEndMarker); err != nil {
			return nil, err
		}
		result.Collections = len(lib.Collections)
		for _, c := range lib.Collections {
			result.CollectionImages += len(c.Images)
		}
		result.CollectionsUpdated = true
	}

	return result, nil
}

// GalleryFile returns the path of the gallery page.
func (u *Updater) GalleryFile() string {
	return u.galleryFile
}

// CollectionsFile returns the path of the collections page.
func (u *Updater) CollectionsFile() string {
	return u.collectionsFile
}
