package gui

import (
	"fmt"

	"fyne.io/fyne/v2"

	"github.com/atelierhq/atelier/internal/library"
)

// viewerState holds the image sequence a lightbox is walking through. Every
// lightbox owns its own instance; there is no shared module-level viewer.
// Nothing here touches the screen.
type viewerState struct {
	images []*library.Image
	index  int
	open   bool
}

// show installs a sequence and opens the viewer on images[index].
func (v *viewerState) show(images []*library.Image, index int) error {
	if len(images) == 0 {
		return fmt.Errorf("lightbox opened with an empty image sequence")
	}
	if index < 0 || index >= len(images) {
		return fmt.Errorf("lightbox index %d out of range for %d images", index, len(images))
	}

	v.images = images
	v.index = index
	v.open = true
	return nil
}

// Close dismisses the viewer. The sequence stays in place, but navigation
// and key handling stop until the next open.
func (v *viewerState) Close() {
	v.open = false
}

// ShowNext advances to the next image, wrapping from the last image back to
// the first. It does nothing while the viewer is closed.
func (v *viewerState) ShowNext() {
	if !v.open || len(v.images) == 0 {
		return
	}
	v.index = (v.index + 1) % len(v.images)
}

// ShowPrev steps to the previous image, wrapping from the first image to
// the last. It does nothing while the viewer is closed.
func (v *viewerState) ShowPrev() {
	if !v.open || len(v.images) == 0 {
		return
	}
	v.index = (v.index - 1 + len(v.images)) % len(v.images)
}

// Current returns the image on display, or nil while the viewer is closed.
func (v *viewerState) Current() *library.Image {
	if !v.open || v.index < 0 || v.index >= len(v.images) {
		return nil
	}
	return v.images[v.index]
}

// Index returns the position of the current image in the active sequence.
func (v *viewerState) Index() int {
	return v.index
}

// Len returns the length of the active sequence.
func (v *viewerState) Len() int {
	return len(v.images)
}

// IsOpen reports whether the viewer is on display.
func (v *viewerState) IsOpen() bool {
	return v.open
}

// HandleKey reacts to Escape, Left and Right while the viewer is open and
// reports whether the key was consumed. Keys that arrive while the viewer
// is closed are ignored, as are keys the viewer has no use for.
func (v *viewerState) HandleKey(name fyne.KeyName) bool {
	if !v.open {
		return false
	}

	switch name {
	case fyne.KeyEscape:
		v.Close()
	case fyne.KeyLeft:
		v.ShowPrev()
	case fyne.KeyRight:
		v.ShowNext()
	default:
		return false
	}
	return true
}

// CollectionLightbox is the image viewer behind the collection strips.
// Every strip shares this one viewer: opening a group replaces the whole
// active sequence, so arrow navigation never crosses from one collection
// into another.
type CollectionLightbox struct {
	viewerState
	groups map[string][]*library.Image
}

// NewCollectionLightbox builds a lightbox over the given collections with
// one navigable group per collection key. Collections without images are
// left out.
func NewCollectionLightbox(collections []*library.Collection) *CollectionLightbox {
	groups := make(map[string][]*library.Image, len(collections))
	for _, c := range collections {
		if len(c.Images) == 0 {
			continue
		}
		groups[c.Key] = c.Images
	}
	return &CollectionLightbox{groups: groups}
}

// OpenGroup opens the viewer on image index of the named collection,
// replacing whatever sequence a previous open installed.
func (l *CollectionLightbox) OpenGroup(key string, index int) error {
	images, ok := l.groups[key]
	if !ok {
		return fmt.Errorf("no collection %q in the lightbox", key)
	}
	return l.show(images, index)
}

// GroupLen returns the image count of the named collection group, or 0 for
// an unknown key.
func (l *CollectionLightbox) GroupLen(key string) int {
	return len(l.groups[key])
}

// GalleryLightbox is the image viewer behind the flat gallery grid. Its
// sequence is fixed when the view is built and never replaced.
type GalleryLightbox struct {
	viewerState
}

// NewGalleryLightbox builds a lightbox over the gallery sequence. An empty
// sequence is rejected up front.
func NewGalleryLightbox(images []*library.Image) (*GalleryLightbox, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("gallery lightbox needs at least one image")
	}

	l := &GalleryLightbox{}
	l.images = images
	return l, nil
}

// Open opens the viewer on the image at index.
func (l *GalleryLightbox) Open(index int) error {
	return l.show(l.images, index)
}
