package site

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const markerTestPage = `<!DOCTYPE html>
<body>
    <div class="gallery-grid">
        <!-- GALLERY_IMAGES_START -->
        <div>old content</div>
        <!-- GALLERY_IMAGES_END -->
    </div>
</body>
`

func TestSplice(t *testing.T) {
	got, err := Splice(markerTestPage, "        <div>new content</div>", GalleryStartMarker, GalleryEndMarker)
	if err != nil {
		t.Fatalf("Failed to splice: %v", err)
	}

	want := `<!DOCTYPE html>
<body>
    <div class="gallery-grid">
        <!-- GALLERY_IMAGES_START -->
        <div>new content</div>
        <!-- GALLERY_IMAGES_END -->
    </div>
</body>
`
	if got != want {
		t.Errorf("Spliced content mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestSpliceIdempotent(t *testing.T) {
	fragment := "        <div>stable</div>"

	once, err := Splice(markerTestPage, fragment, GalleryStartMarker, GalleryEndMarker)
	if err != nil {
		t.Fatalf("Failed to splice: %v", err)
	}
	twice, err := Splice(once, fragment, GalleryStartMarker, GalleryEndMarker)
	if err != nil {
		t.Fatalf("Failed to splice again: %v", err)
	}

	if once != twice {
		t.Errorf("Splicing its own output changed the content:\nfirst:\n%s\nsecond:\n%s", once, twice)
	}
}

func TestSpliceMissingStartMarker(t *testing.T) {
	_, err := Splice("<body>no markers here</body>", "x", GalleryStartMarker, GalleryEndMarker)
	if err == nil {
		t.Fatal("Expected error for missing start marker")
	}
	if !strings.Contains(err.Error(), GalleryStartMarker) {
		t.Errorf("Error should name the marker, got: %v", err)
	}
}

func TestSpliceMissingEndMarker(t *testing.T) {
	content := "<body>" + CollectionsStartMarker + "</body>"
	_, err := Splice(content, "x", CollectionsStartMarker, CollectionsEndMarker)
	if err == nil {
		t.Fatal("Expected error for missing end marker")
	}
	if !strings.Contains(err.Error(), CollectionsEndMarker) {
		t.Errorf("Error should name the marker, got: %v", err)
	}
}

func TestSpliceMarkersOutOfOrder(t *testing.T) {
	content := "<body>" + GalleryEndMarker + " " + GalleryStartMarker + "</body>"
	_, err := Splice(content, "x", GalleryStartMarker, GalleryEndMarker)
	if err == nil {
		t.Fatal("Expected error for markers out of order")
	}
}

func TestSpliceUnindentedEndMarker(t *testing.T) {
	content := GalleryStartMarker + "\nold\n" + GalleryEndMarker + "\n"
	got, err := Splice(content, "new", GalleryStartMarker, GalleryEndMarker)
	if err != nil {
		t.Fatalf("Failed to splice: %v", err)
	}

	want := GalleryStartMarker + "\nnew\n" + GalleryEndMarker + "\n"
	if got != want {
		t.Errorf("Spliced content mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestSpliceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gallery.html")
	if err := os.WriteFile(path, []byte(markerTestPage), 0o644); err != nil {
		t.Fatalf("Failed to write page: %v", err)
	}

	if err := SpliceFile(path, "        <div>from file</div>", GalleryStartMarker, GalleryEndMarker); err != nil {
		t.Fatalf("Failed to splice file: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read page back: %v", err)
	}
	if !strings.Contains(string(content), "<div>from file</div>") {
		t.Error("Page should contain the new fragment")
	}
	if strings.Contains(string(content), "old content") {
		t.Error("Page should no longer contain the old fragment")
	}
}

func TestSpliceFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.html")

	err := SpliceFile(path, "x", GalleryStartMarker, GalleryEndMarker)
	if err == nil {
		t.Fatal("Expected error for missing page file")
	}
	if !strings.Contains(err.Error(), "missing.html") {
		t.Errorf("Error should name the page file, got: %v", err)
	}
}

func TestSpliceFileMissingMarkers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.html")
	if err := os.WriteFile(path, []byte("<body>nothing to see</body>"), 0o644); err != nil {
		t.Fatalf("Failed to write page: %v", err)
	}

	err := SpliceFile(path, "x", CollectionsStartMarker, CollectionsEndMarker)
	if err == nil {
		t.Fatal("Expected error for page without markers")
	}
	if !strings.Contains(err.Error(), "plain.html") {
		t.Errorf("Error should name the page file, got: %v", err)
	}
	if !strings.Contains(err.Error(), CollectionsStartMarker) {
		t.Errorf("Error should name the marker, got: %v", err)
	}
}
