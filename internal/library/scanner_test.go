package library

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writePNG writes a real encoded PNG so dimension probing and sniffing see
// valid image data.
func writePNG(t *testing.T, path string, width, height int) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create parent dir: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Failed to close %s: %v", path, err)
	}
}

func mustScanner(t *testing.T, opts ScanOptions) *Scanner {
	t.Helper()
	s, err := NewScanner(opts)
	if err != nil {
		t.Fatalf("NewScanner() error = %v", err)
	}
	return s
}

func TestNewScannerValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    ScanOptions
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			opts:    DefaultScanOptions("art"),
			wantErr: false,
		},
		{
			name:    "missing art dir",
			opts:    ScanOptions{Extensions: []string{".png"}},
			wantErr: true,
		},
		{
			name:    "no extensions",
			opts:    ScanOptions{ArtDir: "art"},
			wantErr: true,
		},
		{
			name: "unknown sort mode",
			opts: ScanOptions{
				ArtDir:     "art",
				Extensions: []string{".png"},
				Sort:       SortMode("size"),
			},
			wantErr: true,
		},
		{
			name: "invalid exclude pattern",
			opts: ScanOptions{
				ArtDir:     "art",
				Extensions: []string{".png"},
				Excludes:   []string{"wip["},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScanner(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewScanner() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestScanMissingDir(t *testing.T) {
	s := mustScanner(t, DefaultScanOptions(filepath.Join(t.TempDir(), "nope")))

	_, err := s.Scan(context.Background())
	if !errors.Is(err, ErrArtDirMissing) {
		t.Errorf("Expected ErrArtDirMissing, got %v", err)
	}
}

func TestScanEmptyDir(t *testing.T) {
	s := mustScanner(t, DefaultScanOptions(t.TempDir()))

	lib, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if !lib.IsEmpty() {
		t.Errorf("Expected empty library, got %d images", len(lib.Images))
	}
	if len(lib.Collections) != 0 {
		t.Errorf("Expected no collections, got %d", len(lib.Collections))
	}
}

func TestScanGroupsCollections(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "cover_art.png"), 2, 2)
	writePNG(t, filepath.Join(dir, "sunset.png"), 2, 2)
	writePNG(t, filepath.Join(dir, "ink_studies", "01_first.png"), 2, 2)
	writePNG(t, filepath.Join(dir, "ink_studies", "02_second.png"), 2, 2)
	if err := os.MkdirAll(filepath.Join(dir, "empty_folder"), 0o755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}

	s := mustScanner(t, DefaultScanOptions(dir))
	lib, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if len(lib.Images) != 4 {
		t.Fatalf("Expected 4 images, got %d", len(lib.Images))
	}
	if len(lib.Collections) != 1 {
		t.Fatalf("Expected 1 collection (empty folders skipped), got %d", len(lib.Collections))
	}

	c := lib.Collections[0]
	if c.Name != "ink_studies" {
		t.Errorf("Expected collection name ink_studies, got %q", c.Name)
	}
	if c.DisplayName != "Ink Studies" {
		t.Errorf("Expected display name Ink Studies, got %q", c.DisplayName)
	}
	if len(c.Images) != 2 {
		t.Fatalf("Expected 2 collection images, got %d", len(c.Images))
	}
	for _, img := range c.Images {
		if img.Collection != c.Key {
			t.Errorf("Expected image collection %q, got %q", c.Key, img.Collection)
		}
	}
	if lib.FindCollection(c.Key) != c {
		t.Errorf("FindCollection(%q) did not return the collection", c.Key)
	}
	if lib.FindCollection("does-not-exist") != nil {
		t.Error("FindCollection for unknown key should return nil")
	}

	// Gallery order is byte-wise by relative path.
	wantOrder := []string{
		"cover_art.png",
		"ink_studies/01_first.png",
		"ink_studies/02_second.png",
		"sunset.png",
	}
	for i, want := range wantOrder {
		if lib.Images[i].RelPath != want {
			t.Errorf("Image %d: expected %q, got %q", i, want, lib.Images[i].RelPath)
		}
	}
}

func TestScanSortModes(t *testing.T) {
	dir := t.TempDir()
	names := []string{"img1.png", "img10.png", "img2.png"}
	for _, name := range names {
		writePNG(t, filepath.Join(dir, name), 1, 1)
	}

	// Spread modification times so modtime order differs from name order.
	base := time.Now().Add(-time.Hour)
	for i, name := range []string{"img10.png", "img1.png", "img2.png"} {
		ts := base.Add(time.Duration(i) * time.Minute)
		if err := os.Chtimes(filepath.Join(dir, name), ts, ts); err != nil {
			t.Fatalf("Failed to set mtime: %v", err)
		}
	}

	tests := []struct {
		name string
		mode SortMode
		want []string
	}{
		{"name", SortName, []string{"img1.png", "img10.png", "img2.png"}},
		{"natural", SortNatural, []string{"img1.png", "img2.png", "img10.png"}},
		{"modtime", SortModTime, []string{"img10.png", "img1.png", "img2.png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultScanOptions(dir)
			opts.Sort = tt.mode
			s := mustScanner(t, opts)

			lib, err := s.Scan(context.Background())
			if err != nil {
				t.Fatalf("Scan() error = %v", err)
			}
			if len(lib.Images) != len(tt.want) {
				t.Fatalf("Expected %d images, got %d", len(tt.want), len(lib.Images))
			}
			for i, want := range tt.want {
				if lib.Images[i].FileName != want {
					t.Errorf("Position %d: expected %q, got %q", i, want, lib.Images[i].FileName)
				}
			}
		})
	}
}

func TestScanExcludes(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "keep.png"), 1, 1)
	writePNG(t, filepath.Join(dir, "piece_draft.png"), 1, 1)
	writePNG(t, filepath.Join(dir, "wip", "sketch.png"), 1, 1)

	opts := DefaultScanOptions(dir)
	opts.Excludes = []string{"wip", "*_draft.png"}
	s := mustScanner(t, opts)

	lib, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(lib.Images) != 1 || lib.Images[0].FileName != "keep.png" {
		t.Errorf("Expected only keep.png, got %d images", len(lib.Images))
	}
}

func TestScanSkipsHiddenDirs(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "visible.png"), 1, 1)
	writePNG(t, filepath.Join(dir, ".cache", "hidden.png"), 1, 1)

	s := mustScanner(t, DefaultScanOptions(dir))
	lib, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(lib.Images) != 1 || lib.Images[0].FileName != "visible.png" {
		t.Errorf("Expected only visible.png, got %d images", len(lib.Images))
	}
}

func TestScanSniffRejectsMislabeledFile(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "real.png"), 1, 1)
	if err := os.WriteFile(filepath.Join(dir, "fake.png"), []byte("not an image"), 0o644); err != nil {
		t.Fatalf("Failed to write fake image: %v", err)
	}

	opts := DefaultScanOptions(dir)
	opts.SniffTypes = true
	s := mustScanner(t, opts)

	lib, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(lib.Images) != 1 || lib.Images[0].FileName != "real.png" {
		t.Errorf("Expected only real.png, got %d images", len(lib.Images))
	}
}

func TestScanProbesDimensions(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "wide.png"), 3, 2)

	s := mustScanner(t, DefaultScanOptions(dir))
	lib, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(lib.Images) != 1 {
		t.Fatalf("Expected 1 image, got %d", len(lib.Images))
	}
	img := lib.Images[0]
	if img.Width != 3 || img.Height != 2 {
		t.Errorf("Expected 3x2, got %dx%d", img.Width, img.Height)
	}
	if img.Size <= 0 {
		t.Errorf("Expected positive file size, got %d", img.Size)
	}
}

func TestScanReadsDescription(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "prints", "a.png"), 1, 1)
	desc := "# Prints\n\nLimited runs.\n"
	if err := os.WriteFile(filepath.Join(dir, "prints", "description.md"), []byte(desc), 0o644); err != nil {
		t.Fatalf("Failed to write description: %v", err)
	}

	s := mustScanner(t, DefaultScanOptions(dir))
	lib, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(lib.Collections) != 1 {
		t.Fatalf("Expected 1 collection, got %d", len(lib.Collections))
	}
	if got := lib.Collections[0].Description; got != "# Prints\n\nLimited runs." {
		t.Errorf("Unexpected description: %q", got)
	}
	// The markdown file itself is not an image.
	if len(lib.Images) != 1 {
		t.Errorf("Expected 1 image, got %d", len(lib.Images))
	}
}

func TestScanCanceledContext(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 1, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := mustScanner(t, DefaultScanOptions(dir))
	if _, err := s.Scan(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestDisplayTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"sunset", "Sunset"},
		{"ink_studies", "Ink Studies"},
		{"my-first-piece", "My First Piece"},
		{"mixed_style-name", "Mixed Style Name"},
		{"piece_01", "Piece 01"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := DisplayTitle(tt.in); got != tt.want {
				t.Errorf("DisplayTitle(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCollectionKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ink Studies", "ink-studies"},
		{"SUNSET", "sunset"},
		{"pen & paper", "pen-and-paper"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := CollectionKey(tt.in); got != tt.want {
				t.Errorf("CollectionKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
