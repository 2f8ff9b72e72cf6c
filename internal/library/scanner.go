package library

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	// Codecs registered for dimension probing.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/h2non/filetype"
	"github.com/maruel/natural"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// SortMode controls the display order of images.
type SortMode string

const (
	// SortName orders by path, byte-wise. This matches the site updater.
	SortName SortMode = "name"

	// SortNatural orders by path with embedded numbers compared numerically,
	// so img2 comes before img10.
	SortNatural SortMode = "natural"

	// SortModTime orders by file modification time, oldest first.
	SortModTime SortMode = "modtime"
)

// ErrArtDirMissing is returned when the configured art directory does not
// exist or is not a directory.
var ErrArtDirMissing = errors.New("art directory not found")

// descriptionFile is an optional markdown blurb inside a collection directory.
const descriptionFile = "description.md"

// sniffLen is the number of header bytes needed for content type detection.
const sniffLen = 262

// ScanOptions configures a library scan.
type ScanOptions struct {
	// ArtDir is the root of the image library.
	ArtDir string

	// Extensions lists recognized image extensions, with or without the
	// leading dot. Matching is case-insensitive.
	Extensions []string

	// Excludes holds glob patterns for files and directories to skip,
	// relative to ArtDir. Patterns without a slash also match base names
	// anywhere in the tree.
	Excludes []string

	// Sort selects the display order. Defaults to SortName.
	Sort SortMode

	// SniffTypes verifies file content instead of trusting the extension.
	// SVG files are exempt; they are XML and have no magic number.
	SniffTypes bool

	// ProbeSizes reads image headers to record pixel dimensions.
	ProbeSizes bool

	// Logger for scan diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultScanOptions returns scan options with the standard extension set.
func DefaultScanOptions(artDir string) ScanOptions {
	return ScanOptions{
		ArtDir:     artDir,
		Extensions: []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg"},
		Sort:       SortName,
		ProbeSizes: true,
	}
}

// Scanner walks an art directory and builds a Library. First-level
// subdirectories become collections; images directly in the root belong to
// the gallery only.
type Scanner struct {
	opts ScanOptions
	exts map[string]bool
	log  *slog.Logger
}

// NewScanner validates the options and returns a scanner.
func NewScanner(opts ScanOptions) (*Scanner, error) {
	if opts.ArtDir == "" {
		return nil, errors.New("art directory is required")
	}
	if len(opts.Extensions) == 0 {
		return nil, errors.New("at least one image extension is required")
	}

	switch opts.Sort {
	case "":
		opts.Sort = SortName
	case SortName, SortNatural, SortModTime:
	default:
		return nil, fmt.Errorf("unknown sort mode %q", opts.Sort)
	}

	for _, pattern := range opts.Excludes {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	exts := make(map[string]bool, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[ext] = true
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Scanner{opts: opts, exts: exts, log: logger}, nil
}

// Scan walks the art directory and returns the resulting library. The
// context cancels long walks over large trees.
func (s *Scanner) Scan(ctx context.Context) (*Library, error) {
	root, err := filepath.Abs(s.opts.ArtDir)
	if err != nil {
		return nil, fmt.Errorf("resolve art directory: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrArtDirMissing, root)
		}
		return nil, fmt.Errorf("stat art directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrArtDirMissing, root)
	}

	lib := &Library{ArtDir: root}
	groups := make(map[string][]*Image)

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if s.excluded(rel) {
				s.log.Debug("directory excluded", "path", rel)
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(d.Name()))
		if !s.exts[ext] {
			return nil
		}
		if s.excluded(rel) {
			s.log.Debug("image excluded", "path", rel)
			return nil
		}
		if s.opts.SniffTypes && ext != ".svg" {
			ok, err := sniffImage(p)
			if err != nil {
				s.log.Warn("could not sniff file type", "path", rel, "error", err)
				return nil
			}
			if !ok {
				s.log.Warn("extension does not match content, skipping", "path", rel)
				return nil
			}
		}

		fi, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", rel, err)
		}

		stem := strings.TrimSuffix(d.Name(), ext)
		img := &Image{
			Path:     p,
			RelPath:  rel,
			FileName: d.Name(),
			Title:    DisplayTitle(stem),
			Size:     fi.Size(),
			ModTime:  fi.ModTime(),
		}

		if i := strings.IndexByte(rel, '/'); i >= 0 {
			top := rel[:i]
			img.Collection = CollectionKey(top)
			groups[top] = append(groups[top], img)
		}
		lib.Images = append(lib.Images, img)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk art directory: %w", err)
	}

	if s.opts.ProbeSizes {
		for _, img := range lib.Images {
			if strings.EqualFold(filepath.Ext(img.FileName), ".svg") {
				continue
			}
			w, h, err := probeSize(img.Path)
			if err != nil {
				s.log.Debug("could not read image header", "path", img.RelPath, "error", err)
				continue
			}
			img.Width, img.Height = w, h
		}
	}

	sortImages(lib.Images, s.opts.Sort)

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sortCollectionNames(names, s.opts.Sort)

	for _, name := range names {
		images := groups[name]
		sortImages(images, s.opts.Sort)
		lib.Collections = append(lib.Collections, &Collection{
			Key:         CollectionKey(name),
			Name:        name,
			DisplayName: DisplayTitle(name),
			Description: readDescription(filepath.Join(root, name)),
			Images:      images,
		})
	}

	lib.ScannedAt = time.Now()
	s.log.Info("library scanned",
		"art_dir", root,
		"images", len(lib.Images),
		"collections", len(lib.Collections))
	return lib, nil
}

// excluded reports whether rel matches any exclude pattern. Patterns without
// a slash are also tried against the base name, like gitignore entries.
func (s *Scanner) excluded(rel string) bool {
	base := path.Base(rel)
	for _, pattern := range s.opts.Excludes {
		if ok, _ := doublestar.PathMatch(pattern, rel); ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, _ := doublestar.Match(pattern, base); ok {
				return true
			}
		}
	}
	return false
}

// sniffImage reports whether the file header identifies a known image type.
func sniffImage(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, sniffLen)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return false, err
	}
	return filetype.IsImage(head[:n]), nil
}

// probeSize decodes only the image header to obtain pixel dimensions.
func probeSize(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// readDescription returns the trimmed contents of the collection's
// description.md, or "" when absent.
func readDescription(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, descriptionFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func sortImages(images []*Image, mode SortMode) {
	switch mode {
	case SortNatural:
		sort.Slice(images, func(i, j int) bool {
			return natural.Less(images[i].RelPath, images[j].RelPath)
		})
	case SortModTime:
		sort.Slice(images, func(i, j int) bool {
			if images[i].ModTime.Equal(images[j].ModTime) {
				return images[i].RelPath < images[j].RelPath
			}
			return images[i].ModTime.Before(images[j].ModTime)
		})
	default:
		sort.Slice(images, func(i, j int) bool {
			return images[i].RelPath < images[j].RelPath
		})
	}
}

// sortCollectionNames orders collection directory names. Modification time
// is meaningless for directories, so that mode falls back to name order.
func sortCollectionNames(names []string, mode SortMode) {
	if mode == SortNatural {
		sort.Sort(natural.StringSlice(names))
		return
	}
	sort.Strings(names)
}
