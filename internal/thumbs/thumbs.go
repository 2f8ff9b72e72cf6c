// Package thumbs generates and caches thumbnails for library images.
// Thumbnails are keyed by source path, modification time and size, so edited
// files regenerate automatically and the cache never serves stale previews.
package thumbs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"

	// WebP sources decode through the registry used by imaging.Open.
	_ "golang.org/x/image/webp"
)

// Size selects the thumbnail variant.
type Size string

const (
	// SizeCard is the carousel card variant.
	SizeCard Size = "card"

	// SizeGrid is the gallery grid variant.
	SizeGrid Size = "grid"
)

// Opaque sources become JPEG; sources with transparency keep it via PNG.
var thumbExts = [...]string{".jpg", ".png"}

// Options configures the thumbnail generator.
type Options struct {
	CacheDir    string // Directory to store generated thumbnails
	MaxSize     int64  // Maximum cache size in bytes (0 = unlimited)
	CardPx      int    // Longest edge for card thumbnails
	GridPx      int    // Longest edge for grid thumbnails
	JPEGQuality int    // 1..100
	Logger      *slog.Logger
}

// DefaultOptions returns sensible default generator options.
func DefaultOptions() Options {
	homeDir, _ := os.UserHomeDir()
	cacheDir := filepath.Join(homeDir, ".atelier", "thumbs")

	return Options{
		CacheDir:    cacheDir,
		MaxSize:     500 * 1024 * 1024, // 500 MB default
		CardPx:      440,
		GridPx:      512,
		JPEGQuality: 85,
	}
}

// Generator produces thumbnails on demand and keeps the cache directory
// within its size budget by evicting the least recently used files.
type Generator struct {
	cacheDir string
	maxSize  int64
	cardPx   int
	gridPx   int
	quality  int
	mu       sync.RWMutex
	sizes    map[string]int64     // Map of file path to file size
	lastUsed map[string]time.Time // LRU tracking
	log      *slog.Logger
}

// NewGenerator creates a thumbnail generator and indexes any thumbnails left
// over from previous runs.
func NewGenerator(options Options) (*Generator, error) {
	if options.CardPx <= 0 || options.GridPx <= 0 {
		return nil, fmt.Errorf("thumbnail sizes must be positive")
	}
	if options.JPEGQuality < 1 || options.JPEGQuality > 100 {
		return nil, fmt.Errorf("jpeg quality must be in 1..100: %d", options.JPEGQuality)
	}
	if err := os.MkdirAll(options.CacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	g := &Generator{
		cacheDir: options.CacheDir,
		maxSize:  options.MaxSize,
		cardPx:   options.CardPx,
		gridPx:   options.GridPx,
		quality:  options.JPEGQuality,
		sizes:    make(map[string]int64),
		lastUsed: make(map[string]time.Time),
		log:      logger,
	}

	if err := g.scan(); err != nil {
		return nil, fmt.Errorf("failed to scan cache directory: %w", err)
	}
	return g, nil
}

// Thumb returns the path of a cached thumbnail for the source image,
// generating it first if needed. Safe for concurrent use.
func (g *Generator) Thumb(sourcePath string, size Size) (string, error) {
	if sourcePath == "" {
		return "", fmt.Errorf("source path is empty")
	}
	switch size {
	case SizeCard, SizeGrid:
	default:
		return "", fmt.Errorf("unknown thumbnail size %q", size)
	}

	info, err := os.Stat(sourcePath)
	if err != nil {
		return "", fmt.Errorf("stat source image: %w", err)
	}

	px := g.pixels(size)
	base := g.cacheKey(sourcePath, info, size, px)

	// The output format depends on the source's transparency, so a cache hit
	// may be under either extension.
	g.mu.RLock()
	for _, ext := range thumbExts {
		cachePath := filepath.Join(g.cacheDir, base+ext)
		if _, exists := g.sizes[cachePath]; exists {
			g.mu.RUnlock()
			g.mu.Lock()
			g.lastUsed[cachePath] = time.Now()
			g.mu.Unlock()
			return cachePath, nil
		}
	}
	g.mu.RUnlock()

	return g.generateAndCache(sourcePath, base, px)
}

// generateAndCache renders the thumbnail into a temp file and moves it into
// the cache once complete, so readers never see partial files.
func (g *Generator) generateAndCache(sourcePath, base string, px int) (string, error) {
	src, err := loadImage(sourcePath, px)
	if err != nil {
		return "", fmt.Errorf("failed to load %s: %w", filepath.Base(sourcePath), err)
	}

	// Fit never upscales; small sources keep their dimensions.
	thumb := imaging.Fit(src, px, px, imaging.Lanczos)

	// JPEG has no alpha channel, so translucent sources stay PNG.
	translucent := hasAlpha(thumb)
	ext := ".jpg"
	if translucent {
		ext = ".png"
	}
	cachePath := filepath.Join(g.cacheDir, base+ext)

	tempFile, err := os.CreateTemp(g.cacheDir, "thumb-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	if translucent {
		err = imaging.Encode(tempFile, thumb, imaging.PNG)
	} else {
		err = imaging.Encode(tempFile, thumb, imaging.JPEG, imaging.JPEGQuality(g.quality))
	}
	if err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	info, err := os.Stat(tempPath)
	if err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("failed to stat temp file: %w", err)
	}
	size := info.Size()

	g.mu.Lock()
	if err := g.ensureSpace(size); err != nil {
		g.mu.Unlock()
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("failed to ensure cache space: %w", err)
	}
	if err := os.Rename(tempPath, cachePath); err != nil {
		g.mu.Unlock()
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("failed to move thumbnail into cache: %w", err)
	}
	g.sizes[cachePath] = size
	g.lastUsed[cachePath] = time.Now()
	g.mu.Unlock()

	g.log.Debug("thumbnail generated", "source", sourcePath, "px", px, "format", ext)
	return cachePath, nil
}

// ensureSpace evicts least recently used thumbnails to make room for a new
// file. Must be called with g.mu locked.
func (g *Generator) ensureSpace(neededSize int64) error {
	if g.maxSize == 0 {
		return nil
	}

	var currentSize int64
	for _, size := range g.sizes {
		currentSize += size
	}
	if currentSize+neededSize <= g.maxSize {
		return nil
	}

	type fileEntry struct {
		path     string
		lastUsed time.Time
		size     int64
	}
	files := make([]fileEntry, 0, len(g.sizes))
	for path, size := range g.sizes {
		files = append(files, fileEntry{path: path, lastUsed: g.lastUsed[path], size: size})
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].lastUsed.Before(files[j].lastUsed)
	})

	for _, file := range files {
		if currentSize+neededSize <= g.maxSize {
			break
		}
		if err := os.Remove(file.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to evict thumbnail: %w", err)
		}
		delete(g.sizes, file.path)
		delete(g.lastUsed, file.path)
		currentSize -= file.size
	}
	return nil
}

// Clear removes every cached thumbnail.
func (g *Generator) Clear() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for path := range g.sizes {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove thumbnail: %w", err)
		}
	}
	g.sizes = make(map[string]int64)
	g.lastUsed = make(map[string]time.Time)
	return nil
}

// Stats describes the current cache contents.
type Stats struct {
	TotalFiles int
	TotalSize  int64
	MaxSize    int64
	CacheDir   string
}

// CacheStats returns statistics about the cache.
func (g *Generator) CacheStats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var totalSize int64
	for _, size := range g.sizes {
		totalSize += size
	}
	return Stats{
		TotalFiles: len(g.sizes),
		TotalSize:  totalSize,
		MaxSize:    g.maxSize,
		CacheDir:   g.cacheDir,
	}
}

// scan initializes cache metadata from thumbnails already on disk.
func (g *Generator) scan() error {
	entries, err := os.ReadDir(g.cacheDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) == ".tmp" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(g.cacheDir, entry.Name())
		g.sizes[path] = info.Size()
		g.lastUsed[path] = info.ModTime()
	}
	return nil
}

func (g *Generator) pixels(size Size) int {
	if size == SizeCard {
		return g.cardPx
	}
	return g.gridPx
}

// cacheKey hashes the source identity so edits and config changes produce
// new cache entries instead of stale hits.
func (g *Generator) cacheKey(sourcePath string, info os.FileInfo, size Size, px int) string {
	abs, err := filepath.Abs(sourcePath)
	if err != nil {
		abs = sourcePath
	}
	id := fmt.Sprintf("%s|%d|%d|%s|%d", abs, info.ModTime().UnixNano(), info.Size(), size, px)
	hash := sha256.Sum256([]byte(id))
	return hex.EncodeToString(hash[:])
}

// loadImage decodes a raster image, or rasterizes an SVG at the target size.
func loadImage(path string, px int) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return RasterizeSVG(data, px, px)
	}
	return imaging.Open(path, imaging.AutoOrientation(true))
}

// hasAlpha reports whether any pixel is not fully opaque.
func hasAlpha(img *image.NRGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0xff {
			return true
		}
	}
	return false
}
