package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// SortMode values control the ordering of images inside a collection and in
// the gallery.
const (
	SortByName    = "name"    // byte-wise path order, matches the site updater
	SortByNatural = "natural" // img2 before img10
	SortByModTime = "modtime" // oldest first
)

// Config represents the application configuration.
type Config struct {
	// Library holds art directory scanning settings
	Library LibraryConfig `toml:"library"`

	// Pages holds static site page settings
	Pages PagesConfig `toml:"pages"`

	// Carousel holds collection carousel settings
	Carousel CarouselConfig `toml:"carousel"`

	// Thumbs holds thumbnail cache settings
	Thumbs ThumbsConfig `toml:"thumbs"`

	// Watch holds art directory watcher settings
	Watch WatchConfig `toml:"watch"`

	// Server holds preview server settings
	Server ServerConfig `toml:"server"`

	// Backup holds automatic index backup settings
	Backup BackupConfig `toml:"backup"`

	// App holds general application settings
	App AppConfig `toml:"app"`
}

// LibraryConfig contains art directory scanning settings.
type LibraryConfig struct {
	ArtDir     string   `toml:"art_dir"`     // Root of the image library
	Extensions []string `toml:"extensions"`  // Recognized image extensions
	Excludes   []string `toml:"excludes"`    // Glob patterns to skip (doublestar)
	SortMode   string   `toml:"sort_mode"`   // name | natural | modtime
	SniffTypes bool     `toml:"sniff_types"` // Verify file content, not just extension
}

// PagesConfig locates the static site pages the updater rewrites.
type PagesConfig struct {
	GalleryFile     string `toml:"gallery_file"`     // Page holding the gallery grid markers
	CollectionsFile string `toml:"collections_file"` // Page holding the collections markers
}

// CarouselConfig contains collection carousel settings.
type CarouselConfig struct {
	CardWidth  float32 `toml:"card_width"`  // Card width in display units
	CardHeight float32 `toml:"card_height"` // Card height in display units
	Gap        float32 `toml:"gap"`         // Horizontal gap between cards
}

// ThumbsConfig contains thumbnail cache settings.
type ThumbsConfig struct {
	CacheDir    string `toml:"cache_dir"`    // Directory for generated thumbnails ("" = default)
	MaxSizeMB   int64  `toml:"max_size_mb"`  // Cache budget in MB (0 = unlimited)
	CardSize    int    `toml:"card_size"`    // Longest edge for carousel cards
	GridSize    int    `toml:"grid_size"`    // Longest edge for gallery grid cells
	JPEGQuality int    `toml:"jpeg_quality"` // 1..100
}

// WatchConfig contains art directory watcher settings.
type WatchConfig struct {
	Enabled     bool   `toml:"enabled"`      // Watch the art dir while the app runs
	MinInterval string `toml:"min_interval"` // Minimum time between rescans (e.g. "1s")
}

// ServerConfig contains preview server settings.
type ServerConfig struct {
	Port     int  `toml:"port"`      // Listen port for `atelier serve`
	AllowAll bool `toml:"allow_all"` // Allow all CORS origins
}

// BackupConfig contains automatic index backup settings.
type BackupConfig struct {
	Auto     bool   `toml:"auto"`     // Back up the index on a schedule while the app runs
	Interval string `toml:"interval"` // Time between backups (e.g. "24h")
	Keep     int    `toml:"keep"`     // Backup files to retain, oldest pruned first
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode           bool `toml:"debug_mode"`           // Enable debug logging
	OnboardingCompleted bool `toml:"onboarding_completed"` // First-run wizard has been shown
}

// DefaultConfig returns the default configuration. The library layout matches
// the original portfolio site: an art/ folder next to a pages/ folder.
func DefaultConfig() *Config {
	return &Config{
		Library: LibraryConfig{
			ArtDir:     "art",
			Extensions: []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg"},
			Excludes:   nil,
			SortMode:   SortByName,
			SniffTypes: false,
		},
		Pages: PagesConfig{
			GalleryFile:     filepath.Join("pages", "gallery.html"),
			CollectionsFile: filepath.Join("pages", "collections.html"),
		},
		Carousel: CarouselConfig{
			CardWidth:  220,
			CardHeight: 260,
			Gap:        32,
		},
		Thumbs: ThumbsConfig{
			CacheDir:    "",
			MaxSizeMB:   500,
			CardSize:    440,
			GridSize:    512,
			JPEGQuality: 85,
		},
		Watch: WatchConfig{
			Enabled:     true,
			MinInterval: "1s",
		},
		Server: ServerConfig{
			Port:     8899,
			AllowAll: false,
		},
		Backup: BackupConfig{
			Auto:     false,
			Interval: "24h",
			Keep:     10,
		},
		App: AppConfig{
			DebugMode:           false,
			OnboardingCompleted: false,
		},
	}
}

// Dir returns the atelier configuration directory, creating it if needed.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".atelier")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return configDir, nil
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads the configuration from disk. Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile loads the configuration from the given path. Returns default
// config if the file doesn't exist. Settings absent from the file keep their
// default values.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return config, nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile saves the configuration to the given path.
func (c *Config) SaveFile(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	switch c.Library.SortMode {
	case SortByName, SortByNatural, SortByModTime:
	default:
		return fmt.Errorf("invalid sort mode %q (want %s, %s or %s)",
			c.Library.SortMode, SortByName, SortByNatural, SortByModTime)
	}

	if len(c.Library.Extensions) == 0 {
		return fmt.Errorf("at least one image extension is required")
	}

	if c.Carousel.CardWidth <= 0 {
		return fmt.Errorf("carousel card width must be positive: %v", c.Carousel.CardWidth)
	}
	if c.Carousel.Gap < 0 {
		return fmt.Errorf("carousel gap cannot be negative: %v", c.Carousel.Gap)
	}

	if c.Thumbs.MaxSizeMB < 0 {
		return fmt.Errorf("thumbnail cache size cannot be negative: %d", c.Thumbs.MaxSizeMB)
	}
	if c.Thumbs.CardSize <= 0 || c.Thumbs.GridSize <= 0 {
		return fmt.Errorf("thumbnail sizes must be positive")
	}
	if c.Thumbs.JPEGQuality < 1 || c.Thumbs.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality must be in 1..100: %d", c.Thumbs.JPEGQuality)
	}

	if _, err := time.ParseDuration(c.Watch.MinInterval); err != nil {
		return fmt.Errorf("invalid watch min interval %q: %w", c.Watch.MinInterval, err)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}

	if _, err := time.ParseDuration(c.Backup.Interval); err != nil {
		return fmt.Errorf("invalid backup interval %q: %w", c.Backup.Interval, err)
	}
	if c.Backup.Keep < 1 {
		return fmt.Errorf("backup retention must keep at least one file: %d", c.Backup.Keep)
	}

	return nil
}

// GetWatchMinInterval returns the watcher coalescing interval as a duration.
func (c *Config) GetWatchMinInterval() (time.Duration, error) {
	return time.ParseDuration(c.Watch.MinInterval)
}

// GetBackupInterval returns the automatic backup interval as a duration.
func (c *Config) GetBackupInterval() (time.Duration, error) {
	return time.ParseDuration(c.Backup.Interval)
}
