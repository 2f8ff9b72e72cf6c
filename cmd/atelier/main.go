package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/atelierhq/atelier/internal/config"
	"github.com/atelierhq/atelier/internal/gui"
	"github.com/atelierhq/atelier/internal/library"
	"github.com/atelierhq/atelier/internal/server"
	"github.com/atelierhq/atelier/internal/site"
	"github.com/atelierhq/atelier/internal/storage"
	"github.com/atelierhq/atelier/internal/storage/models"
	"github.com/atelierhq/atelier/internal/thumbs"
	"github.com/atelierhq/atelier/internal/version"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "gui":
			runGUICommand()
			return
		case "update":
			runUpdateCommand()
			return
		case "serve":
			runServeCommand()
			return
		case "thumbs":
			runThumbsCommand()
			return
		case "stats":
			runStatsCommand()
			return
		case "backup":
			runBackupCommand()
			return
		case "migrate":
			runMigrationCommand()
			return
		case "service":
			runServiceCommand()
			return
		case "version", "-v", "--version":
			fmt.Printf("atelier %s\n", version.String())
			return
		case "help", "-h", "--help":
			printUsage()
			return
		default:
			fmt.Printf("Unknown command: %s\n\n", os.Args[1])
			printUsage()
			os.Exit(1)
		}
	}

	// No arguments launches the desktop viewer.
	runGUICommand()
}

// getDBPath returns the library index path, honoring ATELIER_DB_PATH.
func getDBPath() string {
	if envPath := os.Getenv("ATELIER_DB_PATH"); envPath != "" {
		return envPath
	}
	dir, err := config.Dir()
	if err != nil {
		log.Fatalf("Failed to locate data directory: %v", err)
	}
	return filepath.Join(dir, "index.db")
}

// loadConfig loads and validates the configuration, falling back to
// defaults when no config file exists.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	return cfg
}

// setupLogging installs the default slog handler.
func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// newScanner builds a library scanner from the config.
func newScanner(cfg *config.Config) (*library.Scanner, error) {
	opts := library.DefaultScanOptions(cfg.Library.ArtDir)
	if len(cfg.Library.Extensions) > 0 {
		opts.Extensions = cfg.Library.Extensions
	}
	opts.Excludes = cfg.Library.Excludes
	opts.Sort = library.SortMode(cfg.Library.SortMode)
	opts.SniffTypes = cfg.Library.SniffTypes
	opts.Logger = slog.Default()
	return library.NewScanner(opts)
}

// newThumbs builds the thumbnail generator from the config.
func newThumbs(cfg *config.Config) (*thumbs.Generator, error) {
	opts := thumbs.DefaultOptions()
	if cfg.Thumbs.CacheDir != "" {
		opts.CacheDir = cfg.Thumbs.CacheDir
	}
	if cfg.Thumbs.MaxSizeMB > 0 {
		opts.MaxSize = cfg.Thumbs.MaxSizeMB * 1024 * 1024
	}
	if cfg.Thumbs.CardSize > 0 {
		opts.CardPx = cfg.Thumbs.CardSize
	}
	if cfg.Thumbs.GridSize > 0 {
		opts.GridPx = cfg.Thumbs.GridSize
	}
	if cfg.Thumbs.JPEGQuality > 0 {
		opts.JPEGQuality = cfg.Thumbs.JPEGQuality
	}
	opts.Logger = slog.Default()
	return thumbs.NewGenerator(opts)
}

// openStorage opens the library index with migrations applied.
func openStorage() (*storage.Service, error) {
	storageConfig := storage.DefaultConfig(getDBPath())
	storageConfig.AutoMigrate = true
	db, err := storage.Open(storageConfig)
	if err != nil {
		return nil, err
	}
	return storage.NewService(db), nil
}

// runGUICommand launches the desktop viewer.
func runGUICommand() {
	args := []string{}
	if len(os.Args) > 2 {
		args = os.Args[2:]
	}
	fs := flag.NewFlagSet("gui", flag.ExitOnError)
	debug := fs.Bool("debug", false, "Enable debug logging")
	artDir := fs.String("art-dir", "", "Override the configured art directory")
	fs.Parse(args)

	cfg := loadConfig()
	if *debug {
		cfg.App.DebugMode = true
	}
	if *artDir != "" {
		cfg.Library.ArtDir = *artDir
	}
	setupLogging(cfg.App.DebugMode)

	service, err := openStorage()
	if err != nil {
		log.Fatalf("Failed to open library index: %v", err)
	}
	defer service.Close()

	scanner, err := newScanner(cfg)
	if err != nil {
		log.Fatalf("Failed to create scanner: %v", err)
	}
	generator, err := newThumbs(cfg)
	if err != nil {
		log.Fatalf("Failed to create thumbnail generator: %v", err)
	}
	updater, err := site.NewUpdater(cfg.Pages.GalleryFile, cfg.Pages.CollectionsFile)
	if err != nil {
		log.Fatalf("Failed to create site updater: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Backup.Auto {
		scheduler := newScheduler(cfg)
		if err := scheduler.Start(); err != nil {
			slog.Warn("backup scheduler not started", "error", err)
		} else {
			defer scheduler.Stop()
		}
	}

	app := gui.NewApp(&gui.Services{
		Context: ctx,
		Config:  cfg,
		Storage: service,
		Scanner: scanner,
		Thumbs:  generator,
		Updater: updater,
	})
	app.Run()
}

// newScheduler builds the automatic backup scheduler from the config.
func newScheduler(cfg *config.Config) *storage.BackupScheduler {
	interval, err := cfg.GetBackupInterval()
	if err != nil {
		slog.Warn("invalid backup interval, using default", "error", err)
		interval = 0
	}
	return storage.NewBackupScheduler(storage.NewBackupManager(getDBPath()), storage.SchedulerOptions{
		Interval: interval,
		Keep:     cfg.Backup.Keep,
		OnComplete: func(path string, err error) {
			if err != nil {
				slog.Error("scheduled backup failed", "error", err)
				return
			}
			slog.Info("scheduled backup complete", "path", path)
		},
	})
}

// runUpdateCommand scans the art directory, syncs the index, and rewrites
// the gallery and collections pages.
func runUpdateCommand() {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	artDir := fs.String("art-dir", "", "Override the configured art directory")
	skipIndex := fs.Bool("skip-index", false, "Update pages without touching the library index")
	prewarm := fs.Bool("prewarm", false, "Generate thumbnails for the scanned images")
	fs.Parse(os.Args[2:])

	cfg := loadConfig()
	if *artDir != "" {
		cfg.Library.ArtDir = *artDir
	}
	setupLogging(cfg.App.DebugMode)

	scanner, err := newScanner(cfg)
	if err != nil {
		log.Fatalf("Failed to create scanner: %v", err)
	}

	ctx := context.Background()
	fmt.Printf("Scanning %s...\n", cfg.Library.ArtDir)
	lib, err := scanner.Scan(ctx)
	if err != nil {
		log.Fatalf("Scan failed: %v", err)
	}
	fmt.Printf("✓ Found %d images in %d collections\n", len(lib.Images), len(lib.Collections))

	if !*skipIndex {
		service, err := openStorage()
		if err != nil {
			log.Fatalf("Failed to open library index: %v", err)
		}
		defer service.Close()

		syncResult, err := service.SyncLibrary(ctx, lib)
		if err != nil {
			log.Fatalf("Index sync failed: %v", err)
		}
		fmt.Printf("✓ Index synced: %d added, %d updated, %d missing (%v)\n",
			syncResult.Added, syncResult.Updated, syncResult.Missing,
			syncResult.Duration.Round(time.Millisecond))
	}

	updater, err := site.NewUpdater(cfg.Pages.GalleryFile, cfg.Pages.CollectionsFile)
	if err != nil {
		log.Fatalf("Failed to create site updater: %v", err)
	}
	result, err := updater.Update(lib)
	if err != nil {
		log.Fatalf("Page update failed: %v", err)
	}
	if result.GalleryUpdated {
		fmt.Printf("✓ Gallery page updated: %d images\n", result.GalleryImages)
	} else {
		fmt.Println("  Gallery page already up to date")
	}
	if result.CollectionsUpdated {
		fmt.Printf("✓ Collections page updated: %d collections, %d images\n",
			result.Collections, result.CollectionImages)
	} else {
		fmt.Println("  Collections page already up to date")
	}

	if *prewarm {
		if err := prewarmThumbs(cfg, lib); err != nil {
			log.Fatalf("Thumbnail generation failed: %v", err)
		}
	}
}

// prewarmThumbs generates card and grid thumbnails for every library image.
func prewarmThumbs(cfg *config.Config, lib *library.Library) error {
	generator, err := newThumbs(cfg)
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(len(lib.Images),
		progressbar.OptionSetDescription("Generating thumbnails"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	var failed int
	for _, img := range lib.Images {
		if _, err := generator.Thumb(img.Path, thumbs.SizeCard); err != nil {
			failed++
		}
		if _, err := generator.Thumb(img.Path, thumbs.SizeGrid); err != nil {
			failed++
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	stats := generator.CacheStats()
	fmt.Printf("✓ Thumbnail cache: %d files, %s\n", stats.TotalFiles, formatSize(stats.TotalSize))
	if failed > 0 {
		fmt.Printf("  %d thumbnails could not be generated\n", failed)
	}
	return nil
}

// runServeCommand serves the site locally until interrupted.
func runServeCommand() {
	cfg := loadConfig()

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.Int("port", cfg.Server.Port, "Listen port")
	watch := fs.Bool("watch", false, "Rescan and update pages when the art directory changes")
	allowAll := fs.Bool("allow-all", cfg.Server.AllowAll, "Allow all CORS origins")
	fs.Parse(os.Args[2:])
	setupLogging(cfg.App.DebugMode)

	stop := make(chan struct{})
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		fmt.Println("\nShutting down...")
		close(stop)
	}()

	serveSite(cfg, *port, *watch, *allowAll, stop)
}

// serveSite runs the HTTP server until stop closes. With watch set, art
// directory changes trigger a rescan and page rewrite.
func serveSite(cfg *config.Config, port int, watch, allowAll bool, stop <-chan struct{}) {
	pagesDir := filepath.Dir(cfg.Pages.GalleryFile)
	srv, err := server.New(server.Config{
		Port:     port,
		PagesDir: pagesDir,
		ArtDir:   cfg.Library.ArtDir,
		AllowAll: allowAll,
	})
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if watch {
		opts := library.WatcherOptions{
			ArtDir:   cfg.Library.ArtDir,
			OnChange: func() { refreshPages(cfg) },
			Logger:   slog.Default(),
		}
		if interval, err := cfg.GetWatchMinInterval(); err == nil {
			opts.MinInterval = interval
		}
		watcher, err := library.NewWatcher(opts)
		if err != nil {
			log.Fatalf("Failed to create watcher: %v", err)
		}
		go func() {
			if err := watcher.Start(ctx); err != nil {
				slog.Error("watcher stopped", "error", err)
			}
		}()
		defer watcher.Stop()
		fmt.Printf("Watching %s for changes\n", cfg.Library.ArtDir)
	}

	go func() {
		fmt.Printf("Serving %s on %s\n", pagesDir, srv.URL())
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Shutdown failed: %v", err)
	}
}

// refreshPages rescans the art directory and rewrites both pages.
func refreshPages(cfg *config.Config) {
	scanner, err := newScanner(cfg)
	if err != nil {
		slog.Error("art change ignored", "error", err)
		return
	}
	lib, err := scanner.Scan(context.Background())
	if err != nil {
		slog.Error("rescan failed", "error", err)
		return
	}
	updater, err := site.NewUpdater(cfg.Pages.GalleryFile, cfg.Pages.CollectionsFile)
	if err != nil {
		slog.Error("site updater unavailable", "error", err)
		return
	}
	result, err := updater.Update(lib)
	if err != nil {
		slog.Error("page update failed", "error", err)
		return
	}
	if result.GalleryUpdated || result.CollectionsUpdated {
		slog.Info("pages updated",
			"gallery_images", result.GalleryImages,
			"collections", result.Collections)
	}
}

// runThumbsCommand manages the thumbnail cache.
func runThumbsCommand() {
	if len(os.Args) < 3 {
		printThumbsUsage()
		os.Exit(1)
	}
	action := os.Args[2]

	cfg := loadConfig()
	setupLogging(cfg.App.DebugMode)

	switch action {
	case "prewarm":
		fs := flag.NewFlagSet("thumbs prewarm", flag.ExitOnError)
		artDir := fs.String("art-dir", "", "Override the configured art directory")
		fs.Parse(os.Args[3:])
		if *artDir != "" {
			cfg.Library.ArtDir = *artDir
		}

		scanner, err := newScanner(cfg)
		if err != nil {
			log.Fatalf("Failed to create scanner: %v", err)
		}
		lib, err := scanner.Scan(context.Background())
		if err != nil {
			log.Fatalf("Scan failed: %v", err)
		}
		if err := prewarmThumbs(cfg, lib); err != nil {
			log.Fatalf("Thumbnail generation failed: %v", err)
		}

	case "clear":
		generator, err := newThumbs(cfg)
		if err != nil {
			log.Fatalf("Failed to open thumbnail cache: %v", err)
		}
		stats := generator.CacheStats()
		if err := generator.Clear(); err != nil {
			log.Fatalf("Failed to clear thumbnail cache: %v", err)
		}
		fmt.Printf("✓ Removed %d cached thumbnails (%s)\n", stats.TotalFiles, formatSize(stats.TotalSize))

	case "stats":
		generator, err := newThumbs(cfg)
		if err != nil {
			log.Fatalf("Failed to open thumbnail cache: %v", err)
		}
		stats := generator.CacheStats()
		fmt.Println("Thumbnail Cache:")
		fmt.Printf("  Directory: %s\n", stats.CacheDir)
		fmt.Printf("  Files:     %d\n", stats.TotalFiles)
		fmt.Printf("  Size:      %s\n", formatSize(stats.TotalSize))
		if stats.MaxSize > 0 {
			fmt.Printf("  Budget:    %s\n", formatSize(stats.MaxSize))
		}

	default:
		fmt.Printf("Unknown thumbs command: %s\n", action)
		printThumbsUsage()
		os.Exit(1)
	}
}

// runStatsCommand prints library index statistics.
func runStatsCommand() {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	format := fs.String("format", "table", "Output format: table or json")
	fs.Parse(os.Args[2:])

	service, err := openStorage()
	if err != nil {
		log.Fatalf("Failed to open library index: %v", err)
	}
	defer service.Close()

	stats, err := service.Stats(context.Background())
	if err != nil {
		log.Fatalf("Failed to read stats: %v", err)
	}

	switch *format {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(stats); err != nil {
			log.Fatalf("Failed to encode stats: %v", err)
		}
	case "table":
		printStatsTable(stats)
	default:
		log.Fatalf("Unknown format: %s (use table or json)", *format)
	}
}

func printStatsTable(stats *models.LibraryStats) {
	fmt.Println("Library Index:")
	fmt.Printf("  Images:      %d\n", stats.TotalImages)
	fmt.Printf("  Collections: %d\n", stats.TotalCollections)
	fmt.Printf("  Total size:  %s\n", formatSize(stats.TotalBytes))
	if stats.MissingImages > 0 {
		fmt.Printf("  Missing:     %d\n", stats.MissingImages)
	}
	if stats.LastScan != nil {
		fmt.Printf("  Last scan:   %s (%d added, %d updated)\n",
			stats.LastScan.FinishedAt.Format("2006-01-02 15:04:05"),
			stats.LastScan.Added, stats.LastScan.Updated)
	}
	if len(stats.ByCollection) > 0 {
		fmt.Println("\nBy collection:")
		for _, c := range stats.ByCollection {
			fmt.Printf("  %-28s %d\n", c.DisplayName, c.Images)
		}
	}
	if len(stats.ByExtension) > 0 {
		fmt.Println("\nBy extension:")
		for _, e := range stats.ByExtension {
			fmt.Printf("  %-8s %d\n", e.Ext, e.Images)
		}
	}
}

// runBackupCommand manages index backups.
func runBackupCommand() {
	if len(os.Args) < 3 {
		printBackupUsage()
		os.Exit(1)
	}
	action := os.Args[2]
	manager := storage.NewBackupManager(getDBPath())

	switch action {
	case "create":
		fs := flag.NewFlagSet("backup create", flag.ExitOnError)
		dir := fs.String("dir", "", "Backup directory (default: alongside the index)")
		name := fs.String("name", "", "Backup file name (default: timestamped)")
		encrypt := fs.Bool("encrypt", false, "Encrypt the backup")
		passwordEnv := fs.String("password-env", "ATELIER_BACKUP_PASSWORD", "Environment variable holding the encryption password")
		noVerify := fs.Bool("no-verify", false, "Skip integrity verification")
		fs.Parse(os.Args[3:])

		backupConfig := storage.DefaultBackupConfig()
		if *dir != "" {
			backupConfig.BackupDir = *dir
		} else if envDir := os.Getenv("ATELIER_BACKUP_DIR"); envDir != "" {
			backupConfig.BackupDir = envDir
		}
		backupConfig.BackupName = *name
		backupConfig.VerifyBackup = !*noVerify
		if *encrypt {
			password := os.Getenv(*passwordEnv)
			if password == "" {
				log.Fatalf("Encryption requested but %s is not set", *passwordEnv)
			}
			backupConfig.Password = password
		}

		path, err := manager.Backup(backupConfig)
		if err != nil {
			log.Fatalf("Backup failed: %v", err)
		}
		fmt.Printf("✓ Backup created: %s\n", path)

	case "restore":
		fs := flag.NewFlagSet("backup restore", flag.ExitOnError)
		passwordEnv := fs.String("password-env", "ATELIER_BACKUP_PASSWORD", "Environment variable holding the decryption password")
		yes := fs.Bool("yes", false, "Skip confirmation prompt")
		fs.Parse(os.Args[3:])
		if fs.NArg() < 1 {
			log.Fatalf("Usage: atelier backup restore [flags] <backup-file>")
		}
		backupPath := fs.Arg(0)

		if !*yes && !confirm(fmt.Sprintf("Restore %s over the current index?", backupPath)) {
			fmt.Println("Aborted")
			return
		}

		password := ""
		if encrypted, err := storage.IsEncrypted(backupPath); err != nil {
			log.Fatalf("Failed to read backup: %v", err)
		} else if encrypted {
			password = os.Getenv(*passwordEnv)
			if password == "" {
				log.Fatalf("Backup is encrypted but %s is not set", *passwordEnv)
			}
		}

		if err := manager.Restore(backupPath, password); err != nil {
			log.Fatalf("Restore failed: %v", err)
		}
		fmt.Println("✓ Backup restored successfully")
		fmt.Println("\nThe previous index was kept alongside with an .old suffix.")

	case "list", "ls":
		fs := flag.NewFlagSet("backup list", flag.ExitOnError)
		dir := fs.String("dir", "", "Backup directory (default: alongside the index)")
		format := fs.String("format", "table", "Output format: table or json")
		fs.Parse(os.Args[3:])

		backups, err := manager.ListBackups(*dir)
		if err != nil {
			log.Fatalf("Failed to list backups: %v", err)
		}
		if len(backups) == 0 {
			fmt.Println("No backups found")
			return
		}

		switch *format {
		case "json":
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(backups); err != nil {
				log.Fatalf("Failed to encode backups: %v", err)
			}
		case "table":
			fmt.Printf("%-44s %10s  %-19s %s\n", "NAME", "SIZE", "MODIFIED", "ENCRYPTED")
			for _, b := range backups {
				encrypted := ""
				if b.Encrypted {
					encrypted = "yes"
				}
				fmt.Printf("%-44s %10s  %-19s %s\n",
					b.Name, formatSize(b.Size), b.ModTime.Format("2006-01-02 15:04:05"), encrypted)
			}
		default:
			log.Fatalf("Unknown format: %s (use table or json)", *format)
		}

	case "verify":
		if len(os.Args) < 4 {
			log.Fatalf("Usage: atelier backup verify <backup-file>")
		}
		backupPath := os.Args[3]
		if encrypted, err := storage.IsEncrypted(backupPath); err != nil {
			log.Fatalf("Failed to read backup: %v", err)
		} else if encrypted {
			log.Fatalf("Cannot verify an encrypted backup in place; restore it instead")
		}
		if err := manager.VerifyBackup(backupPath); err != nil {
			log.Fatalf("Verification failed: %v", err)
		}
		fmt.Println("✓ Backup verified successfully")

	case "prune":
		fs := flag.NewFlagSet("backup prune", flag.ExitOnError)
		dir := fs.String("dir", "", "Backup directory (default: alongside the index)")
		keep := fs.Int("keep", 10, "Number of recent backups to keep")
		dryRun := fs.Bool("dry-run", false, "List what would be removed without deleting")
		fs.Parse(os.Args[3:])

		if *keep < 1 {
			log.Fatalf("Must keep at least one backup")
		}
		backups, err := manager.ListBackups(*dir)
		if err != nil {
			log.Fatalf("Failed to list backups: %v", err)
		}
		if len(backups) <= *keep {
			fmt.Printf("Nothing to prune (%d backups, keeping %d)\n", len(backups), *keep)
			return
		}
		sort.Slice(backups, func(i, j int) bool {
			return backups[i].ModTime.After(backups[j].ModTime)
		})
		for _, b := range backups[*keep:] {
			if *dryRun {
				fmt.Printf("Would remove %s\n", b.Path)
				continue
			}
			if err := os.Remove(b.Path); err != nil {
				log.Fatalf("Failed to remove %s: %v", b.Path, err)
			}
			fmt.Printf("✓ Removed %s\n", b.Name)
		}

	default:
		fmt.Printf("Unknown backup command: %s\n", action)
		printBackupUsage()
		os.Exit(1)
	}
}

// runMigrationCommand manages the index schema.
func runMigrationCommand() {
	if len(os.Args) < 3 {
		printMigrationUsage()
		os.Exit(1)
	}
	action := os.Args[2]

	manager, err := storage.NewMigrationManager(getDBPath())
	if err != nil {
		log.Fatalf("Failed to create migration manager: %v", err)
	}
	defer manager.Close()

	switch action {
	case "up":
		if err := manager.Up(); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		fmt.Println("✓ Migrations applied successfully")

	case "down":
		fs := flag.NewFlagSet("migrate down", flag.ExitOnError)
		yes := fs.Bool("yes", false, "Skip confirmation prompt")
		fs.Parse(os.Args[3:])
		if !*yes && !confirm("This reverts every migration and clears the index. Continue?") {
			fmt.Println("Aborted")
			return
		}
		if err := manager.Down(); err != nil {
			log.Fatalf("Rollback failed: %v", err)
		}
		fmt.Println("✓ Migrations reverted successfully")

	case "steps":
		fs := flag.NewFlagSet("migrate steps", flag.ExitOnError)
		n := fs.Int("n", 1, "Number of migration steps (negative rolls back)")
		fs.Parse(os.Args[3:])
		if err := manager.Steps(*n); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		fmt.Printf("✓ Applied %d migration step(s)\n", *n)

	case "version", "status":
		schemaVersion, dirty, err := manager.Version()
		if err != nil {
			log.Fatalf("Failed to read schema version: %v", err)
		}
		if schemaVersion == 0 {
			fmt.Println("Schema version: none (no migrations applied)")
			return
		}
		fmt.Printf("Schema version: %d\n", schemaVersion)
		if dirty {
			fmt.Println("⚠ Schema is dirty; fix the database and run 'atelier migrate force'")
		}

	case "force":
		fs := flag.NewFlagSet("migrate force", flag.ExitOnError)
		fs.Parse(os.Args[3:])
		if fs.NArg() < 1 {
			log.Fatalf("Usage: atelier migrate force <version>")
		}
		v, err := strconv.Atoi(fs.Arg(0))
		if err != nil {
			log.Fatalf("Invalid version %q: %v", fs.Arg(0), err)
		}
		if err := manager.Force(v); err != nil {
			log.Fatalf("Failed to force version: %v", err)
		}
		fmt.Printf("✓ Schema version forced to %d\n", v)

	default:
		fmt.Printf("Unknown migration command: %s\n", action)
		printMigrationUsage()
		os.Exit(1)
	}
}

// confirm prompts for a yes/no answer on stdin.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// formatSize renders a byte count as a human-readable string.
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func printUsage() {
	fmt.Println("Atelier manages a static art portfolio: a desktop viewer, a page")
	fmt.Println("updater, and a local preview server.")
	fmt.Println("\nUsage: atelier [command]")
	fmt.Println("\nCommands:")
	fmt.Println("  gui       Launch the desktop viewer (default)")
	fmt.Println("  update    Scan the art directory, sync the index, and rewrite the pages")
	fmt.Println("  serve     Serve the site locally, optionally watching for changes")
	fmt.Println("  thumbs    Manage the thumbnail cache (prewarm, clear, stats)")
	fmt.Println("  stats     Show library index statistics")
	fmt.Println("  backup    Manage index backups (create, restore, list, verify, prune)")
	fmt.Println("  migrate   Manage the index schema (up, down, steps, version, force)")
	fmt.Println("  service   Run the preview server as a system service")
	fmt.Println("  version   Show version information")
	fmt.Println("  help      Show this help")
	fmt.Println("\nExamples:")
	fmt.Println("  atelier                          Launch the viewer")
	fmt.Println("  atelier update --prewarm         Update pages and generate thumbnails")
	fmt.Println("  atelier serve --watch            Serve locally, auto-update on changes")
	fmt.Println("  atelier backup create --encrypt  Create an encrypted backup")
	fmt.Println("\nEnvironment:")
	fmt.Println("  ATELIER_DB_PATH          Override the library index location")
	fmt.Println("  ATELIER_BACKUP_DIR       Default directory for backups")
	fmt.Println("  ATELIER_BACKUP_PASSWORD  Password for encrypted backups")
}

func printThumbsUsage() {
	fmt.Println("Usage: atelier thumbs [prewarm|clear|stats]")
	fmt.Println("\nAvailable commands:")
	fmt.Println("  prewarm  - Generate thumbnails for every image in the art directory")
	fmt.Println("  clear    - Remove all cached thumbnails")
	fmt.Println("  stats    - Show cache location, file count, and size")
}

func printBackupUsage() {
	fmt.Println("Usage: atelier backup [create|restore|list|verify|prune]")
	fmt.Println("\nAvailable commands:")
	fmt.Println("  create   - Create a backup of the library index")
	fmt.Println("  restore  - Restore the index from a backup file")
	fmt.Println("  list     - List available backups")
	fmt.Println("  verify   - Check a backup's integrity")
	fmt.Println("  prune    - Remove old backups beyond a retention count")
	fmt.Println("\nExamples:")
	fmt.Println("  atelier backup create")
	fmt.Println("  atelier backup create --encrypt --dir /mnt/backups")
	fmt.Println("  atelier backup restore backups/backup_20260301_120000.db")
	fmt.Println("  atelier backup prune --keep 5")
}

func printMigrationUsage() {
	fmt.Println("Usage: atelier migrate [up|down|steps|version|force]")
	fmt.Println("\nAvailable commands:")
	fmt.Println("  up       - Apply all pending migrations")
	fmt.Println("  down     - Revert all migrations (clears the index)")
	fmt.Println("  steps    - Apply a fixed number of steps (-n, negative rolls back)")
	fmt.Println("  version  - Show the current schema version")
	fmt.Println("  force    - Set the schema version without running migrations")
}
