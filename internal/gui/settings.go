package gui

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/atelierhq/atelier/internal/config"
)

// createSettingsView creates the settings configuration view.
func (a *App) createSettingsView() fyne.CanvasObject {
	cfg, err := config.Load()
	if err != nil {
		return widget.NewLabel(fmt.Sprintf("Error loading config: %v", err))
	}

	// Library Section
	artDirEntry := widget.NewEntry()
	artDirEntry.SetPlaceHolder("Path to your artwork")
	artDirEntry.SetText(cfg.Library.ArtDir)
	AddEntryTooltip(artDirEntry, TooltipArtDir)

	extensionsEntry := widget.NewEntry()
	extensionsEntry.SetPlaceHolder(".jpg, .png, .gif")
	extensionsEntry.SetText(strings.Join(cfg.Library.Extensions, ", "))
	AddEntryTooltip(extensionsEntry, TooltipExtensions)

	excludesEntry := widget.NewEntry()
	excludesEntry.SetPlaceHolder("**/drafts/**, **/.*")
	excludesEntry.SetText(strings.Join(cfg.Library.Excludes, ", "))
	AddEntryTooltip(excludesEntry, TooltipExcludes)

	sortModeSelect := widget.NewSelect(
		[]string{config.SortByName, config.SortByNatural, config.SortByModTime}, nil)
	sortModeSelect.Selected = cfg.Library.SortMode
	AddSelectTooltip(sortModeSelect, TooltipSortMode)

	// Pages Section
	galleryFileEntry := widget.NewEntry()
	galleryFileEntry.SetPlaceHolder("pages/gallery.html")
	galleryFileEntry.SetText(cfg.Pages.GalleryFile)

	collectionsFileEntry := widget.NewEntry()
	collectionsFileEntry.SetPlaceHolder("pages/collections.html")
	collectionsFileEntry.SetText(cfg.Pages.CollectionsFile)

	// Carousel Section
	cardWidthEntry := widget.NewEntry()
	cardWidthEntry.SetText(strconv.FormatFloat(float64(cfg.Carousel.CardWidth), 'f', -1, 32))
	AddEntryTooltip(cardWidthEntry, TooltipCardWidth)

	cardHeightEntry := widget.NewEntry()
	cardHeightEntry.SetText(strconv.FormatFloat(float64(cfg.Carousel.CardHeight), 'f', -1, 32))

	gapEntry := widget.NewEntry()
	gapEntry.SetText(strconv.FormatFloat(float64(cfg.Carousel.Gap), 'f', -1, 32))
	AddEntryTooltip(gapEntry, TooltipCardGap)

	// Thumbnail Section
	thumbCacheDirEntry := widget.NewEntry()
	thumbCacheDirEntry.SetPlaceHolder("Default cache location if empty")
	thumbCacheDirEntry.SetText(cfg.Thumbs.CacheDir)

	thumbMaxSizeEntry := widget.NewEntry()
	thumbMaxSizeEntry.SetPlaceHolder("0 for unlimited")
	thumbMaxSizeEntry.SetText(strconv.FormatInt(cfg.Thumbs.MaxSizeMB, 10))

	thumbCardSizeEntry := widget.NewEntry()
	thumbCardSizeEntry.SetText(strconv.Itoa(cfg.Thumbs.CardSize))
	AddEntryTooltip(thumbCardSizeEntry, TooltipThumbSize)

	thumbGridSizeEntry := widget.NewEntry()
	thumbGridSizeEntry.SetText(strconv.Itoa(cfg.Thumbs.GridSize))

	thumbQualityEntry := widget.NewEntry()
	thumbQualityEntry.SetPlaceHolder("1-100")
	thumbQualityEntry.SetText(strconv.Itoa(cfg.Thumbs.JPEGQuality))

	// Watch Section
	watchEnabledCheck := widget.NewCheck("Rescan automatically when the art directory changes", nil)
	watchEnabledCheck.Checked = cfg.Watch.Enabled
	AddCheckTooltip(watchEnabledCheck, TooltipWatch)

	watchIntervalEntry := widget.NewEntry()
	watchIntervalEntry.SetPlaceHolder("e.g., 1s, 500ms")
	watchIntervalEntry.SetText(cfg.Watch.MinInterval)

	// Server Section
	serverPortEntry := widget.NewEntry()
	serverPortEntry.SetText(strconv.Itoa(cfg.Server.Port))
	AddEntryTooltip(serverPortEntry, TooltipServerPort)

	serverAllowAllCheck := widget.NewCheck("Allow all CORS origins on the preview server", nil)
	serverAllowAllCheck.Checked = cfg.Server.AllowAll

	// Backup Section
	backupAutoCheck := widget.NewCheck("Back up the library index on a schedule", nil)
	backupAutoCheck.Checked = cfg.Backup.Auto

	backupIntervalEntry := widget.NewEntry()
	backupIntervalEntry.SetPlaceHolder("e.g., 24h, 12h")
	backupIntervalEntry.SetText(cfg.Backup.Interval)

	backupKeepEntry := widget.NewEntry()
	backupKeepEntry.SetText(strconv.Itoa(cfg.Backup.Keep))

	// Application Section
	appDebugModeCheck := widget.NewCheck("Enable detailed debug logging", nil)
	appDebugModeCheck.Checked = cfg.App.DebugMode
	AddCheckTooltip(appDebugModeCheck, TooltipDebugMode)

	libraryHeader := widget.NewRichTextFromMarkdown("### Library")
	pagesHeader := widget.NewRichTextFromMarkdown("### Site Pages")
	carouselHeader := widget.NewRichTextFromMarkdown("### Carousel")
	thumbsHeader := widget.NewRichTextFromMarkdown("### Thumbnail Cache")
	watchHeader := widget.NewRichTextFromMarkdown("### Watcher")
	serverHeader := widget.NewRichTextFromMarkdown("### Preview Server")
	backupHeader := widget.NewRichTextFromMarkdown("### Backups")
	appHeader := widget.NewRichTextFromMarkdown("### Application")

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "", Widget: libraryHeader},
			{Text: "Art Directory", Widget: artDirEntry, HintText: "Root of the image library; first-level folders become collections"},
			{Text: "Extensions", Widget: extensionsEntry, HintText: "Comma-separated image extensions to pick up"},
			{Text: "Excludes", Widget: excludesEntry, HintText: "Comma-separated glob patterns to skip"},
			{Text: "Sort Mode", Widget: sortModeSelect, HintText: "Ordering for images and collections"},
			{Text: "", Widget: widget.NewSeparator()},

			{Text: "", Widget: pagesHeader},
			{Text: "Gallery Page", Widget: galleryFileEntry, HintText: "HTML page holding the gallery grid markers"},
			{Text: "Collections Page", Widget: collectionsFileEntry, HintText: "HTML page holding the collections markers"},
			{Text: "", Widget: widget.NewSeparator()},

			{Text: "", Widget: carouselHeader},
			{Text: "Card Width", Widget: cardWidthEntry, HintText: "Carousel card width in points"},
			{Text: "Card Height", Widget: cardHeightEntry, HintText: "Carousel card height in points"},
			{Text: "Gap", Widget: gapEntry, HintText: "Spacing between carousel cards in points"},
			{Text: "", Widget: widget.NewSeparator()},

			{Text: "", Widget: thumbsHeader},
			{Text: "Cache Directory", Widget: thumbCacheDirEntry, HintText: "Directory for generated thumbnails"},
			{Text: "Cache Budget (MB)", Widget: thumbMaxSizeEntry, HintText: "Oldest thumbnails are evicted past this size"},
			{Text: "Card Size (px)", Widget: thumbCardSizeEntry, HintText: "Longest edge for carousel card thumbnails"},
			{Text: "Grid Size (px)", Widget: thumbGridSizeEntry, HintText: "Longest edge for gallery grid thumbnails"},
			{Text: "JPEG Quality", Widget: thumbQualityEntry, HintText: "1-100, higher is larger and sharper"},
			{Text: "", Widget: widget.NewSeparator()},

			{Text: "", Widget: watchHeader},
			{Text: "", Widget: watchEnabledCheck},
			{Text: "Min Interval", Widget: watchIntervalEntry, HintText: "Minimum time between automatic rescans"},
			{Text: "", Widget: widget.NewSeparator()},

			{Text: "", Widget: serverHeader},
			{Text: "Port", Widget: serverPortEntry, HintText: "Port for the local site preview server"},
			{Text: "", Widget: serverAllowAllCheck},
			{Text: "", Widget: widget.NewSeparator()},

			{Text: "", Widget: backupHeader},
			{Text: "", Widget: backupAutoCheck},
			{Text: "Interval", Widget: backupIntervalEntry, HintText: "Time between automatic index backups"},
			{Text: "Keep", Widget: backupKeepEntry, HintText: "Backup files to retain before pruning the oldest"},
			{Text: "", Widget: widget.NewSeparator()},

			{Text: "", Widget: appHeader},
			{Text: "", Widget: appDebugModeCheck},
		},
		OnSubmit: func() {
			newCfg := &config.Config{
				Library: config.LibraryConfig{
					ArtDir:     artDirEntry.Text,
					Extensions: splitList(extensionsEntry.Text),
					Excludes:   splitList(excludesEntry.Text),
					SortMode:   sortModeSelect.Selected,
				},
				Pages: config.PagesConfig{
					GalleryFile:     galleryFileEntry.Text,
					CollectionsFile: collectionsFileEntry.Text,
				},
				Thumbs: config.ThumbsConfig{
					CacheDir: thumbCacheDirEntry.Text,
				},
				Watch: config.WatchConfig{
					Enabled:     watchEnabledCheck.Checked,
					MinInterval: watchIntervalEntry.Text,
				},
				Server: config.ServerConfig{
					AllowAll: serverAllowAllCheck.Checked,
				},
				Backup: config.BackupConfig{
					Auto:     backupAutoCheck.Checked,
					Interval: backupIntervalEntry.Text,
				},
				App: config.AppConfig{
					DebugMode:           appDebugModeCheck.Checked,
					OnboardingCompleted: cfg.App.OnboardingCompleted,
				},
			}

			if cardWidth, err := strconv.ParseFloat(cardWidthEntry.Text, 32); err == nil {
				newCfg.Carousel.CardWidth = float32(cardWidth)
			} else {
				dialog.ShowError(fmt.Errorf("invalid card width: %w", err), a.window)
				return
			}
			if cardHeight, err := strconv.ParseFloat(cardHeightEntry.Text, 32); err == nil {
				newCfg.Carousel.CardHeight = float32(cardHeight)
			} else {
				dialog.ShowError(fmt.Errorf("invalid card height: %w", err), a.window)
				return
			}
			if gap, err := strconv.ParseFloat(gapEntry.Text, 32); err == nil {
				newCfg.Carousel.Gap = float32(gap)
			} else {
				dialog.ShowError(fmt.Errorf("invalid gap: %w", err), a.window)
				return
			}

			if maxSize, err := strconv.ParseInt(thumbMaxSizeEntry.Text, 10, 64); err == nil {
				newCfg.Thumbs.MaxSizeMB = maxSize
			} else {
				dialog.ShowError(fmt.Errorf("invalid cache budget: %w", err), a.window)
				return
			}
			if cardSize, err := strconv.Atoi(thumbCardSizeEntry.Text); err == nil {
				newCfg.Thumbs.CardSize = cardSize
			} else {
				dialog.ShowError(fmt.Errorf("invalid card thumbnail size: %w", err), a.window)
				return
			}
			if gridSize, err := strconv.Atoi(thumbGridSizeEntry.Text); err == nil {
				newCfg.Thumbs.GridSize = gridSize
			} else {
				dialog.ShowError(fmt.Errorf("invalid grid thumbnail size: %w", err), a.window)
				return
			}
			if quality, err := strconv.Atoi(thumbQualityEntry.Text); err == nil {
				newCfg.Thumbs.JPEGQuality = quality
			} else {
				dialog.ShowError(fmt.Errorf("invalid JPEG quality: %w", err), a.window)
				return
			}
			if port, err := strconv.Atoi(serverPortEntry.Text); err == nil {
				newCfg.Server.Port = port
			} else {
				dialog.ShowError(fmt.Errorf("invalid server port: %w", err), a.window)
				return
			}
			if keep, err := strconv.Atoi(backupKeepEntry.Text); err == nil {
				newCfg.Backup.Keep = keep
			} else {
				dialog.ShowError(fmt.Errorf("invalid backup retention: %w", err), a.window)
				return
			}

			if err := newCfg.Validate(); err != nil {
				dialog.ShowError(err, a.window)
				return
			}

			if err := newCfg.Save(); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), a.window)
				return
			}

			dialog.ShowInformation("Success", "Settings saved successfully.\n\nNote: Some settings may require an application restart to take effect.", a.window)
		},
		SubmitText: "Save Settings",
	}

	restoreButton := widget.NewButton("Restore Defaults", func() {
		dialog.ShowConfirm("Restore Defaults", "Are you sure you want to restore default settings?", func(confirmed bool) {
			if !confirmed {
				return
			}

			defaultCfg := config.DefaultConfig()

			artDirEntry.SetText(defaultCfg.Library.ArtDir)
			extensionsEntry.SetText(strings.Join(defaultCfg.Library.Extensions, ", "))
			excludesEntry.SetText(strings.Join(defaultCfg.Library.Excludes, ", "))
			sortModeSelect.Selected = defaultCfg.Library.SortMode

			galleryFileEntry.SetText(defaultCfg.Pages.GalleryFile)
			collectionsFileEntry.SetText(defaultCfg.Pages.CollectionsFile)

			cardWidthEntry.SetText(strconv.FormatFloat(float64(defaultCfg.Carousel.CardWidth), 'f', -1, 32))
			cardHeightEntry.SetText(strconv.FormatFloat(float64(defaultCfg.Carousel.CardHeight), 'f', -1, 32))
			gapEntry.SetText(strconv.FormatFloat(float64(defaultCfg.Carousel.Gap), 'f', -1, 32))

			thumbCacheDirEntry.SetText(defaultCfg.Thumbs.CacheDir)
			thumbMaxSizeEntry.SetText(strconv.FormatInt(defaultCfg.Thumbs.MaxSizeMB, 10))
			thumbCardSizeEntry.SetText(strconv.Itoa(defaultCfg.Thumbs.CardSize))
			thumbGridSizeEntry.SetText(strconv.Itoa(defaultCfg.Thumbs.GridSize))
			thumbQualityEntry.SetText(strconv.Itoa(defaultCfg.Thumbs.JPEGQuality))

			watchEnabledCheck.Checked = defaultCfg.Watch.Enabled
			watchIntervalEntry.SetText(defaultCfg.Watch.MinInterval)

			serverPortEntry.SetText(strconv.Itoa(defaultCfg.Server.Port))
			serverAllowAllCheck.Checked = defaultCfg.Server.AllowAll

			backupAutoCheck.Checked = defaultCfg.Backup.Auto
			backupIntervalEntry.SetText(defaultCfg.Backup.Interval)
			backupKeepEntry.SetText(strconv.Itoa(defaultCfg.Backup.Keep))

			appDebugModeCheck.Checked = defaultCfg.App.DebugMode

			sortModeSelect.Refresh()
			watchEnabledCheck.Refresh()
			serverAllowAllCheck.Refresh()
			backupAutoCheck.Refresh()
			appDebugModeCheck.Refresh()

			dialog.ShowInformation("Defaults Restored", "Default settings have been restored. Click 'Save Settings' to persist changes.", a.window)
		}, a.window)
	})

	setupButton := widget.NewButton("Setup Guide", func() {
		a.ShowOnboardingWizard()
	})

	aboutButton := widget.NewButton("About Atelier", func() {
		a.showAboutDialog()
	})

	leftSpacer := canvas.NewRectangle(color.Transparent)
	leftSpacer.SetMinSize(fyne.NewSize(20, 0))
	rightSpacer := canvas.NewRectangle(color.Transparent)
	rightSpacer.SetMinSize(fyne.NewSize(20, 0))

	return container.NewBorder(
		nil,
		container.NewPadded(
			container.NewVBox(
				widget.NewSeparator(),
				container.NewHBox(
					restoreButton,
					setupButton,
					aboutButton,
				),
			),
		),
		leftSpacer,
		rightSpacer,
		container.NewScroll(
			container.NewPadded(form),
		),
	)
}

// splitList parses a comma-separated entry into a trimmed slice, dropping
// empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
