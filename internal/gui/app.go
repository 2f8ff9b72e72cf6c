package gui

import (
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/atelierhq/atelier/internal/library"
)

// App represents the GUI application.
type App struct {
	app      fyne.App
	window   fyne.Window
	services *Services
	state    *AppState

	collectionsView *CollectionsView
	galleryView     *GalleryView
	statsDashboard  *StatsDashboard

	// Stacks whose single child is swapped on every library refresh.
	collectionsContent *fyne.Container
	galleryContent     *fyne.Container

	tabs        *container.AppTabs
	statusLabel *widget.Label
	watcher     *library.Watcher
}

// NewApp creates a new GUI application.
func NewApp(services *Services) *App {
	fyneApp := app.NewWithID("com.atelierhq.atelier")

	state, err := LoadState()
	if err != nil {
		state = NewAppState()
	}

	a := &App{
		app:      fyneApp,
		services: services,
		state:    state,
	}
	a.window = fyneApp.NewWindow(AppName)
	return a
}

// Run starts the GUI application and blocks until the window closes.
func (a *App) Run() {
	size := a.state.GetWindowSize()
	a.window.Resize(fyne.NewSize(float32(size.Width), float32(size.Height)))

	a.collectionsView = NewCollectionsView(a)
	a.galleryView = NewGalleryView(a)
	a.statsDashboard = NewStatsDashboard(a, a.services.Storage, a.services.Context)

	a.collectionsContent = container.NewStack(a.LoadingView("Scanning library..."))
	a.galleryContent = container.NewStack(a.LoadingView("Scanning library..."))

	a.tabs = container.NewAppTabs(
		container.NewTabItem("Collections", a.collectionsContent),
		container.NewTabItem("Gallery", a.galleryContent),
		container.NewTabItem("Statistics", a.statsDashboard.CreateView()),
		container.NewTabItem("Settings", a.createSettingsView()),
	)
	a.tabs.OnSelected = func(*container.TabItem) {
		a.state.UpdateLastTab(a.tabs.SelectedIndex())
	}
	if last := a.state.GetLastTab(); last > 0 && last < len(a.tabs.Items) {
		a.tabs.SelectIndex(last)
	}

	a.window.SetContent(container.NewBorder(nil, a.createFooter(), nil, nil, a.tabs))

	a.setupKeyboardShortcuts(a.tabs)
	a.refreshLibrary()
	a.startWatcher()
	a.showOnboarding()

	a.window.SetCloseIntercept(func() {
		if a.watcher != nil {
			a.watcher.Stop()
		}
		a.saveState()
		a.window.Close()
	})

	a.window.ShowAndRun()
}

// refreshLibrary rescans the art directory, reindexes the result and
// rebuilds the library-backed tabs.
func (a *App) refreshLibrary() {
	a.setStatus("Scanning library...")

	go func() {
		lib, err := a.services.Scanner.Scan(a.services.Context)
		if err != nil {
			a.setStatus("Scan failed")
			errView := func() fyne.CanvasObject {
				return a.ErrorView("Error Scanning Library", err, a.refreshLibrary)
			}
			a.collectionsContent.Objects = []fyne.CanvasObject{errView()}
			a.collectionsContent.Refresh()
			a.galleryContent.Objects = []fyne.CanvasObject{errView()}
			a.galleryContent.Refresh()
			return
		}

		if a.services.Storage != nil {
			if _, err := a.services.Storage.SyncLibrary(a.services.Context, lib); err != nil {
				slog.Warn("library index sync failed", "error", err)
			}
		}

		a.state.UpdateLastArtDir(lib.ArtDir)

		a.collectionsContent.Objects = []fyne.CanvasObject{a.collectionsView.CreateView(lib)}
		a.collectionsContent.Refresh()
		a.galleryContent.Objects = []fyne.CanvasObject{a.galleryView.CreateView(lib)}
		a.galleryContent.Refresh()

		a.setStatus(fmt.Sprintf("%d images in %d collections", len(lib.Images), len(lib.Collections)))
	}()
}

// startWatcher monitors the art directory and refreshes the library when it
// changes, per the watch section of the configuration.
func (a *App) startWatcher() {
	cfg := a.services.Config
	if cfg == nil || !cfg.Watch.Enabled {
		return
	}

	interval, err := cfg.GetWatchMinInterval()
	if err != nil {
		slog.Warn("invalid watch interval, using default", "error", err)
		interval = library.DefaultMinInterval
	}

	watcher, err := library.NewWatcher(library.WatcherOptions{
		ArtDir:      cfg.Library.ArtDir,
		MinInterval: interval,
		OnChange:    a.refreshLibrary,
	})
	if err != nil {
		slog.Warn("art directory watcher unavailable", "error", err)
		return
	}
	a.watcher = watcher

	go func() {
		if err := watcher.Start(a.services.Context); err != nil {
			slog.Warn("art directory watcher stopped", "error", err)
		}
	}()
}

// createFooter creates the status bar along the bottom of the window.
func (a *App) createFooter() fyne.CanvasObject {
	a.statusLabel = widget.NewLabel("Ready")
	versionLabel := widget.NewLabel("v" + Version)

	return container.NewVBox(
		widget.NewSeparator(),
		container.NewBorder(nil, nil, a.statusLabel, versionLabel),
	)
}

// setStatus updates the footer status text.
func (a *App) setStatus(status string) {
	if a.statusLabel == nil {
		return
	}
	a.statusLabel.SetText(status)
}

// saveState persists window size and view state.
func (a *App) saveState() {
	size := a.window.Canvas().Size()
	a.state.UpdateWindowSize(int(size.Width), int(size.Height))

	if err := a.state.Save(); err != nil {
		slog.Warn("failed to save application state", "error", err)
	}
}
