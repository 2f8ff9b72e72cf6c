package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// ShowHelp displays the main help dialog with tips and guides.
func (a *App) ShowHelp() {
	content := widget.NewRichTextFromMarkdown(`# Atelier Help

## Quick Start

### First Time Setup
1. Open the **Settings** tab and point the **Art Directory** at your artwork
2. Keep images for a series together in one folder - each first-level folder becomes a collection
3. Optionally drop a ` + "`description.md`" + ` into a collection folder for a blurb under its title

### Using the App

**Collections Tab**
- One carousel strip per collection, with the collection description underneath the title
- Page through cards with the arrow buttons; they disable at either end
- Click any card to open it in the viewer

**Gallery Tab**
- Every image in the library in one grid
- Click any cell to open the viewer at that image

**The Viewer**
- **Left / Right** arrows move through the images and wrap around at the ends
- **Escape** or a click outside the image closes it
- Clicks on the image itself do nothing

**Statistics Tab**
- Totals, per-collection and per-extension breakdowns, and scan history
- Switch between bar and breakdown charts
- Export an interactive HTML report and open it in the browser

**Settings Tab**
- Configure the art directory, page paths, carousel geometry and thumbnail cache
- Control the file watcher and the preview server

## Common Tasks

### Updating the Site Pages
1. Run ` + "`atelier update`" + ` from a terminal
2. The gallery and collections pages are rewritten between their marker comments
3. Everything outside the markers is left untouched

### Previewing the Site
1. Run ` + "`atelier serve`" + `
2. Open the printed URL in a browser
3. Add ` + "`--watch`" + ` to rescan and update pages as files change

### Backing Up the Index
1. Run ` + "`atelier backup create`" + ` for a plain backup
2. Add a passphrase prompt with ` + "`--encrypt`" + `
3. Restore later with ` + "`atelier backup restore`" + `

## Keyboard Shortcuts
- **Ctrl/Cmd + R**: Rescan the library and refresh the current view
- **Ctrl/Cmd + ,**: Open Settings
- **Ctrl/Cmd + H**: Show this help

## Troubleshooting

### Nothing Shows Up
- Check the art directory path in Settings
- Check the extension list covers your files
- Refresh with Ctrl+R after fixing either

### Site Update Fails
- The gallery and collections pages must contain their marker comments
- Restore the markers from version control if they were edited away

### Thumbnails Look Stale
- The cache keys include file modification times, so edits are picked up on refresh
- Clear the cache directory if a file was replaced without its timestamp changing

## Need More Help?
- **Documentation**: Visit the wiki for detailed guides
- **Report Issues**: Found a bug? Let us know on GitHub

## About
Atelier v` + Version + `
A desktop viewer and site updater for a static art portfolio.`)

	helpDialog := dialog.NewCustom("Help", "Close", container.NewScroll(content), a.window)
	helpDialog.Resize(fyne.NewSize(700, 600))
	helpDialog.Show()
}
