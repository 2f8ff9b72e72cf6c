package gui

import (
	"fyne.io/fyne/v2/widget"
)

// Tooltip constants for various UI elements throughout the application.
const (
	// Statistics Tooltips
	TooltipChartType  = "Toggle between bar and pie chart visualizations"
	TooltipStatsScope = "Pick the slice of the library the charts cover"
	TooltipRefresh    = "Rescan the art directory and reload the view"
	TooltipExport     = "Render the current charts to an HTML report and open it"

	// Settings Tooltips
	TooltipArtDir     = "Directory holding your artwork; first-level folders become collections"
	TooltipPagesDir   = "Directory holding gallery.html and collections.html"
	TooltipExtensions = "Comma-separated image extensions to pick up, e.g. .jpg, .png"
	TooltipSortMode   = "Order for images and collections: name, natural or modtime"
	TooltipExcludes   = "Glob patterns to skip, e.g. **/drafts/**"
	TooltipCardWidth  = "Carousel card width in points"
	TooltipCardGap    = "Horizontal spacing between carousel cards in points"
	TooltipThumbSize  = "Edge length of cached thumbnails in pixels"
	TooltipWatch      = "Rescan automatically when files under the art directory change"
	TooltipServerPort = "Port for the local site preview server"
	TooltipDebugMode  = "Enable detailed debug logging for troubleshooting"

	// Viewer Tooltips
	TooltipLightboxNav = "Arrow keys move through the images, Escape closes the viewer"
	TooltipCardOpen    = "Click a card to open it in the viewer"
)

// AddTooltip adds a tooltip to a widget.
// Note: Fyne v2 has limited tooltip support. This function provides a placeholder
// for future tooltip functionality. For now, tooltips are embedded in UI as helper text.
func AddTooltip(w interface{}, tooltip string) {
	// Placeholder for future tooltip support in Fyne
	// When Fyne adds tooltip API, this can be implemented
	_ = w
	_ = tooltip
}

// AddButtonTooltip adds a tooltip to a button widget.
func AddButtonTooltip(button *widget.Button, tooltip string) {
	AddTooltip(button, tooltip)
}

// AddSelectTooltip adds a tooltip to a select widget.
func AddSelectTooltip(sel *widget.Select, tooltip string) {
	AddTooltip(sel, tooltip)
}

// AddCheckTooltip adds a tooltip to a checkbox widget.
func AddCheckTooltip(check *widget.Check, tooltip string) {
	AddTooltip(check, tooltip)
}

// AddEntryTooltip adds a tooltip to an entry widget.
func AddEntryTooltip(entry *widget.Entry, tooltip string) {
	AddTooltip(entry, tooltip)
}
