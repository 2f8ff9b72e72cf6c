package gui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// ErrorView creates a user-friendly error display with retry functionality.
func (a *App) ErrorView(title string, err error, retryFunc func()) fyne.CanvasObject {
	titleLabel := widget.NewLabelWithStyle("⚠️  "+title, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	var errorMsg string
	var guidanceMarkdown string

	if err != nil {
		errorStr := err.Error()
		errorMsg = a.translateError(errorStr)
		guidanceMarkdown = a.getContextualGuidance(title, errorStr)
	} else {
		errorMsg = "An unexpected issue occurred. Please try refreshing."
		guidanceMarkdown = `### What You Can Do:

1. Click the **Retry** button below to try again
2. Check your **Settings** to make sure the art directory is correct
3. If the issue persists, click **Get Help** for support`
	}

	errorLabel := widget.NewLabel(errorMsg)
	errorLabel.Wrapping = fyne.TextWrapWord

	guidanceText := widget.NewRichTextFromMarkdown(guidanceMarkdown)

	var buttons []fyne.CanvasObject
	if retryFunc != nil {
		buttons = append(buttons, widget.NewButton("Retry", retryFunc))
	}

	helpButton := widget.NewButton("Get Help", func() {
		dialog.ShowInformation("Need Help?",
			fmt.Sprintf("For support, please visit:\n\n• Documentation: %s\n• Report Issue: %s",
				DocsURL, IssuesURL), a.window)
	})
	buttons = append(buttons, helpButton)

	return container.NewCenter(
		container.NewVBox(
			titleLabel,
			widget.NewSeparator(),
			errorLabel,
			widget.NewSeparator(),
			guidanceText,
			widget.NewSeparator(),
			container.NewHBox(buttons...),
		),
	)
}

// NoDataView creates a friendly message when no data is available.
func (a *App) NoDataView(title string, message string) fyne.CanvasObject {
	titleLabel := widget.NewLabelWithStyle("🎨  "+title, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	messageLabel := widget.NewLabel(message)
	messageLabel.Wrapping = fyne.TextWrapWord
	messageLabel.Alignment = fyne.TextAlignCenter

	var guidanceMarkdown string
	switch {
	case strings.Contains(title, "Collection"):
		guidanceMarkdown = `### No Collections Yet 📁

**Collections are subdirectories of your art directory.**

1. **Open your art directory** and create a folder per series, for example ` + "`ink_studies`" + `
2. **Move images into it** - the folder name becomes the collection title
3. **Add a description** - an optional ` + "`description.md`" + ` inside the folder is shown under the title
4. **Refresh** with Ctrl+R or restart the scan from the Statistics tab

Images left at the top level still appear in the Gallery tab.`
	case strings.Contains(title, "Gallery"):
		guidanceMarkdown = `### An Empty Gallery 🖼️

**No images were found in your art directory.**

1. **Check Settings** - make sure the art directory points at your artwork
2. **Check the extension list** - only configured extensions are picked up
3. **Drop some images in** - JPEG, PNG, GIF, WebP and SVG work out of the box
4. **Refresh** with Ctrl+R once files are in place`
	case strings.Contains(title, "Statistic"):
		guidanceMarkdown = `### No Scan Data 📊

**Statistics are built from recorded library scans.**

1. **Run a scan** - refreshing any tab with Ctrl+R records one
2. **Or run** ` + "`atelier update`" + ` from a terminal to scan and update the site
3. **Come back here** - totals, breakdowns and scan history will appear`
	default:
		guidanceMarkdown = `### Getting Started 🚀

**Nothing to show yet.**

1. **Configure Settings** - point the art directory at your artwork
2. **Refresh** with Ctrl+R to scan the library
3. **Browse** - the Gallery and Collections tabs fill in as images are found`
	}

	guidanceText := widget.NewRichTextFromMarkdown(guidanceMarkdown)

	return container.NewCenter(
		container.NewPadded(
			container.NewVBox(
				titleLabel,
				widget.NewSeparator(),
				messageLabel,
				widget.NewSeparator(),
				guidanceText,
			),
		),
	)
}

// ShowErrorDialog displays an error dialog with helpful information.
func (a *App) ShowErrorDialog(title string, err error) {
	message := fmt.Sprintf("%v\n\nIf this problem persists, please report it:\n%s", err, IssuesURL)
	dialog.ShowError(fmt.Errorf("%s", message), a.window)
}

// ShowSuccessDialog displays a success message.
func (a *App) ShowSuccessDialog(title string, message string) {
	dialog.ShowInformation(title, message, a.window)
}

// translateError converts technical error messages to user-friendly text.
func (a *App) translateError(errorStr string) string {
	if errorStr == "" {
		return "Something went wrong, but no specific error was reported."
	}
	lower := strings.ToLower(errorStr)

	if strings.Contains(lower, "database") || strings.Contains(lower, "sql") {
		return "There was a problem accessing the library database. It may be locked by another copy of Atelier or corrupted."
	}

	if strings.Contains(lower, "no such file") || strings.Contains(lower, "cannot find") {
		return "A file or directory couldn't be found. Please check the paths in Settings."
	}

	if strings.Contains(lower, "permission denied") {
		return "Permission was denied when trying to access a file. Please check file permissions."
	}

	if strings.Contains(lower, "marker") {
		return "A site page is missing its generated-content markers, so it can't be updated safely."
	}

	if strings.Contains(lower, "decode") || strings.Contains(lower, "image:") || strings.Contains(lower, "unsupported") {
		return "An image couldn't be decoded. The file may be truncated or in an unsupported format."
	}

	if len(errorStr) > 100 {
		return "An error occurred: " + errorStr[:97] + "..."
	}
	return "An error occurred: " + errorStr
}

// getContextualGuidance provides context-specific guidance based on the error.
func (a *App) getContextualGuidance(title string, errorStr string) string {
	lower := strings.ToLower(errorStr)

	if strings.Contains(lower, "database") || strings.Contains(lower, "sql") {
		return `### How to Fix This:

1. **Close other copies of Atelier** that may hold the database open
2. **Restart Atelier** to release the lock
3. If the problem persists, the database may need repair:
   - Go to Settings and note the database path
   - Run ` + "`atelier backup create`" + ` to capture what is readable
   - Restore from a recent backup with ` + "`atelier backup restore`" + `

**Need More Help?** Click "Get Help" below.`
	}

	if strings.Contains(lower, "no such file") || strings.Contains(lower, "cannot find") {
		return `### How to Fix This:

1. **Open Settings** and verify the art directory path
2. **Verify the page paths** if the site update failed - gallery and collections pages must exist
3. **Create the directory** if it was moved or renamed
4. **Retry** once the paths point at real locations

**Need More Help?** Click "Get Help" below.`
	}

	if strings.Contains(lower, "marker") {
		return `### How to Fix This:

1. **Open the failing page** in a text editor
2. **Check the marker comments** - the generated block must sit between its START and END markers
3. **Restore the markers** from version control if they were edited away
4. **Retry the update** once both markers are back

**Need More Help?** Click "Get Help" below.`
	}

	return `### What You Can Do:

1. **Click Retry** to try again
2. **Check Settings** to ensure everything is configured correctly
3. **Review the error details** above for specifics
4. **Restart the application** if the problem persists

**Need More Help?** Click "Get Help" below.`
}
