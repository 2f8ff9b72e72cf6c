package gui

import (
	"fmt"
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/atelierhq/atelier/internal/config"
	"github.com/atelierhq/atelier/internal/site"
)

// OnboardingWizard manages the multi-step onboarding experience.
type OnboardingWizard struct {
	app          *App
	dialog       dialog.Dialog
	contentBox   *fyne.Container
	currentStep  int
	totalSteps   int
	artDir       string
	artDirStatus string
}

// showOnboarding displays the first-run onboarding wizard.
func (a *App) showOnboarding() {
	// Check if onboarding has been completed
	cfg, _ := config.Load()
	if cfg != nil && cfg.App.OnboardingCompleted {
		return // Skip if already completed
	}

	wizard := &OnboardingWizard{
		app:         a,
		currentStep: 0,
		totalSteps:  4,
	}

	wizard.show()
}

// ShowOnboardingWizard allows manually triggering the onboarding wizard.
// Used by the Settings page "Setup Guide" button.
func (a *App) ShowOnboardingWizard() {
	wizard := &OnboardingWizard{
		app:         a,
		currentStep: 0,
		totalSteps:  4,
	}

	wizard.show()
}

// show creates and displays the onboarding wizard dialog.
func (w *OnboardingWizard) show() {
	// Create content container that will be updated
	w.contentBox = container.NewVBox()

	// Create custom dialog (empty dismiss button label since we handle navigation with our own buttons)
	w.dialog = dialog.NewCustom("Atelier Setup", "", w.contentBox, w.app.window)

	// Render first step
	w.renderStep()

	// Size the dialog
	w.dialog.Resize(fyne.NewSize(700, 600))
	w.dialog.Show()
}

// renderStep renders the current step's content.
func (w *OnboardingWizard) renderStep() {
	var content fyne.CanvasObject
	var buttons fyne.CanvasObject

	switch w.currentStep {
	case 0:
		content, buttons = w.welcomeStep()
	case 1:
		content, buttons = w.artDirStep()
	case 2:
		content, buttons = w.pagesStep()
	case 3:
		content, buttons = w.featuresStep()
	}

	// Update content
	w.contentBox.Objects = []fyne.CanvasObject{
		content,
		widget.NewSeparator(),
		buttons,
	}
	w.contentBox.Refresh()
}

// welcomeStep creates the welcome screen content.
func (w *OnboardingWizard) welcomeStep() (fyne.CanvasObject, fyne.CanvasObject) {
	content := widget.NewRichTextFromMarkdown(fmt.Sprintf(`# Welcome to %s!

Thank you for installing Atelier. This quick setup will help you get started.

## What is Atelier?

Atelier sits next to a hand-built portfolio site and keeps it alive:
- 🖼️  **Collection strips** - Browse each collection as a paged card strip
- 🔍 **Full-screen viewer** - Step through images with the arrow keys
- 📊 **Library statistics** - Collection sizes, disk usage, scan history
- 📝 **Page updates** - Regenerate the gallery and collections pages in place

## Quick Start Guide

We'll help you:
1. 📁 Point Atelier at your art folder
2. 📄 Check the site pages it updates
3. ⚙️  Configure basic settings
4. 🎯 Take a quick tour of features

Click **Next** to continue or **Skip** if you want to explore on your own.`, AppName))

	nextButton := widget.NewButton("Next", func() {
		w.currentStep++
		w.renderStep()
	})
	nextButton.Importance = widget.HighImportance

	skipButton := widget.NewButton("Skip Tour", func() {
		w.completeOnboarding()
		w.dialog.Hide()
	})

	buttons := container.NewHBox(
		skipButton,
		widget.NewLabel(""), // Spacer
		nextButton,
	)

	scrollContent := container.NewScroll(content)
	scrollContent.SetMinSize(fyne.NewSize(650, 450))

	return scrollContent, buttons
}

// artDirStep creates the art folder detection screen.
func (w *OnboardingWizard) artDirStep() (fyne.CanvasObject, fyne.CanvasObject) {
	// Try to detect the configured art folder
	artDir := w.app.services.Config.Library.ArtDir
	var statusText string

	if info, err := os.Stat(artDir); err == nil && info.IsDir() {
		statusText = fmt.Sprintf("✅ **Art folder found!**\n\nPath: `%s`\n\nEach subfolder becomes one collection. You're all set.", artDir)
	} else if err == nil {
		statusText = fmt.Sprintf("⚠️ **Path is a file, not a folder**\n\nPath: `%s`\n\nPoint the art folder setting at a directory of collection subfolders.", artDir)
	} else {
		statusText = fmt.Sprintf("❌ **Art folder not found**\n\nPath: `%s`\n\nCreate it, or change the path in Settings after setup.", artDir)
	}

	w.artDir = artDir
	w.artDirStatus = statusText

	content := widget.NewRichTextFromMarkdown(fmt.Sprintf(`## Step 1: Point Atelier at Your Art

Atelier reads your portfolio from a single art folder.

%s

### Expected Layout:

`+"```"+`
art/
  ink-studies/
    description.md
    01-harbor.jpg
    02-lighthouse.jpg
  oils/
    description.md
    spring-meadow.png
`+"```"+`

- Subfolder names become collection titles (`+"`ink-studies`"+` reads as "Ink Studies")
- An optional `+"`description.md`"+` in a subfolder is shown under its heading
- Images directly in the art folder appear in the Gallery only

If the path is wrong, you can change it in Settings after setup.`, statusText))

	nextButton := widget.NewButton("Continue", func() {
		w.currentStep++
		w.renderStep()
	})
	nextButton.Importance = widget.HighImportance

	backButton := widget.NewButton("Back", func() {
		w.currentStep--
		w.renderStep()
	})

	buttons := container.NewHBox(
		backButton,
		widget.NewLabel(""), // Spacer
		nextButton,
	)

	scrollContent := container.NewScroll(content)
	scrollContent.SetMinSize(fyne.NewSize(650, 450))

	return scrollContent, buttons
}

// pagesStep creates the site pages check screen.
func (w *OnboardingWizard) pagesStep() (fyne.CanvasObject, fyne.CanvasObject) {
	cfg := w.app.services.Config
	galleryStatus := pageStatus("Gallery", cfg.Pages.GalleryFile)
	collectionsStatus := pageStatus("Collections", cfg.Pages.CollectionsFile)

	content := widget.NewRichTextFromMarkdown(fmt.Sprintf(`## Step 2: Check the Site Pages

`+"`atelier update`"+` rewrites the generated regions of your static pages in place.
The rest of each page, including your hand-written HTML, is left untouched.

%s

%s

### How the Update Works

Each page carries a pair of marker comments around its generated region:

`+"```"+`
%s
    ...regenerated on every update...
%s
`+"```"+`

The collections page uses `+"`%s`"+` and `+"`%s`"+` the same way.

**Never delete the markers.** Without them the updater refuses to touch the page.

If a page path is wrong, change it in Settings after setup.`,
		galleryStatus, collectionsStatus,
		site.GalleryStartMarker, site.GalleryEndMarker,
		site.CollectionsStartMarker, site.CollectionsEndMarker))

	nextButton := widget.NewButton("Continue", func() {
		w.currentStep++
		w.renderStep()
	})
	nextButton.Importance = widget.HighImportance

	backButton := widget.NewButton("Back", func() {
		w.currentStep--
		w.renderStep()
	})

	buttons := container.NewHBox(
		backButton,
		widget.NewLabel(""), // Spacer
		nextButton,
	)

	scrollContent := container.NewScroll(content)
	scrollContent.SetMinSize(fyne.NewSize(650, 450))

	return scrollContent, buttons
}

// featuresStep creates the features tour screen.
func (w *OnboardingWizard) featuresStep() (fyne.CanvasObject, fyne.CanvasObject) {
	content := widget.NewRichTextFromMarkdown(`## Step 3: Feature Tour

### Main Tabs

**🖼️ Collections**
- One paged card strip per collection
- Arrow buttons step one card at a time
- Click any card to open the full-screen viewer

**🎨 Gallery**
- Every image in the library in one grid
- Click any image to open the viewer

**📊 Statistics**
- Collection sizes and disk usage
- Scan history over time
- Export interactive charts to your browser

**⚙️ Settings**
- Change the art folder and page paths
- Tune card sizes and thumbnail caching
- Back up and restore the library index

### Viewer Keys

- **Left / Right** step through the open sequence, wrapping at the ends
- **Escape** closes the viewer
- Keys do nothing while the viewer is closed

### Getting Help

- Press **Ctrl/Cmd + H** to show help anytime
- Press **Ctrl/Cmd + R** to rescan the library
- Run ` + "`atelier update`" + ` to refresh the static pages

---

**You're all set!** Click **Finish** to start using Atelier.`)

	finishButton := widget.NewButton("Finish", func() {
		w.completeOnboarding()
		w.dialog.Hide()
		dialog.ShowInformation("Setup Complete!",
			"Welcome to Atelier!\n\n"+
				"Drop images into your art folder to see them appear.\n"+
				"The app rescans automatically while it is running.", w.app.window)
	})
	finishButton.Importance = widget.HighImportance

	backButton := widget.NewButton("Back", func() {
		w.currentStep--
		w.renderStep()
	})

	buttons := container.NewHBox(
		backButton,
		widget.NewLabel(""), // Spacer
		finishButton,
	)

	scrollContent := container.NewScroll(content)
	scrollContent.SetMinSize(fyne.NewSize(650, 450))

	return scrollContent, buttons
}

// completeOnboarding marks onboarding as completed and saves to config.
func (w *OnboardingWizard) completeOnboarding() {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	cfg.App.OnboardingCompleted = true

	if err := cfg.Save(); err != nil {
		// Log error but don't block
		slog.Warn("onboarding state not saved", "error", err)
	}
}

// pageStatus reports whether a configured site page exists on disk.
func pageStatus(label, path string) string {
	if path == "" {
		return fmt.Sprintf("❌ **%s page not configured**\n\nSet the path in Settings, then run `atelier update`.", label)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Sprintf("⚠️ **%s page not found**\n\nPath: `%s`\n\nThe page must exist before `atelier update` can fill it in.", label, path)
	}
	return fmt.Sprintf("✅ **%s page found**\n\nPath: `%s`", label, path)
}
