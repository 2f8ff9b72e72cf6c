package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// showAboutDialog displays the About dialog with app information, credits, and links.
func (a *App) showAboutDialog() {
	titleText := widget.NewRichTextFromMarkdown(fmt.Sprintf("# %s\n## Version %s", AppName, Version))

	descText := widget.NewLabel("A desktop viewer and site updater for a static art portfolio,\nwith collection carousels, a keyboard-driven lightbox, and library statistics.")

	copyrightText := widget.NewRichTextFromMarkdown(fmt.Sprintf("**%s**\n\n%s", Copyright, License))

	linksContent := fmt.Sprintf(`### Links

- **GitHub Repository**: <%s>
- **Documentation**: <%s>
- **Report Issues**: <%s>`,
		GitHubURL,
		DocsURL,
		IssuesURL,
	)
	linksText := widget.NewRichTextFromMarkdown(linksContent)

	acknowledgementsContent := `### Acknowledgments

**Atelier** is built with and relies on:

- **[Fyne](https://fyne.io/)** - Beautiful cross-platform GUI framework
- **[SQLite](https://www.sqlite.org/)** - Embedded database engine
- **[golang-migrate](https://github.com/golang-migrate/migrate)** - Database migrations
- **[imaging](https://github.com/disintegration/imaging)** - Image resizing for thumbnails
- **[goldmark](https://github.com/yuin/goldmark)** - Markdown rendering for collection descriptions
- **[go-echarts](https://github.com/go-echarts/go-echarts)** - Interactive HTML chart reports

**Special Thanks** to every artist who keeps a hand-built portfolio site alive.`

	acknowledgementsText := widget.NewRichTextFromMarkdown(acknowledgementsContent)

	content := container.NewVBox(
		titleText,
		widget.NewSeparator(),
		descText,
		widget.NewSeparator(),
		copyrightText,
		widget.NewSeparator(),
		linksText,
		widget.NewSeparator(),
		acknowledgementsText,
	)

	scrollContent := container.NewScroll(content)
	scrollContent.SetMinSize(fyne.NewSize(600, 500))

	customDialog := dialog.NewCustom("About Atelier", "Close", scrollContent, a.window)
	customDialog.Resize(fyne.NewSize(650, 550))
	customDialog.Show()
}
