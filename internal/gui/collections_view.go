package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/atelierhq/atelier/internal/library"
	"github.com/atelierhq/atelier/internal/thumbs"
)

// CollectionsView shows one carousel strip per collection, all feeding a
// single shared lightbox.
type CollectionsView struct {
	app *App

	lightbox *CollectionLightbox
	viewer   *LightboxWidget
}

// NewCollectionsView creates the collections view for the given app.
func NewCollectionsView(app *App) *CollectionsView {
	return &CollectionsView{app: app}
}

// CreateView creates the complete collections view for the current library.
func (v *CollectionsView) CreateView(lib *library.Library) fyne.CanvasObject {
	if lib == nil || len(lib.Collections) == 0 {
		return v.app.NoDataView("Collections",
			"No collections were found in the art directory.")
	}

	v.lightbox = NewCollectionLightbox(lib.Collections)
	v.viewer = NewLightboxWidget(v.lightbox, v.app.window)

	sections := container.NewVBox()
	for _, c := range lib.Collections {
		section := v.createSection(c)
		if section == nil {
			continue
		}
		sections.Add(section)
		sections.Add(widget.NewSeparator())
	}

	return container.NewVScroll(container.NewPadded(sections))
}

// createSection builds the header, optional description and card strip for
// one collection.
func (v *CollectionsView) createSection(c *library.Collection) fyne.CanvasObject {
	if len(c.Images) == 0 {
		return nil
	}

	cfg := v.app.services.Config.Carousel
	controller, err := NewCarousel(len(c.Images), cfg.CardWidth, cfg.Gap, v.app.window.Canvas().Size().Width)
	if err != nil {
		v.app.ShowErrorDialog("Collection "+c.DisplayName, err)
		return nil
	}

	cards := make([]fyne.CanvasObject, 0, len(c.Images))
	for i := range c.Images {
		index := i
		cards = append(cards, newImageCard(v.app.services.Thumbs, c.Images[i], thumbs.SizeCard, func() {
			v.openImage(c.Key, index)
		}))
	}

	header := widget.NewLabelWithStyle(c.DisplayName, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})

	items := []fyne.CanvasObject{header}
	if c.Description != "" {
		description := widget.NewRichTextFromMarkdown(c.Description)
		description.Wrapping = fyne.TextWrapWord
		items = append(items, description)
	}
	items = append(items, NewCarouselWidget(controller, cards, cfg.CardHeight))

	return container.NewVBox(items...)
}

// openImage opens the shared lightbox on one image of one collection.
func (v *CollectionsView) openImage(key string, index int) {
	if err := v.lightbox.OpenGroup(key, index); err != nil {
		v.app.ShowErrorDialog("Viewer", err)
		return
	}
	v.app.state.UpdateCollectionsState(key)
	v.viewer.Show()
}
