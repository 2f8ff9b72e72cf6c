package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/atelierhq/atelier/internal/library"
	"github.com/atelierhq/atelier/internal/thumbs"
)

// galleryCellSize is the size of one gallery grid cell in display units.
var galleryCellSize = fyne.NewSize(200, 230)

// GalleryView shows every image in the library as a flat grid. Tapping a
// cell opens the gallery lightbox, whose sequence covers the whole grid.
type GalleryView struct {
	app *App

	lightbox *GalleryLightbox
	viewer   *LightboxWidget
}

// NewGalleryView creates the gallery view for the given app.
func NewGalleryView(app *App) *GalleryView {
	return &GalleryView{app: app}
}

// CreateView creates the complete gallery view for the current library.
func (v *GalleryView) CreateView(lib *library.Library) fyne.CanvasObject {
	if lib == nil || lib.IsEmpty() {
		return v.app.NoDataView("Gallery",
			"No images were found in the art directory.")
	}

	lightbox, err := NewGalleryLightbox(lib.Images)
	if err != nil {
		return v.app.ErrorView("Gallery", err, nil)
	}
	v.lightbox = lightbox
	v.viewer = NewLightboxWidget(v.lightbox, v.app.window)

	cells := make([]fyne.CanvasObject, 0, len(lib.Images))
	for i := range lib.Images {
		index := i
		cells = append(cells, newImageCard(v.app.services.Thumbs, lib.Images[i], thumbs.SizeGrid, func() {
			v.openImage(index)
		}))
	}

	header := widget.NewLabelWithStyle(
		fmt.Sprintf("%d images", len(lib.Images)),
		fyne.TextAlignLeading, fyne.TextStyle{Bold: true})

	grid := container.NewGridWrap(galleryCellSize, cells...)

	return container.NewBorder(
		container.NewPadded(header),
		nil,
		nil,
		nil,
		container.NewVScroll(container.NewPadded(grid)),
	)
}

// openImage opens the lightbox on the image at index.
func (v *GalleryView) openImage(index int) {
	if err := v.lightbox.Open(index); err != nil {
		v.app.ShowErrorDialog("Viewer", err)
		return
	}
	v.viewer.Show()
}
