package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/atelierhq/atelier/internal/library"
	"github.com/atelierhq/atelier/internal/thumbs"
)

// imageCard is a tappable thumbnail with a caption, used both for carousel
// cards and for gallery grid cells.
type imageCard struct {
	widget.BaseWidget

	image    *canvas.Image
	label    *widget.Label
	onTapped func()
}

// newImageCard builds a card for the given image. The thumbnail comes from
// the thumbnail cache; when that fails the original file is shown instead.
func newImageCard(provider ThumbnailProvider, img *library.Image, size thumbs.Size, onTapped func()) *imageCard {
	path := img.Path
	if provider != nil {
		if thumb, err := provider.Thumb(img.Path, size); err == nil {
			path = thumb
		}
	}

	c := &imageCard{onTapped: onTapped}
	c.image = canvas.NewImageFromFile(path)
	c.image.FillMode = canvas.ImageFillContain
	c.label = widget.NewLabel(img.Title)
	c.label.Alignment = fyne.TextAlignCenter
	c.label.Truncation = fyne.TextTruncateEllipsis
	c.ExtendBaseWidget(c)
	return c
}

// CreateRenderer implements fyne.Widget.
func (c *imageCard) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewBorder(nil, c.label, nil, nil, c.image))
}

// Tapped implements fyne.Tappable.
func (c *imageCard) Tapped(_ *fyne.PointEvent) {
	if c.onTapped != nil {
		c.onTapped()
	}
}
