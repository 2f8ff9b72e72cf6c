package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// trackLayout places carousel cards in a single row at fixed intervals, so
// card positions line up exactly with the track translation reported by
// Carousel.Offset.
type trackLayout struct {
	cardWidth  float32
	cardHeight float32
	gap        float32
}

func (l *trackLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) == 0 {
		return fyne.NewSize(0, l.cardHeight)
	}
	width := float32(len(objects))*l.cardWidth + float32(len(objects)-1)*l.gap
	return fyne.NewSize(width, l.cardHeight)
}

func (l *trackLayout) Layout(objects []fyne.CanvasObject, _ fyne.Size) {
	x := float32(0)
	for _, o := range objects {
		o.Resize(fyne.NewSize(l.cardWidth, l.cardHeight))
		o.Move(fyne.NewPos(x, 0))
		x += l.cardWidth + l.gap
	}
}

// CarouselWidget renders one card strip with prev/next paging controls.
// Paging state lives in the Carousel controller; applyState is the only
// method that writes controller state to the screen.
type CarouselWidget struct {
	widget.BaseWidget

	controller *Carousel
	cardHeight float32

	prevBtn *widget.Button
	nextBtn *widget.Button
	track   *fyne.Container
	scroll  *container.Scroll
	content *fyne.Container
}

// NewCarouselWidget creates a carousel widget over the given cards. The
// cards must match the controller's card count.
func NewCarouselWidget(controller *Carousel, cards []fyne.CanvasObject, cardHeight float32) *CarouselWidget {
	w := &CarouselWidget{
		controller: controller,
		cardHeight: cardHeight,
	}

	w.track = container.New(&trackLayout{
		cardWidth:  controller.CardWidth(),
		cardHeight: cardHeight,
		gap:        controller.Gap(),
	}, cards...)

	// The strip pages only through the controls, never the mouse wheel.
	w.scroll = container.NewScroll(w.track)
	w.scroll.Direction = container.ScrollNone

	w.prevBtn = widget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() {
		w.controller.Prev()
		w.applyState()
	})
	w.nextBtn = widget.NewButtonWithIcon("", theme.NavigateNextIcon(), func() {
		w.controller.Next()
		w.applyState()
	})

	w.content = container.NewBorder(nil, nil, w.prevBtn, w.nextBtn, w.scroll)

	w.ExtendBaseWidget(w)
	w.applyState()
	return w
}

// CreateRenderer implements fyne.Widget.
func (w *CarouselWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(w.content)
}

// MinSize reserves enough height for a full card row.
func (w *CarouselWidget) MinSize() fyne.Size {
	min := w.BaseWidget.MinSize()
	return fyne.NewSize(min.Width, max(min.Height, w.cardHeight))
}

// Resize lays the widget out and then refits the controller to the track
// viewport that layout produced. Card capacity always comes from the live
// viewport width, never from a cached value.
func (w *CarouselWidget) Resize(size fyne.Size) {
	w.BaseWidget.Resize(size)

	if w.scroll == nil {
		return
	}
	w.controller.Resize(w.scroll.Size().Width)
	w.applyState()
}

// Controller returns the paging state behind this widget.
func (w *CarouselWidget) Controller() *Carousel {
	return w.controller
}

// applyState projects controller state onto the screen: it slides the track
// to the controller offset and enables each control exactly when the
// controller can move that way.
func (w *CarouselWidget) applyState() {
	w.scroll.Offset = fyne.NewPos(-w.controller.Offset(), 0)
	w.scroll.Refresh()

	if w.controller.CanPrev() {
		w.prevBtn.Enable()
	} else {
		w.prevBtn.Disable()
	}
	if w.controller.CanNext() {
		w.nextBtn.Enable()
	} else {
		w.nextBtn.Disable()
	}
}
