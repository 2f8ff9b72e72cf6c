package gui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/atelierhq/atelier/internal/library"
)

// LightboxViewer is the controller surface LightboxWidget projects. Both
// lightbox flavours satisfy it through their embedded viewer state.
type LightboxViewer interface {
	Close()
	ShowNext()
	ShowPrev()
	Current() *library.Image
	Index() int
	Len() int
	IsOpen() bool
	HandleKey(name fyne.KeyName) bool
}

// tapRegion is an invisible area that consumes taps and scroll events. The
// lightbox places one across the backdrop to close on backdrop taps, and
// one over the image so taps there go nowhere. Swallowing scrolls keeps the
// views underneath from moving while the viewer is up.
type tapRegion struct {
	widget.BaseWidget
	onTapped func()
}

func newTapRegion(onTapped func()) *tapRegion {
	r := &tapRegion{onTapped: onTapped}
	r.ExtendBaseWidget(r)
	return r
}

func (r *tapRegion) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(canvas.NewRectangle(color.Transparent))
}

func (r *tapRegion) Tapped(_ *fyne.PointEvent) {
	if r.onTapped != nil {
		r.onTapped()
	}
}

func (r *tapRegion) Scrolled(_ *fyne.ScrollEvent) {}

// LightboxWidget projects a lightbox controller onto the window's overlay
// stack: a dimmed backdrop, the current image at full size, a caption, and
// close, previous and next controls. applyState is the only method that
// writes viewer state to the screen.
type LightboxWidget struct {
	viewer LightboxViewer
	window fyne.Window

	image   *canvas.Image
	caption *widget.Label
	counter *widget.Label
	prevBtn *widget.Button
	nextBtn *widget.Button
	content fyne.CanvasObject

	prevKeyHandler func(*fyne.KeyEvent)
}

// NewLightboxWidget wires a viewer to the given window. The overlay is not
// shown until Show is called after a successful open on the viewer.
func NewLightboxWidget(viewer LightboxViewer, window fyne.Window) *LightboxWidget {
	w := &LightboxWidget{
		viewer: viewer,
		window: window,
	}

	w.image = canvas.NewImageFromResource(nil)
	w.image.FillMode = canvas.ImageFillContain

	w.caption = widget.NewLabel("")
	w.caption.Alignment = fyne.TextAlignCenter
	w.counter = widget.NewLabel("")
	w.counter.Alignment = fyne.TextAlignCenter

	closeBtn := widget.NewButtonWithIcon("", theme.CancelIcon(), w.Close)
	w.prevBtn = widget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() {
		w.viewer.ShowPrev()
		w.applyState()
	})
	w.nextBtn = widget.NewButtonWithIcon("", theme.NavigateNextIcon(), func() {
		w.viewer.ShowNext()
		w.applyState()
	})

	backdrop := canvas.NewRectangle(color.NRGBA{R: 10, G: 10, B: 12, A: 236})

	// Taps on the image stop at its own region; taps anywhere else fall
	// through to the backdrop region and close the viewer.
	imageArea := container.NewStack(w.image, newTapRegion(nil))

	frame := container.NewBorder(
		container.NewHBox(layout.NewSpacer(), closeBtn),
		container.NewVBox(w.caption, w.counter),
		w.prevBtn,
		w.nextBtn,
		imageArea,
	)

	w.content = container.NewStack(backdrop, newTapRegion(w.Close), container.NewPadded(frame))
	return w
}

// Show places the overlay on the window and takes over key handling while
// the viewer is open. It does nothing if the viewer is closed.
func (w *LightboxWidget) Show() {
	if !w.viewer.IsOpen() {
		return
	}

	w.applyState()
	w.window.Canvas().Overlays().Add(w.content)

	w.prevKeyHandler = w.window.Canvas().OnTypedKey()
	w.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if !w.viewer.HandleKey(ev.Name) {
			if w.prevKeyHandler != nil {
				w.prevKeyHandler(ev)
			}
			return
		}

		if w.viewer.IsOpen() {
			w.applyState()
		} else {
			w.dismiss()
		}
	})
}

// Close dismisses the viewer and removes the overlay.
func (w *LightboxWidget) Close() {
	w.viewer.Close()
	w.dismiss()
}

// dismiss removes the overlay and hands key handling back.
func (w *LightboxWidget) dismiss() {
	w.window.Canvas().Overlays().Remove(w.content)
	w.window.Canvas().SetOnTypedKey(w.prevKeyHandler)
	w.prevKeyHandler = nil
}

// applyState is the single projection of viewer state onto the overlay.
func (w *LightboxWidget) applyState() {
	img := w.viewer.Current()
	if img == nil {
		return
	}

	w.image.Resource = nil
	w.image.File = img.Path
	w.image.Refresh()

	w.caption.SetText(img.Title)
	w.counter.SetText(fmt.Sprintf("%d / %d", w.viewer.Index()+1, w.viewer.Len()))

	// With a single image there is nowhere to navigate.
	if w.viewer.Len() > 1 {
		w.prevBtn.Show()
		w.nextBtn.Show()
	} else {
		w.prevBtn.Hide()
		w.nextBtn.Hide()
	}
}
