package gui

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// LoadingView creates a centered loading view with a message.
func (a *App) LoadingView(message string) fyne.CanvasObject {
	return container.NewCenter(
		container.NewVBox(
			widget.NewProgressBarInfinite(),
			widget.NewLabel(message),
		),
	)
}

// WithLoading executes a function asynchronously and shows a loading
// indicator until it finishes. Returns a container that shows the loading
// state initially, then the result or an error view with retry.
func (a *App) WithLoading(message string, loadFunc func() (fyne.CanvasObject, error)) fyne.CanvasObject {
	content := container.NewStack(a.LoadingView(message))

	var load func()
	load = func() {
		go func() {
			result, err := loadFunc()

			// Brief delay so the loading indicator is visible.
			time.Sleep(50 * time.Millisecond)
			if err != nil {
				content.Objects = []fyne.CanvasObject{
					a.ErrorView("Error Loading Data", err, func() {
						content.Objects = []fyne.CanvasObject{a.LoadingView(message)}
						content.Refresh()
						load()
					}),
				}
			} else {
				content.Objects = []fyne.CanvasObject{result}
			}
			content.Refresh()
		}()
	}
	load()

	return content
}

// AsyncRefresh returns a function that reloads the given container's
// content asynchronously behind a loading indicator.
func (a *App) AsyncRefresh(containerRef *fyne.Container, message string, refreshFunc func() (fyne.CanvasObject, error)) func() {
	var trigger func()
	trigger = func() {
		containerRef.Objects = []fyne.CanvasObject{a.LoadingView(message)}
		containerRef.Refresh()

		go func() {
			result, err := refreshFunc()

			time.Sleep(50 * time.Millisecond)
			if err != nil {
				containerRef.Objects = []fyne.CanvasObject{
					a.ErrorView("Error Refreshing Data", err, trigger),
				}
			} else {
				containerRef.Objects = []fyne.CanvasObject{result}
			}
			containerRef.Refresh()
		}()
	}
	return trigger
}
