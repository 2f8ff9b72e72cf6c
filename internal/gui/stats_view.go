package gui

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/atelierhq/atelier/internal/charts"
	"github.com/atelierhq/atelier/internal/storage"
	"github.com/atelierhq/atelier/internal/storage/models"
)

// StatsDashboard manages the library statistics view: totals, collection
// and extension breakdowns, scan history and an HTML report export.
type StatsDashboard struct {
	app     *App
	service *storage.Service
	ctx     context.Context

	chartType string // "bar", "breakdown"

	updateChart func() // Updates the chart area without recreating tabs
}

// NewStatsDashboard creates a new statistics dashboard.
func NewStatsDashboard(app *App, service *storage.Service, ctx context.Context) *StatsDashboard {
	return &StatsDashboard{
		app:       app,
		service:   service,
		ctx:       ctx,
		chartType: "bar",
	}
}

// CreateView creates the complete statistics dashboard view.
func (d *StatsDashboard) CreateView() fyne.CanvasObject {
	filterControls := d.createFilterControls()

	chartContainer := container.NewVBox()

	updateChart := func() {
		chartView := d.createChartView()
		chartContainer.Objects = []fyne.CanvasObject{chartView}
		chartContainer.Refresh()
	}
	d.updateChart = updateChart

	chartContainer.Objects = []fyne.CanvasObject{
		container.NewCenter(widget.NewLabel("Loading statistics...")),
	}

	go func() {
		chartView := d.createChartView()
		chartContainer.Objects = []fyne.CanvasObject{chartView}
		chartContainer.Refresh()
	}()

	return container.NewBorder(
		container.NewPadded(filterControls),
		nil,
		nil,
		nil,
		container.NewScroll(container.NewPadded(chartContainer)),
	)
}

// createFilterControls creates the control panel above the charts.
func (d *StatsDashboard) createFilterControls() fyne.CanvasObject {
	chartTypeLabel := widget.NewLabelWithStyle("Chart Type", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	chartTypeSelect := widget.NewSelect(
		[]string{"Bar Chart", "Breakdown"},
		func(selected string) {
			if selected == "Breakdown" {
				d.chartType = "breakdown"
			} else {
				d.chartType = "bar"
			}
			if d.updateChart != nil {
				d.updateChart()
			}
		},
	)
	chartTypeSelect.Selected = "Bar Chart"
	AddSelectTooltip(chartTypeSelect, TooltipChartType)

	refreshButton := widget.NewButton("Refresh", func() {
		if d.updateChart != nil {
			d.updateChart()
		}
	})
	AddButtonTooltip(refreshButton, TooltipRefresh)

	return container.NewHBox(
		chartTypeLabel,
		chartTypeSelect,
		layout.NewSpacer(),
		refreshButton,
	)
}

// createChartView builds the chart area from the current index contents.
func (d *StatsDashboard) createChartView() fyne.CanvasObject {
	stats, err := d.service.Stats(d.ctx)
	if err != nil {
		return d.app.ErrorView("Error Loading Statistics", err, d.updateChart)
	}

	if stats.TotalImages == 0 {
		return d.app.NoDataView("Statistics",
			"The library index is empty. Refresh a view or run a scan first.")
	}

	collectionPoints := collectionDataPoints(stats)
	config := charts.DefaultFyneChartConfig()
	config.Title = ""
	config.Width = 1200
	config.Height = 420

	var collectionChart fyne.CanvasObject
	if d.chartType == "breakdown" {
		collectionChart = charts.CreateFyneBreakdownChart(collectionPoints, config)
	} else {
		collectionChart = charts.CreateFyneBarChart(collectionPoints, config)
	}

	// Reserve vertical space so the VBox places later items below the chart.
	chartSpacer := canvas.NewRectangle(color.Transparent)
	chartSpacer.SetMinSize(fyne.NewSize(config.Width, config.Height))
	chartWithSpace := container.NewStack(chartSpacer, collectionChart)

	items := []fyne.CanvasObject{
		widget.NewLabelWithStyle("Images per Collection", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		chartWithSpace,
		widget.NewSeparator(),
	}

	if scanChart := d.createScanHistoryChart(); scanChart != nil {
		items = append(items,
			widget.NewLabelWithStyle("Image Count per Scan", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			scanChart,
			widget.NewSeparator(),
		)
	}

	items = append(items, d.createSummary(stats))

	exportButton := widget.NewButton("Export HTML Report", d.exportReport)
	AddButtonTooltip(exportButton, TooltipExport)
	items = append(items,
		widget.NewSeparator(),
		container.NewHBox(layout.NewSpacer(), exportButton),
	)

	return container.NewVBox(items...)
}

// createScanHistoryChart draws the image count across recent scans, oldest
// first. Returns nil when fewer than two scans exist.
func (d *StatsDashboard) createScanHistoryChart() fyne.CanvasObject {
	scans, err := d.service.RecentScans(d.ctx, 30)
	if err != nil || len(scans) < 2 {
		return nil
	}

	points := scanDataPoints(scans)
	config := charts.DefaultFyneChartConfig()
	config.Title = ""
	config.Width = 1200
	config.Height = 320

	chartSpacer := canvas.NewRectangle(color.Transparent)
	chartSpacer.SetMinSize(fyne.NewSize(config.Width, config.Height))
	return container.NewStack(chartSpacer, charts.CreateFyneLineChart(points, config))
}

// createSummary creates the summary information display.
func (d *StatsDashboard) createSummary(stats *models.LibraryStats) fyne.CanvasObject {
	summaryContent := fmt.Sprintf(`## Library Summary

**Images**: %d
**Collections**: %d
**Disk Usage**: %s`,
		stats.TotalImages,
		stats.TotalCollections,
		formatBytes(stats.TotalBytes),
	)

	if stats.MissingImages > 0 {
		summaryContent += fmt.Sprintf(`
**Missing Files**: %d (indexed but no longer on disk)`, stats.MissingImages)
	}

	if stats.LastScan != nil {
		summaryContent += fmt.Sprintf(`
**Last Scan**: %s (%d images, +%d / ~%d / -%d)`,
			stats.LastScan.FinishedAt.Local().Format("2006-01-02 15:04"),
			stats.LastScan.ImageCount,
			stats.LastScan.Added,
			stats.LastScan.Updated,
			stats.LastScan.Missing,
		)
	}

	if len(stats.ByExtension) > 0 {
		summaryContent += "\n\n**By Extension**:"
		for _, ext := range stats.ByExtension {
			summaryContent += fmt.Sprintf("\n- `%s`: %d", ext.Ext, ext.Images)
		}
	}

	return widget.NewRichTextFromMarkdown(summaryContent)
}

// exportReport renders the current statistics as interactive HTML charts
// and opens the report in the default browser.
func (d *StatsDashboard) exportReport() {
	stats, err := d.service.Stats(d.ctx)
	if err != nil {
		d.app.ShowErrorDialog("Export Report", err)
		return
	}

	dir, err := os.MkdirTemp("", "atelier-stats-")
	if err != nil {
		d.app.ShowErrorDialog("Export Report", err)
		return
	}

	config := charts.DefaultChartConfig()
	config.Title = "Images per Collection"

	collectionsPath := filepath.Join(dir, "collections.html")
	if err := charts.RenderBarChart(collectionDataPoints(stats), config, collectionsPath); err != nil {
		d.app.ShowErrorDialog("Export Report", err)
		return
	}

	extConfig := charts.DefaultChartConfig()
	extConfig.Title = "Images by Extension"
	extPoints := make([]charts.DataPoint, 0, len(stats.ByExtension))
	for _, ext := range stats.ByExtension {
		extPoints = append(extPoints, charts.DataPoint{Label: ext.Ext, Value: float64(ext.Images)})
	}
	if len(extPoints) > 0 {
		if err := charts.RenderPieChart(extPoints, extConfig, filepath.Join(dir, "extensions.html")); err != nil {
			d.app.ShowErrorDialog("Export Report", err)
			return
		}
	}

	if scans, err := d.service.RecentScans(d.ctx, 30); err == nil && len(scans) >= 2 {
		scanConfig := charts.DefaultChartConfig()
		scanConfig.Title = "Image Count per Scan"
		if err := charts.RenderLineChart(scanDataPoints(scans), scanConfig, filepath.Join(dir, "scans.html")); err != nil {
			d.app.ShowErrorDialog("Export Report", err)
			return
		}
	}

	if err := charts.OpenInBrowser(collectionsPath); err != nil {
		d.app.ShowSuccessDialog("Export Complete", fmt.Sprintf("Charts written to:\n%s", dir))
		return
	}
	d.app.ShowSuccessDialog("Export Complete", fmt.Sprintf("Charts written to:\n%s\n\nThe collection chart is open in your browser.", dir))
}

// collectionDataPoints converts the per-collection breakdown into chart data.
func collectionDataPoints(stats *models.LibraryStats) []charts.DataPoint {
	points := make([]charts.DataPoint, 0, len(stats.ByCollection))
	for _, c := range stats.ByCollection {
		points = append(points, charts.DataPoint{Label: c.DisplayName, Value: float64(c.Images)})
	}
	return points
}

// scanDataPoints converts scan records into chart data, oldest first.
func scanDataPoints(scans []*models.ScanRecord) []charts.DataPoint {
	points := make([]charts.DataPoint, 0, len(scans))
	for i := len(scans) - 1; i >= 0; i-- {
		points = append(points, charts.DataPoint{
			Label: scans[i].FinishedAt.Local().Format("Jan 2 15:04"),
			Value: float64(scans[i].ImageCount),
		})
	}
	return points
}

// formatBytes renders a byte count in a human-readable unit.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
