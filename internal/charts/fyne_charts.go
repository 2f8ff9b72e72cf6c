package charts

import (
	"fmt"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// FyneChartConfig holds configuration for charts drawn on a Fyne canvas.
type FyneChartConfig struct {
	Title      string
	YAxisLabel string
	Width      float32
	Height     float32
	ShowGrid   bool
	GridColor  color.Color
	LineColor  color.Color
	PointColor color.Color
	BarColor   color.Color
}

// DefaultFyneChartConfig returns default Fyne chart configuration.
func DefaultFyneChartConfig() FyneChartConfig {
	return FyneChartConfig{
		Width:      800,
		Height:     400,
		ShowGrid:   true,
		GridColor:  color.RGBA{R: 200, G: 200, B: 200, A: 255},
		LineColor:  color.RGBA{R: 84, G: 112, B: 198, A: 255},
		PointColor: color.RGBA{R: 84, G: 112, B: 198, A: 255},
		BarColor:   color.RGBA{R: 84, G: 112, B: 198, A: 255},
	}
}

var chartTextColor = color.RGBA{R: 66, G: 66, B: 66, A: 255}

// CreateFyneLineChart draws a line chart, one point per data entry. Used for
// the image count across scan history.
func CreateFyneLineChart(data []DataPoint, config FyneChartConfig) fyne.CanvasObject {
	if len(data) == 0 {
		return widget.NewLabel("No data available")
	}

	minVal, maxVal := findMinMaxValues(data)
	valueRange := maxVal - minVal
	if valueRange == 0 {
		valueRange = 1
	}

	padding := valueRange * 0.1
	minVal -= padding
	maxVal += padding
	valueRange = maxVal - minVal

	chartWidth := config.Width
	chartHeight := config.Height
	leftMargin := float32(60)
	rightMargin := float32(40)
	topMargin := float32(40)
	bottomMargin := float32(60)

	plotWidth := chartWidth - leftMargin - rightMargin
	plotHeight := chartHeight - topMargin - bottomMargin

	// A single point sits in the middle of the plot.
	xAt := func(i int) float32 {
		if len(data) == 1 {
			return leftMargin + plotWidth/2
		}
		return leftMargin + (plotWidth / float32(len(data)-1) * float32(i))
	}

	objects := []fyne.CanvasObject{}

	if config.ShowGrid {
		for i := 0; i <= 5; i++ {
			y := topMargin + (plotHeight / 5 * float32(i))
			line := canvas.NewLine(config.GridColor)
			line.Position1 = fyne.NewPos(leftMargin, y)
			line.Position2 = fyne.NewPos(leftMargin+plotWidth, y)
			line.StrokeWidth = 1
			objects = append(objects, line)

			value := maxVal - (valueRange / 5 * float64(i))
			label := canvas.NewText(formatChartValue(value), chartTextColor)
			label.TextSize = 10
			label.Move(fyne.NewPos(5, y-7))
			objects = append(objects, label)
		}

		gridStep := int(math.Ceil(float64(len(data)) / 10.0))
		if gridStep < 1 {
			gridStep = 1
		}
		for i := 0; i < len(data); i += gridStep {
			x := xAt(i)
			line := canvas.NewLine(config.GridColor)
			line.Position1 = fyne.NewPos(x, topMargin)
			line.Position2 = fyne.NewPos(x, topMargin+plotHeight)
			line.StrokeWidth = 1
			objects = append(objects, line)
		}
	}

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Black
	border.StrokeWidth = 2
	border.Resize(fyne.NewSize(plotWidth, plotHeight))
	border.Move(fyne.NewPos(leftMargin, topMargin))
	objects = append(objects, border)

	points := make([]fyne.Position, len(data))
	labelStep := int(math.Ceil(float64(len(data)) / 10.0))
	if labelStep < 1 {
		labelStep = 1
	}
	for i, point := range data {
		x := xAt(i)
		normalizedValue := (point.Value - minVal) / valueRange
		y := topMargin + plotHeight - (plotHeight * float32(normalizedValue))
		points[i] = fyne.NewPos(x, y)

		circle := canvas.NewCircle(config.PointColor)
		circle.Resize(fyne.NewSize(6, 6))
		circle.Move(fyne.NewPos(x-3, y-3))
		objects = append(objects, circle)

		if i%labelStep == 0 || i == len(data)-1 {
			label := canvas.NewText(point.Label, chartTextColor)
			label.TextSize = 9
			label.Alignment = fyne.TextAlignCenter
			label.Move(fyne.NewPos(x-30, topMargin+plotHeight+10))
			objects = append(objects, label)
		}
	}

	for i := 0; i < len(points)-1; i++ {
		line := canvas.NewLine(config.LineColor)
		line.Position1 = points[i]
		line.Position2 = points[i+1]
		line.StrokeWidth = 2
		objects = append(objects, line)
	}

	objects = append(objects, chartHeadings(config, chartWidth, chartHeight)...)

	chart := container.NewWithoutLayout(objects...)
	chart.Resize(fyne.NewSize(chartWidth, chartHeight))
	return chart
}

// CreateFyneBarChart draws a bar chart, one bar per data entry. Used for
// per-collection image counts.
func CreateFyneBarChart(data []DataPoint, config FyneChartConfig) fyne.CanvasObject {
	if len(data) == 0 {
		return widget.NewLabel("No data available")
	}

	minVal, maxVal := findMinMaxValues(data)
	// Bars read best anchored at zero.
	if minVal > 0 {
		minVal = 0
	}
	valueRange := maxVal - minVal
	if valueRange == 0 {
		valueRange = 1
	}
	maxVal += valueRange * 0.1
	valueRange = maxVal - minVal

	chartWidth := config.Width
	chartHeight := config.Height
	leftMargin := float32(60)
	rightMargin := float32(40)
	topMargin := float32(40)
	bottomMargin := float32(80)

	plotWidth := chartWidth - leftMargin - rightMargin
	plotHeight := chartHeight - topMargin - bottomMargin

	objects := []fyne.CanvasObject{}

	if config.ShowGrid {
		for i := 0; i <= 5; i++ {
			y := topMargin + (plotHeight / 5 * float32(i))
			line := canvas.NewLine(config.GridColor)
			line.Position1 = fyne.NewPos(leftMargin, y)
			line.Position2 = fyne.NewPos(leftMargin+plotWidth, y)
			line.StrokeWidth = 1
			objects = append(objects, line)

			value := maxVal - (valueRange / 5 * float64(i))
			label := canvas.NewText(formatChartValue(value), chartTextColor)
			label.TextSize = 10
			label.Move(fyne.NewPos(5, y-7))
			objects = append(objects, label)
		}
	}

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Black
	border.StrokeWidth = 2
	border.Resize(fyne.NewSize(plotWidth, plotHeight))
	border.Move(fyne.NewPos(leftMargin, topMargin))
	objects = append(objects, border)

	barWidth := plotWidth / float32(len(data)) * 0.8
	barSpacing := plotWidth / float32(len(data))

	for i, point := range data {
		normalizedValue := (point.Value - minVal) / valueRange
		barHeight := plotHeight * float32(normalizedValue)

		x := leftMargin + (barSpacing * float32(i)) + (barSpacing-barWidth)/2
		y := topMargin + plotHeight - barHeight

		bar := canvas.NewRectangle(config.BarColor)
		bar.Resize(fyne.NewSize(barWidth, barHeight))
		bar.Move(fyne.NewPos(x, y))
		objects = append(objects, bar)

		label := canvas.NewText(point.Label, chartTextColor)
		label.TextSize = 8
		label.Alignment = fyne.TextAlignCenter
		label.Move(fyne.NewPos(x-10, topMargin+plotHeight+10))
		label.Resize(fyne.NewSize(barWidth+20, 20))
		objects = append(objects, label)

		valueLabel := canvas.NewText(formatChartValue(point.Value), chartTextColor)
		valueLabel.TextSize = 9
		valueLabel.Alignment = fyne.TextAlignCenter
		valueLabel.Move(fyne.NewPos(x, y-15))
		objects = append(objects, valueLabel)
	}

	objects = append(objects, chartHeadings(config, chartWidth, chartHeight)...)

	chart := container.NewWithoutLayout(objects...)
	chart.Resize(fyne.NewSize(chartWidth, chartHeight))
	return chart
}

// CreateFyneBreakdownChart draws a horizontal bar breakdown, each row showing
// a category's share of the total. Used for collection share of the library.
func CreateFyneBreakdownChart(data []DataPoint, config FyneChartConfig) fyne.CanvasObject {
	if len(data) == 0 {
		return widget.NewLabel("No data available")
	}

	total := 0.0
	for _, point := range data {
		total += point.Value
	}
	if total == 0 {
		return widget.NewLabel("No data to display")
	}

	chartWidth := config.Width
	chartHeight := config.Height
	leftMargin := float32(100)
	rightMargin := float32(150)
	topMargin := float32(100)

	plotWidth := chartWidth - leftMargin - rightMargin

	barHeight := float32(35)
	barSpacing := float32(20)

	objects := []fyne.CanvasObject{}

	if config.Title != "" {
		title := canvas.NewText(config.Title, chartTextColor)
		title.TextSize = 18
		title.Alignment = fyne.TextAlignCenter
		title.Move(fyne.NewPos(0, 30))
		title.Resize(fyne.NewSize(chartWidth, 30))
		objects = append(objects, title)
	}

	colors := []color.Color{
		color.RGBA{R: 30, G: 96, B: 215, A: 255},
		color.RGBA{R: 34, G: 139, B: 34, A: 255},
		color.RGBA{R: 255, G: 140, B: 0, A: 255},
		color.RGBA{R: 178, G: 34, B: 34, A: 255},
		color.RGBA{R: 75, G: 0, B: 130, A: 255},
		color.RGBA{R: 0, G: 128, B: 128, A: 255},
		color.RGBA{R: 255, G: 69, B: 0, A: 255},
		color.RGBA{R: 128, G: 0, B: 128, A: 255},
		color.RGBA{R: 199, G: 21, B: 133, A: 255},
		color.RGBA{R: 0, G: 100, B: 100, A: 255},
	}

	for i, point := range data {
		percentage := (point.Value / total) * 100
		barWidth := plotWidth * float32(point.Value/total)

		y := topMargin + (barHeight+barSpacing)*float32(i)

		label := canvas.NewText(point.Label, chartTextColor)
		label.TextSize = 14
		label.Alignment = fyne.TextAlignTrailing
		label.Move(fyne.NewPos(10, y+barHeight/2-7))
		label.Resize(fyne.NewSize(leftMargin-20, 20))
		objects = append(objects, label)

		bar := canvas.NewRectangle(colors[i%len(colors)])
		bar.Resize(fyne.NewSize(barWidth, barHeight))
		bar.Move(fyne.NewPos(leftMargin, y))
		objects = append(objects, bar)

		valueLabel := canvas.NewText(fmt.Sprintf("%s (%.1f%%)", formatChartValue(point.Value), percentage), chartTextColor)
		valueLabel.TextSize = 14
		valueLabel.Alignment = fyne.TextAlignLeading
		valueLabel.Move(fyne.NewPos(leftMargin+plotWidth+15, y+barHeight/2-7))
		objects = append(objects, valueLabel)
	}

	chart := container.NewWithoutLayout(objects...)
	chart.Resize(fyne.NewSize(chartWidth, chartHeight))
	return chart
}

// chartHeadings builds the title and Y-axis label shared by the axis charts.
func chartHeadings(config FyneChartConfig, chartWidth, chartHeight float32) []fyne.CanvasObject {
	var objects []fyne.CanvasObject

	if config.Title != "" {
		title := canvas.NewText(config.Title, chartTextColor)
		title.TextSize = 16
		title.Alignment = fyne.TextAlignCenter
		title.Move(fyne.NewPos(chartWidth/2-100, 10))
		objects = append(objects, title)
	}

	if config.YAxisLabel != "" {
		yAxisLabel := canvas.NewText(config.YAxisLabel, chartTextColor)
		yAxisLabel.TextSize = 12
		yAxisLabel.Move(fyne.NewPos(10, chartHeight/2))
		objects = append(objects, yAxisLabel)
	}

	return objects
}

// formatChartValue renders whole numbers without a decimal tail. Image counts
// dominate these charts.
func formatChartValue(value float64) string {
	if value == math.Trunc(value) {
		return fmt.Sprintf("%.0f", value)
	}
	return fmt.Sprintf("%.1f", value)
}

// findMinMaxValues finds the minimum and maximum values in the data.
func findMinMaxValues(data []DataPoint) (float64, float64) {
	if len(data) == 0 {
		return 0, 100
	}

	min := data[0].Value
	max := data[0].Value
	for _, point := range data {
		if point.Value < min {
			min = point.Value
		}
		if point.Value > max {
			max = point.Value
		}
	}
	return min, max
}
