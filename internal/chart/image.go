package chart

import (
	"bytes"
	"fmt"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// RenderPNG renders a static PNG snapshot of the request's dataset. The
// snapshot is a preview, not the slide artifact itself; axis styling is left
// to the library defaults.
func RenderPNG(req *Request) ([]byte, error) {
	theme := Themes[req.Theme]
	layout := Layouts[req.Layout]

	width, height := layout.ChartWidth, layout.ChartHeight
	if req.Width > 0 {
		width = req.Width
	}
	if req.Height > 0 {
		height = req.Height
	}

	var buf bytes.Buffer
	var err error

	switch req.ResolvedType() {
	case TypePie, TypeDoughnut:
		err = renderDonutPNG(&buf, req, width, height, req.ResolvedType() == TypeDoughnut)
	case TypeBar:
		err = renderBarPNG(&buf, req, theme, width, height)
	default:
		// line, area and scatter all draw as a continuous series
		err = renderSeriesPNG(&buf, req, theme, width, height)
	}
	if err != nil {
		return nil, fmt.Errorf("rendering png: %w", err)
	}
	return buf.Bytes(), nil
}

func chartValues(points []Point) []gochart.Value {
	vals := make([]gochart.Value, len(points))
	for i, p := range points {
		vals[i] = gochart.Value{Label: p.Label, Value: p.Value}
	}
	return vals
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

func renderBarPNG(buf *bytes.Buffer, req *Request, theme Theme, width, height int) error {
	graph := gochart.BarChart{
		Title:  req.Title,
		Width:  width,
		Height: height,
		Background: gochart.Style{
			Padding:   gochart.Box{Top: 40},
			FillColor: hexColor(theme.Background),
		},
		BarWidth: 48,
		Bars:     chartValues(req.Points),
	}
	return graph.Render(gochart.PNG, buf)
}

func renderDonutPNG(buf *bytes.Buffer, req *Request, width, height int, donut bool) error {
	if donut {
		graph := gochart.DonutChart{
			Title:  req.Title,
			Width:  width,
			Height: height,
			Values: chartValues(req.Points),
		}
		return graph.Render(gochart.PNG, buf)
	}
	graph := gochart.PieChart{
		Title:  req.Title,
		Width:  width,
		Height: height,
		Values: chartValues(req.Points),
	}
	return graph.Render(gochart.PNG, buf)
}

func renderSeriesPNG(buf *bytes.Buffer, req *Request, theme Theme, width, height int) error {
	xs := make([]float64, len(req.Points))
	ys := make([]float64, len(req.Points))
	for i, p := range req.Points {
		xs[i] = float64(i + 1)
		ys[i] = p.Value
	}

	style := gochart.Style{
		StrokeColor: hexColor(theme.seriesColor(0)),
		StrokeWidth: 2,
	}
	switch req.ResolvedType() {
	case TypeArea:
		style.FillColor = hexColor(theme.seriesColor(0)).WithAlpha(64)
	case TypeScatter:
		style.StrokeWidth = gochart.Disabled
		style.DotWidth = 5
		style.DotColor = hexColor(theme.seriesColor(0))
	}

	graph := gochart.Chart{
		Title:  req.Title,
		Width:  width,
		Height: height,
		Background: gochart.Style{
			Padding:   gochart.Box{Top: 40},
			FillColor: hexColor(theme.Background),
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    req.Title,
				Style:   style,
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return graph.Render(gochart.PNG, buf)
}
