package chart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// chartConfig mirrors the Chart.js configuration object embedded in the
// rendered fragment.
type chartConfig struct {
	Type    string         `json:"type"`
	Data    chartData      `json:"data"`
	Options map[string]any `json:"options"`
}

type chartData struct {
	Labels   []string  `json:"labels,omitempty"`
	Datasets []dataset `json:"datasets"`
}

type dataset struct {
	Label           string  `json:"label,omitempty"`
	Data            any     `json:"data"`
	BackgroundColor any     `json:"backgroundColor,omitempty"`
	BorderColor     any     `json:"borderColor,omitempty"`
	BorderWidth     float64 `json:"borderWidth,omitempty"`
	Fill            bool    `json:"fill,omitempty"`
	Tension         float64 `json:"tension,omitempty"`
	PointRadius     float64 `json:"pointRadius,omitempty"`
}

type xyPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// renderFunc builds the Chart.js config for one chart type. Dispatch is a
// lookup table rather than a type-switch so new types register in one place.
type renderFunc func(req *Request, theme Theme) chartConfig

var renderers = map[Type]renderFunc{
	TypeBar:      renderBar,
	TypeLine:     renderLine,
	TypeArea:     renderArea,
	TypePie:      renderPie,
	TypeDoughnut: renderDoughnut,
	TypeScatter:  renderScatter,
}

// SupportedTypes returns the chart type tags in stable order.
func SupportedTypes() []string {
	names := make([]string, 0, len(renderers))
	for t := range renderers {
		names = append(names, string(t))
	}
	sort.Strings(names)
	return names
}

var fragmentTmpl = template.Must(template.New("fragment").Parse(`<div class="chartgen-chart" style="width:{{.Width}}px;height:{{.Height}}px;background:{{.Background}};">
  <canvas id="{{.CanvasID}}" width="{{.Width}}" height="{{.Height}}"></canvas>
</div>
<script src="https://cdn.jsdelivr.net/npm/chart.js@4"></script>
<script>
(function () {
  var ctx = document.getElementById({{.CanvasIDJSON}}).getContext("2d");
  new Chart(ctx, {{.ConfigJSON}});
})();
</script>`))

var insightTmpl = template.Must(template.New("insight").Parse(`<div class="chartgen-insight" style="color:{{.FontColor}};font-family:system-ui,sans-serif;font-size:15px;line-height:1.5;">
  <p>{{.Text}}</p>
</div>`))

// RenderHTML renders a self-contained HTML fragment (canvas plus embedded
// Chart.js configuration) for the request's resolved chart type. The request
// must already have passed Validate.
func RenderHTML(req *Request) (string, error) {
	typ := req.ResolvedType()
	render, ok := renderers[typ]
	if !ok {
		return "", fmt.Errorf("no renderer for chart type %q", typ)
	}

	theme := Themes[req.Theme]
	layout := Layouts[req.Layout]

	width, height := layout.ChartWidth, layout.ChartHeight
	if req.Width > 0 {
		width = req.Width
	}
	if req.Height > 0 {
		height = req.Height
	}

	cfg := render(req, theme)
	applyCommonOptions(&cfg, req, theme)

	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshaling chart config: %w", err)
	}
	canvasID := "chartgen-" + strings.Split(uuid.NewString(), "-")[0]
	canvasIDJSON, _ := json.Marshal(canvasID)

	var buf bytes.Buffer
	err = fragmentTmpl.Execute(&buf, struct {
		CanvasID     string
		CanvasIDJSON template.JS
		ConfigJSON   template.JS
		Width        int
		Height       int
		Background   string
	}{
		CanvasID:     canvasID,
		CanvasIDJSON: template.JS(canvasIDJSON),
		ConfigJSON:   template.JS(cfgJSON),
		Width:        width,
		Height:       height,
		Background:   theme.Background,
	})
	if err != nil {
		return "", fmt.Errorf("executing chart template: %w", err)
	}
	return buf.String(), nil
}

// RenderInsightHTML wraps an insight sentence in the fragment the slide
// renderer places into the layout's text region.
func RenderInsightHTML(themeName, text string) (string, error) {
	theme, ok := Themes[themeName]
	if !ok {
		theme = Themes[DefaultTheme]
	}
	var buf bytes.Buffer
	err := insightTmpl.Execute(&buf, struct {
		FontColor string
		Text      string
	}{FontColor: theme.FontColor, Text: text})
	if err != nil {
		return "", fmt.Errorf("executing insight template: %w", err)
	}
	return buf.String(), nil
}

func applyCommonOptions(cfg *chartConfig, req *Request, theme Theme) {
	if cfg.Options == nil {
		cfg.Options = map[string]any{}
	}
	cfg.Options["responsive"] = false
	cfg.Options["animation"] = false

	plugins := map[string]any{
		"legend": map[string]any{
			"labels": map[string]any{"color": theme.FontColor},
		},
	}
	if req.Title != "" {
		plugins["title"] = map[string]any{
			"display": true,
			"text":    req.Title,
			"color":   theme.FontColor,
		}
	}
	cfg.Options["plugins"] = plugins
}

func labels(points []Point) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = p.Label
	}
	return out
}

func values(points []Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}

func seriesColors(theme Theme, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = theme.seriesColor(i)
	}
	return out
}

func axisOptions(theme Theme) map[string]any {
	axis := func() map[string]any {
		return map[string]any{
			"ticks": map[string]any{"color": theme.FontColor},
			"grid":  map[string]any{"color": theme.GridColor},
		}
	}
	return map[string]any{"x": axis(), "y": axis()}
}

func renderBar(req *Request, theme Theme) chartConfig {
	return chartConfig{
		Type: "bar",
		Data: chartData{
			Labels: labels(req.Points),
			Datasets: []dataset{{
				Label:           req.Title,
				Data:            values(req.Points),
				BackgroundColor: seriesColors(theme, len(req.Points)),
			}},
		},
		Options: map[string]any{"scales": axisOptions(theme)},
	}
}

func renderLine(req *Request, theme Theme) chartConfig {
	return chartConfig{
		Type: "line",
		Data: chartData{
			Labels: labels(req.Points),
			Datasets: []dataset{{
				Label:       req.Title,
				Data:        values(req.Points),
				BorderColor: theme.seriesColor(0),
				BorderWidth: 2,
				Tension:     0.3,
			}},
		},
		Options: map[string]any{"scales": axisOptions(theme)},
	}
}

func renderArea(req *Request, theme Theme) chartConfig {
	cfg := renderLine(req, theme)
	cfg.Data.Datasets[0].Fill = true
	cfg.Data.Datasets[0].BackgroundColor = theme.seriesColor(0) + "33"
	return cfg
}

func renderPie(req *Request, theme Theme) chartConfig {
	return chartConfig{
		Type: "pie",
		Data: chartData{
			Labels: labels(req.Points),
			Datasets: []dataset{{
				Data:            values(req.Points),
				BackgroundColor: seriesColors(theme, len(req.Points)),
			}},
		},
	}
}

func renderDoughnut(req *Request, theme Theme) chartConfig {
	cfg := renderPie(req, theme)
	cfg.Type = "doughnut"
	return cfg
}

func renderScatter(req *Request, theme Theme) chartConfig {
	pts := make([]xyPoint, len(req.Points))
	for i, p := range req.Points {
		pts[i] = xyPoint{X: float64(i + 1), Y: p.Value}
	}
	return chartConfig{
		Type: "scatter",
		Data: chartData{
			Datasets: []dataset{{
				Label:           req.Title,
				Data:            pts,
				BackgroundColor: theme.seriesColor(0),
				PointRadius:     4,
			}},
		},
		Options: map[string]any{"scales": axisOptions(theme)},
	}
}
