package chart

import "sort"

// Layout is a named arrangement of slide regions with fixed pixel dimensions.
// ChartField and InsightField are the JSON field names the downstream slide
// renderer splices into a presentation; they are an external compatibility
// surface and must not be renamed.
type Layout struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	ChartWidth   int    `json:"chart_width"`
	ChartHeight  int    `json:"chart_height"`
	ChartField   string `json:"chart_field"`
	InsightField string `json:"insight_field,omitempty"`
}

// HasInsightRegion reports whether the layout reserves a text region for the
// generated insight.
func (l Layout) HasInsightRegion() bool { return l.InsightField != "" }

// DefaultLayout is applied when a request omits the layout selector.
const DefaultLayout = "chart_with_insights"

// Layouts is the layout lookup table.
var Layouts = map[string]Layout{
	"full_chart": {
		Name:        "full_chart",
		Description: "chart fills the slide, no text region",
		ChartWidth:  1180,
		ChartHeight: 620,
		ChartField:  "chart_html",
	},
	"chart_with_insights": {
		Name:         "chart_with_insights",
		Description:  "chart on top, insight text below",
		ChartWidth:   1180,
		ChartHeight:  460,
		ChartField:   "chart_html",
		InsightField: "insights_html",
	},
	"sidebar_insights": {
		Name:         "sidebar_insights",
		Description:  "chart on the left, insight sidebar on the right",
		ChartWidth:   780,
		ChartHeight:  620,
		ChartField:   "main_chart_html",
		InsightField: "side_insights_html",
	},
	"compact": {
		Name:        "compact",
		Description: "half-slide chart for two-up layouts",
		ChartWidth:  560,
		ChartHeight: 380,
		ChartField:  "chart_html",
	},
}

// SupportedLayouts returns the layout names in stable order.
func SupportedLayouts() []string {
	names := make([]string, 0, len(Layouts))
	for name := range Layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
