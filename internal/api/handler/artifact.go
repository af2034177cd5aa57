package handler

import (
	"time"

	"github.com/slidewise/chartgen/internal/chart"
)

// artifactResponse shapes an artifact for the downstream slide renderer. The
// chart and insight fragments are keyed by the layout's field names; those
// names are a compatibility contract and must not change.
func artifactResponse(a *chart.Artifact) map[string]any {
	layout := chart.Layouts[a.Layout]

	resp := map[string]any{
		layout.ChartField:  a.HTML,
		"chart_type":       a.ChartType,
		"theme":            a.Theme,
		"layout":           a.Layout,
		"point_count":      a.PointCount,
		"generated_at":     a.GeneratedAt.UTC().Format(time.RFC3339),
		"insight_fallback": a.FellBack,
	}
	if layout.HasInsightRegion() {
		resp[layout.InsightField] = a.InsightHTML
		resp["insight_text"] = a.InsightText
	}
	if a.URL != "" {
		resp["chart_url"] = a.URL
	}
	if a.PNGURL != "" {
		resp["png_url"] = a.PNGURL
	}
	return resp
}
