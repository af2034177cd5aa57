package handler

import (
	"net/http"

	"github.com/slidewise/chartgen/internal/api/response"
	"github.com/slidewise/chartgen/internal/chart"
)

// Discovery handlers list the selector vocabularies so clients don't hardcode them.

func ListChartTypes(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, map[string]any{"chart_types": chart.SupportedTypes()})
}

func ListAnalyticsTypes(w http.ResponseWriter, _ *http.Request) {
	types := make([]chart.AnalyticsType, 0, len(chart.AnalyticsTypes))
	for _, name := range chart.SupportedAnalyticsTypes() {
		types = append(types, chart.AnalyticsTypes[name])
	}
	response.JSON(w, map[string]any{"analytics_types": types})
}

func ListLayouts(w http.ResponseWriter, _ *http.Request) {
	layouts := make([]chart.Layout, 0, len(chart.Layouts))
	for _, name := range chart.SupportedLayouts() {
		layouts = append(layouts, chart.Layouts[name])
	}
	response.JSON(w, map[string]any{"layouts": layouts})
}

func ListThemes(w http.ResponseWriter, _ *http.Request) {
	themes := make([]chart.Theme, 0, len(chart.Themes))
	for _, name := range chart.SupportedThemes() {
		themes = append(themes, chart.Themes[name])
	}
	response.JSON(w, map[string]any{"themes": themes})
}
