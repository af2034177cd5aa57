// Package chart defines the chart request model, the lookup tables for chart
// types, analytics types, themes and layouts, and the HTML/PNG renderers.
package chart

import "time"

// Type identifies a chart rendering shape.
type Type string

const (
	TypeBar      Type = "bar"
	TypeLine     Type = "line"
	TypeArea     Type = "area"
	TypePie      Type = "pie"
	TypeDoughnut Type = "doughnut"
	TypeScatter  Type = "scatter"
)

// Point is one labeled datum.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// InsightParams controls the optional LLM insight attached to a chart.
type InsightParams struct {
	Enabled   bool   `json:"enabled"`
	Audience  string `json:"audience,omitempty"`
	Narrative string `json:"narrative,omitempty"`
}

// Request is a validated chart-generation request. Either ChartType or
// AnalyticsType must be set; when only AnalyticsType is given the default
// chart type for that scenario is used.
type Request struct {
	Points        []Point       `json:"points"`
	ChartType     Type          `json:"chart_type,omitempty"`
	AnalyticsType string        `json:"analytics_type,omitempty"`
	Layout        string        `json:"layout"`
	Theme         string        `json:"theme,omitempty"`
	Title         string        `json:"title,omitempty"`
	Width         int           `json:"width,omitempty"`
	Height        int           `json:"height,omitempty"`
	WithPNG       bool          `json:"with_png,omitempty"`
	Insight       InsightParams `json:"insight"`
}

// ResolvedType returns the chart type to render: the explicit ChartType if
// set, otherwise the default for the request's analytics type.
func (r *Request) ResolvedType() Type {
	if r.ChartType != "" {
		return r.ChartType
	}
	if at, ok := AnalyticsTypes[r.AnalyticsType]; ok {
		return at.DefaultChart
	}
	return TypeBar
}

// Artifact is a rendered chart: a self-contained HTML fragment plus metadata,
// and optionally a PNG snapshot. Transient; returned in the response or stored
// as a job result.
type Artifact struct {
	HTML        string    `json:"html"`
	InsightText string    `json:"insight_text"`
	InsightHTML string    `json:"insight_html"`
	PNG         []byte    `json:"-"`
	URL         string    `json:"url,omitempty"`
	PNGURL      string    `json:"png_url,omitempty"`
	ChartType   Type      `json:"chart_type"`
	Theme       string    `json:"theme"`
	Layout      string    `json:"layout"`
	PointCount  int       `json:"point_count"`
	GeneratedAt time.Time `json:"generated_at"`
	FellBack    bool      `json:"insight_fallback"`
}
