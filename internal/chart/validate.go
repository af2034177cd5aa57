package chart

import (
	"fmt"
	"math"
)

const (
	// MinPoints and MaxPoints bound the dataset size a slide chart can carry.
	MinPoints = 2
	MaxPoints = 50
)

// ValidationError describes a rejected request field with a machine-readable
// code and a human-readable suggestion for the caller.
type ValidationError struct {
	Field      string `json:"field"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the request against the dataset and selector constraints.
// It is the single validation boundary: requests that pass here are safe for
// every renderer and for job creation.
func (r *Request) Validate() error {
	if n := len(r.Points); n < MinPoints || n > MaxPoints {
		return &ValidationError{
			Field:      "points",
			Code:       "POINT_COUNT_OUT_OF_RANGE",
			Message:    fmt.Sprintf("got %d data points, need between %d and %d", n, MinPoints, MaxPoints),
			Suggestion: fmt.Sprintf("supply between %d and %d labeled points", MinPoints, MaxPoints),
		}
	}

	seen := make(map[string]struct{}, len(r.Points))
	for i, p := range r.Points {
		if p.Label == "" {
			return &ValidationError{
				Field:      fmt.Sprintf("points[%d].label", i),
				Code:       "EMPTY_LABEL",
				Message:    "label must not be empty",
				Suggestion: "give every data point a non-empty label",
			}
		}
		if _, dup := seen[p.Label]; dup {
			return &ValidationError{
				Field:      fmt.Sprintf("points[%d].label", i),
				Code:       "DUPLICATE_LABEL",
				Message:    fmt.Sprintf("label %q appears more than once", p.Label),
				Suggestion: "labels must be unique within a request",
			}
		}
		seen[p.Label] = struct{}{}

		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			return &ValidationError{
				Field:      fmt.Sprintf("points[%d].value", i),
				Code:       "NON_FINITE_VALUE",
				Message:    fmt.Sprintf("value for %q is not a finite number", p.Label),
				Suggestion: "values must be finite numbers (no NaN or Infinity)",
			}
		}
	}

	if r.ChartType == "" && r.AnalyticsType == "" {
		return &ValidationError{
			Field:      "chart_type",
			Code:       "MISSING_TYPE",
			Message:    "either chart_type or analytics_type is required",
			Suggestion: "set chart_type, or set analytics_type to pick a default",
		}
	}
	if r.ChartType != "" {
		if _, ok := renderers[r.ChartType]; !ok {
			return &ValidationError{
				Field:      "chart_type",
				Code:       "UNKNOWN_CHART_TYPE",
				Message:    fmt.Sprintf("unknown chart type %q", r.ChartType),
				Suggestion: fmt.Sprintf("use one of %v", SupportedTypes()),
			}
		}
	}
	if r.AnalyticsType != "" {
		if _, ok := AnalyticsTypes[r.AnalyticsType]; !ok {
			return &ValidationError{
				Field:      "analytics_type",
				Code:       "UNKNOWN_ANALYTICS_TYPE",
				Message:    fmt.Sprintf("unknown analytics type %q", r.AnalyticsType),
				Suggestion: fmt.Sprintf("use one of %v", SupportedAnalyticsTypes()),
			}
		}
	}

	if r.Layout == "" {
		r.Layout = DefaultLayout
	}
	if _, ok := Layouts[r.Layout]; !ok {
		return &ValidationError{
			Field:      "layout",
			Code:       "UNKNOWN_LAYOUT",
			Message:    fmt.Sprintf("unknown layout %q", r.Layout),
			Suggestion: fmt.Sprintf("use one of %v", SupportedLayouts()),
		}
	}

	if r.Theme == "" {
		r.Theme = DefaultTheme
	}
	if _, ok := Themes[r.Theme]; !ok {
		return &ValidationError{
			Field:      "theme",
			Code:       "UNKNOWN_THEME",
			Message:    fmt.Sprintf("unknown theme %q", r.Theme),
			Suggestion: fmt.Sprintf("use one of %v", SupportedThemes()),
		}
	}

	if r.Width < 0 || r.Height < 0 {
		return &ValidationError{
			Field:      "width",
			Code:       "INVALID_DIMENSIONS",
			Message:    "width and height must not be negative",
			Suggestion: "omit width/height to use the layout's dimensions",
		}
	}

	return nil
}
