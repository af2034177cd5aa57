package insight

import (
	"fmt"
	"strings"
)

// Fallback writes a template-based insight from simple aggregates. It is used
// whenever the LLM provider fails or times out: insight generation is never
// allowed to fail a chart request.
func Fallback(req Request) string {
	if len(req.Points) == 0 {
		return "No data points were supplied for this chart."
	}

	minP, maxP := req.Points[0], req.Points[0]
	var total float64
	for _, p := range req.Points {
		total += p.Value
		if p.Value < minP.Value {
			minP = p
		}
		if p.Value > maxP.Value {
			maxP = p
		}
	}

	subject := "the series"
	if req.AnalyticsType != "" {
		subject = strings.ReplaceAll(req.AnalyticsType, "_", " ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Across %d categories, %s peaks at %s (%s) with %s lowest (%s).",
		len(req.Points), subject,
		formatValue(maxP.Value), maxP.Label,
		formatValue(minP.Value), minP.Label)

	first, last := req.Points[0].Value, req.Points[len(req.Points)-1].Value
	switch {
	case first != 0 && last > first:
		fmt.Fprintf(&b, " The series grew %.0f%% from %s to %s.",
			(last-first)/first*100, req.Points[0].Label, req.Points[len(req.Points)-1].Label)
	case first != 0 && last < first:
		fmt.Fprintf(&b, " The series declined %.0f%% from %s to %s.",
			(first-last)/first*100, req.Points[0].Label, req.Points[len(req.Points)-1].Label)
	}

	return b.String()
}

func formatValue(v float64) string {
	switch {
	case v >= 1_000_000 || v <= -1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case v >= 1_000 || v <= -1_000:
		return fmt.Sprintf("%.1fK", v/1_000)
	default:
		return fmt.Sprintf("%g", v)
	}
}
