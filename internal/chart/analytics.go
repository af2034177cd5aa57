package chart

import "sort"

// AnalyticsType is a business-scenario label that maps to a default chart
// rendering type and a short description used by the discovery endpoint.
type AnalyticsType struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	DefaultChart Type   `json:"default_chart"`
}

// AnalyticsTypes is the scenario lookup table.
var AnalyticsTypes = map[string]AnalyticsType{
	"revenue_over_time": {
		Name:         "revenue_over_time",
		Description:  "revenue progression across periods",
		DefaultChart: TypeLine,
	},
	"quarterly_performance": {
		Name:         "quarterly_performance",
		Description:  "period-by-period performance comparison",
		DefaultChart: TypeBar,
	},
	"category_comparison": {
		Name:         "category_comparison",
		Description:  "side-by-side comparison of categories",
		DefaultChart: TypeBar,
	},
	"market_share": {
		Name:         "market_share",
		Description:  "share of a whole across segments",
		DefaultChart: TypePie,
	},
	"expense_breakdown": {
		Name:         "expense_breakdown",
		Description:  "cost composition across categories",
		DefaultChart: TypeDoughnut,
	},
	"growth_trend": {
		Name:         "growth_trend",
		Description:  "cumulative growth with filled trend area",
		DefaultChart: TypeArea,
	},
	"correlation": {
		Name:         "correlation",
		Description:  "relationship between two measures",
		DefaultChart: TypeScatter,
	},
}

// SupportedAnalyticsTypes returns the scenario names in stable order.
func SupportedAnalyticsTypes() []string {
	names := make([]string, 0, len(AnalyticsTypes))
	for name := range AnalyticsTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
