package chart

import "sort"

// Theme is a named color palette applied to a rendered chart.
type Theme struct {
	Name       string   `json:"name"`
	Background string   `json:"background"`
	FontColor  string   `json:"font_color"`
	GridColor  string   `json:"grid_color"`
	Series     []string `json:"series"`
}

// DefaultTheme is applied when a request omits the theme selector.
const DefaultTheme = "corporate"

// Themes is the palette lookup table.
var Themes = map[string]Theme{
	"corporate": {
		Name:       "corporate",
		Background: "#ffffff",
		FontColor:  "#1f2937",
		GridColor:  "#e5e7eb",
		Series:     []string{"#2563eb", "#0ea5e9", "#14b8a6", "#f59e0b", "#ef4444", "#8b5cf6"},
	},
	"midnight": {
		Name:       "midnight",
		Background: "#0f172a",
		FontColor:  "#e2e8f0",
		GridColor:  "#334155",
		Series:     []string{"#38bdf8", "#818cf8", "#34d399", "#fbbf24", "#fb7185", "#c084fc"},
	},
	"vibrant": {
		Name:       "vibrant",
		Background: "#fffbeb",
		FontColor:  "#292524",
		GridColor:  "#fde68a",
		Series:     []string{"#f97316", "#e11d48", "#9333ea", "#0891b2", "#65a30d", "#ca8a04"},
	},
	"minimal": {
		Name:       "minimal",
		Background: "#fafafa",
		FontColor:  "#404040",
		GridColor:  "#d4d4d4",
		Series:     []string{"#525252", "#737373", "#a3a3a3", "#404040", "#171717", "#d4d4d4"},
	},
}

// SupportedThemes returns the theme names in stable order.
func SupportedThemes() []string {
	names := make([]string, 0, len(Themes))
	for name := range Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// seriesColor cycles the palette for datasets longer than the series list.
func (t Theme) seriesColor(i int) string {
	return t.Series[i%len(t.Series)]
}
