// Package insight produces the short natural-language summary attached to a
// generated chart, via a hosted LLM provider with a static fallback.
package insight

import (
	"context"
	"errors"
	"fmt"

	"github.com/slidewise/chartgen/internal/chart"
	"github.com/slidewise/chartgen/internal/config"
)

// Sentinel errors for provider failures.
var (
	ErrProviderUnavailable = errors.New("insight provider unavailable")
	ErrInferenceTimeout    = errors.New("insight inference timeout")
	ErrInvalidResponse     = errors.New("insight provider returned invalid response")
)

// Request carries everything a provider needs to write one business insight.
type Request struct {
	Points        []chart.Point
	AnalyticsType string
	Title         string
	Audience      string
	Narrative     string
}

// Provider generates an insight sentence for a dataset.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// NewProvider constructs the configured provider. Called once at startup.
func NewProvider(cfg config.InsightConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIProvider(cfg.OpenAI, cfg.MaxTokens), nil
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown insight provider %q: must be one of openai, mock", cfg.Provider)
	}
}
