package insight

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/slidewise/chartgen/internal/cache"
)

const (
	maxInsightBytes = 2000
	cacheTTL        = 24 * time.Hour
)

// Service wraps a provider with a per-call timeout, a cache, and the static
// fallback. Generate never returns an error: provider failure degrades to the
// fallback text instead of failing the chart request.
type Service struct {
	provider Provider
	cache    cache.Cache
	timeout  time.Duration
}

// NewService creates an insight service.
func NewService(provider Provider, ca cache.Cache, timeout time.Duration) *Service {
	return &Service{provider: provider, cache: ca, timeout: timeout}
}

// ProviderName reports which provider backs the service.
func (s *Service) ProviderName() string { return s.provider.Name() }

// Generate returns the insight text and whether the static fallback was used.
func (s *Service) Generate(ctx context.Context, req Request) (string, bool) {
	key := cache.InsightKey(datasetHash(req))

	if cached, found, err := s.cache.Get(ctx, key); err == nil && found {
		return string(cached), false
	}

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.provider.Generate(genCtx, req)
	if err != nil {
		slog.Warn("insight provider failed, using fallback",
			"provider", s.provider.Name(), "error", err)
		return Fallback(req), true
	}

	text = truncateString(text, maxInsightBytes)
	if err := s.cache.Set(ctx, key, []byte(text), cacheTTL); err != nil {
		slog.Debug("insight cache write failed", "error", err)
	}
	return text, false
}

// datasetHash identifies a request for memoization: same points, scenario and
// framing produce the same insight.
func datasetHash(req Request) string {
	var b strings.Builder
	b.WriteString(req.AnalyticsType)
	b.WriteByte('|')
	b.WriteString(req.Audience)
	b.WriteByte('|')
	b.WriteString(req.Narrative)
	b.WriteByte('|')
	b.WriteString(req.Title)
	for _, p := range req.Points {
		fmt.Fprintf(&b, "|%s=%g", p.Label, p.Value)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// truncateString truncates s to maxBytes without splitting UTF-8 runes.
func truncateString(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	for maxBytes > 0 && !utf8.RuneStart(s[maxBytes]) {
		maxBytes--
	}
	return s[:maxBytes]
}
