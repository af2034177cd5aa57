package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidewise/chartgen/internal/chart"
	"github.com/slidewise/chartgen/internal/generator"
)

type mockGenerator struct {
	generateFn func(ctx context.Context, req chart.Request) (*chart.Artifact, error)
	batchFn    func(ctx context.Context, reqs []chart.Request) []generator.BatchItem
}

func (m *mockGenerator) Generate(ctx context.Context, req chart.Request) (*chart.Artifact, error) {
	return m.generateFn(ctx, req)
}

func (m *mockGenerator) GenerateBatch(ctx context.Context, reqs []chart.Request) []generator.BatchItem {
	return m.batchFn(ctx, reqs)
}

func completedArtifact() *chart.Artifact {
	return &chart.Artifact{
		HTML:        "<div>chart</div>",
		InsightHTML: "<div>insight</div>",
		InsightText: "steady growth",
		ChartType:   chart.TypeLine,
		Theme:       "corporate",
		Layout:      "chart_with_insights",
		PointCount:  4,
	}
}

// --- sync generate ---

func TestGenerateHandler_Success(t *testing.T) {
	h := NewGenerateHandler(&mockGenerator{
		generateFn: func(_ context.Context, _ chart.Request) (*chart.Artifact, error) {
			return completedArtifact(), nil
		},
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, jsonReq(t, http.MethodPost, "/api/v1/charts/generate", quarterlyBody()))

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, "<div>chart</div>", data["chart_html"])
	assert.Equal(t, "<div>insight</div>", data["insights_html"])
	assert.Equal(t, "line", data["chart_type"])
	assert.EqualValues(t, 4, data["point_count"])
}

func TestGenerateHandler_ValidationError(t *testing.T) {
	h := NewGenerateHandler(&mockGenerator{
		generateFn: func(_ context.Context, _ chart.Request) (*chart.Artifact, error) {
			return nil, &chart.ValidationError{
				Field:      "points",
				Code:       "DUPLICATE_LABEL",
				Message:    `label "Q1" appears more than once`,
				Suggestion: "labels must be unique within a request",
			}
		},
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, jsonReq(t, http.MethodPost, "/api/v1/charts/generate", quarterlyBody()))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	code, details := decodeErr(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", code)
	assert.Equal(t, "DUPLICATE_LABEL", details["code"])
}

func TestGenerateHandler_InvalidJSON(t *testing.T) {
	h := NewGenerateHandler(&mockGenerator{
		generateFn: func(_ context.Context, _ chart.Request) (*chart.Artifact, error) {
			t.Fatal("generator must not be called on malformed input")
			return nil, nil
		},
	})

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/charts/generate", bytes.NewReader([]byte("[")))
	h.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- batch ---

func TestBatchHandler_MixedResults(t *testing.T) {
	h := NewBatchHandler(&mockGenerator{
		batchFn: func(_ context.Context, reqs []chart.Request) []generator.BatchItem {
			require.Len(t, reqs, 2)
			return []generator.BatchItem{
				{Index: 0, Artifact: completedArtifact()},
				{Index: 1, Error: "points: got 1 data points, need between 2 and 50"},
			}
		},
	})

	body := map[string]any{"requests": []map[string]any{quarterlyBody(), quarterlyBody()}}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, jsonReq(t, http.MethodPost, "/api/v1/charts/generate/batch", body))

	require.Equal(t, http.StatusOK, rec.Code)
	items := decodeData(t, rec)["items"].([]any)
	require.Len(t, items, 2)

	first := items[0].(map[string]any)
	assert.Contains(t, first, "result")
	assert.NotContains(t, first, "error")

	second := items[1].(map[string]any)
	assert.Contains(t, second, "error")
	assert.NotContains(t, second, "result")
}

func TestBatchHandler_EmptyBatch(t *testing.T) {
	h := NewBatchHandler(&mockGenerator{
		batchFn: func(_ context.Context, _ []chart.Request) []generator.BatchItem {
			t.Fatal("generator must not be called for an empty batch")
			return nil
		},
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, jsonReq(t, http.MethodPost, "/api/v1/charts/generate/batch",
		map[string]any{"requests": []map[string]any{}}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatchHandler_TooManyItems(t *testing.T) {
	reqs := make([]map[string]any, maxBatchSize+1)
	for i := range reqs {
		reqs[i] = quarterlyBody()
	}

	h := NewBatchHandler(&mockGenerator{
		batchFn: func(_ context.Context, _ []chart.Request) []generator.BatchItem {
			t.Fatal("generator must not be called for an oversized batch")
			return nil
		},
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, jsonReq(t, http.MethodPost, "/api/v1/charts/generate/batch",
		map[string]any{"requests": reqs}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	code, details := decodeErr(t, rec)
	assert.Equal(t, "INVALID_REQUEST", code)
	assert.EqualValues(t, maxBatchSize, details["max"])
}

// --- discovery ---

func TestDiscoveryHandlers(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		key     string
	}{
		{"chart types", ListChartTypes, "chart_types"},
		{"analytics types", ListAnalyticsTypes, "analytics_types"},
		{"layouts", ListLayouts, "layouts"},
		{"themes", ListThemes, "themes"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tc.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			require.Equal(t, http.StatusOK, rec.Code)
			data := decodeData(t, rec)
			list, ok := data[tc.key].([]any)
			require.True(t, ok, "response must carry %q", tc.key)
			assert.NotEmpty(t, list)
		})
	}
}

func TestListLayouts_CarriesFieldNames(t *testing.T) {
	rec := httptest.NewRecorder()
	ListLayouts(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	layouts := decodeData(t, rec)["layouts"].([]any)
	byName := map[string]map[string]any{}
	for _, l := range layouts {
		m := l.(map[string]any)
		byName[m["name"].(string)] = m
	}

	require.Contains(t, byName, "sidebar_insights")
	assert.Equal(t, "main_chart_html", byName["sidebar_insights"]["chart_field"])
	assert.Equal(t, "side_insights_html", byName["sidebar_insights"]["insight_field"])
}
