package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/slidewise/chartgen/internal/api/response"
	"github.com/slidewise/chartgen/internal/chart"
	"github.com/slidewise/chartgen/internal/generator"
)

const maxBatchSize = 10

// Generator is what the synchronous handlers need from the generator service.
type Generator interface {
	Generate(ctx context.Context, req chart.Request) (*chart.Artifact, error)
	GenerateBatch(ctx context.Context, reqs []chart.Request) []generator.BatchItem
}

// NewGenerateHandler returns the handler for POST /api/v1/charts/generate:
// the synchronous path, no job record.
func NewGenerateHandler(svc Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chart.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		artifact, err := svc.Generate(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}

		response.JSON(w, artifactResponse(artifact))
	}
}

// NewBatchHandler returns the handler for POST /api/v1/charts/generate/batch.
// Items succeed or fail individually.
func NewBatchHandler(svc Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Requests []chart.Request `json:"requests"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if len(req.Requests) == 0 {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "requests must not be empty", nil)
			return
		}
		if len(req.Requests) > maxBatchSize {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"too many requests in batch", map[string]int{"max": maxBatchSize})
			return
		}

		items := svc.GenerateBatch(r.Context(), req.Requests)

		out := make([]map[string]any, len(items))
		for i, item := range items {
			entry := map[string]any{"index": item.Index}
			if item.Error != "" {
				entry["error"] = item.Error
			} else {
				entry["result"] = artifactResponse(item.Artifact)
			}
			out[i] = entry
		}
		response.JSON(w, map[string]any{"items": out})
	}
}
