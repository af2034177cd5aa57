package handler

import (
	"errors"
	"net/http"

	"github.com/slidewise/chartgen/internal/api/response"
	"github.com/slidewise/chartgen/internal/chart"
	"github.com/slidewise/chartgen/internal/jobs"
)

// writeError maps pipeline errors onto the HTTP error envelope. Validation
// failures carry the offending field and a suggestion in the details block.
func writeError(w http.ResponseWriter, err error) {
	var vErr *chart.ValidationError
	switch {
	case errors.As(err, &vErr):
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", vErr.Message, map[string]string{
			"field":      vErr.Field,
			"code":       vErr.Code,
			"suggestion": vErr.Suggestion,
		})
	case errors.Is(err, jobs.ErrRegistryFull):
		response.Error(w, http.StatusTooManyRequests, "REGISTRY_FULL",
			"Too many jobs in flight, retry later", nil)
	default:
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"An unexpected error occurred", nil)
	}
}
