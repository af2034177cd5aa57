package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/slidewise/chartgen/internal/api/response"
	"github.com/slidewise/chartgen/internal/chart"
	"github.com/slidewise/chartgen/internal/jobs"
)

// Submitter is what the submit handler needs from the generator service.
type Submitter interface {
	Submit(req chart.Request) (jobs.Job, error)
}

// JobGetter is what the poll handler needs from the registry.
type JobGetter interface {
	Get(id uuid.UUID) (jobs.Job, bool)
}

// NewSubmitJobHandler returns the handler for POST /api/v1/charts/jobs.
// It validates the request, creates a queued job, and returns 202 with the
// job id for the client to poll.
func NewSubmitJobHandler(svc Submitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chart.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		job, err := svc.Submit(req)
		if err != nil {
			writeError(w, err)
			return
		}

		response.Accepted(w, map[string]any{
			"job_id":     job.ID,
			"status":     job.Status,
			"created_at": job.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
}

// NewPollJobHandler returns the handler for GET /api/v1/charts/jobs/{jobID}.
// Unknown ids (including swept jobs) report 404, which clients must treat as
// distinct from a job that is still queued.
func NewPollJobHandler(registry JobGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "jobID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "job id must be a UUID", nil)
			return
		}

		job, ok := registry.Get(id)
		if !ok {
			response.Error(w, http.StatusNotFound, "JOB_NOT_FOUND",
				"No job with that id; it may have been cleaned up", nil)
			return
		}

		body := map[string]any{
			"job_id":     job.ID,
			"status":     job.Status,
			"progress":   job.Progress,
			"stage":      job.Stage,
			"created_at": job.CreatedAt.UTC().Format(time.RFC3339),
			"updated_at": job.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if job.Status == jobs.StatusCompleted && job.Result != nil {
			body["result"] = artifactResponse(job.Result)
		}
		if job.Status == jobs.StatusFailed {
			body["error"] = job.Error
		}

		response.JSON(w, body)
	}
}
