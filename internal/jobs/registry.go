// Package jobs implements the in-memory registry backing the polling API.
//
// The registry is the only stateful component in the service. It is not
// persisted: a process restart loses all job state, which is an accepted
// limitation. There is no cancellation path; a client that loses interest
// simply stops polling and the job runs to completion.
package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/slidewise/chartgen/internal/chart"
)

// Job statuses. Completed and failed are terminal.
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// ErrRegistryFull is returned by Create once the live job count reaches the
// configured cap. Submissions are rejected rather than queued without bound.
var ErrRegistryFull = errors.New("job registry full")

// Job tracks one asynchronous chart-generation request through its lifecycle.
type Job struct {
	ID        uuid.UUID       `json:"id"`
	Status    string          `json:"status"`
	Progress  int             `json:"progress"`
	Stage     string          `json:"stage"`
	Result    *chart.Artifact `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (j *Job) terminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}

// Registry is a bounded, mutex-guarded job table. Operations are simple map
// reads and writes, so a single mutex guards the whole table; no operation
// blocks on I/O while holding it.
type Registry struct {
	mu      sync.Mutex
	jobs    map[uuid.UUID]*Job
	maxJobs int
	now     func() time.Time
}

// NewRegistry creates a registry bounded at maxJobs live entries.
func NewRegistry(maxJobs int) *Registry {
	return &Registry{
		jobs:    make(map[uuid.UUID]*Job),
		maxJobs: maxJobs,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create inserts a fresh job in queued state and returns a snapshot of it.
// The work itself is dispatched by the caller, not here.
func (r *Registry) Create() (Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.jobs) >= r.maxJobs {
		return Job{}, ErrRegistryFull
	}

	now := r.now()
	job := &Job{
		ID:        uuid.New(),
		Status:    StatusQueued,
		Progress:  0,
		Stage:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.jobs[job.ID] = job
	return *job, nil
}

// UpdateProgress records a stage label and percentage for a running job.
// Unknown or already-terminal jobs are logged and left untouched: progress
// updates may race with the cleanup sweep, so callers must not depend on
// this call succeeding.
func (r *Registry) UpdateProgress(id uuid.UUID, stage string, percent int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		slog.Debug("progress update for unknown job", "job_id", id, "stage", stage)
		return
	}
	if job.terminal() {
		slog.Debug("progress update for terminal job ignored", "job_id", id, "status", job.Status)
		return
	}

	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	job.Status = StatusProcessing
	job.Stage = stage
	job.Progress = percent
	job.UpdatedAt = r.now()
}

// Complete transitions the job to completed and stores its result. A job that
// is already terminal is left unchanged.
func (r *Registry) Complete(id uuid.UUID, result *chart.Artifact) {
	r.setTerminal(id, StatusCompleted, result, "")
}

// Fail transitions the job to failed and stores the error message. A job that
// is already terminal is left unchanged.
func (r *Registry) Fail(id uuid.UUID, errMsg string) {
	r.setTerminal(id, StatusFailed, nil, errMsg)
}

func (r *Registry) setTerminal(id uuid.UUID, status string, result *chart.Artifact, errMsg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		slog.Warn("terminal transition for unknown job", "job_id", id, "status", status)
		return
	}
	if job.terminal() {
		slog.Warn("terminal transition on already-terminal job ignored",
			"job_id", id, "have", job.Status, "want", status)
		return
	}

	job.Status = status
	job.Progress = 100
	job.Result = result
	job.Error = errMsg
	if status == StatusCompleted {
		job.Stage = "completed"
	} else {
		job.Stage = "failed"
	}
	job.UpdatedAt = r.now()
}

// Get returns a copy of the job, so callers can read it without holding the
// registry lock. The second return distinguishes "not found" from any status.
func (r *Registry) Get(id uuid.UUID) (Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// Stats returns job counts by status for the health endpoint.
func (r *Registry) Stats() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := map[string]int{
		StatusQueued:     0,
		StatusProcessing: 0,
		StatusCompleted:  0,
		StatusFailed:     0,
	}
	for _, job := range r.jobs {
		stats[job.Status]++
	}
	return stats
}

// CleanupSweep deletes every terminal job whose last update is older than the
// retention window and returns how many were removed. Jobs still queued or
// processing are never swept regardless of age, so a stuck job is never
// garbage-collected; that matches the historical behavior of this service.
func (r *Registry) CleanupSweep(retention time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-retention)
	removed := 0
	for id, job := range r.jobs {
		if job.terminal() && job.UpdatedAt.Before(cutoff) {
			delete(r.jobs, id)
			removed++
		}
	}
	return removed
}

// RunSweeper runs CleanupSweep on the given interval until ctx is cancelled.
// Call it in its own goroutine.
func (r *Registry) RunSweeper(ctx context.Context, interval, retention time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := r.CleanupSweep(retention); removed > 0 {
				slog.Info("swept expired jobs", "removed", removed)
			}
		}
	}
}
