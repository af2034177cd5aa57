// Package generator orchestrates chart generation: validate, render, insight,
// upload, and job bookkeeping for the async path.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/slidewise/chartgen/internal/chart"
	"github.com/slidewise/chartgen/internal/insight"
	"github.com/slidewise/chartgen/internal/jobs"
	"github.com/slidewise/chartgen/internal/storage"
)

// Service runs the generation pipeline. Each request runs to completion in a
// single goroutine; concurrent requests interact only through the registry.
type Service struct {
	registry *jobs.Registry
	insights *insight.Service
	uploader storage.Uploader
	now      func() time.Time
}

// NewService creates a generator service.
func NewService(registry *jobs.Registry, insights *insight.Service, uploader storage.Uploader) *Service {
	return &Service{
		registry: registry,
		insights: insights,
		uploader: uploader,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Submit validates the request, creates a queued job, and dispatches the work
// in a background goroutine. Returns the job snapshot immediately.
func (s *Service) Submit(req chart.Request) (jobs.Job, error) {
	if err := req.Validate(); err != nil {
		return jobs.Job{}, err
	}

	job, err := s.registry.Create()
	if err != nil {
		return jobs.Job{}, err
	}

	go s.run(job.ID, req)

	return job, nil
}

// run executes the pipeline for an async job. It recovers from panics and
// always leaves the job in a terminal state.
func (s *Service) run(jobID uuid.UUID, req chart.Request) {
	ctx := context.Background()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in chart generation", "error", r, "job_id", jobID)
			s.registry.Fail(jobID, fmt.Sprintf("panic: %v", r))
		}
	}()

	s.registry.UpdateProgress(jobID, "rendering", 40)

	artifact, err := s.buildArtifact(ctx, req, jobID)
	if err != nil {
		s.registry.Fail(jobID, err.Error())
		return
	}

	s.registry.Complete(jobID, artifact)
}

// Generate runs the same pipeline synchronously, without a job record.
func (s *Service) Generate(ctx context.Context, req chart.Request) (*chart.Artifact, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.buildArtifact(ctx, req, uuid.New())
}

// BatchItem is the outcome for one request in a batch: either an artifact or
// an error message, never both.
type BatchItem struct {
	Index    int             `json:"index"`
	Artifact *chart.Artifact `json:"artifact,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// GenerateBatch processes requests sequentially; one bad item does not abort
// the rest. There is deliberately no parallel fan-out.
func (s *Service) GenerateBatch(ctx context.Context, reqs []chart.Request) []BatchItem {
	items := make([]BatchItem, len(reqs))
	for i := range reqs {
		items[i].Index = i
		artifact, err := s.Generate(ctx, reqs[i])
		if err != nil {
			items[i].Error = err.Error()
			continue
		}
		items[i].Artifact = artifact
	}
	return items
}

// buildArtifact renders the chart, attaches the insight (falling back on
// provider failure, which is non-fatal), and uploads the result. Upload
// failure is fatal to the request.
func (s *Service) buildArtifact(ctx context.Context, req chart.Request, id uuid.UUID) (*chart.Artifact, error) {
	html, err := chart.RenderHTML(&req)
	if err != nil {
		return nil, fmt.Errorf("rendering chart: %w", err)
	}

	artifact := &chart.Artifact{
		HTML:        html,
		ChartType:   req.ResolvedType(),
		Theme:       req.Theme,
		Layout:      req.Layout,
		PointCount:  len(req.Points),
		GeneratedAt: s.now(),
	}

	layout := chart.Layouts[req.Layout]
	if layout.HasInsightRegion() || req.Insight.Enabled {
		s.registry.UpdateProgress(id, "generating insight", 70)
		text, fellBack := s.insights.Generate(ctx, insight.Request{
			Points:        req.Points,
			AnalyticsType: req.AnalyticsType,
			Title:         req.Title,
			Audience:      req.Insight.Audience,
			Narrative:     req.Insight.Narrative,
		})
		insightHTML, err := chart.RenderInsightHTML(req.Theme, text)
		if err != nil {
			return nil, fmt.Errorf("rendering insight: %w", err)
		}
		artifact.InsightText = text
		artifact.InsightHTML = insightHTML
		artifact.FellBack = fellBack
	}

	if req.WithPNG {
		png, err := chart.RenderPNG(&req)
		if err != nil {
			// PNG is a preview extra; the HTML artifact still stands.
			slog.Warn("png render failed", "error", err, "chart_type", artifact.ChartType)
		} else {
			artifact.PNG = png
		}
	}

	s.registry.UpdateProgress(id, "uploading", 90)
	if err := s.upload(ctx, id, artifact); err != nil {
		return nil, err
	}

	return artifact, nil
}

func (s *Service) upload(ctx context.Context, id uuid.UUID, artifact *chart.Artifact) error {
	url, err := s.uploader.Upload(ctx, fmt.Sprintf("charts/%s.html", id), []byte(artifact.HTML), "text/html")
	if err != nil {
		return fmt.Errorf("uploading chart: %w", err)
	}
	artifact.URL = url

	if len(artifact.PNG) > 0 {
		pngURL, err := s.uploader.Upload(ctx, fmt.Sprintf("charts/%s.png", id), artifact.PNG, "image/png")
		if err != nil {
			return fmt.Errorf("uploading png: %w", err)
		}
		artifact.PNGURL = pngURL
	}
	return nil
}
