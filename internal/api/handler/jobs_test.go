package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidewise/chartgen/internal/chart"
	"github.com/slidewise/chartgen/internal/jobs"
)

// --- mocks ---

type mockSubmitter struct {
	fn func(req chart.Request) (jobs.Job, error)
}

func (m *mockSubmitter) Submit(req chart.Request) (jobs.Job, error) {
	return m.fn(req)
}

type mockJobGetter struct {
	fn func(id uuid.UUID) (jobs.Job, bool)
}

func (m *mockJobGetter) Get(id uuid.UUID) (jobs.Job, bool) {
	return m.fn(id)
}

// --- helpers ---

func quarterlyBody() map[string]any {
	return map[string]any{
		"points": []map[string]any{
			{"label": "Q1", "value": 125000},
			{"label": "Q2", "value": 145000},
			{"label": "Q3", "value": 162000},
			{"label": "Q4", "value": 178000},
		},
		"analytics_type": "revenue_over_time",
		"layout":         "chart_with_insights",
	}
}

func jsonReq(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	r := httptest.NewRequest(method, target, bytes.NewReader(b))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env.Data
}

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) (string, map[string]any) {
	t.Helper()
	var env struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env.Error.Code, env.Error.Details
}

// withURLParam injects a chi route parameter the way the router would.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// --- submit ---

func TestSubmitJobHandler_Accepted(t *testing.T) {
	created := jobs.Job{
		ID:        uuid.New(),
		Status:    jobs.StatusQueued,
		CreatedAt: time.Now().UTC(),
	}
	h := NewSubmitJobHandler(&mockSubmitter{fn: func(_ chart.Request) (jobs.Job, error) {
		return created, nil
	}})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, jsonReq(t, http.MethodPost, "/api/v1/charts/jobs", quarterlyBody()))

	require.Equal(t, http.StatusAccepted, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, created.ID.String(), data["job_id"])
	assert.Equal(t, jobs.StatusQueued, data["status"])
}

func TestSubmitJobHandler_InvalidJSON(t *testing.T) {
	h := NewSubmitJobHandler(&mockSubmitter{fn: func(_ chart.Request) (jobs.Job, error) {
		t.Fatal("submitter must not be called on malformed input")
		return jobs.Job{}, nil
	}})

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/charts/jobs", bytes.NewReader([]byte("{nope")))
	h.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	code, _ := decodeErr(t, rec)
	assert.Equal(t, "INVALID_REQUEST", code)
}

func TestSubmitJobHandler_ValidationError(t *testing.T) {
	h := NewSubmitJobHandler(&mockSubmitter{fn: func(_ chart.Request) (jobs.Job, error) {
		return jobs.Job{}, &chart.ValidationError{
			Field:      "points",
			Code:       "POINT_COUNT_OUT_OF_RANGE",
			Message:    "got 1 data points, need between 2 and 50",
			Suggestion: "supply between 2 and 50 labeled points",
		}
	}})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, jsonReq(t, http.MethodPost, "/api/v1/charts/jobs", quarterlyBody()))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	code, details := decodeErr(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", code)
	assert.Equal(t, "POINT_COUNT_OUT_OF_RANGE", details["code"])
	assert.NotEmpty(t, details["suggestion"])
}

func TestSubmitJobHandler_RegistryFull(t *testing.T) {
	h := NewSubmitJobHandler(&mockSubmitter{fn: func(_ chart.Request) (jobs.Job, error) {
		return jobs.Job{}, jobs.ErrRegistryFull
	}})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, jsonReq(t, http.MethodPost, "/api/v1/charts/jobs", quarterlyBody()))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	code, _ := decodeErr(t, rec)
	assert.Equal(t, "REGISTRY_FULL", code)
}

// --- poll ---

func TestPollJobHandler_Completed(t *testing.T) {
	id := uuid.New()
	h := NewPollJobHandler(&mockJobGetter{fn: func(got uuid.UUID) (jobs.Job, bool) {
		require.Equal(t, id, got)
		return jobs.Job{
			ID:       id,
			Status:   jobs.StatusCompleted,
			Progress: 100,
			Stage:    "completed",
			Result: &chart.Artifact{
				HTML:        "<div>chart</div>",
				InsightHTML: "<div>insight</div>",
				InsightText: "up and to the right",
				ChartType:   chart.TypeLine,
				Theme:       "corporate",
				Layout:      "chart_with_insights",
				PointCount:  4,
				URL:         "https://storage.test/charts/x.html",
			},
		}, true
	}})

	rec := httptest.NewRecorder()
	r := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/charts/jobs/"+id.String(), nil), "jobID", id.String())
	h.ServeHTTP(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, jobs.StatusCompleted, data["status"])

	result := data["result"].(map[string]any)
	assert.Equal(t, "<div>chart</div>", result["chart_html"])
	assert.Equal(t, "<div>insight</div>", result["insights_html"])
	assert.Equal(t, "https://storage.test/charts/x.html", result["chart_url"])
}

func TestPollJobHandler_FieldNamesFollowLayout(t *testing.T) {
	id := uuid.New()
	h := NewPollJobHandler(&mockJobGetter{fn: func(_ uuid.UUID) (jobs.Job, bool) {
		return jobs.Job{
			ID:     id,
			Status: jobs.StatusCompleted,
			Result: &chart.Artifact{
				HTML:        "<div>chart</div>",
				InsightHTML: "<div>insight</div>",
				Layout:      "sidebar_insights",
			},
		}, true
	}})

	rec := httptest.NewRecorder()
	r := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/charts/jobs/"+id.String(), nil), "jobID", id.String())
	h.ServeHTTP(rec, r)

	result := decodeData(t, rec)["result"].(map[string]any)
	assert.Equal(t, "<div>chart</div>", result["main_chart_html"])
	assert.Equal(t, "<div>insight</div>", result["side_insights_html"])
	assert.NotContains(t, result, "chart_html")
}

func TestPollJobHandler_Failed(t *testing.T) {
	id := uuid.New()
	h := NewPollJobHandler(&mockJobGetter{fn: func(_ uuid.UUID) (jobs.Job, bool) {
		return jobs.Job{ID: id, Status: jobs.StatusFailed, Error: "bucket unavailable"}, true
	}})

	rec := httptest.NewRecorder()
	r := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/charts/jobs/"+id.String(), nil), "jobID", id.String())
	h.ServeHTTP(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, jobs.StatusFailed, data["status"])
	assert.Equal(t, "bucket unavailable", data["error"])
}

func TestPollJobHandler_NotFound(t *testing.T) {
	h := NewPollJobHandler(&mockJobGetter{fn: func(_ uuid.UUID) (jobs.Job, bool) {
		return jobs.Job{}, false
	}})

	id := uuid.NewString()
	rec := httptest.NewRecorder()
	r := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/charts/jobs/"+id, nil), "jobID", id)
	h.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	code, _ := decodeErr(t, rec)
	assert.Equal(t, "JOB_NOT_FOUND", code)
}

func TestPollJobHandler_InvalidID(t *testing.T) {
	h := NewPollJobHandler(&mockJobGetter{fn: func(_ uuid.UUID) (jobs.Job, bool) {
		t.Fatal("registry must not be queried for a malformed id")
		return jobs.Job{}, false
	}})

	rec := httptest.NewRecorder()
	r := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/charts/jobs/not-a-uuid", nil), "jobID", "not-a-uuid")
	h.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
