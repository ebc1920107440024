package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hireinn/jobboard-service/internal/api"
	apperrors "hireinn/jobboard-service/internal/errors"
	"hireinn/jobboard-service/internal/feed"
	"hireinn/jobboard-service/internal/identity"
	"hireinn/jobboard-service/internal/matching"
	"hireinn/jobboard-service/internal/model"
	"hireinn/jobboard-service/internal/notify"
	"hireinn/jobboard-service/internal/pipeline"
	"hireinn/jobboard-service/internal/prep"
	"hireinn/jobboard-service/internal/profile"
	"hireinn/jobboard-service/internal/source"
	"hireinn/jobboard-service/internal/tracker"
)

func init() { gin.SetMode(gin.TestMode) }

type okSender struct{}

func (okSender) SendApplicationConfirmation(context.Context, notify.Confirmation) notify.Result {
	return notify.Result{Sent: true}
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	catalog := source.NewCatalogAdapterFrom([]model.Job{
		{ID: "1", Company: "Acme", Role: "Designer", Experience: "10 yrs", Location: "Delhi"},
		{ID: "2", Company: "Globex", Role: "React Developer", Description: "React", Experience: "2-5 yrs", Location: "Bengaluru"},
	})
	agg := pipeline.New(logger, catalog)

	h := api.NewHandler(
		feed.NewService(agg, matching.NewScorer(matching.DefaultWeights()), 12, 50, logger),
		tracker.NewService(tracker.NewMemoryStore(), okSender{}, nil, logger),
		profile.NewService(profile.NewMemoryStore(), logger),
		prep.NewGenerator(nil, 8, time.Hour, logger),
		identity.NewVerifier("", true),
		agg.Sources(),
		logger,
	)
	return api.NewRouter(h, nil, logger)
}

func do(t *testing.T, r http.Handler, method, path string, body any, user string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set(identity.HeaderUserID, user)
		req.Header.Set(identity.HeaderUserEmail, user+"@example.com")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// ── Health ─────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	w := do(t, newRouter(t), http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

// ── Jobs ───────────────────────────────────────────────────────────────────

func TestListJobs_AnonymousKeepsPipelineOrder(t *testing.T) {
	w := do(t, newRouter(t), http.MethodGet, "/api/jobs?pageSize=12", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	jobs := body["jobs"].([]any)
	require.Len(t, jobs, 2)
	assert.Equal(t, "1", jobs[0].(map[string]any)["id"])
	assert.Equal(t, false, body["hasMore"])
	assert.Equal(t, false, body["personalized"])
}

func TestListJobs_ProfiledIsRanked(t *testing.T) {
	r := newRouter(t)
	w := do(t, r, http.MethodPut, "/api/profile", profile.UpdateRequest{
		Skills: []string{"React"}, ExperienceYears: 3, PreferredLocation: "Bengaluru",
	}, "u1")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/jobs", nil, "u1")
	require.Equal(t, http.StatusOK, w.Code)
	jobs := decode(t, w)["jobs"].([]any)
	require.NotEmpty(t, jobs)
	first := jobs[0].(map[string]any)
	assert.Equal(t, "2", first["id"])
	assert.Equal(t, float64(100), first["matchScore"])
}

func TestListJobs_BadQuery(t *testing.T) {
	r := newRouter(t)
	for _, path := range []string{"/api/jobs?page=x", "/api/jobs?page=-1", "/api/jobs?searchType=salary"} {
		w := do(t, r, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.NotEmpty(t, decode(t, w)["error"], path)
	}
}

// ── Apply ──────────────────────────────────────────────────────────────────

func TestApply_StatusCodes(t *testing.T) {
	r := newRouter(t)
	req := tracker.ApplyRequest{JobID: "2", Company: "Globex", Role: "React Developer"}

	w := do(t, r, http.MethodPost, "/api/apply", req, "u1")
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["applicationSaved"])
	assert.Equal(t, true, body["emailSent"])
	assert.Equal(t, "Application submitted & email sent!", body["message"])

	w = do(t, r, http.MethodPost, "/api/apply", req, "u1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Already applied", decode(t, w)["message"])

	w = do(t, r, http.MethodPost, "/api/apply", tracker.ApplyRequest{}, "u1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Job ID required", decode(t, w)["error"])

	w = do(t, r, http.MethodPost, "/api/apply", req, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestApplications_ListAndMove(t *testing.T) {
	r := newRouter(t)
	do(t, r, http.MethodPost, "/api/apply", tracker.ApplyRequest{JobID: "1"}, "u1")

	w := do(t, r, http.MethodGet, "/api/applications", nil, "u1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["applications"].([]any), 1)

	w = do(t, r, http.MethodPost, "/api/applications/1/move", map[string]string{"status": "INTERVIEW"}, "u1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "INTERVIEW", decode(t, w)["status"])

	w = do(t, r, http.MethodPost, "/api/applications/1/move", map[string]string{"status": "APPLIED"}, "u1")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/applications/nope/move", map[string]string{"status": "OFFER"}, "u1")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ── Profile ────────────────────────────────────────────────────────────────

func TestUpdateProfile_Validation(t *testing.T) {
	r := newRouter(t)
	w := do(t, r, http.MethodPut, "/api/profile", profile.UpdateRequest{ExperienceYears: -2}, "u1")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPut, "/api/profile", profile.UpdateRequest{}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// ── Prep ───────────────────────────────────────────────────────────────────

func TestPrep(t *testing.T) {
	r := newRouter(t)
	w := do(t, r, http.MethodGet, "/api/prep?company=Amazon&role=SDE", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "₹30L - ₹55L (SDE2)", decode(t, w)["salaryRange"])

	w = do(t, r, http.MethodGet, "/api/prep?company=Amazon", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ── Resume ─────────────────────────────────────────────────────────────────

func TestResume_Upload(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "cv.txt")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("Docker and Go, 6 years"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/resume", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	newRouter(t).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, []any{"Docker", "Go"}, body["inferredSkills"])
	assert.Equal(t, float64(6), body["inferredExperienceYears"])
}

func TestResume_MissingFile(t *testing.T) {
	w := do(t, newRouter(t), http.MethodPost, "/api/resume", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ── Error mapping ──────────────────────────────────────────────────────────

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperrors.NotFound("x", nil), http.StatusNotFound},
		{apperrors.InvalidInput("x", nil), http.StatusBadRequest},
		{apperrors.Unauthorized("x", nil), http.StatusUnauthorized},
		{apperrors.Unavailable("x", nil), http.StatusServiceUnavailable},
		{apperrors.RateLimit("x", nil), http.StatusTooManyRequests},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, api.StatusFor(c.err), c.err.Error())
	}
}
