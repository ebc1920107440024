package ingest_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hireinn/jobboard-service/internal/ingest"
	"hireinn/jobboard-service/internal/model"
)

func validJob(id string) model.Job {
	return model.Job{
		ID:          id,
		Source:      ingest.AdzunaName,
		ExternalID:  id,
		Company:     "Acme",
		Role:        "Backend Engineer",
		Location:    "Pune",
		Description: "Build and run Go services.",
		ApplyURL:    "https://acme.dev/jobs/" + id,
	}
}

// ── ContainsRedFlag ────────────────────────────────────────────────────────

func TestContainsRedFlag(t *testing.T) {
	job := validJob("1")
	job.Description = "Unpaid internship, commission only"

	cases := []struct {
		flags []string
		want  bool
	}{
		{nil, false},
		{[]string{""}, false},
		{[]string{"COMMISSION"}, true},
		{[]string{"acme"}, true},
		{[]string{"crypto", "mlm"}, false},
	}
	for _, c := range cases {
		if got := ingest.ContainsRedFlag(job, c.flags); got != c.want {
			t.Errorf("ContainsRedFlag(%v) = %v, want %v", c.flags, got, c.want)
		}
	}
}

// ── Verifier ───────────────────────────────────────────────────────────────

func TestVerifier(t *testing.T) {
	v := ingest.NewVerifier([]string{"commission only"})

	assert.NoError(t, v.Verify(validJob("ok")))

	cases := map[string]func(*model.Job){
		"missing company":  func(j *model.Job) { j.Company = " " },
		"missing role":     func(j *model.Job) { j.Role = "" },
		"missing url":      func(j *model.Job) { j.ApplyURL = "#" },
		"missing location": func(j *model.Job) { j.Location = "" },
		"confidential":     func(j *model.Job) { j.Company = "Confidential Company" },
		"hiring":           func(j *model.Job) { j.Company = "Now Hiring Ltd" },
		"red flag":         func(j *model.Job) { j.Description = "Commission only role" },
	}
	for name, mutate := range cases {
		j := validJob("x")
		mutate(&j)
		err := v.Verify(j)
		var rej *ingest.Rejection
		if assert.ErrorAs(t, err, &rej, name) {
			assert.Equal(t, "x", rej.JobID, name)
		}
	}
}

// ── AdzunaFetcher ──────────────────────────────────────────────────────────

func TestAdzuna_FetchPageNormalises(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/in/search/2", r.URL.Path)
		assert.Equal(t, "id", r.URL.Query().Get("app_id"))
		assert.Equal(t, "Engineer", r.URL.Query().Get("what"))
		assert.Equal(t, "50", r.URL.Query().Get("results_per_page"))
		_, _ = w.Write([]byte(`{"count": 1, "results": [{
			"id": "4242", "title": "Go Engineer", "description": "Remote friendly team",
			"company": {"display_name": "Acme"}, "location": {"display_name": "Bengaluru, Karnataka"},
			"salary_min": 1200000, "salary_max": 1800000,
			"redirect_url": "https://adzuna.in/land/4242", "created": "2026-09-01T10:00:00Z",
			"contract_time": "full_time"
		}]}`))
	}))
	defer srv.Close()

	f := ingest.NewAdzunaFetcher("id", "key", "in", 5*time.Second, zap.NewNop())
	f.BaseURL = srv.URL

	jobs, err := f.FetchPage(context.Background(), "Engineer", "", 1)
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	j := jobs[0]
	assert.Equal(t, "4242", j.ID)
	assert.Equal(t, "4242", j.ExternalID)
	assert.Equal(t, ingest.AdzunaName, j.Source)
	assert.Equal(t, "Go Engineer", j.Role)
	assert.Equal(t, "₹1200000-1800000", j.Salary)
	assert.Equal(t, "Full-time", j.Type)
	assert.Equal(t, model.DefaultExperience, j.Experience)
	assert.True(t, j.IsRemote)
	require.NotNil(t, j.PostedAt)
	assert.Equal(t, 2026, j.PostedAt.Year())
}

func TestAdzuna_Non200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	f := ingest.NewAdzunaFetcher("id", "key", "in", time.Second, zap.NewNop())
	f.BaseURL = srv.URL
	_, err := f.FetchPage(context.Background(), "Engineer", "", 0)
	assert.ErrorContains(t, err, "401")
}

func TestAdzuna_DisabledWithoutCredentials(t *testing.T) {
	f := ingest.NewAdzunaFetcher("", "", "in", time.Second, zap.NewNop())
	assert.False(t, f.Enabled())
	jobs, err := f.FetchPage(context.Background(), "Engineer", "", 0)
	assert.NoError(t, err)
	assert.Empty(t, jobs)
}

// ── Worker ─────────────────────────────────────────────────────────────────

type pagedFetcher struct {
	pages    [][]model.Job
	size     int
	requests []int
	err      error
}

func (f *pagedFetcher) PageSize() int { return f.size }

func (f *pagedFetcher) FetchPage(_ context.Context, _, _ string, page int) ([]model.Job, error) {
	f.requests = append(f.requests, page)
	if f.err != nil {
		return nil, f.err
	}
	if page >= len(f.pages) {
		return nil, nil
	}
	return f.pages[page], nil
}

type memorySink struct {
	jobs map[string]model.Job
	fail string
}

func (s *memorySink) Put(_ context.Context, job model.Job) (bool, error) {
	if job.ID == s.fail {
		return false, errors.New("write failed")
	}
	if _, ok := s.jobs[job.ID]; ok {
		return false, nil
	}
	s.jobs[job.ID] = job
	return true, nil
}

func TestWorker_WalksPagesUntilShortPage(t *testing.T) {
	rejected := validJob("bad")
	rejected.Company = "Confidential"

	fetcher := &pagedFetcher{size: 2, pages: [][]model.Job{
		{validJob("a"), validJob("b")},
		{validJob("b"), rejected},
		{validJob("c")},
		{validJob("never")},
	}}
	sink := &memorySink{jobs: map[string]model.Job{}}
	w := ingest.NewWorker(fetcher, ingest.NewVerifier(nil), sink, "", 10, zap.NewNop())

	stats, err := w.Run(context.Background(), "Engineer")
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, fetcher.requests)
	assert.Equal(t, ingest.Stats{Fetched: 5, Stored: 3, Rejected: 1}, stats)
	assert.Len(t, sink.jobs, 3)
}

func TestWorker_StopsAtMaxPages(t *testing.T) {
	full := func(p int) []model.Job { return []model.Job{validJob(fmt.Sprintf("%d-a", p)), validJob(fmt.Sprintf("%d-b", p))} }
	fetcher := &pagedFetcher{size: 2, pages: [][]model.Job{full(0), full(1), full(2), full(3)}}
	w := ingest.NewWorker(fetcher, ingest.NewVerifier(nil), &memorySink{jobs: map[string]model.Job{}}, "", 2, zap.NewNop())

	stats, err := w.Run(context.Background(), "Engineer")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, fetcher.requests)
	assert.Equal(t, 4, stats.Stored)
}

func TestWorker_SinkFailureSkipsJob(t *testing.T) {
	fetcher := &pagedFetcher{size: 10, pages: [][]model.Job{{validJob("a"), validJob("b")}}}
	sink := &memorySink{jobs: map[string]model.Job{}, fail: "a"}
	w := ingest.NewWorker(fetcher, ingest.NewVerifier(nil), sink, "", 0, zap.NewNop())

	stats, err := w.Run(context.Background(), "Engineer")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.Stored)
}

func TestWorker_FetchErrorStopsRun(t *testing.T) {
	fetcher := &pagedFetcher{size: 10, err: errors.New("timeout")}
	w := ingest.NewWorker(fetcher, ingest.NewVerifier(nil), &memorySink{jobs: map[string]model.Job{}}, "", 0, zap.NewNop())

	_, err := w.Run(context.Background(), "Engineer")
	assert.ErrorContains(t, err, "page 0")
}

// ── Rotation / Scheduler ───────────────────────────────────────────────────

func TestRotation_RoundRobin(t *testing.T) {
	r := ingest.NewRotation([]string{"Engineer", "Analyst"})
	assert.Equal(t, "Engineer", r.Next())
	assert.Equal(t, "Analyst", r.Next())
	assert.Equal(t, "Engineer", r.Next())
	assert.Equal(t, "", ingest.NewRotation(nil).Next())
}

type countingPruner struct{ calls int }

func (p *countingPruner) DeleteExpired(context.Context) (int64, error) {
	p.calls++
	return 2, nil
}

func TestScheduler_RunCycleUsesNextTermAndPrunes(t *testing.T) {
	fetcher := &pagedFetcher{size: 10, pages: [][]model.Job{{validJob("a")}}}
	sink := &memorySink{jobs: map[string]model.Job{}}
	pruner := &countingPruner{}
	s := ingest.NewScheduler(
		ingest.NewWorker(fetcher, ingest.NewVerifier(nil), sink, "", 0, zap.NewNop()),
		ingest.NewRotation([]string{"Engineer"}),
		pruner, 6, zap.NewNop(),
	)

	assert.Equal(t, "@every 6h", s.Spec())
	s.RunCycle(context.Background())
	assert.Equal(t, 1, pruner.calls)
	assert.Len(t, sink.jobs, 1)
}

// ── NATS wire form ─────────────────────────────────────────────────────────

func TestDecodeJob_KeepsExternalID(t *testing.T) {
	data, err := json.Marshal(map[string]any{"id": "abc", "externalId": "ext-1", "company": "Acme"})
	require.NoError(t, err)

	job, err := ingest.DecodeJob(data)
	require.NoError(t, err)
	assert.Equal(t, "abc", job.ID)
	assert.Equal(t, "ext-1", job.ExternalID)
	assert.Equal(t, "Acme", job.Company)

	_, err = ingest.DecodeJob([]byte(`{"company": "no id"}`))
	assert.Error(t, err)
}
