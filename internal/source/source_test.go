package source_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hireinn/jobboard-service/internal/model"
	"hireinn/jobboard-service/internal/source"
)

// ── Catalog ────────────────────────────────────────────────────────────────

func TestCatalog_EmbeddedLoads(t *testing.T) {
	c, err := source.NewCatalogAdapter()
	require.NoError(t, err)

	r := c.Fetch(context.Background(), source.Query{Page: 0, PageSize: 12})
	assert.Equal(t, source.OutcomeJobs, r.Outcome)
	assert.Len(t, r.Jobs, 12)
	assert.True(t, r.HasTotal)
	assert.Equal(t, 16, r.Total)

	for _, j := range r.Jobs {
		assert.Equal(t, source.CatalogName, j.Source)
		assert.Equal(t, model.DefaultJobType, j.Type)
		assert.Equal(t, model.DefaultApplyURL, j.ApplyURL)
	}
}

func TestCatalog_PagesPastEndAreEmpty(t *testing.T) {
	c, err := source.NewCatalogAdapter()
	require.NoError(t, err)

	second := c.Fetch(context.Background(), source.Query{Page: 1, PageSize: 12})
	assert.Equal(t, source.OutcomeJobs, second.Outcome)
	assert.Len(t, second.Jobs, 4)

	third := c.Fetch(context.Background(), source.Query{Page: 2, PageSize: 12})
	assert.Equal(t, source.OutcomeEmpty, third.Outcome)
	assert.Empty(t, third.Jobs)
}

func TestCatalog_SearchFilters(t *testing.T) {
	c, err := source.NewCatalogAdapter()
	require.NoError(t, err)

	r := c.Fetch(context.Background(), source.Query{
		PageSize: 12,
		Search:   model.Search{Query: "backend", Type: model.SearchRole},
	})
	require.Equal(t, source.OutcomeJobs, r.Outcome)
	assert.Equal(t, 2, r.Total)
	for _, j := range r.Jobs {
		assert.Contains(t, j.Role, "Backend")
	}
}

func TestParseCatalog_RejectsDuplicateIDs(t *testing.T) {
	_, err := source.ParseCatalog([]byte("jobs:\n  - id: \"1\"\n    company: A\n  - id: \"1\"\n    company: B\n"))
	assert.Error(t, err)
}

// ── Store ──────────────────────────────────────────────────────────────────

func TestStore_DisabledWithoutPool(t *testing.T) {
	s := source.NewStoreAdapter(nil, zap.NewNop())
	r := s.Fetch(context.Background(), source.Query{PageSize: 12})
	assert.Equal(t, source.OutcomeDisabled, r.Outcome)
}

// ── TheirStack ─────────────────────────────────────────────────────────────

func TestTheirStack_DisabledWithoutKey(t *testing.T) {
	a := source.NewTheirStackAdapter("", "IN", time.Second, zap.NewNop())
	assert.Equal(t, source.OutcomeDisabled, a.Fetch(context.Background(), source.Query{PageSize: 5}).Outcome)
}

func TestTheirStack_SendsProfileSkillsAndNormalises(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/jobs/search", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[
			{"id": 991, "job_title": "Go Engineer", "company_name": "Acme", "url": "https://acme.dev/1",
			 "description": "Build services in Go", "remote": true, "date_posted": "2025-01-02"},
			{"job_title": "", "company": {"name": "Beta"}}
		], "metadata": {"total_results": 40}}`))
	}))
	defer srv.Close()

	a := source.NewTheirStackAdapter("key", "IN", time.Second, zap.NewNop())
	a.BaseURL = srv.URL

	profile := &model.UserProfile{Skills: []string{"Go", "Kafka"}}
	r := a.Fetch(context.Background(), source.Query{Page: 2, PageSize: 5, Profile: profile})

	require.Equal(t, source.OutcomeJobs, r.Outcome)
	assert.Equal(t, float64(2), got["page"])
	assert.Equal(t, float64(5), got["limit"])
	assert.Equal(t, []any{"Go", "Kafka"}, got["job_title_or"])
	assert.Equal(t, []any{"IN"}, got["job_country_code_or"])
	assert.Equal(t, float64(30), got["posted_at_max_age_days"])

	require.Len(t, r.Jobs, 2)
	first := r.Jobs[0]
	assert.Equal(t, "991", first.ID)
	assert.Equal(t, "Acme", first.Company)
	assert.Equal(t, "2-5 yrs", first.Experience)
	assert.Equal(t, "Competitive", first.Salary)
	assert.Equal(t, "India", first.Location)
	assert.True(t, first.IsRemote)
	require.NotNil(t, first.PostedAt)

	second := r.Jobs[1]
	assert.Equal(t, "Beta", second.Company)
	assert.Equal(t, "Software Engineer", second.Role)
	assert.Equal(t, "No description available.", second.Description)
	assert.Equal(t, model.DefaultApplyURL, second.ApplyURL)
	assert.NotEmpty(t, second.ID, "missing upstream ids get a derived stable id")

	assert.True(t, r.HasTotal)
	assert.Equal(t, 40, r.Total)
}

func TestTheirStack_DefaultTermsWithoutProfile(t *testing.T) {
	var got struct {
		JobTitleOr []string `json:"job_title_or"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	a := source.NewTheirStackAdapter("key", "IN", time.Second, zap.NewNop())
	a.BaseURL = srv.URL

	r := a.Fetch(context.Background(), source.Query{PageSize: 5})
	assert.Equal(t, source.OutcomeEmpty, r.Outcome)
	assert.Equal(t, source.DefaultSearchTerms, got.JobTitleOr)
}

func TestTheirStack_Non200IsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	a := source.NewTheirStackAdapter("key", "IN", time.Second, zap.NewNop())
	a.BaseURL = srv.URL

	r := a.Fetch(context.Background(), source.Query{PageSize: 5})
	assert.Equal(t, source.OutcomeFailed, r.Outcome)
	assert.Error(t, r.Err)
	assert.Empty(t, r.Jobs)
}

func TestTheirStack_TimeoutIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	a := source.NewTheirStackAdapter("key", "IN", 20*time.Millisecond, zap.NewNop())
	a.BaseURL = srv.URL

	r := a.Fetch(context.Background(), source.Query{PageSize: 5})
	assert.Equal(t, source.OutcomeFailed, r.Outcome)
}

// ── JSearch ────────────────────────────────────────────────────────────────

func TestJSearch_QueryAndNormalisation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "React in Pune", r.URL.Query().Get("query"))
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		assert.Equal(t, "1", r.URL.Query().Get("num_pages"))
		assert.Equal(t, "rk", r.Header.Get("X-RapidAPI-Key"))
		assert.Equal(t, "jsearch.p.rapidapi.com", r.Header.Get("X-RapidAPI-Host"))

		w.Write([]byte(`{"data":[
			{"job_id":"j1","employer_name":"Acme","job_title":"Frontend Dev","job_city":"Pune","job_country":"IN",
			 "job_min_salary":1000,"job_max_salary":2000,"job_employment_type":"FULLTIME","job_google_link":"https://g/1"},
			{"job_id":"j2","employer_name":"Beta","job_title":"UI Dev"},
			{"job_id":"j3","employer_name":"Gamma","job_title":"Extra"}
		]}`))
	}))
	defer srv.Close()

	a := source.NewJSearchAdapter("rk", time.Second, zap.NewNop())
	a.BaseURL = srv.URL

	profile := &model.UserProfile{Skills: []string{"React"}, PreferredLocation: "Pune"}
	r := a.Fetch(context.Background(), source.Query{Page: 2, PageSize: 2, Profile: profile})

	require.Equal(t, source.OutcomeJobs, r.Outcome)
	require.Len(t, r.Jobs, 2, "results are capped at the page size")

	first := r.Jobs[0]
	assert.Equal(t, "j1", first.ID)
	assert.Equal(t, "Pune, IN", first.Location)
	assert.Equal(t, "₹1000-2000", first.Salary)
	assert.Equal(t, "Full-time", first.Type)
	assert.Equal(t, "https://g/1", first.ApplyURL)

	second := r.Jobs[1]
	assert.Equal(t, "Remote", second.Location)
	assert.Equal(t, model.DefaultSalary, second.Salary)
	assert.Equal(t, "No description.", second.Description)
	assert.Equal(t, model.DefaultApplyURL, second.ApplyURL)
}

func TestJSearch_DefaultQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Software Engineer in India", r.URL.Query().Get("query"))
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	a := source.NewJSearchAdapter("rk", time.Second, zap.NewNop())
	a.BaseURL = srv.URL

	r := a.Fetch(context.Background(), source.Query{PageSize: 12, Profile: &model.UserProfile{PreferredLocation: "Any"}})
	assert.Equal(t, source.OutcomeEmpty, r.Outcome)
}

func TestJSearch_RateLimitedIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	a := source.NewJSearchAdapter("rk", time.Second, zap.NewNop())
	a.BaseURL = srv.URL

	assert.Equal(t, source.OutcomeFailed, a.Fetch(context.Background(), source.Query{PageSize: 12}).Outcome)
}

func TestJSearch_MalformedPayloadIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": "nope"`))
	}))
	defer srv.Close()

	a := source.NewJSearchAdapter("rk", time.Second, zap.NewNop())
	a.BaseURL = srv.URL

	assert.Equal(t, source.OutcomeFailed, a.Fetch(context.Background(), source.Query{PageSize: 12}).Outcome)
}
