package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"hireinn/jobboard-service/internal/model"
)

const (
	// TheirStackName identifies the first aggregator adapter.
	TheirStackName = "theirstack"

	theirStackBaseURL    = "https://api.theirstack.com"
	theirStackMaxAgeDays = 30
	theirStackExperience = "2-5 yrs"
)

// DefaultSearchTerms are used when neither a search nor profile skills exist.
var DefaultSearchTerms = []string{"Software Engineer", "Developer", "Frontend", "Backend", "Full Stack"}

// TheirStackAdapter queries the TheirStack job search API. An empty APIKey
// disables it.
type TheirStackAdapter struct {
	APIKey  string
	Country string // ISO country code, e.g. "IN"
	BaseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewTheirStackAdapter constructs the adapter with its own bounded HTTP client.
func NewTheirStackAdapter(apiKey, country string, timeout time.Duration, logger *zap.Logger) *TheirStackAdapter {
	return &TheirStackAdapter{
		APIKey:  apiKey,
		Country: country,
		BaseURL: theirStackBaseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type theirStackRequest struct {
	Page               int      `json:"page"`
	Limit              int      `json:"limit"`
	JobTitleOr         []string `json:"job_title_or"`
	JobCountryCodeOr   []string `json:"job_country_code_or"`
	PostedAtMaxAgeDays int      `json:"posted_at_max_age_days"`
}

type theirStackResponse struct {
	Data     []theirStackJob `json:"data"`
	Metadata struct {
		TotalResults *int `json:"total_results"`
	} `json:"metadata"`
}

type theirStackJob struct {
	ID           flexString         `json:"id"`
	JobTitle     string             `json:"job_title"`
	URL          string             `json:"url"`
	FinalURL     string             `json:"final_url"`
	CompanyName  string             `json:"company_name"`
	Company      *theirStackCompany `json:"company"`
	JobLocation  string             `json:"job_location"`
	City         string             `json:"city"`
	SalaryString string             `json:"salary_string"`
	Description  string             `json:"description"`
	Remote       bool               `json:"remote"`
	DatePosted   string             `json:"date_posted"`
}

type theirStackCompany struct {
	Name string `json:"name"`
}

func (a *TheirStackAdapter) Name() string { return TheirStackName }

func (a *TheirStackAdapter) Fetch(ctx context.Context, q Query) Result {
	if a.APIKey == "" {
		return disabled(TheirStackName)
	}

	body, err := json.Marshal(theirStackRequest{
		Page:               q.Page,
		Limit:              q.PageSize,
		JobTitleOr:         searchTerms(q),
		JobCountryCodeOr:   []string{a.Country},
		PostedAtMaxAgeDays: theirStackMaxAgeDays,
	})
	if err != nil {
		return failed(TheirStackName, fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+"/v1/jobs/search", bytes.NewReader(body))
	if err != nil {
		return failed(TheirStackName, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.APIKey)

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Warn("theirstack request failed", zap.Error(err))
		return failed(TheirStackName, fmt.Errorf("http POST: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return failed(TheirStackName, fmt.Errorf("read body: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		a.logger.Warn("theirstack returned non-200", zap.Int("status", resp.StatusCode))
		return failed(TheirStackName, fmt.Errorf("theirstack returned %d", resp.StatusCode))
	}

	var apiResp theirStackResponse
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		a.logger.Warn("theirstack payload malformed", zap.Error(err))
		return failed(TheirStackName, fmt.Errorf("json unmarshal: %w", err))
	}

	jobs := make([]model.Job, 0, len(apiResp.Data))
	for _, j := range apiResp.Data {
		jobs = append(jobs, a.normalise(j))
	}

	r := jobsResult(TheirStackName, jobs)
	if apiResp.Metadata.TotalResults != nil && r.Outcome == OutcomeJobs {
		r = withTotal(r, *apiResp.Metadata.TotalResults)
	}
	return r
}

func (a *TheirStackAdapter) normalise(j theirStackJob) model.Job {
	company := firstNonEmpty(j.CompanyName, companyName(j.Company), "Unknown")
	role := firstNonEmpty(j.JobTitle, "Software Engineer")
	applyURL := firstNonEmpty(j.URL, j.FinalURL, model.DefaultApplyURL)

	description := "No description available."
	if j.Description != "" {
		description = model.Truncate(j.Description, model.MaxDescriptionLen)
	}

	job := model.Job{
		Source:      TheirStackName,
		ExternalID:  string(j.ID),
		Company:     company,
		Role:        role,
		Location:    firstNonEmpty(j.JobLocation, j.City, "India"),
		Experience:  theirStackExperience,
		Salary:      firstNonEmpty(j.SalaryString, "Competitive"),
		Description: description,
		IsRemote:    j.Remote,
		ApplyURL:    applyURL,
		PostedAt:    parseDate(j.DatePosted),
	}
	job.ID = model.StableJobID(TheirStackName, job.ExternalID, applyURL+"|"+company+"|"+role)
	job.ApplyDefaults()
	return job
}

// searchTerms picks the upstream keywords: explicit search, then profile
// skills, then DefaultSearchTerms.
func searchTerms(q Query) []string {
	if q.Search.Active() {
		return []string{strings.TrimSpace(q.Search.Query)}
	}
	if q.Profile != nil && len(q.Profile.Skills) > 0 {
		return q.Profile.Skills
	}
	return DefaultSearchTerms
}

func companyName(c *theirStackCompany) string {
	if c == nil {
		return ""
	}
	return c.Name
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// flexString decodes ids that upstreams send either as strings or numbers.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
