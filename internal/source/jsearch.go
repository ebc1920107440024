package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"hireinn/jobboard-service/internal/model"
)

const (
	// JSearchName identifies the second aggregator adapter.
	JSearchName = "jsearch"

	jsearchHost       = "jsearch.p.rapidapi.com"
	jsearchBaseURL    = "https://" + jsearchHost
	jsearchExperience = "2-5 yrs"
)

// JSearchAdapter queries the RapidAPI JSearch endpoint. An empty APIKey
// disables it.
type JSearchAdapter struct {
	APIKey  string
	BaseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewJSearchAdapter constructs the adapter with its own bounded HTTP client.
func NewJSearchAdapter(apiKey string, timeout time.Duration, logger *zap.Logger) *JSearchAdapter {
	return &JSearchAdapter{
		APIKey:  apiKey,
		BaseURL: jsearchBaseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type jsearchResponse struct {
	Data []jsearchJob `json:"data"`
}

type jsearchJob struct {
	JobID                  string   `json:"job_id"`
	EmployerName           string   `json:"employer_name"`
	JobTitle               string   `json:"job_title"`
	JobCity                string   `json:"job_city"`
	JobCountry             string   `json:"job_country"`
	JobMinSalary           *float64 `json:"job_min_salary"`
	JobMaxSalary           *float64 `json:"job_max_salary"`
	JobDescription         string   `json:"job_description"`
	JobIsRemote            bool     `json:"job_is_remote"`
	JobEmploymentType      string   `json:"job_employment_type"`
	JobApplyLink           string   `json:"job_apply_link"`
	JobGoogleLink          string   `json:"job_google_link"`
	JobPostedAtDatetimeUTC string   `json:"job_posted_at_datetime_utc"`
}

func (a *JSearchAdapter) Name() string { return JSearchName }

func (a *JSearchAdapter) Fetch(ctx context.Context, q Query) Result {
	if a.APIKey == "" {
		return disabled(JSearchName)
	}

	params := url.Values{}
	params.Set("query", jsearchQuery(q))
	params.Set("page", strconv.Itoa(q.Page+1)) // JSearch pages are 1-based
	params.Set("num_pages", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.BaseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return failed(JSearchName, err)
	}
	req.Header.Set("X-RapidAPI-Key", a.APIKey)
	req.Header.Set("X-RapidAPI-Host", jsearchHost)

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Warn("jsearch request failed", zap.Error(err))
		return failed(JSearchName, fmt.Errorf("http GET: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return failed(JSearchName, fmt.Errorf("read body: %w", err))
	}
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		a.logger.Warn("jsearch rate limited")
		return failed(JSearchName, fmt.Errorf("jsearch rate limited"))
	case resp.StatusCode != http.StatusOK:
		a.logger.Warn("jsearch returned non-200", zap.Int("status", resp.StatusCode))
		return failed(JSearchName, fmt.Errorf("jsearch returned %d", resp.StatusCode))
	}

	var apiResp jsearchResponse
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		a.logger.Warn("jsearch payload malformed", zap.Error(err))
		return failed(JSearchName, fmt.Errorf("json unmarshal: %w", err))
	}

	data := apiResp.Data
	if len(data) > q.PageSize {
		data = data[:q.PageSize]
	}
	jobs := make([]model.Job, 0, len(data))
	for _, j := range data {
		jobs = append(jobs, normaliseJSearch(j))
	}
	return jobsResult(JSearchName, jobs)
}

// jsearchQuery builds "<title> in <location>" from the search or the profile.
func jsearchQuery(q Query) string {
	title := "Software Engineer"
	location := "India"

	if q.Profile != nil {
		if len(q.Profile.Skills) > 0 && strings.TrimSpace(q.Profile.Skills[0]) != "" {
			title = strings.TrimSpace(q.Profile.Skills[0])
		}
		if q.Profile.HasPreferredLocation() {
			location = strings.TrimSpace(q.Profile.PreferredLocation)
		}
	}
	if q.Search.Active() {
		title = strings.TrimSpace(q.Search.Query)
	}
	return title + " in " + location
}

func normaliseJSearch(j jsearchJob) model.Job {
	location := "Remote"
	if j.JobCity != "" {
		location = j.JobCity + ", " + j.JobCountry
	}

	salary := model.DefaultSalary
	if j.JobMinSalary != nil && *j.JobMinSalary > 0 {
		salary = "₹" + formatAmount(*j.JobMinSalary)
		if j.JobMaxSalary != nil && *j.JobMaxSalary > 0 {
			salary += "-" + formatAmount(*j.JobMaxSalary)
		}
	}

	description := "No description."
	if j.JobDescription != "" {
		description = model.Truncate(j.JobDescription, model.MaxDescriptionLen)
	}

	applyURL := firstNonEmpty(j.JobApplyLink, j.JobGoogleLink, model.DefaultApplyURL)
	job := model.Job{
		Source:      JSearchName,
		ExternalID:  j.JobID,
		Company:     firstNonEmpty(j.EmployerName, "Unknown"),
		Role:        firstNonEmpty(j.JobTitle, "Software Engineer"),
		Location:    location,
		Experience:  jsearchExperience,
		Salary:      salary,
		Description: description,
		IsRemote:    j.JobIsRemote,
		Type:        employmentType(j.JobEmploymentType),
		ApplyURL:    applyURL,
		PostedAt:    parseDate(j.JobPostedAtDatetimeUTC),
	}
	job.ID = model.StableJobID(JSearchName, j.JobID, applyURL+"|"+job.Company+"|"+job.Role)
	job.ApplyDefaults()
	return job
}

// employmentType turns "FULLTIME" style codes into "Full-time".
func employmentType(code string) string {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "":
		return ""
	case "FULLTIME":
		return "Full-time"
	case "PARTTIME":
		return "Part-time"
	case "CONTRACTOR":
		return "Contract"
	case "INTERN":
		return "Internship"
	}
	return code
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
