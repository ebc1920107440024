package ingest

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
	// AdzunaName is the source name stored on ingested jobs.
	AdzunaName = "adzuna"

	adzunaBaseURL  = "https://api.adzuna.com/v1/api/jobs"
	adzunaPageSize = 50
)

// Fetcher pages through an upstream job search. Pages are 0-based.
type Fetcher interface {
	FetchPage(ctx context.Context, term, location string, page int) ([]model.Job, error)
	PageSize() int
}

// AdzunaFetcher fetches job offers from the Adzuna public API.
// If AppID or AppKey is empty the fetcher is disabled and the scheduler skips
// ingestion.
type AdzunaFetcher struct {
	AppID   string
	AppKey  string
	Country string // "in", "gb", "us", …
	BaseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewAdzunaFetcher constructs a fetcher with a shared HTTP client.
func NewAdzunaFetcher(appID, appKey, country string, timeout time.Duration, logger *zap.Logger) *AdzunaFetcher {
	return &AdzunaFetcher{
		AppID:   appID,
		AppKey:  appKey,
		Country: country,
		BaseURL: adzunaBaseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Enabled reports whether credentials are configured.
func (f *AdzunaFetcher) Enabled() bool { return f.AppID != "" && f.AppKey != "" }

func (f *AdzunaFetcher) PageSize() int { return adzunaPageSize }

type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
	Count   int            `json:"count"`
}

type adzunaResult struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Company      adzunaCompany  `json:"company"`
	Location     adzunaLocation `json:"location"`
	SalaryMin    float64        `json:"salary_min"`
	SalaryMax    float64        `json:"salary_max"`
	RedirectURL  string         `json:"redirect_url"`
	Created      string         `json:"created"`
	ContractTime string         `json:"contract_time"`
	ContractType string         `json:"contract_type"`
}

type adzunaCompany struct {
	DisplayName string `json:"display_name"`
}

type adzunaLocation struct {
	DisplayName string `json:"display_name"`
}

// FetchPage retrieves one page of offers for term in location, newest first.
func (f *AdzunaFetcher) FetchPage(ctx context.Context, term, location string, page int) ([]model.Job, error) {
	if !f.Enabled() {
		return nil, nil
	}
	endpoint := fmt.Sprintf("%s/%s/search/%d", f.BaseURL, f.Country, page+1)

	params := url.Values{}
	params.Set("app_id", f.AppID)
	params.Set("app_key", f.AppKey)
	params.Set("results_per_page", strconv.Itoa(adzunaPageSize))
	params.Set("what", term)
	if location != "" {
		params.Set("where", location)
	}
	params.Set("content-type", "application/json")
	params.Set("sort_by", "date")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("adzuna returned %d: %s", resp.StatusCode, string(body))
	}

	var apiResp adzunaResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	jobs := make([]model.Job, 0, len(apiResp.Results))
	for _, r := range apiResp.Results {
		jobs = append(jobs, normaliseAdzuna(r))
	}
	f.logger.Debug("adzuna page fetched",
		zap.String("term", term), zap.Int("page", page), zap.Int("results", len(jobs)))
	return jobs, nil
}

func normaliseAdzuna(r adzunaResult) model.Job {
	desc := strings.TrimSpace(r.Description)
	job := model.Job{
		ID:          model.StableJobID(AdzunaName, r.ID, r.RedirectURL),
		Source:      AdzunaName,
		ExternalID:  r.ID,
		Company:     strings.TrimSpace(r.Company.DisplayName),
		Role:        strings.TrimSpace(r.Title),
		Location:    strings.TrimSpace(r.Location.DisplayName),
		Description: model.Truncate(desc, model.MaxDescriptionLen),
		Salary:      salaryRange(r.SalaryMin, r.SalaryMax),
		Type:        contractType(r.ContractTime, r.ContractType),
		ApplyURL:    r.RedirectURL,
	}
	job.IsRemote = strings.Contains(strings.ToLower(job.Location+" "+desc), "remote")
	if t, err := time.Parse(time.RFC3339, r.Created); err == nil {
		job.PostedAt = &t
	}
	job.ApplyDefaults()
	return job
}

func salaryRange(lo, hi float64) string {
	switch {
	case lo > 0 && hi > lo:
		return fmt.Sprintf("₹%.0f-%.0f", lo, hi)
	case lo > 0:
		return fmt.Sprintf("₹%.0f", lo)
	case hi > 0:
		return fmt.Sprintf("₹%.0f", hi)
	}
	return ""
}

func contractType(contractTime, contractKind string) string {
	if contractKind == "contract" {
		return "Contract"
	}
	switch contractTime {
	case "part_time":
		return "Part-time"
	case "full_time":
		return model.DefaultJobType
	}
	return ""
}
