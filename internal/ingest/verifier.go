package ingest

import (
	"fmt"
	"strings"

	"hireinn/jobboard-service/internal/model"
)

// genericCompanies are substrings marking a company name as a placeholder.
var genericCompanies = []string{"confidential", "hiring"}

// Rejection explains why a job was not ingested.
type Rejection struct {
	JobID  string
	Reason string
}

func (r *Rejection) Error() string { return fmt.Sprintf("job %s rejected: %s", r.JobID, r.Reason) }

// Verifier decides whether a fetched job is fit to store.
type Verifier struct {
	redFlags []string
}

func NewVerifier(redFlags []string) *Verifier {
	return &Verifier{redFlags: redFlags}
}

// Verify returns a *Rejection for a job that is incomplete, posted under a
// placeholder company name, or mentions a red flag term.
func (v *Verifier) Verify(job model.Job) error {
	url := job.ApplyURL
	if url == model.DefaultApplyURL {
		url = ""
	}
	required := []struct{ name, value string }{
		{"id", job.ID},
		{"company", job.Company},
		{"role", job.Role},
		{"description", job.Description},
		{"url", url},
		{"location", job.Location},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &Rejection{JobID: job.ID, Reason: "missing " + f.name}
		}
	}

	company := strings.ToLower(job.Company)
	for _, g := range genericCompanies {
		if strings.Contains(company, g) {
			return &Rejection{JobID: job.ID, Reason: "generic company name"}
		}
	}

	if ContainsRedFlag(job, v.redFlags) {
		return &Rejection{JobID: job.ID, Reason: "red flag"}
	}
	return nil
}
