// Package model defines the canonical records shared by the job-board service:
// jobs normalised from every source, user profiles, scored jobs and applied
// job records.
package model

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Fixed defaults for fields a source does not provide.
const (
	DefaultExperience = "Not specified"
	DefaultSalary     = "Not Disclosed"
	DefaultJobType    = "Full-time"
	DefaultApplyURL   = "#"
	AnyLocation       = "Any"

	// MaxDescriptionLen bounds descriptions coming from aggregator sources.
	MaxDescriptionLen = 500
)

// jobNamespace seeds StableJobID so derived ids never collide with other
// UUIDv5 users of the URL namespace.
var jobNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("hireinn.jobboard/jobs"))

// Job is the canonical job posting. ID is stable across repeated fetches of
// the same posting.
type Job struct {
	ID          string     `json:"id" yaml:"id"`
	Source      string     `json:"source" yaml:"-"`
	ExternalID  string     `json:"-" yaml:"-"`
	Company     string     `json:"company" yaml:"company"`
	Role        string     `json:"role" yaml:"role"`
	Location    string     `json:"location" yaml:"location"`
	Experience  string     `json:"experience" yaml:"experience"`
	Salary      string     `json:"salary" yaml:"salary"`
	Description string     `json:"description" yaml:"description"`
	IsRemote    bool       `json:"isRemote" yaml:"isRemote"`
	Type        string     `json:"type" yaml:"type"`
	PostedAt    *time.Time `json:"postedAt,omitempty" yaml:"-"`
	ApplyURL    string     `json:"applyUrl" yaml:"applyUrl"`
}

// ApplyDefaults fills empty optional fields with the documented defaults.
func (j *Job) ApplyDefaults() {
	if strings.TrimSpace(j.Experience) == "" {
		j.Experience = DefaultExperience
	}
	if strings.TrimSpace(j.Salary) == "" {
		j.Salary = DefaultSalary
	}
	if strings.TrimSpace(j.Type) == "" {
		j.Type = DefaultJobType
	}
	if strings.TrimSpace(j.ApplyURL) == "" {
		j.ApplyURL = DefaultApplyURL
	}
}

// StableJobID returns externalID when the source supplies one. Otherwise it
// derives a UUIDv5 from the source name and fallbackKey (typically the apply
// URL, or company+role), so the same posting always maps to the same id.
func StableJobID(source, externalID, fallbackKey string) string {
	if id := strings.TrimSpace(externalID); id != "" {
		return id
	}
	key := fmt.Sprintf("%s:%s", source, strings.ToLower(strings.TrimSpace(fallbackKey)))
	return uuid.NewSHA1(jobNamespace, []byte(key)).String()
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

// UserProfile is the subset of the user record the ranking pipeline reads.
type UserProfile struct {
	UserID             string   `json:"userId"`
	Name               string   `json:"name"`
	ExperienceYears    int      `json:"experienceYears"`
	Skills             []string `json:"skills"`
	PreferredLocation  string   `json:"preferredLocation"`
	OnboardingComplete bool     `json:"onboardingComplete"`
}

// HasPreferredLocation is false when the preferred location is empty or the
// "Any" sentinel.
func (p UserProfile) HasPreferredLocation() bool {
	loc := strings.TrimSpace(p.PreferredLocation)
	return loc != "" && !strings.EqualFold(loc, AnyLocation)
}

// ScoredJob is a Job annotated with its personal match score.
type ScoredJob struct {
	Job
	MatchScore      int      `json:"matchScore"`
	MatchPercentage string   `json:"matchPercentage,omitempty"`
	MatchingSkills  []string `json:"matchingSkills,omitempty"`

	// Exact is the unrounded score; ordering and thresholds use it.
	Exact float64 `json:"-"`
}

// AppliedJobRecord is one entry of a user's application history.
type AppliedJobRecord struct {
	UserID    string    `json:"-"`
	JobID     string    `json:"jobId"`
	Role      string    `json:"role"`
	Company   string    `json:"company"`
	URL       string    `json:"url"`
	Status    string    `json:"status"`
	AppliedAt time.Time `json:"appliedAt"`
}

// Identity is what the identity provider yields for an authenticated caller.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}
