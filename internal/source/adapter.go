// Package source implements the Source Adapters: one per backing job origin,
// each normalising its postings into model.Job.
//
// Adapters never return errors or panic into the pipeline. Every call ends in
// one of four outcomes:
//
//	OutcomeJobs      a non-empty page
//	OutcomeEmpty     the source answered with nothing for this page
//	OutcomeDisabled  the source is not configured (missing credential or pool)
//	OutcomeFailed    network, status, decode or timeout failure (logged)
package source

import (
	"context"
	"fmt"

	"hireinn/jobboard-service/internal/model"
)

// Query is the explicit request context handed to every adapter.
type Query struct {
	Page     int
	PageSize int
	Profile  *model.UserProfile // nil for anonymous requests
	Search   model.Search
}

// Offset is the index of the first job on the requested page.
func (q Query) Offset() int { return q.Page * q.PageSize }

// Outcome classifies one adapter call.
type Outcome string

const (
	OutcomeJobs     Outcome = "jobs"
	OutcomeEmpty    Outcome = "empty"
	OutcomeDisabled Outcome = "disabled"
	OutcomeFailed   Outcome = "failed"
)

// Result is what an adapter returns for one page.
type Result struct {
	Source  string
	Outcome Outcome
	Jobs    []model.Job

	// Total is set when the source knows its full match count.
	Total    int
	HasTotal bool

	Err error
}

// Adapter fetches one page of jobs from a single source.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, q Query) Result
}

// ─── Result constructors ──────────────────────────────────────────────────────

func jobsResult(name string, jobs []model.Job) Result {
	if len(jobs) == 0 {
		return Result{Source: name, Outcome: OutcomeEmpty}
	}
	return Result{Source: name, Outcome: OutcomeJobs, Jobs: jobs}
}

func withTotal(r Result, total int) Result {
	r.Total = total
	r.HasTotal = true
	return r
}

func disabled(name string) Result {
	return Result{Source: name, Outcome: OutcomeDisabled}
}

func failed(name string, err error) Result {
	return Result{Source: name, Outcome: OutcomeFailed, Err: err}
}

// Failed builds a failure result for adapters outside this package.
func Failed(name string, format string, args ...any) Result {
	return failed(name, fmt.Errorf(format, args...))
}
