// Package pipeline implements the aggregation pipeline: Source Adapters are
// tried one at a time in fixed priority order and the first non-empty page
// wins. Pages from different sources are never merged.
package pipeline

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"hireinn/jobboard-service/internal/model"
	"hireinn/jobboard-service/internal/source"
	"hireinn/jobboard-service/internal/telemetry"
)

var tracer = telemetry.GetTracer("hireinn/jobboard-service/pipeline")

// Attempt records what one adapter returned during a pipeline run.
type Attempt struct {
	Source  string         `json:"source"`
	Outcome source.Outcome `json:"outcome"`
	Count   int            `json:"count"`
}

// Page is the pipeline output. Source is empty when no adapter had jobs.
type Page struct {
	Jobs     []model.Job
	Source   string
	Total    int
	HasTotal bool
	Attempts []Attempt
}

// Aggregator holds the ordered adapter list.
type Aggregator struct {
	adapters []source.Adapter
	logger   *zap.Logger
}

// New returns an Aggregator that tries adapters in the given order.
func New(logger *zap.Logger, adapters ...source.Adapter) *Aggregator {
	return &Aggregator{adapters: adapters, logger: logger}
}

// Sources lists adapter names in priority order.
func (a *Aggregator) Sources() []string {
	names := make([]string, len(a.adapters))
	for i, ad := range a.adapters {
		names[i] = ad.Name()
	}
	return names
}

// GetJobsPage walks the adapters sequentially and returns the first page that
// has jobs. When every adapter is empty, disabled or failed, the returned Page
// has no jobs; that is "no jobs", not an error.
func (a *Aggregator) GetJobsPage(ctx context.Context, q source.Query) Page {
	ctx, span := tracer.Start(ctx, "GetJobsPage")
	defer span.End()
	span.SetAttributes(
		telemetry.Int("page", q.Page),
		telemetry.Int("page_size", q.PageSize),
		telemetry.Bool("profiled", q.Profile != nil),
	)

	var page Page
	for _, ad := range a.adapters {
		r := a.fetch(ctx, ad, q)
		page.Attempts = append(page.Attempts, Attempt{Source: ad.Name(), Outcome: r.Outcome, Count: len(r.Jobs)})

		if r.Outcome == source.OutcomeFailed {
			a.logger.Warn("source failed, trying next",
				zap.String("source", ad.Name()),
				zap.Error(r.Err))
		}
		if r.Outcome != source.OutcomeJobs || len(r.Jobs) == 0 {
			continue
		}

		page.Jobs = r.Jobs
		page.Source = ad.Name()
		page.Total = r.Total
		page.HasTotal = r.HasTotal
		span.SetAttributes(telemetry.String("source", ad.Name()), telemetry.Int("jobs", len(r.Jobs)))
		return page
	}

	a.logger.Info("no source returned jobs", zap.Int("page", q.Page))
	return page
}

// fetch calls one adapter, converting a panic into a failed result.
func (a *Aggregator) fetch(ctx context.Context, ad source.Adapter, q source.Query) (r source.Result) {
	ctx, span := tracer.Start(ctx, "source."+ad.Name())
	defer span.End()

	defer func() {
		if p := recover(); p != nil {
			r = source.Failed(ad.Name(), "adapter panic: %v", p)
		}
		span.SetAttributes(telemetry.String("outcome", string(r.Outcome)), telemetry.Int("jobs", len(r.Jobs)))
		if r.Err != nil {
			span.RecordError(r.Err)
			span.SetStatus(codes.Error, fmt.Sprint(r.Err))
		}
	}()

	return ad.Fetch(ctx, q)
}
