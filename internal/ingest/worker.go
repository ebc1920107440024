// Package ingest keeps the jobs table filled from an upstream aggregator:
// a scheduled worker pages through one search term per cycle, verifies each
// job and hands survivors to a sink.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"hireinn/jobboard-service/internal/feed"
)

// DefaultMaxPages bounds one term's walk (150 results on Adzuna).
const DefaultMaxPages = 3

// Stats summarises one worker run.
type Stats struct {
	Fetched    int
	Stored     int
	Duplicates int
	Rejected   int
	Failed     int
}

// Worker runs the fetch → verify → store cycle for one search term.
type Worker struct {
	fetcher  Fetcher
	verifier *Verifier
	sink     Sink
	location string
	maxPages int
	logger   *zap.Logger
}

// NewWorker constructs a Worker. A non-positive maxPages means
// DefaultMaxPages.
func NewWorker(fetcher Fetcher, verifier *Verifier, sink Sink, location string, maxPages int, logger *zap.Logger) *Worker {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Worker{
		fetcher:  fetcher,
		verifier: verifier,
		sink:     sink,
		location: location,
		maxPages: maxPages,
		logger:   logger,
	}
}

// Run walks term's pages until a short page or the page limit. A fetch
// error stops the walk; a failed store only skips that job.
func (w *Worker) Run(ctx context.Context, term string) (Stats, error) {
	var stats Stats
	cursor := feed.NewCursor(w.fetcher.PageSize())

	for !cursor.Done() && cursor.Page() < w.maxPages {
		page := cursor.Page()
		jobs, err := w.fetcher.FetchPage(ctx, term, w.location, page)
		if err != nil {
			return stats, fmt.Errorf("page %d: %w", page, err)
		}
		fresh := cursor.Advance(jobs)
		stats.Fetched += len(jobs)

		for _, job := range fresh {
			if err := w.verifier.Verify(job); err != nil {
				var rej *Rejection
				if errors.As(err, &rej) {
					w.logger.Debug("job rejected", zap.String("id", rej.JobID), zap.String("reason", rej.Reason))
				}
				stats.Rejected++
				continue
			}

			inserted, err := w.sink.Put(ctx, job)
			switch {
			case err != nil:
				w.logger.Warn("store job failed", zap.String("id", job.ID), zap.Error(err))
				stats.Failed++
			case inserted:
				stats.Stored++
			default:
				stats.Duplicates++
			}
		}
	}

	w.logger.Info("ingest run done",
		zap.String("term", term),
		zap.Int("fetched", stats.Fetched),
		zap.Int("stored", stats.Stored),
		zap.Int("duplicates", stats.Duplicates),
		zap.Int("rejected", stats.Rejected),
		zap.Int("failed", stats.Failed))
	return stats, nil
}

// Rotation hands out search terms round-robin, one per cycle.
type Rotation struct {
	mu    sync.Mutex
	terms []string
	next  int
}

func NewRotation(terms []string) *Rotation {
	return &Rotation{terms: terms}
}

// Next returns the next term, or "" when there are none.
func (r *Rotation) Next() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.terms) == 0 {
		return ""
	}
	t := r.terms[r.next]
	r.next = (r.next + 1) % len(r.terms)
	return t
}
