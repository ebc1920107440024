// Package feed serves the personalised job list: it runs the aggregation
// pipeline, ranks the page when a profile is present and attaches pagination
// metadata.
package feed

import (
	"context"

	"go.uber.org/zap"

	apperrors "hireinn/jobboard-service/internal/errors"
	"hireinn/jobboard-service/internal/matching"
	"hireinn/jobboard-service/internal/model"
	"hireinn/jobboard-service/internal/pipeline"
	"hireinn/jobboard-service/internal/source"
)

// Pager is the pipeline contract the feed depends on.
type Pager interface {
	GetJobsPage(ctx context.Context, q source.Query) pipeline.Page
}

// Request is one list call.
type Request struct {
	Page     int
	PageSize int
	Search   model.Search
	Profile  *model.UserProfile
}

// Response is the list payload. Jobs carry scores only for profiled requests.
type Response struct {
	Jobs     []model.ScoredJob  `json:"jobs"`
	Page     int                `json:"page"`
	PageSize int                `json:"pageSize"`
	HasMore  bool               `json:"hasMore"`
	NextPage *int               `json:"nextPage,omitempty"`
	Total    *int               `json:"total,omitempty"`
	Source   string             `json:"source,omitempty"`
	Personal bool               `json:"personalized"`
	Attempts []pipeline.Attempt `json:"-"`
}

// Service wires the pipeline to the scorer.
type Service struct {
	pager           Pager
	scorer          *matching.Scorer
	defaultPageSize int
	maxPageSize     int
	logger          *zap.Logger
}

// NewService returns a feed Service.
func NewService(pager Pager, scorer *matching.Scorer, defaultPageSize, maxPageSize int, logger *zap.Logger) *Service {
	return &Service{
		pager:           pager,
		scorer:          scorer,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
		logger:          logger,
	}
}

// Normalize validates paging input. A zero page size means the default and
// oversized pages are clamped.
func (s *Service) Normalize(req Request) (Request, error) {
	if req.Page < 0 {
		return req, apperrors.InvalidInput("page must be >= 0", nil)
	}
	switch {
	case req.PageSize < 0:
		return req, apperrors.InvalidInput("pageSize must be positive", nil)
	case req.PageSize == 0:
		req.PageSize = s.defaultPageSize
	case req.PageSize > s.maxPageSize:
		req.PageSize = s.maxPageSize
	}
	if req.Search.Type == "" {
		req.Search.Type = model.SearchAll
	}
	return req, nil
}

// List returns one page. Source problems never surface here; the worst case
// is an empty list.
func (s *Service) List(ctx context.Context, req Request) (Response, error) {
	req, err := s.Normalize(req)
	if err != nil {
		return Response{}, err
	}

	page := s.pager.GetJobsPage(ctx, source.Query{
		Page:     req.Page,
		PageSize: req.PageSize,
		Profile:  req.Profile,
		Search:   req.Search,
	})

	resp := Response{
		Page:     req.Page,
		PageSize: req.PageSize,
		HasMore:  HasMore(len(page.Jobs), req.PageSize),
		Source:   page.Source,
		Attempts: page.Attempts,
	}
	if resp.HasMore {
		next := req.Page + 1
		resp.NextPage = &next
	}
	if page.HasTotal {
		total := page.Total
		resp.Total = &total
	}

	if req.Profile == nil {
		resp.Jobs = passthrough(page.Jobs)
		return resp, nil
	}

	resp.Jobs = s.scorer.Rank(page.Jobs, *req.Profile)
	resp.Personal = true
	s.logger.Debug("ranked page",
		zap.String("user", req.Profile.UserID),
		zap.Int("in", len(page.Jobs)),
		zap.Int("out", len(resp.Jobs)))
	return resp, nil
}

// HasMore is true iff the fetched page is full.
func HasMore(fetched, pageSize int) bool {
	return pageSize > 0 && fetched == pageSize
}

func passthrough(jobs []model.Job) []model.ScoredJob {
	out := make([]model.ScoredJob, len(jobs))
	for i, j := range jobs {
		out[i] = model.ScoredJob{Job: j}
	}
	return out
}
