package source

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"hireinn/jobboard-service/internal/model"
)

// StoreName identifies the primary store adapter.
const StoreName = "store"

// StoreAdapter reads unexpired jobs from the PostgreSQL jobs table, newest
// first. A nil pool disables it.
type StoreAdapter struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewStoreAdapter returns the primary store adapter.
func NewStoreAdapter(pool *pgxpool.Pool, logger *zap.Logger) *StoreAdapter {
	return &StoreAdapter{pool: pool, logger: logger}
}

func (s *StoreAdapter) Name() string { return StoreName }

func (s *StoreAdapter) Fetch(ctx context.Context, q Query) Result {
	if s.pool == nil {
		return disabled(StoreName)
	}

	sql, args := buildStoreQuery(q)
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		s.logger.Warn("store query failed", zap.Error(err))
		return failed(StoreName, fmt.Errorf("store query: %w", err))
	}
	defer rows.Close()

	var (
		jobs  []model.Job
		total int
	)
	for rows.Next() {
		var (
			j        model.Job
			postedAt *time.Time
		)
		if err := rows.Scan(
			&j.ID, &j.Source, &j.ExternalID, &j.Company, &j.Role, &j.Location,
			&j.Experience, &j.Salary, &j.Description, &j.IsRemote, &j.Type,
			&j.ApplyURL, &postedAt, &total,
		); err != nil {
			s.logger.Warn("store scan failed", zap.Error(err))
			return failed(StoreName, fmt.Errorf("store scan: %w", err))
		}
		j.PostedAt = postedAt
		j.ApplyDefaults()
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		s.logger.Warn("store rows failed", zap.Error(err))
		return failed(StoreName, fmt.Errorf("store rows: %w", err))
	}

	r := jobsResult(StoreName, jobs)
	if r.Outcome == OutcomeJobs {
		r = withTotal(r, total)
	}
	return r
}

// buildStoreQuery renders the page query. The search clause mirrors
// model.Search.Matches so the store and the catalog filter identically.
func buildStoreQuery(q Query) (string, []any) {
	sql := `
		SELECT id, source, external_id, company, role, location,
		       COALESCE(experience, ''), COALESCE(salary, ''), description,
		       is_remote, COALESCE(job_type, ''), COALESCE(apply_url, ''),
		       posted_at, COUNT(*) OVER() AS total
		FROM jobs
		WHERE expire_at > NOW()`
	args := []any{q.PageSize, q.Offset()}

	if q.Search.Active() {
		args = append(args, "%"+q.Search.Query+"%")
		switch q.Search.Type {
		case model.SearchCompany:
			sql += ` AND company ILIKE $3`
		case model.SearchRole:
			sql += ` AND role ILIKE $3`
		case model.SearchSkill:
			sql += ` AND description ILIKE $3`
		default:
			sql += ` AND (role ILIKE $3 OR company ILIKE $3)`
		}
	}

	sql += ` ORDER BY posted_at DESC NULLS LAST, id LIMIT $1 OFFSET $2`
	return sql, args
}
