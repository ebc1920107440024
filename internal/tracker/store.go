package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hireinn/jobboard-service/internal/model"
)

// ErrNotFound is returned when an application is missing or does not belong
// to the user.
var ErrNotFound = errors.New("application not found")

// Store persists applied-job records.
type Store interface {
	Exists(ctx context.Context, userID, jobID string) (bool, error)
	// Insert reports false when the (user, job) pair is already recorded.
	Insert(ctx context.Context, rec model.AppliedJobRecord) (bool, error)
	Get(ctx context.Context, userID, jobID string) (model.AppliedJobRecord, error)
	List(ctx context.Context, userID string) ([]model.AppliedJobRecord, error)
	// UpdateStatus moves the record only while it is still in from.
	UpdateStatus(ctx context.Context, userID, jobID string, from, to Status) (model.AppliedJobRecord, error)
}

// ─── Memory store ────────────────────────────────────────────────────────────

// MemoryStore keeps records in a bounded History. Used when no database is
// configured and in tests.
type MemoryStore struct {
	history *History
}

// NewMemoryStore returns a MemoryStore capped at HistoryLimit per user.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{history: NewHistory(HistoryLimit)}
}

func (m *MemoryStore) Exists(_ context.Context, userID, jobID string) (bool, error) {
	return m.history.Contains(userID, jobID), nil
}

func (m *MemoryStore) Insert(_ context.Context, rec model.AppliedJobRecord) (bool, error) {
	return m.history.Add(rec), nil
}

func (m *MemoryStore) Get(_ context.Context, userID, jobID string) (model.AppliedJobRecord, error) {
	rec, ok := m.history.Get(userID, jobID)
	if !ok {
		return rec, ErrNotFound
	}
	return rec, nil
}

func (m *MemoryStore) List(_ context.Context, userID string) ([]model.AppliedJobRecord, error) {
	return m.history.List(userID), nil
}

func (m *MemoryStore) UpdateStatus(_ context.Context, userID, jobID string, from, to Status) (model.AppliedJobRecord, error) {
	rec, ok := m.history.Get(userID, jobID)
	if !ok || rec.Status != string(from) {
		return model.AppliedJobRecord{}, ErrNotFound
	}
	rec, _ = m.history.SetStatus(userID, jobID, string(to))
	return rec, nil
}

// ─── PostgreSQL store ────────────────────────────────────────────────────────

// PGStore keeps records in the applications table. UNIQUE (user_id, job_id)
// is the duplicate guard; each insert prunes the user's history to the limit.
type PGStore struct {
	pool  *pgxpool.Pool
	limit int
}

// NewPGStore returns a PGStore capped at HistoryLimit per user.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool, limit: HistoryLimit}
}

const selectRecord = `
	SELECT user_id, job_id, role, company, url, status, applied_at
	FROM applications`

func (s *PGStore) Exists(ctx context.Context, userID, jobID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM applications WHERE user_id = $1 AND job_id = $2)`,
		userID, jobID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists query: %w", err)
	}
	return exists, nil
}

func (s *PGStore) Insert(ctx context.Context, rec model.AppliedJobRecord) (bool, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO applications (user_id, job_id, role, company, url, status, applied_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id, job_id) DO NOTHING
		 RETURNING id`,
		rec.UserID, rec.JobID, rec.Role, rec.Company, rec.URL, rec.Status, rec.AppliedAt,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert application: %w", err)
	}

	// Keep only the newest records for this user.
	_, err = s.pool.Exec(ctx,
		`DELETE FROM applications
		 WHERE id IN (
		   SELECT id FROM (
		     SELECT id, ROW_NUMBER() OVER (ORDER BY applied_at DESC, id DESC) AS rn
		     FROM applications WHERE user_id = $1
		   ) ranked
		   WHERE rn > $2
		 )`,
		rec.UserID, s.limit,
	)
	if err != nil {
		return true, fmt.Errorf("prune applications: %w", err)
	}
	return true, nil
}

func (s *PGStore) Get(ctx context.Context, userID, jobID string) (model.AppliedJobRecord, error) {
	rec, err := scanRecord(s.pool.QueryRow(ctx,
		selectRecord+` WHERE user_id = $1 AND job_id = $2`, userID, jobID))
	if errors.Is(err, pgx.ErrNoRows) {
		return rec, ErrNotFound
	}
	if err != nil {
		return rec, fmt.Errorf("get application: %w", err)
	}
	return rec, nil
}

func (s *PGStore) List(ctx context.Context, userID string) ([]model.AppliedJobRecord, error) {
	rows, err := s.pool.Query(ctx,
		selectRecord+` WHERE user_id = $1 ORDER BY applied_at DESC, id DESC LIMIT $2`,
		userID, s.limit)
	if err != nil {
		return nil, fmt.Errorf("listApplications query: %w", err)
	}
	defer rows.Close()

	recs := make([]model.AppliedJobRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("listApplications scan: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *PGStore) UpdateStatus(ctx context.Context, userID, jobID string, from, to Status) (model.AppliedJobRecord, error) {
	entry, _ := json.Marshal([]map[string]string{{
		"from": string(from),
		"to":   string(to),
		"at":   time.Now().UTC().Format(time.RFC3339),
	}})
	rec, err := scanRecord(s.pool.QueryRow(ctx,
		`UPDATE applications
		 SET status      = $1,
		     history_log = history_log || $2::jsonb,
		     updated_at  = NOW()
		 WHERE user_id = $3 AND job_id = $4 AND status = $5
		 RETURNING user_id, job_id, role, company, url, status, applied_at`,
		string(to), string(entry), userID, jobID, string(from),
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return rec, ErrNotFound
	}
	if err != nil {
		return rec, fmt.Errorf("update status: %w", err)
	}
	return rec, nil
}

func scanRecord(row pgx.Row) (model.AppliedJobRecord, error) {
	var rec model.AppliedJobRecord
	err := row.Scan(&rec.UserID, &rec.JobID, &rec.Role, &rec.Company, &rec.URL, &rec.Status, &rec.AppliedAt)
	return rec, err
}
