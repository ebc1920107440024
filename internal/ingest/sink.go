package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"hireinn/jobboard-service/internal/model"
)

const (
	// JobsSubject carries verified jobs from the worker to the store writer.
	JobsSubject = "jobs.new"
	// JobsQueue is the queue group shared by store writers.
	JobsQueue = "jobboard-ingest"
)

// Sink receives verified jobs. Put reports whether the job was new.
type Sink interface {
	Put(ctx context.Context, job model.Job) (bool, error)
}

// ─── PostgreSQL ──────────────────────────────────────────────────────────────

// StoreSink upserts into the jobs table. A repeated (source, external_id)
// refreshes the row and pushes its expiry out again.
type StoreSink struct {
	pool *pgxpool.Pool
}

func NewStoreSink(pool *pgxpool.Pool) *StoreSink {
	return &StoreSink{pool: pool}
}

func (s *StoreSink) Put(ctx context.Context, job model.Job) (bool, error) {
	var inserted bool
	err := s.pool.QueryRow(ctx,
		`INSERT INTO jobs (id, source, external_id, company, role, location, experience, salary,
		                   description, is_remote, job_type, apply_url, posted_at, expire_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW() + INTERVAL '30 days')
		 ON CONFLICT (source, external_id) DO UPDATE
		 SET company     = EXCLUDED.company,
		     role        = EXCLUDED.role,
		     location    = EXCLUDED.location,
		     experience  = EXCLUDED.experience,
		     salary      = EXCLUDED.salary,
		     description = EXCLUDED.description,
		     is_remote   = EXCLUDED.is_remote,
		     job_type    = EXCLUDED.job_type,
		     apply_url   = EXCLUDED.apply_url,
		     posted_at   = COALESCE(EXCLUDED.posted_at, jobs.posted_at),
		     expire_at   = EXCLUDED.expire_at,
		     updated_at  = NOW()
		 RETURNING (xmax = 0)`,
		job.ID, job.Source, job.ExternalID, job.Company, job.Role, job.Location, job.Experience,
		job.Salary, job.Description, job.IsRemote, job.Type, job.ApplyURL, job.PostedAt,
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("upsert job %s: %w", job.ID, err)
	}
	return inserted, nil
}

// ─── NATS ────────────────────────────────────────────────────────────────────

// jobMessage is the wire form of a job; it keeps the external id the JSON
// form of model.Job omits.
type jobMessage struct {
	model.Job
	ExternalID string `json:"externalId"`
}

// Connect dials NATS with the reconnect policy used by every NATS client here.
func Connect(url, name string, timeout time.Duration) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Timeout(timeout),
		nats.Name(name),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}
	return nc, nil
}

// NATSSink publishes jobs on JobsSubject. Whether a job is new is only known
// to the subscriber, so Put always reports true.
type NATSSink struct {
	nc     *nats.Conn
	logger *zap.Logger
}

func NewNATSSink(nc *nats.Conn, logger *zap.Logger) *NATSSink {
	return &NATSSink{nc: nc, logger: logger}
}

func (s *NATSSink) Put(_ context.Context, job model.Job) (bool, error) {
	data, err := json.Marshal(jobMessage{Job: job, ExternalID: job.ExternalID})
	if err != nil {
		return false, fmt.Errorf("marshal job: %w", err)
	}
	if err := s.nc.Publish(JobsSubject, data); err != nil {
		s.logger.Error("failed to publish job", zap.String("id", job.ID), zap.Error(err))
		return false, fmt.Errorf("publish job: %w", err)
	}
	return true, nil
}

// Subscriber drains JobsSubject into a Sink, load-balanced across JobsQueue.
type Subscriber struct {
	nc     *nats.Conn
	sink   Sink
	logger *zap.Logger
	sub    *nats.Subscription
}

func NewSubscriber(nc *nats.Conn, sink Sink, logger *zap.Logger) *Subscriber {
	return &Subscriber{nc: nc, sink: sink, logger: logger}
}

func (s *Subscriber) Start() error {
	sub, err := s.nc.QueueSubscribe(JobsSubject, JobsQueue, s.handle)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", JobsSubject, err)
	}
	s.sub = sub
	s.logger.Info("subscribed", zap.String("subject", JobsSubject), zap.String("queue", JobsQueue))
	return nil
}

func (s *Subscriber) Stop() error {
	if s.sub == nil {
		return nil
	}
	return s.sub.Unsubscribe()
}

func (s *Subscriber) handle(msg *nats.Msg) {
	job, err := DecodeJob(msg.Data)
	if err != nil {
		s.logger.Warn("dropping malformed job message", zap.Error(err))
		return
	}
	if _, err := s.sink.Put(context.Background(), job); err != nil {
		s.logger.Error("store job failed", zap.String("id", job.ID), zap.Error(err))
	}
}

// DecodeJob parses a message published by NATSSink.
func DecodeJob(data []byte) (model.Job, error) {
	var m jobMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return model.Job{}, fmt.Errorf("decode job: %w", err)
	}
	job := m.Job
	job.ExternalID = m.ExternalID
	if job.ID == "" {
		return job, fmt.Errorf("decode job: missing id")
	}
	return job, nil
}

// DeleteExpired removes jobs past their expiry and reports how many went.
func (s *StoreSink) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM jobs WHERE expire_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}
