package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apperrors "hireinn/jobboard-service/internal/errors"
	"hireinn/jobboard-service/internal/model"
	"hireinn/jobboard-service/internal/notify"
)

// Event channels published on the Redis bus.
const (
	EventApplicationCreated = "EVENT_APPLICATION_CREATED"
	EventApplicationMoved   = "EVENT_APPLICATION_MOVED"
)

// Fallbacks used when the caller omits job details.
const (
	unknownField    = "Unknown"
	defaultUserName = "Job Seeker"
	emailCompany    = "the company"
	emailRole       = "the position"
)

// ─── Events ──────────────────────────────────────────────────────────────────

// Publisher delivers tracker events. Failures are logged, never returned to
// the caller of the operation that raised them.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// RedisPublisher publishes on Redis pub/sub.
type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	return p.rdb.Publish(ctx, channel, payload).Err()
}

// ─── Service ─────────────────────────────────────────────────────────────────

// Outcome classifies an Apply call.
type Outcome string

const (
	OutcomeRecorded       Outcome = "recorded"
	OutcomeAlreadyApplied Outcome = "already_applied"
	OutcomeDegraded       Outcome = "degraded"
)

// ApplyRequest carries the job being applied to. Only JobID is required.
type ApplyRequest struct {
	JobID     string `json:"jobId"`
	Company   string `json:"company"`
	Role      string `json:"role"`
	ApplyLink string `json:"applyLink"`
}

// ApplyResult is what Apply reports back.
type ApplyResult struct {
	Outcome          Outcome                `json:"outcome"`
	Record           model.AppliedJobRecord `json:"-"`
	ApplicationSaved bool                   `json:"applicationSaved"`
	EmailSent        bool                   `json:"emailSent"`
}

// Message is the user-facing summary of the result.
func (r ApplyResult) Message() string {
	switch {
	case r.Outcome == OutcomeAlreadyApplied:
		return "Already applied"
	case r.EmailSent:
		return "Application submitted & email sent!"
	default:
		return "Application submitted!"
	}
}

// Service encapsulates application tracking. It has no dependency on
// net/http.
type Service struct {
	store     Store
	sender    notify.Sender
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewService returns a configured Service. publisher may be nil.
func NewService(store Store, sender notify.Sender, publisher Publisher, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		sender:    sender,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Apply records that the caller applied to a job and sends a confirmation
// email. A job is recorded at most once per user; repeats send nothing. When
// the store fails the email is still attempted and the result is degraded.
func (s *Service) Apply(ctx context.Context, id *model.Identity, req ApplyRequest) (ApplyResult, error) {
	if id == nil || id.UserID == "" {
		return ApplyResult{}, apperrors.Unauthorized("Unauthorized", nil)
	}
	req.JobID = strings.TrimSpace(req.JobID)
	if req.JobID == "" {
		return ApplyResult{}, apperrors.InvalidInput("Job ID required", nil)
	}

	rec := model.AppliedJobRecord{
		UserID:    id.UserID,
		JobID:     req.JobID,
		Role:      orDefault(req.Role, unknownField),
		Company:   orDefault(req.Company, unknownField),
		URL:       req.ApplyLink,
		Status:    string(StatusApplied),
		AppliedAt: s.now().UTC(),
	}

	exists, err := s.store.Exists(ctx, id.UserID, req.JobID)
	if err != nil {
		s.logger.Warn("application lookup failed, continuing degraded",
			zap.String("user", id.UserID), zap.String("job", req.JobID), zap.Error(err))
		return s.degraded(ctx, id, req, rec), nil
	}
	if exists {
		return ApplyResult{Outcome: OutcomeAlreadyApplied}, nil
	}

	inserted, err := s.store.Insert(ctx, rec)
	switch {
	case err != nil && !inserted:
		s.logger.Warn("application insert failed, continuing degraded",
			zap.String("user", id.UserID), zap.String("job", req.JobID), zap.Error(err))
		return s.degraded(ctx, id, req, rec), nil
	case err != nil:
		s.logger.Warn("application saved with warning", zap.String("user", id.UserID), zap.Error(err))
	case !inserted:
		// Lost a race with a concurrent apply for the same job.
		return ApplyResult{Outcome: OutcomeAlreadyApplied}, nil
	}

	s.publish(ctx, EventApplicationCreated, map[string]string{
		"type":   EventApplicationCreated,
		"userId": id.UserID,
		"jobId":  rec.JobID,
	})

	return ApplyResult{
		Outcome:          OutcomeRecorded,
		Record:           rec,
		ApplicationSaved: true,
		EmailSent:        s.confirm(ctx, id, req),
	}, nil
}

func (s *Service) degraded(ctx context.Context, id *model.Identity, req ApplyRequest, rec model.AppliedJobRecord) ApplyResult {
	return ApplyResult{
		Outcome:   OutcomeDegraded,
		Record:    rec,
		EmailSent: s.confirm(ctx, id, req),
	}
}

// confirm sends the confirmation email when the caller has an address.
func (s *Service) confirm(ctx context.Context, id *model.Identity, req ApplyRequest) bool {
	if id.Email == "" || s.sender == nil {
		return false
	}
	res := s.sender.SendApplicationConfirmation(ctx, notify.Confirmation{
		ToEmail:   id.Email,
		UserName:  orDefault(id.Name, defaultUserName),
		Company:   orDefault(req.Company, emailCompany),
		Role:      orDefault(req.Role, emailRole),
		ApplyLink: req.ApplyLink,
	})
	if res.Err != nil {
		s.logger.Warn("confirmation email not sent", zap.String("user", id.UserID), zap.Error(res.Err))
	}
	return res.Sent
}

// List returns the caller's applications, most recent first.
func (s *Service) List(ctx context.Context, userID string) ([]model.AppliedJobRecord, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("Unauthorized", nil)
	}
	recs, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, apperrors.Unavailable("application history unavailable", err)
	}
	return recs, nil
}

// Move transitions an application to a new status.
func (s *Service) Move(ctx context.Context, userID, jobID, status string) (model.AppliedJobRecord, error) {
	to, err := ParseStatus(status)
	if err != nil {
		return model.AppliedJobRecord{}, apperrors.InvalidInput(err.Error(), nil)
	}

	current, err := s.store.Get(ctx, userID, jobID)
	if errors.Is(err, ErrNotFound) {
		return current, apperrors.NotFound(ErrNotFound.Error(), err)
	}
	if err != nil {
		return current, apperrors.Unavailable("application store unavailable", err)
	}

	from, _ := ParseStatus(current.Status)
	if !IsTransitionAllowed(from, to) {
		return current, apperrors.InvalidInput(
			fmt.Sprintf("transition %s → %s is not allowed", from, to), nil)
	}

	rec, err := s.store.UpdateStatus(ctx, userID, jobID, from, to)
	if errors.Is(err, ErrNotFound) {
		return current, apperrors.InvalidInput("application changed concurrently, retry", err)
	}
	if err != nil {
		return current, apperrors.Unavailable("application store unavailable", err)
	}

	s.publish(ctx, EventApplicationMoved, map[string]string{
		"type":   EventApplicationMoved,
		"userId": userID,
		"jobId":  jobID,
		"from":   string(from),
		"to":     string(to),
	})
	return rec, nil
}

func (s *Service) publish(ctx context.Context, channel string, event map[string]string) {
	if s.publisher == nil {
		return
	}
	payload, _ := json.Marshal(event)
	if err := s.publisher.Publish(ctx, channel, payload); err != nil {
		s.logger.Warn("publish failed", zap.String("channel", channel), zap.Error(err))
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
