// Package profile stores user profiles and applies profile updates.
package profile

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hireinn/jobboard-service/internal/model"
)

// ErrNotFound is returned when no profile exists for the user.
var ErrNotFound = errors.New("profile not found")

// Store reads and writes profiles.
type Store interface {
	Get(ctx context.Context, userID string) (model.UserProfile, error)
	Upsert(ctx context.Context, p model.UserProfile) (model.UserProfile, error)
}

// ─── Memory store ────────────────────────────────────────────────────────────

type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]model.UserProfile
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]model.UserProfile)}
}

func (m *MemoryStore) Get(_ context.Context, userID string) (model.UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[userID]
	if !ok {
		return model.UserProfile{}, ErrNotFound
	}
	p.Skills = append([]string(nil), p.Skills...)
	return p, nil
}

func (m *MemoryStore) Upsert(_ context.Context, p model.UserProfile) (model.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.Skills = append([]string(nil), p.Skills...)
	m.profiles[p.UserID] = p
	return p, nil
}

// ─── PostgreSQL store ────────────────────────────────────────────────────────

type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) Get(ctx context.Context, userID string) (model.UserProfile, error) {
	p, err := scanProfile(s.pool.QueryRow(ctx,
		`SELECT user_id, name, experience_years, skills, preferred_location, onboarding_complete
		 FROM profiles WHERE user_id = $1`,
		userID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return p, ErrNotFound
	}
	if err != nil {
		return p, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (s *PGStore) Upsert(ctx context.Context, p model.UserProfile) (model.UserProfile, error) {
	out, err := scanProfile(s.pool.QueryRow(ctx,
		`INSERT INTO profiles (user_id, name, experience_years, skills, preferred_location, onboarding_complete)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id) DO UPDATE
		 SET name                = EXCLUDED.name,
		     experience_years    = EXCLUDED.experience_years,
		     skills              = EXCLUDED.skills,
		     preferred_location  = EXCLUDED.preferred_location,
		     onboarding_complete = EXCLUDED.onboarding_complete,
		     updated_at          = NOW()
		 RETURNING user_id, name, experience_years, skills, preferred_location, onboarding_complete`,
		p.UserID, p.Name, p.ExperienceYears, p.Skills, p.PreferredLocation, p.OnboardingComplete,
	))
	if err != nil {
		return p, fmt.Errorf("upsert profile: %w", err)
	}
	return out, nil
}

func scanProfile(row pgx.Row) (model.UserProfile, error) {
	var p model.UserProfile
	err := row.Scan(&p.UserID, &p.Name, &p.ExperienceYears, &p.Skills, &p.PreferredLocation, &p.OnboardingComplete)
	return p, err
}
