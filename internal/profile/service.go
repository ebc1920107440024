package profile

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	apperrors "hireinn/jobboard-service/internal/errors"
	"hireinn/jobboard-service/internal/model"
)

// UpdateRequest is the profile form payload.
type UpdateRequest struct {
	Name               string   `json:"name"`
	ExperienceYears    int      `json:"experienceYears"`
	Skills             []string `json:"skills"`
	PreferredLocation  string   `json:"preferredLocation"`
	OnboardingComplete bool     `json:"onboardingComplete"`
}

type Service struct {
	store  Store
	logger *zap.Logger
}

func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Update validates and stores the caller's profile. When the store fails the
// normalised input is echoed back with degraded set, so the caller still sees
// a successful save.
func (s *Service) Update(ctx context.Context, id *model.Identity, req UpdateRequest) (p model.UserProfile, degraded bool, err error) {
	if id == nil || id.UserID == "" {
		return p, false, apperrors.Unauthorized("Unauthorized", nil)
	}
	if req.ExperienceYears < 0 {
		return p, false, apperrors.InvalidInput("experienceYears must be >= 0", nil)
	}

	p = model.UserProfile{
		UserID:             id.UserID,
		Name:               strings.TrimSpace(req.Name),
		ExperienceYears:    req.ExperienceYears,
		Skills:             NormalizeSkills(req.Skills),
		PreferredLocation:  strings.TrimSpace(req.PreferredLocation),
		OnboardingComplete: req.OnboardingComplete,
	}
	if p.PreferredLocation == "" {
		p.PreferredLocation = model.AnyLocation
	}

	saved, err := s.store.Upsert(ctx, p)
	if err != nil {
		s.logger.Error("profile update failed, echoing input", zap.String("user", id.UserID), zap.Error(err))
		return p, true, nil
	}
	return saved, false, nil
}

// Lookup returns the caller's stored profile, or nil when there is no caller,
// no profile, or the store fails. Listing then proceeds unprofiled.
func (s *Service) Lookup(ctx context.Context, id *model.Identity) *model.UserProfile {
	if id == nil || id.UserID == "" {
		return nil
	}
	p, err := s.store.Get(ctx, id.UserID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("profile lookup failed", zap.String("user", id.UserID), zap.Error(err))
		}
		return nil
	}
	return &p
}

// NormalizeSkills trims skills and drops blanks and case-insensitive
// duplicates, keeping the first spelling seen.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
