package profile_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "hireinn/jobboard-service/internal/errors"
	"hireinn/jobboard-service/internal/model"
	"hireinn/jobboard-service/internal/profile"
)

type failingStore struct{}

func (failingStore) Get(context.Context, string) (model.UserProfile, error) {
	return model.UserProfile{}, errors.New("db down")
}

func (failingStore) Upsert(_ context.Context, p model.UserProfile) (model.UserProfile, error) {
	return p, errors.New("db down")
}

var caller = &model.Identity{UserID: "u1", Email: "u1@example.com"}

// ── Update ─────────────────────────────────────────────────────────────────

func TestUpdate_StoresNormalisedProfile(t *testing.T) {
	svc := profile.NewService(profile.NewMemoryStore(), zap.NewNop())

	p, degraded, err := svc.Update(context.Background(), caller, profile.UpdateRequest{
		Name:            "  Asha ",
		ExperienceYears: 4,
		Skills:          []string{"React", " react ", "", "Go"},
	})
	require.NoError(t, err)
	assert.False(t, degraded)
	assert.Equal(t, "Asha", p.Name)
	assert.Equal(t, []string{"React", "Go"}, p.Skills)
	assert.Equal(t, model.AnyLocation, p.PreferredLocation)

	got := svc.Lookup(context.Background(), caller)
	require.NotNil(t, got)
	assert.Equal(t, p, *got)
}

func TestUpdate_StoreFailureEchoesInput(t *testing.T) {
	svc := profile.NewService(failingStore{}, zap.NewNop())

	p, degraded, err := svc.Update(context.Background(), caller, profile.UpdateRequest{
		Name: "Asha", Skills: []string{"Python"}, PreferredLocation: "Pune", OnboardingComplete: true,
	})
	require.NoError(t, err)
	assert.True(t, degraded)
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, "Pune", p.PreferredLocation)
	assert.True(t, p.OnboardingComplete)
}

func TestUpdate_Validation(t *testing.T) {
	svc := profile.NewService(profile.NewMemoryStore(), zap.NewNop())

	_, _, err := svc.Update(context.Background(), nil, profile.UpdateRequest{})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeUnauthorized))

	_, _, err = svc.Update(context.Background(), caller, profile.UpdateRequest{ExperienceYears: -1})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInvalidInput))
}

// ── Lookup ─────────────────────────────────────────────────────────────────

func TestLookup_MissOrFailureIsNil(t *testing.T) {
	assert.Nil(t, profile.NewService(profile.NewMemoryStore(), zap.NewNop()).Lookup(context.Background(), caller))
	assert.Nil(t, profile.NewService(failingStore{}, zap.NewNop()).Lookup(context.Background(), caller))
	assert.Nil(t, profile.NewService(profile.NewMemoryStore(), zap.NewNop()).Lookup(context.Background(), nil))
}

func TestMemoryStore_CopiesSkills(t *testing.T) {
	store := profile.NewMemoryStore()
	skills := []string{"Go"}
	_, err := store.Upsert(context.Background(), model.UserProfile{UserID: "u", Skills: skills})
	require.NoError(t, err)
	skills[0] = "mutated"

	p, err := store.Get(context.Background(), "u")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, p.Skills)
}
