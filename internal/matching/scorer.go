// Package matching scores jobs against a user profile and ranks them.
//
// The score is an additive sum of three capped categories:
//
//	experience  0 | ExperienceNear | ExperienceMatch   (max 30)
//	skills      matched/total × Skills                 (max 40)
//	location    0 | LocationRemote | LocationMatch     (max 30), LocationNeutral without a preference
//
// Scores are deterministic for a given job and profile.
package matching

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"hireinn/jobboard-service/internal/model"
)

// Weights are the scoring constants. They are kept configurable; the defaults
// reproduce the established scores exactly.
type Weights struct {
	ExperienceMatch     float64 // profile years within [min, min+ExperienceBand]
	ExperienceNear      float64 // |years - min| <= ExperienceTolerance
	ExperienceBand      int
	ExperienceTolerance int
	Skills              float64
	LocationMatch       float64
	LocationRemote      float64
	LocationNeutral     float64
	Threshold           float64 // RankAndFilter keeps scores strictly above this
}

// DefaultWeights returns the standard 30/40/30 weighting with a threshold of 10.
func DefaultWeights() Weights {
	return Weights{
		ExperienceMatch:     30,
		ExperienceNear:      15,
		ExperienceBand:      3,
		ExperienceTolerance: 2,
		Skills:              40,
		LocationMatch:       30,
		LocationRemote:      20,
		LocationNeutral:     15,
		Threshold:           10,
	}
}

// Max is the highest reachable total for these weights.
func (w Weights) Max() float64 {
	return math.Max(w.ExperienceMatch, w.ExperienceNear) + w.Skills +
		math.Max(w.LocationMatch, math.Max(w.LocationRemote, w.LocationNeutral))
}

// Breakdown holds the per-category sub-scores of one job.
type Breakdown struct {
	Experience     float64
	Skills         float64
	Location       float64
	MatchingSkills []string
}

// Total is the unrounded sum of the sub-scores.
func (b Breakdown) Total() float64 { return b.Experience + b.Skills + b.Location }

var leadingInt = regexp.MustCompile(`\d+`)

// Scorer computes match scores with a fixed set of weights.
type Scorer struct {
	w Weights
}

// NewScorer returns a Scorer using w.
func NewScorer(w Weights) *Scorer { return &Scorer{w: w} }

// Weights returns the scorer's weights.
func (s *Scorer) Weights() Weights { return s.w }

// Breakdown scores each category for job against profile.
func (s *Scorer) Breakdown(job model.Job, profile model.UserProfile) Breakdown {
	skills, matched := s.skillsScore(job, profile)
	return Breakdown{
		Experience:     s.experienceScore(job, profile),
		Skills:         skills,
		Location:       s.locationScore(job, profile),
		MatchingSkills: matched,
	}
}

// Score is the rounded total, clamped to [0, 100].
func (s *Scorer) Score(job model.Job, profile model.UserProfile) int {
	return clampPercent(s.Breakdown(job, profile).Total())
}

// ScoreAll annotates every job, preserving input order.
func (s *Scorer) ScoreAll(jobs []model.Job, profile model.UserProfile) []model.ScoredJob {
	out := make([]model.ScoredJob, len(jobs))
	for i, j := range jobs {
		b := s.Breakdown(j, profile)
		score := clampPercent(b.Total())
		out[i] = model.ScoredJob{
			Job:             j,
			MatchScore:      score,
			MatchPercentage: strconv.Itoa(score) + "%",
			MatchingSkills:  b.MatchingSkills,
			Exact:           b.Total(),
		}
	}
	return out
}

// experienceScore uses the first digit run in the job's experience text as
// the minimum years. No digits means no experience points.
func (s *Scorer) experienceScore(job model.Job, profile model.UserProfile) float64 {
	m := leadingInt.FindString(job.Experience)
	if m == "" {
		return 0
	}
	minExp, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}

	years := profile.ExperienceYears
	switch {
	case years >= minExp && years <= minExp+s.w.ExperienceBand:
		return s.w.ExperienceMatch
	case abs(years-minExp) <= s.w.ExperienceTolerance:
		return s.w.ExperienceNear
	}
	return 0
}

// skillsScore counts profile skills appearing as lowercase substrings of the
// job's role and description.
func (s *Scorer) skillsScore(job model.Job, profile model.UserProfile) (float64, []string) {
	if len(profile.Skills) == 0 {
		return 0, nil
	}
	text := strings.ToLower(job.Role + " " + job.Description)

	var matched []string
	for _, skill := range profile.Skills {
		if strings.Contains(text, strings.ToLower(skill)) {
			matched = append(matched, skill)
		}
	}
	return float64(len(matched)) / float64(len(profile.Skills)) * s.w.Skills, matched
}

// locationScore: neutral without a preference, full on a substring match,
// partial when the job is remote.
func (s *Scorer) locationScore(job model.Job, profile model.UserProfile) float64 {
	if !profile.HasPreferredLocation() {
		return s.w.LocationNeutral
	}
	switch {
	case strings.Contains(job.Location, strings.TrimSpace(profile.PreferredLocation)):
		return s.w.LocationMatch
	case strings.Contains(job.Location, "Remote"):
		return s.w.LocationRemote
	}
	return 0
}

func clampPercent(v float64) int {
	n := int(math.Round(v))
	return max(0, min(100, n))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
