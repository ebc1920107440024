package tracker_test

import (
	"testing"

	"hireinn/jobboard-service/internal/tracker"
)

var allStatuses = []tracker.Status{
	tracker.StatusApplied,
	tracker.StatusInterview,
	tracker.StatusOffer,
	tracker.StatusHired,
	tracker.StatusRejected,
	tracker.StatusWithdrawn,
}

// ── ParseStatus ────────────────────────────────────────────────────────────

func TestParseStatus_AllConstantsRoundTrip(t *testing.T) {
	for _, s := range allStatuses {
		got, err := tracker.ParseStatus(string(s))
		if err != nil {
			t.Errorf("ParseStatus(%q) unexpected error: %v", s, err)
		}
		if got != s {
			t.Errorf("ParseStatus(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseStatus_Rejects(t *testing.T) {
	for _, s := range []string{"", "UNKNOWN", "applied", " APPLIED", "TO_APPLY"} {
		if _, err := tracker.ParseStatus(s); err == nil {
			t.Errorf("ParseStatus(%q) expected error, got nil", s)
		}
	}
}

// ── IsTransitionAllowed ────────────────────────────────────────────────────

func TestIsTransitionAllowed_ValidForward(t *testing.T) {
	cases := []struct {
		from tracker.Status
		to   tracker.Status
	}{
		{tracker.StatusApplied, tracker.StatusInterview},
		{tracker.StatusInterview, tracker.StatusOffer},
		{tracker.StatusOffer, tracker.StatusHired},
	}
	for _, c := range cases {
		if !tracker.IsTransitionAllowed(c.from, c.to) {
			t.Errorf("IsTransitionAllowed(%s → %s) should be true", c.from, c.to)
		}
	}
}

func TestIsTransitionAllowed_ExitFromNonTerminal(t *testing.T) {
	for _, from := range []tracker.Status{tracker.StatusApplied, tracker.StatusInterview, tracker.StatusOffer} {
		for _, to := range []tracker.Status{tracker.StatusRejected, tracker.StatusWithdrawn} {
			if !tracker.IsTransitionAllowed(from, to) {
				t.Errorf("IsTransitionAllowed(%s → %s) should be true", from, to)
			}
		}
	}
}

func TestIsTransitionAllowed_FromTerminal(t *testing.T) {
	for _, from := range []tracker.Status{tracker.StatusHired, tracker.StatusRejected, tracker.StatusWithdrawn} {
		if !tracker.IsTerminal(from) {
			t.Errorf("IsTerminal(%s) should be true", from)
		}
		for _, to := range allStatuses {
			if tracker.IsTransitionAllowed(from, to) {
				t.Errorf("IsTransitionAllowed(%s → %s) should be false (terminal state)", from, to)
			}
		}
	}
}

func TestIsTransitionAllowed_SkipAndBackwards(t *testing.T) {
	cases := []struct {
		from tracker.Status
		to   tracker.Status
	}{
		{tracker.StatusApplied, tracker.StatusOffer},   // skip INTERVIEW
		{tracker.StatusApplied, tracker.StatusHired},   // skip two
		{tracker.StatusInterview, tracker.StatusHired}, // skip OFFER
		{tracker.StatusInterview, tracker.StatusApplied},
		{tracker.StatusOffer, tracker.StatusInterview},
	}
	for _, c := range cases {
		if tracker.IsTransitionAllowed(c.from, c.to) {
			t.Errorf("IsTransitionAllowed(%s → %s) should be false", c.from, c.to)
		}
	}
}

func TestIsTransitionAllowed_Self(t *testing.T) {
	for _, s := range allStatuses {
		if tracker.IsTransitionAllowed(s, s) {
			t.Errorf("IsTransitionAllowed(%s → %s) should be false (self)", s, s)
		}
	}
}
