// Package tracker records job applications and moves them through their
// lifecycle.
//
// Valid status graph:
//
//	APPLIED ──► INTERVIEW ──► OFFER ──► HIRED
//	   │             │          │
//	   └─────────────┴──────────┴──► REJECTED | WITHDRAWN
//
// HIRED, REJECTED and WITHDRAWN are terminal states.
package tracker

import "fmt"

type Status string

const (
	StatusApplied   Status = "APPLIED"
	StatusInterview Status = "INTERVIEW"
	StatusOffer     Status = "OFFER"
	StatusHired     Status = "HIRED"
	StatusRejected  Status = "REJECTED"
	StatusWithdrawn Status = "WITHDRAWN"
)

var validTransitions = map[Status][]Status{
	StatusApplied:   {StatusInterview, StatusRejected, StatusWithdrawn},
	StatusInterview: {StatusOffer, StatusRejected, StatusWithdrawn},
	StatusOffer:     {StatusHired, StatusRejected, StatusWithdrawn},
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusApplied, StatusInterview, StatusOffer, StatusHired, StatusRejected, StatusWithdrawn:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// IsTransitionAllowed returns true when moving from → to is permitted.
func IsTransitionAllowed(from, to Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func IsTerminal(s Status) bool {
	_, ok := validTransitions[s]
	return !ok
}
