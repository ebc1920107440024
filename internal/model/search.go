package model

import (
	"fmt"
	"strings"
)

// SearchType selects which job fields a search query is matched against.
type SearchType string

const (
	SearchCompany SearchType = "company"
	SearchRole    SearchType = "role"
	SearchSkill   SearchType = "skill"
	SearchAll     SearchType = "all"
)

// ParseSearchType converts a raw query parameter. Empty means SearchAll.
func ParseSearchType(s string) (SearchType, error) {
	st := SearchType(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case "":
		return SearchAll, nil
	case SearchCompany, SearchRole, SearchSkill, SearchAll:
		return st, nil
	}
	return "", fmt.Errorf("unknown search type %q", s)
}

// Search is an optional free-text filter carried with a list request.
type Search struct {
	Query string     `json:"query"`
	Type  SearchType `json:"type"`
}

// Active reports whether the search carries a non-blank query.
func (s Search) Active() bool { return strings.TrimSpace(s.Query) != "" }

// Matches applies the search to a job in memory:
// company → company, role → role, skill → description, all → role or company.
func (s Search) Matches(j Job) bool {
	if !s.Active() {
		return true
	}
	q := strings.ToLower(strings.TrimSpace(s.Query))
	has := func(field string) bool { return strings.Contains(strings.ToLower(field), q) }

	switch s.Type {
	case SearchCompany:
		return has(j.Company)
	case SearchRole:
		return has(j.Role)
	case SearchSkill:
		return has(j.Description)
	default:
		return has(j.Role) || has(j.Company)
	}
}
