package source

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"hireinn/jobboard-service/internal/model"
)

// CatalogName identifies the static catalog adapter.
const CatalogName = "catalog"

//go:embed catalog.yaml
var embeddedCatalog []byte

type catalogFile struct {
	Jobs []model.Job `yaml:"jobs"`
}

// CatalogAdapter serves a fixed list of curated jobs, filtered by the
// request's search and sliced by page.
type CatalogAdapter struct {
	jobs []model.Job
}

// ParseCatalog decodes a YAML catalog document.
func ParseCatalog(data []byte) ([]model.Job, error) {
	var f catalogFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	seen := make(map[string]bool, len(f.Jobs))
	for i := range f.Jobs {
		j := &f.Jobs[i]
		if j.ID == "" {
			return nil, fmt.Errorf("catalog entry %d has no id", i)
		}
		if seen[j.ID] {
			return nil, fmt.Errorf("catalog id %q is duplicated", j.ID)
		}
		seen[j.ID] = true
		j.Source = CatalogName
		j.ExternalID = j.ID
		j.ApplyDefaults()
	}
	return f.Jobs, nil
}

// NewCatalogAdapter loads the embedded catalog.
func NewCatalogAdapter() (*CatalogAdapter, error) {
	jobs, err := ParseCatalog(embeddedCatalog)
	if err != nil {
		return nil, err
	}
	return &CatalogAdapter{jobs: jobs}, nil
}

// NewCatalogAdapterFrom serves the given jobs instead of the embedded ones.
func NewCatalogAdapterFrom(jobs []model.Job) *CatalogAdapter {
	return &CatalogAdapter{jobs: jobs}
}

func (c *CatalogAdapter) Name() string { return CatalogName }

func (c *CatalogAdapter) Fetch(_ context.Context, q Query) Result {
	matched := make([]model.Job, 0, len(c.jobs))
	for _, j := range c.jobs {
		if q.Search.Matches(j) {
			matched = append(matched, j)
		}
	}

	start := q.Offset()
	if start >= len(matched) {
		return withTotal(jobsResult(CatalogName, nil), len(matched))
	}
	end := min(start+q.PageSize, len(matched))

	page := make([]model.Job, end-start)
	copy(page, matched[start:end])
	return withTotal(jobsResult(CatalogName, page), len(matched))
}
