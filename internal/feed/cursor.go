package feed

import (
	"sync"

	"hireinn/jobboard-service/internal/model"
)

// Cursor walks a paginated stream. The page number only moves forward and
// ids already handed out are filtered from later pages.
type Cursor struct {
	mu       sync.Mutex
	page     int
	pageSize int
	done     bool
	seen     map[string]struct{}
}

// NewCursor starts a stream at page 0.
func NewCursor(pageSize int) *Cursor {
	return &Cursor{pageSize: pageSize, seen: make(map[string]struct{})}
}

// Page is the next page to request.
func (c *Cursor) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// PageSize is the size requested for every page.
func (c *Cursor) PageSize() int { return c.pageSize }

// Done reports whether the last page was short.
func (c *Cursor) Done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// Advance records a fetched page. It returns the jobs not seen before in this
// stream and moves the cursor to the next page.
func (c *Cursor) Advance(jobs []model.Job) []model.Job {
	c.mu.Lock()
	defer c.mu.Unlock()

	fresh := make([]model.Job, 0, len(jobs))
	for _, j := range jobs {
		if _, dup := c.seen[j.ID]; dup {
			continue
		}
		c.seen[j.ID] = struct{}{}
		fresh = append(fresh, j)
	}

	c.done = !HasMore(len(jobs), c.pageSize)
	c.page++
	return fresh
}

// Seen is the number of distinct ids handed out so far.
func (c *Cursor) Seen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}
