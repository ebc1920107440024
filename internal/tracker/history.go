package tracker

import (
	"sync"

	"hireinn/jobboard-service/internal/model"
)

// HistoryLimit caps the records kept per user.
const HistoryLimit = 100

// History holds each user's applied jobs most-recent-first, at most limit per
// user. It is safe for concurrent use.
type History struct {
	mu     sync.RWMutex
	limit  int
	byUser map[string][]model.AppliedJobRecord
}

// NewHistory returns an empty History. A non-positive limit means
// HistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = HistoryLimit
	}
	return &History{limit: limit, byUser: make(map[string][]model.AppliedJobRecord)}
}

// Contains reports whether userID already has a record for jobID.
func (h *History) Contains(userID, jobID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return indexOf(h.byUser[userID], jobID) >= 0
}

// Add prepends rec and evicts the oldest records past the limit. It returns
// false without change when the job is already recorded.
func (h *History) Add(rec model.AppliedJobRecord) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	recs := h.byUser[rec.UserID]
	if indexOf(recs, rec.JobID) >= 0 {
		return false
	}
	next := make([]model.AppliedJobRecord, 0, min(len(recs)+1, h.limit))
	next = append(next, rec)
	next = append(next, recs[:min(len(recs), h.limit-1)]...)
	h.byUser[rec.UserID] = next
	return true
}

// Get returns the record for jobID.
func (h *History) Get(userID, jobID string) (model.AppliedJobRecord, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	recs := h.byUser[userID]
	if i := indexOf(recs, jobID); i >= 0 {
		return recs[i], true
	}
	return model.AppliedJobRecord{}, false
}

// SetStatus changes the status of an existing record in place, keeping its
// position. It returns the updated record.
func (h *History) SetStatus(userID, jobID, status string) (model.AppliedJobRecord, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	recs := h.byUser[userID]
	i := indexOf(recs, jobID)
	if i < 0 {
		return model.AppliedJobRecord{}, false
	}
	recs[i].Status = status
	return recs[i], true
}

// List returns a copy of userID's records, most recent first.
func (h *History) List(userID string) []model.AppliedJobRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]model.AppliedJobRecord, len(h.byUser[userID]))
	copy(out, h.byUser[userID])
	return out
}

func indexOf(recs []model.AppliedJobRecord, jobID string) int {
	for i, r := range recs {
		if r.JobID == jobID {
			return i
		}
	}
	return -1
}
