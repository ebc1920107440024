// Package api exposes the job board over HTTP with gin. Handlers only
// translate between HTTP and the services; every decision lives below them.
package api

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "hireinn/jobboard-service/internal/errors"
	"hireinn/jobboard-service/internal/feed"
	"hireinn/jobboard-service/internal/model"
	"hireinn/jobboard-service/internal/prep"
	"hireinn/jobboard-service/internal/profile"
	"hireinn/jobboard-service/internal/resume"
	"hireinn/jobboard-service/internal/tracker"
)

// MaxResumeBytes bounds an uploaded resume.
const MaxResumeBytes = 5 << 20

// Identifier resolves the caller of a request; nil means anonymous.
type Identifier interface {
	Identify(r *http.Request) (*model.Identity, error)
}

// Handler holds the services behind the HTTP routes.
type Handler struct {
	feed     *feed.Service
	tracker  *tracker.Service
	profiles *profile.Service
	prep     *prep.Generator
	identity Identifier
	sources  []string
	logger   *zap.Logger
}

// NewHandler returns a Handler. sources is reported by /health.
func NewHandler(
	feedSvc *feed.Service,
	trackerSvc *tracker.Service,
	profiles *profile.Service,
	prepGen *prep.Generator,
	identity Identifier,
	sources []string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		feed:     feedSvc,
		tracker:  trackerSvc,
		profiles: profiles,
		prep:     prepGen,
		identity: identity,
		sources:  sources,
		logger:   logger,
	}
}

// ─── Health ──────────────────────────────────────────────────────────────────

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"sources":       h.sources,
		"prepProviders": h.prep.Providers(),
	})
}

// ─── Jobs ────────────────────────────────────────────────────────────────────

// GET /api/jobs?page=&pageSize=&searchQuery=&searchType=
func (h *Handler) listJobs(c *gin.Context) {
	page, err := intQuery(c, "page")
	if err != nil {
		h.writeError(c, err)
		return
	}
	pageSize, err := intQuery(c, "pageSize")
	if err != nil {
		h.writeError(c, err)
		return
	}
	searchType, err := model.ParseSearchType(c.Query("searchType"))
	if err != nil {
		h.writeError(c, apperrors.InvalidInput(err.Error(), nil))
		return
	}

	resp, err := h.feed.List(c.Request.Context(), feed.Request{
		Page:     page,
		PageSize: pageSize,
		Search:   model.Search{Query: strings.TrimSpace(c.Query("searchQuery")), Type: searchType},
		Profile:  h.profiles.Lookup(c.Request.Context(), caller(c)),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func intQuery(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.InvalidInput(key+" must be an integer", err)
	}
	return n, nil
}

// ─── Applications ────────────────────────────────────────────────────────────

var statusByOutcome = map[tracker.Outcome]int{
	tracker.OutcomeRecorded:       http.StatusCreated,
	tracker.OutcomeAlreadyApplied: http.StatusOK,
	tracker.OutcomeDegraded:       http.StatusAccepted,
}

// POST /api/apply
func (h *Handler) apply(c *gin.Context) {
	var req tracker.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, apperrors.InvalidInput("invalid request body", err))
		return
	}

	res, err := h.tracker.Apply(c.Request.Context(), caller(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(statusByOutcome[res.Outcome], gin.H{
		"success":          true,
		"outcome":          res.Outcome,
		"applicationSaved": res.ApplicationSaved,
		"emailSent":        res.EmailSent,
		"message":          res.Message(),
	})
}

// GET /api/applications
func (h *Handler) listApplications(c *gin.Context) {
	recs, err := h.tracker.List(c.Request.Context(), caller(c).UserID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": recs})
}

type moveRequest struct {
	Status string `json:"status"`
}

// POST /api/applications/:jobId/move
func (h *Handler) moveApplication(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, apperrors.InvalidInput("invalid request body", err))
		return
	}

	rec, err := h.tracker.Move(c.Request.Context(), caller(c).UserID, c.Param("jobId"), req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// ─── Profile ─────────────────────────────────────────────────────────────────

type profileResponse struct {
	model.UserProfile
	Degraded bool `json:"degraded,omitempty"`
}

// PUT /api/profile
func (h *Handler) updateProfile(c *gin.Context) {
	var req profile.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, apperrors.InvalidInput("invalid request body", err))
		return
	}

	p, degraded, err := h.profiles.Update(c.Request.Context(), caller(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileResponse{UserProfile: p, Degraded: degraded})
}

// ─── Prep ────────────────────────────────────────────────────────────────────

// GET /api/prep?company=&role=
func (h *Handler) interviewPrep(c *gin.Context) {
	company := strings.TrimSpace(c.Query("company"))
	role := strings.TrimSpace(c.Query("role"))
	if company == "" || role == "" {
		h.writeError(c, apperrors.InvalidInput("company and role are required", nil))
		return
	}
	c.JSON(http.StatusOK, h.prep.Generate(c.Request.Context(), company, role))
}

// ─── Resume ──────────────────────────────────────────────────────────────────

// POST /api/resume (multipart field "file")
func (h *Handler) parseResume(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		h.writeError(c, apperrors.InvalidInput("file is required", err))
		return
	}
	if header.Size > MaxResumeBytes {
		h.writeError(c, apperrors.InvalidInput("file too large", nil))
		return
	}

	f, err := header.Open()
	if err != nil {
		h.writeError(c, apperrors.Internal("failed to open file", err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxResumeBytes))
	if err != nil {
		h.writeError(c, apperrors.Internal("failed to read file", err))
		return
	}

	ex, err := resume.Extract(header.Filename, data)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ex)
}
