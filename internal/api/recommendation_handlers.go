package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dev-olayemi/jobbank/internal/directory"
	"github.com/dev-olayemi/jobbank/internal/graph"
	"github.com/dev-olayemi/jobbank/internal/job"
	"github.com/dev-olayemi/jobbank/internal/middleware"
	"github.com/dev-olayemi/jobbank/internal/person"
	"github.com/dev-olayemi/jobbank/internal/post"
	"github.com/dev-olayemi/jobbank/internal/ranking"
)

// Pagination defaults for ranked endpoints.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// RecommendationHandlers serves the three ranked endpoints: job
// recommendations, people suggestions, and the home feed. Each handler loads
// the viewer's profile, gathers the eligible candidate pool, and hands both
// to the ranking engine.
type RecommendationHandlers struct {
	engine     *ranking.Engine
	jobs       job.JobRepository
	people     person.PersonRepository
	posts      post.PostRepository
	directory  directory.Directory
	feedWindow time.Duration
}

// NewRecommendationHandlers creates a new RecommendationHandlers instance.
// feedWindow bounds how far back the feed candidate pool reaches; zero means
// no bound.
func NewRecommendationHandlers(
	engine *ranking.Engine,
	jobs job.JobRepository,
	people person.PersonRepository,
	posts post.PostRepository,
	dir directory.Directory,
	feedWindow time.Duration,
) *RecommendationHandlers {
	return &RecommendationHandlers{
		engine:     engine,
		jobs:       jobs,
		people:     people,
		posts:      posts,
		directory:  dir,
		feedWindow: feedWindow,
	}
}

// RankedItem is one scored entry in a ranked response. Breakdown is only
// populated when the request asks for an explanation.
type RankedItem struct {
	ID        string             `json:"id"`
	Score     float64            `json:"score"`
	Breakdown map[string]float64 `json:"breakdown,omitempty"`
}

// RankedResponse is the JSON body for all three ranked endpoints.
type RankedResponse struct {
	Items   []RankedItem `json:"items"`
	Total   int          `json:"total"`
	Message string       `json:"message,omitempty"`
}

// parsePagination reads limit and offset query parameters. It returns an
// error message suitable for a validation response, or empty string if valid.
func parsePagination(r *http.Request) (limit, offset int, errMsg string) {
	limit = DefaultPageLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			return 0, 0, "Invalid limit parameter"
		}
		if parsed > MaxPageLimit {
			parsed = MaxPageLimit
		}
		limit = parsed
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		parsed, err := strconv.Atoi(offsetStr)
		if err != nil || parsed < 0 {
			return 0, 0, "Invalid offset parameter"
		}
		offset = parsed
	}
	return limit, offset, ""
}

// JobRecommendations handles GET /recommendations/jobs.
func (h *RecommendationHandlers) JobRecommendations(w http.ResponseWriter, r *http.Request) {
	h.rank(w, r, ranking.ModeJobs)
}

// PeopleSuggestions handles GET /suggestions/people.
func (h *RecommendationHandlers) PeopleSuggestions(w http.ResponseWriter, r *http.Request) {
	h.rank(w, r, ranking.ModePeople)
}

// Feed handles GET /feed.
func (h *RecommendationHandlers) Feed(w http.ResponseWriter, r *http.Request) {
	h.rank(w, r, ranking.ModeFeed)
}

func (h *RecommendationHandlers) rank(w http.ResponseWriter, r *http.Request, mode ranking.Mode) {
	ctx := r.Context()
	if r.Method != http.MethodGet {
		WriteError(w, ctx, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	viewerID := middleware.GetUserID(ctx)
	if viewerID == "" {
		WriteError(w, ctx, http.StatusUnauthorized, ErrCodeAuthFailed, "Authentication required")
		return
	}

	limit, offset, errMsg := parsePagination(r)
	if errMsg != "" {
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, errMsg)
		return
	}
	explain := r.URL.Query().Get("explain") == "true"

	profile, err := h.directory.GetProfile(ctx, viewerID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load viewer profile", "error", err, "viewer_id", viewerID)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to load viewer profile")
		return
	}

	now := time.Now()
	candidates, err := h.gatherCandidates(r, viewerID, mode, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to gather candidates", "error", err, "mode", string(mode))
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to load candidates")
		return
	}

	page, err := h.engine.Rank(ctx, &ranking.RankRequest{
		Viewer:     profile.ViewerContext(),
		Candidates: candidates,
		Now:        now,
		Limit:      limit,
		Offset:     offset,
		Mode:       mode,
	})
	if err != nil {
		// A graph store failure is retryable and must never be rendered as an
		// empty recommendation page.
		if errors.Is(err, graph.ErrStoreUnavailable) {
			slog.WarnContext(ctx, "graph store unavailable", "error", err, "viewer_id", viewerID)
			WriteError(w, ctx, http.StatusServiceUnavailable, ErrCodeGraphUnavailable,
				"Connection data is temporarily unavailable, please retry")
			return
		}
		slog.ErrorContext(ctx, "ranking failed", "error", err, "mode", string(mode))
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to rank candidates")
		return
	}

	items := make([]RankedItem, 0, len(page.Items))
	for _, scored := range page.Items {
		item := RankedItem{
			ID:    scored.Candidate.CandidateID(),
			Score: scored.Score,
		}
		if explain {
			item.Breakdown = scored.Breakdown
		}
		items = append(items, item)
	}

	writeJSON(w, ctx, http.StatusOK, RankedResponse{
		Items:   items,
		Total:   page.TotalCandidatesConsidered,
		Message: page.Message,
	})
}

func (h *RecommendationHandlers) gatherCandidates(r *http.Request, viewerID string, mode ranking.Mode, now time.Time) ([]ranking.Candidate, error) {
	ctx := r.Context()
	switch mode {
	case ranking.ModeJobs:
		jobs, err := h.jobs.ListOpen(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		candidates := make([]ranking.Candidate, 0, len(jobs))
		for _, j := range jobs {
			candidates = append(candidates, j.Candidate())
		}
		return candidates, nil
	case ranking.ModePeople:
		people, err := h.people.ListVisible(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		candidates := make([]ranking.Candidate, 0, len(people))
		for _, p := range people {
			candidates = append(candidates, p.Candidate())
		}
		return candidates, nil
	case ranking.ModeFeed:
		posts, err := h.posts.ListRecent(ctx, now, h.feedWindow)
		if err != nil {
			return nil, err
		}
		candidates := make([]ranking.Candidate, 0, len(posts))
		for _, p := range posts {
			candidates = append(candidates, p.Candidate())
		}
		return candidates, nil
	default:
		return nil, ranking.ErrInvalidMode
	}
}
