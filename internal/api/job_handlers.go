package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dev-olayemi/jobbank/internal/job"
	"github.com/dev-olayemi/jobbank/internal/middleware"
)

// Job validation constraints.
const (
	MaxJobTitleLength       = 200
	MaxJobDescriptionLength = 10000
	MaxJobSkills            = 30
)

// CreateJobRequest represents the request body for creating a job posting.
type CreateJobRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	RequiredSkills []string `json:"required_skills,omitempty"`
	Keywords       []string `json:"keywords,omitempty"`
	City           string   `json:"city,omitempty"`
	State          string   `json:"state,omitempty"`
	IsRemote       bool     `json:"is_remote,omitempty"`
	ExperienceMin  *int     `json:"experience_min,omitempty"`
	ExperienceMax  *int     `json:"experience_max,omitempty"`
}

// JobHandlers holds dependencies for job posting HTTP handlers.
type JobHandlers struct {
	repo job.JobRepository
}

// NewJobHandlers creates a new JobHandlers instance.
func NewJobHandlers(repo job.JobRepository) *JobHandlers {
	return &JobHandlers{
		repo: repo,
	}
}

// validateJobRequest checks a create request against the posting constraints.
// Returns an error message if validation fails, empty string if valid.
func validateJobRequest(req *CreateJobRequest) string {
	if strings.TrimSpace(req.Title) == "" {
		return "job title is required"
	}
	if len(req.Title) > MaxJobTitleLength {
		return "job title must not exceed 200 characters"
	}
	if len(req.Description) > MaxJobDescriptionLength {
		return "job description must not exceed 10000 characters"
	}
	if len(req.RequiredSkills) > MaxJobSkills {
		return "too many required skills"
	}
	if req.ExperienceMin != nil && *req.ExperienceMin < 0 {
		return "experience_min must not be negative"
	}
	if req.ExperienceMin != nil && req.ExperienceMax != nil && *req.ExperienceMax < *req.ExperienceMin {
		return "experience_max must not be less than experience_min"
	}
	return ""
}

// extractJobID extracts the job ID from the URL path.
func extractJobID(r *http.Request) (string, error) {
	pathParts := strings.Split(strings.TrimPrefix(r.URL.Path, "/jobs/"), "/")
	if len(pathParts) == 0 || pathParts[0] == "" {
		return "", fmt.Errorf("job ID is required")
	}
	return pathParts[0], nil
}

// CreateJob handles POST /jobs - creates a new job posting.
func (h *JobHandlers) CreateJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return
	}

	if errMsg := validateJobRequest(&req); errMsg != "" {
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, errMsg)
		return
	}

	postedBy := middleware.GetUserID(ctx)
	if postedBy == "" {
		WriteError(w, ctx, http.StatusUnauthorized, ErrCodeAuthFailed, "Authentication required")
		return
	}

	newJob := &job.Job{
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		RequiredSkills: req.RequiredSkills,
		Keywords:       req.Keywords,
		City:           req.City,
		State:          req.State,
		IsRemote:       req.IsRemote,
		ExperienceMin:  req.ExperienceMin,
		ExperienceMax:  req.ExperienceMax,
		PostedBy:       postedBy,
	}

	if err := h.repo.Create(ctx, newJob); err != nil {
		slog.ErrorContext(ctx, "failed to create job", "error", err)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to create job")
		return
	}

	writeJSON(w, ctx, http.StatusCreated, newJob)
}

// GetJob handles GET /jobs/{id} - retrieves a job posting.
func (h *JobHandlers) GetJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	jobID, err := extractJobID(r)
	if err != nil {
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Job ID is required")
		return
	}

	found, err := h.repo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Job not found")
			return
		}
		slog.ErrorContext(ctx, "failed to retrieve job", "error", err, "job_id", jobID)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to retrieve job")
		return
	}

	writeJSON(w, ctx, http.StatusOK, found)
}

// CloseJob handles DELETE /jobs/{id} - closes an open job posting.
func (h *JobHandlers) CloseJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	jobID, err := extractJobID(r)
	if err != nil {
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Job ID is required")
		return
	}

	if err := h.repo.Close(ctx, jobID); err != nil {
		switch {
		case errors.Is(err, job.ErrJobNotFound):
			WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Job not found")
		case errors.Is(err, job.ErrJobClosed):
			WriteError(w, ctx, http.StatusConflict, ErrCodeJobClosed, "Job is already closed")
		default:
			slog.ErrorContext(ctx, "failed to close job", "error", err, "job_id", jobID)
			WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to close job")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RecordView handles POST /jobs/{id}/view - increments a job's view counter.
// The counter feeds the popularity signal on the recommendation endpoint.
func (h *JobHandlers) RecordView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	jobID, err := extractJobID(r)
	if err != nil {
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Job ID is required")
		return
	}

	if err := h.repo.IncrementViewCount(ctx, jobID); err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Job not found")
			return
		}
		slog.ErrorContext(ctx, "failed to record job view", "error", err, "job_id", jobID)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to record view")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
