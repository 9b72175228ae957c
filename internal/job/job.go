// Package job provides models and repositories for job listings that feed
// the recommendation ranker.
package job

import (
	"errors"
	"time"

	"github.com/dev-olayemi/jobbank/internal/ranking"
)

// Common errors for job operations.
var (
	ErrJobNotFound = errors.New("job not found")
	ErrJobClosed   = errors.New("job is closed")
)

// Job listing statuses.
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Job represents a job listing.
type Job struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	RequiredSkills []string  `json:"required_skills"`
	Keywords       []string  `json:"keywords,omitempty"`
	City           string    `json:"city"`
	State          string    `json:"state"`
	IsRemote       bool      `json:"is_remote"`
	ExperienceMin  *int      `json:"experience_min,omitempty"`
	ExperienceMax  *int      `json:"experience_max,omitempty"`
	PostedBy       string    `json:"posted_by"`
	Status         string    `json:"status"`
	IsVerified     bool      `json:"is_verified"`
	ViewCount      int       `json:"view_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Candidate converts the job into the form the ranking engine scores.
func (j *Job) Candidate() *ranking.JobCandidate {
	return &ranking.JobCandidate{
		ID:             j.ID,
		RequiredSkills: j.RequiredSkills,
		Keywords:       j.Keywords,
		City:           j.City,
		State:          j.State,
		IsRemote:       j.IsRemote,
		ExperienceMin:  j.ExperienceMin,
		ExperienceMax:  j.ExperienceMax,
		PostedBy:       j.PostedBy,
		CreatedAt:      j.CreatedAt,
		ViewCount:      j.ViewCount,
		IsVerified:     j.IsVerified,
	}
}
