package job

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobRepository defines the interface for job data operations.
type JobRepository interface {
	// Create inserts a new job with a generated UUID.
	Create(ctx context.Context, job *Job) error

	// GetByID retrieves a job by its UUID.
	GetByID(ctx context.Context, id string) (*Job, error)

	// Close marks a job as closed so it stops appearing in recommendations.
	Close(ctx context.Context, id string) error

	// IncrementViewCount records a view of the listing.
	IncrementViewCount(ctx context.Context, id string) error

	// ListOpen returns all open jobs except those posted by excludePoster.
	// The result is the candidate pool for ranking; closed jobs never appear.
	ListOpen(ctx context.Context, excludePoster string) ([]*Job, error)
}

// InMemoryJobRepository is a thread-safe in-memory implementation of JobRepository.
type InMemoryJobRepository struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewInMemoryJobRepository creates a new in-memory job repository.
func NewInMemoryJobRepository() *InMemoryJobRepository {
	return &InMemoryJobRepository{
		jobs: make(map[string]*Job),
	}
}

// Create inserts a new job with a generated UUID.
func (r *InMemoryJobRepository) Create(ctx context.Context, job *Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.Status == "" {
		job.Status = StatusOpen
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now

	jobCopy := copyJob(job)
	r.jobs[job.ID] = jobCopy
	return nil
}

// GetByID retrieves a job by its UUID.
func (r *InMemoryJobRepository) GetByID(ctx context.Context, id string) (*Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return copyJob(job), nil
}

// Close marks a job as closed.
func (r *InMemoryJobRepository) Close(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	if job.Status == StatusClosed {
		return ErrJobClosed
	}
	job.Status = StatusClosed
	job.UpdatedAt = time.Now()
	return nil
}

// IncrementViewCount records a view of the listing.
func (r *InMemoryJobRepository) IncrementViewCount(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	job.ViewCount++
	return nil
}

// ListOpen returns all open jobs except those posted by excludePoster.
func (r *InMemoryJobRepository) ListOpen(ctx context.Context, excludePoster string) ([]*Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]*Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		if job.Status != StatusOpen {
			continue
		}
		if excludePoster != "" && job.PostedBy == excludePoster {
			continue
		}
		results = append(results, copyJob(job))
	}
	return results, nil
}

func copyJob(job *Job) *Job {
	c := *job
	c.RequiredSkills = append([]string(nil), job.RequiredSkills...)
	c.Keywords = append([]string(nil), job.Keywords...)
	if job.ExperienceMin != nil {
		v := *job.ExperienceMin
		c.ExperienceMin = &v
	}
	if job.ExperienceMax != nil {
		v := *job.ExperienceMax
		c.ExperienceMax = &v
	}
	return &c
}
