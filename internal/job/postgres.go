package job

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/dev-olayemi/jobbank/internal/tracing"
)

// PostgresJobRepository implements JobRepository using PostgreSQL.
type PostgresJobRepository struct {
	db *sql.DB
}

// NewPostgresJobRepository creates a new PostgresJobRepository.
func NewPostgresJobRepository(db *sql.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const jobColumns = `id, title, description, required_skills, keywords, city, state,
	is_remote, experience_min, experience_max, posted_by, status, is_verified,
	view_count, created_at, updated_at`

// Create inserts a new job with a generated UUID.
func (r *PostgresJobRepository) Create(ctx context.Context, job *Job) (err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "jobs", tracing.DBOperationInsert)
	defer func() { endSpan(err) }()

	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.Status == "" {
		job.Status = StatusOpen
	}

	query := `
		INSERT INTO jobs (id, title, description, required_skills, keywords, city, state,
			is_remote, experience_min, experience_max, posted_by, status, is_verified,
			view_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
	`
	_, err = r.db.ExecContext(ctx, query,
		job.ID, job.Title, job.Description,
		pq.Array(job.RequiredSkills), pq.Array(job.Keywords),
		job.City, job.State, job.IsRemote,
		job.ExperienceMin, job.ExperienceMax,
		job.PostedBy, job.Status, job.IsVerified, job.ViewCount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}
	return nil
}

// GetByID retrieves a job by its UUID.
func (r *PostgresJobRepository) GetByID(ctx context.Context, id string) (*Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	job, err := scanJob(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// Close marks a job as closed.
func (r *PostgresJobRepository) Close(ctx context.Context, id string) error {
	query := `UPDATE jobs SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`
	result, err := r.db.ExecContext(ctx, query, StatusClosed, id, StatusOpen)
	if err != nil {
		return fmt.Errorf("failed to close job: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to close job: %w", err)
	}
	if affected == 0 {
		// Distinguish a missing row from an already-closed one.
		var status string
		err := r.db.QueryRowContext(ctx, `SELECT status FROM jobs WHERE id = $1`, id).Scan(&status)
		if err == sql.ErrNoRows {
			return ErrJobNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to close job: %w", err)
		}
		return ErrJobClosed
	}
	return nil
}

// IncrementViewCount records a view of the listing.
func (r *PostgresJobRepository) IncrementViewCount(ctx context.Context, id string) error {
	query := `UPDATE jobs SET view_count = view_count + 1 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment view count: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to increment view count: %w", err)
	}
	if affected == 0 {
		return ErrJobNotFound
	}
	return nil
}

// ListOpen returns all open jobs except those posted by excludePoster.
func (r *PostgresJobRepository) ListOpen(ctx context.Context, excludePoster string) (_ []*Job, err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "jobs", tracing.DBOperationQuery)
	defer func() { endSpan(err) }()

	query := `SELECT ` + jobColumns + ` FROM jobs WHERE status = $1 AND posted_by <> $2`
	rows, err := r.db.QueryContext(ctx, query, StatusOpen, excludePoster)
	if err != nil {
		return nil, fmt.Errorf("failed to list open jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list open jobs: %w", err)
	}
	return jobs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*Job, error) {
	var job Job
	err := row.Scan(
		&job.ID, &job.Title, &job.Description,
		pq.Array(&job.RequiredSkills), pq.Array(&job.Keywords),
		&job.City, &job.State, &job.IsRemote,
		&job.ExperienceMin, &job.ExperienceMax,
		&job.PostedBy, &job.Status, &job.IsVerified, &job.ViewCount,
		&job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &job, nil
}
