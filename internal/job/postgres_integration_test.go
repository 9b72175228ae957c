package job

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// TestPostgresJobRepository exercises the Postgres repository against a real
// database. It is skipped unless JOBBANK_POSTGRES_INTEGRATION is set, since
// it needs a working container runtime.
func TestPostgresJobRepository(t *testing.T) {
	if os.Getenv("JOBBANK_POSTGRES_INTEGRATION") == "" {
		t.Skip("set JOBBANK_POSTGRES_INTEGRATION to run container-backed tests")
	}

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("jobbank"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	migration, err := os.ReadFile(filepath.Join("..", "..", "migrations", "000001_create_jobs.up.sql"))
	if err != nil {
		t.Fatalf("failed to read migration: %v", err)
	}
	if _, err := db.ExecContext(ctx, string(migration)); err != nil {
		t.Fatalf("failed to apply migration: %v", err)
	}

	repo := NewPostgresJobRepository(db)

	min, max := 2, 5
	created := &Job{
		Title:          "Backend Engineer",
		Description:    "Build ranking infrastructure",
		RequiredSkills: []string{"go", "sql"},
		Keywords:       []string{"backend"},
		City:           "Lagos",
		State:          "Lagos",
		ExperienceMin:  &min,
		ExperienceMax:  &max,
		PostedBy:       "employer-1",
	}
	if err := repo.Create(ctx, created); err != nil {
		t.Fatalf("failed to create job: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected a generated job ID")
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("failed to get job: %v", err)
	}
	if got.Title != "Backend Engineer" {
		t.Errorf("expected title round-trip, got %q", got.Title)
	}
	if len(got.RequiredSkills) != 2 {
		t.Errorf("expected 2 skills, got %v", got.RequiredSkills)
	}
	if got.ExperienceMin == nil || *got.ExperienceMin != 2 {
		t.Errorf("expected experience_min 2, got %v", got.ExperienceMin)
	}
	if got.Status != StatusOpen {
		t.Errorf("expected status open, got %q", got.Status)
	}

	for i := 0; i < 3; i++ {
		if err := repo.IncrementViewCount(ctx, created.ID); err != nil {
			t.Fatalf("failed to increment view count: %v", err)
		}
	}
	got, err = repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("failed to get job: %v", err)
	}
	if got.ViewCount != 3 {
		t.Errorf("expected view count 3, got %d", got.ViewCount)
	}

	open, err := repo.ListOpen(ctx, "someone-else")
	if err != nil {
		t.Fatalf("failed to list open jobs: %v", err)
	}
	if len(open) != 1 {
		t.Errorf("expected 1 open job, got %d", len(open))
	}
	open, err = repo.ListOpen(ctx, "employer-1")
	if err != nil {
		t.Fatalf("failed to list open jobs: %v", err)
	}
	if len(open) != 0 {
		t.Errorf("expected poster's own jobs excluded, got %d", len(open))
	}

	if err := repo.Close(ctx, created.ID); err != nil {
		t.Fatalf("failed to close job: %v", err)
	}
	if err := repo.Close(ctx, created.ID); !errors.Is(err, ErrJobClosed) {
		t.Errorf("expected ErrJobClosed on second close, got %v", err)
	}
	open, err = repo.ListOpen(ctx, "")
	if err != nil {
		t.Fatalf("failed to list open jobs: %v", err)
	}
	if len(open) != 0 {
		t.Errorf("expected closed job out of the pool, got %d", len(open))
	}

	if _, err := repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("expected ErrJobNotFound, got %v", err)
	}
}
