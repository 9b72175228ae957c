package person

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/dev-olayemi/jobbank/internal/tracing"
)

// PostgresPersonRepository implements PersonRepository using PostgreSQL.
type PostgresPersonRepository struct {
	db *sql.DB
}

// NewPostgresPersonRepository creates a new PostgresPersonRepository.
func NewPostgresPersonRepository(db *sql.DB) *PostgresPersonRepository {
	return &PostgresPersonRepository{db: db}
}

const personColumns = `id, display_name, skills, city, state, industry, role,
	is_identity_verified, is_hidden, last_active_at, created_at, updated_at`

// Upsert inserts or replaces a profile keyed by its ID.
func (r *PostgresPersonRepository) Upsert(ctx context.Context, person *Person) (err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "people", tracing.DBOperationInsert)
	defer func() { endSpan(err) }()

	query := `
		INSERT INTO people (id, display_name, skills, city, state, industry, role,
			is_identity_verified, is_hidden, last_active_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			skills = EXCLUDED.skills,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			industry = EXCLUDED.industry,
			role = EXCLUDED.role,
			is_identity_verified = EXCLUDED.is_identity_verified,
			is_hidden = EXCLUDED.is_hidden,
			last_active_at = EXCLUDED.last_active_at,
			updated_at = NOW()
	`
	_, err = r.db.ExecContext(ctx, query,
		person.ID, person.DisplayName, pq.Array(person.Skills),
		person.City, person.State, person.Industry, person.Role,
		person.IsIdentityVerified, person.IsHidden, person.LastActiveAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert person: %w", err)
	}
	return nil
}

// GetByID retrieves a profile by its ID.
func (r *PostgresPersonRepository) GetByID(ctx context.Context, id string) (*Person, error) {
	query := `SELECT ` + personColumns + ` FROM people WHERE id = $1`
	person, err := scanPerson(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrPersonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	return person, nil
}

// Touch updates a profile's last activity time.
func (r *PostgresPersonRepository) Touch(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE people SET last_active_at = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("failed to touch person: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to touch person: %w", err)
	}
	if affected == 0 {
		return ErrPersonNotFound
	}
	return nil
}

// ListVisible returns all non-hidden profiles except excludeID.
func (r *PostgresPersonRepository) ListVisible(ctx context.Context, excludeID string) (_ []*Person, err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "people", tracing.DBOperationQuery)
	defer func() { endSpan(err) }()

	query := `SELECT ` + personColumns + ` FROM people WHERE is_hidden = FALSE AND id <> $1`
	rows, err := r.db.QueryContext(ctx, query, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	defer rows.Close()

	var people []*Person
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		people = append(people, person)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	return people, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(row rowScanner) (*Person, error) {
	var person Person
	err := row.Scan(
		&person.ID, &person.DisplayName, pq.Array(&person.Skills),
		&person.City, &person.State, &person.Industry, &person.Role,
		&person.IsIdentityVerified, &person.IsHidden, &person.LastActiveAt,
		&person.CreatedAt, &person.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &person, nil
}
