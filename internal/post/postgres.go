package post

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dev-olayemi/jobbank/internal/tracing"
)

// PostgresPostRepository implements PostRepository using PostgreSQL.
// Attachments are stored as a JSONB column.
type PostgresPostRepository struct {
	db *sql.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository.
func NewPostgresPostRepository(db *sql.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

const postColumns = `id, author_id, text, attachments, like_count, comment_count,
	created_at, updated_at, deleted_at`

// Create inserts a new post with a generated UUID.
func (r *PostgresPostRepository) Create(ctx context.Context, post *Post) (err error) {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}

	attachments, err := json.Marshal(post.Attachments)
	if err != nil {
		return fmt.Errorf("failed to encode attachments: %w", err)
	}

	ctx, endSpan := tracing.StartDBSpan(ctx, "posts", tracing.DBOperationInsert)
	defer func() { endSpan(err) }()

	query := `
		INSERT INTO posts (id, author_id, text, attachments, like_count, comment_count,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err = r.db.ExecContext(ctx, query,
		post.ID, post.AuthorID, post.Text, attachments,
		post.LikeCount, post.CommentCount,
	)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

// GetByID retrieves a post by its UUID, excluding soft-deleted posts.
func (r *PostgresPostRepository) GetByID(ctx context.Context, id string) (*Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1 AND deleted_at IS NULL`
	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// Delete soft-deletes a post by setting its deleted_at timestamp.
func (r *PostgresPostRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE posts SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if affected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// AddLike increments a post's like counter.
func (r *PostgresPostRepository) AddLike(ctx context.Context, id string) error {
	return r.bump(ctx, id, "like_count")
}

// AddComment increments a post's comment counter.
func (r *PostgresPostRepository) AddComment(ctx context.Context, id string) error {
	return r.bump(ctx, id, "comment_count")
}

func (r *PostgresPostRepository) bump(ctx context.Context, id, column string) error {
	// column is one of two compile-time constants, never user input.
	query := fmt.Sprintf(`UPDATE posts SET %s = %s + 1 WHERE id = $1 AND deleted_at IS NULL`, column, column)
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", column, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", column, err)
	}
	if affected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// ListRecent returns non-deleted posts created within the given window.
func (r *PostgresPostRepository) ListRecent(ctx context.Context, now time.Time, window time.Duration) (_ []*Post, err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, "posts", tracing.DBOperationQuery)
	defer func() { endSpan(err) }()

	query := `SELECT ` + postColumns + ` FROM posts WHERE deleted_at IS NULL`
	args := []any{}
	if window > 0 {
		query += ` AND created_at >= $1`
		args = append(args, now.Add(-window))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*Post, error) {
	var (
		post        Post
		attachments []byte
		deletedAt   sql.NullTime
	)
	err := row.Scan(
		&post.ID, &post.AuthorID, &post.Text, &attachments,
		&post.LikeCount, &post.CommentCount,
		&post.CreatedAt, &post.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(attachments) > 0 {
		if err := json.Unmarshal(attachments, &post.Attachments); err != nil {
			return nil, fmt.Errorf("failed to decode attachments: %w", err)
		}
	}
	if deletedAt.Valid {
		post.DeletedAt = &deletedAt.Time
	}
	return &post, nil
}
