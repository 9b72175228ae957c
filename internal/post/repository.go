package post

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	// Create inserts a new post with a generated UUID.
	Create(ctx context.Context, post *Post) error

	// GetByID retrieves a post by its UUID, excluding soft-deleted posts.
	GetByID(ctx context.Context, id string) (*Post, error)

	// Delete soft-deletes a post by setting its deleted_at timestamp.
	Delete(ctx context.Context, id string) error

	// AddLike increments a post's like counter.
	AddLike(ctx context.Context, id string) error

	// AddComment increments a post's comment counter.
	AddComment(ctx context.Context, id string) error

	// ListRecent returns non-deleted posts created within the given window
	// ending at now. A zero window returns all non-deleted posts. The result
	// is the candidate pool for the home feed.
	ListRecent(ctx context.Context, now time.Time, window time.Duration) ([]*Post, error)
}

// InMemoryPostRepository is a thread-safe in-memory implementation of PostRepository.
type InMemoryPostRepository struct {
	mu    sync.RWMutex
	posts map[string]*Post
}

// NewInMemoryPostRepository creates a new in-memory post repository.
func NewInMemoryPostRepository() *InMemoryPostRepository {
	return &InMemoryPostRepository{
		posts: make(map[string]*Post),
	}
}

// Create inserts a new post with a generated UUID.
func (r *InMemoryPostRepository) Create(ctx context.Context, post *Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now

	r.posts[post.ID] = copyPost(post)
	return nil
}

// GetByID retrieves a post by its UUID, excluding soft-deleted posts.
func (r *InMemoryPostRepository) GetByID(ctx context.Context, id string) (*Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	if post.DeletedAt != nil {
		return nil, ErrPostNotFound
	}
	return copyPost(post), nil
}

// Delete soft-deletes a post by setting its deleted_at timestamp.
func (r *InMemoryPostRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return ErrPostNotFound
	}
	if post.DeletedAt != nil {
		return ErrPostDeleted
	}
	now := time.Now()
	post.DeletedAt = &now
	return nil
}

// AddLike increments a post's like counter.
func (r *InMemoryPostRepository) AddLike(ctx context.Context, id string) error {
	return r.bump(id, func(p *Post) { p.LikeCount++ })
}

// AddComment increments a post's comment counter.
func (r *InMemoryPostRepository) AddComment(ctx context.Context, id string) error {
	return r.bump(id, func(p *Post) { p.CommentCount++ })
}

func (r *InMemoryPostRepository) bump(id string, apply func(*Post)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return ErrPostNotFound
	}
	if post.DeletedAt != nil {
		return ErrPostDeleted
	}
	apply(post)
	return nil
}

// ListRecent returns non-deleted posts created within the given window.
func (r *InMemoryPostRepository) ListRecent(ctx context.Context, now time.Time, window time.Duration) ([]*Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cutoff := time.Time{}
	if window > 0 {
		cutoff = now.Add(-window)
	}

	results := make([]*Post, 0, len(r.posts))
	for _, post := range r.posts {
		if post.DeletedAt != nil {
			continue
		}
		if !cutoff.IsZero() && post.CreatedAt.Before(cutoff) {
			continue
		}
		results = append(results, copyPost(post))
	}
	return results, nil
}

func copyPost(post *Post) *Post {
	c := *post
	c.Attachments = append([]Attachment(nil), post.Attachments...)
	if post.DeletedAt != nil {
		t := *post.DeletedAt
		c.DeletedAt = &t
	}
	return &c
}
