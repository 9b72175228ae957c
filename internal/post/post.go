// Package post provides models and repositories for home feed posts and
// their engagement counters.
package post

import (
	"errors"
	"time"

	"github.com/dev-olayemi/jobbank/internal/ranking"
)

// Common errors for post operations.
var (
	ErrPostNotFound = errors.New("post not found")
	ErrPostDeleted  = errors.New("post has been deleted")
)

// Attachment represents a media attachment on a post.
type Attachment struct {
	URL       string `json:"url"`
	Type      string `json:"type,omitempty"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
}

// Post represents a feed post authored by a member.
type Post struct {
	ID           string       `json:"id"`
	AuthorID     string       `json:"author_id"`
	Text         string       `json:"text"`
	Attachments  []Attachment `json:"attachments,omitempty"`
	LikeCount    int          `json:"like_count"`
	CommentCount int          `json:"comment_count"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	DeletedAt    *time.Time   `json:"deleted_at,omitempty"`
}

// HasMedia reports whether the post carries at least one attachment.
func (p *Post) HasMedia() bool {
	return len(p.Attachments) > 0
}

// Candidate converts the post into the form the ranking engine scores.
func (p *Post) Candidate() *ranking.PostCandidate {
	return &ranking.PostCandidate{
		ID:           p.ID,
		AuthorID:     p.AuthorID,
		CreatedAt:    p.CreatedAt,
		LikeCount:    p.LikeCount,
		CommentCount: p.CommentCount,
		HasMedia:     p.HasMedia(),
	}
}
