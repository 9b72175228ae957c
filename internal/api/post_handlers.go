package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dev-olayemi/jobbank/internal/middleware"
	"github.com/dev-olayemi/jobbank/internal/post"
)

// Post text validation constraints.
const (
	MaxPostTextLength = 5000
	MaxAttachments    = 6
)

// CreatePostRequest represents the request body for creating a post.
type CreatePostRequest struct {
	Text        string            `json:"text"`
	Attachments []post.Attachment `json:"attachments,omitempty"`
}

// PostHandlers holds dependencies for post HTTP handlers.
type PostHandlers struct {
	repo post.PostRepository
}

// NewPostHandlers creates a new PostHandlers instance.
func NewPostHandlers(repo post.PostRepository) *PostHandlers {
	return &PostHandlers{
		repo: repo,
	}
}

// validatePostText validates post text. Returns an error message if
// validation fails, empty string if valid.
func validatePostText(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "post text is required"
	}
	if len(trimmed) > MaxPostTextLength {
		return "post text must not exceed 5000 characters"
	}
	return ""
}

// sanitizePostText escapes HTML entities to prevent stored XSS. Called after
// validation passes.
func sanitizePostText(text string) string {
	return html.EscapeString(strings.TrimSpace(text))
}

// extractPostID extracts the post ID from the URL path.
func extractPostID(r *http.Request) (string, error) {
	pathParts := strings.Split(strings.TrimPrefix(r.URL.Path, "/posts/"), "/")
	if len(pathParts) == 0 || pathParts[0] == "" {
		return "", fmt.Errorf("post ID is required")
	}
	return pathParts[0], nil
}

// CreatePost handles POST /posts - creates a new post.
func (h *PostHandlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON in request body")
		return
	}

	if errMsg := validatePostText(req.Text); errMsg != "" {
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, errMsg)
		return
	}
	if len(req.Attachments) > MaxAttachments {
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, "Maximum 6 attachments allowed")
		return
	}

	authorID := middleware.GetUserID(ctx)
	if authorID == "" {
		WriteError(w, ctx, http.StatusUnauthorized, ErrCodeAuthFailed, "Authentication required")
		return
	}

	newPost := &post.Post{
		AuthorID:    authorID,
		Text:        sanitizePostText(req.Text),
		Attachments: req.Attachments,
	}

	if err := h.repo.Create(ctx, newPost); err != nil {
		slog.ErrorContext(ctx, "failed to create post", "error", err)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to create post")
		return
	}

	writeJSON(w, ctx, http.StatusCreated, newPost)
}

// GetPost handles GET /posts/{id} - retrieves a post.
func (h *PostHandlers) GetPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	postID, err := extractPostID(r)
	if err != nil {
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Post ID is required")
		return
	}

	found, err := h.repo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, post.ErrPostNotFound) {
			WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Post not found")
			return
		}
		slog.ErrorContext(ctx, "failed to retrieve post", "error", err, "post_id", postID)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to retrieve post")
		return
	}

	writeJSON(w, ctx, http.StatusOK, found)
}

// DeletePost handles DELETE /posts/{id} - soft-deletes a post.
func (h *PostHandlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	postID, err := extractPostID(r)
	if err != nil {
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Post ID is required")
		return
	}

	if err := h.repo.Delete(ctx, postID); err != nil {
		if errors.Is(err, post.ErrPostNotFound) || errors.Is(err, post.ErrPostDeleted) {
			WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Post not found")
			return
		}
		slog.ErrorContext(ctx, "failed to delete post", "error", err, "post_id", postID)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to delete post")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// LikePost handles POST /posts/{id}/like - increments a post's like counter.
func (h *PostHandlers) LikePost(w http.ResponseWriter, r *http.Request) {
	h.engage(w, r, h.repo.AddLike, "like")
}

// CommentPost handles POST /posts/{id}/comment - increments a post's comment
// counter. Comment bodies live outside this service; only the count feeds the
// engagement signal.
func (h *PostHandlers) CommentPost(w http.ResponseWriter, r *http.Request) {
	h.engage(w, r, h.repo.AddComment, "comment")
}

func (h *PostHandlers) engage(w http.ResponseWriter, r *http.Request, bump func(ctx context.Context, id string) error, kind string) {
	ctx := r.Context()

	postID, err := extractPostID(r)
	if err != nil {
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeBadRequest, "Post ID is required")
		return
	}

	if err := bump(ctx, postID); err != nil {
		if errors.Is(err, post.ErrPostNotFound) {
			WriteError(w, ctx, http.StatusNotFound, ErrCodeNotFound, "Post not found")
			return
		}
		slog.ErrorContext(ctx, "failed to record engagement", "error", err, "post_id", postID, "kind", kind)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to record engagement")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
