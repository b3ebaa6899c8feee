package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dkoval/postline/internal/middleware"
	"github.com/dkoval/postline/internal/models"
)

// PostService defines the post CRUD operations required by the PostHandler.
type PostService interface {
	Create(ctx context.Context, userID, content string, scheduledFor *time.Time) (*models.Post, error)
	List(ctx context.Context, userID string) ([]models.Post, error)
	Delete(ctx context.Context, userID, id string) error
}

// PostHandler handles HTTP requests for post CRUD.
type PostHandler struct {
	PostService PostService
}

// CreatePostRequest represents the JSON payload for creating a post.
type CreatePostRequest struct {
	Content      string     `json:"content"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
}

// Create handles POST /api/posts requests. A post without a schedule time
// is stored as a draft; with one it is scheduled.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	post, err := h.PostService.Create(r.Context(), userID, req.Content, req.ScheduledFor)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(post)
}

// List handles GET /api/posts requests, returning the caller's posts
// newest first.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	posts, err := h.PostService.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"posts": posts})
}

// Delete handles DELETE /api/posts/{id} requests.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	postID := chi.URLParam(r, "id")

	if err := h.PostService.Delete(r.Context(), userID, postID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
