package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dkoval/postline/internal/apperr"
	"github.com/dkoval/postline/internal/models"
)

// PostStore defines the persistence operations needed by the PostService.
type PostStore interface {
	Create(ctx context.Context, post models.Post) (*models.Post, error)
	ListByUser(ctx context.Context, userID string) ([]models.Post, error)
	Delete(ctx context.Context, userID, id string) error
}

// PostService implements post CRUD for the owning user.
type PostService struct {
	store PostStore
	now   func() time.Time
}

// NewPostService constructs a PostService with the provided store.
func NewPostService(store PostStore) *PostService {
	return &PostService{store: store, now: time.Now}
}

// Create stores a new post. Without a schedule time the post is a draft;
// with one it is scheduled, and the time must be in the future. Content is
// bounded by the X character limit.
func (s *PostService) Create(ctx context.Context, userID, content string, scheduledFor *time.Time) (*models.Post, error) {
	if userID == "" {
		return nil, apperr.E(apperr.KindAuth, "user not authenticated", nil)
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperr.E(apperr.KindConfiguration, "content is empty", nil)
	}
	if n := utf8.RuneCountInString(content); n > models.ContentMaxLen {
		return nil, apperr.E(apperr.KindConfiguration,
			fmt.Sprintf("content is %d characters, limit is %d", n, models.ContentMaxLen), nil)
	}

	post := models.Post{
		UserID:  userID,
		Content: content,
		Status:  models.StatusDraft,
	}
	if scheduledFor != nil {
		if !scheduledFor.After(s.now()) {
			return nil, apperr.E(apperr.KindConfiguration, "scheduled time must be in the future", nil)
		}
		post.Status = models.StatusScheduled
		post.ScheduledFor = scheduledFor
	}
	return s.store.Create(ctx, post)
}

// List returns the user's posts, newest first.
func (s *PostService) List(ctx context.Context, userID string) ([]models.Post, error) {
	if userID == "" {
		return nil, apperr.E(apperr.KindAuth, "user not authenticated", nil)
	}
	return s.store.ListByUser(ctx, userID)
}

// Delete removes a post owned by the user.
func (s *PostService) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return apperr.E(apperr.KindAuth, "user not authenticated", nil)
	}
	return s.store.Delete(ctx, userID, id)
}
