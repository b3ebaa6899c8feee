package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dkoval/postline/internal/middleware"
	"github.com/dkoval/postline/internal/service"
)

// PublishService defines the publishing operations required by the
// PublishHandler.
type PublishService interface {
	// PublishOne publishes a single draft post on demand.
	PublishOne(ctx context.Context, userID, postID, content string) (string, error)
	// PublishDue publishes every post due at now.
	PublishDue(ctx context.Context, now time.Time) ([]service.Outcome, error)
	// TestConnection verifies the caller's stored credentials.
	TestConnection(ctx context.Context, userID string) (string, error)
}

// PublishHandler handles the on-demand publish, connection test and batch
// trigger endpoints.
type PublishHandler struct {
	PublishService PublishService
	// SchedulerToken guards the batch trigger endpoint; the external
	// scheduler presents it in the X-Scheduler-Token header.
	SchedulerToken string
}

// PublishRequest represents the JSON payload for an on-demand publish.
type PublishRequest struct {
	PostID  string `json:"post_id"`
	Content string `json:"content"`
}

// Publish handles POST /api/publish requests.
func (h *PublishHandler) Publish(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var req PublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PostID == "" {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	tweetID, err := h.PublishService.PublishOne(r.Context(), userID, req.PostID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":  true,
		"tweet_id": tweetID,
		"message":  "successfully posted to X",
	})
}

// Test handles POST /api/publish/test requests. It verifies the caller's
// credentials with a lightweight API call and has no persistent side effect.
func (h *PublishHandler) Test(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	username, err := h.PublishService.TestConnection(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":  true,
		"username": username,
		"message":  "X API connection successful",
	})
}

// RunDue handles POST /internal/publish/due requests from the external
// scheduler. It publishes every due post and reports the per-post outcomes.
func (h *PublishHandler) RunDue(w http.ResponseWriter, r *http.Request) {
	if h.SchedulerToken == "" || r.Header.Get("X-Scheduler-Token") != h.SchedulerToken {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	outcomes, err := h.PublishService.PublishDue(r.Context(), time.Now())
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":   true,
		"processed": len(outcomes),
		"results":   outcomes,
	})
}
