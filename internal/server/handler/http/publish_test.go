package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dkoval/postline/internal/apperr"
	"github.com/dkoval/postline/internal/middleware"
	handler "github.com/dkoval/postline/internal/server/handler/http"
	"github.com/dkoval/postline/internal/service"
)

// fakePublishService records calls and returns preconfigured results.
type fakePublishService struct {
	receivedUserID  string
	receivedPostID  string
	receivedContent string

	tweetID  string
	username string
	outcomes []service.Outcome
	err      error
}

func (f *fakePublishService) PublishOne(_ context.Context, userID, postID, content string) (string, error) {
	f.receivedUserID = userID
	f.receivedPostID = postID
	f.receivedContent = content
	return f.tweetID, f.err
}

func (f *fakePublishService) PublishDue(context.Context, time.Time) ([]service.Outcome, error) {
	return f.outcomes, f.err
}

func (f *fakePublishService) TestConnection(_ context.Context, userID string) (string, error) {
	f.receivedUserID = userID
	return f.username, f.err
}

func authedRequest(method, target string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	return req.WithContext(middleware.WithUserID(req.Context(), "u1"))
}

func TestPublishHandler_BadJSON(t *testing.T) {
	h := &handler.PublishHandler{PublishService: &fakePublishService{}}
	req := authedRequest(http.MethodPost, "/api/publish", []byte("not-a-json"))
	w := httptest.NewRecorder()

	h.Publish(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want %d", w.Code, http.StatusBadRequest)
	}
}

func TestPublishHandler_Success(t *testing.T) {
	fake := &fakePublishService{tweetID: "tw1"}
	h := &handler.PublishHandler{PublishService: fake}

	body, _ := json.Marshal(handler.PublishRequest{PostID: "p1", Content: "hello"})
	req := authedRequest(http.MethodPost, "/api/publish", body)
	w := httptest.NewRecorder()

	h.Publish(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", w.Code, http.StatusOK)
	}
	if fake.receivedUserID != "u1" || fake.receivedPostID != "p1" || fake.receivedContent != "hello" {
		t.Errorf("service called with (%q, %q, %q)", fake.receivedUserID, fake.receivedPostID, fake.receivedContent)
	}

	var resp struct {
		Success bool   `json:"success"`
		TweetID string `json:"tweet_id"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.TweetID != "tw1" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestPublishHandler_ErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"auth", apperr.E(apperr.KindAuth, "user not authenticated", nil), http.StatusUnauthorized},
		{"not found", apperr.E(apperr.KindNotFound, "post p1 not found", nil), http.StatusNotFound},
		{"configuration", apperr.E(apperr.KindConfiguration, "credentials not configured", nil), http.StatusBadRequest},
		{"publish", apperr.E(apperr.KindPublish, "post to X", errors.New("rate limited")), http.StatusBadGateway},
		{"store", apperr.E(apperr.KindStore, "get post", errors.New("down")), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := &handler.PublishHandler{PublishService: &fakePublishService{err: tc.err}}
			body, _ := json.Marshal(handler.PublishRequest{PostID: "p1", Content: "hello"})
			req := authedRequest(http.MethodPost, "/api/publish", body)
			w := httptest.NewRecorder()

			h.Publish(w, req)

			if w.Code != tc.wantStatus {
				t.Errorf("status = %d; want %d", w.Code, tc.wantStatus)
			}
		})
	}
}

func TestPublishHandler_TestConnection(t *testing.T) {
	fake := &fakePublishService{username: "testuser"}
	h := &handler.PublishHandler{PublishService: fake}

	req := authedRequest(http.MethodPost, "/api/publish/test", nil)
	w := httptest.NewRecorder()

	h.Test(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", w.Code, http.StatusOK)
	}
	var resp struct {
		Success  bool   `json:"success"`
		Username string `json:"username"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Username != "testuser" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestRunDue_TokenGuard(t *testing.T) {
	h := &handler.PublishHandler{
		PublishService: &fakePublishService{},
		SchedulerToken: "s3cret",
	}

	req := httptest.NewRequest(http.MethodPost, "/internal/publish/due", nil)
	w := httptest.NewRecorder()
	h.RunDue(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("missing token: status = %d; want %d", w.Code, http.StatusForbidden)
	}

	req = httptest.NewRequest(http.MethodPost, "/internal/publish/due", nil)
	req.Header.Set("X-Scheduler-Token", "wrong")
	w = httptest.NewRecorder()
	h.RunDue(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("wrong token: status = %d; want %d", w.Code, http.StatusForbidden)
	}
}

func TestRunDue_EmptyTokenNeverMatches(t *testing.T) {
	h := &handler.PublishHandler{PublishService: &fakePublishService{}}

	req := httptest.NewRequest(http.MethodPost, "/internal/publish/due", nil)
	req.Header.Set("X-Scheduler-Token", "")
	w := httptest.NewRecorder()
	h.RunDue(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d; want %d", w.Code, http.StatusForbidden)
	}
}

func TestRunDue_Summary(t *testing.T) {
	fake := &fakePublishService{
		outcomes: []service.Outcome{
			{PostID: "p1", Success: true, TweetID: "tw1"},
			{PostID: "p2", Skipped: true, Error: "credentials not configured"},
			{PostID: "p3", Error: "rate limited"},
		},
	}
	h := &handler.PublishHandler{PublishService: fake, SchedulerToken: "s3cret"}

	req := httptest.NewRequest(http.MethodPost, "/internal/publish/due", nil)
	req.Header.Set("X-Scheduler-Token", "s3cret")
	w := httptest.NewRecorder()

	h.RunDue(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", w.Code, http.StatusOK)
	}
	var resp struct {
		Success   bool              `json:"success"`
		Processed int               `json:"processed"`
		Results   []service.Outcome `json:"results"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Processed != 3 || len(resp.Results) != 3 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestRunDue_QueryFailure(t *testing.T) {
	fake := &fakePublishService{err: apperr.E(apperr.KindStore, "query due posts", errors.New("timeout"))}
	h := &handler.PublishHandler{PublishService: fake, SchedulerToken: "s3cret"}

	req := httptest.NewRequest(http.MethodPost, "/internal/publish/due", nil)
	req.Header.Set("X-Scheduler-Token", "s3cret")
	w := httptest.NewRecorder()

	h.RunDue(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d; want %d", w.Code, http.StatusInternalServerError)
	}
}
