// Package twitter implements a minimal X API v2 client for publishing
// posts and verifying credentials. Requests are signed with the user's
// OAuth 1.0a credentials.
package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dghubble/oauth1"

	"github.com/dkoval/postline/internal/apperr"
	"github.com/dkoval/postline/internal/models"
)

// DefaultBaseURL is the production X API endpoint.
const DefaultBaseURL = "https://api.twitter.com"

// DefaultTimeout bounds a single API call so one stuck request cannot
// consume a whole batch run.
const DefaultTimeout = 10 * time.Second

// Client performs authenticated calls to the X API on behalf of one user.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Factory builds a Client from a decrypted credential bundle. It exists so
// the publisher can be tested with fakes.
type Factory struct {
	// BaseURL overrides the API endpoint; empty means DefaultBaseURL.
	BaseURL string
	// Timeout overrides the per-request timeout; zero means DefaultTimeout.
	Timeout time.Duration
}

// NewClient builds a client whose requests are signed with the bundle's
// OAuth 1.0a tokens.
func (f *Factory) NewClient(bundle models.CredentialBundle) *Client {
	config := oauth1.NewConfig(bundle.APIKey, bundle.APISecret)
	token := oauth1.NewToken(bundle.AccessToken, bundle.AccessTokenSecret)
	httpClient := config.Client(oauth1.NoContext, token)

	timeout := f.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	httpClient.Timeout = timeout

	baseURL := f.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{httpClient: httpClient, baseURL: baseURL}
}

type tweetRequest struct {
	Text string `json:"text"`
}

type tweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

type meResponse struct {
	Data struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Username string `json:"username"`
	} `json:"data"`
}

type apiError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Tweet publishes text as a new post and returns the assigned tweet id.
func (c *Client) Tweet(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(tweetRequest{Text: text})
	if err != nil {
		return "", fmt.Errorf("encode tweet: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/2/tweets", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build tweet request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperr.E(apperr.KindPublish, "post to X", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperr.E(apperr.KindPublish, "post to X", decodeAPIError(resp))
	}

	var out tweetResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", apperr.E(apperr.KindPublish, "decode X response", err)
	}
	if out.Data.ID == "" {
		return "", apperr.E(apperr.KindPublish, "X returned no tweet id", nil)
	}
	return out.Data.ID, nil
}

// Me performs a lightweight authenticated call and returns the account
// username. Used only to verify credentials.
func (c *Client) Me(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/2/users/me", nil)
	if err != nil {
		return "", fmt.Errorf("build me request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperr.E(apperr.KindPublish, "connect to X", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperr.E(apperr.KindPublish, "connect to X", decodeAPIError(resp))
	}

	var out meResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", apperr.E(apperr.KindPublish, "decode X response", err)
	}
	return out.Data.Username, nil
}

// decodeAPIError turns a non-2xx response into an error carrying the API's
// own detail message when one is present.
func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var e apiError
	if err := json.Unmarshal(raw, &e); err == nil && e.Detail != "" {
		return fmt.Errorf("%s (status %d)", e.Detail, resp.StatusCode)
	}
	return fmt.Errorf("unexpected status %d", resp.StatusCode)
}
