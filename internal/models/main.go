// Package models defines the core data structures for posts and
// per-user publishing credentials.
package models

import "time"

// PostStatus defines the set of valid post lifecycle states.
type PostStatus string

const (
	// StatusDraft represents a post that has not been published.
	StatusDraft PostStatus = "draft"
	// StatusScheduled represents a post waiting for its scheduled time.
	StatusScheduled PostStatus = "scheduled"
	// StatusPosted represents a post that was published to X.
	StatusPosted PostStatus = "posted"
)

// ContentMaxLen is the X post character limit.
const ContentMaxLen = 280

// Post represents a user's post, draft or scheduled or already published.
type Post struct {
	// ID is the store-assigned identifier of the post.
	ID string `json:"id"`
	// UserID is the identity of the owning user.
	UserID string `json:"user_id"`
	// Content is the text to publish.
	Content string `json:"content"`
	// Status is the lifecycle state of the post.
	Status PostStatus `json:"status"`
	// ScheduledFor is the time the post should be published, if scheduled.
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
	// CreatedAt is when the post was created.
	CreatedAt time.Time `json:"created_at"`
	// PostedAt is when the post was published, if it was.
	PostedAt *time.Time `json:"posted_at,omitempty"`
	// TweetID is the identifier returned by X once the post is published.
	TweetID *string `json:"tweet_id,omitempty"`
	// LastError holds the message of the most recent failed publish attempt.
	LastError *string `json:"last_error,omitempty"`
}

// CredentialBundle holds the decrypted X API credentials of a user.
// BearerToken is optional; nil means the user never supplied one.
type CredentialBundle struct {
	APIKey            string  `json:"api_key"`
	APISecret         string  `json:"api_secret"`
	AccessToken       string  `json:"access_token"`
	AccessTokenSecret string  `json:"access_token_secret"`
	BearerToken       *string `json:"bearer_token,omitempty"`
}

// EncryptedBundle is the at-rest form of a CredentialBundle: every field is
// independently encrypted. UpdatedAt is stamped by the settings feature on
// write and is read-only everywhere else.
type EncryptedBundle struct {
	APIKey            string
	APISecret         string
	AccessToken       string
	AccessTokenSecret string
	BearerToken       *string
	UpdatedAt         time.Time
}

// Configured reports whether all four required credential fields are present.
func (b CredentialBundle) Configured() bool {
	return b.APIKey != "" && b.APISecret != "" && b.AccessToken != "" && b.AccessTokenSecret != ""
}
