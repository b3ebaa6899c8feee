// Package service provides business-logic services for publishing, posts
// and settings, delegating persistence to repository interfaces.
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dkoval/postline/internal/apperr"
	"github.com/dkoval/postline/internal/crypto"
	"github.com/dkoval/postline/internal/models"
)

// SettingsRepository defines the credential-store read operation needed by
// the Publisher.
type SettingsRepository interface {
	// Get returns the encrypted credential bundle for the user, or a
	// not-found error when no settings row exists.
	Get(ctx context.Context, userID string) (*models.EncryptedBundle, error)
}

// PostRepository defines the post persistence operations needed by the
// Publisher.
type PostRepository interface {
	// GetByID fetches a single post.
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// GetDue returns posts scheduled at or before now.
	GetDue(ctx context.Context, now time.Time) ([]models.Post, error)
	// MarkPosted records a successful publish on the post.
	MarkPosted(ctx context.Context, id, tweetID string) error
	// MarkFailed reverts the post to draft and stores the error message.
	MarkFailed(ctx context.Context, id, errorMessage string) error
}

// PublishingClient performs authenticated calls to X for one user.
type PublishingClient interface {
	// Tweet publishes text and returns the assigned tweet id.
	Tweet(ctx context.Context, text string) (string, error)
	// Me returns the account username, verifying the credentials work.
	Me(ctx context.Context) (string, error)
}

// ClientFactory builds a PublishingClient from decrypted credentials.
type ClientFactory interface {
	NewClient(bundle models.CredentialBundle) PublishingClient
}

// ClientFactoryFunc adapts a function to the ClientFactory interface.
type ClientFactoryFunc func(bundle models.CredentialBundle) PublishingClient

// NewClient calls f.
func (f ClientFactoryFunc) NewClient(bundle models.CredentialBundle) PublishingClient {
	return f(bundle)
}

// Outcome is the per-post result of a batch run.
type Outcome struct {
	PostID  string `json:"post_id"`
	Success bool   `json:"success"`
	// Skipped is set when the owner has no credential record; the post
	// stays scheduled for the next run.
	Skipped bool   `json:"skipped,omitempty"`
	TweetID string `json:"tweet_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Publisher orchestrates publishing: fetch credentials, decrypt, post to X,
// record the outcome. It serves both the on-demand path and the batch path.
type Publisher struct {
	settings SettingsRepository
	posts    PostRepository
	codec    *crypto.Codec
	clients  ClientFactory
	log      *zap.Logger
	parallel int
}

// NewPublisher constructs a Publisher. parallel bounds how many due posts a
// batch run processes concurrently; values below 1 mean sequential.
func NewPublisher(
	settings SettingsRepository,
	posts PostRepository,
	codec *crypto.Codec,
	clients ClientFactory,
	log *zap.Logger,
	parallel int,
) *Publisher {
	if parallel < 1 {
		parallel = 1
	}
	return &Publisher{
		settings: settings,
		posts:    posts,
		codec:    codec,
		clients:  clients,
		log:      log,
		parallel: parallel,
	}
}

// PublishOne publishes a single post on demand for an authenticated user.
// The post must exist, belong to the user and still be a draft; a post that
// was already published is rejected rather than posted twice. On failure the
// post reverts to draft with the error recorded, and the original error is
// returned wrapped.
func (p *Publisher) PublishOne(ctx context.Context, userID, postID, content string) (string, error) {
	if userID == "" {
		return "", apperr.E(apperr.KindAuth, "user not authenticated", nil)
	}

	post, err := p.posts.GetByID(ctx, postID)
	if err != nil {
		return "", err
	}
	if post.UserID != userID {
		return "", apperr.E(apperr.KindNotFound, fmt.Sprintf("post %s not found", postID), nil)
	}
	if post.Status != models.StatusDraft {
		return "", apperr.E(apperr.KindConfiguration,
			fmt.Sprintf("post is not a draft (status %s)", post.Status), nil)
	}

	tweetID, err := p.attempt(ctx, userID, content)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			err = apperr.E(apperr.KindConfiguration, "credentials not configured", err)
		}
		p.recordFailure(ctx, postID, err)
		return "", fmt.Errorf("failed to publish post: %w", err)
	}

	if err := p.posts.MarkPosted(ctx, postID, tweetID); err != nil {
		return "", err
	}

	p.log.Info("published post to X",
		zap.String("userID", userID),
		zap.String("postID", postID),
		zap.String("tweetID", tweetID),
	)
	return tweetID, nil
}

// PublishDue runs the unattended batch: every post due at now is published
// with its owner's credentials. Posts are processed independently with
// bounded parallelism; one post's failure never aborts the rest. A post
// whose owner has no credential record is skipped and stays scheduled.
// Only a failure of the due query itself aborts the run.
func (p *Publisher) PublishDue(ctx context.Context, now time.Time) ([]Outcome, error) {
	due, err := p.posts.GetDue(ctx, now)
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, len(due))
	var g errgroup.Group
	g.SetLimit(p.parallel)
	for i, post := range due {
		g.Go(func() error {
			outcomes[i] = p.publishScheduled(ctx, post)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes, nil
}

// publishScheduled runs the shared per-post procedure for one due post and
// converts any failure into its outcome entry.
func (p *Publisher) publishScheduled(ctx context.Context, post models.Post) Outcome {
	tweetID, err := p.attempt(ctx, post.UserID, post.Content)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			// The owner may still configure credentials before the next
			// run; leave the post scheduled instead of failing it.
			p.log.Warn("credentials not configured, skipping post",
				zap.String("userID", post.UserID),
				zap.String("postID", post.ID),
			)
			return Outcome{PostID: post.ID, Skipped: true, Error: "credentials not configured"}
		}
		p.log.Error("failed to publish scheduled post",
			zap.String("postID", post.ID),
			zap.Error(err),
		)
		p.recordFailure(ctx, post.ID, err)
		return Outcome{PostID: post.ID, Error: err.Error()}
	}

	if err := p.posts.MarkPosted(ctx, post.ID, tweetID); err != nil {
		// The tweet is out; reverting to draft here would double-post on
		// the next run, so only report the store failure.
		p.log.Error("post published but not recorded",
			zap.String("postID", post.ID),
			zap.String("tweetID", tweetID),
			zap.Error(err),
		)
		return Outcome{PostID: post.ID, TweetID: tweetID, Error: err.Error()}
	}

	p.log.Info("published scheduled post",
		zap.String("postID", post.ID),
		zap.String("tweetID", tweetID),
	)
	return Outcome{PostID: post.ID, Success: true, TweetID: tweetID}
}

// attempt loads and decrypts the user's credentials and posts content.
// A missing settings row propagates as a not-found error so each caller can
// apply its own policy for unconfigured users.
func (p *Publisher) attempt(ctx context.Context, userID, content string) (string, error) {
	enc, err := p.settings.Get(ctx, userID)
	if err != nil {
		return "", err
	}

	bundle, err := p.codec.DecryptBundle(*enc)
	if err != nil {
		return "", err
	}
	if !bundle.Configured() {
		return "", apperr.E(apperr.KindConfiguration, "credentials incomplete", nil)
	}

	client := p.clients.NewClient(bundle)
	return client.Tweet(ctx, content)
}

// recordFailure reverts the post to draft with the error message, best
// effort: a store failure while recording is logged and never masks the
// original error.
func (p *Publisher) recordFailure(ctx context.Context, postID string, cause error) {
	if err := p.posts.MarkFailed(ctx, postID, cause.Error()); err != nil {
		p.log.Error("failed to record publish error",
			zap.String("postID", postID),
			zap.Error(err),
		)
	}
}

// TestConnection verifies the user's stored credentials with a lightweight
// authenticated call and returns the X username. No post state is touched.
func (p *Publisher) TestConnection(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", apperr.E(apperr.KindAuth, "user not authenticated", nil)
	}

	enc, err := p.settings.Get(ctx, userID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return "", apperr.E(apperr.KindConfiguration, "credentials not configured", err)
		}
		return "", err
	}

	bundle, err := p.codec.DecryptBundle(*enc)
	if err != nil {
		return "", err
	}
	if !bundle.Configured() {
		return "", apperr.E(apperr.KindConfiguration, "credentials incomplete", nil)
	}

	client := p.clients.NewClient(bundle)
	username, err := client.Me(ctx)
	if err != nil {
		return "", fmt.Errorf("X API connection failed: %w", err)
	}
	return username, nil
}
