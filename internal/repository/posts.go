package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dkoval/postline/internal/apperr"
	"github.com/dkoval/postline/internal/models"
)

// PostgresPostRepository implements post persistence against a PostgreSQL
// database, one row per post keyed by a store-assigned id.
type PostgresPostRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository using the
// provided *sql.DB.
func NewPostgresPostRepository(db *sql.DB) *PostgresPostRepository {
	return &PostgresPostRepository{DB: db}
}

const postColumns = `id, user_id, content, status, scheduled_for, created_at, posted_at, tweet_id, last_error`

func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	var post models.Post
	err := row.Scan(
		&post.ID,
		&post.UserID,
		&post.Content,
		&post.Status,
		&post.ScheduledFor,
		&post.CreatedAt,
		&post.PostedAt,
		&post.TweetID,
		&post.LastError,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Create inserts a new post and returns it with its assigned id and
// creation time. Status and scheduled_for are taken from the post as given.
func (r *PostgresPostRepository) Create(ctx context.Context, post models.Post) (*models.Post, error) {
	post.ID = uuid.NewString()
	post.CreatedAt = time.Now().UTC()
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO posts (id, user_id, content, status, scheduled_for, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, post.ID, post.UserID, post.Content, post.Status, post.ScheduledFor, post.CreatedAt)
	if err != nil {
		return nil, apperr.E(apperr.KindStore, "create post", err)
	}
	return &post, nil
}

// GetByID retrieves a single post by id.
func (r *PostgresPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+postColumns+` FROM posts WHERE id = $1
	`, id)
	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.E(apperr.KindNotFound, fmt.Sprintf("post %s not found", id), err)
	}
	if err != nil {
		return nil, apperr.E(apperr.KindStore, "get post", err)
	}
	return post, nil
}

// ListByUser returns all posts owned by the user, newest first.
func (r *PostgresPostRepository) ListByUser(ctx context.Context, userID string) ([]models.Post, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+postColumns+` FROM posts WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, apperr.E(apperr.KindStore, "list posts", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, apperr.E(apperr.KindStore, "scan post", err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.E(apperr.KindStore, "list posts", err)
	}
	return posts, nil
}

// Delete removes a post owned by the given user. Deleting another user's
// post or a missing post is reported as not found.
func (r *PostgresPostRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM posts WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return apperr.E(apperr.KindStore, "delete post", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return apperr.E(apperr.KindNotFound, fmt.Sprintf("post %s not found", id), nil)
	}
	return nil
}

// GetDue returns every post with status "scheduled" whose scheduled time is
// at or before now. Ordering is unspecified.
func (r *PostgresPostRepository) GetDue(ctx context.Context, now time.Time) ([]models.Post, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+postColumns+` FROM posts WHERE status = $1 AND scheduled_for <= $2
	`, models.StatusScheduled, now)
	if err != nil {
		return nil, apperr.E(apperr.KindStore, "query due posts", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, apperr.E(apperr.KindStore, "scan due post", err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.E(apperr.KindStore, "query due posts", err)
	}
	return posts, nil
}

// MarkPosted records a successful publish: status becomes "posted", the
// external tweet id is stored, posted_at is stamped server-side and any
// previous error is cleared. The row is updated in a single statement.
func (r *PostgresPostRepository) MarkPosted(ctx context.Context, id, tweetID string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE posts SET status = $1, tweet_id = $2, posted_at = now(), last_error = NULL
		WHERE id = $3
	`, models.StatusPosted, tweetID, id)
	if err != nil {
		return apperr.E(apperr.KindStore, fmt.Sprintf("mark post %s posted", id), err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return apperr.E(apperr.KindNotFound, fmt.Sprintf("post %s not found", id), nil)
	}
	return nil
}

// MarkFailed records a failed publish attempt: the post reverts to "draft"
// with the error message stored, keeping it actionable for a retry.
func (r *PostgresPostRepository) MarkFailed(ctx context.Context, id, errorMessage string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE posts SET status = $1, last_error = $2 WHERE id = $3
	`, models.StatusDraft, errorMessage, id)
	if err != nil {
		return apperr.E(apperr.KindStore, fmt.Sprintf("mark post %s failed", id), err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return apperr.E(apperr.KindNotFound, fmt.Sprintf("post %s not found", id), nil)
	}
	return nil
}
