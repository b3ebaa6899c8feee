// Package repository provides persistence implementations for posts and
// user settings using a PostgreSQL database.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkoval/postline/internal/apperr"
	"github.com/dkoval/postline/internal/models"
)

// PostgresSettingsRepository stores the encrypted credential bundle of each
// user, one row per user identity.
type PostgresSettingsRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresSettingsRepository creates a new PostgresSettingsRepository
// using the provided *sql.DB.
func NewPostgresSettingsRepository(db *sql.DB) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{DB: db}
}

// Get retrieves the encrypted credential bundle for the given user.
// An absent row is reported as a not-found error; a present row with empty
// fields is returned as-is and left to the codec to handle.
func (r *PostgresSettingsRepository) Get(ctx context.Context, userID string) (*models.EncryptedBundle, error) {
	var bundle models.EncryptedBundle
	err := r.DB.QueryRowContext(ctx, `
		SELECT api_key, api_secret, access_token, access_token_secret, bearer_token, updated_at
		FROM user_settings WHERE user_id = $1
	`, userID).Scan(
		&bundle.APIKey,
		&bundle.APISecret,
		&bundle.AccessToken,
		&bundle.AccessTokenSecret,
		&bundle.BearerToken,
		&bundle.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.E(apperr.KindNotFound, "user settings not found", err)
	}
	if err != nil {
		return nil, apperr.E(apperr.KindStore, "get user settings", err)
	}
	return &bundle, nil
}

// Save overwrites the user's encrypted credential bundle wholesale and
// stamps updated_at. Partial updates are never performed.
func (r *PostgresSettingsRepository) Save(ctx context.Context, userID string, bundle models.EncryptedBundle) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, api_key, api_secret, access_token, access_token_secret, bearer_token, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (user_id) DO UPDATE SET
			api_key = EXCLUDED.api_key,
			api_secret = EXCLUDED.api_secret,
			access_token = EXCLUDED.access_token,
			access_token_secret = EXCLUDED.access_token_secret,
			bearer_token = EXCLUDED.bearer_token,
			updated_at = now()
	`, userID, bundle.APIKey, bundle.APISecret, bundle.AccessToken, bundle.AccessTokenSecret, bundle.BearerToken)
	if err != nil {
		return apperr.E(apperr.KindStore, fmt.Sprintf("save settings for user %s", userID), err)
	}
	return nil
}
