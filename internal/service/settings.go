package service

import (
	"context"

	"github.com/dkoval/postline/internal/apperr"
	"github.com/dkoval/postline/internal/crypto"
	"github.com/dkoval/postline/internal/models"
)

// SettingsStore defines the persistence operations needed by the
// SettingsService.
type SettingsStore interface {
	Get(ctx context.Context, userID string) (*models.EncryptedBundle, error)
	Save(ctx context.Context, userID string, bundle models.EncryptedBundle) error
}

// SettingsService manages a user's X API credentials. Credentials are
// encrypted before they reach the store and decrypted only transiently.
type SettingsService struct {
	store SettingsStore
	codec *crypto.Codec
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(store SettingsStore, codec *crypto.Codec) *SettingsService {
	return &SettingsService{store: store, codec: codec}
}

// Save encrypts the bundle field by field and overwrites the user's
// settings wholesale.
func (s *SettingsService) Save(ctx context.Context, userID string, bundle models.CredentialBundle) error {
	if userID == "" {
		return apperr.E(apperr.KindAuth, "user not authenticated", nil)
	}
	enc, err := s.codec.EncryptBundle(bundle)
	if err != nil {
		return err
	}
	return s.store.Save(ctx, userID, enc)
}

// Get loads and decrypts the user's credentials. The second return value
// reports whether all required fields are configured.
func (s *SettingsService) Get(ctx context.Context, userID string) (*models.CredentialBundle, bool, error) {
	if userID == "" {
		return nil, false, apperr.E(apperr.KindAuth, "user not authenticated", nil)
	}
	enc, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	bundle, err := s.codec.DecryptBundle(*enc)
	if err != nil {
		return nil, false, err
	}
	return &bundle, bundle.Configured(), nil
}
