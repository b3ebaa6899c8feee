// Package crypto implements the symmetric codec for per-user X API
// credentials. Each credential field is encrypted independently with
// AES-GCM under a single process-wide key.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/dkoval/postline/internal/apperr"
	"github.com/dkoval/postline/internal/models"
)

// Codec encrypts and decrypts credential bundles. The key is immutable
// after construction, so a single Codec is safe for concurrent use.
type Codec struct {
	aead cipher.AEAD
}

// New derives an AES-GCM codec from the configured secret. The AES key is
// the SHA-256 of the secret. An empty secret fails with a configuration
// error so the process refuses to start without one.
func New(secret string) (*Codec, error) {
	if secret == "" {
		return nil, apperr.E(apperr.KindConfiguration, "encryption key not configured", nil)
	}
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create AEAD: %w", err)
	}
	return &Codec{aead: aead}, nil
}

// EncryptField encrypts a single credential field and returns
// base64(nonce || ciphertext). An empty field is returned as-is without
// invoking the cipher, so "never set" stays distinguishable at rest.
func (c *Codec) EncryptField(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	ct := c.aead.Seal(nonce, nonce, []byte(plain), nil)
	return base64.StdEncoding.EncodeToString(ct), nil
}

// DecryptField reverses EncryptField. An empty input yields an empty
// string; malformed or corrupt ciphertext fails with a decryption error,
// which callers must treat as "no usable credentials".
func (c *Codec) DecryptField(encrypted string) (string, error) {
	if encrypted == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", apperr.E(apperr.KindDecryption, "decode credential field", err)
	}
	if len(raw) < c.aead.NonceSize() {
		return "", apperr.E(apperr.KindDecryption, "credential field too short", nil)
	}
	nonce, ct := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", apperr.E(apperr.KindDecryption, "decrypt credential field", err)
	}
	return string(plain), nil
}

// EncryptBundle encrypts every field of a credential bundle. A nil bearer
// token passes through as nil.
func (c *Codec) EncryptBundle(bundle models.CredentialBundle) (models.EncryptedBundle, error) {
	var enc models.EncryptedBundle
	var err error
	if enc.APIKey, err = c.EncryptField(bundle.APIKey); err != nil {
		return models.EncryptedBundle{}, err
	}
	if enc.APISecret, err = c.EncryptField(bundle.APISecret); err != nil {
		return models.EncryptedBundle{}, err
	}
	if enc.AccessToken, err = c.EncryptField(bundle.AccessToken); err != nil {
		return models.EncryptedBundle{}, err
	}
	if enc.AccessTokenSecret, err = c.EncryptField(bundle.AccessTokenSecret); err != nil {
		return models.EncryptedBundle{}, err
	}
	if bundle.BearerToken != nil {
		token, err := c.EncryptField(*bundle.BearerToken)
		if err != nil {
			return models.EncryptedBundle{}, err
		}
		enc.BearerToken = &token
	}
	return enc, nil
}

// DecryptBundle decrypts every field of a stored bundle. Fields stored as
// empty strings decrypt to empty strings without error.
func (c *Codec) DecryptBundle(enc models.EncryptedBundle) (models.CredentialBundle, error) {
	var bundle models.CredentialBundle
	var err error
	if bundle.APIKey, err = c.DecryptField(enc.APIKey); err != nil {
		return models.CredentialBundle{}, err
	}
	if bundle.APISecret, err = c.DecryptField(enc.APISecret); err != nil {
		return models.CredentialBundle{}, err
	}
	if bundle.AccessToken, err = c.DecryptField(enc.AccessToken); err != nil {
		return models.CredentialBundle{}, err
	}
	if bundle.AccessTokenSecret, err = c.DecryptField(enc.AccessTokenSecret); err != nil {
		return models.CredentialBundle{}, err
	}
	if enc.BearerToken != nil {
		token, err := c.DecryptField(*enc.BearerToken)
		if err != nil {
			return models.CredentialBundle{}, err
		}
		bundle.BearerToken = &token
	}
	return bundle, nil
}
