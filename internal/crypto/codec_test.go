package crypto

import (
	"strings"
	"testing"

	"github.com/dkoval/postline/internal/apperr"
	"github.com/dkoval/postline/internal/models"
)

func TestNew_EmptyKey(t *testing.T) {
	_, err := New("")
	if err == nil {
		t.Fatal("expected error for empty key")
	}
	if !apperr.IsKind(err, apperr.KindConfiguration) {
		t.Errorf("error kind = %v; want configuration", apperr.KindOf(err))
	}
}

func TestField_RoundTrip(t *testing.T) {
	codec, err := New("test-key")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	enc, err := codec.EncryptField("super-secret-token")
	if err != nil {
		t.Fatalf("EncryptField: %v", err)
	}
	if enc == "super-secret-token" {
		t.Error("ciphertext equals plaintext")
	}

	plain, err := codec.DecryptField(enc)
	if err != nil {
		t.Fatalf("DecryptField: %v", err)
	}
	if plain != "super-secret-token" {
		t.Errorf("round trip = %q; want %q", plain, "super-secret-token")
	}
}

func TestField_EmptyPassesThrough(t *testing.T) {
	codec, _ := New("test-key")

	enc, err := codec.EncryptField("")
	if err != nil || enc != "" {
		t.Errorf("EncryptField(\"\") = %q, %v; want \"\", nil", enc, err)
	}
	plain, err := codec.DecryptField("")
	if err != nil || plain != "" {
		t.Errorf("DecryptField(\"\") = %q, %v; want \"\", nil", plain, err)
	}
}

func TestDecryptField_Corrupt(t *testing.T) {
	codec, _ := New("test-key")

	cases := map[string]string{
		"not base64":       "%%%not-base64%%%",
		"too short":        "YWJj", // "abc", shorter than a nonce
		"tampered payload": "",
	}
	enc, err := codec.EncryptField("value")
	if err != nil {
		t.Fatalf("EncryptField: %v", err)
	}
	cases["tampered payload"] = strings.Repeat("A", len(enc))

	for name, input := range cases {
		if _, err := codec.DecryptField(input); !apperr.IsKind(err, apperr.KindDecryption) {
			t.Errorf("%s: error = %v; want decryption kind", name, err)
		}
	}
}

func TestDecryptField_WrongKey(t *testing.T) {
	first, _ := New("key-one")
	second, _ := New("key-two")

	enc, err := first.EncryptField("value")
	if err != nil {
		t.Fatalf("EncryptField: %v", err)
	}
	if _, err := second.DecryptField(enc); !apperr.IsKind(err, apperr.KindDecryption) {
		t.Errorf("decrypt with wrong key: error = %v; want decryption kind", err)
	}
}

func TestBundle_RoundTrip(t *testing.T) {
	codec, _ := New("test-key")
	bearer := "bearer-value"

	cases := []struct {
		name   string
		bundle models.CredentialBundle
	}{
		{
			name: "with bearer token",
			bundle: models.CredentialBundle{
				APIKey:            "api-key",
				APISecret:         "api-secret",
				AccessToken:       "access-token",
				AccessTokenSecret: "access-token-secret",
				BearerToken:       &bearer,
			},
		},
		{
			name: "without bearer token",
			bundle: models.CredentialBundle{
				APIKey:            "api-key",
				APISecret:         "api-secret",
				AccessToken:       "access-token",
				AccessTokenSecret: "access-token-secret",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			enc, err := codec.EncryptBundle(tc.bundle)
			if err != nil {
				t.Fatalf("EncryptBundle: %v", err)
			}
			if tc.bundle.BearerToken == nil && enc.BearerToken != nil {
				t.Error("absent bearer token became present after encrypt")
			}

			dec, err := codec.DecryptBundle(enc)
			if err != nil {
				t.Fatalf("DecryptBundle: %v", err)
			}
			if dec.APIKey != tc.bundle.APIKey ||
				dec.APISecret != tc.bundle.APISecret ||
				dec.AccessToken != tc.bundle.AccessToken ||
				dec.AccessTokenSecret != tc.bundle.AccessTokenSecret {
				t.Errorf("round trip mismatch: %+v", dec)
			}
			switch {
			case tc.bundle.BearerToken == nil:
				if dec.BearerToken != nil {
					t.Error("absent bearer token became present after decrypt")
				}
			default:
				if dec.BearerToken == nil || *dec.BearerToken != *tc.bundle.BearerToken {
					t.Errorf("bearer token round trip mismatch: %v", dec.BearerToken)
				}
			}
		})
	}
}

func TestDecryptBundle_EmptyFields(t *testing.T) {
	codec, _ := New("test-key")

	// A settings row can exist with never-set fields; decrypt must not fail.
	dec, err := codec.DecryptBundle(models.EncryptedBundle{})
	if err != nil {
		t.Fatalf("DecryptBundle(empty): %v", err)
	}
	if dec.Configured() {
		t.Error("empty bundle reported as configured")
	}
}
