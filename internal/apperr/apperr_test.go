package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dkoval/postline/internal/apperr"
)

func TestError_Message(t *testing.T) {
	e := apperr.E(apperr.KindPublish, "posting failed", errors.New("429 too many requests"))
	want := "posting failed: 429 too many requests"
	if e.Error() != want {
		t.Errorf("Error() = %q; want %q", e.Error(), want)
	}

	bare := apperr.E(apperr.KindAuth, "user not authenticated", nil)
	if bare.Error() != "user not authenticated" {
		t.Errorf("Error() = %q; want %q", bare.Error(), "user not authenticated")
	}
}

func TestIsKind_ThroughWrapping(t *testing.T) {
	inner := apperr.E(apperr.KindDecryption, "decrypt access token", errors.New("cipher: message authentication failed"))
	wrapped := fmt.Errorf("failed to publish post: %w", inner)

	if !apperr.IsKind(wrapped, apperr.KindDecryption) {
		t.Error("IsKind(wrapped, KindDecryption) = false; want true")
	}
	if apperr.IsKind(wrapped, apperr.KindPublish) {
		t.Error("IsKind(wrapped, KindPublish) = true; want false")
	}
}

func TestIsKind_NestedKinds(t *testing.T) {
	cause := apperr.E(apperr.KindNotFound, "post not found", nil)
	outer := apperr.E(apperr.KindStore, "load post", cause)

	if !apperr.IsKind(outer, apperr.KindStore) {
		t.Error("outer kind not detected")
	}
	if !apperr.IsKind(outer, apperr.KindNotFound) {
		t.Error("nested kind not detected")
	}
}

func TestKindOf(t *testing.T) {
	if got := apperr.KindOf(errors.New("plain")); got != apperr.KindStore {
		t.Errorf("KindOf(plain) = %v; want store", got)
	}
	err := fmt.Errorf("wrap: %w", apperr.E(apperr.KindConfiguration, "no key", nil))
	if got := apperr.KindOf(err); got != apperr.KindConfiguration {
		t.Errorf("KindOf = %v; want configuration", got)
	}
}

func TestKindString(t *testing.T) {
	if apperr.KindPublish.String() != "publish" {
		t.Errorf("unexpected label %q", apperr.KindPublish.String())
	}
}
