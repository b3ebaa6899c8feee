// Package apperr defines the tagged error kinds used across the publishing
// pipeline, so callers can branch on kind instead of parsing messages.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error raised during a publish attempt.
type Kind int

const (
	// KindAuth indicates a missing or invalid caller identity.
	KindAuth Kind = iota
	// KindConfiguration indicates a missing encryption key or missing or
	// incomplete credentials.
	KindConfiguration
	// KindDecryption indicates stored credentials that cannot be decrypted.
	KindDecryption
	// KindPublish indicates the external service rejected the post or was
	// unreachable.
	KindPublish
	// KindNotFound indicates a referenced post or credential record is absent.
	KindNotFound
	// KindStore indicates a document store read or write failure.
	KindStore
)

// String returns the kind's label for log output.
func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindConfiguration:
		return "configuration"
	case KindDecryption:
		return "decryption"
	case KindPublish:
		return "publish"
	case KindNotFound:
		return "not_found"
	case KindStore:
		return "store"
	}
	return "unknown"
}

// Error is a kind-tagged error carrying an optional wrapped cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// E builds an Error. err may be nil when there is no underlying cause.
func E(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err or any error it wraps carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Kind == kind {
			return true
		}
		err = e.Err
		e = nil
	}
	return false
}

// KindOf returns the kind of the outermost tagged error, or KindStore
// when err carries no tag.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStore
}
