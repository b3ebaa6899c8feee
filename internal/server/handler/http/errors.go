// Package http provides the HTTP handlers and routing for the publishing
// service.
package http

import (
	"net/http"

	"github.com/dkoval/postline/internal/apperr"
)

// writeError maps an error's kind to an HTTP status and writes the
// human-readable message; the calling UI is responsible for display.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindAuth:
		status = http.StatusUnauthorized
	case apperr.KindConfiguration:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindPublish:
		status = http.StatusBadGateway
	}
	http.Error(w, err.Error(), status)
}
