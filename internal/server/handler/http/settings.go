package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dkoval/postline/internal/apperr"
	"github.com/dkoval/postline/internal/middleware"
	"github.com/dkoval/postline/internal/models"
)

// SettingsService defines the credential-settings operations required by
// the SettingsHandler.
type SettingsService interface {
	Save(ctx context.Context, userID string, bundle models.CredentialBundle) error
	Get(ctx context.Context, userID string) (*models.CredentialBundle, bool, error)
}

// SettingsHandler handles HTTP requests for the caller's X API credentials.
type SettingsHandler struct {
	SettingsService SettingsService
}

// Save handles PUT /api/settings requests. The bundle is overwritten
// wholesale; there are no partial updates.
func (h *SettingsHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var bundle models.CredentialBundle
	if err := json.NewDecoder(r.Body).Decode(&bundle); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if err := h.SettingsService.Save(r.Context(), userID, bundle); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Get handles GET /api/settings requests, returning the caller's decrypted
// credentials and whether all required fields are configured. A user with
// no saved settings gets an empty, unconfigured response rather than a 404.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	bundle, configured, err := h.SettingsService.Get(r.Context(), userID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"settings":   models.CredentialBundle{},
				"configured": false,
			})
			return
		}
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"settings":   bundle,
		"configured": configured,
	})
}
