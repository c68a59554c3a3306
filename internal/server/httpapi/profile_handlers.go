package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/youverse/dupliverse/internal/server/models"
)

// handleGetProfile serves GET /rest/v1/profiles/{id}. Users can only read
// their own row.
func (h *Handlers) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id != userIDFromContext(r.Context()) {
		writeError(w, http.StatusForbidden, "profiles are private")
		return
	}

	profile, err := h.profiles.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// handleCreateProfile serves POST /rest/v1/profiles. The row ID must be the
// authenticated user's ID.
func (h *Handlers) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if profile.ID == "" {
		profile.ID = userIDFromContext(r.Context())
	}
	if profile.ID != userIDFromContext(r.Context()) {
		writeError(w, http.StatusForbidden, "profiles are private")
		return
	}

	created, err := h.profiles.Create(r.Context(), &profile)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handlePatchProfile serves PATCH /rest/v1/profiles/{id}.
func (h *Handlers) handlePatchProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id != userIDFromContext(r.Context()) {
		writeError(w, http.StatusForbidden, "profiles are private")
		return
	}

	var patch models.ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.profiles.Patch(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
