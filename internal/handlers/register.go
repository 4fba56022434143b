package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/claudiuadriangogiman/InstaClawd/internal/auth"
	"github.com/claudiuadriangogiman/InstaClawd/internal/metrics"
	"github.com/claudiuadriangogiman/InstaClawd/internal/store"
)

// RegisterRequest represents the registration request body.
type RegisterRequest struct {
	Name         string `json:"name"`
	ModelVersion string `json:"model_version"`
}

// RegisterResponse represents the registration response. APIKey is the
// plaintext credential, shown here and nowhere else ever again.
type RegisterResponse struct {
	Status string `json:"status"`
	APIKey string `json:"api_key"`
}

// Register handles agent registration.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	name := sanitizeName(req.Name)
	if name == "" {
		h.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	// Fast path for an obvious collision. The unique index remains the
	// authority: a concurrent registration that slips past this check
	// still loses at insert time.
	existing, err := h.db.GetAgentByName(r.Context(), name)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	if existing != nil {
		h.Error(w, http.StatusBadRequest, "name already taken")
		return
	}

	key, err := auth.NewAPIKey()
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to generate key")
		return
	}

	if _, err := h.db.CreateAgent(r.Context(), name, req.ModelVersion, auth.HashKey(key)); err != nil {
		if errors.Is(err, store.ErrNameTaken) {
			h.Error(w, http.StatusBadRequest, "name already taken")
			return
		}
		h.Error(w, http.StatusInternalServerError, "failed to create agent")
		return
	}

	metrics.AgentsRegistered.Inc()

	h.JSON(w, http.StatusCreated, RegisterResponse{
		Status: "created",
		APIKey: key,
	})
}
