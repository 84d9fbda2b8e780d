package handlers

import (
	"encoding/json"
	"net/http"

	"hard75/internal/progress"
)

type NotificationsHandler struct {
	clock *progress.Clock
}

func NewNotificationsHandler(clock *progress.Clock) *NotificationsHandler {
	return &NotificationsHandler{clock: clock}
}

func (h *NotificationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int)
	enabled, err := h.clock.NotificationsEnabled(r.Context(), userID)
	if err != nil {
		http.Error(w, "could not read setting", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"enabled": enabled})
}

func (h *NotificationsHandler) Put(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int)
	var req struct {
		Enabled *bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := h.clock.SetNotificationsEnabled(r.Context(), userID, *req.Enabled); err != nil {
		http.Error(w, "could not save setting", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
