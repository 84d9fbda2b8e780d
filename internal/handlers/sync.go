package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	syncer "hard75/internal/sync"
)

type SyncHandler struct {
	sync syncer.Syncer
}

func NewSyncHandler(sync syncer.Syncer) *SyncHandler {
	return &SyncHandler{sync: sync}
}

// Push uploads all local day records and the profile to the remote store.
// Being offline is a reported skip, not an error.
func (h *SyncHandler) Push(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int)
	err := h.sync.PushAll(r.Context(), userID)
	h.respond(w, err)
}

// Pull imports remote day records, reconciles the progress clock and merges
// the remote profile.
func (h *SyncHandler) Pull(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int)
	err := h.sync.PullAll(r.Context(), userID)
	h.respond(w, err)
}

func (h *SyncHandler) respond(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case errors.Is(err, syncer.ErrOffline):
		json.NewEncoder(w).Encode(map[string]string{"status": "skipped", "reason": "network unavailable"})
	case err != nil:
		http.Error(w, "sync failed", http.StatusBadGateway)
	default:
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
