package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"hard75/internal/remote"
)

type FeedbackHandler struct {
	remote remote.Store
}

func NewFeedbackHandler(rem remote.Store) *FeedbackHandler {
	return &FeedbackHandler{remote: rem}
}

type feedbackRequest struct {
	Text string `json:"text"`
}

func (h *FeedbackHandler) Post(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int)
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	fb := remote.Feedback{
		UserID:    userID,
		Text:      strings.TrimSpace(req.Text),
		Timestamp: time.Now().UnixMilli(),
	}
	if err := h.remote.SaveFeedback(r.Context(), fb); err != nil {
		http.Error(w, "could not save feedback", http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
