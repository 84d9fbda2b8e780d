package handlers

import (
	"encoding/json"
	"net/http"

	"hard75/internal/completion"
	"hard75/internal/progress"
	"hard75/internal/store"
)

type ProgressHandler struct {
	clock *progress.Clock
	recon *progress.Reconciler
	days  store.DayStore
}

func NewProgressHandler(clock *progress.Clock, recon *progress.Reconciler, days store.DayStore) *ProgressHandler {
	return &ProgressHandler{clock: clock, recon: recon, days: days}
}

type progressResponse struct {
	CurrentDay       int   `json:"current_day"`
	StartDate        int64 `json:"start_date"`
	Started          bool  `json:"started"`
	CompletedDays    int   `json:"completed_days"`
	PriorDaysAllDone bool  `json:"prior_days_all_done"`
}

// Get returns the user's challenge position. When the challenge is started
// the day is re-derived from wall-clock time first, so the counter advances
// across sessions without anyone having to be online at midnight.
func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int)

	started, err := h.clock.Started(r.Context(), userID)
	if err != nil {
		http.Error(w, "could not read progress", http.StatusInternalServerError)
		return
	}
	var day int
	if started {
		if day, err = h.clock.UpdateFromTime(r.Context(), userID); err != nil {
			http.Error(w, "could not update day", http.StatusInternalServerError)
			return
		}
	} else {
		if day, err = h.clock.CurrentDay(r.Context(), userID); err != nil {
			http.Error(w, "could not read progress", http.StatusInternalServerError)
			return
		}
	}
	start, err := h.clock.StartDate(r.Context(), userID)
	if err != nil {
		http.Error(w, "could not read progress", http.StatusInternalServerError)
		return
	}

	records, err := h.days.AllForUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "could not fetch days", http.StatusInternalServerError)
		return
	}
	completed := 0
	for _, rec := range records {
		if completion.IsCompleted(rec) {
			completed++
		}
	}

	allDone, err := h.recon.AllCompletedBefore(r.Context(), userID, day)
	if err != nil {
		http.Error(w, "could not check history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(progressResponse{
		CurrentDay:       day,
		StartDate:        start.UnixMilli(),
		Started:          started,
		CompletedDays:    completed,
		PriorDaysAllDone: allDone,
	})
}

// Reset restarts the challenge: all day records are deleted and the clock
// goes back to day 1, starting now.
func (h *ProgressHandler) Reset(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int)
	if err := h.days.DeleteForUser(r.Context(), userID); err != nil {
		http.Error(w, "could not clear days", http.StatusInternalServerError)
		return
	}
	if err := h.clock.Reset(r.Context(), userID); err != nil {
		http.Error(w, "could not reset progress", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
