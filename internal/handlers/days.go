package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hard75/internal/completion"
	"hard75/internal/models"
	"hard75/internal/store"
	syncer "hard75/internal/sync"
)

type DaysHandler struct {
	days store.DayStore
	sync syncer.Syncer
}

func NewDaysHandler(days store.DayStore, sync syncer.Syncer) *DaysHandler {
	return &DaysHandler{days: days, sync: sync}
}

func dayNumberParam(r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "dayNumber"))
	if err != nil || n < 1 || n > completion.TotalDays {
		return 0, false
	}
	return n, true
}

func (h *DaysHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int)
	records, err := h.days.AllForUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []models.DayRecord{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

func (h *DaysHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int)
	dayNumber, ok := dayNumberParam(r)
	if !ok {
		http.Error(w, "invalid day number", http.StatusBadRequest)
		return
	}
	rec, err := h.days.Day(r.Context(), userID, dayNumber)
	if err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	if rec == nil {
		// Absent is not an error; the client gets a blank day to fill in.
		rec = &models.DayRecord{DayNumber: dayNumber, UserID: userID}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

type dayUpdateRequest struct {
	Diet               *bool           `json:"diet"`
	Reading            *bool           `json:"reading"`
	NoAlcohol          *bool           `json:"no_alcohol"`
	WaterIntake        *float64        `json:"water_intake"`
	ProgressPictureURL *string         `json:"progress_picture_url"`
	Weight             *float64        `json:"weight"`
	IndoorWorkout      *models.Workout `json:"indoor_workout"`
	OutdoorWorkout     *models.Workout `json:"outdoor_workout"`
}

// Upsert applies a partial task update to one day. The record is created on
// first interaction; the completed flag is recomputed from the task fields
// on every write.
func (h *DaysHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int)
	dayNumber, ok := dayNumberParam(r)
	if !ok {
		http.Error(w, "invalid day number", http.StatusBadRequest)
		return
	}
	var req dayUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if req.WaterIntake != nil && *req.WaterIntake < 0 {
		http.Error(w, "invalid water intake", http.StatusBadRequest)
		return
	}

	rec, err := h.days.Day(r.Context(), userID, dayNumber)
	if err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	if rec == nil {
		rec = &models.DayRecord{DayNumber: dayNumber, UserID: userID}
	}

	if req.Diet != nil {
		rec.Diet = *req.Diet
	}
	if req.Reading != nil {
		rec.Reading = *req.Reading
	}
	if req.NoAlcohol != nil {
		rec.NoAlcohol = *req.NoAlcohol
	}
	if req.WaterIntake != nil {
		rec.WaterIntake = *req.WaterIntake
	}
	if req.ProgressPictureURL != nil {
		rec.ProgressPictureURL = req.ProgressPictureURL
	}
	if req.Weight != nil {
		rec.Weight = req.Weight
	}
	if req.IndoorWorkout != nil {
		rec.IndoorWorkout = req.IndoorWorkout
	}
	if req.OutdoorWorkout != nil {
		rec.OutdoorWorkout = req.OutdoorWorkout
	}
	rec.Completed = completion.IsCompleted(*rec)

	if err := h.days.Upsert(r.Context(), *rec); err != nil {
		http.Error(w, "could not save", http.StatusInternalServerError)
		return
	}
	if req.Weight != nil {
		if _, err := h.sync.UpdateWeightLost(r.Context(), userID, false); err != nil {
			http.Error(w, "could not update weight lost", http.StatusInternalServerError)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

type weightRequest struct {
	Weight float64 `json:"weight"`
}

func (h *DaysHandler) UpdateWeight(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int)
	dayNumber, ok := dayNumberParam(r)
	if !ok {
		http.Error(w, "invalid day number", http.StatusBadRequest)
		return
	}
	var req weightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Weight <= 0 {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := h.days.UpdateWeight(r.Context(), userID, dayNumber, req.Weight); err != nil {
		http.Error(w, "could not save weight", http.StatusInternalServerError)
		return
	}
	lost, err := h.sync.UpdateWeightLost(r.Context(), userID, false)
	if err != nil {
		http.Error(w, "could not update weight lost", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"weight": req.Weight, "weight_lost": lost})
}

// Weights feeds the weight chart: all recorded weights in day order plus
// the day-over-day deltas.
func (h *DaysHandler) Weights(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int)
	records, err := h.days.AllForUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	weights := []float64{}
	for _, rec := range records {
		if rec.Weight != nil {
			weights = append(weights, *rec.Weight)
		}
	}
	changes := []float64{}
	for i := 1; i < len(weights); i++ {
		changes = append(changes, weights[i]-weights[i-1])
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"weights": weights, "daily_changes": changes})
}

func (h *DaysHandler) Photos(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int)
	photos, err := h.days.ProgressPictures(r.Context(), userID)
	if err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	if photos == nil {
		photos = []models.ProgressPicture{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(photos)
}
