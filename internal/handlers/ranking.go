package handlers

import (
	"encoding/json"
	"net/http"
	"sort"

	"hard75/internal/remote"
)

type RankingHandler struct {
	remote remote.Store
}

func NewRankingHandler(rem remote.Store) *RankingHandler {
	return &RankingHandler{remote: rem}
}

type rankingEntry struct {
	Rank       int     `json:"rank"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	City       string  `json:"city"`
	WeightLost float64 `json:"weight_lost"`
}

// Get returns the leaderboard, every synced user ordered by weight lost.
// The remote store is the replica of record here so rankings span devices.
func (h *RankingHandler) Get(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.remote.AllProfiles(r.Context())
	if err != nil {
		http.Error(w, "could not fetch ranking", http.StatusBadGateway)
		return
	}
	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].WeightLost > profiles[j].WeightLost
	})
	out := make([]rankingEntry, 0, len(profiles))
	for i, p := range profiles {
		out = append(out, rankingEntry{
			Rank:       i + 1,
			FirstName:  p.FirstName,
			LastName:   p.LastName,
			City:       p.City,
			WeightLost: p.WeightLost,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}
