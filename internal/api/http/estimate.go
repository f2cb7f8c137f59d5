package http

import (
	"encoding/json"
	"net/http"

	"github.com/Thebinary110/Free-L/internal/counsel"
)

// EstimateRankHandler maps a raw exam score and reservation category to an
// estimated all-India rank.
func EstimateRankHandler(svc *counsel.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Score    float64 `json:"score"`
			Category string  `json:"category,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"score":          req.Score,
			"category":       req.Category,
			"estimated_rank": svc.EstimateRank(req.Score, req.Category),
		})
	}
}

// RecommendHandler chains estimation and eligibility: estimate a rank from
// the score, then list the top colleges that admit it.
func RecommendHandler(svc *counsel.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Score    float64 `json:"score"`
			Category string  `json:"category,omitempty"`
			State    string  `json:"state"`
			Quota    string  `json:"quota,omitempty"`
			Round    string  `json:"round"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
			return
		}
		rec, err := svc.Recommend(r.Context(), counsel.RecommendRequest{
			Score:    req.Score,
			Category: req.Category,
			Region:   req.State,
			Quota:    req.Quota,
			Round:    req.Round,
		})
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, rec)
	}
}
