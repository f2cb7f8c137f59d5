package http

import (
	"encoding/json"
	"net/http"

	"github.com/Thebinary110/Free-L/internal/counsel"
)

// QueryPayload is the wire form of an eligibility query. Round names a
// closing-rank column from the state's metadata.
type QueryPayload struct {
	State    string `json:"state"`
	Quota    string `json:"quota,omitempty"`
	Category string `json:"category,omitempty"`
	Round    string `json:"round"`
	Rank     int    `json:"rank,omitempty"`
	MinRank  int    `json:"min_rank,omitempty"`
	MaxRank  int    `json:"max_rank,omitempty"`
	Search   string `json:"search,omitempty"`
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
}

func (p QueryPayload) request() counsel.QueryRequest {
	return counsel.QueryRequest{
		Region:   p.State,
		Quota:    p.Quota,
		Category: p.Category,
		Round:    p.Round,
		Rank:     p.Rank,
		MinRank:  p.MinRank,
		MaxRank:  p.MaxRank,
		Search:   p.Search,
		Page:     p.Page,
		PageSize: p.PageSize,
	}
}

// QueryCollegesHandler runs one eligibility search and returns the total
// match count plus the requested page.
func QueryCollegesHandler(svc *counsel.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req QueryPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
			return
		}
		res, err := svc.QueryEligible(r.Context(), req.request())
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, res)
	}
}

// StatisticsHandler summarizes the full match set of a query: count, mean
// and best closing rank, the rank distribution, and the top colleges.
func StatisticsHandler(svc *counsel.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req QueryPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
			return
		}
		sum, err := svc.Statistics(r.Context(), req.request())
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, sum)
	}
}
