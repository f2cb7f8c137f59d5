package http

import (
	"net/http"

	"github.com/Thebinary110/Free-L/internal/counsel"
)

// RefreshMetadataHandler drops every cached table and summary and rebuilds
// the metadata cache from the source.
func RefreshMetadataHandler(svc *counsel.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Refresh(r.Context()); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{
			"status":  "success",
			"message": "metadata cache refreshed",
		})
	}
}
