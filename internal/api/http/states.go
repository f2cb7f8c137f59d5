// internal/api/http/states.go
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Thebinary110/Free-L/internal/counsel"
)

// ListStatesHandler serves the region index.
func ListStatesHandler(svc *counsel.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		states, err := svc.Regions(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"states": states})
	}
}

// StateMetadataHandler serves one region's column, category, quota and
// round summary.
func StateMetadataHandler(svc *counsel.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meta, err := svc.Metadata(r.Context(), chi.URLParam(r, "state"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, meta)
	}
}

func StateQuotasHandler(svc *counsel.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meta, err := svc.Metadata(r.Context(), chi.URLParam(r, "state"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"quotas": meta.Quotas})
	}
}

func StateCategoriesHandler(svc *counsel.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meta, err := svc.Metadata(r.Context(), chi.URLParam(r, "state"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"categories": meta.Categories})
	}
}

func StateRoundsHandler(svc *counsel.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meta, err := svc.Metadata(r.Context(), chi.URLParam(r, "state"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"rounds": meta.Rounds})
	}
}
