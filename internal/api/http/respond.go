package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Thebinary110/Free-L/internal/counsel"
	"github.com/Thebinary110/Free-L/internal/dataset"
	"github.com/Thebinary110/Free-L/internal/eligibility"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// respondError maps engine errors onto the wire: unknown regions and round
// columns are 404, rejected input 400, undecodable datasets 422, anything
// else 500.
func respondError(w http.ResponseWriter, err error) {
	var (
		invalid  *counsel.InvalidInputError
		badQuery *eligibility.InvalidQueryError
		noRegion *dataset.RegionNotFoundError
		noColumn *dataset.ColumnNotFoundError
		schema   *dataset.SchemaError
	)
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &invalid), errors.As(err, &badQuery):
		status = http.StatusBadRequest
	case errors.As(err, &noRegion), errors.As(err, &noColumn):
		status = http.StatusNotFound
	case errors.As(err, &schema):
		status = http.StatusUnprocessableEntity
	}
	respondJSON(w, status, map[string]string{"error": err.Error()})
}
