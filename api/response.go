package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/codewithus/ledgerbridge/ledger"
	"github.com/codewithus/ledgerbridge/middleware"
	"github.com/codewithus/ledgerbridge/services"
)

// actorFrom names the authenticated caller for timeline events. Requests
// that bypass auth (tests, internal tooling) are attributed to "system".
func actorFrom(r *http.Request) string {
	if claims := middleware.ClaimsFrom(r.Context()); claims != nil {
		return claims.Email
	}
	return "system"
}

type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// writeError maps domain errors onto HTTP statuses: bad input is 400,
// missing entities 404, lost races and stale state 409, failing
// collaborators 502. Anything unrecognized is a 500.
func writeError(w http.ResponseWriter, err error) {
	var validation *ledger.ValidationError
	if errors.As(err, &validation) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: validation.Message, Field: validation.Field})
		return
	}
	if errors.Is(err, ledger.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Not found"})
		return
	}
	var stale *ledger.InvalidStateError
	if errors.As(err, &stale) {
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: stale.Error()})
		return
	}
	var conflict *ledger.ConflictError
	if errors.As(err, &conflict) {
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: conflict.Error()})
		return
	}
	var remote *ledger.RemoteError
	if errors.As(err, &remote) {
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: remote.Error()})
		return
	}
	if errors.Is(err, services.ErrInvalidCredentials) {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// pathID extracts and parses the {id} route variable.
func pathID(r *http.Request) (uuid.UUID, error) {
	raw := mux.Vars(r)["id"]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ledger.NewValidationError("id", "must be a valid uuid")
	}
	return id, nil
}
