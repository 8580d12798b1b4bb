package api

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the body of every failed trigger call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CheckResponse is the body of a successful trigger call.
type CheckResponse struct {
	Status  string `json:"status"`
	Found   int    `json:"found"`
	Summary string `json:"summary"`
}

func WriteError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

func WriteUnauthorized(w http.ResponseWriter) {
	WriteError(w, http.StatusUnauthorized, "Unauthorized")
}

func WriteOK(w http.ResponseWriter, found int, summary string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(CheckResponse{Status: "ok", Found: found, Summary: summary})
}
