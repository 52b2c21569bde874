package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"tubecert-service/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type okWithIDResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id"`
}

// writeServiceError maps domain errors onto status codes. Anything
// unrecognized is a backend failure: logged server-side, surfaced as a
// generic 500 so internal detail never leaks.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidURL):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid YouTube URL"})
	case errors.Is(err, domain.ErrInvalidPayload):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	case errors.Is(err, domain.ErrInvalidQuizData):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid quiz data"})
	case errors.Is(err, domain.ErrQuizNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "quiz not found in cache"})
	case errors.Is(err, domain.ErrCertificateNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, domain.ErrNotOwner), errors.Is(err, domain.ErrNotServerIssued):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing or invalid Authorization header"})
	default:
		log.Printf("%s %s failed: %v", r.Method, r.URL.Path, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeMethodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
