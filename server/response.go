package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/difyops/difybridge/dify"
)

// ErrorKind is the machine-readable failure classification exposed to
// API consumers.
type ErrorKind string

const (
	KindBadRequest       ErrorKind = "bad_request"
	KindUnauthenticated  ErrorKind = "unauthenticated"
	KindNotFound         ErrorKind = "not_found"
	KindRequestRejected  ErrorKind = "request_rejected"
	KindUnreachable      ErrorKind = "upstream_unreachable"
	KindUpstreamError    ErrorKind = "upstream_error"
	KindMalformedPayload ErrorKind = "malformed_upstream_response"
	KindInternal         ErrorKind = "internal_error"
)

// errorResponse is the error body shape: {"error": kind, "message": ...}.
type errorResponse struct {
	Error   ErrorKind `json:"error"`
	Message string    `json:"message"`
}

// writeJSON sends a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError sends an error body with the given kind.
func writeError(w http.ResponseWriter, status int, kind ErrorKind, message string) {
	writeJSON(w, status, errorResponse{Error: kind, Message: message})
}

// writeClientError maps a dify client error onto an HTTP status and kind.
// Upstream bodies are never forwarded on failure paths so credentials or
// internal detail from the backend cannot leak.
func writeClientError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	switch {
	case errors.Is(err, dify.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, KindUnauthenticated, "invalid credentials")
	case errors.Is(err, dify.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, KindUnauthenticated, "not authenticated, call /login first")
	case errors.Is(err, dify.ErrNotFound):
		writeError(w, http.StatusNotFound, KindNotFound, "resource not found")
	case errors.Is(err, dify.ErrUnreachable):
		logger.Error().Err(err).Msg("Dify backend unreachable")
		writeError(w, http.StatusBadGateway, KindUnreachable, "dify backend unreachable")
	case errors.Is(err, dify.ErrMalformedResponse):
		logger.Error().Err(err).Msg("Malformed response from Dify backend")
		writeError(w, http.StatusBadGateway, KindMalformedPayload, "dify backend returned an unreadable response")
	case errors.Is(err, dify.ErrInvalidConfig):
		writeError(w, http.StatusBadRequest, KindBadRequest, err.Error())
	default:
		var apiErr *dify.APIError
		if errors.As(err, &apiErr) {
			if apiErr.IsServerError() {
				logger.Error().Int("status", apiErr.StatusCode).Msg("Dify server error")
				writeError(w, http.StatusBadGateway, KindUpstreamError, "dify backend error")
				return
			}
			// Remaining 4xx: the caller's request was rejected upstream.
			writeError(w, http.StatusUnprocessableEntity, KindRequestRejected, apiErr.Message)
			return
		}
		logger.Error().Err(err).Msg("Unhandled error")
		writeError(w, http.StatusInternalServerError, KindInternal, "internal error")
	}
}
