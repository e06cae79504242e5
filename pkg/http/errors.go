package http

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the error body every handler writes. Error carries either
// a human-readable message or, for flows the front-end branches on, a stable
// machine-readable code (NO_SUCH_USER, ALREADY_VERIFIED, SEND_FAILED).
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Stable error codes used by the resend-verification flow.
const (
	CodeNoSuchUser      = "NO_SUCH_USER"
	CodeAlreadyVerified = "ALREADY_VERIFIED"
	CodeSendFailed      = "SEND_FAILED"
)

// WriteError writes a JSON error response with the given status code.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	// Encoding errors are not recoverable at this point
	_ = json.NewEncoder(w).Encode(ErrorResponse{Success: false, Error: message})
}

// WriteJSON writes a JSON success response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// Common error writers for consistency
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message)
}

func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message)
}

func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

func WriteConflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, message)
}

func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}
