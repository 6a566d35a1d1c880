// Package response provides shared JSON response helpers for HTTP handlers.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/bucketdrop/service/internal/apperr"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Success *bool  `json:"success,omitempty"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// JSON writes a JSON-encoded payload with the given HTTP status code.
func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// OK writes a 200 response.
func OK(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// Created writes a 201 response.
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

// Error writes an error response with the given status, message and optional details.
func Error(w http.ResponseWriter, status int, message, details string) {
	JSON(w, status, ErrorBody{Error: message, Details: details})
}

// BadRequest writes a 400 response.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message, "")
}

// Unauthorized writes a 401 response.
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message, "")
}

// NotFound writes a 404 response.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message, "")
}

// FromError maps a classified error to its status code. Server-side failures use
// fallback as the message and carry the backend text in details.
func FromError(w http.ResponseWriter, err error, fallback string) {
	JSON(w, statusOf(err), body(err, fallback))
}

// Failed is FromError with an explicit success:false flag, used by endpoints
// whose success responses also carry the flag.
func Failed(w http.ResponseWriter, err error, fallback string) {
	b := body(err, fallback)
	f := false
	b.Success = &f
	JSON(w, statusOf(err), b)
}

func statusOf(err error) int {
	return apperr.HTTPStatus(apperr.KindOf(err))
}

func body(err error, fallback string) ErrorBody {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindNotFound:
		return ErrorBody{Error: apperr.Message(err, fallback)}
	default:
		return ErrorBody{Error: fallback, Details: apperr.Details(err)}
	}
}
