// Package handlers provides HTTP handlers for the HomeLLM API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/spherical/homellm/internal/domain"
)

// StatusFor maps a domain error to an HTTP status code.
func StatusFor(err error) int {
	switch domain.TypeOf(err) {
	case domain.ErrorTypeParse:
		return http.StatusUnprocessableEntity
	case domain.ErrorTypeRemoteAnalysis:
		return http.StatusBadGateway
	case domain.ErrorTypeConfig:
		return http.StatusServiceUnavailable
	case domain.ErrorTypeValidation:
		return http.StatusBadRequest
	case domain.ErrorTypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON encodes v before writing the status so an encoding failure
// still yields a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"failed to encode response","message":"failed to encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, message, detail string) {
	resp := map[string]string{
		"error":   message,
		"message": message,
	}
	if detail != "" {
		resp["detail"] = detail
	}
	writeJSON(w, status, resp)
}

// writeDomainError surfaces the error's user message verbatim.
func writeDomainError(w http.ResponseWriter, err error) {
	detail := ""
	if t := domain.TypeOf(err); t != "" {
		detail = string(t)
	}
	writeError(w, StatusFor(err), domain.UserMessage(err), detail)
}
