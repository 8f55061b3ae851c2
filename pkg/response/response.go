// Package response writes the JSON envelope used by every endpoint:
// {status, message, data} on success and {status, message, details} on error.
package response

import (
	"encoding/json"
	"net/http"
)

// Envelope is the wire shape shared by success and error responses.
type Envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// Write serialises an envelope with the given HTTP status.
func Write(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Success sends a 200 with message and data.
func Success(w http.ResponseWriter, message string, data interface{}) {
	Write(w, http.StatusOK, Envelope{Status: http.StatusOK, Message: message, Data: data})
}

// Created sends a 201 with message and data.
func Created(w http.ResponseWriter, message string, data interface{}) {
	Write(w, http.StatusCreated, Envelope{Status: http.StatusCreated, Message: message, Data: data})
}

// Error sends an error envelope with optional details.
func Error(w http.ResponseWriter, status int, message string, details ...interface{}) {
	env := Envelope{Status: status, Message: message}
	if len(details) > 0 {
		env.Details = details[0]
	}
	Write(w, status, env)
}

// ValidationError sends a 400 with a field-level error map, matching how the
// API reports malformed request bodies.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	Error(w, http.StatusBadRequest, "Error de validación", errs)
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "No autenticado")
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, "No autorizado")
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "Recurso no encontrado")
}
