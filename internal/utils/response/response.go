// Package response provides helpers for writing consistent HTTP responses.
//
// Every JSON body the API sends is one of two envelopes:
//
//	{ "message": "Student created successfully", "data": { ... } }
//	{ "error": "Could not find student 7", "details": null }
//
// Centralising them here keeps the shapes identical across handlers.
package response

import (
	"encoding/json"
	"net/http"
)

// Success is the envelope for every 2xx JSON response.
// Data may be nil, which encodes as null.
type Success struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Error is the envelope for every failed request. Details is text for
// general failures and a field→message object for validation failures.
type Error struct {
	Error   string `json:"error"`
	Details any    `json:"details"`
}

func OK(message string, data any) Success {
	return Success{Message: message, Data: data}
}

func Fail(message string, details any) Error {
	return Error{Error: message, Details: details}
}

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// Order matters: Header() → WriteHeader() → body. Once WriteHeader is
// called, headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteText writes a plain-text body.
func WriteText(w http.ResponseWriter, status int, body string) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write([]byte(body))
	return err
}
