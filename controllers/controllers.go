// Package controllers holds the HTTP handlers. Controllers decode the
// request, call one service method and write the response; every error
// is converted to a status code exactly once, here.
package controllers

import (
	"encoding/json"
	"net/http"

	"ember_server/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps err to its HTTP status and writes a human-readable
// body. Internal details never reach the client: for 5xx statuses the
// message replaces the error text entirely.
func writeError(w http.ResponseWriter, err error, message string) {
	status := apperr.Status(err)
	if message == "" {
		message = err.Error()
	}
	if status >= http.StatusInternalServerError {
		message = "internal error, please retry"
	}
	writeJSON(w, status, map[string]string{"error": message})
}
