package server

import (
	"encoding/json"
	"net/http"
)

// errorBody is the machine-readable error envelope every failure is
// rendered as; raw errors never cross the service boundary.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// writeJSON renders payload as pretty-printed JSON with the service's
// content type.
func writeJSON(w http.ResponseWriter, payload any, status int) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		// marshaling plain maps and structs cannot fail in practice
		http.Error(w, "encoding failure", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

// writeError renders the error taxonomy entry code with a human message.
func writeError(w http.ResponseWriter, code, message string, status int) {
	writeJSON(w, errorBody{Error: code, Message: message}, status)
}
