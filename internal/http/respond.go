package httpx

import (
	"encoding/json"
	"net/http"
)

// response is the JSON envelope shared by every endpoint.
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// writeData writes a success envelope with payload.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, response{Success: true, Data: data})
}

// writeMessage writes a success envelope carrying only a message.
func writeMessage(w http.ResponseWriter, status int, msg string, data any) {
	writeJSON(w, status, response{Success: true, Message: msg, Data: data})
}

// writeError sends a failure envelope.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, response{Success: false, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
