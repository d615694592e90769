package httpkit

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the failure shape of every endpoint: "error" carries the raw
// error message, "code" the machine-readable category.
type ErrorBody struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func WriteErr(w http.ResponseWriter, status int, code, msg string, details map[string]any) {
	WriteJSON(w, status, ErrorBody{
		Error:   msg,
		Code:    code,
		Details: details,
	})
}
