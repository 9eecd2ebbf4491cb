package middleware

import (
	"encoding/json"
	"net/http"
)

// errorBody matches the error envelope written by the API handlers.
type errorBody struct {
	StatusCode    int    `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{StatusCode: status, StatusMessage: msg})
}
