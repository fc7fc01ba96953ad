package utils

import (
	"encoding/json"
	"net/http"

	"solemart/apperr"
)

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]string{"message": msg})
}

// RespondWithAppError maps a taxonomy error to its HTTP status. The message
// is the error's own text so the UI can distinguish each failure.
func RespondWithAppError(w http.ResponseWriter, err error) {
	code := apperr.StatusCode(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "Server error"
	}
	RespondWithError(w, code, msg)
}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

type M map[string]interface{}
