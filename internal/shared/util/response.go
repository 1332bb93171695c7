package util

import (
	"encoding/json"
	"net/http"

	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/apperrors"
)

type successBody struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
}

type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func ResponseInJson(w http.ResponseWriter, statusCode int, data interface{}, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(successBody{Success: true, Data: data, Message: message})
}

// ErrResponseInJson answers with the status apperrors assigns to err.
func ErrResponseInJson(w http.ResponseWriter, err error) {
	WriteJSONError(w, apperrors.Message(err), apperrors.Status(err))
}

func WriteJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Success: false, Error: message})
}
