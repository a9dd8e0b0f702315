package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"inkwell/app/models"
	"inkwell/app/repositories"
	"inkwell/app/services"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Success: true, Message: message})
}

// respondError maps a domain error onto the envelope. Anything outside
// the known taxonomy becomes a generic 500 so store internals never
// reach the client.
func respondError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError

	status := http.StatusInternalServerError
	body := Response{Success: false, Message: "internal server error"}

	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		body.Message = "validation failed"
		body.Errors = verr.Messages
	case errors.Is(err, repositories.ErrNotFound):
		status = http.StatusNotFound
		body.Message = err.Error()
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
		body.Message = err.Error()
	case errors.Is(err, services.ErrUnauthorized):
		status = http.StatusUnauthorized
		body.Message = err.Error()
	case errors.Is(err, repositories.ErrConflict):
		status = http.StatusConflict
		body.Message = err.Error()
	default:
		log.Printf("unhandled error: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondBadRequest(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(Response{Success: false, Message: message})
}
