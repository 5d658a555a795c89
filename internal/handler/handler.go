// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/carsharing/carsharing/internal/handler/dto"
	"github.com/carsharing/carsharing/internal/service"
)

// Version is reported by the service info endpoint.
const Version = "0.1.0"

// Handler serves the routes that are not tied to a resource.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// Hello reports the service name and version.
// GET /
func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"message": "Car sharing API",
		"version": Version,
	}
	writeJSON(w, http.StatusOK, response)
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, dto.ErrorResponse{
		Error: "resource not found",
		Code:  "NOT_FOUND",
	})
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, dto.ErrorResponse{
		Error: "method not allowed",
		Code:  "METHOD_NOT_ALLOWED",
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("response_encode_failed", "error", err)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// parseID reads an integer path or query value. Failures are reported as
// validation errors on name.
func parseID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, dto.NewValidationError(name, "value is not a valid integer")
	}
	return id, nil
}

// parseCarID is parseID limited to the range of the cars INTEGER columns.
// Larger values cannot be stored, so they are rejected before reaching the
// database.
func parseCarID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 32)
	if errors.Is(err, strconv.ErrRange) {
		return 0, dto.NewValidationError(name, "value is out of range")
	}
	if err != nil {
		return 0, dto.NewValidationError(name, "value is not a valid integer")
	}
	return id, nil
}

// handleError maps service and decoding errors to HTTP responses.
// carID is used for the not-found message.
func handleError(w http.ResponseWriter, logger *slog.Logger, carID int64, err error) {
	var validationErr *dto.ValidationError
	var maxErr *http.MaxBytesError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:   "Invalid request",
			Code:    "VALIDATION_ERROR",
			Details: validationErr.Fields,
		})
	case errors.As(err, &maxErr):
		writeError(w, http.StatusRequestEntityTooLarge, "REQUEST_TOO_LARGE", "Request body too large")
	case errors.Is(err, service.ErrCarNotFound):
		writeError(w, http.StatusNotFound, "CAR_NOT_FOUND", fmt.Sprintf("No car with id=%d.", carID))
	default:
		logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
