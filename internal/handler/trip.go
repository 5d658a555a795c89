package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carsharing/carsharing/internal/handler/dto"
	"github.com/carsharing/carsharing/internal/service"
)

// TripHandler handles HTTP requests that append trips to the ledger.
type TripHandler struct {
	svc    *service.TripService
	logger *slog.Logger
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(svc *service.TripService, logger *slog.Logger) *TripHandler {
	return &TripHandler{
		svc:    svc,
		logger: logger,
	}
}

// Add handles POST /api/cars/{car_id}/trips.
func (h *TripHandler) Add(w http.ResponseWriter, r *http.Request) {
	carID, err := parseID("car_id", chi.URLParam(r, "car_id"))
	if err != nil {
		handleError(w, h.logger, 0, err)
		return
	}

	var req dto.TripRequest
	if err := dto.Decode(r.Body, &req); err != nil {
		handleError(w, h.logger, carID, err)
		return
	}

	trip, err := h.svc.AddTrip(r.Context(), carID, req.ToInput())
	if err != nil {
		handleError(w, h.logger, carID, err)
		return
	}

	h.logger.Info("trip_added",
		"car_id", carID,
		"trip_id", trip.ID,
	)

	writeJSON(w, http.StatusOK, dto.ToTripResponse(trip))
}
