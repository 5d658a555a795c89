package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carsharing/carsharing/internal/handler/dto"
	"github.com/carsharing/carsharing/internal/model"
	"github.com/carsharing/carsharing/internal/service"
)

// CarHandler handles HTTP requests for the relational car store.
type CarHandler struct {
	svc    *service.CarService
	logger *slog.Logger
}

// NewCarHandler creates a new CarHandler.
func NewCarHandler(svc *service.CarService, logger *slog.Logger) *CarHandler {
	return &CarHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /api/cars.
func (h *CarHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := model.CarFilter{Size: query.Get("size")}
	if d := query.Get("doors"); d != "" {
		doors, err := parseCarID("doors", d)
		if err != nil {
			handleError(w, h.logger, 0, err)
			return
		}
		filter.MinDoors = int(doors)
	}

	cars, err := h.svc.ListCars(r.Context(), filter)
	if err != nil {
		handleError(w, h.logger, 0, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToCarListResponse(cars))
}

// Get handles GET /api/cars/{id}.
func (h *CarHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseCarID("id", chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, h.logger, 0, err)
		return
	}

	car, err := h.svc.GetCar(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, id, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToCarDetailResponse(car))
}

// Create handles POST /api/cars/.
func (h *CarHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CarRequest
	if err := dto.Decode(r.Body, &req); err != nil {
		handleError(w, h.logger, 0, err)
		return
	}

	car, err := h.svc.CreateCar(r.Context(), req.ToInput())
	if err != nil {
		handleError(w, h.logger, 0, err)
		return
	}

	h.logger.Info("car_created",
		"car_id", car.ID,
		"size", car.Size,
	)

	writeJSON(w, http.StatusCreated, dto.ToCarResponse(car))
}

// Replace handles PUT /api/cars/{id}.
func (h *CarHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id, err := parseCarID("id", chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, h.logger, 0, err)
		return
	}

	var req dto.CarRequest
	if err := dto.Decode(r.Body, &req); err != nil {
		handleError(w, h.logger, id, err)
		return
	}

	car, err := h.svc.ReplaceCar(r.Context(), id, req.ToInput())
	if err != nil {
		handleError(w, h.logger, id, err)
		return
	}

	h.logger.Info("car_updated", "car_id", car.ID)

	writeJSON(w, http.StatusOK, dto.ToCarDetailResponse(car))
}

// Delete handles DELETE /api/cars/{id}.
func (h *CarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseCarID("id", chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, h.logger, 0, err)
		return
	}

	if err := h.svc.DeleteCar(r.Context(), id); err != nil {
		handleError(w, h.logger, id, err)
		return
	}

	h.logger.Info("car_deleted", "car_id", id)

	w.WriteHeader(http.StatusNoContent)
}
