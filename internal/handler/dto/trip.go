package dto

import "github.com/carsharing/carsharing/internal/model"

// TripRequest is the body of POST /api/cars/{car_id}/trips.
type TripRequest struct {
	Start       *int64  `json:"start" validate:"required"`
	End         *int64  `json:"end" validate:"required"`
	Description *string `json:"description" validate:"required"`
}

// ToInput converts a validated request to the domain input.
func (r *TripRequest) ToInput() model.TripInput {
	in := model.TripInput{Description: deref(r.Description)}
	if r.Start != nil {
		in.Start = *r.Start
	}
	if r.End != nil {
		in.End = *r.End
	}
	return in
}

// TripResponse represents a trip in API responses.
type TripResponse struct {
	ID          int    `json:"id"`
	Start       int64  `json:"start"`
	End         int64  `json:"end"`
	Description string `json:"description"`
}

// ToTripResponse converts a Trip model to TripResponse DTO.
func ToTripResponse(trip model.Trip) *TripResponse {
	return &TripResponse{
		ID:          trip.ID,
		Start:       trip.Start,
		End:         trip.End,
		Description: trip.Description,
	}
}
