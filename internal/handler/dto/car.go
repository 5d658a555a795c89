// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import "github.com/carsharing/carsharing/internal/model"

// CarRequest is the body of POST /api/cars/ and PUT /api/cars/{id}.
// Pointers distinguish an omitted field from a zero value. Doors is bounded
// by the INTEGER column it is stored in.
type CarRequest struct {
	Size         *string `json:"size" validate:"required"`
	Fuel         *string `json:"fuel"`
	Doors        *int    `json:"doors" validate:"required,min=-2147483648,max=2147483647"`
	Transmission *string `json:"transmission"`
}

// ToInput converts a validated request to the domain input.
// A missing or null fuel/transmission is left empty so defaults apply.
func (r *CarRequest) ToInput() model.CarInput {
	return model.CarInput{
		Size:         deref(r.Size),
		Fuel:         deref(r.Fuel),
		Doors:        derefInt(r.Doors),
		Transmission: deref(r.Transmission),
	}
}

// CarResponse represents a car in API responses.
type CarResponse struct {
	ID           int64  `json:"id"`
	Size         string `json:"size"`
	Fuel         string `json:"fuel"`
	Doors        int    `json:"doors"`
	Transmission string `json:"transmission"`
}

// CarDetailResponse is a car with its trip list.
// Cars served from the relational store always carry an empty list.
type CarDetailResponse struct {
	CarResponse
	Trips []TripResponse `json:"trips"`
}

// ToCarResponse converts a Car model to CarResponse DTO.
func ToCarResponse(car *model.Car) *CarResponse {
	return &CarResponse{
		ID:           car.ID,
		Size:         car.Size,
		Fuel:         car.Fuel,
		Doors:        car.Doors,
		Transmission: car.Transmission,
	}
}

// ToCarDetailResponse converts a Car model to CarDetailResponse DTO.
func ToCarDetailResponse(car *model.Car) *CarDetailResponse {
	return &CarDetailResponse{
		CarResponse: *ToCarResponse(car),
		Trips:       []TripResponse{},
	}
}

// ToCarListResponse converts a slice of Car models to response DTOs.
func ToCarListResponse(cars []*model.Car) []CarResponse {
	responses := make([]CarResponse, len(cars))
	for i, car := range cars {
		responses[i] = *ToCarResponse(car)
	}
	return responses
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
