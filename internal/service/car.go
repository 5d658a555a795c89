// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/carsharing/carsharing/internal/metrics"
	"github.com/carsharing/carsharing/internal/model"
	"github.com/carsharing/carsharing/internal/repository"
)

// ErrCarNotFound is returned when the requested car id does not exist in the
// dataset an operation reads from.
var ErrCarNotFound = errors.New("car not found")

// CarStore is the relational persistence the car service needs.
// *repository.Repository satisfies it.
type CarStore interface {
	ListCars(ctx context.Context, filter model.CarFilter) ([]*model.Car, error)
	GetCar(ctx context.Context, id int64) (*model.Car, error)
	CreateCar(ctx context.Context, car *model.Car) error
	UpdateCar(ctx context.Context, car *model.Car) error
	DeleteCar(ctx context.Context, id int64) error
}

// CarService handles car business logic.
type CarService struct {
	store   CarStore
	metrics metrics.Recorder
}

// NewCarService creates a new CarService.
func NewCarService(store CarStore, recorder metrics.Recorder) *CarService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &CarService{
		store:   store,
		metrics: recorder,
	}
}

// ListCars returns every car matching filter. An empty result is not an error.
func (s *CarService) ListCars(ctx context.Context, filter model.CarFilter) ([]*model.Car, error) {
	cars, err := s.store.ListCars(ctx, filter)
	if err != nil {
		return nil, err
	}
	return cars, nil
}

// GetCar retrieves a car by id.
func (s *CarService) GetCar(ctx context.Context, id int64) (*model.Car, error) {
	car, err := s.store.GetCar(ctx, id)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return car, nil
}

// CreateCar persists a new car, applying defaults for fuel and transmission.
func (s *CarService) CreateCar(ctx context.Context, input model.CarInput) (*model.Car, error) {
	car := model.NewCar(input)

	if err := s.store.CreateCar(ctx, car); err != nil {
		return nil, fmt.Errorf("failed to create car: %w", err)
	}

	s.metrics.IncCarCreated()

	return car, nil
}

// ReplaceCar overwrites every attribute of an existing car. The id never changes.
func (s *CarService) ReplaceCar(ctx context.Context, id int64, input model.CarInput) (*model.Car, error) {
	car, err := s.store.GetCar(ctx, id)
	if err != nil {
		return nil, translateStoreError(err)
	}

	input.ApplyTo(car)

	// A concurrent delete between the read and the write surfaces as not found.
	if err := s.store.UpdateCar(ctx, car); err != nil {
		return nil, translateStoreError(err)
	}

	s.metrics.IncCarUpdated()

	return car, nil
}

// DeleteCar permanently removes a car.
func (s *CarService) DeleteCar(ctx context.Context, id int64) error {
	if err := s.store.DeleteCar(ctx, id); err != nil {
		return translateStoreError(err)
	}

	s.metrics.IncCarDeleted()

	return nil
}

func translateStoreError(err error) error {
	if errors.Is(err, repository.ErrCarNotFound) {
		return ErrCarNotFound
	}
	return err
}
