// Package servicetest provides in-memory fakes for service dependencies.
package servicetest

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/carsharing/carsharing/internal/model"
	"github.com/carsharing/carsharing/internal/repository"
)

// CarStore is an in-memory stand-in for the relational car table.
// Ids are assigned sequentially starting at 1, like a SERIAL column.
type CarStore struct {
	mu     sync.Mutex
	nextID int64
	cars   map[int64]model.Car

	// Err, when set, is returned by every operation.
	Err error
}

// NewCarStore returns an empty store.
func NewCarStore() *CarStore {
	return &CarStore{nextID: 1, cars: make(map[int64]model.Car)}
}

// ErrUnavailable simulates a store outage.
var ErrUnavailable = errors.New("store unavailable")

// ListCars implements service.CarStore.
func (s *CarStore) ListCars(ctx context.Context, filter model.CarFilter) ([]*model.Car, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	out := make([]*model.Car, 0, len(s.cars))
	for _, car := range s.cars {
		car := car
		if filter.Matches(&car) {
			out = append(out, &car)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetCar implements service.CarStore.
func (s *CarStore) GetCar(ctx context.Context, id int64) (*model.Car, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	car, ok := s.cars[id]
	if !ok {
		return nil, repository.ErrCarNotFound
	}
	return &car, nil
}

// CreateCar implements service.CarStore.
func (s *CarStore) CreateCar(ctx context.Context, car *model.Car) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	car.ID = s.nextID
	s.nextID++
	s.cars[car.ID] = *car
	return nil
}

// UpdateCar implements service.CarStore.
func (s *CarStore) UpdateCar(ctx context.Context, car *model.Car) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	if _, ok := s.cars[car.ID]; !ok {
		return repository.ErrCarNotFound
	}
	s.cars[car.ID] = *car
	return nil
}

// DeleteCar implements service.CarStore.
func (s *CarStore) DeleteCar(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	if _, ok := s.cars[id]; !ok {
		return repository.ErrCarNotFound
	}
	delete(s.cars, id)
	return nil
}

// Len returns the number of stored cars.
func (s *CarStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cars)
}
