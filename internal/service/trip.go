package service

import (
	"context"
	"errors"
	"time"

	"github.com/carsharing/carsharing/internal/ledger"
	"github.com/carsharing/carsharing/internal/metrics"
	"github.com/carsharing/carsharing/internal/model"
)

// TripLedger is the file-backed dataset trips are appended to.
// *ledger.Ledger satisfies it.
type TripLedger interface {
	AddTrip(carID int64, input model.TripInput) (model.Trip, error)
}

// TripService handles trip business logic.
// It reads only the ledger; the relational car store is never consulted.
type TripService struct {
	ledger  TripLedger
	metrics metrics.Recorder
}

// NewTripService creates a new TripService.
func NewTripService(l TripLedger, recorder metrics.Recorder) *TripService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TripService{
		ledger:  l,
		metrics: recorder,
	}
}

// AddTrip appends a trip to the ledger car with id carID.
func (s *TripService) AddTrip(ctx context.Context, carID int64, input model.TripInput) (model.Trip, error) {
	if err := ctx.Err(); err != nil {
		return model.Trip{}, err
	}

	start := time.Now()
	trip, err := s.ledger.AddTrip(carID, input)
	if err != nil {
		if errors.Is(err, ledger.ErrCarNotFound) {
			return model.Trip{}, ErrCarNotFound
		}
		return model.Trip{}, err
	}
	s.metrics.ObserveLedgerSave(time.Since(start))
	s.metrics.IncTripAdded()

	return trip, nil
}
