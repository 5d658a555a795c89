// Package ledger provides the file-backed list of cars and their trips.
//
// The whole document is held in memory and rewritten on every change.
// A single Ledger value owns the data; all access goes through its mutex,
// so concurrent trip additions are serialized and none is lost.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/carsharing/carsharing/internal/model"
)

// ErrCarNotFound is returned when no ledger entry has the requested car id.
var ErrCarNotFound = errors.New("car not found in ledger")

// Ledger is the in-memory copy of the ledger document at path.
type Ledger struct {
	mu   sync.Mutex
	path string
	cars []model.CarWithTrips
}

// Load reads and parses the ledger document at path.
func Load(path string) (*Ledger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}

	var cars []model.CarWithTrips
	if err := json.Unmarshal(data, &cars); err != nil {
		return nil, fmt.Errorf("failed to parse ledger %s: %w", path, err)
	}

	if cars == nil {
		cars = []model.CarWithTrips{}
	}
	for i := range cars {
		if cars[i].Trips == nil {
			cars[i].Trips = []model.Trip{}
		}
	}

	return &Ledger{path: path, cars: cars}, nil
}

// Path returns the file the ledger is persisted to.
func (l *Ledger) Path() string {
	return l.path
}

// Ping reports whether the ledger file is still in place, for /readyz.
// Saves would recreate a missing file, but an operator removing it is worth
// surfacing before the next trip arrives.
func (l *Ledger) Ping(ctx context.Context) error {
	info, err := os.Stat(l.path)
	if err != nil {
		return fmt.Errorf("ledger unavailable: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("ledger %s is not a regular file", l.path)
	}
	return nil
}

// Len returns the number of cars in the ledger.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.cars)
}

// Cars returns a deep copy of every ledger entry.
func (l *Ledger) Cars() []model.CarWithTrips {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]model.CarWithTrips, len(l.cars))
	for i := range l.cars {
		out[i] = l.cars[i].Clone()
	}
	return out
}

// AddTrip appends a trip to the first car whose id equals carID and persists
// the whole ledger. The trip id is the car's previous trip count plus one.
// If persisting fails the append is undone and the error is returned.
func (l *Ledger) AddTrip(carID int64, input model.TripInput) (model.Trip, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	car := l.find(carID)
	if car == nil {
		return model.Trip{}, ErrCarNotFound
	}

	trip := car.AppendTrip(input)

	if err := l.save(); err != nil {
		car.Trips = car.Trips[:len(car.Trips)-1]
		return model.Trip{}, err
	}

	return trip, nil
}

// Save rewrites the ledger document with the current in-memory state.
func (l *Ledger) Save() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.save()
}

// find returns a pointer into l.cars. Caller must hold l.mu.
func (l *Ledger) find(carID int64) *model.CarWithTrips {
	for i := range l.cars {
		if l.cars[i].ID == carID {
			return &l.cars[i]
		}
	}
	return nil
}

// save writes to a temp file in the same directory and renames it over the
// ledger, so readers never observe a partially written document.
// Caller must hold l.mu.
func (l *Ledger) save() error {
	data, err := json.MarshalIndent(l.cars, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(l.path), ".ledger-*.json")
	if err != nil {
		return fmt.Errorf("failed to create ledger temp file: %w", err)
	}
	tmpName := tmp.Name()

	// CreateTemp uses 0600; keep whatever mode the ledger already has.
	if info, err := os.Stat(l.path); err == nil {
		if err := tmp.Chmod(info.Mode().Perm()); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("failed to set ledger mode: %w", err)
		}
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close ledger temp file: %w", err)
	}

	if err := os.Rename(tmpName, l.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace ledger: %w", err)
	}

	return nil
}
