package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/carsharing/carsharing/internal/model"
)

// ErrCarNotFound is returned when no row matches the requested car id.
var ErrCarNotFound = errors.New("car not found")

const carColumns = "id, size, fuel, doors, transmission"

// ListCars returns the cars matching filter, ordered by id.
func (r *Repository) ListCars(ctx context.Context, filter model.CarFilter) ([]*model.Car, error) {
	query := "SELECT " + carColumns + " FROM cars WHERE TRUE"
	args := []any{}
	argIndex := 1

	if filter.Size != "" {
		query += fmt.Sprintf(" AND size = $%d", argIndex)
		args = append(args, filter.Size)
		argIndex++
	}

	if filter.MinDoors > 0 {
		query += fmt.Sprintf(" AND doors >= $%d", argIndex)
		args = append(args, filter.MinDoors)
	}

	query += " ORDER BY id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	defer rows.Close()

	cars := make([]*model.Car, 0)
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan car: %w", err)
		}
		cars = append(cars, car)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cars: %w", err)
	}

	return cars, nil
}

// GetCar retrieves a car by its id.
func (r *Repository) GetCar(ctx context.Context, id int64) (*model.Car, error) {
	query := "SELECT " + carColumns + " FROM cars WHERE id = $1"

	car, err := scanCar(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCarNotFound
		}
		return nil, fmt.Errorf("failed to get car: %w", err)
	}

	return car, nil
}

// CreateCar inserts car and sets its store-assigned id.
func (r *Repository) CreateCar(ctx context.Context, car *model.Car) error {
	query := `
		INSERT INTO cars (size, fuel, doors, transmission)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		car.Size,
		car.Fuel,
		car.Doors,
		car.Transmission,
	).Scan(&car.ID)
	if err != nil {
		return fmt.Errorf("failed to create car: %w", err)
	}

	return nil
}

// UpdateCar overwrites every attribute of the car identified by car.ID.
func (r *Repository) UpdateCar(ctx context.Context, car *model.Car) error {
	query := `
		UPDATE cars
		SET size = $2, fuel = $3, doors = $4, transmission = $5
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		car.ID,
		car.Size,
		car.Fuel,
		car.Doors,
		car.Transmission,
	)
	if err != nil {
		return fmt.Errorf("failed to update car: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrCarNotFound
	}

	return nil
}

// DeleteCar permanently removes a car.
func (r *Repository) DeleteCar(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, "DELETE FROM cars WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete car: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrCarNotFound
	}

	return nil
}

// scanCar scans a single row into a Car model.
func scanCar(row pgx.Row) (*model.Car, error) {
	var car model.Car
	err := row.Scan(
		&car.ID,
		&car.Size,
		&car.Fuel,
		&car.Doors,
		&car.Transmission,
	)
	return &car, err
}
