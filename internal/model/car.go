// Package model defines domain entities for the application.
package model

// Defaults applied when a car payload omits the optional fields.
const (
	DefaultFuel         = "electric"
	DefaultTransmission = "auto"
)

// Car represents a fleet vehicle stored in the relational car table.
type Car struct {
	ID           int64  `json:"id"`
	Size         string `json:"size"`
	Fuel         string `json:"fuel"`
	Doors        int    `json:"doors"`
	Transmission string `json:"transmission"`
}

// CarInput holds the writable attributes of a car.
// Fuel and Transmission may be empty, in which case WithDefaults fills them.
type CarInput struct {
	Size         string
	Fuel         string
	Doors        int
	Transmission string
}

// WithDefaults returns a copy of the input with the documented defaults applied.
func (in CarInput) WithDefaults() CarInput {
	if in.Fuel == "" {
		in.Fuel = DefaultFuel
	}
	if in.Transmission == "" {
		in.Transmission = DefaultTransmission
	}
	return in
}

// NewCar builds an unsaved car from the input. The ID is assigned by the store.
func NewCar(in CarInput) *Car {
	car := &Car{}
	in.ApplyTo(car)
	return car
}

// ApplyTo overwrites every writable field of car. The ID is never touched.
func (in CarInput) ApplyTo(car *Car) {
	in = in.WithDefaults()
	car.Size = in.Size
	car.Fuel = in.Fuel
	car.Doors = in.Doors
	car.Transmission = in.Transmission
}

// CarFilter narrows a car listing.
// Zero values mean "no filter" for both fields.
type CarFilter struct {
	Size     string
	MinDoors int
}

// Matches reports whether car satisfies the filter.
func (f CarFilter) Matches(car *Car) bool {
	if f.Size != "" && car.Size != f.Size {
		return false
	}
	if f.MinDoors > 0 && car.Doors < f.MinDoors {
		return false
	}
	return true
}
