package model

// Trip is a usage record attached to a car in the trip ledger.
// End is expected to be >= Start but this is not enforced.
type Trip struct {
	ID          int    `json:"id"`
	Start       int64  `json:"start"`
	End         int64  `json:"end"`
	Description string `json:"description"`
}

// TripInput holds the client-supplied trip attributes.
type TripInput struct {
	Start       int64
	End         int64
	Description string
}

// CarWithTrips is one entry of the ledger document: car attributes plus its trips.
type CarWithTrips struct {
	Car
	Trips []Trip `json:"trips"`
}

// NextTripID returns the id the next appended trip will receive.
func (c *CarWithTrips) NextTripID() int {
	return len(c.Trips) + 1
}

// AppendTrip assigns the next sequential id to input and appends it.
func (c *CarWithTrips) AppendTrip(input TripInput) Trip {
	trip := Trip{
		ID:          c.NextTripID(),
		Start:       input.Start,
		End:         input.End,
		Description: input.Description,
	}
	c.Trips = append(c.Trips, trip)
	return trip
}

// Clone returns a deep copy so callers cannot mutate ledger state.
func (c *CarWithTrips) Clone() CarWithTrips {
	out := CarWithTrips{Car: c.Car, Trips: make([]Trip, len(c.Trips))}
	copy(out.Trips, c.Trips)
	return out
}
