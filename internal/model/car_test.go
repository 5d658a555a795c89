package model

import "testing"

func TestCarInput_WithDefaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		input            CarInput
		wantFuel         string
		wantTransmission string
	}{
		{
			name:             "omitted optional fields",
			input:            CarInput{Size: "s", Doors: 3},
			wantFuel:         DefaultFuel,
			wantTransmission: DefaultTransmission,
		},
		{
			name:             "explicit values kept",
			input:            CarInput{Size: "m", Doors: 5, Fuel: "hybrid", Transmission: "manual"},
			wantFuel:         "hybrid",
			wantTransmission: "manual",
		},
		{
			name:             "only fuel given",
			input:            CarInput{Size: "l", Doors: 5, Fuel: "diesel"},
			wantFuel:         "diesel",
			wantTransmission: DefaultTransmission,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.input.WithDefaults()
			if got.Fuel != tt.wantFuel {
				t.Errorf("Fuel = %q, want %q", got.Fuel, tt.wantFuel)
			}
			if got.Transmission != tt.wantTransmission {
				t.Errorf("Transmission = %q, want %q", got.Transmission, tt.wantTransmission)
			}
			if got.Size != tt.input.Size || got.Doors != tt.input.Doors {
				t.Errorf("required fields changed: got %+v from %+v", got, tt.input)
			}
		})
	}
}

func TestCarInput_ApplyToKeepsID(t *testing.T) {
	t.Parallel()

	car := &Car{ID: 42, Size: "s", Fuel: "petrol", Doors: 2, Transmission: "manual"}
	CarInput{Size: "l", Doors: 5}.ApplyTo(car)

	want := Car{ID: 42, Size: "l", Fuel: DefaultFuel, Doors: 5, Transmission: DefaultTransmission}
	if *car != want {
		t.Errorf("car = %+v, want %+v", *car, want)
	}
}

func TestCarFilter_Matches(t *testing.T) {
	t.Parallel()

	car := &Car{Size: "m", Doors: 4}

	tests := []struct {
		name   string
		filter CarFilter
		want   bool
	}{
		{"no filter", CarFilter{}, true},
		{"size match", CarFilter{Size: "m"}, true},
		{"size mismatch", CarFilter{Size: "s"}, false},
		{"min doors equal is inclusive", CarFilter{MinDoors: 4}, true},
		{"min doors below", CarFilter{MinDoors: 2}, true},
		{"min doors above", CarFilter{MinDoors: 5}, false},
		{"both match", CarFilter{Size: "m", MinDoors: 4}, true},
		{"size match doors too few", CarFilter{Size: "m", MinDoors: 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(car); got != tt.want {
				t.Errorf("Matches(%+v) = %v, want %v", tt.filter, got, tt.want)
			}
		})
	}
}
