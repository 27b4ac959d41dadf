package domain

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestCoordinatesValidate(t *testing.T) {
	valid := []Coordinates{
		{Lat: -6.914744, Lon: 107.609810},
		{Lat: 90, Lon: 180},
		{Lat: -90, Lon: -180},
	}
	for _, c := range valid {
		if err := c.Validate(); err != nil {
			t.Fatalf("expected %v to be valid, got %v", c, err)
		}
	}

	invalid := []Coordinates{
		{Lat: 90.0001, Lon: 0},
		{Lat: 0, Lon: -180.5},
		{Lat: math.NaN(), Lon: 0},
		{Lat: 0, Lon: math.Inf(1)},
	}
	for _, c := range invalid {
		err := c.Validate()
		if !errors.Is(err, ErrInvalidCoordinates) {
			t.Fatalf("expected ErrInvalidCoordinates for %v, got %v", c, err)
		}
	}
}

func TestCoordsToListIsLonLat(t *testing.T) {
	got := Coordinates{Lat: -6.914744, Lon: 107.609810}.CoordsToList()
	if len(got) != 2 || got[0] != 107.609810 || got[1] != -6.914744 {
		t.Fatalf("expected [lon, lat], got %v", got)
	}
}

func TestDeliveryAssessmentFormatting(t *testing.T) {
	a := DeliveryAssessment{DistanceMeters: 15049.6}

	if got := a.RoundedMeters(); got != 15050 {
		t.Fatalf("expected 15050 meters, got %d", got)
	}
	if got := a.Kilometers(); got != "15.0" {
		t.Fatalf("expected 15.0 km, got %q", got)
	}
}

func TestValidateOrderFields(t *testing.T) {
	ok := OrderFields{Name: "Siti Aminah", Product: "Kangkung", Qty: 3, Address: "Jalan Braga No. 10"}
	if err := ValidateOrderFields(ok); err != nil {
		t.Fatalf("expected valid fields, got %v", err)
	}

	bad := OrderFields{Name: "S1", Product: " ", Qty: 101, Address: "Braga"}
	err := ValidateOrderFields(bad)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, field := range []string{"name", "product", "qty", "address"} {
		if _, found := err.Fields[field]; !found {
			t.Fatalf("expected error for %s, got %v", field, err.Fields)
		}
	}
	if !strings.HasPrefix(err.Error(), "validation failed: address:") {
		t.Fatalf("expected fields sorted in message, got %q", err.Error())
	}
}

func TestValidateOrderFieldsNameRules(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"", "name is required"},
		{"Al", "name must be at least 3 characters"},
		{"Budi 2", "name may only contain letters and spaces"},
		{strings.Repeat("a", 101), "name must be at most 100 characters"},
	}
	for _, tc := range cases {
		err := ValidateOrderFields(OrderFields{Name: tc.name, Product: "Kangkung", Qty: 1, Address: "Jalan Braga No. 10"})
		if err == nil || err.Fields["name"] != tc.want {
			t.Fatalf("name %q: expected %q, got %v", tc.name, tc.want, err)
		}
	}
}

func TestValidateCustomProduct(t *testing.T) {
	if msg := ValidateCustomProduct("Jamur tiram"); msg != "" {
		t.Fatalf("expected no error, got %q", msg)
	}
	if msg := ValidateCustomProduct("  "); msg != "requested product is required" {
		t.Fatalf("unexpected message %q", msg)
	}
	if msg := ValidateCustomProduct("ab"); msg != "requested product must be at least 3 characters" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestOrderStatusValid(t *testing.T) {
	if !OrderStatusDelivered.Valid() {
		t.Fatalf("expected delivered to be valid")
	}
	if OrderStatus("shipped").Valid() {
		t.Fatalf("expected unknown status to be invalid")
	}
}
