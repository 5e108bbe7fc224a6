package geo

import (
	"math"
	"testing"

	"github.com/example/foodshare-matching/internal/models"
)

func TestHaversineZero(t *testing.T) {
	p := models.Coord{Lat: 12.9716, Lon: 77.5946}
	if d := HaversineKm(p, p); d != 0 {
		t.Fatalf("expected 0, got %f", d)
	}
}

func TestHaversineSymmetric(t *testing.T) {
	a := models.Coord{Lat: 12.9027, Lon: 77.5600}
	b := models.Coord{Lat: 13.1005, Lon: 77.5939}
	if d1, d2 := HaversineKm(a, b), HaversineKm(b, a); d1 != d2 {
		t.Fatalf("expected symmetry, got %f vs %f", d1, d2)
	}
}

func TestHaversineOneDegreeLatitudeAtEquator(t *testing.T) {
	a := models.Coord{Lat: 0, Lon: 0}
	b := models.Coord{Lat: 1, Lon: 0}
	d := HaversineKm(a, b)
	if math.Abs(d-111) > 1 {
		t.Fatalf("expected ~111 km, got %f", d)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		c       models.Coord
		wantErr bool
	}{
		{"ok", models.Coord{Lat: 12.9, Lon: 77.56}, false},
		{"lat boundary", models.Coord{Lat: 90, Lon: -180}, false},
		{"lat too big", models.Coord{Lat: 90.1, Lon: 0}, true},
		{"lon too small", models.Coord{Lat: 0, Lon: -180.5}, true},
		{"nan lat", models.Coord{Lat: math.NaN(), Lon: 0}, true},
		{"inf lon", models.Coord{Lat: 0, Lon: math.Inf(1)}, true},
	}
	for _, tc := range cases {
		err := Validate(tc.c)
		if tc.wantErr && err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
	}
}
