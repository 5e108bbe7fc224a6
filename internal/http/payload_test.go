package httpapi

import (
	"strings"
	"testing"
)

func validPayload() donationPayload {
	return donationPayload{
		DonorID:        "donor@example.com",
		FoodType:       "sweets",
		QuantityKg:     12.5,
		PickupTime:     "2026-03-02T18:30",
		PickupLatitude: 12.90,
		PickupLongitud: 77.56,
		ShelfLifeHours: 24,
	}
}

func TestToBatchValid(t *testing.T) {
	batch, err := validPayload().toBatch("id1")
	if err != nil {
		t.Fatal(err)
	}
	if batch.ID != "id1" || batch.FoodType != "sweets" {
		t.Fatalf("unexpected batch: %+v", batch)
	}
	if got := batch.PickupTime.Format("15:04"); got != "18:30" {
		t.Fatalf("pickup time parsed wrong: %s", got)
	}
	if batch.PickupTime.Weekday().String() != "Monday" {
		t.Fatalf("expected Monday pickup, got %s", batch.PickupTime.Weekday())
	}
}

func TestToBatchAcceptsRFC3339(t *testing.T) {
	p := validPayload()
	p.PickupTime = "2026-03-02T18:30:00+05:30"
	if _, err := p.toBatch("id1"); err != nil {
		t.Fatal(err)
	}
}

func TestToBatchValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*donationPayload)
		want   string
	}{
		{"missing donor", func(p *donationPayload) { p.DonorID = " " }, "donor_id"},
		{"missing food type", func(p *donationPayload) { p.FoodType = "" }, "food_type"},
		{"zero quantity", func(p *donationPayload) { p.QuantityKg = 0 }, "quantity_kg"},
		{"negative quantity", func(p *donationPayload) { p.QuantityKg = -3 }, "quantity_kg"},
		{"negative shelf life", func(p *donationPayload) { p.ShelfLifeHours = -1 }, "shelf_life"},
		{"bad latitude", func(p *donationPayload) { p.PickupLatitude = 123.4 }, "coordinate"},
		{"bad longitude", func(p *donationPayload) { p.PickupLongitud = -190 }, "coordinate"},
		{"missing time", func(p *donationPayload) { p.PickupTime = "" }, "pickup_time"},
		{"malformed time", func(p *donationPayload) { p.PickupTime = "tomorrow evening" }, "pickup_time"},
	}
	for _, tc := range cases {
		p := validPayload()
		tc.mutate(&p)
		_, err := p.toBatch("id1")
		if err == nil {
			t.Errorf("%s: expected error", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: error %q does not mention %q", tc.name, err, tc.want)
		}
	}
}
