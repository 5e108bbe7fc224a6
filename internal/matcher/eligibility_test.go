package matcher

import (
	"math"
	"testing"
	"time"

	"github.com/example/foodshare-matching/internal/models"
)

// mondayEvening is a Monday at 18:30 local time.
var mondayEvening = time.Date(2026, 3, 2, 18, 30, 0, 0, time.UTC)

func testBatch(t time.Time) models.DonationBatch {
	return models.DonationBatch{
		ID:             "batch1",
		DonorID:        "donor@example.com",
		FoodType:       "cooked food",
		QuantityKg:     10,
		Pickup:         models.Coord{Lat: 12.90, Lon: 77.56},
		PickupTime:     t,
		ShelfLifeHours: 24,
	}
}

func onlineRecipient(id string, loc models.Coord) models.RecipientOrganization {
	return models.RecipientOrganization{ID: id, Loc: loc, Online: true, Capacity: 100}
}

func TestEligibleExcludesOffline(t *testing.T) {
	r := onlineRecipient("a@example.com", models.Coord{Lat: 12.9027, Lon: 77.5600})
	r.Online = false
	got := Eligible([]models.RecipientOrganization{r}, testBatch(mondayEvening), DefaultRadiusKm)
	if len(got) != 0 {
		t.Fatalf("offline recipient must never be eligible, got %d", len(got))
	}
}

func TestEligibleExcludesBeyondRadius(t *testing.T) {
	near := onlineRecipient("near@example.com", models.Coord{Lat: 12.9027, Lon: 77.5600})
	far := onlineRecipient("far@example.com", models.Coord{Lat: 13.3379, Lon: 77.1173}) // ~67 km away
	got := Eligible([]models.RecipientOrganization{near, far}, testBatch(mondayEvening), DefaultRadiusKm)
	if len(got) != 1 || got[0].Recipient.ID != "near@example.com" {
		t.Fatalf("expected only the near recipient, got %+v", got)
	}
	if got[0].DistanceKm <= 0 || got[0].DistanceKm > DefaultRadiusKm {
		t.Fatalf("unexpected distance %f", got[0].DistanceKm)
	}
}

func TestEligibleScheduleWeekday(t *testing.T) {
	r := onlineRecipient("a@example.com", models.Coord{Lat: 12.9027, Lon: 77.5600})
	r.Schedule = &models.Schedule{Days: []string{"Tuesday"}, StartTime: "00:00", EndTime: "23:59"}
	if got := Eligible([]models.RecipientOrganization{r}, testBatch(mondayEvening), DefaultRadiusKm); len(got) != 0 {
		t.Fatal("recipient unavailable on Monday must be excluded")
	}
	r.Schedule.Days = []string{"Monday"}
	if got := Eligible([]models.RecipientOrganization{r}, testBatch(mondayEvening), DefaultRadiusKm); len(got) != 1 {
		t.Fatal("recipient available on Monday must be included")
	}
}

func TestEligibleScheduleWindowInclusive(t *testing.T) {
	r := onlineRecipient("a@example.com", models.Coord{Lat: 12.9027, Lon: 77.5600})
	r.Schedule = &models.Schedule{Days: []string{"Monday"}, StartTime: "18:30", EndTime: "18:30"}
	if got := Eligible([]models.RecipientOrganization{r}, testBatch(mondayEvening), DefaultRadiusKm); len(got) != 1 {
		t.Fatal("window bounds are inclusive")
	}
	r.Schedule.StartTime = "19:00"
	r.Schedule.EndTime = "20:00"
	if got := Eligible([]models.RecipientOrganization{r}, testBatch(mondayEvening), DefaultRadiusKm); len(got) != 0 {
		t.Fatal("pickup before the window must be excluded")
	}
}

func TestEligibleNoScheduleMeansAlwaysAvailable(t *testing.T) {
	r := onlineRecipient("a@example.com", models.Coord{Lat: 12.9027, Lon: 77.5600})
	r.Schedule = nil
	if got := Eligible([]models.RecipientOrganization{r}, testBatch(mondayEvening), DefaultRadiusKm); len(got) != 1 {
		t.Fatal("recipient without a schedule is always available")
	}
}

func TestEligibleSkipsInvalidCoordinates(t *testing.T) {
	bad := onlineRecipient("bad@example.com", models.Coord{Lat: math.NaN(), Lon: 77.56})
	worse := onlineRecipient("worse@example.com", models.Coord{Lat: 912.9, Lon: 77.56})
	good := onlineRecipient("good@example.com", models.Coord{Lat: 12.9027, Lon: 77.5600})
	got := Eligible([]models.RecipientOrganization{bad, worse, good}, testBatch(mondayEvening), DefaultRadiusKm)
	if len(got) != 1 || got[0].Recipient.ID != "good@example.com" {
		t.Fatalf("invalid directory entries must be skipped, not fatal; got %+v", got)
	}
}
