package httpapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/foodshare-matching/internal/geo"
	"github.com/example/foodshare-matching/internal/models"
)

// donationPayload is the submission-surface contract for one donation batch.
type donationPayload struct {
	DonorID        string  `json:"donor_id"`
	FoodType       string  `json:"food_type"`
	QuantityKg     float64 `json:"quantity_kg"`
	PickupTime     string  `json:"pickup_time"` // ISO-8601 local, e.g. 2026-08-30T18:30
	PickupLatitude float64 `json:"pickup_latitude"`
	PickupLongitud float64 `json:"pickup_longitude"`
	ShelfLifeHours float64 `json:"shelf_life_hours"`
	Description    string  `json:"description,omitempty"`
}

const pickupTimeLayout = "2006-01-02T15:04"

// toBatch validates the payload and builds an immutable DonationBatch.
// Validation failures never enter the match state machine.
func (p donationPayload) toBatch(id string) (models.DonationBatch, error) {
	if strings.TrimSpace(p.DonorID) == "" {
		return models.DonationBatch{}, fmt.Errorf("donor_id is required")
	}
	if strings.TrimSpace(p.FoodType) == "" {
		return models.DonationBatch{}, fmt.Errorf("food_type is required")
	}
	if p.QuantityKg <= 0 {
		return models.DonationBatch{}, fmt.Errorf("quantity_kg must be > 0")
	}
	if p.ShelfLifeHours < 0 {
		return models.DonationBatch{}, fmt.Errorf("shelf_life_hours must be >= 0")
	}
	pickup := models.Coord{Lat: p.PickupLatitude, Lon: p.PickupLongitud}
	if err := geo.Validate(pickup); err != nil {
		return models.DonationBatch{}, fmt.Errorf("pickup coordinate: %w", err)
	}
	if strings.TrimSpace(p.PickupTime) == "" {
		return models.DonationBatch{}, fmt.Errorf("pickup_time is required")
	}
	ts, err := time.ParseInLocation(pickupTimeLayout, p.PickupTime, time.Local)
	if err != nil {
		if ts, err = time.Parse(time.RFC3339, p.PickupTime); err != nil {
			return models.DonationBatch{}, fmt.Errorf("pickup_time: malformed timestamp %q", p.PickupTime)
		}
	}
	return models.DonationBatch{
		ID:             id,
		DonorID:        strings.TrimSpace(p.DonorID),
		FoodType:       strings.TrimSpace(p.FoodType),
		QuantityKg:     p.QuantityKg,
		Pickup:         pickup,
		PickupTime:     ts,
		ShelfLifeHours: p.ShelfLifeHours,
		Description:    p.Description,
	}, nil
}
