package matcher

import (
	"github.com/example/foodshare-matching/internal/geo"
	"github.com/example/foodshare-matching/internal/models"
)

// Candidate pairs a recipient with its distance from the pickup point.
type Candidate struct {
	Recipient  models.RecipientOrganization
	DistanceKm float64
}

// DefaultRadiusKm is the eligibility radius around the pickup point.
const DefaultRadiusKm = 10.0

// Eligible narrows the recipient set for a donation. A recipient survives if
// it is online, its weekly schedule (when declared) covers the pickup weekday
// and time, and it lies within radiusKm of the pickup point. Recipients with
// invalid coordinates are skipped so a partially bad directory entry cannot
// abort the scan.
func Eligible(recipients []models.RecipientOrganization, batch models.DonationBatch, radiusKm float64) []Candidate {
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	out := make([]Candidate, 0, len(recipients))
	for _, r := range recipients {
		if !r.Online {
			continue
		}
		if r.Schedule != nil && !scheduleCovers(r.Schedule, batch) {
			continue
		}
		if err := geo.Validate(r.Loc); err != nil {
			continue
		}
		d := geo.HaversineKm(batch.Pickup, r.Loc)
		if d > radiusKm {
			continue
		}
		out = append(out, Candidate{Recipient: r, DistanceKm: d})
	}
	return out
}

// scheduleCovers checks weekday membership and an inclusive HH:MM window.
// Zero-padded times compare correctly as strings.
func scheduleCovers(s *models.Schedule, batch models.DonationBatch) bool {
	weekday := batch.PickupTime.Weekday().String()
	found := false
	for _, day := range s.Days {
		if day == weekday {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	hhmm := batch.PickupTime.Format("15:04")
	start := s.StartTime
	if start == "" {
		start = "00:00"
	}
	end := s.EndTime
	if end == "" {
		end = "23:59"
	}
	return start <= hhmm && hhmm <= end
}
