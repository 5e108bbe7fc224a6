package matcher

import (
	"errors"

	"github.com/example/foodshare-matching/internal/geo"
	"github.com/example/foodshare-matching/internal/models"
)

// ErrEmptyDirectory means no waste facilities are registered.
var ErrEmptyDirectory = errors.New("no waste facilities registered")

// NearestFacility scans all facilities and returns the closest one with its
// distance in km. Ties break by facility id ascending so the result is
// deterministic. O(n) per query; the facility set is small enough that a
// spatial index would be premature.
func NearestFacility(facilities []models.WasteFacility, query models.Coord) (models.WasteFacility, float64, error) {
	if len(facilities) == 0 {
		return models.WasteFacility{}, 0, ErrEmptyDirectory
	}
	best := facilities[0]
	bestDist := geo.HaversineKm(query, best.Loc)
	for _, f := range facilities[1:] {
		d := geo.HaversineKm(query, f.Loc)
		if d < bestDist || (d == bestDist && f.ID < best.ID) {
			best = f
			bestDist = d
		}
	}
	return best, bestDist, nil
}
