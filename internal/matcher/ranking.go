package matcher

import (
	"sort"
	"strings"

	"github.com/example/foodshare-matching/internal/models"
)

// Window is an inclusive HH:MM time range.
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ScoringConfig tunes the weighted ranking mode. All tables are lowercase-keyed.
type ScoringConfig struct {
	Enabled        bool
	RadiusKm       float64 // eligibility radius, end of the distance-penalty ramp
	FullCreditKm   float64 // distances at or below this get full distance credit
	CompatWeight   float64
	DistanceWeight float64
	TimingWeight   float64
	NeedWeight     float64
	// Affinities maps a food tag to the recipient categories it favors.
	Affinities map[string][]string
	// MealWindows maps a recipient category to its meal-serving windows.
	MealWindows map[string][]Window
}

// DefaultScoring returns the stock weighted-scoring policy.
func DefaultScoring() ScoringConfig {
	return ScoringConfig{
		Enabled:        true,
		RadiusKm:       DefaultRadiusKm,
		FullCreditKm:   5.0,
		CompatWeight:   0.4,
		DistanceWeight: 0.3,
		TimingWeight:   0.2,
		NeedWeight:     0.1,
		Affinities: map[string][]string{
			"sweets":        {"old age home"},
			"desserts":      {"old age home"},
			"cooked food":   {"old age home", "shelter"},
			"high-protein":  {"shelter"},
			"raw food":      {"community kitchen", "food bank"},
			"grains":        {"community kitchen", "food bank"},
			"vegetables":    {"community kitchen", "food bank"},
			"fruits":        {"children's home"},
			"milk products": {"children's home"},
			"snacks":        {"children's home"},
		},
		MealWindows: map[string][]Window{
			"old age home":      {{Start: "06:00", End: "10:00"}, {Start: "16:00", End: "20:00"}},
			"community kitchen": {{Start: "06:00", End: "10:00"}, {Start: "16:00", End: "20:00"}},
			"shelter":           {{Start: "16:00", End: "20:00"}},
			"children's home":   {{Start: "06:00", End: "10:00"}},
		},
	}
}

// Rank orders eligible candidates into a deterministic total order and
// returns them as ranked tuples, best first.
//
// With scoring enabled the order is descending 0-100 weighted score, ties by
// ascending distance then id. With scoring disabled the fallback order is
// ascending distance, ties by descending capacity then id, and scores stay 0.
func Rank(eligible []Candidate, batch models.DonationBatch, cfg ScoringConfig) []models.RankedCandidate {
	out := make([]models.RankedCandidate, 0, len(eligible))
	if !cfg.Enabled {
		sorted := append([]Candidate(nil), eligible...)
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].DistanceKm != sorted[j].DistanceKm {
				return sorted[i].DistanceKm < sorted[j].DistanceKm
			}
			if sorted[i].Recipient.Capacity != sorted[j].Recipient.Capacity {
				return sorted[i].Recipient.Capacity > sorted[j].Recipient.Capacity
			}
			return sorted[i].Recipient.ID < sorted[j].Recipient.ID
		})
		for _, c := range sorted {
			out = append(out, models.RankedCandidate{RecipientID: c.Recipient.ID, DistanceKm: c.DistanceKm})
		}
		return out
	}

	for _, c := range eligible {
		out = append(out, models.RankedCandidate{
			RecipientID: c.Recipient.ID,
			DistanceKm:  c.DistanceKm,
			Score:       cfg.score(c, batch),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].DistanceKm != out[j].DistanceKm {
			return out[i].DistanceKm < out[j].DistanceKm
		}
		return out[i].RecipientID < out[j].RecipientID
	})
	return out
}

// score blends the four weighted signals into 0-100.
func (cfg ScoringConfig) score(c Candidate, batch models.DonationBatch) float64 {
	compat := cfg.compatCredit(c.Recipient, batch)
	dist := cfg.distanceCredit(c.DistanceKm)
	timing := cfg.timingCredit(c.Recipient, batch)
	need := c.Recipient.Need.Credit()
	if float64(c.Recipient.Capacity) < batch.QuantityKg {
		need *= 0.5
	}
	return 100 * (cfg.CompatWeight*compat + cfg.DistanceWeight*dist + cfg.TimingWeight*timing + cfg.NeedWeight*need)
}

// compatCredit scores preference overlap and category affinity, penalized by
// dietary-restriction conflicts.
func (cfg ScoringConfig) compatCredit(r models.RecipientOrganization, batch models.DonationBatch) float64 {
	food := strings.ToLower(strings.TrimSpace(batch.FoodType))
	credit := 0.0
	for _, pref := range r.Preferences {
		p := strings.ToLower(strings.TrimSpace(pref))
		if p != "" && (strings.Contains(food, p) || strings.Contains(p, food)) {
			credit = 0.7
			break
		}
	}
	if cats, ok := cfg.Affinities[food]; ok {
		category := strings.ToLower(r.Category)
		for _, cat := range cats {
			if cat == category {
				credit += 0.3
				break
			}
		}
	}
	for _, restriction := range r.DietaryRestrictions {
		banned := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.ToLower(restriction), "no ")))
		if banned == "" {
			continue
		}
		if strings.Contains(food, banned) || strings.Contains(strings.ToLower(batch.Description), banned) {
			credit -= 0.4
			break
		}
	}
	if credit < 0 {
		return 0
	}
	if credit > 1 {
		return 1
	}
	return credit
}

// distanceCredit gives full credit up to FullCreditKm and decays linearly to
// zero at the eligibility radius.
func (cfg ScoringConfig) distanceCredit(d float64) float64 {
	if d <= cfg.FullCreditKm {
		return 1.0
	}
	if d >= cfg.RadiusKm || cfg.RadiusKm <= cfg.FullCreditKm {
		return 0.0
	}
	return 1.0 - (d-cfg.FullCreditKm)/(cfg.RadiusKm-cfg.FullCreditKm)
}

// timingCredit rewards pickups inside the recipient category's meal windows.
func (cfg ScoringConfig) timingCredit(r models.RecipientOrganization, batch models.DonationBatch) float64 {
	windows, ok := cfg.MealWindows[strings.ToLower(r.Category)]
	if !ok {
		return 0.0
	}
	hhmm := batch.PickupTime.Format("15:04")
	for _, w := range windows {
		if w.Start <= hhmm && hhmm <= w.End {
			return 1.0
		}
	}
	return 0.0
}
