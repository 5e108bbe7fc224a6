package models

import "time"

type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NeedLevel is the recipient's self-declared demand signal.
type NeedLevel string

const (
	NeedLow    NeedLevel = "low"
	NeedMedium NeedLevel = "medium"
	NeedHigh   NeedLevel = "high"
)

// Credit returns the scoring credit for a need level: high=1, medium=0.5, low=0.
func (n NeedLevel) Credit() float64 {
	switch n {
	case NeedHigh:
		return 1.0
	case NeedMedium:
		return 0.5
	default:
		return 0.0
	}
}

// Schedule is a weekly pickup availability window. Days hold weekday names
// ("Monday", ...); times are zero-padded "HH:MM" compared lexically.
type Schedule struct {
	Days      []string `json:"days"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
}

// DonationBatch is one submitted quantity of food from one donor.
// Immutable after creation; corrections create a new batch.
type DonationBatch struct {
	ID             string    `json:"id"`
	DonorID        string    `json:"donor_id"`
	FoodType       string    `json:"food_type"`
	QuantityKg     float64   `json:"quantity_kg"`
	Pickup         Coord     `json:"pickup"`
	PickupTime     time.Time `json:"pickup_time"`
	ShelfLifeHours float64   `json:"shelf_life_hours"`
	Description    string    `json:"description,omitempty"`
}

type RecipientOrganization struct {
	ID                  string    `json:"id"` // contact email, unique
	Name                string    `json:"name"`
	Category            string    `json:"category"` // e.g. "Old Age Home", "Food Bank"
	Loc                 Coord     `json:"loc"`
	Preferences         []string  `json:"preferences"`
	DietaryRestrictions []string  `json:"dietary_restrictions"`
	Capacity            int       `json:"capacity"`
	Need                NeedLevel `json:"current_need"`
	Schedule            *Schedule `json:"schedule,omitempty"`
	Online              bool      `json:"online"`
	Updated             time.Time `json:"updated"`
}

type WasteFacility struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Loc      Coord  `json:"loc"`
	Capacity int    `json:"capacity"`
	Contact  string `json:"contact,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

// RankedCandidate is one entry of the ranking engine's output.
type RankedCandidate struct {
	RecipientID string  `json:"recipient_id"`
	DistanceKm  float64 `json:"distance_km"`
	Score       float64 `json:"score"`
}

type Outcome string

const (
	OutcomeMatched   Outcome = "matched"
	OutcomeDiverted  Outcome = "diverted"
	OutcomeUnmatched Outcome = "unmatched"
)

// Explanation is the advisory reply of the external rationale collaborator.
// It never overrides the deterministic ranking; the orchestrator validates
// BestMatchID before trusting any of it.
type Explanation struct {
	BestMatchID string   `json:"best_match"`
	Score       float64  `json:"match_score"`
	Reasoning   string   `json:"reasoning"`
	Alternates  []string `json:"alternative_matches"`
}

// MatchResult is the terminal record of one run through the match state
// machine. Created once per batch; a re-match creates a new result.
type MatchResult struct {
	BatchID            string            `json:"batch_id"`
	Outcome            Outcome           `json:"outcome"`
	RecipientID        string            `json:"recipient_id,omitempty"`
	FacilityID         string            `json:"facility_id,omitempty"`
	FacilityDistanceKm float64           `json:"facility_distance_km,omitempty"`
	Candidates         []RankedCandidate `json:"candidates"`
	Rationale          string            `json:"rationale,omitempty"`
	DecidedAt          time.Time         `json:"decided_at"`
}
