package matcher

import (
	"context"
	"errors"
	"testing"

	"github.com/example/foodshare-matching/internal/models"
	"github.com/example/foodshare-matching/internal/quality"
)

type stubRecipients struct{ rs []models.RecipientOrganization }

func (s stubRecipients) Recipients() []models.RecipientOrganization { return s.rs }

type stubFacilities struct{ fs []models.WasteFacility }

func (s stubFacilities) Facilities() []models.WasteFacility { return s.fs }

type captureStore struct{ results []*models.MatchResult }

func (c *captureStore) AppendMatch(r *models.MatchResult) error {
	c.results = append(c.results, r)
	return nil
}

type captureNotifier struct{ sent []string }

func (c *captureNotifier) Notify(recipientID, subject, body string) error {
	c.sent = append(c.sent, recipientID)
	return nil
}

type fakeExplainer struct {
	exp models.Explanation
	err error
}

func (f fakeExplainer) Explain(ctx context.Context, batch models.DonationBatch, cands []models.RankedCandidate) (models.Explanation, error) {
	return f.exp, f.err
}

func elderCareHome() models.RecipientOrganization {
	return models.RecipientOrganization{
		ID:          "vrindashram@example.com",
		Name:        "Vrindashram Old Age Home",
		Category:    "Old Age Home",
		Loc:         models.Coord{Lat: 12.9027, Lon: 77.5600},
		Preferences: []string{"cooked food", "sweets", "fruits"},
		Capacity:    100,
		Need:        models.NeedHigh,
		Schedule:    &models.Schedule{Days: []string{"Monday"}, StartTime: "07:00", EndTime: "20:00"},
		Online:      true,
	}
}

func newService(recipients []models.RecipientOrganization, facilities []models.WasteFacility) (*Service, *captureStore, *captureNotifier) {
	store := &captureStore{}
	notifier := &captureNotifier{}
	s := &Service{
		Recipients: stubRecipients{recipients},
		Facilities: stubFacilities{facilities},
		Gate:       quality.NewGate(2),
		Scoring:    DefaultScoring(),
		Store:      store,
		Notifier:   notifier,
	}
	return s, store, notifier
}

func TestMatchSweetsGoToElderCareHome(t *testing.T) {
	s, store, notifier := newService([]models.RecipientOrganization{elderCareHome()}, nil)
	batch := testBatch(mondayEvening)
	batch.FoodType = "sweets"
	batch.ShelfLifeHours = 24

	res, err := s.Match(context.Background(), batch)
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != models.OutcomeMatched {
		t.Fatalf("expected matched, got %s", res.Outcome)
	}
	if res.RecipientID != "vrindashram@example.com" {
		t.Fatalf("expected elder-care home, got %s", res.RecipientID)
	}
	if len(res.Candidates) != 1 || res.Candidates[0].RecipientID != res.RecipientID {
		t.Fatalf("ranked list must lead with the selected recipient: %+v", res.Candidates)
	}
	if len(store.results) != 1 {
		t.Fatalf("expected 1 appended result, got %d", len(store.results))
	}
	if len(notifier.sent) != 1 || notifier.sent[0] != res.RecipientID {
		t.Fatalf("recipient must be notified, got %v", notifier.sent)
	}
}

func TestMatchShortShelfLifeDiverts(t *testing.T) {
	near := models.WasteFacility{ID: "jp-nagar", Name: "JP Nagar Biogas Center", Loc: models.Coord{Lat: 12.9077, Lon: 77.5851}}
	far := models.WasteFacility{ID: "kredl", Name: "KREDL Biogas Plant", Loc: models.Coord{Lat: 12.9716, Lon: 77.5946}}
	s, store, _ := newService([]models.RecipientOrganization{elderCareHome()}, []models.WasteFacility{far, near})

	batch := testBatch(mondayEvening)
	batch.ShelfLifeHours = 1

	res, err := s.Match(context.Background(), batch)
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != models.OutcomeDiverted {
		t.Fatalf("expected diverted, got %s", res.Outcome)
	}
	if res.RecipientID != "" {
		t.Fatalf("diverted result must carry no recipient, got %s", res.RecipientID)
	}
	if res.FacilityID != "jp-nagar" {
		t.Fatalf("expected nearest facility jp-nagar, got %s", res.FacilityID)
	}
	if res.FacilityDistanceKm <= 0 {
		t.Fatalf("expected positive facility distance, got %f", res.FacilityDistanceKm)
	}
	if len(store.results) != 1 {
		t.Fatal("diversion must be appended to the match log")
	}
}

func TestMatchDiversionWithoutFacilitiesFails(t *testing.T) {
	s, _, _ := newService(nil, nil)
	batch := testBatch(mondayEvening)
	batch.ShelfLifeHours = 0.5

	_, err := s.Match(context.Background(), batch)
	if !errors.Is(err, ErrNoFacilities) {
		t.Fatalf("expected ErrNoFacilities, got %v", err)
	}
}

func TestMatchAllOfflineIsUnmatchedNotError(t *testing.T) {
	offline := elderCareHome()
	offline.Online = false
	s, store, _ := newService([]models.RecipientOrganization{offline}, nil)

	res, err := s.Match(context.Background(), testBatch(mondayEvening))
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != models.OutcomeUnmatched {
		t.Fatalf("expected unmatched, got %s", res.Outcome)
	}
	if res.RecipientID != "" || len(res.Candidates) != 0 {
		t.Fatalf("unmatched result must be empty: %+v", res)
	}
	if len(store.results) != 1 {
		t.Fatal("unmatched outcome must still be appended")
	}
}

func TestRationaleAttachedWhenSuggestionAgrees(t *testing.T) {
	s, _, _ := newService([]models.RecipientOrganization{elderCareHome()}, nil)
	s.Explainer = fakeExplainer{exp: models.Explanation{
		BestMatchID: "vrindashram@example.com",
		Reasoning:   "sweets suit the elder-care home's preferences",
	}}

	batch := testBatch(mondayEvening)
	batch.FoodType = "sweets"
	res, err := s.Match(context.Background(), batch)
	if err != nil {
		t.Fatal(err)
	}
	if res.Rationale == "" {
		t.Fatal("agreeing rationale must be attached")
	}
}

func TestRationaleRejectedWhenSuggestionDisagrees(t *testing.T) {
	s, _, _ := newService([]models.RecipientOrganization{elderCareHome()}, nil)
	s.Explainer = fakeExplainer{exp: models.Explanation{
		BestMatchID: "intruder@example.com",
		Reasoning:   "trust me",
	}}

	res, err := s.Match(context.Background(), testBatch(mondayEvening))
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != models.OutcomeMatched || res.RecipientID != "vrindashram@example.com" {
		t.Fatalf("deterministic ranking must stay authoritative: %+v", res)
	}
	if res.Rationale != "" {
		t.Fatal("disagreeing suggestion must be discarded")
	}
}

func TestRationaleErrorDegradesSilently(t *testing.T) {
	s, _, _ := newService([]models.RecipientOrganization{elderCareHome()}, nil)
	s.Explainer = fakeExplainer{err: errors.New("upstream timeout")}

	res, err := s.Match(context.Background(), testBatch(mondayEvening))
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != models.OutcomeMatched {
		t.Fatalf("rationale failure must never abort the match: %+v", res)
	}
	if res.Rationale != "" {
		t.Fatal("no rationale text expected after explainer failure")
	}
}
