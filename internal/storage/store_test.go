package storage

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/example/foodshare-matching/internal/models"
)

func TestMemoryStoreRecipients(t *testing.T) {
	m := NewMemoryStore()
	r := models.RecipientOrganization{ID: "a@example.com", Name: "A", Capacity: 10}
	if err := m.PutRecipient(r); err != nil {
		t.Fatal(err)
	}
	r.Capacity = 25
	if err := m.PutRecipient(r); err != nil {
		t.Fatal(err)
	}

	got, ok, err := m.GetRecipient("a@example.com")
	if err != nil || !ok {
		t.Fatalf("expected recipient, ok=%v err=%v", ok, err)
	}
	if got.Capacity != 25 {
		t.Fatalf("expected upserted capacity 25, got %d", got.Capacity)
	}
	list, err := m.ListRecipients()
	if err != nil || len(list) != 1 {
		t.Fatalf("expected 1 recipient, got %d err=%v", len(list), err)
	}
	if _, ok, _ := m.GetRecipient("missing"); ok {
		t.Fatal("unexpected hit for missing id")
	}
}

func TestMemoryStoreAppendMatchIsAppendOnly(t *testing.T) {
	m := NewMemoryStore()
	first := &models.MatchResult{BatchID: "b1", Outcome: models.OutcomeMatched, RecipientID: "a@example.com"}
	second := &models.MatchResult{BatchID: "b1", Outcome: models.OutcomeUnmatched}
	if err := m.AppendMatch(first); err != nil {
		t.Fatal(err)
	}
	if err := m.AppendMatch(second); err != nil {
		t.Fatal(err)
	}
	got := m.Matches()
	if len(got) != 2 {
		t.Fatalf("expected 2 appended results, got %d", len(got))
	}
	if got[0].Outcome != models.OutcomeMatched || got[1].Outcome != models.OutcomeUnmatched {
		t.Fatalf("append order lost: %+v", got)
	}
}

func TestMatchResultJSONRoundTrip(t *testing.T) {
	res := models.MatchResult{
		BatchID:     "batch42",
		Outcome:     models.OutcomeMatched,
		RecipientID: "vrindashram@example.com",
		Candidates: []models.RankedCandidate{
			{RecipientID: "vrindashram@example.com", DistanceKm: 0.30117, Score: 94},
			{RecipientID: "sevaashram@example.com", DistanceKm: 0.88, Score: 61.5},
		},
		Rationale: "closest elder-care home with matching preferences",
		DecidedAt: time.Date(2026, 3, 2, 18, 31, 0, 0, time.UTC),
	}

	b, err := json.Marshal(res)
	if err != nil {
		t.Fatal(err)
	}
	var back models.MatchResult
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if back.RecipientID != res.RecipientID {
		t.Fatalf("recipient id changed: %s", back.RecipientID)
	}
	if !reflect.DeepEqual(back.Candidates, res.Candidates) {
		t.Fatalf("candidate tuples not preserved:\n%+v\n%+v", back.Candidates, res.Candidates)
	}
	if !back.DecidedAt.Equal(res.DecidedAt) {
		t.Fatalf("timestamp changed: %v", back.DecidedAt)
	}
}
