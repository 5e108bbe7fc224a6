package matcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/foodshare-matching/internal/models"
	"github.com/example/foodshare-matching/internal/observability"
	"github.com/example/foodshare-matching/internal/quality"
)

// ErrNoFacilities means a batch failed the quality gate but no waste
// facility is registered to divert it to.
var ErrNoFacilities = errors.New("no facilities available")

// RecipientSource is the directory view the orchestrator scans.
type RecipientSource interface {
	Recipients() []models.RecipientOrganization
}

// FacilitySource is the waste-facility view used for diversion.
type FacilitySource interface {
	Facilities() []models.WasteFacility
}

// Notifier delivers best-effort notices. Failures are logged, never fatal.
type Notifier interface {
	Notify(recipientID, subject, body string) error
}

// Explainer is the optional external rationale collaborator.
type Explainer interface {
	Explain(ctx context.Context, batch models.DonationBatch, candidates []models.RankedCandidate) (models.Explanation, error)
}

// MatchStore appends terminal match results.
type MatchStore interface {
	AppendMatch(res *models.MatchResult) error
}

// Service runs the donation-match state machine:
// received -> quality_checked -> {diverted | matched | unmatched}.
// Every terminal state is final; a new submission creates a new batch.
type Service struct {
	Recipients RecipientSource
	Facilities FacilitySource
	Gate       quality.Gate
	Scoring    ScoringConfig
	Store      MatchStore
	Notifier   Notifier  // optional
	Explainer  Explainer // optional
	Logger     *slog.Logger

	// RationaleTimeout bounds the external explain call. The match never
	// waits longer than this for advisory text.
	RationaleTimeout time.Duration
}

const defaultRationaleTimeout = 5 * time.Second

// Match runs one batch through the state machine and returns its terminal
// MatchResult. The only error case is a diversion with no registered
// facility.
func (s *Service) Match(ctx context.Context, batch models.DonationBatch) (*models.MatchResult, error) {
	start := time.Now()
	defer func() {
		observability.MatchLatency.Observe(time.Since(start).Seconds())
	}()

	if !s.Gate.FitForConsumption(batch.FoodType, batch.ShelfLifeHours) {
		return s.divert(batch)
	}

	eligible := Eligible(s.Recipients.Recipients(), batch, s.Scoring.RadiusKm)
	if len(eligible) == 0 {
		res := &models.MatchResult{
			BatchID:    batch.ID,
			Outcome:    models.OutcomeUnmatched,
			Candidates: []models.RankedCandidate{},
			DecidedAt:  time.Now().UTC(),
		}
		s.persist(res)
		observability.UnmatchedTotal.Inc()
		return res, nil
	}

	ranked := Rank(eligible, batch, s.Scoring)
	res := &models.MatchResult{
		BatchID:     batch.ID,
		Outcome:     models.OutcomeMatched,
		RecipientID: ranked[0].RecipientID,
		Candidates:  ranked,
		DecidedAt:   time.Now().UTC(),
	}
	if s.Explainer != nil {
		s.attachRationale(ctx, batch, res)
	}
	s.persist(res)
	s.notify(res.RecipientID, "New food donation available", donationNotice(batch))
	observability.MatchesTotal.Inc()
	return res, nil
}

// divert routes an unfit batch to the nearest waste facility.
func (s *Service) divert(batch models.DonationBatch) (*models.MatchResult, error) {
	facility, dist, err := NearestFacility(s.Facilities.Facilities(), batch.Pickup)
	if err != nil {
		return nil, fmt.Errorf("divert batch %s: %w", batch.ID, ErrNoFacilities)
	}
	res := &models.MatchResult{
		BatchID:            batch.ID,
		Outcome:            models.OutcomeDiverted,
		FacilityID:         facility.ID,
		FacilityDistanceKm: dist,
		Candidates:         []models.RankedCandidate{},
		DecidedAt:          time.Now().UTC(),
	}
	s.persist(res)
	s.notify(batch.DonorID, "Donation routed to waste processing",
		fmt.Sprintf("Your donation did not pass the quality check. Please deliver it to %s (%s), %.2f km away.",
			facility.Name, facility.Address, dist))
	observability.DiversionsTotal.Inc()
	return res, nil
}

// attachRationale asks the external collaborator for match reasoning inside
// a bounded deadline. The reply is trusted only when it names the same
// recipient the deterministic ranking chose; anything else degrades silently.
func (s *Service) attachRationale(ctx context.Context, batch models.DonationBatch, res *models.MatchResult) {
	timeout := s.RationaleTimeout
	if timeout <= 0 {
		timeout = defaultRationaleTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	exp, err := s.Explainer.Explain(ctx, batch, res.Candidates)
	if err != nil {
		observability.RationaleFallbacks.Inc()
		s.logger().Warn("rationale unavailable", "batch_id", batch.ID, "error", err)
		return
	}
	if exp.BestMatchID != res.RecipientID {
		observability.RationaleFallbacks.Inc()
		s.logger().Warn("rationale rejected: suggestion disagrees with ranking",
			"batch_id", batch.ID, "suggested", exp.BestMatchID, "selected", res.RecipientID)
		return
	}
	res.Rationale = exp.Reasoning
}

func (s *Service) persist(res *models.MatchResult) {
	if s.Store == nil {
		return
	}
	if err := s.Store.AppendMatch(res); err != nil {
		s.logger().Error("append match failed", "batch_id", res.BatchID, "error", err)
	}
}

func (s *Service) notify(recipientID, subject, body string) {
	if s.Notifier == nil || recipientID == "" {
		return
	}
	if err := s.Notifier.Notify(recipientID, subject, body); err != nil {
		observability.NotifyFailures.Inc()
		s.logger().Warn("notification failed", "recipient_id", recipientID, "error", err)
	}
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func donationNotice(batch models.DonationBatch) string {
	return fmt.Sprintf(
		"A new food donation matches your preferences.\n\nFood type: %s\nQuantity: %.1f kg\nPickup time: %s\nDescription: %s\nDonor: %s\n\nPlease respond promptly to accept this donation.",
		batch.FoodType, batch.QuantityKg, batch.PickupTime.Format("2006-01-02 15:04"), batch.Description, batch.DonorID)
}
