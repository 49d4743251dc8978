package app

import (
	"context"
	"strconv"
	"strings"
	"unicode"

	"github.com/mtgrater/mtgrater/internal/adapters/repository"
	"github.com/mtgrater/mtgrater/internal/domain/rating"
	"github.com/mtgrater/mtgrater/internal/domain/throttle"
	"github.com/mtgrater/mtgrater/pkg/logger"
	"github.com/mtgrater/mtgrater/pkg/metrics"
)

// Status is the submission outcome class reported to callers.
type Status string

// Reason narrows a rejected submission.
type Reason string

// Submission outcomes.
const (
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Rejection reasons. Throttled is distinct from the validation reasons so
// callers can apply backoff.
const (
	ReasonThrottled          Reason = "throttled"
	ReasonInvalidRating      Reason = "invalid_rating"
	ReasonUnknownFormat      Reason = "unknown_format"
	ReasonUnknownCollection  Reason = "unknown_collection"
	ReasonSetNotInCollection Reason = "set_not_in_collection"
)

// Outcome is the result of a submission that did not fail internally.
type Outcome struct {
	Status Status `json:"status"`
	Reason Reason `json:"reason,omitempty"`
}

func rejected(r Reason) Outcome { return Outcome{Status: StatusRejected, Reason: r} }
func accepted() Outcome         { return Outcome{Status: StatusAccepted} }

// Submission carries one rating attempt. ClientID identifies the submitting
// actor for throttling only; it is never persisted.
type Submission struct {
	ClientID     string
	CollectionID string
	FormatID     string
	SetCode      string
	CardCode     string
	Rating       string
}

// Submit runs the write-path protocol: validate, admit, increment, and on an
// unknown tuple reconcile against the catalog with at most one backfilled
// retry. A non-nil error means storage failed; every other outcome is an
// Outcome.
func (s *Service) Submit(ctx context.Context, sub Submission) (Outcome, error) {
	metrics.RecordRatingSubmitted()

	v, err := rating.Parse(sub.Rating)
	if err != nil {
		metrics.RecordRatingRejected(string(ReasonInvalidRating))
		return rejected(ReasonInvalidRating), nil
	}

	fp := throttle.Fingerprint(sub.ClientID, sub.CollectionID, sub.SetCode, sub.CardCode, sub.FormatID)
	if !s.gate.Admit(ctx, fp) {
		metrics.RecordRatingThrottled()
		return rejected(ReasonThrottled), nil
	}

	// An unknown format can never match a row; checking the index here
	// spares storage a doomed round-trip.
	if !s.index.IsKnownFormat(sub.FormatID) {
		metrics.RecordRatingRejected(string(ReasonUnknownFormat))
		return rejected(ReasonUnknownFormat), nil
	}

	affected, err := s.store.IncrementRating(ctx, sub.CollectionID, sub.FormatID, sub.SetCode, sub.CardCode, v)
	if err != nil {
		return Outcome{}, err
	}
	if affected > 0 {
		metrics.RecordRatingAccepted()
		return accepted(), nil
	}

	return s.reconcile(ctx, sub, v)
}

// reconcile handles the zero-rows-affected case: the tuple is either a
// client error, a stale row in a closed collection, or a genuinely new card
// in a releasing one. Only the last condition writes.
func (s *Service) reconcile(ctx context.Context, sub Submission, v rating.Value) (Outcome, error) {
	coll, ok := s.index.Collection(sub.CollectionID)
	if !ok {
		metrics.RecordRatingRejected(string(ReasonUnknownCollection))
		return rejected(ReasonUnknownCollection), nil
	}

	if !s.index.InSetOrder(sub.CollectionID, sub.SetCode) {
		metrics.RecordRatingRejected(string(ReasonSetNotInCollection))
		return rejected(ReasonSetNotInCollection), nil
	}

	if !coll.Releasing {
		// The tuple passed every catalog check yet has no row. Nothing
		// useful can be done for the caller, so absorb it.
		s.log.Warn(ctx, "rating for missing tuple in non-releasing collection",
			logger.String("collection", sub.CollectionID),
			logger.String("set", sub.SetCode),
			logger.String("card", sub.CardCode),
			logger.String("format", sub.FormatID),
		)
		metrics.RecordReconcileAnomaly()
		metrics.RecordRatingAccepted()
		return accepted(), nil
	}

	if !plausibleNewCard(sub.CardCode, s.newCardCeiling) {
		// Arbitrary card codes must not grow the catalog during a release
		// window; treat as a no-op.
		s.log.Warn(ctx, "implausible card code for releasing collection",
			logger.String("collection", sub.CollectionID),
			logger.String("card", sub.CardCode),
		)
		metrics.RecordRatingAccepted()
		return accepted(), nil
	}

	ref := []repository.CardRef{{SetCode: sub.SetCode, CardCode: sub.CardCode}}
	for _, formatID := range s.index.RatingFormats(sub.CollectionID) {
		if err := s.store.InsertEntries(ctx, sub.CollectionID, formatID, ref); err != nil {
			return Outcome{}, err
		}
	}
	metrics.RecordBackfill()
	s.log.Info(ctx, "backfilled catalog row for new card",
		logger.String("collection", sub.CollectionID),
		logger.String("set", sub.SetCode),
		logger.String("card", sub.CardCode),
	)

	affected, err := s.store.IncrementRating(ctx, sub.CollectionID, sub.FormatID, sub.SetCode, sub.CardCode, v)
	if err != nil {
		return Outcome{}, err
	}
	if affected == 0 {
		// A concurrent submitter may have backfilled and raced us here; that
		// is indistinguishable from an error and must not look like one to
		// the caller.
		s.log.Warn(ctx, "increment still affected zero rows after backfill",
			logger.String("collection", sub.CollectionID),
			logger.String("set", sub.SetCode),
			logger.String("card", sub.CardCode),
			logger.String("format", sub.FormatID),
		)
		metrics.RecordReconcileAnomaly()
	}

	metrics.RecordRatingAccepted()
	return accepted(), nil
}

// plausibleNewCard applies the release-window heuristic: the card code's
// digit sequence must exist and parse to a number under ceiling. Collector
// numbers can carry prefixes and star suffixes, so non-digits are stripped
// rather than rejected.
func plausibleNewCard(cardCode string, ceiling int) bool {
	var digits strings.Builder
	for _, r := range cardCode {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return false
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return false
	}
	return n < ceiling
}
