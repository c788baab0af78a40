package service

import (
	"context"
	"errors"
	"fmt"

	"sales-warehouse/backend/internal/logger"
	"sales-warehouse/backend/internal/matching"
	"sales-warehouse/backend/internal/repository"
)

// Merge validation errors. These are caller mistakes, surfaced before any
// write happens.
var (
	ErrSelfMerge     = errors.New("cannot merge a customer into itself")
	ErrAlreadyMerged = errors.New("source customer is already merged")
)

type matchCandidateSource interface {
	ListMatchCandidates(ctx context.Context) (newRecords, historical []matching.Record, err error)
	GetCustomer(ctx context.Context, id string) (*repository.Customer, error)
}

type customerMerger interface {
	MergeCustomers(ctx context.Context, sourceID, targetID string) (int64, error)
}

// DedupService runs the customer deduplication workflow: finding candidate
// matches and applying operator-approved merges.
type DedupService struct {
	customers matchCandidateSource
	merges    customerMerger
}

func NewDedupService(customers matchCandidateSource, merges customerMerger) *DedupService {
	return &DedupService{customers: customers, merges: merges}
}

// FindMatches pairs newly-imported customers against historical records and
// returns candidate matches at or above minScore, best score first. The
// threshold is clamped to the operator-adjustable range.
func (s *DedupService) FindMatches(ctx context.Context, minScore float64) ([]matching.CustomerMatch, error) {
	minScore = matching.DedupConfig.ClampMinScore(minScore)

	newRecords, historical, err := s.customers.ListMatchCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load match candidates: %w", err)
	}

	matches := matching.FindMatches(newRecords, historical, minScore)

	logger.Info().
		Int("new_records", len(newRecords)).
		Int("historical_records", len(historical)).
		Int("matches", len(matches)).
		Float64("min_score", minScore).
		Msg("customer match scan completed")

	return matches, nil
}

// MergeCustomers folds the source customer into the target and returns the
// number of transactional rows rewritten. Self-merges and re-targeting of an
// already-merged source are rejected before any write; repeating a completed
// merge with the same target returns 0 without touching the store.
func (s *DedupService) MergeCustomers(ctx context.Context, sourceID, targetID string) (int64, error) {
	if sourceID == targetID {
		return 0, ErrSelfMerge
	}

	source, err := s.customers.GetCustomer(ctx, sourceID)
	if err != nil {
		return 0, fmt.Errorf("failed to load source customer: %w", err)
	}
	if source.MergedInto != nil {
		// Repeating a completed merge is a no-op; only re-targeting an
		// already-merged source is rejected.
		if *source.MergedInto == targetID {
			return 0, nil
		}
		return 0, ErrAlreadyMerged
	}
	if _, err := s.customers.GetCustomer(ctx, targetID); err != nil {
		return 0, fmt.Errorf("failed to load target customer: %w", err)
	}

	updated, err := s.merges.MergeCustomers(ctx, sourceID, targetID)
	if err != nil {
		return 0, err
	}

	logger.Info().
		Str("source_id", sourceID).
		Str("target_id", targetID).
		Int64("rows_updated", updated).
		Msg("customers merged")

	return updated, nil
}
