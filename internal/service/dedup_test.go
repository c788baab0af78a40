package service

import (
	"context"
	"errors"
	"os"
	"testing"

	"sales-warehouse/backend/internal/config"
	"sales-warehouse/backend/internal/db"
	"sales-warehouse/backend/internal/logger"
	"sales-warehouse/backend/internal/matching"
	"sales-warehouse/backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init(config.TestConfig().Logger)
	os.Exit(m.Run())
}

type fakeCustomerSource struct {
	newRecords []matching.Record
	historical []matching.Record
	customers  map[string]*repository.Customer
	listErr    error
}

func (f *fakeCustomerSource) ListMatchCandidates(ctx context.Context) ([]matching.Record, []matching.Record, error) {
	if f.listErr != nil {
		return nil, nil, f.listErr
	}
	return f.newRecords, f.historical, nil
}

func (f *fakeCustomerSource) GetCustomer(ctx context.Context, id string) (*repository.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return c, nil
}

type fakeMerger struct {
	updated    int64
	err        error
	lastSource string
	lastTarget string
	calls      int
}

func (f *fakeMerger) MergeCustomers(ctx context.Context, sourceID, targetID string) (int64, error) {
	f.calls++
	f.lastSource = sourceID
	f.lastTarget = targetID
	if f.err != nil {
		return 0, f.err
	}
	return f.updated, nil
}

func stringPtr(s string) *string { return &s }

func TestDedupServiceFindMatches(t *testing.T) {
	source := &fakeCustomerSource{
		newRecords: []matching.Record{{ID: "u1", Name: "Farmlands Te Puke"}},
		historical: []matching.Record{{ID: "5", Name: "Farmlands - Te Puke"}},
	}
	svc := NewDedupService(source, &fakeMerger{})

	matches, err := svc.FindMatches(context.Background(), 0.5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "u1", matches[0].SourceID)
	assert.Equal(t, "5", matches[0].TargetID)
	assert.GreaterOrEqual(t, matches[0].Score, 0.7)
}

func TestDedupServiceFindMatchesClampsThreshold(t *testing.T) {
	source := &fakeCustomerSource{
		newRecords: []matching.Record{{ID: "u1", Name: "Farmlands Kamo"}},
		historical: []matching.Record{{ID: "5", Name: "Farmlands - Kamo"}},
	}
	svc := NewDedupService(source, &fakeMerger{})

	// A zero threshold is clamped up to the floor rather than matching
	// everything against everything
	matches, err := svc.FindMatches(context.Background(), 0.0)
	require.NoError(t, err)
	for _, m := range matches {
		assert.GreaterOrEqual(t, m.Score, matching.DedupConfig.MinScoreFloor)
	}
}

func TestDedupServiceFindMatchesListError(t *testing.T) {
	source := &fakeCustomerSource{listErr: errors.New("connection lost")}
	svc := NewDedupService(source, &fakeMerger{})

	_, err := svc.FindMatches(context.Background(), 0.5)
	assert.Error(t, err)
}

func TestDedupServiceMergeCustomers(t *testing.T) {
	source := &fakeCustomerSource{
		customers: map[string]*repository.Customer{
			"u1": {CustomerID: "u1", CustomerName: "Farmlands Te Puke"},
			"5":  {CustomerID: "5", CustomerName: "Farmlands - Te Puke"},
		},
	}
	merger := &fakeMerger{updated: 3}
	svc := NewDedupService(source, merger)

	updated, err := svc.MergeCustomers(context.Background(), "u1", "5")
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)
	assert.Equal(t, "u1", merger.lastSource)
	assert.Equal(t, "5", merger.lastTarget)
}

func TestDedupServiceMergeRejectsSelfMerge(t *testing.T) {
	merger := &fakeMerger{}
	svc := NewDedupService(&fakeCustomerSource{}, merger)

	_, err := svc.MergeCustomers(context.Background(), "u1", "u1")
	assert.ErrorIs(t, err, ErrSelfMerge)
	assert.Zero(t, merger.calls, "no write may happen on a rejected merge")
}

func TestDedupServiceMergeRepeatIsNoOp(t *testing.T) {
	source := &fakeCustomerSource{
		customers: map[string]*repository.Customer{
			"u1": {CustomerID: "u1", Archived: true, MergedInto: stringPtr("5")},
			"5":  {CustomerID: "5"},
		},
	}
	merger := &fakeMerger{updated: 3}
	svc := NewDedupService(source, merger)

	// The source already carries merged_into=5: repeating the merge finds
	// nothing left to re-point and must not error
	updated, err := svc.MergeCustomers(context.Background(), "u1", "5")
	require.NoError(t, err)
	assert.Zero(t, updated)
	assert.Zero(t, merger.calls)
}

func TestDedupServiceMergeRejectsAlreadyMergedSource(t *testing.T) {
	source := &fakeCustomerSource{
		customers: map[string]*repository.Customer{
			"u1": {CustomerID: "u1", Archived: true, MergedInto: stringPtr("5")},
			"9":  {CustomerID: "9"},
		},
	}
	merger := &fakeMerger{}
	svc := NewDedupService(source, merger)

	_, err := svc.MergeCustomers(context.Background(), "u1", "9")
	assert.ErrorIs(t, err, ErrAlreadyMerged)
	assert.Zero(t, merger.calls)
}

func TestDedupServiceMergeUnknownCustomer(t *testing.T) {
	source := &fakeCustomerSource{customers: map[string]*repository.Customer{}}
	svc := NewDedupService(source, &fakeMerger{})

	_, err := svc.MergeCustomers(context.Background(), "missing", "5")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestDedupServiceMergeUnknownTarget(t *testing.T) {
	source := &fakeCustomerSource{
		customers: map[string]*repository.Customer{
			"u1": {CustomerID: "u1"},
		},
	}
	merger := &fakeMerger{}
	svc := NewDedupService(source, merger)

	_, err := svc.MergeCustomers(context.Background(), "u1", "missing")
	assert.ErrorIs(t, err, db.ErrNotFound)
	assert.Zero(t, merger.calls)
}
