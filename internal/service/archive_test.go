package service

import (
	"context"
	"testing"
	"time"

	"sales-warehouse/backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeArchiveStore struct {
	preview           repository.ArchivePreview
	customers         []repository.Customer
	products          []repository.Product
	archivedCustomers []string
	archivedProducts  []int64
	unarchived        []string
	cutoffCustomers   int64
	cutoffProducts    int64
	restoreResult     bool
}

func (f *fakeArchiveStore) PreviewArchive(ctx context.Context, cutoff time.Time) (repository.ArchivePreview, error) {
	return f.preview, nil
}

func (f *fakeArchiveStore) ListCustomersToArchive(ctx context.Context, cutoff time.Time) ([]repository.Customer, error) {
	return f.customers, nil
}

func (f *fakeArchiveStore) ListProductsToArchive(ctx context.Context, cutoff time.Time) ([]repository.Product, error) {
	return f.products, nil
}

func (f *fakeArchiveStore) ArchiveCustomers(ctx context.Context, ids []string) (int64, error) {
	f.archivedCustomers = append(f.archivedCustomers, ids...)
	return int64(len(ids)), nil
}

func (f *fakeArchiveStore) ArchiveProducts(ctx context.Context, ids []int64) (int64, error) {
	f.archivedProducts = append(f.archivedProducts, ids...)
	return int64(len(ids)), nil
}

func (f *fakeArchiveStore) ArchiveCustomersByCutoff(ctx context.Context, cutoff time.Time) (int64, error) {
	return f.cutoffCustomers, nil
}

func (f *fakeArchiveStore) ArchiveProductsByCutoff(ctx context.Context, cutoff time.Time) (int64, error) {
	return f.cutoffProducts, nil
}

func (f *fakeArchiveStore) UnarchiveCustomer(ctx context.Context, id string) (bool, error) {
	f.unarchived = append(f.unarchived, id)
	return f.restoreResult, nil
}

func (f *fakeArchiveStore) UnarchiveProduct(ctx context.Context, id int64) (bool, error) {
	return f.restoreResult, nil
}

func TestArchiveServiceArchiveCustomers(t *testing.T) {
	store := &fakeArchiveStore{}
	svc := NewArchiveService(store, &fakeCustomerSource{})

	count, err := svc.ArchiveCustomers(context.Background(), []string{"u1", "u2"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, []string{"u1", "u2"}, store.archivedCustomers)
}

func TestArchiveServiceEmptyIDsIsNoOp(t *testing.T) {
	store := &fakeArchiveStore{}
	svc := NewArchiveService(store, &fakeCustomerSource{})

	count, err := svc.ArchiveCustomers(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestArchiveServiceArchiveByCutoffCombinesCounts(t *testing.T) {
	store := &fakeArchiveStore{cutoffCustomers: 7, cutoffProducts: 4}
	svc := NewArchiveService(store, &fakeCustomerSource{})

	counts, err := svc.ArchiveByCutoff(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(7), counts.Customers)
	assert.Equal(t, int64(4), counts.Products)
}

func TestArchiveServiceRestoreCustomer(t *testing.T) {
	store := &fakeArchiveStore{restoreResult: true}
	source := &fakeCustomerSource{
		customers: map[string]*repository.Customer{
			"u1": {CustomerID: "u1", Archived: true},
		},
	}
	svc := NewArchiveService(store, source)

	restored, err := svc.RestoreCustomer(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, restored)
	assert.Equal(t, []string{"u1"}, store.unarchived)
}

func TestArchiveServiceRestoreUnknownCustomer(t *testing.T) {
	store := &fakeArchiveStore{restoreResult: false}
	svc := NewArchiveService(store, &fakeCustomerSource{})

	restored, err := svc.RestoreCustomer(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, restored)
}

func TestArchiveServiceRestoreMergedCustomerKeepsPointer(t *testing.T) {
	store := &fakeArchiveStore{restoreResult: true}
	source := &fakeCustomerSource{
		customers: map[string]*repository.Customer{
			"u1": {CustomerID: "u1", Archived: true, MergedInto: stringPtr("5")},
		},
	}
	svc := NewArchiveService(store, source)

	// Restore succeeds; the merged_into pointer is deliberately untouched
	restored, err := svc.RestoreCustomer(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, restored)
	assert.Equal(t, "5", *source.customers["u1"].MergedInto)
}
