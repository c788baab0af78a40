package service

import (
	"context"
	"time"

	"sales-warehouse/backend/internal/logger"
	"sales-warehouse/backend/internal/repository"
)

type archiveStore interface {
	PreviewArchive(ctx context.Context, cutoff time.Time) (repository.ArchivePreview, error)
	ListCustomersToArchive(ctx context.Context, cutoff time.Time) ([]repository.Customer, error)
	ListProductsToArchive(ctx context.Context, cutoff time.Time) ([]repository.Product, error)
	ArchiveCustomers(ctx context.Context, ids []string) (int64, error)
	ArchiveProducts(ctx context.Context, ids []int64) (int64, error)
	ArchiveCustomersByCutoff(ctx context.Context, cutoff time.Time) (int64, error)
	ArchiveProductsByCutoff(ctx context.Context, cutoff time.Time) (int64, error)
	UnarchiveCustomer(ctx context.Context, id string) (bool, error)
	UnarchiveProduct(ctx context.Context, id int64) (bool, error)
}

type customerReader interface {
	GetCustomer(ctx context.Context, id string) (*repository.Customer, error)
}

// ArchiveService drives the archive/restore lifecycle for customer and
// product records.
type ArchiveService struct {
	store     archiveStore
	customers customerReader
}

func NewArchiveService(store archiveStore, customers customerReader) *ArchiveService {
	return &ArchiveService{store: store, customers: customers}
}

// PreviewArchive reports how many customers and products a cutoff would
// archive. Side-effect free.
func (s *ArchiveService) PreviewArchive(ctx context.Context, cutoff time.Time) (repository.ArchivePreview, error) {
	return s.store.PreviewArchive(ctx, cutoff)
}

// ListCustomersToArchive returns archival candidates for operator review.
func (s *ArchiveService) ListCustomersToArchive(ctx context.Context, cutoff time.Time) ([]repository.Customer, error) {
	return s.store.ListCustomersToArchive(ctx, cutoff)
}

// ListProductsToArchive returns product archival candidates.
func (s *ArchiveService) ListProductsToArchive(ctx context.Context, cutoff time.Time) ([]repository.Product, error) {
	return s.store.ListProductsToArchive(ctx, cutoff)
}

// ArchiveCustomers archives exactly the given customer ids.
func (s *ArchiveService) ArchiveCustomers(ctx context.Context, ids []string) (int64, error) {
	count, err := s.store.ArchiveCustomers(ctx, ids)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logger.Info().Int64("count", count).Msg("customers archived")
	}
	return count, nil
}

// ArchiveProducts archives exactly the given product ids.
func (s *ArchiveService) ArchiveProducts(ctx context.Context, ids []int64) (int64, error) {
	count, err := s.store.ArchiveProducts(ctx, ids)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logger.Info().Int64("count", count).Msg("products archived")
	}
	return count, nil
}

// ArchiveByCutoff archives all inactive customers and products in one pass
// and returns the combined counts.
func (s *ArchiveService) ArchiveByCutoff(ctx context.Context, cutoff time.Time) (repository.ArchivePreview, error) {
	customers, err := s.store.ArchiveCustomersByCutoff(ctx, cutoff)
	if err != nil {
		return repository.ArchivePreview{}, err
	}
	products, err := s.store.ArchiveProductsByCutoff(ctx, cutoff)
	if err != nil {
		return repository.ArchivePreview{}, err
	}

	logger.Info().
		Time("cutoff", cutoff).
		Int64("customers", customers).
		Int64("products", products).
		Msg("archived records by cutoff date")

	return repository.ArchivePreview{Customers: customers, Products: products}, nil
}

// RestoreCustomer clears a customer's archived flag. Returns false when the
// id does not exist. Restoring a merged customer keeps the merged_into
// pointer: transactional rows were already re-pointed to the merge target
// and are not reversed, so the link is retained for audit.
func (s *ArchiveService) RestoreCustomer(ctx context.Context, id string) (bool, error) {
	customer, err := s.customers.GetCustomer(ctx, id)
	if err == nil && customer.MergedInto != nil {
		logger.Warn().
			Str("customer_id", id).
			Str("merged_into", *customer.MergedInto).
			Msg("restoring a merged customer; transactional rows stay with the merge target")
	}

	return s.store.UnarchiveCustomer(ctx, id)
}

// RestoreProduct clears a product's archived flag.
func (s *ArchiveService) RestoreProduct(ctx context.Context, id int64) (bool, error) {
	return s.store.UnarchiveProduct(ctx, id)
}
