package repository

import (
	"context"
	"time"

	"sales-warehouse/backend/internal/db"
)

// ArchiveRepository implements the archive/restore lifecycle over customer
// and product master records. A record is archival-eligible when no
// transactional row references it with a transaction date at or after the
// cutoff.
type ArchiveRepository struct {
	q db.Querier
}

func NewArchiveRepository(q db.Querier) *ArchiveRepository {
	return &ArchiveRepository{q: q}
}

// ArchivePreview summarizes how many records a cutoff would archive.
type ArchivePreview struct {
	Customers int64 `json:"customers"`
	Products  int64 `json:"products"`
}

// Predicate fragments shared by preview, listing and archive-by-cutoff.
// The archived guard distinguishes never-archived rows from already-archived
// ones so repeat runs do not rewrite rows that are already flagged.
const (
	customerInactiveWhere = `(c.archived = false OR c.archived IS NULL)
		AND NOT EXISTS (
			SELECT 1 FROM dw.fct_invoice i
			WHERE i.customer_id = c.customer_id AND i.invoice_date >= $1
		)
		AND NOT EXISTS (
			SELECT 1 FROM dw.fct_sales_line s
			WHERE s.customer_id = c.customer_id AND s.invoice_date >= $1
		)`

	productInactiveWhere = `(p.archived = false OR p.archived IS NULL)
		AND NOT EXISTS (
			SELECT 1 FROM dw.fct_sales_line s
			WHERE s.product_id = p.product_id AND s.invoice_date >= $1
		)`
)

// PreviewArchive counts the customers and products a cutoff would archive.
// Read-only.
func (r *ArchiveRepository) PreviewArchive(ctx context.Context, cutoff time.Time) (ArchivePreview, error) {
	var preview ArchivePreview

	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM dw.dim_customer c WHERE `+customerInactiveWhere, cutoff,
	).Scan(&preview.Customers)
	if err != nil {
		return ArchivePreview{}, err
	}

	err = r.q.QueryRow(ctx,
		`SELECT count(*) FROM dw.dim_product p WHERE `+productInactiveWhere, cutoff,
	).Scan(&preview.Products)
	if err != nil {
		return ArchivePreview{}, err
	}

	return preview, nil
}

// ListCustomersToArchive returns the customers a cutoff would archive, for
// operator review and exclusion.
func (r *ArchiveRepository) ListCustomersToArchive(ctx context.Context, cutoff time.Time) ([]Customer, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+customerColumns+`
		FROM dw.dim_customer c WHERE `+customerInactiveWhere+`
		ORDER BY customer_name`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

// ListProductsToArchive returns the products a cutoff would archive.
func (r *ArchiveRepository) ListProductsToArchive(ctx context.Context, cutoff time.Time) ([]Product, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+productColumns+`
		FROM dw.dim_product p WHERE `+productInactiveWhere+`
		ORDER BY item_name`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// ArchiveCustomers sets archived on exactly the given ids. Empty input is a
// no-op. The update is unconditional on current state, so already-archived
// ids count again.
func (r *ArchiveRepository) ArchiveCustomers(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE dw.dim_customer SET archived = true WHERE customer_id = ANY($1)`, ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ArchiveProducts sets archived on exactly the given product ids.
func (r *ArchiveRepository) ArchiveProducts(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE dw.dim_product SET archived = true WHERE product_id = ANY($1)`, ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ArchiveCustomersByCutoff archives every currently-unarchived customer with
// no transactional activity at or after the cutoff.
func (r *ArchiveRepository) ArchiveCustomersByCutoff(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE dw.dim_customer c SET archived = true
		WHERE `+customerInactiveWhere, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ArchiveProductsByCutoff archives every currently-unarchived product with
// no sales activity at or after the cutoff.
func (r *ArchiveRepository) ArchiveProductsByCutoff(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE dw.dim_product p SET archived = true
		WHERE `+productInactiveWhere, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// UnarchiveCustomer clears the archived flag. Returns whether a row changed;
// false means the id was not found. A merged customer keeps its merged_into
// pointer, the re-pointed transactional rows are not restored.
func (r *ArchiveRepository) UnarchiveCustomer(ctx context.Context, id string) (bool, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE dw.dim_customer SET archived = false WHERE customer_id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// UnarchiveProduct clears the archived flag on a product.
func (r *ArchiveRepository) UnarchiveProduct(ctx context.Context, id int64) (bool, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE dw.dim_product SET archived = false WHERE product_id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
