package repository

import (
	"context"
	"errors"

	"sales-warehouse/backend/internal/db"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Product represents a dim_product row. Products have no merge concept,
// only archive/restore.
type Product struct {
	ProductID    int64   `json:"product_id"`
	ProductCode  string  `json:"product_code"`
	ItemName     string  `json:"item_name"`
	ProductGroup *string `json:"product_group,omitempty"`
	Archived     bool    `json:"archived"`
}

type ProductRepository struct {
	q db.Querier
}

func NewProductRepository(q db.Querier) *ProductRepository {
	return &ProductRepository{q: q}
}

const productColumns = `product_id, coalesce(product_code, ''), coalesce(item_name, ''),
	product_group, coalesce(archived, false)`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	var group pgtype.Text
	if err := row.Scan(&p.ProductID, &p.ProductCode, &p.ItemName, &group, &p.Archived); err != nil {
		return nil, err
	}
	p.ProductGroup = textToStringPtr(group)
	return &p, nil
}

// GetProduct retrieves one product by id
func (r *ProductRepository) GetProduct(ctx context.Context, id int64) (*Product, error) {
	row := r.q.QueryRow(ctx,
		`SELECT `+productColumns+` FROM dw.dim_product WHERE product_id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListProducts returns products ordered by item name. Archived records are
// excluded unless includeArchived is set.
func (r *ProductRepository) ListProducts(ctx context.Context, includeArchived bool) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM dw.dim_product`
	if !includeArchived {
		query += ` WHERE archived = false OR archived IS NULL`
	}
	query += ` ORDER BY item_name`

	rows, err := r.q.Query(ctx, query)
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

// NextProductID returns the next free product id
func (r *ProductRepository) NextProductID(ctx context.Context) (int64, error) {
	var next int64
	err := r.q.QueryRow(ctx,
		`SELECT coalesce(max(product_id), 0) + 1 FROM dw.dim_product`).Scan(&next)
	return next, err
}
