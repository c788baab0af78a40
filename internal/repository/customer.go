package repository

import (
	"context"
	"errors"

	"sales-warehouse/backend/internal/db"
	"sales-warehouse/backend/internal/matching"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Customer represents a dim_customer row
type Customer struct {
	CustomerID    string  `json:"customer_id"`
	CustomerName  string  `json:"customer_name"`
	ContactName   *string `json:"contact_name,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Fax           *string `json:"fax,omitempty"`
	BillTo        *string `json:"bill_to,omitempty"`
	BalanceTotal  float64 `json:"balance_total"`
	Market        string  `json:"market"`
	MerchantGroup *string `json:"merchant_group,omitempty"`
	AccountNumber *string `json:"account_number,omitempty"`
	Archived      bool    `json:"archived"`
	MergedInto    *string `json:"merged_into,omitempty"`
}

// UpsertCustomerRequest carries the editable customer master fields
type UpsertCustomerRequest struct {
	CustomerID    string  `json:"customer_id"`
	CustomerName  string  `json:"customer_name"`
	ContactName   *string `json:"contact_name,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Fax           *string `json:"fax,omitempty"`
	BillTo        *string `json:"bill_to,omitempty"`
	BalanceTotal  float64 `json:"balance_total"`
	Market        string  `json:"market"`
	MerchantGroup *string `json:"merchant_group,omitempty"`
	AccountNumber *string `json:"account_number,omitempty"`
}

type CustomerRepository struct {
	q db.Querier
}

func NewCustomerRepository(q db.Querier) *CustomerRepository {
	return &CustomerRepository{q: q}
}

const customerColumns = `customer_id, customer_name, contact_name, phone, fax, bill_to,
	coalesce(balance_total, 0), coalesce(market, ''), merchant_group, account_number,
	coalesce(archived, false), merged_into`

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	var contactName, phone, fax, billTo, merchantGroup, accountNumber, mergedInto pgtype.Text
	err := row.Scan(
		&c.CustomerID, &c.CustomerName, &contactName, &phone, &fax, &billTo,
		&c.BalanceTotal, &c.Market, &merchantGroup, &accountNumber,
		&c.Archived, &mergedInto,
	)
	if err != nil {
		return nil, err
	}
	c.ContactName = textToStringPtr(contactName)
	c.Phone = textToStringPtr(phone)
	c.Fax = textToStringPtr(fax)
	c.BillTo = textToStringPtr(billTo)
	c.MerchantGroup = textToStringPtr(merchantGroup)
	c.AccountNumber = textToStringPtr(accountNumber)
	c.MergedInto = textToStringPtr(mergedInto)
	return &c, nil
}

func textToStringPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	return &t.String
}

func stringPtrToText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: *s, Valid: true}
}

// GetCustomer retrieves one customer by id
func (r *CustomerRepository) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	row := r.q.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM dw.dim_customer WHERE customer_id = $1`, id)
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// ListCustomers returns customers ordered by name. Archived records are
// excluded unless includeArchived is set.
func (r *CustomerRepository) ListCustomers(ctx context.Context, includeArchived bool) ([]Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM dw.dim_customer`
	if !includeArchived {
		query += ` WHERE archived = false OR archived IS NULL`
	}
	query += ` ORDER BY customer_name`

	rows, err := r.q.Query(ctx, query)
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

// UpsertCustomer inserts or updates a customer master record keyed on
// customer_id.
func (r *CustomerRepository) UpsertCustomer(ctx context.Context, req UpsertCustomerRequest) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO dw.dim_customer (
			customer_id, customer_name, contact_name, phone, fax, bill_to,
			balance_total, market, merchant_group, account_number
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (customer_id) DO UPDATE SET
			customer_name = excluded.customer_name,
			contact_name = excluded.contact_name,
			phone = excluded.phone,
			fax = excluded.fax,
			bill_to = excluded.bill_to,
			balance_total = excluded.balance_total,
			market = excluded.market,
			merchant_group = excluded.merchant_group,
			account_number = excluded.account_number`,
		req.CustomerID, req.CustomerName,
		stringPtrToText(req.ContactName), stringPtrToText(req.Phone),
		stringPtrToText(req.Fax), stringPtrToText(req.BillTo),
		req.BalanceTotal, req.Market,
		stringPtrToText(req.MerchantGroup), stringPtrToText(req.AccountNumber),
	)
	return err
}

// NextCustomerID returns the next free numeric id for manually created
// customers. Imported records use externally assigned UUIDs and are not
// counted here.
func (r *CustomerRepository) NextCustomerID(ctx context.Context) (int64, error) {
	var next int64
	err := r.q.QueryRow(ctx, `
		SELECT coalesce(max(customer_id::bigint), 0) + 1
		FROM dw.dim_customer
		WHERE customer_id ~ '^[0-9]+$'`).Scan(&next)
	return next, err
}

// ListMarkets returns the distinct markets present in the customer master.
func (r *CustomerRepository) ListMarkets(ctx context.Context) ([]string, error) {
	return r.listDistinct(ctx, `SELECT DISTINCT market FROM dw.dim_customer
		WHERE market IS NOT NULL AND market <> '' ORDER BY market`)
}

// ListMerchantGroups returns the distinct merchant groups.
func (r *CustomerRepository) ListMerchantGroups(ctx context.Context) ([]string, error) {
	return r.listDistinct(ctx, `SELECT DISTINCT merchant_group FROM dw.dim_customer
		WHERE merchant_group IS NOT NULL AND merchant_group <> '' ORDER BY merchant_group`)
}

func (r *CustomerRepository) listDistinct(ctx context.Context, query string) ([]string, error) {
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// ListMatchCandidates partitions active customers into newly-imported and
// historical record sets for the match finder. Imported records carry the
// external system's UUID as customer_id; historical ids are opaque numeric
// strings, so a parseable UUID marks a record as newly imported.
func (r *CustomerRepository) ListMatchCandidates(ctx context.Context) (newRecords, historical []matching.Record, err error) {
	rows, err := r.q.Query(ctx, `
		SELECT customer_id, customer_name FROM dw.dim_customer
		WHERE (archived = false OR archived IS NULL)
		ORDER BY customer_name`)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rec matching.Record
		if err := rows.Scan(&rec.ID, &rec.Name); err != nil {
			return nil, nil, err
		}
		if isImportedID(rec.ID) {
			newRecords = append(newRecords, rec)
		} else {
			historical = append(historical, rec)
		}
	}
	return newRecords, historical, rows.Err()
}

func isImportedID(id string) bool {
	// uuid.Parse also accepts braced and urn forms; external ids are always
	// the 36-character dashed form.
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
