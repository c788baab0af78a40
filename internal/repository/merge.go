package repository

import (
	"context"
	"fmt"

	"sales-warehouse/backend/internal/db"

	"github.com/jackc/pgx/v5"
)

// MergeRepository rewrites transactional foreign keys when a duplicate
// customer is folded into a surviving record.
type MergeRepository struct {
	database *db.Database
}

func NewMergeRepository(database *db.Database) *MergeRepository {
	return &MergeRepository{database: database}
}

// transactionalTables are the fact tables carrying a customer reference.
// A merge must rewrite every one of them or none.
var transactionalTables = []string{
	"dw.fct_invoice",
	"dw.fct_sales_line",
}

// MergeCustomers re-points every transactional row referencing sourceID to
// targetID, then marks the source record as merged and archived. The whole
// operation runs in one transaction: a failure in any statement rolls back
// all of it.
//
// Returns the number of transactional rows rewritten. Calling again after a
// successful merge finds nothing left to re-point and returns 0.
func (r *MergeRepository) MergeCustomers(ctx context.Context, sourceID, targetID string) (int64, error) {
	var updated int64

	err := r.database.WithTx(ctx, func(tx pgx.Tx) error {
		for _, table := range transactionalTables {
			tag, err := tx.Exec(ctx,
				fmt.Sprintf(`UPDATE %s SET customer_id = $1 WHERE customer_id = $2`, table),
				targetID, sourceID)
			if err != nil {
				return fmt.Errorf("failed to re-point %s: %w", table, err)
			}
			updated += tag.RowsAffected()
		}

		_, err := tx.Exec(ctx,
			`UPDATE dw.dim_customer SET merged_into = $1, archived = true WHERE customer_id = $2`,
			targetID, sourceID)
		if err != nil {
			return fmt.Errorf("failed to mark customer merged: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return updated, nil
}
