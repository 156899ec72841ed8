package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kovai/pawnbook/internal/usecase"
)

// SequenceRepository implements usecase.SequenceGenerator on a counter
// table. Drawing a number takes a row lock on the (company, prefix, period)
// counter, so two events in flight for the same document series serialize at
// this point and numbers come out gapless as long as the surrounding
// transaction commits.
type SequenceRepository struct {
	pool *pgxpool.Pool
}

// NewSequenceRepository creates a new SequenceRepository.
func NewSequenceRepository(pool *pgxpool.Pool) *SequenceRepository {
	return &SequenceRepository{pool: pool}
}

// Next returns the next sequence value for (companyID, prefix, period),
// starting at 1. Must be called inside the event's transaction so a rolled
// back event does not burn a number.
func (r *SequenceRepository) Next(ctx context.Context, tx usecase.Transaction, companyID, prefix string, period int) (int, error) {
	var value int
	err := queryable(r.pool, tx).QueryRow(ctx,
		`INSERT INTO sequence_counters (company_id, prefix, period, value)
		 VALUES ($1, $2, $3, 1)
		 ON CONFLICT (company_id, prefix, period)
		 DO UPDATE SET value = sequence_counters.value + 1
		 RETURNING value`,
		companyID, prefix, period).Scan(&value)
	if err != nil {
		return 0, err
	}

	return value, nil
}
