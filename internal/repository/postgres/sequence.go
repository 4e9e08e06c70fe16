package postgres

import (
	"fmt"
	"slices"

	"context"

	"github.com/jackc/pgx/v5"

	"github.com/codeshelf/coinledger/internal/apperrors"
	"github.com/codeshelf/coinledger/internal/repository"
)

type SequenceRepo struct {
	DB DBTX
}

// One atomic upsert per allocation. GREATEST lifts the counter above its
// floor on first use (or if the row was created with a stale value), so the
// first id issued for a name is always floor+1 and every later id is
// strictly greater than the previous one. No decrement exists.
const nextID = `-- name: NextID
INSERT INTO counters (name, seq)
VALUES ($1, $2 + 1)
ON CONFLICT (name)
DO UPDATE SET seq = GREATEST(counters.seq + 1, $2 + 1)
RETURNING seq
`

func (r *SequenceRepo) NextID(ctx context.Context, name string) (int64, error) {
	floor, ok := repository.SequenceFloors[name]
	if !ok {
		allowed := make([]string, 0, len(repository.SequenceFloors))
		for n := range repository.SequenceFloors {
			allowed = append(allowed, n)
		}
		slices.Sort(allowed)
		return 0, &apperrors.UnknownSequenceError{Name: name, Allowed: allowed}
	}

	return r.NextIDWithFloor(ctx, name, floor)
}

func (r *SequenceRepo) NextIDWithFloor(ctx context.Context, name string, floor int64) (int64, error) {
	rows, _ := r.DB.Query(ctx, nextID, name, floor)
	seq, err := pgx.CollectOneRow(rows, pgx.RowTo[int64])
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return seq, nil
}
