package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/codeshelf/coinledger/internal/apperrors"
	"github.com/codeshelf/coinledger/internal/models"
	"github.com/codeshelf/coinledger/internal/repository"
)

type LedgerRepo struct {
	DB DBTX
}

const recordEntry = `-- name: RecordEntry
INSERT INTO ledger_entries (id, created_at, user_id, type, amount, reason, reference_id, reference_type, metadata)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, created_at, user_id, type, amount, reason, reference_id, reference_type, metadata
`

// Record appends one entry. The ledger is append-only: this is the only
// write operation the repository exposes.
func (r *LedgerRepo) Record(ctx context.Context, entry models.LedgerEntry) (models.LedgerEntry, error) {
	if entry.Amount <= 0 {
		return entry, apperrors.ErrInvalidEntryAmount
	}
	if entry.Type != models.EntryTypeCredit && entry.Type != models.EntryTypeDebit {
		return entry, apperrors.ErrInvalidEntryType
	}

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	rows, _ := r.DB.Query(ctx, recordEntry,
		entry.ID, entry.CreatedAt, entry.UserID, entry.Type, entry.Amount,
		entry.Reason, entry.ReferenceID, entry.ReferenceType, entry.Metadata,
	)
	saved, err := pgx.CollectOneRow(rows, rowToLedgerEntry)
	if err != nil {
		return saved, fmt.Errorf("db error: %w", err)
	}

	return saved, nil
}

func (r *LedgerRepo) List(ctx context.Context, filter repository.LedgerFilter) ([]models.LedgerEntry, int64, error) {
	where, args := buildLedgerWhere(filter)

	countQuery := "SELECT count(*) FROM ledger_entries" + where
	total, err := pgx.CollectOneRow(queryRows(r.DB, ctx, countQuery, args), pgx.RowTo[int64])
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	listQuery := "SELECT id, created_at, user_id, type, amount, reason, reference_id, reference_type, metadata FROM ledger_entries" +
		where + " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		listQuery += " LIMIT " + strconv.Itoa(filter.Limit)
	}
	if filter.Offset > 0 {
		listQuery += " OFFSET " + strconv.Itoa(filter.Offset)
	}

	entries, err := pgx.CollectRows(queryRows(r.DB, ctx, listQuery, args), rowToLedgerEntry)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return entries, total, nil
}

func queryRows(db DBTX, ctx context.Context, query string, args []any) pgx.Rows {
	rows, _ := db.Query(ctx, query, args...)
	return rows
}

func buildLedgerWhere(filter repository.LedgerFilter) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.UserID != nil {
		add("user_id = $%d", *filter.UserID)
	}
	if filter.Type != "" {
		add("type = $%d", filter.Type)
	}
	if filter.ReferenceType != "" {
		add("reference_type = $%d", filter.ReferenceType)
	}
	if !filter.From.IsZero() {
		add("created_at >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		add("created_at <= $%d", filter.To)
	}

	if len(conds) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

func rowToLedgerEntry(row pgx.CollectableRow) (models.LedgerEntry, error) {
	var e models.LedgerEntry
	err := row.Scan(&e.ID, &e.CreatedAt, &e.UserID, &e.Type, &e.Amount, &e.Reason, &e.ReferenceID, &e.ReferenceType, &e.Metadata)
	return e, err
}
