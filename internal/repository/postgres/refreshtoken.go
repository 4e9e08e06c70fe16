package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/codeshelf/coinledger/internal/apperrors"
	"github.com/codeshelf/coinledger/internal/models"
)

type RefreshTokenRepo struct {
	DB DBTX
}

const saveToken = `-- name: SaveRefreshToken
INSERT INTO refresh_tokens (id, user_id, token, created_at, expires_at, used_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id
`

func (r *RefreshTokenRepo) Save(ctx context.Context, token models.RefreshToken) error {
	rows, _ := r.DB.Query(ctx, saveToken, token.ID, token.UserID, token.Token, token.CreatedAt, token.ExpiresAt, token.UsedAt)
	_, err := pgx.CollectOneRow(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// Mark used only if not used before: a replayed refresh token must not
// reset the original used_at.
const markTokenUsed = `-- name: GetAndMarkUsed
UPDATE refresh_tokens
SET used_at = now()
WHERE token = $1 AND used_at IS NULL
RETURNING id, user_id, created_at, expires_at, used_at
`

const getToken = `-- name: GetToken
SELECT id, user_id, created_at, expires_at, used_at FROM refresh_tokens
WHERE token = $1
`

func (r *RefreshTokenRepo) GetAndMarkUsed(ctx context.Context, tokenString string) (models.RefreshToken, error) {
	scan := func(row pgx.CollectableRow) (models.RefreshToken, error) {
		t := models.RefreshToken{Token: tokenString}
		err := row.Scan(&t.ID, &t.UserID, &t.CreatedAt, &t.ExpiresAt, &t.UsedAt)
		return t, err
	}

	rows, _ := r.DB.Query(ctx, markTokenUsed, tokenString)
	token, err := pgx.CollectOneRow(rows, scan)

	switch {
	case err == nil:
		return token, nil
	case errors.Is(err, pgx.ErrNoRows):
		// Token missing or already used, one more read tells which
		rows, _ := r.DB.Query(ctx, getToken, tokenString)
		token, err := pgx.CollectOneRow(rows, scan)

		switch {
		case err == nil:
			return token, apperrors.ErrRefreshTokenIsUsed
		case errors.Is(err, pgx.ErrNoRows):
			return token, apperrors.ErrRefreshTokenNotFound
		default:
			return token, fmt.Errorf("db error: %w", err)
		}
	default:
		return token, fmt.Errorf("db error: %w", err)
	}
}
