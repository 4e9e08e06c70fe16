package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/codeshelf/coinledger/internal/apperrors"
	"github.com/codeshelf/coinledger/internal/models"
	"github.com/codeshelf/coinledger/internal/repository"
)

type UserRepo struct {
	DB DBTX
}

const createUser = `-- name: CreateUser
INSERT INTO users (id, username, password_hash, role)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at, username, password_hash, role, coins
`

func (r *UserRepo) CreateUser(ctx context.Context, arg repository.CreateUserParams) (models.User, error) {
	role := arg.Role
	if role == "" {
		role = models.RoleStudent
	}

	rows, _ := r.DB.Query(ctx, createUser, arg.ID, arg.Username, arg.HashedPassword, role)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return user, apperrors.ErrUserAlreadyExists
		}

		return user, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const getUserByID = `-- name: GetUserByID
SELECT id, created_at, username, password_hash, role, coins FROM users
WHERE id = $1
`

func (r *UserRepo) GetUserByID(ctx context.Context, userID int64) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByID, userID)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

const getUserByUsername = `-- name: GetUserByUsername
SELECT id, created_at, username, password_hash, role, coins FROM users
WHERE username = $1
`

func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByUsername, username)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

// Balance changes are a single conditional update, never load/compute/save,
// so concurrent adjustments can't lose updates. The guard keeps the balance
// from going negative.
const adjustCoins = `-- name: AdjustCoins
UPDATE users
SET coins = coins + $2
WHERE id = $1 AND coins + $2 >= 0
RETURNING id, created_at, username, password_hash, role, coins
`

const getCoins = `-- name: GetCoins
SELECT coins FROM users WHERE id = $1
`

func (r *UserRepo) AdjustCoins(ctx context.Context, userID int64, delta int64) (models.User, error) {
	rows, _ := r.DB.Query(ctx, adjustCoins, userID, delta)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		// Either the user doesn't exist or the guard rejected the debit.
		// One more read tells which.
		coinsRows, _ := r.DB.Query(ctx, getCoins, userID)
		coins, coinsErr := pgx.CollectOneRow(coinsRows, pgx.RowTo[int64])

		switch {
		case errors.Is(coinsErr, pgx.ErrNoRows):
			return user, apperrors.ErrUserNotFound
		case coinsErr != nil:
			return user, fmt.Errorf("db error: %w", coinsErr)
		default:
			return user, &apperrors.InsufficientCoinsError{Required: -delta, Current: coins}
		}
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.CreatedAt, &u.Username, &u.HashedPassword, &u.Role, &u.Coins)
	return u, err
}
