package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/codeshelf/coinledger/internal/apperrors"
	"github.com/codeshelf/coinledger/internal/models"
	"github.com/codeshelf/coinledger/internal/repository"
	"github.com/codeshelf/coinledger/internal/repository/postgres"
	"github.com/codeshelf/coinledger/internal/testutil"
)

func TestAuthService(t *testing.T) {
	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	inTx := func(t *testing.T, cfg Config, fn func(service *Service, storage repository.Storage)) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			service, err := NewService(cfg, storage)
			require.NoError(t, err, "creating auth service should not fail")
			fn(service, storage)
		})
	}

	cfg := Config{SecretKey: "test-secret", SignupBonus: 100}

	t.Run("Register", func(t *testing.T) {
		t.Run("creates user with sequence id and signup bonus", func(t *testing.T) {
			inTx(t, cfg, func(service *Service, storage repository.Storage) {
				user, pair, err := service.Register(t.Context(), "gordon", "correct horse battery staple")

				require.NoError(t, err)
				require.Greater(t, user.ID, repository.FloorUser, "user id has to be above the floor")
				require.Equal(t, models.RoleStudent, user.Role)
				require.Equal(t, int64(100), user.Coins, "signup bonus has to be granted")
				require.NotEmpty(t, pair.Access.Value)
				require.NotEmpty(t, pair.Refresh.Value)

				entries, total, err := storage.Ledger().List(t.Context(), repository.LedgerFilter{UserID: &user.ID})
				require.NoError(t, err)
				require.Equal(t, int64(1), total, "bonus has to leave a ledger entry")
				require.Equal(t, models.EntryTypeCredit, entries[0].Type)
				require.Equal(t, int64(100), entries[0].Amount)
				require.Equal(t, "Welcome bonus", entries[0].Reason)
				require.Equal(t, models.ReferenceSignupBonus, *entries[0].ReferenceType)
			})
		})

		t.Run("zero bonus skips the ledger", func(t *testing.T) {
			inTx(t, Config{SecretKey: "test-secret"}, func(service *Service, storage repository.Storage) {
				user, _, err := service.Register(t.Context(), "gordon", "correct horse battery staple")

				require.NoError(t, err)
				require.Zero(t, user.Coins)

				_, total, err := storage.Ledger().List(t.Context(), repository.LedgerFilter{UserID: &user.ID})
				require.NoError(t, err)
				require.Zero(t, total)
			})
		})

		t.Run("duplicate username fails", func(t *testing.T) {
			inTx(t, cfg, func(service *Service, storage repository.Storage) {
				_, _, err := service.Register(t.Context(), "gordon", "correct horse battery staple")
				require.NoError(t, err)

				_, _, err = service.Register(t.Context(), "gordon", "another password")

				require.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)
			})
		})
	})

	t.Run("Login", func(t *testing.T) {
		t.Run("valid credentials return a token pair", func(t *testing.T) {
			inTx(t, cfg, func(service *Service, storage repository.Storage) {
				registered, _, err := service.Register(t.Context(), "gordon", "correct horse battery staple")
				require.NoError(t, err)

				user, pair, err := service.Login(t.Context(), "gordon", "correct horse battery staple")

				require.NoError(t, err)
				require.Equal(t, registered.ID, user.ID)
				require.NotEmpty(t, pair.Access.Value)
			})
		})

		t.Run("wrong password reported as user not found", func(t *testing.T) {
			inTx(t, cfg, func(service *Service, storage repository.Storage) {
				_, _, err := service.Register(t.Context(), "gordon", "correct horse battery staple")
				require.NoError(t, err)

				_, _, err = service.Login(t.Context(), "gordon", "wrong password")

				require.ErrorIs(t, err, apperrors.ErrUserNotFound, "wrong password must look like unknown user")
			})
		})

		t.Run("unknown username", func(t *testing.T) {
			inTx(t, cfg, func(service *Service, storage repository.Storage) {
				_, _, err := service.Login(t.Context(), "nobody", "whatever password")

				require.ErrorIs(t, err, apperrors.ErrUserNotFound)
			})
		})
	})

	t.Run("RefreshPair", func(t *testing.T) {
		t.Run("exchanges refresh token for a new pair", func(t *testing.T) {
			inTx(t, cfg, func(service *Service, storage repository.Storage) {
				user, pair, err := service.Register(t.Context(), "gordon", "correct horse battery staple")
				require.NoError(t, err)

				fresh, err := service.RefreshPair(t.Context(), pair.Refresh.Value)

				require.NoError(t, err)
				require.NotEmpty(t, fresh.Access.Value)
				require.NotEqual(t, pair.Refresh.Value, fresh.Refresh.Value, "refresh token has to rotate")

				userID, err := service.tokens.ParseAccess(t.Context(), fresh.Access.Value)
				require.NoError(t, err)
				require.Equal(t, user.ID, userID)
			})
		})

		t.Run("used refresh token is rejected", func(t *testing.T) {
			inTx(t, cfg, func(service *Service, storage repository.Storage) {
				_, pair, err := service.Register(t.Context(), "gordon", "correct horse battery staple")
				require.NoError(t, err)

				_, err = service.RefreshPair(t.Context(), pair.Refresh.Value)
				require.NoError(t, err)

				_, err = service.RefreshPair(t.Context(), pair.Refresh.Value)
				require.ErrorIs(t, err, apperrors.ErrRefreshTokenIsUsed)
			})
		})
	})

	t.Run("Auth", func(t *testing.T) {
		t.Run("request with bearer token resolves to the user", func(t *testing.T) {
			inTx(t, cfg, func(service *Service, storage repository.Storage) {
				registered, pair, err := service.Register(t.Context(), "gordon", "correct horse battery staple")
				require.NoError(t, err)

				r := httptest.NewRequest("GET", "/api/auth/me", nil)
				r.Header.Set("Authorization", "Bearer "+pair.Access.Value)

				user, err := service.Auth(t.Context(), r)

				require.NoError(t, err)
				require.Equal(t, registered.ID, user.ID)
			})
		})

		t.Run("missing authorization header", func(t *testing.T) {
			inTx(t, cfg, func(service *Service, storage repository.Storage) {
				r := httptest.NewRequest("GET", "/api/auth/me", nil)

				_, err := service.Auth(t.Context(), r)

				require.Error(t, err)
			})
		})

		t.Run("garbage token", func(t *testing.T) {
			inTx(t, cfg, func(service *Service, storage repository.Storage) {
				r := httptest.NewRequest("GET", "/api/auth/me", nil)
				r.Header.Set("Authorization", "Bearer not-a-jwt")

				_, err := service.Auth(t.Context(), r)

				require.Error(t, err)
			})
		})
	})
}
