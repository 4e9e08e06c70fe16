package e2e

import (
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stretchr/testify/require"

	"github.com/codeshelf/coinledger/internal/handlers"
	"github.com/codeshelf/coinledger/internal/logger"
	"github.com/codeshelf/coinledger/internal/repository/postgres"
	"github.com/codeshelf/coinledger/internal/service/auth"
	"github.com/codeshelf/coinledger/internal/service/catalog"
	"github.com/codeshelf/coinledger/internal/service/enrollment"
	"github.com/codeshelf/coinledger/internal/service/wallet"
	"github.com/codeshelf/coinledger/internal/testutil"
)

type Services struct {
	Auth       *auth.Service
	Wallet     *wallet.Service
	Enrollment *enrollment.Service
	Catalog    *catalog.Service
}

// Create db transaction and run server with that connection (one connection cause one transaction)
// The created transaction passed to inner function: so, you can safely use testutil.InTx with it
func ServeInTx(dbpool *pgxpool.Pool, t *testing.T, fn func(tx pgx.Tx, srvURL string, services Services)) {
	testutil.InTx(dbpool, t, func(tx pgx.Tx) {
		storage := postgres.NewStorage(tx)

		authService, err := auth.NewService(auth.Config{
			SecretKey:   "test-secret",
			SignupBonus: 100,
		}, storage)
		require.NoError(t, err, "auth service starting error")

		walletService := wallet.NewService(wallet.Config{}, storage)
		enrollmentService := enrollment.NewService(storage)
		catalogService := catalog.NewService(storage)

		router := handlers.NewRouter(
			authService,
			walletService,
			enrollmentService,
			catalogService,
			logger.NewNoOpLogger(),
		)

		// Run http server with the router in transaction
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(tx, srv.URL, Services{
			Auth:       authService,
			Wallet:     walletService,
			Enrollment: enrollmentService,
			Catalog:    catalogService,
		})
	})
}
