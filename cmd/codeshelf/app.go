package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/codeshelf/coinledger/internal/db"
	"github.com/codeshelf/coinledger/internal/handlers"
	"github.com/codeshelf/coinledger/internal/logger"
	"github.com/codeshelf/coinledger/internal/repository/postgres"
	"github.com/codeshelf/coinledger/internal/service/auth"
	"github.com/codeshelf/coinledger/internal/service/catalog"
	"github.com/codeshelf/coinledger/internal/service/enrollment"
	"github.com/codeshelf/coinledger/internal/service/wallet"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger: JSON in prod, text otherwise
	var log logger.Logger
	switch c.Environment {
	case "dev":
		log = logger.NewLogger(c.LogLevel)
	default:
		log = logger.NewJSONLogger(c.LogLevel)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize services
	authService, err := auth.NewService(auth.Config{
		SecretKey:   c.SecretKey,
		SignupBonus: c.SignupBonus,
	}, storage)
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}

	walletService := wallet.NewService(wallet.Config{
		DisableTransferLedger: c.DisableTransferLedger,
	}, storage)
	enrollmentService := enrollment.NewService(storage)
	catalogService := catalog.NewService(storage)

	mux := handlers.NewRouter(
		authService,
		walletService,
		enrollmentService,
		catalogService,
		log,
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			slog.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		slog.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close connections gracefully
	slog.Info("Starting server", "addr", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
