package handlers

import (
	"context"
	"net/http"

	"github.com/codeshelf/coinledger/internal/handlers/middleware"
	"github.com/codeshelf/coinledger/internal/logger"
	"github.com/codeshelf/coinledger/internal/models"
	"github.com/codeshelf/coinledger/internal/repository"
	"github.com/codeshelf/coinledger/internal/service/catalog"
	"github.com/codeshelf/coinledger/internal/service/enrollment"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	authService authService,
	walletService walletService,
	enrollmentService enrollmentService,
	catalogService catalogService,
	logger logger.Logger,
) http.Handler {
	authMiddleware := middleware.AuthMiddleware(authService)
	withAuth := func(h http.Handler) http.Handler {
		return authMiddleware(h)
	}
	withAdmin := func(h http.Handler) http.Handler {
		return authMiddleware(middleware.RequireAdmin(h))
	}

	mux := http.NewServeMux()

	mux.Handle("POST /api/auth/register", handleRegister(authService, logger))
	mux.Handle("POST /api/auth/login", handleLogin(authService, logger))
	mux.Handle("POST /api/auth/refresh", handleTokenRefresh(authService, logger))
	mux.Handle("GET /api/auth/me", withAuth(handleUserMe()))

	mux.Handle("POST /api/enrollments/courses/{id}/enroll", withAuth(handleEnroll(enrollmentService, logger)))
	mux.Handle("GET /api/enrollments/users/me/courses", withAuth(handleMyCourses(enrollmentService, logger)))
	mux.Handle("GET /api/enrollments/status/{courseId}", withAuth(handleEnrollmentStatus(enrollmentService, logger)))

	mux.Handle("GET /api/coins/balance/{userId}", withAuth(handleCoinBalance(walletService, logger)))
	mux.Handle("PUT /api/coins/update/{userId}", withAdmin(handleCoinUpdate(walletService, logger)))
	mux.Handle("POST /api/coins/transfer", withAuth(handleTransfer(walletService, logger)))

	mux.Handle("GET /api/transactions", withAdmin(handleListTransactions(walletService, logger)))
	mux.Handle("GET /api/transactions/me", withAuth(handleMyTransactions(walletService, logger)))

	mux.Handle("POST /api/catalog/courses", withAdmin(handleCreateCourse(catalogService, logger)))
	mux.Handle("GET /api/catalog/courses", handleListCourses(catalogService, logger))
	mux.Handle("GET /api/catalog/courses/{id}", handleGetCourse(catalogService, logger))
	mux.Handle("POST /api/catalog/products", withAdmin(handleCreateProduct(catalogService, logger)))
	mux.Handle("GET /api/catalog/products", handleListProducts(catalogService, logger))
	mux.Handle("POST /api/catalog/categories", withAdmin(handleCreateCategory(catalogService, logger)))
	mux.Handle("GET /api/catalog/categories", handleListCategories(catalogService, logger))

	return chain(mux,
		middleware.LoggerMiddleware(logger),
	)
}

type authService interface {
	// Register user with username and password
	// Has to return apperrors.ErrUserAlreadyExists if user already exists
	Register(ctx context.Context, username string, password string) (models.User, models.TokenPair, error)

	// Login user with username and password
	// Has to return apperrors.ErrUserNotFound if user not found or password mismatched
	Login(ctx context.Context, username string, password string) (models.User, models.TokenPair, error)

	// Refresh tokens using refresh token
	// If token expired: has to return apperrors.ErrRefreshTokenExpired
	// If token not found: has to return apperrors.ErrRefreshTokenNotFound
	RefreshPair(ctx context.Context, refresh string) (models.TokenPair, error)

	// Get request and return user if it authenticated or error
	Auth(ctx context.Context, r *http.Request) (models.User, error)
}

type walletService interface {
	GetBalance(ctx context.Context, userID int64) (int64, error)
	AdjustBalance(ctx context.Context, userID int64, amount int64, reason string) (models.User, error)
	Transfer(ctx context.Context, fromID int64, toID int64, amount int64) (int64, error)
	ListTransactions(ctx context.Context, filter repository.LedgerFilter) ([]models.LedgerEntry, int64, error)
}

type enrollmentService interface {
	Enroll(ctx context.Context, userID int64, courseID int64) (enrollment.EnrollResult, error)
	ListEnrollments(ctx context.Context, userID int64) ([]models.Enrollment, error)
	IsEnrolled(ctx context.Context, userID int64, courseID int64) (bool, error)
}

type catalogService interface {
	CreateCourse(ctx context.Context, arg catalog.CreateCourseParams) (models.Course, error)
	GetCourse(ctx context.Context, courseID int64) (models.Course, error)
	ListCourses(ctx context.Context) ([]models.Course, error)
	CreateProduct(ctx context.Context, arg catalog.CreateProductParams) (models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateCategory(ctx context.Context, name string) (models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}
