package repository

import (
	"context"
	"time"

	"github.com/codeshelf/coinledger/internal/models"
)

// Sequence counter floors. The first id issued for a name is strictly
// greater than its floor, so ranges of different entity types never overlap.
const (
	FloorCategory    int64 = 50
	FloorUser        int64 = 100
	FloorSubCategory int64 = 500
	FloorProduct     int64 = 1000
	FloorCourse      int64 = 2000
	FloorOrder       int64 = 10000
)

// SequenceFloors maps recognized counter names to their floors.
var SequenceFloors = map[string]int64{
	"category":    FloorCategory,
	"user":        FloorUser,
	"subCategory": FloorSubCategory,
	"product":     FloorProduct,
	"course":      FloorCourse,
	"order":       FloorOrder,
}

// Sequence counter repository
type SequenceRepo interface {
	// Atomically increment the named counter and return the new value.
	// The counter is created on first use. Unknown names must fail with
	// apperrors.UnknownSequenceError.
	NextID(ctx context.Context, name string) (int64, error)

	// Same allocation without name validation: unknown names use floor 0.
	NextIDWithFloor(ctx context.Context, name string, floor int64) (int64, error)
}

type CreateUserParams struct {
	ID             int64
	Username       string
	HashedPassword string
	Role           string
}

// User repository interface
type UserRepo interface {
	// Create user with a pre-allocated numeric id
	// If user with username exists already has to return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, arg CreateUserParams) (models.User, error)

	// Get user by its id or username
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID int64) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)

	// AdjustCoins applies delta to the user's coin balance as one atomic
	// conditional update. Positive delta credits, negative debits.
	// Must return apperrors.ErrUserNotFound for missing users and an
	// apperrors.InsufficientCoinsError when the result would be negative,
	// leaving the balance unchanged. Writes no ledger entry.
	AdjustCoins(ctx context.Context, userID int64, delta int64) (models.User, error)
}

// LedgerFilter narrows ledger reads. Zero values mean "no restriction".
type LedgerFilter struct {
	UserID        *int64
	Type          string
	ReferenceType string
	From          time.Time
	To            time.Time
	Limit         int
	Offset        int
}

// Ledger repository interface. Append-only: there is no update or delete.
type LedgerRepo interface {
	// Record validates and appends one entry.
	// Amount must be positive and Type one of credit/debit, otherwise
	// apperrors.ErrInvalidEntryAmount / apperrors.ErrInvalidEntryType.
	Record(ctx context.Context, entry models.LedgerEntry) (models.LedgerEntry, error)

	// List returns matching entries newest first plus the total match count
	// (before Limit/Offset are applied).
	List(ctx context.Context, filter LedgerFilter) ([]models.LedgerEntry, int64, error)
}

// Enrollment repository interface
type EnrollmentRepo interface {
	// Create enrollment row
	// Must return apperrors.ErrAlreadyEnrolled if the (user, course) pair exists
	Create(ctx context.Context, enrollment models.Enrollment) (models.Enrollment, error)

	// List user enrollments ordered by enrollment time
	ListForUser(ctx context.Context, userID int64) ([]models.Enrollment, error)

	IsEnrolled(ctx context.Context, userID int64, courseID int64) (bool, error)
}

// Course repository interface
type CourseRepo interface {
	CreateCourse(ctx context.Context, course models.Course) (models.Course, error)

	// Must return apperrors.ErrCourseNotFound for missing ids
	GetCourseByID(ctx context.Context, courseID int64) (models.Course, error)
	ListCourses(ctx context.Context) ([]models.Course, error)

	// IncrementEnrollmentCount bumps the counter by one atomically
	IncrementEnrollmentCount(ctx context.Context, courseID int64) (models.Course, error)
}

// Product repository interface
type ProductRepo interface {
	CreateProduct(ctx context.Context, product models.Product) (models.Product, error)
	GetProductByID(ctx context.Context, productID int64) (models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
}

// Category repository interface
type CategoryRepo interface {
	CreateCategory(ctx context.Context, category models.Category) (models.Category, error)
	GetCategoryByID(ctx context.Context, categoryID int64) (models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// RefreshToken repository interface
type RefreshTokenRepo interface {
	Save(ctx context.Context, token models.RefreshToken) error

	// Return the token and mark it used in one statement
	// Already used tokens must return apperrors.ErrRefreshTokenIsUsed
	GetAndMarkUsed(ctx context.Context, tokenString string) (models.RefreshToken, error)
}

// Storage aggregates all repositories over one connection or transaction
type Storage interface {
	Sequence() SequenceRepo
	User() UserRepo
	Ledger() LedgerRepo
	Enrollment() EnrollmentRepo
	Course() CourseRepo
	Product() ProductRepo
	Category() CategoryRepo
	Refresh() RefreshTokenRepo

	// InTx runs fn against a Storage bound to one database transaction.
	// Commit if fn returns nil, rollback otherwise.
	InTx(ctx context.Context, fn func(Storage) error) error
}
