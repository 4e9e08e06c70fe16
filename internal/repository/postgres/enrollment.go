package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/codeshelf/coinledger/internal/apperrors"
	"github.com/codeshelf/coinledger/internal/models"
)

type EnrollmentRepo struct {
	DB DBTX
}

const createEnrollment = `-- name: CreateEnrollment
INSERT INTO enrollments (user_id, course_id, enrolled_at, price, status, progress)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING user_id, course_id, enrolled_at, price, status, progress
`

func (r *EnrollmentRepo) Create(ctx context.Context, enrollment models.Enrollment) (models.Enrollment, error) {
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = time.Now()
	}
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentActive
	}

	rows, _ := r.DB.Query(ctx, createEnrollment,
		enrollment.UserID, enrollment.CourseID, enrollment.EnrolledAt,
		enrollment.Price, enrollment.Status, enrollment.Progress,
	)
	saved, err := pgx.CollectOneRow(rows, rowToEnrollment)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return saved, apperrors.ErrAlreadyEnrolled
		}

		return saved, fmt.Errorf("db error: %w", err)
	}

	return saved, nil
}

const listEnrollments = `-- name: ListEnrollments
SELECT user_id, course_id, enrolled_at, price, status, progress FROM enrollments
WHERE user_id = $1
ORDER BY enrolled_at
`

func (r *EnrollmentRepo) ListForUser(ctx context.Context, userID int64) ([]models.Enrollment, error) {
	rows, _ := r.DB.Query(ctx, listEnrollments, userID)
	enrollments, err := pgx.CollectRows(rows, rowToEnrollment)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return enrollments, nil
}

const isEnrolled = `-- name: IsEnrolled
SELECT EXISTS (SELECT 1 FROM enrollments WHERE user_id = $1 AND course_id = $2)
`

func (r *EnrollmentRepo) IsEnrolled(ctx context.Context, userID int64, courseID int64) (bool, error) {
	rows, _ := r.DB.Query(ctx, isEnrolled, userID, courseID)
	enrolled, err := pgx.CollectOneRow(rows, pgx.RowTo[bool])
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return enrolled, nil
}

func rowToEnrollment(row pgx.CollectableRow) (models.Enrollment, error) {
	var e models.Enrollment
	err := row.Scan(&e.UserID, &e.CourseID, &e.EnrolledAt, &e.Price, &e.Status, &e.Progress)
	return e, err
}
