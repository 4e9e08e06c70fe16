package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/codeshelf/coinledger/internal/apperrors"
	"github.com/codeshelf/coinledger/internal/models"
)

type CourseRepo struct {
	DB DBTX
}

const createCourse = `-- name: CreateCourse
INSERT INTO courses (id, title, description, price_coins, price_fiat, category_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at, title, description, price_coins, price_fiat, category_id, enrollment_count
`

func (r *CourseRepo) CreateCourse(ctx context.Context, course models.Course) (models.Course, error) {
	rows, _ := r.DB.Query(ctx, createCourse,
		course.ID, course.Title, course.Description,
		course.PriceCoins, course.PriceFiat, course.CategoryID,
	)
	saved, err := pgx.CollectOneRow(rows, rowToCourse)
	if err != nil {
		return saved, fmt.Errorf("db error: %w", err)
	}

	return saved, nil
}

const getCourseByID = `-- name: GetCourseByID
SELECT id, created_at, title, description, price_coins, price_fiat, category_id, enrollment_count FROM courses
WHERE id = $1
`

func (r *CourseRepo) GetCourseByID(ctx context.Context, courseID int64) (models.Course, error) {
	rows, _ := r.DB.Query(ctx, getCourseByID, courseID)
	course, err := pgx.CollectOneRow(rows, rowToCourse)

	switch {
	case err == nil:
		return course, nil
	case errors.Is(err, pgx.ErrNoRows):
		return course, apperrors.ErrCourseNotFound
	default:
		return course, fmt.Errorf("db error: %w", err)
	}
}

const listCourses = `-- name: ListCourses
SELECT id, created_at, title, description, price_coins, price_fiat, category_id, enrollment_count FROM courses
ORDER BY id
`

func (r *CourseRepo) ListCourses(ctx context.Context) ([]models.Course, error) {
	rows, _ := r.DB.Query(ctx, listCourses)
	courses, err := pgx.CollectRows(rows, rowToCourse)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return courses, nil
}

const incrementEnrollmentCount = `-- name: IncrementEnrollmentCount
UPDATE courses
SET enrollment_count = enrollment_count + 1
WHERE id = $1
RETURNING id, created_at, title, description, price_coins, price_fiat, category_id, enrollment_count
`

func (r *CourseRepo) IncrementEnrollmentCount(ctx context.Context, courseID int64) (models.Course, error) {
	rows, _ := r.DB.Query(ctx, incrementEnrollmentCount, courseID)
	course, err := pgx.CollectOneRow(rows, rowToCourse)

	switch {
	case err == nil:
		return course, nil
	case errors.Is(err, pgx.ErrNoRows):
		return course, apperrors.ErrCourseNotFound
	default:
		return course, fmt.Errorf("db error: %w", err)
	}
}

func rowToCourse(row pgx.CollectableRow) (models.Course, error) {
	var c models.Course
	err := row.Scan(&c.ID, &c.CreatedAt, &c.Title, &c.Description, &c.PriceCoins, &c.PriceFiat, &c.CategoryID, &c.EnrollmentCount)
	return c, err
}
