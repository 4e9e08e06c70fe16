package postgres

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/codeshelf/coinledger/internal/apperrors"
	"github.com/codeshelf/coinledger/internal/models"
	"github.com/codeshelf/coinledger/internal/repository"
	"github.com/codeshelf/coinledger/internal/testutil"
)

func TestEnrollmentRepo(t *testing.T) {
	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	inTx := func(t *testing.T, fn func(storage repository.Storage)) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			fn(NewStorage(tx))
		})
	}

	createUser := func(t *testing.T, storage repository.Storage) models.User {
		id, err := storage.Sequence().NextID(t.Context(), "user")
		require.NoError(t, err)
		user, err := storage.User().CreateUser(t.Context(), repository.CreateUserParams{
			ID:             id,
			Username:       "gordon",
			HashedPassword: "hashed-password",
		})
		require.NoError(t, err)
		return user
	}

	createCourse := func(t *testing.T, storage repository.Storage, title string, priceCoins int64) models.Course {
		id, err := storage.Sequence().NextID(t.Context(), "course")
		require.NoError(t, err)
		course, err := storage.Course().CreateCourse(t.Context(), models.Course{
			ID:         id,
			Title:      title,
			PriceCoins: priceCoins,
			PriceFiat:  decimal.NewFromInt(0),
		})
		require.NoError(t, err)
		return course
	}

	t.Run("Create", func(t *testing.T) {
		t.Run("defaults status and enrolled_at", func(t *testing.T) {
			inTx(t, func(storage repository.Storage) {
				user := createUser(t, storage)
				course := createCourse(t, storage, "Physics 101", 500)

				enrollment, err := storage.Enrollment().Create(t.Context(), models.Enrollment{
					UserID:   user.ID,
					CourseID: course.ID,
					Price:    course.PriceCoins,
				})

				require.NoError(t, err)
				require.Equal(t, models.EnrollmentActive, enrollment.Status)
				require.False(t, enrollment.EnrolledAt.IsZero())
				require.Equal(t, int32(0), enrollment.Progress)
			})
		})

		t.Run("second enrollment into same course fails", func(t *testing.T) {
			inTx(t, func(storage repository.Storage) {
				user := createUser(t, storage)
				course := createCourse(t, storage, "Physics 101", 500)

				_, err := storage.Enrollment().Create(t.Context(), models.Enrollment{
					UserID:   user.ID,
					CourseID: course.ID,
				})
				require.NoError(t, err)

				_, err = storage.Enrollment().Create(t.Context(), models.Enrollment{
					UserID:   user.ID,
					CourseID: course.ID,
				})

				require.ErrorIs(t, err, apperrors.ErrAlreadyEnrolled, "should return well known error")
			})
		})
	})

	t.Run("ListForUser", func(t *testing.T) {
		t.Run("ordered by enrollment time", func(t *testing.T) {
			inTx(t, func(storage repository.Storage) {
				user := createUser(t, storage)
				first := createCourse(t, storage, "Physics 101", 500)
				second := createCourse(t, storage, "Chemistry 101", 300)
				base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

				_, err := storage.Enrollment().Create(t.Context(), models.Enrollment{
					UserID:     user.ID,
					CourseID:   second.ID,
					EnrolledAt: base.Add(time.Hour),
				})
				require.NoError(t, err)
				_, err = storage.Enrollment().Create(t.Context(), models.Enrollment{
					UserID:     user.ID,
					CourseID:   first.ID,
					EnrolledAt: base,
				})
				require.NoError(t, err)

				enrollments, err := storage.Enrollment().ListForUser(t.Context(), user.ID)

				require.NoError(t, err)
				require.Len(t, enrollments, 2)
				require.Equal(t, first.ID, enrollments[0].CourseID, "earliest enrollment goes first")
				require.Equal(t, second.ID, enrollments[1].CourseID)
			})
		})

		t.Run("empty for user without enrollments", func(t *testing.T) {
			inTx(t, func(storage repository.Storage) {
				user := createUser(t, storage)

				enrollments, err := storage.Enrollment().ListForUser(t.Context(), user.ID)

				require.NoError(t, err)
				require.Empty(t, enrollments)
			})
		})
	})

	t.Run("IsEnrolled", func(t *testing.T) {
		inTx(t, func(storage repository.Storage) {
			user := createUser(t, storage)
			course := createCourse(t, storage, "Physics 101", 500)

			enrolled, err := storage.Enrollment().IsEnrolled(t.Context(), user.ID, course.ID)
			require.NoError(t, err)
			require.False(t, enrolled)

			_, err = storage.Enrollment().Create(t.Context(), models.Enrollment{
				UserID:   user.ID,
				CourseID: course.ID,
			})
			require.NoError(t, err)

			enrolled, err = storage.Enrollment().IsEnrolled(t.Context(), user.ID, course.ID)
			require.NoError(t, err)
			require.True(t, enrolled)
		})
	})
}

func TestCourseRepo(t *testing.T) {
	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	inTx := func(t *testing.T, fn func(storage repository.Storage)) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			fn(NewStorage(tx))
		})
	}

	t.Run("IncrementEnrollmentCount", func(t *testing.T) {
		inTx(t, func(storage repository.Storage) {
			course, err := storage.Course().CreateCourse(t.Context(), models.Course{
				ID:        2001,
				Title:     "Physics 101",
				PriceFiat: decimal.NewFromInt(0),
			})
			require.NoError(t, err)
			require.Equal(t, int64(0), course.EnrollmentCount)

			updated, err := storage.Course().IncrementEnrollmentCount(t.Context(), course.ID)

			require.NoError(t, err)
			require.Equal(t, int64(1), updated.EnrollmentCount)
		})
	})

	t.Run("IncrementEnrollmentCount for missing course", func(t *testing.T) {
		inTx(t, func(storage repository.Storage) {
			_, err := storage.Course().IncrementEnrollmentCount(t.Context(), 424242)

			require.ErrorIs(t, err, apperrors.ErrCourseNotFound)
		})
	})

	t.Run("GetCourseByID for missing course", func(t *testing.T) {
		inTx(t, func(storage repository.Storage) {
			_, err := storage.Course().GetCourseByID(t.Context(), 424242)

			require.ErrorIs(t, err, apperrors.ErrCourseNotFound)
		})
	})
}
