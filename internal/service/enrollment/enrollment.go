package enrollment

import (
	"context"
	"fmt"
	"time"

	"github.com/codeshelf/coinledger/internal/apperrors"
	"github.com/codeshelf/coinledger/internal/models"
	"github.com/codeshelf/coinledger/internal/repository"
)

type Service struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *Service {
	return &Service{storage: storage}
}

type EnrollResult struct {
	CourseID       int64
	CoinsRemaining int64
}

// Enroll pays for a course with coins. Validation, the debit, the enrollment
// row, the ledger entry and the course counter bump run inside a single
// transaction: a failure at any point leaves no partial state.
func (s *Service) Enroll(ctx context.Context, userID int64, courseID int64) (EnrollResult, error) {
	var result EnrollResult

	err := s.storage.InTx(ctx, func(store repository.Storage) error {
		course, err := store.Course().GetCourseByID(ctx, courseID)
		if err != nil {
			return err
		}

		user, err := store.User().GetUserByID(ctx, userID)
		if err != nil {
			return err
		}

		enrolled, err := store.Enrollment().IsEnrolled(ctx, userID, courseID)
		if err != nil {
			return err
		}
		if enrolled {
			return apperrors.ErrAlreadyEnrolled
		}

		if course.PriceCoins > 0 {
			user, err = store.User().AdjustCoins(ctx, userID, -course.PriceCoins)
			if err != nil {
				return err
			}
		}

		_, err = store.Enrollment().Create(ctx, models.Enrollment{
			UserID:     userID,
			CourseID:   courseID,
			EnrolledAt: time.Now(),
			Price:      course.PriceCoins,
			Status:     models.EnrollmentActive,
			Progress:   0,
		})
		if err != nil {
			return err
		}

		// Free courses move no coins, so they are not ledger-worthy
		if course.PriceCoins > 0 {
			referenceType := models.ReferenceCourseEnrollment
			_, err = store.Ledger().Record(ctx, models.LedgerEntry{
				UserID:        userID,
				Type:          models.EntryTypeDebit,
				Amount:        course.PriceCoins,
				Reason:        fmt.Sprintf("Enrolled in course: %s", course.Title),
				ReferenceID:   &courseID,
				ReferenceType: &referenceType,
			})
			if err != nil {
				return err
			}
		}

		if _, err := store.Course().IncrementEnrollmentCount(ctx, courseID); err != nil {
			return err
		}

		result = EnrollResult{CourseID: courseID, CoinsRemaining: user.Coins}
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("can't enroll in course. Err: %w", err)
	}

	return result, nil
}

func (s *Service) ListEnrollments(ctx context.Context, userID int64) ([]models.Enrollment, error) {
	enrollments, err := s.storage.Enrollment().ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("can't list enrollments. Err: %w", err)
	}

	return enrollments, nil
}

func (s *Service) IsEnrolled(ctx context.Context, userID int64, courseID int64) (bool, error) {
	enrolled, err := s.storage.Enrollment().IsEnrolled(ctx, userID, courseID)
	if err != nil {
		return false, fmt.Errorf("can't check enrollment. Err: %w", err)
	}

	return enrolled, nil
}
