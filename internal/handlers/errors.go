package handlers

import (
	"errors"
	"net/http"

	"github.com/codeshelf/coinledger/internal/apperrors"
	"github.com/codeshelf/coinledger/internal/handlers/render"
	"github.com/codeshelf/coinledger/internal/logger"
)

// failFromError maps service errors onto the platform error envelope:
// malformed input 400, missing entities 404, business rule violations 400
// with machine readable context, everything else 500.
func failFromError(w http.ResponseWriter, err error, l logger.Logger) {
	var insufficient *apperrors.InsufficientCoinsError

	switch {
	case errors.As(err, &insufficient):
		render.FailWith(w, "Insufficient coins", http.StatusBadRequest, map[string]any{
			"requiredCoins": insufficient.Required,
			"currentCoins":  insufficient.Current,
		})
	case errors.Is(err, apperrors.ErrAlreadyEnrolled):
		render.Fail(w, "Already enrolled in this course", http.StatusBadRequest)
	case errors.Is(err, apperrors.ErrUserNotFound):
		render.Fail(w, "User not found", http.StatusNotFound)
	case errors.Is(err, apperrors.ErrCourseNotFound):
		render.Fail(w, "Course not found", http.StatusNotFound)
	case errors.Is(err, apperrors.ErrProductNotFound):
		render.Fail(w, "Product not found", http.StatusNotFound)
	case errors.Is(err, apperrors.ErrCategoryNotFound):
		render.Fail(w, "Category not found", http.StatusNotFound)
	case errors.Is(err, apperrors.ErrZeroAmount):
		render.Fail(w, "Amount must not be zero", http.StatusBadRequest)
	case errors.Is(err, apperrors.ErrNonPositiveAmount):
		render.Fail(w, "Amount must be positive", http.StatusBadRequest)
	case errors.Is(err, apperrors.ErrSelfTransfer):
		render.Fail(w, "Sender and receiver must differ", http.StatusBadRequest)
	case errors.Is(err, apperrors.ErrNegativePrice):
		render.Fail(w, "Price must not be negative", http.StatusBadRequest)
	case errors.Is(err, apperrors.ErrCategoryAlreadyExists):
		render.Fail(w, "Category already exists", http.StatusConflict)
	case errors.Is(err, apperrors.ErrUnknownSequence):
		render.Fail(w, err.Error(), http.StatusBadRequest)
	default:
		l.Error("Unhandled service error", "error", err)
		render.Fail(w, "Internal server error", http.StatusInternalServerError)
	}
}
