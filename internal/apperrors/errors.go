package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")

	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenIsUsed   = errors.New("refresh token is used")
	ErrRefreshTokenExpired  = errors.New("refresh token is expired")

	ErrCourseNotFound        = errors.New("course not found")
	ErrProductNotFound       = errors.New("product not found")
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category already exists")

	ErrAlreadyEnrolled   = errors.New("already enrolled in course")
	ErrInsufficientCoins = errors.New("insufficient coins")

	ErrUnknownSequence   = errors.New("unknown sequence name")
	ErrZeroAmount        = errors.New("amount must not be zero")
	ErrNonPositiveAmount = errors.New("amount must be positive")
	ErrSelfTransfer      = errors.New("sender and receiver must differ")

	ErrInvalidEntryType   = errors.New("ledger entry type must be credit or debit")
	ErrInvalidEntryAmount = errors.New("ledger entry amount must be positive")

	ErrNegativePrice = errors.New("price must not be negative")
)

// InsufficientCoinsError carries the shortage context so handlers can
// report requiredCoins/currentCoins to the client.
type InsufficientCoinsError struct {
	Required int64
	Current  int64
}

func (e *InsufficientCoinsError) Error() string {
	return fmt.Sprintf("insufficient coins: required %d, current %d", e.Required, e.Current)
}

func (e *InsufficientCoinsError) Unwrap() error {
	return ErrInsufficientCoins
}

// UnknownSequenceError lists the recognized counter names.
type UnknownSequenceError struct {
	Name    string
	Allowed []string
}

func (e *UnknownSequenceError) Error() string {
	return fmt.Sprintf("unknown sequence name %q, allowed: %s", e.Name, strings.Join(e.Allowed, ", "))
}

func (e *UnknownSequenceError) Unwrap() error {
	return ErrUnknownSequence
}
