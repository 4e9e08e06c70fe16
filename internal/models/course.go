package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Course id is allocated through the sequence counter (floor 2000).
// PriceCoins is the enrollment price in platform coins; PriceFiat is the
// catalog display price in real currency.
type Course struct {
	ID              int64
	CreatedAt       time.Time
	Title           string
	Description     string
	PriceCoins      int64
	PriceFiat       decimal.Decimal
	CategoryID      *int64
	EnrollmentCount int64
}
