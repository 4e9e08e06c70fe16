package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product id is allocated through the sequence counter (floor 1000).
type Product struct {
	ID          int64
	CreatedAt   time.Time
	Name        string
	Description string
	PriceFiat   decimal.Decimal
	CategoryID  *int64
}

// Category id is allocated through the sequence counter (floor 50).
type Category struct {
	ID        int64
	CreatedAt time.Time
	Name      string
}
