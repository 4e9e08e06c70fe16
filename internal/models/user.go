package models

import (
	"time"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User id is allocated through the sequence counter (floor 100), so the
// first registered user gets id 101.
type User struct {
	ID             int64
	CreatedAt      time.Time
	Username       string
	HashedPassword string
	Role           string
	Coins          int64
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
