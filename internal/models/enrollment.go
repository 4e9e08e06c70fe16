package models

import (
	"time"
)

const (
	EnrollmentActive    = "active"
	EnrollmentCompleted = "completed"
	EnrollmentDropped   = "dropped"
)

// Enrollment records that a user paid Price coins for access to a course.
// One row per (user, course) pair.
type Enrollment struct {
	UserID     int64
	CourseID   int64
	EnrolledAt time.Time
	Price      int64
	Status     string
	Progress   int32 // completion percentage, 0..100
}
