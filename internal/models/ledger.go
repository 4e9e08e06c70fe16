package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	EntryTypeCredit = "credit"
	EntryTypeDebit  = "debit"
)

const (
	ReferenceCourseEnrollment = "course_enrollment"
	ReferenceTransfer         = "transfer"
	ReferenceAdminAdjustment  = "admin_adjustment"
	ReferenceSignupBonus      = "signup_bonus"
)

// LedgerEntry is a single immutable coin movement for one user.
// Entries are append-only: no update or delete path exists anywhere.
type LedgerEntry struct {
	ID            uuid.UUID
	CreatedAt     time.Time
	UserID        int64
	Type          string
	Amount        int64 // magnitude, always > 0; sign is carried by Type
	Reason        string
	ReferenceID   *int64
	ReferenceType *string
	Metadata      map[string]any
}
