package domain

import "github.com/google/uuid"

type UserRole string

const (
	UserStudent UserRole = "student"
	UserStaff   UserRole = "staff"
)

// Actor is the authenticated caller of a booking mutation.
type Actor struct {
	UserID uuid.UUID
	Role   UserRole
}

func (a Actor) IsStaff() bool {
	return a.Role == UserStaff
}
