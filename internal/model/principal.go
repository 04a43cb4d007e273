package model

import "github.com/google/uuid"

// Principal is the authenticated identity attached to every call after the
// auth middleware. It is immutable once constructed; authorization decisions
// use Role only, never Username or ID.
type Principal struct {
	ID       uuid.UUID
	Username string
	Role     Role
}
