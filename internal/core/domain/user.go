package domain

import (
	"errors"
	"time"
	"unicode"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User models an account in the credential store. The password hash never
// leaves the process: it is excluded from JSON and from list projections.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserUpdate carries the mutable profile fields. An empty field means
// "leave unchanged"; at least one must be set.
type UserUpdate struct {
	Username     string
	PasswordHash string
}

// MinPasswordLength is the password floor for registration and profile update.
const MinPasswordLength = 8

// ValidPassword reports whether a raw password satisfies the strength rule:
// at least MinPasswordLength characters and at least one uppercase letter.
// The same rule applies on registration and on profile update.
func ValidPassword(raw string) bool {
	if len(raw) < MinPasswordLength {
		return false
	}
	for _, r := range raw {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

var (
	// Registration / login validation.
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("weak password")
	ErrEmailTaken         = errors.New("email already registered")

	// Authentication. A single error covers both unknown email and wrong
	// password; callers must not be able to tell which failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyLogins      = errors.New("too many login attempts")

	ErrUserNotFound    = errors.New("user not found")
	ErrNothingToUpdate = errors.New("nothing to update")
	ErrSelfDelete      = errors.New("cannot delete own account")
)
