package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyUserID   = errors.New("user ID cannot be empty")
	ErrEmptyUsername = errors.New("username cannot be empty")
	ErrEmptyEmail    = errors.New("email cannot be empty")
	ErrInvalidEmail  = errors.New("invalid email format")
)

// User is the reference to an account owned by the account-management
// collaborator. Radars point at it; the core never mutates it.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUser creates a user reference. A nil id gets a fresh UUID, which is what
// callers without an upstream identifier want.
func NewUser(id uuid.UUID, username, email string) (*User, error) {
	if id == uuid.Nil {
		id = uuid.New()
	}

	user := &User{
		ID:        id,
		Username:  strings.TrimSpace(username),
		Email:     strings.TrimSpace(email),
		CreatedAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	verr := &ValidationError{}
	if u.ID == uuid.Nil {
		verr.Add("id", "cannot be empty", ErrEmptyUserID)
	}
	if u.Username == "" {
		verr.Add("username", "can't be blank", ErrEmptyUsername)
	}
	switch {
	case u.Email == "":
		verr.Add("email", "can't be blank", ErrEmptyEmail)
	case !validateEmailFormat(u.Email):
		verr.Add("email", "is invalid", ErrInvalidEmail)
	}
	return verr.OrNil()
}

// validateEmailFormat checks for a local part, an "@", and a dotted domain.
// Account management owns real verification; this only rejects obvious junk.
func validateEmailFormat(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domainPart := email[at+1:]
	dot := strings.Index(domainPart, ".")
	return dot > 0 && dot < len(domainPart)-1
}
