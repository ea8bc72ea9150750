package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyUserID         = fmt.Errorf("%w: user ID cannot be empty", ErrValidation)
	ErrEmptyEmail          = fmt.Errorf("%w: email cannot be empty", ErrValidation)
	ErrInvalidEmail        = fmt.Errorf("%w: invalid email format", ErrValidation)
	ErrEmptyPassword       = fmt.Errorf("%w: password cannot be empty", ErrValidation)
	ErrPasswordTooLong     = fmt.Errorf("%w: password must be at most 72 characters long", ErrValidation)
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
	ErrInvalidRole         = fmt.Errorf("%w: role must be one of student, admin", ErrInvalidValue)
)

// MaxPasswordLength is bcrypt's input limit; longer passwords would be silently truncated.
const MaxPasswordLength = 72

// MaxEmailLength is the width of the users.email column.
const MaxEmailLength = 255

// Role is the coarse-grained permission level of a user.
type Role string

// Known roles.
const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// DefaultRole is assigned to every user created through signup.
const DefaultRole = RoleStudent

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	return r == RoleStudent || r == RoleAdmin
}

var emailValidator = validator.New()

// User represents a registered user of the task tracker.
// It contains essential user information and authentication details.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username,omitempty"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext password, used temporarily during signup
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given email, password and optional username.
// It generates a new UUID for the user ID, assigns the default role and sets the
// creation/update timestamps.
// Returns an error if validation fails.
//
// NOTE: This function only sets up the user structure with the plaintext password.
// The caller is responsible for hashing the password before storing the user.
func NewUser(email, password, username string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Username:  strings.TrimSpace(username),
		Email:     strings.TrimSpace(email),
		Password:  password,
		Role:      DefaultRole,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if utf8.RuneCountInString(u.Email) > MaxEmailLength {
		return ErrInvalidEmail
	}

	if err := emailValidator.Var(u.Email, "email"); err != nil {
		return ErrInvalidEmail
	}

	if !u.Role.IsValid() {
		return ErrInvalidRole
	}

	// A new user carries the plaintext password until it is hashed;
	// a stored user only has the hash.
	if u.Password != "" {
		if len(u.Password) > MaxPasswordLength {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}
