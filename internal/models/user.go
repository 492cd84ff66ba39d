package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// User represents a person who can belong to groups and take part in expenses.
// Users carry identity only; they have no balance behaviour of their own.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the display name of the user.
	Name string `validate:"required"`

	// Email is the user's email address. Optional when Phone is set.
	Email string `validate:"omitempty,email"`

	// Phone is the user's phone number in E.164 form. Optional when Email is set.
	Phone string `validate:"omitempty,e164"`

	// CreatedAt is when the user was created.
	CreatedAt time.Time
}

// NewUser creates a User with a fresh ID. The result is not validated.
func NewUser(name, email, phone string) *User {
	return &User{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		Phone:     strings.TrimSpace(phone),
		CreatedAt: time.Now(),
	}
}

// Validate checks the user's shape: a name and at least one valid contact.
func (u *User) Validate() error {
	if err := validate.Struct(u); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		// Fields are checked in declaration order; report the first
		switch fe := fieldErrs[0]; fe.Field() {
		case "Name":
			return ErrNameRequired
		case "Email":
			return fmt.Errorf("%w: failed %q", ErrInvalidEmail, fe.Tag())
		case "Phone":
			return fmt.Errorf("%w: failed %q", ErrInvalidPhone, fe.Tag())
		default:
			return err
		}
	}
	if u.Email == "" && u.Phone == "" {
		return ErrContactRequired
	}
	return nil
}

// DisplayName falls back through name, email and phone.
func (u *User) DisplayName() string {
	switch {
	case u.Name != "":
		return u.Name
	case u.Email != "":
		return u.Email
	case u.Phone != "":
		return u.Phone
	}
	return "User " + u.ID
}
