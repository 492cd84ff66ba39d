package models

import "errors"

var (
	// Entity shape errors
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrNameRequired    = errors.New("name is required")
	ErrContactRequired = errors.New("either email or phone number must be provided")
	ErrInvalidEmail    = errors.New("email is invalid")
	ErrInvalidPhone    = errors.New("phone number must be a valid phone number")
	ErrPayerRequired   = errors.New("payer is required")
	ErrSamePayerPayee  = errors.New("payer and payee must be different users")
	ErrGroupRequired   = errors.New("group is required")

	// Invite lifecycle errors
	ErrInviteExpired = errors.New("invite has expired")
	ErrInviteUsed    = errors.New("invite has already been used")
)
