package customer

import "errors"

var (
	// ErrNotFound is returned when no customer owns the phone number.
	ErrNotFound = errors.New("customer not found")

	// ErrDuplicatePhoneNumber is returned by Create when the phone number is taken.
	ErrDuplicatePhoneNumber = errors.New("phone number already registered")

	// ErrInvalidCredentials covers both unknown phone numbers and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
