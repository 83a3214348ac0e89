package auth

import "errors"

var (
	// ErrInvalidLoginCredentials is returned by Login for any credential
	// failure. The message never says which field was wrong.
	ErrInvalidLoginCredentials = errors.New("invalid phone number or password")

	// ErrDuplicateCustomer is returned by Register when the phone number is taken.
	ErrDuplicateCustomer = errors.New("customer with this phone number is already registered")

	// ErrInvalidPhoneNumber is returned by Register for a phone number that is
	// not exactly ten ASCII digits.
	ErrInvalidPhoneNumber = errors.New("please provide a valid phone number")

	// ErrInvalidRegistration wraps body-shape failures of a registration
	// request, such as a blank name or an over-long password.
	ErrInvalidRegistration = errors.New("invalid registration")

	// ErrAuthenticationRejected aborts a request whose token cannot be tied to
	// a known customer.
	ErrAuthenticationRejected = errors.New("customer not found")
)
