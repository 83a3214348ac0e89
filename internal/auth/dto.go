package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/congo-pay/customer_auth/internal/customer"
)

const (
	// bcrypt only hashes the first 72 bytes and rejects longer input.
	maxPasswordBytes = 72

	loginSucceeded        = "Customer Logged In Successfully"
	registrationSucceeded = "Customer Registered Successfully!"
)

// LoginRequest carries login credentials. It is never persisted.
type LoginRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

// RegisterRequest carries the fields of a new customer.
type RegisterRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
	Address     string `json:"address"`
}

// Validate checks the registration body shape. Length counts bytes, so the
// password cap matches bcrypt's input limit. Phone number rules live in
// Service.Register, where duplicate detection runs first.
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Password, validation.Required, validation.Length(1, maxPasswordBytes)),
		validation.Field(&r.Address, validation.Length(0, 500)),
	)
}

// LoginResult is the login response envelope.
type LoginResult struct {
	Message     string          `json:"message"`
	Status      int             `json:"status"`
	JWTToken    string          `json:"jwtToken"`
	ExpiresAt   int64           `json:"expiresAt"`
	Name        string          `json:"name"`
	PhoneNumber string          `json:"phoneNumber"`
	Customer    customer.Public `json:"customer"`
}

// RegistrationResult is the registration response envelope.
type RegistrationResult struct {
	Message  string          `json:"message"`
	Status   int             `json:"status"`
	Customer customer.Public `json:"customer"`
}
