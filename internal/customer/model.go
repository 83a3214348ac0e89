package customer

import (
	"strings"
	"time"
)

// DefaultRole is assigned to every self-registered customer.
const DefaultRole = "customer"

// Customer is a registered account holder, keyed by phone number.
type Customer struct {
	ID           string
	Name         string
	PhoneNumber  string
	PasswordHash []byte
	Address      string
	Role         string
	CreatedAt    time.Time
}

// Authorities lists the capabilities granted to the customer.
func (c Customer) Authorities() []string {
	role := c.Role
	if role == "" {
		role = DefaultRole
	}
	return []string{"ROLE_" + strings.ToUpper(role)}
}

// Public is the customer view that is safe to return to clients.
type Public struct {
	CustomerID  string `json:"customerId"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
}

// Public strips credential material from c.
func (c Customer) Public() Public {
	return Public{
		CustomerID:  c.ID,
		Name:        c.Name,
		PhoneNumber: c.PhoneNumber,
		Address:     c.Address,
	}
}

// NewCustomer carries registration input before the password is hashed.
type NewCustomer struct {
	Name        string
	PhoneNumber string
	Password    string
	Address     string
}
