package domain

import "time"

// User is the authenticated identity as seen by the storefront.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Profile holds the customer details saved at checkout, keyed by user id.
type Profile struct {
	UserID     string    `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	PostalCode string    `json:"postal_code"`
	IsAdmin    bool      `json:"is_admin"`
	CreatedAt  time.Time `json:"created_at"`
}
