package model

import "time"

// User is the profile record kept for an authenticated subject. Credentials
// live with the identity provider; this row only mirrors the attributes the
// document subsystem needs.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	IdentityNumber string    `json:"identity_number"`
	Phone          string    `json:"phone"`
	FullName       string    `json:"full_name"`
	CreatedAt      time.Time `json:"created_at"`
}
