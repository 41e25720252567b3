// Package models defines the client-side data shapes exchanged with the
// portfolio backend. The backend owns every entity; the client only keeps
// transient copies.
package models

import "strings"

// UserRecord is the user profile returned by login and signup.
type UserRecord struct {
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Company   string `json:"company,omitempty"`
}

// DisplayName is the greeting name, "User" when the backend sent none.
func (u *UserRecord) DisplayName() string {
	if u == nil || strings.TrimSpace(u.FirstName) == "" {
		return "User"
	}
	return u.FirstName
}

// SignupRequest is the account creation payload.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// ForgotPasswordRequest carries any of the reset credentials. Empty fields
// are omitted from the body.
type ForgotPasswordRequest struct {
	Email      string `json:"email,omitempty"`
	BackupCode string `json:"backup_code,omitempty"`
	OTP        string `json:"otp,omitempty"`
}
