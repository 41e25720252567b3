// Package forms holds the state and validation of the sign-in, sign-up and
// password reset dialogs, independent of how they are prompted.
package forms

import "maps"

// Form field names. They match the JSON names the backend expects where a
// field is sent as is.
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldFirstName       = "firstName"
	FieldLastName        = "lastName"
	FieldCompany         = "company"
	FieldBackupCode      = "backup_code"
	FieldOTP             = "otp"
	FieldNewPassword     = "newPassword"
)

const (
	MsgPasswordMismatch = "Passwords do not match"
	MsgPasswordTooShort = "Password must be at least 8 characters long"
	MsgEmailRequired    = "Email is required"
	MsgCodeRequired     = "Please enter either Backup Code or OTP"
	MsgResetFailed      = "Password reset failed"
	MsgBothPasswords    = "Both password fields are required"
	MinPasswordLength   = 8
)

// FormState is a set of named text fields with one shared error banner.
type FormState struct {
	fields map[string]string
	err    string
}

func NewFormState() *FormState {
	return &FormState{fields: map[string]string{}}
}

// Set merges one field. Typing into any field dismisses a shown error.
func (f *FormState) Set(name, value string) {
	f.fields[name] = value
	if f.err != "" {
		f.err = ""
	}
}

func (f *FormState) Get(name string) string { return f.fields[name] }

// Values returns a copy of every field.
func (f *FormState) Values() map[string]string { return maps.Clone(f.fields) }

// ErrorMessage is the banner text, "" when none is shown.
func (f *FormState) ErrorMessage() string { return f.err }

func (f *FormState) SetError(msg string) { f.err = msg }

// Clear empties the named fields, or every field when none is named.
func (f *FormState) Clear(names ...string) {
	if len(names) == 0 {
		clear(f.fields)
		return
	}
	for _, n := range names {
		delete(f.fields, n)
	}
}
