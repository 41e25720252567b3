package forms

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/vcdash/internal/client/models"
	"github.com/dmitrijs2005/vcdash/internal/client/services"
)

// Authenticator is the part of services.AuthService used by the forms.
type Authenticator interface {
	Login(ctx context.Context, email, password string) services.Result
	Signup(ctx context.Context, req models.SignupRequest) services.Result
}

// View is what the sign-in dialog shows.
type View int

const (
	ViewForm View = iota
	ViewPendingApproval
)

type LoginForm struct {
	*FormState
	auth    Authenticator
	pending bool
}

func NewLoginForm(auth Authenticator) *LoginForm {
	return &LoginForm{FormState: NewFormState(), auth: auth}
}

// Submit signs in with the email and password fields. A failure message
// becomes the error banner, except for a pending account which switches the
// view instead.
func (f *LoginForm) Submit(ctx context.Context) services.Result {
	f.SetError("")
	res := f.auth.Login(ctx, strings.TrimSpace(f.Get(FieldEmail)), f.Get(FieldPassword))
	switch {
	case res.Status == services.StatusPendingApproval:
		f.pending = true
	case !res.Success:
		f.SetError(res.Message)
	}
	return res
}

func (f *LoginForm) View() View {
	if f.pending {
		return ViewPendingApproval
	}
	return ViewForm
}

// DismissPending goes back to the sign-in form.
func (f *LoginForm) DismissPending() {
	f.pending = false
	f.SetError("")
}

type SignupForm struct {
	*FormState
	auth Authenticator
}

func NewSignupForm(auth Authenticator) *SignupForm {
	return &SignupForm{FormState: NewFormState(), auth: auth}
}

// Request builds the signup payload from the fields.
func (f *SignupForm) Request() models.SignupRequest {
	return models.SignupRequest{
		Email:    strings.TrimSpace(f.Get(FieldEmail)),
		Password: f.Get(FieldPassword),
		Name:     f.Get(FieldFirstName) + " " + f.Get(FieldLastName),
	}
}

// Submit validates the passwords and only then calls the backend.
func (f *SignupForm) Submit(ctx context.Context) services.Result {
	f.SetError("")

	pw := f.Get(FieldPassword)
	if msg := validatePassword(pw, f.Get(FieldConfirmPassword)); msg != "" {
		f.SetError(msg)
		return services.Result{Message: msg, Status: services.StatusFailed}
	}

	res := f.auth.Signup(ctx, f.Request())
	if !res.Success {
		f.SetError(res.Message)
	}
	return res
}

func validatePassword(pw, confirm string) string {
	if pw != confirm {
		return MsgPasswordMismatch
	}
	if utf8.RuneCountInString(pw) < MinPasswordLength {
		return MsgPasswordTooShort
	}
	return ""
}
