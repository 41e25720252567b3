package cli

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/vcdash/internal/client/forms"
	"github.com/dmitrijs2005/vcdash/internal/client/guard"
	"github.com/dmitrijs2005/vcdash/internal/client/renderer"
	"github.com/dmitrijs2005/vcdash/internal/client/services"
	"github.com/dmitrijs2005/vcdash/internal/client/session"
	"github.com/dmitrijs2005/vcdash/internal/filex"
)

const (
	MsgPendingNotice  = "An administrator has to approve your account before you can sign in."
	MsgLoggedOut      = "Logged out"
	MsgLoginRequired  = "Please log in first: run `vcdash login`."
	MsgResetSucceeded = "Your password has been reset. You can now log in."
	MsgSessionValid   = "Session is valid"
	qrFileName        = "vcdash-totp"
	maxResetAttempts  = 3
)

// ErrPendingApproval is returned by Login and Signup when the account still
// waits for an administrator.
var ErrPendingApproval = errors.New("account pending approval")

// resultErr turns a failed service result into an error for the exit status.
func resultErr(res services.Result) error {
	switch {
	case res.Success:
		return nil
	case res.Status == services.StatusPendingApproval:
		return ErrPendingApproval
	}
	return errors.New(res.Message)
}

// Login prompts for an email and password and signs in.
//
// A pending account shows the approval notice instead of an error.
func (a *App) Login(ctx context.Context) error {
	form := forms.NewLoginForm(a.auth)

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	form.Set(forms.FieldEmail, email)
	form.Set(forms.FieldPassword, password)

	res := form.Submit(ctx)
	if form.View() == forms.ViewPendingApproval {
		a.printf("%s\n%s\n", res.Message, MsgPendingNotice)
		form.DismissPending()
		return reported(ErrPendingApproval)
	}
	if !res.Success {
		a.printf("%s\n", form.ErrorMessage())
		return reported(resultErr(res))
	}

	a.printf("%s. Welcome, %s!\n", res.Message, a.session.User().DisplayName())
	return nil
}

// Signup prompts for the account details, validates the passwords locally
// and creates the account. A new account is shown its TOTP enrollment.
func (a *App) Signup(ctx context.Context) error {
	form := forms.NewSignupForm(a.auth)

	prompts := []struct {
		field, prompt string
		secret        bool
	}{
		{forms.FieldFirstName, "Enter first name", false},
		{forms.FieldLastName, "Enter last name", false},
		{forms.FieldCompany, "Enter company", false},
		{forms.FieldEmail, "Enter email", false},
		{forms.FieldPassword, "Enter password", true},
		{forms.FieldConfirmPassword, "Confirm password", true},
	}
	for _, p := range prompts {
		read := getSimpleText
		if p.secret {
			read = getPassword
		}
		v, err := read(a.reader, p.prompt, a.out)
		if err != nil {
			return err
		}
		form.Set(p.field, v)
	}

	res := form.Submit(ctx)
	if !res.Success {
		a.printf("%s\n", form.ErrorMessage())
		if res.Status == services.StatusPendingApproval {
			a.printf("%s\n", MsgPendingNotice)
		}
		return reported(resultErr(res))
	}
	a.printf("%s\n", res.Message)

	if a.auth.EnrollmentPending() {
		defer a.auth.ClearEnrollment()
		return a.enroll(ctx)
	}
	return nil
}

// Logout ends the local session. The backend is not contacted.
func (a *App) Logout(ctx context.Context) error {
	a.auth.Logout(ctx)
	a.printf("%s\n", MsgLoggedOut)
	return nil
}

// Whoami prints the stored user without contacting the backend.
func (a *App) Whoami(ctx context.Context) error {
	st, err := a.session.Restore(ctx)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if st.Kind == session.Unauthenticated {
		a.printf("Not logged in\n")
		return guard.ErrLoginRequired
	}

	u := a.session.User()
	a.printf("Signed in as %s\n", u.DisplayName())
	if u != nil {
		if u.Email != "" {
			a.printf("Email:   %s\n", u.Email)
		}
		if u.Company != "" {
			a.printf("Company: %s\n", u.Company)
		}
	}
	if claims, err := a.session.Claims(); err == nil {
		if claims.Subject != "" {
			a.printf("Subject: %s\n", claims.Subject)
		}
		if !claims.ExpiresAt.IsZero() {
			a.printf("Expires: %s\n", claims.ExpiresAt.Local().Format(time.RFC1123))
		}
	}
	return nil
}

// Verify checks the stored token with the backend.
func (a *App) Verify(ctx context.Context) error {
	if err := a.guard.Require(ctx); err != nil {
		return err
	}
	a.printf("%s\n", MsgSessionValid)
	return nil
}

// TOTP shows the two-factor enrollment of the signed-in user again.
func (a *App) TOTP(ctx context.Context) error {
	if err := a.guard.Require(ctx); err != nil {
		return err
	}
	return a.enroll(ctx)
}

// enroll fetches the QR code and backup code, saves the QR image to qrDir
// and prints both.
func (a *App) enroll(ctx context.Context) error {
	qr := a.auth.PopupQR(ctx)
	backup := a.auth.PopupBackupCode(ctx)

	var path string
	if qr.Success {
		dir, err := filex.EnsureDir(a.qrDir)
		if err == nil {
			path = filepath.Join(dir, qrFileName+imageExt(qr.ContentType))
			err = os.WriteFile(path, qr.Image, 0o600)
		}
		if err != nil {
			a.log.Warn(ctx, "cannot save qr image", "path", path, "error", err)
			qr.Success, qr.Message, path = false, services.MsgQRFailed, ""
		}
	}

	a.print(renderer.Enrollment(qr, path, backup))
	if !qr.Success || !backup.Success {
		return reported(errors.Join(resultErr(qr.Result), resultErr(backup.Result)))
	}
	return nil
}

func imageExt(contentType string) string {
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".png"
}

// ForgotPassword walks the reset flow: email plus backup code or OTP, then
// the new password. Network failures of the last step can be retried.
func (a *App) ForgotPassword(ctx context.Context) error {
	flow := forms.NewResetFlow(a.auth)

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	code, err := getSimpleText(a.reader, "Enter backup code (leave empty to use an OTP)", a.out)
	if err != nil {
		return err
	}
	flow.Set(forms.FieldEmail, email)
	flow.Set(forms.FieldBackupCode, code)
	if code == "" {
		otp, err := getSimpleText(a.reader, "Enter OTP", a.out)
		if err != nil {
			return err
		}
		flow.Set(forms.FieldOTP, otp)
	}

	flow.SubmitRequest(ctx)
	if flow.Stage() != forms.StageNewPassword {
		a.printf("%s\n", flow.ErrorMessage())
		return reported(errors.New(flow.ErrorMessage()))
	}

	for attempt := 0; flow.Stage() == forms.StageNewPassword && attempt < maxResetAttempts; attempt++ {
		pw, err := getPassword(a.reader, "Enter new password", a.out)
		if err != nil {
			return err
		}
		confirm, err := getPassword(a.reader, "Confirm new password", a.out)
		if err != nil {
			return err
		}
		flow.Set(forms.FieldNewPassword, pw)
		flow.Set(forms.FieldConfirmPassword, confirm)

		flow.SubmitNewPassword(ctx)
		if msg := flow.ErrorMessage(); msg != "" {
			a.printf("%s\n", msg)
		}
	}

	switch flow.Stage() {
	case forms.StageSuccess:
		a.printf("%s\n", MsgResetSucceeded)
		return nil
	case forms.StageFailure:
		a.printf("%s\n", forms.MsgResetFailed)
		return reported(errors.New(forms.MsgResetFailed))
	}
	return reported(errors.New(flow.ErrorMessage()))
}
