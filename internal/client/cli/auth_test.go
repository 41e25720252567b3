package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/vcdash/internal/client/client"
	"github.com/dmitrijs2005/vcdash/internal/client/forms"
	"github.com/dmitrijs2005/vcdash/internal/client/guard"
	"github.com/dmitrijs2005/vcdash/internal/client/services"
	"github.com/dmitrijs2005/vcdash/internal/client/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_Success(t *testing.T) {
	f := newFixture(t, "")
	f.auth.loginRes = services.Result{Success: true, Message: services.MsgLoginSuccessful}
	stubInputs(t, "  ann@example.org ", "secret")

	require.NoError(t, f.app.Login(context.Background()))
	assert.Equal(t, "ann@example.org", f.auth.loginEmail)
	assert.Equal(t, "secret", f.auth.loginPass)
	assert.Contains(t, f.out.String(), "Login successful. Welcome, Ann!")
}

func TestLogin_PendingApproval(t *testing.T) {
	f := newFixture(t, "")
	f.auth.loginRes = services.Result{Message: services.MsgPendingApproval, Status: services.StatusPendingApproval}
	stubInputs(t, "ann@example.org", "secret")

	err := f.app.Login(context.Background())
	require.ErrorIs(t, err, ErrPendingApproval)
	assert.Contains(t, f.out.String(), services.MsgPendingApproval)
	assert.Contains(t, f.out.String(), MsgPendingNotice)
}

func TestLogin_FailureShowsMessage(t *testing.T) {
	f := newFixture(t, "")
	f.auth.loginRes = services.Result{Message: "Invalid credentials", Status: services.StatusFailed}
	stubInputs(t, "ann@example.org", "wrong")

	err := f.app.Login(context.Background())
	require.EqualError(t, err, "Invalid credentials")
	assert.Contains(t, f.out.String(), "Invalid credentials")
}

func TestLogin_InputError(t *testing.T) {
	f := newFixture(t, "")
	prompts := stubInputs(t)

	require.Error(t, f.app.Login(context.Background()))
	assert.Equal(t, []string{"Enter email"}, *prompts)
}

func TestSignup_MismatchDoesNotCallBackend(t *testing.T) {
	f := newFixture(t, "")
	stubInputs(t, "Ann", "Lee", "Acme", "ann@example.org", "password1", "password2")

	err := f.app.Signup(context.Background())
	require.EqualError(t, err, forms.MsgPasswordMismatch)
	assert.Nil(t, f.auth.signupReq)
	assert.Contains(t, f.out.String(), forms.MsgPasswordMismatch)
}

func TestSignup_EnrollsAfterSuccess(t *testing.T) {
	f := newFixture(t, "")
	f.auth.signupRes = services.Result{Success: true, Message: services.MsgSignupSuccessful}
	f.auth.enroll = true
	f.auth.qr = services.QRResult{
		Result:      services.Result{Success: true, Message: services.MsgQRCreated},
		Image:       []byte("\x89PNG"),
		ContentType: "image/png",
	}
	f.auth.backup = services.BackupCodeResult{
		Result: services.Result{Success: true, Message: services.MsgBackupCodeCreated},
		Code:   "ABCD-1234",
	}
	stubInputs(t, "Ann", "Lee", "Acme", "ann@example.org", "longpassword", "longpassword")

	require.NoError(t, f.app.Signup(context.Background()))
	require.NotNil(t, f.auth.signupReq)
	assert.Equal(t, "Ann Lee", f.auth.signupReq.Name)
	assert.True(t, f.auth.enrollClear)

	img, err := os.ReadFile(filepath.Join(f.app.qrDir, "vcdash-totp.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), img)
	assert.Contains(t, f.out.String(), "ABCD-1234")
}

func TestTOTP_FailuresAreReported(t *testing.T) {
	f := newFixture(t, "")
	f.auth.qr = services.QRResult{Result: services.Result{Message: services.MsgQRFailed}}
	f.auth.backup = services.BackupCodeResult{Result: services.Result{Message: services.MsgNetworkError}}

	err := f.app.TOTP(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), services.MsgQRFailed)
	assert.Contains(t, f.out.String(), services.MsgNetworkError)
	assert.Equal(t, 1, f.guard.calls)
}

func TestTOTP_RequiresLogin(t *testing.T) {
	f := newFixture(t, "")
	f.guard.err = guard.ErrLoginRequired

	require.ErrorIs(t, f.app.TOTP(context.Background()), guard.ErrLoginRequired)
	assert.Empty(t, f.out.String())
}

func TestLogout(t *testing.T) {
	f := newFixture(t, "")
	require.NoError(t, f.app.Logout(context.Background()))
	assert.True(t, f.auth.logoutCalled)
	assert.Contains(t, f.out.String(), MsgLoggedOut)
}

func TestWhoami(t *testing.T) {
	f := newFixture(t, "")
	f.session.state.User.Email = "ann@example.org"
	f.session.claims = session.Claims{Subject: "42", ExpiresAt: time.Unix(1900000000, 0)}

	require.NoError(t, f.app.Whoami(context.Background()))
	out := f.out.String()
	assert.Contains(t, out, "Signed in as Ann")
	assert.Contains(t, out, "ann@example.org")
	assert.Contains(t, out, "Subject: 42")
	assert.Contains(t, out, "Expires:")
}

func TestWhoami_NotLoggedIn(t *testing.T) {
	f := newFixture(t, "")
	f.session.state = session.State{Kind: session.Unauthenticated}

	require.ErrorIs(t, f.app.Whoami(context.Background()), guard.ErrLoginRequired)
	assert.Contains(t, f.out.String(), "Not logged in")
}

func TestVerify(t *testing.T) {
	f := newFixture(t, "")
	require.NoError(t, f.app.Verify(context.Background()))
	assert.Contains(t, f.out.String(), MsgSessionValid)

	f.guard.err = guard.ErrLoginRequired
	require.ErrorIs(t, f.app.Verify(context.Background()), guard.ErrLoginRequired)
}

func TestForgotPassword_WithBackupCode(t *testing.T) {
	f := newFixture(t, "")
	f.auth.forgotToken = "reset-tok"
	prompts := stubInputs(t, "ann@example.org", "BACKUP1", "longpassword", "longpassword")

	require.NoError(t, f.app.ForgotPassword(context.Background()))
	assert.Equal(t, "BACKUP1", f.auth.forgotReq.BackupCode)
	assert.Empty(t, f.auth.forgotReq.OTP)
	assert.Equal(t, "reset-tok", f.auth.resetToken)
	assert.Equal(t, "longpassword", f.auth.resetPass)
	assert.NotContains(t, *prompts, "Enter OTP")
	assert.Contains(t, f.out.String(), MsgResetSucceeded)
}

func TestForgotPassword_WithOTPAndNetworkRetry(t *testing.T) {
	f := newFixture(t, "")
	f.auth.forgotToken = "reset-tok"
	f.auth.resetErrs = []error{fmt.Errorf("%w: %w", client.ErrUnavailable, errors.New("connection refused"))}
	stubInputs(t, "ann@example.org", "", "123456", "longpassword", "longpassword", "longpassword", "longpassword")

	require.NoError(t, f.app.ForgotPassword(context.Background()))
	assert.Equal(t, "123456", f.auth.forgotReq.OTP)
	assert.Equal(t, 2, f.auth.resetCalls)
	assert.Contains(t, f.out.String(), services.MsgNetworkError)
	assert.Contains(t, f.out.String(), MsgResetSucceeded)
}

func TestForgotPassword_RequestRejected(t *testing.T) {
	f := newFixture(t, "")
	f.auth.forgotErr = &client.APIError{StatusCode: 400, Message: "bad code"}
	stubInputs(t, "ann@example.org", "WRONG")

	err := f.app.ForgotPassword(context.Background())
	require.EqualError(t, err, forms.MsgResetFailed)
	assert.Zero(t, f.auth.resetCalls)
}

func TestForgotPassword_ServerRejectsNewPassword(t *testing.T) {
	f := newFixture(t, "")
	f.auth.forgotToken = "reset-tok"
	f.auth.resetErrs = []error{&client.APIError{StatusCode: 410, Message: "expired"}}
	stubInputs(t, "ann@example.org", "BACKUP1", "longpassword", "longpassword")

	require.EqualError(t, f.app.ForgotPassword(context.Background()), forms.MsgResetFailed)
	assert.Equal(t, 1, f.auth.resetCalls)
}
