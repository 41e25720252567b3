// Package services contains application services for the vcdash client.
// This file defines the authentication service: login, signup, token
// verification, TOTP enrollment and password reset.
package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/vcdash/internal/client/client"
	"github.com/dmitrijs2005/vcdash/internal/client/models"
	"github.com/dmitrijs2005/vcdash/internal/logging"
)

const (
	MsgLoginSuccessful   = "Login successful"
	MsgLoginFailed       = "Login failed"
	MsgSignupSuccessful  = "Account created successfully"
	MsgSignupFailed      = "Signup failed"
	MsgNetworkError      = "Network error. Please try again."
	MsgPendingApproval   = "Your account is submitted for approval"
	MsgQRCreated         = "QR created successfully"
	MsgQRFailed          = "QR failed"
	MsgBackupCodeCreated = "BackupCode created successfully"
	MsgBackupCodeFailed  = "BackupCode failed"
)

// ResultStatus tells callers how an operation ended without parsing Message.
type ResultStatus int

const (
	StatusOK ResultStatus = iota
	StatusFailed
	StatusPendingApproval
)

// Result is the user-facing outcome of an auth operation.
type Result struct {
	Success bool
	Message string
	Status  ResultStatus
}

func ok(msg string) Result     { return Result{Success: true, Message: msg, Status: StatusOK} }
func failed(msg string) Result { return Result{Message: msg, Status: StatusFailed} }

type QRResult struct {
	Result
	Image       []byte
	ContentType string
}

type BackupCodeResult struct {
	Result
	Code string
}

// SessionStore is the part of the session the auth service drives.
type SessionStore interface {
	Login(ctx context.Context, token string, user *models.UserRecord) error
	Logout(ctx context.Context) error
	Token() string
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login/Signup: authenticate against the server and persist the session.
//   - Logout: discard the local session; the server is not contacted.
//   - VerifyToken: check the stored token, logging out when it is rejected.
//   - PopupQR/PopupBackupCode: fetch the TOTP enrollment material.
//   - ForgotPassword/ResetPassword: the two steps of a password reset.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Login(ctx context.Context, email, password string) Result
	Signup(ctx context.Context, req models.SignupRequest) Result
	Logout(ctx context.Context)
	VerifyToken(ctx context.Context) bool
	PopupQR(ctx context.Context) QRResult
	PopupBackupCode(ctx context.Context) BackupCodeResult
	ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (string, error)
	ResetPassword(ctx context.Context, resetToken, password string) error

	// EnrollmentPending reports that a signup succeeded and TOTP enrollment
	// has not been shown yet.
	EnrollmentPending() bool
	ClearEnrollment()
}

type authService struct {
	client  client.Client
	session SessionStore
	log     logging.Logger

	enroll bool
}

// NewAuthService constructs an AuthService bound to the given API client and session.
func NewAuthService(c client.Client, s SessionStore, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{client: c, session: s, log: log.With("component", "auth")}
}

// authenticate maps the outcome of a login-like call to a Result and stores
// the session on success.
func (a *authService) authenticate(ctx context.Context, op string, resp client.AuthResponse, err error, okMsg, failMsg string) Result {
	if err == nil {
		if serr := a.session.Login(ctx, resp.Token, resp.User); serr != nil {
			a.log.Error(ctx, op+" succeeded but session was not saved", "error", serr)
			return failed(failMsg)
		}
		a.log.Info(ctx, op+" succeeded")
		return ok(okMsg)
	}

	a.log.Warn(ctx, op+" failed", "error", err)

	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrPendingApproval):
		return Result{Message: MsgPendingApproval, Status: StatusPendingApproval}
	case client.IsTransport(err):
		return failed(MsgNetworkError)
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return failed(apiErr.Message)
	default:
		return failed(failMsg)
	}
}

func (a *authService) Login(ctx context.Context, email, password string) Result {
	resp, err := a.client.Login(ctx, email, password)
	res := a.authenticate(ctx, "login", resp, err, MsgLoginSuccessful, MsgLoginFailed)
	if res.Success {
		a.enroll = false
	}
	return res
}

func (a *authService) Signup(ctx context.Context, req models.SignupRequest) Result {
	resp, err := a.client.Signup(ctx, req)
	res := a.authenticate(ctx, "signup", resp, err, MsgSignupSuccessful, MsgSignupFailed)
	if res.Success {
		a.enroll = true
	}
	return res
}

func (a *authService) Logout(ctx context.Context) {
	if err := a.session.Logout(ctx); err != nil {
		a.log.Error(ctx, "logout could not clear stored session", "error", err)
		return
	}
	a.log.Info(ctx, "logged out")
}

// VerifyToken returns false without a network call when there is no token.
// A rejected token or a failed request ends the session.
func (a *authService) VerifyToken(ctx context.Context) bool {
	if a.session.Token() == "" {
		return false
	}
	if err := a.client.Verify(ctx); err != nil {
		a.log.Warn(ctx, "token verification failed", "error", err)
		a.Logout(ctx)
		return false
	}
	return true
}

func (a *authService) PopupQR(ctx context.Context) QRResult {
	img, ct, err := a.client.TOTPQR(ctx)
	if err != nil {
		a.log.Warn(ctx, "totp qr fetch failed", "error", err)
		if client.IsTransport(err) {
			return QRResult{Result: failed(MsgNetworkError)}
		}
		return QRResult{Result: failed(MsgQRFailed)}
	}
	return QRResult{Result: ok(MsgQRCreated), Image: img, ContentType: ct}
}

func (a *authService) PopupBackupCode(ctx context.Context) BackupCodeResult {
	code, err := a.client.BackupCode(ctx)
	if err != nil {
		a.log.Warn(ctx, "backup code fetch failed", "error", err)
		if client.IsTransport(err) {
			return BackupCodeResult{Result: failed(MsgNetworkError)}
		}
		return BackupCodeResult{Result: failed(MsgBackupCodeFailed)}
	}
	return BackupCodeResult{Result: ok(MsgBackupCodeCreated), Code: code}
}

func (a *authService) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (string, error) {
	token, err := a.client.ForgotPassword(ctx, req)
	if err != nil {
		a.log.Warn(ctx, "forgot password failed", "error", err)
		return "", err
	}
	return token, nil
}

func (a *authService) ResetPassword(ctx context.Context, resetToken, password string) error {
	if err := a.client.ResetPassword(ctx, resetToken, password); err != nil {
		a.log.Warn(ctx, "reset password failed", "error", err)
		return err
	}
	a.log.Info(ctx, "password reset")
	return nil
}

func (a *authService) EnrollmentPending() bool { return a.enroll }
func (a *authService) ClearEnrollment()        { a.enroll = false }
