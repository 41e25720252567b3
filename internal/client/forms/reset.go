package forms

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/vcdash/internal/client/client"
	"github.com/dmitrijs2005/vcdash/internal/client/models"
	"github.com/dmitrijs2005/vcdash/internal/client/services"
)

type Stage int

const (
	StageRequest Stage = iota
	StageNewPassword
	StageSuccess
	StageFailure
)

func (s Stage) String() string {
	switch s {
	case StageRequest:
		return "request"
	case StageNewPassword:
		return "newPassword"
	case StageSuccess:
		return "success"
	case StageFailure:
		return "failure"
	}
	return "unknown"
}

type PasswordResetter interface {
	ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (string, error)
	ResetPassword(ctx context.Context, resetToken, password string) error
}

// ResetFlow walks request → newPassword → success or failure.
type ResetFlow struct {
	*FormState
	svc        PasswordResetter
	stage      Stage
	resetToken string
}

func NewResetFlow(svc PasswordResetter) *ResetFlow {
	return &ResetFlow{FormState: NewFormState(), svc: svc}
}

func (r *ResetFlow) Stage() Stage { return r.stage }

// SubmitRequest trades the email plus backup code or OTP for a reset token.
// The request fields are cleared whatever the outcome.
func (r *ResetFlow) SubmitRequest(ctx context.Context) {
	if r.stage != StageRequest {
		return
	}
	req := models.ForgotPasswordRequest{
		Email:      strings.TrimSpace(r.Get(FieldEmail)),
		BackupCode: strings.TrimSpace(r.Get(FieldBackupCode)),
		OTP:        strings.TrimSpace(r.Get(FieldOTP)),
	}
	r.Clear(FieldEmail, FieldBackupCode, FieldOTP)
	r.SetError("")

	if req.Email == "" {
		r.SetError(MsgEmailRequired)
		return
	}
	if req.BackupCode == "" && req.OTP == "" {
		r.SetError(MsgCodeRequired)
		return
	}

	token, err := r.svc.ForgotPassword(ctx, req)
	switch {
	case err == nil:
		r.resetToken = token
		r.stage = StageNewPassword
	case client.IsTransport(err):
		r.SetError(services.MsgNetworkError)
	default:
		r.SetError(MsgResetFailed)
	}
}

// SubmitNewPassword validates both password fields before calling the
// backend. A transport failure keeps the stage so the user can retry.
func (r *ResetFlow) SubmitNewPassword(ctx context.Context) {
	if r.stage != StageNewPassword {
		return
	}
	pw, confirm := r.Get(FieldNewPassword), r.Get(FieldConfirmPassword)
	r.Clear(FieldNewPassword, FieldConfirmPassword)
	r.SetError("")

	if pw == "" || confirm == "" {
		r.SetError(MsgBothPasswords)
		return
	}
	if msg := validatePassword(pw, confirm); msg != "" {
		r.SetError(msg)
		return
	}

	err := r.svc.ResetPassword(ctx, r.resetToken, pw)
	switch {
	case err == nil:
		r.stage = StageSuccess
	case client.IsTransport(err):
		r.SetError(services.MsgNetworkError)
	default:
		r.stage = StageFailure
	}
}

// Reset starts over with an empty form.
func (r *ResetFlow) Reset() {
	r.stage = StageRequest
	r.resetToken = ""
	r.Clear()
	r.SetError("")
}
