package client

import (
	"context"

	"github.com/dmitrijs2005/vcdash/internal/client/models"
)

// Client is the contract between the CLI services and the backend.
type Client interface {
	Login(ctx context.Context, email, password string) (AuthResponse, error)
	Signup(ctx context.Context, req models.SignupRequest) (AuthResponse, error)
	Verify(ctx context.Context) error
	TOTPQR(ctx context.Context) ([]byte, string, error)
	BackupCode(ctx context.Context) (string, error)
	ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (string, error)
	ResetPassword(ctx context.Context, resetToken, password string) error
	ListCompanies(ctx context.Context) (map[string]models.CompanySummary, error)
	CompanySnapshot(ctx context.Context, id string, tab models.Tab, period models.Period) ([]models.Snapshot, error)
	CompanyHistory(ctx context.Context, id, key string) ([]models.Snapshot, error)
}

// TokenSource yields the bearer token for authenticated calls; "" means
// signed out.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed TokenSource.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// AuthResponse is the body of a login or signup.
type AuthResponse struct {
	Token   string             `json:"token"`
	User    *models.UserRecord `json:"user"`
	Message string             `json:"message,omitempty"`
}
