package ports

import (
	"context"

	"github.com/freelancehub/workboard/internal/core/domain"
)

// RegisterInput carries the account registration form.
type RegisterInput struct {
	Username    string
	Email       string
	PhoneNumber string
	Password    string
	TwoFactor   bool
}

// LoginInput carries the login form. Role selects which account type to log in as.
type LoginInput struct {
	Login    string
	Password string
	Role     domain.Role
}

// LoginResult is either a complete session (AccessToken set) or a two-factor
// challenge (AccessToken empty).
type LoginResult struct {
	AccessToken string
	UserID      string
	Role        domain.Role
}

// TwoFactorInput carries the proof code for a pending login.
type TwoFactorInput struct {
	UserID string
	Role   domain.Role
	Code   string
}

// AuthGateway talks to the backend's unauthenticated auth endpoints. Any
// long-lived credential the backend sets travels out of band.
type AuthGateway interface {
	Register(ctx context.Context, in RegisterInput) error
	Login(ctx context.Context, in LoginInput) (LoginResult, error)
	VerifyTwoFactor(ctx context.Context, in TwoFactorInput) (string, error)
}
