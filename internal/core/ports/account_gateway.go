package ports

import (
	"context"

	"github.com/freelancehub/workboard/internal/core/domain"
)

// AccountGateway covers profile info, email verification, password reset and
// the avatar.
type AccountGateway interface {
	UserInfo(ctx context.Context, userID string) (*domain.UserInfo, error)
	SendVerificationEmail(ctx context.Context, userID string) error
	ConfirmEmail(ctx context.Context, token string) error
	RequestPasswordReset(ctx context.Context, login string) error
	ResetPassword(ctx context.Context, r domain.PasswordReset) error
	// UploadAvatar returns the stored file name.
	UploadAvatar(ctx context.Context, a domain.Avatar) (string, error)
}
