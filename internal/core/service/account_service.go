package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/freelancehub/workboard/internal/core/domain"
	"github.com/freelancehub/workboard/internal/core/ports"
)

// AccountService covers profile info, email verification, password reset and
// the avatar.
type AccountService struct {
	gateway ports.AccountGateway
	log     zerolog.Logger
}

func NewAccountService(gateway ports.AccountGateway, log zerolog.Logger) *AccountService {
	return &AccountService{gateway: gateway, log: log}
}

func (s *AccountService) UserInfo(ctx context.Context, userID string) (*domain.UserInfo, error) {
	return s.gateway.UserInfo(ctx, userID)
}

// SendVerificationEmail mails a new confirmation link. Only the viewer's own
// address can be verified.
func (s *AccountService) SendVerificationEmail(ctx context.Context, viewer domain.Session, userID string) error {
	if !viewer.Authenticated() {
		return domain.ErrNotAuthenticated
	}
	if !viewer.IsOwnProfile(userID) {
		return domain.ErrNotOwner
	}
	if err := s.gateway.SendVerificationEmail(ctx, viewer.UserID); err != nil {
		return err
	}
	s.log.Info().Str("user_id", viewer.UserID).Msg("verification email sent")
	return nil
}

// ConfirmEmail redeems the token from a confirmation link. No session is
// needed.
func (s *AccountService) ConfirmEmail(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ErrTokenRequired
	}
	return s.gateway.ConfirmEmail(ctx, token)
}

// RequestPasswordReset mails a reset link for login. No session is needed.
func (s *AccountService) RequestPasswordReset(ctx context.Context, login string) error {
	login = strings.TrimSpace(login)
	if login == "" {
		return &domain.APIError{Status: 422, Fields: missingFields(map[string]string{"login": login})}
	}
	if err := s.gateway.RequestPasswordReset(ctx, login); err != nil {
		return err
	}
	s.log.Info().Msg("password reset requested")
	return nil
}

// ResetPassword sets a new password with the token from a reset link.
func (s *AccountService) ResetPassword(ctx context.Context, r domain.PasswordReset) error {
	r.Token = strings.TrimSpace(r.Token)
	if err := r.Validate(); err != nil {
		return err
	}
	if err := s.gateway.ResetPassword(ctx, r); err != nil {
		return err
	}
	s.log.Info().Msg("password reset")
	return nil
}

// UploadAvatar replaces the viewer's avatar and returns the stored name.
func (s *AccountService) UploadAvatar(ctx context.Context, viewer domain.Session, a domain.Avatar) (string, error) {
	if !viewer.Authenticated() {
		return "", domain.ErrNotAuthenticated
	}
	if err := a.Validate(); err != nil {
		return "", err
	}
	name, err := s.gateway.UploadAvatar(ctx, a)
	if err != nil {
		return "", err
	}
	s.log.Info().Str("user_id", viewer.UserID).Str("avatar", name).Int("bytes", len(a.Data)).Msg("avatar updated")
	return name, nil
}
