package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/freelancehub/workboard/internal/core/domain"
	"github.com/freelancehub/workboard/internal/core/ports"
)

// mailOnEmailGate sends a fresh confirmation link when err is the backend's
// email gate on the viewer's own data. err is returned as it came.
func mailOnEmailGate(ctx context.Context, accounts ports.AccountGateway, viewer domain.Session, err error, log zerolog.Logger) error {
	if !domain.IsEmailConfirmationRequired(err) {
		return err
	}
	if sendErr := accounts.SendVerificationEmail(ctx, viewer.UserID); sendErr != nil {
		log.Warn().Err(sendErr).Str("user_id", viewer.UserID).Msg("could not send verification email")
		return err
	}
	log.Info().Str("user_id", viewer.UserID).Msg("email not confirmed, verification email sent")
	return err
}

func requireRole(viewer domain.Session, role domain.Role) error {
	if !viewer.Authenticated() {
		return domain.ErrNotAuthenticated
	}
	if viewer.Role != role {
		return domain.ErrRoleNotAllowed
	}
	return nil
}
