package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/freelancehub/workboard/internal/core/domain"
	"github.com/freelancehub/workboard/internal/core/ports"
)

// AuthService implements registration, login and logout for one principal.
type AuthService struct {
	gateway  ports.AuthGateway
	sessions ports.Sessions
	log      zerolog.Logger
}

func NewAuthService(gateway ports.AuthGateway, sessions ports.Sessions, log zerolog.Logger) *AuthService {
	return &AuthService{gateway: gateway, sessions: sessions, log: log}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) error {
	if strings.TrimSpace(in.Username) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return &domain.APIError{Status: 422, Fields: missingFields(map[string]string{
			"username": in.Username,
			"email":    in.Email,
			"password": in.Password,
		})}
	}
	if err := s.gateway.Register(ctx, in); err != nil {
		return err
	}
	s.log.Info().Str("username", in.Username).Bool("two_factor", in.TwoFactor).Msg("account registered")
	return nil
}

// Login authenticates and establishes the session. Accounts with two-factor
// authentication get a *domain.TwoFactorChallenge error instead; the session
// is established once VerifyTwoFactor succeeds.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (domain.Session, error) {
	if strings.TrimSpace(in.Login) == "" || in.Password == "" {
		return domain.Session{}, &domain.APIError{Status: 422, Fields: missingFields(map[string]string{
			"login":    in.Login,
			"password": in.Password,
		})}
	}

	res, err := s.gateway.Login(ctx, in)
	if err != nil {
		return domain.Session{}, err
	}
	if res.AccessToken == "" {
		s.log.Info().Str("user_id", res.UserID).Msg("two-factor challenge issued")
		return domain.Session{}, &domain.TwoFactorChallenge{UserID: res.UserID, Role: res.Role}
	}

	sess := domain.Session{AccessToken: res.AccessToken, UserID: res.UserID, Role: res.Role}
	if err := s.sessions.Establish(ctx, sess); err != nil {
		return domain.Session{}, fmt.Errorf("login: %w", err)
	}
	return sess, nil
}

func (s *AuthService) VerifyTwoFactor(ctx context.Context, in ports.TwoFactorInput) (domain.Session, error) {
	if strings.TrimSpace(in.Code) == "" {
		return domain.Session{}, domain.ErrCodeRequired
	}
	token, err := s.gateway.VerifyTwoFactor(ctx, in)
	if err != nil {
		return domain.Session{}, err
	}

	sess := domain.Session{AccessToken: token, UserID: in.UserID, Role: in.Role}
	if err := s.sessions.Establish(ctx, sess); err != nil {
		return domain.Session{}, fmt.Errorf("verify code: %w", err)
	}
	return sess, nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.sessions.Logout(ctx)
}

// Current returns the session, or ErrNotAuthenticated when there is none.
func (s *AuthService) Current(ctx context.Context) (domain.Session, error) {
	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	if !sess.Authenticated() {
		return domain.Session{}, domain.ErrNotAuthenticated
	}
	return sess, nil
}

func missingFields(values map[string]string) map[string]map[string]string {
	out := map[string]map[string]string{}
	for field, v := range values {
		if strings.TrimSpace(v) == "" {
			out[field] = map[string]string{"required": field + " is required"}
		}
	}
	return out
}
