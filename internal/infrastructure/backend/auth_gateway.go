package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/freelancehub/workboard/internal/core/domain"
	"github.com/freelancehub/workboard/internal/core/ports"
)

const (
	registerPath  = "/api/auth/register"
	loginPath     = "/api/auth/login"
	proofCodePath = "/api/two-factor-auth/proof-code"
)

// AuthGateway implements ports.AuthGateway. It must send through the same
// Client the session manager renews with, since login is where the backend
// sets the renewal cookie.
type AuthGateway struct {
	doer Doer
}

func NewAuthGateway(doer Doer) *AuthGateway {
	return &AuthGateway{doer: doer}
}

type registerBody struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
	Is2Fa       bool   `json:"is2Fa"`
}

func (g *AuthGateway) Register(ctx context.Context, in ports.RegisterInput) error {
	_, err := g.doer.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   registerPath,
		Body: registerBody{
			Username:    in.Username,
			Email:       in.Email,
			PhoneNumber: in.PhoneNumber,
			Password:    in.Password,
			Is2Fa:       in.TwoFactor,
		},
	})
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

type loginBody struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	RoleUser string `json:"role_user"`
}

// loginReply is either a full session or, for 2FA accounts, only the user id
// and role to echo back with the proof code.
type loginReply struct {
	Access   string     `json:"access"`
	IDUser   flexString `json:"id_user"`
	ID       flexString `json:"id"`
	RoleUser string     `json:"role_user"`
	Role     string     `json:"role"`
}

func (g *AuthGateway) Login(ctx context.Context, in ports.LoginInput) (ports.LoginResult, error) {
	resp, err := g.doer.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   loginPath,
		Body:   loginBody{Login: in.Login, Password: in.Password, RoleUser: string(in.Role)},
	})
	if err != nil {
		return ports.LoginResult{}, fmt.Errorf("login: %w", err)
	}

	var reply loginReply
	if err := resp.Decode(&reply); err != nil {
		return ports.LoginResult{}, fmt.Errorf("login: %w", err)
	}

	userID := string(reply.IDUser)
	if userID == "" {
		userID = string(reply.ID)
	}
	roleCode := reply.RoleUser
	if roleCode == "" {
		roleCode = reply.Role
	}
	role := in.Role
	if roleCode != "" {
		if role, err = domain.ParseRole(roleCode); err != nil {
			return ports.LoginResult{}, fmt.Errorf("login: %w", err)
		}
	}
	if userID == "" {
		return ports.LoginResult{}, fmt.Errorf("login: %w: reply has no user id", domain.ErrTransport)
	}

	return ports.LoginResult{AccessToken: reply.Access, UserID: userID, Role: role}, nil
}

type proofCodeBody struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	Code string `json:"code"`
}

func (g *AuthGateway) VerifyTwoFactor(ctx context.Context, in ports.TwoFactorInput) (string, error) {
	resp, err := g.doer.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   proofCodePath,
		Body:   proofCodeBody{ID: in.UserID, Role: string(in.Role), Code: in.Code},
	})
	if err != nil {
		return "", fmt.Errorf("verify code: %w", err)
	}

	var reply struct {
		Access string `json:"access"`
	}
	if err := resp.Decode(&reply); err != nil {
		return "", fmt.Errorf("verify code: %w", err)
	}
	if reply.Access == "" {
		return "", fmt.Errorf("verify code: %w: reply has no access token", domain.ErrTransport)
	}
	return reply.Access, nil
}
