package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/freelancehub/workboard/internal/core/domain"
)

const (
	userInfoPath   = "/api/users/info/"
	emailSendPath  = "/api/email/send/"
	emailProofPath = "/api/email/proof"

	passwordResetRequestPath = "/api/reset-password/sand"
	passwordResetUpdatePath  = "/api/reset-password/update"
	avatarUploadPath         = "/api/image/add"
)

// AccountGateway implements ports.AccountGateway. Email confirmation and
// password reset are reached from a mailed link and need no session, so they
// go through the plain client.
type AccountGateway struct {
	authed Doer
	anon   Doer
}

func NewAccountGateway(authed, anon Doer) *AccountGateway {
	return &AccountGateway{authed: authed, anon: anon}
}

func (g *AccountGateway) UserInfo(ctx context.Context, userID string) (*domain.UserInfo, error) {
	resp, err := g.authed.Do(ctx, Request{Method: http.MethodGet, Path: userInfoPath + url.PathEscape(userID)})
	if err != nil {
		return nil, fmt.Errorf("user info %s: %w", userID, err)
	}

	var rec userInfoRecord
	if err := resp.Decode(&rec); err != nil {
		return nil, fmt.Errorf("user info %s: %w", userID, err)
	}
	info, err := rec.toDomain(userID)
	if err != nil {
		return nil, fmt.Errorf("user info %s: %w", userID, err)
	}
	return info, nil
}

func (g *AccountGateway) SendVerificationEmail(ctx context.Context, userID string) error {
	_, err := g.authed.Do(ctx, Request{Method: http.MethodPost, Path: emailSendPath + url.PathEscape(userID)})
	if err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

func (g *AccountGateway) ConfirmEmail(ctx context.Context, token string) error {
	_, err := g.anon.Do(ctx, Request{
		Method: http.MethodPut,
		Path:   emailProofPath,
		Query:  url.Values{"token": {token}},
	})
	if err != nil {
		return fmt.Errorf("confirm email: %w", err)
	}
	return nil
}

func (g *AccountGateway) RequestPasswordReset(ctx context.Context, login string) error {
	_, err := g.anon.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   passwordResetRequestPath,
		Body:   map[string]string{"login": login},
	})
	if err != nil {
		return fmt.Errorf("request password reset: %w", err)
	}
	return nil
}

func (g *AccountGateway) ResetPassword(ctx context.Context, reset domain.PasswordReset) error {
	_, err := g.anon.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   passwordResetUpdatePath,
		Body:   map[string]string{"token": reset.Token, "password": reset.Password},
	})
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

// UploadAvatar sends the image as the multipart field "avatar" and returns
// the name the backend stored it under.
func (g *AccountGateway) UploadAvatar(ctx context.Context, a domain.Avatar) (string, error) {
	form, contentType, err := avatarForm(a)
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}
	resp, err := g.authed.Do(ctx, Request{
		Method:      http.MethodPost,
		Path:        avatarUploadPath,
		Raw:         form,
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}
	var reply struct {
		AvatarName string `json:"avatar_name"`
	}
	if err := resp.Decode(&reply); err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}
	return reply.AvatarName, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func avatarForm(a domain.Avatar) ([]byte, string, error) {
	filename := a.Filename
	if filename == "" {
		filename = "avatar"
	}
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="avatar"; filename="%s"`, quoteEscaper.Replace(filename)))
	h.Set("Content-Type", a.ContentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(a.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
