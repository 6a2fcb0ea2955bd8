package handler

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/freelancehub/workboard/internal/api/middleware"
	"github.com/freelancehub/workboard/internal/core/domain"
)

func TestAccountHandler_ResendVerification(t *testing.T) {
	ws := newStubWorkspace()
	c, rec := newContext(ws, customer, http.MethodPost, "/v1/email/resend", "")

	if err := NewAccountHandler().ResendVerification(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if ws.account.sentFor != "7|7" {
		t.Fatalf("expected the viewer's own email, got %q", ws.account.sentFor)
	}
}

func TestAccountHandler_ConfirmEmail(t *testing.T) {
	ws := newStubWorkspace()
	c, rec := newContext(ws, domain.Session{}, http.MethodPut, "/email/confirm?token=abc", "")

	if err := NewAccountHandler().ConfirmEmail(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || ws.account.confirmed != "abc" {
		t.Fatalf("expected confirmation, got %d %q", rec.Code, ws.account.confirmed)
	}
}

func TestAccountHandler_ConfirmEmailWithoutToken(t *testing.T) {
	ws := newStubWorkspace()
	c, _ := newContext(ws, domain.Session{}, http.MethodPut, "/email/confirm", "")

	if err := NewAccountHandler().ConfirmEmail(c); !errors.Is(err, domain.ErrTokenRequired) {
		t.Fatalf("expected ErrTokenRequired, got %v", err)
	}
}

func TestAccountHandler_ForgotPassword(t *testing.T) {
	ws := newStubWorkspace()
	c, rec := newContext(ws, domain.Session{}, http.MethodPost, "/password/forgot", `{"login":"alice"}`)

	if err := NewAccountHandler().ForgotPassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted || ws.account.resetFor != "alice" {
		t.Fatalf("expected a reset for alice, got %d %q", rec.Code, ws.account.resetFor)
	}

	c, _ = newContext(ws, domain.Session{}, http.MethodPost, "/password/forgot", `{}`)
	err := NewAccountHandler().ForgotPassword(c)
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) || apiErr.Fields["login"]["required"] == "" {
		t.Fatalf("expected login required, got %v", err)
	}
}

func TestAccountHandler_ResetPassword(t *testing.T) {
	ws := newStubWorkspace()
	c, rec := newContext(ws, domain.Session{}, http.MethodPost, "/password/reset", `{"token":"tok","password":"secret1"}`)

	if err := NewAccountHandler().ResetPassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if want := (domain.PasswordReset{Token: "tok", Password: "secret1"}); ws.account.reset != want {
		t.Fatalf("expected %+v, got %+v", want, ws.account.reset)
	}
}

func avatarContext(t *testing.T, ws *stubWorkspace, contentType string, data []byte) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="avatar"; filename="me.png"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("part: %v", err)
	}
	_, _ = part.Write(data)
	_ = w.Close()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/account/avatar", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.WorkspaceKey, ws)
	c.Set(middleware.SessionKey, customer)
	c.Set(middleware.RoleKey, customer.Role)
	return c, rec
}

func TestAccountHandler_UploadAvatar(t *testing.T) {
	ws := newStubWorkspace()
	c, rec := avatarContext(t, ws, "image/png", []byte("\x89PNG"))

	if err := NewAccountHandler().UploadAvatar(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	a := ws.account.avatar
	if a.Filename != "me.png" || a.ContentType != "image/png" || string(a.Data) != "\x89PNG" {
		t.Fatalf("unexpected avatar: %+v", a)
	}
}

func TestAccountHandler_UploadAvatarRejected(t *testing.T) {
	ws := newStubWorkspace()
	h := NewAccountHandler()

	c, _ := avatarContext(t, ws, "text/plain", []byte("hello"))
	var apiErr *domain.APIError
	if err := h.UploadAvatar(c); !errors.As(err, &apiErr) || apiErr.Fields["avatar"]["image"] == "" {
		t.Fatalf("expected image type error, got %v", err)
	}

	c, _ = avatarContext(t, ws, "image/png", bytes.Repeat([]byte{1}, domain.MaxAvatarBytes+10))
	if err := h.UploadAvatar(c); !errors.As(err, &apiErr) || apiErr.Fields["avatar"]["max"] == "" {
		t.Fatalf("expected size error, got %v", err)
	}

	c, _ = newContext(ws, customer, http.MethodPost, "/v1/account/avatar", `{}`)
	var httpErr *echo.HTTPError
	if err := h.UploadAvatar(c); !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a non-multipart body, got %v", err)
	}
}
