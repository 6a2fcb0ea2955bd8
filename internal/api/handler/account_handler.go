package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/freelancehub/workboard/internal/core/domain"
)

type AccountHandler struct{}

func NewAccountHandler() *AccountHandler {
	return &AccountHandler{}
}

// ResendVerification mails a new confirmation link to the viewer.
//
// @Summary      Resend verification email
// @Tags         account
// @Produce      json
// @Security     CookieAuth
// @Success      202  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /v1/email/resend [post]
func (h *AccountHandler) ResendVerification(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := ws.Account().SendVerificationEmail(c.Request().Context(), sess, sess.UserID); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, messageResponse{Message: "verification email sent"})
}

// ConfirmEmail redeems the token from a confirmation link.
//
// @Summary      Confirm email
// @Tags         account
// @Produce      json
// @Param        token  query     string  true  "Confirmation token"
// @Success      200    {object}  messageResponse
// @Failure      422    {object}  errorResponse
// @Failure      502    {object}  errorResponse
// @Router       /email/confirm [put]
func (h *AccountHandler) ConfirmEmail(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	if err := ws.Account().ConfirmEmail(c.Request().Context(), c.QueryParam("token")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "email confirmed"})
}

// ForgotPassword mails a reset link for login.
//
// @Summary      Request password reset
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Login"
// @Success      202   {object}  messageResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /password/forgot [post]
func (h *AccountHandler) ForgotPassword(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := ws.Account().RequestPasswordReset(c.Request().Context(), req.Login); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, messageResponse{Message: "password reset email sent"})
}

// ResetPassword sets a new password with the token from a reset link.
//
// @Summary      Reset password
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Token and new password"
// @Success      200   {object}  messageResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /password/reset [post]
func (h *AccountHandler) ResetPassword(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	reset := domain.PasswordReset{Token: req.Token, Password: req.Password}
	if err := ws.Account().ResetPassword(c.Request().Context(), reset); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "password updated"})
}

// UploadAvatar replaces the viewer's profile image.
//
// @Summary      Upload avatar
// @Tags         account
// @Accept       mpfd
// @Produce      json
// @Security     CookieAuth
// @Param        avatar  formData  file  true  "Image, at most 5 MB"
// @Success      200     {object}  avatarResponse
// @Failure      400     {object}  errorResponse
// @Failure      422     {object}  errorResponse
// @Failure      502     {object}  errorResponse
// @Router       /v1/account/avatar [post]
func (h *AccountHandler) UploadAvatar(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	avatar, err := readAvatar(c)
	if err != nil {
		return err
	}

	ctx, cancel := submitContext(c)
	defer cancel()
	name, err := ws.Account().UploadAvatar(ctx, sess, avatar)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, avatarResponse{Avatar: name})
}

// readAvatar reads the "avatar" form file, one byte past the size cap so an
// oversized upload still fails validation.
func readAvatar(c echo.Context) (domain.Avatar, error) {
	fh, err := c.FormFile("avatar")
	if errors.Is(err, http.ErrMissingFile) {
		return domain.Avatar{}, nil
	}
	if err != nil {
		return domain.Avatar{}, echo.NewHTTPError(http.StatusBadRequest, "invalid multipart body")
	}
	f, err := fh.Open()
	if err != nil {
		return domain.Avatar{}, fmt.Errorf("open avatar: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, domain.MaxAvatarBytes+1))
	if err != nil {
		return domain.Avatar{}, fmt.Errorf("read avatar: %w", err)
	}
	return domain.Avatar{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
