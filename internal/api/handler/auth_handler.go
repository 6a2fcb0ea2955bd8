package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/freelancehub/workboard/internal/api/middleware"
	"github.com/freelancehub/workboard/internal/core/domain"
)

type AuthHandler struct {
	cookie *middleware.SessionCookie
}

func NewAuthHandler(cookie *middleware.SessionCookie) *AuthHandler {
	return &AuthHandler{cookie: cookie}
}

// Register creates a new marketplace account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration form"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := ws.Auth().Register(c.Request().Context(), toRegisterInput(req)); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, messageResponse{Message: "account created"})
}

// Login signs the browser session in. Accounts with two-factor enabled get a
// 202 and must finish with POST /auth/2fa.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Success      202   {object}  twoFactorResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	in, err := toLoginInput(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sess, err := ws.Auth().Login(c.Request().Context(), in)
	var challenge *domain.TwoFactorChallenge
	if errors.As(err, &challenge) {
		return c.JSON(http.StatusAccepted, twoFactorResponse{
			TwoFactorRequired: true,
			UserID:            challenge.UserID,
			Role:              string(challenge.Role),
		})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(sess))
}

// TwoFactor finishes a login that was answered with a two-factor challenge.
//
// @Summary      Submit two-factor code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      twoFactorRequest  true  "Proof code"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/2fa [post]
func (h *AuthHandler) TwoFactor(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}

	var req twoFactorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	in, err := toTwoFactorInput(req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sess, err := ws.Auth().VerifyTwoFactor(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(sess))
}

// Logout ends the session and expires the browser cookie.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	if err := ws.Auth().Logout(c.Request().Context()); err != nil {
		return err
	}
	h.cookie.Clear(c)
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}
