package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/freelancehub/workboard/internal/core/ports"
)

// Workspace opens the workspace of the browser session. It must run after
// Session.
func Workspace(workspaces ports.Workspaces) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid, _ := c.Get(SessionIDKey).(string)
			if sid == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
			}
			ws, err := workspaces.Open(c.Request().Context(), sid)
			if err != nil {
				return err
			}
			c.Set(WorkspaceKey, ws)
			return next(c)
		}
	}
}

// RequireAuth rejects requests whose browser session has no signed-in user
// and injects the session record and role into context.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ws, ok := c.Get(WorkspaceKey).(ports.Workspace)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
			}
			sess, err := ws.Auth().Current(c.Request().Context())
			if err != nil {
				return err
			}

			c.Set(SessionKey, sess)
			c.Set(RoleKey, sess.Role)
			return next(c)
		}
	}
}
