package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/freelancehub/workboard/internal/api/middleware"
	"github.com/freelancehub/workboard/internal/core/domain"
	"github.com/freelancehub/workboard/internal/core/ports"
)

// ctxWorkspace returns the workspace opened by the Workspace middleware.
func ctxWorkspace(c echo.Context) (ports.Workspace, error) {
	ws, ok := c.Get(middleware.WorkspaceKey).(ports.Workspace)
	if !ok || ws == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return ws, nil
}

// ctxSession returns the signed-in session injected by RequireAuth. A record
// without a user id means the middleware did not run.
func ctxSession(c echo.Context) (domain.Session, error) {
	sess, _ := c.Get(middleware.SessionKey).(domain.Session)
	if !sess.Authenticated() {
		return domain.Session{}, domain.ErrNotAuthenticated
	}
	return sess, nil
}

// submitTimeout bounds a state-changing backend call once it has been
// detached from the client connection.
const submitTimeout = 30 * time.Second

// submitContext returns a context for a state-changing call that outlives
// the client going away. A change the backend may already have applied must
// also reach the dialog and the journal.
func submitContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(c.Request().Context()), submitTimeout)
}
