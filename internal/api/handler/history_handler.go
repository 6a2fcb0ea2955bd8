package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/freelancehub/workboard/internal/core/domain"
	"github.com/freelancehub/workboard/internal/core/ports"
)

const historyLimit = 50

// HistoryHandler exposes the transition journal of a project.
type HistoryHandler struct {
	journal ports.TransitionJournal
}

func NewHistoryHandler(journal ports.TransitionJournal) *HistoryHandler {
	return &HistoryHandler{journal: journal}
}

type historyResponse struct {
	Transitions []domain.TransitionRecord `json:"transitions"`
}

// List returns the viewer's own journaled actions on a project, newest first.
//
// @Summary      Project transition history
// @Tags         dashboard
// @Produce      json
// @Security     CookieAuth
// @Param        projectId  path      string  true  "Project ID"
// @Success      200        {object}  historyResponse
// @Failure      401        {object}  errorResponse
// @Router       /v1/dashboard/projects/{projectId}/history [get]
func (h *HistoryHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	records, err := h.journal.ListByProject(c.Request().Context(), c.Param("projectId"), historyLimit)
	if err != nil {
		return err
	}

	out := make([]domain.TransitionRecord, 0, len(records))
	for _, r := range records {
		if r.ActorID == sess.UserID {
			out = append(out, r)
		}
	}
	return c.JSON(http.StatusOK, historyResponse{Transitions: out})
}
