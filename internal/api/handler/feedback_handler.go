package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/freelancehub/workboard/internal/core/domain"
	"github.com/freelancehub/workboard/internal/core/ports"
)

type FeedbackHandler struct{}

func NewFeedbackHandler() *FeedbackHandler {
	return &FeedbackHandler{}
}

// feedbackQuery scopes to a post when postId is given and to the viewer's
// own bids otherwise.
func feedbackQuery(c echo.Context) (ports.FeedbackQuery, error) {
	q := ports.FeedbackQuery{PostID: c.QueryParam("postId"), UserID: c.QueryParam("userId")}
	if q.PostID == "" && q.UserID == "" {
		sess, err := ctxSession(c)
		if err != nil {
			return q, err
		}
		q.UserID = sess.UserID
	}
	return q, nil
}

// List returns bids on a post or by a user.
//
// @Summary      List feedback
// @Tags         feedback
// @Produce      json
// @Security     CookieAuth
// @Param        postId  query     string  false  "Post ID"
// @Param        userId  query     string  false  "Bidder ID (defaults to the viewer)"
// @Success      200     {object}  feedbackResponse
// @Failure      401     {object}  errorResponse
// @Failure      502     {object}  errorResponse
// @Router       /v1/feedback [get]
func (h *FeedbackHandler) List(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	q, err := feedbackQuery(c)
	if err != nil {
		return err
	}
	items, err := ws.Feedback().List(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, feedbackResponse{Feedback: items})
}

// Accept turns a bid into a project and returns the refreshed bid list.
//
// @Summary      Accept feedback
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string                 true  "Feedback ID"
// @Param        body  body      acceptFeedbackRequest  true  "Deadline and post scope"
// @Success      200   {object}  feedbackResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/feedback/{id}/accept [post]
func (h *FeedbackHandler) Accept(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	var req acceptFeedbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	q := ports.FeedbackQuery{PostID: req.PostID}
	if q.PostID == "" {
		if q, err = feedbackQuery(c); err != nil {
			return err
		}
	}

	ctx, cancel := submitContext(c)
	defer cancel()
	items, err := ws.Feedback().Accept(ctx, c.Param("id"), req.DeadlineDate, q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, feedbackResponse{Feedback: items})
}

// Reject declines a bid and returns the refreshed bid list.
//
// @Summary      Reject feedback
// @Tags         feedback
// @Produce      json
// @Security     CookieAuth
// @Param        id      path      string  true   "Feedback ID"
// @Param        postId  query     string  false  "Post ID to refetch"
// @Success      200     {object}  feedbackResponse
// @Failure      403     {object}  errorResponse
// @Failure      502     {object}  errorResponse
// @Router       /v1/feedback/{id} [delete]
func (h *FeedbackHandler) Reject(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	q, err := feedbackQuery(c)
	if err != nil {
		return err
	}
	ctx, cancel := submitContext(c)
	defer cancel()
	items, err := ws.Feedback().Reject(ctx, c.Param("id"), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, feedbackResponse{Feedback: items})
}

// Submit places the viewer's bid on a post.
//
// @Summary      Submit bid
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      bidRequest  true  "Post and suggested price"
// @Success      201   {object}  messageResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/feedback [post]
func (h *FeedbackHandler) Submit(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req bidRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx, cancel := submitContext(c)
	defer cancel()
	bid := domain.Bid{PostID: req.PostID, SuggestedPrice: req.SuggestedPrice}
	if err := ws.Feedback().Submit(ctx, sess, bid); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, messageResponse{Message: "bid submitted"})
}
