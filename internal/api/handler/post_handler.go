package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type PostHandler struct{}

func NewPostHandler() *PostHandler {
	return &PostHandler{}
}

// Mine lists the viewer's own posts.
//
// @Summary      List own posts
// @Tags         posts
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  postsResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /v1/posts [get]
func (h *PostHandler) Mine(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	posts, err := ws.Posts().Mine(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postsResponse{Posts: posts})
}

// Create publishes a post and returns the refreshed list.
//
// @Summary      Create post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      postRequest  true  "Post"
// @Success      201   {object}  postsResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req postRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx, cancel := submitContext(c)
	defer cancel()
	posts, err := ws.Posts().Create(ctx, sess, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, postsResponse{Posts: posts})
}

// Update edits one of the viewer's posts.
//
// @Summary      Update post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        postId  path      string       true  "Post ID"
// @Param        body    body      postRequest  true  "Post"
// @Success      200     {object}  postsResponse
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Failure      422     {object}  errorResponse
// @Failure      502     {object}  errorResponse
// @Router       /v1/posts/{postId} [patch]
func (h *PostHandler) Update(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req postRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx, cancel := submitContext(c)
	defer cancel()
	posts, err := ws.Posts().Update(ctx, sess, c.Param("postId"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postsResponse{Posts: posts})
}

// Delete removes one of the viewer's posts.
//
// @Summary      Delete post
// @Tags         posts
// @Produce      json
// @Security     CookieAuth
// @Param        postId  path      string  true  "Post ID"
// @Success      200     {object}  postsResponse
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Failure      502     {object}  errorResponse
// @Router       /v1/posts/{postId} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	ctx, cancel := submitContext(c)
	defer cancel()
	posts, err := ws.Posts().Delete(ctx, sess, c.Param("postId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postsResponse{Posts: posts})
}

// Search pages through every customer's posts.
//
// @Summary      Search posts
// @Tags         posts
// @Produce      json
// @Security     CookieAuth
// @Param        like      query     string  false  "Name or description contains"
// @Param        priceMin  query     number  false  "Lowest price"
// @Param        priceMax  query     number  false  "Highest price"
// @Param        sort      query     string  false  "id, price or projectName"  default(id)
// @Param        order     query     string  false  "asc or desc"               default(desc)
// @Param        offset    query     int     false  "Rows to skip"
// @Param        limit     query     int     false  "Page size, at most 100"    default(30)
// @Success      200       {object}  postsResponse
// @Failure      400       {object}  errorResponse
// @Failure      422       {object}  errorResponse
// @Failure      502       {object}  errorResponse
// @Router       /v1/posts/search [get]
func (h *PostHandler) Search(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var q postSearchQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid search parameters")
	}
	if err := c.Validate(&q); err != nil {
		return err
	}
	posts, err := ws.Posts().Search(c.Request().Context(), sess, q.toSearch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, postsResponse{Posts: posts})
}
