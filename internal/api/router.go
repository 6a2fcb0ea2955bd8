package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/freelancehub/workboard/docs"
	"github.com/freelancehub/workboard/internal/api/handler"
	"github.com/freelancehub/workboard/internal/api/middleware"
	"github.com/freelancehub/workboard/internal/core/domain"
	"github.com/freelancehub/workboard/internal/core/ports"
)

// Dependencies is everything the router needs from main.
type Dependencies struct {
	Workspaces ports.Workspaces
	Cookie     *middleware.SessionCookie
	Journal    ports.TransitionJournal
	Checks     map[string]handler.Check
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log, deps.Cookie)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("workboard"))

	// --- Operational routes (no session) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Session-bound routes ---
	app := e.Group("", middleware.Session(deps.Cookie), middleware.Workspace(deps.Workspaces))

	authHandler := handler.NewAuthHandler(deps.Cookie)
	app.POST("/auth/register", authHandler.Register)
	app.POST("/auth/login", authHandler.Login)
	app.POST("/auth/2fa", authHandler.TwoFactor)
	app.POST("/auth/logout", authHandler.Logout)

	accountHandler := handler.NewAccountHandler()
	app.PUT("/email/confirm", accountHandler.ConfirmEmail)
	app.POST("/password/forgot", accountHandler.ForgotPassword)
	app.POST("/password/reset", accountHandler.ResetPassword)

	v1 := app.Group("/v1", middleware.RequireAuth())

	dashboardHandler := handler.NewDashboardHandler()
	v1.GET("/dashboard", dashboardHandler.Get)
	v1.GET("/dashboard/:userId", dashboardHandler.Get)
	v1.GET("/dashboard/:userId/archive", dashboardHandler.Archive)
	v1.POST("/dashboard/projects/:projectId/select", dashboardHandler.Select)
	v1.POST("/dashboard/dismiss", dashboardHandler.Dismiss)
	v1.POST("/dashboard/suspend", dashboardHandler.Suspend)
	v1.POST("/dashboard/resume", dashboardHandler.Resume)
	v1.POST("/dashboard/complete", dashboardHandler.Complete)
	v1.POST("/dashboard/rate", dashboardHandler.Rate)

	historyHandler := handler.NewHistoryHandler(deps.Journal)
	v1.GET("/dashboard/projects/:projectId/history", historyHandler.List, middleware.RBAC(domain.RoleCustomer))

	feedbackHandler := handler.NewFeedbackHandler()
	v1.GET("/feedback", feedbackHandler.List)
	v1.POST("/feedback", feedbackHandler.Submit, middleware.RBAC(domain.RoleExecutor))
	v1.POST("/feedback/:id/accept", feedbackHandler.Accept, middleware.RBAC(domain.RoleCustomer))
	v1.DELETE("/feedback/:id", feedbackHandler.Reject, middleware.RBAC(domain.RoleCustomer))

	postHandler := handler.NewPostHandler()
	customer := middleware.RBAC(domain.RoleCustomer)
	v1.GET("/posts", postHandler.Mine, customer)
	v1.POST("/posts", postHandler.Create, customer)
	v1.GET("/posts/search", postHandler.Search)
	v1.PATCH("/posts/:postId", postHandler.Update, customer)
	v1.DELETE("/posts/:postId", postHandler.Delete, customer)

	portfolioHandler := handler.NewPortfolioHandler()
	v1.GET("/portfolio", portfolioHandler.Cards)
	v1.GET("/portfolio/:userId", portfolioHandler.Cards)
	v1.POST("/portfolio/cards", portfolioHandler.CreateCard)
	v1.GET("/portfolio/cards/:cardId/projects", portfolioHandler.Projects)
	v1.POST("/portfolio/cards/:cardId/projects", portfolioHandler.AddProject)
	v1.DELETE("/portfolio/cards/:cardId/projects/:projectId", portfolioHandler.DeleteProject)

	v1.POST("/email/resend", accountHandler.ResendVerification)
	v1.POST("/account/avatar", accountHandler.UploadAvatar, echomiddleware.BodyLimit("6M"))

	return e
}
