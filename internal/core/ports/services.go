package ports

import (
	"context"

	"github.com/freelancehub/workboard/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) error
	Login(ctx context.Context, in LoginInput) (domain.Session, error)
	VerifyTwoFactor(ctx context.Context, in TwoFactorInput) (domain.Session, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (domain.Session, error)
}

type FeedbackService interface {
	List(ctx context.Context, q FeedbackQuery) ([]domain.Feedback, error)
	Accept(ctx context.Context, feedbackID, deadline string, q FeedbackQuery) ([]domain.Feedback, error)
	Reject(ctx context.Context, feedbackID string, q FeedbackQuery) ([]domain.Feedback, error)
	Submit(ctx context.Context, viewer domain.Session, bid domain.Bid) error
}

type AccountService interface {
	UserInfo(ctx context.Context, userID string) (*domain.UserInfo, error)
	SendVerificationEmail(ctx context.Context, viewer domain.Session, userID string) error
	ConfirmEmail(ctx context.Context, token string) error
	RequestPasswordReset(ctx context.Context, login string) error
	ResetPassword(ctx context.Context, r domain.PasswordReset) error
	UploadAvatar(ctx context.Context, viewer domain.Session, a domain.Avatar) (string, error)
}

// PostService manages a customer's posts and the global post search.
// Mutations return the refreshed list of the viewer's posts.
type PostService interface {
	Mine(ctx context.Context, viewer domain.Session) ([]domain.Post, error)
	Create(ctx context.Context, viewer domain.Session, in domain.PostInput) ([]domain.Post, error)
	Update(ctx context.Context, viewer domain.Session, postID string, in domain.PostInput) ([]domain.Post, error)
	Delete(ctx context.Context, viewer domain.Session, postID string) ([]domain.Post, error)
	Search(ctx context.Context, viewer domain.Session, q domain.PostSearch) ([]domain.Post, error)
}

// PortfolioService manages portfolio cards and the projects under them.
// Only the owner changes a portfolio; mutations return the refreshed list.
type PortfolioService interface {
	Cards(ctx context.Context, viewer domain.Session, profileID string) ([]domain.PortfolioCard, error)
	CreateCard(ctx context.Context, viewer domain.Session, in domain.PortfolioCardInput) ([]domain.PortfolioCard, error)
	Projects(ctx context.Context, cardID string) ([]domain.PortfolioProject, error)
	AddProject(ctx context.Context, viewer domain.Session, cardID string, in domain.PortfolioProjectInput) ([]domain.PortfolioProject, error)
	DeleteProject(ctx context.Context, viewer domain.Session, cardID, projectID string) ([]domain.PortfolioProject, error)
}

// DashboardService is one viewer's dashboard for one profile.
type DashboardService interface {
	Load(ctx context.Context) error
	LoadArchive(ctx context.Context) ([]domain.Project, error)
	Select(projectID string) error
	Suspend(ctx context.Context) error
	Resume(ctx context.Context, deadline string) error
	ConfirmComplete() error
	SubmitRating(ctx context.Context, rating int) error
	Dismiss()
	View() domain.DashboardState
}

// Workspace bundles the services bound to one browser session.
type Workspace interface {
	Auth() AuthService
	Feedback() FeedbackService
	Account() AccountService
	Posts() PostService
	Portfolio() PortfolioService
	// Dashboard returns the viewer's dashboard for profileID, creating it on
	// first use. An empty profileID is the viewer's own dashboard.
	Dashboard(ctx context.Context, profileID string) (DashboardService, error)
}

// Workspaces resolves browser session ids to workspaces.
type Workspaces interface {
	Open(ctx context.Context, sid string) (Workspace, error)
}
