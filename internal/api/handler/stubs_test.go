package handler

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/freelancehub/workboard/internal/api/middleware"
	"github.com/freelancehub/workboard/internal/core/domain"
	"github.com/freelancehub/workboard/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) error
	loginFn    func(ctx context.Context, in ports.LoginInput) (domain.Session, error)
	verifyFn   func(ctx context.Context, in ports.TwoFactorInput) (domain.Session, error)
	loggedOut  bool
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) error {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, in ports.LoginInput) (domain.Session, error) {
	return s.loginFn(ctx, in)
}

func (s *stubAuthService) VerifyTwoFactor(ctx context.Context, in ports.TwoFactorInput) (domain.Session, error) {
	return s.verifyFn(ctx, in)
}

func (s *stubAuthService) Logout(context.Context) error {
	s.loggedOut = true
	return nil
}

func (s *stubAuthService) Current(context.Context) (domain.Session, error) {
	return domain.Session{}, domain.ErrNotAuthenticated
}

type stubFeedbackService struct {
	listQ   ports.FeedbackQuery
	accepts []string
	rejects []string
	bids    []string
	ctxErrs []error
	err     error
}

func (s *stubFeedbackService) List(_ context.Context, q ports.FeedbackQuery) ([]domain.Feedback, error) {
	s.listQ = q
	return []domain.Feedback{{ID: "f1", PostID: q.PostID}}, s.err
}

func (s *stubFeedbackService) Accept(ctx context.Context, id, deadline string, q ports.FeedbackQuery) ([]domain.Feedback, error) {
	s.ctxErrs = append(s.ctxErrs, ctx.Err())
	s.accepts = append(s.accepts, id+"|"+deadline+"|"+q.PostID)
	return nil, s.err
}

func (s *stubFeedbackService) Reject(ctx context.Context, id string, q ports.FeedbackQuery) ([]domain.Feedback, error) {
	s.ctxErrs = append(s.ctxErrs, ctx.Err())
	s.rejects = append(s.rejects, id+"|"+q.PostID+"|"+q.UserID)
	return nil, s.err
}

func (s *stubFeedbackService) Submit(ctx context.Context, viewer domain.Session, bid domain.Bid) error {
	s.ctxErrs = append(s.ctxErrs, ctx.Err())
	s.bids = append(s.bids, fmt.Sprintf("%s|%s|%g", viewer.UserID, bid.PostID, bid.SuggestedPrice))
	return s.err
}

type stubAccountService struct {
	sentFor   string
	confirmed string
	resetFor  string
	reset     domain.PasswordReset
	avatar    domain.Avatar
	err       error
}

func (s *stubAccountService) UserInfo(_ context.Context, id string) (*domain.UserInfo, error) {
	return &domain.UserInfo{ID: id}, s.err
}

func (s *stubAccountService) SendVerificationEmail(_ context.Context, viewer domain.Session, id string) error {
	s.sentFor = viewer.UserID + "|" + id
	return s.err
}

func (s *stubAccountService) ConfirmEmail(_ context.Context, token string) error {
	if token == "" {
		return domain.ErrTokenRequired
	}
	s.confirmed = token
	return s.err
}

func (s *stubAccountService) RequestPasswordReset(_ context.Context, login string) error {
	s.resetFor = login
	return s.err
}

func (s *stubAccountService) ResetPassword(_ context.Context, r domain.PasswordReset) error {
	s.reset = r
	return s.err
}

func (s *stubAccountService) UploadAvatar(_ context.Context, _ domain.Session, a domain.Avatar) (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}
	s.avatar = a
	return "stored-" + a.Filename, s.err
}

// stubPostService records mutations as "op|postId|name" and returns posts.
type stubPostService struct {
	posts   []domain.Post
	calls   []string
	search  domain.PostSearch
	ctxErrs []error
	err     error
}

func (s *stubPostService) Mine(context.Context, domain.Session) ([]domain.Post, error) {
	return s.posts, s.err
}

func (s *stubPostService) Create(ctx context.Context, _ domain.Session, in domain.PostInput) ([]domain.Post, error) {
	s.ctxErrs = append(s.ctxErrs, ctx.Err())
	s.calls = append(s.calls, "create||"+in.Name)
	return s.posts, s.err
}

func (s *stubPostService) Update(ctx context.Context, _ domain.Session, postID string, in domain.PostInput) ([]domain.Post, error) {
	s.ctxErrs = append(s.ctxErrs, ctx.Err())
	s.calls = append(s.calls, "update|"+postID+"|"+in.Name)
	return s.posts, s.err
}

func (s *stubPostService) Delete(ctx context.Context, _ domain.Session, postID string) ([]domain.Post, error) {
	s.ctxErrs = append(s.ctxErrs, ctx.Err())
	s.calls = append(s.calls, "delete|"+postID+"|")
	return s.posts, s.err
}

func (s *stubPostService) Search(_ context.Context, _ domain.Session, q domain.PostSearch) ([]domain.Post, error) {
	s.search = q
	return s.posts, s.err
}

type stubPortfolioService struct {
	profileIDs []string
	calls      []string
	err        error
}

func (s *stubPortfolioService) Cards(_ context.Context, _ domain.Session, profileID string) ([]domain.PortfolioCard, error) {
	s.profileIDs = append(s.profileIDs, profileID)
	return []domain.PortfolioCard{{ID: "c1", SkillName: "Go"}}, s.err
}

func (s *stubPortfolioService) CreateCard(_ context.Context, _ domain.Session, in domain.PortfolioCardInput) ([]domain.PortfolioCard, error) {
	s.calls = append(s.calls, fmt.Sprintf("card|%s|%g|%s", in.SkillName, in.Experience, in.About))
	return nil, s.err
}

func (s *stubPortfolioService) Projects(_ context.Context, cardID string) ([]domain.PortfolioProject, error) {
	return []domain.PortfolioProject{{ID: "w1", CardID: cardID}}, s.err
}

func (s *stubPortfolioService) AddProject(_ context.Context, _ domain.Session, cardID string, in domain.PortfolioProjectInput) ([]domain.PortfolioProject, error) {
	s.calls = append(s.calls, "add|"+cardID+"|"+in.Name+"|"+in.RepoURL)
	return nil, s.err
}

func (s *stubPortfolioService) DeleteProject(_ context.Context, _ domain.Session, cardID, projectID string) ([]domain.PortfolioProject, error) {
	s.calls = append(s.calls, "delete|"+cardID+"|"+projectID)
	return nil, s.err
}

// stubDashboard records the calls it receives and replays configured errors.
type stubDashboard struct {
	calls     []string
	selectErr []error
	err       error
	state     domain.DashboardState
	// ctxErrs holds ctx.Err() as seen by each backend-bound action.
	ctxErrs []error
}

func (d *stubDashboard) Load(context.Context) error {
	d.calls = append(d.calls, "load")
	return d.err
}

func (d *stubDashboard) LoadArchive(context.Context) ([]domain.Project, error) {
	d.calls = append(d.calls, "archive")
	return []domain.Project{{ID: "9", Status: domain.StatusCompleted}}, d.err
}

func (d *stubDashboard) Select(id string) error {
	d.calls = append(d.calls, "select:"+id)
	if len(d.selectErr) > 0 {
		err := d.selectErr[0]
		d.selectErr = d.selectErr[1:]
		return err
	}
	return nil
}

func (d *stubDashboard) Suspend(ctx context.Context) error {
	d.calls = append(d.calls, "suspend")
	d.ctxErrs = append(d.ctxErrs, ctx.Err())
	return d.err
}

func (d *stubDashboard) Resume(ctx context.Context, deadline string) error {
	d.calls = append(d.calls, "resume:"+deadline)
	d.ctxErrs = append(d.ctxErrs, ctx.Err())
	return d.err
}

func (d *stubDashboard) ConfirmComplete() error {
	d.calls = append(d.calls, "complete")
	return d.err
}

func (d *stubDashboard) SubmitRating(ctx context.Context, rating int) error {
	d.calls = append(d.calls, "rate:"+string(rune('0'+rating)))
	d.ctxErrs = append(d.ctxErrs, ctx.Err())
	return d.err
}

func (d *stubDashboard) Dismiss() {
	d.calls = append(d.calls, "dismiss")
}

func (d *stubDashboard) View() domain.DashboardState {
	return d.state
}

type stubWorkspace struct {
	auth       *stubAuthService
	feedback   *stubFeedbackService
	account    *stubAccountService
	posts      *stubPostService
	portfolio  *stubPortfolioService
	dashboards map[string]*stubDashboard
}

func newStubWorkspace() *stubWorkspace {
	return &stubWorkspace{
		auth:       &stubAuthService{},
		feedback:   &stubFeedbackService{},
		account:    &stubAccountService{},
		posts:      &stubPostService{},
		portfolio:  &stubPortfolioService{},
		dashboards: map[string]*stubDashboard{},
	}
}

func (w *stubWorkspace) Auth() ports.AuthService           { return w.auth }
func (w *stubWorkspace) Feedback() ports.FeedbackService   { return w.feedback }
func (w *stubWorkspace) Account() ports.AccountService     { return w.account }
func (w *stubWorkspace) Posts() ports.PostService          { return w.posts }
func (w *stubWorkspace) Portfolio() ports.PortfolioService { return w.portfolio }

func (w *stubWorkspace) Dashboard(_ context.Context, profileID string) (ports.DashboardService, error) {
	d, ok := w.dashboards[profileID]
	if !ok {
		d = &stubDashboard{state: domain.DashboardState{ProfileID: profileID, Dialog: domain.DialogNone}}
		w.dashboards[profileID] = d
	}
	return d, nil
}

var customer = domain.Session{AccessToken: "t", UserID: "7", Role: domain.RoleCustomer}

// newContext builds an echo context that has been through the session
// middlewares. A zero sess leaves the request anonymous.
func newContext(ws ports.Workspace, sess domain.Session, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.WorkspaceKey, ws)
	if sess.Authenticated() {
		c.Set(middleware.SessionKey, sess)
		c.Set(middleware.RoleKey, sess.Role)
	}
	return c, rec
}
