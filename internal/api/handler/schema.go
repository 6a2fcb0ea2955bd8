package handler

import "github.com/freelancehub/workboard/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error    string            `json:"error"`
	Fields   map[string]string `json:"fields,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Username    string `json:"username"    validate:"required"`
	Email       string `json:"email"       validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Password    string `json:"password"    validate:"required,min=6"`
	TwoFactor   bool   `json:"is2Fa"`
}

type loginRequest struct {
	Login    string `json:"login"    validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"required,oneof=E C executor customer"`
}

type twoFactorRequest struct {
	UserID string `json:"userId" validate:"required"`
	Role   string `json:"role"   validate:"required,oneof=E C executor customer"`
	Code   string `json:"code"   validate:"required"`
}

type sessionResponse struct {
	UserID   string `json:"userId"`
	Role     string `json:"role"`
	Redirect string `json:"redirect,omitempty"`
}

type twoFactorResponse struct {
	TwoFactorRequired bool   `json:"twoFactorRequired"`
	UserID            string `json:"userId"`
	Role              string `json:"role"`
}

// --- Dashboard ---

// Missing deadline or rating is reported by the dashboard itself so the
// message matches the one shown for local rule checks.
type resumeRequest struct {
	DeadlineDate string `json:"deadlineDate"`
}

type rateRequest struct {
	Rating int `json:"rating"`
}

type projectsResponse struct {
	Projects []domain.Project `json:"projects"`
}

// --- Feedback ---

type acceptFeedbackRequest struct {
	DeadlineDate string `json:"deadlineDate"`
	PostID       string `json:"postId"`
}

type feedbackResponse struct {
	Feedback []domain.Feedback `json:"feedback"`
}

type bidRequest struct {
	PostID         string  `json:"postId"`
	SuggestedPrice float64 `json:"suggestedPrice"`
}

// --- Posts ---

// Post fields are checked by the post service so create and update report
// the same messages.
type postRequest struct {
	ProjectName string  `json:"projectName"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

func (r postRequest) toInput() domain.PostInput {
	return domain.PostInput{Name: r.ProjectName, Description: r.Description, Price: r.Price}
}

type postSearchQuery struct {
	Like     string   `json:"like"     query:"like"`
	PriceMin *float64 `json:"priceMin" query:"priceMin"`
	PriceMax *float64 `json:"priceMax" query:"priceMax"`
	Sort     string   `json:"sort"     query:"sort"`
	Order    string   `json:"order"    query:"order"    validate:"omitempty,oneof=asc desc"`
	Offset   int      `json:"offset"   query:"offset"`
	Limit    int      `json:"limit"    query:"limit"`
}

func (q postSearchQuery) toSearch() domain.PostSearch {
	return domain.PostSearch{
		Like:      q.Like,
		PriceMin:  q.PriceMin,
		PriceMax:  q.PriceMax,
		SortBy:    domain.PostSortColumn(q.Sort),
		Ascending: q.Order == "asc",
		Offset:    q.Offset,
		Limit:     q.Limit,
	}
}

type postsResponse struct {
	Posts []domain.Post `json:"posts"`
}

// --- Portfolio ---

type cardRequest struct {
	SkillName  string  `json:"skillName"`
	Experience float64 `json:"experience"`
	About      string  `json:"about"`
}

type portfolioProjectRequest struct {
	ProjectName string `json:"projectName"`
	RepoURL     string `json:"repoUrl"`
	Description string `json:"description"`
}

type cardsResponse struct {
	Cards []domain.PortfolioCard `json:"cards"`
}

type portfolioProjectsResponse struct {
	Projects []domain.PortfolioProject `json:"projects"`
}

// --- Account ---

type forgotPasswordRequest struct {
	Login string `json:"login" validate:"required"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type avatarResponse struct {
	Avatar string `json:"avatar"`
}
