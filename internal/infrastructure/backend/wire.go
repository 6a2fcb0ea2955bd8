package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/freelancehub/workboard/internal/core/domain"
)

// flexString decodes ids the backend sends either as numbers or strings.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// flexFloat decodes amounts sent either as numbers or numeric strings.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("parse amount %q: %w", s, err)
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

type projectRecord struct {
	ID               flexString `json:"id"`
	ProjectName      string     `json:"projectName"`
	CustomerID       flexString `json:"customerId"`
	UsernameCustomer string     `json:"usernameCustomer"`
	ExecutorID       flexString `json:"executorId"`
	UsernameExecutor string     `json:"usernameExecutor"`
	Price            flexFloat  `json:"price"`
	DeadlineDate     string     `json:"deadlineDate"`
	Status           string     `json:"status"`
	Rating           *int       `json:"rating"`
}

func (r projectRecord) toDomain() (domain.Project, error) {
	status, err := domain.ParseProjectStatus(r.Status)
	if err != nil {
		return domain.Project{}, fmt.Errorf("project %s: %w", r.ID, err)
	}

	p := domain.Project{
		ID:           string(r.ID),
		Name:         r.ProjectName,
		CustomerID:   string(r.CustomerID),
		CustomerName: r.UsernameCustomer,
		ExecutorID:   string(r.ExecutorID),
		ExecutorName: r.UsernameExecutor,
		Price:        float64(r.Price),
		DeadlineDate: r.DeadlineDate,
		Status:       status,
	}
	// The backend reports 0 or null for unrated projects.
	if r.Rating != nil && *r.Rating > 0 && status == domain.StatusCompleted {
		rating := *r.Rating
		p.Rating = &rating
	}
	if err := p.Validate(); err != nil {
		return domain.Project{}, err
	}
	return p, nil
}

type userInfoBlock struct {
	Username    string    `json:"username"`
	Email       *string   `json:"email"`
	PhoneNumber *string   `json:"phone_number"`
	Rating      flexFloat `json:"rating"`
}

type userInfoRecord struct {
	ResultData *userInfoBlock `json:"resultData"`
	Data       *userInfoBlock `json:"data"`
	ImageInfo  *struct {
		AvatarName string `json:"avatar_name"`
	} `json:"imageInfo"`
}

func (r userInfoRecord) toDomain(userID string) (*domain.UserInfo, error) {
	block := r.ResultData
	if block == nil {
		block = r.Data
	}
	if block == nil {
		return nil, fmt.Errorf("%w: user info has no data block", domain.ErrTransport)
	}

	info := &domain.UserInfo{
		ID:       userID,
		Username: block.Username,
		Rating:   float64(block.Rating),
	}
	if block.Email != nil {
		info.Email = *block.Email
	}
	if block.PhoneNumber != nil {
		info.PhoneNumber = *block.PhoneNumber
	}
	if r.ImageInfo != nil {
		info.AvatarName = r.ImageInfo.AvatarName
	}
	return info, nil
}

type feedbackRecord struct {
	ID             flexString `json:"id"`
	PostID         flexString `json:"postId"`
	UserID         flexString `json:"userId"`
	SuggestedPrice flexFloat  `json:"suggestedPrice"`
	CreatedAt      time.Time  `json:"createdAt"`
	Post           *struct {
		ProjectName string    `json:"project_name"`
		Price       flexFloat `json:"price"`
	} `json:"post"`
	Executor *struct {
		ID          flexString `json:"id"`
		Username    string     `json:"username"`
		RatingCount int        `json:"rating_count"`
		RatingSum   flexFloat  `json:"rating_sum"`
	} `json:"executor"`
}

func (r feedbackRecord) toDomain() domain.Feedback {
	fb := domain.Feedback{
		ID:             string(r.ID),
		PostID:         string(r.PostID),
		ExecutorID:     string(r.UserID),
		SuggestedPrice: float64(r.SuggestedPrice),
		CreatedAt:      r.CreatedAt,
	}
	if r.Post != nil {
		fb.PostName = r.Post.ProjectName
		fb.PostPrice = float64(r.Post.Price)
	}
	if r.Executor != nil {
		if r.Executor.ID != "" {
			fb.ExecutorID = string(r.Executor.ID)
		}
		fb.ExecutorName = r.Executor.Username
		if r.Executor.RatingCount > 0 {
			fb.ExecutorRating = float64(r.Executor.RatingSum) / float64(r.Executor.RatingCount)
		}
	}
	return fb
}

// numericID converts an id for bodies where the backend expects a JSON number.
func numericID(id string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}
	return n, nil
}

// decodeList decodes a JSON array into v. Some list endpoints answer an
// empty result with a {"message": ...} object instead of [].
func decodeList(resp *Response, v any) error {
	body := bytes.TrimSpace(resp.Body)
	if len(body) > 0 && body[0] == '{' {
		return nil
	}
	return resp.Decode(v)
}

type idReply struct {
	ID flexString `json:"id"`
}

type postRecord struct {
	ID          flexString `json:"id"`
	ProjectName string     `json:"projectName"`
	Description string     `json:"description"`
	Price       flexFloat  `json:"price"`
}

func (r postRecord) toDomain() domain.Post {
	return domain.Post{
		ID:          string(r.ID),
		Name:        r.ProjectName,
		Description: r.Description,
		Price:       float64(r.Price),
	}
}

type cardRecord struct {
	ID                         flexString `json:"id"`
	SkillName                  string     `json:"skillName"`
	Experience                 flexFloat  `json:"experience"`
	InfoAboutSkillOrExperience string     `json:"infoAboutSkillOrExperience"`
	Project                    bool       `json:"project"`
}

func (r cardRecord) toDomain() domain.PortfolioCard {
	return domain.PortfolioCard{
		ID:          string(r.ID),
		SkillName:   r.SkillName,
		Experience:  float64(r.Experience),
		About:       r.InfoAboutSkillOrExperience,
		HasProjects: r.Project,
	}
}

type workRecord struct {
	ID          flexString `json:"id"`
	IDWorkInfo  flexString `json:"id_WorkInfo"`
	ProjectName string     `json:"projectName"`
	URLGit      string     `json:"urlGit"`
	Description string     `json:"description"`
}

func (r workRecord) toDomain() domain.PortfolioProject {
	return domain.PortfolioProject{
		ID:          string(r.ID),
		CardID:      string(r.IDWorkInfo),
		Name:        r.ProjectName,
		RepoURL:     r.URLGit,
		Description: r.Description,
	}
}
