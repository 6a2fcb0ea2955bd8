package domain

import "strings"

// Post is a customer's job offer. Executors find posts through search and
// bid on them; an accepted bid becomes a Project.
type Post struct {
	ID          string  `json:"id"`
	Name        string  `json:"projectName"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// PostInput is the editable part of a post.
type PostInput struct {
	Name        string
	Description string
	Price       float64
}

func (in PostInput) Validate() error {
	errs := fieldErrors{}
	if strings.TrimSpace(in.Name) == "" {
		errs.add("projectName", "required", "projectName is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		errs.add("description", "required", "description is required")
	}
	if in.Price <= 0 {
		errs.add("price", "min", "price must be greater than zero")
	}
	return errs.err()
}

// Search defaults, matching the marketplace's own listing.
const (
	DefaultSearchLimit = 30
	MaxSearchLimit     = 100
)

// PostSortColumn is a column the backend can order search results by.
type PostSortColumn string

const (
	SortByID    PostSortColumn = "id"
	SortByPrice PostSortColumn = "price"
	SortByName  PostSortColumn = "projectName"
)

// PostSearch filters the global post listing. Zero values mean "no filter";
// results default to the newest posts first.
type PostSearch struct {
	Like      string
	PriceMin  *float64
	PriceMax  *float64
	SortBy    PostSortColumn
	Ascending bool
	Offset    int
	Limit     int
}

// Normalize fills defaults and rejects filters the backend cannot serve.
func (s PostSearch) Normalize() (PostSearch, error) {
	errs := fieldErrors{}
	s.Like = strings.TrimSpace(s.Like)

	switch s.SortBy {
	case "":
		s.SortBy = SortByID
	case SortByID, SortByPrice, SortByName:
	default:
		errs.add("sort", "oneof", "sort must be one of: id price projectName")
	}
	if s.PriceMin != nil && *s.PriceMin < 0 {
		errs.add("priceMin", "min", "priceMin must not be negative")
	}
	if s.PriceMax != nil && *s.PriceMax < 0 {
		errs.add("priceMax", "min", "priceMax must not be negative")
	}
	if s.PriceMin != nil && s.PriceMax != nil && *s.PriceMin > *s.PriceMax {
		errs.add("priceMax", "gtefield", "priceMax must not be below priceMin")
	}
	if s.Offset < 0 {
		errs.add("offset", "min", "offset must not be negative")
	}
	switch {
	case s.Limit < 0:
		errs.add("limit", "min", "limit must not be negative")
	case s.Limit == 0:
		s.Limit = DefaultSearchLimit
	case s.Limit > MaxSearchLimit:
		s.Limit = MaxSearchLimit
	}
	return s, errs.err()
}

// Bid is an executor's offer on a post.
type Bid struct {
	PostID         string
	SuggestedPrice float64
}

func (b Bid) Validate() error {
	errs := fieldErrors{}
	if strings.TrimSpace(b.PostID) == "" {
		errs.add("postId", "required", "postId is required")
	}
	if b.SuggestedPrice <= 0 {
		errs.add("suggestedPrice", "min", "suggestedPrice must be greater than zero")
	}
	return errs.err()
}
