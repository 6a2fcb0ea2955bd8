package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/freelancehub/workboard/internal/core/domain"
)

const (
	postCustomerPath = "/api/post/customer/"
	postGlobalPath   = "/api/post/global"
)

// PostGateway implements ports.PostGateway.
type PostGateway struct {
	doer Doer
}

func NewPostGateway(doer Doer) *PostGateway {
	return &PostGateway{doer: doer}
}

type postBody struct {
	ProjectName string  `json:"projectName"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

func toPostBody(in domain.PostInput) postBody {
	return postBody{ProjectName: in.Name, Description: in.Description, Price: in.Price}
}

func (g *PostGateway) ListOwn(ctx context.Context, customerID string) ([]domain.Post, error) {
	resp, err := g.doer.Do(ctx, Request{Method: http.MethodGet, Path: postCustomerPath + url.PathEscape(customerID)})
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return decodePosts(resp, "list posts")
}

func (g *PostGateway) Create(ctx context.Context, customerID string, in domain.PostInput) (string, error) {
	resp, err := g.doer.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   postCustomerPath + url.PathEscape(customerID),
		Body:   toPostBody(in),
	})
	if err != nil {
		return "", fmt.Errorf("create post: %w", err)
	}
	var reply idReply
	if err := resp.Decode(&reply); err != nil {
		return "", fmt.Errorf("create post: %w", err)
	}
	return string(reply.ID), nil
}

func (g *PostGateway) Update(ctx context.Context, postID string, in domain.PostInput) error {
	_, err := g.doer.Do(ctx, Request{
		Method: http.MethodPatch,
		Path:   postCustomerPath + url.PathEscape(postID),
		Body:   toPostBody(in),
	})
	if err != nil {
		return fmt.Errorf("update post %s: %w", postID, err)
	}
	return nil
}

func (g *PostGateway) Delete(ctx context.Context, postID string) error {
	_, err := g.doer.Do(ctx, Request{Method: http.MethodDelete, Path: postCustomerPath + url.PathEscape(postID)})
	if err != nil {
		return fmt.Errorf("delete post %s: %w", postID, err)
	}
	return nil
}

// Search pages through the global listing. q is expected to be normalized.
func (g *PostGateway) Search(ctx context.Context, viewerID string, q domain.PostSearch) ([]domain.Post, error) {
	query := url.Values{}
	query.Set("userId", viewerID)
	if q.Like != "" {
		query.Set("like", q.Like)
	}
	if q.PriceMin != nil {
		query.Set("priceMin", strconv.FormatFloat(*q.PriceMin, 'f', -1, 64))
	}
	if q.PriceMax != nil {
		query.Set("priceMax", strconv.FormatFloat(*q.PriceMax, 'f', -1, 64))
	}
	query.Set("sortedColumn", string(q.SortBy))
	if q.Ascending {
		query.Set("sortedParam", "ASC")
	} else {
		query.Set("sortedParam", "DESC")
	}
	query.Set("offset", strconv.Itoa(q.Offset))
	query.Set("limit", strconv.Itoa(q.Limit))

	resp, err := g.doer.Do(ctx, Request{Method: http.MethodGet, Path: postGlobalPath, Query: query})
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	return decodePosts(resp, "search posts")
}

func decodePosts(resp *Response, op string) ([]domain.Post, error) {
	var records []postRecord
	if err := decodeList(resp, &records); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out := make([]domain.Post, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.toDomain())
	}
	return out, nil
}
