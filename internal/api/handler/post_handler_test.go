package handler

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/freelancehub/workboard/internal/core/domain"
)

func TestPostHandler_MineAndMutations(t *testing.T) {
	ws := newStubWorkspace()
	ws.posts.posts = []domain.Post{{ID: "1", Name: "Shop"}}
	h := NewPostHandler()

	c, rec := newContext(ws, customer, http.MethodGet, "/v1/posts", "")
	if err := h.Mine(c); err != nil {
		t.Fatalf("mine: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, rec = newContext(ws, customer, http.MethodPost, "/v1/posts", `{"projectName":"Blog","description":"d","price":10}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	c, _ = newContext(ws, customer, http.MethodPatch, "/v1/posts/1", `{"projectName":"Shop 2","description":"d","price":10}`)
	c.SetParamNames("postId")
	c.SetParamValues("1")
	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}

	c, _ = newContext(ws, customer, http.MethodDelete, "/v1/posts/1", "")
	c.SetParamNames("postId")
	c.SetParamValues("1")
	if err := h.Delete(c); err != nil {
		t.Fatalf("delete: %v", err)
	}

	want := []string{"create||Blog", "update|1|Shop 2", "delete|1|"}
	if !reflect.DeepEqual(ws.posts.calls, want) {
		t.Fatalf("expected %v, got %v", want, ws.posts.calls)
	}
}

func TestPostHandler_MutationsOutliveClientDisconnect(t *testing.T) {
	ws := newStubWorkspace()
	c, _ := newContext(ws, customer, http.MethodPost, "/v1/posts", `{"projectName":"Blog","description":"d","price":10}`)
	ctx, cancel := context.WithCancel(c.Request().Context())
	cancel()
	c.SetRequest(c.Request().WithContext(ctx))

	if err := NewPostHandler().Create(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(ws.posts.ctxErrs) != 1 || ws.posts.ctxErrs[0] != nil {
		t.Fatalf("create must run on a live context, got %v", ws.posts.ctxErrs)
	}
}

func TestPostHandler_SearchBindsQuery(t *testing.T) {
	ws := newStubWorkspace()
	c, rec := newContext(ws, customer, http.MethodGet,
		"/v1/posts/search?like=shop&priceMin=50&sort=price&order=asc&offset=30&limit=10", "")

	if err := NewPostHandler().Search(c); err != nil {
		t.Fatalf("search: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	q := ws.posts.search
	if q.Like != "shop" || q.PriceMin == nil || *q.PriceMin != 50 || q.PriceMax != nil {
		t.Fatalf("unexpected filters: %+v", q)
	}
	if q.SortBy != domain.SortByPrice || !q.Ascending || q.Offset != 30 || q.Limit != 10 {
		t.Fatalf("unexpected paging: %+v", q)
	}
}

func TestPostHandler_SearchRejectsOrder(t *testing.T) {
	ws := newStubWorkspace()
	c, _ := newContext(ws, customer, http.MethodGet, "/v1/posts/search?order=sideways", "")

	err := NewPostHandler().Search(c)
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) || apiErr.Fields["order"]["oneof"] == "" {
		t.Fatalf("expected order validation error, got %v", err)
	}
}

func TestPostHandler_SearchBadNumber(t *testing.T) {
	ws := newStubWorkspace()
	c, _ := newContext(ws, customer, http.MethodGet, "/v1/posts/search?limit=many", "")

	if err := NewPostHandler().Search(c); err == nil {
		t.Fatalf("expected a bind error for a non-numeric limit")
	}
}
