package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/freelancehub/workboard/internal/core/domain"
	"github.com/freelancehub/workboard/internal/core/ports"
)

func loginInput(login, password string, role domain.Role) ports.LoginInput {
	return ports.LoginInput{Login: login, Password: password, Role: role}
}

// capturedRequest is what the fake backend saw.
type capturedRequest struct {
	method string
	path   string
	query  map[string]string
	body   []byte
}

// captureLog collects what the fake backend saw.
type captureLog struct {
	mu   sync.Mutex
	reqs []capturedRequest
}

func (l *captureLog) at(i int) capturedRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reqs[i]
}

func (l *captureLog) all() []capturedRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]capturedRequest(nil), l.reqs...)
}

func captureServer(t *testing.T, status int, reply string) (*httptest.Server, *captureLog) {
	t.Helper()
	seen := &captureLog{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		q := map[string]string{}
		for k, v := range r.URL.Query() {
			q[k] = v[0]
		}
		seen.mu.Lock()
		seen.reqs = append(seen.reqs, capturedRequest{method: r.Method, path: r.URL.Path, query: q, body: body})
		seen.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv, seen
}

func TestProjectGateway_ListByRole(t *testing.T) {
	reply := `[
		{"id": 42, "projectName": "Landing", "customerId": 7, "usernameCustomer": "alice",
		 "executorId": "9", "usernameExecutor": "bob", "price": "1500.50",
		 "deadlineDate": "2026-11-01", "status": "В процессе", "rating": 0},
		{"id": 43, "projectName": "Logo", "customerId": 7, "price": 300,
		 "status": "Завершен", "rating": 4}
	]`
	srv, seen := captureServer(t, http.StatusOK, reply)
	g := NewProjectGateway(newTestClient(t, srv.URL), false)

	projects, err := g.List(context.Background(), ports.ProjectQuery{UserID: "9", Role: domain.RoleExecutor})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := seen.at(0).query; got["executorId"] != "9" || got["customerId"] != "" {
		t.Fatalf("executor must be queried by executorId, got %v", got)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}
	p := projects[0]
	if p.ID != "42" || p.Status != domain.StatusInProgress || p.Price != 1500.5 || p.Rating != nil {
		t.Fatalf("unexpected first project: %+v", p)
	}
	if projects[1].Rating == nil || *projects[1].Rating != 4 {
		t.Fatalf("expected completed project rating 4, got %+v", projects[1].Rating)
	}

	if _, err := g.List(context.Background(), ports.ProjectQuery{UserID: "7", Role: domain.RoleCustomer, Status: domain.StatusCompleted}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := seen.at(1).query; got["customerId"] != "7" || got["status"] != "Завершен" {
		t.Fatalf("customer archive must filter by customerId and status label, got %v", got)
	}
}

func TestProjectGateway_UnknownStatus(t *testing.T) {
	srv, _ := captureServer(t, http.StatusOK, `[{"id": 1, "status": "Удален"}]`)
	g := NewProjectGateway(newTestClient(t, srv.URL), false)

	_, err := g.List(context.Background(), ports.ProjectQuery{UserID: "7"})
	if !errors.Is(err, domain.ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got %v", err)
	}
}

func TestProjectGateway_LegacyBodies(t *testing.T) {
	srv, seen := captureServer(t, http.StatusOK, ``)
	g := NewProjectGateway(newTestClient(t, srv.URL), false)
	ctx := context.Background()

	if err := g.Suspend(ctx, "42"); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if err := g.Resume(ctx, "42", "2026-12-01"); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if err := g.Rate(ctx, "42", 5); err != nil {
		t.Fatalf("rate: %v", err)
	}

	reqs := seen.all()
	for _, r := range reqs {
		if r.method != http.MethodPatch || r.path != "/api/project" || r.query["projectId"] != "42" {
			t.Fatalf("unexpected request: %+v", r)
		}
	}
	if len(reqs[0].body) != 0 {
		t.Fatalf("legacy suspend must have no body, got %s", reqs[0].body)
	}
	assertJSON(t, reqs[1].body, map[string]any{"deadlineDate": "2026-12-01"})
	assertJSON(t, reqs[2].body, map[string]any{"rating": float64(5)})
}

func TestProjectGateway_ExplicitIntent(t *testing.T) {
	srv, seen := captureServer(t, http.StatusOK, ``)
	b, err := New(Config{BaseURL: srv.URL, ExplicitIntent: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("backend: %v", err)
	}
	c, _ := b.NewClient()
	g := b.ProjectsFor(c)
	ctx := context.Background()

	_ = g.Suspend(ctx, "42")
	_ = g.Resume(ctx, "42", "2026-12-01")
	_ = g.Rate(ctx, "42", 3)

	reqs := seen.all()
	assertJSON(t, reqs[0].body, map[string]any{"action": "suspend"})
	assertJSON(t, reqs[1].body, map[string]any{"action": "resume", "deadlineDate": "2026-12-01"})
	assertJSON(t, reqs[2].body, map[string]any{"action": "complete", "rating": float64(3)})
}

func TestProjectGateway_ServerMessageVerbatim(t *testing.T) {
	srv, _ := captureServer(t, http.StatusBadRequest, `{"message": "Проект уже завершен"}`)
	g := NewProjectGateway(newTestClient(t, srv.URL), false)

	err := g.Suspend(context.Background(), "42")
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) || apiErr.Error() != "Проект уже завершен" {
		t.Fatalf("expected verbatim server message, got %v", err)
	}
}

func TestAuthGateway_LoginTwoFactorChallenge(t *testing.T) {
	srv, seen := captureServer(t, http.StatusOK, `{"id": 7, "role": "C"}`)
	g := NewAuthGateway(newTestClient(t, srv.URL))

	res, err := g.Login(context.Background(), loginInput("alice", "pw", domain.RoleCustomer))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AccessToken != "" || res.UserID != "7" || res.Role != domain.RoleCustomer {
		t.Fatalf("expected challenge result, got %+v", res)
	}
	assertJSON(t, seen.at(0).body, map[string]any{"login": "alice", "password": "pw", "role_user": "C"})
}

func TestAuthGateway_VerifyTwoFactor(t *testing.T) {
	srv, seen := captureServer(t, http.StatusOK, `{"access": "tok"}`)
	g := NewAuthGateway(newTestClient(t, srv.URL))

	token, err := g.VerifyTwoFactor(context.Background(), ports.TwoFactorInput{UserID: "7", Role: domain.RoleExecutor, Code: "123456"})
	if err != nil || token != "tok" {
		t.Fatalf("expected token, got %q %v", token, err)
	}
	r := seen.at(0)
	if r.path != "/api/two-factor-auth/proof-code" {
		t.Fatalf("unexpected path %s", r.path)
	}
	assertJSON(t, r.body, map[string]any{"id": "7", "role": "E", "code": "123456"})
}

func TestAccountGateway_UserInfo(t *testing.T) {
	reply := `{"resultData": {"username": "alice", "email": "a@example.com", "phone_number": null, "rating": "4.5"},
		"imageInfo": {"avatar_name": "a.png"}}`
	srv, seen := captureServer(t, http.StatusOK, reply)
	c := newTestClient(t, srv.URL)
	g := NewAccountGateway(c, c)

	info, err := g.UserInfo(context.Background(), "7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen.at(0).path != "/api/users/info/7" {
		t.Fatalf("unexpected path %s", seen.at(0).path)
	}
	if info.Username != "alice" || info.Rating != 4.5 || info.AvatarName != "a.png" || info.PhoneNumber != "" {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestAccountGateway_ConfirmEmail(t *testing.T) {
	srv, seen := captureServer(t, http.StatusOK, ``)
	c := newTestClient(t, srv.URL)
	g := NewAccountGateway(c, c)

	if err := g.ConfirmEmail(context.Background(), "abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := seen.at(0)
	if r.method != http.MethodPut || r.path != "/api/email/proof" || r.query["token"] != "abc" {
		t.Fatalf("unexpected request: %+v", r)
	}
}

func TestFeedbackGateway_ListAndAccept(t *testing.T) {
	reply := `[{"id": 1, "postId": 3, "userId": 9, "suggestedPrice": 1000,
		"createdAt": "2026-10-01T10:00:00Z",
		"post": {"project_name": "Landing", "price": "1200"},
		"executor": {"id": 9, "username": "bob", "rating_count": 4, "rating_sum": 18}}]`
	srv, seen := captureServer(t, http.StatusOK, reply)
	g := NewFeedbackGateway(newTestClient(t, srv.URL))
	ctx := context.Background()

	list, err := g.List(ctx, ports.FeedbackQuery{PostID: "3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].ExecutorRating != 4.5 || list[0].PostName != "Landing" || list[0].PostPrice != 1200 {
		t.Fatalf("unexpected feedback: %+v", list)
	}

	_ = g.Accept(ctx, "1", "2026-12-01")
	r := seen.at(1)
	if r.method != http.MethodPost || r.path != "/api/feedback/accept" || r.query["feedbackId"] != "1" {
		t.Fatalf("unexpected accept request: %+v", r)
	}
	assertJSON(t, r.body, map[string]any{"deadlineDate": "2026-12-01"})

	_ = g.Reject(ctx, "1")
	if r := seen.at(2); r.method != http.MethodDelete || r.path != "/api/feedback/reject" {
		t.Fatalf("unexpected reject request: %+v", r)
	}
}

func TestDecodeAPIError_Shapes(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		field string
		msg   string
	}{
		{"nested", `{"errors": {"email": {"format": "bad email"}}}`, "email", "bad email"},
		{"flat", `{"errors": {"email": "bad email"}}`, "email", "bad email"},
		{"list", `{"errors": {"email": ["bad email", "too long"]}}`, "email", "bad email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			apiErr := decodeAPIError(&Response{StatusCode: 422, Body: []byte(tc.body)})
			if got := apiErr.FieldMessages()[tc.field]; got != tc.msg {
				t.Fatalf("expected %q, got %q", tc.msg, got)
			}
		})
	}

	plain := decodeAPIError(&Response{StatusCode: 500, Body: []byte("internal failure")})
	if plain.Error() != "internal failure" {
		t.Fatalf("expected plain text message, got %q", plain.Error())
	}
}

func assertJSON(t *testing.T, body []byte, want map[string]any) {
	t.Helper()
	var got map[string]any
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("body %q is not json: %v", body, err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("field %s: expected %v, got %v", k, v, got[k])
		}
	}
}
