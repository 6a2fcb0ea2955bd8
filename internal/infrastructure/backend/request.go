package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/freelancehub/workboard/internal/core/domain"
)

// Request describes a backend call. Path is relative to the configured base
// URL; Body, when non-nil, is sent as JSON. Raw is sent as it is with
// ContentType and takes precedence over Body.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Header      http.Header
	Body        any
	Raw         []byte
	ContentType string
}

// Response is a fully read backend response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the JSON body into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if len(strings.TrimSpace(string(r.Body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: malformed response body: %w", domain.ErrTransport, err)
	}
	return nil
}

// Doer sends a request and returns 2xx responses; anything else is an error.
// Both *Client (unauthenticated) and *SessionManager implement it.
type Doer interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

func finish(resp *Response) (*Response, error) {
	if resp.OK() {
		return resp, nil
	}
	return nil, decodeAPIError(resp)
}

// errorPayload covers the error shapes the backend is known to send:
// {"message": "..."}, {"error": "..."} and a per-field map under "errors".
type errorPayload struct {
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Errors  json.RawMessage `json:"errors"`
}

func decodeAPIError(resp *Response) *domain.APIError {
	apiErr := &domain.APIError{Status: resp.StatusCode}

	var payload errorPayload
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		// Plain-text error bodies are surfaced as they are.
		apiErr.Message = strings.TrimSpace(string(resp.Body))
		return apiErr
	}

	apiErr.Message = payload.Message
	if apiErr.Message == "" {
		apiErr.Message = payload.Error
	}
	apiErr.Fields = decodeFieldErrors(payload.Errors)
	return apiErr
}

// decodeFieldErrors accepts field -> rule -> message, field -> message, and
// field -> [messages].
func decodeFieldErrors(raw json.RawMessage) map[string]map[string]string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var nested map[string]map[string]string
	if err := json.Unmarshal(raw, &nested); err == nil {
		return nested
	}

	var flat map[string]string
	if err := json.Unmarshal(raw, &flat); err == nil {
		out := make(map[string]map[string]string, len(flat))
		for field, msg := range flat {
			out[field] = map[string]string{"invalid": msg}
		}
		return out
	}

	var lists map[string][]string
	if err := json.Unmarshal(raw, &lists); err == nil {
		out := make(map[string]map[string]string, len(lists))
		for field, msgs := range lists {
			rules := make(map[string]string, len(msgs))
			for i, msg := range msgs {
				rules[fmt.Sprintf("%d", i)] = msg
			}
			out[field] = rules
		}
		return out
	}
	return nil
}
