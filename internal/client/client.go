// Package client talks to the Tracklet REST API and carries the operator-side
// workflow rules: default assignment dates, latest-wins usage lookups and
// required-field checks made before any request is sent.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sendgrid/rest"

	"tracklet-backend/internal/domain"
	"tracklet-backend/internal/logger"
)

const apiPrefix = "/api/tracklet"

// APIError is a non-2xx answer from the server. Validation failures carry
// the per-field messages.
type APIError struct {
	StatusCode int
	Detail     string
	Fields     map[string][]string
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("tracklet api: status %d: %s", e.StatusCode, (&domain.ValidationError{Fields: e.Fields}).Error())
	}
	return fmt.Sprintf("tracklet api: status %d: %s", e.StatusCode, e.Detail)
}

// Unwrap maps the status onto the domain sentinels so callers can use
// errors.Is and errors.As the same way they would against the services.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest:
		if len(e.Fields) > 0 {
			return &domain.ValidationError{Fields: e.Fields}
		}
		return domain.ErrInvalidTransition
	case http.StatusUnauthorized:
		return domain.ErrUnauthenticated
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		if e.Detail == domain.ErrModuleDisabled.Error() {
			return domain.ErrModuleDisabled
		}
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrConflict
	}
	return nil
}

// Page is one list response. Without a limit the server sends a bare array
// and Count is the number of results.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	rest    *rest.Client
	now     func() time.Time
}

type Option func(*Client)

// WithHTTPClient replaces the transport, e.g. to set timeouts.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.rest = &rest.Client{HTTPClient: hc} }
}

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithClock pins the time used to default check-in stamps.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		rest:    &rest.Client{HTTPClient: &http.Client{Timeout: 30 * time.Second}},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do sends one request and decodes a 2xx body into out. It returns the
// status code so callers can tell 200 from 201.
func (c *Client) do(ctx context.Context, method rest.Method, path string, query url.Values, in, out any) (int, error) {
	req := rest.Request{
		Method:  method,
		BaseURL: c.baseURL + path,
		Headers: map[string]string{"Accept": "application/json"},
	}
	if c.token != "" {
		req.Headers["Authorization"] = "Bearer " + c.token
	}
	if len(query) > 0 {
		req.QueryParams = make(map[string]string, len(query))
		for k := range query {
			req.QueryParams[k] = query.Get(k)
		}
	}
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		req.Body = body
		req.Headers["Content-Type"] = "application/json"
	}

	logger.DebugContext(ctx, "Tracklet API call", "method", method, "path", path)
	resp, err := c.rest.SendWithContext(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, decodeAPIError(resp)
	}
	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.Unmarshal([]byte(resp.Body), out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
	}
	return resp.StatusCode, nil
}

func decodeAPIError(resp *rest.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal([]byte(resp.Body), &detail); err == nil && detail.Detail != "" {
		apiErr.Detail = detail.Detail
		return apiErr
	}

	var fields map[string][]string
	if err := json.Unmarshal([]byte(resp.Body), &fields); err == nil && len(fields) > 0 {
		if msgs, ok := fields["non_field_errors"]; ok {
			delete(fields, "non_field_errors")
			fields[""] = msgs
		}
		apiErr.Fields = fields
		return apiErr
	}

	apiErr.Detail = http.StatusText(resp.StatusCode)
	return apiErr
}

// list fetches one page. It accepts both the envelope and the bare array.
func list[T any](ctx context.Context, c *Client, path string, query url.Values) (Page[T], error) {
	var raw json.RawMessage
	if _, err := c.do(ctx, rest.Get, path, query, nil, &raw); err != nil {
		return Page[T]{}, err
	}

	var page Page[T]
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &page.Results); err != nil {
			return Page[T]{}, fmt.Errorf("decode %s list: %w", path, err)
		}
		page.Count = len(page.Results)
		return page, nil
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return Page[T]{}, fmt.Errorf("decode %s page: %w", path, err)
	}
	return page, nil
}

func detailPath(collection string, id int32) string {
	return apiPrefix + "/" + collection + "/" + strconv.Itoa(int(id)) + "/"
}

func collectionPath(collection string) string {
	return apiPrefix + "/" + collection + "/"
}
