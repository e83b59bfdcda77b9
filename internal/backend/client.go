// Package backend is a REST client for the job tracker backend's
// /applications resource.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/jobtracker/internal/core"
)

// DefaultTimeout bounds a single backend request.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is kept as the message.
const maxErrorBody = 4 << 10

// APIError is returned for any non-2xx backend response.
type APIError struct {
	StatusCode int
	Message    string // response body, or "HTTP error <status>" when empty
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// HTTPStatus implements core.StatusError.
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}

// Is lets a 404 match core.ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == core.ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client talks to the backend over HTTP.
type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sends "Authorization: Bearer <token>" on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// New creates a client for the backend at baseURL, e.g. "http://localhost:8080/api".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend url must be http or https: %q", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListPage fetches one page of applications.
func (c *Client) ListPage(ctx context.Context, req core.PageRequest) (core.Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(req.Page))
	if req.Size > 0 {
		q.Set("size", strconv.Itoa(req.Size))
	}
	if req.Sort != "" {
		q.Set("sort", req.Sort)
	}
	if req.Status != "" {
		q.Set("status", string(req.Status))
	}
	if req.FollowUpOverdue {
		q.Set("followUpOverdue", "true")
	} else if req.FollowUpDue {
		q.Set("followUpDue", "true")
	}

	var page core.Page
	if err := c.do(ctx, http.MethodGet, "/applications", q, nil, &page); err != nil {
		return core.Page{}, err
	}
	return page, nil
}

// Create submits a new application.
func (c *Client) Create(ctx context.Context, app core.NewApplication) (core.Application, error) {
	var created core.Application
	if err := c.do(ctx, http.MethodPost, "/applications", nil, app, &created); err != nil {
		return core.Application{}, err
	}
	return created, nil
}

// Get fetches one application.
func (c *Client) Get(ctx context.Context, id int64) (core.Application, error) {
	var app core.Application
	if err := c.do(ctx, http.MethodGet, applicationPath(id), nil, nil, &app); err != nil {
		return core.Application{}, err
	}
	return app, nil
}

// Update replaces an application.
func (c *Client) Update(ctx context.Context, id int64, app core.NewApplication) (core.Application, error) {
	var updated core.Application
	if err := c.do(ctx, http.MethodPut, applicationPath(id), nil, app, &updated); err != nil {
		return core.Application{}, err
	}
	return updated, nil
}

// PatchStatus changes the status of an application.
func (c *Client) PatchStatus(ctx context.Context, id int64, status core.Status) (core.Application, error) {
	body := map[string]core.Status{"status": status}

	var updated core.Application
	if err := c.do(ctx, http.MethodPatch, applicationPath(id)+"/status", nil, body, &updated); err != nil {
		return core.Application{}, err
	}
	return updated, nil
}

// Delete removes an application.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, applicationPath(id), nil, nil, nil)
}

// StatusHistory lists the status changes of an application, newest first.
func (c *Client) StatusHistory(ctx context.Context, id int64) ([]core.StatusChange, error) {
	var history []core.StatusChange
	if err := c.do(ctx, http.MethodGet, applicationPath(id)+"/history", nil, nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func applicationPath(id int64) string {
	return "/applications/" + strconv.FormatInt(id, 10)
}

// do sends one JSON request. A nil body sends no payload; a nil out discards
// the response body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func newAPIError(resp *http.Response) *APIError {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(data))
	if msg == "" {
		msg = fmt.Sprintf("HTTP error %d", resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

var (
	_ core.Repository  = (*Client)(nil)
	_ core.StatusError = (*APIError)(nil)
)
