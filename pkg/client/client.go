// Package client is a small HTTP client for the mentor API. It mirrors
// the server's JSON wire format and maps error codes back to sentinel
// errors checkable with errors.Is.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client talks to one mentor API server.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithAPIKey sets the bearer token sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Chat asks a course question and returns the grounded reply.
func (c *Client) Chat(ctx context.Context, question string) (ChatReply, error) {
	var out ChatReply
	err := c.do(ctx, http.MethodPost, "/api/v1/chat", chatRequest{Question: question}, &out)
	return out, err
}

// Recommend ranks majors against the onboarding answers. question is an
// optional free-text fallback used when answers are empty.
func (c *Client) Recommend(ctx context.Context, answers map[string]any, question string) (Recommendation, error) {
	var out Recommendation
	err := c.do(ctx, http.MethodPost, "/api/v1/recommend",
		recommendRequest{Answers: answers, Question: question}, &out)
	return out, err
}

// Majors lists catalog entries. A non-empty query searches the catalog;
// limit <= 0 uses the server default.
func (c *Client) Majors(ctx context.Context, query string, limit int) (MajorList, error) {
	path := "/api/v1/majors"
	q := url.Values{}
	if query != "" {
		q.Set("query", query)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out MajorList
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// Career returns the career payload for a major by name or alias.
func (c *Client) Career(ctx context.Context, name string) (Career, error) {
	var out Career
	err := c.do(ctx, http.MethodGet, "/api/v1/majors/"+url.PathEscape(name)+"/career", nil, &out)
	return out, err
}

// Universities lists universities offering the named major.
func (c *Client) Universities(ctx context.Context, name string) (UniversityList, error) {
	var out UniversityList
	err := c.do(ctx, http.MethodGet, "/api/v1/majors/"+url.PathEscape(name)+"/universities", nil, &out)
	return out, err
}

// Usage returns the token usage report. period is "day", "month" or
// "total"; empty means month.
func (c *Client) Usage(ctx context.Context, period string) (UsageReport, error) {
	path := "/api/v1/usage"
	if period != "" {
		path += "?period=" + url.QueryEscape(period)
	}

	var out UsageReport
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// Health pings the server. A degraded or unreachable server returns an error.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
	}

	var req *http.Request
	var err error
	if reqBody != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return parseAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("client: decode response: %w", err)
		}
	}
	return nil
}
